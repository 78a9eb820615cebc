package assessment

// Category is one of the six neuroleader types a test can produce.
type Category string

const (
	CategoryAnalyst    Category = "neuroanalityk"
	CategoryReactor    Category = "neuroreaktor"
	CategoryBalancer   Category = "neurobalanser"
	CategoryEmpath     Category = "neuroempata"
	CategoryInnovator  Category = "neuroinnowator"
	CategoryInspirator Category = "neuroinspirator"
)

// AllCategories returns the closed category set in declaration order.
// PriorityTieBreaker relies on this order.
func AllCategories() []Category {
	return []Category{
		CategoryAnalyst,
		CategoryReactor,
		CategoryBalancer,
		CategoryEmpath,
		CategoryInnovator,
		CategoryInspirator,
	}
}

// Valid reports whether c is one of the six known categories.
func (c Category) Valid() bool {
	for _, known := range AllCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// DisplayName returns the Polish label used across the course.
func (c Category) DisplayName() string {
	switch c {
	case CategoryAnalyst:
		return "Neuroanalityk"
	case CategoryReactor:
		return "Neuroreaktor"
	case CategoryBalancer:
		return "Neurobalanser"
	case CategoryEmpath:
		return "Neuroempata"
	case CategoryInnovator:
		return "Neuroinnowator"
	case CategoryInspirator:
		return "Neuroinspirator"
	default:
		return string(c)
	}
}
