package progress

// AchievementDef describes an achievement that can be granted. The persisted
// id is always Slugify(Name).
type AchievementDef struct {
	Name        string
	Description string
	Icon        string
}

// ID returns the id the achievement is stored under.
func (d AchievementDef) ID() string { return Slugify(d.Name) }

var (
	// FirstStep is granted for the first completed lesson.
	FirstStep = AchievementDef{
		Name:        "Pierwszy Krok",
		Description: "Ukończyłeś swoją pierwszą lekcję!",
		Icon:        "📚",
	}
	// SelfAware is granted for the first finished typology test.
	SelfAware = AchievementDef{
		Name:        "Samoświadomy Lider",
		Description: "Wykonałeś swój pierwszy test neuroleaderski i poznałeś swój typ!",
		Icon:        "🔍",
	}
)

// Catalog returns every achievement the application grants, in display order.
func Catalog() []AchievementDef {
	return []AchievementDef{FirstStep, SelfAware}
}
