package content

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ResourceKind names one shelf of the resource library.
type ResourceKind string

const (
	KindArticle  ResourceKind = "articles"
	KindBook     ResourceKind = "books"
	KindResearch ResourceKind = "research"
	KindTool     ResourceKind = "tools"
)

// ResourceKinds returns the shelves in display order.
func ResourceKinds() []ResourceKind {
	return []ResourceKind{KindArticle, KindBook, KindResearch, KindTool}
}

func (k ResourceKind) Label() string {
	switch k {
	case KindArticle:
		return "Artykuły"
	case KindBook:
		return "Książki"
	case KindResearch:
		return "Badania"
	case KindTool:
		return "Narzędzia"
	default:
		return string(k)
	}
}

// ResourceSort orders a shelf.
type ResourceSort int

const (
	SortNewest ResourceSort = iota
	SortPopular
	SortAlphabetical
)

func (s ResourceSort) Label() string {
	switch s {
	case SortPopular:
		return "Najpopularniejsze"
	case SortAlphabetical:
		return "Alfabetycznie"
	default:
		return "Najnowsze"
	}
}

// Next cycles through the orderings.
func (s ResourceSort) Next() ResourceSort { return (s + 1) % 3 }

// Resource is one library entry. Kinds use different subsets of fields:
// articles carry views and read time, books a year and publisher,
// research a list of authors and a DOI, tools a price.
type Resource struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Summary       string   `json:"summary,omitempty"`
	Description   string   `json:"description,omitempty"`
	Author        string   `json:"author,omitempty"`
	Authors       []string `json:"authors,omitempty"`
	Institution   string   `json:"institution,omitempty"`
	PublishedDate string   `json:"published_date,omitempty"`
	PublishedYear int      `json:"published_year,omitempty"`
	Publisher     string   `json:"publisher,omitempty"`
	Category      string   `json:"category"`
	Tags          []string `json:"tags,omitempty"`
	ReadTime      int      `json:"read_time,omitempty"`
	Views         int      `json:"views,omitempty"`
	Featured      bool     `json:"featured,omitempty"`
	Rating        float64  `json:"rating,omitempty"`
	ISBN          string   `json:"isbn,omitempty"`
	DOI           string   `json:"doi,omitempty"`
	URL           string   `json:"url,omitempty"`
	Price         string   `json:"price,omitempty"`
}

// Text is the summary, or the description for tools.
func (r Resource) Text() string {
	if r.Summary != "" {
		return r.Summary
	}
	return r.Description
}

// Byline joins the author or authors.
func (r Resource) Byline() string {
	if r.Author != "" {
		return r.Author
	}
	return strings.Join(r.Authors, ", ")
}

// Library is the whole resources file keyed by shelf.
type Library map[ResourceKind][]Resource

// ResourceQuery selects and orders one shelf. An empty Category means all.
type ResourceQuery struct {
	Kind     ResourceKind
	Search   string
	Category string
	Sort     ResourceSort
}

// Categories lists every category used in the library in Polish
// alphabetical order.
func (l Library) Categories() []string {
	seen := map[string]bool{}
	var out []string
	for _, items := range l {
		for _, r := range items {
			if r.Category != "" && !seen[r.Category] {
				seen[r.Category] = true
				out = append(out, r.Category)
			}
		}
	}
	collate.New(language.Polish).SortStrings(out)
	return out
}

// Find filters a shelf by search text and category and sorts it.
func (l Library) Find(q ResourceQuery) []Resource {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(q.Search))

	var out []Resource
	for _, r := range l[q.Kind] {
		if q.Category != "" && r.Category != q.Category {
			continue
		}
		if needle != "" && !matches(fold, r, q.Kind, needle) {
			continue
		}
		out = append(out, r)
	}
	sortResources(out, q.Kind, q.Sort)
	return out
}

// Featured returns up to two highlighted articles. Highlights only show on
// the unfiltered article shelf.
func (l Library) Featured(q ResourceQuery) []Resource {
	if q.Kind != KindArticle || strings.TrimSpace(q.Search) != "" || q.Category != "" {
		return nil
	}
	var out []Resource
	for _, r := range l.Find(q) {
		if r.Featured {
			out = append(out, r)
		}
		if len(out) == 2 {
			break
		}
	}
	return out
}

func matches(fold cases.Caser, r Resource, kind ResourceKind, needle string) bool {
	fields := []string{r.Title, r.Text()}
	if kind == KindBook || kind == KindResearch {
		fields = append(fields, r.Byline())
	}
	fields = append(fields, r.Tags...)
	for _, f := range fields {
		if strings.Contains(fold.String(f), needle) {
			return true
		}
	}
	return false
}

// sortResources orders items. Shelves without the natural key fall back:
// research has no popularity so it sorts by date, tools have no date so
// they sort by rating.
func sortResources(items []Resource, kind ResourceKind, by ResourceSort) {
	var less func(a, b Resource) bool
	newest := func(a, b Resource) bool { return a.PublishedDate > b.PublishedDate }
	rated := func(a, b Resource) bool { return a.Rating > b.Rating }

	switch by {
	case SortAlphabetical:
		c := collate.New(language.Polish)
		less = func(a, b Resource) bool { return c.CompareString(a.Title, b.Title) < 0 }
	case SortPopular:
		switch kind {
		case KindArticle:
			less = func(a, b Resource) bool { return a.Views > b.Views }
		case KindResearch:
			less = newest
		default:
			less = rated
		}
	default:
		switch kind {
		case KindBook:
			less = func(a, b Resource) bool { return a.PublishedYear > b.PublishedYear }
		case KindTool:
			less = rated
		default:
			less = newest
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
}
