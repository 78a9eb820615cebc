package content

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"

	"github.com/abhisek/brainventure/internal/apperr"
	"github.com/abhisek/brainventure/internal/assessment"
	"github.com/abhisek/brainventure/internal/logger"
)

// File names inside a content root.
const (
	QuestionsFile = "neuroleader_type_test.json"
	TypesFile     = "neuroleader_types.json"
	CourseFile    = "course_structure.json"
	ResourcesFile = "resources.json"
	TypesDir      = "neuroleader_types"
)

//go:embed data
var embedded embed.FS

// NeuroleaderType is the descriptive card for one category.
type NeuroleaderType struct {
	ID               assessment.Category `json:"id"`
	Name             string              `json:"name"`
	Icon             string              `json:"icon"`
	ShortDescription string              `json:"short_description"`
	Superpower       string              `json:"supermoc"`
	Weakness         string              `json:"slabość"`
	Neurobiology     string              `json:"neurobiologia"`
	MarkdownFile     string              `json:"markdown_file,omitempty"`

	// Markdown is the body of MarkdownFile, filled by Repository.Type.
	Markdown string `json:"-"`
}

// Repository reads course content from a file tree. It is read-only.
type Repository struct {
	fsys     fs.FS
	log      *logger.Logger
	embedded bool
}

// New returns a repository over fsys.
func New(fsys fs.FS, log *logger.Logger) *Repository {
	if log == nil {
		log = logger.Nop()
	}
	return &Repository{fsys: fsys, log: log}
}

// Embedded returns the repository compiled into the binary.
func Embedded(log *logger.Logger) *Repository {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic(fmt.Sprintf("content: embedded data missing: %v", err))
	}
	r := New(sub, log)
	r.embedded = true
	return r
}

// Open returns a repository over dir, or the embedded content when dir is
// empty.
func Open(dir string, log *logger.Logger) (*Repository, error) {
	if dir == "" {
		return Embedded(log), nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, apperr.Configuration("content_dir", "Katalog z treściami nie istnieje.", err)
	}
	if !info.IsDir() {
		return nil, apperr.Configuration("content_dir", "Ścieżka treści nie jest katalogiem.", nil)
	}
	return New(os.DirFS(dir), log), nil
}

func (r *Repository) read(name string, schema *Schema, v any) error {
	raw, err := fs.ReadFile(r.fsys, name)
	if err != nil {
		r.log.Error("content file unreadable", "file", name, "error", err)
		return apperr.Content("read_failed", "read "+name, err).With("file", name)
	}
	if err := validateJSON(schema, raw); err != nil {
		r.log.Error("content file invalid", "file", name, "error", err)
		return apperr.Content("invalid", "validate "+name, err).With("file", name)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return apperr.Content("decode_failed", "decode "+name, err).With("file", name)
	}
	return nil
}

// Questions returns the questionnaire in file order.
func (r *Repository) Questions() ([]assessment.Question, error) {
	var doc struct {
		Questions []assessment.Question `json:"questions"`
	}
	if err := r.read(QuestionsFile, QuestionsSchema, &doc); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(doc.Questions))
	for _, q := range doc.Questions {
		if seen[q.ID] {
			return nil, apperr.Content("duplicate_question", "duplicate question id "+q.ID, nil).
				With("file", QuestionsFile)
		}
		seen[q.ID] = true
	}
	return doc.Questions, nil
}

// Types returns every type card without markdown bodies.
func (r *Repository) Types() ([]NeuroleaderType, error) {
	var types []NeuroleaderType
	if err := r.read(TypesFile, TypesSchema, &types); err != nil {
		return nil, err
	}
	return types, nil
}

// Type returns one type card with its markdown body loaded when the card
// references one. A missing body is logged and left empty.
func (r *Repository) Type(id assessment.Category) (*NeuroleaderType, error) {
	types, err := r.Types()
	if err != nil {
		return nil, err
	}
	for i := range types {
		t := &types[i]
		if t.ID != id {
			continue
		}
		if t.MarkdownFile != "" {
			body, err := fs.ReadFile(r.fsys, path.Join(TypesDir, t.MarkdownFile))
			if err != nil {
				r.log.Warn("type markdown missing", "type", string(id), "file", t.MarkdownFile, "error", err)
			} else {
				t.Markdown = string(body)
			}
		}
		return t, nil
	}
	return nil, apperr.Content("unknown_type", fmt.Sprintf("no type card for %q", id), nil)
}

// Course returns the course tree.
func (r *Repository) Course() (Course, error) {
	var c Course
	if err := r.read(CourseFile, CourseSchema, &c); err != nil {
		return nil, err
	}
	return c, nil
}

// Resources returns the resource library. A content tree without
// resources.json uses the built-in library.
func (r *Repository) Resources() (Library, error) {
	var lib Library
	err := r.read(ResourcesFile, ResourcesSchema, &lib)
	if errors.Is(err, fs.ErrNotExist) && !r.embedded {
		r.log.Info("no resources file in content dir, using built-in library")
		return Embedded(r.log).Resources()
	}
	if err != nil {
		return nil, err
	}
	return lib, nil
}

// Validate checks every content file and returns all failures joined.
func (r *Repository) Validate() error {
	var errs []error
	if _, err := r.Questions(); err != nil {
		errs = append(errs, err)
	}
	types, err := r.Types()
	if err != nil {
		errs = append(errs, err)
	}
	for _, t := range types {
		if t.MarkdownFile == "" {
			continue
		}
		if _, err := fs.Stat(r.fsys, path.Join(TypesDir, t.MarkdownFile)); err != nil {
			errs = append(errs, apperr.Content("missing_markdown", "markdown for "+string(t.ID), err))
		}
	}
	if _, err := r.Course(); err != nil {
		errs = append(errs, err)
	}
	if _, err := r.Resources(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
