package content

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/abhisek/brainventure/internal/apperr"
	"github.com/abhisek/brainventure/internal/assessment"
)

func TestEmbeddedContentValid(t *testing.T) {
	r := Embedded(nil)
	if err := r.Validate(); err != nil {
		t.Fatalf("embedded content invalid: %v", err)
	}
}

func TestEmbeddedQuestions(t *testing.T) {
	qs, err := Embedded(nil).Questions()
	if err != nil {
		t.Fatal(err)
	}
	if len(qs) != 18 {
		t.Fatalf("questions = %d, want 18", len(qs))
	}
	perCategory := map[assessment.Category]int{}
	for _, q := range qs {
		perCategory[q.Category]++
	}
	for _, c := range assessment.AllCategories() {
		if perCategory[c] != 3 {
			t.Errorf("category %s has %d questions, want 3", c, perCategory[c])
		}
	}
	if qs[0].ID != "q1" {
		t.Errorf("first question = %q, file order not kept", qs[0].ID)
	}
}

func TestEmbeddedTypes(t *testing.T) {
	r := Embedded(nil)
	types, err := r.Types()
	if err != nil {
		t.Fatal(err)
	}
	if len(types) != 6 {
		t.Fatalf("types = %d", len(types))
	}

	analyst, err := r.Type(assessment.CategoryAnalyst)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(analyst.Markdown, "# 🧠 Neuroanalityk") {
		t.Errorf("markdown not loaded: %q", analyst.Markdown)
	}
	if analyst.Weakness == "" {
		t.Error("slabość not decoded")
	}

	empath, err := r.Type(assessment.CategoryEmpath)
	if err != nil {
		t.Fatal(err)
	}
	if empath.Markdown != "" {
		t.Error("type without markdown_file should have empty body")
	}
}

func TestTypeUnknown(t *testing.T) {
	_, err := Embedded(nil).Type("neurocosmonaut")
	if !apperr.IsKind(err, apperr.KindContent) {
		t.Fatalf("got %v, want content error", err)
	}
}

func TestSchemaRejectsBadQuestions(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{`},
		{"missing questions", `{}`},
		{"empty list", `{"questions":[]}`},
		{"unknown category", `{"questions":[{"id":"q1","text":"t","type":"neurowizard"}]}`},
		{"missing text", `{"questions":[{"id":"q1","type":"neuroempata"}]}`},
		{"duplicate id", `{"questions":[{"id":"q1","text":"a","type":"neuroempata"},{"id":"q1","text":"b","type":"neuroempata"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(fstest.MapFS{QuestionsFile: {Data: []byte(tt.doc)}}, nil)
			_, err := r.Questions()
			if !apperr.IsKind(err, apperr.KindContent) {
				t.Fatalf("got %v, want content error", err)
			}
			if msg := apperr.UserMessage(err); msg != apperr.MsgDataProblem {
				t.Errorf("user message = %q", msg)
			}
		})
	}
}

func TestMissingFile(t *testing.T) {
	r := New(fstest.MapFS{}, nil)
	if _, err := r.Course(); !apperr.IsKind(err, apperr.KindContent) {
		t.Fatalf("got %v", err)
	}
	if err := r.Validate(); err == nil {
		t.Fatal("expected Validate to fail on empty tree")
	}
}

func TestValidateReportsMissingMarkdown(t *testing.T) {
	fsys := fstest.MapFS{
		QuestionsFile: {Data: []byte(`{"questions":[{"id":"q1","text":"t","type":"neuroempata"}]}`)},
		TypesFile:     {Data: []byte(`[{"id":"neuroempata","name":"Neuroempata","markdown_file":"neuroempata.md"}]`)},
		CourseFile:    {Data: []byte(`[]`)},
	}
	err := New(fsys, nil).Validate()
	if err == nil || !strings.Contains(err.Error(), "markdown") {
		t.Fatalf("got %v, want missing markdown error", err)
	}
}

func TestOpenDir(t *testing.T) {
	if _, err := Open("/definitely/not/here", nil); !apperr.IsKind(err, apperr.KindConfiguration) {
		t.Fatalf("got %v", err)
	}
	r, err := Open("", nil)
	if err != nil || r == nil {
		t.Fatalf("Open empty dir = %v, %v", r, err)
	}
}
