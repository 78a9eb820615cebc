package progress

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Samoświadomy Lider", "samoswiadomy-lider"},
		{"Pierwszy Krok", "pierwszy-krok"},
		{"Żółć!@#$", "zolc"},
		{"  Multiple   Spaces  ", "multiple-spaces"},
		{"Łódź -- Kraków", "lodz-krakow"},
		{"already-slugged_id", "already-slugged_id"},
		{"Level 2!", "level-2"},
		{"---", ""},
		{"🔍", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCatalogIDs(t *testing.T) {
	seen := map[string]bool{}
	for _, def := range Catalog() {
		id := def.ID()
		if id == "" || seen[id] {
			t.Errorf("bad or duplicate id %q for %q", id, def.Name)
		}
		seen[id] = true
	}
	if FirstStep.ID() != "pierwszy-krok" || SelfAware.ID() != "samoswiadomy-lider" {
		t.Errorf("ids = %q, %q", FirstStep.ID(), SelfAware.ID())
	}
}
