package content

import "testing"

func TestLessonIDRoundTrip(t *testing.T) {
	id := LessonID(2, 1, 3)
	if id != "b2_m1_l3" {
		t.Fatalf("LessonID = %q", id)
	}
	b, m, l, err := ParseLessonID(id)
	if err != nil || b != 2 || m != 1 || l != 3 {
		t.Fatalf("ParseLessonID = %d %d %d %v", b, m, l, err)
	}
}

func TestParseLessonIDRejects(t *testing.T) {
	for _, id := range []string{"", "b1_m1", "b0_m1_l1", "B1_M1_L1", "b1_m1_l1x", "lesson"} {
		if _, _, _, err := ParseLessonID(id); err == nil {
			t.Errorf("ParseLessonID(%q) accepted", id)
		}
	}
}

func TestProgress(t *testing.T) {
	tests := []struct {
		done, total int
		want        float64
	}{
		{0, 0, 0},
		{0, 13, 0},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{13, 13, 100},
		{20, 13, 100},
	}
	for _, tt := range tests {
		if got := Progress(tt.done, tt.total); got != tt.want {
			t.Errorf("Progress(%d, %d) = %v, want %v", tt.done, tt.total, got, tt.want)
		}
	}
}

func TestCourseHelpers(t *testing.T) {
	c, err := Embedded(nil).Course()
	if err != nil {
		t.Fatal(err)
	}
	if got := c.TotalLessons(); got != 13 {
		t.Fatalf("TotalLessons = %d", got)
	}

	done := []string{"b1_m1_l1", "b1_m2_l2", "b9_m9_l9"}
	stats := c.BlockProgress(done)
	if len(stats) != 3 {
		t.Fatalf("blocks = %d", len(stats))
	}
	if stats[0].Completed != 2 || stats[0].Total != 5 || stats[0].Percent != 40 {
		t.Errorf("block 1 = %+v", stats[0])
	}
	if stats[1].Completed != 0 {
		t.Errorf("block 2 = %+v", stats[1])
	}

	n, total, pct := c.Overall(done)
	if n != 2 || total != 13 || pct != 15.4 {
		t.Errorf("Overall = %d/%d %.1f", n, total, pct)
	}

	next, ok := c.NextLesson(done)
	if !ok || next.ID != "b1_m1_l2" {
		t.Errorf("NextLesson = %+v", next)
	}

	ref, ok := c.Lookup("b3_m2_l2")
	if !ok || ref.Title != "Opowiadanie wizji" {
		t.Errorf("Lookup = %+v, %v", ref, ok)
	}
	if _, ok := c.Lookup("b3_m3_l1"); ok {
		t.Error("Lookup accepted out-of-range module")
	}
}
