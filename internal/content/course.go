package content

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

type Lesson struct {
	Title string `json:"title"`
}

type Module struct {
	Title   string   `json:"title"`
	Lessons []Lesson `json:"lessons"`
}

// Block is the top level of the course tree.
type Block struct {
	Title   string   `json:"title"`
	Emoji   string   `json:"emoji"`
	Modules []Module `json:"modules"`
}

// Course is the ordered list of blocks.
type Course []Block

// LessonRef locates one lesson in the course. Indexes are 1-based, as in
// the lesson id.
type LessonRef struct {
	ID     string
	Block  int
	Module int
	Lesson int
	Title  string
}

var lessonIDPattern = regexp.MustCompile(`^b([1-9][0-9]*)_m([1-9][0-9]*)_l([1-9][0-9]*)$`)

// LessonID formats the id of lesson l in module m of block b (1-based).
func LessonID(b, m, l int) string {
	return fmt.Sprintf("b%d_m%d_l%d", b, m, l)
}

// ParseLessonID splits an id produced by LessonID.
func ParseLessonID(id string) (b, m, l int, err error) {
	match := lessonIDPattern.FindStringSubmatch(id)
	if match == nil {
		return 0, 0, 0, fmt.Errorf("invalid lesson id %q", id)
	}
	b, _ = strconv.Atoi(match[1])
	m, _ = strconv.Atoi(match[2])
	l, _ = strconv.Atoi(match[3])
	return b, m, l, nil
}

// Progress returns completed/total as a percentage rounded to one decimal
// and capped at 100. A zero total yields 0.
func Progress(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	pct := math.Round(float64(completed)/float64(total)*1000) / 10
	return math.Min(100, pct)
}

// Lessons flattens the course in reading order.
func (c Course) Lessons() []LessonRef {
	var out []LessonRef
	for bi, block := range c {
		for mi, mod := range block.Modules {
			for li, lesson := range mod.Lessons {
				out = append(out, LessonRef{
					ID:     LessonID(bi+1, mi+1, li+1),
					Block:  bi + 1,
					Module: mi + 1,
					Lesson: li + 1,
					Title:  lesson.Title,
				})
			}
		}
	}
	return out
}

// Lookup finds a lesson by id.
func (c Course) Lookup(id string) (LessonRef, bool) {
	b, m, l, err := ParseLessonID(id)
	if err != nil || b > len(c) || m > len(c[b-1].Modules) || l > len(c[b-1].Modules[m-1].Lessons) {
		return LessonRef{}, false
	}
	return LessonRef{
		ID: id, Block: b, Module: m, Lesson: l,
		Title: c[b-1].Modules[m-1].Lessons[l-1].Title,
	}, true
}

// TotalLessons counts every lesson in the course.
func (c Course) TotalLessons() int {
	n := 0
	for _, block := range c {
		for _, mod := range block.Modules {
			n += len(mod.Lessons)
		}
	}
	return n
}

// BlockStats is the completion of one block.
type BlockStats struct {
	Block     int
	Completed int
	Total     int
	Percent   float64
}

// BlockProgress reports per-block completion for the given completed ids.
// Ids that do not belong to the course are ignored.
func (c Course) BlockProgress(completed []string) []BlockStats {
	done := make(map[string]bool, len(completed))
	for _, id := range completed {
		done[id] = true
	}
	stats := make([]BlockStats, len(c))
	for _, ref := range c.Lessons() {
		s := &stats[ref.Block-1]
		s.Block = ref.Block
		s.Total++
		if done[ref.ID] {
			s.Completed++
		}
	}
	for i := range stats {
		stats[i].Block = i + 1
		stats[i].Percent = Progress(stats[i].Completed, stats[i].Total)
	}
	return stats
}

// Overall reports course-wide completion.
func (c Course) Overall(completed []string) (done, total int, pct float64) {
	for _, s := range c.BlockProgress(completed) {
		done += s.Completed
		total += s.Total
	}
	return done, total, Progress(done, total)
}

// NextLesson returns the first lesson not yet completed.
func (c Course) NextLesson(completed []string) (LessonRef, bool) {
	done := make(map[string]bool, len(completed))
	for _, id := range completed {
		done[id] = true
	}
	for _, ref := range c.Lessons() {
		if !done[ref.ID] {
			return ref, true
		}
	}
	return LessonRef{}, false
}
