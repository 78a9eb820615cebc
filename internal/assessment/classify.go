package assessment

import (
	"math/rand/v2"
	"sync"
)

// TieBreaker picks a winner among categories sharing the top score.
// tied is never empty and is ordered as AllCategories.
type TieBreaker interface {
	Name() string
	Break(tied []Category) Category
}

// RandomTieBreaker picks uniformly among the tied categories.
type RandomTieBreaker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomTieBreaker uses rng, or a randomly seeded source when rng is nil.
func NewRandomTieBreaker(rng *rand.Rand) *RandomTieBreaker {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &RandomTieBreaker{rng: rng}
}

// SeededTieBreaker returns a reproducible random tie-breaker.
func SeededTieBreaker(seed uint64) *RandomTieBreaker {
	return NewRandomTieBreaker(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

func (r *RandomTieBreaker) Name() string { return "random" }

func (r *RandomTieBreaker) Break(tied []Category) Category {
	r.mu.Lock()
	defer r.mu.Unlock()
	return tied[r.rng.IntN(len(tied))]
}

// PriorityTieBreaker picks the first tied category in declaration order.
type PriorityTieBreaker struct{}

func (PriorityTieBreaker) Name() string { return "priority" }

func (PriorityTieBreaker) Break(tied []Category) Category {
	return tied[0]
}

// TieBreakerByName maps a config value to a TieBreaker. Unknown names fall
// back to random.
func TieBreakerByName(name string) TieBreaker {
	if name == "priority" {
		return PriorityTieBreaker{}
	}
	return NewRandomTieBreaker(nil)
}

// Scores sums answer values per category. Answers with an unknown
// category are ignored.
func Scores(answers AnswerSet) map[Category]int {
	scores := make(map[Category]int, 6)
	for _, c := range AllCategories() {
		scores[c] = 0
	}
	for _, a := range answers {
		if a == nil {
			continue
		}
		if _, ok := scores[a.Category]; !ok {
			continue
		}
		scores[a.Category] += a.Value
	}
	return scores
}

// Classify returns the category with the highest score, delegating ties
// to tb. A nil tb means PriorityTieBreaker.
func Classify(answers AnswerSet, tb TieBreaker) Category {
	return classifyScores(Scores(answers), tb)
}

func classifyScores(scores map[Category]int, tb TieBreaker) Category {
	best := -1
	var tied []Category
	for _, c := range AllCategories() {
		switch s := scores[c]; {
		case s > best:
			best = s
			tied = []Category{c}
		case s == best:
			tied = append(tied, c)
		}
	}
	if len(tied) == 1 {
		return tied[0]
	}
	if tb == nil {
		tb = PriorityTieBreaker{}
	}
	return tb.Break(tied)
}
