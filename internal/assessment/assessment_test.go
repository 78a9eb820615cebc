package assessment

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/brainventure/internal/apperr"
)

func q(id string, c Category) Question {
	return Question{ID: id, Text: "pytanie " + id, Category: c}
}

// fill answers n questions of category c with value v, ids prefixed by c.
func fill(t *testing.T, s AnswerSet, c Category, n, v int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, s.Set(q(fmt.Sprintf("%s-%d", c, i), c), v))
	}
}

func TestAnswerSetOverwrite(t *testing.T) {
	s := NewAnswerSet()
	require.NoError(t, s.Set(q("q1", CategoryEmpath), 2))
	require.NoError(t, s.Set(q("q1", CategoryEmpath), 5))

	assert.Equal(t, 1, s.Answered())
	a, ok := s.Get("q1")
	require.True(t, ok)
	assert.Equal(t, 5, a.Value)
	assert.Equal(t, CategoryEmpath, a.Category)
}

func TestAnswerSetRejectsOutOfRange(t *testing.T) {
	s := NewAnswerSet()
	for _, v := range []int{0, 6, -1} {
		err := s.Set(q("q1", CategoryAnalyst), v)
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	}
	assert.Equal(t, 0, s.Answered())
}

func TestAnsweredSkipsNil(t *testing.T) {
	s := AnswerSet{"q1": nil, "q2": {QuestionID: "q2", Value: 3, Category: CategoryReactor}}
	assert.Equal(t, 1, s.Answered())
	assert.Len(t, s.Answers(), 1)
	_, ok := s.Get("q1")
	assert.False(t, ok)
}

func TestValidateCompletenessBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		answered int
		total    int
		want     bool
	}{
		{"exactly 70 percent", 7, 10, true},
		{"69.9 percent", 699, 1000, false},
		{"70.0 percent large", 700, 1000, true},
		{"all answered", 18, 18, true},
		{"none answered", 0, 18, false},
		{"13 of 18", 13, 18, true},
		{"12 of 18", 12, 18, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewAnswerSet()
			for i := 0; i < tt.answered; i++ {
				require.NoError(t, s.Set(q(fmt.Sprintf("q%d", i), CategoryBalancer), 3))
			}
			c, err := ValidateCompleteness(s, tt.total)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Valid)
			assert.InDelta(t, float64(tt.answered)*100/float64(tt.total), c.Percentage, 1e-9)
		})
	}
}

func TestValidateCompletenessProperty(t *testing.T) {
	for total := 1; total <= 40; total++ {
		s := NewAnswerSet()
		for k := 0; k <= total; k++ {
			c, err := ValidateCompleteness(s, total)
			require.NoError(t, err)
			want := 100*k >= 70*total
			require.Equal(t, want, c.Valid, "k=%d total=%d", k, total)
			require.NoError(t, s.Set(q(fmt.Sprintf("q%d", k), CategoryAnalyst), 1))
		}
	}
}

func TestValidateCompletenessMessage(t *testing.T) {
	s := NewAnswerSet()
	fill(t, s, CategoryEmpath, 1, 3)
	c, err := ValidateCompleteness(s, 2)
	require.NoError(t, err)
	assert.False(t, c.Valid)
	assert.Equal(t, "Please answer at least 70% of the questions. Current: 50%", c.Message)
}

func TestValidateCompletenessZeroQuestions(t *testing.T) {
	_, err := ValidateCompleteness(NewAnswerSet(), 0)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestScoresIgnoreUnknownCategory(t *testing.T) {
	s := NewAnswerSet()
	fill(t, s, CategoryInnovator, 2, 4)
	s["x"] = &Answer{QuestionID: "x", Value: 5, Category: "neurocosmonaut"}

	scores := Scores(s)
	assert.Len(t, scores, 6)
	assert.Equal(t, 8, scores[CategoryInnovator])
	assert.NotContains(t, scores, Category("neurocosmonaut"))
	assert.Equal(t, CategoryInnovator, Classify(s, nil))
}

func TestClassifyClearWinner(t *testing.T) {
	// 18 answers: empath sums to 70, everyone else at most 65.
	s := NewAnswerSet()
	fill(t, s, CategoryEmpath, 14, 5)
	fill(t, s, CategoryAnalyst, 4, 5)
	require.Equal(t, 18, s.Answered())

	scores := Scores(s)
	require.Equal(t, 70, scores[CategoryEmpath])

	tb := SeededTieBreaker(1)
	for i := 0; i < 100; i++ {
		assert.Equal(t, CategoryEmpath, Classify(s, tb))
	}
}

func TestClassifyTieIsUniformOverTiedSet(t *testing.T) {
	s := NewAnswerSet()
	fill(t, s, CategoryAnalyst, 10, 5)
	fill(t, s, CategoryEmpath, 10, 5)
	fill(t, s, CategoryReactor, 9, 5)

	tb := SeededTieBreaker(42)
	counts := map[Category]int{}
	const trials = 20000
	for i := 0; i < trials; i++ {
		counts[Classify(s, tb)]++
	}

	assert.Len(t, counts, 2)
	for _, c := range []Category{CategoryAnalyst, CategoryEmpath} {
		share := float64(counts[c]) / trials
		assert.InDelta(t, 0.5, share, 0.05, "category %s", c)
	}
}

func TestPriorityTieBreaker(t *testing.T) {
	s := NewAnswerSet()
	fill(t, s, CategoryInspirator, 2, 5)
	fill(t, s, CategoryBalancer, 2, 5)

	assert.Equal(t, CategoryBalancer, Classify(s, PriorityTieBreaker{}))
	assert.Equal(t, CategoryBalancer, Classify(s, nil))
}

func TestClassifyEmptySetIsSixWayTie(t *testing.T) {
	assert.Equal(t, CategoryAnalyst, Classify(NewAnswerSet(), PriorityTieBreaker{}))
	got := Classify(NewAnswerSet(), SeededTieBreaker(7))
	assert.True(t, got.Valid())
}

func TestClassifyMonotonic(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	cats := AllCategories()
	for trial := 0; trial < 200; trial++ {
		s := NewAnswerSet()
		var qs []Question
		for i := 0; i < 18; i++ {
			qq := q(fmt.Sprintf("q%d", i), cats[rng.IntN(len(cats))])
			qs = append(qs, qq)
			require.NoError(t, s.Set(qq, 1+rng.IntN(4)))
		}
		target := qs[rng.IntN(len(qs))]
		before := Scores(s)
		old, _ := s.Get(target.ID)
		require.NoError(t, s.Set(target, old.Value+1))
		after := Scores(s)

		for _, c := range cats {
			if c == target.Category {
				assert.Greater(t, after[c], before[c])
			} else {
				assert.Equal(t, before[c], after[c])
			}
		}
	}
}

func TestTieBreakerByName(t *testing.T) {
	assert.Equal(t, "priority", TieBreakerByName("priority").Name())
	assert.Equal(t, "random", TieBreakerByName("random").Name())
	assert.Equal(t, "random", TieBreakerByName("").Name())
}

func TestCategoryDisplayName(t *testing.T) {
	assert.Equal(t, "Neuroempata", CategoryEmpath.DisplayName())
	assert.Equal(t, "custom", Category("custom").DisplayName())
	assert.False(t, Category("custom").Valid())
}
