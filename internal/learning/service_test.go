package learning

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/brainventure/internal/apperr"
	"github.com/abhisek/brainventure/internal/assessment"
	"github.com/abhisek/brainventure/internal/content"
	"github.com/abhisek/brainventure/internal/progress"
)

const user = "tester"

func newTestService(t *testing.T) (*Service, *progress.Store) {
	t.Helper()
	store := progress.NewStore(t.TempDir(), nil)
	return NewService(store, content.Embedded(nil), assessment.PriorityTieBreaker{}, nil), store
}

func answerAll(t *testing.T, a *assessment.Attempt, favourite assessment.Category) {
	t.Helper()
	for _, q := range a.Questions {
		v := 2
		if q.Category == favourite {
			v = 5
		}
		require.NoError(t, a.Answer(q.ID, v))
	}
}

func TestSubmitTestCommitsAndAwards(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	a, err := svc.NewAttempt()
	require.NoError(t, err)
	answerAll(t, a, assessment.CategoryEmpath)

	out, err := svc.SubmitTest(ctx, user, a)
	require.NoError(t, err)
	assert.Equal(t, assessment.CategoryEmpath, out.Result.Dominant)
	assert.Equal(t, 15, out.Result.Scores[assessment.CategoryEmpath])
	require.Len(t, out.NewAchievements, 1)
	assert.Equal(t, progress.SelfAware.Name, out.NewAchievements[0].Name)
	assert.Equal(t, assessment.PhaseCommitted, a.Phase)

	rec, err := store.Load(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "neuroempata", rec.NeuroleaderType())
	require.Len(t, rec.Progress.TestsTaken, 1)
	assert.Equal(t, TestType, rec.Progress.TestsTaken[0].TestType)
	assert.True(t, rec.HasAchievement("samoswiadomy-lider"))

	// A retake records history but does not grant the badge again.
	a2, err := svc.NewAttempt()
	require.NoError(t, err)
	answerAll(t, a2, assessment.CategoryInnovator)
	out, err = svc.SubmitTest(ctx, user, a2)
	require.NoError(t, err)
	assert.Empty(t, out.NewAchievements)

	rec, _ = store.Load(ctx, user)
	assert.Len(t, rec.Progress.TestsTaken, 2)
	assert.Len(t, rec.Achievements, 1)
	assert.Equal(t, "neuroinnowator", rec.NeuroleaderType())
}

func TestSubmitTestIncomplete(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	a, err := svc.NewAttempt()
	require.NoError(t, err)
	for _, q := range a.Questions[:12] {
		require.NoError(t, a.Answer(q.ID, 3))
	}

	_, err = svc.SubmitTest(ctx, user, a)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Equal(t, "Please answer at least 70% of the questions. Current: 67%", apperr.UserMessage(err))
	assert.Equal(t, assessment.PhaseRejected, a.Phase)

	rec, err := store.Load(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, rec.Progress.TestsTaken)
	assert.Empty(t, rec.Achievements)

	// One more answer reaches 13/18 = 72%.
	require.NoError(t, a.Answer(a.Questions[12].ID, 3))
	_, err = svc.SubmitTest(ctx, user, a)
	require.NoError(t, err)
}

// flakyStore fails the first n result commits.
type flakyStore struct {
	*progress.Store
	failures int
}

func (f *flakyStore) CommitTestResult(ctx context.Context, userID, testType, result string, awards ...progress.AchievementDef) ([]progress.AchievementDef, error) {
	if f.failures > 0 {
		f.failures--
		return nil, apperr.Data("write_failed", "write user record", errors.New("disk full"))
	}
	return f.Store.CommitTestResult(ctx, userID, testType, result, awards...)
}

func TestSubmitTestRetriesAfterFailedWrite(t *testing.T) {
	store := &flakyStore{Store: progress.NewStore(t.TempDir(), nil), failures: 1}
	svc := NewService(store, content.Embedded(nil), assessment.PriorityTieBreaker{}, nil)
	ctx := context.Background()

	a, err := svc.NewAttempt()
	require.NoError(t, err)
	answerAll(t, a, assessment.CategoryAnalyst)

	_, err = svc.SubmitTest(ctx, user, a)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindData))
	assert.Equal(t, assessment.PhaseScored, a.Phase)

	rec, err := store.Load(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, rec.Progress.TestsTaken)
	assert.Empty(t, rec.Achievements)

	out, err := svc.SubmitTest(ctx, user, a)
	require.NoError(t, err)
	assert.Equal(t, assessment.CategoryAnalyst, out.Result.Dominant)
	assert.Len(t, out.NewAchievements, 1)
	assert.Equal(t, assessment.PhaseCommitted, a.Phase)

	rec, err = store.Load(ctx, user)
	require.NoError(t, err)
	assert.Len(t, rec.Progress.TestsTaken, 1)
	assert.Len(t, rec.Achievements, 1)
}

func TestCompleteLessonAwardsFirstStepOnce(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	out, err := svc.CompleteLesson(ctx, user, "b1_m1_l1")
	require.NoError(t, err)
	assert.True(t, out.NewlyCompleted)
	assert.Equal(t, "Jak działa mózg w roli lidera", out.Lesson.Title)
	require.Len(t, out.NewAchievements, 1)
	assert.Equal(t, progress.FirstStep.Name, out.NewAchievements[0].Name)

	out, err = svc.CompleteLesson(ctx, user, "b1_m1_l1")
	require.NoError(t, err)
	assert.False(t, out.NewlyCompleted)
	assert.Empty(t, out.NewAchievements)

	out, err = svc.CompleteLesson(ctx, user, "b1_m1_l2")
	require.NoError(t, err)
	assert.True(t, out.NewlyCompleted)
	assert.Empty(t, out.NewAchievements)

	rec, _ := store.Load(ctx, user)
	assert.Equal(t, []string{"b1_m1_l1", "b1_m1_l2"}, rec.Progress.CompletedLessons)
	assert.Len(t, rec.Achievements, 1)
}

func TestCompleteLessonUnknown(t *testing.T) {
	svc, _ := newTestService(t)
	for _, id := range []string{"b9_m1_l1", "nonsense", ""} {
		_, err := svc.CompleteLesson(context.Background(), user, id)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation), "id %q", id)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	name, email := "  Ada  ", "ada@example.com"

	rec, err := svc.UpdateProfile(ctx, user, ProfileUpdate{DisplayName: &name, Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "Ada", rec.Profile.DisplayName)
	assert.Equal(t, "ada@example.com", rec.Profile.Email)
	assert.Equal(t, "", rec.Profile.Bio)

	bad := "not-an-email"
	_, err = svc.UpdateProfile(ctx, user, ProfileUpdate{Email: &bad})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	blank := "   "
	_, err = svc.UpdateProfile(ctx, user, ProfileUpdate{DisplayName: &blank})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestUpdatePreferences(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	rec, err := svc.UpdatePreferences(ctx, user, progress.Preferences{Theme: "dark", EmailUpdates: true})
	require.NoError(t, err)
	assert.Equal(t, "dark", rec.Preferences.Theme)
	assert.True(t, rec.Preferences.EmailUpdates)
	assert.False(t, rec.Preferences.NotificationsEnabled)

	_, err = svc.UpdatePreferences(ctx, user, progress.Preferences{Theme: "neon"})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestSetNotificationSetting(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.SetNotificationSetting(ctx, user, "new_content", true)
	require.NoError(t, err)
	_, err = svc.SetNotificationSetting(ctx, user, "weekly_summary", false)
	require.NoError(t, err)

	rec, err := store.Load(ctx, user)
	require.NoError(t, err)
	n, ok := rec.Settings["notifications"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, n["new_content"])
	assert.Equal(t, false, n["weekly_summary"])
}

func TestDashboard(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	d, err := svc.Dashboard(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 0, d.Completed)
	assert.Equal(t, 13, d.Total)
	require.NotNil(t, d.NextLesson)
	assert.Equal(t, "b1_m1_l1", d.NextLesson.ID)
	assert.Nil(t, d.Type)

	_, err = svc.CompleteLesson(ctx, user, "b1_m1_l1")
	require.NoError(t, err)
	a, _ := svc.NewAttempt()
	answerAll(t, a, assessment.CategoryAnalyst)
	_, err = svc.SubmitTest(ctx, user, a)
	require.NoError(t, err)

	d, err = svc.Dashboard(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Completed)
	assert.InDelta(t, 7.7, d.Percent, 1e-9)
	assert.Equal(t, "b1_m1_l2", d.NextLesson.ID)
	require.NotNil(t, d.Type)
	assert.Equal(t, assessment.CategoryAnalyst, d.Type.ID)
	assert.NotEmpty(t, d.Type.Markdown)
}

func TestResetProgress(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	name := "Ada"

	_, err := svc.UpdateProfile(ctx, user, ProfileUpdate{DisplayName: &name})
	require.NoError(t, err)
	_, err = svc.CompleteLesson(ctx, user, "b1_m1_l1")
	require.NoError(t, err)

	rec, err := svc.ResetProgress(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, rec.Progress.CompletedLessons)
	assert.Empty(t, rec.Achievements)
	assert.Equal(t, "", rec.NeuroleaderType())

	rec, err = store.Load(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "Ada", rec.Profile.DisplayName)
	assert.NotNil(t, rec.Progress.TestsTaken, "empty lists stay lists on disk")

	// FirstStep can be earned again.
	out, err := svc.CompleteLesson(ctx, user, "b1_m1_l1")
	require.NoError(t, err)
	assert.Len(t, out.NewAchievements, 1)
}

func TestValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"test@example.com", true},
		{"test.name+tag@example.co.uk", true},
		{"not-an-email", false},
		{"missing@domain", false},
		{"@missing-username.com", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, validEmail(tt.email), tt.email)
	}
}
