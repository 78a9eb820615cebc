// Package learning runs the user-facing flows that span the assessment
// engine, the progress store and the course content.
package learning

import (
	"context"
	"regexp"
	"strings"

	"github.com/abhisek/brainventure/internal/apperr"
	"github.com/abhisek/brainventure/internal/assessment"
	"github.com/abhisek/brainventure/internal/content"
	"github.com/abhisek/brainventure/internal/logger"
	"github.com/abhisek/brainventure/internal/progress"
)

// TestType is the history tag for the typology questionnaire.
const TestType = "neuroleader_type"

// Themes accepted by UpdatePreferences.
var Themes = []string{"light", "dark"}

// ProgressStore is the subset of *progress.Store the service uses.
type ProgressStore interface {
	Load(ctx context.Context, userID string) (*progress.UserRecord, error)
	Update(ctx context.Context, userID string, fn func(*progress.UserRecord) error) (*progress.UserRecord, error)
	Award(ctx context.Context, userID string, def progress.AchievementDef) (bool, error)
	CommitTestResult(ctx context.Context, userID, testType, result string, awards ...progress.AchievementDef) ([]progress.AchievementDef, error)
	CompleteLesson(ctx context.Context, userID, lessonID string) (bool, error)
}

// Outcome is what a committed test attempt produced.
type Outcome struct {
	Result          *assessment.TestResult
	NewAchievements []progress.AchievementDef
}

// Service wires the flows together.
type Service struct {
	store      ProgressStore
	repo       *content.Repository
	tieBreaker assessment.TieBreaker
	log        *logger.Logger
}

// NewService creates a Service. A nil tieBreaker means random.
func NewService(store ProgressStore, repo *content.Repository, tb assessment.TieBreaker, log *logger.Logger) *Service {
	if tb == nil {
		tb = assessment.NewRandomTieBreaker(nil)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{store: store, repo: repo, tieBreaker: tb, log: log}
}

// NewAttempt starts an attempt over the current questionnaire.
func (s *Service) NewAttempt() (*assessment.Attempt, error) {
	qs, err := s.repo.Questions()
	if err != nil {
		return nil, err
	}
	return assessment.NewAttempt(qs), nil
}

// SubmitTest gates, scores and records an attempt. An incomplete attempt
// returns a validation error carrying the retry message and stays
// answerable. If the write fails the attempt stays scored, and submitting
// it again retries the write with the same result.
func (s *Service) SubmitTest(ctx context.Context, userID string, a *assessment.Attempt) (*Outcome, error) {
	res := a.Result
	if a.Phase != assessment.PhaseScored {
		c, err := a.Submit()
		if err != nil {
			s.log.Info("test submission rejected",
				"user_id", userID, "attempt_id", a.ID, "percentage", c.Percentage)
			return nil, err
		}
		if res, err = a.Score(s.tieBreaker); err != nil {
			return nil, err
		}
	}

	awarded, err := s.store.CommitTestResult(ctx, userID, TestType, string(res.Dominant), progress.SelfAware)
	if err != nil {
		s.log.Error("test result not saved",
			"user_id", userID, "attempt_id", a.ID, "error", err)
		return nil, err
	}
	if err := a.MarkCommitted(); err != nil {
		return nil, err
	}
	s.log.Info("test committed",
		"user_id", userID, "attempt_id", a.ID, "dominant", string(res.Dominant),
		"tie_breaker", s.tieBreaker.Name())
	return &Outcome{Result: res, NewAchievements: awarded}, nil
}

// LessonOutcome reports the effect of CompleteLesson.
type LessonOutcome struct {
	Lesson          content.LessonRef
	NewlyCompleted  bool
	NewAchievements []progress.AchievementDef
}

// CompleteLesson marks a course lesson done and grants FirstStep for the
// user's first lesson.
func (s *Service) CompleteLesson(ctx context.Context, userID, lessonID string) (*LessonOutcome, error) {
	course, err := s.repo.Course()
	if err != nil {
		return nil, err
	}
	ref, ok := course.Lookup(lessonID)
	if !ok {
		return nil, apperr.Validation("unknown_lesson", "Nie ma takiej lekcji: "+lessonID)
	}

	added, err := s.store.CompleteLesson(ctx, userID, ref.ID)
	if err != nil {
		return nil, err
	}
	out := &LessonOutcome{Lesson: ref, NewlyCompleted: added}
	if !added {
		return out, nil
	}

	rec, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(rec.Progress.CompletedLessons) == 1 {
		awarded, err := s.store.Award(ctx, userID, progress.FirstStep)
		if err != nil {
			return nil, err
		}
		if awarded {
			out.NewAchievements = append(out.NewAchievements, progress.FirstStep)
		}
	}
	return out, nil
}

// ResetProgress clears completed lessons, test history, the stored type
// and achievements. Profile, preferences and settings are kept.
func (s *Service) ResetProgress(ctx context.Context, userID string) (*progress.UserRecord, error) {
	rec, err := s.store.Update(ctx, userID, func(r *progress.UserRecord) error {
		r.Progress.Reset()
		r.Achievements = []progress.Achievement{}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("progress reset", "user_id", userID)
	return rec, nil
}

// ProfileUpdate carries editable profile fields. Nil fields are left as is.
type ProfileUpdate struct {
	DisplayName *string
	Email       *string
	Bio         *string
}

// UpdateProfile applies u to the user's profile.
func (s *Service) UpdateProfile(ctx context.Context, userID string, u ProfileUpdate) (*progress.UserRecord, error) {
	if u.DisplayName != nil && strings.TrimSpace(*u.DisplayName) == "" {
		return nil, apperr.Validation("empty_display_name", "Nazwa wyświetlana nie może być pusta.")
	}
	if u.Email != nil && *u.Email != "" && !validEmail(*u.Email) {
		return nil, apperr.Validation("invalid_email", "Podaj poprawny adres e-mail.")
	}
	return s.store.Update(ctx, userID, func(r *progress.UserRecord) error {
		if u.DisplayName != nil {
			r.Profile.DisplayName = strings.TrimSpace(*u.DisplayName)
		}
		if u.Email != nil {
			r.Profile.Email = strings.TrimSpace(*u.Email)
		}
		if u.Bio != nil {
			r.Profile.Bio = *u.Bio
		}
		return nil
	})
}

// UpdatePreferences replaces the user's theme and notification choices.
func (s *Service) UpdatePreferences(ctx context.Context, userID string, p progress.Preferences) (*progress.UserRecord, error) {
	known := false
	for _, t := range Themes {
		if p.Theme == t {
			known = true
		}
	}
	if !known {
		return nil, apperr.Validation("invalid_theme", "Nieznany motyw: "+p.Theme)
	}
	return s.store.Update(ctx, userID, func(r *progress.UserRecord) error {
		r.Preferences.Theme = p.Theme
		r.Preferences.NotificationsEnabled = p.NotificationsEnabled
		r.Preferences.EmailUpdates = p.EmailUpdates
		return nil
	})
}

// SetNotificationSetting stores settings.notifications.<key>.
func (s *Service) SetNotificationSetting(ctx context.Context, userID, key string, enabled bool) (*progress.UserRecord, error) {
	if key == "" {
		return nil, apperr.Validation("empty_setting_key", "Brak nazwy ustawienia.")
	}
	return s.store.Update(ctx, userID, func(r *progress.UserRecord) error {
		if r.Settings == nil {
			r.Settings = map[string]any{}
		}
		n, _ := r.Settings["notifications"].(map[string]any)
		if n == nil {
			n = map[string]any{}
		}
		n[key] = enabled
		r.Settings["notifications"] = n
		return nil
	})
}

// Dashboard is the user's record joined with course progress.
type Dashboard struct {
	Record     *progress.UserRecord
	Completed  int
	Total      int
	Percent    float64
	Blocks     []content.BlockStats
	NextLesson *content.LessonRef
	Type       *content.NeuroleaderType
}

// Dashboard loads everything the home screen needs.
func (s *Service) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	rec, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	course, err := s.repo.Course()
	if err != nil {
		return nil, err
	}
	d := &Dashboard{Record: rec, Blocks: course.BlockProgress(rec.Progress.CompletedLessons)}
	d.Completed, d.Total, d.Percent = course.Overall(rec.Progress.CompletedLessons)
	if next, ok := course.NextLesson(rec.Progress.CompletedLessons); ok {
		d.NextLesson = &next
	}
	if typ := rec.NeuroleaderType(); typ != "" {
		card, err := s.repo.Type(assessment.Category(typ))
		if err != nil {
			s.log.Warn("stored type has no card", "user_id", userID, "type", typ, "error", err)
		} else {
			d.Type = card
		}
	}
	return d, nil
}

// Questions exposes the questionnaire for callers that only display it.
func (s *Service) Questions() ([]assessment.Question, error) { return s.repo.Questions() }

// Types exposes the type cards.
func (s *Service) Types() ([]content.NeuroleaderType, error) { return s.repo.Types() }

// Type exposes one type card with its markdown body.
func (s *Service) Type(id assessment.Category) (*content.NeuroleaderType, error) { return s.repo.Type(id) }

// Course exposes the course tree.
func (s *Service) Course() (content.Course, error) { return s.repo.Course() }

// Resources exposes the resource library.
func (s *Service) Resources() (content.Library, error) { return s.repo.Resources() }

// ValidateContent checks every content file against its schema.
func (s *Service) ValidateContent() error { return s.repo.Validate() }

// Record loads the user's record.
func (s *Service) Record(ctx context.Context, userID string) (*progress.UserRecord, error) {
	return s.store.Load(ctx, userID)
}

var emailPattern = regexp.MustCompile(`^[\w.+-]+@[\w.-]+\.\w+$`)

func validEmail(e string) bool { return emailPattern.MatchString(e) }
