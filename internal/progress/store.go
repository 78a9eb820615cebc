package progress

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/abhisek/brainventure/internal/apperr"
	"github.com/abhisek/brainventure/internal/logger"
)

// DefaultUserID is used while authentication is stubbed.
const DefaultUserID = "default_user"

var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ErrNoChange may be returned from an Update callback to skip the write.
var ErrNoChange = errors.New("progress: no change")

// Store persists one JSON file per user under <dataDir>/user_files.
// Read-modify-write cycles are serialized within the process; several
// processes sharing a data dir are not coordinated.
type Store struct {
	dataDir string
	log     *logger.Logger
	now     func() time.Time

	mu sync.Mutex
}

// NewStore returns a store rooted at dataDir. A nil log discards output.
func NewStore(dataDir string, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{dataDir: dataDir, log: log, now: time.Now}
}

// DefaultDataDir resolves the data directory in priority order:
// 1. BRAINVENTURE_DATA_DIR environment variable
// 2. $XDG_DATA_HOME/brainventure
// 3. ~/.local/share/brainventure
func DefaultDataDir() (string, error) {
	if p := os.Getenv("BRAINVENTURE_DATA_DIR"); p != "" {
		return p, nil
	}
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "brainventure"), nil
}

// DataDir returns the root directory of the store.
func (s *Store) DataDir() string { return s.dataDir }

// Path returns the file backing userID. The id is not validated.
func (s *Store) Path(userID string) string {
	return filepath.Join(s.dataDir, "user_files", userID+".json")
}

// ValidateUserID rejects ids that are unsafe to use as file names.
func ValidateUserID(userID string) error {
	if !userIDPattern.MatchString(userID) {
		return apperr.UserData("invalid_user_id",
			"Identyfikator użytkownika może zawierać tylko litery, cyfry, '-' i '_' (maks. 64 znaki).")
	}
	return nil
}

// Load returns the record for userID. A missing file, or one that is not a
// JSON object, yields a freshly persisted default record; the unusable file
// is first moved aside to <id>.json.corrupt-<time>. Values of the wrong type
// inside a well-formed record are kept as stored and logged.
func (s *Store) Load(ctx context.Context, userID string) (*UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, userID)
}

func (s *Store) load(ctx context.Context, userID string) (*UserRecord, error) {
	if err := ValidateUserID(userID); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := s.Path(userID)
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.log.Info("creating default user record", "user_id", userID)
		return s.create(ctx, userID)
	case err != nil:
		s.log.Error("read user record failed", "user_id", userID, "error", err)
		return nil, apperr.Data("read_failed", "read user record", err).With("user_id", userID)
	}

	rec := DefaultRecord(userID, s.now())
	if err := json.Unmarshal(data, rec); err != nil {
		backup := backupPath(path, s.now())
		s.log.Warn("user record unparseable, moving aside",
			"user_id", userID, "backup", backup, "error", err)
		if rerr := os.Rename(path, backup); rerr != nil {
			return nil, apperr.Data("backup_failed", "move corrupt record aside", rerr).With("user_id", userID)
		}
		return s.create(ctx, userID)
	}
	rec.UserID = userID
	if issues := rec.Issues(); len(issues) > 0 {
		s.log.Warn("user record has values of the wrong type, keeping them as stored",
			"user_id", userID, "fields", issues)
	}
	s.log.Debug("user record loaded", "user_id", userID)
	return rec, nil
}

// backupPath picks a name for a corrupt file that does not clobber an
// earlier backup.
func backupPath(path string, now time.Time) string {
	base := path + ".corrupt-" + now.Format("20060102T150405")
	candidate := base
	for i := 1; ; i++ {
		if _, err := os.Lstat(candidate); errors.Is(err, fs.ErrNotExist) {
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

func (s *Store) create(ctx context.Context, userID string) (*UserRecord, error) {
	rec := DefaultRecord(userID, s.now())
	if err := s.save(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Save writes rec atomically and stamps updated_at.
func (s *Store) Save(ctx context.Context, rec *UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, rec)
}

func (s *Store) save(ctx context.Context, rec *UserRecord) error {
	if rec == nil {
		return apperr.UserData("nil_record", "Brak danych użytkownika do zapisania.")
	}
	if err := ValidateUserID(rec.UserID); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	rec.UpdatedAt = NewTimestamp(s.now())
	rec.normalize()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return apperr.Data("encode_failed", "encode user record", err).With("user_id", rec.UserID)
	}

	path := s.Path(rec.UserID)
	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		s.log.Error("save user record failed", "user_id", rec.UserID, "error", err)
		return apperr.Data("write_failed", "write user record", err).With("user_id", rec.UserID)
	}
	s.log.Info("user record saved", "user_id", rec.UserID)
	return nil
}

// writeFileAtomic writes data to a temp file in the target directory,
// fsyncs it and renames it over path.
func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write temp: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// Update loads the record, applies fn and saves the result. If fn returns
// ErrNoChange nothing is written and the loaded record is returned.
func (s *Store) Update(ctx context.Context, userID string, fn func(*UserRecord) error) (*UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := fn(rec); err != nil {
		if errors.Is(err, ErrNoChange) {
			return rec, nil
		}
		return nil, err
	}
	if err := s.save(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// AwardAchievement grants the achievement slugged from name unless the user
// already has it. It reports whether a new achievement was written.
func (s *Store) AwardAchievement(ctx context.Context, userID, name, description, icon string) (bool, error) {
	id := Slugify(name)
	if id == "" {
		return false, apperr.Validation("invalid_achievement", "achievement name has no usable characters")
	}
	awarded := false
	_, err := s.Update(ctx, userID, func(r *UserRecord) error {
		awarded = grant(r, id, AchievementDef{Name: name, Description: description, Icon: icon}, s.now())
		if !awarded {
			return ErrNoChange
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	if awarded {
		s.log.Info("achievement awarded", "user_id", userID, "achievement", id)
	}
	return awarded, nil
}

// Award grants a catalog achievement.
func (s *Store) Award(ctx context.Context, userID string, def AchievementDef) (bool, error) {
	return s.AwardAchievement(ctx, userID, def.Name, def.Description, def.Icon)
}

func grant(r *UserRecord, id string, def AchievementDef, now time.Time) bool {
	if r.HasAchievement(id) {
		return false
	}
	r.Achievements = append(r.Achievements, Achievement{
		ID:          id,
		Name:        def.Name,
		Description: def.Description,
		Icon:        def.Icon,
		EarnedAt:    DateOf(now),
	})
	return true
}

// RecordTestResult appends to the test history, sets the current type and
// touches last_activity.
func (s *Store) RecordTestResult(ctx context.Context, userID, testType, result string) error {
	_, err := s.CommitTestResult(ctx, userID, testType, result)
	return err
}

// CommitTestResult records a test result and grants awards in a single
// write, so the history and the badges never get out of step. It returns
// the awards that were new.
func (s *Store) CommitTestResult(ctx context.Context, userID, testType, result string, awards ...AchievementDef) ([]AchievementDef, error) {
	var granted []AchievementDef
	_, err := s.Update(ctx, userID, func(r *UserRecord) error {
		granted = granted[:0]
		now := s.now()
		r.Progress.TestsTaken = append(r.Progress.TestsTaken, TestEntry{
			TestType: testType,
			Result:   result,
			Date:     DateOf(now),
		})
		res := result
		r.Progress.NeuroleaderType = &res
		touch(r, now)
		for _, def := range awards {
			if grant(r, def.ID(), def, now) {
				granted = append(granted, def)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, def := range granted {
		s.log.Info("achievement awarded", "user_id", userID, "achievement", def.ID())
	}
	return granted, nil
}

// CompleteLesson marks lessonID as completed. It reports whether the lesson
// was newly added.
func (s *Store) CompleteLesson(ctx context.Context, userID, lessonID string) (bool, error) {
	added := false
	_, err := s.Update(ctx, userID, func(r *UserRecord) error {
		if r.Progress.HasLesson(lessonID) {
			return ErrNoChange
		}
		r.Progress.CompletedLessons = append(r.Progress.CompletedLessons, lessonID)
		touch(r, s.now())
		added = true
		return nil
	})
	return added, err
}

// Export writes the user's record as indented JSON.
func (s *Store) Export(ctx context.Context, userID string, w io.Writer) error {
	rec, err := s.Load(ctx, userID)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return fmt.Errorf("export user record: %w", err)
	}
	return nil
}

func touch(r *UserRecord, now time.Time) {
	ts := now.Format(time.RFC3339)
	r.Progress.LastActivity = &ts
}
