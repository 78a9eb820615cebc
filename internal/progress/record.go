package progress

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the day-first layout used for test and achievement dates.
const DateLayout = "02-01-2006"

// timestampLayouts are accepted when decoding created_at/updated_at. Older
// files carry local timestamps without an offset.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// DefaultDisplayName is given to freshly created records.
const DefaultDisplayName = "Demo User"

// Date is a calendar day persisted as dd-mm-yyyy. A value read in another
// accepted layout is written back as it was until the day changes.
type Date struct {
	time.Time

	raw    json.RawMessage
	rawDay time.Time
}

// dateLayouts are accepted when decoding; DateLayout is always written.
var dateLayouts = []string{
	DateLayout,
	time.DateOnly,
	"02.01.2006",
	"2006/01/02",
	"02/01/2006",
	time.RFC3339Nano,
}

// Today returns the current local day.
func Today() Date { return DateOf(time.Now()) }

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, t.Location())}
}

func (d Date) String() string {
	if d.IsZero() {
		return "-"
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.raw != nil && d.Time.Equal(d.rawDay) {
		return d.raw, nil
	}
	return json.Marshal(d.Format(DateLayout))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date: %w", err)
	}
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err != nil {
			continue
		}
		*d = DateOf(t)
		if layout != DateLayout {
			d.raw = append(json.RawMessage(nil), b...)
			d.rawDay = d.Time
		}
		return nil
	}
	return fmt.Errorf("parse date %q: want dd-mm-yyyy", s)
}

// Timestamp is an instant persisted as RFC 3339. The value as read is kept
// and written back while the instant is unchanged, so offset-less or
// unparseable stamps survive a load/save cycle.
type Timestamp struct {
	time.Time

	raw    json.RawMessage
	rawFor time.Time
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp { return Timestamp{Time: t} }

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.raw != nil && t.Time.Equal(t.rawFor) {
		return t.raw, nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}

// UnmarshalJSON is lenient: an unparseable value decodes to the zero time
// rather than failing the whole record.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	*t = Timestamp{raw: append(json.RawMessage(nil), b...)}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		for _, layout := range timestampLayouts {
			if parsed, err := time.ParseInLocation(layout, s, time.Local); err == nil {
				t.Time = parsed
				break
			}
		}
	}
	t.rawFor = t.Time
	return nil
}

type Profile struct {
	DisplayName string  `json:"display_name"`
	Email       string  `json:"email"`
	Bio         string  `json:"bio"`
	Avatar      *string `json:"avatar"`

	loose looseFields
}

func (p *Profile) fields() []objectField {
	return []objectField{
		{key: "display_name", ptr: &p.DisplayName},
		{key: "email", ptr: &p.Email},
		{key: "bio", ptr: &p.Bio},
		{key: "avatar", ptr: &p.Avatar},
	}
}

func (p Profile) MarshalJSON() ([]byte, error) { return encodeObject(p.fields(), p.loose) }

func (p *Profile) UnmarshalJSON(b []byte) error { return decodeObject(b, p.fields(), &p.loose) }

// TestEntry is one line of the test history.
type TestEntry struct {
	TestType string `json:"test_type"`
	Result   string `json:"result"`
	Date     Date   `json:"date"`

	loose looseFields
	// opaque is an entry that was not an object at all.
	opaque json.RawMessage
}

func (e *TestEntry) fields() []objectField {
	return []objectField{
		{key: "test_type", ptr: &e.TestType},
		{key: "result", ptr: &e.Result},
		{key: "date", ptr: &e.Date},
	}
}

func (e TestEntry) MarshalJSON() ([]byte, error) {
	if e.opaque != nil {
		return e.opaque, nil
	}
	return encodeObject(e.fields(), e.loose)
}

func (e *TestEntry) UnmarshalJSON(b []byte) error {
	if err := decodeObject(b, e.fields(), &e.loose); err != nil {
		e.opaque = append(json.RawMessage(nil), b...)
	}
	return nil
}

type Progress struct {
	CompletedLessons []string    `json:"completed_lessons"`
	LastActivity     *string     `json:"last_activity"`
	TestsTaken       []TestEntry `json:"tests_taken"`
	NeuroleaderType  *string     `json:"neuroleader_type"`

	loose looseFields
}

func (p *Progress) fields() []objectField {
	return []objectField{
		{key: "completed_lessons", ptr: &p.CompletedLessons},
		{key: "last_activity", ptr: &p.LastActivity},
		{key: "tests_taken", ptr: &p.TestsTaken},
		{key: "neuroleader_type", ptr: &p.NeuroleaderType},
	}
}

func (p Progress) MarshalJSON() ([]byte, error) { return encodeObject(p.fields(), p.loose) }

func (p *Progress) UnmarshalJSON(b []byte) error { return decodeObject(b, p.fields(), &p.loose) }

// HasLesson reports whether lessonID is already completed.
func (p *Progress) HasLesson(lessonID string) bool {
	for _, id := range p.CompletedLessons {
		if id == lessonID {
			return true
		}
	}
	return false
}

// Reset clears lessons, history and the stored type. Keys this version
// does not know are kept.
func (p *Progress) Reset() {
	*p = Progress{
		CompletedLessons: []string{},
		TestsTaken:       []TestEntry{},
		loose:            looseFields{unknown: p.loose.unknown},
	}
}

type Preferences struct {
	Theme                string `json:"theme"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
	EmailUpdates         bool   `json:"email_updates"`

	loose looseFields
}

func (p *Preferences) fields() []objectField {
	return []objectField{
		{key: "theme", ptr: &p.Theme},
		{key: "notifications_enabled", ptr: &p.NotificationsEnabled},
		{key: "email_updates", ptr: &p.EmailUpdates},
	}
}

func (p Preferences) MarshalJSON() ([]byte, error) { return encodeObject(p.fields(), p.loose) }

func (p *Preferences) UnmarshalJSON(b []byte) error { return decodeObject(b, p.fields(), &p.loose) }

// Achievement is an earned badge, unique by ID within a record.
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	EarnedAt    Date   `json:"earned_at"`

	loose  looseFields
	opaque json.RawMessage
}

func (a *Achievement) fields() []objectField {
	return []objectField{
		{key: "id", ptr: &a.ID},
		{key: "name", ptr: &a.Name},
		{key: "description", ptr: &a.Description},
		{key: "icon", ptr: &a.Icon},
		{key: "earned_at", ptr: &a.EarnedAt},
	}
}

func (a Achievement) MarshalJSON() ([]byte, error) {
	if a.opaque != nil {
		return a.opaque, nil
	}
	return encodeObject(a.fields(), a.loose)
}

func (a *Achievement) UnmarshalJSON(b []byte) error {
	if err := decodeObject(b, a.fields(), &a.loose); err != nil {
		a.opaque = append(json.RawMessage(nil), b...)
	}
	return nil
}

// UserRecord is the whole persisted state of one user. It is replaced as a
// unit on every write.
//
// Decoding is permissive: a missing key keeps its default, and a value of
// the wrong type keeps the default in memory while the stored value is
// written back untouched until the field is changed. Unknown keys at any
// level survive a load/save cycle.
type UserRecord struct {
	UserID       string         `json:"user_id"`
	CreatedAt    Timestamp      `json:"created_at"`
	UpdatedAt    Timestamp      `json:"updated_at"`
	Profile      Profile        `json:"profile"`
	Progress     Progress       `json:"progress"`
	Preferences  Preferences    `json:"preferences"`
	Settings     map[string]any `json:"settings,omitempty"`
	Achievements []Achievement  `json:"achievements"`

	loose looseFields
}

// DefaultRecord returns a new record for userID stamped with now.
func DefaultRecord(userID string, now time.Time) *UserRecord {
	return &UserRecord{
		UserID:    userID,
		CreatedAt: NewTimestamp(now),
		UpdatedAt: NewTimestamp(now),
		Profile:   Profile{DisplayName: DefaultDisplayName},
		Progress: Progress{
			CompletedLessons: []string{},
			TestsTaken:       []TestEntry{},
		},
		Preferences: Preferences{
			Theme:                "light",
			NotificationsEnabled: true,
		},
		Achievements: []Achievement{},
	}
}

// HasAchievement reports whether an achievement with id was earned.
func (r *UserRecord) HasAchievement(id string) bool {
	for _, a := range r.Achievements {
		if a.ID == id {
			return true
		}
	}
	return false
}

// NeuroleaderType returns the stored type id, or "" when none.
func (r *UserRecord) NeuroleaderType() string {
	if r.Progress.NeuroleaderType == nil {
		return ""
	}
	return *r.Progress.NeuroleaderType
}

// Issues lists the paths of stored values that did not fit their field and
// are carried as read, e.g. "progress.neuroleader_type".
func (r *UserRecord) Issues() []string {
	out := r.loose.issues("")
	out = append(out, r.Profile.loose.issues("profile.")...)
	out = append(out, r.Progress.loose.issues("progress.")...)
	out = append(out, r.Preferences.loose.issues("preferences.")...)
	for i, e := range r.Progress.TestsTaken {
		prefix := fmt.Sprintf("progress.tests_taken[%d]", i)
		if e.opaque != nil {
			out = append(out, prefix)
		}
		out = append(out, e.loose.issues(prefix+".")...)
	}
	for i, a := range r.Achievements {
		prefix := fmt.Sprintf("achievements[%d]", i)
		if a.opaque != nil {
			out = append(out, prefix)
		}
		out = append(out, a.loose.issues(prefix+".")...)
	}
	return out
}

func (r *UserRecord) fields() []objectField {
	return []objectField{
		{key: "user_id", ptr: &r.UserID},
		{key: "created_at", ptr: &r.CreatedAt},
		{key: "updated_at", ptr: &r.UpdatedAt},
		{key: "profile", ptr: &r.Profile},
		{key: "progress", ptr: &r.Progress},
		{key: "preferences", ptr: &r.Preferences},
		{key: "settings", ptr: &r.Settings, omitEmpty: true},
		{key: "achievements", ptr: &r.Achievements},
	}
}

func (r *UserRecord) MarshalJSON() ([]byte, error) {
	return encodeObject(r.fields(), r.loose)
}

// UnmarshalJSON decodes over the receiver's current values, so callers
// pre-fill defaults and missing keys keep them. It fails only when the
// document is not a JSON object.
func (r *UserRecord) UnmarshalJSON(b []byte) error {
	if err := decodeObject(b, r.fields(), &r.loose); err != nil {
		return err
	}
	r.normalize()
	return nil
}

func (r *UserRecord) normalize() {
	if r.Progress.CompletedLessons == nil {
		r.Progress.CompletedLessons = []string{}
	}
	if r.Progress.TestsTaken == nil {
		r.Progress.TestsTaken = []TestEntry{}
	}
	if r.Achievements == nil {
		r.Achievements = []Achievement{}
	}
}
