package core

import (
	"fmt"
	"time"
)

// TimeLayout is the timestamp format written to created_at and updated_at.
// It matches the ISO-8601 form with millisecond precision (e.g. 2024-05-01T10:00:00.000Z).
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTime renders t in TimeLayout, normalized to UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses a created_at/updated_at value.
// It accepts any RFC 3339 timestamp, with or without fractional seconds.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Note is the central entity of the domain.
// ID is stable for the lifetime of the note and determines its storage location.
// Path is assigned by the store and is opaque to callers.
type Note struct {
	ID       string   `json:"id"`
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
	Path     string   `json:"path"`
}

// Clone returns a deep copy of the note.
func (n Note) Clone() Note {
	n.Metadata = n.Metadata.Clone()
	return n
}

// Updated returns the parsed updated_at timestamp, if any.
func (n Note) Updated() (time.Time, bool) {
	return ParseTime(n.Metadata.UpdatedAt)
}

// Summary is the lightweight view of a note served by indexed listings.
type Summary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	ParentID  string `json:"parentId,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
	Path      string `json:"path"`
}

// Theme is the UI color scheme stored alongside the workspace.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// DefaultTheme is used until a theme is chosen.
const DefaultTheme = ThemeDark

// ParseTheme validates a theme name.
func ParseTheme(s string) (Theme, error) {
	switch t := Theme(s); t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return t, nil
	}
	return "", fmt.Errorf("unknown theme %q (want light, dark or system)", s)
}

// Settings holds workspace-wide preferences persisted next to the notes.
type Settings struct {
	Theme Theme `yaml:"theme" json:"theme"`
}

// EventType represents the type of change in the workspace root.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a note file.
type Event struct {
	Type      EventType
	ID        string
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.ID)
}
