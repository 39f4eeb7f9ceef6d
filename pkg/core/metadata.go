package core

import (
	"encoding/json"
	"maps"
	"slices"
)

// Known front-matter keys.
const (
	KeyTitle     = "title"
	KeyEmoji     = "emoji"
	KeyParentID  = "parentId"
	KeyTags      = "tags"
	KeyCreatedAt = "created_at"
	KeyUpdatedAt = "updated_at"
)

// KnownKeys lists the typed keys in the order they are written to disk.
var KnownKeys = []string{KeyTitle, KeyEmoji, KeyParentID, KeyTags, KeyCreatedAt, KeyUpdatedAt}

// Metadata is the front-matter of a note.
// Recognized keys live in typed fields; every other key is kept in Extra
// and written back untouched. A recognized key whose value does not fit
// its field (e.g. a numeric title) is also kept in Extra.
type Metadata struct {
	Title     string
	Emoji     string
	ParentID  string
	Tags      []string
	CreatedAt string
	UpdatedAt string
	Extra     map[string]any
}

// Clone returns a deep copy of m.
func (m Metadata) Clone() Metadata {
	if m.Tags != nil {
		m.Tags = slices.Clone(m.Tags)
	}
	if m.Extra != nil {
		extra := make(map[string]any, len(m.Extra))
		for k, v := range m.Extra {
			extra[k] = cloneValue(v)
		}
		m.Extra = extra
	}
	return m
}

// Set stores an arbitrary key, routing known keys to their typed field.
func (m *Metadata) Set(key string, value any) {
	if m.assign(key, value) {
		if m.Extra != nil {
			delete(m.Extra, key)
		}
		return
	}
	if m.Extra == nil {
		m.Extra = make(map[string]any)
	}
	m.Extra[key] = value
}

// Map flattens m into a single key/value map. Typed fields win over
// Extra entries with the same key; empty typed fields are omitted.
func (m Metadata) Map() map[string]any {
	out := make(map[string]any, len(m.Extra)+len(KnownKeys))
	for k, v := range m.Extra {
		out[k] = cloneValue(v)
	}
	for _, k := range KnownKeys {
		if v, ok := m.known(k); ok {
			out[k] = v
		}
	}
	return out
}

// MetadataFromMap is the inverse of Metadata.Map.
func MetadataFromMap(raw map[string]any) Metadata {
	var m Metadata
	for _, k := range slices.Sorted(maps.Keys(raw)) {
		m.Set(k, raw[k])
	}
	return m
}

// known returns the value of a typed field, if set.
func (m Metadata) known(key string) (any, bool) {
	switch key {
	case KeyTitle:
		return m.Title, m.Title != ""
	case KeyEmoji:
		return m.Emoji, m.Emoji != ""
	case KeyParentID:
		return m.ParentID, m.ParentID != ""
	case KeyTags:
		if m.Tags == nil {
			return nil, false
		}
		return slices.Clone(m.Tags), true
	case KeyCreatedAt:
		return m.CreatedAt, m.CreatedAt != ""
	case KeyUpdatedAt:
		return m.UpdatedAt, m.UpdatedAt != ""
	}
	return nil, false
}

// assign routes value into a typed field when key is known and the type fits.
func (m *Metadata) assign(key string, value any) bool {
	switch key {
	case KeyTitle, KeyEmoji, KeyParentID, KeyCreatedAt, KeyUpdatedAt:
		s, ok := value.(string)
		if !ok {
			return false
		}
		switch key {
		case KeyTitle:
			m.Title = s
		case KeyEmoji:
			m.Emoji = s
		case KeyParentID:
			m.ParentID = s
		case KeyCreatedAt:
			m.CreatedAt = s
		case KeyUpdatedAt:
			m.UpdatedAt = s
		}
		return true
	case KeyTags:
		tags, ok := toStrings(value)
		if !ok {
			return false
		}
		m.Tags = tags
		return true
	}
	return false
}

func toStrings(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return slices.Clone(v), true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = cloneValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = cloneValue(val)
		}
		return out
	case []string:
		return slices.Clone(t)
	default:
		return v
	}
}

// MarshalJSON encodes the metadata as a flat object.
func (m Metadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Map())
}

// UnmarshalJSON decodes a flat object, splitting known and extra keys.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = MetadataFromMap(raw)
	return nil
}
