package models

import (
	"encoding"
	"encoding/json"
	"fmt"
	"strings"
)

// Status is the study status of a walleted flashcard. A card that is not in
// the wallet has no Status at all; that is distinct from InProgress.
type Status int

const (
	InProgress Status = iota + 1
	Learned
	Hidden
)

var (
	statusNames  = [...]string{InProgress: "IN_PROGRESS", Learned: "LEARNED", Hidden: "HIDDEN"}
	statusByName = map[string]Status{
		"IN_PROGRESS": InProgress,
		"LEARNED":     Learned,
		"HIDDEN":      Hidden,
	}
)

var (
	_ fmt.Stringer             = Status(0)
	_ json.Marshaler           = Status(0)
	_ json.Unmarshaler         = (*Status)(nil)
	_ encoding.TextMarshaler   = Status(0)
	_ encoding.TextUnmarshaler = (*Status)(nil)
)

// Valid reports whether s is one of the defined statuses.
func (s Status) Valid() bool {
	return s >= InProgress && s <= Hidden
}

func (s Status) String() string {
	if s.Valid() {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// ParseStatus accepts the wire names and the friendlier CLI spellings
// ("learned", "in-progress", "in_progress").
func ParseStatus(text string) (Status, error) {
	key := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(text), "-", "_"))
	s, ok := statusByName[key]
	if !ok {
		return 0, fmt.Errorf("invalid status: %q", text)
	}
	return s, nil
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid status: %d", int(s))
	}
	return []byte(statusNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	v, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// MarshalJSON implements json.Marshaler.
func (s Status) MarshalJSON() ([]byte, error) {
	text, err := s.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Status) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("status must be a JSON string: %w", err)
	}
	return s.UnmarshalText([]byte(str))
}
