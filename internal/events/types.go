package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidDate is returned by the loaders when an entry carries a date that
// cannot be read as a calendar day.
var ErrInvalidDate = errors.New("invalid event date")

// ID identifies an event. Data files use either strings or numbers.
type ID string

// UnmarshalJSON accepts both `"id": "a1"` and `"id": 7`.
func (id *ID) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		*id = ID(v)
	case float64:
		*id = ID(strconv.FormatFloat(v, 'f', -1, 64))
	case nil:
		*id = ""
	default:
		return fmt.Errorf("unsupported id type %T", raw)
	}
	return nil
}

// UnmarshalYAML keeps the scalar text as written.
func (id *ID) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: id must be a scalar", value.Line)
	}
	*id = ID(value.Value)
	return nil
}

// Event is a dated activity with display metadata.
type Event struct {
	ID        ID
	Date      time.Time
	Title     string
	StartTime string
	Color     string
}

// Label is the text shown in a day cell.
func (e Event) Label() string {
	if e.StartTime == "" {
		return e.Title
	}
	return fmt.Sprintf("%s (%s)", e.Title, e.StartTime)
}

// record is the on-disk shape shared by the JSON and YAML decoders.
type record struct {
	ID        ID     `json:"id" yaml:"id"`
	Date      string `json:"date" yaml:"date"`
	Title     string `json:"title" yaml:"title"`
	StartTime string `json:"startTime" yaml:"startTime"`
	Color     string `json:"color" yaml:"color"`
}

// document is the wrapper used by the bundled data files: {"events": [...]}.
type document struct {
	Events []record `json:"events" yaml:"events"`
}

func (r record) toEvent(index int) (Event, error) {
	date, err := ParseDate(r.Date)
	if err != nil {
		return Event{}, fmt.Errorf("event %d (id %q): %w", index, r.ID, err)
	}
	return Event{
		ID:        r.ID,
		Date:      date,
		Title:     r.Title,
		StartTime: r.StartTime,
		Color:     r.Color,
	}, nil
}
