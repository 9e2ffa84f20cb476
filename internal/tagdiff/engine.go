package tagdiff

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"tagscout/internal/logging"
	"tagscout/internal/track"
)

// State is the acceptance state of one field diff.
type State int

const (
	// Pending means the diff awaits a decision.
	Pending State = iota
	// Accepted means the proposed value has been written to the working tags.
	Accepted
	// Rejected means the original value stays in force.
	Rejected
)

func (s State) String() string {
	switch s {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	default:
		return "pending"
	}
}

// Tracked tag fields, in display order.
const (
	FieldArtist = "artist"
	FieldAlbum  = "album"
	FieldTitle  = "title"
	FieldTrack  = "track"
	FieldYear   = "year"
)

var fieldOrder = []string{FieldArtist, FieldAlbum, FieldTitle, FieldTrack, FieldYear}

// FieldDiff is one tag field's original/proposed value pair plus its state.
type FieldDiff struct {
	Field    string
	Original string
	Proposed string
	Changed  bool
	Missing  bool
	State    State
}

// Filter selects which diffs a read-only view includes.
type Filter int

const (
	// FilterAll includes every tracked field.
	FilterAll Filter = iota
	// FilterChanged includes fields whose value differs or is newly filled.
	FilterChanged
	// FilterMissing includes fields that were empty and now have a value.
	FilterMissing
)

// ChangeEntry records one comparison built for a track. Entries are appended
// and never removed.
type ChangeEntry struct {
	ID          string
	Timestamp   time.Time
	Description string
}

// Engine owns the comparison state for a single track.
type Engine struct {
	logger  *slog.Logger
	track   *track.LocalTrack
	items   []FieldDiff
	history []ChangeEntry
	now     func() time.Time
}

// New creates a diff engine bound to the given track. The track's fields are
// the working values the engine reads and mutates.
func New(logger *slog.Logger, t *track.LocalTrack) *Engine {
	return &Engine{
		logger: logging.NewComponentLogger(logger, "tagdiff"),
		track:  t,
		now:    time.Now,
	}
}

// Track returns the track this engine owns.
func (e *Engine) Track() *track.LocalTrack {
	return e.track
}

// UpdateComparison compares the track's current working values against the
// snapshot and replaces the comparison set wholesale. The previous set,
// including any pending decisions, is discarded. A history entry describing
// the comparison is appended.
func (e *Engine) UpdateComparison(snap track.Snapshot, description string) {
	items := make([]FieldDiff, 0, len(fieldOrder))
	for _, field := range fieldOrder {
		original := workingValue(e.track, field)
		proposed := snapshotValue(snap, field)
		items = append(items, FieldDiff{
			Field:    field,
			Original: original,
			Proposed: proposed,
			Changed:  original != proposed,
			Missing:  original == "" && proposed != "",
			State:    Pending,
		})
	}
	e.items = items
	e.history = append(e.history, ChangeEntry{
		ID:          uuid.NewString(),
		Timestamp:   e.now(),
		Description: description,
	})

	e.logger.Debug("comparison rebuilt",
		logging.String("path", e.track.Path),
		logging.String("description", description),
		logging.Int("changed_fields", len(e.Items(FilterChanged))))
}

// Accept applies the field's proposed value to the working tags and marks
// the diff accepted.
func (e *Engine) Accept(field string) error {
	item, err := e.item(field)
	if err != nil {
		return err
	}
	if err := setWorkingValue(e.track, item.Field, item.Proposed); err != nil {
		return err
	}
	item.State = Accepted
	return nil
}

// Reject keeps the field's original working value and marks the diff
// rejected.
func (e *Engine) Reject(field string) error {
	item, err := e.item(field)
	if err != nil {
		return err
	}
	if err := setWorkingValue(e.track, item.Field, item.Original); err != nil {
		return err
	}
	item.State = Rejected
	return nil
}

// AcceptAll accepts every pending diff. Previously rejected diffs keep their
// rejection; an explicit user decision is never overridden wholesale.
func (e *Engine) AcceptAll() error {
	for i := range e.items {
		if e.items[i].State != Pending {
			continue
		}
		if err := setWorkingValue(e.track, e.items[i].Field, e.items[i].Proposed); err != nil {
			return err
		}
		e.items[i].State = Accepted
	}
	return nil
}

// RevertAll restores every field's working value to its pre-comparison
// original and resets every diff to pending, regardless of prior state.
func (e *Engine) RevertAll() error {
	for i := range e.items {
		if err := setWorkingValue(e.track, e.items[i].Field, e.items[i].Original); err != nil {
			return err
		}
		e.items[i].State = Pending
	}
	return nil
}

// Items returns the diffs matching the filter, in field order.
func (e *Engine) Items(filter Filter) []FieldDiff {
	out := make([]FieldDiff, 0, len(e.items))
	for _, item := range e.items {
		switch filter {
		case FilterChanged:
			if !item.Changed && !item.Missing {
				continue
			}
		case FilterMissing:
			if !item.Missing {
				continue
			}
		}
		out = append(out, item)
	}
	return out
}

// History returns the append-only change log, oldest first.
func (e *Engine) History() []ChangeEntry {
	out := make([]ChangeEntry, len(e.history))
	copy(out, e.history)
	return out
}

// Summary renders one line per field: original -> proposed with change and
// state annotations.
func (e *Engine) Summary() string {
	var b strings.Builder
	for _, item := range e.items {
		fmt.Fprintf(&b, "%s: %s -> %s", item.Field, displayValue(item.Original), displayValue(item.Proposed))
		notes := make([]string, 0, 3)
		if item.Missing {
			notes = append(notes, "new")
		} else if item.Changed {
			notes = append(notes, "changed")
		}
		if item.State != Pending {
			notes = append(notes, item.State.String())
		}
		if len(notes) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(notes, ", "))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (e *Engine) item(field string) (*FieldDiff, error) {
	for i := range e.items {
		if e.items[i].Field == field {
			return &e.items[i], nil
		}
	}
	return nil, fmt.Errorf("no comparison item for field %q", field)
}

func displayValue(v string) string {
	if v == "" {
		return "<empty>"
	}
	return v
}

func workingValue(t *track.LocalTrack, field string) string {
	switch field {
	case FieldArtist:
		return t.Artist
	case FieldAlbum:
		return t.Album
	case FieldTitle:
		return t.Title
	case FieldTrack:
		return intValue(t.TrackNumber)
	case FieldYear:
		return intValue(t.Year)
	}
	return ""
}

func snapshotValue(s track.Snapshot, field string) string {
	switch field {
	case FieldArtist:
		return s.Artist
	case FieldAlbum:
		return s.Album
	case FieldTitle:
		return s.Title
	case FieldTrack:
		return intValue(s.TrackNumber)
	case FieldYear:
		return intValue(s.Year)
	}
	return ""
}

func setWorkingValue(t *track.LocalTrack, field, value string) error {
	switch field {
	case FieldArtist:
		t.Artist = value
	case FieldAlbum:
		t.Album = value
	case FieldTitle:
		t.Title = value
	case FieldTrack:
		n, err := parseIntValue(value)
		if err != nil {
			return fmt.Errorf("track number: %w", err)
		}
		t.TrackNumber = n
	case FieldYear:
		n, err := parseIntValue(value)
		if err != nil {
			return fmt.Errorf("year: %w", err)
		}
		t.Year = n
	default:
		return fmt.Errorf("unknown tag field %q", field)
	}
	return nil
}

func intValue(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func parseIntValue(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}
