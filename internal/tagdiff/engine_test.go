package tagdiff

import (
	"strings"
	"testing"

	"tagscout/internal/track"
)

func newTestEngine() (*Engine, *track.LocalTrack) {
	t := &track.LocalTrack{
		Path:        "/music/a.flac",
		Artist:      "The Beatls",
		Album:       "Abbey Road",
		TrackNumber: 1,
	}
	return New(nil, t), t
}

func proposedSnapshot() track.Snapshot {
	return track.Snapshot{
		Artist:      "The Beatles",
		Album:       "Abbey Road",
		Title:       "Come Together",
		TrackNumber: 1,
		Year:        1969,
	}
}

func TestUpdateComparisonFlags(t *testing.T) {
	engine, _ := newTestEngine()
	engine.UpdateComparison(proposedSnapshot(), "catalog match")

	byField := map[string]FieldDiff{}
	for _, item := range engine.Items(FilterAll) {
		byField[item.Field] = item
	}

	if len(byField) != 5 {
		t.Fatalf("comparison has %d fields, want 5", len(byField))
	}
	if !byField[FieldArtist].Changed || byField[FieldArtist].Missing {
		t.Errorf("artist diff = %+v, want changed and not new", byField[FieldArtist])
	}
	if byField[FieldAlbum].Changed {
		t.Errorf("album diff = %+v, want unchanged", byField[FieldAlbum])
	}
	if !byField[FieldTitle].Missing || !byField[FieldTitle].Changed {
		t.Errorf("title diff = %+v, want new", byField[FieldTitle])
	}
	if !byField[FieldYear].Missing {
		t.Errorf("year diff = %+v, want new", byField[FieldYear])
	}
	for _, item := range byField {
		if item.State != Pending {
			t.Errorf("field %s starts in state %v, want pending", item.Field, item.State)
		}
	}
}

func TestAcceptChange(t *testing.T) {
	engine, tr := newTestEngine()
	engine.UpdateComparison(proposedSnapshot(), "catalog match")

	if err := engine.Accept(FieldArtist); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if tr.Artist != "The Beatles" {
		t.Errorf("working artist = %q, want accepted value", tr.Artist)
	}
	summary := engine.Summary()
	if !strings.Contains(summary, "The Beatles") || !strings.Contains(summary, "accepted") {
		t.Errorf("summary missing accepted value:\n%s", summary)
	}
}

func TestRejectChangeKeepsOriginal(t *testing.T) {
	engine, tr := newTestEngine()
	engine.UpdateComparison(proposedSnapshot(), "catalog match")

	if err := engine.Reject(FieldArtist); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if tr.Artist != "The Beatls" {
		t.Errorf("working artist = %q, want original preserved", tr.Artist)
	}
	items := engine.Items(FilterAll)
	if items[0].State != Rejected {
		t.Errorf("artist state = %v, want rejected", items[0].State)
	}
}

func TestAcceptAllSkipsRejected(t *testing.T) {
	engine, tr := newTestEngine()
	engine.UpdateComparison(proposedSnapshot(), "catalog match")

	if err := engine.Reject(FieldArtist); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if err := engine.AcceptAll(); err != nil {
		t.Fatalf("AcceptAll: %v", err)
	}

	if tr.Artist != "The Beatls" {
		t.Errorf("rejected artist overwritten by AcceptAll: %q", tr.Artist)
	}
	if tr.Title != "Come Together" || tr.Year != 1969 {
		t.Errorf("pending fields not accepted: title=%q year=%d", tr.Title, tr.Year)
	}
	for _, item := range engine.Items(FilterAll) {
		switch item.Field {
		case FieldArtist:
			if item.State != Rejected {
				t.Errorf("artist state = %v, want rejected", item.State)
			}
		default:
			if item.State != Accepted {
				t.Errorf("%s state = %v, want accepted", item.Field, item.State)
			}
		}
	}
}

func TestRevertAllRestoresEverything(t *testing.T) {
	engine, tr := newTestEngine()
	engine.UpdateComparison(proposedSnapshot(), "catalog match")

	if err := engine.AcceptAll(); err != nil {
		t.Fatalf("AcceptAll: %v", err)
	}
	if err := engine.RevertAll(); err != nil {
		t.Fatalf("RevertAll: %v", err)
	}

	if tr.Artist != "The Beatls" || tr.Title != "" || tr.Year != 0 {
		t.Errorf("working values not restored: %+v", tr)
	}
	for _, item := range engine.Items(FilterAll) {
		if item.State != Pending {
			t.Errorf("%s state = %v after revert, want pending", item.Field, item.State)
		}
	}
}

func TestUpdateComparisonReplacesSet(t *testing.T) {
	engine, _ := newTestEngine()
	engine.UpdateComparison(proposedSnapshot(), "first")
	if err := engine.Accept(FieldArtist); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	second := track.Snapshot{Artist: "The Beatles", Album: "Let It Be", Year: 1970}
	engine.UpdateComparison(second, "second")

	for _, item := range engine.Items(FilterAll) {
		if item.State != Pending {
			t.Errorf("state %v leaked from first comparison into second", item.State)
		}
	}
	byField := map[string]FieldDiff{}
	for _, item := range engine.Items(FilterAll) {
		byField[item.Field] = item
	}
	// Artist was accepted before the rebuild, so the new original reflects it.
	if byField[FieldArtist].Original != "The Beatles" || byField[FieldArtist].Changed {
		t.Errorf("artist diff after rebuild = %+v", byField[FieldArtist])
	}
	if byField[FieldAlbum].Proposed != "Let It Be" || !byField[FieldAlbum].Changed {
		t.Errorf("album diff after rebuild = %+v", byField[FieldAlbum])
	}
}

func TestHistoryAppendOnly(t *testing.T) {
	engine, _ := newTestEngine()
	engine.UpdateComparison(proposedSnapshot(), "first")
	engine.UpdateComparison(proposedSnapshot(), "second")

	history := engine.History()
	if len(history) != 2 {
		t.Fatalf("history has %d entries, want 2", len(history))
	}
	if history[0].Description != "first" || history[1].Description != "second" {
		t.Errorf("history order wrong: %+v", history)
	}
	for _, entry := range history {
		if entry.ID == "" || entry.Timestamp.IsZero() {
			t.Errorf("history entry missing id or timestamp: %+v", entry)
		}
	}
}

func TestFilters(t *testing.T) {
	engine, _ := newTestEngine()
	engine.UpdateComparison(proposedSnapshot(), "catalog match")

	changed := engine.Items(FilterChanged)
	for _, item := range changed {
		if !item.Changed && !item.Missing {
			t.Errorf("FilterChanged returned unchanged field %s", item.Field)
		}
	}
	missing := engine.Items(FilterMissing)
	for _, item := range missing {
		if item.Original != "" || item.Proposed == "" {
			t.Errorf("FilterMissing returned non-missing field %s", item.Field)
		}
	}
	if len(missing) >= len(engine.Items(FilterAll)) {
		t.Errorf("FilterMissing returned %d items, expected a strict subset", len(missing))
	}
}

func TestAcceptUnknownField(t *testing.T) {
	engine, _ := newTestEngine()
	engine.UpdateComparison(proposedSnapshot(), "catalog match")
	if err := engine.Accept("genre"); err == nil {
		t.Error("Accept accepted an untracked field")
	}
}
