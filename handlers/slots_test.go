// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"reflect"
	"testing"

	"github.com/danielhkuo/quickly-meet/models"
)

func response(id string, availability map[string]models.AvailabilityStatus) models.Response {
	return models.Response{RespondentID: id, Name: id, Availability: availability}
}

func TestSlotKey(t *testing.T) {
	tests := []struct {
		date, timeOfDay, want string
	}{
		{"2026-09-05", "", "2026-09-05"},
		{"2026-09-05", "19:00", "2026-09-05_19:00"},
		{"2026-09-07", "09:30", "2026-09-07_09:30"},
	}

	for _, tt := range tests {
		if got := SlotKey(tt.date, tt.timeOfDay); got != tt.want {
			t.Errorf("SlotKey(%q, %q) = %q, want %q", tt.date, tt.timeOfDay, got, tt.want)
		}
	}
}

func TestFlattenDates(t *testing.T) {
	dates := []models.DateOption{
		{Date: "2026-09-07", Times: []string{"19:00", "09:00"}},
		{Date: "2026-09-05"},
	}

	slots := FlattenDates(dates)

	gotKeys := []string{}
	for _, s := range slots {
		gotKeys = append(gotKeys, s.Key)
	}
	want := []string{"2026-09-05", "2026-09-07_09:00", "2026-09-07_19:00"}
	if !reflect.DeepEqual(gotKeys, want) {
		t.Errorf("expected keys %v, got %v", want, gotKeys)
	}

	if slots := FlattenDates(nil); len(slots) != 0 {
		t.Errorf("expected no slots for no dates, got %d", len(slots))
	}
}

func TestSummarize(t *testing.T) {
	responses := []models.Response{
		response("r1", map[string]models.AvailabilityStatus{"2026-09-05": models.Available}),
		response("r2", map[string]models.AvailabilityStatus{"2026-09-05": models.Maybe}),
		response("r3", map[string]models.AvailabilityStatus{"2026-09-05": models.Unavailable}),
		// r4 never answered for this slot at all
		response("r4", map[string]models.AvailabilityStatus{"2026-09-06": models.Available}),
	}

	available, maybe, unavailable := Summarize("2026-09-05", responses)
	if available != 1 || maybe != 1 || unavailable != 2 {
		t.Errorf("got (%d, %d, %d), want (1, 1, 2)", available, maybe, unavailable)
	}

	// The three counts always account for every respondent
	if available+maybe+unavailable != len(responses) {
		t.Errorf("counts sum to %d, want %d", available+maybe+unavailable, len(responses))
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		available, maybe, want int
	}{
		{0, 0, 0},
		{1, 0, 2},
		{0, 1, 1},
		{4, 0, 8},
		{2, 2, 6},
	}
	for _, tt := range tests {
		if got := Score(tt.available, tt.maybe); got != tt.want {
			t.Errorf("Score(%d, %d) = %d, want %d", tt.available, tt.maybe, got, tt.want)
		}
	}
}

func TestBestKeys(t *testing.T) {
	slots := FlattenDates([]models.DateOption{
		{Date: "2026-09-05"}, // Saturday
		{Date: "2026-09-07"}, // Monday
	})

	t.Run("full availability outranks tentative", func(t *testing.T) {
		// Saturday: 4 available (score 8). Monday: 2 available + 2 maybe (score 6).
		responses := []models.Response{
			response("r1", map[string]models.AvailabilityStatus{"2026-09-05": models.Available, "2026-09-07": models.Available}),
			response("r2", map[string]models.AvailabilityStatus{"2026-09-05": models.Available, "2026-09-07": models.Available}),
			response("r3", map[string]models.AvailabilityStatus{"2026-09-05": models.Available, "2026-09-07": models.Maybe}),
			response("r4", map[string]models.AvailabilityStatus{"2026-09-05": models.Available, "2026-09-07": models.Maybe}),
		}

		best := BestKeys(slots, responses)
		if len(best) != 1 || !best["2026-09-05"] {
			t.Errorf("expected only 2026-09-05 to be best, got %v", best)
		}
	})

	t.Run("ties keep every maximal slot", func(t *testing.T) {
		responses := []models.Response{
			response("r1", map[string]models.AvailabilityStatus{"2026-09-05": models.Available, "2026-09-07": models.Available}),
		}
		best := BestKeys(slots, responses)
		if len(best) != 2 {
			t.Errorf("expected both slots best, got %v", best)
		}
	})

	t.Run("no responses means no best slot", func(t *testing.T) {
		if best := BestKeys(slots, nil); len(best) != 0 {
			t.Errorf("expected empty set, got %v", best)
		}
	})

	t.Run("all unavailable means no best slot", func(t *testing.T) {
		responses := []models.Response{
			response("r1", map[string]models.AvailabilityStatus{"2026-09-05": models.Unavailable}),
			response("r2", map[string]models.AvailabilityStatus{}),
		}
		if best := BestKeys(slots, responses); len(best) != 0 {
			t.Errorf("expected empty set for zero max score, got %v", best)
		}
	})
}

func TestSortByConfirmed(t *testing.T) {
	slots := FlattenDates([]models.DateOption{
		{Date: "2026-09-05"},
		{Date: "2026-09-06"},
		{Date: "2026-09-07"},
	})

	sorted := SortByConfirmed(slots, "2026-09-06")
	if sorted[0].Key != "2026-09-06" {
		t.Errorf("expected confirmed slot first, got %q", sorted[0].Key)
	}
	if sorted[1].Key != "2026-09-05" || sorted[2].Key != "2026-09-07" {
		t.Errorf("remaining slots out of order: %q, %q", sorted[1].Key, sorted[2].Key)
	}

	// No confirmation keeps chronological order
	sorted = SortByConfirmed(slots, "")
	if sorted[0].Key != "2026-09-05" {
		t.Errorf("expected chronological order without confirmation, got %q first", sorted[0].Key)
	}

	if slots[0].Key != "2026-09-05" {
		t.Error("sort must not mutate the input")
	}
}

func TestBuildScheduleResults(t *testing.T) {
	confirmed := "2026-09-07"
	schedule := models.Schedule{
		ID:                "sched-1",
		Title:             "Team dinner",
		ConfirmedDateTime: &confirmed,
		Dates: []models.DateOption{
			{Date: "2026-09-05"},
			{Date: "2026-09-07"},
		},
		Responses: []models.Response{
			response("r1", map[string]models.AvailabilityStatus{"2026-09-05": models.Available, "2026-09-07": models.Maybe}),
			response("r2", map[string]models.AvailabilityStatus{"2026-09-05": models.Available}),
		},
	}

	results := BuildScheduleResults(schedule)

	if results.ResponseCount != 2 {
		t.Errorf("expected 2 responses, got %d", results.ResponseCount)
	}
	if len(results.Slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(results.Slots))
	}

	// Confirmed slot leads the display order even when it is not best
	first := results.Slots[0]
	if first.Key != "2026-09-07" || !first.IsConfirmed {
		t.Errorf("expected confirmed 2026-09-07 first, got %+v", first)
	}
	if first.IsBest {
		t.Error("confirmed slot should not be marked best here")
	}

	second := results.Slots[1]
	if second.Key != "2026-09-05" || !second.IsBest || second.Score != 4 {
		t.Errorf("expected 2026-09-05 best with score 4, got %+v", second)
	}

	if !reflect.DeepEqual(results.BestKeys, []string{"2026-09-05"}) {
		t.Errorf("expected best keys [2026-09-05], got %v", results.BestKeys)
	}
}
