// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"sort"

	"github.com/danielhkuo/quickly-meet/models"
)

// Pure schedule aggregation over flattened date/time slots.

// SlotKey builds the deterministic key for a (date, time) pair. Whole-day
// slots use the bare date. The key doubles as the availability map key and
// as the confirmed_date_time value, so it must be injective over every
// slot a schedule can produce; "YYYY-MM-DD" plus "_HH:mm" is, and its
// lexical order matches chronological order within a date because times
// are zero-padded.
func SlotKey(date, timeOfDay string) string {
	if timeOfDay == "" {
		return date
	}
	return date + "_" + timeOfDay
}

// FlattenDates expands date options into concrete slots: a date with N
// times yields N timed slots, a date with no times yields one whole-day
// slot. The result is sorted ascending by date, then by time.
func FlattenDates(dates []models.DateOption) []models.Slot {
	slots := []models.Slot{}
	for _, d := range dates {
		if len(d.Times) == 0 {
			slots = append(slots, models.Slot{Date: d.Date, Key: SlotKey(d.Date, "")})
			continue
		}
		for _, tm := range d.Times {
			slots = append(slots, models.Slot{Date: d.Date, Time: tm, Key: SlotKey(d.Date, tm)})
		}
	}

	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Date != slots[j].Date {
			return slots[i].Date < slots[j].Date
		}
		return slots[i].Time < slots[j].Time
	})

	return slots
}

// Summarize counts the availability states at one slot key. Respondents
// whose map lacks the key count as unavailable, so the three counts always
// sum to len(responses).
func Summarize(key string, responses []models.Response) (available, maybe, unavailable int) {
	for _, r := range responses {
		switch r.Availability[key] {
		case models.Available:
			available++
		case models.Maybe:
			maybe++
		default:
			unavailable++
		}
	}
	return available, maybe, unavailable
}

// Score is the slot ranking metric: full availability weighs twice as much
// as a tentative answer.
func Score(available, maybe int) int {
	return available*2 + maybe
}

// BestKeys returns the set of slot keys achieving the maximum score,
// provided that maximum is positive. No responses, or responses where
// nobody can make anything, yield an empty set: an all-zero tie is
// "nobody can come", not "everything is best".
func BestKeys(slots []models.Slot, responses []models.Response) map[string]bool {
	best := map[string]bool{}
	if len(responses) == 0 {
		return best
	}

	maxScore := 0
	scores := make(map[string]int, len(slots))
	for _, slot := range slots {
		available, maybe, _ := Summarize(slot.Key, responses)
		s := Score(available, maybe)
		scores[slot.Key] = s
		if s > maxScore {
			maxScore = s
		}
	}

	if maxScore == 0 {
		return best
	}
	for key, s := range scores {
		if s == maxScore {
			best[key] = true
		}
	}
	return best
}

// SortByConfirmed reorders slots for display: the confirmed slot, if any,
// comes first; everything else keeps its chronological order.
func SortByConfirmed(slots []models.Slot, confirmedKey string) []models.Slot {
	sorted := make([]models.Slot, len(slots))
	copy(sorted, slots)
	if confirmedKey == "" {
		return sorted
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Key == confirmedKey {
			return sorted[j].Key != confirmedKey
		}
		return false
	})
	return sorted
}

// BuildScheduleResults assembles the full results payload for a schedule.
func BuildScheduleResults(schedule models.Schedule) models.ScheduleResults {
	slots := FlattenDates(schedule.Dates)
	best := BestKeys(slots, schedule.Responses)

	confirmed := ""
	if schedule.ConfirmedDateTime != nil {
		confirmed = *schedule.ConfirmedDateTime
	}
	ordered := SortByConfirmed(slots, confirmed)

	slotResults := make([]models.SlotResult, len(ordered))
	for i, slot := range ordered {
		available, maybe, unavailable := Summarize(slot.Key, schedule.Responses)
		slotResults[i] = models.SlotResult{
			Slot:        slot,
			Available:   available,
			Maybe:       maybe,
			Unavailable: unavailable,
			Score:       Score(available, maybe),
			IsBest:      best[slot.Key],
			IsConfirmed: confirmed != "" && slot.Key == confirmed,
		}
	}

	// Report best keys in display order so clients need no extra sort
	bestKeys := []string{}
	for _, slot := range ordered {
		if best[slot.Key] {
			bestKeys = append(bestKeys, slot.Key)
		}
	}

	return models.ScheduleResults{
		Schedule:      schedule,
		ResponseCount: len(schedule.Responses),
		Slots:         slotResults,
		BestKeys:      bestKeys,
	}
}
