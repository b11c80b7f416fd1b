// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"math"
	"sort"

	"github.com/danielhkuo/quickly-meet/models"
)

// Pure poll aggregation. These functions never fail: malformed (negative)
// counts read as zero, and an empty poll just produces empty results.

// TotalVotes sums the denormalized vote counts across all options.
func TotalVotes(poll models.Poll) int {
	total := 0
	for _, opt := range poll.Options {
		total += safeVotes(opt)
	}
	return total
}

// WinningOption returns the option with the strictly maximum vote count,
// resolving ties by first occurrence in the option list. Returns nil only
// when the poll has no options at all: a poll where every option has zero
// votes reports its first option as the winner. That quirk is intentional
// and covered by tests; callers wanting "no winner yet" should check
// TotalVotes themselves.
func WinningOption(poll models.Poll) *models.PollOption {
	if len(poll.Options) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(poll.Options); i++ {
		if safeVotes(poll.Options[i]) > safeVotes(poll.Options[best]) {
			best = i
		}
	}
	return &poll.Options[best]
}

// VotePercentage returns votes/total as a percentage in [0,100], rounded
// to one decimal place. A zero total yields 0 rather than NaN.
func VotePercentage(votes, total int) float64 {
	if total <= 0 {
		return 0
	}
	if votes < 0 {
		votes = 0
	}
	return math.Round(float64(votes)/float64(total)*1000) / 10
}

// SortOptionsByVotes returns a copy of the options in descending vote
// order. The sort is stable: equal counts keep their original order.
func SortOptionsByVotes(options []models.PollOption) []models.PollOption {
	sorted := make([]models.PollOption, len(options))
	copy(sorted, options)
	sort.SliceStable(sorted, func(i, j int) bool {
		return safeVotes(sorted[i]) > safeVotes(sorted[j])
	})
	return sorted
}

// BuildPollResults assembles the full results payload for a poll.
func BuildPollResults(poll models.Poll) models.PollResults {
	total := TotalVotes(poll)

	sorted := SortOptionsByVotes(poll.Options)
	options := make([]models.OptionResult, len(sorted))
	for i, opt := range sorted {
		options[i] = optionResult(opt, total)
	}

	results := models.PollResults{
		Poll:       poll,
		TotalVotes: total,
		Options:    options,
	}

	if win := WinningOption(poll); win != nil {
		r := optionResult(*win, total)
		results.Winner = &r
	}

	return results
}

func optionResult(opt models.PollOption, total int) models.OptionResult {
	voters := opt.Voters
	if voters == nil {
		voters = []models.Voter{}
	}
	return models.OptionResult{
		OptionID:   opt.OptionID,
		Title:      opt.Title,
		Votes:      safeVotes(opt),
		Percentage: VotePercentage(safeVotes(opt), total),
		Voters:     voters,
	}
}

func safeVotes(opt models.PollOption) int {
	if opt.Votes < 0 {
		return 0
	}
	return opt.Votes
}
