// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-meet/cliparse"
	"github.com/danielhkuo/quickly-meet/middleware"
	"github.com/danielhkuo/quickly-meet/models"
)

type VotingHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewVotingHandler(db *sql.DB, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{db: db, cfg: cfg}
}

// Vote handles POST /polls/{id}/vote
//
// One vote per voter, toggle semantics: voting for the option the voter
// already holds cancels it; voting for a different option moves the vote.
// The whole read-modify-write runs in one transaction, and the
// (poll_id, voter_id) primary key on poll_voter guarantees at most one
// membership even if two requests race.
func (h *VotingHandler) Vote(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.VoterName = strings.TrimSpace(req.VoterName)
	if req.VoterID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter_id is required")
		return
	}
	if req.VoterName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter_name is required")
		return
	}

	open, err := isPollOpen(h.db, pollID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to query poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !open {
		middleware.ErrorResponse(w, http.StatusConflict, "Poll is not open for voting")
		return
	}

	// Verify the option exists
	var exists bool
	err = h.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM poll_option WHERE poll_id = $1 AND option_id = $2)
	`, pollID, req.OptionID).Scan(&exists)
	if err != nil {
		slog.Error("failed to query option", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusBadRequest, "unknown option_id")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	// Current membership, if any
	var currentOption int
	err = tx.QueryRow(`
		SELECT option_id FROM poll_voter WHERE poll_id = $1 AND voter_id = $2
	`, pollID, req.VoterID).Scan(&currentOption)

	hasVote := err == nil
	if err != nil && err != sql.ErrNoRows {
		slog.Error("failed to query membership", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	cancelled := false
	switch {
	case hasVote && currentOption == req.OptionID:
		// Toggle off
		if err := removeVote(tx, pollID, req.VoterID, currentOption); err != nil {
			slog.Error("failed to cancel vote", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
			return
		}
		cancelled = true

	case hasVote:
		// Move the vote
		if err := removeVote(tx, pollID, req.VoterID, currentOption); err != nil {
			slog.Error("failed to remove previous vote", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
			return
		}
		if err := addVote(tx, pollID, req.VoterID, req.VoterName, req.OptionID); err != nil {
			slog.Error("failed to add vote", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
			return
		}

	default:
		if err := addVote(tx, pollID, req.VoterID, req.VoterName, req.OptionID); err != nil {
			slog.Error("failed to add vote", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	slog.Info("vote recorded", "poll_id", pollID, "option_id", req.OptionID, "cancelled", cancelled)

	// Re-read and return the updated tally
	poll, err := loadPoll(h.db, pollID)
	if err != nil {
		slog.Error("failed to reload poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoteResponse{
		Cancelled:  cancelled,
		TotalVotes: TotalVotes(poll),
		Options:    poll.Options,
	})
}

func addVote(tx *sql.Tx, pollID, voterID, voterName string, optionID int) error {
	_, err := tx.Exec(`
		INSERT INTO poll_voter (poll_id, option_id, voter_id, voter_name, voted_at)
		VALUES ($1, $2, $3, $4, $5)
	`, pollID, optionID, voterID, voterName, time.Now())
	if err != nil {
		return err
	}
	_, err = tx.Exec(`
		UPDATE poll_option SET vote_count = vote_count + 1
		WHERE poll_id = $1 AND option_id = $2
	`, pollID, optionID)
	return err
}

func removeVote(tx *sql.Tx, pollID, voterID string, optionID int) error {
	res, err := tx.Exec(`
		DELETE FROM poll_voter WHERE poll_id = $1 AND voter_id = $2
	`, pollID, voterID)
	if err != nil {
		return err
	}

	// Decrement only when a row actually went away. A losing concurrent
	// cancel sees no row here; decrementing anyway would drift the count
	// below the real membership.
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}

	_, err = tx.Exec(`
		UPDATE poll_option SET vote_count = vote_count - 1
		WHERE poll_id = $1 AND option_id = $2 AND vote_count > 0
	`, pollID, optionID)
	return err
}

// UpdateVoterName handles POST /polls/{id}/voter-name
// Renames the voter's entry wherever it appears; the id never changes, so
// this is a relabeling, not a new participant.
func (h *VotingHandler) UpdateVoterName(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	var req models.UpdateVoterNameRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.VoterID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter_id is required")
		return
	}
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	res, err := h.db.Exec(`
		UPDATE poll_voter SET voter_name = $1
		WHERE poll_id = $2 AND voter_id = $3
	`, req.Name, pollID, req.VoterID)
	if err != nil {
		slog.Error("failed to update voter name", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Voter not found on this poll")
		return
	}

	slog.Info("voter renamed", "poll_id", pollID)

	middleware.JSONResponse(w, http.StatusOK, map[string]bool{"updated": true})
}
