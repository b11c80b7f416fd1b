// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-meet/auth"
	"github.com/danielhkuo/quickly-meet/cliparse"
	"github.com/danielhkuo/quickly-meet/middleware"
	"github.com/danielhkuo/quickly-meet/models"
)

const (
	maxTitleLen       = 50
	maxDescriptionLen = 50
	maxURLLen         = 1024
	minPollOptions    = 2
	maxPollOptions    = 6
)

type PollHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewPollHandler(db *sql.DB, cfg cliparse.Config) *PollHandler {
	return &PollHandler{db: db, cfg: cfg}
}

// CreatePoll handles POST /polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate input
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if len(req.Title) > maxTitleLen {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title must be at most 50 characters")
		return
	}

	// Blank option rows from the form are dropped before counting
	options := make([]models.CreatePollOption, 0, len(req.Options))
	for _, opt := range req.Options {
		opt.Title = strings.TrimSpace(opt.Title)
		if opt.Title == "" {
			continue
		}
		if len(opt.Description) > maxDescriptionLen {
			middleware.ErrorResponse(w, http.StatusBadRequest, "description must be at most 50 characters")
			return
		}
		if len(opt.URL) > maxURLLen {
			middleware.ErrorResponse(w, http.StatusBadRequest, "url must be at most 1024 characters")
			return
		}
		options = append(options, opt)
	}
	if len(options) < minPollOptions || len(options) > maxPollOptions {
		middleware.ErrorResponse(w, http.StatusBadRequest, "between 2 and 6 options are required")
		return
	}

	endAt, err := parseEndDateTime(req.EndDateTime)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	// Generate poll ID
	pollID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate poll ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO poll (id, title, password, end_at, created_by, schedule_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, pollID, req.Title, nullString(req.Password), endAt, req.CreatedBy, nullString(req.ScheduleID), time.Now())

	if err != nil {
		slog.Error("failed to insert poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	for i, opt := range options {
		_, err = tx.Exec(`
			INSERT INTO poll_option (poll_id, option_id, title, url, description)
			VALUES ($1, $2, $3, $4, $5)
		`, pollID, i+1, opt.Title, nullString(opt.URL), nullString(opt.Description))
		if err != nil {
			slog.Error("failed to insert option", "error", err, "poll_id", pollID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	slog.Info("poll created", "poll_id", pollID, "options", len(options))

	// The organizer key is the capability for close/reopen/delete; clients
	// also record the id locally as their organizer flag
	middleware.JSONResponse(w, http.StatusCreated, models.CreatePollResponse{
		PollID:       pollID,
		OrganizerKey: auth.GenerateOrganizerKey(pollID, h.cfg.OrganizerKeySalt),
	})
}

// GetPoll handles GET /polls/{id}
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	poll, err := loadPoll(h.db, pollID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to load poll", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, poll)
}

// VerifyPassword handles POST /polls/{id}/verify-password
// Exact string comparison against the stored plaintext password; a match
// re-issues the organizer key. No lockout and no rate limiting: this is a
// usability gate, not real security.
func (h *PollHandler) VerifyPassword(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	var req models.VerifyPasswordRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var password sql.NullString
	err := h.db.QueryRow("SELECT password FROM poll WHERE id = $1", pollID).Scan(&password)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to query poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if !password.Valid || password.String == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "this poll has no organizer password")
		return
	}
	if req.Password != password.String {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "incorrect password")
		return
	}

	slog.Info("poll password verified", "poll_id", pollID)

	middleware.JSONResponse(w, http.StatusOK, models.VerifyPasswordResponse{
		OrganizerKey: auth.GenerateOrganizerKey(pollID, h.cfg.OrganizerKeySalt),
	})
}

// ClosePoll handles POST /polls/{id}/close
func (h *PollHandler) ClosePoll(w http.ResponseWriter, r *http.Request) {
	h.setClosed(w, r, true)
}

// ReopenPoll handles POST /polls/{id}/reopen
func (h *PollHandler) ReopenPoll(w http.ResponseWriter, r *http.Request) {
	h.setClosed(w, r, false)
}

func (h *PollHandler) setClosed(w http.ResponseWriter, r *http.Request, closed bool) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	// Validate organizer key
	key := r.Header.Get("X-Organizer-Key")
	if err := auth.ValidateOrganizerKey(pollID, key, h.cfg.OrganizerKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid organizer key")
		return
	}

	// Only real transitions update rows; a no-op is either a missing poll
	// or a state conflict
	res, err := h.db.Exec("UPDATE poll SET is_closed = $1 WHERE id = $2 AND is_closed <> $1", closed, pollID)
	if err != nil {
		slog.Error("failed to update poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := h.db.QueryRow("SELECT EXISTS(SELECT 1 FROM poll WHERE id = $1)", pollID).Scan(&exists); err != nil {
			slog.Error("failed to query poll", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if !exists {
			middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
			return
		}
		if closed {
			middleware.ErrorResponse(w, http.StatusConflict, "Poll is already closed")
		} else {
			middleware.ErrorResponse(w, http.StatusConflict, "Poll is not closed")
		}
		return
	}

	slog.Info("poll state changed", "poll_id", pollID, "is_closed", closed)

	middleware.JSONResponse(w, http.StatusOK, map[string]bool{"is_closed": closed})
}

// DeletePoll handles DELETE /polls/{id}
// Hard delete; options and voters cascade.
func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	key := r.Header.Get("X-Organizer-Key")
	if err := auth.ValidateOrganizerKey(pollID, key, h.cfg.OrganizerKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid organizer key")
		return
	}

	res, err := h.db.Exec("DELETE FROM poll WHERE id = $1", pollID)
	if err != nil {
		slog.Error("failed to delete poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}

	slog.Info("poll deleted", "poll_id", pollID)

	middleware.JSONResponse(w, http.StatusOK, map[string]bool{"deleted": true})
}

// loadPoll fetches a poll with its options and ordered voter lists.
// Returns sql.ErrNoRows when the poll does not exist.
func loadPoll(db *sql.DB, pollID string) (models.Poll, error) {
	var poll models.Poll
	var password sql.NullString
	err := db.QueryRow(`
		SELECT id, title, password, end_at, is_closed, created_by, schedule_id, created_at
		FROM poll
		WHERE id = $1
	`, pollID).Scan(
		&poll.ID, &poll.Title, &password, &poll.EndAt, &poll.IsClosed,
		&poll.CreatedBy, &poll.ScheduleID, &poll.CreatedAt,
	)
	if err != nil {
		return models.Poll{}, err
	}
	poll.HasPassword = password.Valid && password.String != ""

	rows, err := db.Query(`
		SELECT option_id, title, url, description, vote_count
		FROM poll_option
		WHERE poll_id = $1
		ORDER BY option_id
	`, pollID)
	if err != nil {
		return models.Poll{}, err
	}
	defer rows.Close()

	poll.Options = []models.PollOption{}
	byOptionID := map[int]int{}
	for rows.Next() {
		var opt models.PollOption
		if err := rows.Scan(&opt.OptionID, &opt.Title, &opt.URL, &opt.Description, &opt.Votes); err != nil {
			return models.Poll{}, err
		}
		opt.Voters = []models.Voter{}
		byOptionID[opt.OptionID] = len(poll.Options)
		poll.Options = append(poll.Options, opt)
	}
	if err := rows.Err(); err != nil {
		return models.Poll{}, err
	}

	voterRows, err := db.Query(`
		SELECT option_id, voter_id, voter_name
		FROM poll_voter
		WHERE poll_id = $1
		ORDER BY voted_at, voter_id
	`, pollID)
	if err != nil {
		return models.Poll{}, err
	}
	defer voterRows.Close()

	for voterRows.Next() {
		var optionID int
		var voter models.Voter
		if err := voterRows.Scan(&optionID, &voter.ID, &voter.Name); err != nil {
			return models.Poll{}, err
		}
		if i, ok := byOptionID[optionID]; ok {
			poll.Options[i].Voters = append(poll.Options[i].Voters, voter)
		}
	}
	return poll, voterRows.Err()
}

// parseEndDateTime parses an optional deadline. Accepts RFC3339 or the
// form wire format "2006-01-02T15:04", and rejects past deadlines.
func parseEndDateTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, err = time.ParseInLocation("2006-01-02T15:04", s, time.Local)
	}
	if err != nil {
		return nil, errValidation("end_date_time is not a valid date/time")
	}
	if !t.After(time.Now()) {
		return nil, errValidation("end_date_time must be in the future")
	}
	return &t, nil
}

type validationError string

func (e validationError) Error() string { return string(e) }

func errValidation(msg string) error { return validationError(msg) }

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// isPollOpen reports whether mutations are currently allowed: the poll
// exists, is not closed, and its deadline has not passed.
func isPollOpen(db *sql.DB, pollID string) (bool, error) {
	var isClosed bool
	var endAt *time.Time
	err := db.QueryRow("SELECT is_closed, end_at FROM poll WHERE id = $1", pollID).Scan(&isClosed, &endAt)
	if err != nil {
		return false, err
	}
	if isClosed {
		return false, nil
	}
	if endAt != nil && endAt.Before(time.Now()) {
		return false, nil
	}
	return true, nil
}
