// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-meet/cliparse"
	"github.com/danielhkuo/quickly-meet/middleware"
	"github.com/danielhkuo/quickly-meet/models"
)

type ResponseHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewResponseHandler(db *sql.DB, cfg cliparse.Config) *ResponseHandler {
	return &ResponseHandler{db: db, cfg: cfg}
}

// SubmitResponse handles POST /schedule/{id}/responses
//
// Upsert keyed by respondent id: a first submission inserts, a resubmission
// overwrites in place, so the response count never grows for the same
// respondent.
func (h *ResponseHandler) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	scheduleID := r.PathValue("id")
	if scheduleID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "schedule_id is required")
		return
	}

	var req models.SubmitResponseRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.RespondentID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "respondent_id is required")
		return
	}
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Availability == nil {
		req.Availability = map[string]models.AvailabilityStatus{}
	}
	for key, status := range req.Availability {
		if !status.Valid() {
			middleware.ErrorResponse(w, http.StatusBadRequest, "invalid availability for "+key)
			return
		}
	}

	schedule, err := loadSchedule(h.db, scheduleID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Schedule not found")
		return
	}
	if err != nil {
		slog.Error("failed to load schedule", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if schedule.IsClosed || (schedule.EndAt != nil && schedule.EndAt.Before(time.Now())) {
		middleware.ErrorResponse(w, http.StatusConflict, "Schedule is not open for responses")
		return
	}

	// Availability keys must belong to this schedule's slots
	validKeys := map[string]bool{}
	for _, slot := range FlattenDates(schedule.Dates) {
		validKeys[slot.Key] = true
	}
	for key := range req.Availability {
		if !validKeys[key] {
			middleware.ErrorResponse(w, http.StatusBadRequest, "unknown slot key: "+key)
			return
		}
	}

	availJSON, err := json.Marshal(req.Availability)
	if err != nil {
		slog.Error("failed to marshal availability", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save response")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM schedule_response
			WHERE schedule_id = $1 AND respondent_id = $2
		)
	`, scheduleID, req.RespondentID).Scan(&exists)
	if err != nil {
		slog.Error("failed to query response", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if exists {
		_, err = tx.Exec(`
			UPDATE schedule_response
			SET name = $1, availability = $2, submitted_at = $3
			WHERE schedule_id = $4 AND respondent_id = $5
		`, req.Name, availJSON, time.Now(), scheduleID, req.RespondentID)
	} else {
		_, err = tx.Exec(`
			INSERT INTO schedule_response (schedule_id, respondent_id, name, availability, submitted_at)
			VALUES ($1, $2, $3, $4, $5)
		`, scheduleID, req.RespondentID, req.Name, availJSON, time.Now())
	}
	if err != nil {
		slog.Error("failed to save response", "error", err, "schedule_id", scheduleID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save response")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save response")
		return
	}

	slog.Info("response saved", "schedule_id", scheduleID, "is_update", exists)

	middleware.JSONResponse(w, http.StatusOK, map[string]bool{"updated": exists})
}
