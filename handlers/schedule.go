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

	"github.com/danielhkuo/quickly-meet/auth"
	"github.com/danielhkuo/quickly-meet/cliparse"
	"github.com/danielhkuo/quickly-meet/middleware"
	"github.com/danielhkuo/quickly-meet/models"
)

type ScheduleHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewScheduleHandler(db *sql.DB, cfg cliparse.Config) *ScheduleHandler {
	return &ScheduleHandler{db: db, cfg: cfg}
}

// CreateSchedule handles POST /schedule
func (h *ScheduleHandler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req models.CreateScheduleRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if len(req.Title) > maxTitleLen {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title must be at most 50 characters")
		return
	}
	if len(req.Dates) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "at least one candidate date is required")
		return
	}
	for _, d := range req.Dates {
		if _, err := time.Parse("2006-01-02", d.Date); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "dates must be in YYYY-MM-DD form")
			return
		}
		for _, tm := range d.Times {
			if _, err := time.Parse("15:04", tm); err != nil {
				middleware.ErrorResponse(w, http.StatusBadRequest, "times must be in HH:mm form")
				return
			}
		}
	}

	endAt, err := parseEndDateTime(req.EndDateTime)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	scheduleID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate schedule ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create schedule")
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
		INSERT INTO schedule (id, title, password, end_at, poll_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, scheduleID, req.Title, nullString(req.Password), endAt, nullString(req.PollID), req.CreatedBy, time.Now())
	if err != nil {
		slog.Error("failed to insert schedule", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create schedule")
		return
	}

	for i, d := range req.Dates {
		times := d.Times
		if times == nil {
			times = []string{}
		}
		timesJSON, err := json.Marshal(times)
		if err != nil {
			slog.Error("failed to marshal times", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create schedule")
			return
		}
		_, err = tx.Exec(`
			INSERT INTO schedule_date (schedule_id, position, date, times)
			VALUES ($1, $2, $3, $4)
		`, scheduleID, i, d.Date, timesJSON)
		if err != nil {
			slog.Error("failed to insert schedule date", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create schedule")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create schedule")
		return
	}

	slog.Info("schedule created", "schedule_id", scheduleID, "dates", len(req.Dates))

	middleware.JSONResponse(w, http.StatusCreated, models.CreateScheduleResponse{
		ScheduleID:   scheduleID,
		OrganizerKey: auth.GenerateOrganizerKey(scheduleID, h.cfg.OrganizerKeySalt),
	})
}

// GetSchedule handles GET /schedule/{id}
func (h *ScheduleHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleID := r.PathValue("id")
	if scheduleID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "schedule_id is required")
		return
	}

	schedule, err := loadSchedule(h.db, scheduleID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Schedule not found")
		return
	}
	if err != nil {
		slog.Error("failed to load schedule", "error", err, "schedule_id", scheduleID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, schedule)
}

// VerifyPassword handles POST /schedule/{id}/verify-password
func (h *ScheduleHandler) VerifyPassword(w http.ResponseWriter, r *http.Request) {
	scheduleID := r.PathValue("id")
	if scheduleID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "schedule_id is required")
		return
	}

	var req models.VerifyPasswordRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var password sql.NullString
	err := h.db.QueryRow("SELECT password FROM schedule WHERE id = $1", scheduleID).Scan(&password)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Schedule not found")
		return
	}
	if err != nil {
		slog.Error("failed to query schedule", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if !password.Valid || password.String == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "this schedule has no organizer password")
		return
	}
	if req.Password != password.String {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "incorrect password")
		return
	}

	slog.Info("schedule password verified", "schedule_id", scheduleID)

	middleware.JSONResponse(w, http.StatusOK, models.VerifyPasswordResponse{
		OrganizerKey: auth.GenerateOrganizerKey(scheduleID, h.cfg.OrganizerKeySalt),
	})
}

// CloseSchedule handles POST /schedule/{id}/close
// Closing picks the winning slot: confirmed_date_time must be one of the
// schedule's own slot keys.
func (h *ScheduleHandler) CloseSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleID := r.PathValue("id")
	if scheduleID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "schedule_id is required")
		return
	}

	key := r.Header.Get("X-Organizer-Key")
	if err := auth.ValidateOrganizerKey(scheduleID, key, h.cfg.OrganizerKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid organizer key")
		return
	}

	var req models.CloseScheduleRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.ConfirmedDateTime == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "confirmed_date_time is required")
		return
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
	if schedule.IsClosed {
		middleware.ErrorResponse(w, http.StatusConflict, "Schedule is already closed")
		return
	}

	valid := false
	for _, slot := range FlattenDates(schedule.Dates) {
		if slot.Key == req.ConfirmedDateTime {
			valid = true
			break
		}
	}
	if !valid {
		middleware.ErrorResponse(w, http.StatusBadRequest, "confirmed_date_time is not one of this schedule's slots")
		return
	}

	_, err = h.db.Exec(`
		UPDATE schedule SET is_closed = TRUE, confirmed_key = $1 WHERE id = $2
	`, req.ConfirmedDateTime, scheduleID)
	if err != nil {
		slog.Error("failed to close schedule", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to close schedule")
		return
	}

	slog.Info("schedule closed", "schedule_id", scheduleID, "confirmed", req.ConfirmedDateTime)

	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"confirmed_date_time": req.ConfirmedDateTime,
	})
}

// ReopenSchedule handles POST /schedule/{id}/reopen
// Clears both the closed flag and the confirmed slot.
func (h *ScheduleHandler) ReopenSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleID := r.PathValue("id")
	if scheduleID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "schedule_id is required")
		return
	}

	key := r.Header.Get("X-Organizer-Key")
	if err := auth.ValidateOrganizerKey(scheduleID, key, h.cfg.OrganizerKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid organizer key")
		return
	}

	res, err := h.db.Exec(`
		UPDATE schedule SET is_closed = FALSE, confirmed_key = NULL WHERE id = $1 AND is_closed
	`, scheduleID)
	if err != nil {
		slog.Error("failed to reopen schedule", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := h.db.QueryRow("SELECT EXISTS(SELECT 1 FROM schedule WHERE id = $1)", scheduleID).Scan(&exists); err != nil {
			slog.Error("failed to query schedule", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if !exists {
			middleware.ErrorResponse(w, http.StatusNotFound, "Schedule not found")
			return
		}
		middleware.ErrorResponse(w, http.StatusConflict, "Schedule is not closed")
		return
	}

	slog.Info("schedule reopened", "schedule_id", scheduleID)

	middleware.JSONResponse(w, http.StatusOK, map[string]bool{"is_closed": false})
}

// DeleteSchedule handles DELETE /schedule/{id}
func (h *ScheduleHandler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleID := r.PathValue("id")
	if scheduleID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "schedule_id is required")
		return
	}

	key := r.Header.Get("X-Organizer-Key")
	if err := auth.ValidateOrganizerKey(scheduleID, key, h.cfg.OrganizerKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid organizer key")
		return
	}

	res, err := h.db.Exec("DELETE FROM schedule WHERE id = $1", scheduleID)
	if err != nil {
		slog.Error("failed to delete schedule", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Schedule not found")
		return
	}

	slog.Info("schedule deleted", "schedule_id", scheduleID)

	middleware.JSONResponse(w, http.StatusOK, map[string]bool{"deleted": true})
}

// loadSchedule fetches a schedule with its date options and responses.
// Returns sql.ErrNoRows when the schedule does not exist.
func loadSchedule(db *sql.DB, scheduleID string) (models.Schedule, error) {
	var schedule models.Schedule
	var password sql.NullString
	err := db.QueryRow(`
		SELECT id, title, password, end_at, is_closed, confirmed_key, poll_id, created_by, created_at
		FROM schedule
		WHERE id = $1
	`, scheduleID).Scan(
		&schedule.ID, &schedule.Title, &password, &schedule.EndAt, &schedule.IsClosed,
		&schedule.ConfirmedDateTime, &schedule.PollID, &schedule.CreatedBy, &schedule.CreatedAt,
	)
	if err != nil {
		return models.Schedule{}, err
	}
	schedule.HasPassword = password.Valid && password.String != ""

	rows, err := db.Query(`
		SELECT date, times FROM schedule_date
		WHERE schedule_id = $1
		ORDER BY position
	`, scheduleID)
	if err != nil {
		return models.Schedule{}, err
	}
	defer rows.Close()

	schedule.Dates = []models.DateOption{}
	for rows.Next() {
		var d models.DateOption
		var timesJSON []byte
		if err := rows.Scan(&d.Date, &timesJSON); err != nil {
			return models.Schedule{}, err
		}
		if err := json.Unmarshal(timesJSON, &d.Times); err != nil {
			return models.Schedule{}, err
		}
		schedule.Dates = append(schedule.Dates, d)
	}
	if err := rows.Err(); err != nil {
		return models.Schedule{}, err
	}

	respRows, err := db.Query(`
		SELECT respondent_id, name, availability, submitted_at
		FROM schedule_response
		WHERE schedule_id = $1
		ORDER BY submitted_at, respondent_id
	`, scheduleID)
	if err != nil {
		return models.Schedule{}, err
	}
	defer respRows.Close()

	schedule.Responses = []models.Response{}
	for respRows.Next() {
		var resp models.Response
		var availJSON []byte
		if err := respRows.Scan(&resp.RespondentID, &resp.Name, &availJSON, &resp.SubmittedAt); err != nil {
			return models.Schedule{}, err
		}
		if err := json.Unmarshal(availJSON, &resp.Availability); err != nil {
			return models.Schedule{}, err
		}
		schedule.Responses = append(schedule.Responses, resp)
	}
	return schedule, respRows.Err()
}
