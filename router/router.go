// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/quickly-meet/cliparse"
	"github.com/danielhkuo/quickly-meet/handlers"
	"github.com/danielhkuo/quickly-meet/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	pollHandler := handlers.NewPollHandler(db, cfg)
	votingHandler := handlers.NewVotingHandler(db, cfg)
	scheduleHandler := handlers.NewScheduleHandler(db, cfg)
	responseHandler := handlers.NewResponseHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Polls
	mux.HandleFunc("POST /polls", middleware.WithLogging(pollHandler.CreatePoll))
	mux.HandleFunc("GET /polls/{id}", middleware.WithLogging(pollHandler.GetPoll))
	mux.HandleFunc("GET /polls/{id}/results", middleware.WithLogging(resultsHandler.GetPollResults))
	mux.HandleFunc("POST /polls/{id}/vote", middleware.WithLogging(votingHandler.Vote))
	mux.HandleFunc("POST /polls/{id}/voter-name", middleware.WithLogging(votingHandler.UpdateVoterName))
	mux.HandleFunc("POST /polls/{id}/verify-password", middleware.WithLogging(pollHandler.VerifyPassword))

	// Poll organizer operations (X-Organizer-Key required)
	mux.HandleFunc("POST /polls/{id}/close", middleware.WithLogging(pollHandler.ClosePoll))
	mux.HandleFunc("POST /polls/{id}/reopen", middleware.WithLogging(pollHandler.ReopenPoll))
	mux.HandleFunc("DELETE /polls/{id}", middleware.WithLogging(pollHandler.DeletePoll))

	// Schedules
	mux.HandleFunc("POST /schedule", middleware.WithLogging(scheduleHandler.CreateSchedule))
	mux.HandleFunc("GET /schedule/{id}", middleware.WithLogging(scheduleHandler.GetSchedule))
	mux.HandleFunc("GET /schedule/{id}/results", middleware.WithLogging(resultsHandler.GetScheduleResults))
	mux.HandleFunc("POST /schedule/{id}/responses", middleware.WithLogging(responseHandler.SubmitResponse))
	mux.HandleFunc("POST /schedule/{id}/verify-password", middleware.WithLogging(scheduleHandler.VerifyPassword))

	// Schedule organizer operations (X-Organizer-Key required)
	mux.HandleFunc("POST /schedule/{id}/close", middleware.WithLogging(scheduleHandler.CloseSchedule))
	mux.HandleFunc("POST /schedule/{id}/reopen", middleware.WithLogging(scheduleHandler.ReopenSchedule))
	mux.HandleFunc("DELETE /schedule/{id}", middleware.WithLogging(scheduleHandler.DeleteSchedule))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-meet API v1"))
	})

	return mux
}
