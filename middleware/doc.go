// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP helpers shared by all handlers.

# Logging

WithLogging logs request start and completion with a per-request UUID:

	mux.HandleFunc("POST /polls", middleware.WithLogging(handler.CreatePoll))

# Envelope Helpers

Every response body uses the uniform result envelope from models:

	middleware.JSONResponse(w, http.StatusOK, data)   // {"success":true,"data":...}
	middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")

# Other Helpers

  - ParseJSONBody: decode a request body into a struct
  - CORS: permissive cross-origin handling with preflight support
  - GetClientIP: client address from X-Forwarded-For / X-Real-IP / RemoteAddr
*/
package middleware
