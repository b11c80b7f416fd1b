// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielhkuo/quickly-meet/models"
)

// ErrNotFound is returned when an event id does not resolve to a record.
var ErrNotFound = errors.New("not found")

// AuthError is a failed organizer check: wrong password or a privileged
// action attempted without authorization. Recoverable by retrying.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string { return e.Reason }

// MutationError is any other success=false result from the server. The
// operation is not retried automatically.
type MutationError struct {
	Message string
}

func (e *MutationError) Error() string { return e.Message }

// Client wraps the Quickly Meet HTTP API. All methods decode the uniform
// result envelope and surface success=false as a typed error.
type Client struct {
	baseURL string
	httpc   *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Poll operations

func (c *Client) CreatePoll(req models.CreatePollRequest) (models.CreatePollResponse, error) {
	var resp models.CreatePollResponse
	err := c.do("POST", "/polls", req, "", &resp)
	return resp, err
}

func (c *Client) GetPoll(pollID string) (models.Poll, error) {
	var poll models.Poll
	err := c.do("GET", "/polls/"+pollID, nil, "", &poll)
	return poll, err
}

func (c *Client) GetPollResults(pollID string) (models.PollResults, error) {
	var results models.PollResults
	err := c.do("GET", "/polls/"+pollID+"/results", nil, "", &results)
	return results, err
}

func (c *Client) Vote(pollID string, req models.VoteRequest) (models.VoteResponse, error) {
	var resp models.VoteResponse
	err := c.do("POST", "/polls/"+pollID+"/vote", req, "", &resp)
	return resp, err
}

func (c *Client) UpdateVoterName(pollID string, req models.UpdateVoterNameRequest) error {
	return c.do("POST", "/polls/"+pollID+"/voter-name", req, "", nil)
}

func (c *Client) VerifyPollPassword(pollID, password string) (string, error) {
	var resp models.VerifyPasswordResponse
	err := c.do("POST", "/polls/"+pollID+"/verify-password", models.VerifyPasswordRequest{Password: password}, "", &resp)
	return resp.OrganizerKey, err
}

func (c *Client) ClosePoll(pollID, organizerKey string) error {
	return c.do("POST", "/polls/"+pollID+"/close", nil, organizerKey, nil)
}

func (c *Client) ReopenPoll(pollID, organizerKey string) error {
	return c.do("POST", "/polls/"+pollID+"/reopen", nil, organizerKey, nil)
}

func (c *Client) DeletePoll(pollID, organizerKey string) error {
	return c.do("DELETE", "/polls/"+pollID, nil, organizerKey, nil)
}

// Schedule operations

func (c *Client) CreateSchedule(req models.CreateScheduleRequest) (models.CreateScheduleResponse, error) {
	var resp models.CreateScheduleResponse
	err := c.do("POST", "/schedule", req, "", &resp)
	return resp, err
}

func (c *Client) GetSchedule(scheduleID string) (models.Schedule, error) {
	var schedule models.Schedule
	err := c.do("GET", "/schedule/"+scheduleID, nil, "", &schedule)
	return schedule, err
}

func (c *Client) GetScheduleResults(scheduleID string) (models.ScheduleResults, error) {
	var results models.ScheduleResults
	err := c.do("GET", "/schedule/"+scheduleID+"/results", nil, "", &results)
	return results, err
}

func (c *Client) SubmitResponse(scheduleID string, req models.SubmitResponseRequest) error {
	return c.do("POST", "/schedule/"+scheduleID+"/responses", req, "", nil)
}

func (c *Client) VerifySchedulePassword(scheduleID, password string) (string, error) {
	var resp models.VerifyPasswordResponse
	err := c.do("POST", "/schedule/"+scheduleID+"/verify-password", models.VerifyPasswordRequest{Password: password}, "", &resp)
	return resp.OrganizerKey, err
}

func (c *Client) CloseSchedule(scheduleID, organizerKey, confirmedDateTime string) error {
	req := models.CloseScheduleRequest{ConfirmedDateTime: confirmedDateTime}
	return c.do("POST", "/schedule/"+scheduleID+"/close", req, organizerKey, nil)
}

func (c *Client) ReopenSchedule(scheduleID, organizerKey string) error {
	return c.do("POST", "/schedule/"+scheduleID+"/reopen", nil, organizerKey, nil)
}

func (c *Client) DeleteSchedule(scheduleID, organizerKey string) error {
	return c.do("DELETE", "/schedule/"+scheduleID, nil, organizerKey, nil)
}

// do performs one request and decodes the result envelope into out (which
// may be nil for operations with no interesting data).
func (c *Client) do(method, path string, body any, organizerKey string, out any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if organizerKey != "" {
		req.Header.Set("X-Organizer-Key", organizerKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if !result.Success {
		switch resp.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", ErrNotFound, result.Error)
		case http.StatusUnauthorized:
			return &AuthError{Reason: result.Error}
		default:
			return &MutationError{Message: result.Error}
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(result.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}
