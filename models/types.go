package models

import "time"

// Event kind constants
const (
	KindPoll     = "poll"
	KindSchedule = "schedule"
)

// Availability states for a schedule slot
type AvailabilityStatus string

const (
	Available   AvailabilityStatus = "available"
	Maybe       AvailabilityStatus = "maybe"
	Unavailable AvailabilityStatus = "unavailable"
)

// Valid reports whether s is one of the three known states.
func (s AvailabilityStatus) Valid() bool {
	return s == Available || s == Maybe || s == Unavailable
}

// Request types

type CreatePollOption struct {
	Title       string `json:"title"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
}

type CreatePollRequest struct {
	Title       string             `json:"title"`
	Options     []CreatePollOption `json:"options"`
	Password    string             `json:"password,omitempty"`
	EndDateTime string             `json:"end_date_time,omitempty"`
	ScheduleID  string             `json:"schedule_id,omitempty"`
	CreatedBy   string             `json:"created_by,omitempty"`
}

type VoteRequest struct {
	OptionID  int    `json:"option_id"`
	VoterID   string `json:"voter_id"`
	VoterName string `json:"voter_name"`
}

type UpdateVoterNameRequest struct {
	VoterID string `json:"voter_id"`
	Name    string `json:"name"`
}

type VerifyPasswordRequest struct {
	Password string `json:"password"`
}

type CreateScheduleRequest struct {
	Title       string       `json:"title"`
	Dates       []DateOption `json:"dates"`
	Password    string       `json:"password,omitempty"`
	EndDateTime string       `json:"end_date_time,omitempty"`
	PollID      string       `json:"poll_id,omitempty"`
	CreatedBy   string       `json:"created_by,omitempty"`
}

type SubmitResponseRequest struct {
	RespondentID string                        `json:"respondent_id"`
	Name         string                        `json:"name"`
	Availability map[string]AvailabilityStatus `json:"availability"`
}

type CloseScheduleRequest struct {
	ConfirmedDateTime string `json:"confirmed_date_time"`
}

// Response types

type CreatePollResponse struct {
	PollID       string `json:"poll_id"`
	OrganizerKey string `json:"organizer_key"`
}

type CreateScheduleResponse struct {
	ScheduleID   string `json:"schedule_id"`
	OrganizerKey string `json:"organizer_key"`
}

type VerifyPasswordResponse struct {
	OrganizerKey string `json:"organizer_key"`
}

type VoteResponse struct {
	Cancelled  bool         `json:"cancelled"`
	TotalVotes int          `json:"total_votes"`
	Options    []PollOption `json:"options"`
}

// Domain types

type Voter struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type PollOption struct {
	OptionID    int     `json:"option_id"`
	Title       string  `json:"title"`
	URL         *string `json:"url,omitempty"`
	Description *string `json:"description,omitempty"`
	Votes       int     `json:"votes"`
	Voters      []Voter `json:"voters"`
}

type Poll struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	HasPassword bool         `json:"has_password"`
	EndAt       *time.Time   `json:"end_at,omitempty"`
	IsClosed    bool         `json:"is_closed"`
	CreatedBy   string       `json:"created_by,omitempty"`
	ScheduleID  *string      `json:"schedule_id,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	Options     []PollOption `json:"options"`
}

// A candidate date with zero or more times of day. No times means the
// whole day is one slot.
type DateOption struct {
	Date  string   `json:"date"`  // YYYY-MM-DD
	Times []string `json:"times"` // HH:mm
}

// One concrete date/time slot produced by flattening a DateOption.
type Slot struct {
	Date string `json:"date"`
	Time string `json:"time,omitempty"`
	Key  string `json:"key"`
}

type Response struct {
	RespondentID string                        `json:"respondent_id"`
	Name         string                        `json:"name"`
	Availability map[string]AvailabilityStatus `json:"availability"`
	SubmittedAt  time.Time                     `json:"submitted_at"`
}

type Schedule struct {
	ID                string       `json:"id"`
	Title             string       `json:"title"`
	HasPassword       bool         `json:"has_password"`
	EndAt             *time.Time   `json:"end_at,omitempty"`
	IsClosed          bool         `json:"is_closed"`
	ConfirmedDateTime *string      `json:"confirmed_date_time,omitempty"`
	PollID            *string      `json:"poll_id,omitempty"`
	CreatedBy         string       `json:"created_by,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	Dates             []DateOption `json:"dates"`
	Responses         []Response   `json:"responses"`
}

// Aggregation result types

type OptionResult struct {
	OptionID   int     `json:"option_id"`
	Title      string  `json:"title"`
	Votes      int     `json:"votes"`
	Percentage float64 `json:"percentage"` // one decimal place
	Voters     []Voter `json:"voters"`
}

type PollResults struct {
	Poll       Poll           `json:"poll"`
	TotalVotes int            `json:"total_votes"`
	Options    []OptionResult `json:"options"` // descending by votes, stable
	Winner     *OptionResult  `json:"winner,omitempty"`
}

type SlotResult struct {
	Slot
	Available   int  `json:"available"`
	Maybe       int  `json:"maybe"`
	Unavailable int  `json:"unavailable"`
	Score       int  `json:"score"`
	IsBest      bool `json:"is_best"`
	IsConfirmed bool `json:"is_confirmed"`
}

type ScheduleResults struct {
	Schedule      Schedule     `json:"schedule"`
	ResponseCount int          `json:"response_count"`
	Slots         []SlotResult `json:"slots"` // display order, confirmed first
	BestKeys      []string     `json:"best_keys"`
}

// Result is the uniform envelope for every API response: exactly one of
// Data or Error is meaningful, and Success is the sole failure signal.
type Result struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}
