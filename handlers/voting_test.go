// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/quickly-meet/models"
	"github.com/danielhkuo/quickly-meet/testutil"
)

func castVote(t *testing.T, h *VotingHandler, pollID string, optionID int, voterID, voterName string) (*httptest.ResponseRecorder, models.VoteResponse) {
	t.Helper()

	req := testutil.MakeRequest("POST", "/polls/"+pollID+"/vote", models.VoteRequest{
		OptionID:  optionID,
		VoterID:   voterID,
		VoterName: voterName,
	}, nil)
	req.SetPathValue("id", pollID)
	w := httptest.NewRecorder()
	h.Vote(w, req)

	var resp models.VoteResponse
	if w.Code == http.StatusOK {
		testutil.DecodeData(t, w, &resp)
	}
	return w, resp
}

func voterMembership(t *testing.T, db *sql.DB, pollID, voterID string) (optionID int, ok bool) {
	t.Helper()
	err := db.QueryRow(`
		SELECT option_id FROM poll_voter WHERE poll_id = $1 AND voter_id = $2
	`, pollID, voterID).Scan(&optionID)
	if err == sql.ErrNoRows {
		return 0, false
	}
	if err != nil {
		t.Fatal(err)
	}
	return optionID, true
}

func TestVoteToggle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	cfg := testutil.GetTestConfig()
	h := NewVotingHandler(db, cfg)

	pollID, _ := testutil.CreateTestPoll(t, db, cfg, []string{"A", "B"}, "", false)

	t.Run("first vote adds membership", func(t *testing.T) {
		w, resp := castVote(t, h, pollID, 1, "voter-1", "Alice")
		testutil.AssertStatus(t, w, http.StatusOK)

		if resp.Cancelled {
			t.Error("first vote must not be reported as cancelled")
		}
		if resp.TotalVotes != 1 {
			t.Errorf("expected total 1, got %d", resp.TotalVotes)
		}
		if opt, ok := voterMembership(t, db, pollID, "voter-1"); !ok || opt != 1 {
			t.Errorf("expected membership on option 1, got (%d, %v)", opt, ok)
		}
	})

	t.Run("same option cancels", func(t *testing.T) {
		w, resp := castVote(t, h, pollID, 1, "voter-1", "Alice")
		testutil.AssertStatus(t, w, http.StatusOK)

		if !resp.Cancelled {
			t.Error("expected the repeat vote to cancel")
		}
		if resp.TotalVotes != 0 {
			t.Errorf("expected total 0 after cancel, got %d", resp.TotalVotes)
		}
		if _, ok := voterMembership(t, db, pollID, "voter-1"); ok {
			t.Error("expected no membership after cancel")
		}
	})

	t.Run("different option moves the vote", func(t *testing.T) {
		castVote(t, h, pollID, 1, "voter-1", "Alice")
		w, resp := castVote(t, h, pollID, 2, "voter-1", "Alice")
		testutil.AssertStatus(t, w, http.StatusOK)

		if resp.Cancelled {
			t.Error("a moved vote is not a cancellation")
		}
		if resp.TotalVotes != 1 {
			t.Errorf("expected exactly one vote after the move, got %d", resp.TotalVotes)
		}
		if opt, ok := voterMembership(t, db, pollID, "voter-1"); !ok || opt != 2 {
			t.Errorf("expected membership on option 2 only, got (%d, %v)", opt, ok)
		}

		// Denormalized counts track the membership table
		for optionID, want := range map[int]int{1: 0, 2: 1} {
			var count int
			if err := db.QueryRow(`
				SELECT vote_count FROM poll_option WHERE poll_id = $1 AND option_id = $2
			`, pollID, optionID).Scan(&count); err != nil {
				t.Fatal(err)
			}
			if count != want {
				t.Errorf("option %d vote_count = %d, want %d", optionID, count, want)
			}
		}
	})
}

func TestVoteValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	cfg := testutil.GetTestConfig()
	h := NewVotingHandler(db, cfg)

	pollID, _ := testutil.CreateTestPoll(t, db, cfg, []string{"A", "B"}, "", false)
	closedID, _ := testutil.CreateTestPoll(t, db, cfg, []string{"A", "B"}, "", true)

	tests := []struct {
		name       string
		pollID     string
		req        models.VoteRequest
		wantStatus int
	}{
		{"missing voter id", pollID, models.VoteRequest{OptionID: 1, VoterName: "Alice"}, http.StatusBadRequest},
		{"missing voter name", pollID, models.VoteRequest{OptionID: 1, VoterID: "v1"}, http.StatusBadRequest},
		{"unknown option", pollID, models.VoteRequest{OptionID: 9, VoterID: "v1", VoterName: "Alice"}, http.StatusBadRequest},
		{"closed poll", closedID, models.VoteRequest{OptionID: 1, VoterID: "v1", VoterName: "Alice"}, http.StatusConflict},
		{"unknown poll", "nope", models.VoteRequest{OptionID: 1, VoterID: "v1", VoterName: "Alice"}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/polls/"+tt.pollID+"/vote", tt.req, nil)
			req.SetPathValue("id", tt.pollID)
			w := httptest.NewRecorder()
			h.Vote(w, req)
			testutil.AssertStatus(t, w, tt.wantStatus)
		})
	}
}

func TestUpdateVoterName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	cfg := testutil.GetTestConfig()
	h := NewVotingHandler(db, cfg)

	pollID, _ := testutil.CreateTestPoll(t, db, cfg, []string{"A", "B"}, "", false)
	testutil.AddTestVote(t, db, pollID, 1, "voter-1", "Alice")

	t.Run("rename keeps the membership", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/polls/"+pollID+"/voter-name", models.UpdateVoterNameRequest{
			VoterID: "voter-1",
			Name:    "Alicia",
		}, nil)
		req.SetPathValue("id", pollID)
		w := httptest.NewRecorder()
		h.UpdateVoterName(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)

		var name string
		if err := db.QueryRow(`
			SELECT voter_name FROM poll_voter WHERE poll_id = $1 AND voter_id = $2
		`, pollID, "voter-1").Scan(&name); err != nil {
			t.Fatal(err)
		}
		if name != "Alicia" {
			t.Errorf("expected renamed voter, got %q", name)
		}
	})

	t.Run("unknown voter is not found", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/polls/"+pollID+"/voter-name", models.UpdateVoterNameRequest{
			VoterID: "stranger",
			Name:    "Bob",
		}, nil)
		req.SetPathValue("id", pollID)
		w := httptest.NewRecorder()
		h.UpdateVoterName(w, req)
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})

	t.Run("blank name rejected", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/polls/"+pollID+"/voter-name", models.UpdateVoterNameRequest{
			VoterID: "voter-1",
			Name:    "   ",
		}, nil)
		req.SetPathValue("id", pollID)
		w := httptest.NewRecorder()
		h.UpdateVoterName(w, req)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})
}
