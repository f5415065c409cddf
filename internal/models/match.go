package models

import "time"

type MatchStatus string

const (
	MatchPending  MatchStatus = "pending"
	MatchAccepted MatchStatus = "accepted"
	MatchRejected MatchStatus = "rejected"
)

// IsTerminal reports whether no further transition is allowed.
func (s MatchStatus) IsTerminal() bool {
	return s == MatchAccepted || s == MatchRejected
}

// ScoreBreakdown explains how a compatibility score was assembled.
// Component maxima: location 30, workout time 25, fitness goals 25,
// experience 20.
type ScoreBreakdown struct {
	Location    int `json:"location"`
	WorkoutTime int `json:"workoutTime"`
	FitnessGoal int `json:"fitnessGoal"`
	Experience  int `json:"experience"`
}

func (b ScoreBreakdown) Total() int {
	return b.Location + b.WorkoutTime + b.FitnessGoal + b.Experience
}

// Match is a proposed or resolved pairing between two users. UserA and
// UserB hold the canonical pair order (smaller id first) regardless of who
// initiated, so the (user_a, user_b) unique index is pair-symmetric.
type Match struct {
	ID                 int64          `json:"id"`
	UserA              int64          `json:"user_a"`
	UserB              int64          `json:"user_b"`
	CompatibilityScore int            `json:"compatibility_score"`
	ScoreBreakdown     ScoreBreakdown `json:"score_breakdown"`
	Status             MatchStatus    `json:"status"`
	InitiatedBy        int64          `json:"initiated_by"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// OtherUser returns the participant that is not the given user.
func (m *Match) OtherUser(userID int64) int64 {
	if m.UserA == userID {
		return m.UserB
	}
	return m.UserA
}

// HasParticipant reports whether the given user is one of the pair.
func (m *Match) HasParticipant(userID int64) bool {
	return m.UserA == userID || m.UserB == userID
}

// RankedCandidate is one entry of the ranked partner list: a candidate,
// their compatibility score, and the breakdown behind it.
type RankedCandidate struct {
	Candidate CandidateProfile `json:"candidate"`
	Score     int              `json:"compatibility_score"`
	Breakdown ScoreBreakdown   `json:"score_breakdown"`
}

// RankedMatch enriches a ranked candidate with any existing match record
// between the requester and that candidate.
type RankedMatch struct {
	RankedCandidate
	MatchID     *int64      `json:"match_id"`
	MatchStatus MatchStatus `json:"match_status,omitempty"`
	IsInitiator bool        `json:"is_initiator"`
}
