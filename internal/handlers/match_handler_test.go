package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/adityarane/GymBuddyBack/internal/models"
	"github.com/adityarane/GymBuddyBack/internal/services"
	"github.com/gofiber/fiber/v2"
)

type stubMatchService struct {
	requestResult *models.Match
	requestErr    error
	respondResult *models.Match
	respondErr    error
	listResult    []models.Match
	listErr       error
	lastRequester int64
	lastTarget    int64
	lastResponder int64
	lastMatchID   int64
	lastDecision  string
}

func (s *stubMatchService) RequestMatch(_ context.Context, requesterID, targetID int64) (*models.Match, error) {
	s.lastRequester = requesterID
	s.lastTarget = targetID
	return s.requestResult, s.requestErr
}

func (s *stubMatchService) RespondToMatch(_ context.Context, responderID, matchID int64, decision string) (*models.Match, error) {
	s.lastResponder = responderID
	s.lastMatchID = matchID
	s.lastDecision = decision
	return s.respondResult, s.respondErr
}

func (s *stubMatchService) ListMatches(_ context.Context, _ int64) ([]models.Match, error) {
	return s.listResult, s.listErr
}

type stubRanker struct {
	results []models.RankedMatch
	err     error
}

func (s *stubRanker) GetRankedMatches(_ context.Context, _ int64, _ *models.Profile) ([]models.RankedMatch, error) {
	return s.results, s.err
}

type stubProfileSource struct {
	profile *models.Profile
	err     error
}

func (s *stubProfileSource) GetByUserID(_ context.Context, _ int64) (*models.Profile, error) {
	return s.profile, s.err
}

func newMatchTestApp(handler *MatchHandler, userID string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		c.Locals("role", models.RoleUser)
		return c.Next()
	})
	app.Get("/api/matches", handler.GetMatches)
	app.Post("/api/matches/request", handler.SendRequest)
	app.Post("/api/matches/respond", handler.Respond)
	return app
}

func TestSendRequestReturnsCreatedMatch(t *testing.T) {
	service := &stubMatchService{
		requestResult: &models.Match{
			ID:                 3,
			UserA:              1,
			UserB:              2,
			CompatibilityScore: 65,
			Status:             models.MatchPending,
			InitiatedBy:        1,
		},
	}
	handler := &MatchHandler{service: service}
	app := newMatchTestApp(handler, "1")

	req := httptest.NewRequest(http.MethodPost, "/api/matches/request", strings.NewReader(`{"target_user_id": 2}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastRequester != 1 || service.lastTarget != 2 {
		t.Fatalf("expected request (1,2), got (%d,%d)", service.lastRequester, service.lastTarget)
	}

	var body struct {
		Match models.Match `json:"match"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Match.CompatibilityScore != 65 {
		t.Fatalf("expected score 65, got %d", body.Match.CompatibilityScore)
	}
}

func TestSendRequestMissingTarget(t *testing.T) {
	handler := &MatchHandler{service: &stubMatchService{}}
	app := newMatchTestApp(handler, "1")

	req := httptest.NewRequest(http.MethodPost, "/api/matches/request", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestSendRequestErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid target", services.ErrInvalidTarget, http.StatusBadRequest},
		{"duplicate", services.ErrDuplicateMatch, http.StatusConflict},
		{"internal", context.DeadlineExceeded, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := &MatchHandler{service: &stubMatchService{requestErr: tt.err}}
			app := newMatchTestApp(handler, "1")

			req := httptest.NewRequest(http.MethodPost, "/api/matches/request", strings.NewReader(`{"target_user_id": 2}`))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, resp.StatusCode)
			}
		})
	}
}

func TestRespondErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"bad decision", services.ErrInvalidDecision, http.StatusBadRequest},
		{"not found", services.ErrMatchNotFound, http.StatusNotFound},
		{"forbidden", services.ErrForbidden, http.StatusForbidden},
		{"already resolved", services.ErrInvalidTransition, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := &MatchHandler{service: &stubMatchService{respondErr: tt.err}}
			app := newMatchTestApp(handler, "2")

			req := httptest.NewRequest(http.MethodPost, "/api/matches/respond", strings.NewReader(`{"match_id": 3, "decision": "accept"}`))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, resp.StatusCode)
			}
		})
	}
}

func TestRespondForwardsDecision(t *testing.T) {
	service := &stubMatchService{
		respondResult: &models.Match{ID: 3, Status: models.MatchAccepted},
	}
	handler := &MatchHandler{service: service}
	app := newMatchTestApp(handler, "2")

	req := httptest.NewRequest(http.MethodPost, "/api/matches/respond", strings.NewReader(`{"match_id": 3, "decision": "accept"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastResponder != 2 || service.lastMatchID != 3 || service.lastDecision != "accept" {
		t.Fatalf("unexpected forwarded values: %+v", service)
	}
}

func TestGetMatchesReturnsRankedList(t *testing.T) {
	matchID := int64(9)
	handler := &MatchHandler{
		service: &stubMatchService{},
		matchmaking: &stubRanker{results: []models.RankedMatch{
			{
				RankedCandidate: models.RankedCandidate{
					Candidate: models.CandidateProfile{User: models.PublicUser{ID: 2, Name: "Ravi"}},
					Score:     65,
				},
				MatchID:     &matchID,
				MatchStatus: models.MatchPending,
			},
		}},
		profileRepo: &stubProfileSource{profile: &models.Profile{UserID: 1}},
	}
	app := newMatchTestApp(handler, "1")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/matches", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Matches []models.RankedMatch `json:"matches"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Matches) != 1 {
		t.Fatalf("expected 1 ranked match, got %d", len(body.Matches))
	}
	if body.Matches[0].Score != 65 || body.Matches[0].MatchStatus != models.MatchPending {
		t.Fatalf("unexpected ranked match: %+v", body.Matches[0])
	}
}
