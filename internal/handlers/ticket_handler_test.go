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

type stubTicketService struct {
	createResult *models.TicketDetail
	createErr    error
	updateResult *models.TicketDetail
	updateErr    error
	listResult   []models.TicketDetail
	listErr      error
	lastCreator  int64
	lastInput    services.CreateTicketInput
	lastActor    int64
	lastUpdate   services.UpdateTicketStatusInput
	lastStatus   models.TicketStatus
}

func (s *stubTicketService) CreateTicket(_ context.Context, creatorID int64, input services.CreateTicketInput) (*models.TicketDetail, error) {
	s.lastCreator = creatorID
	s.lastInput = input
	return s.createResult, s.createErr
}

func (s *stubTicketService) UpdateStatus(_ context.Context, actorID int64, input services.UpdateTicketStatusInput) (*models.TicketDetail, error) {
	s.lastActor = actorID
	s.lastUpdate = input
	return s.updateResult, s.updateErr
}

func (s *stubTicketService) ListTickets(_ context.Context, _ int64, status models.TicketStatus) ([]models.TicketDetail, error) {
	s.lastStatus = status
	return s.listResult, s.listErr
}

func newTicketTestApp(handler *TicketHandler, userID string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		c.Locals("role", models.RoleUser)
		return c.Next()
	})
	app.Post("/api/tickets", handler.CreateTicket)
	app.Get("/api/tickets", handler.ListTickets)
	app.Put("/api/tickets/:id/status", handler.UpdateStatus)
	return app
}

func TestCreateTicketReturnsDetail(t *testing.T) {
	service := &stubTicketService{
		createResult: &models.TicketDetail{
			Ticket: models.Ticket{ID: 4, MatchID: 3, Status: models.TicketPending},
		},
	}
	handler := &TicketHandler{service: service}
	app := newTicketTestApp(handler, "1")

	req := httptest.NewRequest(http.MethodPost, "/api/tickets", strings.NewReader(`{
		"match_id": 3,
		"workout_date": "2026-09-10T07:00:00Z",
		"workout_type": "strength"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastCreator != 1 || service.lastInput.MatchID != 3 {
		t.Fatalf("unexpected forwarded input: creator %d input %+v", service.lastCreator, service.lastInput)
	}
	if service.lastInput.WorkoutDate == nil {
		t.Fatal("expected workout date to be parsed")
	}
	if service.lastInput.WorkoutType == nil || *service.lastInput.WorkoutType != "strength" {
		t.Fatalf("expected workout type strength, got %v", service.lastInput.WorkoutType)
	}

	var body struct {
		Ticket models.TicketDetail `json:"ticket"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Ticket.ID != 4 || body.Ticket.Status != models.TicketPending {
		t.Fatalf("unexpected ticket: %+v", body.Ticket)
	}
}

func TestCreateTicketRejectsBadWorkoutDate(t *testing.T) {
	handler := &TicketHandler{service: &stubTicketService{}}
	app := newTicketTestApp(handler, "1")

	req := httptest.NewRequest(http.MethodPost, "/api/tickets", strings.NewReader(`{
		"match_id": 3,
		"workout_date": "tomorrow"
	}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCreateTicketErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"match not accepted", services.ErrMatchNotAccepted, http.StatusBadRequest},
		{"forbidden", services.ErrForbidden, http.StatusForbidden},
		{"duplicate open ticket", services.ErrDuplicateActiveTicket, http.StatusConflict},
		{"match missing", services.ErrMatchNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := &TicketHandler{service: &stubTicketService{createErr: tt.err}}
			app := newTicketTestApp(handler, "1")

			req := httptest.NewRequest(http.MethodPost, "/api/tickets", strings.NewReader(`{"match_id": 3}`))
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

func TestUpdateStatusForwardsInput(t *testing.T) {
	service := &stubTicketService{
		updateResult: &models.TicketDetail{
			Ticket: models.Ticket{ID: 4, Status: models.TicketActive},
		},
	}
	handler := &TicketHandler{service: service}
	app := newTicketTestApp(handler, "2")

	req := httptest.NewRequest(http.MethodPut, "/api/tickets/4/status", strings.NewReader(`{"status": "active", "gym_id": 7}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastActor != 2 || service.lastUpdate.TicketID != 4 {
		t.Fatalf("unexpected forwarded values: actor %d update %+v", service.lastActor, service.lastUpdate)
	}
	if service.lastUpdate.Status != models.TicketActive {
		t.Fatalf("expected status active, got %s", service.lastUpdate.Status)
	}
	if service.lastUpdate.GymID == nil || *service.lastUpdate.GymID != 7 {
		t.Fatalf("expected gym id 7, got %v", service.lastUpdate.GymID)
	}
}

func TestUpdateStatusErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid status", services.ErrInvalidStatus, http.StatusBadRequest},
		{"gym required", services.ErrGymRequired, http.StatusUnprocessableEntity},
		{"gym missing", services.ErrGymNotFound, http.StatusNotFound},
		{"ticket missing", services.ErrTicketNotFound, http.StatusNotFound},
		{"forbidden", services.ErrForbidden, http.StatusForbidden},
		{"bad transition", services.ErrInvalidTransition, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := &TicketHandler{service: &stubTicketService{updateErr: tt.err}}
			app := newTicketTestApp(handler, "2")

			req := httptest.NewRequest(http.MethodPut, "/api/tickets/4/status", strings.NewReader(`{"status": "active"}`))
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

func TestListTicketsForwardsStatusFilter(t *testing.T) {
	service := &stubTicketService{listResult: []models.TicketDetail{}}
	handler := &TicketHandler{service: service}
	app := newTicketTestApp(handler, "1")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/tickets?status=active", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastStatus != models.TicketActive {
		t.Fatalf("expected status filter active, got %q", service.lastStatus)
	}
}
