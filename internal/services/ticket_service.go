package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adityarane/GymBuddyBack/internal/models"
	"github.com/adityarane/GymBuddyBack/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrTicketNotFound        = errors.New("ticket not found")
	ErrGymNotFound           = errors.New("gym not found")
	ErrMatchNotAccepted      = errors.New("match must be accepted before creating a ticket")
	ErrDuplicateActiveTicket = errors.New("active ticket already exists for this match")
	ErrGymRequired           = errors.New("a gym must be selected to activate the ticket")
	ErrInvalidStatus         = errors.New("invalid status")
)

type gymReader interface {
	GetByID(ctx context.Context, gymID int64) (*models.Gym, error)
}

type TicketService struct {
	db         *pgxpool.Pool
	ticketRepo *repository.TicketRepository
	matchRepo  matchStore
	userRepo   userReader
	gymRepo    gymReader
	notifier   Notifier
}

func NewTicketService(
	db *pgxpool.Pool,
	ticketRepo *repository.TicketRepository,
	matchRepo matchStore,
	userRepo userReader,
	gymRepo gymReader,
	notifier Notifier,
) *TicketService {
	return &TicketService{
		db:         db,
		ticketRepo: ticketRepo,
		matchRepo:  matchRepo,
		userRepo:   userRepo,
		gymRepo:    gymRepo,
		notifier:   notifier,
	}
}

// validateTicketTransition enforces the ticket workflow: strictly forward
// through pending, confirmed, active, completed, with cancellation allowed
// from any non-terminal state. The returned error names both statuses so
// the client can explain exactly what was refused.
func validateTicketTransition(current, next models.TicketStatus) error {
	allowed := false
	switch current {
	case models.TicketPending:
		allowed = next == models.TicketConfirmed || next == models.TicketCancelled
	case models.TicketConfirmed:
		allowed = next == models.TicketActive || next == models.TicketCancelled
	case models.TicketActive:
		allowed = next == models.TicketCompleted || next == models.TicketCancelled
	case models.TicketCompleted, models.TicketCancelled:
		allowed = false
	}
	if !allowed {
		return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidTransition, current, next)
	}
	return nil
}

// ticketStatusMessage builds the notification text for the participant who
// did not perform the transition.
func ticketStatusMessage(actorName string, status models.TicketStatus) string {
	switch status {
	case models.TicketConfirmed:
		return fmt.Sprintf("%s confirmed the collaboration!", actorName)
	case models.TicketActive:
		return fmt.Sprintf("%s selected a gym. Let's go!", actorName)
	case models.TicketCompleted:
		return fmt.Sprintf("%s marked the workout as completed!", actorName)
	case models.TicketCancelled:
		return fmt.Sprintf("%s cancelled the collaboration.", actorName)
	default:
		return fmt.Sprintf("%s updated the collaboration.", actorName)
	}
}

type CreateTicketInput struct {
	MatchID     int64
	WorkoutDate *time.Time
	WorkoutType *string
	Notes       *string
}

// CreateTicket opens a collaboration ticket against an accepted match. The
// partial unique index on non-terminal tickets guarantees at most one open
// ticket per match even under concurrent creation.
func (s *TicketService) CreateTicket(
	ctx context.Context,
	creatorID int64,
	input CreateTicketInput,
) (*models.TicketDetail, error) {
	match, err := s.matchRepo.GetByID(ctx, input.MatchID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	if !match.HasParticipant(creatorID) {
		return nil, ErrForbidden
	}
	if match.Status != models.MatchAccepted {
		return nil, ErrMatchNotAccepted
	}

	existing, err := s.ticketRepo.FindActiveByMatchID(ctx, input.MatchID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateActiveTicket
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txTicketRepo := repository.NewTicketRepository(tx)
	ticket, err := txTicketRepo.Create(ctx, repository.CreateTicketInput{
		MatchID:     input.MatchID,
		UserA:       match.UserA,
		UserB:       match.UserB,
		CreatedBy:   creatorID,
		WorkoutDate: input.WorkoutDate,
		WorkoutType: input.WorkoutType,
		Notes:       input.Notes,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateActiveTicket
		}
		return nil, err
	}
	if err := txTicketRepo.AppendHistory(ctx, ticket.ID, models.TicketPending, creatorID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	creator, err := s.userRepo.GetByID(ctx, creatorID)
	creatorName := "Your partner"
	if err == nil {
		creatorName = creator.Name
	}
	s.notifier.Notify(ctx, ticket.OtherParticipant(creatorID), models.NotificationTicketCreated,
		fmt.Sprintf("%s created a collaboration ticket!", creatorName),
		ticket.ID, models.RelatedTicket)

	return s.buildTicketDetail(ctx, ticket)
}

type UpdateTicketStatusInput struct {
	TicketID int64
	Status   models.TicketStatus
	GymID    *int64
}

// UpdateStatus advances a ticket through its workflow. The status write is
// compare-and-set on the current status inside one transaction with the
// history append and the gym visitor increment, so two participants racing
// to activate the same ticket produce exactly one winner and exactly one
// increment; the loser gets an ErrInvalidTransition naming the new state.
func (s *TicketService) UpdateStatus(
	ctx context.Context,
	actorID int64,
	input UpdateTicketStatusInput,
) (*models.TicketDetail, error) {
	if !input.Status.IsValid() {
		return nil, ErrInvalidStatus
	}

	ticket, err := s.ticketRepo.GetByID(ctx, input.TicketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	if !ticket.HasParticipant(actorID) {
		return nil, ErrForbidden
	}
	if err := validateTicketTransition(ticket.Status, input.Status); err != nil {
		return nil, err
	}

	var attachGymID *int64
	if input.Status == models.TicketActive {
		if input.GymID != nil {
			if _, err := s.gymRepo.GetByID(ctx, *input.GymID); err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return nil, ErrGymNotFound
				}
				return nil, err
			}
			attachGymID = input.GymID
		} else if ticket.GymID == nil {
			return nil, ErrGymRequired
		}
	}

	var completedAt *time.Time
	if input.Status == models.TicketCompleted {
		now := time.Now().UTC()
		completedAt = &now
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txTicketRepo := repository.NewTicketRepository(tx)
	updated, err := txTicketRepo.UpdateStatusIfCurrent(
		ctx,
		input.TicketID,
		ticket.Status,
		input.Status,
		attachGymID,
		completedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.concurrentTransitionError(ctx, input.TicketID, input.Status)
		}
		return nil, err
	}
	if err := txTicketRepo.AppendHistory(ctx, updated.ID, input.Status, actorID); err != nil {
		return nil, err
	}
	if attachGymID != nil {
		txGymRepo := repository.NewGymRepository(tx)
		if err := txGymRepo.IncrementVisitors(ctx, *attachGymID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	actor, err := s.userRepo.GetByID(ctx, actorID)
	actorName := "Your partner"
	if err == nil {
		actorName = actor.Name
	}
	s.notifier.Notify(ctx, updated.OtherParticipant(actorID), "ticket-"+string(input.Status),
		ticketStatusMessage(actorName, input.Status),
		updated.ID, models.RelatedTicket)

	return s.buildTicketDetail(ctx, updated)
}

// ListTickets returns the user's tickets, newest activity first, with
// participants and gyms resolved.
func (s *TicketService) ListTickets(
	ctx context.Context,
	userID int64,
	status models.TicketStatus,
) ([]models.TicketDetail, error) {
	if status != "" && !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	tickets, err := s.ticketRepo.ListForUser(ctx, userID, status)
	if err != nil {
		return nil, err
	}

	details := make([]models.TicketDetail, 0, len(tickets))
	for i := range tickets {
		detail, err := s.buildTicketDetail(ctx, &tickets[i])
		if err != nil {
			return nil, err
		}
		details = append(details, *detail)
	}
	return details, nil
}

// concurrentTransitionError re-reads the ticket after a lost
// compare-and-set so the error can name the state that beat us. This is
// the expected "who picks the gym first" race, reported as a recoverable
// condition rather than a server fault.
func (s *TicketService) concurrentTransitionError(
	ctx context.Context,
	ticketID int64,
	requested models.TicketStatus,
) error {
	fresh, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return fmt.Errorf("%w: ticket state changed concurrently", ErrInvalidTransition)
	}
	return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidTransition, fresh.Status, requested)
}

func (s *TicketService) buildTicketDetail(
	ctx context.Context,
	ticket *models.Ticket,
) (*models.TicketDetail, error) {
	detail := &models.TicketDetail{Ticket: *ticket}

	for _, participantID := range []int64{ticket.UserA, ticket.UserB} {
		user, err := s.userRepo.GetByID(ctx, participantID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			return nil, err
		}
		detail.Participants = append(detail.Participants, user.Public())
	}

	if ticket.GymID != nil {
		gym, err := s.gymRepo.GetByID(ctx, *ticket.GymID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		if err == nil {
			detail.Gym = gym
		}
	}

	history, err := s.ticketRepo.ListHistory(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	detail.History = history

	return detail, nil
}
