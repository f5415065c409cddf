package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/adityarane/GymBuddyBack/internal/models"
	"github.com/adityarane/GymBuddyBack/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTarget     = errors.New("invalid match target")
	ErrDuplicateMatch    = errors.New("match request already exists")
	ErrMatchNotFound     = errors.New("match not found")
	ErrInvalidDecision   = errors.New("decision must be accept or reject")
	ErrInvalidTransition = errors.New("invalid status transition")
)

type userReader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type profileReader interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Profile, error)
}

type matchStore interface {
	Create(ctx context.Context, input repository.CreateMatchInput) (*models.Match, error)
	GetByID(ctx context.Context, matchID int64) (*models.Match, error)
	FindByPair(ctx context.Context, userA, userB int64) (*models.Match, error)
	UpdateStatusIfCurrent(ctx context.Context, matchID int64, current, next models.MatchStatus) (*models.Match, error)
	ListForUser(ctx context.Context, userID int64) ([]models.Match, error)
}

type MatchService struct {
	userRepo    userReader
	profileRepo profileReader
	matchRepo   matchStore
	notifier    Notifier
}

func NewMatchService(
	userRepo userReader,
	profileRepo profileReader,
	matchRepo matchStore,
	notifier Notifier,
) *MatchService {
	return &MatchService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		matchRepo:   matchRepo,
		notifier:    notifier,
	}
}

// normalizePair puts a user pair into canonical order, smaller id first.
// Every uniqueness check and the (user_a, user_b) index operate on this
// order, so (A,B) and (B,A) can never coexist.
func normalizePair(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}

// RequestMatch creates a pending match between the requester and the
// target, scored at request time. The pair-unique index is the final word
// on duplicates: a concurrent request for the same pair loses with
// ErrDuplicateMatch.
func (s *MatchService) RequestMatch(
	ctx context.Context,
	requesterID, targetID int64,
) (*models.Match, error) {
	if requesterID == targetID {
		return nil, ErrInvalidTarget
	}

	requester, err := s.userRepo.GetByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidTarget
		}
		return nil, err
	}

	userA, userB := normalizePair(requesterID, targetID)
	existing, err := s.matchRepo.FindByPair(ctx, userA, userB)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateMatch
	}

	requesterProfile, err := s.loadProfile(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	targetProfile, err := s.loadProfile(ctx, targetID)
	if err != nil {
		return nil, err
	}

	total, breakdown := CalculateCompatibility(requesterProfile, targetProfile)

	match, err := s.matchRepo.Create(ctx, repository.CreateMatchInput{
		UserA:       userA,
		UserB:       userB,
		Score:       total,
		Breakdown:   breakdown,
		InitiatedBy: requesterID,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateMatch
		}
		return nil, err
	}

	s.notifier.Notify(ctx, targetID, models.NotificationMatchRequest,
		fmt.Sprintf("%s sent you a match request! (%d%% compatible)", requester.Name, total),
		match.ID, models.RelatedMatch)

	return match, nil
}

// RespondToMatch resolves a pending match. Only the non-initiating
// participant may respond, and only once: the status write is
// compare-and-set on pending, so a second response loses with
// ErrInvalidTransition.
func (s *MatchService) RespondToMatch(
	ctx context.Context,
	responderID, matchID int64,
	decision string,
) (*models.Match, error) {
	next, err := parseMatchDecision(decision)
	if err != nil {
		return nil, err
	}

	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	if !match.HasParticipant(responderID) || match.InitiatedBy == responderID {
		return nil, ErrForbidden
	}
	if match.Status != models.MatchPending {
		return nil, fmt.Errorf("%w: match is already %s", ErrInvalidTransition, match.Status)
	}

	updated, err := s.matchRepo.UpdateStatusIfCurrent(ctx, matchID, models.MatchPending, next)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: match is no longer pending", ErrInvalidTransition)
		}
		return nil, err
	}

	responder, err := s.userRepo.GetByID(ctx, responderID)
	responderName := "Your match"
	if err == nil {
		responderName = responder.Name
	}

	ntype := models.NotificationMatchAccepted
	verb := "accepted"
	if next == models.MatchRejected {
		ntype = models.NotificationMatchRejected
		verb = "rejected"
	}
	s.notifier.Notify(ctx, updated.InitiatedBy, ntype,
		fmt.Sprintf("%s %s your match request!", responderName, verb),
		updated.ID, models.RelatedMatch)

	return updated, nil
}

// ListMatches returns every match the user participates in.
func (s *MatchService) ListMatches(ctx context.Context, userID int64) ([]models.Match, error) {
	return s.matchRepo.ListForUser(ctx, userID)
}

// loadProfile treats a missing profile row as an empty profile so scoring
// degrades to zero contributions instead of failing the request.
func (s *MatchService) loadProfile(ctx context.Context, userID int64) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &models.Profile{UserID: userID}, nil
		}
		return nil, err
	}
	return profile, nil
}

func parseMatchDecision(decision string) (models.MatchStatus, error) {
	switch decision {
	case "accept":
		return models.MatchAccepted, nil
	case "reject":
		return models.MatchRejected, nil
	default:
		return "", ErrInvalidDecision
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
