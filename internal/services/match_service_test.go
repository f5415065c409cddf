package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/adityarane/GymBuddyBack/internal/models"
	"github.com/adityarane/GymBuddyBack/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type stubUserReader struct {
	users map[int64]*models.User
}

func (s *stubUserReader) GetByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

type stubProfileReader struct {
	profiles map[int64]*models.Profile
}

func (s *stubProfileReader) GetByUserID(_ context.Context, userID int64) (*models.Profile, error) {
	profile, ok := s.profiles[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return profile, nil
}

type stubMatchStore struct {
	existing  map[[2]int64]*models.Match
	byID      map[int64]*models.Match
	createErr error
	created   *models.Match
	updated   *models.Match
	updateErr error
}

func (s *stubMatchStore) Create(_ context.Context, input repository.CreateMatchInput) (*models.Match, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	match := &models.Match{
		ID:                 1,
		UserA:              input.UserA,
		UserB:              input.UserB,
		CompatibilityScore: input.Score,
		ScoreBreakdown:     input.Breakdown,
		Status:             models.MatchPending,
		InitiatedBy:        input.InitiatedBy,
	}
	s.created = match
	return match, nil
}

func (s *stubMatchStore) GetByID(_ context.Context, matchID int64) (*models.Match, error) {
	match, ok := s.byID[matchID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return match, nil
}

func (s *stubMatchStore) FindByPair(_ context.Context, userA, userB int64) (*models.Match, error) {
	match, ok := s.existing[[2]int64{userA, userB}]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return match, nil
}

func (s *stubMatchStore) UpdateStatusIfCurrent(
	_ context.Context,
	matchID int64,
	current, next models.MatchStatus,
) (*models.Match, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	match, ok := s.byID[matchID]
	if !ok || match.Status != current {
		return nil, pgx.ErrNoRows
	}
	updated := *match
	updated.Status = next
	s.updated = &updated
	return &updated, nil
}

func (s *stubMatchStore) ListForUser(_ context.Context, _ int64) ([]models.Match, error) {
	return nil, nil
}

type recordedNotification struct {
	userID  int64
	ntype   string
	message string
}

type stubNotifier struct {
	sent []recordedNotification
}

func (s *stubNotifier) Notify(_ context.Context, userID int64, ntype, message string, _ int64, _ string) {
	s.sent = append(s.sent, recordedNotification{userID: userID, ntype: ntype, message: message})
}

func newMatchServiceFixture() (*MatchService, *stubMatchStore, *stubNotifier) {
	users := &stubUserReader{users: map[int64]*models.User{
		1: {ID: 1, Name: "Asha"},
		2: {ID: 2, Name: "Ravi"},
	}}
	profiles := &stubProfileReader{profiles: map[int64]*models.Profile{
		1: buildProfileWithID(1, "Pune", "morning", models.ExperienceBeginner, []string{"weight_loss"}),
		2: buildProfileWithID(2, "Pune", "morning", models.ExperienceBeginner, []string{"weight_loss"}),
	}}
	store := &stubMatchStore{
		existing: map[[2]int64]*models.Match{},
		byID:     map[int64]*models.Match{},
	}
	notifier := &stubNotifier{}
	return NewMatchService(users, profiles, store, notifier), store, notifier
}

func buildProfileWithID(userID int64, city, workoutTime, experience string, goals []string) *models.Profile {
	profile := buildProfile(city, workoutTime, experience, goals)
	profile.UserID = userID
	return profile
}

func TestNormalizePair(t *testing.T) {
	if a, b := normalizePair(5, 2); a != 2 || b != 5 {
		t.Fatalf("expected (2,5), got (%d,%d)", a, b)
	}
	if a, b := normalizePair(2, 5); a != 2 || b != 5 {
		t.Fatalf("expected (2,5), got (%d,%d)", a, b)
	}
}

func TestRequestMatchSelfTarget(t *testing.T) {
	service, _, _ := newMatchServiceFixture()

	if _, err := service.RequestMatch(context.Background(), 1, 1); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("expected ErrInvalidTarget, got %v", err)
	}
}

func TestRequestMatchUnknownTarget(t *testing.T) {
	service, _, _ := newMatchServiceFixture()

	if _, err := service.RequestMatch(context.Background(), 1, 99); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("expected ErrInvalidTarget, got %v", err)
	}
}

func TestRequestMatchScoresAndNotifies(t *testing.T) {
	service, store, notifier := newMatchServiceFixture()

	match, err := service.RequestMatch(context.Background(), 2, 1)
	if err != nil {
		t.Fatalf("RequestMatch: %v", err)
	}

	if match.UserA != 1 || match.UserB != 2 {
		t.Fatalf("expected canonical pair (1,2), got (%d,%d)", match.UserA, match.UserB)
	}
	if match.InitiatedBy != 2 {
		t.Fatalf("expected initiator 2, got %d", match.InitiatedBy)
	}
	if match.CompatibilityScore != 100 {
		t.Fatalf("expected score 100, got %d", match.CompatibilityScore)
	}
	if store.created == nil {
		t.Fatal("expected a match to be created")
	}

	if len(notifier.sent) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifier.sent))
	}
	sent := notifier.sent[0]
	if sent.userID != 1 || sent.ntype != models.NotificationMatchRequest {
		t.Fatalf("expected match-request notification to user 1, got %+v", sent)
	}
	if !strings.Contains(sent.message, "Ravi") || !strings.Contains(sent.message, "100%") {
		t.Fatalf("unexpected notification message: %s", sent.message)
	}
}

func TestRequestMatchDuplicatePairEitherOrder(t *testing.T) {
	service, store, _ := newMatchServiceFixture()
	store.existing[[2]int64{1, 2}] = &models.Match{ID: 7, UserA: 1, UserB: 2, Status: models.MatchPending}

	if _, err := service.RequestMatch(context.Background(), 1, 2); !errors.Is(err, ErrDuplicateMatch) {
		t.Fatalf("expected ErrDuplicateMatch for (1,2), got %v", err)
	}
	if _, err := service.RequestMatch(context.Background(), 2, 1); !errors.Is(err, ErrDuplicateMatch) {
		t.Fatalf("expected ErrDuplicateMatch for (2,1), got %v", err)
	}
}

func TestRequestMatchUniqueViolationMapsToDuplicate(t *testing.T) {
	service, store, _ := newMatchServiceFixture()
	store.createErr = &pgconn.PgError{Code: "23505"}

	if _, err := service.RequestMatch(context.Background(), 1, 2); !errors.Is(err, ErrDuplicateMatch) {
		t.Fatalf("expected ErrDuplicateMatch on unique violation, got %v", err)
	}
}

func TestRequestMatchMissingProfileScoresZero(t *testing.T) {
	service, store, _ := newMatchServiceFixture()
	profiles := service.profileRepo.(*stubProfileReader)
	delete(profiles.profiles, 2)

	match, err := service.RequestMatch(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("RequestMatch: %v", err)
	}
	if match.CompatibilityScore != 0 {
		t.Fatalf("expected score 0 with missing profile, got %d", match.CompatibilityScore)
	}
	if store.created == nil {
		t.Fatal("expected a match to be created despite missing profile")
	}
}

func TestRespondToMatchInvalidDecision(t *testing.T) {
	service, _, _ := newMatchServiceFixture()

	if _, err := service.RespondToMatch(context.Background(), 1, 1, "maybe"); !errors.Is(err, ErrInvalidDecision) {
		t.Fatalf("expected ErrInvalidDecision, got %v", err)
	}
}

func TestRespondToMatchNotFound(t *testing.T) {
	service, _, _ := newMatchServiceFixture()

	if _, err := service.RespondToMatch(context.Background(), 1, 42, "accept"); !errors.Is(err, ErrMatchNotFound) {
		t.Fatalf("expected ErrMatchNotFound, got %v", err)
	}
}

func TestRespondToMatchOnlyRecipientMayRespond(t *testing.T) {
	service, store, _ := newMatchServiceFixture()
	store.byID[5] = &models.Match{ID: 5, UserA: 1, UserB: 2, Status: models.MatchPending, InitiatedBy: 1}

	if _, err := service.RespondToMatch(context.Background(), 1, 5, "accept"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for initiator, got %v", err)
	}
	if _, err := service.RespondToMatch(context.Background(), 3, 5, "accept"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for outsider, got %v", err)
	}
}

func TestRespondToMatchAlreadyResolved(t *testing.T) {
	service, store, _ := newMatchServiceFixture()
	store.byID[5] = &models.Match{ID: 5, UserA: 1, UserB: 2, Status: models.MatchAccepted, InitiatedBy: 1}

	if _, err := service.RespondToMatch(context.Background(), 2, 5, "reject"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestRespondToMatchLostRace(t *testing.T) {
	service, store, _ := newMatchServiceFixture()
	store.byID[5] = &models.Match{ID: 5, UserA: 1, UserB: 2, Status: models.MatchPending, InitiatedBy: 1}
	store.updateErr = pgx.ErrNoRows

	if _, err := service.RespondToMatch(context.Background(), 2, 5, "accept"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition on lost compare-and-set, got %v", err)
	}
}

func TestRespondToMatchAcceptNotifiesInitiator(t *testing.T) {
	service, store, notifier := newMatchServiceFixture()
	store.byID[5] = &models.Match{ID: 5, UserA: 1, UserB: 2, Status: models.MatchPending, InitiatedBy: 1}

	updated, err := service.RespondToMatch(context.Background(), 2, 5, "accept")
	if err != nil {
		t.Fatalf("RespondToMatch: %v", err)
	}
	if updated.Status != models.MatchAccepted {
		t.Fatalf("expected accepted, got %s", updated.Status)
	}

	if len(notifier.sent) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifier.sent))
	}
	sent := notifier.sent[0]
	if sent.userID != 1 || sent.ntype != models.NotificationMatchAccepted {
		t.Fatalf("expected accepted notification to user 1, got %+v", sent)
	}
	if !strings.Contains(sent.message, "accepted") {
		t.Fatalf("unexpected notification message: %s", sent.message)
	}
}

func TestRespondToMatchRejectNotifiesInitiator(t *testing.T) {
	service, store, notifier := newMatchServiceFixture()
	store.byID[5] = &models.Match{ID: 5, UserA: 1, UserB: 2, Status: models.MatchPending, InitiatedBy: 1}

	updated, err := service.RespondToMatch(context.Background(), 2, 5, "reject")
	if err != nil {
		t.Fatalf("RespondToMatch: %v", err)
	}
	if updated.Status != models.MatchRejected {
		t.Fatalf("expected rejected, got %s", updated.Status)
	}
	if notifier.sent[0].ntype != models.NotificationMatchRejected {
		t.Fatalf("expected rejected notification, got %+v", notifier.sent[0])
	}
}
