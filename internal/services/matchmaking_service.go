package services

import (
	"context"
	"sort"

	"github.com/adityarane/GymBuddyBack/internal/models"
)

type candidatePoolReader interface {
	ListCandidates(ctx context.Context, excludeUserID int64) ([]models.CandidateProfile, error)
}

type matchesByUserReader interface {
	ListForUser(ctx context.Context, userID int64) ([]models.Match, error)
}

type MatchmakingService struct {
	profileRepo candidatePoolReader
	matchRepo   matchesByUserReader
}

func NewMatchmakingService(
	profileRepo candidatePoolReader,
	matchRepo matchesByUserReader,
) *MatchmakingService {
	return &MatchmakingService{profileRepo: profileRepo, matchRepo: matchRepo}
}

// RankCandidates scores every candidate against the requester, drops the
// incompatible ones, and orders the rest by descending score. The caller
// supplies the pool already filtered down to complete profiles without the
// requester; ties keep their input order.
func RankCandidates(
	requester *models.Profile,
	pool []models.CandidateProfile,
) []models.RankedCandidate {
	ranked := make([]models.RankedCandidate, 0, len(pool))
	for _, candidate := range pool {
		total, breakdown := CalculateCompatibility(requester, &candidate.Profile)
		if total == 0 {
			continue
		}
		ranked = append(ranked, models.RankedCandidate{
			Candidate: candidate,
			Score:     total,
			Breakdown: breakdown,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked
}

// GetRankedMatches builds the ranked partner list for a user and merges in
// any existing match record per candidate so the client can render the
// request state alongside the score.
func (s *MatchmakingService) GetRankedMatches(
	ctx context.Context,
	userID int64,
	profile *models.Profile,
) ([]models.RankedMatch, error) {
	pool, err := s.profileRepo.ListCandidates(ctx, userID)
	if err != nil {
		return nil, err
	}

	ranked := RankCandidates(profile, pool)

	existing, err := s.matchRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	byOther := make(map[int64]models.Match, len(existing))
	for _, match := range existing {
		byOther[match.OtherUser(userID)] = match
	}

	results := make([]models.RankedMatch, 0, len(ranked))
	for _, entry := range ranked {
		result := models.RankedMatch{RankedCandidate: entry}
		if match, ok := byOther[entry.Candidate.User.ID]; ok {
			matchID := match.ID
			result.MatchID = &matchID
			result.MatchStatus = match.Status
			result.IsInitiator = match.InitiatedBy == userID
		}
		results = append(results, result)
	}

	return results, nil
}
