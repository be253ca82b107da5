// Package feed builds the ranked read views over the poll collection:
// personalized, location, sponsored and explore, plus search suggestions.
// Trending and chronological live on the poll service since the state
// machine also serves them.
package feed

import (
	"context"
	"sort"
	"time"

	"pulse/internal/domain/poll"
	"pulse/internal/ranking"
)

const (
	PersonalizedLimit = 20
	LocationLimit     = 20
	SponsoredLimit    = 5
	ExploreLimit      = 30
	SuggestLimit      = 5
)

// Interests resolves a viewer's interest categories; the user service
// implements it.
type Interests interface {
	Interests(ctx context.Context, userID string) ([]string, error)
}

// Polls is the slice of the poll repository the ranker reads from.
type Polls interface {
	All(ctx context.Context) ([]poll.Poll, error)
	ByLocation(ctx context.Context, country, city string, limit int) ([]poll.Poll, error)
	Sponsored(ctx context.Context, limit int) ([]poll.Poll, error)
	Explore(ctx context.Context, limit int) ([]poll.Poll, error)
	SearchContent(ctx context.Context, query string, limit int) ([]poll.Poll, error)
}

type Service struct {
	polls     Polls
	interests Interests
	now       func() time.Time
}

func NewService(polls Polls, interests Interests) *Service {
	return &Service{polls: polls, interests: interests, now: time.Now}
}

// Personalized scores every poll in storage in memory on each request with
// the Personalized preset plus a flat boost for category matches, then
// returns the top slice. Deliberately O(n) per request; persisting per-user
// scores is out of scope.
func (s *Service) Personalized(ctx context.Context, userID string) ([]poll.Poll, error) {
	interests, err := s.interests.Interests(ctx, userID)
	if err != nil {
		return nil, err
	}
	interested := make(map[string]struct{}, len(interests))
	for _, c := range interests {
		interested[c] = struct{}{}
	}

	polls, err := s.polls.All(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	scores := make([]float64, len(polls))
	for i := range polls {
		p := &polls[i]
		var boost float64
		if _, ok := interested[p.Category]; ok {
			boost = ranking.InterestBoost
		}
		scores[i] = ranking.Personalized.Score(ranking.Signals{
			Votes:         p.YesVotes + p.NoVotes,
			Likes:         int64(len(p.Likes)),
			Comments:      p.CommentsCount,
			AgeHours:      ranking.AgeHours(p.CreatedAt, now),
			Sponsored:     p.Sponsored,
			InterestBoost: boost,
		})
	}

	idx := make([]int, len(polls))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})

	n := len(idx)
	if n > PersonalizedLimit {
		n = PersonalizedLimit
	}
	res := make([]poll.Poll, 0, n)
	for _, i := range idx[:n] {
		res = append(res, polls[i])
	}
	return res, nil
}

// Location filters by country and optionally city, ranked by the cached
// trending score.
func (s *Service) Location(ctx context.Context, country, city string) ([]poll.Poll, error) {
	return s.polls.ByLocation(ctx, country, city, LocationLimit)
}

// Sponsored returns the ad slots, newest first.
func (s *Service) Sponsored(ctx context.Context) ([]poll.Poll, error) {
	return s.polls.Sponsored(ctx, SponsoredLimit)
}

// Explore ranks by raw like count with recency breaking ties.
func (s *Service) Explore(ctx context.Context) ([]poll.Poll, error) {
	return s.polls.Explore(ctx, ExploreLimit)
}

// Suggest returns polls whose content matches the query, for search
// auto-complete.
func (s *Service) Suggest(ctx context.Context, query string) ([]poll.Poll, error) {
	if query == "" {
		return []poll.Poll{}, nil
	}
	return s.polls.SearchContent(ctx, query, SuggestLimit)
}
