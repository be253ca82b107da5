package poll

import (
	"context"
	"errors"
	"time"

	"pulse/internal/ranking"
	"pulse/internal/realtime"
)

var (
	ErrNotFound      = errors.New("poll not found")
	ErrAlreadyVoted  = errors.New("user already voted on this poll")
	ErrEmptyContent  = errors.New("poll content is required")
	ErrInvalidChoice = errors.New("vote must be yes or no")
)

// DefaultFeedLimit caps the trending and chronological feeds.
const DefaultFeedLimit = 20

// Service owns the poll mutation rules: the vote-once invariant, like
// toggling and trendingScore recomputation. Every successful vote or like
// re-scores the poll with the Trending preset and persists the result.
type Service struct {
	repo      Repository
	broadcast realtime.Broadcaster
	now       func() time.Time
}

func NewService(repo Repository, broadcast realtime.Broadcaster) *Service {
	if broadcast == nil {
		broadcast = realtime.Nop{}
	}
	return &Service{repo: repo, broadcast: broadcast, now: time.Now}
}

func (s *Service) Create(ctx context.Context, authorID, content, category string, loc *Location) (*Poll, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	if category == "" {
		category = DefaultCategory
	}

	p := &Poll{
		AuthorID: authorID,
		Content:  content,
		Category: category,
		Location: loc,
		Voters:   []Voter{},
		Likes:    []string{},
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Poll, error) {
	return s.repo.GetByID(ctx, id)
}

// CastVote appends (userID, choice) to the voter set exactly once. The
// repository enforces the vote-once invariant atomically; the counter bump
// happens in the same write. No retraction path exists.
func (s *Service) CastVote(ctx context.Context, pollID, userID, choice string) (*Poll, error) {
	if choice != ChoiceYes && choice != ChoiceNo {
		return nil, ErrInvalidChoice
	}

	if _, err := s.repo.GetByID(ctx, pollID); err != nil {
		return nil, err
	}

	if err := s.repo.AddVote(ctx, pollID, userID, choice); err != nil {
		return nil, err
	}

	return s.rescore(ctx, pollID)
}

// ToggleLike flips userID's membership in the poll's likes set. Applying it
// twice restores both the set and the trending score.
func (s *Service) ToggleLike(ctx context.Context, pollID, userID string) (*Poll, error) {
	if _, err := s.repo.GetByID(ctx, pollID); err != nil {
		return nil, err
	}

	if _, err := s.repo.ToggleLike(ctx, pollID, userID); err != nil {
		return nil, err
	}

	return s.rescore(ctx, pollID)
}

// IncrementCommentCount is called by the comment service after a comment
// insert commits. It does not re-score: only votes and likes do.
func (s *Service) IncrementCommentCount(ctx context.Context, pollID string) error {
	return s.repo.IncrementComments(ctx, pollID)
}

// Trending returns the ranked feed ordered by trendingScore desc with
// createdAt desc breaking ties.
func (s *Service) Trending(ctx context.Context, limit int) ([]Poll, error) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	return s.repo.Trending(ctx, limit)
}

// Feed returns the chronological feed, newest first. It never consults the
// trending score.
func (s *Service) Feed(ctx context.Context, limit int) ([]Poll, error) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	return s.repo.Latest(ctx, limit)
}

func (s *Service) Report(ctx context.Context, pollID string) error {
	if _, err := s.repo.GetByID(ctx, pollID); err != nil {
		return err
	}
	return s.repo.SetReported(ctx, pollID, true)
}

func (s *Service) ReportedPolls(ctx context.Context) ([]Poll, error) {
	return s.repo.Reported(ctx)
}

// Delete removes the poll itself. Cascading its comments is the caller's
// job (the admin handler deletes them through the comment service).
func (s *Service) Delete(ctx context.Context, pollID string) error {
	return s.repo.Delete(ctx, pollID)
}

// rescore recomputes the cached trendingScore from the poll's current
// engagement counts, persists it and broadcasts the updated poll.
func (s *Service) rescore(ctx context.Context, pollID string) (*Poll, error) {
	p, err := s.repo.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}

	p.TrendingScore = ranking.Trending.Score(ranking.Signals{
		Votes:     p.YesVotes + p.NoVotes,
		Likes:     int64(len(p.Likes)),
		Comments:  p.CommentsCount,
		AgeHours:  ranking.AgeHours(p.CreatedAt, s.now()),
		Sponsored: p.Sponsored,
	})

	if err := s.repo.UpdateTrendingScore(ctx, pollID, p.TrendingScore); err != nil {
		return nil, err
	}

	s.broadcast.Emit(realtime.EventPollUpdated, p)
	return p, nil
}
