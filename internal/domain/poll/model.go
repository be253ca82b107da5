package poll

import (
	"context"
	"time"
)

// Vote choices. A vote is cast once and never changed.
const (
	ChoiceYes = "yes"
	ChoiceNo  = "no"
)

const DefaultCategory = "General"

// Voter records one user's one-time vote.
type Voter struct {
	UserID string `json:"userId"`
	Vote   string `json:"vote"`
}

type Location struct {
	Country string `json:"country,omitempty"`
	City    string `json:"city,omitempty"`
}

// Author carries the display fields feeds resolve for each poll.
type Author struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// Poll is a yes/no question with aggregate engagement counters and a cached
// trendingScore. The score is recomputed on every vote or like mutation and
// is stale in between, by design.
type Poll struct {
	ID            string    `json:"id"`
	AuthorID      string    `json:"author"`
	Author        *Author   `json:"authorInfo,omitempty"`
	Content       string    `json:"content"`
	Category      string    `json:"category"`
	YesVotes      int64     `json:"yesVotes"`
	NoVotes       int64     `json:"noVotes"`
	Voters        []Voter   `json:"voters"`
	Likes         []string  `json:"likes"`
	CommentsCount int64     `json:"commentsCount"`
	TrendingScore float64   `json:"trendingScore"`
	Sponsored     bool      `json:"sponsored"`
	Reported      bool      `json:"reported"`
	Location      *Location `json:"location,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// HasVoted reports whether userID already appears in the voter set.
func (p *Poll) HasVoted(userID string) bool {
	for _, v := range p.Voters {
		if v.UserID == userID {
			return true
		}
	}
	return false
}

// LikedBy reports whether userID is in the likes set.
func (p *Poll) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// Repository is the durable poll store. AddVote and ToggleLike must be
// atomic per poll: two concurrent votes by the same user resolve to exactly
// one voter row, and concurrent counter bumps never lose an increment.
type Repository interface {
	Create(ctx context.Context, p *Poll) error
	GetByID(ctx context.Context, id string) (*Poll, error)
	// AddVote appends (userID, choice) to the voter set and bumps the
	// matching counter in one atomic step. Returns ErrAlreadyVoted when
	// the user already holds a voter entry.
	AddVote(ctx context.Context, pollID, userID, choice string) error
	// ToggleLike flips userID's membership in the likes set and reports
	// the resulting state.
	ToggleLike(ctx context.Context, pollID, userID string) (liked bool, err error)
	UpdateTrendingScore(ctx context.Context, pollID string, score float64) error
	IncrementComments(ctx context.Context, pollID string) error
	SetReported(ctx context.Context, pollID string, reported bool) error
	Delete(ctx context.Context, pollID string) error

	// Feed queries; all resolve author display fields.
	Trending(ctx context.Context, limit int) ([]Poll, error)
	Latest(ctx context.Context, limit int) ([]Poll, error)
	All(ctx context.Context) ([]Poll, error)
	ByLocation(ctx context.Context, country, city string, limit int) ([]Poll, error)
	Sponsored(ctx context.Context, limit int) ([]Poll, error)
	Explore(ctx context.Context, limit int) ([]Poll, error)
	Reported(ctx context.Context) ([]Poll, error)
	SearchContent(ctx context.Context, query string, limit int) ([]Poll, error)
}
