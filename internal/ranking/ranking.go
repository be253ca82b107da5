// Package ranking computes engagement scores for polls. It is pure: no
// storage, no clock of its own, callers pass the poll age in.
package ranking

import "time"

// Preset holds the weights for one scoring formula. Two presets exist and
// they intentionally differ: the mutation path and the personalized feed
// decay and reward sponsorship at different rates. Merging them would
// reorder feeds.
type Preset struct {
	VoteWeight      float64
	LikeWeight      float64
	CommentWeight   float64
	AgeDecayPerHour float64
	SponsoredBonus  float64
}

var (
	// Trending is applied whenever a vote or like mutates a poll; the
	// result is persisted as the poll's trendingScore.
	Trending = Preset{
		VoteWeight:      2,
		LikeWeight:      3,
		CommentWeight:   4,
		AgeDecayPerHour: 0.5,
		SponsoredBonus:  50,
	}

	// Personalized is applied in-memory on every personalized feed request
	// and is never persisted.
	Personalized = Preset{
		VoteWeight:      2,
		LikeWeight:      3,
		CommentWeight:   4,
		AgeDecayPerHour: 0.4,
		SponsoredBonus:  100,
	}
)

// InterestBoost is the flat bonus a poll receives when its category matches
// one of the viewer's interests.
const InterestBoost = 20

// Signals are the inputs to a score: raw engagement counts, poll age and
// the caller-supplied personalization boost.
type Signals struct {
	Votes         int64
	Likes         int64
	Comments      int64
	AgeHours      float64
	Sponsored     bool
	InterestBoost float64
}

// Score is deterministic and monotone: it grows with votes, likes, comments,
// boost and sponsorship, and shrinks as the poll ages.
func (p Preset) Score(s Signals) float64 {
	score := float64(s.Votes)*p.VoteWeight +
		float64(s.Likes)*p.LikeWeight +
		float64(s.Comments)*p.CommentWeight -
		s.AgeHours*p.AgeDecayPerHour +
		s.InterestBoost

	if s.Sponsored {
		score += p.SponsoredBonus
	}

	return score
}

// AgeHours returns the poll age in fractional hours, clamped at zero so a
// skewed clock never turns decay into a bonus.
func AgeHours(createdAt, now time.Time) float64 {
	h := now.Sub(createdAt).Hours()
	if h < 0 {
		return 0
	}
	return h
}
