package comment

import (
	"context"
	"time"
)

// Commenter carries the display fields resolved for the comment author.
type Commenter struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Comment is a remark on a poll. ParentID is nil for top-level comments and
// points at another comment for replies; nesting depth is unbounded.
type Comment struct {
	ID         string     `json:"id"`
	QuestionID string     `json:"question"`
	UserID     string     `json:"user"`
	User       *Commenter `json:"userInfo,omitempty"`
	Text       string     `json:"text"`
	ParentID   *string    `json:"parentComment"`
	Likes      []string   `json:"likes"`
	Reported   bool       `json:"reported"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// LikedBy reports whether userID is in the likes set.
func (c *Comment) LikedBy(userID string) bool {
	for _, id := range c.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// Node is one entry of an assembled reply tree.
type Node struct {
	Comment Comment `json:"comment"`
	Replies []*Node `json:"replies"`
}

type Repository interface {
	Create(ctx context.Context, c *Comment) error
	GetByID(ctx context.Context, id string) (*Comment, error)
	// ToggleLike flips userID's membership in the comment's likes set.
	ToggleLike(ctx context.Context, commentID, userID string) (liked bool, err error)
	// ListTopLevel returns parentless comments for a poll, oldest first.
	ListTopLevel(ctx context.Context, pollID string) ([]Comment, error)
	// ListByPoll returns every comment of a poll, replies included,
	// oldest first.
	ListByPoll(ctx context.Context, pollID string) ([]Comment, error)
	SetReported(ctx context.Context, commentID string, reported bool) error
	Reported(ctx context.Context) ([]Comment, error)
	Delete(ctx context.Context, commentID string) error
	DeleteByPoll(ctx context.Context, pollID string) error
}
