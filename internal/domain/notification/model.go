package notification

import (
	"context"
	"time"
)

const (
	TypeLike    = "like"
	TypeComment = "comment"
	TypeVote    = "vote"
	TypeFollow  = "follow"
)

// Sender carries the display fields resolved for the originating user.
type Sender struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Notification tells a user something happened to their content. Read is
// the only field that mutates after creation.
type Notification struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user"`
	FromUserID string    `json:"fromUser"`
	FromUser   *Sender   `json:"fromUserInfo,omitempty"`
	Type       string    `json:"type"`
	QuestionID string    `json:"question,omitempty"`
	CommentID  string    `json:"comment,omitempty"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	ListForUser(ctx context.Context, userID string) ([]Notification, error)
	MarkRead(ctx context.Context, id string) error
}
