package notification

import (
	"context"
	"errors"
)

var ErrInvalidType = errors.New("invalid notification type")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create records one notification. Callers on mutation paths treat a
// failure here as non-fatal; the service itself just validates and writes.
func (s *Service) Create(ctx context.Context, n *Notification) error {
	switch n.Type {
	case TypeLike, TypeComment, TypeVote, TypeFollow:
	default:
		return ErrInvalidType
	}
	return s.repo.Create(ctx, n)
}

// ListForUser returns the recipient's notifications, newest first.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]Notification, error) {
	return s.repo.ListForUser(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, id string) error {
	return s.repo.MarkRead(ctx, id)
}
