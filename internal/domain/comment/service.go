package comment

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"pulse/internal/domain/notification"
	"pulse/internal/domain/poll"
	"pulse/internal/realtime"
	"pulse/internal/retry"
)

var (
	ErrNotFound  = errors.New("comment not found")
	ErrEmptyText = errors.New("comment text is required")
)

// Polls is the slice of the poll service the comment thread needs: existence
// checks plus the counter bump after an insert.
type Polls interface {
	Get(ctx context.Context, id string) (*poll.Poll, error)
	IncrementCommentCount(ctx context.Context, pollID string) error
}

// Sink receives notification side effects; failures are logged, never
// propagated.
type Sink interface {
	Create(ctx context.Context, n *notification.Notification) error
}

// Service owns comment creation, like toggling and the reply structure.
type Service struct {
	repo      Repository
	polls     Polls
	sink      Sink
	broadcast realtime.Broadcaster
	logger    *slog.Logger
}

func NewService(repo Repository, polls Polls, sink Sink, broadcast realtime.Broadcaster, logger *slog.Logger) *Service {
	if broadcast == nil {
		broadcast = realtime.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, polls: polls, sink: sink, broadcast: broadcast, logger: logger}
}

// Add inserts the comment, then runs the secondary effects in order: poll
// counter bump, notification to the poll author (skipped when they wrote the
// comment themselves), broadcast. Once the insert commits, none of the
// follow-ups can fail the call.
func (s *Service) Add(ctx context.Context, pollID, userID, text string, parentID *string) (*Comment, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	p, err := s.polls.Get(ctx, pollID)
	if err != nil {
		return nil, err
	}

	if parentID != nil {
		if _, err := s.repo.GetByID(ctx, *parentID); err != nil {
			return nil, err
		}
	}

	c := &Comment{
		QuestionID: pollID,
		UserID:     userID,
		Text:       text,
		ParentID:   parentID,
		Likes:      []string{},
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	if err := s.polls.IncrementCommentCount(ctx, pollID); err != nil {
		s.logger.Error("comment counter bump failed", "poll", pollID, "error", err)
	}

	if p.AuthorID != userID && s.sink != nil {
		n := &notification.Notification{
			UserID:     p.AuthorID,
			FromUserID: userID,
			Type:       notification.TypeComment,
			QuestionID: pollID,
			CommentID:  c.ID,
		}
		err := retry.DoWithRetry(ctx, 2, 100*time.Millisecond, func() error {
			return s.sink.Create(ctx, n)
		})
		if err != nil {
			s.logger.Error("comment notification failed", "poll", pollID, "error", err)
		}
	}

	s.broadcast.Emit(realtime.EventNewComment, c)
	return c, nil
}

// ToggleLike flips userID's membership in the comment's likes set and
// broadcasts the updated comment.
func (s *Service) ToggleLike(ctx context.Context, commentID, userID string) (*Comment, error) {
	if _, err := s.repo.GetByID(ctx, commentID); err != nil {
		return nil, err
	}
	if _, err := s.repo.ToggleLike(ctx, commentID, userID); err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	s.broadcast.Emit(realtime.EventCommentLiked, c)
	return c, nil
}

// ListTopLevel returns the parentless comments of a poll in reading order,
// oldest first. Replies stay out of this result; Thread assembles them.
func (s *Service) ListTopLevel(ctx context.Context, pollID string) ([]Comment, error) {
	return s.repo.ListTopLevel(ctx, pollID)
}

// Thread loads every comment of the poll and rebuilds the reply tree from
// the parent references: roots are the parentless comments, children attach
// by id lookup. Orphaned replies (parent deleted by moderation) surface as
// roots rather than disappearing.
func (s *Service) Thread(ctx context.Context, pollID string) ([]*Node, error) {
	all, err := s.repo.ListByPoll(ctx, pollID)
	if err != nil {
		return nil, err
	}

	nodes := make(map[string]*Node, len(all))
	for i := range all {
		nodes[all[i].ID] = &Node{Comment: all[i]}
	}

	var roots []*Node
	for i := range all {
		n := nodes[all[i].ID]
		if all[i].ParentID == nil {
			roots = append(roots, n)
			continue
		}
		parent, ok := nodes[*all[i].ParentID]
		if !ok {
			roots = append(roots, n)
			continue
		}
		parent.Replies = append(parent.Replies, n)
	}
	return roots, nil
}

func (s *Service) Report(ctx context.Context, commentID string) error {
	if _, err := s.repo.GetByID(ctx, commentID); err != nil {
		return err
	}
	return s.repo.SetReported(ctx, commentID, true)
}

func (s *Service) ReportedComments(ctx context.Context) ([]Comment, error) {
	return s.repo.Reported(ctx)
}

func (s *Service) Delete(ctx context.Context, commentID string) error {
	return s.repo.Delete(ctx, commentID)
}

// DeleteByPoll removes every comment of a poll; the admin poll deletion
// cascades through here.
func (s *Service) DeleteByPoll(ctx context.Context, pollID string) error {
	return s.repo.DeleteByPoll(ctx, pollID)
}
