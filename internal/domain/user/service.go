package user

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"pulse/internal/domain/notification"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already taken")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrBanned             = errors.New("user is banned")
	ErrSelfFollow         = errors.New("cannot follow yourself")
)

// Sink receives follow notifications; failures are logged, never propagated.
type Sink interface {
	Create(ctx context.Context, n *notification.Notification) error
}

type Service struct {
	repo   Repository
	sink   Sink
	logger *slog.Logger
}

func NewService(repo Repository, sink Sink, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, sink: sink, logger: logger}
}

func (s *Service) Register(ctx context.Context, name, username, email, password string) (*User, error) {
	if name == "" || username == "" || email == "" || password == "" {
		return nil, errors.New("name, username, email and password required")
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	}
	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		Name:         name,
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         "user",
		Interests:    []string{},
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if u.Banned {
		return nil, ErrBanned
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// Interests satisfies the feed ranker's lookup.
func (s *Service) Interests(ctx context.Context, userID string) ([]string, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.Interests, nil
}

func (s *Service) SetInterests(ctx context.Context, userID string, interests []string) error {
	if interests == nil {
		interests = []string{}
	}
	return s.repo.SetInterests(ctx, userID, interests)
}

// ToggleFollow flips the follow edge and notifies the target on follow
// (not on unfollow).
func (s *Service) ToggleFollow(ctx context.Context, followerID, targetID string) (bool, error) {
	if followerID == targetID {
		return false, ErrSelfFollow
	}
	if _, err := s.repo.GetByID(ctx, targetID); err != nil {
		return false, err
	}

	following, err := s.repo.ToggleFollow(ctx, followerID, targetID)
	if err != nil {
		return false, err
	}

	if following && s.sink != nil {
		n := &notification.Notification{
			UserID:     targetID,
			FromUserID: followerID,
			Type:       notification.TypeFollow,
		}
		if err := s.sink.Create(ctx, n); err != nil {
			s.logger.Error("follow notification failed", "target", targetID, "error", err)
		}
	}
	return following, nil
}

// ToggleBan flips the banned flag and reports the resulting state.
func (s *Service) ToggleBan(ctx context.Context, userID string) (bool, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if err := s.repo.SetBanned(ctx, userID, !u.Banned); err != nil {
		return false, err
	}
	return !u.Banned, nil
}
