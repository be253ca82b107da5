package user

import (
	"context"
	"time"
)

type Location struct {
	Country string `json:"country,omitempty"`
	City    string `json:"city,omitempty"`
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Avatar       string    `json:"avatar"`
	Bio          string    `json:"bio"`
	Role         string    `json:"role"`
	Interests    []string  `json:"interests"`
	Location     *Location `json:"location,omitempty"`
	Banned       bool      `json:"banned"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context) ([]User, error)
	SetInterests(ctx context.Context, id string, interests []string) error
	SetBanned(ctx context.Context, id string, banned bool) error
	// ToggleFollow flips followerID's membership in targetID's follower
	// set and reports the resulting state.
	ToggleFollow(ctx context.Context, followerID, targetID string) (following bool, err error)
}
