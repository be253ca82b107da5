// Package realtime pushes state changes to connected clients. Mutating
// services receive a Broadcaster and emit events after their write commits;
// emission is fire-and-forget and never fails the mutation.
package realtime

// Event names the clients subscribe to.
const (
	EventPollUpdated  = "pollUpdated"
	EventNewComment   = "newComment"
	EventCommentLiked = "commentLiked"
)

type Broadcaster interface {
	Emit(event string, payload any)
}

// Nop discards every event. Used when no hub is wired and in tests.
type Nop struct{}

func (Nop) Emit(string, any) {}
