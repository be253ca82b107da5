package worker

import (
	"context"
	"log/slog"

	"pulse/internal/metrics"
)

// Event kinds fed by the HTTP handlers after a successful mutation.
const (
	KindVote    = "vote"
	KindLike    = "like"
	KindComment = "comment"
)

type EngagementEvent struct {
	Kind   string
	PollID string
	UserID string
}

// EngagementWorker drains the event channel off the request path: it logs
// each event and feeds the engagement counter. Producers send non-blocking,
// so a full channel drops events rather than slowing a response.
type EngagementWorker struct {
	Ch     <-chan EngagementEvent
	logger *slog.Logger
}

func NewEngagementWorker(ch <-chan EngagementEvent, logger *slog.Logger) *EngagementWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &EngagementWorker{Ch: ch, logger: logger}
}

func (w *EngagementWorker) Run(ctx context.Context) {
	w.logger.Info("engagement worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("engagement worker stopped")
			return
		case ev := <-w.Ch:
			metrics.IncEngagement(ev.Kind)
			w.logger.Info("engagement event", "kind", ev.Kind, "poll", ev.PollID, "user", ev.UserID)
		}
	}
}
