package comment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pulse/internal/domain/notification"
	"pulse/internal/domain/poll"
	"pulse/internal/realtime"
)

type memoryCommentRepo struct {
	mu       sync.Mutex
	comments map[string]*Comment
	order    []string
	nextID   int
}

func newMemoryCommentRepo() *memoryCommentRepo {
	return &memoryCommentRepo{comments: make(map[string]*Comment)}
}

func cloneComment(c *Comment) *Comment {
	cp := *c
	cp.Likes = append([]string(nil), c.Likes...)
	if c.ParentID != nil {
		pid := *c.ParentID
		cp.ParentID = &pid
	}
	return &cp
}

func (r *memoryCommentRepo) Create(ctx context.Context, c *Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	c.ID = "c" + string(rune('0'+r.nextID))
	c.CreatedAt = time.Now()
	r.comments[c.ID] = cloneComment(c)
	r.order = append(r.order, c.ID)
	return nil
}

func (r *memoryCommentRepo) GetByID(ctx context.Context, id string) (*Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneComment(c), nil
}

func (r *memoryCommentRepo) ToggleLike(ctx context.Context, commentID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[commentID]
	if !ok {
		return false, ErrNotFound
	}
	for i, id := range c.Likes {
		if id == userID {
			c.Likes = append(c.Likes[:i], c.Likes[i+1:]...)
			return false, nil
		}
	}
	c.Likes = append(c.Likes, userID)
	return true, nil
}

func (r *memoryCommentRepo) ListTopLevel(ctx context.Context, pollID string) ([]Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []Comment
	for _, id := range r.order {
		c := r.comments[id]
		if c != nil && c.QuestionID == pollID && c.ParentID == nil {
			res = append(res, *cloneComment(c))
		}
	}
	return res, nil
}

func (r *memoryCommentRepo) ListByPoll(ctx context.Context, pollID string) ([]Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []Comment
	for _, id := range r.order {
		c := r.comments[id]
		if c != nil && c.QuestionID == pollID {
			res = append(res, *cloneComment(c))
		}
	}
	return res, nil
}

func (r *memoryCommentRepo) SetReported(ctx context.Context, commentID string, reported bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[commentID]
	if !ok {
		return ErrNotFound
	}
	c.Reported = reported
	return nil
}

func (r *memoryCommentRepo) Reported(ctx context.Context) ([]Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []Comment
	for _, id := range r.order {
		c := r.comments[id]
		if c != nil && c.Reported {
			res = append(res, *cloneComment(c))
		}
	}
	return res, nil
}

func (r *memoryCommentRepo) Delete(ctx context.Context, commentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.comments, commentID)
	return nil
}

func (r *memoryCommentRepo) DeleteByPoll(ctx context.Context, pollID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.comments {
		if c.QuestionID == pollID {
			delete(r.comments, id)
		}
	}
	return nil
}

// fakePolls implements Polls with just enough state for the thread tests.
type fakePolls struct {
	mu       sync.Mutex
	authorID string
	counts   map[string]int64
	missing  bool
}

func (f *fakePolls) Get(ctx context.Context, id string) (*poll.Poll, error) {
	if f.missing {
		return nil, poll.ErrNotFound
	}
	return &poll.Poll{ID: id, AuthorID: f.authorID}, nil
}

func (f *fakePolls) IncrementCommentCount(ctx context.Context, pollID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.counts == nil {
		f.counts = make(map[string]int64)
	}
	f.counts[pollID]++
	return nil
}

type recordingSink struct {
	mu      sync.Mutex
	created []notification.Notification
	fail    bool
}

func (s *recordingSink) Create(ctx context.Context, n *notification.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("sink down")
	}
	s.created = append(s.created, *n)
	return nil
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []string
}

func (b *recordingBroadcaster) Emit(event string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func TestAddCommentEffects(t *testing.T) {
	repo := newMemoryCommentRepo()
	polls := &fakePolls{authorID: "poll-author"}
	sink := &recordingSink{}
	bc := &recordingBroadcaster{}
	svc := NewService(repo, polls, sink, bc, nil)
	ctx := context.Background()

	if _, err := svc.Add(ctx, "p1", "commenter", "", nil); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}

	c, err := svc.Add(ctx, "p1", "commenter", "nice question", nil)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if polls.counts["p1"] != 1 {
		t.Fatalf("expected counter 1, got %d", polls.counts["p1"])
	}
	if len(sink.created) != 1 {
		t.Fatalf("expected one notification, got %d", len(sink.created))
	}
	n := sink.created[0]
	if n.Type != notification.TypeComment || n.UserID != "poll-author" || n.FromUserID != "commenter" || n.CommentID != c.ID {
		t.Fatalf("unexpected notification %+v", n)
	}
	if len(bc.events) != 1 || bc.events[0] != realtime.EventNewComment {
		t.Fatalf("expected newComment broadcast, got %v", bc.events)
	}
}

func TestSelfCommentSkipsNotification(t *testing.T) {
	repo := newMemoryCommentRepo()
	polls := &fakePolls{authorID: "self"}
	sink := &recordingSink{}
	svc := NewService(repo, polls, sink, nil, nil)

	if _, err := svc.Add(context.Background(), "p1", "self", "talking to myself", nil); err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(sink.created) != 0 {
		t.Fatalf("expected no notification for self comment, got %d", len(sink.created))
	}
	if polls.counts["p1"] != 1 {
		t.Fatalf("counter must still bump, got %d", polls.counts["p1"])
	}
}

func TestNotificationFailureDoesNotFailAdd(t *testing.T) {
	repo := newMemoryCommentRepo()
	polls := &fakePolls{authorID: "poll-author"}
	sink := &recordingSink{fail: true}
	svc := NewService(repo, polls, sink, nil, nil)

	c, err := svc.Add(context.Background(), "p1", "commenter", "still works", nil)
	if err != nil {
		t.Fatalf("add must not propagate sink failure: %v", err)
	}
	if _, err := repo.GetByID(context.Background(), c.ID); err != nil {
		t.Fatalf("comment must be committed: %v", err)
	}
}

func TestAddCommentPollNotFound(t *testing.T) {
	svc := NewService(newMemoryCommentRepo(), &fakePolls{missing: true}, nil, nil, nil)
	if _, err := svc.Add(context.Background(), "gone", "u", "text", nil); !errors.Is(err, poll.ErrNotFound) {
		t.Fatalf("expected poll.ErrNotFound, got %v", err)
	}
}

func TestCommentCountCountsNestedReplies(t *testing.T) {
	repo := newMemoryCommentRepo()
	polls := &fakePolls{authorID: "author"}
	svc := NewService(repo, polls, nil, nil, nil)
	ctx := context.Background()

	root, err := svc.Add(ctx, "p1", "u1", "root", nil)
	if err != nil {
		t.Fatalf("root: %v", err)
	}
	reply, err := svc.Add(ctx, "p1", "u2", "reply", &root.ID)
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if _, err := svc.Add(ctx, "p1", "u3", "reply to reply", &reply.ID); err != nil {
		t.Fatalf("nested reply: %v", err)
	}

	if polls.counts["p1"] != 3 {
		t.Fatalf("expected commentsCount 3 regardless of nesting, got %d", polls.counts["p1"])
	}

	top, err := svc.ListTopLevel(ctx, "p1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(top) != 1 || top[0].ID != root.ID {
		t.Fatalf("expected only the root at top level, got %+v", top)
	}
}

func TestReplyParentMustExist(t *testing.T) {
	svc := NewService(newMemoryCommentRepo(), &fakePolls{authorID: "a"}, nil, nil, nil)
	missing := "nope"
	if _, err := svc.Add(context.Background(), "p1", "u", "reply", &missing); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing parent, got %v", err)
	}
}

func TestThreadAssembly(t *testing.T) {
	repo := newMemoryCommentRepo()
	svc := NewService(repo, &fakePolls{authorID: "a"}, nil, nil, nil)
	ctx := context.Background()

	first, _ := svc.Add(ctx, "p1", "u1", "first", nil)
	second, _ := svc.Add(ctx, "p1", "u2", "second", nil)
	reply, _ := svc.Add(ctx, "p1", "u3", "reply to first", &first.ID)
	_, _ = svc.Add(ctx, "p1", "u4", "deep reply", &reply.ID)

	roots, err := svc.Thread(ctx, "p1")
	if err != nil {
		t.Fatalf("thread: %v", err)
	}
	if len(roots) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(roots))
	}
	if roots[0].Comment.ID != first.ID || roots[1].Comment.ID != second.ID {
		t.Fatalf("roots out of reading order")
	}
	if len(roots[0].Replies) != 1 || roots[0].Replies[0].Comment.ID != reply.ID {
		t.Fatalf("reply not attached to first root")
	}
	if len(roots[0].Replies[0].Replies) != 1 {
		t.Fatalf("nested reply not attached")
	}
	if len(roots[1].Replies) != 0 {
		t.Fatalf("second root must have no replies")
	}
}

func TestCommentLikeToggle(t *testing.T) {
	repo := newMemoryCommentRepo()
	bc := &recordingBroadcaster{}
	svc := NewService(repo, &fakePolls{authorID: "a"}, nil, bc, nil)
	ctx := context.Background()

	c, _ := svc.Add(ctx, "p1", "u1", "like me", nil)

	liked, err := svc.ToggleLike(ctx, c.ID, "u2")
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	if !liked.LikedBy("u2") {
		t.Fatalf("expected u2 in likes")
	}

	unliked, err := svc.ToggleLike(ctx, c.ID, "u2")
	if err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if len(unliked.Likes) != 0 {
		t.Fatalf("expected empty likes after involution, got %v", unliked.Likes)
	}

	if _, err := svc.ToggleLike(ctx, "missing", "u2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	want := []string{realtime.EventNewComment, realtime.EventCommentLiked, realtime.EventCommentLiked}
	if len(bc.events) != len(want) {
		t.Fatalf("expected %d broadcasts, got %v", len(want), bc.events)
	}
	for i := range want {
		if bc.events[i] != want[i] {
			t.Fatalf("event %d: expected %s, got %s", i, want[i], bc.events[i])
		}
	}
}
