package feed

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"pulse/internal/domain/poll"
)

type fakePolls struct {
	polls []poll.Poll
}

func (f *fakePolls) All(ctx context.Context) ([]poll.Poll, error) {
	return append([]poll.Poll(nil), f.polls...), nil
}

func (f *fakePolls) ByLocation(ctx context.Context, country, city string, limit int) ([]poll.Poll, error) {
	var res []poll.Poll
	for _, p := range f.polls {
		if p.Location == nil || p.Location.Country != country {
			continue
		}
		if city != "" && p.Location.City != city {
			continue
		}
		res = append(res, p)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].TrendingScore > res[j].TrendingScore
	})
	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (f *fakePolls) Sponsored(ctx context.Context, limit int) ([]poll.Poll, error) {
	var res []poll.Poll
	for _, p := range f.polls {
		if p.Sponsored {
			res = append(res, p)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (f *fakePolls) Explore(ctx context.Context, limit int) ([]poll.Poll, error) {
	res := append([]poll.Poll(nil), f.polls...)
	sort.Slice(res, func(i, j int) bool {
		if len(res[i].Likes) != len(res[j].Likes) {
			return len(res[i].Likes) > len(res[j].Likes)
		}
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (f *fakePolls) SearchContent(ctx context.Context, query string, limit int) ([]poll.Poll, error) {
	var res []poll.Poll
	for _, p := range f.polls {
		if strings.Contains(strings.ToLower(p.Content), strings.ToLower(query)) {
			res = append(res, p)
		}
		if len(res) == limit {
			break
		}
	}
	return res, nil
}

type staticInterests map[string][]string

func (s staticInterests) Interests(ctx context.Context, userID string) ([]string, error) {
	return s[userID], nil
}

func TestPersonalizedBoostsMatchingCategory(t *testing.T) {
	now := time.Now()
	store := &fakePolls{polls: []poll.Poll{
		{ID: "tech", Category: "Tech", CreatedAt: now},
		{ID: "food", Category: "Food", CreatedAt: now},
	}}
	svc := NewService(store, staticInterests{"u1": {"Tech"}})
	svc.now = func() time.Time { return now }

	feed, err := svc.Personalized(context.Background(), "u1")
	if err != nil {
		t.Fatalf("personalized: %v", err)
	}
	if len(feed) != 2 {
		t.Fatalf("expected 2 polls, got %d", len(feed))
	}
	// Fresh poll with zero engagement and a matching interest scores
	// exactly the boost, so it outranks the other poll.
	if feed[0].ID != "tech" {
		t.Fatalf("expected boosted poll first, got %s", feed[0].ID)
	}
}

func TestPersonalizedUsesPersonalizedPreset(t *testing.T) {
	now := time.Now()
	// Sponsored bonus 100 (personalized preset) beats 30 raw votes; under
	// the trending preset's bonus of 50 the plain poll would win, so this
	// ordering pins the personalized constants.
	store := &fakePolls{polls: []poll.Poll{
		{ID: "plain", YesVotes: 30, CreatedAt: now},                                  // 60
		{ID: "sponsored", Sponsored: true, CreatedAt: now},                           // 100
		{ID: "old-sponsored", Sponsored: true, CreatedAt: now.Add(-200 * time.Hour)}, // 100-80 = 20
	}}
	svc := NewService(store, staticInterests{})
	svc.now = func() time.Time { return now }

	feed, err := svc.Personalized(context.Background(), "u1")
	if err != nil {
		t.Fatalf("personalized: %v", err)
	}
	want := []string{"sponsored", "plain", "old-sponsored"}
	for i, id := range want {
		if feed[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, feed[i].ID)
		}
	}
}

func TestPersonalizedLimit(t *testing.T) {
	now := time.Now()
	store := &fakePolls{}
	for i := 0; i < PersonalizedLimit+10; i++ {
		store.polls = append(store.polls, poll.Poll{
			ID:        "p" + string(rune('a'+i%26)) + string(rune('a'+i/26)),
			YesVotes:  int64(i),
			CreatedAt: now,
		})
	}
	svc := NewService(store, staticInterests{})
	svc.now = func() time.Time { return now }

	feed, err := svc.Personalized(context.Background(), "u1")
	if err != nil {
		t.Fatalf("personalized: %v", err)
	}
	if len(feed) != PersonalizedLimit {
		t.Fatalf("expected %d polls, got %d", PersonalizedLimit, len(feed))
	}
	for i := 1; i < len(feed); i++ {
		if feed[i].YesVotes > feed[i-1].YesVotes {
			t.Fatalf("personalized feed not sorted by score")
		}
	}
}

func TestLocationFeedFilters(t *testing.T) {
	loc := func(country, city string) *poll.Location {
		return &poll.Location{Country: country, City: city}
	}
	store := &fakePolls{polls: []poll.Poll{
		{ID: "kz-alm", Location: loc("KZ", "Almaty"), TrendingScore: 5},
		{ID: "kz-ast", Location: loc("KZ", "Astana"), TrendingScore: 9},
		{ID: "us-nyc", Location: loc("US", "NYC"), TrendingScore: 50},
		{ID: "nowhere"},
	}}
	svc := NewService(store, staticInterests{})

	feed, err := svc.Location(context.Background(), "KZ", "")
	if err != nil {
		t.Fatalf("location: %v", err)
	}
	if len(feed) != 2 || feed[0].ID != "kz-ast" || feed[1].ID != "kz-alm" {
		t.Fatalf("unexpected country feed: %+v", feed)
	}

	feed, err = svc.Location(context.Background(), "KZ", "Almaty")
	if err != nil {
		t.Fatalf("location city: %v", err)
	}
	if len(feed) != 1 || feed[0].ID != "kz-alm" {
		t.Fatalf("unexpected city feed: %+v", feed)
	}
}

func TestSponsoredFeedLimit(t *testing.T) {
	now := time.Now()
	store := &fakePolls{}
	for i := 0; i < SponsoredLimit+3; i++ {
		store.polls = append(store.polls, poll.Poll{
			ID:        "s" + string(rune('0'+i)),
			Sponsored: true,
			CreatedAt: now.Add(time.Duration(i) * time.Minute),
		})
	}
	store.polls = append(store.polls, poll.Poll{ID: "organic", CreatedAt: now.Add(time.Hour)})

	svc := NewService(store, staticInterests{})
	feed, err := svc.Sponsored(context.Background())
	if err != nil {
		t.Fatalf("sponsored: %v", err)
	}
	if len(feed) != SponsoredLimit {
		t.Fatalf("expected %d sponsored polls, got %d", SponsoredLimit, len(feed))
	}
	for i, p := range feed {
		if !p.Sponsored {
			t.Fatalf("organic poll leaked into sponsored feed at %d", i)
		}
		if i > 0 && p.CreatedAt.After(feed[i-1].CreatedAt) {
			t.Fatalf("sponsored feed not newest-first")
		}
	}
}

func TestExploreRanksByLikes(t *testing.T) {
	now := time.Now()
	store := &fakePolls{polls: []poll.Poll{
		{ID: "quiet", CreatedAt: now},
		{ID: "popular", Likes: []string{"a", "b", "c"}, CreatedAt: now.Add(-time.Hour)},
		{ID: "mid", Likes: []string{"a"}, CreatedAt: now},
	}}
	svc := NewService(store, staticInterests{})

	feed, err := svc.Explore(context.Background())
	if err != nil {
		t.Fatalf("explore: %v", err)
	}
	want := []string{"popular", "mid", "quiet"}
	for i, id := range want {
		if feed[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, feed[i].ID)
		}
	}
}

func TestSuggest(t *testing.T) {
	store := &fakePolls{polls: []poll.Poll{
		{ID: "1", Content: "Is Go better than Rust?"},
		{ID: "2", Content: "Best pizza topping?"},
	}}
	svc := NewService(store, staticInterests{})

	res, err := svc.Suggest(context.Background(), "go")
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if len(res) != 1 || res[0].ID != "1" {
		t.Fatalf("unexpected suggestions: %+v", res)
	}

	res, err = svc.Suggest(context.Background(), "")
	if err != nil {
		t.Fatalf("suggest empty: %v", err)
	}
	if len(res) != 0 {
		t.Fatalf("empty query must return nothing, got %d", len(res))
	}
}
