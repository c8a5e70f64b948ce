package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/core-ts/video/cache"
	"github.com/core-ts/video/model"
	"github.com/core-ts/video/transport"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

const baseURL = "http://catalog.test/api"

type route struct {
	status int
	body   string
}

// fakeGetter serves canned bodies by URL path and records every request.
type fakeGetter struct {
	mu     sync.Mutex
	routes map[string]route
	calls  []string
}

func newFake(routes map[string]route) *fakeGetter {
	return &fakeGetter{routes: routes}
}

func (f *fakeGetter) Get(_ context.Context, raw string, out any) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.calls = append(f.calls, raw)
	r, ok := f.routes[u.Path]
	f.mu.Unlock()

	if !ok {
		r = route{status: 404}
	}
	if r.status != 0 && !transport.Successful(r.status) {
		return &transport.Error{URL: raw, Status: r.status, Response: &transport.Response{Status: r.status}}
	}
	return json.Unmarshal([]byte(r.body), out)
}

func (f *fakeGetter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeGetter) last(t *testing.T) *url.URL {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.calls)
	u, err := url.Parse(f.calls[len(f.calls)-1])
	require.NoError(t, err)
	return u
}

type tickClock struct{ n atomic.Int64 }

func (c *tickClock) NowUnixNano() int64 { return c.n.Add(1) }

type countMetrics struct{ hits, misses atomic.Int64 }

func (m *countMetrics) Hit()                    { m.hits.Add(1) }
func (m *countMetrics) Miss()                   { m.misses.Add(1) }
func (m *countMetrics) Evict(cache.EvictReason) {}
func (m *countMetrics) Size(int)                {}

// ---- construction ----

func TestNew_CapabilityFollowsAPIKey(t *testing.T) {
	basic := New(baseURL, newFake(nil))
	_, isBasic := basic.(*Client)
	assert.True(t, isBasic)
	_, ok := Comments(basic)
	assert.False(t, ok)

	ext := New(baseURL, newFake(nil), WithAPIKey("k"))
	_, isExt := ext.(*ExtendedClient)
	assert.True(t, isExt)
	cs, ok := Comments(ext)
	assert.True(t, ok)
	assert.NotNil(t, cs)
}

// ---- cached single-entity lookups ----

func TestGetChannel_CachesFoundChannel(t *testing.T) {
	f := newFake(map[string]route{
		"/api/channels/UC1": {body: `{"id":"UC1","title":"one","publishedAt":"2015-03-04T05:06:07Z"}`},
	})
	svc := New(baseURL, f)
	ctx := context.Background()

	ch, err := svc.GetChannel(ctx, "UC1")
	require.NoError(t, err)
	require.NotNil(t, ch)
	assert.Equal(t, "one", ch.Title)
	require.True(t, ch.PublishedAt.Structured())
	assert.Equal(t, 1, f.count())

	again, err := svc.GetChannel(ctx, "UC1")
	require.NoError(t, err)
	assert.Equal(t, ch, again)
	assert.Equal(t, 1, f.count(), "second lookup must not hit the network")
	assert.Equal(t, Stats{Channels: 1}, svc.Stats())
}

func TestGetChannel_CachedCopyIsIsolated(t *testing.T) {
	f := newFake(map[string]route{
		"/api/channels/UC1": {body: `{"id":"UC1","title":"one"}`},
	})
	svc := New(baseURL, f)
	ctx := context.Background()

	ch, err := svc.GetChannel(ctx, "UC1")
	require.NoError(t, err)
	ch.Title = "changed"

	again, err := svc.GetChannel(ctx, "UC1")
	require.NoError(t, err)
	assert.Equal(t, "one", again.Title)
}

// Nested fields of a returned channel are not shared with the cache entry.
func TestGetChannel_CachedEntryIsDeepCopied(t *testing.T) {
	f := newFake(map[string]route{
		"/api/channels/UC1": {body: `{"id":"UC1","publishedAt":"2015-03-04T05:06:07Z","channels":["UC2","UC3"]}`},
	})
	svc := New(baseURL, f)
	ctx := context.Background()
	want := time.Date(2015, 3, 4, 5, 6, 7, 0, time.UTC)

	for i := 0; i < 2; i++ { // miss, then hit
		ch, err := svc.GetChannel(ctx, "UC1")
		require.NoError(t, err)
		require.NotNil(t, ch.PublishedAt)
		ch.PublishedAt.Time = time.Unix(0, 0)
		ch.PublishedAt.Text = "mutated"
		ch.Channels[0] = "mutated"
	}

	again, err := svc.GetChannel(ctx, "UC1")
	require.NoError(t, err)
	assert.True(t, want.Equal(again.PublishedAt.Time), "got %v", again.PublishedAt.Time)
	assert.Equal(t, "2015-03-04T05:06:07Z", again.PublishedAt.Text)
	assert.Equal(t, []string{"UC2", "UC3"}, again.Channels)
	assert.Equal(t, 1, f.count())
}

func TestGetPlaylist_CachedEntryIsDeepCopied(t *testing.T) {
	f := newFake(map[string]route{
		"/api/playlists/PL1": {body: `{"id":"PL1","publishedAt":"2016-01-02T03:04:05Z"}`},
	})
	svc := New(baseURL, f)
	ctx := context.Background()

	p, err := svc.GetPlaylist(ctx, "PL1")
	require.NoError(t, err)
	p.PublishedAt.Time = time.Unix(0, 0)

	again, err := svc.GetPlaylist(ctx, "PL1")
	require.NoError(t, err)
	assert.Equal(t, 2016, again.PublishedAt.Time.Year())
}

func TestGetChannel_NotFoundIsAbsentAndUncached(t *testing.T) {
	f := newFake(map[string]route{
		"/api/channels/gone": {status: 410},
	})
	svc := New(baseURL, f)
	ctx := context.Background()

	for _, id := range []string{"missing", "gone"} {
		ch, err := svc.GetChannel(ctx, id)
		require.NoError(t, err, id)
		assert.Nil(t, ch, id)
	}
	_, _ = svc.GetChannel(ctx, "missing")
	assert.Equal(t, 3, f.count())
	assert.Zero(t, svc.Stats().Channels)
}

func TestGetChannel_OtherFailuresPropagate(t *testing.T) {
	f := newFake(map[string]route{
		"/api/channels/UC1": {status: 500},
	})
	svc := New(baseURL, f)

	ch, err := svc.GetChannel(context.Background(), "UC1")
	assert.Nil(t, ch)
	var te *transport.Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 500, te.StatusCode())
}

func TestGetPlaylist_EvictsOldestInserted(t *testing.T) {
	f := newFake(map[string]route{
		"/api/playlists/p1": {body: `{"id":"p1"}`},
		"/api/playlists/p2": {body: `{"id":"p2"}`},
		"/api/playlists/p3": {body: `{"id":"p3"}`},
	})
	svc := New(baseURL, f, WithPlaylistCacheSize(2), WithClock(&tickClock{}))
	ctx := context.Background()

	for _, id := range []string{"p1", "p2", "p1", "p3"} {
		p, err := svc.GetPlaylist(ctx, id)
		require.NoError(t, err)
		require.Equal(t, id, p.ID)
	}
	// p1 was read again before p3 arrived, but reads do not refresh it.
	assert.Equal(t, 3, f.count())
	assert.Equal(t, 2, svc.Stats().Playlists)

	_, err := svc.GetPlaylist(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, 3, f.count())

	_, err = svc.GetPlaylist(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 4, f.count(), "p1 was evicted")
}

func TestGetChannel_DefaultCapacity(t *testing.T) {
	const n = DefaultChannelCacheSize + 5
	routes := map[string]route{}
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("UC%02d", i)
		routes["/api/channels/"+id] = route{body: `{"id":"` + id + `"}`}
	}
	svc := New(baseURL, newFake(routes), WithClock(&tickClock{}))
	for i := 0; i < n; i++ {
		_, err := svc.GetChannel(context.Background(), fmt.Sprintf("UC%02d", i))
		require.NoError(t, err)
	}
	assert.Equal(t, DefaultChannelCacheSize, svc.Stats().Channels)
}

func TestGetVideo_NeverCached(t *testing.T) {
	f := newFake(map[string]route{
		"/api/videos/v1": {body: `{"id":"v1","publishedAt":"2020-05-01 10:00:00"}`},
	})
	svc := New(baseURL, f)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		v, err := svc.GetVideo(ctx, "v1")
		require.NoError(t, err)
		require.NotNil(t, v)
		assert.True(t, v.PublishedAt.Structured())
	}
	assert.Equal(t, 2, f.count())

	v, err := svc.GetVideo(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestGetChannel_Coalescing(t *testing.T) {
	const n = 8
	release := make(chan struct{})
	var requests atomic.Int64
	g := transport.GetterFunc(func(ctx context.Context, _ string, out any) error {
		requests.Add(1)
		<-release
		return json.Unmarshal([]byte(`{"id":"UC1"}`), out)
	})
	m := &countMetrics{}
	svc := New(baseURL, g, WithCoalescing(), WithMetrics(m, nil))

	var eg errgroup.Group
	results := make([]*model.Channel, n)
	for i := 0; i < n; i++ {
		i := i
		eg.Go(func() error {
			ch, err := svc.GetChannel(context.Background(), "UC1")
			results[i] = ch
			return err
		})
	}

	deadline := time.Now().Add(5 * time.Second)
	for m.misses.Load() < n && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	require.EqualValues(t, n, m.misses.Load())
	// Let the last caller past the cache join the in-flight fetch.
	time.Sleep(50 * time.Millisecond)
	close(release)

	require.NoError(t, eg.Wait())
	assert.EqualValues(t, 1, requests.Load())
	for _, ch := range results {
		require.NotNil(t, ch)
		assert.Equal(t, "UC1", ch.ID)
	}
}

// A coalesced caller that cancels does not fail the callers still waiting.
func TestGetChannel_CoalescedLeaderCancel(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	var requests atomic.Int64
	g := transport.GetterFunc(func(ctx context.Context, _ string, out any) error {
		if requests.Add(1) == 1 {
			close(entered)
		}
		select {
		case <-release:
		case <-ctx.Done():
			return ctx.Err()
		}
		return json.Unmarshal([]byte(`{"id":"UC1","title":"one"}`), out)
	})
	m := &countMetrics{}
	svc := New(baseURL, g, WithCoalescing(), WithMetrics(m, nil))

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := svc.GetChannel(leaderCtx, "UC1")
		leaderErr <- err
	}()
	<-entered

	type result struct {
		ch  *model.Channel
		err error
	}
	follower := make(chan result, 1)
	go func() {
		ch, err := svc.GetChannel(context.Background(), "UC1")
		follower <- result{ch, err}
	}()
	deadline := time.Now().Add(5 * time.Second)
	for m.misses.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	require.EqualValues(t, 2, m.misses.Load())
	// Let the follower join the in-flight fetch.
	time.Sleep(50 * time.Millisecond)

	cancel()
	require.ErrorIs(t, <-leaderErr, context.Canceled)

	close(release)
	r := <-follower
	require.NoError(t, r.err)
	require.NotNil(t, r.ch)
	assert.Equal(t, "one", r.ch.Title)
	assert.EqualValues(t, 1, requests.Load())

	// The completed fetch still populated the cache.
	ch, err := svc.GetChannel(context.Background(), "UC1")
	require.NoError(t, err)
	assert.Equal(t, "one", ch.Title)
	assert.EqualValues(t, 1, requests.Load())
}

// ---- lists ----

func TestList_DefaultPageSize(t *testing.T) {
	f := newFake(map[string]route{
		"/api/playlists": {body: `{"list":[]}`},
	})
	svc := New(baseURL, f)
	ctx := context.Background()

	for _, opts := range []ListOptions{{}, {Max: 0}, {Max: -3}} {
		_, err := svc.GetChannelPlaylists(ctx, "UC1", opts)
		require.NoError(t, err)
		q := f.last(t).Query()
		assert.Equal(t, "50", q.Get("limit"))
		assert.Equal(t, "UC1", q.Get("channelId"))
		assert.NotContains(t, q, "nextPageToken")
		assert.NotContains(t, q, "fields")
	}

	_, err := svc.GetChannelPlaylists(ctx, "UC1", ListOptions{Max: 10, PageToken: "CAoQAA", Fields: []string{"id", "title"}})
	require.NoError(t, err)
	q := f.last(t).Query()
	assert.Equal(t, "10", q.Get("limit"))
	assert.Equal(t, "CAoQAA", q.Get("nextPageToken"))
	assert.Equal(t, "id,title", q.Get("fields"))
}

func TestList_LogsWireShape(t *testing.T) {
	f := newFake(map[string]route{
		"/api/playlists": {body: `{"list":{"shared":{"channelId":"UC1"},"rows":[{"id":"a"},{"id":"b"}]}}`},
	})
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	svc := New(baseURL, f, WithLogger(logger))

	_, err := svc.GetChannelPlaylists(context.Background(), "UC1", ListOptions{})
	require.NoError(t, err)

	var page *logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Message == "page" {
			page = e
		}
	}
	require.NotNil(t, page)
	assert.Equal(t, "compacted", page.Data["shape"])
	assert.Equal(t, 2, page.Data["rows"])
}

func TestList_ExpandsAndThreadsCursor(t *testing.T) {
	f := newFake(map[string]route{
		"/api/playlists": {body: `{
			"list": {"shared": {"channelId": "UC1", "publishedAt": "2019-01-01T00:00:00Z"},
			         "rows": [{"id": "p1", "title": "a"}, {"id": "p2", "title": "b"}]},
			"nextPageToken": "opaque/+=token"}`},
	})
	svc := New(baseURL, f)

	res, err := svc.GetChannelPlaylists(context.Background(), "UC1", ListOptions{})
	require.NoError(t, err)
	require.Len(t, res.List, 2)
	assert.Equal(t, "opaque/+=token", res.NextPageToken)
	for _, p := range res.List {
		assert.Equal(t, "UC1", p.ChannelID)
		assert.True(t, p.PublishedAt.Structured(), p.ID)
	}
	assert.Equal(t, "b", res.List[1].Title)
}

func TestGetPlaylistVideos_CarriesPlaylistID(t *testing.T) {
	f := newFake(map[string]route{
		"/api/videos": {body: `{"list":{"container":"PL1","shared":{"channelId":"UC1"},"rows":[{"id":"v1"},{"id":"v2"}]},"nextPageToken":"n"}`},
	})
	svc := New(baseURL, f)

	res, err := svc.GetPlaylistVideos(context.Background(), "PL1", ListOptions{Max: 2})
	require.NoError(t, err)
	q := f.last(t).Query()
	assert.Equal(t, "PL1", q.Get("playlistId"))
	assert.Equal(t, "2", q.Get("limit"))

	require.Len(t, res.List, 2)
	for _, v := range res.List {
		assert.Equal(t, "PL1", v.PlaylistID)
		assert.Equal(t, "UC1", v.ChannelID)
	}
	assert.Equal(t, "n", res.NextPageToken)
}

func TestGetChannelVideos_ExpandedContained(t *testing.T) {
	f := newFake(map[string]route{
		"/api/videos": {body: `{"list":[{"containerId":"UC9","item":{"id":"v1"}},{"containerId":"UC9","item":{"id":"v2","channelId":"UC8"}}]}`},
	})
	svc := New(baseURL, f)

	res, err := svc.GetChannelVideos(context.Background(), "UC9", ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, "UC9", f.last(t).Query().Get("channelId"))
	require.Len(t, res.List, 2)
	assert.Equal(t, "UC9", res.List[0].ChannelID)
	assert.Equal(t, "UC8", res.List[1].ChannelID)
	assert.Empty(t, res.List[0].PlaylistID)
}

func TestPopularVideos_RegionAndCategory(t *testing.T) {
	f := newFake(map[string]route{
		"/api/videos/popular": {body: `{"list":[{"id":"v1"}]}`},
	})
	svc := New(baseURL, f)
	ctx := context.Background()

	byRegion, err := svc.GetPopularVideosByRegion(ctx, "JP", ListOptions{Max: 10})
	require.NoError(t, err)
	regionURL := f.last(t).String()

	direct, err := svc.GetPopularVideos(ctx, "JP", "", ListOptions{Max: 10})
	require.NoError(t, err)
	assert.Equal(t, regionURL, f.last(t).String())
	assert.Equal(t, direct, byRegion)

	_, err = svc.GetPopularVideosByCategory(ctx, "10", ListOptions{})
	require.NoError(t, err)
	q := f.last(t).Query()
	assert.Equal(t, "10", q.Get("categoryId"))
	assert.NotContains(t, q, "regionCode")

	_, err = svc.GetPopularVideos(ctx, "", "", ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, DefaultRegion, f.last(t).Query().Get("regionCode"))
}

func TestGetCategories_DefaultRegion(t *testing.T) {
	f := newFake(map[string]route{
		"/api/category": {body: `{"list":[{"id":"1","title":"Film"},{"id":"10","title":"Music"}]}`},
	})
	svc := New(baseURL, f)

	cats, err := svc.GetCategories(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, cats, 2)
	assert.Equal(t, "US", f.last(t).Query().Get("regionCode"))

	_, err = svc.GetCategories(context.Background(), "VN")
	require.NoError(t, err)
	assert.Equal(t, "VN", f.last(t).Query().Get("regionCode"))
}

// ---- batch lookups ----

func TestBatch_EmptyIDsMakeNoRequest(t *testing.T) {
	f := newFake(nil)
	svc := New(baseURL, f)
	ctx := context.Background()

	videos, err := svc.GetVideos(ctx, nil)
	require.NoError(t, err)
	assert.NotNil(t, videos)
	assert.Empty(t, videos)

	chans, err := svc.GetChannels(ctx, []string{})
	require.NoError(t, err)
	assert.Empty(t, chans)

	pls, err := svc.GetPlaylists(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, pls)

	related, err := svc.GetRelatedVideos(ctx, "", ListOptions{})
	require.NoError(t, err)
	assert.NotNil(t, related.List)
	assert.Empty(t, related.List)
	assert.Empty(t, related.NextPageToken)

	assert.Zero(t, f.count())
}

func TestBatch_JoinsIDsAndSkipsCache(t *testing.T) {
	f := newFake(map[string]route{
		"/api/channels/list": {body: `[{"id":"a","publishedAt":"2020-01-01"},{"id":"b"}]`},
	})
	svc := New(baseURL, f)

	list, err := svc.GetChannels(context.Background(), []string{"a", "b"}, "id", "title")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].PublishedAt.Structured())

	q := f.last(t).Query()
	assert.Equal(t, "a,b", q.Get("id"))
	assert.Equal(t, "id,title", q.Get("fields"))
	assert.Zero(t, svc.Stats().Channels)
}

func TestBatch_FailureFailsWholeCall(t *testing.T) {
	f := newFake(map[string]route{
		"/api/videos/list": {status: 503},
	})
	svc := New(baseURL, f)

	list, err := svc.GetVideos(context.Background(), []string{"a", "b"})
	require.Error(t, err)
	assert.Nil(t, list)
}

func TestGetRelatedVideos_Path(t *testing.T) {
	f := newFake(map[string]route{
		"/api/videos/v1/related": {body: `{"list":[{"id":"v2"}],"nextPageToken":"x"}`},
	})
	svc := New(baseURL, f)

	res, err := svc.GetRelatedVideos(context.Background(), "v1", ListOptions{})
	require.NoError(t, err)
	require.Len(t, res.List, 1)
	assert.Equal(t, "x", res.NextPageToken)
	assert.Equal(t, "50", f.last(t).Query().Get("limit"))
}
