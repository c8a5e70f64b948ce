package catalog

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/core-ts/video/model"
)

// DefaultMax is the page size requested when ListOptions.Max is not positive.
const DefaultMax = 50

// DefaultRegion is used where a region selector is required and none is given.
const DefaultRegion = "US"

// ListOptions controls paging and projection of a list operation.
// The zero value requests the first page of DefaultMax entities.
type ListOptions struct {
	// Max is the page size; non-positive means the endpoint default.
	Max int
	// PageToken is the cursor returned by a previous page, sent back verbatim.
	PageToken string
	// Fields restricts the returned properties.
	Fields []string
}

func (o ListOptions) limit(def int) int {
	if o.Max <= 0 {
		return def
	}
	return o.Max
}

// query collects request parameters; empty values are never emitted.
type query struct{ v url.Values }

func newQuery() *query { return &query{v: url.Values{}} }

func (q *query) set(key, value string) *query {
	if value != "" {
		q.v.Set(key, value)
	}
	return q
}

func (q *query) setInt(key string, n int) *query {
	if n > 0 {
		q.v.Set(key, strconv.Itoa(n))
	}
	return q
}

func (q *query) setTime(key string, t time.Time) *query {
	if !t.IsZero() {
		q.v.Set(key, t.UTC().Format(time.RFC3339))
	}
	return q
}

func (q *query) setList(key string, values []string) *query {
	var kept []string
	for _, s := range values {
		if s = strings.TrimSpace(s); s != "" {
			kept = append(kept, s)
		}
	}
	if len(kept) > 0 {
		q.v.Set(key, strings.Join(kept, ","))
	}
	return q
}

// page applies the catalog's paging parameters.
func (q *query) page(o ListOptions) *query {
	return q.setInt("limit", o.limit(DefaultMax)).
		set("nextPageToken", o.PageToken).
		setList("fields", o.Fields)
}

func (q *query) encode() string { return q.v.Encode() }

// ---- filters ----

func sortValue(s model.Sort) string {
	if s.Valid() {
		return string(s)
	}
	return ""
}

func (q *query) common(qs, channelID, region, lang string, after, before time.Time, safe string) *query {
	return q.set("q", qs).
		set("channelId", channelID).
		set("regionCode", region).
		set("relevanceLanguage", lang).
		setTime("publishedAfter", after).
		setTime("publishedBefore", before).
		set("safeSearch", safe)
}

func (q *query) itemFilter(f model.ItemFilter) *query {
	q.common(f.Q, f.ChannelID, f.RegionCode, f.RelevanceLanguage, f.PublishedAfter, f.PublishedBefore, f.SafeSearch)
	if f.Duration.Valid() {
		q.set("videoDuration", string(f.Duration))
	}
	if f.Definition.Valid() {
		q.set("videoDefinition", string(f.Definition))
	}
	if f.MediaType.Valid() {
		q.set("videoType", string(f.MediaType))
	}
	return q
}

func (q *query) playlistFilter(f model.PlaylistFilter) *query {
	return q.common(f.Q, f.ChannelID, f.RegionCode, f.RelevanceLanguage, f.PublishedAfter, f.PublishedBefore, f.SafeSearch).
		set("sort", sortValue(f.Sort))
}

func (q *query) channelFilter(f model.ChannelFilter) *query {
	return q.common(f.Q, f.ChannelID, f.RegionCode, f.RelevanceLanguage, f.PublishedAfter, f.PublishedBefore, f.SafeSearch).
		set("channelType", f.ChannelType).
		set("sort", sortValue(f.Sort))
}

func joinURL(base string, segments ...string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "/"))
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(s)
	}
	return b.String()
}

func withQuery(u string, q *query) string {
	if enc := q.encode(); enc != "" {
		return u + "?" + enc
	}
	return u
}
