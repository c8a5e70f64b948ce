// Package catalog exposes a video catalog service as typed operations over
// channels, playlists, videos and search.
//
// Requests go through a transport.Getter. List responses are normalized by
// package normalize: compacted lists are expanded, publication times are
// coerced, and the pagination cursor is returned as received. Single channel
// and playlist lookups are served from two bounded caches (see package
// cache) that evict by insertion time; videos are always fetched.
//
// Basic usage:
//
//	svc := catalog.New("https://catalog.example.com", transport.NewHTTP())
//	ch, err := svc.GetChannel(ctx, "UC_x5XG1OV2P6uZZ5FSM9Ttw")
//	if err != nil { ... }
//	if ch == nil { /* not found */ }
//
// A client built WithAPIKey additionally searches the upstream data API
// directly and lists comments:
//
//	svc := catalog.New(base, t, catalog.WithAPIKey(key))
//	if cs, ok := catalog.Comments(svc); ok {
//		threads, err := cs.GetCommentThreads(ctx, videoID, catalog.CommentOrderTime, catalog.ListOptions{})
//		...
//	}
package catalog
