package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/core-ts/video/catalog"
	"github.com/core-ts/video/model"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var errNotFound = errors.New("not found")

// ---- shared flag sets ----

func addListFlags(fs *pflag.FlagSet, o *catalog.ListOptions) {
	fs.IntVar(&o.Max, "max", 0, "page size (0 = service default)")
	fs.StringVar(&o.PageToken, "page-token", "", "cursor returned by a previous page")
	fs.StringSliceVar(&o.Fields, "fields", nil, "properties to return")
}

type searchFlags struct {
	q, channelID, region, lang, safe string
	sort                             string
	after, before                    string
}

func (s *searchFlags) add(fs *pflag.FlagSet) {
	fs.StringVar(&s.q, "q", "", "free text query")
	fs.StringVar(&s.channelID, "channel", "", "restrict to a channel id")
	fs.StringVar(&s.region, "region", "", "region code")
	fs.StringVar(&s.lang, "lang", "", "relevance language")
	fs.StringVar(&s.safe, "safe", "", "safe search: none | moderate | strict")
	fs.StringVar(&s.sort, "sort", "", "sort: date | rating | title | count | viewCount")
	fs.StringVar(&s.after, "after", "", "published after (RFC 3339)")
	fs.StringVar(&s.before, "before", "", "published before (RFC 3339)")
}

func (s *searchFlags) times() (after, before time.Time, err error) {
	if s.after != "" {
		if after, err = time.Parse(time.RFC3339, s.after); err != nil {
			return after, before, fmt.Errorf("--after: %w", err)
		}
	}
	if s.before != "" {
		if before, err = time.Parse(time.RFC3339, s.before); err != nil {
			return after, before, fmt.Errorf("--before: %w", err)
		}
	}
	return after, before, nil
}

type videoFlags struct {
	searchFlags
	itemType, duration, definition, mediaType string
}

func (v *videoFlags) add(fs *pflag.FlagSet) {
	v.searchFlags.add(fs)
	fs.StringVar(&v.itemType, "type", "", "result type: video | playlist | channel")
	fs.StringVar(&v.duration, "duration", "", "any | short | medium | long")
	fs.StringVar(&v.definition, "definition", "", "any | high | standard")
	fs.StringVar(&v.mediaType, "media-type", "", "any | episode | movie")
}

func (v *videoFlags) filter() (model.ItemFilter, error) {
	after, before, err := v.times()
	if err != nil {
		return model.ItemFilter{}, err
	}
	return model.ItemFilter{
		Type:              model.ItemType(v.itemType),
		Q:                 v.q,
		ChannelID:         v.channelID,
		RegionCode:        v.region,
		RelevanceLanguage: v.lang,
		PublishedAfter:    after,
		PublishedBefore:   before,
		Sort:              model.Sort(v.sort),
		SafeSearch:        v.safe,
		Duration:          model.Duration(v.duration),
		Definition:        model.Definition(v.definition),
		MediaType:         model.MediaType(v.mediaType),
	}, nil
}

// ---- channels ----

func categoriesCmd(a *app) *cobra.Command {
	var region string
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List the video categories of a region",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cats, err := a.svc.GetCategories(cmd.Context(), region)
			if err != nil {
				return err
			}
			return a.print(cmd, cats)
		},
	}
	cmd.Flags().StringVar(&region, "region", "", "region code (default US)")
	return cmd
}

func channelCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "channel <id>",
		Short: "Get a channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := a.svc.GetChannel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if ch == nil {
				return fmt.Errorf("channel %s: %w", args[0], errNotFound)
			}
			return a.print(cmd, ch)
		},
	}
}

func channelsCmd(a *app) *cobra.Command {
	var fields []string
	cmd := &cobra.Command{
		Use:   "channels <id>...",
		Short: "Get channels by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.svc.GetChannels(cmd.Context(), args, fields...)
			if err != nil {
				return err
			}
			return a.print(cmd, list)
		},
	}
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "properties to return")
	return cmd
}

func channelPlaylistsCmd(a *app) *cobra.Command {
	var opts catalog.ListOptions
	cmd := &cobra.Command{
		Use:   "channel-playlists <channel-id>",
		Short: "List the playlists of a channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.svc.GetChannelPlaylists(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			return a.print(cmd, res)
		},
	}
	addListFlags(cmd.Flags(), &opts)
	return cmd
}

func channelVideosCmd(a *app) *cobra.Command {
	var opts catalog.ListOptions
	cmd := &cobra.Command{
		Use:   "channel-videos <channel-id>",
		Short: "List the uploads of a channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.svc.GetChannelVideos(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			return a.print(cmd, res)
		},
	}
	addListFlags(cmd.Flags(), &opts)
	return cmd
}

// ---- playlists ----

func playlistCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "playlist <id>",
		Short: "Get a playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.svc.GetPlaylist(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("playlist %s: %w", args[0], errNotFound)
			}
			return a.print(cmd, p)
		},
	}
}

func playlistsCmd(a *app) *cobra.Command {
	var fields []string
	cmd := &cobra.Command{
		Use:   "playlists <id>...",
		Short: "Get playlists by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.svc.GetPlaylists(cmd.Context(), args, fields...)
			if err != nil {
				return err
			}
			return a.print(cmd, list)
		},
	}
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "properties to return")
	return cmd
}

func playlistVideosCmd(a *app) *cobra.Command {
	var opts catalog.ListOptions
	cmd := &cobra.Command{
		Use:   "playlist-videos <playlist-id>",
		Short: "List the videos of a playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.svc.GetPlaylistVideos(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			return a.print(cmd, res)
		},
	}
	addListFlags(cmd.Flags(), &opts)
	return cmd
}

// ---- videos ----

func popularCmd(a *app) *cobra.Command {
	var (
		opts             catalog.ListOptions
		region, category string
	)
	cmd := &cobra.Command{
		Use:   "popular",
		Short: "List popular videos by region and category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.svc.GetPopularVideos(cmd.Context(), region, category, opts)
			if err != nil {
				return err
			}
			return a.print(cmd, res)
		},
	}
	cmd.Flags().StringVar(&region, "region", "", "region code")
	cmd.Flags().StringVar(&category, "category", "", "category id")
	addListFlags(cmd.Flags(), &opts)
	return cmd
}

func videoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "video <id>",
		Short: "Get a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.svc.GetVideo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if v == nil {
				return fmt.Errorf("video %s: %w", args[0], errNotFound)
			}
			return a.print(cmd, v)
		},
	}
}

func videosCmd(a *app) *cobra.Command {
	var fields []string
	cmd := &cobra.Command{
		Use:   "videos <id>...",
		Short: "Get videos by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.svc.GetVideos(cmd.Context(), args, fields...)
			if err != nil {
				return err
			}
			return a.print(cmd, list)
		},
	}
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "properties to return")
	return cmd
}

func relatedCmd(a *app) *cobra.Command {
	var opts catalog.ListOptions
	cmd := &cobra.Command{
		Use:   "related <video-id>",
		Short: "List videos related to a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.svc.GetRelatedVideos(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			return a.print(cmd, res)
		},
	}
	addListFlags(cmd.Flags(), &opts)
	return cmd
}

// ---- search ----

func searchCmd(a *app) *cobra.Command {
	var (
		opts catalog.ListOptions
		f    videoFlags
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search videos, playlists and channels on the upstream data API (needs --api-key)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := f.filter()
			if err != nil {
				return err
			}
			res, err := a.svc.Search(cmd.Context(), filter, opts)
			if err != nil {
				return err
			}
			return a.print(cmd, res)
		},
	}
	f.add(cmd.Flags())
	addListFlags(cmd.Flags(), &opts)
	return cmd
}

func searchVideosCmd(a *app) *cobra.Command {
	var (
		opts catalog.ListOptions
		f    videoFlags
	)
	cmd := &cobra.Command{
		Use:   "search-videos",
		Short: "Search videos in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := f.filter()
			if err != nil {
				return err
			}
			res, err := a.svc.SearchVideos(cmd.Context(), filter, opts)
			if err != nil {
				return err
			}
			return a.print(cmd, res)
		},
	}
	f.add(cmd.Flags())
	addListFlags(cmd.Flags(), &opts)
	return cmd
}

func searchPlaylistsCmd(a *app) *cobra.Command {
	var (
		opts catalog.ListOptions
		f    searchFlags
	)
	cmd := &cobra.Command{
		Use:   "search-playlists",
		Short: "Search playlists in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			after, before, err := f.times()
			if err != nil {
				return err
			}
			res, err := a.svc.SearchPlaylists(cmd.Context(), model.PlaylistFilter{
				Q:                 f.q,
				ChannelID:         f.channelID,
				RegionCode:        f.region,
				RelevanceLanguage: f.lang,
				PublishedAfter:    after,
				PublishedBefore:   before,
				Sort:              model.Sort(f.sort),
				SafeSearch:        f.safe,
			}, opts)
			if err != nil {
				return err
			}
			return a.print(cmd, res)
		},
	}
	f.add(cmd.Flags())
	addListFlags(cmd.Flags(), &opts)
	return cmd
}

func searchChannelsCmd(a *app) *cobra.Command {
	var (
		opts        catalog.ListOptions
		f           searchFlags
		channelType string
	)
	cmd := &cobra.Command{
		Use:   "search-channels",
		Short: "Search channels in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			after, before, err := f.times()
			if err != nil {
				return err
			}
			res, err := a.svc.SearchChannels(cmd.Context(), model.ChannelFilter{
				Q:                 f.q,
				ChannelID:         f.channelID,
				ChannelType:       channelType,
				RegionCode:        f.region,
				RelevanceLanguage: f.lang,
				PublishedAfter:    after,
				PublishedBefore:   before,
				Sort:              model.Sort(f.sort),
				SafeSearch:        f.safe,
			}, opts)
			if err != nil {
				return err
			}
			return a.print(cmd, res)
		},
	}
	f.add(cmd.Flags())
	cmd.Flags().StringVar(&channelType, "channel-type", "", "any | show")
	addListFlags(cmd.Flags(), &opts)
	return cmd
}

// ---- comments ----

func (a *app) comments() (catalog.CommentService, error) {
	cs, ok := catalog.Comments(a.svc)
	if !ok {
		return nil, fmt.Errorf("comments: %w", catalog.ErrAPIKeyRequired)
	}
	return cs, nil
}

func commentsCmd(a *app) *cobra.Command {
	var (
		opts  catalog.ListOptions
		order string
	)
	cmd := &cobra.Command{
		Use:   "comments <video-id>",
		Short: "List the comment threads of a video (needs --api-key)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := a.comments()
			if err != nil {
				return err
			}
			res, err := cs.GetCommentThreads(cmd.Context(), args[0], catalog.CommentOrder(order), opts)
			if err != nil {
				return err
			}
			return a.print(cmd, res)
		},
	}
	cmd.Flags().StringVar(&order, "order", "", "time | relevance")
	addListFlags(cmd.Flags(), &opts)
	return cmd
}

func repliesCmd(a *app) *cobra.Command {
	var opts catalog.ListOptions
	cmd := &cobra.Command{
		Use:   "replies <comment-id>",
		Short: "List the replies to a comment (needs --api-key)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := a.comments()
			if err != nil {
				return err
			}
			res, err := cs.GetComments(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			return a.print(cmd, res)
		},
	}
	addListFlags(cmd.Flags(), &opts)
	return cmd
}
