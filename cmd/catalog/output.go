package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/core-ts/video/model"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func (a *app) print(cmd *cobra.Command, v any) error {
	w := cmd.OutOrStdout()
	switch a.output {
	case "text":
		return printText(w, v)
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown output %q (use json or text)", a.output)
	}
}

// printText renders entities as an aligned table with humanized counts and
// ages.
func printText(w io.Writer, v any) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	var next string
	switch x := v.(type) {
	case []model.Category:
		row(tw, "ID", "TITLE", "ASSIGNABLE")
		for _, c := range x {
			row(tw, c.ID, c.Title, fmt.Sprint(c.Assignable))
		}
	case *model.Channel:
		channelRows(tw, []model.Channel{*x})
	case []model.Channel:
		channelRows(tw, x)
	case *model.ListResult[model.Channel]:
		channelRows(tw, x.List)
		next = x.NextPageToken
	case *model.Playlist:
		playlistRows(tw, []model.Playlist{*x})
	case []model.Playlist:
		playlistRows(tw, x)
	case *model.ListResult[model.Playlist]:
		playlistRows(tw, x.List)
		next = x.NextPageToken
	case *model.Video:
		videoRows(tw, []model.Video{*x})
	case []model.Video:
		videoRows(tw, x)
	case *model.ListResult[model.Video]:
		videoRows(tw, x.List)
		next = x.NextPageToken
	case *model.ListResult[model.Item]:
		row(tw, "KIND", "ID", "TITLE", "CHANNEL", "PUBLISHED")
		for _, it := range x.List {
			row(tw, it.Kind, it.ID, it.Title, it.ChannelTitle, age(it.PublishedAt))
		}
		next = x.NextPageToken
	case *model.ListResult[model.CommentThread]:
		row(tw, "ID", "AUTHOR", "LIKES", "REPLIES", "PUBLISHED", "TEXT")
		for _, c := range x.List {
			row(tw, c.ID, c.AuthorDisplayName, humanize.Comma(c.LikeCount), humanize.Comma(c.TotalReplyCount), age(c.PublishedAt), clip(c.TextOriginal, 60))
		}
		next = x.NextPageToken
	case *model.ListResult[model.Comment]:
		row(tw, "ID", "AUTHOR", "LIKES", "PUBLISHED", "TEXT")
		for _, c := range x.List {
			row(tw, c.ID, c.AuthorDisplayName, humanize.Comma(c.LikeCount), age(c.PublishedAt), clip(c.TextOriginal, 60))
		}
		next = x.NextPageToken
	default:
		return fmt.Errorf("no text view for %T", v)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if next != "" {
		_, err := fmt.Fprintf(w, "\nnext page: --page-token %s\n", next)
		return err
	}
	return nil
}

func channelRows(w io.Writer, list []model.Channel) {
	row(w, "ID", "TITLE", "VIDEOS", "PLAYLISTS", "PUBLISHED")
	for _, c := range list {
		row(w, c.ID, c.Title, humanize.Comma(c.ItemCount), humanize.Comma(c.PlaylistCount), age(c.PublishedAt))
	}
}

func playlistRows(w io.Writer, list []model.Playlist) {
	row(w, "ID", "TITLE", "CHANNEL", "VIDEOS", "PUBLISHED")
	for _, p := range list {
		row(w, p.ID, p.Title, p.ChannelTitle, humanize.Comma(p.ItemCount), age(p.PublishedAt))
	}
}

func videoRows(w io.Writer, list []model.Video) {
	row(w, "ID", "TITLE", "CHANNEL", "LENGTH", "VIEWS", "PUBLISHED")
	for _, v := range list {
		row(w, v.ID, clip(v.Title, 50), v.ChannelTitle, length(v.Duration), humanize.Comma(v.ViewCount), age(v.PublishedAt))
	}
}

func row(w io.Writer, cols ...string) {
	fmt.Fprintln(w, strings.Join(cols, "\t"))
}

func age(ts *model.Timestamp) string {
	switch {
	case ts.Structured():
		return humanize.Time(ts.Time)
	case ts != nil && ts.Text != "":
		return ts.Text
	default:
		return "-"
	}
}

func length(seconds int64) string {
	if seconds <= 0 {
		return "-"
	}
	return (time.Duration(seconds) * time.Second).String()
}

func clip(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return s
}
