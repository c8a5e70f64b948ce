package model

import "time"

// Sort is the ordering requested from a search.
type Sort string

const (
	SortDate      Sort = "date"
	SortRating    Sort = "rating"
	SortTitle     Sort = "title"
	SortCount     Sort = "count"
	SortViewCount Sort = "viewCount"
)

// Valid reports whether s is one of the supported sort keys.
func (s Sort) Valid() bool {
	switch s {
	case SortDate, SortRating, SortTitle, SortCount, SortViewCount:
		return true
	}
	return false
}

// Order maps s to the upstream search API's "order" value. It returns ""
// for an unknown key, which callers treat as absent.
func (s Sort) Order() string {
	switch s {
	case SortCount:
		return "videoCount"
	case SortDate, SortRating, SortTitle, SortViewCount:
		return string(s)
	}
	return ""
}

// Duration buckets a video search by length.
type Duration string

const (
	DurationAny    Duration = "any"
	DurationShort  Duration = "short"
	DurationMedium Duration = "medium"
	DurationLong   Duration = "long"
)

func (d Duration) Valid() bool {
	switch d {
	case DurationAny, DurationShort, DurationMedium, DurationLong:
		return true
	}
	return false
}

// Definition filters a video search by resolution.
type Definition string

const (
	DefinitionAny      Definition = "any"
	DefinitionHigh     Definition = "high"
	DefinitionStandard Definition = "standard"
)

func (d Definition) Valid() bool {
	switch d {
	case DefinitionAny, DefinitionHigh, DefinitionStandard:
		return true
	}
	return false
}

// MediaType restricts a video search to a kind of video.
type MediaType string

const (
	MediaTypeAny     MediaType = "any"
	MediaTypeEpisode MediaType = "episode"
	MediaTypeMovie   MediaType = "movie"
)

func (m MediaType) Valid() bool {
	switch m {
	case MediaTypeAny, MediaTypeEpisode, MediaTypeMovie:
		return true
	}
	return false
}

// ItemType selects which entity kinds a generic search returns.
type ItemType string

const (
	ItemTypeVideo    ItemType = "video"
	ItemTypePlaylist ItemType = "playlist"
	ItemTypeChannel  ItemType = "channel"
)

func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeVideo, ItemTypePlaylist, ItemTypeChannel:
		return true
	}
	return false
}

// ItemFilter describes a video or generic search. Zero fields are absent.
// Unknown enum values are dropped when the request is built.
type ItemFilter struct {
	Type              ItemType
	Q                 string
	ChannelID         string
	RegionCode        string
	RelevanceLanguage string
	PublishedAfter    time.Time
	PublishedBefore   time.Time
	Sort              Sort
	SafeSearch        string
	Duration          Duration
	Definition        Definition
	MediaType         MediaType
}

// PlaylistFilter describes a playlist search.
type PlaylistFilter struct {
	Q                 string
	ChannelID         string
	RegionCode        string
	RelevanceLanguage string
	PublishedAfter    time.Time
	PublishedBefore   time.Time
	Sort              Sort
	SafeSearch        string
}

// ChannelFilter describes a channel search.
type ChannelFilter struct {
	Q                 string
	ChannelID         string
	ChannelType       string
	RegionCode        string
	RelevanceLanguage string
	PublishedAfter    time.Time
	PublishedBefore   time.Time
	Sort              Sort
	SafeSearch        string
}
