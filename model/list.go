package model

// ListResult is one page of entities. NextPageToken is an opaque cursor:
// it is returned exactly as the upstream sent it and submitted back verbatim.
type ListResult[T any] struct {
	List          []T    `json:"list"`
	NextPageToken string `json:"nextPageToken,omitempty"`
}

// Contained wraps an entity together with the id of the container
// (playlist, channel) it was listed from.
type Contained[T any] struct {
	ContainerID string `json:"containerId,omitempty"`
	Item        T      `json:"item"`
}
