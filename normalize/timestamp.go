// Package normalize turns catalog responses into the client's result types.
//
// Every list and get endpoint runs the same steps: the list shape is decoded
// once at the wire boundary (see WireList), compacted lists are expanded,
// textual publication times are coerced into time.Time, and not-found
// failures of single-entity fetches become an absent result.
package normalize

import "github.com/core-ts/video/model"

// Timestamped is satisfied by a pointer to an entity with a publication time.
type Timestamped[T any] interface {
	*T
	model.Published
}

// CoerceTimestamp parses the entity's textual publication time in place and
// returns the entity. Nil entities and absent or structured times are left
// untouched.
func CoerceTimestamp[T any, PT Timestamped[T]](v PT) PT {
	if v == nil {
		return v
	}
	v.Published().Coerce()
	return v
}

// CoerceTimestamps applies CoerceTimestamp to every element, preserving
// order and length, and returns the same slice.
func CoerceTimestamps[T any, PT Timestamped[T]](list []T) []T {
	for i := range list {
		CoerceTimestamp[T, PT](&list[i])
	}
	return list
}
