package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/core-ts/video/model"
)

// Shape tags the two wire representations of a list.
type Shape int

const (
	// Expanded is a plain JSON array with one full object per element.
	Expanded Shape = iota
	// Compacted shares fields common to all rows in one object.
	Compacted
)

func (s Shape) String() string {
	if s == Compacted {
		return "compacted"
	}
	return "expanded"
}

// Row is one JSON object, field by field.
type Row = map[string]json.RawMessage

// CompactList is the size-reduced list representation:
//
//	{"container": "PL1", "shared": {"channelId": "UC1"}, "rows": [{"id": "a"}, {"id": "b"}]}
//
// Each expanded element is shared merged with its row; row fields win.
// Container is only meaningful for contained lists.
type CompactList struct {
	Container string `json:"container,omitempty"`
	Shared    Row    `json:"shared,omitempty"`
	Rows      []Row  `json:"rows"`
}

// WireList is a list as sent by the catalog, decoded once into one of the
// two shapes. The "list" member of a page is either a JSON array
// (Expanded) or a JSON object (Compacted).
type WireList struct {
	Shape    Shape
	Elements []json.RawMessage
	Compact  *CompactList
}

// Page is the catalog's list envelope.
type Page struct {
	List          WireList `json:"list"`
	NextPageToken string   `json:"nextPageToken,omitempty"`
}

var errListShape = errors.New("normalize: list must be a JSON array or object")

// UnmarshalJSON decides the shape from the first byte: an array is
// Expanded, an object is Compacted and null is an empty Expanded list.
func (w *WireList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*w = WireList{Shape: Expanded}
		return nil
	case b[0] == '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(b, &elems); err != nil {
			return err
		}
		*w = WireList{Shape: Expanded, Elements: elems}
		return nil
	case b[0] == '{':
		var c CompactList
		if err := json.Unmarshal(b, &c); err != nil {
			return err
		}
		*w = WireList{Shape: Compacted, Compact: &c}
		return nil
	default:
		return errListShape
	}
}

// MarshalJSON writes the list in its current shape; an empty Expanded
// list is written as [].
func (w WireList) MarshalJSON() ([]byte, error) {
	if w.Shape == Compacted && w.Compact != nil {
		return json.Marshal(w.Compact)
	}
	if w.Elements == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(w.Elements)
}

// Len returns the number of elements in either shape.
func (w WireList) Len() int {
	if w.Shape == Compacted && w.Compact != nil {
		return len(w.Compact.Rows)
	}
	return len(w.Elements)
}

// ---- plain entity lists ----

// Expand returns the expanded form of w. An already expanded list is
// returned unchanged, so Expand(Expand(w)) == Expand(w).
func Expand(w WireList) (WireList, error) {
	if w.Shape != Compacted || w.Compact == nil {
		return w, nil
	}
	elems := make([]json.RawMessage, len(w.Compact.Rows))
	for i, r := range w.Compact.Rows {
		b, err := json.Marshal(merge(w.Compact.Shared, r))
		if err != nil {
			return w, fmt.Errorf("normalize: expand row %d: %w", i, err)
		}
		elems[i] = b
	}
	return WireList{Shape: Expanded, Elements: elems}, nil
}

// Compact builds the compacted form of rows: every field present in all
// rows with byte-identical values moves to Shared.
func Compact(rows []Row) CompactList {
	shared := Row{}
	if len(rows) > 0 {
		for k, v := range rows[0] {
			common := true
			for _, r := range rows[1:] {
				if rv, ok := r[k]; !ok || !bytes.Equal(rv, v) {
					common = false
					break
				}
			}
			if common {
				shared[k] = v
			}
		}
	}
	out := CompactList{Rows: make([]Row, len(rows))}
	if len(shared) > 0 {
		out.Shared = shared
	}
	for i, r := range rows {
		rest := Row{}
		for k, v := range r {
			if _, ok := shared[k]; !ok {
				rest[k] = v
			}
		}
		out.Rows[i] = rest
	}
	return out
}

// ExpandRows returns the merged objects of a compacted list.
func ExpandRows(c CompactList) []Row {
	rows := make([]Row, len(c.Rows))
	for i, r := range c.Rows {
		rows[i] = merge(c.Shared, r)
	}
	return rows
}

// ExpandList expands w and decodes every element into T.
func ExpandList[T any](w WireList) ([]T, error) {
	e, err := Expand(w)
	if err != nil {
		return nil, err
	}
	list := make([]T, len(e.Elements))
	for i, raw := range e.Elements {
		if err := json.Unmarshal(raw, &list[i]); err != nil {
			return nil, fmt.Errorf("normalize: decode element %d: %w", i, err)
		}
	}
	return list, nil
}

// ---- contained lists ----

// ExpandContainedList returns the expanded form of a contained list: each
// merged row becomes {"containerId": Container, "item": row}. Expanded
// input is returned unchanged.
func ExpandContainedList(w WireList) (WireList, error) {
	if w.Shape != Compacted || w.Compact == nil {
		return w, nil
	}
	container, err := json.Marshal(w.Compact.Container)
	if err != nil {
		return w, err
	}
	elems := make([]json.RawMessage, len(w.Compact.Rows))
	for i, r := range w.Compact.Rows {
		item, err := json.Marshal(merge(w.Compact.Shared, r))
		if err != nil {
			return w, fmt.Errorf("normalize: expand row %d: %w", i, err)
		}
		b, err := json.Marshal(Row{"containerId": container, "item": item})
		if err != nil {
			return w, err
		}
		elems[i] = b
	}
	return WireList{Shape: Expanded, Elements: elems}, nil
}

// CompactContained builds the compacted form of contained elements. All
// elements must share one container id.
func CompactContained(elems []json.RawMessage) (CompactList, error) {
	var container string
	rows := make([]Row, len(elems))
	for i, raw := range elems {
		var e struct {
			ContainerID string `json:"containerId"`
			Item        Row    `json:"item"`
		}
		if err := json.Unmarshal(raw, &e); err != nil {
			return CompactList{}, fmt.Errorf("normalize: element %d: %w", i, err)
		}
		if i > 0 && e.ContainerID != container {
			return CompactList{}, fmt.Errorf("normalize: element %d: container %q differs from %q", i, e.ContainerID, container)
		}
		container = e.ContainerID
		rows[i] = e.Item
	}
	c := Compact(rows)
	c.Container = container
	return c, nil
}

// ExpandContained expands w and decodes every element into a Contained[T].
func ExpandContained[T any](w WireList) ([]model.Contained[T], error) {
	e, err := ExpandContainedList(w)
	if err != nil {
		return nil, err
	}
	list := make([]model.Contained[T], len(e.Elements))
	for i, raw := range e.Elements {
		if err := json.Unmarshal(raw, &list[i]); err != nil {
			return nil, fmt.Errorf("normalize: decode element %d: %w", i, err)
		}
	}
	return list, nil
}

func merge(shared, row Row) Row {
	out := make(Row, len(shared)+len(row))
	for k, v := range shared {
		out[k] = v
	}
	for k, v := range row {
		out[k] = v
	}
	return out
}
