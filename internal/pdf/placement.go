package pdf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Defaults applied by Normalize to fields missing from a placement record.
const (
	DefaultX      = 0.0
	DefaultY      = 0.0
	DefaultWidth  = 100.0
	DefaultHeight = 50.0
	DefaultPage   = 1
)

// Rect is an axis-aligned box with a top-left origin, in points.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Max returns the bottom-right corner of r.
func (r Rect) Max() (float64, float64) {
	return r.X + r.Width, r.Y + r.Height
}

// OnPage places r on the given 1-based page.
func (r Rect) OnPage(page int) Placement {
	return Placement{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height, Page: page}
}

// Placement is one instance of the shared image stamped on a page.
type Placement struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Page   int     `json:"page"`
}

// Rect returns the box of p.
func (p Placement) Rect() Rect {
	return Rect{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height}
}

// Number is a loosely typed numeric field. It accepts a JSON number or a
// numeric string; anything else (absent, null, bool, garbage) leaves it unset.
type Number struct {
	Value float64
	Valid bool
}

// Num returns a set Number.
func Num(v float64) Number {
	return Number{Value: v, Valid: true}
}

// UnmarshalJSON never fails: values that are not numeric leave n unset.
func (n *Number) UnmarshalJSON(b []byte) error {
	*n = Number{}
	s := strings.TrimSpace(string(b))
	if strings.HasPrefix(s, `"`) {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return nil
		}
		s = strings.TrimSpace(unquoted)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	*n = Num(v)
	return nil
}

// Or returns the value of n, or def when n is unset.
func (n Number) Or(def float64) float64 {
	if !n.Valid {
		return def
	}
	return n.Value
}

// RawPlacement is a placement record as received from a client, before
// defaults are applied.
type RawPlacement struct {
	X      Number `json:"x"`
	Y      Number `json:"y"`
	Width  Number `json:"width"`
	Height Number `json:"height"`
	Page   Number `json:"page"`
}

// Normalize applies the placement defaults to raw.
func Normalize(raw RawPlacement) Placement {
	return Placement{
		X:      raw.X.Or(DefaultX),
		Y:      raw.Y.Or(DefaultY),
		Width:  raw.Width.Or(DefaultWidth),
		Height: raw.Height.Or(DefaultHeight),
		Page:   pageNumber(raw.Page),
	}
}

// pageNumber truncates toward zero. Values that do not fit a page index
// map to 0, which no document contains.
func pageNumber(n Number) int {
	if !n.Valid {
		return DefaultPage
	}
	v := math.Trunc(n.Value)
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0
	}
	return int(v)
}

// ParsePlacements decodes a JSON array of placement records and normalizes
// each of them. Anything that is not an array of objects is rejected with
// ErrInvalidInput.
func ParsePlacements(data []byte) ([]Placement, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return nil, fmt.Errorf("%w: placements must be a JSON array", ErrInvalidInput)
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, fmt.Errorf("%w: placements are not valid JSON: %v", ErrInvalidInput, err)
	}

	placements := make([]Placement, 0, len(elems))
	for i, elem := range elems {
		elem = bytes.TrimSpace(elem)
		if len(elem) == 0 || elem[0] != '{' {
			return nil, fmt.Errorf("%w: placement %d is not an object", ErrInvalidInput, i)
		}
		var raw RawPlacement
		if err := json.Unmarshal(elem, &raw); err != nil {
			return nil, fmt.Errorf("%w: placement %d: %v", ErrInvalidInput, i, err)
		}
		placements = append(placements, Normalize(raw))
	}
	return placements, nil
}

// GroupByPage partitions placements by page number. Each group keeps the
// relative order of the input, which is also the draw order.
func GroupByPage(placements []Placement) map[int][]Placement {
	groups := make(map[int][]Placement)
	for _, p := range placements {
		groups[p.Page] = append(groups[p.Page], p)
	}
	return groups
}
