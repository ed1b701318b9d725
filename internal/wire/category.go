package wire

import "fmt"

// Category identifies a metric group. It is transmitted as a single byte.
type Category uint8

const (
	// ProcessSummary carries aggregate resource usage of the target processes.
	ProcessSummary Category = 0
	// NetworkSummary carries the target's open network connections.
	NetworkSummary Category = 1
	// ProcessList carries one text line per matching process.
	ProcessList Category = 2
)

// Dims is the minimum display footprint of a category, in character cells.
type Dims struct {
	Width  int
	Height int
}

type categoryInfo struct {
	key   string
	title string
	dims  Dims
}

var categoryTable = map[Category]categoryInfo{
	ProcessSummary: {key: "process_summary", title: "Process Statistics", dims: Dims{Width: 70, Height: 8}},
	NetworkSummary: {key: "network_summary", title: "Network Statistics", dims: Dims{Width: 70, Height: 5}},
	ProcessList:    {key: "process_list", title: "Process List", dims: Dims{Width: 70, Height: 30}},
}

// categoryOrder is the declared order used for collection and layout.
var categoryOrder = []Category{ProcessSummary, NetworkSummary, ProcessList}

// Categories returns every category in declared order.
// The returned slice is a copy and may be modified by the caller.
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := categoryTable[c]
	return ok
}

// String returns the human-readable title of the category.
func (c Category) String() string {
	if info, ok := categoryTable[c]; ok {
		return info.title
	}
	return fmt.Sprintf("Unknown Type (%d)", uint8(c))
}

// Key returns the config key of the category (e.g. "process_summary").
func (c Category) Key() string {
	if info, ok := categoryTable[c]; ok {
		return info.key
	}
	return ""
}

// MinDims returns the declared minimum footprint. Unknown categories have none.
func (c Category) MinDims() Dims {
	return categoryTable[c].dims
}

// ParseCategory maps a config key back to its category.
func ParseCategory(key string) (Category, bool) {
	for c, info := range categoryTable {
		if info.key == key {
			return c, true
		}
	}
	return 0, false
}
