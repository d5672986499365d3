package grid

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// SortItem is one entry of the grid's sort model, in the order the UI
// supplied it. Ties break in model order; the mapper never reorders.
type SortItem struct {
	ColID string `json:"colId"`
	Sort  string `json:"sort"` // "asc" or "desc"
}

// Filter is a per-field predicate in the grid's filter model. The wire
// shape follows the column filter contract the backend expects.
type Filter struct {
	FilterType string `json:"filterType"`         // text, number, date
	Type       string `json:"type"`               // equals, contains, greaterThan, ...
	Filter     any    `json:"filter,omitempty"`   // operand
	FilterTo   any    `json:"filterTo,omitempty"` // upper bound for inRange
	DateFrom   string `json:"dateFrom,omitempty"`
	DateTo     string `json:"dateTo,omitempty"`
}

// FilterModel maps field names to their active filter predicates.
type FilterModel map[string]Filter

// ParentField is the field every detail record carries to reference its
// parent repository. Detail scoping pins an equality filter on it.
const ParentField = "repoId"

// Scope restricts a detail request to one parent row's records.
type Scope struct {
	ParentID string
	Type     DetailType
}

// Query is the UI-level ask for one window of rows: the range to
// materialize plus the current sort, filter, and free-text state.
type Query struct {
	StartRow int
	EndRow   int
	Sort     []SortItem
	Filter   FilterModel
	Search   string
}

// Request is the transport-ready form of a window query, bound to a
// collection and, for detail grids, a parent scope.
type Request struct {
	Collection string
	StartRow   int
	EndRow     int
	Sort       []SortItem
	Filter     FilterModel
	Search     string
}

// BuildRequest maps a UI query onto a Request for the given collection.
// The sort and filter models pass through verbatim, except that a present
// scope overwrites any caller filter on ParentField with the parent-id
// equality predicate, so a detail grid can never escape its partition.
// Window bounds are checked here, before anything is dispatched.
func BuildRequest(collection string, q Query, scope *Scope) (Request, error) {
	if q.StartRow < 0 {
		return Request{}, fmt.Errorf("invalid row window: startRow %d < 0", q.StartRow)
	}
	if q.StartRow >= q.EndRow {
		return Request{}, fmt.Errorf("invalid row window: startRow %d >= endRow %d", q.StartRow, q.EndRow)
	}

	req := Request{
		Collection: collection,
		StartRow:   q.StartRow,
		EndRow:     q.EndRow,
		Sort:       append([]SortItem(nil), q.Sort...),
		Search:     q.Search,
	}

	if len(q.Filter) > 0 || scope != nil {
		req.Filter = make(FilterModel, len(q.Filter)+1)
		for field, f := range q.Filter {
			req.Filter[field] = f
		}
	}
	if scope != nil {
		req.Collection = scope.Type.Collection()
		req.Filter[ParentField] = Filter{
			FilterType: "text",
			Type:       "equals",
			Filter:     scope.ParentID,
		}
	}

	return req, nil
}

// Values encodes the request as the query parameters the backend expects.
// Sort and filter models travel as JSON strings.
func (r Request) Values() (url.Values, error) {
	sort := r.Sort
	if sort == nil {
		sort = []SortItem{}
	}
	sortJSON, err := json.Marshal(sort)
	if err != nil {
		return nil, fmt.Errorf("encode sort model: %w", err)
	}
	filterJSON, err := json.Marshal(r.Filter)
	if err != nil {
		return nil, fmt.Errorf("encode filter model: %w", err)
	}

	v := url.Values{}
	v.Set("startRow", strconv.Itoa(r.StartRow))
	v.Set("endRow", strconv.Itoa(r.EndRow))
	v.Set("sortModel", string(sortJSON))
	v.Set("filterModel", string(filterJSON))
	v.Set("search", r.Search)
	return v, nil
}
