package grid

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hubdeck/hubdeck/internal/log"
)

// DetailType names a detail record type a repository row can expand into.
type DetailType string

// The fixed set of detail types the backend serves. The wire names match
// the backend's collection names.
const (
	DetailCommit      DetailType = "Commit"
	DetailPullRequest DetailType = "pullRequest"
	DetailIssue       DetailType = "Issue"
)

// DetailTypes lists all recognized detail types in display order.
var DetailTypes = []DetailType{DetailCommit, DetailPullRequest, DetailIssue}

// ErrUnknownDetailType marks an expansion request for a detail type the
// backend does not serve. This is a configuration error: the expansion is
// aborted, the rest of the grid is unaffected.
var ErrUnknownDetailType = errors.New("unknown detail type")

// ParseDetailType resolves a case-insensitive name to a detail type.
func ParseDetailType(s string) (DetailType, error) {
	switch strings.ToLower(s) {
	case "commit", "commits":
		return DetailCommit, nil
	case "pullrequest", "pullrequests", "pr":
		return DetailPullRequest, nil
	case "issue", "issues":
		return DetailIssue, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDetailType, s)
}

// Collection returns the backend collection name for the detail type.
func (t DetailType) Collection() string {
	return string(t)
}

// Label returns the human-readable name for the detail type.
func (t DetailType) Label() string {
	switch t {
	case DetailPullRequest:
		return "Pull Request"
	default:
		return string(t)
	}
}

// Resolver builds detail row sources scoped to a parent repository row.
// Every expansion gets a fresh source with its own retry state; collapsing
// and re-expanding the same row never reuses prior windows.
type Resolver struct {
	fetcher Fetcher
	opts    []SourceOption
}

// NewResolver creates a resolver that builds detail sources over the given
// fetcher. The options (session gate, retry tuning) are applied to every
// source the resolver creates.
func NewResolver(fetcher Fetcher, opts ...SourceOption) *Resolver {
	return &Resolver{fetcher: fetcher, opts: opts}
}

// ForDetail returns a row source pinned to the parent row's partition of
// the given detail type. An unrecognized type is reported to the caller
// and no source is created.
func (r *Resolver) ForDetail(parentID string, t DetailType) (*RemoteSource, error) {
	known := false
	for _, dt := range DetailTypes {
		if t == dt {
			known = true
			break
		}
	}
	if !known {
		log.Error("detail expansion aborted", "type", string(t), "parent", parentID)
		return nil, fmt.Errorf("%w: %q", ErrUnknownDetailType, string(t))
	}

	opts := append(append([]SourceOption(nil), r.opts...), WithScope(Scope{ParentID: parentID, Type: t}))
	return NewRemoteSource(r.fetcher, t.Collection(), opts...), nil
}
