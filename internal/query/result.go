package query

import (
	"strings"
	"time"

	"github.com/gabrielrenderos/figq/internal/scene"
)

// Status is the terminal outcome of a search. Every search ends in
// exactly one of these.
type Status int

const (
	// StatusMatched: one or more nodes selected.
	StatusMatched Status = iota
	// StatusPageOnly: the query was just a page-switch directive and
	// the page was found.
	StatusPageOnly
	// StatusNoMatch: the query evaluated cleanly but selected nothing.
	StatusNoMatch
	// StatusCancelled: the search observed cancellation before
	// finishing; no partial results are reported.
	StatusCancelled
	// StatusError: a host or internal failure; Result.Err carries it.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusMatched:
		return "matched"
	case StatusPageOnly:
		return "page"
	case StatusNoMatch:
		return "none"
	case StatusCancelled:
		return "cancelled"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Match is one selected node plus the display path of the segment
// chain it was matched through.
type Match struct {
	Node *scene.Node
	Path string
}

// Result is the outcome of one search invocation.
type Result struct {
	Status  Status
	Matches []Match
	// Page is the page-switch target when the query carried a page
	// directive, nil otherwise.
	Page *scene.Node
	// Err is set for StatusError only.
	Err error
	// Visited counts nodes traversed, a measure of work done (cache
	// hits keep it low; --f keeps it bounded).
	Visited int
	Elapsed time.Duration
}

// cand is a transient match candidate: a node plus the chain of
// segment matches it was found through, used for display paths and
// per-scope modifiers. Never retained across searches.
type cand struct {
	node *scene.Node
	via  *cand
}

// path renders the query-relevant chain: the initial scope the match
// was rooted in, each intermediate segment match, then the node itself.
func (c *cand) path() string {
	var parts []string
	for p := c; p != nil; p = p.via {
		parts = append(parts, p.node.Symbol()+p.node.Name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}
