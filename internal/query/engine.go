package query

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gabrielrenderos/figq/internal/scene"
)

// Cancellation is cooperative: traversal checks the context every
// yieldEvery visited nodes. Hidden/all-visibility searches walk far
// more of the tree (no pruning), so they check on a tighter cadence.
const (
	yieldEvery       = 2048
	yieldEveryHidden = 256

	poolCacheSize   = 128
	resultCacheSize = 32
)

// Engine evaluates queries against scene documents. Its caches
// (segment candidate pools, whole-search results) are bounded LRUs and
// purely an optimization: a miss recomputes exactly what a hit would
// have returned.
type Engine struct {
	pools   *lru.Cache[poolKey, []*scene.Node]
	results *lru.Cache[resultKey, cachedResult]
}

type poolKey struct {
	scope  *scene.Node
	sym    Symbol
	mode   VisMode
	direct Directness
}

type resultKey struct {
	doc    *scene.Document
	page   *scene.Node
	raw    string
	scopes string
}

type cachedResult struct {
	status  Status
	matches []Match
	page    *scene.Node
}

// New creates an engine with empty caches.
func New() *Engine {
	pools, _ := lru.New[poolKey, []*scene.Node](poolCacheSize)
	results, _ := lru.New[resultKey, cachedResult](resultCacheSize)
	return &Engine{pools: pools, results: results}
}

// Options configure one search invocation.
type Options struct {
	// Selection seeds the scope resolver; empty means the whole
	// current page.
	Selection []*scene.Node
	// Page overrides the current page; defaults to the document's
	// first page. A page directive in the query wins over both.
	Page *scene.Node
	// Progress, when set, is called at the cancellation-check cadence
	// with the number of nodes visited so far.
	Progress func(visited int)
}

// run is the mutable state of one search, threaded through the
// traversal instead of living in globals so nothing needs resetting on
// exit paths.
type run struct {
	ctx      context.Context
	plan     *Plan
	engine   *Engine
	budget   int
	visited  int
	progress func(int)
}

// segPlan is one segment's resolved policies: gate, matcher,
// visibility and position, derived once before evaluation.
type segPlan struct {
	seg   Segment
	match Matcher
	mode  VisMode
	final bool
}

// Search evaluates a raw query against the document. It always returns
// a terminal result: matched nodes, a page-only hit, a clean no-match,
// a cancellation, or an error. Host failures (including panics out of
// document accessors) become StatusError rather than crashing the
// caller.
func (e *Engine) Search(ctx context.Context, doc *scene.Document, raw string, opts Options) (res *Result) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			res = &Result{Status: StatusError, Err: fmt.Errorf("search failed: %v", rec)}
		}
		res.Elapsed = time.Since(start)
	}()

	if doc == nil || len(doc.Pages) == 0 {
		return &Result{Status: StatusError, Err: fmt.Errorf("no document loaded")}
	}

	plan := Parse(raw)
	if plan.Empty() {
		return &Result{Status: StatusNoMatch}
	}

	r := &run{ctx: ctx, plan: plan, engine: e, budget: yieldEvery, progress: opts.Progress}
	if plan.HiddenOnly || plan.AllVis {
		r.budget = yieldEveryHidden
	}

	page := opts.Page
	if page == nil {
		page = doc.Pages[0]
	}

	var scopes []*cand
	var directivePage *scene.Node
	if plan.Page != "" {
		match := MatcherFor(plan.Page)
		for _, p := range doc.Pages {
			if match(p.Name) {
				directivePage = p
				break
			}
		}
		if directivePage == nil {
			return &Result{Status: StatusNoMatch}
		}
		if len(plan.Segments) == 0 {
			return &Result{Status: StatusPageOnly, Page: directivePage}
		}
		page = directivePage
		scopes = []*cand{{node: directivePage}}
	} else {
		for _, s := range initialScopes(page, opts.Selection, plan.ChildRooted) {
			scopes = append(scopes, &cand{node: s})
		}
	}
	if len(scopes) == 0 {
		return &Result{Status: StatusNoMatch}
	}

	key := resultKey{doc: doc, page: page, raw: plan.Raw, scopes: fingerprint(scopes)}
	if hit, ok := e.results.Get(key); ok {
		return &Result{
			Status:  hit.status,
			Matches: append([]Match(nil), hit.matches...),
			Page:    hit.page,
		}
	}

	final, err := r.evaluate(scopes)
	if err != nil {
		return &Result{Status: StatusCancelled, Visited: r.visited}
	}

	matches := make([]Match, len(final))
	for i, c := range final {
		matches[i] = Match{Node: c.node, Path: c.path()}
	}
	status := StatusMatched
	if len(matches) == 0 {
		status = StatusNoMatch
	}
	e.results.Add(key, cachedResult{
		status:  status,
		matches: append([]Match(nil), matches...),
		page:    directivePage,
	})
	return &Result{
		Status:  status,
		Matches: matches,
		Page:    directivePage,
		Visited: r.visited,
	}
}

// evaluate walks the segment chain, carrying the matched set forward
// as the next segment's scopes. The only error it returns is the
// context's, observed at a cancellation check.
func (r *run) evaluate(scopes []*cand) ([]*cand, error) {
	plan := r.plan
	lastScopes := scopes
	for i, seg := range plan.Segments {
		if err := r.ctx.Err(); err != nil {
			return nil, err
		}
		if len(scopes) == 0 {
			// A segment matched nothing; remaining segments cannot
			// match either.
			return nil, nil
		}

		sp := segPlan{
			seg:   seg,
			match: MatcherFor(seg.NameQuery),
			mode:  visModeFor(plan, i == len(plan.Segments)-1),
			final: i == len(plan.Segments)-1,
		}
		lastScopes = scopes

		var next []*cand
		var err error
		switch {
		case sp.final && plan.First:
			// Stop-at-first wins over every index modifier.
			var first *cand
			first, err = r.firstMatch(scopes, sp)
			if first != nil {
				next = []*cand{first}
			}
		case sp.final && r.finalPerScopeRank() > -1:
			next, err = r.perScopePick(scopes, sp, r.finalPerScopeRank())
		case seg.Pick != nil && !plan.First && seg.Pick.PerScope:
			next, err = r.perScopePick(scopes, sp, seg.Pick.Rank)
		case seg.Pick != nil && !plan.First:
			next, err = r.globalPick(scopes, sp, seg.Pick.Rank)
		default:
			next, err = r.plainMatch(scopes, sp)
		}
		if err != nil {
			return nil, err
		}
		scopes = next
	}

	// Trailing global pick: re-sort the final result set and keep one.
	if pick := plan.Pick; pick != nil && !pick.PerScope && !plan.First && len(scopes) > 0 {
		nodes := nodesOf(scopes)
		sortVisual(nodes, singleScope(lastScopes))
		picked, ok := pickRank(nodes, pick.Rank)
		if !ok {
			return nil, nil
		}
		for _, c := range scopes {
			if c.node == picked {
				return []*cand{c}, nil
			}
		}
	}
	return scopes, nil
}

// finalPerScopeRank resolves the per-scope rank requested for the
// final segment: an explicit --Ne wins, --fe is rank 1, -1 means no
// per-scope selection.
func (r *run) finalPerScopeRank() int {
	if r.plan.Pick != nil && r.plan.Pick.PerScope {
		return r.plan.Pick.Rank
	}
	if r.plan.FirstEach {
		return 1
	}
	return -1
}

// plainMatch gathers every qualifying candidate across the scopes,
// deduplicating nodes reachable from overlapping scopes.
func (r *run) plainMatch(scopes []*cand, sp segPlan) ([]*cand, error) {
	var out []*cand
	seen := make(map[*scene.Node]bool)
	for _, s := range scopes {
		if err := r.ctx.Err(); err != nil {
			return nil, err
		}
		cands, err := r.scopeCandidates(s, sp)
		if err != nil {
			return nil, err
		}
		for _, c := range cands {
			if !seen[c.node] {
				seen[c.node] = true
				out = append(out, c)
			}
		}
	}
	return out, nil
}

// globalPick gathers candidates across all scopes, sorts them in
// visual order and collapses the scope set to the requested rank.
func (r *run) globalPick(scopes []*cand, sp segPlan, rank int) ([]*cand, error) {
	var all []*cand
	seen := make(map[*scene.Node]bool)
	for _, s := range scopes {
		cands, err := r.scopeCandidates(s, sp)
		if err != nil {
			return nil, err
		}
		for _, c := range cands {
			if !seen[c.node] {
				seen[c.node] = true
				all = append(all, c)
			}
		}
	}
	nodes := nodesOf(all)
	sortVisual(nodes, singleScope(scopes))
	picked, ok := pickRank(nodes, rank)
	if !ok {
		return nil, nil
	}
	for _, c := range all {
		if c.node == picked {
			return []*cand{c}, nil
		}
	}
	return nil, nil
}

// perScopePick keeps at most one candidate per scope: each scope's
// candidates sorted in that scope's own visual order, rank applied
// independently.
func (r *run) perScopePick(scopes []*cand, sp segPlan, rank int) ([]*cand, error) {
	var out []*cand
	seen := make(map[*scene.Node]bool)
	for _, s := range scopes {
		if err := r.ctx.Err(); err != nil {
			return nil, err
		}
		cands, err := r.scopeCandidates(s, sp)
		if err != nil {
			return nil, err
		}
		nodes := nodesOf(cands)
		sortVisual(nodes, s.node)
		picked, ok := pickRank(nodes, rank)
		if !ok || seen[picked] {
			continue
		}
		seen[picked] = true
		for _, c := range cands {
			if c.node == picked {
				out = append(out, c)
				break
			}
		}
	}
	return out, nil
}

// firstMatch scans scopes in order and stops at the very first
// qualifying node, bypassing candidate pools so the work stays bounded
// by where the match sits, not by scope size.
func (r *run) firstMatch(scopes []*cand, sp segPlan) (*cand, error) {
	for _, s := range scopes {
		if err := r.ctx.Err(); err != nil {
			return nil, err
		}
		if r.selfQualifies(s, sp) {
			return &cand{node: s.node, via: s.via}, nil
		}
		if sp.seg.Directness == ChildOnly {
			for _, c := range s.node.Children {
				if err := r.tick(); err != nil {
					return nil, err
				}
				if sp.seg.Symbol.Matches(c) && sp.mode.admits(c) && sp.match(c.Name) {
					return &cand{node: c, via: s}, nil
				}
			}
			continue
		}
		var found *scene.Node
		if err := r.sweep(s.node, sp.mode, func(n *scene.Node) bool {
			if sp.seg.Symbol.Matches(n) && sp.mode.admits(n) && sp.match(n.Name) {
				found = n
				return false
			}
			return true
		}); err != nil {
			return nil, err
		}
		if found != nil {
			return &cand{node: found, via: s}, nil
		}
	}
	return nil, nil
}

// scopeCandidates lists one scope's qualifying candidates: the scope
// itself when self-matching applies, then gated children or
// descendants filtered through the name matcher.
func (r *run) scopeCandidates(s *cand, sp segPlan) ([]*cand, error) {
	var out []*cand
	if r.selfQualifies(s, sp) {
		out = append(out, &cand{node: s.node, via: s.via})
	}
	pool, err := r.pool(s.node, sp)
	if err != nil {
		return nil, err
	}
	for _, n := range pool {
		if sp.match(n.Name) {
			out = append(out, &cand{node: n, via: s})
		}
	}
	return out, nil
}

// selfQualifies applies the scope-self match rule: descendant segments
// may match their own scope node unless the query is child-rooted. The
// implicit wildcard from a trailing slash lists contents, never the
// scope itself.
func (r *run) selfQualifies(s *cand, sp segPlan) bool {
	if r.plan.ChildRooted || sp.seg.Directness == ChildOnly {
		return false
	}
	if sp.seg.Symbol == SymbolAny && sp.seg.NameQuery == "" {
		return false
	}
	n := s.node
	return sp.seg.Symbol.Matches(n) && sp.mode.admits(n) && sp.match(n.Name)
}

// pool returns the gate- and visibility-filtered candidates under one
// scope, cached per (scope, gate, mode, directness). The name matcher
// is applied by callers, so one pool serves many name queries. A
// cancelled computation is never cached.
func (r *run) pool(scope *scene.Node, sp segPlan) ([]*scene.Node, error) {
	key := poolKey{scope: scope, sym: sp.seg.Symbol, mode: sp.mode, direct: sp.seg.Directness}
	if nodes, ok := r.engine.pools.Get(key); ok {
		return nodes, nil
	}

	var nodes []*scene.Node
	if sp.seg.Directness == ChildOnly {
		for _, c := range scope.Children {
			if err := r.tick(); err != nil {
				return nil, err
			}
			if sp.seg.Symbol.Matches(c) && sp.mode.admits(c) {
				nodes = append(nodes, c)
			}
		}
	} else {
		if err := r.sweep(scope, sp.mode, func(n *scene.Node) bool {
			if sp.seg.Symbol.Matches(n) && sp.mode.admits(n) {
				nodes = append(nodes, n)
			}
			return true
		}); err != nil {
			return nil, err
		}
	}
	r.engine.pools.Add(key, nodes)
	return nodes, nil
}

// sweep walks a scope's subtree (excluding the scope itself) with the
// mode's pruning rules, counting visits toward the cancellation
// cadence.
func (r *run) sweep(scope *scene.Node, mode VisMode, visit func(*scene.Node) bool) error {
	var err error
	scene.Walk(scope, mode.includeHidden(), func(n *scene.Node) bool {
		if n == scope {
			return true
		}
		if e := r.tick(); e != nil {
			err = e
			return false
		}
		return visit(n)
	})
	return err
}

// tick counts one visited node and, at the cadence boundary, reports
// progress and observes cancellation.
func (r *run) tick() error {
	r.visited++
	if r.visited%r.budget == 0 {
		if r.progress != nil {
			r.progress(r.visited)
		}
		if err := r.ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}

func nodesOf(cands []*cand) []*scene.Node {
	nodes := make([]*scene.Node, len(cands))
	for i, c := range cands {
		nodes[i] = c.node
	}
	return nodes
}

// singleScope returns the only scope's node when the set has exactly
// one entry, giving flat sorts an axis context; nil otherwise.
func singleScope(scopes []*cand) *scene.Node {
	if len(scopes) == 1 {
		return scopes[0].node
	}
	return nil
}

// fingerprint identifies a scope set for result caching. Preorder
// positions are unique within a document.
func fingerprint(scopes []*cand) string {
	parts := make([]string, len(scopes))
	for i, s := range scopes {
		parts[i] = strconv.Itoa(s.node.Preorder)
	}
	return strings.Join(parts, ",")
}
