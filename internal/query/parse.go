package query

import (
	"strconv"
	"strings"
)

// Directness says how a segment's matches relate to their scope.
type Directness int

const (
	Descendant Directness = iota
	ChildOnly
)

func (d Directness) String() string {
	if d == ChildOnly {
		return "child"
	}
	return "descendant"
}

// IndexPick selects one candidate by rank in visual order. Rank is
// 1-based; 0 means last. PerScope picks rank within each scope
// independently instead of across the whole candidate set.
type IndexPick struct {
	Rank     int
	PerScope bool
}

// Segment is one type+name unit of a query.
type Segment struct {
	Symbol     Symbol
	NameQuery  string
	Directness Directness
	// Pick is an inline index modifier attached to this segment; nil
	// when absent. The final segment's pick lives on the Plan instead.
	Pick *IndexPick
}

// Plan is a parsed query: the resolved segments plus every global
// modifier. Parsing never fails; degenerate input yields an empty plan.
type Plan struct {
	Raw string

	// Page is the page-switch directive's name query when the query
	// began with a #-gated segment; empty otherwise.
	Page     string
	Segments []Segment

	// ChildRooted is set when the query began with a bare "/" or "//":
	// matching is anchored strictly below the initial scopes and scope
	// nodes never match themselves.
	ChildRooted bool

	First      bool // --f: stop at the first overall match
	FirstEach  bool // --fe: first match per scope at the final segment
	HiddenOnly bool // --h: final segment matches hidden nodes only
	AllVis     bool // --a: ignore visibility everywhere

	// Pick is the trailing index modifier applied to the final result
	// set (or per scope at the final segment when PerScope).
	Pick *IndexPick
}

// Empty reports whether parsing found nothing to evaluate.
func (p *Plan) Empty() bool {
	return len(p.Segments) == 0 && p.Page == ""
}

// part is a slash-delimited slice of the raw query before modifier and
// symbol extraction.
type part struct {
	text   string
	direct bool // the separator before this part was //
}

// Parse turns a raw query string into a Plan. The parser is soft:
// unmatched quotes run to end of string, unknown leading symbols mean
// "any type", unrecognized --tokens stay in the name text, and an
// empty cleaned query parses to an empty plan rather than an error.
func Parse(raw string) *Plan {
	p := &Plan{Raw: raw}
	s := strings.TrimSpace(raw)
	if s == "" {
		return p
	}

	parts := splitParts(s)
	slashed := len(parts) > 1
	if slashed && strings.TrimSpace(parts[0].text) == "" {
		// Leading "/" or "//": anchor below the initial scopes. The
		// boundary's directness flag already sits on the next part.
		p.ChildRooted = true
		parts = parts[1:]
	}

	last := len(parts) - 1
	for i, pt := range parts {
		text, mods := extractModifiers(pt.text)
		final := i == last
		seg, ok := buildSegment(text, pt.direct, final && slashed)
		for _, m := range mods {
			p.applyModifier(m, seg, final || !ok)
		}
		if !ok {
			continue
		}
		p.Segments = append(p.Segments, *seg)
	}

	// Leading #Name is the page-switch directive, not a regular gate.
	if !p.ChildRooted && len(p.Segments) > 0 && p.Segments[0].Symbol == SymbolPage {
		p.Page = p.Segments[0].NameQuery
		p.Segments = p.Segments[1:]
		if len(p.Segments) == 0 {
			p.Segments = nil
		}
	}
	return p
}

// splitParts splits on unquoted slashes. A double slash is one
// boundary whose directness flag attaches to the following part.
func splitParts(s string) []part {
	var parts []part
	var buf strings.Builder
	direct := false
	inQuote := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			inQuote = !inQuote
			buf.WriteByte(c)
		case c == '/' && !inQuote:
			parts = append(parts, part{text: buf.String(), direct: direct})
			buf.Reset()
			direct = false
			if i+1 < len(s) && s[i+1] == '/' {
				direct = true
				i++
			}
		default:
			buf.WriteByte(c)
		}
	}
	parts = append(parts, part{text: buf.String(), direct: direct})
	return parts
}

// modifier is one recognized --token.
type modifier struct {
	flag byte // 'f', 'e' (fe), 'h', 'a', or 0 for an index pick
	pick *IndexPick
}

// extractModifiers strips recognized double-dash tokens from a part's
// text. Tokens inside quotes are literal name text; unrecognized
// tokens stay in place so quoting rules remain the only escape hatch
// users need to know.
func extractModifiers(text string) (string, []modifier) {
	var out strings.Builder
	var mods []modifier
	for i := 0; i < len(text); {
		c := text[i]
		if c == '"' {
			// Copy the quoted run verbatim.
			out.WriteByte(c)
			i++
			for i < len(text) {
				out.WriteByte(text[i])
				if text[i] == '"' {
					i++
					break
				}
				i++
			}
			continue
		}
		atBoundary := i == 0 || isSpace(text[i-1])
		if c == '-' && atBoundary && i+1 < len(text) && text[i+1] == '-' {
			end := i
			for end < len(text) && !isSpace(text[end]) && text[end] != '"' {
				end++
			}
			if m, ok := classifyModifier(text[i:end]); ok {
				mods = append(mods, m)
				i = end
				continue
			}
		}
		out.WriteByte(c)
		i++
	}
	return out.String(), mods
}

func classifyModifier(tok string) (modifier, bool) {
	body := tok[2:]
	switch body {
	case "f":
		return modifier{flag: 'f'}, true
	case "fe":
		return modifier{flag: 'e'}, true
	case "h":
		return modifier{flag: 'h'}, true
	case "a":
		return modifier{flag: 'a'}, true
	}
	perScope := false
	if strings.HasSuffix(body, "e") {
		perScope = true
		body = body[:len(body)-1]
	}
	if body == "" {
		return modifier{}, false
	}
	for i := 0; i < len(body); i++ {
		if body[i] < '0' || body[i] > '9' {
			return modifier{}, false
		}
	}
	rank, err := strconv.Atoi(body)
	if err != nil {
		return modifier{}, false
	}
	return modifier{pick: &IndexPick{Rank: rank, PerScope: perScope}}, true
}

// buildSegment assembles one segment from its cleaned text. An empty
// part after a slash in final position becomes the implicit wildcard
// segment; interior empties from degenerate input are dropped.
func buildSegment(text string, direct, wildcardOK bool) (*Segment, bool) {
	seg := &Segment{Directness: Descendant}
	if direct {
		seg.Directness = ChildOnly
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		if wildcardOK {
			return seg, true // implicit wildcard
		}
		return seg, false
	}
	if sym, ok := symbolFor(trimmed[0]); ok {
		seg.Symbol = sym
		trimmed = strings.TrimSpace(trimmed[1:])
	}
	seg.NameQuery = trimmed
	return seg, true
}

// applyModifier routes one recognized token: visibility and first-match
// flags are global wherever they appear; an index pick on the final
// segment is the query's trailing pick, elsewhere it binds inline to
// its segment.
func (p *Plan) applyModifier(m modifier, seg *Segment, global bool) {
	switch m.flag {
	case 'f':
		p.First = true
	case 'e':
		p.FirstEach = true
	case 'h':
		p.HiddenOnly = true
	case 'a':
		p.AllVis = true
	default:
		if m.pick == nil {
			return
		}
		if global {
			p.Pick = m.pick
		} else {
			seg.Pick = m.pick
		}
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
