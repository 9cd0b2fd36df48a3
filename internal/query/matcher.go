package query

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Matcher reports whether a candidate name satisfies a name query.
type Matcher func(name string) bool

// Built matchers are pure functions of the query text, so a bounded
// shared cache is safe across documents and searches.
const matcherCacheSize = 256

var matcherCache, _ = lru.New[string, Matcher](matcherCacheSize)

// MatcherFor returns the memoized matcher for a name query.
func MatcherFor(nameQuery string) Matcher {
	if m, ok := matcherCache.Get(nameQuery); ok {
		return m
	}
	m := buildMatcher(nameQuery)
	matcherCache.Add(nameQuery, m)
	return m
}

// nameToken is one AND-ed term of a name query.
type nameToken struct {
	text   string
	quoted bool
}

func buildMatcher(nameQuery string) Matcher {
	trimmed := strings.TrimSpace(nameQuery)
	if trimmed == "" {
		return func(string) bool { return true }
	}

	tokens := tokenizeName(trimmed)
	if len(tokens) == 0 {
		return func(string) bool { return true }
	}

	// A single fully-quoted token is an exact full-name match, not a
	// substring test.
	if len(tokens) == 1 && tokens[0].quoted &&
		len(trimmed) >= 2 && trimmed[0] == '"' && trimmed[len(trimmed)-1] == '"' {
		want := tokens[0].text
		return func(name string) bool { return name == want }
	}

	// Pre-lower unquoted tokens once; quoted tokens stay case-sensitive.
	terms := make([]nameToken, len(tokens))
	for i, tok := range tokens {
		if tok.quoted {
			terms[i] = tok
		} else {
			terms[i] = nameToken{text: strings.ToLower(tok.text)}
		}
	}
	return func(name string) bool {
		lower := strings.ToLower(name)
		for _, term := range terms {
			if term.quoted {
				if !strings.Contains(name, term.text) {
					return false
				}
			} else if !strings.Contains(lower, term.text) {
				return false
			}
		}
		return true
	}
}

// NameTerm is one AND-ed term of a name query, as a matcher
// interprets it.
type NameTerm struct {
	Text   string
	Quoted bool
}

// DescribeName reports how a name query will be matched: the AND-ed
// terms, and whether the whole query is an exact full-name match (a
// single fully-quoted token). No terms means every name matches.
func DescribeName(nameQuery string) (terms []NameTerm, exact bool) {
	trimmed := strings.TrimSpace(nameQuery)
	if trimmed == "" {
		return nil, false
	}
	tokens := tokenizeName(trimmed)
	if len(tokens) == 0 {
		return nil, false
	}
	if len(tokens) == 1 && tokens[0].quoted &&
		len(trimmed) >= 2 && trimmed[0] == '"' && trimmed[len(trimmed)-1] == '"' {
		return []NameTerm{{Text: tokens[0].text, Quoted: true}}, true
	}
	for _, tok := range tokens {
		terms = append(terms, NameTerm{Text: tok.text, Quoted: tok.quoted})
	}
	return terms, false
}

// tokenizeName splits a name query on unquoted whitespace. A quote
// toggles literal mode: everything up to the closing quote (or end of
// string when unmatched) is one token, slashes and spaces included.
func tokenizeName(s string) []nameToken {
	var tokens []nameToken
	var buf strings.Builder
	flush := func(quoted bool) {
		if quoted || buf.Len() > 0 {
			tokens = append(tokens, nameToken{text: buf.String(), quoted: quoted})
		}
		buf.Reset()
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			flush(false)
			i++
			for i < len(s) && s[i] != '"' {
				buf.WriteByte(s[i])
				i++
			}
			flush(true)
		case isSpace(c):
			flush(false)
		default:
			buf.WriteByte(c)
		}
	}
	flush(false)
	return tokens
}
