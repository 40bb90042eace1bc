// Package dispatch implements the AT command router's static dispatch
// table: an ordered list of (Matcher, Action) pairs matched first-hit,
// linearly, exactly as spec.md's design notes describe — no sorting, no
// map lookup, because a shorter prefix pattern must be allowed to shadow
// (or be shadowed by) a longer one depending on table order alone.
package dispatch

import "strings"

// MatchKind distinguishes an exact-string pattern from a prefix pattern.
// This replaces the source's "!"-prefix string convention with a tagged
// variant, per spec.md's design notes.
type MatchKind int

const (
	// Exact matches the command remainder (after the "AT" prefix has been
	// stripped) against Pattern verbatim.
	Exact MatchKind = iota
	// Prefix matches any command remainder that begins with Pattern.
	Prefix
)

// Matcher is one entry's pattern.
type Matcher struct {
	Kind    MatchKind
	Pattern string
}

// Match reports whether cmd (the AT line with its "AT" prefix already
// stripped) matches this pattern.
func (m Matcher) Match(cmd string) bool {
	switch m.Kind {
	case Exact:
		return cmd == m.Pattern
	case Prefix:
		return strings.HasPrefix(cmd, m.Pattern)
	default:
		return false
	}
}

// MatchExact builds an exact-match Matcher.
func MatchExact(pattern string) Matcher { return Matcher{Kind: Exact, Pattern: pattern} }

// MatchPrefix builds a prefix-match Matcher.
func MatchPrefix(pattern string) Matcher { return Matcher{Kind: Prefix, Pattern: pattern} }

// Entry pairs a Matcher with what happens on a hit. Exactly one of
// Literal or Handler should be meaningful; if both are empty/nil the
// default action is a bare "OK" reply, matching the source table's many
// entries with a NULL handler and NULL literal answer.
type Entry[T any] struct {
	Matcher Matcher
	Literal string
	Handler func(ctx T, cmd string)
}

// Table is the ordered dispatch list. T is whatever context type the
// handlers close over — in this repository, *basebandsim.Instance.
type Table[T any] []Entry[T]

// Dispatch finds the first entry whose Matcher matches cmd and runs its
// action. reply is invoked with the literal text for LiteralReply/Default
// actions; Handler actions are expected to produce their own reply via
// the instance's framer and do not use reply at all. On no match, reply
// is called with "ERROR: UNSUPPORTED".
func (t Table[T]) Dispatch(ctx T, cmd string, reply func(string)) {
	for _, e := range t {
		if !e.Matcher.Match(cmd) {
			continue
		}
		switch {
		case e.Handler != nil:
			e.Handler(ctx, cmd)
		case e.Literal != "":
			reply(e.Literal)
		default:
			reply("OK")
		}
		return
	}
	reply("ERROR: UNSUPPORTED")
}
