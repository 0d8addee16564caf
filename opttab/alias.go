package opttab

import (
	"fmt"

	"github.com/dzonerzy/go-opttab/internal/pool"
)

// Alias resolution rewrites a matched alias record into its target before
// the record is appended. Plain aliases just swap the descriptor; aliases
// with fixed AliasArgs feed those tokens to the target ahead of whatever
// the original token supplied, and any tokens the target does not consume
// re-enter the matcher in place. Chains are walked transitively; cycles are
// rejected at table build, so the per-parse guard here only defends the
// invariant.

// appendResolved appends the record for a match of option id, rewriting
// aliases transitively. Resolution is idempotent: a non-alias descriptor is
// appended unchanged.
func (p *Parser) appendResolved(list *ArgList, id ID, spelling string, index int, values []string) error {
	visited := pool.GetIDSlice()
	defer pool.PutIDSlice(visited)

	for {
		o := p.table.Option(id)
		if o == nil || o.Alias == InvalidID {
			list.append(id, spelling, index, values...)
			return nil
		}

		for _, seen := range *visited {
			if seen == uint32(id) {
				return &ParseError{
					Type:       ErrorTypeAliasCycle,
					Message:    fmt.Sprintf("alias cycle through option %q", spelling),
					TokenIndex: index,
					Option:     id,
				}
			}
		}
		*visited = append(*visited, uint32(id))

		if len(o.AliasArgs) == 0 {
			// Plain rewrite: same values, effective descriptor becomes the
			// target. The matched spelling is preserved for diagnostics
			// and rendering.
			id = o.Alias
			continue
		}

		return p.expandAliasArgs(list, o, spelling, index, values)
	}
}

// expandAliasArgs handles an alias carrying fixed arguments. The target
// consumes what its own arity rule demands from the stream of AliasArgs
// followed by the originally consumed values; leftover stream tokens are
// matched again at the same source position, which is how one alias can
// expand into several records.
func (p *Parser) expandAliasArgs(list *ArgList, o *Option, spelling string, index int, values []string) error {
	stream := pool.GetStringSlice()
	defer pool.PutStringSlice(stream)
	*stream = append(*stream, o.AliasArgs...)
	*stream = append(*stream, values...)

	target := p.table.Option(o.Alias)
	take := streamArity(target, len(*stream))
	if take > len(*stream) {
		return missingArgumentErr(target, spelling, index)
	}

	taken := (*stream)[:take]
	if target.Kind.arity() == arityCommaList && take == 1 {
		taken = splitComma(taken[0])
	}
	if err := p.appendResolved(list, o.Alias, spelling, index, taken); err != nil {
		return err
	}

	// Leftover expansion tokens re-enter the matcher. They are matched
	// against the expansion stream only; an option needing more values
	// than the stream holds is a missing-argument failure.
	leftover := (*stream)[take:]
	j := 0
	for j < len(leftover) {
		next, err := p.matchOne(list, leftover, j, index)
		if err != nil {
			return err
		}
		j = next
	}
	return nil
}

// streamArity returns how many stream tokens the target consumes when fed
// through an alias expansion.
func streamArity(target *Option, available int) int {
	switch target.Kind.arity() {
	case arityNone:
		return 0
	case arityJoined, arityNext, arityCommaList, arityJoinedOrNext:
		return 1
	case arityJoinedAndNext:
		return 2
	case arityFixed:
		return target.NumArgs
	case arityRest, arityJoinedAndRest:
		return available
	}
	return 0
}
