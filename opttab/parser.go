package opttab

import (
	"strings"
)

// Parser matches raw token streams against one table. A parser is cheap to
// construct and reusable; the table it references is immutable, so any
// number of parsers may share it concurrently as long as each parse gets
// its own ArgList.
type Parser struct {
	table           *Table
	sink            DiagnosticSink
	continueOnError bool
	suggestDistance int
}

// NewParser creates a parser with default settings: missing arguments are
// fatal and unknown-option suggestions are disabled.
func NewParser(t *Table) *Parser {
	return &Parser{table: t}
}

// WithSink forwards diagnostics to s as they are produced, in addition to
// collecting them on the ArgList.
func (p *Parser) WithSink(s DiagnosticSink) *Parser {
	p.sink = s
	return p
}

// ContinueOnError downgrades missing-argument failures to diagnostics: the
// offending option token is recorded as an Unknown sentinel and matching
// proceeds with the next token.
func (p *Parser) ContinueOnError() *Parser {
	p.continueOnError = true
	return p
}

// Suggestions enables "did you mean" spellings on unknown-option
// diagnostics, bounded by the given edit distance.
func (p *Parser) Suggestions(maxDistance int) *Parser {
	p.suggestDistance = maxDistance
	return p
}

// Parse consumes the whole token stream, producing exactly one record per
// match. Unmatched tokens become sentinel records rather than failures; a
// non-nil error is returned alongside the partially built list when a fatal
// condition occurs, or when any error-severity diagnostic was recorded.
func (p *Parser) Parse(tokens []string) (*ArgList, error) {
	list := newArgList(p.table, tokens)

	i := 0
	for i < len(tokens) {
		next, err := p.matchOne(list, tokens, i, i)
		if err != nil {
			pe, ok := err.(*ParseError)
			if !ok {
				return list, err
			}
			p.report(list, Diagnostic{
				Severity:   SeverityError,
				Type:       pe.Type,
				TokenIndex: pe.TokenIndex,
				Option:     pe.Option,
				Message:    pe.Message,
			})
			if !p.continueOnError {
				return list, pe.coded()
			}
			// Keep the offending token visible to downstream consumers.
			list.append(UnknownID, tokens[i], i)
			i++
			continue
		}
		i = next
	}

	return list, list.diags.FirstError()
}

// report attaches a diagnostic to the list and forwards it to the sink.
func (p *Parser) report(list *ArgList, d Diagnostic) {
	list.diags.Report(d)
	if p.sink != nil {
		p.sink.Report(d)
	}
}

// matchOne produces exactly one record (plus any alias expansion records)
// from tokens[i:]. reportIndex is the source position recorded on the
// result, which differs from i only while re-matching alias expansion
// tokens. Returns the index of the first unconsumed token.
func (p *Parser) matchOne(list *ArgList, tokens []string, i, reportIndex int) (int, error) {
	tok := tokens[i]

	// Tokens without a recognized option prefix are positional input; the
	// Input sentinel succeeds trivially.
	if tok == "" || !p.table.hasDeclaredPrefix(tok) {
		list.append(InputID, "", reportIndex, tok)
		return i + 1, nil
	}

	// O(1) fast path for exact Flag spellings. Flag precedence is minimal
	// and an exact match has maximal length, so nothing can outrank it.
	if id, ok := p.table.exactFlags[tok]; ok {
		if err := p.appendResolved(list, id, tok, reportIndex, nil); err != nil {
			return i, err
		}
		return i + 1, nil
	}

	// Candidates are pre-sorted by (precedence asc, spelling length desc);
	// the first hit is the best match.
	for ci := range p.table.candidates {
		c := &p.table.candidates[ci]
		next, matched, err := p.tryCandidate(list, c, tokens, i, reportIndex)
		if err != nil {
			return i, err
		}
		if matched {
			return next, nil
		}
	}

	// Prefixed but undeclared: Unknown sentinel, severity left to the
	// caller.
	p.report(list, unknownOptionDiag(tok, reportIndex, p.table, p.suggestDistance))
	list.append(UnknownID, tok, reportIndex)
	return i + 1, nil
}

// tryCandidate attempts one declared spelling against tokens[i] and, on a
// match, consumes values per the kind's arity rule.
func (p *Parser) tryCandidate(list *ArgList, c *candidate, tokens []string, i, reportIndex int) (int, bool, error) {
	tok := tokens[i]

	if c.kind.matchesExact() {
		if tok != c.spelling {
			return 0, false, nil
		}
	} else if !strings.HasPrefix(tok, c.spelling) {
		return 0, false, nil
	}
	rest := tok[len(c.spelling):]

	switch c.kind.arity() {
	case arityNone:
		err := p.appendResolved(list, c.id, c.spelling, reportIndex, nil)
		return i + 1, true, err

	case arityJoined:
		if rest == "" && !c.flags.Has(AllowEmptyValue) {
			// Empty joined value not allowed here; let a later candidate
			// or the sentinel take the token.
			return 0, false, nil
		}
		err := p.appendResolved(list, c.id, c.spelling, reportIndex, []string{rest})
		return i + 1, true, err

	case arityNext:
		if i+1 >= len(tokens) {
			return i, true, missingArgumentErr(p.table.Option(c.id), c.spelling, reportIndex)
		}
		err := p.appendResolved(list, c.id, c.spelling, reportIndex, tokens[i+1:i+2])
		return i + 2, true, err

	case arityCommaList:
		err := p.appendResolved(list, c.id, c.spelling, reportIndex, splitComma(rest))
		return i + 1, true, err

	case arityFixed:
		if i+c.numArgs >= len(tokens) {
			return i, true, missingArgumentErr(p.table.Option(c.id), c.spelling, reportIndex)
		}
		err := p.appendResolved(list, c.id, c.spelling, reportIndex, tokens[i+1:i+1+c.numArgs])
		return i + 1 + c.numArgs, true, err

	case arityJoinedOrNext:
		if rest != "" {
			err := p.appendResolved(list, c.id, c.spelling, reportIndex, []string{rest})
			return i + 1, true, err
		}
		if i+1 >= len(tokens) {
			return i, true, missingArgumentErr(p.table.Option(c.id), c.spelling, reportIndex)
		}
		err := p.appendResolved(list, c.id, c.spelling, reportIndex, tokens[i+1:i+2])
		return i + 2, true, err

	case arityJoinedAndNext:
		if i+1 >= len(tokens) {
			return i, true, missingArgumentErr(p.table.Option(c.id), c.spelling, reportIndex)
		}
		err := p.appendResolved(list, c.id, c.spelling, reportIndex, []string{rest, tokens[i+1]})
		return i + 2, true, err

	case arityRest:
		err := p.appendResolved(list, c.id, c.spelling, reportIndex, tokens[i+1:])
		return len(tokens), true, err

	case arityJoinedAndRest:
		var values []string
		if rest != "" {
			values = make([]string, 0, 1+len(tokens)-i-1)
			values = append(values, rest)
			values = append(values, tokens[i+1:]...)
		} else {
			// Token equal to the spelling: no joined segment present,
			// distinct from an empty one.
			values = tokens[i+1:]
		}
		err := p.appendResolved(list, c.id, c.spelling, reportIndex, values)
		return len(tokens), true, err
	}

	return 0, false, nil
}

// splitComma splits a joined remainder on commas; an empty remainder yields
// no values.
func splitComma(rest string) []string {
	if rest == "" {
		return nil
	}
	return strings.Split(rest, ",")
}
