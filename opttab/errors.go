package opttab

import (
	"fmt"

	"github.com/agilira/go-errors"

	"github.com/dzonerzy/go-opttab/internal/fuzzy"
)

// ErrorType categorizes matching and marshalling failures. The taxonomy
// drives severity decisions and sink routing; formatting is external.
type ErrorType string

const (
	ErrorTypeUnknownOption   ErrorType = "unknown_option"
	ErrorTypeMissingArgument ErrorType = "missing_argument"
	ErrorTypeAliasCycle      ErrorType = "alias_cycle"
	ErrorTypeValueParse      ErrorType = "value_parse"
	ErrorTypeAmbiguousMatch  ErrorType = "ambiguous_match"
	ErrorTypeInvalidTable    ErrorType = "invalid_table"
)

// Error codes surfaced at the API boundary.
const (
	ErrCodeInvalidTable    = "OPTTAB_INVALID_TABLE"
	ErrCodeAliasCycle      = "OPTTAB_ALIAS_CYCLE"
	ErrCodeAmbiguousMatch  = "OPTTAB_AMBIGUOUS_MATCH"
	ErrCodeUnknownOption   = "OPTTAB_UNKNOWN_OPTION"
	ErrCodeMissingArgument = "OPTTAB_MISSING_ARGUMENT"
	ErrCodeValueParse      = "OPTTAB_VALUE_PARSE"
)

// errCodeFor maps an ErrorType to its wire code.
func errCodeFor(t ErrorType) errors.ErrorCode {
	switch t {
	case ErrorTypeUnknownOption:
		return ErrCodeUnknownOption
	case ErrorTypeMissingArgument:
		return ErrCodeMissingArgument
	case ErrorTypeAliasCycle:
		return ErrCodeAliasCycle
	case ErrorTypeValueParse:
		return ErrCodeValueParse
	case ErrorTypeAmbiguousMatch:
		return ErrCodeAmbiguousMatch
	case ErrorTypeInvalidTable:
		return ErrCodeInvalidTable
	}
	return ErrCodeInvalidTable
}

// ParseError is a structured matching or marshalling error tied to a source
// position in the token stream.
type ParseError struct {
	Type       ErrorType
	Message    string
	TokenIndex int // offending token position, -1 when not positional
	Option     ID  // offending descriptor, InvalidID when none
	Suggestion string
}

func (e *ParseError) Error() string {
	return e.Message
}

// coded wraps a ParseError into a code-carrying error for the API boundary.
func (e *ParseError) coded() error {
	return errors.Wrap(e, errCodeFor(e.Type), e.Message)
}

// Severity ranks diagnostics. Errors mark the parse failed; warnings leave
// the severity decision to the caller.
type Severity uint8

const (
	SeverityWarning Severity = iota
	SeverityError
)

// String returns the severity's name.
func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Diagnostic is one structured error record emitted during matching or
// marshalling: the kind of failure, the offending token index, and the
// offending descriptor when one was involved.
type Diagnostic struct {
	Severity   Severity
	Type       ErrorType
	TokenIndex int
	Option     ID
	Message    string
	Suggestion string // closest declared spelling, when one is near enough
}

// DiagnosticSink receives diagnostics as they are produced. Implementations
// decide severity handling and presentation; the engine never prints.
type DiagnosticSink interface {
	Report(d Diagnostic)
}

// DiagnosticList is the default sink: an ordered collector.
type DiagnosticList struct {
	diags []Diagnostic
}

// Report appends a diagnostic to the list.
func (l *DiagnosticList) Report(d Diagnostic) {
	l.diags = append(l.diags, d)
}

// All returns the collected diagnostics in emission order.
func (l *DiagnosticList) All() []Diagnostic {
	return l.diags
}

// Len returns the number of collected diagnostics.
func (l *DiagnosticList) Len() int {
	return len(l.diags)
}

// HasErrors reports whether any collected diagnostic is error-severity.
func (l *DiagnosticList) HasErrors() bool {
	for _, d := range l.diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// FirstError returns the first error-severity diagnostic as a coded error,
// or nil when the list holds none.
func (l *DiagnosticList) FirstError() error {
	for _, d := range l.diags {
		if d.Severity == SeverityError {
			pe := &ParseError{
				Type:       d.Type,
				Message:    d.Message,
				TokenIndex: d.TokenIndex,
				Option:     d.Option,
				Suggestion: d.Suggestion,
			}
			return pe.coded()
		}
	}
	return nil
}

// Reset clears the list for reuse across parses without reallocating, for
// callers that feed one collector to several Parse calls as a sink.
func (l *DiagnosticList) Reset() {
	l.diags = l.diags[:0]
}

// suggestSpelling finds the closest declared spelling to an unrecognized
// token, for attachment to UnknownOption diagnostics.
func suggestSpelling(token string, t *Table, maxDistance int) string {
	if maxDistance <= 0 {
		return ""
	}
	return fuzzy.BestSpelling(token, t.Spellings(), maxDistance)
}

// unknownOptionDiag builds the diagnostic for a prefixed token that matched
// no descriptor.
func unknownOptionDiag(token string, index int, t *Table, maxDistance int) Diagnostic {
	return Diagnostic{
		Severity:   SeverityWarning,
		Type:       ErrorTypeUnknownOption,
		TokenIndex: index,
		Option:     UnknownID,
		Message:    fmt.Sprintf("unknown option: %s", token),
		Suggestion: suggestSpelling(token, t, maxDistance),
	}
}

// missingArgumentErr builds the error for an option that ran out of tokens.
func missingArgumentErr(o *Option, spelling string, index int) *ParseError {
	return &ParseError{
		Type:       ErrorTypeMissingArgument,
		Message:    fmt.Sprintf("option %q at index %d is missing a required value", spelling, index),
		TokenIndex: index,
		Option:     o.ID,
	}
}
