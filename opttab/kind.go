package opttab

// Kind classifies how an option consumes argument tokens. It is a closed
// enumeration: every kind maps to a fixed arity rule and a matching
// precedence through the static kindInfos dispatch table, so the matcher
// never needs dynamic dispatch.
type Kind uint8

const (
	// KindInput is the sentinel for bare positional tokens. It never has a
	// declared spelling and always matches as a last resort.
	KindInput Kind = iota

	// KindUnknown is the sentinel for prefixed tokens that match no
	// descriptor. Like KindInput it always matches trivially.
	KindUnknown

	// KindFlag takes no value: the token must equal the spelling exactly.
	KindFlag

	// KindJoined takes its value from the remainder of the token after the
	// spelling ("-O2").
	KindJoined

	// KindSeparate takes the next token as its value ("-o out.bin").
	KindSeparate

	// KindCommaJoined splits the joined remainder on commas into multiple
	// values ("-Wl,-rpath,/usr/lib").
	KindCommaJoined

	// KindMultiArg takes a fixed number of following tokens, declared via
	// Option.NumArgs.
	KindMultiArg

	// KindJoinedOrSeparate accepts either form: joined remainder when
	// present, otherwise the next token.
	KindJoinedOrSeparate

	// KindJoinedAndSeparate takes two values: the joined remainder and the
	// next token.
	KindJoinedAndSeparate

	// KindRemainingArgs consumes every remaining token as values.
	KindRemainingArgs

	// KindRemainingArgsJoined consumes an optional joined remainder plus
	// every remaining token.
	KindRemainingArgsJoined
)

// arityRule is the token-consumption shape attached to each kind.
type arityRule uint8

const (
	arityNone          arityRule = iota // no extra tokens
	arityJoined                         // remainder of current token
	arityNext                           // exactly the next token
	arityCommaList                      // remainder split on commas
	arityFixed                          // NumArgs following tokens
	arityJoinedOrNext                   // remainder if present, else next token
	arityJoinedAndNext                  // remainder plus next token
	arityRest                           // all remaining tokens
	arityJoinedAndRest                  // optional remainder plus all remaining
)

// kindInfo carries the static matching behavior of one kind.
type kindInfo struct {
	name       string
	precedence uint8 // lower = tried first
	sentinel   bool
	arity      arityRule
}

// kindInfos is the dispatch table for all kinds. Precedence is total:
// exact-spelling kinds outrank prefix-consuming kinds so that a Flag "-O"
// beats a Joined "-O" on the exact token "-O", and sentinels sort last so
// they only ever match as a fallback.
var kindInfos = [...]kindInfo{
	KindInput:               {"input", 90, true, arityNone},
	KindUnknown:             {"unknown", 91, true, arityNone},
	KindFlag:                {"flag", 1, false, arityNone},
	KindSeparate:            {"separate", 2, false, arityNext},
	KindMultiArg:            {"multiarg", 2, false, arityFixed},
	KindRemainingArgs:       {"remaining-args", 2, false, arityRest},
	KindCommaJoined:         {"comma-joined", 3, false, arityCommaList},
	KindJoined:              {"joined", 4, false, arityJoined},
	KindJoinedOrSeparate:    {"joined-or-separate", 4, false, arityJoinedOrNext},
	KindJoinedAndSeparate:   {"joined-and-separate", 4, false, arityJoinedAndNext},
	KindRemainingArgsJoined: {"remaining-args-joined", 5, false, arityJoinedAndRest},
}

// String returns the kind's name.
func (k Kind) String() string {
	if int(k) < len(kindInfos) {
		return kindInfos[k].name
	}
	return "invalid"
}

// Precedence returns the kind's matching precedence; lower is tried first.
func (k Kind) Precedence() int {
	return int(kindInfos[k].precedence)
}

// Sentinel reports whether the kind is one of the synthetic fallback kinds
// (Input, Unknown) that never carry a declared spelling.
func (k Kind) Sentinel() bool {
	return kindInfos[k].sentinel
}

// valid reports whether k is a declared member of the enumeration.
func (k Kind) valid() bool {
	return int(k) < len(kindInfos)
}

// arity returns the kind's token-consumption rule.
func (k Kind) arity() arityRule {
	return kindInfos[k].arity
}

// matchesExact reports whether the kind requires the token to equal the
// spelling exactly (as opposed to accepting the spelling as a prefix).
func (k Kind) matchesExact() bool {
	switch k.arity() {
	case arityNone, arityNext, arityFixed, arityRest:
		return true
	case arityJoined, arityCommaList, arityJoinedOrNext, arityJoinedAndNext, arityJoinedAndRest:
		return false
	}
	return true
}
