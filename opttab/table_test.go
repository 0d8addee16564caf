package opttab

import (
	"strings"
	"testing"

	"github.com/agilira/go-errors"
)

// Shared compiler-driver style fixture used across the package tests.
const (
	optVerbose ID = FirstDeclaredID + iota
	optV
	optO2
	optO
	optOutput
	optInclude
	optWarn
	optPlugin
	optDebug
	optG
	optArgs
	optTrace
)

const (
	grpGeneral GroupID = 1 + iota
	grpCodegen
)

func driverOptions() []Option {
	return []Option{
		{ID: optVerbose, Name: "verbose", Prefixes: []string{"--"}, Kind: KindFlag, Group: grpGeneral, Help: "enable verbose output"},
		{ID: optV, Name: "v", Prefixes: []string{"-"}, Kind: KindFlag, Alias: optVerbose},
		{ID: optO2, Name: "O2", Prefixes: []string{"-"}, Kind: KindFlag, Group: grpCodegen},
		{ID: optO, Name: "O", Prefixes: []string{"-"}, Kind: KindJoined, Group: grpCodegen, Help: "optimization level"},
		{ID: optOutput, Name: "o", Prefixes: []string{"-"}, Kind: KindSeparate, Help: "output file"},
		{ID: optInclude, Name: "I", Prefixes: []string{"-"}, Kind: KindJoinedOrSeparate, Help: "include path"},
		{ID: optWarn, Name: "W", Prefixes: []string{"-"}, Kind: KindCommaJoined},
		{ID: optPlugin, Name: "plugin", Prefixes: []string{"--"}, Kind: KindMultiArg, NumArgs: 2},
		{ID: optDebug, Name: "debug", Prefixes: []string{"--"}, Kind: KindFlag, Alias: optG, AliasArgs: []string{"--verbose"}},
		{ID: optG, Name: "g", Prefixes: []string{"-"}, Kind: KindFlag, Group: grpCodegen},
		{ID: optArgs, Name: "args", Prefixes: []string{"--"}, Kind: KindRemainingArgs},
		{ID: optTrace, Name: "trace", Prefixes: []string{"--"}, Kind: KindJoined, Flags: AllowEmptyValue},
	}
}

func driverGroups() []Group {
	return []Group{
		{Name: "general"},
		{Name: "codegen", Parent: grpGeneral},
	}
}

func newDriverTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := NewTable(driverGroups(), driverOptions())
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}
	return tbl
}

func errCode(t *testing.T, err error) string {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	coder, ok := err.(errors.ErrorCoder)
	if !ok {
		t.Fatalf("error %v does not carry a code", err)
	}
	return string(coder.ErrorCode())
}

func TestNewTableValid(t *testing.T) {
	tbl := newDriverTable(t)
	if got := tbl.NumOptions(); got != len(driverOptions()) {
		t.Fatalf("NumOptions = %d, want %d", got, len(driverOptions()))
	}
	if o := tbl.Option(optO); o == nil || o.Name != "O" {
		t.Fatalf("Option(optO) = %+v", o)
	}
	if o := tbl.Option(InvalidID); o != nil {
		t.Fatalf("Option(InvalidID) = %+v, want nil", o)
	}
	if g := tbl.Group(grpCodegen); g == nil || g.Name != "codegen" {
		t.Fatalf("Group(grpCodegen) = %+v", g)
	}
}

func TestNewTableRejections(t *testing.T) {
	cases := []struct {
		name     string
		groups   []Group
		options  []Option
		wantCode string
	}{
		{
			name:     "reserved id",
			options:  []Option{{ID: InputID, Name: "x", Prefixes: []string{"-"}, Kind: KindFlag}},
			wantCode: ErrCodeInvalidTable,
		},
		{
			name: "duplicate id",
			options: []Option{
				{ID: FirstDeclaredID, Name: "a", Prefixes: []string{"-"}, Kind: KindFlag},
				{ID: FirstDeclaredID, Name: "b", Prefixes: []string{"-"}, Kind: KindFlag},
			},
			wantCode: ErrCodeInvalidTable,
		},
		{
			name:     "sentinel kind declared",
			options:  []Option{{ID: FirstDeclaredID, Name: "x", Prefixes: []string{"-"}, Kind: KindInput}},
			wantCode: ErrCodeInvalidTable,
		},
		{
			name:     "missing prefix",
			options:  []Option{{ID: FirstDeclaredID, Name: "x", Kind: KindFlag}},
			wantCode: ErrCodeInvalidTable,
		},
		{
			name:     "multiarg without count",
			options:  []Option{{ID: FirstDeclaredID, Name: "x", Prefixes: []string{"-"}, Kind: KindMultiArg}},
			wantCode: ErrCodeInvalidTable,
		},
		{
			name:     "numargs on non-multiarg",
			options:  []Option{{ID: FirstDeclaredID, Name: "x", Prefixes: []string{"-"}, Kind: KindFlag, NumArgs: 2}},
			wantCode: ErrCodeInvalidTable,
		},
		{
			name:     "dangling group",
			options:  []Option{{ID: FirstDeclaredID, Name: "x", Prefixes: []string{"-"}, Kind: KindFlag, Group: 5}},
			wantCode: ErrCodeInvalidTable,
		},
		{
			name:     "dangling alias",
			options:  []Option{{ID: FirstDeclaredID, Name: "x", Prefixes: []string{"-"}, Kind: KindFlag, Alias: 99}},
			wantCode: ErrCodeInvalidTable,
		},
		{
			name:     "alias args without target",
			options:  []Option{{ID: FirstDeclaredID, Name: "x", Prefixes: []string{"-"}, Kind: KindFlag, AliasArgs: []string{"-y"}}},
			wantCode: ErrCodeInvalidTable,
		},
		{
			name: "alias cycle",
			options: []Option{
				{ID: FirstDeclaredID, Name: "a", Prefixes: []string{"-"}, Kind: KindFlag, Alias: FirstDeclaredID + 1},
				{ID: FirstDeclaredID + 1, Name: "b", Prefixes: []string{"-"}, Kind: KindFlag, Alias: FirstDeclaredID},
			},
			wantCode: ErrCodeAliasCycle,
		},
		{
			name: "duplicate spelling same kind",
			options: []Option{
				{ID: FirstDeclaredID, Name: "x", Prefixes: []string{"-"}, Kind: KindFlag},
				{ID: FirstDeclaredID + 1, Name: "x", Prefixes: []string{"-"}, Kind: KindFlag},
			},
			wantCode: ErrCodeAmbiguousMatch,
		},
		{
			name: "duplicate spelling interleaved with another kind",
			options: []Option{
				{ID: FirstDeclaredID, Name: "x", Prefixes: []string{"-"}, Kind: KindFlag},
				{ID: FirstDeclaredID + 1, Name: "x", Prefixes: []string{"-"}, Kind: KindJoined},
				{ID: FirstDeclaredID + 2, Name: "x", Prefixes: []string{"-"}, Kind: KindFlag},
			},
			wantCode: ErrCodeAmbiguousMatch,
		},
		{
			name:    "group parent cycle",
			groups:  []Group{{Name: "a", Parent: 2}, {Name: "b", Parent: 1}},
			options: []Option{{ID: FirstDeclaredID, Name: "x", Prefixes: []string{"-"}, Kind: KindFlag}},
			wantCode: ErrCodeInvalidTable,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTable(tc.groups, tc.options)
			if got := errCode(t, err); got != tc.wantCode {
				t.Fatalf("error code = %s, want %s (err: %v)", got, tc.wantCode, err)
			}
		})
	}
}

func TestSameSpellingDifferentKinds(t *testing.T) {
	// "-O2" as a Flag coexists with "-O" as Joined; kind disambiguates.
	tbl := newDriverTable(t)
	list, err := tbl.Parse([]string{"-O2", "-O3"})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if list.Len() != 2 {
		t.Fatalf("Len = %d, want 2", list.Len())
	}
	if got := list.At(0).Option(); got != optO2 {
		t.Errorf("record 0 option = %d, want optO2", got)
	}
	if a := list.At(1); a.Option() != optO || a.Value() != "3" {
		t.Errorf("record 1 = option %d value %q, want optO value 3", a.Option(), a.Value())
	}
}

func TestUnalias(t *testing.T) {
	tbl := newDriverTable(t)
	cases := []struct {
		in, want ID
	}{
		{optV, optVerbose},
		{optVerbose, optVerbose},
		{optDebug, optG},
		{optO, optO},
	}
	for _, tc := range cases {
		if got := tbl.Unalias(tc.in); got != tc.want {
			t.Errorf("Unalias(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
	// Idempotence: resolving a resolved ID is a no-op.
	if got := tbl.Unalias(tbl.Unalias(optV)); got != optVerbose {
		t.Errorf("double Unalias = %d, want optVerbose", got)
	}
}

func TestOptionsInGroup(t *testing.T) {
	tbl := newDriverTable(t)

	codegen := tbl.OptionsInGroup(grpCodegen)
	want := map[ID]bool{optO2: true, optO: true, optG: true}
	if len(codegen) != len(want) {
		t.Fatalf("codegen members = %v", codegen)
	}
	for _, id := range codegen {
		if !want[id] {
			t.Errorf("unexpected member %d", id)
		}
	}

	// Parent group includes nested group members.
	general := tbl.OptionsInGroup(grpGeneral)
	if len(general) != len(want)+1 { // codegen members plus --verbose
		t.Fatalf("general members = %v", general)
	}
}

func TestSpellings(t *testing.T) {
	tbl := newDriverTable(t)
	found := false
	for _, s := range tbl.Spellings() {
		if s == "--verbose" {
			found = true
		}
		if !strings.HasPrefix(s, "-") && !strings.HasPrefix(s, "/") {
			t.Errorf("spelling %q has no prefix", s)
		}
	}
	if !found {
		t.Error("--verbose missing from spellings")
	}
}

func TestMustTablePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("MustTable did not panic on invalid table")
		}
	}()
	MustTable(nil, []Option{{ID: InputID, Name: "x", Prefixes: []string{"-"}, Kind: KindFlag}})
}

func TestBarePrefixIsInput(t *testing.T) {
	tbl := newDriverTable(t)
	list, err := tbl.Parse([]string{"-", "--"})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	for i := 0; i < list.Len(); i++ {
		a := list.At(i)
		if a.Option() != InputID {
			t.Errorf("record %d option = %d, want InputID", i, a.Option())
		}
	}
}
