package opttab

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestArgListQueries(t *testing.T) {
	tbl := newDriverTable(t)
	list, err := tbl.Parse([]string{"-O1", "a.c", "-O3", "-v", "b.c", "--bogus"})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if !list.Has(optO) || !list.Has(optVerbose) {
		t.Fatal("Has missed present options")
	}
	if list.Has(optOutput) {
		t.Fatal("Has reported an absent option")
	}

	// Last occurrence wins for repeated options.
	if a := list.Last(optO); a == nil || a.Value() != "3" {
		t.Fatalf("Last(optO) = %+v, want value 3", a)
	}
	if got := list.LastValue(optO, "0"); got != "3" {
		t.Fatalf("LastValue(optO) = %q, want 3", got)
	}
	if got := list.LastValue(optOutput, "a.out"); got != "a.out" {
		t.Fatalf("LastValue fallback = %q, want a.out", got)
	}

	if all := list.All(optO); len(all) != 2 {
		t.Fatalf("All(optO) = %d records, want 2", len(all))
	}
	if got := list.AllValues(optO); !cmp.Equal(got, []string{"1", "3"}) {
		t.Fatalf("AllValues(optO) = %v", got)
	}

	inputs := list.Inputs()
	if len(inputs) != 2 || inputs[0].Value() != "a.c" || inputs[1].Value() != "b.c" {
		t.Fatalf("Inputs = %d records", len(inputs))
	}
	unknowns := list.Unknowns()
	if len(unknowns) != 1 || unknowns[0].Spelling() != "--bogus" {
		t.Fatalf("Unknowns = %+v", unknowns)
	}
}

func TestFilteredByGroup(t *testing.T) {
	tbl := newDriverTable(t)
	list, err := tbl.Parse([]string{"-O1", "-g", "-v", "in.c"})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	codegen := list.FilteredByGroup(grpCodegen)
	if len(codegen) != 2 {
		t.Fatalf("codegen records = %d, want 2 (-O and -g)", len(codegen))
	}

	// Nested group membership: codegen sits under general, so general
	// filtering also catches --verbose.
	general := list.FilteredByGroup(grpGeneral)
	if len(general) != 3 {
		t.Fatalf("general records = %d, want 3", len(general))
	}
}

func TestRenderRoundTrip(t *testing.T) {
	tbl := newDriverTable(t)
	cases := [][]string{
		{"-O2", "in.c"},
		{"-O3", "-o", "a.out", "b.c"},
		{"-Wall,unused"},
		{"--plugin", "name", "conf", "x.c"},
		{"-Iinc", "--trace"},
	}
	for _, tokens := range cases {
		list, err := tbl.Parse(tokens)
		if err != nil {
			t.Fatalf("Parse(%v) failed: %v", tokens, err)
		}
		rendered := list.Render()
		if diff := cmp.Diff(tokens, rendered); diff != "" {
			t.Errorf("Render(%v) mismatch (-want +got):\n%s", tokens, diff)
		}

		// Rendered output parses back to the same records.
		again, err := tbl.Parse(rendered)
		if err != nil {
			t.Fatalf("reparse of %v failed: %v", rendered, err)
		}
		if diff := cmp.Diff(flatten(list), flatten(again)); diff != "" {
			t.Errorf("reparse of %v diverged (-first +again):\n%s", rendered, diff)
		}
	}
}

func TestRenderAliasUsesTargetForm(t *testing.T) {
	tbl := newDriverTable(t)
	list, err := tbl.Parse([]string{"-v"})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	// The matched spelling is preserved through the rewrite, so rendering
	// reproduces what the user typed.
	if got := list.Render(); !cmp.Equal(got, []string{"-v"}) {
		t.Fatalf("Render = %v, want [-v]", got)
	}
}

func TestRenderFlagsOverrideKindForm(t *testing.T) {
	const (
		idSep = FirstDeclaredID + iota
		idJoin
		idDrop
	)
	tbl := MustTable(nil, []Option{
		{ID: idSep, Name: "X", Prefixes: []string{"-"}, Kind: KindJoined, Flags: RenderSeparate},
		{ID: idJoin, Name: "Y", Prefixes: []string{"-"}, Kind: KindSeparate, Flags: RenderJoined},
		{ID: idDrop, Name: "Z", Prefixes: []string{"-"}, Kind: KindJoined, Flags: RenderAsInput},
	})

	list, err := tbl.Parse([]string{"-Xfoo", "-Y", "bar", "-Zbaz"})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := []string{"-X", "foo", "-Ybar", "baz"}
	if got := list.Render(); !cmp.Equal(got, want) {
		t.Fatalf("Render = %v, want %v", got, want)
	}
}
