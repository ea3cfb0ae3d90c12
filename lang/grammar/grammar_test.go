// Package grammar holds the language's EBNF grammar as a checked-in
// artifact, verified against golang.org/x/exp/ebnf rather than hand-audited:
// a missing or undefined production fails the test instead of rotting
// silently alongside the compiler.
package grammar

import (
	"os"
	"testing"

	"golang.org/x/exp/ebnf"
)

func TestEBNF(t *testing.T) {
	f, err := os.Open("grammar.ebnf")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	g, err := ebnf.Parse("grammar.ebnf", f)
	if err != nil {
		t.Fatal(err)
	}
	if err := ebnf.Verify(g, "Program"); err != nil {
		t.Fatal(err)
	}
}
