package parser

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// TestParseTreeSnapshot pins the re-printed form of a program that exercises
// the desugaring paths (else-if chains, compound assignment) against a
// recorded snapshot, the way the teacher pins interpreter fixture output.
func TestParseTreeSnapshot(t *testing.T) {
	const src = `
let total = 0;
fn classify(n) {
	if n < 0 {
		"negative"
	} else if n == 0 {
		"zero"
	} else {
		"positive"
	}
}

loop {
	total += 1;
	if total >= 3 {
		break;
	}
}
`
	prog := mustParse(t, src)
	snaps.MatchSnapshot(t, prog.String())
}
