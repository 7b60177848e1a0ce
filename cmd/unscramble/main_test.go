package main

import (
	"context"
	"strings"
	"testing"

	"github.com/complex-gh/unscramble"
	"github.com/matryer/is"
)

// TestRun_RejectsBadFlags verifies flag validation fails the run before any
// words are gathered or permutations searched
func TestRun_RejectsBadFlags(t *testing.T) {
	is := is.New(t)
	defer func(mp uint64, ai uint32) { maxPerms, addrIndex = mp, ai }(maxPerms, addrIndex)

	words := strings.Fields("alpha bravo charlie delta echo foxtrot golf hotel india juliet kilo lima")

	// a zero budget would search nothing
	maxPerms = 0
	err := run(context.Background(), "bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu", words)
	is.True(err != nil)

	// an index in the hardened range cannot be addressed
	maxPerms = 10
	addrIndex = unscramble.MaxDerivationIndex + 1
	err = run(context.Background(), "bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu", words)
	is.True(err != nil)
}
