// derive_target derives the mainnet addresses a BIP39 phrase controls at the
// first index of each supported derivation path, for building search targets
// when testing.
//
// Usage:
//
//	go run ./scripts/derive_target "your 12 or 24 word phrase"
//
// Or with stdin:
//
//	echo "your 12 or 24 word phrase" | go run ./scripts/derive_target
//
// Note: The phrase must already be in its correct order and is validated
// against the English wordlist. Scramble the words afterwards to exercise
// the search.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/complex-gh/unscramble"
)

func main() {
	var phrase string

	if len(os.Args) > 1 {
		phrase = strings.Join(os.Args[1:], " ")
	} else {
		scanner := bufio.NewScanner(os.Stdin)
		if scanner.Scan() {
			phrase = strings.TrimSpace(scanner.Text())
		}
	}

	if phrase == "" {
		fmt.Fprintln(os.Stderr, "Usage: derive_target \"12 or 24 word phrase\"")
		fmt.Fprintln(os.Stderr, "   or: echo \"phrase\" | derive_target")
		os.Exit(1)
	}

	for _, scheme := range []unscramble.Scheme{unscramble.Legacy, unscramble.WrappedSegwit, unscramble.NativeSegwit} {
		addr, err := unscramble.DeriveAddress(phrase, scheme, 0)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s (%s %s)\n", addr, scheme.Description(), scheme.Path(0))
	}
}
