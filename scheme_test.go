// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package unscramble

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

// TestDetectScheme tests inference from the three mainnet address prefixes
func TestDetectScheme(t *testing.T) {
	is := is.New(t)

	scheme, err := DetectScheme("bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu")
	is.NoErr(err)
	is.Equal(scheme, NativeSegwit)

	scheme, err = DetectScheme("37VucYSaXLCAsxYyAPfbSi9eh4iEcbShgf")
	is.NoErr(err)
	is.Equal(scheme, WrappedSegwit)

	scheme, err = DetectScheme("1LqBGSKuX5yYUonjxT5qGfpUsXKYYWeabA")
	is.NoErr(err)
	is.Equal(scheme, Legacy)
}

// TestDetectScheme_Ambiguous verifies that unrecognized prefixes surface
// ErrAmbiguousScheme instead of guessing
func TestDetectScheme_Ambiguous(t *testing.T) {
	is := is.New(t)

	unknown := []string{
		"",
		"xpub661MyMwAqRbcFtXgS5sYJABqqG9YLmC4Q1Rdap9gSE8NqtwybGhePY2gZ29ESFjqJoCu1Rupje8YtGqsefD265TMg7usUDFdp6W1EGMcet8",
		"0x52908400098527886E0F7030069857D2E4169EE7",
		"tb1qw508d6qejxtdg4y5r3zarvary0c5xw7kxpjzsx",
	}
	for _, addr := range unknown {
		_, err := DetectScheme(addr)
		is.True(errors.Is(err, ErrAmbiguousScheme))
	}
}

// TestScheme_Path tests derivation path rendering for each purpose
func TestScheme_Path(t *testing.T) {
	is := is.New(t)

	is.Equal(Legacy.Path(0), "m/44'/0'/0'/0/0")
	is.Equal(WrappedSegwit.Path(3), "m/49'/0'/0'/0/3")
	is.Equal(NativeSegwit.Path(1), "m/84'/0'/0'/0/1")

	is.Equal(Legacy.Purpose(), uint32(44))
	is.Equal(WrappedSegwit.Purpose(), uint32(49))
	is.Equal(NativeSegwit.Purpose(), uint32(84))
}

// TestScheme_String tests the short and long scheme names
func TestScheme_String(t *testing.T) {
	is := is.New(t)

	is.Equal(Legacy.String(), "bip44")
	is.Equal(WrappedSegwit.String(), "bip49")
	is.Equal(NativeSegwit.String(), "bip84")

	is.Equal(NativeSegwit.Description(), "native segwit P2WPKH (BIP84)")
}

// TestCanonicalAddress tests address canonicalization and mainnet checks
func TestCanonicalAddress(t *testing.T) {
	is := is.New(t)

	// valid mainnet addresses of each kind pass through unchanged
	for _, addr := range []string{
		"1LqBGSKuX5yYUonjxT5qGfpUsXKYYWeabA",
		"37VucYSaXLCAsxYyAPfbSi9eh4iEcbShgf",
		"bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu",
	} {
		got, err := CanonicalAddress(addr)
		is.NoErr(err)
		is.Equal(got, addr)
	}

	// upper case bech32 is legal on the wire but canonicalizes to lower
	got, err := CanonicalAddress("BC1QW508D6QEJXTDG4Y5R3ZARVARY0C5XW7KV8F3T4")
	is.NoErr(err)
	is.Equal(got, "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4")

	// surrounding whitespace is tolerated
	got, err = CanonicalAddress("  1LqBGSKuX5yYUonjxT5qGfpUsXKYYWeabA\n")
	is.NoErr(err)
	is.Equal(got, "1LqBGSKuX5yYUonjxT5qGfpUsXKYYWeabA")
}

// TestCanonicalAddress_Rejects verifies garbage and foreign-network
// addresses are refused
func TestCanonicalAddress_Rejects(t *testing.T) {
	is := is.New(t)

	bad := []string{
		"",
		"notanaddress",
		// checksum broken in the last character
		"bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyx",
		// testnet P2PKH, decodes fine but fails the mainnet check
		"mipcBbFg9gMiCh81Kj8tqqdgoZub1ZJRfn",
		// testnet bech32, wrong human readable part
		"tb1qw508d6qejxtdg4y5r3zarvary0c5xw7kxpjzsx",
	}
	for _, addr := range bad {
		_, err := CanonicalAddress(addr)
		is.True(err != nil)
	}
}
