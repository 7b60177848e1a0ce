// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package unscramble

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
)

// ErrAmbiguousScheme is returned by DetectScheme when the target address
// starts with none of the three well-known mainnet prefixes.
var ErrAmbiguousScheme = errors.New("cannot infer derivation scheme from address prefix")

// Scheme selects the derivation path family and the script type of the
// addresses being searched for.
type Scheme int

const (
	// Legacy is BIP44 P2PKH, "1..." addresses.
	Legacy Scheme = iota
	// WrappedSegwit is BIP49 P2SH-wrapped P2WPKH, "3..." addresses.
	WrappedSegwit
	// NativeSegwit is BIP84 P2WPKH, "bc1..." addresses.
	NativeSegwit
)

func (s Scheme) String() string {
	switch s {
	case Legacy:
		return "bip44"
	case WrappedSegwit:
		return "bip49"
	case NativeSegwit:
		return "bip84"
	}
	return fmt.Sprintf("scheme(%d)", int(s))
}

// Description returns the long form used in reports.
func (s Scheme) Description() string {
	switch s {
	case Legacy:
		return "legacy P2PKH (BIP44)"
	case WrappedSegwit:
		return "segwit P2SH-P2WPKH (BIP49)"
	case NativeSegwit:
		return "native segwit P2WPKH (BIP84)"
	}
	return "unknown"
}

// Purpose returns the BIP43 purpose field of the scheme's derivation path.
func (s Scheme) Purpose() uint32 {
	switch s {
	case WrappedSegwit:
		return 49
	case NativeSegwit:
		return 84
	default:
		return 44
	}
}

// Path renders the derivation path searched for the given address index.
func (s Scheme) Path(index uint32) string {
	return fmt.Sprintf("m/%d'/0'/0'/0/%d", s.Purpose(), index)
}

// pathSteps returns the child indices walked from the master key, with coin
// type, account and change fixed at mainnet external account zero.
func (s Scheme) pathSteps(index uint32) []uint32 {
	h := uint32(hdkeychain.HardenedKeyStart)
	return []uint32{h + s.Purpose(), h, h, 0, index}
}

// MaxDerivationIndex is the largest addressable derivation index. The
// address step of every scheme path is non-hardened, so indexes at or past
// hdkeychain.HardenedKeyStart would derive a child the rendered path does
// not name.
const MaxDerivationIndex uint32 = hdkeychain.HardenedKeyStart - 1

func checkIndex(index uint32) error {
	if index > MaxDerivationIndex {
		return fmt.Errorf("derivation index %d is out of range (max %d)", index, MaxDerivationIndex)
	}
	return nil
}

// DetectScheme infers the scheme from the target address text alone. Only
// the three well-known mainnet prefixes are recognized; anything else is
// ErrAmbiguousScheme and the caller has to pick a scheme explicitly.
func DetectScheme(address string) (Scheme, error) {
	switch {
	case strings.HasPrefix(address, "bc1"):
		return NativeSegwit, nil
	case strings.HasPrefix(address, "3"):
		return WrappedSegwit, nil
	case strings.HasPrefix(address, "1"):
		return Legacy, nil
	}
	return 0, fmt.Errorf("%w: %q starts with none of bc1, 3, 1", ErrAmbiguousScheme, address)
}

// CanonicalAddress parses a mainnet address and returns its canonical string
// form, so later comparisons are byte-exact regardless of how the target was
// cased or spaced by the operator.
func CanonicalAddress(text string) (string, error) {
	addr, err := btcutil.DecodeAddress(strings.TrimSpace(text), &chaincfg.MainNetParams)
	if err != nil {
		return "", fmt.Errorf("could not parse address %q: %w", text, err)
	}
	if !addr.IsForNet(&chaincfg.MainNetParams) {
		return "", fmt.Errorf("address %q is not a mainnet address", text)
	}
	return addr.EncodeAddress(), nil
}
