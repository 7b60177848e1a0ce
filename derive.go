// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package unscramble

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/tyler-smith/go-bip39"
)

// DeriveAddress turns a candidate phrase into the mainnet address it
// controls under the scheme's derivation path m/{purpose}'/0'/0'/0/{index}.
// The phrase must be a checksummed mnemonic in the active wordlist and the
// seed uses the empty passphrase. Indexes past MaxDerivationIndex are
// rejected, keeping the address step non-hardened. Any other error means the
// phrase cannot control an address at that path; Search counts such trials
// as skipped.
func DeriveAddress(phrase string, scheme Scheme, index uint32) (string, error) {
	key, err := childKey(phrase, scheme, index)
	if err != nil {
		return "", err
	}
	pub, err := key.ECPubKey()
	if err != nil {
		return "", fmt.Errorf("could not compute public key: %w", err)
	}
	return encodeAddress(pub, scheme)
}

// Keys is the spendable key material recovered for a matched phrase.
type Keys struct {
	// Address is the derived address at the path.
	Address string

	// PrivateWIF is the child private key in compressed WIF form, ready
	// for import into a wallet.
	PrivateWIF string

	// ExtendedPrivateKey is the child xprv at the full derivation path.
	ExtendedPrivateKey string
}

// DeriveKeys derives the key material for a recovered phrase at the scheme's
// path. It is meant for the found report, not for the hot search loop.
func DeriveKeys(phrase string, scheme Scheme, index uint32) (*Keys, error) {
	key, err := childKey(phrase, scheme, index)
	if err != nil {
		return nil, err
	}
	priv, err := key.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("could not extract private key: %w", err)
	}
	wif, err := btcutil.NewWIF(priv, &chaincfg.MainNetParams, true)
	if err != nil {
		return nil, fmt.Errorf("could not encode WIF: %w", err)
	}
	addr, err := encodeAddress(priv.PubKey(), scheme)
	if err != nil {
		return nil, err
	}
	return &Keys{
		Address:            addr,
		PrivateWIF:         wif.String(),
		ExtendedPrivateKey: key.String(),
	}, nil
}

// childKey walks from the phrase to the extended private key at the scheme's
// derivation path.
func childKey(phrase string, scheme Scheme, index uint32) (*hdkeychain.ExtendedKey, error) {
	if err := checkIndex(index); err != nil {
		return nil, err
	}
	seed, err := bip39.NewSeedWithErrorChecking(phrase, "")
	if err != nil {
		return nil, fmt.Errorf("invalid mnemonic: %w", err)
	}
	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("could not derive master key: %w", err)
	}
	for _, step := range scheme.pathSteps(index) {
		key, err = key.Derive(step)
		if err != nil {
			return nil, fmt.Errorf("could not derive child %d: %w", step, err)
		}
	}
	return key, nil
}

// encodeAddress synthesizes the address of a public key under the scheme's
// script type.
func encodeAddress(pub *btcec.PublicKey, scheme Scheme) (string, error) {
	pubKeyHash := btcutil.Hash160(pub.SerializeCompressed())
	switch scheme {
	case Legacy:
		addr, err := btcutil.NewAddressPubKeyHash(pubKeyHash, &chaincfg.MainNetParams)
		if err != nil {
			return "", fmt.Errorf("could not encode P2PKH address: %w", err)
		}
		return addr.EncodeAddress(), nil
	case WrappedSegwit:
		// P2SH wrapping the canonical OP_0 <pubkeyhash> witness program
		redeem, err := txscript.NewScriptBuilder().
			AddOp(txscript.OP_0).
			AddData(pubKeyHash).
			Script()
		if err != nil {
			return "", fmt.Errorf("could not build redeem script: %w", err)
		}
		addr, err := btcutil.NewAddressScriptHashFromHash(btcutil.Hash160(redeem), &chaincfg.MainNetParams)
		if err != nil {
			return "", fmt.Errorf("could not encode P2SH address: %w", err)
		}
		return addr.EncodeAddress(), nil
	case NativeSegwit:
		addr, err := btcutil.NewAddressWitnessPubKeyHash(pubKeyHash, &chaincfg.MainNetParams)
		if err != nil {
			return "", fmt.Errorf("could not encode P2WPKH address: %w", err)
		}
		return addr.EncodeAddress(), nil
	}
	return "", fmt.Errorf("unknown scheme %v", scheme)
}
