// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

// Package unscramble recovers the word order of a BIP39 recovery phrase.
//
// Given the complete multiset of 12 or 24 recovery words, a target mainnet
// bitcoin address and a derivation scheme, Search enumerates word orderings
// in deterministic lexicographic order and derives each valid ordering's
// address until one matches the target or the trial budget runs out. Every
// ordering is an independent trial, so the rank space is sharded across a
// worker pool while the reported winner stays the first match in enumeration
// order.
package unscramble

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
)

const (
	// DefaultMaxTrials bounds the search when Options.MaxTrials is zero.
	DefaultMaxTrials = 1_000_000

	// ProgressInterval is how many produced orderings pass between
	// progress callbacks.
	ProgressInterval = 100_000

	// blockSize is how many consecutive ranks a worker claims at once.
	blockSize = 1024
)

// Options fixes the parameters of one search run.
type Options struct {
	// Language selects the wordlist candidate phrases are validated
	// against. The zero value is English.
	Language Language

	// Scheme selects the derivation path and the address encoding.
	Scheme Scheme

	// Index is the address index in the derivation path
	// m/{purpose}'/0'/0'/0/{index}. Values past MaxDerivationIndex are
	// rejected.
	Index uint32

	// MaxTrials caps how many orderings are produced, valid or not.
	// Zero means DefaultMaxTrials.
	MaxTrials uint64

	// StartIndex is the permutation rank enumeration begins at, for
	// resuming an earlier run. Zero starts at the input ordering.
	StartIndex uint64

	// Workers is the number of goroutines sharding the rank space. Zero
	// means one per CPU; one gives a strictly sequential scan.
	Workers int

	// Progress, when set, is called as the produced counter crosses each
	// ProgressInterval boundary. It runs on a worker goroutine and must
	// be safe for concurrent use.
	Progress func(trials uint64)
}

// Result reports the outcome of a search.
type Result struct {
	// Found reports whether some ordering derived the target address.
	Found bool

	// TrialIndex is the matching ordering's rank in the deterministic
	// enumeration, where rank zero is the input ordering. Meaningful
	// only when Found is true.
	TrialIndex uint64

	// Trials is how many orderings were produced before stopping. With
	// several workers this can run slightly past TrialIndex, since
	// in-flight blocks finish draining after a match.
	Trials uint64

	// Skipped counts produced orderings that failed mnemonic validation
	// or key derivation.
	Skipped uint64

	// Phrase is the recovered phrase, words joined by single spaces.
	// Empty unless Found is true.
	Phrase string

	// Address is the derived address, equal to the canonical form of the
	// target. Empty unless Found is true.
	Address string

	// Scheme and Path echo the searched scheme and derivation path.
	Scheme Scheme
	Path   string
}

// Search looks for an ordering of words whose derived address equals target.
//
// Input words are first rewritten to their wordlist spelling, so casing and
// accent normalization differences do not affect validation. Orderings are
// enumerated in lexicographic order of positions in the input, so the input
// ordering itself is rank zero and repeated words still yield
// position-distinct trials. The first match in that order wins no matter how
// many workers scan the rank space. Cancelling the context abandons the run
// with the context's error; a match recorded before the cancellation is
// still returned.
func Search(ctx context.Context, target string, words []string, opts Options) (*Result, error) {
	n := len(words)
	if n != 12 && n != 24 {
		return nil, fmt.Errorf("expected 12 or 24 words, got %d", n)
	}
	if err := checkIndex(opts.Index); err != nil {
		return nil, err
	}

	canonical, err := CanonicalAddress(target)
	if err != nil {
		return nil, err
	}

	canonicalWords := make([]string, n)
	for i, w := range words {
		canonicalWords[i], _ = opts.Language.Canonicalize(w)
	}

	opts.Language.Activate()

	maxTrials := opts.MaxTrials
	if maxTrials == 0 {
		maxTrials = DefaultMaxTrials
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	result := &Result{
		Scheme: opts.Scheme,
		Path:   opts.Scheme.Path(opts.Index),
	}

	total := permCount(n)
	if opts.StartIndex >= total {
		return result, nil
	}
	if remaining := total - opts.StartIndex; maxTrials > remaining {
		maxTrials = remaining
	}

	state := &searchState{
		words:    canonicalWords,
		target:   canonical,
		scheme:   opts.Scheme,
		index:    opts.Index,
		start:    opts.StartIndex,
		limit:    opts.StartIndex + maxTrials,
		progress: opts.Progress,
	}
	state.bestRank.Store(math.MaxUint64)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state.run(ctx)
		}()
	}
	wg.Wait()

	return state.finish(ctx, result)
}

// searchState is shared by the worker pool of one Search call.
type searchState struct {
	words  []string
	target string
	scheme Scheme
	index  uint32

	start uint64 // first rank enumerated
	limit uint64 // one past the last rank enumerated

	progress func(uint64)

	nextBlock atomic.Uint64
	trials    atomic.Uint64
	skipped   atomic.Uint64

	// bestRank is the lowest matching rank seen so far, MaxUint64 until
	// the first match. phrase and address belong to bestRank and are
	// guarded by mu.
	bestRank atomic.Uint64
	mu       sync.Mutex
	phrase   string
	address  string
}

// run claims blocks of consecutive ranks until the rank space is exhausted,
// a lower-ranked match makes further blocks pointless, or the context is
// cancelled.
func (s *searchState) run(ctx context.Context) {
	n := len(s.words)
	buf := make([]string, n)
	for {
		if ctx.Err() != nil {
			return
		}
		block := s.nextBlock.Add(1) - 1
		first := s.start + block*blockSize
		if first >= s.limit || first > s.bestRank.Load() {
			return
		}
		last := first + blockSize
		if last > s.limit {
			last = s.limit
		}

		perm := permutationAtRank(n, first)
		for rank := first; rank < last; rank++ {
			if rank > s.bestRank.Load() {
				return
			}
			for i, p := range perm {
				buf[i] = s.words[p]
			}
			phrase := strings.Join(buf, " ")

			t := s.trials.Add(1)
			if s.progress != nil && t%ProgressInterval == 0 {
				s.progress(t)
			}

			addr, err := DeriveAddress(phrase, s.scheme, s.index)
			if err != nil {
				s.skipped.Add(1)
			} else if addr == s.target {
				s.recordMatch(rank, phrase, addr)
				return
			}

			if rank+1 < last && !nextPerm(perm) {
				return
			}
		}
	}
}

// recordMatch lowers bestRank to rank if it improves on the current best and
// stores the matching phrase. Concurrent matches can land in any order; the
// check under mu keeps phrase and address paired with the lowest rank.
func (s *searchState) recordMatch(rank uint64, phrase, address string) {
	for {
		cur := s.bestRank.Load()
		if rank >= cur {
			return
		}
		if s.bestRank.CompareAndSwap(cur, rank) {
			break
		}
	}
	s.mu.Lock()
	if s.bestRank.Load() == rank {
		s.phrase = phrase
		s.address = address
	}
	s.mu.Unlock()
}

// finish folds the shared counters and any recorded match into result. A
// cancellation abandons the run only when no match was recorded before it.
func (s *searchState) finish(ctx context.Context, result *Result) (*Result, error) {
	result.Trials = s.trials.Load()
	result.Skipped = s.skipped.Load()
	if rank := s.bestRank.Load(); rank != math.MaxUint64 {
		s.mu.Lock()
		result.Found = true
		result.TrialIndex = rank
		result.Phrase = s.phrase
		result.Address = s.address
		s.mu.Unlock()
		return result, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("search abandoned: %w", err)
	}
	return result, nil
}
