package dict

import (
	"sync"

	"github.com/grailbio/base/log"
)

// ThreadedSearch runs the concurrent search coordinator from SPEC_FULL.md
// §4.6: a fixed-size pool of workers drains a shared gram queue, runs the
// per-gram search from SimpleSearch's inner loop, and publishes per-worker
// bests to a shared result queue. A "best found" flag, set the instant any
// worker sees a zero-distance hit, lets every other worker terminate at its
// next dequeue or flag check without finishing the grams still queued.
//
// The reduction over per-gram results is commutative (minimum distance,
// ties broken by arrival order), so results may arrive in any order --
// ThreadedSearch returns a tuple whose distance always matches SimpleSearch
// given the same budget, even though the winning entry index may differ in
// the presence of ties.
func ThreadedSearch(hash *GramHash, store *StringStore, signatures []uint64, needle string, opts Opts) KeyDistTuple {
	return threadedSearchTrace(hash, store, signatures, needle, opts, nil)
}

func threadedSearchTrace(hash *GramHash, store *StringStore, signatures []uint64, needle string, opts Opts, trace *Trace) KeyDistTuple {
	encoded := Encode(needle)
	if encoded == "" {
		return InvalidTuple
	}
	budget := CalcMaxTypos(encoded, opts.MaxGramSize, opts.CharsPerError)
	grams := extractGrams(encoded, budget, opts.MaxGramSize)
	if len(grams) == 0 {
		return InvalidTuple
	}
	info := &SearchInfo{
		Needle:     encoded,
		NeedleSig:  BitSignature(encoded),
		Store:      store,
		Signatures: signatures,
		Budget:     budget,
		Trace:      trace,
	}

	gramQueue := make(chan gram, len(grams))
	for _, g := range grams {
		gramQueue <- g
	}
	close(gramQueue)

	resultQueue := make(chan KeyDistTuple, len(grams))

	var (
		mu        sync.Mutex
		bestFound bool
	)
	isBestFound := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return bestFound
	}
	setBestFound := func() {
		mu.Lock()
		bestFound = true
		mu.Unlock()
	}

	numWorkers := opts.NumWorkers
	if numWorkers <= 0 {
		numWorkers = DefaultOpts.NumWorkers
	}
	if numWorkers > len(grams) {
		numWorkers = len(grams)
	}

	var wg sync.WaitGroup
	searchLock := &hash.mu

	worker := func() {
		defer wg.Done()
		localBest := InvalidTuple
		for g := range gramQueue {
			if isBestFound() {
				return
			}
			searchLock.RLock()
			node, ok := hash.nodes[truncate(g.text, hash.maxGramSize)]
			searchLock.RUnlock()
			if !ok {
				continue
			}
			for _, pl := range node.Refs() {
				tuple := pl.Find(info)
				info.Trace.append(TraceEvent{Gram: g.text, Candidate: tuple.Index, Distance: int(tuple.Distance)})
				if tuple.betterThan(localBest) {
					localBest = tuple
				}
				if localBest.IsValid() && localBest.Distance == 0 {
					break
				}
			}
			if isBestFound() {
				// The zero-distance result already published dominates;
				// don't publish a possibly-worse local result.
				return
			}
			if localBest.IsValid() && localBest.Distance == 0 {
				setBestFound()
				drain(gramQueue)
				resultQueue <- localBest
				return
			}
		}
		if localBest.IsValid() {
			resultQueue <- localBest
		}
	}

	log.Debug.Printf("dict: threaded search: %d grams across %d workers (budget=%d)", len(grams), numWorkers, budget)
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go worker()
	}
	wg.Wait()
	close(resultQueue)

	best := InvalidTuple
	for tuple := range resultQueue {
		if tuple.betterThan(best) {
			best = tuple
		}
	}
	return best
}

func truncate(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}

// drain empties a channel without blocking once closed-or-exhausted,
// implementing the coordinator's "clear the gram queue" cancellation step.
func drain(ch <-chan gram) {
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		default:
			return
		}
	}
}
