// Package consensus reconciles the local chain with the chains held by
// known peers using the longest valid chain rule.
package consensus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ardanlabs/coliseum/foundation/blockchain/database"
	"github.com/ardanlabs/coliseum/foundation/blockchain/ledger"
	"github.com/ardanlabs/coliseum/foundation/blockchain/peer"
	"golang.org/x/sync/errgroup"
)

// DefaultPeerTimeout bounds how long a single peer can take to hand over its
// chain when no timeout is configured.
const DefaultPeerTimeout = 5 * time.Second

// DefaultMaxConcurrentFetch bounds the number of peers fetched at the same
// time when no limit is configured.
const DefaultMaxConcurrentFetch = 4

// EventHandler defines a function that is called when events
// occur in a resolution pass.
type EventHandler func(v string, args ...any)

// Gateway represents the behavior required to retrieve a chain from a peer.
type Gateway interface {
	FetchChain(ctx context.Context, pr peer.Peer) ([]database.Block, error)
}

// =============================================================================

// Config represents the configuration required to construct a resolver.
type Config struct {
	Host               string
	Ledger             *ledger.Ledger
	KnownPeers         *peer.PeerSet
	Gateway            Gateway
	PeerTimeout        time.Duration
	MaxConcurrentFetch int
	EvHandler          EventHandler
}

// Resolver runs resolution passes against the known peers.
type Resolver struct {
	host        string
	ledger      *ledger.Ledger
	knownPeers  *peer.PeerSet
	gateway     Gateway
	peerTimeout time.Duration
	maxFetch    int
	evHandler   EventHandler

	// Only one pass runs at a time.
	mu sync.Mutex
}

// New constructs a resolver.
func New(cfg Config) *Resolver {
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	peerTimeout := cfg.PeerTimeout
	if peerTimeout <= 0 {
		peerTimeout = DefaultPeerTimeout
	}

	maxFetch := cfg.MaxConcurrentFetch
	if maxFetch <= 0 {
		maxFetch = DefaultMaxConcurrentFetch
	}

	return &Resolver{
		host:        cfg.Host,
		ledger:      cfg.Ledger,
		knownPeers:  cfg.KnownPeers,
		gateway:     cfg.Gateway,
		peerTimeout: peerTimeout,
		maxFetch:    maxFetch,
		evHandler:   ev,
	}
}

// Result describes the outcome of a resolution pass.
type Result struct {
	Replaced bool                `json:"replaced"`
	Length   int                 `json:"length"`
	Source   peer.Peer           `json:"source"`
	Failures map[peer.Peer]error `json:"-"`
}

// Errors returns the per peer failures keyed by host.
func (r Result) Errors() map[string]string {
	out := make(map[string]string, len(r.Failures))
	for pr, err := range r.Failures {
		out[pr.Host] = err.Error()
	}

	return out
}

// Resolve fetches the chain of every known peer and adopts, in peer order,
// each one that is valid and strictly longer than the local chain at that
// moment. A failing peer is recorded in the result and the pass moves on.
// When the pass ends the local chain is either unchanged or the longest valid
// chain seen during the pass.
func (r *Resolver) Resolve(ctx context.Context) Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.evHandler("consensus: Resolve: started")
	defer r.evHandler("consensus: Resolve: completed")

	length := r.ledger.Length()
	peers := r.knownPeers.Copy(r.host)

	res := Result{
		Length:   length,
		Failures: make(map[peer.Peer]error),
	}

	if len(peers) == 0 {
		return res
	}

	chains, errs := r.fetchChains(ctx, peers)

	for i, pr := range peers {
		if errs[i] != nil {
			r.evHandler("consensus: Resolve: fetch: %s: ERROR: %s", pr, errs[i])
			res.Failures[pr] = errs[i]
			continue
		}

		chain := chains[i]
		if len(chain) <= length {
			r.evHandler("consensus: Resolve: %s: length[%d]: not longer than length[%d]", pr, len(chain), length)
			continue
		}

		replaced, err := r.ledger.ReplaceChain(chain)
		if err != nil {
			r.evHandler("consensus: Resolve: %s: rejected: %s", pr, err)
			res.Failures[pr] = err
			continue
		}

		if replaced {
			length = len(chain)
			res.Replaced = true
			res.Source = pr
			r.evHandler("consensus: Resolve: %s: adopted chain length[%d]", pr, length)
		}
	}

	res.Length = r.ledger.Length()

	return res
}

// fetchChains retrieves the chains of the peers concurrently, each request
// bound by the peer timeout. The results line up with the peers.
func (r *Resolver) fetchChains(ctx context.Context, peers []peer.Peer) ([][]database.Block, []error) {
	chains := make([][]database.Block, len(peers))
	errs := make([]error, len(peers))

	var g errgroup.Group
	g.SetLimit(r.maxFetch)

	for i, pr := range peers {
		g.Go(func() error {
			ctx, cancel := context.WithTimeout(ctx, r.peerTimeout)
			defer cancel()

			chain, err := r.gateway.FetchChain(ctx, pr)
			if err != nil {
				errs[i] = fmt.Errorf("fetch chain: %w", err)
				return nil
			}

			chains[i] = chain
			return nil
		})
	}

	g.Wait()

	return chains, errs
}
