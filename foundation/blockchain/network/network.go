// Package network implements the node to node requests a node makes against
// the private API of its peers.
package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ardanlabs/coliseum/foundation/blockchain/database"
	"github.com/ardanlabs/coliseum/foundation/blockchain/peer"
	"github.com/go-resty/resty/v2"
)

// baseURL is the root of the private API on every peer.
const baseURL = "http://%s/v1/node"

// DefaultMaxResponseBytes bounds how much a single peer response can hold
// when no limit is configured.
const DefaultMaxResponseBytes = 32 << 20

// Set of errors returned by the client.
var (
	ErrPeerUnreachable = errors.New("peer unreachable")
	ErrPeerRejected    = errors.New("peer rejected request")
)

// EventHandler defines a function that is called when events
// occur while talking to peers.
type EventHandler func(v string, args ...any)

// Config represents the configuration for the client.
type Config struct {
	Timeout          time.Duration
	MaxResponseBytes int
	EvHandler        EventHandler
}

// Client talks to peers over HTTP.
type Client struct {
	client    *resty.Client
	evHandler EventHandler
}

// New constructs a client for talking to peers.
func New(cfg Config) *Client {
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	maxResponse := cfg.MaxResponseBytes
	if maxResponse <= 0 {
		maxResponse = DefaultMaxResponseBytes
	}

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetResponseBodyLimit(maxResponse).
		SetHeader("Accept", "application/json")

	return &Client{
		client:    client,
		evHandler: ev,
	}
}

// =============================================================================

// FetchChain retrieves the full chain held by the peer.
func (c *Client) FetchChain(ctx context.Context, pr peer.Peer) ([]database.Block, error) {
	c.evHandler("network: FetchChain: started: %s", pr)
	defer c.evHandler("network: FetchChain: completed: %s", pr)

	data, err := c.send(ctx, http.MethodGet, endpoint(pr, "/chain"), nil)
	if err != nil {
		return nil, err
	}

	chain, err := database.DecodeChain(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", pr, err)
	}

	c.evHandler("network: FetchChain: %s: length[%d]", pr, len(chain))

	return chain, nil
}

// Status asks the peer for its latest block and the peers it knows.
func (c *Client) Status(ctx context.Context, pr peer.Peer) (peer.PeerStatus, error) {
	c.evHandler("network: Status: started: %s", pr)
	defer c.evHandler("network: Status: completed: %s", pr)

	var ps peer.PeerStatus
	if err := c.call(ctx, http.MethodGet, endpoint(pr, "/status"), nil, &ps); err != nil {
		return peer.PeerStatus{}, err
	}

	c.evHandler("network: Status: peer-node[%s]: latest-blknum[%d]: peer-list[%s]", pr, ps.LatestBlockNumber, ps.KnownPeers)

	return ps, nil
}

// Mempool asks the peer for the transactions waiting in its mempool.
func (c *Client) Mempool(ctx context.Context, pr peer.Peer) ([]database.Tx, error) {
	var txs []database.Tx
	if err := c.call(ctx, http.MethodGet, endpoint(pr, "/tx/list"), nil, &txs); err != nil {
		return nil, err
	}

	return txs, nil
}

// RegisterPeer announces the node to the peer and returns the peers the
// remote node knows after the registration.
func (c *Client) RegisterPeer(ctx context.Context, pr peer.Peer, self peer.Peer) ([]peer.Peer, error) {
	c.evHandler("network: RegisterPeer: %s: announce[%s]", pr, self)

	var peers []peer.Peer
	if err := c.call(ctx, http.MethodPost, endpoint(pr, "/peers"), self, &peers); err != nil {
		return nil, err
	}

	return peers, nil
}

// ProposeBlock sends a newly mined block to the peer.
func (c *Client) ProposeBlock(ctx context.Context, pr peer.Peer, block database.Block) error {
	c.evHandler("network: ProposeBlock: %s: %s", pr, block)

	return c.call(ctx, http.MethodPost, endpoint(pr, "/block/propose"), block, nil)
}

// SubmitTransaction shares a transaction with the peer.
func (c *Client) SubmitTransaction(ctx context.Context, pr peer.Peer, tx database.Tx) error {
	c.evHandler("network: SubmitTransaction: %s: tx[%s]", pr, tx)

	return c.call(ctx, http.MethodPost, endpoint(pr, "/tx/submit"), tx, nil)
}

// =============================================================================

// call sends the request and decodes the response into dataRecv.
func (c *Client) call(ctx context.Context, method string, url string, dataSend any, dataRecv any) error {
	data, err := c.send(ctx, method, url, dataSend)
	if err != nil {
		return err
	}

	if dataRecv == nil || len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, dataRecv); err != nil {
		return fmt.Errorf("%s: %w: %s", url, database.ErrMalformed, err)
	}

	return nil
}

// send is a helper function to send an HTTP request to a node and return the
// body of a successful response.
func (c *Client) send(ctx context.Context, method string, url string, dataSend any) ([]byte, error) {
	req := c.client.R().SetContext(ctx)
	if dataSend != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(dataSend)
	}

	resp, err := req.Execute(method, url)
	if err != nil {
		if errors.Is(err, resty.ErrResponseBodyTooLarge) {
			return nil, fmt.Errorf("%w: %s: %s", ErrPeerRejected, url, err)
		}
		return nil, fmt.Errorf("%w: %s: %s", ErrPeerUnreachable, url, err)
	}

	switch resp.StatusCode() {
	case http.StatusNoContent:
		return nil, nil
	case http.StatusOK:
		return resp.Body(), nil
	}

	return nil, fmt.Errorf("%w: %s: status[%d]: %s", ErrPeerRejected, url, resp.StatusCode(), resp.String())
}

func endpoint(pr peer.Peer, path string) string {
	return fmt.Sprintf(baseURL, pr.Host) + path
}
