package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// NodeReader is the behavior required to read the state of a node.
type NodeReader interface {
	QueryChainLength() int
	QueryMempoolLength() int
	QueryKnownPeersLength() int
	RetrieveDifficulty() uint
}

// NodeCollector reports the state of the node each time it is scraped.
type NodeCollector struct {
	node        NodeReader
	chainLength *prometheus.Desc
	mempool     *prometheus.Desc
	peers       *prometheus.Desc
	difficulty  *prometheus.Desc
}

// NewNodeCollector constructs a collector over the node.
func NewNodeCollector(node NodeReader) *NodeCollector {
	return &NodeCollector{
		node: node,
		chainLength: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "chain", "length"),
			"Number of blocks in the local chain",
			nil, nil,
		),
		mempool: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "mempool", "transactions"),
			"Number of transactions waiting to be sealed",
			nil, nil,
		),
		peers: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "peers", "known"),
			"Number of known peers",
			nil, nil,
		),
		difficulty: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "pow", "difficulty"),
			"Number of leading zeros a proof must produce",
			nil, nil,
		),
	}
}

// Describe implements the prometheus.Collector interface.
func (c *NodeCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.chainLength
	ch <- c.mempool
	ch <- c.peers
	ch <- c.difficulty
}

// Collect implements the prometheus.Collector interface.
func (c *NodeCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.chainLength, prometheus.GaugeValue, float64(c.node.QueryChainLength()))
	ch <- prometheus.MustNewConstMetric(c.mempool, prometheus.GaugeValue, float64(c.node.QueryMempoolLength()))
	ch <- prometheus.MustNewConstMetric(c.peers, prometheus.GaugeValue, float64(c.node.QueryKnownPeersLength()))
	ch <- prometheus.MustNewConstMetric(c.difficulty, prometheus.GaugeValue, float64(c.node.RetrieveDifficulty()))
}
