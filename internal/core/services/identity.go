package services

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/logger"
)

// IdentityCache remembers the node assigned to each content fingerprint
// (data key) seen in a run, so identical content resolves to one node.
// Least recently used keys are evicted once the cache is full.
type IdentityCache struct {
	nodes *lru.Cache[string, domain.Node]
	log   *slog.Logger
}

// NewIdentityCache creates a cache holding up to size keys.
func NewIdentityCache(size int) (*IdentityCache, error) {
	log := logger.For("identity")
	nodes, err := lru.NewWithEvict[string, domain.Node](size, func(key string, node domain.Node) {
		log.Debug("identity evicted", "node", node.String())
	})
	if err != nil {
		return nil, fmt.Errorf("create identity cache: %w", err)
	}
	return &IdentityCache{nodes: nodes, log: log}, nil
}

// Resolve returns the node remembered for dataKey, or remembers node.
// seen is true when dataKey was already known.
func (c *IdentityCache) Resolve(dataKey string, node domain.Node) (resolved domain.Node, seen bool) {
	if dataKey == "" {
		return node, false
	}
	previous, ok, _ := c.nodes.PeekOrAdd(dataKey, node)
	if ok {
		return previous, true
	}
	return node, false
}

// Forget evicts dataKey.
func (c *IdentityCache) Forget(dataKey string) {
	c.nodes.Remove(dataKey)
}

// Len returns the number of remembered keys.
func (c *IdentityCache) Len() int {
	return c.nodes.Len()
}

// Purge evicts every key.
func (c *IdentityCache) Purge() {
	c.nodes.Purge()
}

// DataURI returns the data: URI embedding content.
func DataURI(mediaType string, content []byte) domain.Node {
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	mediaType = strings.ReplaceAll(mediaType, " ", "")
	return domain.Node("data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(content))
}

// dataURIOverhead is the length of a data: URI around the base64 payload,
// for the generic media type.
var dataURIOverhead = len(DataURI("", nil))

// inlineThreshold returns the largest content length whose data: URI is no
// longer than budget characters.
func inlineThreshold(budget int) int {
	payload := budget - dataURIOverhead
	if payload < 4 {
		return 0
	}
	return payload / 4 * 3
}

// UUIDNode returns a fresh opaque node.
func UUIDNode() domain.Node {
	return domain.Node("urn:uuid:" + uuid.NewString())
}
