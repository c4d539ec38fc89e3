package domain

import "strings"

// Node is an opaque identity for something described in the output graph.
// The engine uses URIs: data: URIs for inline content, ni: URIs for
// hash-derived content, urn:uuid: for opaque identities and file: URIs for
// filesystem paths.
type Node string

// IsZero reports whether the node is unset.
func (n Node) IsZero() bool {
	return n == ""
}

// String returns the string representation.
func (n Node) String() string {
	return string(n)
}

// IsInline reports whether the node embeds its content (a data: URI).
func (n Node) IsInline() bool {
	return strings.HasPrefix(string(n), "data:")
}

// AnalysisResult is what an analyzer returns for one entity.
type AnalysisResult struct {
	// Node is the entity's identity. The zero Node means "no result".
	Node Node

	// Label is an optional human readable description.
	Label string
}

// IsEmpty reports whether the result carries no node.
func (r AnalysisResult) IsEmpty() bool {
	return r.Node.IsZero()
}

// ContainerBehavior is the set of flags a container analyzer returns for a child.
type ContainerBehavior uint8

const (
	// FollowChildren keeps the container analyzer active for the child's own children.
	FollowChildren ContainerBehavior = 1 << iota

	// BlockOther prevents any provider from claiming the child's subtree as a fresh root.
	BlockOther
)

// Has reports whether all bits of flag are set.
func (b ContainerBehavior) Has(flag ContainerBehavior) bool {
	return b&flag == flag
}

// String returns the string representation.
func (b ContainerBehavior) String() string {
	var parts []string
	if b.Has(FollowChildren) {
		parts = append(parts, "follow-children")
	}
	if b.Has(BlockOther) {
		parts = append(parts, "block-other")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}
