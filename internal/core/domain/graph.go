package domain

// GraphLink is a directed relation between two nodes.
type GraphLink struct {
	Relation string `json:"relation" yaml:"relation"`
	Target   Node   `json:"target" yaml:"target"`
}

// GraphNode is one described node of the output graph.
type GraphNode struct {
	ID         Node             `json:"id" yaml:"id"`
	Properties map[string][]any `json:"properties,omitempty" yaml:"properties,omitempty"`
	Links      []GraphLink      `json:"links,omitempty" yaml:"links,omitempty"`
}

// First returns the first value recorded for property.
func (n GraphNode) First(property string) (any, bool) {
	values := n.Properties[property]
	if len(values) == 0 {
		return nil, false
	}
	return values[0], true
}

// Targets returns the targets of every link with the given relation.
func (n GraphNode) Targets(relation string) []Node {
	var targets []Node
	for _, l := range n.Links {
		if l.Relation == relation {
			targets = append(targets, l.Target)
		}
	}
	return targets
}
