package domain

// ServiceKey names an ambient service carried by an AnalysisContext.
type ServiceKey string

// Well-known service keys.
const (
	// ServiceSource is the StreamSource currently being analysed.
	ServiceSource ServiceKey = "source"

	// ServiceEncodingDetector is the EncodingDetectorFactory visible to nested matches.
	ServiceEncodingDetector ServiceKey = "encoding-detector"

	// ServiceContent is the ContentObject a nested value was decoded from.
	ServiceContent ServiceKey = "content"

	// ServiceGraph is the GraphStore collecting the description of the run.
	ServiceGraph ServiceKey = "graph"

	// ServiceClassifier is the ContentClassifier of the run.
	ServiceClassifier ServiceKey = "classifier"
)

// AnalysisContext is the immutable state threaded through every dispatch call.
// It is a value type: each With* method returns a modified copy and never
// mutates the receiver, so a context can be shared freely between goroutines.
type AnalysisContext struct {
	depth    int
	parent   Node
	node     Node
	services map[ServiceKey]any
}

// NewAnalysisContext returns the root context at depth zero.
func NewAnalysisContext() AnalysisContext {
	return AnalysisContext{}
}

// Depth returns the current nesting depth.
func (c AnalysisContext) Depth() int {
	return c.depth
}

// Parent returns the node of the entity this one was discovered in, if any.
func (c AnalysisContext) Parent() Node {
	return c.parent
}

// Node returns the identity pre-assigned to the entity, if any.
func (c AnalysisContext) Node() Node {
	return c.node
}

// Service returns the ambient service stored under key.
func (c AnalysisContext) Service(key ServiceKey) (any, bool) {
	v, ok := c.services[key]
	return v, ok
}

// WithDepth returns a copy at the given depth.
func (c AnalysisContext) WithDepth(depth int) AnalysisContext {
	c.depth = depth
	return c
}

// WithParent returns a copy with the parent node replaced.
func (c AnalysisContext) WithParent(parent Node) AnalysisContext {
	c.parent = parent
	return c
}

// WithNode returns a copy with a pre-assigned node identity.
func (c AnalysisContext) WithNode(node Node) AnalysisContext {
	c.node = node
	return c
}

// WithService returns a copy carrying value under key. The service bag is
// copied, never shared for writing.
func (c AnalysisContext) WithService(key ServiceKey, value any) AnalysisContext {
	services := make(map[ServiceKey]any, len(c.services)+1)
	for k, v := range c.services {
		services[k] = v
	}
	if value == nil {
		delete(services, key)
	} else {
		services[key] = value
	}
	c.services = services
	return c
}

// Child returns the context for an entity discovered inside parent:
// one level deeper, linked to parent, with no pre-assigned identity.
func (c AnalysisContext) Child(parent Node) AnalysisContext {
	c.depth++
	c.parent = parent
	c.node = ""
	return c
}
