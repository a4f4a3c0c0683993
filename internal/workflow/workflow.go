// Package workflow serves the static KYC workflow graph.
package workflow

// Node is a workflow stage.
type Node struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// Edge is a directed transition between stages.
type Edge struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Graph is read-only after startup and served verbatim.
type Graph struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// Validate reports edges that reference unknown nodes.
func (g Graph) Validate() []Edge {
	known := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		known[n.ID] = struct{}{}
	}
	var dangling []Edge
	for _, e := range g.Edges {
		_, from := known[e.From]
		_, to := known[e.To]
		if !from || !to {
			dangling = append(dangling, e)
		}
	}
	return dangling
}
