package graph

import (
	"sort"

	"schematic-editor/internal/circuit/models"

	gonumgraph "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
)

// ============================================================
// Component graph
// ============================================================

// Connectivity: неориентированный граф: вершины это ID компонентов, ребро между
// двумя компонентами есть, если какой-то провод ссылается на оба.
type Connectivity struct {
	g     *simple.UndirectedGraph
	nodes map[string]int64
	ids   []string
	types map[string]models.ComponentType
}

// Build строит граф по текущему документу. Ссылки на несуществующие компоненты
// пропускаются.
func Build(d models.Design) *Connectivity {
	c := &Connectivity{
		g:     simple.NewUndirectedGraph(),
		nodes: make(map[string]int64, len(d.Components)),
		ids:   make([]string, 0, len(d.Components)),
		types: make(map[string]models.ComponentType, len(d.Components)),
	}

	for _, comp := range d.Components {
		if _, ok := c.nodes[comp.ID]; ok {
			continue
		}
		n := int64(len(c.ids))
		c.nodes[comp.ID] = n
		c.ids = append(c.ids, comp.ID)
		c.types[comp.ID] = comp.Type
		c.g.AddNode(simple.Node(n))
	}

	for _, w := range d.Wires {
		refs := w.ComponentIDs()
		for i := 0; i < len(refs); i++ {
			a, ok := c.nodes[refs[i]]
			if !ok {
				continue
			}
			for j := i + 1; j < len(refs); j++ {
				b, ok := c.nodes[refs[j]]
				if !ok || a == b {
					continue
				}
				c.g.SetEdge(simple.Edge{F: simple.Node(a), T: simple.Node(b)})
			}
		}
	}

	return c
}

// Closure возвращает все компоненты, достижимые из startID (включая его самого),
// обходом в ширину. Порядок результата совпадает с порядком посещения.
func (c *Connectivity) Closure(startID string) []string {
	start, ok := c.nodes[startID]
	if !ok {
		return nil
	}

	var visited []string
	seen := make(map[int64]bool)
	bf := traverse.BreadthFirst{
		Visit: func(n gonumgraph.Node) {
			if seen[n.ID()] {
				return
			}
			seen[n.ID()] = true
			visited = append(visited, c.ids[n.ID()])
		},
	}
	bf.Walk(c.g, simple.Node(start), nil)

	if !seen[start] {
		visited = append([]string{startID}, visited...)
	}
	return visited
}

func (c *Connectivity) containsGround(ids []string) bool {
	for _, id := range ids {
		if c.types[id].IsGround() {
			return true
		}
	}
	return false
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
