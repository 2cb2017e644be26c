// Copyright (c) 2021 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// cycle detection derived from
// https://github.com/uber-go/dig/blob/master/internal/graph/graph.go

package ioc

// graph is a directed-graph view over the descriptor store. Each
// descriptor is a node identified by its registration order; edges point
// from a descriptor to the descriptors of its declared dependencies.
// Dependencies on unregistered tokens have no edge (Validate reports
// those separately).
type graph struct {
	nodes []*Descriptor
	index map[*Token]int
}

func newGraph(reg *registry) *graph {
	g := &graph{index: make(map[*Token]int, reg.len())}
	reg.all(func(d *Descriptor) bool {
		g.index[d.token] = len(g.nodes)
		g.nodes = append(g.nodes, d)
		return true
	})
	return g
}

// order returns the total number of nodes in the graph.
func (g *graph) order() int { return len(g.nodes) }

// edgesFrom returns the indices of nodes that are dependencies of node u.
func (g *graph) edgesFrom(u int) []int {
	var orders []int
	for _, dep := range g.nodes[u].dependencies {
		if v, registered := g.index[dep]; registered {
			orders = append(orders, v)
		}
	}
	return orders
}

// findCycle returns the tokens of one dependency cycle in the store, or
// nil if the graph is acyclic.
func findCycle(reg *registry) []*Token {
	g := newGraph(reg)
	ok, cycle := g.isAcyclic()
	if ok {
		return nil
	}
	tokens := make([]*Token, len(cycle))
	for i, u := range cycle {
		tokens[i] = g.nodes[u].token
	}
	return tokens
}

// isAcyclic uses depth-first search to find cycles in the graph. If a
// cycle is found, it returns the orders of the nodes on the cyclic path.
func (g *graph) isAcyclic() (bool, []int) {
	info := newCycleInfo(g.order())

	for i := 0; i < g.order(); i++ {
		info.reset()

		cycle := isAcyclic(g, i, info, nil /* cycle path */)
		if len(cycle) > 0 {
			return false, cycle
		}
	}

	return true, nil
}

// isAcyclic traverses the given graph starting from a specific node
// using depth-first search using recursion. If a cycle is detected,
// it returns the node that contains the "last" edge that introduces
// a cycle.
// For example, running isAcyclic starting from 1 on the following
// graph will return 3.
//
//	1 -> 2 -> 3 -> 1
func isAcyclic(g *graph, u int, info cycleInfo, path []int) []int {
	// We've already verified that there are no cycles from this node.
	if info[u].visited {
		return nil
	}
	info[u].visited = true
	info[u].onStack = true

	path = append(path, u)
	for _, v := range g.edgesFrom(u) {
		if !info[v].visited {
			if cycle := isAcyclic(g, v, info, path); len(cycle) > 0 {
				return cycle
			}
		} else if info[v].onStack {
			// We've found a cycle, and we have a full path back.
			// Prune it down to just the cyclic nodes.
			cycle := path
			for i := len(cycle) - 1; i >= 0; i-- {
				if cycle[i] == v {
					cycle = cycle[i:]
					break
				}
			}

			// Complete the cycle by adding this node to it.
			return append(cycle, v)
		}
	}
	info[u].onStack = false
	return nil
}

// cycleNode keeps track of a single node's info for cycle detection.
type cycleNode struct {
	visited bool
	onStack bool
}

// cycleInfo contains information about each node while we're trying to find
// cycles.
type cycleInfo []cycleNode

func newCycleInfo(order int) cycleInfo {
	return make(cycleInfo, order)
}

func (info cycleInfo) reset() {
	for i := range info {
		info[i].onStack = false
	}
}
