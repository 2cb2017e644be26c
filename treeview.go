package ioc

import (
	"errors"
	"fmt"

	"github.com/m1gwings/treedrawer/tree"
)

// DependencyTree renders the declared dependency tree of root as a
// drawing suitable for terminals. Dependencies on unregistered tokens
// are marked "missing"; back-edges are marked "cycle" and not expanded.
// The tree reflects declarations only, no instance is constructed.
func (c *Container) DependencyTree(root *Token) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.registry.contains(root) {
		return "", errors.Join(fmt.Errorf("token %s has no registration", root.Name()), ErrNotRegistered)
	}

	t := tree.NewTree(tree.NodeString(root.Name()))
	c.drawDependencies(t, root, map[*Token]bool{root: true})
	return t.String(), nil
}

func (c *Container) drawDependencies(node *tree.Tree, token *Token, onPath map[*Token]bool) {
	desc, _ := c.registry.get(token)
	for i, dep := range desc.dependencies {
		label := dep.Name()
		expand := true
		switch {
		case !c.registry.contains(dep):
			label += " (missing)"
			expand = false
		case onPath[dep]:
			label += " (cycle)"
			expand = false
		}

		node.AddChild(tree.NodeString(label))
		if !expand {
			continue
		}
		child, err := node.Child(i)
		if err != nil {
			continue
		}
		onPath[dep] = true
		c.drawDependencies(child, dep, onPath)
		delete(onPath, dep)
	}
}
