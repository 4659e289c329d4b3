package btree

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/fibretree/fibre"
)

// treeNode is the on-disk shape of one tree node, parsed with yaml.v3.
type treeNode struct {
	Kind     string     `yaml:"kind"`
	Name     string     `yaml:"name"`
	Expr     string     `yaml:"expr,omitempty"`
	Children []treeNode `yaml:"children,omitempty"`
	Child    *treeNode  `yaml:"child,omitempty"`
}

// Registry resolves the Go-side behavior a YAML tree refers to by name:
// Action bodies can't be expressed as data, and Condition environments are
// supplied by the embedding application, not the tree file.
type Registry struct {
	Actions map[string]func(ctx *fibre.Ctx) Status
	Env     func(ctx *fibre.Ctx) map[string]any
}

// ParseTree parses a YAML-encoded behaviour tree into a fibre.Descriptor,
// resolving named actions and conditions against reg.
func ParseTree(data []byte, reg Registry) (fibre.Descriptor, error) {
	var root treeNode
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("btree: parse tree: %w", err)
	}
	return buildNode(root, reg)
}

func buildNode(n treeNode, reg Registry) (fibre.Descriptor, error) {
	switch n.Kind {
	case "sequence":
		children, err := buildChildren(n.Children, reg)
		if err != nil {
			return nil, err
		}
		return &Sequence{Name: n.Name, Children: children}, nil

	case "selector":
		children, err := buildChildren(n.Children, reg)
		if err != nil {
			return nil, err
		}
		return &Selector{Name: n.Name, Children: children}, nil

	case "parallel":
		children, err := buildChildren(n.Children, reg)
		if err != nil {
			return nil, err
		}
		return &Parallel{Name: n.Name, Children: children}, nil

	case "invert":
		if n.Child == nil {
			return nil, fmt.Errorf("btree: invert node %q has no child", n.Name)
		}
		child, err := buildNode(*n.Child, reg)
		if err != nil {
			return nil, err
		}
		return &Invert{Name: n.Name, Child: child}, nil

	case "action":
		run, ok := reg.Actions[n.Name]
		if !ok {
			return nil, fmt.Errorf("btree: no action registered for %q", n.Name)
		}
		return &Action{Name: n.Name, Run: run}, nil

	case "condition":
		cond, err := NewCondition(n.Name, n.Expr, reg.Env)
		if err != nil {
			return nil, fmt.Errorf("btree: condition %q: %w", n.Name, err)
		}
		return cond, nil

	default:
		return nil, fmt.Errorf("btree: unknown node kind %q", n.Kind)
	}
}

func buildChildren(nodes []treeNode, reg Registry) ([]fibre.Descriptor, error) {
	out := make([]fibre.Descriptor, 0, len(nodes))
	for _, n := range nodes {
		child, err := buildNode(n, reg)
		if err != nil {
			return nil, err
		}
		out = append(out, child)
	}
	return out, nil
}
