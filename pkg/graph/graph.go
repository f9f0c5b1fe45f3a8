// Package graph renders a flow tree as a Graphviz digraph.
package graph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/awalterschulze/gographviz"

	"github.com/viscouspot/maestro-flowgen/pkg/flowtree"
)

// StartNode is the entry node every group hangs off.
const StartNode = "start"

// NodeID names the node of a variant.
func NodeID(group, stage, variant int) string {
	return fmt.Sprintf("g%d_s%d_v%d", group, stage, variant)
}

// Render returns the DOT source for t. Each group is a cluster; each
// variant is a node labelled with its steps. Stage-0 variants hang off
// the start node, and stage k+1 variants hang off the canonical variant
// of stage k, which is drawn bold.
func Render(name string, t flowtree.Tree) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}

	g := gographviz.NewGraph()
	if err := g.SetName(quote(name)); err != nil {
		return "", err
	}
	if err := g.SetDir(true); err != nil {
		return "", err
	}
	if err := g.AddAttr(g.Name, "rankdir", "LR"); err != nil {
		return "", err
	}

	startLabel := StartNode
	if len(t.Setup.BeforeAll) > 0 {
		startLabel = joinSteps(t.Setup.BeforeAll)
	}
	if err := g.AddNode(g.Name, StartNode, map[string]string{
		"shape": "Mdiamond",
		"label": quote(startLabel),
	}); err != nil {
		return "", err
	}

	for gi, grp := range t.Groups {
		cluster := fmt.Sprintf("cluster_%d", gi)
		if err := g.AddSubGraph(g.Name, cluster, map[string]string{
			"label": quote(grp.Name),
		}); err != nil {
			return "", err
		}

		parent := StartNode
		for si, st := range grp.Stages {
			canon := st.Canonical()
			for vi, v := range st.Variants {
				attrs := map[string]string{
					"shape": "box",
					"label": quote(joinSteps(v.Steps)),
				}
				if vi == canon {
					attrs["style"] = "bold"
				}
				id := NodeID(gi, si, vi)
				if err := g.AddNode(cluster, id, attrs); err != nil {
					return "", err
				}
				if err := g.AddEdge(parent, id, true, nil); err != nil {
					return "", err
				}
			}
			parent = NodeID(gi, si, canon)
		}
	}

	return g.String(), nil
}

func joinSteps(steps []flowtree.StepRef) string {
	parts := make([]string, len(steps))
	for i, s := range steps {
		parts[i] = string(s)
	}
	return strings.Join(parts, "\n")
}

func quote(s string) string {
	return strconv.Quote(s)
}
