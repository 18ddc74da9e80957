// Package dot renders a red-black set snapshot as a graphviz digraph.
//
//	dot -Tpng set.dot -o set.png
package dot

import (
	"bufio"
	"fmt"
	"io"

	"github.com/benz9527/xset/lib/infra"
	"github.com/benz9527/xset/lib/tree"
)

type config struct {
	graphName string
	nodeShape string
}

type Option func(*config)

func WithGraphName(name string) Option {
	return func(cfg *config) {
		if name != "" {
			cfg.graphName = name
		}
	}
}

func WithNodeShape(shape string) Option {
	return func(cfg *config) {
		if shape != "" {
			cfg.nodeShape = shape
		}
	}
}

func colorSuffix(color tree.RBColor) string {
	if color == tree.Black {
		return "b"
	}
	return "r"
}

// Write expects the views in pre-order, as returned by RBSet.Snapshot.
// Display ids are assigned in that order, the node ids of the set never
// leak into the output.
func Write[K infra.OrderedKey](w io.Writer, views []tree.RBNodeView[K], opts ...Option) error {
	cfg := &config{
		graphName: "RBSet",
		nodeShape: "box",
	}
	for _, o := range opts {
		o(cfg)
	}

	display := make(map[tree.NodeID]int, len(views))
	bw := bufio.NewWriter(w)
	_, _ = fmt.Fprintf(bw, "digraph %s {\n", cfg.graphName)
	_, _ = fmt.Fprintf(bw, "node [shape=%s];\n", cfg.nodeShape)
	for idx, view := range views {
		display[view.ID] = idx
		if view.Parent != tree.Sentinel {
			parent, ok := display[view.Parent]
			if !ok {
				return fmt.Errorf("[dot] node %v appears before its parent", view.Key)
			}
			_, _ = fmt.Fprintf(bw, "%d -> %d\n", parent, idx)
		}
		_, _ = fmt.Fprintf(bw, "%d [label=\"%v%s\"];\n", idx, view.Key, colorSuffix(view.Color))
	}
	_, _ = bw.WriteString("}\n")
	return bw.Flush()
}
