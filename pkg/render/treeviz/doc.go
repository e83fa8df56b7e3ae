// Package treeviz draws parse trees.
//
// [ToDOT] writes a tree as a Graphviz digraph with one box per node, the
// root on top. [Render] lays the DOT out with the embedded Graphviz engine
// (goccy/go-graphviz) and returns SVG or PNG bytes; no system Graphviz
// install is needed.
//
//	res := p.Parse("Aus (Bus) cus Smith")
//	svg, err := treeviz.Render(treeviz.ToDOT(res.Tree, treeviz.Options{}), treeviz.SVG)
//
// Nodes the grammar could not settle without a nomenclatural code are
// drawn dashed on a grey fill, with their alternative readings in the
// label when Detailed is set.
package treeviz
