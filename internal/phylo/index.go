// Package phylo holds the reference phylogeny: a static tree of named nodes
// whose leaves are the isolates reads are quantified against.
//
// The tree is stored as an arena. Leaves are numbered in depth-first order,
// so the leaves below any node form one contiguous range of that order and
// the descendant-leaf sets need no per-node storage.
package phylo

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// maxDepth bounds parser recursion on degenerate (caterpillar) inputs.
const maxDepth = 1 << 16

// syntheticPrefix names internal nodes that carry no label, by preorder index.
const syntheticPrefix = "@"

// ReservedName is the pseudo-isolate that collects unassigned reads. No tree
// node may use it.
const ReservedName = "_unassigned_"

type node struct {
	name   string
	lo, hi int // descendant leaves are dfsLeaves[lo:hi]
}

// Index is immutable after construction and safe for concurrent readers.
type Index struct {
	nodes     []node
	byName    map[string]int
	dfsLeaves []string // leaf names in depth-first order
	isolates  []string // leaf names in lexical order
}

// LoadFile reads a Newick tree from path.
func LoadFile(path string) (*Index, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	ix, err := Parse(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ix, nil
}

// Parse reads one Newick tree from r and builds its index.
func Parse(r io.Reader) (*Index, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	root, err := parseNewick(string(data))
	if err != nil {
		return nil, err
	}
	return build(root)
}

// ParseString is Parse for an in-memory tree.
func ParseString(s string) (*Index, error) {
	return Parse(strings.NewReader(s))
}

func build(root *rawNode) (*Index, error) {
	ix := &Index{byName: make(map[string]int)}

	// Explicit stack: preorder numbering, then post-visit to close leaf ranges.
	type frame struct {
		raw  *rawNode
		idx  int
		next int
	}
	stack := []frame{{raw: root, idx: -1}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.idx < 0 {
			top.idx = len(ix.nodes)
			ix.nodes = append(ix.nodes, node{lo: len(ix.dfsLeaves)})
			name := top.raw.name
			if len(top.raw.children) == 0 {
				if name == "" {
					return nil, &MalformedTreeError{Offset: -1, Reason: fmt.Sprintf("leaf #%d has no name", len(ix.dfsLeaves)+1)}
				}
				ix.dfsLeaves = append(ix.dfsLeaves, name)
			} else if name == "" {
				name = fmt.Sprintf("%s%d", syntheticPrefix, top.idx)
			}
			if name == ReservedName {
				return nil, &MalformedTreeError{Offset: -1, Reason: fmt.Sprintf("node name %q is reserved", name)}
			}
			if _, dup := ix.byName[name]; dup {
				return nil, &MalformedTreeError{Offset: -1, Reason: fmt.Sprintf("duplicate node name %q", name)}
			}
			ix.byName[name] = top.idx
			ix.nodes[top.idx].name = name
		}
		if top.next < len(top.raw.children) {
			child := top.raw.children[top.next]
			top.next++
			stack = append(stack, frame{raw: child, idx: -1})
			continue
		}
		ix.nodes[top.idx].hi = len(ix.dfsLeaves)
		stack = stack[:len(stack)-1]
	}

	ix.isolates = append([]string(nil), ix.dfsLeaves...)
	sort.Strings(ix.isolates)
	return ix, nil
}

// DescendantLeaves returns the isolates below name (the name itself for a
// leaf), in depth-first order. The returned slice must not be modified.
func (ix *Index) DescendantLeaves(name string) ([]string, error) {
	i, ok := ix.byName[name]
	if !ok {
		return nil, &UnknownNodeError{Name: name}
	}
	n := ix.nodes[i]
	return ix.dfsLeaves[n.lo:n.hi:n.hi], nil
}

// DescendantCount is len(DescendantLeaves(name)) without the slice.
func (ix *Index) DescendantCount(name string) (int, error) {
	i, ok := ix.byName[name]
	if !ok {
		return 0, &UnknownNodeError{Name: name}
	}
	return ix.nodes[i].hi - ix.nodes[i].lo, nil
}

// Isolates returns all leaf names in lexical byte order.
func (ix *Index) Isolates() []string {
	return append([]string(nil), ix.isolates...)
}

// Root returns the root's (possibly synthetic) name.
func (ix *Index) Root() string { return ix.nodes[0].name }

// Len is the number of nodes, leaves included.
func (ix *Index) Len() int { return len(ix.nodes) }

// NumIsolates is the number of leaves.
func (ix *Index) NumIsolates() int { return len(ix.dfsLeaves) }
