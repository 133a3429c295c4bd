package phylo

import "fmt"

// MalformedTreeError reports a tree description that is not a single valid
// rooted tree, or one that repeats a node name.
type MalformedTreeError struct {
	Offset int // byte offset into the source, -1 when not positional
	Reason string
}

func (e *MalformedTreeError) Error() string {
	if e.Offset < 0 {
		return "malformed tree: " + e.Reason
	}
	return fmt.Sprintf("malformed tree at byte %d: %s", e.Offset, e.Reason)
}

// UnknownNodeError reports a lookup of a name the tree does not contain.
type UnknownNodeError struct {
	Name string
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("unknown tree node %q", e.Name)
}
