package codes

import (
	"fmt"
	"slices"

	"github.com/Igorvich/huizen-holland/pkg/errors"
)

// Kind classifies a code by its position in the hierarchy.
type Kind int

const (
	// KindLeaf is a code without registered children.
	KindLeaf Kind = iota
	// KindIntermediate is a non-root code with children.
	KindIntermediate
	// KindRoot is a root-length code with children.
	KindRoot
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindIntermediate:
		return "intermediate"
	default:
		return "leaf"
	}
}

// Hierarchy is a rooted forest of codes built from parent → child edges.
// A code is a leaf iff it has no entry in the children map.
type Hierarchy struct {
	children map[Code]map[Code]struct{}
	known    map[Code]struct{}
	kinds    map[Code]Kind
}

// NewHierarchy creates an empty hierarchy.
func NewHierarchy() *Hierarchy {
	h := &Hierarchy{}
	h.reset()
	return h
}

func (h *Hierarchy) reset() {
	h.children = make(map[Code]map[Code]struct{})
	h.known = make(map[Code]struct{})
	h.kinds = nil
}

// Register inserts the edges of the code's truncation chain up to its root.
// Registering an edge twice is a no-op. Codes outside the HO domain are
// remembered as standalone leaves.
func (h *Hierarchy) Register(c Code) error {
	if _, err := Parse(string(c)); err != nil {
		return err
	}
	h.kinds = nil
	h.known[c] = struct{}{}
	if !c.Hierarchical() {
		return nil
	}

	for child := c; ; {
		parent, ok := child.Parent()
		if !ok {
			return nil
		}
		h.known[parent] = struct{}{}
		set, exists := h.children[parent]
		if !exists {
			set = make(map[Code]struct{})
			h.children[parent] = set
		}
		if _, seen := set[child]; seen {
			// The rest of the chain is already in place.
			return nil
		}
		set[child] = struct{}{}
		child = parent
	}
}

// Rebuild clears all edges and re-derives them from cs.
func (h *Hierarchy) Rebuild(cs []Code) error {
	h.reset()
	for _, c := range cs {
		if err := h.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Has reports whether the code is known, either registered or synthesized as an ancestor.
func (h *Hierarchy) Has(c Code) bool {
	_, ok := h.known[c]
	return ok
}

// Children returns the sorted immediate children of c.
func (h *Hierarchy) Children(c Code) []Code {
	set := h.children[c]
	if len(set) == 0 {
		return nil
	}
	out := make([]Code, 0, len(set))
	for child := range set {
		out = append(out, child)
	}
	slices.Sort(out)
	return out
}

// IsRoot reports whether c has root length.
func (h *Hierarchy) IsRoot(c Code) bool {
	return c.IsRoot()
}

// IsLeaf reports whether c has no registered children.
func (h *Hierarchy) IsLeaf(c Code) bool {
	return len(h.children[c]) == 0
}

// Kind returns the cached kind of c.
func (h *Hierarchy) Kind(c Code) Kind {
	if h.kinds == nil {
		h.kinds = make(map[Code]Kind, len(h.known))
		for code := range h.known {
			h.kinds[code] = h.classify(code)
		}
	}
	if k, ok := h.kinds[c]; ok {
		return k
	}
	return h.classify(c)
}

func (h *Hierarchy) classify(c Code) Kind {
	switch {
	case h.IsLeaf(c):
		return KindLeaf
	case c.IsRoot():
		return KindRoot
	default:
		return KindIntermediate
	}
}

// Ancestors returns the known ancestors of c, nearest first.
func (h *Hierarchy) Ancestors(c Code) []Code {
	var out []Code
	for _, a := range c.Chain()[1:] {
		if h.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

// Descendants returns every code below c, sorted.
func (h *Hierarchy) Descendants(c Code) []Code {
	var out []Code
	stack := h.Children(c)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, cur)
		stack = append(stack, h.Children(cur)...)
	}
	slices.Sort(out)
	return out
}

// Leaves returns the leaf codes at or below c, sorted.
func (h *Hierarchy) Leaves(c Code) []Code {
	if h.IsLeaf(c) {
		return []Code{c}
	}
	var out []Code
	for _, d := range h.Descendants(c) {
		if h.IsLeaf(d) {
			out = append(out, d)
		}
	}
	return out
}

// Roots returns every known root, sorted.
func (h *Hierarchy) Roots() []Code {
	var out []Code
	for c := range h.known {
		if _, ok := c.Parent(); !ok {
			out = append(out, c)
		}
	}
	slices.Sort(out)
	return out
}

// Codes returns every known code, sorted.
func (h *Hierarchy) Codes() []Code {
	out := make([]Code, 0, len(h.known))
	for c := range h.known {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// CoversChildren reports whether set holds every child of parent. Extra codes
// in set are allowed; a parent without children never qualifies.
func (h *Hierarchy) CoversChildren(parent Code, set []Code) bool {
	kids := h.children[parent]
	if len(kids) == 0 {
		return false
	}
	for child := range kids {
		if !slices.Contains(set, child) {
			return false
		}
	}
	return true
}

// Validate checks that every edge joins a code to its truncation and that no
// code is its own ancestor.
func (h *Hierarchy) Validate() error {
	for parent, kids := range h.children {
		for child := range kids {
			p, ok := child.Parent()
			if !ok || p != parent {
				return errors.NewValidationError("hierarchy", string(child),
					fmt.Sprintf("registered under %s but truncates to %q", parent, p))
			}
		}
	}
	for c := range h.known {
		seen := map[Code]struct{}{c: {}}
		for _, a := range c.Chain()[1:] {
			if _, dup := seen[a]; dup {
				return errors.NewValidationError("hierarchy", string(c), "code is its own ancestor")
			}
			seen[a] = struct{}{}
		}
	}
	return nil
}
