package container

import (
	"github.com/google/btree"

	"github.com/auklab/raf/errors"
)

// Group is a named collection of child nodes. Children are kept in a btree
// so that iteration order is always ascending by name, matching the order a
// reader of the archive observes.
type Group struct {
	kind  Kind
	attrs Attrs
	bt    *btree.BTree
}

var _ Node = (*Group)(nil)

// NewGroup returns an empty group.
func NewGroup() *Group {
	return &Group{kind: KindGroup, bt: btree.New(2)}
}

func newFileGroup() *Group {
	return &Group{kind: KindFile, bt: btree.New(2)}
}

func (g *Group) NodeKind() Kind { return g.kind }

func (g *Group) Attributes() *Attrs { return &g.attrs }

// Len returns the number of children.
func (g *Group) Len() int { return g.bt.Len() }

// Get returns the child stored under the given name.
func (g *Group) Get(name string) (Node, bool) {
	res := g.bt.Get(childKey{name: name})
	if res == nil {
		return nil, false
	}
	return res.(childItem).node, true
}

// Has returns true if a child with the given name exists.
func (g *Group) Has(name string) bool {
	return g.bt.Has(childKey{name: name})
}

// Put stores a child under the given name, replacing any previous child with
// that name.
func (g *Group) Put(name string, node Node) {
	g.bt.ReplaceOrInsert(childItem{childKey: childKey{name: name}, node: node})
}

// Create stores a child under the given name. Unlike Put it fails if the
// name is already taken.
func (g *Group) Create(name string, node Node) error {
	if g.bt.Has(childKey{name: name}) {
		return errors.Wrapf(errors.ErrDuplicate, "child %q", name)
	}
	g.Put(name, node)
	return nil
}

// Del removes the child with the given name. Removing an absent child is a
// no-op.
func (g *Group) Del(name string) {
	g.bt.Delete(childKey{name: name})
}

// Rename moves a child to a new name, replacing any child already stored
// under the new name. It fails if the old name does not exist.
func (g *Group) Rename(oldName, newName string) error {
	node, ok := g.Get(oldName)
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "child %q", oldName)
	}
	if oldName == newName {
		return nil
	}
	g.Put(newName, node)
	g.bt.Delete(childKey{name: oldName})
	return nil
}

// Names returns all child names in ascending order.
func (g *Group) Names() []string {
	names := make([]string, 0, g.bt.Len())
	g.bt.Ascend(func(item btree.Item) bool {
		names = append(names, item.(childItem).name)
		return true
	})
	return names
}

// Ascend calls fn for every child in ascending name order. Iteration stops
// early when fn returns false. The tree must not be modified during the
// walk; collect names first when mutating.
func (g *Group) Ascend(fn func(name string, node Node) bool) {
	g.bt.Ascend(func(item btree.Item) bool {
		it := item.(childItem)
		return fn(it.name, it.node)
	})
}

// we enforce all data in the btree implements keyer so we can compare nicely
type keyer interface {
	Key() string
}

// childKey implements keyer and btree.Item and may be used for queries or
// embedded in a stored child.
type childKey struct {
	name string
}

var _ keyer = childKey{}
var _ btree.Item = childKey{}

func (k childKey) Key() string { return k.name }

// Less returns true iff second argument is greater than first.
//
// panics if the item to compare doesn't implement keyer.
func (k childKey) Less(item btree.Item) bool {
	return k.name < item.(keyer).Key()
}

type childItem struct {
	childKey
	node Node
}
