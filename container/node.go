package container

// Kind identifies the storage kind of a node. Migration steps use it to pick
// the matching set of implementation metadata attribute names to strip.
type Kind uint8

const (
	// KindFile is the container itself, the root of the node tree.
	KindFile Kind = iota
	// KindGroup is a named collection of child nodes, e.g. an entry.
	KindGroup
	// KindArray is a fixed shape numeric dataset, row major.
	KindArray
	// KindRagged is an event style dataset of variable length records.
	KindRagged
	// KindTable is a record dataset with named, typed fields.
	KindTable
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindGroup:
		return "group"
	case KindArray:
		return "array"
	case KindRagged:
		return "ragged"
	case KindTable:
		return "table"
	default:
		return "unknown"
	}
}

// Node is implemented by every member of the container tree.
type Node interface {
	// NodeKind returns the storage kind of this node.
	NodeKind() Kind
	// Attributes returns the mutable attribute set of this node.
	Attributes() *Attrs
}
