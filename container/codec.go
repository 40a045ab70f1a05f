package container

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/google/btree"

	"github.com/auklab/raf/errors"
)

// fileMagic identifies the archive encoding. It is checked before anything
// else so that feeding an unrelated file to Open fails cleanly.
const fileMagic = "raf1"

type wireFile struct {
	Magic string   `cbor:"m"`
	Root  wireNode `cbor:"r"`
}

type wireNode struct {
	Kind     uint8                    `cbor:"k"`
	Attrs    map[string]interface{}   `cbor:"a,omitempty"`
	Children map[string]*wireNode     `cbor:"c,omitempty"`
	Cols     int                      `cbor:"n,omitempty"`
	Data     []float64                `cbor:"d,omitempty"`
	Ragged   [][]float64              `cbor:"g,omitempty"`
	Fields   []string                 `cbor:"f,omitempty"`
	Rows     []map[string]interface{} `cbor:"w,omitempty"`
}

func encodeFile(root *Group) ([]byte, error) {
	doc := wireFile{Magic: fileMagic, Root: *encodeNode(root)}
	raw, err := cbor.Marshal(doc)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrState, "cbor: %v", err)
	}
	return raw, nil
}

func encodeNode(node Node) *wireNode {
	w := &wireNode{
		Kind:  uint8(node.NodeKind()),
		Attrs: node.Attributes().kv,
	}
	switch n := node.(type) {
	case *Group:
		if n.Len() > 0 {
			w.Children = make(map[string]*wireNode, n.Len())
			n.Ascend(func(name string, child Node) bool {
				w.Children[name] = encodeNode(child)
				return true
			})
		}
	case *Dataset:
		switch n.kind {
		case KindArray:
			w.Cols = n.cols
			w.Data = n.data
		case KindRagged:
			w.Ragged = n.ragged
		case KindTable:
			w.Fields = n.table.fields
			w.Rows = make([]map[string]interface{}, len(n.table.rows))
			for i, row := range n.table.rows {
				w.Rows[i] = row
			}
		}
	}
	return w
}

func decodeFile(raw []byte) (*Group, error) {
	var doc wireFile
	if err := cbor.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cbor: %v", err)
	}
	if doc.Magic != fileMagic {
		return nil, errors.Wrap(errors.ErrInput, "not a raf archive")
	}
	node, err := decodeNode(&doc.Root)
	if err != nil {
		return nil, err
	}
	root, ok := node.(*Group)
	if !ok || root.kind != KindFile {
		return nil, errors.Wrap(errors.ErrInput, "root node is not a file group")
	}
	return root, nil
}

func decodeNode(w *wireNode) (Node, error) {
	attrs := Attrs{}
	for name, value := range w.Attrs {
		attrs.Set(name, value)
	}

	switch Kind(w.Kind) {
	case KindFile, KindGroup:
		g := &Group{kind: Kind(w.Kind), attrs: attrs, bt: btree.New(2)}
		for name, child := range w.Children {
			node, err := decodeNode(child)
			if err != nil {
				return nil, errors.Wrapf(err, "child %q", name)
			}
			g.Put(name, node)
		}
		return g, nil
	case KindArray:
		d, err := NewArray(w.Cols, w.Data)
		if err != nil {
			return nil, err
		}
		d.attrs = attrs
		return d, nil
	case KindRagged:
		d := NewRagged(w.Ragged)
		d.attrs = attrs
		return d, nil
	case KindTable:
		t := NewTable(w.Fields...)
		for _, row := range w.Rows {
			t.Append(Row(row))
		}
		d := NewTableDataset(t)
		d.attrs = attrs
		return d, nil
	default:
		return nil, errors.Wrapf(errors.ErrInput, "node kind %d", w.Kind)
	}
}
