package container

import (
	"reflect"
	"testing"

	"github.com/auklab/raf/errors"
)

func TestGroupChildrenAreOrdered(t *testing.T) {
	g := NewGroup()
	for _, name := range []string{"zebra", "aardvark", "mic", "lfp"} {
		g.Put(name, NewGroup())
	}
	want := []string{"aardvark", "lfp", "mic", "zebra"}
	if got := g.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestGroupCreateRejectsDuplicates(t *testing.T) {
	g := NewGroup()
	if err := g.Create("one", NewGroup()); err != nil {
		t.Fatalf("first create: %+v", err)
	}
	if err := g.Create("one", NewGroup()); !errors.ErrDuplicate.Is(err) {
		t.Fatalf("want ErrDuplicate, got %+v", err)
	}
	// Put replaces without complaint.
	g.Put("one", NewGroup())
	if g.Len() != 1 {
		t.Fatalf("len: %d", g.Len())
	}
}

func TestGroupRename(t *testing.T) {
	g := NewGroup()
	child := NewGroup()
	child.Attributes().Set("marker", int64(7))
	g.Put("old", child)

	if err := g.Rename("old", "new"); err != nil {
		t.Fatalf("rename: %+v", err)
	}
	if g.Has("old") {
		t.Fatal("old name must be gone")
	}
	moved, ok := g.Get("new")
	if !ok {
		t.Fatal("new name missing")
	}
	if n, _ := moved.Attributes().Int("marker"); n != 7 {
		t.Fatalf("marker: %d", n)
	}

	if err := g.Rename("ghost", "anything"); !errors.ErrNotFound.Is(err) {
		t.Fatalf("want ErrNotFound, got %+v", err)
	}
}

func TestGroupRenameReplacesTarget(t *testing.T) {
	g := NewGroup()
	a := NewGroup()
	a.Attributes().Set("which", "a")
	b := NewGroup()
	b.Attributes().Set("which", "b")
	g.Put("a", a)
	g.Put("b", b)

	if err := g.Rename("a", "b"); err != nil {
		t.Fatalf("rename: %+v", err)
	}
	if g.Len() != 1 {
		t.Fatalf("len: %d", g.Len())
	}
	node, _ := g.Get("b")
	if which, _ := node.Attributes().String("which"); which != "a" {
		t.Fatalf("want the renamed child, got %q", which)
	}
}

func TestGroupAscendStopsEarly(t *testing.T) {
	g := NewGroup()
	for _, name := range []string{"a", "b", "c"} {
		g.Put(name, NewGroup())
	}
	var seen []string
	g.Ascend(func(name string, _ Node) bool {
		seen = append(seen, name)
		return len(seen) < 2
	})
	if !reflect.DeepEqual(seen, []string{"a", "b"}) {
		t.Fatalf("seen: %v", seen)
	}
}
