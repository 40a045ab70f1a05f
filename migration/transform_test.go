package migration

import (
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/auklab/raf/container"
	"github.com/auklab/raf/errors"
)

func TestStripBookkeepingIsClosedSet(t *testing.T) {
	var attrs container.Attrs
	attrs.Set("TITLE", "")
	attrs.Set("CLASS", "GROUP")
	attrs.Set("VERSION", "1.0")
	attrs.Set("experimenter", "dmel")

	stripBookkeeping(&attrs, container.KindGroup)

	if got := attrs.Names(); !reflect.DeepEqual(got, []string{"experimenter"}) {
		t.Fatalf("names: %v", got)
	}
}

func TestStripBookkeepingMatchesNodeKind(t *testing.T) {
	var attrs container.Attrs
	attrs.Set("EXTDIM", 1)
	attrs.Set("PYTABLES_FORMAT_VERSION", "2.0")

	// EXTDIM is array bookkeeping, not group bookkeeping.
	stripBookkeeping(&attrs, container.KindGroup)
	if !attrs.Has("EXTDIM") {
		t.Fatal("EXTDIM must survive a group strip")
	}

	stripBookkeeping(&attrs, container.KindArray)
	if attrs.Has("EXTDIM") {
		t.Fatal("EXTDIM must be stripped from an array")
	}
	if !attrs.Has("PYTABLES_FORMAT_VERSION") {
		t.Fatal("file bookkeeping must survive an array strip")
	}
}

func TestEnsureIDNeverOverwrites(t *testing.T) {
	var attrs container.Attrs
	ensureID(&attrs)
	first, ok := attrs.String("uuid")
	if !ok || first == "" {
		t.Fatalf("uuid not injected: %q", first)
	}

	ensureID(&attrs)
	if second, _ := attrs.String("uuid"); second != first {
		t.Fatalf("identifier replaced: %q -> %q", first, second)
	}
}

func TestRenameToTempAvoidsNameCollisions(t *testing.T) {
	entry := container.NewGroup()
	// The legacy physical name equals the logical name a catalog row will
	// assign later; renaming everything first keeps them apart.
	entry.Put("mic", container.NewRagged(nil))
	entry.Put("pcm_000", container.NewRagged(nil))

	temps, err := renameToTemp(entry)
	if err != nil {
		t.Fatalf("rename: %+v", err)
	}
	if len(temps) != 2 {
		t.Fatalf("temps: %v", temps)
	}
	want := []string{tempPrefix + "mic", tempPrefix + "pcm_000"}
	if got := entry.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("names: %v", got)
	}
}

func TestProjectRowSplitsWideDataset(t *testing.T) {
	entry := container.NewGroup()
	wide, err := container.NewArray(2, []float64{1, 10, 2, 20, 3, 30})
	if err != nil {
		t.Fatalf("fixture: %+v", err)
	}
	wide.Attributes().Set(attrSamplingRate, 20000.0)
	wide.Attributes().Set("label", "probe A")
	entry.Put(tempPrefix+"pcm_000", wide)

	row := container.Row{
		fieldName:     "lfp",
		fieldNode:     "pcm_000",
		fieldColumn:   int64(1),
		fieldUnits:    "mV",
		fieldDatatype: int64(2),
	}
	node, err := projectRow(entry, "entry_0001", row, zap.NewNop())
	if err != nil {
		t.Fatalf("project: %+v", err)
	}

	d := node.(*container.Dataset)
	if !reflect.DeepEqual(d.Data(), []float64{10, 20, 30}) {
		t.Fatalf("data: %v", d.Data())
	}
	if rate, _ := d.Attributes().Float(attrSamplingRate); rate != 20000.0 {
		t.Fatalf("sampling_rate: %v", rate)
	}
	if units, _ := d.Attributes().String(attrUnits); units != "mV" {
		t.Fatalf("units: %q", units)
	}
	if dt, _ := d.Attributes().Int(attrDatatype); dt != 2 {
		t.Fatalf("datatype: %v", dt)
	}
	// Accessory source attributes ride along.
	if label, _ := d.Attributes().String("label"); label != "probe A" {
		t.Fatalf("label: %q", label)
	}
	if _, ok := entry.Get("lfp"); !ok {
		t.Fatal("projected node not stored")
	}
}

func TestProjectRowMaterializesRaggedRecord(t *testing.T) {
	entry := container.NewGroup()
	entry.Put(tempPrefix+"events_000", container.NewRagged([][]float64{{0.5, 1.25, 7}}))

	row := container.Row{
		fieldName:   "spk",
		fieldTable:  "events_000", // 0.9 layout uses "table"
		fieldColumn: int64(0),
		fieldUnits:  "s",
	}
	node, err := projectRow(entry, "entry_0001", row, zap.NewNop())
	if err != nil {
		t.Fatalf("project: %+v", err)
	}
	d := node.(*container.Dataset)
	if d.NodeKind() != container.KindArray {
		t.Fatalf("kind: %v", d.NodeKind())
	}
	if !reflect.DeepEqual(d.Data(), []float64{0.5, 1.25, 7}) {
		t.Fatalf("data: %v", d.Data())
	}
}

func TestProjectRowRenamesOtherKinds(t *testing.T) {
	entry := container.NewGroup()
	narrow, err := container.NewArray(1, []float64{1, 2, 3})
	if err != nil {
		t.Fatalf("fixture: %+v", err)
	}
	entry.Put(tempPrefix+"chan_0", narrow)

	row := container.Row{fieldName: "mic", fieldNode: "chan_0"}
	node, err := projectRow(entry, "entry_0001", row, zap.NewNop())
	if err != nil {
		t.Fatalf("project: %+v", err)
	}
	if node != container.Node(narrow) {
		t.Fatal("single channel dataset must be stored as is")
	}
}

func TestProjectRowMissingSourceIsStructural(t *testing.T) {
	entry := container.NewGroup()
	row := container.Row{fieldName: "mic", fieldNode: "ghost"}
	if _, err := projectRow(entry, "entry_0001", row, zap.NewNop()); !errors.ErrStructural.Is(err) {
		t.Fatalf("want ErrStructural, got %+v", err)
	}
}
