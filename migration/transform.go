package migration

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/auklab/raf/container"
	"github.com/auklab/raf/errors"
)

// tempPrefix is prepended to every physical node name before catalog
// projection. Legacy physical names may collide with the logical names the
// catalog assigns, so projection always reads from temporaries and writes
// final names; the temporaries are deleted only once every row of the entry
// succeeded.
const tempPrefix = "_rafmigrate_"

// renameToTemp moves every child of the group to a collision free temporary
// name and returns the temporary names.
func renameToTemp(g *container.Group) ([]string, error) {
	names := g.Names()
	temps := make([]string, 0, len(names))
	for _, name := range names {
		tmp := tempPrefix + name
		if err := g.Rename(name, tmp); err != nil {
			return nil, errors.Wrapf(err, "rename %q", name)
		}
		temps = append(temps, tmp)
	}
	return temps, nil
}

// projectRow builds the final node for one per-entry catalog row, reading
// from the temporary named source node. The row's shape decides the
// transform:
//
//   ragged source        -> the referenced record becomes a fixed array
//   wide array source    -> the referenced column becomes a single channel
//                           array carrying the source sampling rate
//   anything else        -> the source is stored under its logical name
//
// The returned node is already stored in the entry under the row's name.
func projectRow(entry *container.Group, entryName string, row container.Row, log *zap.Logger) (container.Node, error) {
	logical, ok := row.Str(fieldName)
	if !ok {
		return nil, errors.Wrapf(errors.ErrStructural, "%s: catalog row without a %q field", entryName, fieldName)
	}
	physical, ok := row.Str(fieldNode)
	if !ok {
		physical, ok = row.Str(fieldTable)
	}
	if !ok {
		return nil, errors.Wrapf(errors.ErrStructural, "%s: catalog row %q names no source node", entryName, logical)
	}
	src, ok := entry.Get(tempPrefix + physical)
	if !ok {
		return nil, errors.Wrapf(errors.ErrStructural, "%s/%s: catalog row %q references a missing node", entryName, physical, logical)
	}

	if entry.Has(logical) {
		// Two rows projecting onto one name cannot be told apart from
		// trusted legacy input; the later row wins.
		log.Warn("duplicate catalog target name, later row wins",
			zap.String("entry", entryName),
			zap.String("name", logical))
	}

	var (
		node container.Node
		err  error
	)
	switch d, isDataset := src.(*container.Dataset); {
	case isDataset && d.NodeKind() == container.KindRagged:
		node, err = materializeRecord(d, row)
	case isDataset && d.NodeKind() == container.KindArray && d.Cols() > 1:
		node, err = splitColumn(d, row)
	default:
		node = src
	}
	if err != nil {
		return nil, errors.Wrapf(err, "%s/%s", entryName, physical)
	}

	if units, ok := row.Str(fieldUnits); ok {
		node.Attributes().Set(attrUnits, units)
	}
	// The 0.9 catalog has no datatype column; those channels are marked
	// undefined.
	dt, _ := row.Int(fieldDatatype)
	node.Attributes().Set(attrDatatype, dt)
	Reconcile(node.Attributes(), src.Attributes(), log)

	entry.Put(logical, node)
	return node, nil
}

// materializeRecord converts one record of a ragged event dataset into a
// fixed shape single channel array.
func materializeRecord(src *container.Dataset, row container.Row) (*container.Dataset, error) {
	col, ok := row.Int(fieldColumn)
	if !ok {
		return nil, errors.Wrapf(errors.ErrStructural, "catalog row without a %q field", fieldColumn)
	}
	rec, err := src.Record(int(col))
	if err != nil {
		return nil, errors.Wrap(errors.ErrStructural, err.Error())
	}
	return container.NewArray(1, append([]float64(nil), rec...))
}

// splitColumn extracts one column of a wide dataset as a single channel
// array, carrying the source sampling rate forward.
func splitColumn(src *container.Dataset, row container.Row) (*container.Dataset, error) {
	col, ok := row.Int(fieldColumn)
	if !ok {
		return nil, errors.Wrapf(errors.ErrStructural, "catalog row without a %q field", fieldColumn)
	}
	data, err := src.Column(int(col))
	if err != nil {
		return nil, errors.Wrap(errors.ErrStructural, err.Error())
	}
	d, err := container.NewArray(1, data)
	if err != nil {
		return nil, err
	}
	if rate, ok := src.Attributes().Float(attrSamplingRate); ok {
		d.Attributes().Set(attrSamplingRate, rate)
	}
	return d, nil
}

// stripBookkeeping removes the implementation metadata attributes matching
// the node's kind. Attributes outside the closed per-kind set are preserved
// untouched.
func stripBookkeeping(attrs *container.Attrs, kind container.Kind) {
	for _, name := range bookkeepingAttrs[kind] {
		attrs.Del(name)
	}
}

// ensureID stores a freshly generated unique identifier on the node unless
// it already has one. An existing identifier is never replaced.
func ensureID(attrs *container.Attrs) {
	if attrs.Has(attrUUID) {
		return
	}
	attrs.Set(attrUUID, uuid.New().String())
}
