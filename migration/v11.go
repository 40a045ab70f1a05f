package migration

import (
	"go.uber.org/zap"

	"github.com/auklab/raf/container"
	"github.com/auklab/raf/errors"
)

func init() {
	MustRegister(container.Version{Major: 1, Minor: 1}, upgradeTo11)
}

// upgradeTo11 converts a 0.9 or 1.0 archive to 1.1. The catalog tables no
// longer exist in 1.1, so every row is projected onto attributes of the
// entry or dataset it describes, wide datasets are split into single channel
// ones, and the catalogs are deleted once fully consumed.
func upgradeTo11(c *container.Container, params Params, log *zap.Logger) error {
	root := c.Root()

	catNode, ok := root.Get(catalogName)
	if !ok {
		return errors.Wrapf(errors.ErrStructural, "/%s: no top level catalog", catalogName)
	}
	cat := tableOf(catNode)
	if cat == nil {
		return errors.Wrapf(errors.ErrStructural, "/%s: not a table", catalogName)
	}
	if !cat.HasField(fieldName) || !cat.HasField(fieldTimestamp) {
		return errors.Wrapf(errors.ErrStructural, "/%s: missing required fields", catalogName)
	}
	recuri, hasURI := root.Attributes().String(attrDatabaseURI)

	for _, row := range cat.Rows() {
		name, ok := row.Str(fieldName)
		if !ok {
			return errors.Wrapf(errors.ErrStructural, "/%s: row without an entry name", catalogName)
		}
		node, ok := root.Get(name)
		if !ok {
			return errors.Wrapf(errors.ErrStructural, "/%s: catalog names a missing entry", name)
		}
		entry, ok := node.(*container.Group)
		if !ok {
			return errors.Wrapf(errors.ErrStructural, "/%s: catalog entry is not a group", name)
		}

		for _, field := range entryFields {
			if v, has := row[field]; has {
				entry.Attributes().Set(field, v)
			}
		}
		ts, err := entryTimestamp(row)
		if err != nil {
			return errors.Wrapf(err, "/%s", name)
		}
		entry.Attributes().Set(attrTimestamp, ts)
		if hasURI {
			entry.Attributes().Set(attrRecURI, recuri)
		}

		if err := upgradeEntry(entry, name, log); err != nil {
			return err
		}
		Reconcile(entry.Attributes(), nil, log)
	}

	root.Del(catalogName)
	root.Attributes().Del(attrDatabaseClass)
	root.Attributes().Del(attrDatabaseURI)
	Reconcile(root.Attributes(), nil, log)
	return nil
}

// upgradeEntry consumes the per-entry channel catalog. Every physical node
// is renamed to a collision free temporary first; rows then read from the
// temporaries and write final names; the temporaries are deleted only after
// every row of the entry succeeded and each final node reads back.
func upgradeEntry(entry *container.Group, name string, log *zap.Logger) error {
	catNode, ok := entry.Get(catalogName)
	if !ok {
		log.Info("entry has no catalog, already upgraded?", zap.String("entry", name))
		return nil
	}
	if entry.Len() <= 1 {
		log.Info("entry is empty, dropping its catalog", zap.String("entry", name))
		entry.Del(catalogName)
		return nil
	}
	cat := tableOf(catNode)
	if cat == nil {
		return errors.Wrapf(errors.ErrStructural, "/%s/%s: not a table", name, catalogName)
	}
	if !cat.HasField(fieldName) {
		return errors.Wrapf(errors.ErrStructural, "/%s/%s: missing required fields", name, catalogName)
	}

	temps, err := renameToTemp(entry)
	if err != nil {
		return errors.Wrapf(err, "/%s", name)
	}

	finals := make([]string, 0, len(cat.Rows()))
	for _, row := range cat.Rows() {
		if _, err := projectRow(entry, name, row, log); err != nil {
			return err
		}
		logical, _ := row.Str(fieldName)
		log.Debug("projected channel",
			zap.String("entry", name),
			zap.String("name", logical))
		finals = append(finals, logical)
	}

	// Read every final node back before any temporary is deleted, so a
	// failure here leaves all original data in place under the
	// temporaries.
	for _, logical := range finals {
		if _, ok := entry.Get(logical); !ok {
			return errors.Wrapf(errors.ErrStructural, "/%s/%s: projected node does not read back", name, logical)
		}
	}
	for _, tmp := range temps {
		entry.Del(tmp)
	}
	return nil
}

// entryTimestamp converts the catalog timestamp encoding, with the optional
// sub-second field of the 1.0 layout, to the canonical pair.
func entryTimestamp(row container.Row) (container.Timestamp, error) {
	raw, ok := row[fieldTimestamp]
	if !ok {
		return container.Timestamp{}, errors.Wrapf(errors.ErrStructural, "catalog row without a %q field", fieldTimestamp)
	}
	ts, err := container.CoerceTimestamp(raw)
	if err != nil {
		return container.Timestamp{}, errors.Wrap(errors.ErrStructural, err.Error())
	}
	if micros, ok := row.Int(fieldMicros); ok {
		ts = container.NewTimestamp(ts.Seconds(), ts.Micros()+micros)
	}
	return ts, nil
}

// tableOf returns the record table of a node, or nil if the node is not a
// table dataset.
func tableOf(node container.Node) *container.Table {
	d, ok := node.(*container.Dataset)
	if !ok || d.NodeKind() != container.KindTable {
		return nil
	}
	return d.Table()
}
