package migration

import (
	"github.com/auklab/raf/container"
)

// Names of the legacy catalog structures and their fields, as written by
// archive versions 0.9 and 1.0. The top level catalog has one row per entry;
// the per-entry catalog has one row per channel. The 1.0 layout renamed the
// channel reference field from "table" to "node" and added the "datatype"
// and "timestamp_m" fields.
const (
	catalogName = "catalog"

	fieldName      = "name"
	fieldTimestamp = "timestamp"
	fieldMicros    = "timestamp_m"
	fieldColumn    = "column"
	fieldUnits     = "units"
	fieldDatatype  = "datatype"
	fieldNode      = "node"  // 1.0 physical name reference
	fieldTable     = "table" // 0.9 physical name reference
)

// entryFields are the optional top level catalog fields promoted verbatim to
// entry attributes when the catalog carries them.
var entryFields = []string{"recid", "animal", "experimenter", "protocol"}

// Attribute names used by the migrated layout.
const (
	attrTimestamp    = "timestamp"
	attrUnits        = "units"
	attrDatatype     = "datatype"
	attrSamplingRate = "sampling_rate"
	attrUUID         = "uuid"
	attrRecURI       = "recuri"

	// File level bookkeeping of the pre-1.1 implementation, consumed by
	// the 1.1 step.
	attrDatabaseURI   = "database_uri"
	attrDatabaseClass = "database_class"
)

// unitsSamples marks a dataset measured in raw sample counts; such datasets
// need an explicit sampling_rate to be interpretable and get one backfilled
// by the 2.0 step.
const unitsSamples = "samples"

// bookkeepingAttrs is the closed set of attribute names the previous
// container implementation attached to every node it wrote, keyed by node
// kind. The 2.0 step removes exactly these; unknown attributes are never
// touched. Shipped as data so the list is auditable in one place.
var bookkeepingAttrs = map[container.Kind][]string{
	container.KindFile:   {"TITLE", "VERSION", "CLASS", "PYTABLES_FORMAT_VERSION"},
	container.KindGroup:  {"TITLE", "VERSION", "CLASS"},
	container.KindArray:  {"TITLE", "VERSION", "CLASS", "EXTDIM"},
	container.KindRagged: {"TITLE", "VERSION", "CLASS", "EXTDIM"},
	container.KindTable:  {"TITLE", "VERSION", "CLASS", "NROWS"},
}
