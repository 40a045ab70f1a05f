package migration

import (
	"go.uber.org/zap"

	"github.com/auklab/raf/container"
	"github.com/auklab/raf/pickle"
)

// Reconcile normalizes the attribute set of a migrated node, optionally
// merging in the attributes of the legacy node it was built from.
//
// Every string attribute that looks like a legacy pickled payload is decoded
// to its native value in place. A value that fails to decode stays exactly
// as it was, with a warning logged: legacy archives are append-mostly and a
// failed best effort upgrade must never make one unreadable.
//
// Attributes present only on the legacy source are copied across, decoded
// the same way. Attributes already on the target are never overwritten by
// the legacy source; the target wins.
func Reconcile(target, legacy *container.Attrs, log *zap.Logger) {
	for _, name := range target.Names() {
		v, _ := target.Get(name)
		target.Set(name, decodeMaybe(name, v, log))
	}
	if legacy == nil {
		return
	}
	for _, name := range legacy.Names() {
		if target.Has(name) {
			continue
		}
		v, _ := legacy.Get(name)
		target.Set(name, decodeMaybe(name, v, log))
	}
}

// decodeMaybe attempts pickled-value decoding and returns either the native
// value or the original one.
func decodeMaybe(name string, v interface{}, log *zap.Logger) interface{} {
	s, ok := v.(string)
	if !ok || !pickle.Looks(s) {
		return v
	}
	val, err := pickle.Loads([]byte(s))
	if err != nil {
		log.Warn("cannot decode pickled attribute, keeping original value",
			zap.String("attribute", name),
			zap.String("value", s),
			zap.Error(err))
		return v
	}
	return val
}
