package migration

import (
	"go.uber.org/zap"

	"github.com/auklab/raf/container"
	"github.com/auklab/raf/errors"
)

func init() {
	MustRegister(container.Version{Major: 2, Minor: 0}, upgradeTo20)
}

// upgradeTo20 converts a 1.1 archive to 2.0: the bookkeeping attributes of
// the previous container implementation are stripped at every level, every
// entry gets a unique identifier unless it already has one, and datasets
// measured in raw samples without an explicit rate get the caller supplied
// fallback sampling rate.
func upgradeTo20(c *container.Container, params Params, log *zap.Logger) error {
	root := c.Root()

	var failure error
	root.Ascend(func(name string, node container.Node) bool {
		entry, ok := node.(*container.Group)
		if !ok {
			// Auxiliary top level datasets only lose bookkeeping.
			stripBookkeeping(node.Attributes(), node.NodeKind())
			return true
		}

		ensureID(entry.Attributes())
		stripBookkeeping(entry.Attributes(), container.KindGroup)

		entry.Ascend(func(dname string, child container.Node) bool {
			stripBookkeeping(child.Attributes(), child.NodeKind())

			attrs := child.Attributes()
			units, _ := attrs.String(attrUnits)
			if units != unitsSamples || attrs.Has(attrSamplingRate) {
				return true
			}
			rate, err := params.Float(SamplingRateParam)
			if err != nil {
				failure = errors.Wrapf(err, "/%s/%s needs a sampling rate", name, dname)
				return false
			}
			log.Info("backfilling sampling rate",
				zap.String("entry", name),
				zap.String("dataset", dname),
				zap.Float64("rate", rate))
			attrs.Set(attrSamplingRate, rate)
			return true
		})
		return failure == nil
	})
	if failure != nil {
		return failure
	}

	stripBookkeeping(root.Attributes(), container.KindFile)
	return nil
}
