package migration

import (
	"go.uber.org/zap"

	"github.com/auklab/raf/container"
	"github.com/auklab/raf/errors"
)

// oldestVersion is what an archive without a schema_version attribute is
// assumed to be: the oldest layout predates version tagging.
var oldestVersion = container.Version{Major: 0, Minor: 9}

// Migrate upgrades an open container to the newest registered schema
// version and returns the version the archive declares afterwards.
//
// The declared version is advanced, and the archive written back to its
// file, after every completed step. A step failure aborts the run with the
// archive still declaring the last version it fully satisfies. When the
// archive already declares the newest version, ErrAlreadyCurrent is
// returned; callers should treat it as information, not failure.
func Migrate(c *container.Container, params Params, log *zap.Logger) (container.Version, error) {
	return reg.Apply(c, params, log)
}

// MigrateFile opens the archive at path and upgrades it in place. When
// copyTo is not empty the archive is first duplicated byte-for-byte and the
// duplicate is upgraded instead, leaving the original untouched.
func MigrateFile(path, copyTo string, params Params, log *zap.Logger) (container.Version, error) {
	if copyTo != "" {
		if err := container.CopyFile(path, copyTo); err != nil {
			return container.Version{}, errors.Wrap(err, "copy archive")
		}
		path = copyTo
	}
	c, err := container.Open(path)
	if err != nil {
		return container.Version{}, err
	}
	return Migrate(c, params, log)
}

// Apply runs every registered step whose target version exceeds the version
// the container declares, in ascending order.
func (r *register) Apply(c *container.Container, params Params, log *zap.Logger) (container.Version, error) {
	if log == nil {
		log = zap.NewNop()
	}

	current, err := c.Version()
	switch {
	case err == nil:
	case errors.ErrNotFound.Is(err):
		// Predates version tagging.
		current = oldestVersion
	default:
		return container.Version{}, errors.Wrap(err, "declared version")
	}

	newest, err := r.Newest()
	if err != nil {
		return container.Version{}, err
	}
	if !current.Less(newest) {
		return current, errors.Wrapf(errors.ErrAlreadyCurrent, "archive declares %s", current)
	}

	for _, step := range r.steps {
		if !current.Less(step.to) {
			continue
		}
		log.Info("upgrading archive",
			zap.String("path", c.Path()),
			zap.String("from", current.String()),
			zap.String("to", step.to.String()))
		if err := step.fn(c, params, log); err != nil {
			return current, errors.Wrapf(err, "step to %s", step.to)
		}
		// The version tag moves only once the step has fully completed.
		c.SetVersion(step.to)
		if c.Path() != "" {
			if err := c.Save(); err != nil {
				return current, errors.Wrapf(err, "save after step to %s", step.to)
			}
		}
		current = step.to
	}
	return current, nil
}
