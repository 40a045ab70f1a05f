package migration

import (
	"go.uber.org/zap"

	"github.com/auklab/raf/container"
	"github.com/auklab/raf/errors"
)

// Step is a function that upgrades an archive from the previous schema
// version to the version the step was registered under. A step mutates the
// container in place and must not advance the declared version itself; the
// driver does that once the step returns successfully.
type Step func(c *container.Container, params Params, log *zap.Logger) error

// stepEntry references a step together with the version it upgrades to.
type stepEntry struct {
	to container.Version
	fn Step
}

func newRegister() *register {
	return &register{}
}

type register struct {
	steps []stepEntry
}

func (r *register) MustRegister(to container.Version, fn Step) {
	if err := r.Register(to, fn); err != nil {
		panic(err)
	}
}

// Register adds a step upgrading to the given version. Steps must be
// registered in strictly ascending target version order so that the driver
// can walk the slice as the upgrade chain.
func (r *register) Register(to container.Version, fn Step) error {
	if fn == nil {
		return errors.Wrap(errors.ErrInput, "nil step function")
	}
	if n := len(r.steps); n > 0 {
		last := r.steps[n-1].to
		if !last.Less(to) {
			return errors.Wrapf(errors.ErrInput, "step to %s registered after %s", to, last)
		}
	}
	r.steps = append(r.steps, stepEntry{to: to, fn: fn})
	return nil
}

// Newest returns the highest registered target version. It fails when no
// step was registered.
func (r *register) Newest() (container.Version, error) {
	if len(r.steps) == 0 {
		return container.Version{}, errors.Wrap(errors.ErrState, "no steps registered")
	}
	return r.steps[len(r.steps)-1].to, nil
}

// reg is a globally available register instance that must be used during the
// runtime to register migration steps. Register is declared as a separate
// type so that it can be tested without worrying about the global state.
var reg *register = newRegister()

// MustRegister adds a step to the global register, panicking on misuse. Call
// it from an init function of the file implementing the step.
func MustRegister(to container.Version, fn Step) {
	reg.MustRegister(to, fn)
}
