package migration

import (
	"github.com/auklab/raf/errors"
)

// SamplingRateParam is the parameter consulted by the 2.0 step when a
// dataset measured in raw samples carries no explicit rate of its own.
const SamplingRateParam = "sampling_rate"

// Params carries caller supplied values that the legacy data cannot provide.
// Steps look values up by name and fail with ErrMissingParameter when a
// required one is absent.
type Params map[string]interface{}

// Float returns the named parameter as a float64, accepting integer values
// too. An absent parameter is ErrMissingParameter, a mistyped one ErrType.
func (p Params) Float(name string) (float64, error) {
	v, ok := p[name]
	if !ok {
		return 0, errors.Wrapf(errors.ErrMissingParameter, "%q", name)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, errors.Wrapf(errors.ErrType, "parameter %q is %T", name, v)
	}
}
