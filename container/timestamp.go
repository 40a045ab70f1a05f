package container

import (
	"math"
	"time"

	"github.com/auklab/raf/errors"
)

// Timestamp represents a point in time as a (seconds, microseconds) pair.
// This is the canonical encoding of entry timestamps since schema 1.1.
// Legacy schemas stored timestamps as a single float or as separate integer
// fields; CoerceTimestamp accepts all of those.
type Timestamp [2]int64

// NewTimestamp builds a canonical pair from whole seconds and microseconds.
func NewTimestamp(sec, usec int64) Timestamp {
	return Timestamp{sec, usec}
}

// AsTimestamp converts a time.Time into its canonical pair representation.
func AsTimestamp(t time.Time) Timestamp {
	return Timestamp{t.Unix(), int64(t.Nanosecond() / 1e3)}
}

// Seconds returns the whole-seconds component.
func (t Timestamp) Seconds() int64 { return t[0] }

// Micros returns the sub-second component in microseconds.
func (t Timestamp) Micros() int64 { return t[1] }

// Time returns a time.Time structure that represents the same moment in time.
func (t Timestamp) Time() time.Time {
	return time.Unix(t[0], t[1]*1e3)
}

// CoerceTimestamp converts any of the timestamp encodings found in legacy
// archives to the canonical pair:
//
//   float seconds since epoch (fraction becomes microseconds)
//   integer seconds since epoch
//   a two element integer slice, already (seconds, microseconds)
//
// Anything else is a type error.
func CoerceTimestamp(v interface{}) (Timestamp, error) {
	switch val := v.(type) {
	case Timestamp:
		return val, nil
	case float64:
		sec := math.Floor(val)
		return Timestamp{int64(sec), int64(math.Round((val - sec) * 1e6))}, nil
	case int64:
		return Timestamp{val, 0}, nil
	case int:
		return Timestamp{int64(val), 0}, nil
	case uint64:
		return Timestamp{int64(val), 0}, nil
	case []int64:
		if len(val) != 2 {
			return Timestamp{}, errors.Wrapf(errors.ErrType, "timestamp slice of length %d", len(val))
		}
		return Timestamp{val[0], val[1]}, nil
	default:
		return Timestamp{}, errors.Wrapf(errors.ErrType, "timestamp of type %T", v)
	}
}
