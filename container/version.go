package container

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/auklab/raf/errors"
)

// Version is a dotted major.minor schema version as stored in the
// "schema_version" file attribute.
type Version struct {
	Major int
	Minor int
}

// ParseVersion parses a dotted pair such as "1.1". Anything else is an input
// error.
func ParseVersion(s string) (Version, error) {
	chunks := strings.Split(s, ".")
	if len(chunks) != 2 {
		return Version{}, errors.Wrapf(errors.ErrInput, "not a dotted pair: %q", s)
	}
	major, err := strconv.Atoi(chunks[0])
	if err != nil {
		return Version{}, errors.Wrapf(errors.ErrInput, "major: %q", chunks[0])
	}
	minor, err := strconv.Atoi(chunks[1])
	if err != nil {
		return Version{}, errors.Wrapf(errors.ErrInput, "minor: %q", chunks[1])
	}
	if major < 0 || minor < 0 {
		return Version{}, errors.Wrapf(errors.ErrInput, "negative version: %q", s)
	}
	return Version{Major: major, Minor: minor}, nil
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Less returns true if v is older than o.
func (v Version) Less(o Version) bool {
	if v.Major != o.Major {
		return v.Major < o.Major
	}
	return v.Minor < o.Minor
}
