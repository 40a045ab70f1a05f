package container

import (
	"io"
	"os"
	"path/filepath"

	"github.com/auklab/raf/errors"
)

// VersionAttr is the file level attribute carrying the declared schema
// version of the archive.
const VersionAttr = "schema_version"

// Container is a whole archive file: the file level attribute set plus the
// tree of named entries and auxiliary datasets under it.
//
// A container is loaded into memory as a whole and written back as a whole.
// It is a single writer structure; the caller must ensure no concurrent
// reader or writer exists while it is open for modification.
type Container struct {
	path string
	root *Group
}

// New returns an empty in-memory container not yet bound to a file.
func New() *Container {
	return &Container{root: newFileGroup()}
}

// Open reads the archive stored at path. The returned container keeps the
// path so that Save writes back to the same file.
func Open(path string) (*Container, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "read %s: %v", path, err)
	}
	root, err := decodeFile(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return &Container{path: path, root: root}, nil
}

// Path returns the file this container was opened from, or an empty string
// for an in-memory container.
func (c *Container) Path() string { return c.path }

// Root returns the file level group holding all top level nodes.
func (c *Container) Root() *Group { return c.root }

// Attributes returns the file level attribute set.
func (c *Container) Attributes() *Attrs { return c.root.Attributes() }

// Version returns the declared schema version. It fails with ErrNotFound
// when the archive predates version tagging, and with ErrInput when the
// attribute does not parse as a dotted pair.
func (c *Container) Version() (Version, error) {
	raw, ok := c.root.Attributes().String(VersionAttr)
	if !ok {
		return Version{}, errors.Wrapf(errors.ErrNotFound, "no %s attribute", VersionAttr)
	}
	return ParseVersion(raw)
}

// SetVersion stores the declared schema version attribute.
func (c *Container) SetVersion(v Version) {
	c.root.Attributes().Set(VersionAttr, v.String())
}

// Save writes the container back to the file it was opened from. The write
// goes to a temporary file in the same directory first so that the archive
// on disk is never half written.
func (c *Container) Save() error {
	if c.path == "" {
		return errors.Wrap(errors.ErrState, "container is not bound to a file")
	}
	return c.SaveTo(c.path)
}

// SaveTo writes the container to the given path and binds the container to
// it.
func (c *Container) SaveTo(path string) error {
	raw, err := encodeFile(c.root)
	if err != nil {
		return errors.Wrap(err, "encode")
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".raf-write-*")
	if err != nil {
		return errors.Wrapf(errors.ErrState, "temporary file: %v", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrapf(errors.ErrState, "write %s: %v", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(errors.ErrState, "close %s: %v", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(errors.ErrState, "rename to %s: %v", path, err)
	}
	c.path = path
	return nil
}

// CopyFile duplicates the archive at src byte-for-byte to dst, preserving
// the file mode. Migration in copy mode uses this before touching anything.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "open %s: %v", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "stat %s: %v", src, err)
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "create %s: %v", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return errors.Wrapf(errors.ErrState, "copy to %s: %v", dst, err)
	}
	if err := out.Close(); err != nil {
		return errors.Wrapf(errors.ErrState, "close %s: %v", dst, err)
	}
	return nil
}
