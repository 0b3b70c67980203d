package load

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// SnapshotSource reads keyspace metadata from a YAML (or JSON) file
// previously written by WriteSnapshot or authored by hand. It allows
// generating code without a live cluster.
type SnapshotSource struct {
	Path string
}

// NewSnapshotSource returns a Source backed by the file at path.
func NewSnapshotSource(path string) *SnapshotSource {
	return &SnapshotSource{Path: path}
}

// Keyspace implements Source. The file is re-read on every call so that
// watch mode observes edits.
func (s *SnapshotSource) Keyspace(ctx context.Context, name string) (*Keyspace, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	buf, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("load: read snapshot: %w", err)
	}
	ks, err := ReadSnapshot(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("load: snapshot %s: %w", s.Path, err)
	}
	if ks.Name != name {
		return nil, fmt.Errorf("%w: snapshot %s holds %q, not %q", ErrKeyspaceNotFound, s.Path, ks.Name, name)
	}
	return ks, nil
}

// ReadSnapshot decodes and validates a keyspace snapshot. JSON input is
// accepted as well, since it is a subset of YAML.
func ReadSnapshot(r io.Reader) (*Keyspace, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	ks := &Keyspace{}
	if err := dec.Decode(ks); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	for _, t := range ks.Tables {
		for _, c := range t.Columns {
			if c.Kind == "" {
				c.Kind = KindRegular
			}
		}
	}
	if err := ks.Validate(); err != nil {
		return nil, err
	}
	return ks, nil
}

// WriteSnapshot encodes ks as YAML.
func WriteSnapshot(w io.Writer, ks *Keyspace) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ks); err != nil {
		return fmt.Errorf("load: encode snapshot: %w", err)
	}
	return enc.Close()
}
