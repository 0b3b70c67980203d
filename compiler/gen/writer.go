package gen

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
)

// ArtifactKind identifies the generator that produced an artifact.
type ArtifactKind string

// Artifact kinds, in emission order.
const (
	KindValue  ArtifactKind = "value"
	KindEntity ArtifactKind = "entity"
	KindDAL    ArtifactKind = "dal"
)

// Artifact is a rendered source file.
type Artifact struct {
	Kind ArtifactKind
	// LogicalName is the Go identifier the file is generated for.
	LogicalName string
	// Path is the slash-separated location of the file relative to the
	// output directory: <package>/<file>.go.
	Path     string
	Contents []byte
}

// Sink receives the artifacts of a run, in generation order.
type Sink interface {
	Write(ctx context.Context, artifacts []*Artifact) error
}

// FileSink writes artifacts below Dir. Files are first staged into a
// temporary directory next to Dir and then renamed into place, so a
// failure while rendering to disk leaves Dir untouched.
type FileSink struct {
	Dir string
}

// NewFileSink returns a sink writing below dir.
func NewFileSink(dir string) *FileSink {
	return &FileSink{Dir: dir}
}

// Write implements Sink.
func (s *FileSink) Write(ctx context.Context, artifacts []*Artifact) error {
	dir, err := filepath.Abs(s.Dir)
	if err != nil {
		return &OutputWriteError{Artifact: "output directory", Path: s.Dir, Cause: err}
	}
	parent := filepath.Dir(dir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return &OutputWriteError{Artifact: "output directory", Path: parent, Cause: err}
	}
	stage, err := os.MkdirTemp(parent, ".cqlgen-stage-*")
	if err != nil {
		return &OutputWriteError{Artifact: "staging directory", Path: parent, Cause: err}
	}
	defer os.RemoveAll(stage)

	for _, a := range artifacts {
		if err := ctx.Err(); err != nil {
			return &OutputWriteError{Artifact: a.LogicalName, Cause: err}
		}
		p := filepath.Join(stage, filepath.FromSlash(a.Path))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return &OutputWriteError{Artifact: a.LogicalName, Path: p, Cause: err}
		}
		if err := os.WriteFile(p, a.Contents, 0o644); err != nil {
			return &OutputWriteError{Artifact: a.LogicalName, Path: p, Cause: err}
		}
	}

	// Commit. Files already moved are not rolled back.
	var written []string
	for i, a := range artifacts {
		target := filepath.Join(dir, filepath.FromSlash(a.Path))
		err := os.MkdirAll(filepath.Dir(target), 0o755)
		if err == nil {
			err = os.Rename(filepath.Join(stage, filepath.FromSlash(a.Path)), target)
		}
		if err != nil {
			unwritten := make([]string, 0, len(artifacts)-i)
			for _, u := range artifacts[i:] {
				unwritten = append(unwritten, u.LogicalName)
			}
			return &OutputWriteError{
				Artifact:  a.LogicalName,
				Path:      target,
				Written:   written,
				Unwritten: unwritten,
				Cause:     err,
			}
		}
		written = append(written, a.LogicalName)
	}
	return nil
}

// PreviewSink writes every artifact to a single stream, each preceded by
// a banner line holding its path. It never touches the filesystem.
type PreviewSink struct {
	W io.Writer
	// Color enables colored banners.
	Color bool
}

// NewPreviewSink returns a sink writing to w. Banners are colored when w
// is the standard output of a terminal.
func NewPreviewSink(w io.Writer) *PreviewSink {
	return &PreviewSink{W: w, Color: w == os.Stdout && !color.NoColor}
}

// Write implements Sink.
func (s *PreviewSink) Write(ctx context.Context, artifacts []*Artifact) error {
	banner := color.New(color.FgCyan, color.Bold)
	if s.Color {
		banner.EnableColor()
	} else {
		banner.DisableColor()
	}
	for _, a := range artifacts {
		if err := ctx.Err(); err != nil {
			return &OutputWriteError{Artifact: a.LogicalName, Cause: err}
		}
		if _, err := banner.Fprintf(s.W, "// ---- %s ----\n", a.Path); err != nil {
			return &OutputWriteError{Artifact: a.LogicalName, Cause: err}
		}
		if _, err := s.W.Write(a.Contents); err != nil {
			return &OutputWriteError{Artifact: a.LogicalName, Cause: err}
		}
		if _, err := fmt.Fprintln(s.W); err != nil {
			return &OutputWriteError{Artifact: a.LogicalName, Cause: err}
		}
	}
	return nil
}
