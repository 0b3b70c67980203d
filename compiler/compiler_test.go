package compiler

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/cqlgen/compiler/gen"
	"github.com/syssam/cqlgen/compiler/load"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func shopSource() load.Source {
	return load.NewSnapshotSource("load/testdata/shop.yaml")
}

func keyspaceSource(ks *load.Keyspace) load.Source {
	return load.SourceFunc(func(_ context.Context, name string) (*load.Keyspace, error) {
		if name != ks.Name {
			return nil, load.ErrKeyspaceNotFound
		}
		return ks, nil
	})
}

func config(t *testing.T, opts ...gen.Option) *gen.Config {
	t.Helper()
	opts = append([]gen.Option{gen.WithNamespace("example.com/shop"), gen.WithKeyspace("shop")}, opts...)
	c, err := gen.NewConfig(opts...)
	require.NoError(t, err)
	return c
}

// recordingSink counts the writes it receives.
type recordingSink struct {
	writes    int
	artifacts []*gen.Artifact
}

func (s *recordingSink) Write(_ context.Context, artifacts []*gen.Artifact) error {
	s.writes++
	s.artifacts = artifacts
	return nil
}

func TestGenerateShop(t *testing.T) {
	var buf bytes.Buffer
	artifacts, err := Generate(context.Background(), shopSource(), config(t), gen.NewPreviewSink(&buf), discard)
	require.NoError(t, err)

	var paths []string
	for _, a := range artifacts {
		paths = append(paths, a.Path)
	}
	assert.Equal(t, []string{"shop/address.go", "shop/order.go", "shop/order_dal.go"}, paths)

	out := buf.String()
	assert.Contains(t, out, "// ---- shop/address.go ----")
	assert.Contains(t, out, "type Address struct {")
	assert.Contains(t, out, "type Order struct {")
	assert.Contains(t, out, "func (d *OrderDAL) Get(ctx context.Context, orderID gocql.UUID, createdAt time.Time) (*Order, error) {")
}

func TestGenerateIdempotent(t *testing.T) {
	first, err := Generate(context.Background(), shopSource(), config(t), &recordingSink{}, discard)
	require.NoError(t, err)
	second, err := Generate(context.Background(), shopSource(), config(t, gen.WithWorkers(1)), &recordingSink{}, discard)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Path, second[i].Path)
		assert.Equal(t, string(first[i].Contents), string(second[i].Contents))
	}
}

func TestGeneratePreviewMatchesFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := Generate(context.Background(), shopSource(), config(t, gen.WithTarget(dir)), nil, discard)
	require.NoError(t, err)

	var buf bytes.Buffer
	artifacts, err := Generate(context.Background(), shopSource(), config(t), gen.NewPreviewSink(&buf), discard)
	require.NoError(t, err)

	var expected bytes.Buffer
	for _, a := range artifacts {
		got, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(a.Path)))
		require.NoError(t, err)
		assert.Equal(t, a.Contents, got)
		expected.WriteString("// ---- " + a.Path + " ----\n")
		expected.Write(got)
		expected.WriteString("\n")
	}
	assert.Equal(t, expected.String(), buf.String())
}

func TestGenerateCycleEmitsNothing(t *testing.T) {
	sink := &recordingSink{}
	_, err := Generate(context.Background(), keyspaceSource(&load.Keyspace{
		Name: "shop",
		Types: []*load.UserType{
			{Name: "a", Fields: []*load.UserTypeField{{Name: "b", Type: "frozen<b>"}}},
			{Name: "b", Fields: []*load.UserTypeField{{Name: "a", Type: "frozen<a>"}}},
		},
	}), config(t), sink, discard)
	require.Error(t, err)
	assert.True(t, gen.IsCycleError(err))
	assert.Zero(t, sink.writes)
}

func TestGenerateUnknownTypeWritesNoFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	_, err := Generate(context.Background(), keyspaceSource(&load.Keyspace{
		Name: "shop",
		Tables: []*load.Table{{Name: "users", Columns: []*load.Column{
			{Name: "id", Type: "uuid", Kind: load.KindPartitionKey},
			{Name: "home", Type: "frozen<address>", Kind: load.KindRegular, Position: -1},
		}}},
	}), config(t, gen.WithTarget(dir)), nil, discard)
	require.Error(t, err)
	var unresolved *gen.UnresolvedColumnTypeError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "home", unresolved.Column)

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestGenerateErrors(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := Generate(context.Background(), shopSource(), nil, nil, discard)
		assert.True(t, gen.IsConfigError(err))
	})

	t.Run("missing keyspace", func(t *testing.T) {
		_, err := Generate(context.Background(), shopSource(), &gen.Config{Namespace: "example.com/shop"}, nil, discard)
		assert.True(t, gen.IsConfigError(err))
	})

	t.Run("nil source", func(t *testing.T) {
		_, err := Generate(context.Background(), nil, config(t), nil, discard)
		assert.True(t, gen.IsConfigError(err))
	})

	t.Run("keyspace not found", func(t *testing.T) {
		_, err := Generate(context.Background(), shopSource(), config(t, gen.WithKeyspace("other")), &recordingSink{}, discard)
		assert.ErrorIs(t, err, load.ErrKeyspaceNotFound)
	})
}

func TestDefaultSink(t *testing.T) {
	var buf bytes.Buffer
	_, ok := DefaultSink(config(t), &buf).(*gen.PreviewSink)
	assert.True(t, ok)

	fs, ok := DefaultSink(config(t, gen.WithTarget("out")), &buf).(*gen.FileSink)
	require.True(t, ok)
	assert.Equal(t, "out", fs.Dir)
}
