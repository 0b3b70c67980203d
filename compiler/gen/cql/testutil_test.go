package cql

import (
	"testing"

	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/require"

	"github.com/syssam/cqlgen/compiler/gen"
	"github.com/syssam/cqlgen/compiler/load"
)

// mockHelper implements gen.GeneratorHelper over a graph with
// configurable feature flags.
type mockHelper struct {
	graph           *gen.Graph
	enabledFeatures map[string]bool
}

func newMockHelper(t *testing.T, ks *load.Keyspace) *mockHelper {
	t.Helper()
	c, err := gen.NewConfig(gen.WithNamespace("example.com/shop"), gen.WithKeyspace(ks.Name))
	require.NoError(t, err)
	g, err := gen.NewGraph(c, ks)
	require.NoError(t, err)
	m := &mockHelper{graph: g, enabledFeatures: make(map[string]bool)}
	for _, f := range c.Features {
		m.enabledFeatures[f.Name] = true
	}
	return m
}

func (m *mockHelper) withFeatures(features ...string) *mockHelper {
	for _, f := range features {
		m.enabledFeatures[f] = true
	}
	return m
}

func (m *mockHelper) withoutFeatures(features ...string) *mockHelper {
	for _, f := range features {
		delete(m.enabledFeatures, f)
	}
	return m
}

func (m *mockHelper) NewFile() *jen.File {
	f := jen.NewFile(m.Pkg())
	f.HeaderComment(m.graph.HeaderComment())
	return f
}

func (m *mockHelper) Graph() *gen.Graph               { return m.graph }
func (m *mockHelper) Pkg() string                     { return m.graph.Package() }
func (m *mockHelper) FeatureEnabled(name string) bool { return m.enabledFeatures[name] }

// Ensure mockHelper implements gen.GeneratorHelper.
var _ gen.GeneratorHelper = (*mockHelper)(nil)

// shopKeyspace returns a keyspace with nested types, a time series table
// and a counter table.
func shopKeyspace(t *testing.T) *load.Keyspace {
	t.Helper()
	ks, err := load.NewSnapshotSource("../../load/testdata/shop.yaml").Keyspace(t.Context(), "shop")
	require.NoError(t, err)
	ks.Types = append(ks.Types,
		&load.UserType{Name: "geo", Fields: []*load.UserTypeField{
			{Name: "lat", Type: "double"},
			{Name: "lon", Type: "double"},
		}},
		&load.UserType{Name: "customer", Fields: []*load.UserTypeField{
			{Name: "name", Type: "text"},
			{Name: "addresses", Type: "list<frozen<address>>"},
			{Name: "location", Type: "frozen<geo>"},
			{Name: "tags", Type: "set<text>"},
			{Name: "pair", Type: "tuple<int, text>"},
		}},
	)
	ks.Tables = append(ks.Tables,
		&load.Table{Name: "page_views", Columns: []*load.Column{
			{Name: "page", Type: "text", Kind: load.KindPartitionKey},
			{Name: "views", Type: "counter", Kind: load.KindRegular, Position: -1},
		}},
		&load.Table{Name: "profiles", Columns: []*load.Column{
			{Name: "user_id", Type: "timeuuid", Kind: load.KindPartitionKey},
			{Name: "balance", Type: "decimal", Kind: load.KindRegular, Position: -1},
			{Name: "score", Type: "varint", Kind: load.KindRegular, Position: -1},
			{Name: "ip", Type: "inet", Kind: load.KindRegular, Position: -1},
			{Name: "avatar", Type: "blob", Kind: load.KindRegular, Position: -1},
			{Name: "ttl", Type: "duration", Kind: load.KindRegular, Position: -1},
			{Name: "born", Type: "date", Kind: load.KindRegular, Position: -1},
			{Name: "wake", Type: "time", Kind: load.KindRegular, Position: -1},
			{Name: "prefs", Type: "map<text, frozen<list<int>>>", Kind: load.KindRegular, Position: -1},
			{Name: "customer", Type: "frozen<customer>", Kind: load.KindRegular, Position: -1},
			{Name: "order", Type: "smallint", Kind: load.KindRegular, Position: -1},
			{Name: "flag", Type: "tinyint", Kind: load.KindRegular, Position: -1},
			{Name: "ratio", Type: "float", Kind: load.KindRegular, Position: -1},
			{Name: "active", Type: "boolean", Kind: load.KindRegular, Position: -1},
		}},
	)
	return ks
}

// entity returns the model of the named table.
func entity(t *testing.T, g *gen.Graph, table string) *gen.EntityModel {
	t.Helper()
	for _, e := range g.Entities {
		if e.Table == table {
			return e
		}
	}
	t.Fatalf("table %q not found", table)
	return nil
}

// udtModel returns the model of the named user-defined type.
func udtModel(t *testing.T, g *gen.Graph, name string) *gen.UdtModel {
	t.Helper()
	m, ok := g.Type(name)
	require.True(t, ok, name)
	return m
}
