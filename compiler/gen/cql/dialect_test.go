package cql

import (
	"regexp"
	"testing"

	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/cqlgen/compiler/gen"
	"github.com/syssam/cqlgen/compiler/load"
)

var spaces = regexp.MustCompile(`[ \t]+`)

// code renders f with runs of blanks collapsed, so that assertions do
// not depend on gofmt alignment.
func code(t *testing.T, f *jen.File) string {
	t.Helper()
	require.NotNil(t, f)
	return spaces.ReplaceAllString(f.GoString(), " ")
}

func TestDialect(t *testing.T) {
	h := newMockHelper(t, shopKeyspace(t))
	d := NewDialect(h)
	assert.Equal(t, "cql", d.Name())

	f, err := d.GenValueType(udtModel(t, h.graph, "address"))
	require.NoError(t, err)
	assert.Contains(t, code(t, f), "type Address struct")

	f, err = d.GenEntity(entity(t, h.graph, "orders"))
	require.NoError(t, err)
	assert.Contains(t, code(t, f), "type Order struct")

	f, err = d.GenDAL(entity(t, h.graph, "orders"))
	require.NoError(t, err)
	assert.Contains(t, code(t, f), "type OrderDAL struct")
}

func TestGenValueType(t *testing.T) {
	h := newMockHelper(t, shopKeyspace(t))

	t.Run("address", func(t *testing.T) {
		f, err := genValueType(h, udtModel(t, h.graph, "address"))
		require.NoError(t, err)
		out := code(t, f)
		assert.Contains(t, out, "// Code generated by cqlgen. DO NOT EDIT.")
		assert.Contains(t, out, "package shop")
		assert.Contains(t, out, `const AddressTypeName = "address"`)
		assert.Contains(t, out, "Street string `cql:\"street\"`")
		assert.Contains(t, out, "City string `cql:\"city\"`")
		assert.Contains(t, out, "func (a *Address) GetStreet() string {")
		assert.Contains(t, out, "if a == nil {")
		assert.Contains(t, out, "func (a *Address) String() string {")
		assert.Contains(t, out, `builder.WriteString("Address(")`)
		assert.Contains(t, out, `builder.WriteString(", city=")`)
		assert.NotContains(t, out, "json:")
	})

	t.Run("nested value types", func(t *testing.T) {
		f, err := genValueType(h, udtModel(t, h.graph, "customer"))
		require.NoError(t, err)
		out := code(t, f)
		assert.Contains(t, out, "Addresses []Address `cql:\"addresses\"`")
		assert.Contains(t, out, "Location Geo `cql:\"location\"`")
		assert.Contains(t, out, "Tags []string `cql:\"tags\"`")
		assert.Contains(t, out, "Field0 int32")
		assert.Contains(t, out, "Field1 string")
		assert.Contains(t, out, "func (c *Customer) GetLocation() Geo {")
	})
}

func TestGenValueTypeFeatures(t *testing.T) {
	t.Run("json tags and schema comments", func(t *testing.T) {
		h := newMockHelper(t, shopKeyspace(t)).withFeatures(gen.FeatureJSONTags.Name, gen.FeatureSchemaComments.Name)
		f, err := genValueType(h, udtModel(t, h.graph, "customer"))
		require.NoError(t, err)
		out := code(t, f)
		assert.Contains(t, out, "Name string `cql:\"name\" json:\"name\"`")
		assert.Contains(t, out, "Tags []string `cql:\"tags\" json:\"tags,omitempty\"`")
		assert.Contains(t, out, `// Addresses is the "addresses" field of type list<address>.`)
	})

	t.Run("without stringer", func(t *testing.T) {
		h := newMockHelper(t, shopKeyspace(t)).withoutFeatures(gen.FeatureStringer.Name)
		f, err := genValueType(h, udtModel(t, h.graph, "address"))
		require.NoError(t, err)
		assert.NotContains(t, code(t, f), "String() string")
	})
}

func TestGenEntity(t *testing.T) {
	h := newMockHelper(t, shopKeyspace(t))
	f, err := genEntity(h, entity(t, h.graph, "orders"))
	require.NoError(t, err)
	out := code(t, f)

	assert.Contains(t, out, `OrderTable = "shop.orders"`)
	assert.Contains(t, out, `OrderColumns = []string{"order_id", "created_at", "ship_to"}`)
	assert.Contains(t, out, `OrderPartitionKeys = []string{"order_id"}`)
	assert.Contains(t, out, `OrderClusteringKeys = []string{"created_at"}`)
	assert.Contains(t, out, "// Order is the entity of the shop.orders table.")
	assert.Contains(t, out, "// OrderID is partition key #0.")
	assert.Contains(t, out, "OrderID gocql.UUID `cql:\"order_id\"`")
	assert.Contains(t, out, "// CreatedAt is clustering key #0 DESC.")
	assert.Contains(t, out, "CreatedAt time.Time `cql:\"created_at\"`")
	assert.Contains(t, out, "ShipTo *Address `cql:\"ship_to\"`")
	assert.Contains(t, out, "return []any{o.OrderID, o.CreatedAt, o.ShipTo}")
	assert.Contains(t, out, "return []any{&o.OrderID, &o.CreatedAt, &o.ShipTo}")
	assert.Contains(t, out, "func (o *Order) GetShipTo() *Address {")
	assert.Contains(t, out, "if _v := o.ShipTo; _v != nil {")
	assert.Contains(t, out, `"github.com/gocql/gocql"`)
	assert.NotContains(t, out, "customer orders")
}

func TestGenEntitySchemaComments(t *testing.T) {
	h := newMockHelper(t, shopKeyspace(t)).withFeatures(gen.FeatureSchemaComments.Name)
	f, err := genEntity(h, entity(t, h.graph, "orders"))
	require.NoError(t, err)
	out := code(t, f)
	assert.Contains(t, out, "// customer orders")
	assert.Contains(t, out, "// CQL type: address.")
	assert.Contains(t, out, `// ShipTo is the "ship_to" column.`)
}

func TestGenEntityTypeMapping(t *testing.T) {
	h := newMockHelper(t, shopKeyspace(t))
	f, err := genEntity(h, entity(t, h.graph, "profiles"))
	require.NoError(t, err)
	out := code(t, f)

	for _, expected := range []string{
		"UserID gocql.UUID `cql:\"user_id\"`",
		"Active *bool `cql:\"active\"`",
		"Avatar []byte `cql:\"avatar\"`",
		"Balance *inf.Dec `cql:\"balance\"`",
		"Born *time.Time `cql:\"born\"`",
		"Customer *Customer `cql:\"customer\"`",
		"Flag *int8 `cql:\"flag\"`",
		"IP net.IP `cql:\"ip\"`",
		"Order *int16 `cql:\"order\"`",
		"Prefs map[string][]int32 `cql:\"prefs\"`",
		"Ratio *float32 `cql:\"ratio\"`",
		"Score *big.Int `cql:\"score\"`",
		"TTL *gocql.Duration `cql:\"ttl\"`",
		"Wake *time.Duration `cql:\"wake\"`",
		`"gopkg.in/inf.v0"`,
		`"math/big"`,
		`"net"`,
		`"\"order\""`,
	} {
		assert.Contains(t, out, expected)
	}
}

func TestGenDAL(t *testing.T) {
	h := newMockHelper(t, shopKeyspace(t))
	f, err := genDAL(h, entity(t, h.graph, "orders"))
	require.NoError(t, err)
	out := code(t, f)

	assert.Contains(t, out, "session *gocql.Session")
	assert.Contains(t, out, "consistency gocql.Consistency")
	assert.Contains(t, out, "func NewOrderDAL(session *gocql.Session) *OrderDAL {")
	assert.Contains(t, out, "consistency: gocql.LocalQuorum")
	assert.Contains(t, out, "func (d *OrderDAL) WithConsistency(c gocql.Consistency) *OrderDAL {")
	assert.Contains(t, out, "func (d *OrderDAL) Get(ctx context.Context, orderID gocql.UUID, createdAt time.Time) (*Order, error) {")
	assert.Contains(t, out, `"SELECT order_id, created_at, ship_to FROM shop.orders WHERE order_id = ? AND created_at = ?"`)
	assert.Contains(t, out, ".WithContext(ctx).Consistency(d.consistency).Scan(e.Pointers()...)")
	assert.Contains(t, out, "func (d *OrderDAL) List(ctx context.Context, orderID gocql.UUID) ([]*Order, error) {")
	assert.Contains(t, out, `"SELECT order_id, created_at, ship_to FROM shop.orders WHERE order_id = ?"`)
	assert.Contains(t, out, "for e := new(Order); iter.Scan(e.Pointers()...); e = new(Order) {")
	assert.Contains(t, out, "func (d *OrderDAL) Save(ctx context.Context, e *Order) error {")
	assert.Contains(t, out, `"INSERT INTO shop.orders (order_id, created_at, ship_to) VALUES (?, ?, ?)", e.Values()...`)
	assert.Contains(t, out, "func (d *OrderDAL) Delete(ctx context.Context, orderID gocql.UUID, createdAt time.Time) error {")
	assert.Contains(t, out, `"DELETE FROM shop.orders WHERE order_id = ? AND created_at = ?"`)
}

func TestGenDALWithoutList(t *testing.T) {
	h := newMockHelper(t, shopKeyspace(t)).withoutFeatures(gen.FeatureListByPartition.Name)
	f, err := genDAL(h, entity(t, h.graph, "orders"))
	require.NoError(t, err)
	assert.NotContains(t, code(t, f), ") List(")
}

func TestGenDALCounter(t *testing.T) {
	h := newMockHelper(t, shopKeyspace(t))
	f, err := genDAL(h, entity(t, h.graph, "page_views"))
	require.NoError(t, err)
	out := code(t, f)
	assert.Contains(t, out, "func (d *PageViewDAL) Get(ctx context.Context, page string) (*PageView, error) {")
	assert.Contains(t, out, `"UPDATE shop.page_views SET views = views + ? WHERE page = ?", e.Views, e.Page`)
	assert.NotContains(t, out, "INSERT")
}

func TestUnsupportedFieldType(t *testing.T) {
	h := newMockHelper(t, shopKeyspace(t))

	t.Run("unknown scalar kind", func(t *testing.T) {
		m := &gen.UdtModel{Name: "broken", Fields: []*gen.Field{
			{Name: "x", Type: &gen.ScalarType{Kind: "vector"}},
		}}
		_, err := genValueType(h, m)
		var unsupported *gen.UnsupportedFieldTypeError
		require.ErrorAs(t, err, &unsupported)
		assert.Equal(t, "broken", unsupported.Owner)
		assert.Equal(t, "x", unsupported.Field)
		assert.ErrorIs(t, err, gen.ErrGenerationFailed)
	})

	t.Run("nil descriptor inside a collection", func(t *testing.T) {
		m := &gen.UdtModel{Name: "broken", Fields: []*gen.Field{
			{Name: "xs", Type: &gen.ListType{}},
		}}
		_, err := genValueType(h, m)
		assert.ErrorIs(t, err, gen.ErrGenerationFailed)
	})

	t.Run("unregistered user type", func(t *testing.T) {
		e := &gen.EntityModel{Table: "t", Keyspace: "shop", Columns: []*gen.Column{
			{Field: &gen.Field{Name: "id", Type: &gen.UserType{Name: "ghost"}}, Role: gen.KeyRole{Kind: gen.KeyPartition}},
		}}
		_, err := genDAL(h, e)
		var unsupported *gen.UnsupportedFieldTypeError
		require.ErrorAs(t, err, &unsupported)
		assert.Equal(t, "t", unsupported.Owner)
	})
}

func TestMapKeys(t *testing.T) {
	ks := shopKeyspace(t)
	ks.Types = append(ks.Types, &load.UserType{Name: "raw", Fields: []*load.UserTypeField{
		{Name: "data", Type: "blob"},
	}})
	ks.Tables = append(ks.Tables, &load.Table{Name: "lookups", Columns: []*load.Column{
		{Name: "id", Type: "uuid", Kind: load.KindPartitionKey},
		{Name: "by_blob", Type: "map<blob, text>", Kind: load.KindRegular},
		{Name: "by_inet", Type: "map<inet, int>", Kind: load.KindRegular},
		{Name: "by_geo", Type: "map<frozen<geo>, text>", Kind: load.KindRegular},
		{Name: "by_pair", Type: "map<frozen<tuple<int, text>>, boolean>", Kind: load.KindRegular},
		{Name: "nested", Type: "list<frozen<map<blob, int>>>", Kind: load.KindRegular},
	}})
	for _, tt := range []struct{ table, typ string }{
		{"by_list", "map<frozen<list<text>>, int>"},
		{"by_set", "map<frozen<set<int>>, int>"},
		{"by_customer", "map<frozen<customer>, int>"},
		{"by_raw", "map<frozen<raw>, int>"},
		{"by_tuple_blob", "map<frozen<tuple<int, blob>>, int>"},
	} {
		ks.Tables = append(ks.Tables, &load.Table{Name: tt.table, Columns: []*load.Column{
			{Name: "id", Type: "uuid", Kind: load.KindPartitionKey},
			{Name: "m", Type: tt.typ, Kind: load.KindRegular},
		}})
	}
	h := newMockHelper(t, ks)

	f, err := genEntity(h, entity(t, h.graph, "lookups"))
	require.NoError(t, err)
	out := code(t, f)
	assert.Contains(t, out, "ByBlob map[string]string `cql:\"by_blob\"`")
	assert.Contains(t, out, "ByInet map[string]int32 `cql:\"by_inet\"`")
	assert.Contains(t, out, "ByGeo map[Geo]string `cql:\"by_geo\"`")
	assert.Contains(t, out, "ByPair map[struct {")
	assert.Contains(t, out, "Nested []map[string]int32 `cql:\"nested\"`")

	for _, table := range []string{"by_list", "by_set", "by_customer", "by_raw", "by_tuple_blob"} {
		t.Run(table, func(t *testing.T) {
			e := entity(t, h.graph, table)
			_, err := genEntity(h, e)
			var unsupported *gen.UnsupportedFieldTypeError
			require.ErrorAs(t, err, &unsupported)
			assert.Equal(t, table, unsupported.Owner)
			assert.Equal(t, "m", unsupported.Field)
			assert.Contains(t, unsupported.Reason, "not comparable")
			assert.ErrorIs(t, err, gen.ErrGenerationFailed)
		})
	}
}
