package cql

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/cqlgen/compiler/gen"
)

// genValueType generates the value type of a user-defined type ({type}.go).
func genValueType(h gen.GeneratorHelper, m *gen.UdtModel) (*jen.File, error) {
	types, err := fieldTypes(h.Graph(), m.Name, m.Fields)
	if err != nil {
		return nil, err
	}
	var (
		f     = newFile(h)
		ident = m.Ident()
		recv  = m.Receiver()
	)
	f.Commentf("%sTypeName is the name of the user-defined type in the keyspace.", ident)
	f.Const().Id(ident + "TypeName").Op("=").Lit(m.Name)

	f.Commentf("%s is the value type of the %s user-defined type.", ident, m.Name)
	f.Type().Id(ident).StructFunc(func(grp *jen.Group) {
		for i, fd := range m.Fields {
			if h.FeatureEnabled(gen.FeatureSchemaComments.Name) {
				grp.Commentf("%s is the %q field of type %s.", fd.StructField(), fd.Name, fd.Type)
			}
			grp.Id(fd.StructField()).Add(types[i]).Tag(structTags(h, fd))
		}
	})

	genGetters(f, ident, recv, m.Fields, types)
	if h.FeatureEnabled(gen.FeatureStringer.Name) {
		genStringer(f, ident, recv, m.Fields)
	}
	return f, nil
}
