package cql

import (
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/cqlgen/compiler/gen"
)

// columnFields returns the fields of the given columns.
func columnFields(cs []*gen.Column) []*gen.Field {
	fields := make([]*gen.Field, len(cs))
	for i, c := range cs {
		fields[i] = c.Field
	}
	return fields
}

// genEntity generates the entity file ({entity}.go).
func genEntity(h gen.GeneratorHelper, e *gen.EntityModel) (*jen.File, error) {
	fields := columnFields(e.Columns)
	types, err := fieldTypes(h.Graph(), e.Table, fields)
	if err != nil {
		return nil, err
	}
	var (
		f        = newFile(h)
		ident    = e.Ident()
		recv     = e.Receiver()
		comments = h.FeatureEnabled(gen.FeatureSchemaComments.Name)
	)

	f.Const().Defs(
		jen.Commentf("%sTable holds the qualified name of the table.", ident),
		jen.Id(ident+"Table").Op("=").Lit(e.QualifiedTable()),
	)
	f.Var().Defs(
		jen.Commentf("%sColumns holds all columns of the table, in field order.", ident),
		jen.Id(ident+"Columns").Op("=").Add(strs(gen.ColumnNames(e.Columns))),
		jen.Commentf("%sPartitionKeys holds the partition key columns by ordinal.", ident),
		jen.Id(ident+"PartitionKeys").Op("=").Add(strs(gen.ColumnNames(e.PartitionKey()))),
		jen.Commentf("%sClusteringKeys holds the clustering key columns by ordinal.", ident),
		jen.Id(ident+"ClusteringKeys").Op("=").Add(strs(gen.ColumnNames(e.ClusteringKey()))),
	)

	f.Commentf("%s is the entity of the %s table.", ident, e.QualifiedTable())
	if comments && e.Comment != "" {
		f.Comment("")
		for _, line := range strings.Split(strings.TrimSpace(e.Comment), "\n") {
			f.Comment(strings.TrimSpace(line))
		}
	}
	f.Type().Id(ident).StructFunc(func(grp *jen.Group) {
		for i, c := range e.Columns {
			switch {
			case c.Role.Kind != gen.KeyNone:
				grp.Commentf("%s is %s.", c.StructField(), c.Role)
			case c.Static:
				grp.Commentf("%s is a static column.", c.StructField())
			case comments:
				grp.Commentf("%s is the %q column.", c.StructField(), c.Name)
			}
			if comments {
				grp.Commentf("CQL type: %s.", c.Type)
			}
			grp.Id(c.StructField()).Add(types[i]).Tag(structTags(h, c.Field))
		}
	})

	f.Commentf("Values returns the field values in %sColumns order.", ident)
	f.Func().Params(jen.Id(recv).Op("*").Id(ident)).Id("Values").Params().Index().Any().Block(
		jen.Return(jen.Index().Any().ValuesFunc(func(grp *jen.Group) {
			for _, c := range e.Columns {
				grp.Id(recv).Dot(c.StructField())
			}
		})),
	)
	f.Commentf("Pointers returns pointers to the fields in %sColumns order, for scanning.", ident)
	f.Func().Params(jen.Id(recv).Op("*").Id(ident)).Id("Pointers").Params().Index().Any().Block(
		jen.Return(jen.Index().Any().ValuesFunc(func(grp *jen.Group) {
			for _, c := range e.Columns {
				grp.Op("&").Id(recv).Dot(c.StructField())
			}
		})),
	)

	genGetters(f, ident, recv, fields, types)
	if h.FeatureEnabled(gen.FeatureStringer.Name) {
		genStringer(f, ident, recv, fields)
	}
	return f, nil
}
