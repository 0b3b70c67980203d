package cql

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/cqlgen/compiler/gen"
)

// newFile creates a file with the package names the generated code may
// reference.
func newFile(h gen.GeneratorHelper) *jen.File {
	f := h.NewFile()
	f.ImportName(gocqlPkg, "gocql")
	f.ImportName(infPkg, "inf")
	return f
}

// fieldTypes renders the Go type of every field of owner.
func fieldTypes(g *gen.Graph, owner string, fields []*gen.Field) ([]jen.Code, error) {
	types := make([]jen.Code, len(fields))
	for i, f := range fields {
		typ, err := fieldType(g, owner, f)
		if err != nil {
			return nil, err
		}
		types[i] = typ
	}
	return types, nil
}

// genGetters generates a nil-safe GetX accessor per field.
func genGetters(f *jen.File, ident, recv string, fields []*gen.Field, types []jen.Code) {
	for i, fd := range fields {
		name := fd.StructField()
		f.Commentf("Get%s returns the value of the %q field, or its zero value if %s is nil.", name, fd.Name, recv)
		f.Func().Params(jen.Id(recv).Op("*").Id(ident)).Id("Get"+name).Params().Add(types[i]).Block(
			jen.If(jen.Id(recv).Op("==").Nil()).Block(
				jen.Var().Id("zero").Add(types[i]),
				jen.Return(jen.Id("zero")),
			),
			jen.Return(jen.Id(recv).Dot(name)),
		)
	}
}

// genStringer generates the String method. Nil pointer fields are
// printed as empty values.
func genStringer(f *jen.File, ident, recv string, fields []*gen.Field) {
	f.Comment("String implements the fmt.Stringer interface.")
	f.Func().Params(jen.Id(recv).Op("*").Id(ident)).Id("String").Params().String().BlockFunc(func(grp *jen.Group) {
		grp.Var().Id("builder").Qual("strings", "Builder")
		grp.Id("builder").Dot("WriteString").Call(jen.Lit(ident + "("))
		for i, fd := range fields {
			label := fd.Name + "="
			if i > 0 {
				label = ", " + label
			}
			grp.Id("builder").Dot("WriteString").Call(jen.Lit(label))
			if pointer(fd) {
				grp.If(
					jen.Id("_v").Op(":=").Id(recv).Dot(fd.StructField()),
					jen.Id("_v").Op("!=").Nil(),
				).Block(
					jen.Id("builder").Dot("WriteString").Call(jen.Qual("fmt", "Sprintf").Call(jen.Lit("%v"), jen.Op("*").Id("_v"))),
				)
				continue
			}
			grp.Id("builder").Dot("WriteString").Call(jen.Qual("fmt", "Sprintf").Call(jen.Lit("%v"), jen.Id(recv).Dot(fd.StructField())))
		}
		grp.Id("builder").Dot("WriteString").Call(jen.Lit(")"))
		grp.Return(jen.Id("builder").Dot("String").Call())
	})
}

// strs renders a []string literal.
func strs(ss []string) *jen.Statement {
	vals := make([]jen.Code, len(ss))
	for i, s := range ss {
		vals[i] = jen.Lit(s)
	}
	return jen.Index().String().Values(vals...)
}
