package cql

import (
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/cqlgen/compiler/gen"
)

// where renders the conditions binding the given columns in order.
func where(cs []*gen.Column) string {
	conds := make([]string, len(cs))
	for i, name := range gen.ColumnNames(cs) {
		conds[i] = name + " = ?"
	}
	return strings.Join(conds, " AND ")
}

// statements holds the CQL of a DAL.
type statements struct {
	get, list, save, delete string
}

func newStatements(e *gen.EntityModel) statements {
	var (
		table = e.QualifiedTable()
		cols  = strings.Join(gen.ColumnNames(e.Columns), ", ")
		pk    = e.PrimaryKey()
		s     statements
	)
	s.get = fmt.Sprintf("SELECT %s FROM %s WHERE %s", cols, table, where(pk))
	s.list = fmt.Sprintf("SELECT %s FROM %s WHERE %s", cols, table, where(e.PartitionKey()))
	s.delete = fmt.Sprintf("DELETE FROM %s WHERE %s", table, where(pk))
	if e.Counter {
		var sets []string
		for _, name := range gen.ColumnNames(e.NonKey()) {
			sets = append(sets, fmt.Sprintf("%s = %s + ?", name, name))
		}
		s.save = fmt.Sprintf("UPDATE %s SET %s WHERE %s", table, strings.Join(sets, ", "), where(pk))
	} else {
		marks := strings.TrimSuffix(strings.Repeat("?, ", len(e.Columns)), ", ")
		s.save = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, cols, marks)
	}
	return s
}

// keyParams renders the parameters and arguments of a lookup by the
// given key columns.
func keyParams(h gen.GeneratorHelper, e *gen.EntityModel, cs []*gen.Column) (params, args []jen.Code, err error) {
	params = []jen.Code{jen.Id("ctx").Qual("context", "Context")}
	for _, c := range cs {
		typ, err := fieldType(h.Graph(), e.Table, c.Field)
		if err != nil {
			return nil, nil, err
		}
		params = append(params, jen.Id(c.Param()).Add(typ))
		args = append(args, jen.Id(c.Param()))
	}
	return params, args, nil
}

// query renders d.session.Query(stmt, args...).WithContext(ctx).Consistency(d.consistency).
func query(stmt string, args ...jen.Code) *jen.Statement {
	return jen.Id("d").Dot("session").Dot("Query").Call(append([]jen.Code{jen.Lit(stmt)}, args...)...).
		Dot("WithContext").Call(jen.Id("ctx")).
		Dot("Consistency").Call(jen.Id("d").Dot("consistency"))
}

// genDAL generates the data-access file ({entity}_dal.go).
func genDAL(h gen.GeneratorHelper, e *gen.EntityModel) (*jen.File, error) {
	var (
		f      = newFile(h)
		ident  = e.Ident()
		dal    = e.DALIdent()
		stmts  = newStatements(e)
		recv   = jen.Id("d").Op("*").Id(dal)
		entity = jen.Op("*").Id(ident)
	)
	getParams, getArgs, err := keyParams(h, e, e.PrimaryKey())
	if err != nil {
		return nil, err
	}
	listParams, listArgs, err := keyParams(h, e, e.PartitionKey())
	if err != nil {
		return nil, err
	}

	f.Commentf("%s reads and writes %s entities through a gocql session.", dal, ident)
	f.Type().Id(dal).Struct(
		jen.Id("session").Op("*").Qual(gocqlPkg, "Session"),
		jen.Id("consistency").Qual(gocqlPkg, "Consistency"),
	)

	f.Commentf("New%s returns a %s using session. Queries run at LOCAL_QUORUM", dal, dal)
	f.Comment("unless changed with WithConsistency.")
	f.Func().Id("New" + dal).Params(jen.Id("session").Op("*").Qual(gocqlPkg, "Session")).Op("*").Id(dal).Block(
		jen.Return(jen.Op("&").Id(dal).Values(jen.Dict{
			jen.Id("session"):     jen.Id("session"),
			jen.Id("consistency"): jen.Qual(gocqlPkg, "LocalQuorum"),
		})),
	)

	f.Commentf("WithConsistency returns a copy of the %s running queries at c.", dal)
	f.Func().Params(recv.Clone()).Id("WithConsistency").Params(jen.Id("c").Qual(gocqlPkg, "Consistency")).Op("*").Id(dal).Block(
		jen.Return(jen.Op("&").Id(dal).Values(jen.Dict{
			jen.Id("session"):     jen.Id("d").Dot("session"),
			jen.Id("consistency"): jen.Id("c"),
		})),
	)

	f.Commentf("Get returns the %s with the given primary key.", ident)
	f.Comment("It returns gocql.ErrNotFound if no row matches.")
	f.Func().Params(recv.Clone()).Id("Get").Params(getParams...).Params(entity.Clone(), jen.Error()).Block(
		jen.Id("e").Op(":=").New(jen.Id(ident)),
		jen.If(
			jen.Err().Op(":=").Add(query(stmts.get, getArgs...)).Dot("Scan").Call(jen.Id("e").Dot("Pointers").Call().Op("...")),
			jen.Err().Op("!=").Nil(),
		).Block(
			jen.Return(jen.Nil(), jen.Err()),
		),
		jen.Return(jen.Id("e"), jen.Nil()),
	)

	if h.FeatureEnabled(gen.FeatureListByPartition.Name) {
		f.Commentf("List returns all %s entities of a partition, in clustering order.", ident)
		f.Func().Params(recv.Clone()).Id("List").Params(listParams...).Params(jen.Index().Add(entity.Clone()), jen.Error()).Block(
			jen.Id("iter").Op(":=").Add(query(stmts.list, listArgs...)).Dot("Iter").Call(),
			jen.Var().Id("rows").Index().Add(entity.Clone()),
			jen.For(
				jen.Id("e").Op(":=").New(jen.Id(ident)),
				jen.Id("iter").Dot("Scan").Call(jen.Id("e").Dot("Pointers").Call().Op("...")),
				jen.Id("e").Op("=").New(jen.Id(ident)),
			).Block(
				jen.Id("rows").Op("=").Append(jen.Id("rows"), jen.Id("e")),
			),
			jen.If(jen.Err().Op(":=").Id("iter").Dot("Close").Call(), jen.Err().Op("!=").Nil()).Block(
				jen.Return(jen.Nil(), jen.Err()),
			),
			jen.Return(jen.Id("rows"), jen.Nil()),
		)
	}

	if e.Counter {
		var args []jen.Code
		for _, c := range append(e.NonKey(), e.PrimaryKey()...) {
			args = append(args, jen.Id("e").Dot(c.StructField()))
		}
		f.Comment("Save adds the counter values of e to the stored counters.")
		f.Func().Params(recv.Clone()).Id("Save").Params(jen.Id("ctx").Qual("context", "Context"), jen.Id("e").Add(entity.Clone())).Error().Block(
			jen.Return(query(stmts.save, args...).Dot("Exec").Call()),
		)
	} else {
		f.Comment("Save inserts e, replacing any row with the same primary key.")
		f.Func().Params(recv.Clone()).Id("Save").Params(jen.Id("ctx").Qual("context", "Context"), jen.Id("e").Add(entity.Clone())).Error().Block(
			jen.Return(query(stmts.save, jen.Id("e").Dot("Values").Call().Op("...")).Dot("Exec").Call()),
		)
	}

	f.Commentf("Delete removes the %s with the given primary key.", ident)
	f.Func().Params(recv.Clone()).Id("Delete").Params(getParams...).Error().Block(
		jen.Return(query(stmts.delete, getArgs...).Dot("Exec").Call()),
	)
	return f, nil
}
