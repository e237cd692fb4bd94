/*
Copyright (C) 2025  Carl-Philip Hänsch

    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Package sqllib exposes database/sql to lisk scripts. Connections are
// handles; the MySQL and PostgreSQL drivers are linked in.
package sqllib

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/launix-de/lisk/lisk"
	_ "github.com/lib/pq"
)

// Chapters lists the catalogue chapters Install binds.
var Chapters = []string{"SQL"}

func init() {
	lisk.RegisterType("database", lisk.GetOrEval, func(e lisk.Expression) (*sql.DB, bool) {
		a, ok := e.GetAtom()
		if !ok {
			return nil, false
		}
		h, ok := a.GetHandle()
		if !ok {
			return nil, false
		}
		return lisk.HandleAs[*sql.DB](h)
	})
	initSQL()
}

func Install(env lisk.Environment) {
	lisk.Install(env, Chapters...)
}

// ToGo converts a lisk value into a query parameter.
func ToGo(e lisk.Expression) (any, error) {
	if e.IsNil() {
		return nil, nil
	}
	a, ok := e.GetAtom()
	if !ok {
		return nil, fmt.Errorf("cannot pass %s as a query parameter", lisk.TypeName(e))
	}
	if s, ok := a.GetString(); ok {
		return s, nil
	}
	if b, ok := a.GetBool(); ok {
		return b, nil
	}
	if n, ok := a.GetNumber(); ok {
		switch {
		case n.IsUInt():
			return n.AsUInt(), nil
		case n.IsSInt():
			return n.AsSInt(), nil
		}
		return n.AsReal(), nil
	}
	return nil, fmt.Errorf("cannot pass %s as a query parameter", lisk.TypeName(e))
}

// FromGo converts a scanned column value.
func FromGo(v any) lisk.Expression {
	switch x := v.(type) {
	case []byte:
		return lisk.Str(string(x))
	case time.Time:
		return lisk.Str(x.Format(time.RFC3339Nano))
	}
	return lisk.FromGo(v)
}

func params(name string, args lisk.List[lisk.Expression], env lisk.Environment) ([]any, lisk.Expression, bool) {
	var result []any
	for arg := range args.All() {
		value := lisk.Eval(arg, env, true)
		if value.IsException() {
			return nil, value, false
		}
		v, err := ToGo(value)
		if err != nil {
			return nil, lisk.Throwf("%s: %s", name, err), false
		}
		result = append(result, v)
	}
	return result, lisk.Expression{}, true
}

// statement reads the leading (db query) arguments shared by sql-query and
// sql-exec.
func statement(name string, args lisk.List[lisk.Expression], env lisk.Environment) (*sql.DB, string, []any, lisk.Expression, bool) {
	if !args.Ok() || !args.Next().Ok() {
		return nil, "", nil, lisk.Throwf("%s expects a database and a statement", name), false
	}
	db, failure, ok := lisk.Arg[*sql.DB](args.Value(), env)
	if !ok {
		return nil, "", nil, failure, false
	}
	query, failure, ok := lisk.Arg[string](args.NextValue(), env)
	if !ok {
		return nil, "", nil, failure, false
	}
	values, failure, ok := params(name, args.Next().Next(), env)
	if !ok {
		return nil, "", nil, failure, false
	}
	return db, query, values, lisk.Expression{}, true
}

// Query runs query and returns the rows as lists of (column value) pairs.
func Query(ctx context.Context, db *sql.DB, query string, args ...any) (lisk.Expression, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return lisk.Expression{}, err
	}
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return lisk.Expression{}, err
	}
	var result []lisk.Expression
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return lisk.Expression{}, err
		}
		row := make([]lisk.Expression, len(cols))
		for i, col := range cols {
			row[i] = lisk.FromList(lisk.ListOf(lisk.Str(col), FromGo(values[i])))
		}
		result = append(result, lisk.FromList(lisk.ListOf(row...)))
	}
	if err := rows.Err(); err != nil {
		return lisk.Expression{}, err
	}
	return lisk.FromList(lisk.ListOf(result...)), nil
}

func initSQL() {
	lisk.DeclareTitle("SQL")

	lisk.Declare(&lisk.Declaration{
		Name: "sql-open", Desc: "opens a database; the connection is established on first use",
		MinParameter: 2, MaxParameter: 2,
		Params: []lisk.DeclarationParameter{
			{Name: "driver", Type: "string", Desc: "mysql or postgres"},
			{Name: "dsn", Type: "string", Desc: "data source name in the driver's format"},
		},
		Returns: "database",
		Fn: lisk.Func2("sql-open", func(env lisk.Environment, allowTail bool, driver, dsn string) lisk.Expression {
			db, err := sql.Open(driver, dsn)
			if err != nil {
				return lisk.Throwf("sql-open: %s", err)
			}
			slog.Info("sql open", "driver", driver)
			return lisk.FromHandle(lisk.NewHandle(db))
		}),
	})
	lisk.Declare(&lisk.Declaration{
		Name: "sql-query", Desc: "runs a query and returns its rows; each row is a list of (column value) pairs",
		MinParameter: 2, MaxParameter: -1,
		Params: []lisk.DeclarationParameter{
			{Name: "db", Type: "database", Desc: "result of sql-open"},
			{Name: "query", Type: "string", Desc: "SQL query with placeholders"},
			{Name: "params...", Type: "any", Desc: "values for the placeholders"},
		},
		Returns: "list",
		Fn: lisk.NewNative("sql-query", func(args lisk.List[lisk.Expression], env lisk.Environment, allowTail bool) (lisk.Expression, int) {
			db, query, values, failure, ok := statement("sql-query", args, env)
			if !ok {
				return failure, 0
			}
			result, err := Query(context.Background(), db, query, values...)
			if err != nil {
				return lisk.Throwf("sql-query: %s", err), args.Len()
			}
			return result, args.Len()
		}),
	})
	lisk.Declare(&lisk.Declaration{
		Name: "sql-exec", Desc: "runs a statement and returns the number of affected rows",
		MinParameter: 2, MaxParameter: -1,
		Params: []lisk.DeclarationParameter{
			{Name: "db", Type: "database", Desc: "result of sql-open"},
			{Name: "statement", Type: "string", Desc: "SQL statement with placeholders"},
			{Name: "params...", Type: "any", Desc: "values for the placeholders"},
		},
		Returns: "uint",
		Fn: lisk.NewNative("sql-exec", func(args lisk.List[lisk.Expression], env lisk.Environment, allowTail bool) (lisk.Expression, int) {
			db, query, values, failure, ok := statement("sql-exec", args, env)
			if !ok {
				return failure, 0
			}
			res, err := db.ExecContext(context.Background(), query, values...)
			if err != nil {
				return lisk.Throwf("sql-exec: %s", err), args.Len()
			}
			n, err := res.RowsAffected()
			if err != nil {
				return lisk.Throwf("sql-exec: %s", err), args.Len()
			}
			return lisk.Num(lisk.UInt(uint64(n))), args.Len()
		}),
	})
	lisk.Declare(&lisk.Declaration{
		Name: "sql-close", Desc: "closes a database",
		MinParameter: 1, MaxParameter: 1,
		Params:  []lisk.DeclarationParameter{{Name: "db", Type: "database", Desc: "result of sql-open"}},
		Returns: "bool",
		Fn: lisk.Func1("sql-close", func(env lisk.Environment, allowTail bool, db *sql.DB) lisk.Expression {
			if err := db.Close(); err != nil {
				return lisk.Throwf("sql-close: %s", err)
			}
			return lisk.Bool(true)
		}),
	})
}
