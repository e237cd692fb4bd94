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

package sqllib

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"testing"

	"github.com/launix-de/lisk/lisk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDriver serves two fixed rows and records Exec arguments.
type fakeDriver struct{}

type fakeConn struct{}

type fakeStmt struct{ query string }

type fakeRows struct{ i int }

var executed []driver.Value

func init() {
	sql.Register("lisktest", fakeDriver{})
}

func (fakeDriver) Open(name string) (driver.Conn, error) { return fakeConn{}, nil }

func (fakeConn) Prepare(query string) (driver.Stmt, error) { return &fakeStmt{query}, nil }
func (fakeConn) Close() error                              { return nil }
func (fakeConn) Begin() (driver.Tx, error)                 { return nil, errors.New("no transactions") }

func (s *fakeStmt) Close() error  { return nil }
func (s *fakeStmt) NumInput() int { return -1 }

func (s *fakeStmt) Exec(args []driver.Value) (driver.Result, error) {
	executed = args
	return driver.RowsAffected(len(args)), nil
}

func (s *fakeStmt) Query(args []driver.Value) (driver.Rows, error) {
	if s.query == "fail" {
		return nil, errors.New("boom")
	}
	return &fakeRows{}, nil
}

func (r *fakeRows) Columns() []string { return []string{"id", "name", "score", "blob", "missing"} }
func (r *fakeRows) Close() error      { return nil }

func (r *fakeRows) Next(dest []driver.Value) error {
	rows := [][]driver.Value{
		{int64(1), "a", 1.5, []byte("x"), nil},
		{int64(2), "b", -1.0, []byte("y"), nil},
	}
	if r.i >= len(rows) {
		return io.EOF
	}
	copy(dest, rows[r.i])
	r.i++
	return nil
}

func newEnv() lisk.Environment {
	env := lisk.DefaultEnv()
	Install(env)
	return env
}

func run(env lisk.Environment, code string) string {
	return lisk.String(lisk.RootEvalString(code, env))
}

func TestQuery(t *testing.T) {
	env := newEnv()
	run(env, `(define db (sql-open "lisktest" "memory"))`)
	assert.Equal(t,
		`((("id" +1) ("name" "a") ("score" +1.5) ("blob" "x") ("missing" nil)) (("id" +2) ("name" "b") ("score" -1.0) ("blob" "y") ("missing" nil)))`,
		run(env, `(sql-query db "select")`))
	assert.Equal(t, `"b"`, run(env, `(car (cdr (car (cdr (car (cdr (sql-query db "select")))))))`))

	r := lisk.RootEvalString(`(sql-query db "fail")`, env)
	require.True(t, r.IsException())
	assert.Equal(t, "sql-query: boom", r.AsException().Message)
	assert.Equal(t, "true", run(env, "(sql-close db)"))
}

func TestExec(t *testing.T) {
	env := newEnv()
	run(env, `(define db (sql-open "lisktest" "memory"))`)
	assert.Equal(t, "5", run(env, `(sql-exec db "insert" "s" -2 1.5 true nil)`))
	assert.Equal(t, []driver.Value{"s", int64(-2), 1.5, true, nil}, executed)

	r := lisk.RootEvalString(`(sql-exec db "insert" (list 1))`, env)
	require.True(t, r.IsException())
	assert.Equal(t, "sql-exec: cannot pass list as a query parameter", r.AsException().Message)

	r = lisk.RootEvalString(`(sql-exec db "insert" (car 1))`, env)
	require.True(t, r.IsException())
	assert.Contains(t, r.AsException().Message, "argument 1 of car")
}

func TestArgumentErrors(t *testing.T) {
	env := newEnv()
	for code, want := range map[string]string{
		`(sql-query 5 "select")`:       "expected database",
		`(sql-query)`:                  "sql-query expects a database and a statement",
		`(sql-open "nodriver" "x")`:    "sql-open: sql: unknown driver",
		`(sql-open "mysql" "::bad")`:   "sql-open: ",
		`(sql-close "not a database")`: "expected database",
	} {
		r := lisk.RootEvalString(code, env)
		require.True(t, r.IsException(), code)
		assert.Contains(t, r.AsException().Message, want, code)
	}
}

func TestDriversAreLinked(t *testing.T) {
	assert.Contains(t, sql.Drivers(), "mysql")
	assert.Contains(t, sql.Drivers(), "postgres")

	env := newEnv()
	assert.Equal(t, "<handle *sql.DB>", run(env, `(sql-open "mysql" "user:pw@tcp(127.0.0.1:3306)/db")`))
	assert.Equal(t, "<handle *sql.DB>", run(env, `(sql-open "postgres" "postgres://user:pw@127.0.0.1/db?sslmode=disable")`))
}

func TestConversion(t *testing.T) {
	v, err := ToGo(lisk.Num(lisk.UInt(7)))
	require.NoError(t, err)
	assert.Equal(t, uint64(7), v)
	v, err = ToGo(lisk.Nil())
	require.NoError(t, err)
	assert.Nil(t, v)
	_, err = ToGo(lisk.Sym("x"))
	assert.Error(t, err)

	assert.Equal(t, `"raw"`, lisk.String(FromGo([]byte("raw"))))
	assert.Equal(t, "+3", lisk.String(FromGo(int64(3))))
	assert.Equal(t, "nil", lisk.String(FromGo(nil)))
}
