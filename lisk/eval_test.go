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

package lisk

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEnv() (Environment, *bytes.Buffer) {
	var out bytes.Buffer
	return DefaultEnv(WithOutput(&out), WithInput(&bytes.Buffer{})), &out
}

func run(env Environment, code string) string {
	return String(RootEvalString(code, env))
}

func TestEvalScenarios(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"define and add", "(define x 5) (+ x 3)", "8"},
		{"if true", "(if true 1 2)", "1"},
		{"if false", "(if false 1 2)", "2"},
		{"if with call", `(if (zero? 0) "yes" "no")`, `"yes"`},
		{"immediate lambda", "((lambda (a b) (+ a b)) 2 3)", "5"},
		{"doubling loop", `
			(define func (lambda (x n) (if (zero? n) x (tail (func (* x 2) (- n 1))))))
			(func 2 10)`, "2048"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, _ := newTestEnv()
			assert.Equal(t, tt.want, run(env, tt.code))
		})
	}
}

func TestEvalBasicShapes(t *testing.T) {
	env, _ := newTestEnv()
	assert.Equal(t, "nil", String(Eval(Null(), env, true)))
	assert.Equal(t, "nil", run(env, "()"))
	assert.Equal(t, `"str"`, run(env, `"str"`))
	assert.Equal(t, "7", run(env, "(7)"))
	assert.Equal(t, "nil", run(env, "(nil 1 2)"))
	// a list in head position is returned as a literal
	assert.Equal(t, "(1 2)", run(env, "((list 1 2))"))
	// a symbol in head position is resolved once more
	assert.Equal(t, "5", run(env, "(define y 5) ((quote y))"))

	exc := Throw("boom")
	assert.Equal(t, exc, Eval(exc, env, true))

	c := EvalString("car", env)
	require.True(t, c.IsCallable())
	assert.True(t, Eval(c, env, true).IsException())
}

func TestEvalUnboundSymbol(t *testing.T) {
	env, _ := newTestEnv()
	r := RootEvalString("(+ 1 undefined-thing)", env)
	require.True(t, r.IsException())
	assert.Contains(t, r.AsException().Message, "undefined-thing")
}

func TestEvalNonCallableHead(t *testing.T) {
	env := NewEnvironment()
	env.Define("thunk", TailThunk(ListOf(Num(UInt(1)))))
	r := Eval(Read("(thunk 1)"), env, false)
	require.True(t, r.IsException())
	assert.Contains(t, r.AsException().Message, "expected a symbol, atom or callable")
}

func TestLambdaArity(t *testing.T) {
	env, _ := newTestEnv()
	run(env, "(define f (lambda (a b) (+ a b)))")

	assert.Equal(t, "3", run(env, "(f 1 2)"))

	few := RootEvalString("(f 1)", env)
	require.True(t, few.IsException())
	assert.Contains(t, few.AsException().Message, "too few")

	many := RootEvalString("(f 1 2 3)", env)
	require.True(t, many.IsException())
	assert.Contains(t, many.AsException().Message, "too many")

	none := RootEvalString("((lambda () 1) 2)", env)
	require.True(t, none.IsException())
	assert.Contains(t, none.AsException().Message, "expected none")
}

func TestLambdaConstruction(t *testing.T) {
	env, _ := newTestEnv()

	// computed parameter names are resolved once, at construction
	assert.Equal(t, "(lambda (a) a)", run(env, `(lambda ((symbol "a")) a)`))
	assert.Equal(t, "9", run(env, `((lambda ((symbol "a")) (* a a)) 3)`))

	for _, code := range []string{"(lambda (1) 1)", "(lambda x x)", "(lambda (a))", "(lambda)"} {
		r := RootEvalString(code, env)
		assert.True(t, r.IsException(), code)
	}
}

func TestClosureCapturesScope(t *testing.T) {
	env, _ := newTestEnv()
	code := `
		(define adder (lambda (n) (lambda (x) (+ x n))))
		(define add5 (adder 5))
		(add5 10)`
	assert.Equal(t, "15", run(env, code))
}

func TestTailRecursionRunsInConstantDepth(t *testing.T) {
	env, _ := newTestEnv()
	var depths []int
	env.DefineCallable("record", NativeCallable(Func0("record", func(env Environment, allowTail bool) Expression {
		depths = append(depths, env.Depth())
		return Nil()
	})))
	code := `
		(define loop (lambda (n) (begin (record) (if (zero? n) n (tail (loop (- n 1)))))))
		(loop 100000)`
	assert.Equal(t, "0", run(env, code))
	require.Len(t, depths, 100001)
	for i := 2; i < len(depths); i++ {
		if depths[i] != depths[1] {
			t.Fatalf("scope depth grew from %d to %d at iteration %d", depths[1], depths[i], i)
		}
	}
}

func TestTailOutsideTailPosition(t *testing.T) {
	env, _ := newTestEnv()
	assert.Equal(t, "4", run(env, "(define id (lambda (x) x)) (+ 1 (tail (id 3)))"))
	thunk := Eval(Read("(tail (+ 1 2))"), env, false)
	require.True(t, thunk.IsTailThunk())
	assert.Equal(t, "3", String(Eval(thunk, env, true)))
}

func TestTailResultsAreNotEvaluatedAgain(t *testing.T) {
	env, _ := newTestEnv()
	run(env, `(define a 7)
		(define f (lambda (n) (if (zero? n) (quote a) (tail (f (- n 1))))))
		(define g (lambda (n) (if (zero? n) (list 1 2) (tail (g (- n 1))))))`)
	assert.Equal(t, "a", run(env, "(f 3)"))
	assert.Equal(t, run(env, "(f 0)"), run(env, "(f 3)"))
	assert.Equal(t, "(1 2)", run(env, "(g 3)"))
}

func TestEvalAll(t *testing.T) {
	env, _ := newTestEnv()
	l, n := EvalAll(Read("(1 (+ 1 1) pi)").AsList(), env, true)
	assert.Equal(t, 3, n)
	assert.Equal(t, "(1 2 +3.141592653589793)", String(FromList(l)))
}

func TestExceptionsPropagate(t *testing.T) {
	env, _ := newTestEnv()
	for _, code := range []string{
		"(+ 1 (/ 1 0))",
		"(list 1 (/ 1 0) 3)",
		"(define z (/ 1 0))",
		"(car (/ 1 0))",
		"((lambda (a) a) (/ 1 0))",
		"(begin (/ 1 0) 5)",
	} {
		r := RootEvalString(code, env)
		require.True(t, r.IsException(), code)
		assert.Contains(t, r.AsException().Message, "division by zero", code)
	}
}
