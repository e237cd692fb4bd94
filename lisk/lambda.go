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

import "strings"

// Lambda is a closure: parameter symbols, a body and the scope it was
// created in (extended by one private scope).
type Lambda struct {
	params List[Expression]
	body   Expression
	env    Environment
}

// NewLambda builds a closure from form = (params body). Parameters that are
// not literal symbols are evaluated once, now, and must yield a symbol.
// Malformed forms produce an Exception.
func NewLambda(form List[Expression], env Environment, allowTail bool) Expression {
	if !form.Ok() || !form.Next().Ok() {
		return Throwf("malformed lambda '%s', expected a parameter list and a body", String(FromList(form)))
	}
	paramExpr := form.Value()
	paramList, ok := paramExpr.GetList()
	if !ok {
		return Throwf("malformed lambda: '%s' is '%s', expected a parameter list", String(paramExpr), TypeName(paramExpr))
	}
	var params []Expression
	for i, p := 0, paramList; p.Ok(); i, p = i+1, p.Next() {
		sym, failure, ok := argument[Symbol]("lambda", i, p.Value(), env)
		if !ok {
			return failure
		}
		params = append(params, Sym(sym))
	}
	return FromCallable(LambdaCallable(newClosure(params, form.NextValue(), env)))
}

func newClosure(params []Expression, body Expression, env Environment) *Lambda {
	return &Lambda{ListOf(params...), body, env.Extend()}
}

func (l *Lambda) Params() List[Expression] { return l.params }
func (l *Lambda) Body() Expression         { return l.body }
func (l *Lambda) Env() Environment         { return l.env }

func (l *Lambda) paramNames() string {
	var names []string
	for p := range l.params.All() {
		names = append(names, String(p))
	}
	return strings.Join(names, " ")
}

// Call binds each argument, evaluated in the caller's env, to its
// parameter in a fresh scope and evaluates the body there.
func (l *Lambda) Call(args List[Expression], env Environment, allowTail bool) (Expression, int) {
	callEnv := l.env.Extend()
	p, a, n := l.params, args, 0
	for ; p.Ok(); p, a, n = p.Next(), a.Next(), n+1 {
		if !a.Ok() {
			return Throwf("too few arguments to call lambda, got %d, expected parameters are '%s'", n, l.paramNames()), 0
		}
		value := Eval(a.Value(), env, true)
		if value.IsException() {
			return value, 0
		}
		callEnv.Define(p.Value().atom.AsSymbol(), value)
	}
	if a.Ok() {
		if n == 0 {
			return Throw("too many arguments to call lambda, expected none"), 0
		}
		return Throwf("too many arguments to call lambda, expected parameters are '%s'", l.paramNames()), 0
	}
	return Eval(l.body, callEnv, allowTail), n
}

// String prints the lambda in its source form.
func (l *Lambda) String() string {
	return "(lambda (" + l.paramNames() + ") " + String(l.body) + ")"
}
