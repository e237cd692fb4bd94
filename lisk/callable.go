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

// Callable is either a lambda or a native function. The zero Callable
// returns Null when called.
type Callable struct {
	lambda *Lambda
	native *NativeFunction
}

func LambdaCallable(l *Lambda) Callable         { return Callable{lambda: l} }
func NativeCallable(n *NativeFunction) Callable { return Callable{native: n} }

func (c Callable) IsNull() bool   { return c.lambda == nil && c.native == nil }
func (c Callable) IsLambda() bool { return c.lambda != nil }
func (c Callable) IsNative() bool { return c.native != nil }

func (c Callable) GetLambda() (*Lambda, bool)         { return c.lambda, c.lambda != nil }
func (c Callable) GetNative() (*NativeFunction, bool) { return c.native, c.native != nil }

// Call invokes c with the unevaluated argument cells args. It returns the
// result and the number of argument cells consumed. If tail calls are
// allowed here, a TailThunk result is resolved before returning.
func (c Callable) Call(args List[Expression], env Environment, allowTail bool) (result Expression, consumed int) {
	switch {
	case c.lambda != nil:
		result, consumed = c.lambda.Call(args, env, allowTail)
	case c.native != nil:
		result, consumed = c.native.Call(args, env, allowTail)
	default:
		return Null(), 0
	}
	if allowTail && result.IsTailThunk() {
		result = Eval(result, env, true)
	}
	return
}

// Apply calls c with already evaluated values; they are not evaluated a
// second time.
func (c Callable) Apply(env Environment, values ...Expression) Expression {
	args := make([]Expression, len(values))
	for i, v := range values {
		args[i] = quoteValue(v)
	}
	result, _ := c.Call(ListOf(args...), env, true)
	return result
}
