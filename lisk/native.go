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

import "fmt"
import "reflect"

// RawFunc receives its argument cells unevaluated and reports how many it
// consumed.
type RawFunc func(args List[Expression], env Environment, allowTail bool) (Expression, int)

// Param describes one marshalled parameter of a wrapped native function.
type Param struct {
	Type   reflect.Type
	Name   string
	Traits Traits
}

// NativeFunction is a host function callable from lisk. Wrapped functions
// carry the parameter list their adapter was generated from.
type NativeFunction struct {
	name   string
	fn     RawFunc
	params []Param
}

func NewNative(name string, fn RawFunc) *NativeFunction {
	return &NativeFunction{name: name, fn: fn}
}

func (n *NativeFunction) Name() string    { return n.name }
func (n *NativeFunction) Params() []Param { return n.params }
func (n *NativeFunction) IsWrapped() bool { return n.params != nil }

func (n *NativeFunction) Call(args List[Expression], env Environment, allowTail bool) (Expression, int) {
	return n.fn(args, env, allowTail)
}

func ParamOf[T any]() Param {
	t := reflect.TypeFor[T]()
	r := ruleFor(t)
	return Param{t, r.name, r.traits}
}

func typeError(fname string, pos int, value Expression, expected string) Expression {
	msg := fmt.Sprintf("'%s' is '%s', expected %s", String(value), TypeName(value), expected)
	if fname == "" {
		return Throw(msg)
	}
	return Throwf("argument %d of %s: %s", pos+1, fname, msg)
}

// marshal obtains one argument according to r. An Exception produced by
// evaluating the argument is passed on unchanged unless r accepts it.
func marshal(fname string, pos int, r *rule, arg Expression, env Environment) (any, Expression, bool) {
	if r.traits.Get {
		if v, ok := r.get(arg); ok {
			return v, arg, true
		}
	}
	if !r.traits.Eval {
		return nil, typeError(fname, pos, arg, r.name), false
	}
	value := Eval(arg, env, true)
	if v, ok := r.get(value); ok {
		return v, value, true
	}
	if value.IsException() {
		return nil, value, false
	}
	return nil, typeError(fname, pos, value, r.name), false
}

func argument[T any](fname string, pos int, arg Expression, env Environment) (result T, failure Expression, ok bool) {
	v, failure, ok := marshal(fname, pos, ruleFor(reflect.TypeFor[T]()), arg, env)
	if !ok {
		return
	}
	if v != nil {
		result = v.(T)
	}
	return
}

// Arg marshals a single argument expression to T the way wrapped native
// functions do. On failure the returned Expression is the Exception.
func Arg[T any](arg Expression, env Environment) (T, Expression, bool) {
	return argument[T]("", 0, arg, env)
}

// take collects the first n argument cells.
func take(fname string, args List[Expression], n int) ([]Expression, Expression, bool) {
	cells := make([]Expression, 0, n)
	for v := range args.All() {
		if len(cells) == n {
			break
		}
		cells = append(cells, v)
	}
	if len(cells) < n {
		return nil, Throwf("%s expects %d arguments, got %d", fname, n, len(cells)), false
	}
	return cells, Expression{}, true
}

func Func0(name string, fn func(Environment, bool) Expression) *NativeFunction {
	return &NativeFunction{name, func(args List[Expression], env Environment, allowTail bool) (Expression, int) {
		return fn(env, allowTail), 0
	}, []Param{}}
}

func Func1[A any](name string, fn func(Environment, bool, A) Expression) *NativeFunction {
	return &NativeFunction{name, func(args List[Expression], env Environment, allowTail bool) (Expression, int) {
		cells, failure, ok := take(name, args, 1)
		if !ok {
			return failure, 0
		}
		a, failure, ok := argument[A](name, 0, cells[0], env)
		if !ok {
			return failure, 0
		}
		return fn(env, allowTail, a), 1
	}, []Param{ParamOf[A]()}}
}

func Func2[A, B any](name string, fn func(Environment, bool, A, B) Expression) *NativeFunction {
	return &NativeFunction{name, func(args List[Expression], env Environment, allowTail bool) (Expression, int) {
		cells, failure, ok := take(name, args, 2)
		if !ok {
			return failure, 0
		}
		a, failure, ok := argument[A](name, 0, cells[0], env)
		if !ok {
			return failure, 0
		}
		b, failure, ok := argument[B](name, 1, cells[1], env)
		if !ok {
			return failure, 0
		}
		return fn(env, allowTail, a, b), 2
	}, []Param{ParamOf[A](), ParamOf[B]()}}
}

func Func3[A, B, C any](name string, fn func(Environment, bool, A, B, C) Expression) *NativeFunction {
	return &NativeFunction{name, func(args List[Expression], env Environment, allowTail bool) (Expression, int) {
		cells, failure, ok := take(name, args, 3)
		if !ok {
			return failure, 0
		}
		a, failure, ok := argument[A](name, 0, cells[0], env)
		if !ok {
			return failure, 0
		}
		b, failure, ok := argument[B](name, 1, cells[1], env)
		if !ok {
			return failure, 0
		}
		c, failure, ok := argument[C](name, 2, cells[2], env)
		if !ok {
			return failure, 0
		}
		return fn(env, allowTail, a, b, c), 3
	}, []Param{ParamOf[A](), ParamOf[B](), ParamOf[C]()}}
}

func Func4[A, B, C, D any](name string, fn func(Environment, bool, A, B, C, D) Expression) *NativeFunction {
	return &NativeFunction{name, func(args List[Expression], env Environment, allowTail bool) (Expression, int) {
		cells, failure, ok := take(name, args, 4)
		if !ok {
			return failure, 0
		}
		a, failure, ok := argument[A](name, 0, cells[0], env)
		if !ok {
			return failure, 0
		}
		b, failure, ok := argument[B](name, 1, cells[1], env)
		if !ok {
			return failure, 0
		}
		c, failure, ok := argument[C](name, 2, cells[2], env)
		if !ok {
			return failure, 0
		}
		d, failure, ok := argument[D](name, 3, cells[3], env)
		if !ok {
			return failure, 0
		}
		return fn(env, allowTail, a, b, c, d), 4
	}, []Param{ParamOf[A](), ParamOf[B](), ParamOf[C](), ParamOf[D]()}}
}

var (
	envType   = reflect.TypeFor[Environment]()
	boolType  = reflect.TypeFor[bool]()
	errorType = reflect.TypeFor[error]()
)

// Wrap turns fn into a native function. fn must look like
// func(Environment, bool, T1, ..., Tn) R or func(...) (R, error); every Ti
// needs a narrowing rule (see RegisterType, or pass it as a Handle) and R
// is converted with FromGo. A non-nil error becomes an Exception.
func Wrap(name string, fn any) (*NativeFunction, error) {
	fv := reflect.ValueOf(fn)
	if !fv.IsValid() || fv.Kind() != reflect.Func {
		return nil, fmt.Errorf("%s: %T is not a function", name, fn)
	}
	t := fv.Type()
	if t.IsVariadic() || t.NumIn() < 2 || t.In(0) != envType || t.In(1) != boolType {
		return nil, fmt.Errorf("%s: expected func(lisk.Environment, bool, ...), got %s", name, t)
	}
	if t.NumOut() != 1 && !(t.NumOut() == 2 && t.Out(1) == errorType) {
		return nil, fmt.Errorf("%s: expected one result or a result and an error, got %s", name, t)
	}
	n := t.NumIn() - 2
	rs := make([]*rule, n)
	params := make([]Param, n)
	for i := range n {
		rs[i] = ruleFor(t.In(i + 2))
		params[i] = Param{t.In(i + 2), rs[i].name, rs[i].traits}
	}
	return &NativeFunction{name, func(args List[Expression], env Environment, allowTail bool) (Expression, int) {
		cells, failure, ok := take(name, args, n)
		if !ok {
			return failure, 0
		}
		in := make([]reflect.Value, n+2)
		in[0] = reflect.ValueOf(env)
		in[1] = reflect.ValueOf(allowTail)
		for i, arg := range cells {
			v, failure, ok := marshal(name, i, rs[i], arg, env)
			if !ok {
				return failure, 0
			}
			if v == nil {
				in[i+2] = reflect.Zero(t.In(i + 2))
			} else {
				in[i+2] = reflect.ValueOf(v)
			}
		}
		out := fv.Call(in)
		if len(out) == 2 && !out[1].IsNil() {
			return Throw(out[1].Interface().(error).Error()), n
		}
		return FromGo(out[0].Interface()), n
	}, params}, nil
}

// MustWrap is Wrap for functions known to be well formed.
func MustWrap(name string, fn any) *NativeFunction {
	n, err := Wrap(name, fn)
	if err != nil {
		panic(err)
	}
	return n
}

// FromGo converts a host value into an Expression. Values without a
// dedicated representation become Handles.
func FromGo(v any) Expression {
	switch x := v.(type) {
	case nil:
		return Nil()
	case Expression:
		return x
	case Atom:
		return FromAtom(x)
	case Symbol:
		return Sym(x)
	case string:
		return Str(x)
	case bool:
		return Bool(x)
	case Number:
		return Num(x)
	case uint64:
		return Num(UInt(x))
	case uint:
		return Num(UInt(uint64(x)))
	case uint32:
		return Num(UInt(uint64(x)))
	case int64:
		return Num(SInt(x))
	case int:
		return Num(SInt(int64(x)))
	case int32:
		return Num(SInt(int64(x)))
	case float64:
		return Num(Real(x))
	case float32:
		return Num(Real(float64(x)))
	case List[Expression]:
		return FromList(x)
	case []Expression:
		return FromList(ListOf(x...))
	case Callable:
		return FromCallable(x)
	case *Lambda:
		return FromCallable(LambdaCallable(x))
	case *NativeFunction:
		return FromCallable(NativeCallable(x))
	case *Exception:
		return Expression{kind: ExceptionExpr, exc: x}
	case error:
		return Throw(x.Error())
	case Handle:
		return FromHandle(x)
	default:
		return FromHandle(Handle{v, reflect.TypeOf(v)})
	}
}
