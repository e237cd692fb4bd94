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
	"bufio"
	"io"
	"math"
	"os"
)

// StdoutSymbol and StdinSymbol name the handles print and read use. Hosts
// rebind them to redirect I/O of a single environment.
const StdoutSymbol Symbol = "*stdout*"
const StdinSymbol Symbol = "*stdin*"

type envConfig struct {
	in  io.Reader
	out io.Writer
}

type Option func(*envConfig)

func WithOutput(w io.Writer) Option {
	return func(c *envConfig) { c.out = w }
}

func WithInput(r io.Reader) Option {
	return func(c *envConfig) { c.in = r }
}

var coreChapters []string

func init() {
	initCore()
	initLists()
	initConversion()
	initArithmetic()
	initStrings()
	initIO()
	coreChapters = Chapters()
}

// CoreChapters are the catalogue chapters DefaultEnv installs.
func CoreChapters() []string {
	return append([]string(nil), coreChapters...)
}

// DefaultEnv returns a fresh environment holding the core builtins.
func DefaultEnv(opts ...Option) Environment {
	cfg := envConfig{os.Stdin, os.Stdout}
	for _, o := range opts {
		o(&cfg)
	}
	env := NewEnvironment()
	Install(env, coreChapters...)
	env.Define(StdoutSymbol, FromHandle(NewHandle(cfg.out)))
	env.Define(StdinSymbol, FromHandle(NewHandle(bufio.NewReader(cfg.in))))
	return env
}

func quote(args List[Expression], env Environment, allowTail bool) (Expression, int) {
	if !args.Ok() {
		return Nil(), 0
	}
	return args.Value(), 1
}

var quoteCallable = FromCallable(NativeCallable(NewNative("quote", quote)))

// quoteValue makes an already evaluated value safe to pass where it will be
// evaluated again, even in environments without a quote binding.
func quoteValue(v Expression) Expression {
	switch v.kind {
	case ListExpr, CallableExpr, TailExpr:
		return FromList(ListOf(quoteCallable, v))
	case AtomExpr:
		if v.atom.IsSymbol() {
			return FromList(ListOf(quoteCallable, v))
		}
	}
	return v
}

func initCore() {
	DeclareTitle("Core")

	Declare(&Declaration{
		"pi", "the ratio of a circle's circumference to its diameter",
		0, 0, nil, "real", nil, Num(Real(math.Pi)),
	})
	Declare(&Declaration{
		"env", "lists every visible binding as (symbol value) pairs, innermost scope first",
		0, 0, nil, "list",
		Func0("env", func(env Environment, allowTail bool) Expression {
			var pairs []Expression
			for sym, value := range env.Bindings() {
				pairs = append(pairs, FromList(ListOf(Sym(sym), value)))
			}
			return FromList(ListOf(pairs...))
		}), Expression{},
	})
	Declare(&Declaration{
		"null?", "tells whether the value is the null expression",
		1, 1, []DeclarationParameter{{"value", "any", "value to check"}}, "bool",
		Func1("null?", func(env Environment, allowTail bool, e Expression) Expression {
			return Bool(e.IsNull())
		}), Expression{},
	})
	Declare(&Declaration{
		"nil?", "tells whether the value is nil or the empty list",
		1, 1, []DeclarationParameter{{"value", "any", "value to check"}}, "bool",
		Func1("nil?", func(env Environment, allowTail bool, e Expression) Expression {
			return Bool(e.IsNil())
		}), Expression{},
	})
	Declare(&Declaration{
		"zero?", "tells whether a number is zero",
		1, 1, []DeclarationParameter{{"value", "number", "number to check"}}, "bool",
		Func1("zero?", func(env Environment, allowTail bool, n Number) Expression {
			return Bool(n.IsZero())
		}), Expression{},
	})
	Declare(&Declaration{
		"if", "evaluates the second argument if the condition is true, the third otherwise; the chosen branch is in tail position",
		3, 3, []DeclarationParameter{
			{"condition", "bool", "condition; nil and () count as false"},
			{"then", "any", "evaluated when the condition holds"},
			{"else", "any", "evaluated otherwise"},
		}, "any",
		Func3("if", func(env Environment, allowTail bool, cond bool, then, otherwise Quoted) Expression {
			if cond {
				return Eval(then.Expression, env, allowTail)
			}
			return Eval(otherwise.Expression, env, allowTail)
		}), Expression{},
	})
	Declare(&Declaration{
		"define", "binds a value to a symbol in the innermost scope",
		2, 2, []DeclarationParameter{
			{"symbol", "symbol", "name to bind"},
			{"value", "any", "value, evaluated before binding"},
		}, "nil",
		Func2("define", func(env Environment, allowTail bool, sym Symbol, value Expression) Expression {
			if value.IsException() {
				return value
			}
			env.Define(sym, value)
			return Nil()
		}), Expression{},
	})
	Declare(&Declaration{
		"eval", "evaluates the value of its argument once more",
		1, 1, []DeclarationParameter{{"code", "any", "expression whose value is evaluated"}}, "any",
		Func1("eval", func(env Environment, allowTail bool, code Expression) Expression {
			return Eval(code, env, allowTail)
		}), Expression{},
	})
	Declare(&Declaration{
		"quote", "returns its argument unevaluated",
		1, 1, []DeclarationParameter{{"code", "any", "expression to return as is"}}, "any",
		NewNative("quote", quote), Expression{},
	})
	Declare(&Declaration{
		"eval-stack", "evaluates the arguments left to right on a stack: values are pushed, callables are called with the stack as argument list and replace the arguments they consume with their result; returns the stack, top first",
		0, -1, []DeclarationParameter{{"items...", "any", "values and callables"}}, "list",
		NewNative("eval-stack", evalStack), Expression{},
	})
	Declare(&Declaration{
		"begin", "evaluates all arguments and returns the last result; stops at the first exception",
		0, -1, []DeclarationParameter{{"code...", "any", "expressions to evaluate"}}, "any",
		NewNative("begin", func(args List[Expression], env Environment, allowTail bool) (Expression, int) {
			result, n := Nil(), 0
			for cell := range args.Cells() {
				n++
				last := !cell.Next().Ok()
				result = Eval(cell.Value(), env, allowTail || !last)
				if result.IsException() && !last {
					return result, args.Len()
				}
			}
			return result, n
		}), Expression{},
	})
	Declare(&Declaration{
		"repeat", "evaluates the body count times",
		2, 2, []DeclarationParameter{
			{"count", "uint", "number of iterations"},
			{"body", "any", "expression to evaluate"},
		}, "nil",
		Func2("repeat", func(env Environment, allowTail bool, count uint64, body Quoted) Expression {
			for ; count > 0; count-- {
				if r := Eval(body.Expression, env, true); r.IsException() {
					return r
				}
			}
			return Nil()
		}), Expression{},
	})
	Declare(&Declaration{
		"while", "evaluates the body until it returns nil or ()",
		1, 1, []DeclarationParameter{{"body", "any", "expression to evaluate"}}, "nil",
		Func1("while", func(env Environment, allowTail bool, body Quoted) Expression {
			for {
				r := Eval(body.Expression, env, true)
				if r.IsException() {
					return r
				}
				if r.IsNil() {
					return Nil()
				}
			}
		}), Expression{},
	})
	Declare(&Declaration{
		"foreach", "evaluates the body once per list element with the element bound to the symbol in a fresh scope",
		3, 3, []DeclarationParameter{
			{"symbol", "symbol", "loop variable"},
			{"list", "list", "elements to iterate"},
			{"body", "any", "expression to evaluate"},
		}, "nil",
		Func3("foreach", func(env Environment, allowTail bool, sym Symbol, items List[Expression], body Quoted) Expression {
			for v := range items.All() {
				loopEnv := env.Extend()
				loopEnv.Define(sym, v)
				if r := Eval(body.Expression, loopEnv, true); r.IsException() {
					return r
				}
			}
			return Nil()
		}), Expression{},
	})
	Declare(&Declaration{
		"map", "calls the function with each list element and returns the list of results",
		2, 2, []DeclarationParameter{
			{"list", "list", "elements"},
			{"fn", "func", "function of one argument"},
		}, "list",
		Func2("map", func(env Environment, allowTail bool, items List[Expression], fn Quoted) Expression {
			f := Eval(fn.Expression, env, true)
			c, ok := f.GetCallable()
			if !ok {
				if f.IsException() {
					return f
				}
				return typeError("map", 1, f, "a function or lambda")
			}
			var results []Expression
			for v := range items.All() {
				r, _ := c.Call(ListOf(quoteValue(v)), env, true)
				if r.IsException() {
					return r
				}
				results = append(results, r)
			}
			return FromList(ListOf(results...))
		}), Expression{},
	})
	Declare(&Declaration{
		"tail", "evaluates the expression as a tail call: the current scopes are squashed and the call is resumed by the caller, so tail recursion runs in constant stack and scope depth",
		1, 1, []DeclarationParameter{{"call", "list", "the call in tail position"}}, "any",
		NewNative("tail", func(args List[Expression], env Environment, allowTail bool) (Expression, int) {
			if !args.Ok() {
				return Throw("tail expects an expression"), 0
			}
			return TailEval(args.Value(), env), 1
		}), Expression{},
	})
	Declare(&Declaration{
		"lambda", "creates a function; parameters that are not symbols are evaluated now and must yield symbols",
		2, 2, []DeclarationParameter{
			{"params", "list", "parameter symbols"},
			{"body", "any", "function body"},
		}, "func",
		NewNative("lambda", func(args List[Expression], env Environment, allowTail bool) (Expression, int) {
			return NewLambda(args, env, allowTail), 2
		}), Expression{},
	})
	Declare(&Declaration{
		"doc", "returns the description of a builtin",
		1, 1, []DeclarationParameter{{"name", "string", "name of the builtin"}}, "string",
		Func1("doc", func(env Environment, allowTail bool, name string) Expression {
			def, ok := DeclarationFor(name)
			if !ok {
				return Throwf("no documentation for '%s'", name)
			}
			return Str(def.Desc)
		}), Expression{},
	})
	initTrace()
}

func evalStack(args List[Expression], env Environment, allowTail bool) (Expression, int) {
	var stack List[Expression]
	n := 0
	for v := range args.All() {
		n++
		value := Eval(v, env, true)
		if c, ok := value.GetCallable(); ok {
			result, consumed := c.Call(stack, env, true)
			for ; consumed > 0 && stack.Ok(); consumed-- {
				stack = stack.Next()
			}
			value = result
		}
		if value.IsException() {
			return value, n
		}
		stack = stack.Cons(value)
	}
	if stack.Empty() {
		return EmptyList(), n
	}
	return FromList(stack), n
}
