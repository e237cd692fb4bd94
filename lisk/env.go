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

import "iter"
import "github.com/google/btree"

type binding struct {
	sym  Symbol
	expr Expression
}

func bindingLess(a, b binding) bool {
	return a.sym < b.sym
}

// frame is one scope. Copying a frame clones the b-tree lazily, so a
// private copy costs nothing until it is written to.
type frame struct {
	vars *btree.BTreeG[binding]
}

func newFrame() frame {
	return frame{btree.NewG[binding](8, bindingLess)}
}

func (f frame) IsNull() bool {
	return f.vars == nil
}

func (f frame) Copy() frame {
	if f.vars == nil {
		return f
	}
	return frame{f.vars.Clone()}
}

// merge writes every binding of f into dst; f wins on conflicts.
func (f frame) merge(dst frame) {
	f.vars.Ascend(func(b binding) bool {
		dst.vars.ReplaceOrInsert(b)
		return true
	})
}

// Environment is a chain of scopes, innermost first. Values of type
// Environment are cheap handles; copies share their frames.
type Environment struct {
	frames List[frame]
}

// NewEnvironment creates an environment with a single empty scope.
func NewEnvironment() Environment {
	return Environment{ListOf(newFrame())}
}

// Extend prepends a fresh scope and shares all existing ones.
func (e Environment) Extend() Environment {
	return Environment{e.frames.Cons(newFrame())}
}

// Get resolves sym, innermost scope first.
func (e Environment) Get(sym Symbol) (Expression, bool) {
	for f := range e.frames.All() {
		if b, ok := f.vars.Get(binding{sym: sym}); ok {
			return b.expr, true
		}
	}
	return Expression{}, false
}

// Lookup is Get with the miss reported as an Exception value.
func (e Environment) Lookup(sym Symbol) Expression {
	if result, ok := e.Get(sym); ok {
		return result
	}
	return Throwf("environment lookup failed, couldn't find '%s'", sym)
}

// Define binds sym in the innermost scope.
func (e Environment) Define(sym Symbol, expr Expression) {
	e.frames.Value().vars.ReplaceOrInsert(binding{sym, expr})
}

func (e Environment) DefineAtom(sym Symbol, a Atom) {
	e.Define(sym, FromAtom(a))
}

func (e Environment) DefineList(sym Symbol, l List[Expression]) {
	e.Define(sym, FromList(l))
}

func (e Environment) DefineCallable(sym Symbol, c Callable) {
	e.Define(sym, FromCallable(c))
}

// DefineNative binds a raw native function under sym.
func (e Environment) DefineNative(sym Symbol, fn RawFunc) {
	e.DefineCallable(sym, NativeCallable(NewNative(string(sym), fn)))
}

// DefineFunctor wraps fn (see Wrap) and binds it under sym.
func (e Environment) DefineFunctor(sym Symbol, fn any) error {
	n, err := Wrap(string(sym), fn)
	if err != nil {
		return err
	}
	e.DefineCallable(sym, NativeCallable(n))
	return nil
}

// Clone makes the first depth scopes private copies; 0 copies all of them.
func (e Environment) Clone(depth int) Environment {
	return Environment{e.frames.Clone(depth)}
}

// Squash folds the first depth scopes into the scope behind them, so the
// result is depth scopes shorter than e. Inner bindings win. e itself is
// not modified. depth 0 folds everything into a single scope.
func (e Environment) Squash(depth int) Environment {
	if e.frames.Empty() {
		return e
	}
	if depth == 0 {
		cur := e.frames.Clone(0)
		for cur.Next().Ok() {
			cur.Value().merge(cur.NextValue())
			cur = cur.Next()
		}
		return Environment{cur}
	}
	cur := e.frames.Clone(depth + 1)
	for i := 0; i < depth && cur.Next().Ok(); i++ {
		cur.Value().merge(cur.NextValue())
		cur = cur.Next()
	}
	return Environment{cur}
}

// Depth is the number of scopes in the chain.
func (e Environment) Depth() int {
	return e.frames.Len()
}

// Bindings yields every visible binding: innermost scope first, each scope
// in symbol order, shadowed bindings skipped.
func (e Environment) Bindings() iter.Seq2[Symbol, Expression] {
	return func(yield func(Symbol, Expression) bool) {
		seen := make(map[Symbol]bool)
		for f := range e.frames.All() {
			stop := false
			f.vars.Ascend(func(b binding) bool {
				if seen[b.sym] {
					return true
				}
				seen[b.sym] = true
				if !yield(b.sym, b.expr) {
					stop = true
					return false
				}
				return true
			})
			if stop {
				return
			}
		}
	}
}

// Locals yields the bindings of the innermost scope in symbol order.
func (e Environment) Locals() iter.Seq2[Symbol, Expression] {
	return func(yield func(Symbol, Expression) bool) {
		if !e.frames.Ok() {
			return
		}
		e.frames.Value().vars.Ascend(func(b binding) bool {
			return yield(b.sym, b.expr)
		})
	}
}
