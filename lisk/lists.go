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

// MaxRange bounds the length of lists built by range.
var MaxRange uint64 = 1 << 24

func initLists() {
	DeclareTitle("Lists")

	Declare(&Declaration{
		"car", "returns the first element of a list, nil for the empty list",
		1, 1, []DeclarationParameter{{"list", "list", "input list"}}, "any",
		Func1("car", func(env Environment, allowTail bool, l List[Expression]) Expression {
			if !l.Ok() {
				return Nil()
			}
			return l.Value()
		}), Expression{},
	})
	Declare(&Declaration{
		"cdr", "returns the list without its first element",
		1, 1, []DeclarationParameter{{"list", "list", "input list"}}, "list",
		Func1("cdr", func(env Environment, allowTail bool, l List[Expression]) Expression {
			if !l.Ok() {
				return EmptyList()
			}
			return FromList(l.Next())
		}), Expression{},
	})
	Declare(&Declaration{
		"cons", "prepends a value to a list; the list is shared, not copied",
		2, 2, []DeclarationParameter{
			{"value", "any", "new first element"},
			{"list", "list", "rest of the list"},
		}, "list",
		Func2("cons", func(env Environment, allowTail bool, value Expression, l List[Expression]) Expression {
			if value.IsException() {
				return value
			}
			return FromList(l.Cons(value))
		}), Expression{},
	})
	Declare(&Declaration{
		"join", "concatenates lists; all but the last list are copied",
		1, -1, []DeclarationParameter{{"lists...", "list", "lists to concatenate"}}, "list",
		NewNative("join", join), Expression{},
	})
	Declare(&Declaration{
		"range", "returns count numbers starting at start, each step apart",
		3, 3, []DeclarationParameter{
			{"start", "number", "first number"},
			{"count", "uint", "number of elements"},
			{"step", "number", "distance between elements"},
		}, "list",
		Func3("range", func(env Environment, allowTail bool, start Number, count uint64, step Number) Expression {
			if count > MaxRange {
				return Throwf("range: %d elements exceed the limit of %d", count, MaxRange)
			}
			values := make([]Expression, 0, count)
			for i := uint64(0); i < count; i++ {
				offset, err := step.Mul(UInt(i))
				if err != nil {
					return Throwf("range: %s", err)
				}
				v, err := start.Add(offset)
				if err != nil {
					return Throwf("range: %s", err)
				}
				values = append(values, Num(v))
			}
			return FromList(ListOf(values...))
		}), Expression{},
	})
	Declare(&Declaration{
		"list", "evaluates all arguments into a new list",
		0, -1, []DeclarationParameter{{"values...", "any", "elements"}}, "list",
		NewNative("list", func(args List[Expression], env Environment, allowTail bool) (Expression, int) {
			result, n := EvalAll(args, env, true)
			for v := range result.All() {
				if v.IsException() {
					return v, n
				}
			}
			return FromList(result), n
		}), Expression{},
	})
	Declare(&Declaration{
		"len", "counts the elements of a list",
		1, 1, []DeclarationParameter{{"list", "list", "input list"}}, "uint",
		Func1("len", func(env Environment, allowTail bool, l List[Expression]) Expression {
			return Num(UInt(uint64(l.Len())))
		}), Expression{},
	})
}

func join(args List[Expression], env Environment, allowTail bool) (Expression, int) {
	var lists []List[Expression]
	for cell := range args.Cells() {
		l, failure, ok := argument[List[Expression]]("join", len(lists), cell.Value(), env)
		if !ok {
			return failure, 0
		}
		lists = append(lists, l)
	}
	if len(lists) == 0 {
		return EmptyList(), 0
	}
	result := lists[len(lists)-1]
	for i := len(lists) - 2; i >= 0; i-- {
		items := lists[i].Slice()
		for j := len(items) - 1; j >= 0; j-- {
			result = result.Cons(items[j])
		}
	}
	if result.Empty() {
		return EmptyList(), len(lists)
	}
	return FromList(result), len(lists)
}
