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

package iolib

import (
	"github.com/google/uuid"
	"github.com/launix-de/lisk/lisk"
)

func init() {
	// a uuid argument is a uuid handle or a string in any of the forms
	// uuid.Parse understands
	lisk.RegisterType("uuid", lisk.GetOrEval, func(e lisk.Expression) (uuid.UUID, bool) {
		a, ok := e.GetAtom()
		if !ok {
			return uuid.UUID{}, false
		}
		if h, ok := a.GetHandle(); ok {
			return lisk.HandleAs[uuid.UUID](h)
		}
		if s, ok := a.GetString(); ok {
			u, err := uuid.Parse(s)
			return u, err == nil
		}
		return uuid.UUID{}, false
	})
}

func initUUID() {
	lisk.DeclareTitle("UUID")

	lisk.Declare(&lisk.Declaration{
		Name: "uuid", Desc: "creates a random (version 4) uuid",
		MinParameter: 0, MaxParameter: 0,
		Returns: "uuid",
		Fn: lisk.Func0("uuid", func(env lisk.Environment, allowTail bool) lisk.Expression {
			return lisk.FromHandle(lisk.NewHandle(uuid.New()))
		}),
	})
	lisk.Declare(&lisk.Declaration{
		Name: "uuid-string", Desc: "formats a uuid as xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx",
		Fn: lisk.Func1("uuid-string", func(env lisk.Environment, allowTail bool, u uuid.UUID) lisk.Expression {
			return lisk.Str(u.String())
		}),
		Returns: "string",
	})
	lisk.Declare(&lisk.Declaration{
		Name: "uuid?", Desc: "tells whether the value is a uuid or a string holding one",
		MinParameter: 1, MaxParameter: 1,
		Params:  []lisk.DeclarationParameter{{Name: "value", Type: "any", Desc: "value to check"}},
		Returns: "bool",
		Fn: lisk.Func1("uuid?", func(env lisk.Environment, allowTail bool, e lisk.Expression) lisk.Expression {
			_, ok := lisk.Extract[uuid.UUID](e)
			return lisk.Bool(ok)
		}),
	})
}
