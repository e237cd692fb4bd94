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

import "regexp"
import "strings"
import "unicode/utf8"
import "golang.org/x/text/collate"
import "golang.org/x/text/language"

// DefaultCollation is used by string<? and friends.
var DefaultCollation = "en"

var collationRe = regexp.MustCompile("^([^_]+_)?(.+?)$") // charset_language

// Collator builds a collator for a collation name of the form LANG,
// LANG_ci or LANG_cs, LANG being a BCP 47 tag or one of the MySQL aliases.
// "bin" yields nil: compare bytes.
func Collator(collation string) (*collate.Collator, error) {
	ci := false
	if strings.HasSuffix(collation, "_ci") {
		ci = true
		collation = collation[:len(collation)-3]
	} else if strings.HasSuffix(collation, "_cs") {
		collation = collation[:len(collation)-3]
	}
	base := collation
	if m := collationRe.FindStringSubmatch(collation); m != nil {
		base = m[2]
		if _, err := language.Parse(collation); err == nil {
			base = collation
		}
	}
	if base == "bin" {
		return nil, nil
	}
	tag, err := language.Parse(base)
	if err != nil {
		switch base {
		case "danish":
			tag = language.Danish
		case "german1", "german2":
			tag = language.German
		case "spanish":
			tag = language.Spanish
		case "swedish":
			tag = language.Swedish
		case "general":
			tag = language.English
		default:
			return nil, err
		}
	}
	if ci {
		return collate.New(tag, collate.Numeric, collate.IgnoreCase), nil
	}
	return collate.New(tag, collate.Numeric), nil
}

// CompareStrings compares a and b under collation.
func CompareStrings(a, b, collation string) (int, error) {
	c, err := Collator(collation)
	if err != nil {
		return 0, err
	}
	if c == nil {
		return strings.Compare(a, b), nil
	}
	return c.CompareString(a, b), nil
}

func initStrings() {
	DeclareTitle("Strings")

	Declare(&Declaration{
		"concat", "concatenates strings; other values are printed",
		0, -1, []DeclarationParameter{{"values...", "any", "parts"}}, "string",
		NewNative("concat", func(args List[Expression], env Environment, allowTail bool) (Expression, int) {
			var b strings.Builder
			n := 0
			for v := range args.All() {
				n++
				value := Eval(v, env, true)
				if value.IsException() {
					return value, n
				}
				if s, ok := value.GetString(); ok {
					b.WriteString(s)
				} else {
					Serialize(&b, value)
				}
			}
			return Str(b.String()), n
		}), Expression{},
	})
	Declare(&Declaration{
		"strlen", "counts the characters of a string",
		1, 1, []DeclarationParameter{{"value", "string", "input"}}, "uint",
		Func1("strlen", func(env Environment, allowTail bool, s string) Expression {
			return Num(UInt(uint64(utf8.RuneCountInString(s))))
		}), Expression{},
	})
	Declare(&Declaration{
		"upper", "turns a string to upper case",
		1, 1, []DeclarationParameter{{"value", "string", "input"}}, "string",
		Func1("upper", func(env Environment, allowTail bool, s string) Expression {
			return Str(strings.ToUpper(s))
		}), Expression{},
	})
	Declare(&Declaration{
		"lower", "turns a string to lower case",
		1, 1, []DeclarationParameter{{"value", "string", "input"}}, "string",
		Func1("lower", func(env Environment, allowTail bool, s string) Expression {
			return Str(strings.ToLower(s))
		}), Expression{},
	})
	Declare(&Declaration{
		"collate", "compares two strings under a collation and returns -1, 0 or 1; numbers inside strings sort naturally",
		3, 3, []DeclarationParameter{
			{"a", "string", "left string"},
			{"b", "string", "right string"},
			{"collation", "string", "LANG, LANG_ci or LANG_cs where LANG is a BCP 47 tag; bin compares bytes"},
		}, "sint",
		Func3("collate", func(env Environment, allowTail bool, a, b, collation string) Expression {
			c, err := CompareStrings(a, b, collation)
			if err != nil {
				return Throwf("collate: %s", err)
			}
			return Num(SInt(int64(c)))
		}), Expression{},
	})
	Declare(&Declaration{
		"string<?", "tells whether a sorts before b under the default collation",
		2, 2, []DeclarationParameter{
			{"a", "string", "left string"},
			{"b", "string", "right string"},
		}, "bool",
		Func2("string<?", func(env Environment, allowTail bool, a, b string) Expression {
			c, err := CompareStrings(a, b, DefaultCollation)
			if err != nil {
				return Throwf("string<?: %s", err)
			}
			return Bool(c < 0)
		}), Expression{},
	})
}
