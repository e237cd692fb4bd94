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
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var ErrIncomplete = errors.New("expecting matching )")

var numericRegex = regexp.MustCompile(`(?i)^(?:([-+])?(\d+)(\.\d+)?|([-+])?0x([a-f\d]+)(\.[a-f\d]+)?|([-+])?0b([01]+))$`)

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t'
}

func isBracket(c byte) bool {
	switch c {
	case '(', ')', '[', ']', '{', '}':
		return true
	}
	return false
}

// tokenize splits s into tokens. String tokens keep their quotes and have
// their escapes resolved. Unless final is set, a token still open at the
// end of s is left unread; used is the length of the consumed prefix.
func tokenize(s string, final bool) (result []string, used int) {
	var buf []byte
	var quote byte
	inString, escaping, inComment := false, false, false
	flush := func() {
		if len(buf) > 0 {
			result = append(result, string(buf))
			buf = buf[:0]
		}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inComment:
			if c == '\n' {
				inComment = false
			}
		case inString:
			if escaping {
				switch c {
				case 'n':
					c = '\n'
				case 'r':
					c = '\r'
				case 't':
					c = '\t'
				case '0':
					c = 0
				}
				buf = append(buf, c)
				escaping = false
			} else if c == '\\' {
				escaping = true
			} else {
				buf = append(buf, c)
				if c == quote {
					inString = false
					flush()
				}
			}
		case c == ';':
			flush()
			inComment = true
		case c == '"' || c == '\'':
			flush()
			buf = append(buf, c)
			inString = true
			quote = c
		case isWhitespace(c):
			flush()
		case isBracket(c):
			flush()
			result = append(result, s[i:i+1])
		default:
			buf = append(buf, c)
		}
		if !inString && !inComment && len(buf) == 0 {
			used = i + 1
		}
	}
	if final {
		flush()
		used = len(s)
	}
	return
}

// Tokenize splits a complete source text into tokens.
func Tokenize(s string) []string {
	result, _ := tokenize(s, true)
	return result
}

// RootTokenize wraps all top-level forms of s into one (begin ...) form.
func RootTokenize(s string) []string {
	tokens := Tokenize(s)
	if len(tokens) == 0 {
		return nil
	}
	result := make([]string, 0, len(tokens)+3)
	result = append(result, "(", "begin")
	result = append(result, tokens...)
	return append(result, ")")
}

// IsNumeric reports whether token is a number literal.
func IsNumeric(token string) bool {
	return numericRegex.MatchString(token)
}

// ParseNumber reads a decimal, hex or binary literal. A fractional part
// makes it real, a sign makes it signed, everything else is unsigned.
func ParseNumber(token string) (Number, error) {
	m := numericRegex.FindStringSubmatch(token)
	if m == nil {
		return Number{}, errors.New("not a number: " + token)
	}
	switch {
	case m[2] != "":
		if m[3] != "" {
			f, err := strconv.ParseFloat(m[1]+m[2]+m[3], 64)
			return Real(f), err
		} else if m[1] != "" {
			i, err := strconv.ParseInt(m[1]+m[2], 10, 64)
			return SInt(i), err
		}
		u, err := strconv.ParseUint(m[2], 10, 64)
		return UInt(u), err
	case m[5] != "":
		if m[6] != "" {
			f, err := strconv.ParseFloat(m[4]+"0x"+m[5]+m[6]+"p0", 64)
			return Real(f), err
		} else if m[4] != "" {
			i, err := strconv.ParseInt(m[4]+m[5], 16, 64)
			return SInt(i), err
		}
		u, err := strconv.ParseUint(m[5], 16, 64)
		return UInt(u), err
	default:
		if m[7] != "" {
			i, err := strconv.ParseInt(m[7]+m[8], 2, 64)
			return SInt(i), err
		}
		u, err := strconv.ParseUint(m[8], 2, 64)
		return UInt(u), err
	}
}

func parseToken(token string) Expression {
	switch c := token[0]; {
	case c == '"' || c == '\'':
		if len(token) >= 2 && token[len(token)-1] == c {
			return Str(token[1 : len(token)-1])
		}
		return Str(token[1:])
	case token == "nil":
		return Nil()
	case token == "true":
		return Bool(true)
	case token == "false":
		return Bool(false)
	case IsNumeric(token):
		n, err := ParseNumber(token)
		if err != nil {
			return Throwf("invalid number literal '%s': %s", token, err)
		}
		return Num(n)
	}
	return Sym(Symbol(token))
}

var closers = map[string]string{"(": ")", "[": "]", "{": "}"}

// Parse builds the first form of tokens. [a b] reads as (list a b) and
// {a b} as (eval-stack a b). Bracket errors come back as Exceptions.
func Parse(tokens []string) Expression {
	type scope struct {
		items  []Expression
		closer string
	}
	var stack []*scope
	for _, token := range tokens {
		switch token {
		case "(", "[", "{":
			s := &scope{closer: closers[token]}
			switch token {
			case "[":
				s.items = append(s.items, Sym("list"))
			case "{":
				s.items = append(s.items, Sym("eval-stack"))
			}
			stack = append(stack, s)
		case ")", "]", "}":
			if len(stack) == 0 {
				return Throwf("unexpected '%s'", token)
			}
			s := stack[len(stack)-1]
			if token != s.closer {
				return Throwf("expected '%s', got '%s'", s.closer, token)
			}
			stack = stack[:len(stack)-1]
			value := FromList(ListOf(s.items...))
			if len(stack) == 0 {
				return value
			}
			parent := stack[len(stack)-1]
			parent.items = append(parent.items, value)
		default:
			value := parseToken(token)
			if len(stack) == 0 {
				return value
			}
			parent := stack[len(stack)-1]
			parent.items = append(parent.items, value)
		}
	}
	if len(stack) > 0 {
		return Throw(ErrIncomplete.Error())
	}
	return Nil()
}

// Read parses the first form of s.
func Read(s string) Expression {
	return Parse(Tokenize(s))
}

// EvalString parses one form and evaluates it.
func EvalString(s string, env Environment) Expression {
	return Eval(Read(s), env, true)
}

// RootEvalString evaluates every top-level form of s in order and returns
// the last result.
func RootEvalString(s string, env Environment) Expression {
	return Eval(Parse(RootTokenize(s)), env, true)
}

// Reader collects text that arrives in pieces (REPL lines, websocket
// messages) and hands out complete top-level forms.
type Reader struct {
	buffer string
	tokens []string
	depth  int
	forms  [][]string
}

// Feed appends text. Complete forms become available through Next.
func (r *Reader) Feed(s string) {
	r.buffer += s
	tokens, used := tokenize(r.buffer, false)
	r.buffer = r.buffer[used:]
	r.push(tokens)
}

// Flush treats the buffered text as finished, e.g. at end of file.
func (r *Reader) Flush() {
	r.push(Tokenize(r.buffer))
	r.buffer = ""
}

func (r *Reader) push(tokens []string) {
	for _, token := range tokens {
		r.tokens = append(r.tokens, token)
		switch token {
		case "(", "[", "{":
			r.depth++
		case ")", "]", "}":
			r.depth--
		}
		if r.depth <= 0 {
			r.forms = append(r.forms, r.tokens)
			r.tokens = nil
			r.depth = 0
		}
	}
}

// Next returns the next complete form.
func (r *Reader) Next() (Expression, bool) {
	if len(r.forms) == 0 {
		return Expression{}, false
	}
	form := r.forms[0]
	r.forms = r.forms[1:]
	return Parse(form), true
}

// Pending reports whether an unfinished form is buffered.
func (r *Reader) Pending() bool {
	return len(r.tokens) > 0 || strings.TrimSpace(r.buffer) != ""
}

func (r *Reader) Reset() {
	*r = Reader{}
}
