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

import "io"
import "os"
import "fmt"
import "sync"
import "time"
import "path/filepath"
import "encoding/json"

// Tracefile is a JSON array of Chrome trace events (chrome://tracing,
// Perfetto). Spans are written as begin/end pairs.
type Tracefile struct {
	mu     sync.Mutex
	out    io.WriteCloser
	events int
	closed bool
}

var Trace *Tracefile // non-nil while top-level evaluation is traced
var TracePrint bool  // (time) also prints to *stdout*

var traceEpoch = time.Now()

// SetTrace closes the running trace and, if on, starts trace_<unix>.json in dir.
func SetTrace(on bool, dir string) error {
	if Trace != nil {
		Trace.Close()
		Trace = nil
	}
	if !on {
		return nil
	}
	name := filepath.Join(dir, fmt.Sprintf("trace_%d.json", time.Now().Unix()))
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("open trace file: %w", err)
	}
	Trace = NewTrace(f)
	return nil
}

func NewTrace(out io.WriteCloser) *Tracefile {
	io.WriteString(out, "[")
	return &Tracefile{out: out}
}

func (t *Tracefile) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	io.WriteString(t.out, "]\n")
	return t.out.Close()
}

type traceEvent struct {
	Name  string `json:"name"`
	Cat   string `json:"cat"`
	Phase string `json:"ph"`
	Ts    int64  `json:"ts"`
	Pid   int    `json:"pid"`
	Tid   int    `json:"tid"`
}

func (t *Tracefile) record(ev traceEvent) {
	b, err := json.Marshal(ev)
	if err != nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return // spans still open when the trace was switched off
	}
	if t.events > 0 {
		io.WriteString(t.out, ",\n")
	}
	t.out.Write(b)
	t.events++
}

// Span records the begin event now; calling the returned func records the end.
func (t *Tracefile) Span(name, cat string) (end func()) {
	t.record(traceEvent{name, cat, "B", time.Since(traceEpoch).Microseconds(), 0, 0})
	return func() {
		t.record(traceEvent{name, cat, "E", time.Since(traceEpoch).Microseconds(), 0, 0})
	}
}

// Traced evaluates expr and, when tracing is on, records it as one span.
func Traced(label string, expr Expression, env Environment) Expression {
	if Trace != nil {
		defer Trace.Span(label, "eval")()
	}
	return Eval(expr, env, true)
}

func initTrace() {
	Declare(&Declaration{
		"time", "evaluates the code and measures how long it took; the measurement goes to the trace file and, with TracePrint, to *stdout*",
		1, 2, []DeclarationParameter{
			{"code", "any", "expression to measure"},
			{"label", "string", "name of the measurement"},
		}, "any",
		NewNative("time", func(args List[Expression], env Environment, allowTail bool) (Expression, int) {
			if !args.Ok() {
				return Throw("time expects an expression"), 0
			}
			code, consumed := args.Value(), 1
			label := String(code)
			if args.Next().Ok() {
				s, failure, ok := argument[string]("time", 1, args.NextValue(), env)
				if !ok {
					return failure, 0
				}
				label, consumed = s, 2
			}
			var end func()
			if Trace != nil {
				end = Trace.Span(label, "time")
			}
			began := time.Now()
			result := Eval(code, env, true)
			elapsed := time.Since(began)
			if end != nil {
				end()
			}
			if TracePrint {
				fmt.Fprintf(Output(env), "%s: %s\n", label, elapsed)
			}
			return result, consumed
		}), Expression{},
	})
}
