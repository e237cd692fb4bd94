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
	"fmt"
	"io"
	"runtime/debug"
	"sync"

	"github.com/chzyer/readline"
)

const newprompt = "\033[32m>\033[0m "
const contprompt = "\033[32m.\033[0m "
const resultprompt = "\033[31m=\033[0m "

// EvalLock is held while EvalForm runs. Environments are not safe for
// concurrent use, so background callbacks (file watchers) take it as well.
var EvalLock sync.Mutex

// EvalForm evaluates one top-level form. A Go panic inside a builtin is
// turned into an Exception carrying the stack trace.
func EvalForm(label string, form Expression, env Environment) (result Expression) {
	EvalLock.Lock()
	defer EvalLock.Unlock()
	defer func() {
		if r := recover(); r != nil {
			result = Throwf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	return Traced(label, form, env)
}

// Repl reads forms from the terminal, evaluates them in env and prints the
// results. Unfinished forms continue on the next line.
func Repl(env Environment, historyFile string) error {
	l, err := readline.NewEx(&readline.Config{
		Prompt:            newprompt,
		HistoryFile:       historyFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	defer l.Close()
	l.CaptureExitSignal()

	var reader Reader
	for {
		line, err := l.Readline()
		if err == readline.ErrInterrupt {
			if !reader.Pending() && len(line) == 0 {
				return nil
			}
			reader.Reset()
			l.SetPrompt(newprompt)
			continue
		} else if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}

		reader.Feed(line + "\n")
		for {
			form, ok := reader.Next()
			if !ok {
				break
			}
			result := EvalForm("user prompt", form, env)
			fmt.Fprint(l.Stdout(), resultprompt)
			fmt.Fprintln(l.Stdout(), String(result))
		}
		if reader.Pending() {
			l.SetPrompt(contprompt)
		} else {
			l.SetPrompt(newprompt)
		}
	}
}
