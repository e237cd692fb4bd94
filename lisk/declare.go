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
import "strings"
import "path/filepath"

type Declaration struct {
	Name         string
	Desc         string
	MinParameter int
	MaxParameter int // -1: any number
	Params       []DeclarationParameter
	Returns      string // any | string | number | uint | bool | func | list | symbol | nil
	Fn           *NativeFunction
	Value        Expression // bound instead of Fn for constants
}

type DeclarationParameter struct {
	Name string
	Type string
	Desc string
}

var declarationTitles []string
var declarations = make(map[string]*Declaration)
var chapters = make(map[string][]*Declaration)
var currentChapter string

// DeclareTitle starts a new chapter; following declarations belong to it.
func DeclareTitle(title string) {
	declarationTitles = append(declarationTitles, "#"+title)
	currentChapter = title
}

// Declare adds def to the catalogue. For wrapped functions the parameter
// list is filled in from the function's signature when left empty.
func Declare(def *Declaration) {
	if def.Fn != nil && def.Params == nil && def.Fn.IsWrapped() {
		for i, p := range def.Fn.Params() {
			def.Params = append(def.Params, DeclarationParameter{fmt.Sprintf("arg%d", i+1), p.Name, ""})
		}
		def.MinParameter = len(def.Params)
		def.MaxParameter = len(def.Params)
	}
	declarationTitles = append(declarationTitles, def.Name)
	declarations[def.Name] = def
	chapters[currentChapter] = append(chapters[currentChapter], def)
}

// Install binds every declaration of the given chapters in env.
func Install(env Environment, titles ...string) {
	for _, title := range titles {
		for _, def := range chapters[title] {
			if def.Fn != nil {
				env.DefineCallable(Symbol(def.Name), NativeCallable(def.Fn))
			} else {
				env.Define(Symbol(def.Name), def.Value)
			}
		}
	}
}

// Chapters lists the chapter titles in declaration order.
func Chapters() (result []string) {
	for _, t := range declarationTitles {
		if t[0] == '#' {
			result = append(result, t[1:])
		}
	}
	return
}

func DeclarationFor(name string) (*Declaration, bool) {
	def, ok := declarations[name]
	return def, ok
}

func (def *Declaration) arity() string {
	if def.MaxParameter < 0 {
		return fmt.Sprintf("%d or more", def.MinParameter)
	}
	if def.MinParameter == def.MaxParameter {
		return fmt.Sprint(def.MinParameter)
	}
	return fmt.Sprintf("%d-%d", def.MinParameter, def.MaxParameter)
}

// Help writes the overview of all functions, or the details of one.
func Help(w io.Writer, name string) error {
	if name == "" {
		fmt.Fprintln(w, "Available lisk functions:")
		for _, title := range declarationTitles {
			if title[0] == '#' {
				fmt.Fprintln(w, "")
				fmt.Fprintln(w, "-- "+title[1:]+" --")
			} else {
				fmt.Fprintln(w, "  "+title+": "+strings.Split(declarations[title].Desc, "\n")[0])
			}
		}
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "get further information by typing (help \"functionname\")")
		return nil
	}
	def, ok := declarations[name]
	if !ok {
		return fmt.Errorf("function not found: %s", name)
	}
	fmt.Fprintln(w, "Help for: "+def.Name)
	fmt.Fprintln(w, "===")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, def.Desc)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Allowed number of parameters:", def.arity())
	fmt.Fprintln(w, "")
	for _, p := range def.Params {
		fmt.Fprintln(w, " - "+p.Name+" ("+p.Type+"): "+p.Desc)
	}
	fmt.Fprintln(w, "")
	return nil
}

func slugify(s string) string {
	s = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "chapter"
	}
	return b.String()
}

// WriteDocumentation writes index.md plus one markdown file per chapter.
func WriteDocumentation(folder string) error {
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return fmt.Errorf("failed to create folder %q: %w", folder, err)
	}
	index, err := os.Create(filepath.Join(folder, "index.md"))
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer index.Close()

	fmt.Fprint(index, "# Documentation\n\n")
	used := map[string]bool{}
	for _, title := range Chapters() {
		defs := chapters[title]
		if len(defs) == 0 {
			continue
		}
		slug := slugify(title)
		for i := 2; used[slug]; i++ {
			slug = fmt.Sprintf("%s-%d", slugify(title), i)
		}
		used[slug] = true
		fmt.Fprintf(index, "- [%s](%s.md)\n", title, slug)
		if err := writeChapter(filepath.Join(folder, slug+".md"), title, defs); err != nil {
			return err
		}
	}
	return nil
}

func writeChapter(path, title string, defs []*Declaration) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	fmt.Fprintf(f, "# %s\n\n", title)
	for _, def := range defs {
		fmt.Fprintf(f, "## %s\n\n", def.Name)
		if def.Desc != "" {
			fmt.Fprintf(f, "%s\n\n", def.Desc)
		}
		if def.Fn == nil {
			fmt.Fprintf(f, "**Value:** `%s`\n\n", String(def.Value))
			continue
		}
		fmt.Fprintf(f, "**Allowed number of parameters:** %s\n\n", def.arity())
		fmt.Fprint(f, "### Parameters\n\n")
		if len(def.Params) == 0 {
			fmt.Fprint(f, "_This function has no parameters._\n\n")
		} else {
			for _, p := range def.Params {
				fmt.Fprintf(f, "- **%s** (`%s`): %s\n", p.Name, p.Type, p.Desc)
			}
			fmt.Fprintln(f)
		}
		fmt.Fprintf(f, "### Returns\n\n`%s`\n\n", def.Returns)
	}
	return f.Close()
}
