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

package cmd

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/launix-de/lisk/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags undoes flag values of earlier executions; cobra keeps them.
func resetFlags() {
	for _, c := range []*cobra.Command{rootCmd, runCmd, replCmd, docCmd, serveCmd} {
		for _, fs := range []*pflag.FlagSet{c.Flags(), c.PersistentFlags()} {
			fs.VisitAll(func(f *pflag.Flag) {
				f.Value.Set(f.DefValue)
				f.Changed = false
			})
		}
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	saved := config.Settings
	t.Cleanup(func() { config.Settings = saved })
	resetFlags()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRunExpressions(t *testing.T) {
	out, err := execute(t, "run", "-e", "-p", "(define x 2)", "(* x 21)")
	require.NoError(t, err)
	assert.Equal(t, "nil\n42\n", out)

	_, err = execute(t, "run", "-e", "(car 1)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "argument 1 of car")
}

func TestRunFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.lsk"), []byte(`(define greeting "hello")`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.lsk"), []byte(`(println (concat greeting " world"))`), 0o644))

	out, err := execute(t, "--wd", dir, "a.lsk", "b.lsk")
	require.NoError(t, err)
	assert.Contains(t, out, "hello world\n")

	_, err = execute(t, "--wd", dir, "missing.lsk")
	assert.Error(t, err)
}

func TestFlagsOverrideSettings(t *testing.T) {
	t.Setenv("LISK_COLLATION", "de")
	_, err := execute(t, "--collation", "sv", "--log-level", "error", "run", "-e", "1")
	require.NoError(t, err)
	assert.Equal(t, "sv", config.Settings.Collation)
	assert.Equal(t, "error", config.Settings.LogLevel)

	_, err = execute(t, "--max-stack", "huge", "run", "-e", "1")
	assert.Error(t, err)
}

func TestDoc(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reference")
	out, err := execute(t, "doc", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "documentation written to")
	_, err = os.Stat(filepath.Join(dir, "index.md"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "sql.md"))
	assert.NoError(t, err)

	out, err = execute(t, "doc", "--topic", "sql-open")
	require.NoError(t, err)
	assert.Contains(t, out, "Help for: sql-open")
}

func TestServe(t *testing.T) {
	srv := httptest.NewServer(NewServer())
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	dial := func() *websocket.Conn {
		ws, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		return ws
	}
	read := func(ws *websocket.Conn) string {
		ws.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, msg, err := ws.ReadMessage()
		require.NoError(t, err)
		return string(msg)
	}

	a := dial()
	defer a.Close()
	require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte("(define x 5) (print x)")))
	assert.Equal(t, "= nil", read(a))
	assert.Equal(t, "5", read(a))
	assert.Equal(t, "= nil", read(a))

	// forms may span messages
	require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte("(+ x")))
	require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte("1)")))
	assert.Equal(t, "= 6", read(a))

	// every connection has its own environment
	b := dial()
	defer b.Close()
	require.NoError(t, b.WriteMessage(websocket.TextMessage, []byte("x")))
	assert.Equal(t, "= <exception 'environment lookup failed, couldn't find 'x''>", read(b))
}
