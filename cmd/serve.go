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
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/launix-de/lisk/lisk"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a websocket evaluation endpoint",
	Long: `Listens for websocket connections on /. Every connection gets an
environment of its own; text messages are read as lisk source, each
complete form is evaluated and answered with "= result". Output of print
is sent as separate messages.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server := &http.Server{
			Addr:           serveAddr,
			Handler:        NewServer(),
			ReadTimeout:    10 * time.Second,
			MaxHeaderBytes: 1 << 20,
		}
		slog.Info("serving", "addr", serveAddr)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "address to listen on")
}

// Server upgrades requests to websockets and runs one session per
// connection.
type Server struct {
	upgrader websocket.Upgrader
}

func NewServer() *Server {
	s := &Server{upgrader: websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}}
	s.upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	return s
}

// wsWriter sends every write as one text message. Watch callbacks may
// print from other goroutines, hence the lock.
type wsWriter struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func (w *wsWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.ws.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (s *Server) ServeHTTP(res http.ResponseWriter, req *http.Request) {
	ws, err := s.upgrader.Upgrade(res, req, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "remote", req.RemoteAddr, "err", err)
		return
	}
	defer ws.Close()

	session := uuid.New()
	log := slog.With("session", session, "remote", req.RemoteAddr)
	log.Info("session opened")
	defer log.Info("session closed")

	out := &wsWriter{ws: ws}
	env := newEnv(out)
	var reader lisk.Reader
	for {
		messageType, msg, err := ws.ReadMessage()
		if err != nil {
			var closeErr *websocket.CloseError
			if !errors.As(err, &closeErr) {
				log.Warn("websocket read failed", "err", err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		reader.Feed(string(msg) + "\n")
		for {
			form, ok := reader.Next()
			if !ok {
				break
			}
			result := lisk.EvalForm("session "+session.String(), form, env)
			if result.IsException() {
				log.Debug("form failed", "err", result.AsException())
			}
			if _, err := out.Write([]byte("= " + lisk.String(result))); err != nil {
				log.Warn("websocket write failed", "err", err)
				return
			}
		}
	}
}
