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

// Package config holds the interpreter host settings. Defaults are
// overridden by LISK_* environment variables, then by command line flags,
// and at runtime by the settings builtin.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"runtime/debug"
	"strconv"
	"strings"
	"unicode"

	"github.com/dc0d/onexit"
	"github.com/docker/go-units"
	"github.com/launix-de/lisk/iolib"
	"github.com/launix-de/lisk/lisk"
)

type SettingsT struct {
	Trace            bool
	TracePrint       bool
	TraceDir         string
	HistoryFile      string
	MaxStack         string // human readable, e.g. 512MiB; empty keeps the runtime default
	LogLevel         string // debug, info, warn or error
	Collation        string
	S3Region         string
	S3Endpoint       string
	S3AccessKey      string
	S3SecretKey      string
	S3ForcePathStyle bool
}

var Settings SettingsT = SettingsT{
	TraceDir:    ".",
	HistoryFile: ".lisk-history",
	LogLevel:    "info",
	Collation:   "en",
}

// EnvName is the environment variable overriding a setting:
// TracePrint is read from LISK_TRACE_PRINT.
func EnvName(field string) string {
	var b strings.Builder
	b.WriteString("LISK_")
	runes := []rune(field)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && !unicode.IsUpper(runes[i-1]) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

func field(name string) (reflect.Value, bool) {
	f := reflect.ValueOf(&Settings).Elem().FieldByName(name)
	return f, f.IsValid()
}

// Names lists all settings in declaration order.
func Names() []string {
	t := reflect.TypeFor[SettingsT]()
	result := make([]string, t.NumField())
	for i := range result {
		result[i] = t.Field(i).Name
	}
	return result
}

// Set changes one setting from its textual form. It does not apply it.
func Set(name, value string) error {
	f, ok := field(name)
	if !ok {
		return fmt.Errorf("unknown setting: %s", name)
	}
	switch f.Kind() {
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("setting %s: %w", name, err)
		}
		f.SetBool(b)
	default:
		f.SetString(value)
	}
	return nil
}

// Get returns one setting as lisk value.
func Get(name string) (lisk.Expression, error) {
	f, ok := field(name)
	if !ok {
		return lisk.Expression{}, fmt.Errorf("unknown setting: %s", name)
	}
	if f.Kind() == reflect.Bool {
		return lisk.Bool(f.Bool()), nil
	}
	return lisk.Str(f.String()), nil
}

// LoadEnv applies LISK_* environment variables to Settings.
func LoadEnv() error {
	for _, name := range Names() {
		if value, ok := os.LookupEnv(EnvName(name)); ok {
			if err := Set(name, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// Apply pushes Settings into the interpreter, the logger and the S3 client.
func Apply() error {
	if Settings.Trace != (lisk.Trace != nil) {
		if err := lisk.SetTrace(Settings.Trace, Settings.TraceDir); err != nil {
			return err
		}
	}
	lisk.TracePrint = Settings.TracePrint
	if Settings.MaxStack != "" {
		size, err := units.RAMInBytes(Settings.MaxStack)
		if err != nil {
			return fmt.Errorf("setting MaxStack: %w", err)
		}
		debug.SetMaxStack(int(size))
	}
	if err := LogLevel.UnmarshalText([]byte(Settings.LogLevel)); err != nil {
		return fmt.Errorf("setting LogLevel: %w", err)
	}
	if _, err := lisk.Collator(Settings.Collation); err != nil {
		return fmt.Errorf("setting Collation: %w", err)
	}
	lisk.DefaultCollation = Settings.Collation
	iolib.SetS3(iolib.S3Options{
		AccessKeyID:     Settings.S3AccessKey,
		SecretAccessKey: Settings.S3SecretKey,
		Region:          Settings.S3Region,
		Endpoint:        Settings.S3Endpoint,
		ForcePathStyle:  Settings.S3ForcePathStyle,
	})
	return nil
}

// call this after you filled Settings
func InitSettings() error {
	if err := Apply(); err != nil {
		return err
	}
	onexit.Register(func() { lisk.SetTrace(false, "") }) // close trace file on exit
	slog.Debug("settings applied", "trace", Settings.Trace, "maxstack", Settings.MaxStack)
	return nil
}

// ChangeSettings lists all settings, reads one or changes one.
func ChangeSettings(args lisk.List[lisk.Expression], env lisk.Environment, allowTail bool) (lisk.Expression, int) {
	if !args.Ok() {
		var pairs []lisk.Expression
		for _, name := range Names() {
			value, _ := Get(name)
			pairs = append(pairs, lisk.Str(name), value)
		}
		return lisk.FromList(lisk.ListOf(pairs...)), 0
	}
	name, failure, ok := lisk.Arg[string](args.Value(), env)
	if !ok {
		return failure, 0
	}
	if !args.Next().Ok() {
		value, err := Get(name)
		if err != nil {
			return lisk.Throw(err.Error()), 1
		}
		return value, 1
	}
	value := lisk.Eval(args.NextValue(), env, true)
	if value.IsException() {
		return value, 2
	}
	text, ok := value.GetString()
	if !ok {
		text = lisk.String(value)
	}
	if b, ok := lisk.Extract[bool](value); ok {
		text = strconv.FormatBool(b)
	}
	old := Settings
	if err := Set(name, text); err != nil {
		return lisk.Throw(err.Error()), 2
	}
	if err := Apply(); err != nil {
		Settings = old
		return lisk.Throw(err.Error()), 2
	}
	return lisk.Bool(true), 2
}

func init() {
	lisk.DeclareTitle("Settings")
	lisk.Declare(&lisk.Declaration{
		Name: "settings", Desc: "without arguments lists all settings as name value pairs; with a name returns one setting; with a name and a value changes it",
		MinParameter: 0, MaxParameter: 2,
		Params: []lisk.DeclarationParameter{
			{Name: "name", Type: "string", Desc: "setting to read or change"},
			{Name: "value", Type: "any", Desc: "new value"},
		},
		Returns: "any",
		Fn:      lisk.NewNative("settings", ChangeSettings),
	})
}

// Install binds the settings builtin in env.
func Install(env lisk.Environment) {
	lisk.Install(env, "Settings")
}
