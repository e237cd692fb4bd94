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
	"compress/gzip"
	"context"
	"io"

	"github.com/launix-de/lisk/lisk"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
)

func streamValue(r io.Reader) lisk.Expression {
	return lisk.FromHandle(lisk.NewHandle[io.Reader](r))
}

func initStreams() {
	lisk.DeclareTitle("Streams")

	lisk.Declare(&lisk.Declaration{
		Name: "stream", Desc: "opens a file or s3://bucket/key as a stream of raw bytes",
		MinParameter: 1, MaxParameter: 1,
		Params:  []lisk.DeclarationParameter{{Name: "filename", Type: "string", Desc: "filename relative to folder of source file"}},
		Returns: "stream",
		Fn: lisk.Func1("stream", func(env lisk.Environment, allowTail bool, name string) lisk.Expression {
			r, err := OpenRaw(context.Background(), Resolve(dirOf(env), name))
			if err != nil {
				return lisk.Throwf("stream: %s", err)
			}
			return streamValue(r)
		}),
	})
	lisk.Declare(&lisk.Declaration{
		Name: "gzip", Desc: "turns a compressed gzip stream into a stream of uncompressed data. Create streams with (stream filename)",
		MinParameter: 1, MaxParameter: 1,
		Params:  []lisk.DeclarationParameter{{Name: "stream", Type: "stream", Desc: "input stream"}},
		Returns: "stream",
		Fn: lisk.Func1("gzip", func(env lisk.Environment, allowTail bool, stream io.Reader) lisk.Expression {
			r, err := gzip.NewReader(stream)
			if err != nil {
				return lisk.Throwf("gzip: %s", err)
			}
			return streamValue(r)
		}),
	})
	lisk.Declare(&lisk.Declaration{
		Name: "xz", Desc: "turns a compressed xz stream into a stream of uncompressed data. Create streams with (stream filename)",
		MinParameter: 1, MaxParameter: 1,
		Params:  []lisk.DeclarationParameter{{Name: "stream", Type: "stream", Desc: "input stream"}},
		Returns: "stream",
		Fn: lisk.Func1("xz", func(env lisk.Environment, allowTail bool, stream io.Reader) lisk.Expression {
			r, err := xz.NewReader(stream)
			if err != nil {
				return lisk.Throwf("xz: %s", err)
			}
			return streamValue(r)
		}),
	})
	lisk.Declare(&lisk.Declaration{
		Name: "lz4", Desc: "turns a compressed lz4 frame stream into a stream of uncompressed data. Create streams with (stream filename)",
		MinParameter: 1, MaxParameter: 1,
		Params:  []lisk.DeclarationParameter{{Name: "stream", Type: "stream", Desc: "input stream"}},
		Returns: "stream",
		Fn: lisk.Func1("lz4", func(env lisk.Environment, allowTail bool, stream io.Reader) lisk.Expression {
			return streamValue(lz4.NewReader(stream))
		}),
	})
	lisk.Declare(&lisk.Declaration{
		Name: "stream-string", Desc: "reads the rest of a stream into a string",
		MinParameter: 1, MaxParameter: 1,
		Params:  []lisk.DeclarationParameter{{Name: "stream", Type: "stream", Desc: "input stream"}},
		Returns: "string",
		Fn: lisk.Func1("stream-string", func(env lisk.Environment, allowTail bool, stream io.Reader) lisk.Expression {
			b, err := io.ReadAll(stream)
			if err != nil {
				return lisk.Throwf("stream-string: %s", err)
			}
			return lisk.Str(string(b))
		}),
	})
	lisk.Declare(&lisk.Declaration{
		Name: "stream-close", Desc: "closes a stream; streams without a close operation are left alone",
		MinParameter: 1, MaxParameter: 1,
		Params:  []lisk.DeclarationParameter{{Name: "stream", Type: "stream", Desc: "stream to close"}},
		Returns: "bool",
		Fn: lisk.Func1("stream-close", func(env lisk.Environment, allowTail bool, stream io.Reader) lisk.Expression {
			if c, ok := stream.(io.Closer); ok {
				if err := c.Close(); err != nil {
					return lisk.Throwf("stream-close: %s", err)
				}
			}
			return lisk.Bool(true)
		}),
	})
}
