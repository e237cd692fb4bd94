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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
)

// S3Options configures access to s3:// sources.
type S3Options struct {
	AccessKeyID     string // empty: default credential chain
	SecretAccessKey string
	Region          string
	Endpoint        string // e.g. http://localhost:9000
	ForcePathStyle  bool   // bucket in the path instead of the host
}

var s3mu sync.Mutex
var s3opts S3Options
var s3client *s3.Client

// SetS3 replaces the S3 options; the client is rebuilt on next use.
func SetS3(opts S3Options) {
	s3mu.Lock()
	defer s3mu.Unlock()
	s3opts = opts
	s3client = nil
}

func s3Client(ctx context.Context) (*s3.Client, error) {
	s3mu.Lock()
	defer s3mu.Unlock()
	if s3client != nil {
		return s3client, nil
	}

	var opts []func(*config.LoadOptions) error
	if s3opts.Region != "" {
		opts = append(opts, config.WithRegion(s3opts.Region))
	}
	if s3opts.AccessKeyID != "" && s3opts.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s3opts.AccessKeyID, s3opts.SecretAccessKey, ""),
		))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if s3opts.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(s3opts.Endpoint)
		})
	}
	if s3opts.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}
	s3client = s3.NewFromConfig(cfg, s3Opts...)
	return s3client, nil
}

// splitS3 splits s3://bucket/key.
func splitS3(name string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(name, "s3://")
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 location %q, expected s3://bucket/key", name)
	}
	return bucket, key, nil
}

// Resolve makes name absolute relative to dir. s3:// locations and
// absolute paths are returned unchanged.
func Resolve(dir, name string) string {
	if strings.HasPrefix(name, "s3://") || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// OpenRaw opens an already resolved location for reading as is.
func OpenRaw(ctx context.Context, name string) (io.ReadCloser, error) {
	if !strings.HasPrefix(name, "s3://") {
		return os.Open(name)
	}
	bucket, key, err := splitS3(name)
	if err != nil {
		return nil, err
	}
	client, err := s3Client(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", name, err)
	}
	return resp.Body, nil
}

// Open is OpenRaw for files ending in .gz, .xz or .lz4 decompressed on the
// fly.
func Open(ctx context.Context, name string) (io.ReadCloser, error) {
	raw, err := OpenRaw(ctx, name)
	if err != nil {
		return nil, err
	}
	r, err := Decompress(name, raw)
	if err != nil {
		raw.Close()
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return readCloser{r, raw}, nil
}

// Decompress picks the decoder by the extension of name.
func Decompress(name string, r io.Reader) (io.Reader, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz":
		return gzip.NewReader(r)
	case ".xz":
		return xz.NewReader(r)
	case ".lz4":
		return lz4.NewReader(r), nil
	}
	return r, nil
}

type readCloser struct {
	io.Reader
	c io.Closer
}

func (r readCloser) Close() error {
	return r.c.Close()
}

// ReadAll opens name and returns its content.
func ReadAll(ctx context.Context, name string) (string, error) {
	r, err := Open(ctx, name)
	if err != nil {
		return "", err
	}
	defer r.Close()
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return string(b), nil
}
