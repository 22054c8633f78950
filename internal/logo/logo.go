// Copyright (c) 2026 WSO2 LLC. (https://www.wso2.com).
//
// WSO2 LLC. licenses this file to you under the Apache License,
// Version 2.0 (the "License"); you may not use this file except
// in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Package logo resolves the brand logo used by the QR compositor.
// Resolvers hide where the asset lives (local files, object storage) and may be
// wrapped in a process-wide cache.
package logo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// ErrNotFound is returned when no candidate produced a readable image.
var ErrNotFound = errors.New("logo asset not found")

// Asset is a logo image in its encoded form.
type Asset struct {
	Data   []byte
	Source string
	Width  int
	Height int
	Format string
}

// Resolver returns the logo asset or ErrNotFound. Implementations must be safe for concurrent use.
type Resolver interface {
	Resolve(ctx context.Context) (*Asset, error)
}

// Prober reports per-candidate status for diagnostics.
type Prober interface {
	Probe(ctx context.Context) []ProbeResult
}

// ProbeResult describes one candidate location.
type ProbeResult struct {
	Location string `json:"location"`
	Exists   bool   `json:"exists"`
	Loaded   bool   `json:"loaded"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Format   string `json:"format,omitempty"`
	Error    string `json:"error,omitempty"`
}

// NewAsset checks that data holds a decodable image header and records its size.
func NewAsset(source string, data []byte) (*Asset, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: empty file", source)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: unreadable image: %w", source, err)
	}
	return &Asset{
		Data:   data,
		Source: source,
		Width:  cfg.Width,
		Height: cfg.Height,
		Format: format,
	}, nil
}

type chain []Resolver

// Chain tries each resolver in order and returns the first asset found.
func Chain(resolvers ...Resolver) Resolver {
	out := make(chain, 0, len(resolvers))
	for _, r := range resolvers {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

func (c chain) Resolve(ctx context.Context) (*Asset, error) {
	var errs []error
	for _, r := range c {
		asset, err := r.Resolve(ctx)
		if err == nil {
			return asset, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		errs = append(errs, err)
	}
	return nil, errors.Join(append([]error{ErrNotFound}, errs...)...)
}

func (c chain) Probe(ctx context.Context) []ProbeResult {
	var out []ProbeResult
	for _, r := range c {
		if p, ok := r.(Prober); ok {
			out = append(out, p.Probe(ctx)...)
		}
	}
	return out
}

// None is a resolver that never finds a logo.
type None struct{}

func (None) Resolve(context.Context) (*Asset, error) { return nil, ErrNotFound }
