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

package logo

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"go.uber.org/zap"
)

// FileResolver reads the logo from the first readable path in an ordered candidate list.
type FileResolver struct {
	paths  []string
	logger *zap.Logger
}

// NewFileResolver creates a resolver over candidate paths. The list is copied.
func NewFileResolver(logger *zap.Logger, paths ...string) *FileResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileResolver{
		paths:  append([]string(nil), paths...),
		logger: logger,
	}
}

// Resolve returns the first candidate that reads and decodes as an image.
func (r *FileResolver) Resolve(ctx context.Context) (*Asset, error) {
	for _, path := range r.paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		asset, err := r.load(path)
		if err != nil {
			r.logger.Debug("Logo candidate rejected", zap.String("path", path), zap.Error(err))
			continue
		}
		r.logger.Debug("Logo loaded",
			zap.String("path", path),
			zap.Int("width", asset.Width),
			zap.Int("height", asset.Height),
			zap.String("format", asset.Format),
		)
		return asset, nil
	}
	return nil, ErrNotFound
}

// Probe checks every candidate without stopping at the first match.
func (r *FileResolver) Probe(ctx context.Context) []ProbeResult {
	results := make([]ProbeResult, 0, len(r.paths))
	for _, path := range r.paths {
		res := ProbeResult{Location: "file://" + path}
		if _, err := os.Stat(path); err == nil {
			res.Exists = true
		} else if !errors.Is(err, fs.ErrNotExist) {
			res.Error = err.Error()
		}
		if res.Exists {
			asset, err := r.load(path)
			if err != nil {
				res.Error = err.Error()
			} else {
				res.Loaded = true
				res.Width = asset.Width
				res.Height = asset.Height
				res.Format = asset.Format
			}
		}
		results = append(results, res)
	}
	return results
}

func (r *FileResolver) load(path string) (*Asset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewAsset("file://"+path, data)
}
