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

package qr_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wso2-open-operations/common-tools/operations/branded-qr/internal/logo"
)

const sampleText = "https://example.com/patients/42"

// resolverFunc adapts a function to logo.Resolver.
type resolverFunc func(ctx context.Context) (*logo.Asset, error)

func (f resolverFunc) Resolve(ctx context.Context) (*logo.Asset, error) { return f(ctx) }

func solidPNG(t *testing.T, c color.Color, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// brandMarkPNG is a logo with a transparent background and a filled disc in the middle.
func brandMarkPNG(t *testing.T, size int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	c := float64(size) / 2
	r := float64(size) * 0.3
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)+0.5-c, float64(y)+0.5-c
			if dx*dx+dy*dy <= r*r {
				img.Set(x, y, color.NRGBA{R: 0, G: 102, B: 204, A: 255})
			}
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func assetResolver(t *testing.T, data []byte) logo.Resolver {
	t.Helper()
	asset, err := logo.NewAsset("memory://logo.png", data)
	require.NoError(t, err)
	return resolverFunc(func(context.Context) (*logo.Asset, error) { return asset, nil })
}

func decodePNG(t *testing.T, b []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	return img
}

func rgba(c color.Color) (r, g, b uint8) {
	cr, cg, cb, _ := c.RGBA()
	return uint8(cr >> 8), uint8(cg >> 8), uint8(cb >> 8)
}

func sameImage(t *testing.T, want, got image.Image) {
	t.Helper()
	require.Equal(t, want.Bounds(), got.Bounds())
	b := want.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			wr, wg, wb := rgba(want.At(x, y))
			gr, gg, gb := rgba(got.At(x, y))
			if wr != gr || wg != gg || wb != gb {
				t.Fatalf("pixel (%d,%d) differs: want %d,%d,%d got %d,%d,%d", x, y, wr, wg, wb, gr, gg, gb)
			}
		}
	}
}
