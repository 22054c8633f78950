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

package qr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"

	"github.com/wso2-open-operations/common-tools/operations/branded-qr/internal/logo"
)

// LogoSource records what ended up in the center of the code.
type LogoSource int

const (
	NoLogo LogoSource = iota
	AssetLogo
	TextFallback
)

func (s LogoSource) String() string {
	switch s {
	case AssetLogo:
		return "asset"
	case TextFallback:
		return "text"
	default:
		return "none"
	}
}

// Badge is the text drawn when no logo image can be used.
type Badge struct {
	Text  string
	Color color.Color
}

// DefaultBadge is the brand text fallback.
func DefaultBadge() Badge {
	return Badge{Text: "KCare", Color: color.RGBA{R: 0, G: 102, B: 204, A: 255}}
}

// MinFontSize is the smallest point size used for the text badge.
const MinFontSize = 16

// Footprint is the centered logo geometry for a code of a given size.
type Footprint struct {
	LogoSize int
	LogoX    int
	LogoY    int
	Padding  int
}

// FootprintFor computes a logo of a quarter of the shorter side, centered, with a
// tenth of the logo size as padding.
func FootprintFor(width, height int) Footprint {
	size := min(width, height) / 4
	return Footprint{
		LogoSize: size,
		LogoX:    (width - size) / 2,
		LogoY:    (height - size) / 2,
		Padding:  size / 10,
	}
}

// Logo is the rectangle the logo image is painted into.
func (f Footprint) Logo() image.Rectangle {
	return image.Rect(f.LogoX, f.LogoY, f.LogoX+f.LogoSize, f.LogoY+f.LogoSize)
}

// Bounds is the badge bounding box, padding included. Nothing is drawn outside it.
func (f Footprint) Bounds() image.Rectangle {
	return f.Logo().Inset(-f.Padding)
}

// CompositionResult is the colored raster plus the logo source chosen.
type CompositionResult struct {
	Image  *image.RGBA
	Source LogoSource
}

// Compositor overlays the brand logo, or the text badge, on a rendered code.
type Compositor struct {
	resolver logo.Resolver
	badge    Badge
	logger   *zap.Logger
}

// NewCompositor creates a compositor. A nil resolver always yields the text badge.
func NewCompositor(resolver logo.Resolver, badge Badge, logger *zap.Logger) *Compositor {
	if resolver == nil {
		resolver = logo.None{}
	}
	if badge.Text == "" {
		badge = DefaultBadge()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Compositor{resolver: resolver, badge: badge, logger: logger}
}

// Composite copies src into a color buffer and paints the badge over its center.
// It never fails: an unavailable or unreadable logo degrades to the text badge.
func (c *Compositor) Composite(ctx context.Context, src image.Image) CompositionResult {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)

	fp := FootprintFor(b.Dx(), b.Dy())
	if fp.LogoSize < 1 {
		return CompositionResult{Image: dst, Source: NoLogo}
	}

	dc := gg.NewContextForRGBA(dst)
	badge := fp.Bounds()
	dc.DrawRectangle(float64(badge.Min.X), float64(badge.Min.Y), float64(badge.Dx()), float64(badge.Dy()))
	dc.Clip()

	radius := float64(badge.Dx()) / 2
	dc.DrawCircle(float64(badge.Min.X)+radius, float64(badge.Min.Y)+radius, radius)
	dc.SetColor(color.White)
	dc.Fill()

	img, source, err := c.loadLogo(ctx)
	if err == nil {
		scaled := imaging.Resize(ensureColor(img), fp.LogoSize, fp.LogoSize, imaging.CatmullRom)
		draw.Draw(dst, fp.Logo(), scaled, image.Point{}, draw.Over)
		c.logger.Debug("Logo composited",
			zap.String("source", source),
			zap.Int("logo_size", fp.LogoSize),
			zap.Int("logo_x", fp.LogoX),
			zap.Int("logo_y", fp.LogoY),
		)
		return CompositionResult{Image: dst, Source: AssetLogo}
	}

	c.logger.Debug("Logo unavailable, drawing text badge", zap.Error(err))
	if err := c.drawText(dc, fp); err != nil {
		c.logger.Warn("Text badge could not be drawn", zap.Error(err))
	}
	return CompositionResult{Image: dst, Source: TextFallback}
}

func (c *Compositor) loadLogo(ctx context.Context) (image.Image, string, error) {
	asset, err := c.resolver.Resolve(ctx)
	if err != nil {
		return nil, "", err
	}
	img, err := imaging.Decode(bytes.NewReader(asset.Data))
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", asset.Source, err)
	}
	if img.Bounds().Empty() {
		return nil, "", fmt.Errorf("decode %s: empty image", asset.Source)
	}
	return img, asset.Source, nil
}

// drawText centers the badge text in the logo footprint.
func (c *Compositor) drawText(dc *gg.Context, fp Footprint) error {
	size := float64(max(fp.LogoSize/3, MinFontSize))
	face, err := BoldFace(size)
	if err != nil {
		return err
	}
	defer face.Close()

	dc.SetFontFace(face)
	dc.SetColor(c.badge.Color)

	metrics := face.Metrics()
	textWidth, _ := dc.MeasureString(c.badge.Text)
	textHeight := float64(metrics.Height) / 64
	descent := float64(metrics.Descent) / 64

	x := float64(fp.LogoX) + (float64(fp.LogoSize)-textWidth)/2
	y := float64(fp.LogoY) + (float64(fp.LogoSize)+textHeight)/2 - descent
	dc.DrawString(c.badge.Text, x, y)
	return nil
}

// ensureColor returns img unchanged when it already carries color and alpha.
func ensureColor(img image.Image) image.Image {
	switch img.(type) {
	case *image.NRGBA, *image.RGBA:
		return img
	default:
		return imaging.Clone(img)
	}
}

var (
	boldOnce sync.Once
	boldFont *opentype.Font
	boldErr  error
)

// BoldFace returns a new Go Bold face of the given size. Faces are not safe for
// concurrent use; the parsed font is shared.
func BoldFace(size float64) (font.Face, error) {
	boldOnce.Do(func() {
		boldFont, boldErr = opentype.Parse(gobold.TTF)
	})
	if boldErr != nil {
		return nil, fmt.Errorf("parse bold font: %w", boldErr)
	}
	return opentype.NewFace(boldFont, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
