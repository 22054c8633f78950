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

// Package diagnostics exposes operational checks of the logo setup. None of it is part
// of the generation pipeline; it only reuses the pipeline's building blocks.
package diagnostics

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"go.uber.org/zap"

	"github.com/wso2-open-operations/common-tools/operations/branded-qr/internal/logo"
	"github.com/wso2-open-operations/common-tools/operations/branded-qr/internal/qr"
)

var highlight = color.RGBA{R: 255, G: 255, B: 0, A: 255}

// LogoReport summarizes where the logo was looked for and what was found.
type LogoReport struct {
	Candidates []logo.ProbeResult `json:"candidates"`
	FoundPath  string             `json:"found_logo_path,omitempty"`
	Width      int                `json:"logo_width,omitempty"`
	Height     int                `json:"logo_height,omitempty"`
	Loaded     bool               `json:"logo_loaded"`
	Timestamp  int64              `json:"debug_timestamp"`
}

// SelfTestReport is the result of rendering a known payload with the logo.
type SelfTestReport struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Size      int    `json:"qrCodeSize,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// Diagnostics bundles the logo checks.
type Diagnostics struct {
	resolver logo.Resolver
	svc      qr.Service
	limits   qr.Limits
	encoder  qr.MatrixEncoder
	badge    qr.Badge
	logger   *zap.Logger
	now      func() time.Time
}

// New creates the diagnostics toolkit.
func New(resolver logo.Resolver, svc qr.Service, limits qr.Limits, badge qr.Badge, logger *zap.Logger) *Diagnostics {
	if resolver == nil {
		resolver = logo.None{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if badge.Text == "" {
		badge = qr.DefaultBadge()
	}
	return &Diagnostics{
		resolver: resolver,
		svc:      svc,
		limits:   limits,
		encoder:  qr.NewMatrixEncoder(),
		badge:    badge,
		logger:   logger,
		now:      time.Now,
	}
}

// LogoStatus probes every candidate location and reports the first loadable one.
func (d *Diagnostics) LogoStatus(ctx context.Context) LogoReport {
	report := LogoReport{Timestamp: d.now().UnixMilli()}
	if p, ok := d.resolver.(logo.Prober); ok {
		report.Candidates = p.Probe(ctx)
	}
	for _, c := range report.Candidates {
		if c.Loaded {
			report.FoundPath = c.Location
			report.Width = c.Width
			report.Height = c.Height
			report.Loaded = true
			break
		}
	}
	return report
}

// SelfTest renders "TEST" at 300x300 with the logo through the real service.
func (d *Diagnostics) SelfTest(ctx context.Context) SelfTestReport {
	report := SelfTestReport{Timestamp: d.now().UnixMilli()}
	b, err := d.svc.GenerateImageWithLogo(ctx, "TEST", 300, 300, true)
	if err != nil {
		d.logger.Error("Logo self test failed", zap.Error(err))
		report.Status = "error"
		report.Message = err.Error()
		report.Error = fmt.Sprintf("%T", err)
		return report
	}
	report.Status = "success"
	report.Message = "Logo test completed successfully"
	report.Size = len(b)
	return report
}

// ColorTest renders text through the regular logo pipeline so brand colors can be
// checked. An empty text defaults to the badge text followed by "Color Test".
func (d *Diagnostics) ColorTest(ctx context.Context, text string, width, height int) ([]byte, error) {
	if text == "" {
		text = d.badge.Text + " Color Test"
	}
	return d.svc.GenerateImageWithLogo(ctx, text, width, height, true)
}

// VisibleLogo renders a code with an oversized, highlighted badge so the logo placement can
// be checked by eye. The result is not meant to be scanned.
func (d *Diagnostics) VisibleLogo(ctx context.Context, text string, width, height int) ([]byte, error) {
	req, err := d.limits.Validate(text, width, height)
	if err != nil {
		return nil, err
	}
	matrix, err := d.encoder.Encode(req.Text, req.Width, req.Height)
	if err != nil {
		return nil, &qr.EncodingError{Stage: "matrix", Err: err}
	}
	gray := qr.Render(matrix)
	dst := image.NewRGBA(gray.Bounds())
	draw.Draw(dst, dst.Bounds(), gray, image.Point{}, draw.Src)

	size := min(req.Width, req.Height) / 3
	x := float64(req.Width-size) / 2
	y := float64(req.Height-size) / 2
	r := float64(size) / 2

	dc := gg.NewContextForRGBA(dst)
	dc.DrawCircle(x+r, y+r, r+10)
	dc.SetColor(highlight)
	dc.Fill()
	dc.DrawCircle(x+r, y+r, r)
	dc.SetColor(color.White)
	dc.Fill()
	dc.DrawCircle(x+r, y+r, r)
	dc.SetColor(color.Black)
	dc.SetLineWidth(3)
	dc.Stroke()

	if asset, err := d.resolver.Resolve(ctx); err == nil {
		if img, err := imaging.Decode(bytes.NewReader(asset.Data)); err == nil {
			scaled := imaging.Resize(img, size, size, imaging.CatmullRom)
			draw.Draw(dst, image.Rect(int(x), int(y), int(x)+size, int(y)+size), scaled, image.Point{}, draw.Over)
			return qr.EncodePNG(dst)
		}
	}

	face, err := qr.BoldFace(float64(max(size/3, qr.MinFontSize)))
	if err != nil {
		d.logger.Warn("Visible logo text skipped", zap.Error(err))
		return qr.EncodePNG(dst)
	}
	defer face.Close()
	dc.SetFontFace(face)
	dc.SetColor(d.badge.Color)
	dc.DrawStringAnchored(d.badge.Text, x+r, y+r, 0.5, 0.5)
	return qr.EncodePNG(dst)
}
