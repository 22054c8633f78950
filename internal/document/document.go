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

// Package document wraps a rendered QR raster into a single-page PDF.
package document

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// Page geometry in points.
const (
	PageSize = "A4"
	Margin   = 36.0
)

const imageName = "qrcode"

// ErrEmptyImage is returned when Embed receives no image bytes.
var ErrEmptyImage = errors.New("image data is empty")

// Embedder places one PNG image on one page.
type Embedder interface {
	Embed(png []byte, fitWidth, fitHeight int) ([]byte, error)
}

// PDFEmbedder implements Embedder with fpdf.
type PDFEmbedder struct{}

// NewPDFEmbedder returns an A4 portrait embedder.
func NewPDFEmbedder() *PDFEmbedder {
	return &PDFEmbedder{}
}

// Placement is where the image lands on the page, in points.
type Placement struct {
	X, Y, Width, Height float64
}

// Fit scales an image of imgW x imgH to fit inside both the requested box and the
// usable page area, preserving aspect ratio, and centers it on the page.
func Fit(imgW, imgH, fitW, fitH, pageW, pageH, margin float64) Placement {
	boxW := min(fitW, pageW-2*margin)
	boxH := min(fitH, pageH-2*margin)
	scale := min(boxW/imgW, boxH/imgH)
	w := imgW * scale
	h := imgH * scale
	return Placement{
		X:      (pageW - w) / 2,
		Y:      (pageH - h) / 2,
		Width:  w,
		Height: h,
	}
}

// Embed builds the document. The fpdf handle is closed on every return path.
func (e *PDFEmbedder) Embed(png []byte, fitWidth, fitHeight int) ([]byte, error) {
	if len(png) == 0 {
		return nil, ErrEmptyImage
	}
	if fitWidth <= 0 || fitHeight <= 0 {
		return nil, fmt.Errorf("invalid fit box %dx%d", fitWidth, fitHeight)
	}

	pdf := fpdf.New("P", "pt", PageSize, "")
	defer pdf.Close()

	pdf.SetMargins(Margin, Margin, Margin)
	pdf.SetAutoPageBreak(false, Margin)
	pdf.SetCreator("branded-qr", true)
	pdf.AddPage()

	opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	info := pdf.RegisterImageOptionsReader(imageName, opts, bytes.NewReader(png))
	if pdf.Err() {
		return nil, fmt.Errorf("register image: %w", pdf.Error())
	}
	if info == nil || info.Width() <= 0 || info.Height() <= 0 {
		return nil, fmt.Errorf("register image: invalid image dimensions")
	}

	pageW, pageH := pdf.GetPageSize()
	p := Fit(info.Width(), info.Height(), float64(fitWidth), float64(fitHeight), pageW, pageH, Margin)
	pdf.ImageOptions(imageName, p.X, p.Y, p.Width, p.Height, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write document: %w", err)
	}
	return buf.Bytes(), nil
}
