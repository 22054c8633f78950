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

// Package qr provides the QR code composition pipeline: validation, matrix rendering,
// logo compositing, PNG encoding and document embedding.
package qr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/wso2-open-operations/common-tools/operations/branded-qr/internal/document"
)

// OutputKind selects the final byte format.
type OutputKind int

const (
	Image OutputKind = iota
	Document
)

func (k OutputKind) String() string {
	if k == Document {
		return "document"
	}
	return "image"
}

// ContentType returns the MIME type of the output.
func (k OutputKind) ContentType() string {
	if k == Document {
		return "application/pdf"
	}
	return "image/png"
}

// Request is one pipeline invocation. Width and Height are clamped by validation.
type Request struct {
	Text        string
	Width       int
	Height      int
	IncludeLogo bool
	Kind        OutputKind
}

// Service defines the business logic for branded QR codes.
type Service interface {
	Generate(ctx context.Context, req Request) ([]byte, error)
	GenerateImage(ctx context.Context, text string, width, height int) ([]byte, error)
	GenerateDocument(ctx context.Context, text string, width, height int) ([]byte, error)
	GenerateImageWithLogo(ctx context.Context, text string, width, height int, includeLogo bool) ([]byte, error)
	GenerateDocumentWithLogo(ctx context.Context, text string, width, height int, includeLogo bool) ([]byte, error)
}

type service struct {
	logger     *zap.Logger
	limits     Limits
	encoder    MatrixEncoder
	compositor *Compositor
	embedder   document.Embedder
}

// Option customizes a service at construction time.
type Option func(*service)

// WithMatrixEncoder replaces the default skip2-backed encoder.
func WithMatrixEncoder(e MatrixEncoder) Option {
	return func(s *service) { s.encoder = e }
}

// WithEmbedder replaces the default PDF embedder.
func WithEmbedder(e document.Embedder) Option {
	return func(s *service) { s.embedder = e }
}

// NewService creates a new QR code generation service instance.
func NewService(logger *zap.Logger, limits Limits, compositor *Compositor, opts ...Option) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if compositor == nil {
		compositor = NewCompositor(nil, DefaultBadge(), logger)
	}
	s := &service{
		logger:     logger,
		limits:     limits.withDefaults(),
		encoder:    NewMatrixEncoder(),
		compositor: compositor,
		embedder:   document.NewPDFEmbedder(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) GenerateImage(ctx context.Context, text string, width, height int) ([]byte, error) {
	return s.Generate(ctx, Request{Text: text, Width: width, Height: height, Kind: Image})
}

func (s *service) GenerateDocument(ctx context.Context, text string, width, height int) ([]byte, error) {
	return s.Generate(ctx, Request{Text: text, Width: width, Height: height, Kind: Document})
}

func (s *service) GenerateImageWithLogo(ctx context.Context, text string, width, height int, includeLogo bool) ([]byte, error) {
	return s.Generate(ctx, Request{Text: text, Width: width, Height: height, IncludeLogo: includeLogo, Kind: Image})
}

func (s *service) GenerateDocumentWithLogo(ctx context.Context, text string, width, height int, includeLogo bool) ([]byte, error) {
	return s.Generate(ctx, Request{Text: text, Width: width, Height: height, IncludeLogo: includeLogo, Kind: Document})
}

// Generate runs validate, encode, render, optional composite, PNG encode and optional embed.
// It returns either the complete byte stream or an error, never partial output.
func (s *service) Generate(ctx context.Context, req Request) ([]byte, error) {
	log := s.logger.With(
		zap.String("kind", req.Kind.String()),
		zap.Bool("include_logo", req.IncludeLogo),
	)
	log.Debug("Starting QR code generation",
		zap.Int("text_length", len(req.Text)),
		zap.Int("requested_width", req.Width),
		zap.Int("requested_height", req.Height),
	)

	valid, err := s.limits.Validate(req.Text, req.Width, req.Height)
	if err != nil {
		log.Warn("QR code request rejected", zap.Error(err))
		return nil, err
	}
	log.Debug("QR code request validated",
		zap.Int("width", valid.Width),
		zap.Int("height", valid.Height),
	)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matrix, err := s.encoder.Encode(valid.Text, valid.Width, valid.Height)
	if err != nil {
		log.Error("Failed to encode QR matrix",
			zap.Error(err),
			zap.String("text_preview", truncateString(valid.Text, 32)),
		)
		return nil, &EncodingError{Stage: "matrix", Err: err}
	}
	if matrix.Width() != valid.Width || matrix.Height() != valid.Height {
		return nil, &EncodingError{
			Stage: "matrix",
			Err: fmt.Errorf("encoder returned %dx%d, expected %dx%d",
				matrix.Width(), matrix.Height(), valid.Width, valid.Height),
		}
	}

	var img image.Image = Render(matrix)
	source := NoLogo
	if req.IncludeLogo {
		res := s.compositor.Composite(ctx, img)
		img, source = res.Image, res.Source
	}
	log.Debug("QR code rendered", zap.Stringer("logo_source", source))

	png, err := EncodePNG(img)
	if err != nil {
		log.Error("Failed to encode PNG", zap.Error(err))
		return nil, err
	}

	if req.Kind != Document {
		log.Info("QR code generated",
			zap.Int("width", valid.Width),
			zap.Int("height", valid.Height),
			zap.Stringer("logo_source", source),
			zap.Int("output_size_bytes", len(png)),
		)
		return png, nil
	}

	pdf, err := s.embedder.Embed(png, valid.Width, valid.Height)
	if err != nil {
		log.Error("Failed to assemble document", zap.Error(err), zap.Int("png_size_bytes", len(png)))
		var de *DocumentError
		if errors.As(err, &de) {
			return nil, err
		}
		return nil, &DocumentError{Err: err}
	}
	log.Info("QR code document generated",
		zap.Int("width", valid.Width),
		zap.Int("height", valid.Height),
		zap.Stringer("logo_source", source),
		zap.Int("png_size_bytes", len(png)),
		zap.Int("output_size_bytes", len(pdf)),
	)
	return pdf, nil
}

// truncateString truncates a string to maxLen runes for safe logging.
func truncateString(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen]) + "..."
}
