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
	"errors"
	"image"
	"image/color"
	"strings"
	"sync"
	"testing"

	"github.com/makiuchi-d/gozxing"
	zxqr "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wso2-open-operations/common-tools/operations/branded-qr/internal/qr"
)

// spyEncoder records calls and delegates to the real encoder.
type spyEncoder struct {
	mu    sync.Mutex
	calls int
	next  qr.MatrixEncoder
}

func (s *spyEncoder) Encode(text string, w, h int) (*qr.BitMatrix, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.next.Encode(text, w, h)
}

type failingEncoder struct{ err error }

func (f failingEncoder) Encode(string, int, int) (*qr.BitMatrix, error) { return nil, f.err }

type wrongSizeEncoder struct{}

func (wrongSizeEncoder) Encode(string, int, int) (*qr.BitMatrix, error) {
	return qr.NewBitMatrix(1, 1, []bool{true})
}

type failingEmbedder struct{}

func (failingEmbedder) Embed([]byte, int, int) ([]byte, error) {
	return nil, errors.New("disk full")
}

func newTestService(t *testing.T, opts ...qr.Option) qr.Service {
	t.Helper()
	red := color.NRGBA{R: 255, A: 255}
	c := qr.NewCompositor(assetResolver(t, solidPNG(t, red, 32, 32)), qr.DefaultBadge(), zap.NewNop())
	return qr.NewService(zap.NewNop(), qr.DefaultLimits(), c, opts...)
}

func decodeQR(t *testing.T, img image.Image) string {
	t.Helper()
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	require.NoError(t, err)
	res, err := zxqr.NewQRCodeReader().Decode(bmp, nil)
	require.NoError(t, err)
	return res.GetText()
}

func TestGenerateImage(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	t.Run("decodes back to the input", func(t *testing.T) {
		t.Parallel()
		out, err := svc.GenerateImage(ctx, sampleText, 300, 300)
		require.NoError(t, err)
		img := decodePNG(t, out)
		assert.Equal(t, image.Rect(0, 0, 300, 300), img.Bounds())
		assert.Equal(t, sampleText, decodeQR(t, img))
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()
		a, err := svc.GenerateImage(ctx, sampleText, 250, 250)
		require.NoError(t, err)
		b, err := svc.GenerateImage(ctx, sampleText, 250, 250)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(a, b))
	})

	t.Run("uses clamped dimensions", func(t *testing.T) {
		t.Parallel()
		out, err := svc.GenerateImage(ctx, sampleText, 1, 1)
		require.NoError(t, err)
		img := decodePNG(t, out)
		assert.Equal(t, image.Rect(0, 0, 100, 100), img.Bounds())
	})

	t.Run("non-square output", func(t *testing.T) {
		t.Parallel()
		out, err := svc.GenerateImage(ctx, sampleText, 500, 250)
		require.NoError(t, err)
		img := decodePNG(t, out)
		assert.Equal(t, image.Rect(0, 0, 500, 250), img.Bounds())
		assert.Equal(t, sampleText, decodeQR(t, img))
	})

	t.Run("is grayscale without a logo", func(t *testing.T) {
		t.Parallel()
		out, err := svc.GenerateImage(ctx, sampleText, 300, 300)
		require.NoError(t, err)
		_, ok := decodePNG(t, out).(*image.Gray)
		assert.True(t, ok)
	})
}

func TestGenerateImageWithLogo(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	withLogo, err := svc.GenerateImageWithLogo(ctx, sampleText, 300, 300, true)
	require.NoError(t, err)
	img := decodePNG(t, withLogo)
	assert.Equal(t, image.Rect(0, 0, 300, 300), img.Bounds())

	fp := qr.FootprintFor(300, 300)
	r, g, b := rgba(img.At(fp.LogoX+fp.LogoSize/2, fp.LogoY+fp.LogoSize/2))
	assert.Greater(t, r, uint8(240))
	assert.Less(t, g, uint8(15))
	assert.Less(t, b, uint8(15))

	t.Run("logo disabled equals the plain image", func(t *testing.T) {
		plain, err := svc.GenerateImage(ctx, sampleText, 300, 300)
		require.NoError(t, err)
		off, err := svc.GenerateImageWithLogo(ctx, sampleText, 300, 300, false)
		require.NoError(t, err)
		assert.Equal(t, plain, off)
	})

	t.Run("is idempotent", func(t *testing.T) {
		again, err := svc.GenerateImageWithLogo(ctx, sampleText, 300, 300, true)
		require.NoError(t, err)
		assert.Equal(t, withLogo, again)
	})
}

func TestLogoOutputStillDecodes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("brand mark logo", func(t *testing.T) {
		t.Parallel()
		c := qr.NewCompositor(assetResolver(t, brandMarkPNG(t, 64)), qr.DefaultBadge(), zap.NewNop())
		svc := qr.NewService(zap.NewNop(), qr.DefaultLimits(), c)
		out, err := svc.GenerateImageWithLogo(ctx, sampleText, 300, 300, true)
		require.NoError(t, err)
		assert.Equal(t, sampleText, decodeQR(t, decodePNG(t, out)))
	})

	t.Run("text badge", func(t *testing.T) {
		t.Parallel()
		svc := qr.NewService(zap.NewNop(), qr.DefaultLimits(), qr.NewCompositor(nil, qr.DefaultBadge(), zap.NewNop()))
		out, err := svc.GenerateImageWithLogo(ctx, sampleText, 300, 300, true)
		require.NoError(t, err)
		assert.Equal(t, sampleText, decodeQR(t, decodePNG(t, out)))
	})
}

func TestGenerateValidatesBeforeEncoding(t *testing.T) {
	t.Parallel()

	spy := &spyEncoder{next: qr.NewMatrixEncoder()}
	svc := newTestService(t, qr.WithMatrixEncoder(spy))
	ctx := context.Background()

	cases := []struct {
		text    string
		w, h    int
		wantErr error
	}{
		{"", 300, 300, qr.ErrEmptyInput},
		{"   ", 300, 300, qr.ErrEmptyInput},
		{strings.Repeat("a", 4001), 300, 300, qr.ErrTextTooLong},
		{"hello", 0, 300, qr.ErrNonPositiveDimension},
		{"hello", 300, 2001, qr.ErrDimensionTooLarge},
	}
	for _, c := range cases {
		out, err := svc.GenerateImage(ctx, c.text, c.w, c.h)
		assert.Nil(t, out)
		assert.ErrorIs(t, err, c.wantErr)
		assert.True(t, qr.IsClientError(err))

		out, err = svc.GenerateDocumentWithLogo(ctx, c.text, c.w, c.h, true)
		assert.Nil(t, out)
		assert.ErrorIs(t, err, c.wantErr)
	}
	assert.Zero(t, spy.calls)
}

func TestGenerateEncodingFailures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("encoder error", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		svc := newTestService(t, qr.WithMatrixEncoder(failingEncoder{err: boom}))
		out, err := svc.GenerateImage(ctx, "hello", 300, 300)
		assert.Nil(t, out)
		var encErr *qr.EncodingError
		require.ErrorAs(t, err, &encErr)
		assert.Equal(t, "matrix", encErr.Stage)
		assert.ErrorIs(t, err, boom)
		assert.False(t, qr.IsClientError(err))
	})

	t.Run("wrong matrix size", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, qr.WithMatrixEncoder(wrongSizeEncoder{}))
		_, err := svc.GenerateImage(ctx, "hello", 300, 300)
		var encErr *qr.EncodingError
		assert.ErrorAs(t, err, &encErr)
	})

	t.Run("symbol too large for the clamped size", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t)
		_, err := svc.GenerateImage(ctx, strings.Repeat("x", 1000), 100, 100)
		assert.ErrorIs(t, err, qr.ErrSymbolTooLarge)
		assert.False(t, qr.IsClientError(err))
	})

	t.Run("document failure", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t, qr.WithEmbedder(failingEmbedder{}))
		out, err := svc.GenerateDocument(ctx, "hello", 300, 300)
		assert.Nil(t, out)
		var docErr *qr.DocumentError
		assert.ErrorAs(t, err, &docErr)
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		svc := newTestService(t)
		_, err := svc.GenerateImage(cctx, "hello", 300, 300)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestGenerateConcurrent(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	want, err := svc.GenerateImageWithLogo(context.Background(), sampleText, 200, 200, true)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([][]byte, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := svc.GenerateImageWithLogo(context.Background(), sampleText, 200, 200, true)
			assert.NoError(t, err)
			results[i] = out
		}()
	}
	wg.Wait()
	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestOutputKind(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "image/png", qr.Image.ContentType())
	assert.Equal(t, "application/pdf", qr.Document.ContentType())
	assert.Equal(t, "image", qr.Image.String())
	assert.Equal(t, "document", qr.Document.String())
}
