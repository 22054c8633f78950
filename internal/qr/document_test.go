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
	"encoding/binary"
	"hash/crc32"
	"image"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pageRe       = regexp.MustCompile(`/Type /Page\b`)
	widthRe      = regexp.MustCompile(`/Width (\d+)`)
	heightRe     = regexp.MustCompile(`/Height (\d+)`)
	lengthRe     = regexp.MustCompile(`/Length (\d+)`)
	colorSpaceRe = regexp.MustCompile(`/ColorSpace /Device(Gray|RGB)`)
)

// embeddedImage pulls the single image XObject out of a PDF. The stream holds the
// PNG's zlib data unchanged, so it is rewrapped as a PNG and decoded.
func embeddedImage(t *testing.T, pdf []byte) image.Image {
	t.Helper()

	start := bytes.Index(pdf, []byte("/Subtype /Image"))
	require.GreaterOrEqual(t, start, 0, "no image object")
	dict := pdf[start:]
	streamAt := bytes.Index(dict, []byte("stream\n"))
	require.Greater(t, streamAt, 0)
	header := dict[:streamAt]

	atoi := func(re *regexp.Regexp) int {
		m := re.FindSubmatch(header)
		require.NotNil(t, m, "missing %s", re)
		v, err := strconv.Atoi(string(m[1]))
		require.NoError(t, err)
		return v
	}
	w, h, n := atoi(widthRe), atoi(heightRe), atoi(lengthRe)

	cs := colorSpaceRe.FindSubmatch(header)
	require.NotNil(t, cs)
	colorType := byte(0)
	if string(cs[1]) == "RGB" {
		colorType = 2
	}

	data := dict[streamAt+len("stream\n"):]
	require.GreaterOrEqual(t, len(data), n)
	data = data[:n]

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], uint32(w))
	binary.BigEndian.PutUint32(ihdr[4:], uint32(h))
	ihdr[8] = 8
	ihdr[9] = colorType

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	writeChunk(&buf, "IHDR", ihdr)
	writeChunk(&buf, "IDAT", data)
	writeChunk(&buf, "IEND", nil)
	return decodePNG(t, buf.Bytes())
}

func writeChunk(buf *bytes.Buffer, typ string, data []byte) {
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(data)))
	buf.Write(n[:])
	crc := crc32.NewIEEE()
	crc.Write([]byte(typ))
	crc.Write(data)
	buf.WriteString(typ)
	buf.Write(data)
	binary.BigEndian.PutUint32(n[:], crc.Sum32())
	buf.Write(n[:])
}

func TestGenerateDocument(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	for _, tt := range []struct {
		name string
		logo bool
		w, h int
	}{
		{name: "plain", w: 300, h: 300},
		{name: "with logo", logo: true, w: 300, h: 300},
		{name: "clamped", w: 10, h: 10},
		{name: "large", w: 1500, h: 900},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			doc, err := svc.GenerateDocumentWithLogo(ctx, sampleText, tt.w, tt.h, tt.logo)
			require.NoError(t, err)
			require.True(t, bytes.HasPrefix(doc, []byte("%PDF-")))
			assert.Len(t, pageRe.FindAll(doc, -1), 1)

			png, err := svc.GenerateImageWithLogo(ctx, sampleText, tt.w, tt.h, tt.logo)
			require.NoError(t, err)
			want := decodePNG(t, png)
			got := embeddedImage(t, doc)
			sameImage(t, want, got)
			if !tt.logo {
				assert.Equal(t, sampleText, decodeQR(t, got))
			}
		})
	}
}

func TestGenerateDocumentWithoutLogoMatchesPlain(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	doc, err := svc.GenerateDocumentWithLogo(ctx, sampleText, 300, 300, false)
	require.NoError(t, err)
	png, err := svc.GenerateImage(ctx, sampleText, 300, 300)
	require.NoError(t, err)
	sameImage(t, decodePNG(t, png), embeddedImage(t, doc))
}
