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
	"fmt"

	"github.com/skip2/go-qrcode"
)

// DefaultMargin is the quiet zone, in modules, kept around the symbol.
const DefaultMargin = 2

// BitMatrix is an immutable grid of module states already scaled to pixel dimensions.
type BitMatrix struct {
	width  int
	height int
	bits   []bool
}

// NewBitMatrix builds a matrix from a row-major slice. It is used by encoders and tests.
func NewBitMatrix(width, height int, bits []bool) (*BitMatrix, error) {
	if width <= 0 || height <= 0 || len(bits) != width*height {
		return nil, fmt.Errorf("invalid matrix: %dx%d with %d cells", width, height, len(bits))
	}
	cp := make([]bool, len(bits))
	copy(cp, bits)
	return &BitMatrix{width: width, height: height, bits: cp}, nil
}

func (m *BitMatrix) Width() int  { return m.width }
func (m *BitMatrix) Height() int { return m.height }

// At reports whether the cell at (x, y) is a dark module. Out of range cells are light.
func (m *BitMatrix) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return false
	}
	return m.bits[y*m.width+x]
}

// MatrixEncoder turns text into a BitMatrix of exactly width x height cells.
type MatrixEncoder interface {
	Encode(text string, width, height int) (*BitMatrix, error)
}

type skipEncoder struct {
	level  qrcode.RecoveryLevel
	margin int
}

// NewMatrixEncoder returns an encoder with the highest recovery level, so that a centered
// badge can occlude modules without breaking decoding.
func NewMatrixEncoder() MatrixEncoder {
	return &skipEncoder{level: qrcode.Highest, margin: DefaultMargin}
}

// Encode builds the symbol and scales every module by the largest integer multiple that
// fits the target together with the margin, centering the result.
func (e *skipEncoder) Encode(text string, width, height int) (*BitMatrix, error) {
	code, err := qrcode.New(text, e.level)
	if err != nil {
		return nil, err
	}
	code.DisableBorder = true
	symbol := code.Bitmap()

	inputHeight := len(symbol)
	if inputHeight == 0 {
		return nil, fmt.Errorf("encoder returned an empty symbol")
	}
	inputWidth := len(symbol[0])

	qrWidth := inputWidth + e.margin*2
	qrHeight := inputHeight + e.margin*2
	if qrWidth > width || qrHeight > height {
		return nil, fmt.Errorf("%w: symbol needs %dx%d pixels, target is %dx%d",
			ErrSymbolTooLarge, qrWidth, qrHeight, width, height)
	}

	multiple := min(width/qrWidth, height/qrHeight)
	leftPadding := (width - inputWidth*multiple) / 2
	topPadding := (height - inputHeight*multiple) / 2

	bits := make([]bool, width*height)
	for inputY := 0; inputY < inputHeight; inputY++ {
		outputY := topPadding + inputY*multiple
		for inputX := 0; inputX < inputWidth; inputX++ {
			if !symbol[inputY][inputX] {
				continue
			}
			outputX := leftPadding + inputX*multiple
			for dy := 0; dy < multiple; dy++ {
				row := (outputY + dy) * width
				for dx := 0; dx < multiple; dx++ {
					bits[row+outputX+dx] = true
				}
			}
		}
	}

	return &BitMatrix{width: width, height: height, bits: bits}, nil
}
