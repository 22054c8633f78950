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
	"image"
	"image/color"
)

var (
	light = color.Gray{Y: 0xff}
	dark  = color.Gray{Y: 0x00}
)

// Render paints every dark module as one black pixel on a white background.
// Cells map 1:1 to pixels; no interpolation is applied.
func Render(m *BitMatrix) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Width(), m.Height()))
	for i := range img.Pix {
		img.Pix[i] = light.Y
	}
	for y := 0; y < m.Height(); y++ {
		row := y * img.Stride
		for x := 0; x < m.Width(); x++ {
			if m.At(x, y) {
				img.Pix[row+x] = dark.Y
			}
		}
	}
	return img
}
