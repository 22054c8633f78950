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
	"strings"
	"unicode/utf8"
)

// Default limits used when a Limits field is left zero.
const (
	DefaultMinSize       = 100
	DefaultMaxSize       = 2000
	DefaultMaxTextLength = 4000
)

// Limits bounds the accepted input. It is read-only after construction.
type Limits struct {
	MinSize       int
	MaxSize       int
	MaxTextLength int
}

// DefaultLimits returns the limits used by the original deployment.
func DefaultLimits() Limits {
	return Limits{
		MinSize:       DefaultMinSize,
		MaxSize:       DefaultMaxSize,
		MaxTextLength: DefaultMaxTextLength,
	}
}

func (l Limits) withDefaults() Limits {
	if l.MinSize <= 0 {
		l.MinSize = DefaultMinSize
	}
	if l.MaxSize <= 0 {
		l.MaxSize = DefaultMaxSize
	}
	if l.MaxTextLength <= 0 {
		l.MaxTextLength = DefaultMaxTextLength
	}
	return l
}

// Validate checks text and dimensions and returns a request with the dimensions clamped
// into [MinSize, MaxSize]. Rules are applied in order; the first failure wins.
func (l Limits) Validate(text string, width, height int) (Request, error) {
	l = l.withDefaults()

	if strings.TrimSpace(text) == "" {
		return Request{}, &ValidationError{Kind: ErrEmptyInput}
	}
	if n := utf8.RuneCountInString(text); n > l.MaxTextLength {
		return Request{}, &ValidationError{
			Kind:   ErrTextTooLong,
			Detail: fmt.Sprintf("length %d exceeds %d characters", n, l.MaxTextLength),
		}
	}
	if width <= 0 || height <= 0 {
		return Request{}, &ValidationError{
			Kind:   ErrNonPositiveDimension,
			Detail: fmt.Sprintf("got %dx%d", width, height),
		}
	}
	if width > l.MaxSize || height > l.MaxSize {
		return Request{}, &ValidationError{
			Kind:   ErrDimensionTooLarge,
			Detail: fmt.Sprintf("got %dx%d, limit is %d pixels", width, height, l.MaxSize),
		}
	}

	return Request{
		Text:   text,
		Width:  clamp(width, l.MinSize, l.MaxSize),
		Height: clamp(height, l.MinSize, l.MaxSize),
	}, nil
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
