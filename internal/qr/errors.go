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
	"errors"
	"fmt"
)

// Validation sentinels. A *ValidationError matches exactly one of them with errors.Is.
var (
	ErrEmptyInput           = errors.New("text cannot be empty")
	ErrTextTooLong          = errors.New("text is too long")
	ErrNonPositiveDimension = errors.New("width and height must be positive integers")
	ErrDimensionTooLarge    = errors.New("width or height is too large")
)

// ErrSymbolTooLarge is returned when the encoded symbol plus margin does not fit the target size.
var ErrSymbolTooLarge = errors.New("QR symbol does not fit the requested dimensions")

// ValidationError reports a caller input fault. It is never retried.
type ValidationError struct {
	Kind   error
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Detail)
}

func (e *ValidationError) Unwrap() error { return e.Kind }

// EncodingError reports a failure while producing the matrix or the raster bytes.
type EncodingError struct {
	Stage string
	Err   error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("failed to encode QR code (%s): %v", e.Stage, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// DocumentError reports a failure while assembling the document container.
type DocumentError struct {
	Err error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("failed to assemble document: %v", e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }

// IsClientError reports whether err was caused by invalid caller input.
func IsClientError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
