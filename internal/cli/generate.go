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

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wso2-open-operations/common-tools/operations/branded-qr/internal/qr"
)

const (
	defaultSize = 300
	fileMode    = 0o644
)

// generateOpts holds the flags shared by the png and pdf commands.
type generateOpts struct {
	text   string
	width  int
	height int
	logo   bool
	output string
}

func newGenerateCmd(kind qr.OutputKind) *cobra.Command {
	ext := extension(kind)
	opts := generateOpts{
		width:  defaultSize,
		height: defaultSize,
		output: "qrcode." + ext,
	}

	cmd := &cobra.Command{
		Use:   ext,
		Short: fmt.Sprintf("Render a QR code to a %s file", ext),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := envFromContext(cmd.Context())
			if err != nil {
				return err
			}
			out, err := e.svc.Generate(cmd.Context(), qr.Request{
				Text:        opts.text,
				Width:       opts.width,
				Height:      opts.height,
				IncludeLogo: opts.logo,
				Kind:        kind,
			})
			if err != nil {
				return err
			}
			if err := os.WriteFile(opts.output, out, fileMode); err != nil {
				return fmt.Errorf("failed to write %s: %w", opts.output, err)
			}
			e.log.Debug("QR code written", zap.String("path", opts.output), zap.Int("size_bytes", len(out)))
			fmt.Fprintf(e.out, "wrote %s (%d bytes)\n", opts.output, len(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.text, "text", "t", "", "text to encode")
	cmd.Flags().IntVar(&opts.width, "width", opts.width, "output width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", opts.height, "output height in pixels")
	cmd.Flags().BoolVar(&opts.logo, "logo", false, "overlay the brand logo")
	cmd.Flags().StringVarP(&opts.output, "out", "o", opts.output, "output file")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func extension(kind qr.OutputKind) string {
	if kind == qr.Document {
		return "pdf"
	}
	return "png"
}
