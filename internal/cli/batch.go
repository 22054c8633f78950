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
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wso2-open-operations/common-tools/operations/branded-qr/internal/qr"
)

const defaultConcurrency = 4

type batchOpts struct {
	input       string
	outDir      string
	format      string
	width       int
	height      int
	logo        bool
	concurrency int
}

// newBatchCmd renders one code per non-empty input line. The first failure cancels the rest.
func newBatchCmd() *cobra.Command {
	opts := batchOpts{
		outDir:      ".",
		format:      "png",
		width:       defaultSize,
		height:      defaultSize,
		concurrency: defaultConcurrency,
	}

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Render a QR code for every line of a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := envFromContext(cmd.Context())
			if err != nil {
				return err
			}
			kind, err := parseFormat(opts.format)
			if err != nil {
				return err
			}

			f, err := os.Open(opts.input)
			if err != nil {
				return fmt.Errorf("failed to open input: %w", err)
			}
			defer f.Close()

			lines, err := readLines(f)
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}

			n, err := runBatch(cmd.Context(), e.svc, e.log, lines, kind, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "wrote %d files to %s\n", n, opts.outDir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "file with one text per line")
	cmd.Flags().StringVarP(&opts.outDir, "out-dir", "o", opts.outDir, "output directory")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: png or pdf")
	cmd.Flags().IntVar(&opts.width, "width", opts.width, "output width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", opts.height, "output height in pixels")
	cmd.Flags().BoolVar(&opts.logo, "logo", false, "overlay the brand logo")
	cmd.Flags().IntVarP(&opts.concurrency, "concurrency", "c", opts.concurrency, "number of parallel renders")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func parseFormat(s string) (qr.OutputKind, error) {
	switch strings.ToLower(s) {
	case "png":
		return qr.Image, nil
	case "pdf":
		return qr.Document, nil
	default:
		return 0, fmt.Errorf("unsupported format %q (want png or pdf)", s)
	}
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}

func runBatch(ctx context.Context, svc qr.Service, log *zap.Logger, lines []string, kind qr.OutputKind, opts batchOpts) (int, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.concurrency, 1))

	var written atomic.Int64
	for i, text := range lines {
		g.Go(func() error {
			out, err := svc.Generate(ctx, qr.Request{
				Text:        text,
				Width:       opts.width,
				Height:      opts.height,
				IncludeLogo: opts.logo,
				Kind:        kind,
			})
			if err != nil {
				return fmt.Errorf("line %d: %w", i+1, err)
			}
			path := filepath.Join(opts.outDir, fmt.Sprintf("qrcode-%04d.%s", i+1, extension(kind)))
			if err := os.WriteFile(path, out, fileMode); err != nil {
				return fmt.Errorf("line %d: failed to write %s: %w", i+1, path, err)
			}
			written.Add(1)
			log.Debug("QR code written", zap.Int("line", i+1), zap.String("path", path))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(written.Load()), err
	}
	return int(written.Load()), nil
}
