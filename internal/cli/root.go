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

// Package cli implements the qrgen command-line tool.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wso2-open-operations/common-tools/operations/branded-qr/internal/app"
	"github.com/wso2-open-operations/common-tools/operations/branded-qr/internal/config"
	"github.com/wso2-open-operations/common-tools/operations/branded-qr/internal/logger"
	"github.com/wso2-open-operations/common-tools/operations/branded-qr/internal/qr"
)

var version = "dev"

// SetVersion sets the version displayed by --version.
func SetVersion(v string) {
	version = v
}

type ctxKey struct{}

// env is what every subcommand needs once flags are parsed.
type env struct {
	svc qr.Service
	log *zap.Logger
	out io.Writer
}

func envFromContext(ctx context.Context) (*env, error) {
	e, ok := ctx.Value(ctxKey{}).(*env)
	if !ok {
		return nil, errors.New("command environment not initialized")
	}
	return e, nil
}

// Execute runs the qrgen command tree.
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}

// NewRootCmd builds the command tree. The pipeline is assembled from the environment
// the same way the HTTP service does it, without the output cache.
func NewRootCmd() *cobra.Command {
	var (
		verbose bool
		a       *app.App
	)

	root := &cobra.Command{
		Use:          "qrgen",
		Short:        "qrgen renders branded QR codes to PNG and PDF files",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log := logger.InitLogger()
			if verbose {
				logger.SetLevel(zapcore.DebugLevel)
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			a, err = app.New(cmd.Context(), cfg, log, app.Options{})
			if err != nil {
				return fmt.Errorf("failed to initialize pipeline: %w", err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), ctxKey{}, &env{
				svc: a.Service,
				log: log,
				out: cmd.OutOrStdout(),
			}))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			defer logger.Sync()
			if a != nil {
				return a.Close()
			}
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newGenerateCmd(qr.Image))
	root.AddCommand(newGenerateCmd(qr.Document))
	root.AddCommand(newBatchCmd())
	return root
}
