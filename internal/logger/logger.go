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

// Package logger provides centralized logging configuration for the branded QR service.
package logger

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger is the process-wide logger. It is a no-op logger until InitLogger runs.
	Logger = zap.NewNop()

	initOnce sync.Once
	level    = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	levelMap = map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"info":  zapcore.InfoLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
	}
)

// InitLogger initializes and returns a logger based on LOG_ENV (dev/prod) and LOG_LEVEL (debug/info/warn/error).
func InitLogger() *zap.Logger {
	initOnce.Do(func() {
		logEnv := os.Getenv("LOG_ENV")
		level.SetLevel(getLogLevelFromEnv())

		var cfg zap.Config
		if logEnv == "prod" {
			// Production environment: JSON output for structured log parsing
			cfg = zap.NewProductionConfig()
		} else {
			// Development environment: console output for human readability
			cfg = zap.NewDevelopmentConfig()
		}
		cfg.Level = level
		cfg.OutputPaths = []string{"stdout"}

		l, err := cfg.Build()
		if err != nil {
			l = zap.NewExample()
			l.Warn("Falling back to example logger", zap.Error(err))
		}
		Logger = l
		Logger.Info("Logger initialized",
			zap.String("LOG_ENV", logEnv),
			zap.String("LOG_LEVEL", level.Level().String()),
		)
	})
	return Logger
}

// SetLevel changes the level of the process-wide logger at runtime.
func SetLevel(l zapcore.Level) {
	level.SetLevel(l)
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = Logger.Sync()
}

// getLogLevelFromEnv parses LOG_LEVEL env var (debug/info/warn/error), defaults to info.
func getLogLevelFromEnv() zapcore.Level {
	levelStr := strings.ToLower(os.Getenv("LOG_LEVEL"))
	if lvl, ok := levelMap[levelStr]; ok {
		return lvl
	}
	return zapcore.InfoLevel
}
