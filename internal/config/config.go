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

// Package config provides configuration management for the branded QR service.
// It loads configuration from an optional .env file and environment variables with sensible defaults.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment variables.
// It is built once at process start and never mutated afterwards.
type Config struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`

	DefaultWidth  int `env:"DEFAULT_WIDTH" envDefault:"300"`
	DefaultHeight int `env:"DEFAULT_HEIGHT" envDefault:"300"`
	MinSize       int `env:"MIN_SIZE" envDefault:"100"`
	MaxSize       int `env:"MAX_SIZE" envDefault:"2000"`
	MaxTextLength int `env:"MAX_TEXT_LENGTH" envDefault:"4000"`

	LogoPaths      []string `env:"LOGO_PATHS" envSeparator:"," envDefault:"static/images/kcare-logo.png,images/kcare-logo.png,kcare-logo.png"`
	LogoS3Bucket   string   `env:"LOGO_S3_BUCKET"`
	LogoS3Key      string   `env:"LOGO_S3_KEY" envDefault:"kcare-logo.png"`
	LogoS3Region   string   `env:"LOGO_S3_REGION" envDefault:"us-east-1"`
	LogoS3Endpoint string   `env:"LOGO_S3_ENDPOINT"`
	LogoS3KeyID    string   `env:"LOGO_S3_ACCESS_KEY_ID"`
	LogoS3Secret   string   `env:"LOGO_S3_SECRET_ACCESS_KEY"`
	LogoCache      bool     `env:"LOGO_CACHE" envDefault:"true"`

	BrandText  string `env:"BRAND_TEXT" envDefault:"KCare"`
	BrandColor string `env:"BRAND_COLOR" envDefault:"#0066CC"`

	RedisURL string        `env:"REDIS_URL"`
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"10m"`

	DebugEndpoints bool `env:"DEBUG_ENDPOINTS" envDefault:"false"`
}

// ErrInvalidConfig is returned when the loaded values are inconsistent.
var ErrInvalidConfig = errors.New("invalid configuration")

// LoadConfig reads the optional .env file and the environment and returns a validated Config.
func LoadConfig() (*Config, error) {
	// The .env file is optional in deployed environments.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks limits and the brand color.
func (c *Config) Validate() error {
	if c.MinSize <= 0 || c.MaxSize <= 0 || c.MaxTextLength <= 0 {
		return fmt.Errorf("%w: MIN_SIZE, MAX_SIZE and MAX_TEXT_LENGTH must be positive", ErrInvalidConfig)
	}
	if c.MinSize > c.MaxSize {
		return fmt.Errorf("%w: MIN_SIZE (%d) exceeds MAX_SIZE (%d)", ErrInvalidConfig, c.MinSize, c.MaxSize)
	}
	if c.DefaultWidth <= 0 || c.DefaultHeight <= 0 {
		return fmt.Errorf("%w: DEFAULT_WIDTH and DEFAULT_HEIGHT must be positive", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.BrandText) == "" {
		return fmt.Errorf("%w: BRAND_TEXT cannot be empty", ErrInvalidConfig)
	}
	if _, err := ParseHexColor(c.BrandColor); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Brand returns the parsed brand color. Validate guarantees it parses.
func (c *Config) Brand() color.RGBA {
	rgba, _ := ParseHexColor(c.BrandColor)
	return rgba
}

// ParseHexColor parses "#RRGGBB" (the leading # is optional) into an opaque color.
func ParseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("brand color %q must have the form #RRGGBB", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("brand color %q is not hexadecimal: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
