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

package logo

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

// maxLogoBytes caps how much of an object is read.
const maxLogoBytes = 8 << 20

// S3Client is the subset of the S3 API used by S3Resolver.
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3Config locates the logo object.
type S3Config struct {
	Bucket   string
	Key      string
	Region   string
	Endpoint string // Optional: for S3-compatible services such as MinIO

	// Static credentials. When empty the default AWS credential chain is used.
	AccessKeyID string
	SecretKey   string
}

// S3Resolver loads the logo from an S3 object.
type S3Resolver struct {
	client S3Client
	bucket string
	key    string
	logger *zap.Logger
}

// NewS3Resolver builds a resolver with a client configured from cfg.
func NewS3Resolver(ctx context.Context, cfg S3Config, logger *zap.Logger) (*S3Resolver, error) {
	if cfg.Bucket == "" || cfg.Key == "" || cfg.Region == "" {
		return nil, fmt.Errorf("s3 logo resolver requires bucket, key and region")
	}
	awsOptions := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
		awsOptions = append(awsOptions,
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretKey,
				"",
			)),
		)
	}
	awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3ResolverWithClient(client, cfg.Bucket, cfg.Key, logger), nil
}

// NewS3ResolverWithClient builds a resolver around a pre-configured client.
func NewS3ResolverWithClient(client S3Client, bucket, key string, logger *zap.Logger) *S3Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &S3Resolver{client: client, bucket: bucket, key: key, logger: logger}
}

func (r *S3Resolver) location() string {
	return fmt.Sprintf("s3://%s/%s", r.bucket, r.key)
}

// Resolve downloads and checks the object. Missing objects map to ErrNotFound.
func (r *S3Resolver) Resolve(ctx context.Context) (*Asset, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(r.key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, r.location())
		}
		r.logger.Warn("Failed to fetch logo object", zap.String("location", r.location()), zap.Error(err))
		return nil, fmt.Errorf("failed to fetch %s: %w", r.location(), err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, maxLogoBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.location(), err)
	}
	return NewAsset(r.location(), data)
}

// Probe reports whether the object exists and decodes.
func (r *S3Resolver) Probe(ctx context.Context) []ProbeResult {
	res := ProbeResult{Location: r.location()}
	if _, err := r.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(r.key),
	}); err != nil {
		if !isNotFound(err) {
			res.Error = err.Error()
		}
		return []ProbeResult{res}
	}
	res.Exists = true
	asset, err := r.Resolve(ctx)
	if err != nil {
		res.Error = err.Error()
		return []ProbeResult{res}
	}
	res.Loaded = true
	res.Width = asset.Width
	res.Height = asset.Height
	res.Format = asset.Format
	return []ProbeResult{res}
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "NoSuchBucket":
			return true
		}
	}
	return false
}
