// Package awsutil loads AWS configuration shared by the S3, SQS and DynamoDB clients.
package awsutil

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
)

// Load returns the default AWS config for region. When endpoint is set (e.g.
// http://localstack:4566) every client built from the config talks to it.
func Load(ctx context.Context, region, endpoint string) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if region = strings.TrimSpace(region); region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	if endpoint = strings.TrimSpace(endpoint); endpoint != "" {
		opts = append(opts, awsconfig.WithBaseEndpoint(endpoint))
	}
	return awsconfig.LoadDefaultConfig(ctx, opts...)
}

// UsesCustomEndpoint reports whether cfg was loaded with an endpoint override.
// S3 clients need path-style addressing in that case.
func UsesCustomEndpoint(cfg aws.Config) bool {
	return cfg.BaseEndpoint != nil && *cfg.BaseEndpoint != ""
}
