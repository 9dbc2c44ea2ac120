package awsutil

import (
	"context"
	"testing"
)

func TestLoadAppliesEndpointOverride(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	cfg, err := Load(context.Background(), "eu-west-1", "http://localhost:4566")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Region != "eu-west-1" {
		t.Fatalf("expected region eu-west-1, got %q", cfg.Region)
	}
	if !UsesCustomEndpoint(cfg) || *cfg.BaseEndpoint != "http://localhost:4566" {
		t.Fatalf("expected base endpoint override, got %v", cfg.BaseEndpoint)
	}
}

func TestLoadWithoutEndpoint(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	t.Setenv("AWS_ENDPOINT_URL", "")

	cfg, err := Load(context.Background(), "us-east-1", "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if UsesCustomEndpoint(cfg) {
		t.Fatalf("expected no endpoint override")
	}
}
