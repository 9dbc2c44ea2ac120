package s3

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"docreview-backend/internal/shared/storage/object"
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "123-file.pdf", want: "123-file.pdf"},
		{name: "simple prefix", prefix: "root", key: "123-file.pdf", want: "root/123-file.pdf"},
		{name: "prefix trailing slash", prefix: "root/", key: "123-file.pdf", want: "root/123-file.pdf"},
		{name: "prefix and key slashes", prefix: "/root/", key: "/uploads/gateScorecard/a.pdf", want: "root/uploads/gateScorecard/a.pdf"},
		{name: "nested prefix", prefix: "root/sub", key: "123-file.pdf", want: "root/sub/123-file.pdf"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

type fakeS3 struct {
	objects map[string][]byte
	lastPut *s3.PutObjectInput
}

func newFakeS3() *fakeS3 { return &fakeS3{objects: map[string][]byte{}} }

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	f.lastPut = in
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(string(data)))}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestStoreRoundTripWithPrefix(t *testing.T) {
	fake := newFakeS3()
	store := NewWithClient(fake, Options{Bucket: "docs", Prefix: "review", Region: "us-east-1"})
	ctx := context.Background()

	n, err := store.Put(ctx, "1700-scorecard.pdf", "application/pdf", strings.NewReader("pdf-bytes"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if n != 9 {
		t.Fatalf("expected 9 bytes, got %d", n)
	}
	if _, ok := fake.objects["review/1700-scorecard.pdf"]; !ok {
		t.Fatalf("expected prefixed key, have %v", fake.objects)
	}
	if fake.lastPut.ServerSideEncryption != s3types.ServerSideEncryptionAes256 {
		t.Fatalf("expected AES256 encryption without kms key")
	}

	rc, err := store.Open(ctx, "1700-scorecard.pdf")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	rc.Close()

	if err := store.Delete(ctx, "1700-scorecard.pdf"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Open(ctx, "1700-scorecard.pdf"); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPutUsesKMSWhenConfigured(t *testing.T) {
	fake := newFakeS3()
	store := NewWithClient(fake, Options{Bucket: "docs", KMSKeyID: "kms-1"})
	if _, err := store.Put(context.Background(), "k", "", strings.NewReader("x")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if fake.lastPut.ServerSideEncryption != s3types.ServerSideEncryptionAwsKms || aws.ToString(fake.lastPut.SSEKMSKeyId) != "kms-1" {
		t.Fatalf("expected kms encryption, got %+v", fake.lastPut)
	}
}

func TestURL(t *testing.T) {
	store := NewWithClient(newFakeS3(), Options{Bucket: "docs", Region: "eu-west-1", Prefix: "p"})
	if got := store.URL("1 file.pdf"); got != "https://docs.s3.eu-west-1.amazonaws.com/p/1%20file.pdf" {
		t.Fatalf("unexpected url %s", got)
	}
	cdn := NewWithClient(newFakeS3(), Options{Bucket: "docs", PublicBaseURL: "https://cdn.example.com/"})
	if got := cdn.URL("a.pdf"); got != "https://cdn.example.com/a.pdf" {
		t.Fatalf("unexpected url %s", got)
	}
}

func TestPresignSignedHeadersExcludeContentLength(t *testing.T) {
	cfg := aws.Config{
		Region:      "us-east-1",
		Credentials: aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider("AKID", "SECRET", "")),
	}
	client := s3.NewFromConfig(cfg)
	store := NewWithClient(client, Options{Bucket: "bucket"})
	store.presign = s3.NewPresignClient(client)

	raw, err := store.PresignPut(context.Background(), "uploads/gateScorecard/file.pdf", "", 0)
	if err != nil {
		t.Fatalf("presign: %v", err)
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}

	signed := parsed.Query().Get("X-Amz-SignedHeaders")
	if signed == "" {
		t.Fatalf("expected X-Amz-SignedHeaders")
	}
	if strings.Contains(signed, "content-length") {
		t.Fatalf("unexpected content-length in signed headers: %s", signed)
	}
	if !strings.Contains(signed, "host") {
		t.Fatalf("expected host in signed headers: %s", signed)
	}
}

func TestPresignWithoutClientFails(t *testing.T) {
	store := NewWithClient(newFakeS3(), Options{Bucket: "b"})
	if _, err := store.PresignPut(context.Background(), "k", "", 0); err == nil {
		t.Fatalf("expected error without presign client")
	}
}
