package publish

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/df07/go-weekend-raytracer/pkg/config"
)

// fakePutter records uploads instead of talking to S3
type fakePutter struct {
	inputs  []*s3.PutObjectInput
	bodies  [][]byte
	sawDeadline bool
	err     error
}

func (f *fakePutter) PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error) {
	if _, ok := ctx.Deadline(); ok {
		f.sawDeadline = true
	}
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.inputs = append(f.inputs, input)
	f.bodies = append(f.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

func TestKey(t *testing.T) {
	tests := []struct {
		prefix   string
		scene    string
		file     string
		expected string
	}{
		{"renders", "cover", "output/cover.png", "renders/cover/cover.png"},
		{"/renders/", "cover", "cover.ppm", "renders/cover/cover.ppm"},
		{"", "single-sphere", "/tmp/x/single-sphere.jpg", "single-sphere/single-sphere.jpg"},
	}

	for _, tt := range tests {
		p := NewS3PublisherWithClient(&fakePutter{}, "bucket", tt.prefix, nil)
		if got := p.Key(tt.scene, tt.file); got != tt.expected {
			t.Errorf("Key(%q, %q) with prefix %q = %q, want %q", tt.scene, tt.file, tt.prefix, got, tt.expected)
		}
	}
}

func TestUploadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cover.png")
	if err := os.WriteFile(path, []byte("png-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	fake := &fakePutter{}
	p := NewS3PublisherWithClient(fake, "my-bucket", "renders", nil)

	key, err := p.UploadFile(context.Background(), "cover", path)
	if err != nil {
		t.Fatalf("UploadFile failed: %v", err)
	}
	if key != "renders/cover/cover.png" {
		t.Errorf("Unexpected key %q", key)
	}
	if len(fake.inputs) != 1 {
		t.Fatalf("Expected one upload, got %d", len(fake.inputs))
	}

	input := fake.inputs[0]
	if aws.StringValue(input.Bucket) != "my-bucket" || aws.StringValue(input.Key) != key {
		t.Errorf("Unexpected destination %s/%s", aws.StringValue(input.Bucket), aws.StringValue(input.Key))
	}
	if aws.StringValue(input.ContentType) != "image/png" {
		t.Errorf("Unexpected content type %q", aws.StringValue(input.ContentType))
	}
	if aws.Int64Value(input.ContentLength) != 9 || string(fake.bodies[0]) != "png-bytes" {
		t.Errorf("Unexpected body %q (length %d)", fake.bodies[0], aws.Int64Value(input.ContentLength))
	}
	if !fake.sawDeadline {
		t.Error("Upload should run under a timeout")
	}
}

func TestUploadErrors(t *testing.T) {
	p := NewS3PublisherWithClient(&fakePutter{err: errors.New("access denied")}, "b", "", nil)

	if _, err := p.UploadFile(context.Background(), "cover", filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Expected error for missing file")
	}

	err := p.Upload(context.Background(), "k", []byte("x"), "image/png")
	if err == nil || !errors.Is(err, p.client.(*fakePutter).err) {
		t.Errorf("Expected wrapped client error, got %v", err)
	}
}

func TestNewS3PublisherRequiresBucket(t *testing.T) {
	if _, err := NewS3Publisher(config.S3Config{Region: "us-east-1"}, nil); err == nil {
		t.Error("Expected error without bucket")
	}

	// Session creation is local; no request is made here
	p, err := NewS3Publisher(config.S3Config{
		Bucket:    "b",
		Region:    "us-east-1",
		Endpoint:  "http://localhost:9000",
		AccessKey: "key",
		SecretKey: "secret",
		Prefix:    "renders",
	}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if p.Key("cover", "cover.png") != "renders/cover/cover.png" {
		t.Errorf("Unexpected key %q", p.Key("cover", "cover.png"))
	}
}
