package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type recordingPutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (p *recordingPutter) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	p.input = in
	p.body, _ = io.ReadAll(in.Body)
	if p.err != nil {
		return nil, p.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestPutUploadsToBucket(t *testing.T) {
	rec := &recordingPutter{}
	a := &S3Archive{client: rec, bucket: "slips"}

	if err := a.Put(context.Background(), "salary-slips/HT-1/2025-05.pdf", []byte("%PDF-1.3"), "application/pdf"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if *rec.input.Bucket != "slips" || *rec.input.Key != "salary-slips/HT-1/2025-05.pdf" || *rec.input.ContentType != "application/pdf" {
		t.Errorf("input = %+v", rec.input)
	}
	if string(rec.body) != "%PDF-1.3" {
		t.Errorf("body = %q", rec.body)
	}
}

func TestPutWrapsErrors(t *testing.T) {
	cause := errors.New("access denied")
	a := &S3Archive{client: &recordingPutter{err: cause}, bucket: "slips"}

	err := a.Put(context.Background(), "k", nil, "application/pdf")
	if !errors.Is(err, cause) {
		t.Errorf("err = %v, want wrapped cause", err)
	}
}

func TestNewS3ArchiveRequiresBucket(t *testing.T) {
	if _, err := NewS3Archive(context.Background(), Options{AccessKey: "a", SecretKey: "b"}); err == nil {
		t.Fatal("expected error without bucket")
	}
}
