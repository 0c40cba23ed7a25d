package testutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/johannesboyne/gofakes3"
	"github.com/johannesboyne/gofakes3/backend/s3mem"
	"github.com/rohits-web03/filebridge/internal/config"
)

const s3ErrorBody = `<?xml version="1.0" encoding="UTF-8"?>
<Error><Code>%s</Code><Message>%s</Message></Error>`

// FakeS3 is an in-memory S3 endpoint served by gofakes3. Requests to Server
// pass through a handler that counts them and can answer with injected
// failures; the seeding helpers talk to the fake directly.
type FakeS3 struct {
	Server *httptest.Server
	Bucket string

	t      testing.TB
	direct *s3.Client

	mu       sync.Mutex
	failures map[string]int // method -> status code to answer with
	calls    map[string]int
}

func NewFakeS3(t testing.TB, bucket string) *FakeS3 {
	t.Helper()
	backend := s3mem.New()
	if err := backend.CreateBucket(bucket); err != nil {
		t.Fatalf("create fake bucket: %v", err)
	}
	handler := gofakes3.New(backend).Server()

	f := &FakeS3{
		Bucket:   bucket,
		t:        t,
		failures: make(map[string]int),
		calls:    make(map[string]int),
	}
	f.Server = httptest.NewServer(f.inject(handler))
	t.Cleanup(f.Server.Close)

	direct := httptest.NewServer(handler)
	t.Cleanup(direct.Close)
	f.direct = s3.New(s3.Options{
		Region:                     "us-east-1",
		BaseEndpoint:               aws.String(direct.URL),
		UsePathStyle:               true,
		Credentials:                credentials.NewStaticCredentialsProvider("test-access-key", "test-secret-key", ""),
		RequestChecksumCalculation: aws.RequestChecksumCalculationWhenRequired,
		ResponseChecksumValidation: aws.ResponseChecksumValidationWhenRequired,
	})
	return f
}

// Config returns gateway settings pointing at the fake.
func (f *FakeS3) Config() config.S3Config {
	return config.S3Config{
		AccessKeyID:     "test-access-key",
		SecretAccessKey: "test-secret-key",
		Region:          "us-east-1",
		BucketName:      f.Bucket,
		Endpoint:        f.Server.URL,
		UsePathStyle:    true,
		Timeout:         5 * time.Second,
	}
}

// FailNext makes every request with method answer with status until
// Recover is called.
func (f *FakeS3) FailNext(method string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method] = status
}

func (f *FakeS3) Recover(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failures, method)
}

// Calls reports how many requests with method reached Server.
func (f *FakeS3) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *FakeS3) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.calls[r.Method]++
		status, failing := f.failures[r.Method]
		f.mu.Unlock()

		if !failing {
			next.ServeHTTP(w, r)
			return
		}
		if r.Method == http.MethodHead {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(status)
		_, _ = fmt.Fprintf(w, s3ErrorBody, "InternalError", "injected failure")
	})
}

// Object returns the stored body and content type for key.
func (f *FakeS3) Object(key string) ([]byte, string, bool) {
	out, err := f.direct.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(f.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var missing *types.NoSuchKey
		if !errors.As(err, &missing) {
			f.t.Errorf("read fake object %q: %v", key, err)
		}
		return nil, "", false
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		f.t.Errorf("read fake object %q: %v", key, err)
		return nil, "", false
	}
	return body, aws.ToString(out.ContentType), true
}

// PutObject seeds an object directly.
func (f *FakeS3) PutObject(key string, body []byte, contentType string) {
	_, err := f.direct.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket:      aws.String(f.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		f.t.Fatalf("seed fake object %q: %v", key, err)
	}
}

// RemoveObject drops an object behind the gateway's back.
func (f *FakeS3) RemoveObject(key string) {
	_, err := f.direct.DeleteObject(context.Background(), &s3.DeleteObjectInput{
		Bucket: aws.String(f.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		f.t.Fatalf("remove fake object %q: %v", key, err)
	}
}

func (f *FakeS3) Keys() []string {
	keys := []string{}
	pages := s3.NewListObjectsV2Paginator(f.direct, &s3.ListObjectsV2Input{Bucket: aws.String(f.Bucket)})
	for pages.HasMorePages() {
		page, err := pages.NextPage(context.Background())
		if err != nil {
			f.t.Fatalf("list fake objects: %v", err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	sort.Strings(keys)
	return keys
}
