package services

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rohits-web03/filebridge/internal/apperr"
	"github.com/rohits-web03/filebridge/internal/models"
)

type memStore struct {
	mu         sync.Mutex
	bucket     string
	objects    map[string][]byte
	types      map[string]string
	putErr     error
	deleteErr  error
	presignErr error
	deletes    []string
}

func newMemStore() *memStore {
	return &memStore{
		bucket:  "files",
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func (s *memStore) Bucket() string { return s.bucket }

func (s *memStore) Put(_ context.Context, key string, body io.ReadSeeker, _ int64, contentType string) error {
	if s.putErr != nil {
		return s.putErr
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = b
	s.types[key] = contentType
	return nil
}

func (s *memStore) Presign(_ context.Context, key string, ttl time.Duration) (string, error) {
	if s.presignErr != nil {
		return "", s.presignErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return "", apperr.New(apperr.KindNotFound, "Object not found", nil)
	}
	return "https://s3.test/" + s.bucket + "/" + key + "?X-Amz-Expires=" + ttl.String(), nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, key)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.objects, key)
	return nil
}

func (s *memStore) List(_ context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	for k := range s.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *memStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok
}

type memFiles struct {
	mu        sync.Mutex
	records   map[uuid.UUID]models.FileRecord
	createErr error
	deleteErr error
	// vanish makes DeleteByID report that nothing matched, as when a
	// concurrent request removed the row first.
	vanish bool
}

func newMemFiles() *memFiles {
	return &memFiles{records: make(map[uuid.UUID]models.FileRecord)}
}

func (f *memFiles) Create(_ context.Context, rec *models.FileRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.UploadedDate.IsZero() {
		rec.UploadedDate = time.Now().UTC()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[rec.ID] = *rec
	return nil
}

func (f *memFiles) FindByID(_ context.Context, id uuid.UUID) (*models.FileRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "File not found", nil)
	}
	return &rec, nil
}

func (f *memFiles) ListByBucket(_ context.Context, bucket string) ([]models.FileRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.FileRecord
	for _, r := range f.records {
		if r.Bucket == bucket {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *memFiles) DeleteByID(_ context.Context, id uuid.UUID) (bool, error) {
	if f.deleteErr != nil {
		return false, f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.vanish {
		delete(f.records, id)
		return false, nil
	}
	_, ok := f.records[id]
	delete(f.records, id)
	return ok, nil
}

type queued struct {
	bucket, key, reason string
}

type memQueue struct {
	mu    sync.Mutex
	items []queued
	err   error
}

func (q *memQueue) Enqueue(_ context.Context, bucket, key, reason string, _ error) error {
	if q.err != nil {
		return q.err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, queued{bucket: bucket, key: key, reason: reason})
	return nil
}
