package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

// OSSStore: backend Aliyun OSS.
type OSSStore struct {
	Bucket *oss.Bucket
}

func normalizeEndpoint(ep string) string {
	ep = strings.TrimSpace(ep)
	if ep == "" {
		return ep
	}
	if strings.HasPrefix(ep, "http://") || strings.HasPrefix(ep, "https://") {
		return ep
	}
	return "https://" + ep
}

func NewOSSStore(endpoint, accessKey, secretKey, bucketName string) (*OSSStore, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" || bucketName == "" {
		return nil, fmt.Errorf("ENV wajib: ALI_OSS_ENDPOINT, ALI_OSS_ACCESS_KEY, ALI_OSS_SECRET_KEY, ALI_OSS_BUCKET")
	}
	client, err := oss.New(normalizeEndpoint(endpoint), accessKey, secretKey)
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}
	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}
	return &OSSStore{Bucket: bucket}, nil
}

func isOSSNotFound(err error) bool {
	if e, ok := err.(oss.ServiceError); ok {
		return e.StatusCode == 404
	}
	return false
}

func (s *OSSStore) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	return s.Bucket.PutObject(key, r,
		oss.WithContext(ctx),
		oss.ContentType(contentType),
		oss.ContentDisposition("inline"),
	)
}

func (s *OSSStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	body, err := s.Bucket.GetObject(key, oss.WithContext(ctx))
	if isOSSNotFound(err) {
		return nil, ErrObjectNotFound
	}
	return body, err
}

func (s *OSSStore) Delete(ctx context.Context, key string) error {
	return s.Bucket.DeleteObject(key, oss.WithContext(ctx))
}

func (s *OSSStore) Exists(ctx context.Context, key string) (bool, error) {
	return s.Bucket.IsObjectExist(key, oss.WithContext(ctx))
}

func (s *OSSStore) MoveToTrash(ctx context.Context, key string) (string, error) {
	dstKey := TrashKey(key, time.Now().UTC())
	if _, err := s.Bucket.CopyObject(key, dstKey, oss.WithContext(ctx)); err != nil {
		if isOSSNotFound(err) {
			return "", ErrObjectNotFound
		}
		return "", fmt.Errorf("copy %q -> %q: %w", key, dstKey, err)
	}
	if err := s.Bucket.DeleteObject(key, oss.WithContext(ctx)); err != nil {
		return dstKey, fmt.Errorf("delete source %q: %w", key, err)
	}
	return dstKey, nil
}

func (s *OSSStore) PurgeTrash(ctx context.Context, cutoff time.Time, dryRun bool) (int, error) {
	marker := oss.Marker("")
	var keys []string
	for {
		lor, err := s.Bucket.ListObjects(oss.Prefix(TrashPrefix+"/"), marker, oss.MaxKeys(1000), oss.WithContext(ctx))
		if err != nil {
			return 0, err
		}
		for _, obj := range lor.Objects {
			if obj.Key != "" && obj.LastModified.Before(cutoff) {
				keys = append(keys, obj.Key)
			}
		}
		if !lor.IsTruncated {
			break
		}
		marker = oss.Marker(lor.NextMarker)
	}
	if dryRun || len(keys) == 0 {
		return len(keys), nil
	}

	deleted := 0
	for i := 0; i < len(keys); i += 1000 {
		end := i + 1000
		if end > len(keys) {
			end = len(keys)
		}
		if _, err := s.Bucket.DeleteObjects(keys[i:end], oss.DeleteObjectsQuiet(true), oss.WithContext(ctx)); err != nil {
			return deleted, fmt.Errorf("delete batch %d-%d: %w", i, end, err)
		}
		deleted += end - i
	}
	return deleted, nil
}
