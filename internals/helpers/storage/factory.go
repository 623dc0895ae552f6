package storage

import (
	"fmt"

	"gabconcours_backend/internals/configs"
)

// New memilih backend sesuai STORAGE_DRIVER (local | oss | s3).
func New(cfg configs.StorageConfig, uploadsDir string) (Store, error) {
	switch cfg.Driver {
	case "", "local":
		s, err := NewLocalStore(uploadsDir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "oss":
		s, err := NewOSSStore(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey, cfg.OSSBucket)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "s3":
		s, err := NewS3Store(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3UseSSL)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.Driver)
	}
}
