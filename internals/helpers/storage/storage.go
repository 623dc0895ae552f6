// Package storage adalah facade upload/hapus berkas yang seragam untuk service & controller.
// Key yang disimpan di DB selalu path relatif (mis. "documents/GABCON-2024-1A2B3C4D/xxx.pdf").
package storage

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	helper "gabconcours_backend/internals/helpers"
	"gabconcours_backend/internals/helpers/apperr"
)

const TrashPrefix = "trash"

var ErrObjectNotFound = errors.New("object not found")

type Store interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	// MoveToTrash memindahkan objek ke trash/YYYY/MM/DD/HHMMSS__key; dihapus permanen oleh reaper.
	MoveToTrash(ctx context.Context, key string) (string, error)
	// PurgeTrash menghapus objek trash yang lebih tua dari cutoff. Return jumlah terhapus.
	PurgeTrash(ctx context.Context, cutoff time.Time, dryRun bool) (int, error)
}

// Batas ukuran upload dokumen (10MB) dan foto (5MB).
var (
	MaxDocumentSize = int64(10 * 1024 * 1024)
	MaxPhotoSize    = int64(5 * 1024 * 1024)
)

var documentContentTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
}

// BuildObjectKey: dir/slug_YYYYMMDD_HHMMSS_rand.ext
func BuildObjectKey(dir, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	ts := time.Now().UTC().Format("20060102_150405")
	key := fmt.Sprintf("%s_%s_%s%s", helper.Slugify(base, 60), ts, randHex(3), ext)
	dir = strings.Trim(path.Clean("/"+dir), "/")
	if dir == "" {
		return key
	}
	return dir + "/" + key
}

// TrashKey membangun tujuan pemindahan ke trash.
func TrashKey(key string, now time.Time) string {
	return path.Join(
		TrashPrefix,
		now.Format("2006"), now.Format("01"), now.Format("02"),
		fmt.Sprintf("%s__%s", now.Format("150405"), strings.ReplaceAll(strings.Trim(key, "/"), "/", "__")),
	)
}

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// DetectContentType: ekstensi + sniff 512B.
func DetectContentType(head []byte, filename string) string {
	ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(head)
		if i := strings.Index(ct, ";"); i >= 0 {
			ct = ct[:i]
		}
	}
	if ct == "" {
		ct = "application/octet-stream"
	}
	return ct
}

// SaveDocument menyimpan berkas multipart (pdf/jpeg/png/webp) ke dir dan mengembalikan key + content type.
func SaveDocument(ctx context.Context, s Store, dir string, fh *multipart.FileHeader) (string, string, error) {
	if fh == nil {
		return "", "", apperr.BadRequest("Fichier manquant")
	}
	if fh.Size > MaxDocumentSize {
		return "", "", apperr.BadRequest(fmt.Sprintf("Fichier trop volumineux (max %d Mo)", MaxDocumentSize/1024/1024))
	}
	src, err := fh.Open()
	if err != nil {
		return "", "", apperr.BadRequest("Fichier illisible")
	}
	defer src.Close()

	all, err := io.ReadAll(io.LimitReader(src, MaxDocumentSize+1))
	if err != nil {
		return "", "", apperr.BadRequest("Fichier illisible")
	}
	if len(all) == 0 {
		return "", "", apperr.BadRequest("Fichier vide")
	}
	head := all
	if len(head) > 512 {
		head = head[:512]
	}
	ct := DetectContentType(head, fh.Filename)
	if !documentContentTypes[ct] {
		return "", "", apperr.BadRequest("Type de fichier non autorisé: " + ct)
	}

	key := BuildObjectKey(dir, fh.Filename)
	if err := s.Put(ctx, key, bytes.NewReader(all), ct); err != nil {
		return "", "", apperr.Server("upload failed", err)
	}
	return key, ct, nil
}
