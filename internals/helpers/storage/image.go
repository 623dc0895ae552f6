package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"gabconcours_backend/internals/helpers/apperr"
)

/* =======================================================================
   Foto kandidat → WebP (resize keep-aspect)
======================================================================= */

type WebPOptions struct {
	MaxW    int
	MaxH    int
	Quality float32
}

var DefaultPhotoOptions = WebPOptions{MaxW: 600, MaxH: 800, Quality: 80}

// ConvertToWebP decode jpeg/png/webp lalu encode ulang ke WebP lossy.
func ConvertToWebP(r io.Reader, opt WebPOptions) ([]byte, error) {
	all, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	img, err := webp.Decode(bytes.NewReader(all))
	if err != nil {
		img, err = imaging.Decode(bytes.NewReader(all), imaging.AutoOrientation(true))
		if err != nil {
			return nil, fmt.Errorf("format tidak didukung: %w", err)
		}
	}

	b := img.Bounds()
	if (opt.MaxW > 0 && b.Dx() > opt.MaxW) || (opt.MaxH > 0 && b.Dy() > opt.MaxH) {
		img = imaging.Fit(img, opt.MaxW, opt.MaxH, imaging.CatmullRom)
	}

	q := opt.Quality
	if q <= 0 {
		q = 80
	}
	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Lossless: false, Quality: q}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SavePhoto menyimpan foto kandidat sebagai .webp di dir. Return key.
func SavePhoto(ctx context.Context, s Store, dir string, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", apperr.BadRequest("Photo manquante")
	}
	if fh.Size > MaxPhotoSize {
		return "", apperr.BadRequest(fmt.Sprintf("Photo trop volumineuse (max %d Mo)", MaxPhotoSize/1024/1024))
	}
	src, err := fh.Open()
	if err != nil {
		return "", apperr.BadRequest("Photo illisible")
	}
	defer src.Close()

	data, err := ConvertToWebP(io.LimitReader(src, MaxPhotoSize+1), DefaultPhotoOptions)
	if err != nil {
		return "", apperr.BadRequest("Format de photo non supporté (jpg/png/webp)")
	}

	base := strings.TrimSuffix(path.Base(fh.Filename), path.Ext(fh.Filename))
	key := BuildObjectKey(dir, base+".webp")
	if err := s.Put(ctx, key, bytes.NewReader(data), "image/webp"); err != nil {
		return "", apperr.Server("upload failed", err)
	}
	return key, nil
}
