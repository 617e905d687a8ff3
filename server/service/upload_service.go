package service

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	"tedbus_server/server/common/log"
	"tedbus_server/server/domain"
)

const defaultContentType = "application/octet-stream"

// ObjectStore writes a blob under a key and reports the public URL it will be
// reachable at. The URL must be derivable from configuration plus key alone.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	PublicURL(key string) string
}

// FileStore appends one metadata record and returns the generated identifier.
type FileStore interface {
	Insert(ctx context.Context, rec domain.FileRecord) (string, error)
}

type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type UploadService struct {
	objects   ObjectStore
	files     FileStore
	publisher Publisher
	now       func() time.Time
}

func NewUploadService(objects ObjectStore, files FileStore, publisher Publisher) *UploadService {
	return &UploadService{objects: objects, files: files, publisher: publisher, now: time.Now}
}

// Upload runs one attempt of the pipeline: read the payload, reject empty
// input, derive the storage key, write the blob, then insert the metadata
// record. Each external call is made at most once; any failure is terminal
// for this request and a resubmission derives a fresh key.
//
// If the metadata insert fails after the blob was written, the blob stays in
// the store with no record pointing at it. No compensating delete is issued.
func (s *UploadService) Upload(ctx context.Context, originalName, contentType string, r io.Reader) (domain.UploadResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return domain.UploadResult{}, &Error{Kind: KindRejectedInput, Message: "file could not be read", Cause: err}
	}
	if len(data) == 0 {
		return domain.UploadResult{}, rejectedInput("file is empty")
	}

	key, err := MakeStorageKey(originalName)
	if err != nil {
		return domain.UploadResult{}, err
	}
	if contentType == "" {
		contentType = defaultContentType
	}

	publicURL, err := s.objects.Put(ctx, key, data, contentType)
	if err != nil {
		log.Errorf("store %s: %v", key, err)
		return domain.UploadResult{}, storageWriteFailed(err)
	}

	rec := domain.FileRecord{
		Filename:    originalName,
		StoredKey:   key,
		PublicURL:   publicURL,
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
		UploadedAt:  s.now().UTC(),
	}
	if strings.HasPrefix(contentType, "image/") {
		thumbURL, err := s.putThumbnail(ctx, key, data)
		if err == nil {
			rec.ThumbnailURL = thumbURL
		} else {
			log.Warnf("skip thumbnail for %s: %v", key, err)
		}
	}

	id, err := s.files.Insert(ctx, rec)
	if err != nil {
		log.Errorf("metadata insert after storing %s: %v", key, err)
		return domain.UploadResult{}, metadataWriteFailed(err)
	}
	rec.ID = id
	log.Infof("uploaded %s as %s (%d bytes, id=%s)", originalName, key, rec.SizeBytes, id)

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, "files.uploaded", rec); err != nil {
			log.Warnf("publish files.uploaded for %s: %v", id, err)
		}
	}

	return domain.UploadResult{ID: id, Record: rec}, nil
}

func (s *UploadService) putThumbnail(ctx context.Context, key string, data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	thumb := imaging.Thumbnail(img, 320, 320, imaging.Lanczos)
	buf := bytes.NewBuffer(nil)
	if err := imaging.Encode(buf, thumb, imaging.JPEG); err != nil {
		return "", err
	}

	ext := filepath.Ext(key)
	thumbKey := strings.TrimSuffix(key, ext) + "_thumb.jpg"
	return s.objects.Put(ctx, thumbKey, buf.Bytes(), "image/jpeg")
}
