package artworks

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hndlyt/releaseboard-backend/pkg/config"
	pkgerrors "github.com/hndlyt/releaseboard-backend/pkg/errors"
)

type urlSigner interface {
	SignedURL(bucket, object, contentType string, expires time.Duration) (string, error)
	SignedReadURL(bucket, object string, expires time.Duration) (string, error)
	DefaultBucket() string
}

// Service hands out signed upload URLs for release and submission artwork.
// The upload itself goes straight from the client to object storage; a
// client that presigns but never uploads, or uploads and never attaches
// the URL to a record, leaves an orphaned object behind with no cleanup.
type Service interface {
	PresignUpload(ctx context.Context, userID uuid.UUID, input PresignInput) (*PresignOutput, error)
}

// PresignInput describes the artwork the client intends to upload.
type PresignInput struct {
	FileName    string
	ContentType string
	SizeBytes   int64
}

// PresignOutput carries the signed PUT URL plus the read URL the client
// stores on the release or submission after uploading.
type PresignOutput struct {
	ObjectKey    string    `json:"object_key"`
	SignedPUTURL string    `json:"signed_put_url"`
	ArtworkURL   string    `json:"artwork_url"`
	ContentType  string    `json:"content_type"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type service struct {
	signer         urlSigner
	bucket         string
	maxUploadBytes int64
	uploadTTL      time.Duration
	downloadTTL    time.Duration
	now            func() time.Time
}

// NewService constructs the artwork service.
func NewService(signer urlSigner, gcsCfg config.GCSConfig, artworkCfg config.ArtworkConfig) (Service, error) {
	if signer == nil {
		return nil, fmt.Errorf("url signer required")
	}
	if artworkCfg.MaxUploadMB <= 0 {
		return nil, fmt.Errorf("artwork max upload size must be positive")
	}
	return &service{
		signer:         signer,
		bucket:         signer.DefaultBucket(),
		maxUploadBytes: int64(artworkCfg.MaxUploadMB) << 20,
		uploadTTL:      gcsCfg.UploadURLExpiry,
		downloadTTL:    gcsCfg.DownloadURLExpiry,
		now:            time.Now,
	}, nil
}

// extensionsByContentType covers the image types the upload form accepts.
var extensionsByContentType = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/webp": "webp",
	"image/gif":  "gif",
}

func (s *service) PresignUpload(ctx context.Context, userID uuid.UUID, input PresignInput) (*PresignOutput, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.SizeBytes <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size_bytes must be positive")
	}
	if input.SizeBytes > s.maxUploadBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("artwork must be at most %d bytes", s.maxUploadBytes))
	}

	contentType := strings.ToLower(strings.TrimSpace(input.ContentType))
	if !strings.HasPrefix(contentType, "image/") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "artwork must be an image")
	}

	now := s.now()
	objectKey := buildObjectKey(userID, input.FileName, contentType, now)

	putURL, err := s.signer.SignedURL(s.bucket, objectKey, contentType, s.uploadTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "signing upload url")
	}
	readURL, err := s.signer.SignedReadURL(s.bucket, objectKey, s.downloadTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "signing read url")
	}

	return &PresignOutput{
		ObjectKey:    objectKey,
		SignedPUTURL: putURL,
		ArtworkURL:   readURL,
		ContentType:  contentType,
		ExpiresAt:    now.Add(s.uploadTTL),
	}, nil
}

// buildObjectKey namespaces objects per user and timestamps them so
// repeated uploads never collide.
func buildObjectKey(userID uuid.UUID, fileName, contentType string, now time.Time) string {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(fileName)), ".")
	if ext == "" {
		if mapped, ok := extensionsByContentType[contentType]; ok {
			ext = mapped
		} else {
			ext = "img"
		}
	}
	return fmt.Sprintf("artworks/%s/%d.%s", userID, now.UnixMilli(), ext)
}
