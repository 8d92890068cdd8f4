// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/kicks-catalog/internal/config"
)

var (
	ErrFileTooLarge     = errors.New("file exceeds the maximum allowed size")
	ErrFileTypeRejected = errors.New("file type is not allowed")
	ErrEmptyFile        = errors.New("file is empty")
)

var (
	allowedImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
	allowedImageTypes      = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
)

// StorageService stores product images in an S3 compatible bucket. Without
// credentials it keeps them on the local filesystem instead.
type StorageService struct {
	s3Client s3iface.S3API
	cfg      config.StorageConfig
	now      func() time.Time
}

type UploadResult struct {
	URL      string `json:"url"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	if cfg.Storage.AccessKeyID == "" {
		logrus.WithField("dir", cfg.Storage.LocalDir).Info("Storage credentials not set, using local file storage")
		return &StorageService{cfg: cfg.Storage, now: time.Now}, nil
	}

	awsCfg := &aws.Config{
		Region: aws.String(cfg.Storage.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.Storage.AccessKeyID,
			cfg.Storage.SecretAccessKey,
			"",
		),
	}
	if cfg.Storage.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Storage.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return NewS3StorageService(s3.New(sess), cfg.Storage), nil
}

func NewS3StorageService(client s3iface.S3API, cfg config.StorageConfig) *StorageService {
	return &StorageService{s3Client: client, cfg: cfg, now: time.Now}
}

func (s *StorageService) Bucket() string {
	return s.cfg.Bucket
}

// Upload stores body under path and returns the stored path.
func (s *StorageService) Upload(ctx context.Context, path, contentType string, body []byte) (string, error) {
	if s.s3Client == nil {
		return s.uploadToLocal(path, body)
	}

	_, err := s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(path),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
		ACL:           aws.String(s3.ObjectCannedACLPublicRead),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", path, err)
	}
	return path, nil
}

func (s *StorageService) uploadToLocal(path string, body []byte) (string, error) {
	target := s.localPath(path)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.WriteFile(target, body, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// PublicURL always uses the path style "<base>/<bucket>/<path>" so the
// stored path can be recovered from the URL later.
func (s *StorageService) PublicURL(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return s.publicBase() + "/" + s.cfg.Bucket + "/" + strings.Join(segments, "/")
}

func (s *StorageService) publicBase() string {
	switch {
	case s.s3Client == nil:
		return s.cfg.PublicBaseURL
	case s.cfg.Endpoint != "":
		return strings.TrimRight(s.cfg.Endpoint, "/")
	default:
		return fmt.Sprintf("https://s3.%s.amazonaws.com", s.cfg.Region)
	}
}

// Remove deletes all paths in one request.
func (s *StorageService) Remove(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	if s.s3Client == nil {
		var failed []string
		for _, p := range paths {
			if err := os.Remove(s.localPath(p)); err != nil && !errors.Is(err, os.ErrNotExist) {
				failed = append(failed, p)
			}
		}
		if len(failed) > 0 {
			return fmt.Errorf("failed to remove %s", strings.Join(failed, ", "))
		}
		return nil
	}

	objects := make([]*s3.ObjectIdentifier, 0, len(paths))
	for _, p := range paths {
		objects = append(objects, &s3.ObjectIdentifier{Key: aws.String(p)})
	}

	out, err := s.s3Client.DeleteObjectsWithContext(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.cfg.Bucket),
		Delete: &s3.Delete{Objects: objects, Quiet: aws.Bool(true)},
	})
	if err != nil {
		return fmt.Errorf("failed to remove files: %w", err)
	}
	if out != nil && len(out.Errors) > 0 {
		failed := make([]string, 0, len(out.Errors))
		for _, e := range out.Errors {
			failed = append(failed, fmt.Sprintf("%s (%s)", aws.StringValue(e.Key), aws.StringValue(e.Message)))
		}
		return fmt.Errorf("failed to remove %s", strings.Join(failed, ", "))
	}
	return nil
}

// UploadProductImage validates an image and stores it as "<unix millis>-<name>".
func (s *StorageService) UploadProductImage(ctx context.Context, filename string, body []byte) (*UploadResult, error) {
	mimeType, err := s.ValidateImage(filename, body)
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("%d-%s", s.now().UnixMilli(), filepath.Base(filepath.Clean("/"+filename)))
	stored, err := s.Upload(ctx, name, mimeType, body)
	if err != nil {
		return nil, err
	}

	return &UploadResult{
		URL:      s.PublicURL(stored),
		Path:     stored,
		Size:     int64(len(body)),
		MimeType: mimeType,
	}, nil
}

// ValidateImage checks size, extension and content signature and returns
// the detected mime type.
func (s *StorageService) ValidateImage(filename string, body []byte) (string, error) {
	if len(body) == 0 {
		return "", ErrEmptyFile
	}
	if s.cfg.MaxImageSize > 0 && int64(len(body)) > s.cfg.MaxImageSize {
		return "", fmt.Errorf("%w: %d bytes, limit %d", ErrFileTooLarge, len(body), s.cfg.MaxImageSize)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !slices.Contains(allowedImageExtensions, ext) {
		return "", fmt.Errorf("%w: %q", ErrFileTypeRejected, ext)
	}

	detected := mimetype.Detect(body)
	for _, t := range allowedImageTypes {
		if detected.Is(t) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: content is %s", ErrFileTypeRejected, detected.String())
}

func (s *StorageService) localPath(path string) string {
	return filepath.Join(s.cfg.LocalDir, s.cfg.Bucket, filepath.FromSlash(filepath.Clean("/"+path)))
}
