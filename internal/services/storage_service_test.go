package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/kicks-catalog/internal/config"
	"github.com/javajoker/kicks-catalog/internal/gateway"
)

var (
	pngBytes  = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)
	jpegBytes = append([]byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, make([]byte, 32)...)
)

type mockS3 struct {
	s3iface.S3API
	mock.Mock
}

func (m *mockS3) PutObjectWithContext(ctx aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.PutObjectOutput)
	return out, args.Error(1)
}

func (m *mockS3) DeleteObjectsWithContext(ctx aws.Context, in *s3.DeleteObjectsInput, _ ...request.Option) (*s3.DeleteObjectsOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.DeleteObjectsOutput)
	return out, args.Error(1)
}

func storageConfig(dir string) config.StorageConfig {
	return config.StorageConfig{
		Region:        "us-east-1",
		Bucket:        "product-images",
		PublicBaseURL: "http://localhost:8080/uploads",
		LocalDir:      dir,
		MaxImageSize:  1024,
	}
}

func newLocalStorage(t *testing.T) *StorageService {
	t.Helper()
	svc, err := NewStorageService(&config.Config{Storage: storageConfig(t.TempDir())})
	require.NoError(t, err)
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return svc
}

func TestValidateImage(t *testing.T) {
	svc := newLocalStorage(t)

	tests := []struct {
		name     string
		filename string
		body     []byte
		wantMime string
		wantErr  error
	}{
		{"png", "air.png", pngBytes, "image/png", nil},
		{"jpeg upper case extension", "air.JPG", jpegBytes, "image/jpeg", nil},
		{"empty", "air.png", nil, "", ErrEmptyFile},
		{"too large", "air.png", make([]byte, 2048), "", ErrFileTooLarge},
		{"wrong extension", "air.exe", pngBytes, "", ErrFileTypeRejected},
		{"text disguised as image", "air.png", []byte("hello there, not an image"), "", ErrFileTypeRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mime, err := svc.ValidateImage(tt.filename, tt.body)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMime, mime)
		})
	}
}

func TestLocalStorageUploadAndRemove(t *testing.T) {
	svc := newLocalStorage(t)
	ctx := context.Background()

	res, err := svc.UploadProductImage(ctx, "../../air max.png", pngBytes)
	require.NoError(t, err)

	assert.Equal(t, "1700000000000-air max.png", res.Path)
	assert.Equal(t, "http://localhost:8080/uploads/product-images/1700000000000-air%20max.png", res.URL)
	assert.Equal(t, "image/png", res.MimeType)
	assert.EqualValues(t, len(pngBytes), res.Size)

	stored := filepath.Join(svc.cfg.LocalDir, "product-images", res.Path)
	data, err := os.ReadFile(stored)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)

	path, err := gateway.ObjectPathFromURL(res.URL, svc.Bucket())
	require.NoError(t, err)
	assert.Equal(t, res.Path, path)

	require.NoError(t, svc.Remove(ctx, []string{path, "never-existed.png"}))
	_, err = os.Stat(stored)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRemoveNothingIsNoop(t *testing.T) {
	client := new(mockS3)
	svc := NewS3StorageService(client, storageConfig(""))

	assert.NoError(t, svc.Remove(context.Background(), nil))
	client.AssertNotCalled(t, "DeleteObjectsWithContext", mock.Anything, mock.Anything)
}

func TestS3Upload(t *testing.T) {
	client := new(mockS3)
	svc := NewS3StorageService(client, storageConfig(""))
	ctx := context.Background()

	client.On("PutObjectWithContext", ctx, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return aws.StringValue(in.Bucket) == "product-images" &&
			aws.StringValue(in.Key) == "shoe.png" &&
			aws.StringValue(in.ContentType) == "image/png" &&
			aws.StringValue(in.ACL) == s3.ObjectCannedACLPublicRead
	})).Return(&s3.PutObjectOutput{}, nil).Once()

	path, err := svc.Upload(ctx, "shoe.png", "image/png", pngBytes)
	require.NoError(t, err)
	assert.Equal(t, "shoe.png", path)
	client.AssertExpectations(t)

	client.On("PutObjectWithContext", ctx, mock.Anything).Return(nil, errors.New("denied")).Once()
	_, err = svc.Upload(ctx, "shoe.png", "image/png", pngBytes)
	assert.ErrorContains(t, err, "denied")
}

func TestS3PublicURL(t *testing.T) {
	cfg := storageConfig("")
	svc := NewS3StorageService(new(mockS3), cfg)
	assert.Equal(t, "https://s3.us-east-1.amazonaws.com/product-images/dir/a%20b.png", svc.PublicURL("dir/a b.png"))

	cfg.Endpoint = "http://minio:9000/"
	svc = NewS3StorageService(new(mockS3), cfg)
	assert.Equal(t, "http://minio:9000/product-images/shoe.png", svc.PublicURL("shoe.png"))
}

func TestS3RemoveBatchesPaths(t *testing.T) {
	client := new(mockS3)
	svc := NewS3StorageService(client, storageConfig(""))
	ctx := context.Background()

	client.On("DeleteObjectsWithContext", ctx, mock.MatchedBy(func(in *s3.DeleteObjectsInput) bool {
		if aws.StringValue(in.Bucket) != "product-images" || len(in.Delete.Objects) != 2 {
			return false
		}
		return aws.StringValue(in.Delete.Objects[0].Key) == "a.png" &&
			aws.StringValue(in.Delete.Objects[1].Key) == "b.png"
	})).Return(&s3.DeleteObjectsOutput{}, nil).Once()

	require.NoError(t, svc.Remove(ctx, []string{"a.png", "b.png"}))
	client.AssertExpectations(t)
}

func TestS3RemoveReportsPerObjectErrors(t *testing.T) {
	client := new(mockS3)
	svc := NewS3StorageService(client, storageConfig(""))
	ctx := context.Background()

	client.On("DeleteObjectsWithContext", ctx, mock.Anything).Return(&s3.DeleteObjectsOutput{
		Errors: []*s3.Error{{Key: aws.String("b.png"), Message: aws.String("AccessDenied")}},
	}, nil).Once()

	err := svc.Remove(ctx, []string{"a.png", "b.png"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "b.png (AccessDenied)")
}
