package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"clinic-backend/config"
	domainStorage "clinic-backend/internal/domain/storage"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjectAPI struct {
	put     []*s3.PutObjectInput
	deleted []string
	putErr  error
}

func (f *fakeObjectAPI) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.put = append(f.put, params)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjectAPI) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, *params.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func newTestStorage(api *fakeObjectAPI) *S3Storage {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewS3Storage(api, config.StorageConfig{
		Bucket:    "clinic",
		Region:    "us-east-1",
		PublicURL: "https://cdn.example.com/",
		Prefix:    "/uploads/",
	}, log)
}

func TestS3Storage_UploadAndDelete(t *testing.T) {
	api := &fakeObjectAPI{}
	store := newTestStorage(api)

	url, err := store.Upload(context.Background(), &domainStorage.File{
		Name:    "Photo.PNG",
		Size:    4,
		Content: strings.NewReader("data"),
	})
	require.NoError(t, err)
	require.Len(t, api.put, 1)

	assert.True(t, strings.HasPrefix(url, "https://cdn.example.com/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".png"))
	assert.Equal(t, "clinic", *api.put[0].Bucket)
	assert.Equal(t, "image/png", *api.put[0].ContentType)

	require.NoError(t, store.Delete(context.Background(), url))
	require.Len(t, api.deleted, 1)
	assert.Equal(t, *api.put[0].Key, api.deleted[0])
}

func TestS3Storage_UploadRejectsEmptyFile(t *testing.T) {
	store := newTestStorage(&fakeObjectAPI{})

	_, err := store.Upload(context.Background(), &domainStorage.File{Name: "empty.png"})
	assert.ErrorIs(t, err, domainStorage.ErrEmptyFile)
}

func TestS3Storage_UploadError(t *testing.T) {
	store := newTestStorage(&fakeObjectAPI{putErr: errors.New("boom")})

	_, err := store.Upload(context.Background(), &domainStorage.File{
		Name:    "a.jpg",
		Size:    1,
		Content: strings.NewReader("x"),
	})
	assert.Error(t, err)
}

func TestS3Storage_DeleteForeignURL(t *testing.T) {
	api := &fakeObjectAPI{}
	store := newTestStorage(api)

	err := store.Delete(context.Background(), "https://elsewhere.example.com/a.png")
	assert.Error(t, err)
	assert.Empty(t, api.deleted)
}
