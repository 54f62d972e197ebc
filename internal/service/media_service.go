package service

import (
	"context"

	"clinic-backend/internal/domain/storage"
	"clinic-backend/pkg/metrics"

	"github.com/sirupsen/logrus"
)

// MediaService uploads images on behalf of a single request and can undo
// those uploads when the request's transaction rolls back.
type MediaService interface {
	NewSession() *UploadSession
	Delete(ctx context.Context, url string) error
}

type mediaService struct {
	storage storage.ObjectStorage
	log     *logrus.Logger
	metrics *metrics.Collector
}

func NewMediaService(objectStorage storage.ObjectStorage, log *logrus.Logger, collector *metrics.Collector) MediaService {
	return &mediaService{
		storage: objectStorage,
		log:     log,
		metrics: collector,
	}
}

func (s *mediaService) NewSession() *UploadSession {
	return &UploadSession{service: s}
}

func (s *mediaService) Delete(ctx context.Context, url string) error {
	return s.storage.Delete(ctx, url)
}

// UploadSession remembers the URLs it uploaded
type UploadSession struct {
	service  *mediaService
	uploaded []string
}

func (u *UploadSession) Upload(ctx context.Context, file *storage.File) (string, error) {
	url, err := u.service.storage.Upload(ctx, file)
	if err != nil {
		u.service.observe("failure")
		return "", err
	}
	u.service.observe("success")
	u.uploaded = append(u.uploaded, url)
	return url, nil
}

// Compensate deletes everything uploaded in this session. Failures are logged
// and do not stop the remaining deletes.
func (u *UploadSession) Compensate(ctx context.Context) {
	for _, url := range u.uploaded {
		if err := u.service.storage.Delete(ctx, url); err != nil {
			u.service.log.Warnf("Failed to delete orphaned object %s: %+v", url, err)
		}
	}
	u.uploaded = nil
}

func (s *mediaService) observe(result string) {
	if s.metrics != nil {
		s.metrics.ObjectUploadsTotal.WithLabelValues(result).Inc()
	}
}
