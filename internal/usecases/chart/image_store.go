package chart

import (
	"context"

	"github.com/admin/astromood/chart-api/internal/domain"
)

// FetchAndStore скачивает svg по url и кладёт его по ключу пользователя.
// Старая картинка перезаписывается.
func (s *Service) FetchAndStore(ctx context.Context, url, userID string) (storedPath, publicURL string, err error) {
	data, err := s.Downloader.Download(ctx, url)
	if err != nil {
		return "", "", domain.NewUpstreamError(domain.StepDownloadImage, err)
	}

	storedPath = domain.ChartStoragePath(userID)
	if err := s.Storage.Upload(ctx, storedPath, data, domain.ChartContentType); err != nil {
		return "", "", domain.NewUpstreamError(domain.StepUploadImage, err)
	}

	return storedPath, s.Storage.PublicURL(storedPath), nil
}
