package service

import "context"

// IErrorReporter отправка ошибок во внешний трекер (Sentry)
type IErrorReporter interface {
	CaptureException(ctx context.Context, err error, tags map[string]string)
}
