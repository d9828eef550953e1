package gcal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// maxAttempts - суммарное число попыток для внешних вызовов
const maxAttempts = 4

// Gateway зеркалирует записи в Google Calendar и Google Sheets.
// Все операции best-effort: вызывающая сторона логирует ошибки
// и не откатывает изменения в БД.
type Gateway struct {
	cal           *calendar.Service
	sheets        *sheets.Service
	calendarID    string
	spreadsheetID string
	loc           *time.Location
	logger        *zap.Logger
}

func NewGateway(ctx context.Context, credentialsFile, calendarID, spreadsheetID string, loc *time.Location, logger *zap.Logger) (*Gateway, error) {
	calSvc, err := calendar.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(calendar.CalendarScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create calendar client: %w", err)
	}

	sheetsSvc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}

	return &Gateway{
		cal:           calSvc,
		sheets:        sheetsSvc,
		calendarID:    calendarID,
		spreadsheetID: spreadsheetID,
		loc:           loc,
		logger:        logger,
	}, nil
}

// withRetry повторяет вызов с экспоненциальной паузой, но только для
// временных сбоев (сеть, 429, 5xx). Остальные ошибки возвращаются сразу.
func (g *Gateway) withRetry(ctx context.Context, op string, fn func() error) error {
	backoff := retry.WithCappedDuration(10*time.Second,
		retry.WithMaxRetries(maxAttempts-1, retry.NewExponential(time.Second)))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn()
		if err == nil {
			return nil
		}
		if isTransient(err) {
			g.logger.Warn("Transient Google API error, retrying",
				zap.String("op", op),
				zap.Error(err),
			)
			return retry.RetryableError(err)
		}
		return err
	})
}

func isTransient(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= 500
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone
	}
	return false
}
