package domain

import (
	"context"
	"log/slog"
	"time"
)

// loggingService is the interface required for logging middleware.
type loggingService interface {
	Sign(ctx context.Context, req ClaimRequest) (*SignResult, error)
}

// LoggingMiddleware returns a service middleware that logs all operations.
func LoggingMiddleware(logger *slog.Logger) func(loggingService) *loggingMiddleware {
	return func(next loggingService) *loggingMiddleware {
		return &loggingMiddleware{
			next:   next,
			logger: logger,
		}
	}
}

type loggingMiddleware struct {
	next   loggingService
	logger *slog.Logger
}

func (m *loggingMiddleware) Sign(ctx context.Context, req ClaimRequest) (*SignResult, error) {
	start := time.Now()
	result, err := m.next.Sign(ctx, req)

	attrs := []any{
		"to", req.To,
		"txHash", req.TxHash,
		"orderId", req.OrderID,
		"duration", time.Since(start),
		"error", err,
	}
	if result != nil {
		attrs = append(attrs,
			"requestId", result.RequestID,
			"candidates", len(result.Candidates),
			"skuId", result.SkuID,
		)
	}
	m.logger.Info("Sign", attrs...)

	return result, err
}
