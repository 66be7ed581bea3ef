package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/ndthang/techmart/app/models"
	"github.com/ndthang/techmart/pkg/cache"
	"github.com/ndthang/techmart/pkg/collection"
	"github.com/ndthang/techmart/pkg/logger"
	"github.com/ndthang/techmart/pkg/storage"
)

// RevenueStore is the slice of the orders collection revenue reads from.
type RevenueStore interface {
	ByStatusInRange(ctx context.Context, status int, from, to time.Time) ([]models.Order, error)
}

// RevenueService computes revenue reports over processed orders.
type RevenueService struct {
	orders RevenueStore
}

func NewRevenueService(orders RevenueStore) *RevenueService {
	return &RevenueService{orders: orders}
}

// Report is a revenue summary over a date range.
type Report struct {
	From       time.Time `json:"from"`
	To         time.Time `json:"to"`
	OrderCount int       `json:"order_count"`
	Total      float64   `json:"total"`
}

// Range sums totals_price over processed orders created in [from, to].
// Only status=processed orders count toward revenue.
func (s *RevenueService) Range(ctx context.Context, from, to time.Time) (Report, error) {
	orders, err := s.orders.ByStatusInRange(ctx, models.StatusProcessed, from, to)
	if err != nil {
		return Report{}, fmt.Errorf("revenue range: %w", err)
	}

	return Report{
		From:       from,
		To:         to,
		OrderCount: len(orders),
		Total:      collection.Sum(orders, func(o models.Order) float64 { return o.TotalsPrice }),
	}, nil
}

// ExportCSV writes a per-order revenue report for [from, to] to the default
// storage disk and returns the file's path and public URL.
func (s *RevenueService) ExportCSV(ctx context.Context, from, to time.Time) (path, url string, err error) {
	orders, err := s.orders.ByStatusInRange(ctx, models.StatusProcessed, from, to)
	if err != nil {
		return "", "", fmt.Errorf("revenue export: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"order_code", "created_at", "totals_price"})
	for _, o := range orders {
		_ = w.Write([]string{
			o.OrderCode,
			o.CreatedAt.Format(time.RFC3339),
			strconv.FormatFloat(o.TotalsPrice, 'f', 2, 64),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", "", fmt.Errorf("revenue export: write csv: %w", err)
	}

	path = fmt.Sprintf("exports/revenue-%s-%s.csv", from.Format("20060102"), to.Format("20060102"))
	if err := storage.Put(path, buf.Bytes()); err != nil {
		return "", "", fmt.Errorf("revenue export: store: %w", err)
	}
	return path, storage.URL(path), nil
}

// SnapshotDaily computes yesterday's revenue and stores it in Redis under a
// date-stamped key. Registered as a daily scheduled task.
func (s *RevenueService) SnapshotDaily(ctx context.Context) {
	now := time.Now().UTC()
	to := now.Truncate(24 * time.Hour)
	from := to.Add(-24 * time.Hour)

	report, err := s.Range(ctx, from, to)
	if err != nil {
		logger.Error("revenue snapshot failed", "error", err)
		return
	}

	key := "techmart:revenue:daily:" + from.Format("2006-01-02")
	if err := cache.Set(key, report, 40*24*time.Hour); err != nil {
		logger.Error("revenue snapshot store failed", "error", err)
		return
	}
	logger.Info("revenue snapshot stored", "key", key, "total", report.Total)
}
