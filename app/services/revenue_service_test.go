package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ndthang/techmart/app/models"
	"github.com/ndthang/techmart/app/services"
)

func seedOrder(orders *fakeOrderStore, status int, total float64, createdAt time.Time) {
	order := models.Order{
		OrderCode:   primitive.NewObjectID().Hex(),
		UserID:      primitive.NewObjectID(),
		Status:      status,
		TotalsPrice: total,
		CreatedAt:   createdAt,
	}
	_ = orders.Place(context.Background(), &order, nil)
}

func TestRevenueCountsOnlyProcessedInRange(t *testing.T) {
	orders := &fakeOrderStore{}
	svc := services.NewRevenueService(orders)

	day1 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	day5 := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)

	seedOrder(orders, models.StatusProcessed, 100, day1)
	seedOrder(orders, models.StatusProcessed, 200, day2)
	// Same window but only processing: excluded from revenue.
	seedOrder(orders, models.StatusProcessing, 300, day1)
	// Processed but outside the window: excluded.
	seedOrder(orders, models.StatusProcessed, 400, day5)

	report, err := svc.Range(context.Background(),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 2, 23, 59, 59, 0, time.UTC),
	)
	require.NoError(t, err)
	assert.Equal(t, 2, report.OrderCount)
	assert.Equal(t, 300.0, report.Total)
}

func TestRevenueEmptyRange(t *testing.T) {
	orders := &fakeOrderStore{}
	svc := services.NewRevenueService(orders)

	report, err := svc.Range(context.Background(),
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	assert.Zero(t, report.OrderCount)
	assert.Zero(t, report.Total)
}
