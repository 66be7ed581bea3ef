package server

import (
	"github.com/ndthang/techmart/app/jobs"
	"github.com/ndthang/techmart/app/models"
	"github.com/ndthang/techmart/app/services"
	"github.com/ndthang/techmart/pkg/event"
	"github.com/ndthang/techmart/pkg/logger"
	"github.com/ndthang/techmart/pkg/queue"
	"github.com/ndthang/techmart/pkg/ws"
)

// registerListeners wires domain events to their side effects: the admin
// websocket feed and the background notification queue.
func registerListeners(hub *ws.Hub) {
	event.Listen(event.OrderPlaced, func(payload interface{}) {
		p, ok := payload.(services.OrderPlacedPayload)
		if !ok {
			return
		}

		hub.BroadcastJSON(map[string]interface{}{
			"event":        event.OrderPlaced,
			"order_code":   p.Order.OrderCode,
			"totals_price": p.Order.TotalsPrice,
			"status":       p.Order.Status,
			"status_label": models.StatusLabel(p.Order.Status),
		})

		err := queue.Dispatch(&jobs.OrderConfirmationJob{
			OrderCode: p.Order.OrderCode,
			Email:     p.Email,
			Total:     p.Order.TotalsPrice,
		})
		if err != nil {
			logger.Error("dispatch order confirmation", "order_code", p.Order.OrderCode, "err", err)
		}
	})

	event.Listen(event.OrderStatusChanged, func(payload interface{}) {
		p, ok := payload.(services.OrderStatusChangedPayload)
		if !ok {
			return
		}
		hub.BroadcastJSON(map[string]interface{}{
			"event":        event.OrderStatusChanged,
			"order_id":     p.OrderID,
			"status":       p.Status,
			"status_label": p.StatusLabel,
		})
	})

	event.Listen(event.UserRegistered, func(payload interface{}) {
		if u, ok := payload.(models.User); ok {
			logger.Info("user registered", "user_id", u.ID.Hex())
		}
	})
}
