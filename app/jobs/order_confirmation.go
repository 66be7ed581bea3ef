// Package jobs defines the background queue jobs and their registrations.
package jobs

import (
	"fmt"

	"github.com/ndthang/techmart/config"
	"github.com/ndthang/techmart/pkg/notification"
	"github.com/ndthang/techmart/pkg/queue"
)

// OrderConfirmationJob notifies a customer that their order was placed.
// Dispatched from the order.placed event listener; delivery runs on the
// queue workers with retry and failed-job parking.
type OrderConfirmationJob struct {
	OrderCode string  `json:"order_code"`
	Email     string  `json:"email"`
	Total     float64 `json:"total"`
}

// Handle sends the confirmation over every configured channel.
func (j *OrderConfirmationJob) Handle() error {
	errs := notification.Send(j.Email, &orderPlacedNotification{job: j})
	if len(errs) > 0 {
		return fmt.Errorf("order confirmation %s: %d channel(s) failed: %v", j.OrderCode, len(errs), errs[0])
	}
	return nil
}

// Register makes the job types deserializable by the queue workers.
// Call once at boot.
func Register() {
	queue.Register("*jobs.OrderConfirmationJob", func() queue.Job { return &OrderConfirmationJob{} })
}

type orderPlacedNotification struct {
	job *OrderConfirmationJob
}

func (n *orderPlacedNotification) Via() []string {
	channels := []string{}
	if config.SMTPHost() != "" {
		channels = append(channels, "mail")
	}
	if config.OrderWebhookURL() != "" {
		channels = append(channels, "webhook")
	}
	return channels
}

func (n *orderPlacedNotification) ToMail() notification.MailData {
	return notification.MailData{
		Subject: "Your order is confirmed",
		Body: fmt.Sprintf(
			"<p>Thanks for your purchase!</p><p>Order <strong>%s</strong> for a total of %.2f is being processed.</p>",
			n.job.OrderCode, n.job.Total),
	}
}

func (n *orderPlacedNotification) ToWebhook() notification.WebhookData {
	return notification.WebhookData{
		URL: config.OrderWebhookURL(),
		Payload: map[string]interface{}{
			"event":      "order.placed",
			"order_code": n.job.OrderCode,
			"email":      n.job.Email,
			"total":      n.job.Total,
		},
	}
}
