// Package jobs holds the background jobs dispatched by the services.
//
// Every job registers a factory in init() so queue workers can rebuild
// it from its wire envelope.
package jobs

import (
	"fmt"

	"github.com/shashiranjanraj/villageangel/config"
	"github.com/shashiranjanraj/villageangel/pkg/logger"
	"github.com/shashiranjanraj/villageangel/pkg/mail"
	"github.com/shashiranjanraj/villageangel/pkg/notification"
	"github.com/shashiranjanraj/villageangel/pkg/queue"
)

func init() {
	queue.Register("*jobs.ActivationCodeJob", func() queue.Job { return &ActivationCodeJob{} })
	queue.Register("*jobs.ResetCodeJob", func() queue.Job { return &ResetCodeJob{} })
	queue.Register("*jobs.OrderPlacedJob", func() queue.Job { return &OrderPlacedJob{} })
}

// ActivationCodeJob delivers the account activation code after
// registration or a resend.
type ActivationCodeJob struct {
	Email    string `json:"email"`
	UserName string `json:"userName"`
	Code     int    `json:"code"`
}

// Handle logs the code — the canonical delivery channel in mail-less
// deployments — and mails it when SMTP is configured.
func (j *ActivationCodeJob) Handle() error {
	logger.Info("activation code issued",
		"email", j.Email, "user", j.UserName, "code", fmt.Sprintf("%06d", j.Code))
	return mail.To(j.Email).
		Subject("Activate your Village Angel account").
		Body(fmt.Sprintf("Hi %s,\n\nYour activation code is %06d. It expires in 48 hours.\n", j.UserName, j.Code)).
		Send()
}

// ResetCodeJob delivers the password-reset code.
type ResetCodeJob struct {
	Email    string `json:"email"`
	UserName string `json:"userName"`
	Code     int    `json:"code"`
}

func (j *ResetCodeJob) Handle() error {
	logger.Info("password reset code issued",
		"email", j.Email, "user", j.UserName, "code", fmt.Sprintf("%06d", j.Code))
	return mail.To(j.Email).
		Subject("Village Angel password reset").
		Body(fmt.Sprintf("Hi %s,\n\nYour password reset code is %06d. It expires in 5 minutes.\n", j.UserName, j.Code)).
		Send()
}

// OrderPlacedJob confirms a placed order to the buyer and pings the ops
// channel. Delivery goes through the notification channels so Slack can
// be switched on with SLACK_WEBHOOK alone.
type OrderPlacedJob struct {
	Email   string  `json:"email"`
	OrderID uint    `json:"orderId"`
	Total   float64 `json:"total"`
}

func (j *OrderPlacedJob) Handle() error {
	logger.Info("sending order confirmation", "email", j.Email, "order_id", j.OrderID)

	errs := notification.Send(j.Email, &orderPlacedNotification{job: j})
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

type orderPlacedNotification struct {
	job *OrderPlacedJob
}

func (n *orderPlacedNotification) Via() []string {
	channels := []string{"mail"}
	if config.Get("SLACK_WEBHOOK", "") != "" {
		channels = append(channels, "slack")
	}
	return channels
}

func (n *orderPlacedNotification) ToMail() notification.MailData {
	return notification.MailData{
		Subject: fmt.Sprintf("Order #%d received", n.job.OrderID),
		Text:    fmt.Sprintf("Thanks for your order!\n\nOrder #%d for %.2f is pending approval.\n", n.job.OrderID, n.job.Total),
	}
}

func (n *orderPlacedNotification) ToSlack() notification.SlackData {
	return notification.SlackData{
		Text: fmt.Sprintf("New order #%d for %.2f awaiting approval", n.job.OrderID, n.job.Total),
	}
}
