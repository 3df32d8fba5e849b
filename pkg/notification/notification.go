// Package notification fans a message out over the channels it names.
//
// A notification declares its channels and provides per-channel
// payloads by implementing the matching To* method:
//
//	type OrderShipped struct{ Order models.Order }
//
//	func (n *OrderShipped) Via() []string { return []string{"mail", "slack"} }
//	func (n *OrderShipped) ToMail() notification.MailData {
//	    return notification.MailData{Subject: "Shipped!", Body: "..."}
//	}
//	func (n *OrderShipped) ToSlack() notification.SlackData {
//	    return notification.SlackData{Text: "order shipped"}
//	}
//
//	notification.Send(user.Email, &OrderShipped{Order: order})
package notification

import (
	"fmt"
	"time"

	vahttp "github.com/shashiranjanraj/villageangel/pkg/http"
	"github.com/shashiranjanraj/villageangel/pkg/logger"
	"github.com/shashiranjanraj/villageangel/pkg/mail"
)

// Notification names the channels a message travels over.
type Notification interface {
	Via() []string
}

// Mailable supplies the "mail" channel payload.
type Mailable interface {
	ToMail() MailData
}

// Slackable supplies the "slack" channel payload.
type Slackable interface {
	ToSlack() SlackData
}

// Webhookable supplies the "webhook" channel payload.
type Webhookable interface {
	ToWebhook() WebhookData
}

// MailData is an email notification. To overrides the notifiable
// address when set; Text is the fallback when Body (HTML) is empty.
type MailData struct {
	To      string
	Subject string
	Body    string
	Text    string
}

// SlackData posts to an incoming webhook, the package default unless
// WebhookURL overrides it.
type SlackData struct {
	WebhookURL  string
	Text        string
	Attachments []SlackAttachment
}

// SlackAttachment is one attachment block.
type SlackAttachment struct {
	Color  string `json:"color,omitempty"`
	Title  string `json:"title,omitempty"`
	Text   string `json:"text,omitempty"`
	Footer string `json:"footer,omitempty"`
}

// WebhookData POSTs an arbitrary JSON payload.
type WebhookData struct {
	URL     string
	Payload interface{}
	Headers map[string]string
}

var slackWebhook string

// SetSlackWebhook configures the default Slack destination. Called at
// boot from SLACK_WEBHOOK.
func SetSlackWebhook(url string) { slackWebhook = url }

// Send delivers over every channel in Via, collecting per-channel
// failures rather than stopping at the first.
func Send(address string, n Notification) []error {
	var errs []error
	for _, ch := range n.Via() {
		if err := deliver(address, ch, n); err != nil {
			logger.Error("notification: channel failed", "channel", ch, "error", err)
			errs = append(errs, err)
		}
	}
	return errs
}

func deliver(address, channel string, n Notification) error {
	switch channel {
	case "mail":
		m, ok := n.(Mailable)
		if !ok {
			return fmt.Errorf("notification: %T has no mail payload", n)
		}
		return deliverMail(address, m.ToMail())
	case "slack":
		s, ok := n.(Slackable)
		if !ok {
			return fmt.Errorf("notification: %T has no slack payload", n)
		}
		return deliverSlack(s.ToSlack())
	case "webhook":
		w, ok := n.(Webhookable)
		if !ok {
			return fmt.Errorf("notification: %T has no webhook payload", n)
		}
		return deliverWebhook(w.ToWebhook())
	default:
		return fmt.Errorf("notification: unknown channel %q", channel)
	}
}

func deliverMail(address string, d MailData) error {
	to := d.To
	if to == "" {
		to = address
	}
	body := d.Body
	if body == "" {
		body = d.Text
	}
	return mail.To(to).Subject(d.Subject).Body(body).Send()
}

func deliverSlack(d SlackData) error {
	url := d.WebhookURL
	if url == "" {
		url = slackWebhook
	}
	if url == "" {
		return fmt.Errorf("notification: no slack webhook configured")
	}

	payload := struct {
		Text        string            `json:"text,omitempty"`
		Attachments []SlackAttachment `json:"attachments,omitempty"`
	}{d.Text, d.Attachments}

	resp, err := vahttp.Post(url).
		Body(payload).
		Timeout(5 * time.Second).
		Send()
	if err != nil {
		return fmt.Errorf("notification: slack: %w", err)
	}
	if !resp.OK() {
		return fmt.Errorf("notification: slack returned %d", resp.StatusCode)
	}
	return nil
}

func deliverWebhook(d WebhookData) error {
	if d.URL == "" {
		return fmt.Errorf("notification: webhook URL is empty")
	}

	req := vahttp.Post(d.URL).
		Body(d.Payload).
		Timeout(10 * time.Second).
		Retry(2, time.Second)
	for k, v := range d.Headers {
		req = req.Header(k, v)
	}

	resp, err := req.Send()
	if err != nil {
		return fmt.Errorf("notification: webhook: %w", err)
	}
	if !resp.OK() {
		return fmt.Errorf("notification: webhook returned %d", resp.StatusCode)
	}
	return nil
}
