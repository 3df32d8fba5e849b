// Package mail sends email over SMTP with a fluent builder.
//
//	err := mail.To("user@example.com").
//	    Subject("Activate your account").
//	    Body("<h1>Welcome</h1>").
//	    Send()
package mail

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
	"time"

	"github.com/shashiranjanraj/villageangel/config"
	"github.com/shashiranjanraj/villageangel/pkg/logger"
)

// Config is the SMTP endpoint a message travels through. Messages pick
// it up from the environment unless UseConfig overrides it.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

func envConfig() Config {
	return Config{
		Host:     config.Get("MAIL_HOST", "smtp.mailtrap.io"),
		Port:     config.Get("MAIL_PORT", "587"),
		Username: config.Get("MAIL_USERNAME", ""),
		Password: config.Get("MAIL_PASSWORD", ""),
		From:     config.Get("MAIL_FROM", "hello@villageangel.shop"),
		FromName: config.Get("MAIL_FROM_NAME", "Village Angel"),
	}
}

// Message accumulates one email before Send.
type Message struct {
	cfg     Config
	to      []string
	cc      []string
	bcc     []string
	subject string
	body    string
	html    bool
}

// To starts a message to one or more recipients.
func To(addresses ...string) *Message {
	return &Message{cfg: envConfig(), to: addresses, html: true}
}

// CC adds carbon-copy recipients.
func (m *Message) CC(addresses ...string) *Message {
	m.cc = append(m.cc, addresses...)
	return m
}

// BCC adds blind recipients; they receive the mail but appear in no header.
func (m *Message) BCC(addresses ...string) *Message {
	m.bcc = append(m.bcc, addresses...)
	return m
}

// Subject sets the subject line.
func (m *Message) Subject(s string) *Message {
	m.subject = s
	return m
}

// Body sets an HTML body.
func (m *Message) Body(html string) *Message {
	m.body = html
	m.html = true
	return m
}

// Text sets a plain-text body.
func (m *Message) Text(text string) *Message {
	m.body = text
	m.html = false
	return m
}

// Template renders an html/template file as the body. A render failure
// surfaces from Send rather than silently mailing a broken body.
func (m *Message) Template(path string, data interface{}) *Message {
	tmpl, err := template.ParseFiles(path)
	if err != nil {
		m.body = ""
		return m
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		m.body = ""
		return m
	}
	m.body = buf.String()
	m.html = true
	return m
}

// UseConfig overrides the SMTP settings for this message only.
func (m *Message) UseConfig(cfg Config) *Message {
	m.cfg = cfg
	return m
}

// Send delivers the message. Port 465 speaks TLS from the first byte;
// everything else goes through smtp.SendMail's STARTTLS upgrade. With
// no SMTP account configured the message is logged and dropped, so
// mail-less deployments keep working.
func (m *Message) Send() error {
	switch {
	case len(m.to) == 0:
		return fmt.Errorf("mail: no recipients")
	case m.body == "":
		return fmt.Errorf("mail: empty body")
	}

	if m.cfg.Username == "" {
		logger.Info("mail: smtp not configured, dropping message",
			"to", strings.Join(m.to, ", "), "subject", m.subject)
		return nil
	}

	recipients := append(append(append([]string{}, m.to...), m.cc...), m.bcc...)
	raw := m.encode()
	addr := m.cfg.Host + ":" + m.cfg.Port
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	if m.cfg.Port == "465" {
		return m.sendImplicitTLS(addr, auth, recipients, raw)
	}
	return smtp.SendMail(addr, auth, m.cfg.From, recipients, raw)
}

func (m *Message) sendImplicitTLS(addr string, auth smtp.Auth, recipients []string, raw []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.cfg.Host})
	if err != nil {
		return fmt.Errorf("mail: tls dial: %w", err)
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("mail: smtp handshake: %w", err)
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("mail: auth: %w", err)
	}
	if err := client.Mail(m.cfg.From); err != nil {
		return err
	}
	for _, rcpt := range recipients {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func (m *Message) encode() []byte {
	contentType := "text/plain"
	if m.html {
		contentType = "text/html"
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s <%s>\r\n", m.cfg.FromName, m.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(m.to, ", "))
	if len(m.cc) > 0 {
		fmt.Fprintf(&b, "Cc: %s\r\n", strings.Join(m.cc, ", "))
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", m.subject)
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: %s; charset=\"UTF-8\"\r\n\r\n", contentType)
	b.WriteString(m.body)
	return b.Bytes()
}
