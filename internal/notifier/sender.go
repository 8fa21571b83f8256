package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/taskboard/internal/constants"
	"github.com/julianstephens/taskboard/internal/logger"
)

// Sender delivers one notification. Implementations must not retry.
type Sender interface {
	Send(ctx context.Context, p Payload) error
	Name() string
}

// WebhookSender POSTs the payload as JSON with a shared-secret header.
type WebhookSender struct {
	URL    string
	Secret string
	Client *http.Client
}

func NewWebhookSender(url, secret string, timeout time.Duration) *WebhookSender {
	return &WebhookSender{
		URL:    url,
		Secret: secret,
		Client: &http.Client{Timeout: timeout},
	}
}

func (w *WebhookSender) Name() string { return constants.TransportWebhook }

func (w *WebhookSender) Send(ctx context.Context, p Payload) error {
	jsonData, err := json.Marshal(p)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if w.Secret != "" {
		req.Header.Set(constants.WebhookSecretHdr, w.Secret)
	}

	client := w.Client
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
}

// SendMailFunc matches net/smtp.SendMail.
type SendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender mails the owner an HTML message.
type SMTPSender struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string

	sendMail SendMailFunc
}

func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
		sendMail: smtp.SendMail,
	}
}

func (s *SMTPSender) Name() string { return constants.TransportSMTP }

func (s *SMTPSender) Send(_ context.Context, p Payload) error {
	from, err := mail.ParseAddress(s.From)
	if err != nil {
		return fmt.Errorf("invalid sender address %q: %w", s.From, err)
	}
	to, err := mail.ParseAddress(p.OwnerEmail)
	if err != nil {
		return fmt.Errorf("invalid recipient address %q: %w", p.OwnerEmail, err)
	}

	msg, err := buildMessage(from, to, p)
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if s.Username != "" {
		auth = smtp.PlainAuth("", s.Username, s.Password, s.Host)
	}

	addr := net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
	return s.sendMail(addr, auth, from.Address, []string{to.Address}, msg)
}

func buildMessage(from, to *mail.Address, p Payload) ([]byte, error) {
	body, err := p.HTMLBody()
	if err != nil {
		return nil, fmt.Errorf("failed to render message: %w", err)
	}

	var b strings.Builder
	b.WriteString("From: " + from.String() + "\r\n")
	b.WriteString("To: " + to.String() + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", p.Subject()) + "\r\n")
	b.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return []byte(b.String()), nil
}

// LogSender only records the notification in the log.
type LogSender struct{}

func (LogSender) Name() string { return constants.TransportLog }

func (LogSender) Send(_ context.Context, p Payload) error {
	logger.Info(p.Subject(), "to", p.OwnerEmail, "task", p.TaskID, "status", p.Status, "due", p.DueDate)
	return nil
}
