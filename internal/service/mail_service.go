package service

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/config"
	"github.com/spec-kit/marketplace-service/internal/events"
)

// EmailVar is a template variable passed to the mail provider.
type EmailVar struct {
	Key   string
	Value string
}

// MailService sends templated mail through a Mailgun-style HTTP API.
// Delivery is best effort: failures are logged and swallowed, never retried,
// and never block the flow that triggered them.
type MailService struct {
	cfg        config.MailConfig
	client     *http.Client
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewMailService creates the service.
func NewMailService(cfg config.MailConfig, dispatcher events.Dispatcher, logger *zap.Logger) *MailService {
	return &MailService{
		cfg:        cfg,
		client:     &http.Client{Timeout: 10 * time.Second},
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to the events that trigger outbound mail.
func (m *MailService) RegisterHandlers() {
	if m.dispatcher == nil {
		return
	}
	m.dispatcher.Subscribe(events.EventAccountCreated, m.handleAccountCreated)
	m.dispatcher.Subscribe(events.EventEmailChanged, m.handleEmailChanged)
}

func (m *MailService) handleAccountCreated(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.AccountCreatedPayload)
	if !ok {
		return nil
	}
	go m.SendVerificationEmail(payload.Email, payload.VerificationCode)
	return nil
}

func (m *MailService) handleEmailChanged(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.EmailChangedPayload)
	if !ok {
		return nil
	}
	go m.SendVerificationEmail(payload.Email, payload.VerificationCode)
	return nil
}

// SendVerificationEmail sends the verify-email template to the recipient.
func (m *MailService) SendVerificationEmail(email, code string) {
	m.Send(email, "Verify Your Email", "verify-email", []EmailVar{
		{Key: "code", Value: code},
		{Key: "username", Value: email},
	})
}

// Send posts one templated message. Returns whether delivery was accepted;
// callers are free to ignore the result.
func (m *MailService) Send(to, subject, template string, vars []EmailVar) bool {
	if strings.TrimSpace(m.cfg.APIKey) == "" || strings.TrimSpace(m.cfg.Domain) == "" {
		m.logger.Debug("mail not configured; skipping send",
			zap.String("template", template))
		return false
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	_ = form.WriteField("from", fmt.Sprintf("Marketplace <%s>", m.cfg.FromEmail))
	_ = form.WriteField("to", to)
	_ = form.WriteField("subject", subject)
	_ = form.WriteField("template", template)
	for _, v := range vars {
		_ = form.WriteField("v:"+v.Key, v.Value)
	}
	if err := form.Close(); err != nil {
		m.logger.Warn("mail form build failed", zap.Error(err))
		return false
	}

	url := fmt.Sprintf("%s/%s/messages", strings.TrimRight(m.cfg.BaseURL, "/"), m.cfg.Domain)
	req, err := http.NewRequest(http.MethodPost, url, &body)
	if err != nil {
		m.logger.Warn("mail request build failed", zap.Error(err))
		return false
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.SetBasicAuth("api", m.cfg.APIKey)

	resp, err := m.client.Do(req)
	if err != nil {
		m.logger.Warn("mail send failed", zap.String("template", template), zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		m.logger.Warn("mail send rejected",
			zap.String("template", template),
			zap.Int("status", resp.StatusCode))
		return false
	}

	m.logger.Debug("mail sent",
		zap.String("to", to),
		zap.String("template", template))
	return true
}
