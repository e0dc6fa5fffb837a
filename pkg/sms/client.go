package sms

import (
	"context"
	"fmt"

	"github.com/Alijeyrad/scheduleease/config"
	"github.com/arsmn/go-smsir/smsir"
)

// Client provides SMS sending functionality via sms.ir.
type Client struct {
	client     *smsir.Client
	templateID string
	enabled    bool
}

// NewFromConfig creates a new SMS client from the application configuration.
// If SMS is disabled, returns a client that no-ops on all operations.
func NewFromConfig(cfg config.SMSConfig) (*Client, error) {
	if !cfg.Enabled {
		return &Client{enabled: false}, nil
	}

	if cfg.SMSIR.APIKey == "" {
		return nil, fmt.Errorf("sms.ir API key required when SMS enabled")
	}
	if cfg.SMSIR.TemplateID == "" {
		return nil, fmt.Errorf("sms.ir template ID required when SMS enabled")
	}

	client := smsir.NewClient().WithAuthentication(cfg.SMSIR.APIKey, cfg.SMSIR.SecretKey)

	return &Client{
		client:     client,
		templateID: cfg.SMSIR.TemplateID,
		enabled:    true,
	}, nil
}

// AppointmentNotice carries the template parameters of an appointment SMS.
// The sms.ir template must declare "name", "event", "description" and "time".
type AppointmentNotice struct {
	Name        string
	Event       string
	Description string
	Time        string
}

func (n AppointmentNotice) parameters() []smsir.UltraFastParameter {
	return []smsir.UltraFastParameter{
		{Key: "name", Value: n.Name},
		{Key: "event", Value: n.Event},
		{Key: "description", Value: n.Description},
		{Key: "time", Value: n.Time},
	}
}

// SendAppointmentNotice sends an appointment notice to phoneNumber (E.164)
// using the configured template. If SMS is disabled, this is a no-op.
func (c *Client) SendAppointmentNotice(ctx context.Context, phoneNumber string, n AppointmentNotice) error {
	if !c.enabled {
		return nil
	}

	if phoneNumber == "" {
		return fmt.Errorf("phone number is required")
	}
	if n.Event == "" {
		return fmt.Errorf("event is required")
	}

	req := &smsir.UltraFastSendRequest{
		Mobile:     phoneNumber,
		TemplateID: c.templateID,
		Parameters: n.parameters(),
	}

	if _, err := c.client.Verification.UltraFastSend(ctx, req); err != nil {
		return fmt.Errorf("sms.ir send failed: %w", err)
	}

	return nil
}

// IsEnabled returns whether SMS sending is enabled.
func (c *Client) IsEnabled() bool {
	return c.enabled
}
