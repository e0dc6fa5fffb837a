package sms

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/scheduleease/config"
)

func TestNewFromConfig(t *testing.T) {
	full := config.SMSIRConfig{APIKey: "key", SecretKey: "secret", TemplateID: "100200"}

	tests := []struct {
		name        string
		cfg         config.SMSConfig
		wantErr     string
		wantEnabled bool
	}{
		{name: "disabled ignores credentials", cfg: config.SMSConfig{}},
		{
			name:    "missing api key",
			cfg:     config.SMSConfig{Enabled: true, SMSIR: config.SMSIRConfig{TemplateID: "100200"}},
			wantErr: "API key",
		},
		{
			name:    "missing template",
			cfg:     config.SMSConfig{Enabled: true, SMSIR: config.SMSIRConfig{APIKey: "key"}},
			wantErr: "template ID",
		},
		{name: "enabled", cfg: config.SMSConfig{Enabled: true, SMSIR: full}, wantEnabled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewFromConfig(tt.cfg)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantEnabled, c.IsEnabled())
			if tt.wantEnabled {
				assert.Equal(t, "100200", c.templateID)
				assert.NotNil(t, c.client)
			}
		})
	}
}

func TestSendAppointmentNotice(t *testing.T) {
	ctx := context.Background()

	disabled := &Client{}
	assert.NoError(t, disabled.SendAppointmentNotice(ctx, "", AppointmentNotice{}))

	c := &Client{enabled: true, templateID: "100200"}
	assert.ErrorContains(t, c.SendAppointmentNotice(ctx, "", AppointmentNotice{Event: "created"}), "phone number")
	assert.ErrorContains(t, c.SendAppointmentNotice(ctx, "+14155550100", AppointmentNotice{}), "event")
}

func TestAppointmentNoticeParameters(t *testing.T) {
	params := AppointmentNotice{Name: "Ann", Event: "cancelled", Description: "Checkup", Time: "10:00"}.parameters()

	got := make(map[string]string, len(params))
	for _, p := range params {
		got[p.Key] = p.Value
	}
	assert.Equal(t, map[string]string{
		"name": "Ann", "event": "cancelled", "description": "Checkup", "time": "10:00",
	}, got)
}
