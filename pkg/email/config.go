package email

import (
	"time"

	"github.com/Alijeyrad/scheduleease/config"
)

const defaultTimeout = 30 * time.Second

type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	// ImplicitTLS dials TLS directly (port 465). Otherwise gomail upgrades
	// with STARTTLS when the server offers it.
	ImplicitTLS bool
	Timeout     time.Duration
}

type Config struct {
	Enabled bool
	From    string
	// AppName is used as the From display name and in message footers.
	AppName string
	SMTP    SMTP
}

func DefaultConfig() Config {
	return Config{
		AppName: "Schedule Ease",
		SMTP:    SMTP{Port: 587, Timeout: defaultTimeout},
	}
}

func FromCentralConfig(c config.EmailConfig) Config {
	out := DefaultConfig()
	out.Enabled = c.Enabled
	out.From = c.From
	if c.AppName != "" {
		out.AppName = c.AppName
	}
	out.SMTP.Host = c.SMTP.Host
	out.SMTP.Username = c.SMTP.Username
	out.SMTP.Password = c.SMTP.Password
	out.SMTP.ImplicitTLS = c.SMTP.UseTLS
	if c.SMTP.Port > 0 {
		out.SMTP.Port = c.SMTP.Port
	}
	if c.SMTP.TimeoutSeconds > 0 {
		out.SMTP.Timeout = time.Duration(c.SMTP.TimeoutSeconds) * time.Second
	}
	return out
}
