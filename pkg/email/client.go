// Package email sends appointment notices and invitations over SMTP with
// gomail.
package email

import (
	"context"
	"crypto/tls"
	"io"
	"strings"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/Alijeyrad/scheduleease/config"
)

type Client struct {
	cfg  Config
	send func(*gomail.Message) error
}

func NewFromCentral(cfg config.EmailConfig) (*Client, error) {
	return New(FromCentralConfig(cfg))
}

func New(cfg Config) (*Client, error) {
	c := &Client{cfg: cfg}
	d := c.dialer()
	c.send = func(m *gomail.Message) error { return d.DialAndSend(m) }
	return c, nil
}

func (c *Client) Enabled() bool   { return c.cfg.Enabled }
func (c *Client) AppName() string { return c.cfg.AppName }

// Send validates m and delivers it, giving up at the earlier of the ctx
// deadline and the SMTP timeout. A delivery that outlives the wait keeps
// running in the background.
func (c *Client) Send(ctx context.Context, m Message) error {
	if !c.cfg.Enabled {
		return ErrDisabled
	}
	if err := validate(c.cfg.From, m); err != nil {
		return err
	}
	msg := compose(c.cfg.From, c.cfg.AppName, m)

	timeout := c.cfg.SMTP.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- c.send(msg) }()

	select {
	case err := <-done:
		if err != nil {
			return &SendError{Host: c.cfg.SMTP.Host, Err: err}
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) dialer() *gomail.Dialer {
	s := c.cfg.SMTP
	d := gomail.NewDialer(s.Host, s.Port, s.Username, s.Password)
	d.SSL = s.ImplicitTLS
	d.TLSConfig = &tls.Config{ServerName: s.Host, MinVersion: tls.VersionTLS12}
	return d
}

func validate(from string, m Message) error {
	switch {
	case strings.TrimSpace(from) == "":
		return invalid("from is required")
	case len(trimAll(m.To)) == 0:
		return invalid("at least one recipient is required")
	case strings.TrimSpace(m.Subject) == "":
		return invalid("subject is required")
	case strings.TrimSpace(m.TextBody) == "" && strings.TrimSpace(m.HTMLBody) == "":
		return invalid("either TextBody or HTMLBody is required")
	}
	for _, a := range m.Attachments {
		if strings.TrimSpace(a.Filename) == "" {
			return invalid("attachment filename is required")
		}
	}
	return nil
}

// compose expects a message that passed validate. The plain text part comes
// first so clients that prefer the last alternative render HTML.
func compose(from, fromName string, m Message) *gomail.Message {
	msg := gomail.NewMessage(gomail.SetCharset("UTF-8"))
	msg.SetAddressHeader("From", strings.TrimSpace(from), fromName)
	msg.SetHeader("To", trimAll(m.To)...)
	if cc := trimAll(m.CC); len(cc) > 0 {
		msg.SetHeader("Cc", cc...)
	}
	if bcc := trimAll(m.BCC); len(bcc) > 0 {
		msg.SetHeader("Bcc", bcc...)
	}
	msg.SetHeader("Subject", strings.TrimSpace(m.Subject))
	msg.SetDateHeader("Date", time.Now())
	for k, v := range m.Headers {
		if k, v = strings.TrimSpace(k), strings.TrimSpace(v); k != "" && v != "" {
			msg.SetHeader(k, v)
		}
	}

	text, html := strings.TrimSpace(m.TextBody) != "", strings.TrimSpace(m.HTMLBody) != ""
	switch {
	case text && html:
		msg.SetBody("text/plain", m.TextBody)
		msg.AddAlternative("text/html", m.HTMLBody)
	case html:
		msg.SetBody("text/html", m.HTMLBody)
	default:
		msg.SetBody("text/plain", m.TextBody)
	}

	for _, a := range m.Attachments {
		data, ct := a.Data, a.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		msg.Attach(a.Filename,
			gomail.SetHeader(map[string][]string{"Content-Type": {ct}}),
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
		)
	}
	return msg
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
