// Package notification delivers appointment notices by email and SMS and
// drives Keycloak account emails.
package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Alijeyrad/scheduleease/internal/model"
	"github.com/Alijeyrad/scheduleease/internal/service/appointment"
	"github.com/Alijeyrad/scheduleease/pkg/calendar"
	"github.com/Alijeyrad/scheduleease/pkg/email"
	"github.com/Alijeyrad/scheduleease/pkg/keycloak"
	"github.com/Alijeyrad/scheduleease/pkg/phone"
	"github.com/Alijeyrad/scheduleease/pkg/sms"
)

// ---------------------------------------------------------------------------
// Dependencies
// ---------------------------------------------------------------------------

// Mailer is satisfied by *email.Client.
type Mailer interface {
	Enabled() bool
	AppName() string
	Send(ctx context.Context, m email.Message) error
}

// Texter is satisfied by *sms.Client.
type Texter interface {
	IsEnabled() bool
	SendAppointmentNotice(ctx context.Context, phoneNumber string, n sms.AppointmentNotice) error
}

// ActionEmailer is satisfied by *keycloak.Client.
type ActionEmailer interface {
	ExecuteActionsEmail(ctx context.Context, bearer, userID string, actions []string) error
}

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

// Envelope is a free-form email.
type Envelope struct {
	To          []string
	CC          []string
	BCC         []string
	Subject     string
	Text        string
	HTML        string
	Attachments []email.Attachment
}

type Config struct {
	Organizer   string
	PhoneRegion string
	Location    *time.Location
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	SendEmail(ctx context.Context, env Envelope) error
	SendPasswordSetupEmail(ctx context.Context, bearer, userID string) error
	NotifyParticipants(ctx context.Context, ev appointment.Event) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type Notifier struct {
	mail   Mailer
	sms    Texter
	idp    ActionEmailer
	logger *slog.Logger
	cfg    Config
}

var _ Service = (*Notifier)(nil)

func New(mail Mailer, texter Texter, idp ActionEmailer, logger *slog.Logger, cfg Config) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.PhoneRegion == "" {
		cfg.PhoneRegion = phone.DefaultRegion
	}
	return &Notifier{mail: mail, sms: texter, idp: idp, logger: logger, cfg: cfg}
}

func (n *Notifier) SendEmail(ctx context.Context, env Envelope) error {
	if len(env.To) == 0 {
		return ErrNoRecipients
	}
	err := n.mail.Send(ctx, email.Message{
		To:          env.To,
		CC:          env.CC,
		BCC:         env.BCC,
		Subject:     env.Subject,
		TextBody:    env.Text,
		HTMLBody:    env.HTML,
		Attachments: env.Attachments,
	})
	if err != nil {
		n.logger.ErrorContext(ctx, "send email failed", slog.String("op", "SendEmail"), slog.Any("error", err))
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

// SendPasswordSetupEmail asks Keycloak to mail userID a password setup link.
// bearer is the caller's access token; Keycloak decides if it may do so.
func (n *Notifier) SendPasswordSetupEmail(ctx context.Context, bearer, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrMissingUserID
	}
	if bearer == "" {
		return ErrMissingToken
	}
	err := n.idp.ExecuteActionsEmail(ctx, bearer, userID, []string{keycloak.UpdatePassword})
	if err != nil {
		n.logger.ErrorContext(ctx, "password setup email failed",
			slog.String("op", "SendPasswordSetupEmail"),
			slog.String("user_id", userID),
			slog.Any("error", err))
		return err
	}
	return nil
}

var headlines = map[appointment.EventType]string{
	appointment.EventCreated:     "scheduled",
	appointment.EventRescheduled: "rescheduled",
	appointment.EventCancelled:   "cancelled",
	appointment.EventAssigned:    "updated",
}

// NotifyParticipants sends every participant an email with the calendar
// entry attached and an SMS when a phone number is known. A failed delivery
// does not stop the others; all failures are returned joined.
func (n *Notifier) NotifyParticipants(ctx context.Context, ev appointment.Event) error {
	headline, ok := headlines[ev.Type]
	if !ok {
		return nil
	}

	v := ev.Appointment
	method := calendar.MethodRequest
	if ev.Type == appointment.EventCancelled {
		method = calendar.MethodCancel
	}

	entry := appointment.CalendarEventFor(v, n.cfg.Organizer)
	ics, err := calendar.Render(method, entry)
	if err != nil {
		return fmt.Errorf("render calendar: %w", err)
	}

	when := n.formatWindow(v.StartTime, v.EndTime)
	where := ""
	if v.LocationType != model.LocationOnline {
		where = entry.Location
	}

	var errs []error
	for _, p := range v.Participants {
		attr := p.ContactMedium.Attribute

		if attr.Email != "" && n.mail != nil && n.mail.Enabled() {
			msg := email.BuildAppointmentEmail(email.AppointmentEmailData{
				AppName:       n.mail.AppName(),
				RecipientName: p.Name,
				Email:         attr.Email,
				Headline:      headline,
				Description:   v.Description,
				When:          when,
				Where:         where,
				Link:          v.LocationLink,
			})
			msg.Attachments = []email.Attachment{{
				Filename:    "invite.ics",
				ContentType: fmt.Sprintf("text/calendar; charset=utf-8; method=%s", method),
				Data:        ics,
			}}
			if err := n.mail.Send(ctx, msg); err != nil {
				n.warn(ctx, ev, "email", err)
				errs = append(errs, fmt.Errorf("email %s: %w", attr.Email, err))
			}
		}

		if attr.PhoneNumber != "" && n.sms != nil && n.sms.IsEnabled() {
			number := phone.Normalize(attr.PhoneNumber, n.cfg.PhoneRegion)
			err := n.sms.SendAppointmentNotice(ctx, number, sms.AppointmentNotice{
				Name:        p.Name,
				Event:       headline,
				Description: v.Description,
				Time:        when,
			})
			if err != nil {
				n.warn(ctx, ev, "sms", err)
				errs = append(errs, fmt.Errorf("sms %s: %w", number, err))
			}
		}
	}

	return errors.Join(errs...)
}

func (n *Notifier) formatWindow(start, end time.Time) string {
	s := start.In(n.cfg.Location)
	e := end.In(n.cfg.Location)
	if s.YearDay() == e.YearDay() && s.Year() == e.Year() {
		return s.Format("Mon, 02 Jan 2006 15:04") + " - " + e.Format("15:04 MST")
	}
	return s.Format("Mon, 02 Jan 2006 15:04") + " - " + e.Format("Mon, 02 Jan 2006 15:04 MST")
}

func (n *Notifier) warn(ctx context.Context, ev appointment.Event, channel string, err error) {
	n.logger.WarnContext(ctx, "participant notification failed",
		slog.String("op", "NotifyParticipants"),
		slog.String("channel", channel),
		slog.String("event", string(ev.Type)),
		slog.String("appointment_id", ev.AppointmentID.String()),
		slog.Any("error", err))
}
