package email

import (
	"fmt"
	"html"
	"strings"
)

// AppointmentEmailData feeds the participant notification templates.
type AppointmentEmailData struct {
	AppName       string
	RecipientName string
	Email         string
	Headline      string // e.g. "scheduled", "rescheduled", "cancelled"
	Description   string
	When          string
	Where         string
	Link          string
}

// BuildAppointmentEmail renders the notice sent to a participant whenever an
// appointment they are part of changes.
func BuildAppointmentEmail(data AppointmentEmailData) Message {
	appName := data.AppName
	if appName == "" {
		appName = "Schedule Ease"
	}

	name := data.RecipientName
	if name == "" {
		name = "there"
	}

	subject := fmt.Sprintf("Appointment %s: %s", data.Headline, data.Description)

	var text strings.Builder
	fmt.Fprintf(&text, "Hi %s,\n\n", name)
	fmt.Fprintf(&text, "Your appointment \"%s\" has been %s.\n\n", data.Description, data.Headline)
	fmt.Fprintf(&text, "When: %s\n", data.When)
	if data.Where != "" {
		fmt.Fprintf(&text, "Where: %s\n", data.Where)
	}
	if data.Link != "" {
		fmt.Fprintf(&text, "Join: %s\n", data.Link)
	}
	fmt.Fprintf(&text, "\nThe calendar invite is attached.\n\nThanks,\nThe %s Team", appName)

	var rows strings.Builder
	fmt.Fprintf(&rows, `<p><strong>When:</strong> %s</p>`, html.EscapeString(data.When))
	if data.Where != "" {
		fmt.Fprintf(&rows, `<p><strong>Where:</strong> %s</p>`, html.EscapeString(data.Where))
	}
	if data.Link != "" {
		fmt.Fprintf(&rows, `<p style="text-align: center; margin: 30px 0;">
        <a href="%s" style="background-color: #2563eb; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Join meeting</a>
    </p>`, html.EscapeString(data.Link))
	}

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2563eb;">Hi %s,</h2>
    <p>Your appointment <strong>%s</strong> has been %s.</p>
    %s
    <p style="color: #6b7280; font-size: 14px;">The calendar invite is attached.</p>
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">Thanks,<br>The %s Team</p>
</body>
</html>`,
		html.EscapeString(name), html.EscapeString(data.Description), html.EscapeString(data.Headline),
		rows.String(), html.EscapeString(appName))

	return Message{
		To:       []string{data.Email},
		Subject:  subject,
		TextBody: text.String(),
		HTMLBody: htmlBody,
	}
}
