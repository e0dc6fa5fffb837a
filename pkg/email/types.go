package email

type Message struct {
	To          []string
	CC          []string
	BCC         []string
	Subject     string
	TextBody    string
	HTMLBody    string
	Headers     map[string]string
	Attachments []Attachment
}

// Attachment is sent inline with the message. ContentType defaults to
// application/octet-stream.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}
