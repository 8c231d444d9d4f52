package domain

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders a named email template into subject, HTML,
// and plain-text bodies.
type EmailTemplateRenderer interface {
	Render(templateName string, data interface{}) (subject, htmlBody, textBody string, err error)
}

// RegistrationEmailData is the payload for the registration confirmation template.
type RegistrationEmailData struct {
	Name       string
	EventTitle string
	EventDate  string
	Location   string
}
