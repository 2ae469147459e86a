package mailer

// Template names understood by the email worker.
const (
	TemplateUserWelcome    = "user_welcome"
	TemplateAccountDeleted = "account_deleted"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Text is a plain fallback; Template+Data render an HTML body in the worker.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}
