package email

import (
	"fmt"
	"html"
	"strings"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

type rendered struct {
	Subject string
	Text    string
	HTML    string
}

// render builds the mail for a notification template. Unknown templates are permanent failures.
func render(n domain.Notification) (rendered, error) {
	c := n.Context
	name := c["name"]
	if name == "" {
		name = "there"
	}

	var (
		subject string
		title   string
		lines   []string
	)
	switch n.Template {
	case domain.TemplateAdminNotification:
		subject = firstNonEmpty(c["subject"], "New verification request")
		title = "New verification request"
		lines = []string{
			firstNonEmpty(c["message"], "A user submitted verification documents."),
			fmt.Sprintf("Submitted by %s (%s).", c["name"], c["role"]),
			"Request ID: " + c["request_id"],
		}
	case domain.TemplateVerificationApproved:
		subject = firstNonEmpty(c["subject"], "Your verification was approved")
		title = "You're verified"
		lines = []string{
			"Hi " + name + ",",
			fmt.Sprintf("Your %s verification has been approved. You now have full access to the platform.", c["role"]),
		}
	case domain.TemplateVerificationRejected:
		subject = firstNonEmpty(c["subject"], "Your verification was not approved")
		title = "Verification not approved"
		lines = []string{
			"Hi " + name + ",",
			fmt.Sprintf("Your %s verification could not be approved.", c["role"]),
			"Reason: " + c["reason"],
			"You can submit new documents at any time.",
		}
	case domain.TemplateWaitlistConfirmation:
		subject = firstNonEmpty(c["subject"], "You're on the waitlist")
		title = "Thanks for joining the waitlist"
		lines = []string{
			"Hi " + name + ",",
			"We received your request to join. We'll email you as soon as a spot opens up.",
		}
	case domain.TemplateWaitlistApproval:
		subject = firstNonEmpty(c["subject"], "Your spot is ready")
		title = "Welcome aboard"
		lines = []string{
			"Hi " + name + ",",
			"Your waitlist request has been approved and you can now create your account.",
		}
		if link := c["link"]; link != "" {
			lines = append(lines, "Register here: "+link)
		}
	default:
		return rendered{}, PermanentError{msg: "unknown template: " + n.Template}
	}

	return rendered{
		Subject: subject,
		Text:    strings.Join(lines, "\n\n") + "\n",
		HTML:    renderBasicHTML(title, lines),
	}, nil
}

func renderBasicHTML(title string, paragraphs []string) string {
	var b strings.Builder
	b.WriteString(`<!doctype html>
<html>
  <body style="font-family:Arial,Helvetica,sans-serif; line-height:1.4;">
    <h2>` + html.EscapeString(title) + `</h2>
`)
	for _, p := range paragraphs {
		b.WriteString("    <p>" + html.EscapeString(p) + "</p>\n")
	}
	b.WriteString(`  </body>
</html>`)
	return b.String()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
