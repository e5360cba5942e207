package notify

import (
	"fmt"
	"html/template"
	"strings"
)

var notificationTmpl = template.Must(template.New("notification").Parse(`<html>
<body>
    <h2>New Website Submission Received</h2>
    <p><strong>Name:</strong> {{.FirstName}}</p>
    <p><strong>Email:</strong> {{.Email}}</p>
    <p><strong>Phone:</strong> {{.PhoneNumber}}</p>
    <p><strong>Has Website:</strong> {{.HasWebsite}}</p>
    <p><strong>Website Name:</strong> {{.WebsiteName}}</p>
    <p><strong>Website Description:</strong></p>
    <p>{{.WebsiteDescription}}</p>
    <p><strong>Service:</strong> {{.Service}}</p>
    <p><strong>Timestamp:</strong> {{.Timestamp}}</p>
    <hr>
    <p><em>Sent automatically by Lead Needle.</em></p>
</body>
</html>`))

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<html>
<body>
    <h2>Thank you for your submission!</h2>
    <p>Hi {{.Greeting}},</p>
    <p>We've received your website submission and will be in touch soon!</p>
    <h3>Your Submission Details:</h3>
    <p><strong>Name:</strong> {{.FirstName}}</p>
    <p><strong>Email:</strong> {{.Email}}</p>
    <p><strong>Phone:</strong> {{.PhoneNumber}}</p>
    <p><strong>Has Website:</strong> {{.HasWebsite}}</p>
    <p>We'll review your requirements and get back to you within 24 hours.</p>
    <p>Best regards,<br>
    The Free Website Wizards Team</p>
    <hr>
    <p><em>Sent automatically by Lead Needle.</em></p>
</body>
</html>`))

type templateData struct {
	Submission
	Greeting string
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func newTemplateData(sub Submission) templateData {
	greeting := strings.TrimSpace(sub.FirstName)
	if greeting == "" {
		greeting = "there"
	}
	return templateData{
		Submission: Submission{
			FirstName:          orNA(sub.FirstName),
			LastName:           sub.LastName,
			Email:              orNA(sub.Email),
			PhoneNumber:        orNA(sub.PhoneNumber),
			WebsiteName:        orNA(sub.WebsiteName),
			WebsiteDescription: orNA(sub.WebsiteDescription),
			HasWebsite:         orNA(sub.HasWebsite),
			Service:            orNA(sub.Service),
			Message:            sub.Message,
			Timestamp:          orNA(sub.Timestamp),
		},
		Greeting: greeting,
	}
}

func renderNotification(sub Submission) (subject, body string) {
	name := strings.TrimSpace(sub.FirstName)
	if name == "" {
		name = "Unknown"
	}
	subject = fmt.Sprintf("New Website Submission - %s", name)

	var b strings.Builder
	if err := notificationTmpl.Execute(&b, newTemplateData(sub)); err != nil {
		// templates are static and parse at init; execution cannot fail on
		// string fields, but keep the body non-empty if it ever does
		return subject, "<p>New submission received.</p>"
	}
	return subject, b.String()
}

func renderConfirmation(sub Submission) (subject, body string) {
	subject = "Thank you for your website submission!"

	var b strings.Builder
	if err := confirmationTmpl.Execute(&b, newTemplateData(sub)); err != nil {
		return subject, "<p>Thank you for your submission!</p>"
	}
	return subject, b.String()
}
