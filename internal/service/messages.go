package service

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/devsamp/devsamp-bfa-go/internal/domain"
)

var layout = template.Must(template.New("layout").Parse(`<!DOCTYPE html>
<html><body style="font-family:Arial,sans-serif;color:#1f2937;line-height:1.5">
<div style="max-width:560px;margin:0 auto;padding:24px">
<h2 style="color:#4f46e5">{{.Heading}}</h2>
{{range .Paragraphs}}<p>{{.}}</p>{{end}}
{{if .Rows}}<table cellpadding="6" style="border-collapse:collapse">
{{range .Rows}}<tr><td><strong>{{.Label}}:</strong></td><td>{{.Value}}</td></tr>{{end}}
</table>{{end}}
<p style="color:#6b7280;font-size:12px">{{.Agency}}</p>
</div></body></html>`))

type row struct {
	Label string
	Value string
}

type page struct {
	Agency     string
	Heading    string
	Paragraphs []string
	Rows       []row
}

// Messages renders every transactional email the back office sends.
type Messages struct {
	Agency string
}

func (m Messages) render(p page) string {
	p.Agency = m.Agency
	var buf bytes.Buffer
	if err := layout.Execute(&buf, p); err != nil {
		// Text is always sent; the HTML part is dropped.
		return ""
	}
	return buf.String()
}

func (m Messages) Welcome(e *domain.ClientEngagement) domain.Message {
	text := fmt.Sprintf("Your project %q has been created. You can now login to view progress.", e.Title)
	return domain.Message{
		Kind:    domain.NotifyWelcome,
		To:      e.ClientEmail,
		Subject: fmt.Sprintf("Welcome to %s Dashboard!", m.Agency),
		Text:    text,
		HTML:    m.render(page{Heading: "Welcome aboard!", Paragraphs: []string{text}}),
	}
}

func (m Messages) StatusChanged(e *domain.ClientEngagement) domain.Message {
	text := fmt.Sprintf("Your project status has been updated to: %s. Check your dashboard for details.", e.Status)
	return domain.Message{
		Kind:    domain.NotifyStatus,
		To:      e.ClientEmail,
		Subject: "Project Update: " + e.Title,
		Text:    text,
		HTML:    m.render(page{Heading: "Project Update: " + e.Title, Paragraphs: []string{text}}),
	}
}

func (m Messages) Completed(e *domain.ClientEngagement) domain.Message {
	text := fmt.Sprintf("Congratulations! Your project %q is fully completed. Please review everything on your dashboard.", e.Title)
	return domain.Message{
		Kind:    domain.NotifyCompletion,
		To:      e.ClientEmail,
		Subject: "🎉 Project Completed: " + e.Title,
		Text:    text,
		HTML:    m.render(page{Heading: "Project Completed", Paragraphs: []string{text}}),
	}
}

func (m Messages) LeadForAdmin(l *domain.Lead, to string) domain.Message {
	return domain.Message{
		Kind:    domain.NotifyLeadAdmin,
		To:      to,
		Subject: "New Inquiry from " + l.Name,
		Text: fmt.Sprintf("Name: %s\nEmail: %s\nService: %s\nMessage: %s",
			l.Name, l.Email, l.Service, l.Message),
		HTML: m.render(page{
			Heading: "New Client Inquiry",
			Rows: []row{
				{"Name", l.Name},
				{"Email", l.Email},
				{"Service", l.Service},
				{"Message", l.Message},
			},
		}),
	}
}

func (m Messages) LeadAck(l *domain.Lead) domain.Message {
	text := fmt.Sprintf("Hi %s, thanks for reaching out to %s. We received your message and will get back to you shortly.", l.Name, m.Agency)
	return domain.Message{
		Kind:    domain.NotifyLeadAck,
		To:      l.Email,
		Subject: "We received your message! - " + m.Agency,
		Text:    text,
		HTML:    m.render(page{Heading: "Thanks for contacting us", Paragraphs: []string{text}}),
	}
}

func (m Messages) PasswordReset(u *domain.User, token string) domain.Message {
	text := fmt.Sprintf("Use this code to reset your password. It expires in %d minutes.\n\n%s",
		int(resetTokenTTL.Minutes()), token)
	return domain.Message{
		Kind:    domain.NotifyPasswordReset,
		To:      u.Email,
		Subject: "Reset your " + m.Agency + " password",
		Text:    text,
		HTML: m.render(page{
			Heading: "Password reset",
			Paragraphs: []string{
				fmt.Sprintf("Use this code to reset your password. It expires in %d minutes.", int(resetTokenTTL.Minutes())),
				token,
			},
		}),
	}
}
