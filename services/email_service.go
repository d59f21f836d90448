package services

import (
	"fmt"
	"net/smtp"
	"os"
	"strings"

	"golang.org/x/net/html"
)

// EmailService sends the report-ready notification mail. SMTP settings
// come from the environment; a missing host disables sending without
// failing the caller.
type EmailService struct {
	host     string
	port     string
	from     string
	username string
	password string
}

func NewEmailService() *EmailService {
	return &EmailService{
		host:     os.Getenv("SMTP_HOST"),
		port:     os.Getenv("SMTP_PORT"),
		from:     os.Getenv("SMTP_FROM"),
		username: os.Getenv("SMTP_USERNAME"),
		password: os.Getenv("SMTP_PASSWORD"),
	}
}

// Enabled reports whether SMTP is configured.
func (es *EmailService) Enabled() bool {
	return es.host != ""
}

// convertHTMLToText flattens an HTML body to a plain-text alternative
// for clients that do not render HTML.
func convertHTMLToText(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return htmlContent
	}

	var text strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			text.WriteString(n.Data)
		case html.ElementNode:
			switch n.Data {
			case "p", "div", "br", "h1", "h2", "h3", "h4", "h5", "h6", "table", "tr":
				text.WriteString("\n")
			case "li":
				text.WriteString("- ")
			case "td", "th":
				text.WriteString(" | ")
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			extractText(child)
		}
	}
	extractText(doc)

	result := text.String()
	result = strings.ReplaceAll(result, "\n\n\n", "\n\n")
	return strings.TrimSpace(result)
}

// SendReportReady notifies a user that a generated report is ready for
// download. The HTML body is sent as flattened plain text.
func (es *EmailService) SendReportReady(to, projectName, reportName string) error {
	if !es.Enabled() {
		return nil
	}

	subject := fmt.Sprintf("Report ready: %s", reportName)
	bodyHTML := fmt.Sprintf(
		"<p>The report <b>%s</b> for project <b>%s</b> has been generated and is ready for download.</p>",
		reportName, projectName)

	return es.sendEmail(to, subject, convertHTMLToText(bodyHTML))
}

func (es *EmailService) sendEmail(to, subject, body string) error {
	auth := smtp.PlainAuth("", es.username, es.password, es.host)

	headers := []string{
		"From: " + es.from,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}
	msg := []byte(strings.Join(headers, "\r\n") + "\r\n")

	addr := es.host + ":" + es.port
	if err := smtp.SendMail(addr, auth, es.from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %v", to, err)
	}
	return nil
}
