package utils

import (
	"fmt"
	"strconv"
	"time"

	"leadflow/config"

	"gopkg.in/gomail.v2"
)

// Mailer sends operational notification emails (task reminders, assignment
// notices) over the configured SMTP relay.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer() *Mailer {
	port, err := strconv.Atoi(config.AppConfig.SMTPPort)
	if err != nil {
		port = 587
	}
	return &Mailer{
		dialer: gomail.NewDialer(
			config.AppConfig.SMTPHost,
			port,
			config.AppConfig.SMTPUsername,
			config.AppConfig.SMTPPassword,
		),
		from: config.AppConfig.FromEmail,
	}
}

// SendTaskReminder emails an assignee about a task due today.
func (m *Mailer) SendTaskReminder(to, assigneeName, taskTitle, comment string, dueDate time.Time) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Task due today: %s", taskTitle))
	msg.SetBody("text/html", fmt.Sprintf(
		"<p>Hi %s,</p><p>Your task <b>%s</b> is due on %s.</p><p>%s</p><p>LeadFlow</p>",
		assigneeName, taskTitle, dueDate.Format("02 Jan 2006"), comment,
	))
	return m.dialer.DialAndSend(msg)
}

// SendAssignmentNotice emails a user about a prospect newly assigned to them.
func (m *Mailer) SendAssignmentNotice(to, assigneeName, prospectName string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("New prospect assigned: %s", prospectName))
	msg.SetBody("text/html", fmt.Sprintf(
		"<p>Hi %s,</p><p>The prospect <b>%s</b> has been assigned to you.</p><p>LeadFlow</p>",
		assigneeName, prospectName,
	))
	return m.dialer.DialAndSend(msg)
}
