package services

import (
	"errors"
	"fmt"

	"falaquiz/models"

	"github.com/resend/resend-go/v2"
)

// ReminderService sends "quiz pending" emails to students through Resend.
// This is a collaborator side-channel: the core only supplies the list of
// students who have not completed a quiz.
type ReminderService struct {
	client *resend.Client
	sender string
}

func NewReminderService(apiKey, sender string) *ReminderService {
	s := &ReminderService{sender: sender}
	if apiKey != "" {
		s.client = resend.NewClient(apiKey)
	}
	return s
}

// SendReminder emails one student about one pending quiz. The body is
// bilingual, matching the platform's Portuguese/English UI.
func (s *ReminderService) SendReminder(student *models.User, quiz *models.Quiz) error {
	if s.client == nil {
		return errors.New("resend api key not configured")
	}

	params := &resend.SendEmailRequest{
		From:    s.sender,
		To:      []string{student.Email},
		Subject: fmt.Sprintf("Lembrete: Quiz %q aguardando | Reminder: Quiz %q pending", quiz.Name, quiz.Name),
		Html: fmt.Sprintf(`
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2>Olá, %s!</h2>
				<p>Este é um lembrete amigável de que você ainda não completou o quiz:</p>
				<h3>%s</h3>
				<p>Acesse a plataforma FALA para completar este quiz quando puder.</p>
				<hr style="margin: 30px 0; border: none; border-top: 1px solid #ccc;" />
				<h2>Hello, %s!</h2>
				<p>This is a friendly reminder that you haven't completed the quiz yet:</p>
				<h3>%s</h3>
				<p>Please access the FALA platform to complete this quiz when you can.</p>
				<br />
				<p>Atenciosamente, / Best regards,<br /><strong>Equipe FALA Education / FALA Education Team</strong></p>
			</div>`,
			student.Name, quiz.Name, student.Name, quiz.Name),
	}

	_, err := s.client.Emails.Send(params)
	return err
}
