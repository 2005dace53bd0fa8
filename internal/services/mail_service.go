package services

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"divelink/internal/config"
)

type MailService struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	Enabled  bool
}

func NewMailService(conf config.SMTP) *MailService {
	enabled := conf.Host != "" && conf.Port != "" && conf.User != "" && conf.Pass != "" && conf.From != ""
	if !enabled {
		log.Println("MailService disabled: missing SMTP configuration")
	}

	return &MailService{
		Host:     conf.Host,
		Port:     conf.Port,
		Username: conf.User,
		Password: conf.Pass,
		From:     conf.From,
		Enabled:  enabled,
	}
}

// sendAsync delivers in a goroutine; mail is best effort and never blocks
// the request path.
func (s *MailService) sendAsync(to []string, subject string, body string) {
	if !s.Enabled {
		return
	}

	go func() {
		auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
		addr := fmt.Sprintf("%s:%s", s.Host, s.Port)

		mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
		msg := []byte(fmt.Sprintf("To: %s\r\n"+
			"From: DiveLink <%s>\r\n"+
			"Subject: %s\r\n"+
			"%s\r\n%s", strings.Join(to, ","), s.From, subject, mime, body))

		err := smtp.SendMail(addr, auth, s.From, to, msg)
		if err != nil {
			log.Printf("Failed to send email to %v: %v", to, err)
		} else {
			log.Printf("Email sent to %v: %s", to, subject)
		}
	}()
}

func (s *MailService) SendVerificationEmail(email, code string) {
	body := fmt.Sprintf(`<p>다이브링크 가입을 환영합니다!</p>
<p>아래 인증 코드를 입력하면 이메일 인증이 완료됩니다.</p>
<p style="font-size:24px;font-weight:bold">%s</p>`, code)
	s.sendAsync([]string{email}, "DiveLink 이메일 인증 코드", body)
}

func (s *MailService) SendPasswordResetEmail(email, code string) {
	body := fmt.Sprintf(`<p>비밀번호 재설정을 요청하셨습니다.</p>
<p>아래 코드를 입력해 비밀번호를 재설정하세요. 본인이 요청하지 않았다면 이 메일을 무시하세요.</p>
<p style="font-size:24px;font-weight:bold">%s</p>`, code)
	s.sendAsync([]string{email}, "[DiveLink] 비밀번호 재설정 코드", body)
}

func (s *MailService) SendCommentNotification(email, commenter, postTitle, snippet, postLink string) {
	body := fmt.Sprintf(`<p><b>%s</b>님이 회원님의 글 <b>%s</b>에 댓글을 남겼습니다.</p>
<blockquote>%s</blockquote>
<p><a href="%s">글 보러 가기</a></p>`, commenter, postTitle, snippet, postLink)
	s.sendAsync([]string{email}, "💬 "+commenter+"님이 댓글을 남겼습니다", body)
}
