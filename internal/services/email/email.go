package email

import (
	"bytes"
	"crypto/tls"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"

	"github.com/Almaty808/Fast-Charge-sub000/internal/config"
)

// loginAuth реализует SMTP AUTH LOGIN (не поддерживается стандартной библиотекой Go)
type loginAuth struct {
	username, password string
}

func LoginAuth(username, password string) smtp.Auth {
	return &loginAuth{username, password}
}

func (a *loginAuth) Start(server *smtp.ServerInfo) (string, []byte, error) {
	return "LOGIN", []byte(a.username), nil
}

func (a *loginAuth) Next(fromServer []byte, more bool) ([]byte, error) {
	if more {
		switch strings.ToLower(string(fromServer)) {
		case "username:", "login:":
			return []byte(a.username), nil
		case "password:":
			return []byte(a.password), nil
		default:
			return nil, errors.New("неизвестный запрос SMTP LOGIN: " + string(fromServer))
		}
	}
	return nil, nil
}

// Attachment - вложение к письму
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Service - сервис отправки email
type Service struct {
	cfg config.EmailConfig
}

// NewService создаёт новый email-сервис
func NewService(cfg config.EmailConfig) *Service {
	return &Service{cfg: cfg}
}

// IsEnabled проверяет включена ли отправка почты
func (s *Service) IsEnabled() bool {
	return s.cfg.Enabled && s.cfg.Host != ""
}

// SendOTP отправляет OTP-код авторизации
func (s *Service) SendOTP(to, code string) error {
	subject := fmt.Sprintf("Код авторизации: %s", code)
	body := fmt.Sprintf("<p>Ваш код авторизации: <strong>%s</strong></p><p>Код действителен 5 минут.</p>", code)
	return s.send(to, subject, body)
}

// SendStationPassport отправляет паспорт станции с PDF-вложением
func (s *Service) SendStationPassport(to, locationName string, pdfData []byte) error {
	subject := fmt.Sprintf("Паспорт станции: %s", locationName)
	body := fmt.Sprintf("<p>Во вложении паспорт зарядной станции <strong>%s</strong>.</p>", locationName)
	attachment := Attachment{
		Filename:    fmt.Sprintf("station_passport_%s.pdf", time.Now().Format("2006-01-02")),
		ContentType: "application/pdf",
		Data:        pdfData,
	}
	return s.sendWithAttachments(to, subject, body, attachment)
}

// send отправляет простое HTML-письмо
func (s *Service) send(to, subject, htmlBody string) error {
	return s.sendWithAttachments(to, subject, htmlBody)
}

// sendWithAttachments отправляет письмо с опциональными вложениями
func (s *Service) sendWithAttachments(to, subject, htmlBody string, attachments ...Attachment) error {
	if !s.IsEnabled() {
		log.Printf("[EMAIL] SMTP отключён, пропускаем отправку на %s", to)
		return nil
	}

	// Подключение к SMTP
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	conn, err := net.DialTimeout("tcp", addr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("не удалось подключиться к SMTP: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return fmt.Errorf("ошибка SMTP клиента: %w", err)
	}
	defer client.Close()

	if s.cfg.UseTLS {
		tlsConfig := &tls.Config{ServerName: s.cfg.Host}
		if err := client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("ошибка STARTTLS: %w", err)
		}
	}

	// Авторизация (сначала LOGIN, потом PLAIN)
	auth := LoginAuth(s.cfg.Username, s.cfg.Password)
	if err := client.Auth(auth); err != nil {
		log.Printf("[EMAIL] LOGIN auth не удался, пробуем PLAIN: %v", err)
		plainAuth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		if err := client.Auth(plainAuth); err != nil {
			return fmt.Errorf("ошибка авторизации SMTP: %w", err)
		}
	}

	return s.sendMessage(client, to, subject, htmlBody, attachments)
}

// sendMessage формирует и отправляет MIME-сообщение
func (s *Service) sendMessage(client *smtp.Client, to, subject, htmlBody string, attachments []Attachment) error {
	from := s.cfg.FromEmail

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("ошибка MAIL FROM: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("ошибка RCPT TO: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("ошибка DATA: %w", err)
	}
	defer w.Close()

	var buf bytes.Buffer

	if len(attachments) == 0 {
		// Простое HTML-письмо
		buf.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, from))
		buf.WriteString(fmt.Sprintf("To: %s\r\n", to))
		buf.WriteString(fmt.Sprintf("Subject: =?utf-8?B?%s?=\r\n", base64.StdEncoding.EncodeToString([]byte(subject))))
		buf.WriteString("MIME-Version: 1.0\r\n")
		buf.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
		buf.WriteString("\r\n")
		buf.WriteString(htmlBody)
	} else {
		// MIME с вложениями
		writer := multipart.NewWriter(&buf)
		boundary := writer.Boundary()

		buf.Reset()
		buf.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, from))
		buf.WriteString(fmt.Sprintf("To: %s\r\n", to))
		buf.WriteString(fmt.Sprintf("Subject: =?utf-8?B?%s?=\r\n", base64.StdEncoding.EncodeToString([]byte(subject))))
		buf.WriteString("MIME-Version: 1.0\r\n")
		buf.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=\"%s\"\r\n", boundary))
		buf.WriteString("\r\n")

		// HTML-часть
		buf.WriteString(fmt.Sprintf("--%s\r\n", boundary))
		buf.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
		buf.WriteString("\r\n")
		buf.WriteString(htmlBody)
		buf.WriteString("\r\n")

		// Вложения
		for _, att := range attachments {
			header := make(textproto.MIMEHeader)
			header.Set("Content-Type", att.ContentType)
			header.Set("Content-Transfer-Encoding", "base64")
			header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", att.Filename))

			buf.WriteString(fmt.Sprintf("--%s\r\n", boundary))
			for k, v := range header {
				buf.WriteString(fmt.Sprintf("%s: %s\r\n", k, v[0]))
			}
			buf.WriteString("\r\n")
			buf.WriteString(base64.StdEncoding.EncodeToString(att.Data))
			buf.WriteString("\r\n")
		}

		buf.WriteString(fmt.Sprintf("--%s--\r\n", boundary))
	}

	_, err = w.Write(buf.Bytes())
	if err != nil {
		return fmt.Errorf("ошибка записи данных: %w", err)
	}

	log.Printf("[EMAIL] Письмо отправлено на %s: %s", to, subject)
	return nil
}
