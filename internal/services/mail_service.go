package services

import (
	"bytes"
	"crypto/tls"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net"
	"net/mail"
	"net/smtp"
	"strings"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	id "github.com/emersion/go-imap-id"
	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/satishsat1/AI-Powered-Communication-Assistant/internal/config"
	"github.com/satishsat1/AI-Powered-Communication-Assistant/internal/database/models"
	"github.com/satishsat1/AI-Powered-Communication-Assistant/internal/functions"
)

var (
	// ErrIMAPConnectionFailed indicates IMAP connection failed
	ErrIMAPConnectionFailed = errors.New("IMAP connection failed")
	// ErrSMTPConnectionFailed indicates SMTP connection failed
	ErrSMTPConnectionFailed = errors.New("SMTP connection failed")
	// ErrMailNotConfigured indicates mail credentials are missing
	ErrMailNotConfigured = errors.New("mail credentials not configured")
)

const (
	connectionTimeout = 10 * time.Second
	commandTimeout    = 2 * time.Minute
)

// loginAuth implements smtp.Auth for LOGIN authentication, required by
// providers that reject AUTH PLAIN
type loginAuth struct {
	username, password string
}

func newLoginAuth(username, password string) smtp.Auth {
	return &loginAuth{username, password}
}

func (a *loginAuth) Start(server *smtp.ServerInfo) (string, []byte, error) {
	return "LOGIN", []byte{}, nil
}

func (a *loginAuth) Next(fromServer []byte, more bool) ([]byte, error) {
	if more {
		switch string(fromServer) {
		case "Username:", "username:":
			return []byte(a.username), nil
		case "Password:", "password:":
			return []byte(a.password), nil
		default:
			// Some servers send base64 encoded prompts
			decoded, err := base64.StdEncoding.DecodeString(string(fromServer))
			if err == nil {
				switch strings.ToLower(string(decoded)) {
				case "username:", "username":
					return []byte(a.username), nil
				case "password:", "password":
					return []byte(a.password), nil
				}
			}
			return nil, fmt.Errorf("unexpected server challenge: %s", fromServer)
		}
	}
	return nil, nil
}

// MailService is the gateway to the mail provider: IMAP fetch and SMTP send
type MailService struct {
	cfg        *config.Config
	logService *LogService
}

// NewMailService creates a new MailService instance
func NewMailService(cfg *config.Config, logService *LogService) *MailService {
	return &MailService{
		cfg:        cfg,
		logService: logService,
	}
}

// connectIMAP establishes an authenticated IMAP connection
func (s *MailService) connectIMAP() (*client.Client, error) {
	if s.cfg.EmailUser == "" || s.cfg.EmailPass == "" {
		return nil, ErrMailNotConfigured
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.IMAPHost, s.cfg.IMAPPort)
	dialer := &net.Dialer{Timeout: connectionTimeout}

	tlsConfig := &tls.Config{ServerName: s.cfg.IMAPHost}
	conn, err := tls.DialWithDialer(dialer, "tcp", addr, tlsConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIMAPConnectionFailed, err)
	}

	c, err := client.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %v", ErrIMAPConnectionFailed, err)
	}

	c.Timeout = commandTimeout

	// Some providers require client identification before login
	if ok, _ := c.Support("ID"); ok {
		idClient := id.NewClient(c)
		idClient.ID(id.ID{
			id.FieldName:    "Communication Assistant",
			id.FieldVersion: "1.0.0",
		})
	}

	if err := c.Login(s.cfg.EmailUser, s.cfg.EmailPass); err != nil {
		c.Logout()
		return nil, fmt.Errorf("%w: login failed: %v", ErrIMAPConnectionFailed, err)
	}

	return c, nil
}

// FetchSince fetches inbox messages received within the trailing number of
// days. The caller is expected to degrade a returned error to an empty
// batch; triage filtering happens downstream in the pipeline.
func (s *MailService) FetchSince(days int) ([]functions.InboundMessage, error) {
	c, err := s.connectIMAP()
	if err != nil {
		s.logService.LogError(models.LogModuleMail, "fetch", "IMAP connection failed", map[string]interface{}{
			"host":  s.cfg.IMAPHost,
			"error": err.Error(),
		})
		return nil, err
	}
	defer c.Logout()

	mbox, err := c.Select("INBOX", true)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to select INBOX: %v", ErrIMAPConnectionFailed, err)
	}

	if mbox.Messages == 0 {
		return []functions.InboundMessage{}, nil
	}

	if days < 1 {
		days = 1
	}
	sinceDate := time.Now().AddDate(0, 0, -days)
	criteria := imap.NewSearchCriteria()
	criteria.Since = time.Date(sinceDate.Year(), sinceDate.Month(), sinceDate.Day(), 0, 0, 0, 0, time.UTC)

	seqNums, err := c.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("%w: search failed: %v", ErrIMAPConnectionFailed, err)
	}

	if len(seqNums) == 0 {
		return []functions.InboundMessage{}, nil
	}

	const batchSize = 10
	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchEnvelope, section.FetchItem()}

	var fetched []functions.InboundMessage

	for i := 0; i < len(seqNums); i += batchSize {
		batchEnd := i + batchSize
		if batchEnd > len(seqNums) {
			batchEnd = len(seqNums)
		}

		seqSet := new(imap.SeqSet)
		seqSet.AddNum(seqNums[i:batchEnd]...)

		messages := make(chan *imap.Message, batchSize)
		done := make(chan error, 1)

		go func() {
			done <- c.Fetch(seqSet, items, messages)
		}()

		for msg := range messages {
			if msg == nil || msg.Envelope == nil {
				continue
			}
			fetched = append(fetched, s.buildInboundMessage(msg, section))
		}

		if err := <-done; err != nil {
			s.logService.LogWarn(models.LogModuleMail, "fetch", "Fetch batch error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	s.logService.LogInfo(models.LogModuleMail, "fetch", "Fetch completed", map[string]interface{}{
		"days":    days,
		"matched": len(seqNums),
		"fetched": len(fetched),
	})

	return fetched, nil
}

// buildInboundMessage converts one IMAP message into an InboundMessage.
// Sent dates are rendered as RFC3339 UTC strings so that the pipeline's
// raw string ordering matches chronological order.
func (s *MailService) buildInboundMessage(msg *imap.Message, section *imap.BodySectionName) functions.InboundMessage {
	inbound := functions.InboundMessage{
		Subject:  msg.Envelope.Subject,
		SentDate: msg.Envelope.Date.UTC().Format(time.RFC3339),
	}

	if len(msg.Envelope.From) > 0 {
		inbound.Sender = formatAddress(msg.Envelope.From[0])
	}

	if literal := msg.GetBody(section); literal != nil {
		if content, err := io.ReadAll(literal); err == nil && len(content) > 0 {
			inbound.Body = extractPlainBody(content)
		}
	}

	return inbound
}

// extractPlainBody pulls the text/plain part out of a raw RFC822 message
func extractPlainBody(raw []byte) string {
	r := bytes.NewReader(raw)
	entity, err := message.Read(r)
	if err != nil {
		// Fall back to a plain mail parse
		r.Seek(0, io.SeekStart)
		m, err := mail.ReadMessage(r)
		if err != nil {
			return ""
		}
		b, _ := io.ReadAll(m.Body)
		return string(b)
	}

	var body string
	collectPlainText(entity, &body)
	return body
}

// collectPlainText recursively walks a message entity for its first
// text/plain part
func collectPlainText(entity *message.Entity, body *string) {
	if *body != "" {
		return
	}

	mediaType, _, _ := entity.Header.ContentType()

	if strings.HasPrefix(mediaType, "multipart/") {
		mr := entity.MultipartReader()
		for {
			part, err := mr.NextPart()
			if err != nil {
				break
			}
			collectPlainText(part, body)
		}
		return
	}

	if mediaType == "text/plain" || mediaType == "" {
		b, _ := io.ReadAll(entity.Body)
		*body = string(b)
	}
}

// formatAddress formats an IMAP address to a string
func formatAddress(addr *imap.Address) string {
	if addr.PersonalName != "" {
		return fmt.Sprintf("%s <%s@%s>", addr.PersonalName, addr.MailboxName, addr.HostName)
	}
	return fmt.Sprintf("%s@%s", addr.MailboxName, addr.HostName)
}

// Send delivers a reply over SMTP. Best effort: any transport failure is
// logged and reported as false, never raised.
func (s *MailService) Send(to, subject, body string) bool {
	if err := s.sendViaSMTP(to, subject, body); err != nil {
		s.logService.LogError(models.LogModuleMail, "send", "Email send failed", map[string]interface{}{
			"to":      to,
			"subject": subject,
			"error":   err.Error(),
		})
		return false
	}

	s.logService.LogInfo(models.LogModuleMail, "send", "Email sent successfully", map[string]interface{}{
		"to":      to,
		"subject": subject,
	})
	return true
}

// sendViaSMTP connects, upgrades to TLS and submits one message
func (s *MailService) sendViaSMTP(to, subject, body string) error {
	if s.cfg.EmailUser == "" || s.cfg.EmailPass == "" {
		return ErrMailNotConfigured
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	conn, err := net.DialTimeout("tcp", addr, connectionTimeout)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSMTPConnectionFailed, err)
	}

	c, err := smtp.NewClient(conn, s.cfg.SMTPHost)
	if err != nil {
		conn.Close()
		return fmt.Errorf("%w: %v", ErrSMTPConnectionFailed, err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		tlsConfig := &tls.Config{ServerName: s.cfg.SMTPHost}
		if err := c.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("%w: STARTTLS failed: %v", ErrSMTPConnectionFailed, err)
		}
	}

	auth := smtp.Auth(smtp.PlainAuth("", s.cfg.EmailUser, s.cfg.EmailPass, s.cfg.SMTPHost))
	if ok, mechanisms := c.Extension("AUTH"); ok && !strings.Contains(mechanisms, "PLAIN") {
		auth = newLoginAuth(s.cfg.EmailUser, s.cfg.EmailPass)
	}
	if err := c.Auth(auth); err != nil {
		return fmt.Errorf("%w: authentication failed: %v", ErrSMTPConnectionFailed, err)
	}

	if err := c.Mail(s.cfg.EmailUser); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}

	msg := buildReplyMessage(s.cfg.EmailUser, to, subject, body)
	if _, err := w.Write([]byte(msg)); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	return c.Quit()
}

// buildReplyMessage renders the outbound reply as an RFC822 message
func buildReplyMessage(from, to, subject, body string) string {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: Re: " + subject + "\r\n")
	b.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return b.String()
}
