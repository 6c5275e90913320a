package smtp

import (
	"fmt"
	"strings"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	log "github.com/sirupsen/logrus"
)

var Instance Provider

type Provider interface {
	SendEMail(to []string, subject, message string) error
}

func Connect(user, password, host, port, from string, tlsEnabled bool) error {
	if from == "" {
		from = user
	}
	Instance = &impl{
		user:       user,
		password:   password,
		host:       host,
		port:       port,
		from:       from,
		tlsEnabled: tlsEnabled,
	}
	return nil
}

type impl struct {
	user       string
	password   string
	host       string
	port       string
	from       string
	tlsEnabled bool
}

func (i impl) SendEMail(to []string, subject, message string) (err error) {
	logger := log.WithField("recipients", len(to))
	if i.user == "" || i.host == "" || i.port == "" {
		logger.Warn("e-mail não enviado: cliente smtp não configurado")
		return nil
	}
	if len(to) == 0 {
		return nil
	}
	auth := sasl.NewPlainClient("", i.user, i.password)
	body := strings.NewReader(buildMessage(i.from, to, subject, message))
	if i.tlsEnabled {
		err = smtp.SendMailTLS(i.host+":"+i.port, auth, i.from, to, body)
	} else {
		err = smtp.SendMail(i.host+":"+i.port, auth, i.from, to, body)
	}
	if err != nil {
		logger.WithError(err).Error("erro ao enviar e-mail")
		return err
	}
	logger.Info("e-mail enviado")
	return nil
}

func buildMessage(from string, to []string, subject, message string) string {
	return fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: NR-1 Riscos Psicossociais - %s\r\n"+
		"MIME-version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s\r\n",
		from, strings.Join(to, ", "), subject, message)
}
