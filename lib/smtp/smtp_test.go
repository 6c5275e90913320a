package smtp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSmtp(t *testing.T) {
	t.Run(`buildMessage check`, func(t *testing.T) {
		msg := buildMessage("alertas@empresa.com.br", []string{"a@x.com", "b@x.com"}, "Alerta", "texto")
		require.True(t, strings.HasPrefix(msg, "From: alertas@empresa.com.br\r\n"))
		require.Contains(t, msg, "To: a@x.com, b@x.com\r\n")
		require.Contains(t, msg, "Subject: NR-1 Riscos Psicossociais - Alerta\r\n")
		require.True(t, strings.HasSuffix(msg, "\r\n\r\ntexto\r\n"))
	})

	t.Run(`not configured check`, func(t *testing.T) {
		require.Nil(t, Connect("", "", "", "", "", true))
		require.Nil(t, Instance.SendEMail([]string{"a@x.com"}, "s", "m"))
	})
}
