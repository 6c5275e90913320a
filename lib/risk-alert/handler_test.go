package riskalert

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"nr1-risk-backend/models"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type fakeRecipients struct {
	emails []string
	err    error
}

func (f fakeRecipients) ListAdminEmails(context.Context, string) ([]string, error) {
	return f.emails, f.err
}

type fakeMailer struct {
	sent    int
	to      []string
	subject string
	err     error
}

func (f *fakeMailer) SendEMail(to []string, subject, message string) error {
	if f.err != nil {
		return f.err
	}
	f.sent++
	f.to = to
	f.subject = subject
	return nil
}

func testAlert() Alert {
	return Alert{
		OrganizationID:  "org-1",
		AssessmentID:    "ass-1",
		AssessmentTitle: "Pesquisa 2026",
		Category:        models.CategoryDemandsAndPace,
		CategoryLabel:   "Demandas e Ritmo de Trabalho",
		Score:           4.1,
		Threshold:       4,
		Level:           models.RiskLevelCritical,
	}
}

func newTestImpl(t *testing.T, cfg Config, recipients RecipientProvider, mailer *fakeMailer) (*impl, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	i := newImpl(cfg, NewRedisCooldown(client), recipients, mailer)
	i.newBackOff = func() backoff.BackOff {
		return backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Millisecond), 3)
	}
	return i, s
}

func TestNotify(t *testing.T) {
	t.Run(`email and cooldown check`, func(t *testing.T) {
		mailer := &fakeMailer{}
		i, s := newTestImpl(t, Config{Cooldown: time.Hour}, fakeRecipients{emails: []string{"rh@empresa.com.br"}}, mailer)

		sent, err := i.Notify(context.TODO(), testAlert())
		require.Nil(t, err)
		require.True(t, sent)
		require.Equal(t, 1, mailer.sent)
		require.Equal(t, []string{"rh@empresa.com.br"}, mailer.to)
		require.Equal(t, "Risco Crítico em Demandas e Ritmo de Trabalho", mailer.subject)
		require.True(t, s.Exists("risk-alert:ass-1:demands_and_pace:critical"))

		sent, err = i.Notify(context.TODO(), testAlert())
		require.Nil(t, err)
		require.False(t, sent)
		require.Equal(t, 1, mailer.sent)

		s.FastForward(2 * time.Hour)
		sent, err = i.Notify(context.TODO(), testAlert())
		require.Nil(t, err)
		require.True(t, sent)
		require.Equal(t, 2, mailer.sent)
	})

	t.Run(`failed delivery releases cooldown check`, func(t *testing.T) {
		mailer := &fakeMailer{err: errors.New("smtp down")}
		i, s := newTestImpl(t, Config{}, fakeRecipients{emails: []string{"rh@empresa.com.br"}}, mailer)

		sent, err := i.Notify(context.TODO(), testAlert())
		require.NotNil(t, err)
		require.False(t, sent)
		require.False(t, s.Exists("risk-alert:ass-1:demands_and_pace:critical"))
	})

	t.Run(`no recipients check`, func(t *testing.T) {
		i, _ := newTestImpl(t, Config{}, fakeRecipients{}, &fakeMailer{})
		sent, err := i.Notify(context.TODO(), testAlert())
		require.ErrorIs(t, err, ErrNoRecipients)
		require.False(t, sent)
	})

	t.Run(`webhook retry check`, func(t *testing.T) {
		var calls int32
		var received Alert
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_ = json.NewDecoder(r.Body).Decode(&received)
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		i, _ := newTestImpl(t, Config{WebhookURL: server.URL}, fakeRecipients{}, &fakeMailer{})
		sent, err := i.Notify(context.TODO(), testAlert())
		require.Nil(t, err)
		require.True(t, sent)
		require.Equal(t, int32(2), atomic.LoadInt32(&calls))
		require.Equal(t, testAlert(), received)
	})

	t.Run(`webhook client error is permanent check`, func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		i, _ := newTestImpl(t, Config{WebhookURL: server.URL}, fakeRecipients{}, &fakeMailer{})
		sent, err := i.Notify(context.TODO(), testAlert())
		require.NotNil(t, err)
		require.False(t, sent)
		require.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})
}

func TestNoCooldown(t *testing.T) {
	t.Run(`always acquires check`, func(t *testing.T) {
		ok, err := NoCooldown{}.Acquire(context.TODO(), "k", time.Hour)
		require.Nil(t, err)
		require.True(t, ok)
		ok, _ = NoCooldown{}.Acquire(context.TODO(), "k", time.Hour)
		require.True(t, ok)
	})
}
