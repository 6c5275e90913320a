package lock

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestWithDelay(t *testing.T) {
	t.Run(`busy key times out check`, func(t *testing.T) {
		started := make(chan struct{})
		release := make(chan struct{})
		go func() {
			_, _ = WithDelay(context.TODO(), "k1", time.Second, func() error {
				close(started)
				<-release
				return nil
			})
		}()
		<-started
		ok, err := WithDelay(context.TODO(), "k1", 100*time.Millisecond, func() error {
			t.Fatal("must not run")
			return nil
		})
		require.Nil(t, err)
		require.False(t, ok)
		close(release)
	})

	t.Run(`error passthrough and release check`, func(t *testing.T) {
		ok, err := WithDelay(context.TODO(), "k2", time.Second, func() error {
			return errors.New("fail")
		})
		require.True(t, ok)
		require.EqualError(t, err, "fail")

		ok, err = WithDelay(context.TODO(), "k2", time.Second, func() error { return nil })
		require.True(t, ok)
		require.Nil(t, err)
	})
}
