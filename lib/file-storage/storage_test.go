package filestorage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFileStorage(t *testing.T) {
	t.Run(`ReportObjectName check`, func(t *testing.T) {
		at := time.Date(2026, 5, 4, 13, 7, 9, 0, time.FixedZone("BRT", -3*3600))
		require.Equal(t, "reports/org-1/ass-1/20260504-160709.pdf", ReportObjectName("org-1", "ass-1", "pdf", at))
	})

	t.Run(`not configured check`, func(t *testing.T) {
		NewHandler(nil, "")
		name, err := Instance.ArchiveReport(context.TODO(), "org-1", "ass-1", "pdf", "application/pdf", []byte("x"))
		require.Nil(t, err)
		require.Equal(t, "", name)
	})
}
