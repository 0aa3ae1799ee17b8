package logger

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type pushed struct {
	path string
	body lokiPush
}

func TestLogger_PushesToLokiPushEndpoint(t *testing.T) {
	received := make(chan pushed, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)

		var body lokiPush
		_ = json.Unmarshal(data, &body)

		received <- pushed{path: r.URL.Path, body: body}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	for _, base := range []string{server.URL, server.URL + "/"} {
		log, err := New("userprofiles-test", "info", base)
		require.NoError(t, err)

		log.InfoWithTrace(context.Background(), "user created", zap.Int64("user_id", 7))

		select {
		case got := <-received:
			assert.Equal(t, "/loki/api/v1/push", got.path)
			require.Len(t, got.body.Streams, 1)
			assert.Equal(t, "userprofiles-test", got.body.Streams[0].Stream["service"])
			assert.Equal(t, "info", got.body.Streams[0].Stream["level"])
			assert.Contains(t, got.body.Streams[0].Values[0][1], "user created")
		case <-time.After(3 * time.Second):
			t.Fatalf("no push received for base %q", base)
		}
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("userprofiles-test", "verbose", "")

	assert.Error(t, err)
}
