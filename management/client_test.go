package management

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueStats(t *testing.T) {
	var gotPath, gotUser, gotPass string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotUser, gotPass, _ = r.BasicAuth()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"name": "audio_removal_queue",
			"vhost": "/",
			"durable": true,
			"messages": 3,
			"messages_ready": 2,
			"messages_unacknowledged": 1,
			"consumers": 1
		}`))
	}))
	defer server.Close()

	client, err := New(Config{URL: server.URL, Username: "admin", Password: "password"})
	require.NoError(t, err)

	stats, err := client.QueueStats(context.Background(), "/", "audio_removal_queue")
	require.NoError(t, err)

	assert.Equal(t, "/api/queues/%2F/audio_removal_queue", gotPath)
	assert.Equal(t, "admin", gotUser)
	assert.Equal(t, "password", gotPass)
	assert.Equal(t, QueueStats{
		Name:           "audio_removal_queue",
		VHost:          "/",
		Durable:        true,
		Messages:       3,
		Ready:          2,
		Unacknowledged: 1,
		Consumers:      1,
	}, stats)
}

func TestQueueStatsErrors(t *testing.T) {
	testCases := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"not found", http.StatusNotFound, `{"error":"Object Not Found","reason":"Not Found"}`, ErrQueueNotFound},
		{"unauthorized", http.StatusUnauthorized, `{"error":"not_authorised"}`, nil},
		{"broken body", http.StatusOK, `{"messages":`, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client, err := New(Config{URL: server.URL})
			require.NoError(t, err)

			_, err = client.QueueStats(context.Background(), "", "jobs")
			require.Error(t, err)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestNewRequiresURL(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}
