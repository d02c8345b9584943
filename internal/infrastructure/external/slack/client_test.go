package slack

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
)

func TestPost_FillsBotIdentityDefaults(t *testing.T) {
	var received Message
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	config := DefaultClientConfig(server.URL)
	config.Timeout = 2 * time.Second
	client := NewClient(config)

	err := client.Post(context.Background(), Message{Text: "New Submission on *qnurko: assignment06*"})
	require.NoError(t, err)

	assert.Equal(t, "#student-projects", received.Channel)
	assert.Equal(t, "Student Projects Bot", received.Username)
	assert.Equal(t, ":female-teacher:", received.IconEmoji)
	assert.Equal(t, "New Submission on *qnurko: assignment06*", received.Text)
}

func TestPost_KeepsExplicitChannel(t *testing.T) {
	var received Message
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	config := DefaultClientConfig(server.URL)
	config.Timeout = 2 * time.Second
	client := NewClient(config)

	err := client.Post(context.Background(), Message{Channel: "#badge-digest", Text: "digest"})
	require.NoError(t, err)

	assert.Equal(t, "#badge-digest", received.Channel)
}

func TestPost_RetriesTransientFailures(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	config := DefaultClientConfig(server.URL)
	config.Timeout = 2 * time.Second
	client := NewClient(config)

	err := client.Post(context.Background(), Message{Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestPost_DoesNotRetryBadPayload(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	config := DefaultClientConfig(server.URL)
	config.Timeout = 2 * time.Second
	client := NewClient(config)

	err := client.Post(context.Background(), Message{Text: "broken"})
	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestAttachmentSerialization(t *testing.T) {
	msg := Message{
		Text: "total",
		Attachments: []Attachment{
			{Color: "#FF8C00", Title: "Night Owl", Text: "Submit between 22:00 and 03:00", Footer: "night10Times"},
		},
	}

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded Message
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded.Attachments, 1)
	assert.Equal(t, "#FF8C00", decoded.Attachments[0].Color)
	assert.Equal(t, "Night Owl", decoded.Attachments[0].Title)
}
