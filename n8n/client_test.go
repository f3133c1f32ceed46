package n8n

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestClientCallSuccess(t *testing.T) {
	var got Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`[{"output":"hai"}]`))
	}))
	defer server.Close()

	client := NewClient(5*time.Second, zap.NewNop())
	resp := client.Call(context.Background(), server.URL, Request{
		Message:   "halo",
		SessionID: "sess_1",
		UserID:    "guest",
		Timestamp: Timestamp(time.Now()),
	})

	assert.True(t, resp.OK)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `[{"output":"hai"}]`, resp.Body)
	assert.Equal(t, "halo", got.Message)
	assert.Equal(t, "sess_1", got.SessionID)
	assert.Equal(t, "guest", got.UserID)
	assert.NotEmpty(t, got.Timestamp)
}

func TestClientCallErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(5*time.Second, zap.NewNop())
	resp := client.Call(context.Background(), server.URL, Request{Message: "halo"})

	assert.False(t, resp.OK)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestClientCallConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(time.Second, zap.NewNop())
	resp := client.Call(context.Background(), server.URL, Request{Message: "halo"})

	assert.False(t, resp.OK)
}

func TestClientCallTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(20*time.Millisecond, zap.NewNop())
	resp := client.Call(context.Background(), server.URL, Request{Message: "halo"})

	assert.False(t, resp.OK)
}
