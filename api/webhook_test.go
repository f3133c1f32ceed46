package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jumadi-cloud/bot-meta-analisis-api-V2/config"
	"github.com/jumadi-cloud/bot-meta-analisis-api-V2/domain"
	"github.com/jumadi-cloud/bot-meta-analisis-api-V2/n8n"
)

type webhookResponse struct {
	Success bool                 `json:"success"`
	Data    domain.WebhookResult `json:"data"`
	Error   string               `json:"error"`
}

func TestWebhookProxy(t *testing.T) {
	var upstreamReq n8n.Request
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&upstreamReq)
		w.Write([]byte(`{"output":"hai dari n8n"}`))
	}))
	defer upstream.Close()

	env := newTestEnv(t, &config.Config{WebhookURL: upstream.URL})

	rec := postJSON(env, "/webhook/n8n", domain.WebhookRequest{Message: "halo"})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp webhookResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "hai dari n8n", resp.Data.AIResponse)

	// A generated identifier of the shape N8N-<date>-<8 alnum chars>.
	assert.Regexp(t, regexp.MustCompile(`^N8N-\d{8}-[a-z0-9]{8}$`), resp.Data.SessionID)
	assert.Equal(t, resp.Data.SessionID, resp.Data.ID)
	assert.Equal(t, resp.Data.SessionID, upstreamReq.SessionID)
}

func TestWebhookProxyKeepsSuppliedSessionID(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"output":"ok"}`))
	}))
	defer upstream.Close()

	env := newTestEnv(t, &config.Config{WebhookURL: upstream.URL})

	rec := postJSON(env, "/webhook/n8n", domain.WebhookRequest{Message: "halo", SessionID: "abc-123"})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp webhookResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "abc-123", resp.Data.SessionID)
}

func TestWebhookProxyEmptyMessage(t *testing.T) {
	env := newTestEnv(t, &config.Config{})

	rec := postJSON(env, "/webhook/n8n", domain.WebhookRequest{Message: ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp webhookResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Pesan tidak boleh kosong.", resp.Error)
}

func TestWebhookProxyNotConfigured(t *testing.T) {
	env := newTestEnv(t, &config.Config{})

	rec := postJSON(env, "/webhook/n8n", domain.WebhookRequest{Message: "halo"})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp webhookResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, n8n.NotConfiguredMessage, resp.Data.AIResponse)
}
