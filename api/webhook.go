package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/jumadi-cloud/bot-meta-analisis-api-V2/domain"
	"github.com/jumadi-cloud/bot-meta-analisis-api-V2/n8n"
)

// WebhookProxy forwards a message straight to the base webhook without
// persisting anything. It exists for clients that manage their own history
// and only need the normalized reply.
// POST /webhook/n8n
func (h *Handler) WebhookProxy(c echo.Context) error {
	ctx := c.Request().Context()

	var req domain.WebhookRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorEnvelope("Permintaan tidak valid"))
	}

	if req.Message == "" {
		return c.JSON(http.StatusBadRequest, errorEnvelope("Pesan tidak boleh kosong."))
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = generateProxySessionID(time.Now())
	}

	h.logger.Info("n8n webhook request",
		zap.String("session_id", sessionID),
		zap.String("request_session_id", req.SessionID))

	aiResponse := n8n.NotConfiguredMessage
	if url := strings.TrimRight(h.config.WebhookURL, " "); url != "" {
		resp := h.webhook.Call(ctx, url, n8n.Request{
			Message:   req.Message,
			SessionID: sessionID,
			UserID:    "guest",
			Timestamp: n8n.Timestamp(time.Now()),
		})
		aiResponse = n8n.Normalize(resp.Body, resp.OK)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"data": domain.WebhookResult{
			AIResponse: aiResponse,
			ID:         sessionID,
			SessionID:  sessionID,
		},
	})
}

// generateProxySessionID builds an identifier of the shape
// N8N-<yyyymmdd>-<8 alnum chars> for clients that did not supply one.
func generateProxySessionID(now time.Time) string {
	random := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return "N8N-" + now.Format("20060102") + "-" + random
}
