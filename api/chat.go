package api

import (
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/jumadi-cloud/bot-meta-analisis-api-V2/domain"
	"github.com/jumadi-cloud/bot-meta-analisis-api-V2/n8n"
	"github.com/jumadi-cloud/bot-meta-analisis-api-V2/store"
)

// maxMessageLength bounds the accepted message size in runes.
const maxMessageLength = 2000

const (
	messageTimeLayout = "2006-01-02 15:04:05"
	sessionTimeLayout = "15:04"
)

// Index renders the chat page: the session sidebar, optionally filtered by
// workflow, and the messages of the requested session.
// GET /chat
func (h *Handler) Index(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.QueryParam("session_id")
	selected := c.QueryParam("workflow")

	h.logger.Info("index requested", zap.String("workflow", selected), zap.String("session_id", sessionID))

	var current *domain.Session
	var messages []domain.MessageView
	if sessionID != "" {
		session, err := h.store.GetSession(ctx, sessionID)
		if err != nil {
			h.logger.Error("failed to get session", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, errorEnvelope("Terjadi kesalahan server"))
		}
		if session != nil {
			current = session
			msgs, err := h.store.GetMessages(ctx, session.ID)
			if err != nil {
				h.logger.Error("failed to get messages", zap.Error(err))
				return c.JSON(http.StatusInternalServerError, errorEnvelope("Terjadi kesalahan server"))
			}
			messages = messageViews(msgs)
		}
	}

	sessions, err := h.store.ListSessionsWithAgentReply(ctx, h.router.RoleLabel(selected))
	if err != nil {
		h.logger.Error("failed to list sessions", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorEnvelope("Terjadi kesalahan server"))
	}

	return c.Render(http.StatusOK, "chat", map[string]interface{}{
		"Sessions":       sessionViews(sessions),
		"CurrentSession": current,
		"Messages":       messages,
		"Workflow":       selected,
	})
}

// Sessions lists sessions for the sidebar, optionally filtered by workflow.
// GET /chat/sessions
func (h *Handler) Sessions(c echo.Context) error {
	ctx := c.Request().Context()
	selected := c.QueryParam("workflow")

	sessions, err := h.store.ListSessionsWithAgentReply(ctx, h.router.RoleLabel(selected))
	if err != nil {
		h.logger.Error("failed to list sessions", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorEnvelope("Gagal memuat sesi"))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    sessionViews(sessions),
	})
}

// Show returns a session with its full ordered message list.
// GET /chat/:id
func (h *Handler) Show(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	session, err := h.store.GetSession(ctx, id)
	if err != nil {
		h.logger.Error("failed to get session", zap.Error(err), zap.String("id", id))
		return c.JSON(http.StatusInternalServerError, errorEnvelope("Terjadi kesalahan server"))
	}
	if session == nil {
		return c.JSON(http.StatusNotFound, errorEnvelope("Chat tidak ditemukan"))
	}

	messages, err := h.store.GetMessages(ctx, session.ID)
	if err != nil {
		h.logger.Error("failed to get messages", zap.Error(err), zap.String("id", id))
		return c.JSON(http.StatusInternalServerError, errorEnvelope("Terjadi kesalahan server"))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"id":       session.ID,
			"title":    session.Title,
			"messages": messageViews(messages),
		},
	})
}

// New acknowledges that the client is ready to start a fresh conversation.
// The session itself is created lazily on the first send.
// POST /chat/new
func (h *Handler) New(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Siap mulai chat baru",
	})
}

// Send accepts a user message, resolves or creates a session, forwards the
// message to the selected engine and returns the normalized reply together
// with the full conversation.
// POST /chat
func (h *Handler) Send(c echo.Context) error {
	ctx := c.Request().Context()

	var req domain.SendRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorEnvelope("Permintaan tidak valid"))
	}

	if req.Message == "" {
		return c.JSON(http.StatusBadRequest, errorEnvelope("Pesan tidak boleh kosong."))
	}
	if utf8.RuneCountInString(req.Message) > maxMessageLength {
		return c.JSON(http.StatusBadRequest, errorEnvelope(fmt.Sprintf("Pesan terlalu panjang (maksimal %d karakter).", maxMessageLength)))
	}

	model := req.Model
	if model == "" {
		model = string(domain.EngineDummy)
	}
	if model != string(domain.EngineDummy) && model != string(domain.EngineN8N) {
		return c.JSON(http.StatusBadRequest, errorEnvelope("Model tidak valid."))
	}

	h.logger.Info("chat send request received",
		zap.String("message", store.TitleFromSeed(req.Message)),
		zap.String("session_id", req.SessionID),
		zap.String("model", model))

	// A stale or unknown session ID silently starts a fresh session.
	session, err := h.store.FindOrCreateSession(ctx, req.SessionID, req.Message)
	if err != nil {
		h.logger.Error("failed to resolve session", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorEnvelope("Terjadi kesalahan server"))
	}

	// Persist the user turn before calling upstream so it survives a
	// failed call.
	if _, err := h.store.CreateMessage(ctx, session.ID, domain.RoleUser, req.Message); err != nil {
		h.logger.Error("failed to save user message", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorEnvelope("Terjadi kesalahan server"))
	}

	aiResponse := fmt.Sprintf("Halo, ini jawaban dummy dari model: %s", model)
	aiRole := domain.RoleAssistant

	if domain.Engine(model) == domain.EngineN8N {
		selector := req.Type
		if selector == "" {
			selector = "workflow1"
		}
		route := h.router.Resolve(selector)
		aiRole = route.RoleLabel

		if route.EndpointURL == "" {
			aiResponse = n8n.NotConfiguredMessage
		} else {
			h.logger.Info("making request to n8n", zap.String("url", route.EndpointURL))
			resp := h.webhook.Call(ctx, route.EndpointURL, n8n.Request{
				Message:   req.Message,
				SessionID: session.ID,
				UserID:    "guest",
				Timestamp: n8n.Timestamp(time.Now()),
			})
			aiResponse = n8n.Normalize(resp.Body, resp.OK)
		}
	}

	if _, err := h.store.CreateMessage(ctx, session.ID, aiRole, aiResponse); err != nil {
		h.logger.Error("failed to save reply message", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorEnvelope("Terjadi kesalahan server"))
	}

	messages, err := h.store.GetMessages(ctx, session.ID)
	if err != nil {
		h.logger.Error("failed to get messages", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorEnvelope("Terjadi kesalahan server"))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"data": domain.SendResult{
			SessionID:  session.ID,
			Messages:   messageViews(messages),
			AIResponse: aiResponse,
		},
	})
}

// Destroy deletes a session and all its messages.
// DELETE /chat/:id
func (h *Handler) Destroy(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	if err := h.store.DeleteSession(ctx, id); err != nil {
		if err == store.ErrNotFound {
			return c.JSON(http.StatusNotFound, errorEnvelope("Chat tidak ditemukan"))
		}
		h.logger.Error("failed to delete session", zap.Error(err), zap.String("id", id))
		return c.JSON(http.StatusInternalServerError, errorEnvelope("Gagal menghapus sesi"))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Sesi berhasil dihapus",
	})
}

func errorEnvelope(msg string) map[string]interface{} {
	return map[string]interface{}{
		"success": false,
		"error":   msg,
	}
}

func messageViews(messages []domain.Message) []domain.MessageView {
	views := make([]domain.MessageView, 0, len(messages))
	for _, msg := range messages {
		views = append(views, domain.MessageView{
			Role:      msg.Role,
			Content:   msg.Content,
			CreatedAt: msg.CreatedAt.Format(messageTimeLayout),
		})
	}
	return views
}

func sessionViews(sessions []domain.Session) []domain.SessionView {
	views := make([]domain.SessionView, 0, len(sessions))
	for _, session := range sessions {
		views = append(views, domain.SessionView{
			ID:        session.ID,
			Title:     session.Title,
			CreatedAt: session.CreatedAt.Format(sessionTimeLayout),
		})
	}
	return views
}
