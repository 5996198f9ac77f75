package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/familyalbum/server/internal/models"
	"github.com/familyalbum/server/internal/repository"
	"github.com/familyalbum/server/internal/services"
)

// NotificationHandler handles Web Push subscription endpoints
type NotificationHandler struct {
	subs repository.SubscriptionRepo
	push *services.PushService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(subs repository.SubscriptionRepo, push *services.PushService) *NotificationHandler {
	return &NotificationHandler{subs: subs, push: push}
}

// VapidKey handles GET /api/notifications/vapid-key
func (h *NotificationHandler) VapidKey(w http.ResponseWriter, r *http.Request) {
	if !h.push.Configured() {
		respondError(w, http.StatusServiceUnavailable, "알림 기능이 아직 설정되지 않았습니다.")
		return
	}
	respondJSON(w, http.StatusOK, models.VapidKeyResponse{PublicKey: h.push.PublicKey()})
}

// Subscribe handles POST /api/notifications/subscribe
func (h *NotificationHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	if !h.push.Configured() {
		respondError(w, http.StatusServiceUnavailable, "알림 기능이 아직 설정되지 않았습니다.")
		return
	}

	var req models.SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "요청 본문이 올바르지 않습니다.")
		return
	}

	sub, err := models.NewPushSubscription(req.Endpoint, req.Keys.P256dh, req.Keys.Auth)
	if err != nil {
		respondAppError(w, r, err)
		return
	}

	if err := h.subs.Upsert(r.Context(), sub); err != nil {
		respondAppError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, sub)
}

// Unsubscribe handles DELETE /api/notifications/subscribe
func (h *NotificationHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req models.UnsubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "요청 본문이 올바르지 않습니다.")
		return
	}
	if req.Endpoint == "" {
		respondError(w, http.StatusBadRequest, "endpoint가 필요합니다.")
		return
	}

	if err := h.subs.Remove(r.Context(), req.Endpoint); err != nil {
		respondAppError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
