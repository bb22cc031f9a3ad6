package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/notifications-service/internal/contextkeys"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/notifications-service/internal/core/port"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/notifications-service/internal/core/port/usecases_port"
)

const keepAliveInterval = 15 * time.Second

type NotificationHandler struct {
	getNotificationsUC usecases_port.GetNotificationsUseCasePort
	markAsReadUC       usecases_port.MarkAsReadUseCasePort
	markAllAsReadUC    usecases_port.MarkAllAsReadUseCasePort
	presence           port.PresencePort
}

func NewNotificationHandler(
	getNotificationsUC usecases_port.GetNotificationsUseCasePort,
	markAsReadUC usecases_port.MarkAsReadUseCasePort,
	markAllAsReadUC usecases_port.MarkAllAsReadUseCasePort,
	presence port.PresencePort,
) *NotificationHandler {
	return &NotificationHandler{
		getNotificationsUC: getNotificationsUC,
		markAsReadUC:       markAsReadUC,
		markAllAsReadUC:    markAllAsReadUC,
		presence:           presence,
	}
}

// GetNotifications handles GET /api/v1/notifications
func (h *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetNotifications"})

	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	page, size, err := parsePageParams(r)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	notifications, total, err := h.getNotificationsUC.Execute(r.Context(), userID, page, size)
	if err != nil {
		logger.Error("Failed to fetch notifications", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to fetch notifications")
		return
	}

	data := make([]NotificationResponse, 0, len(notifications))
	for i := range notifications {
		data = append(data, toNotificationResponse(&notifications[i]))
	}

	RespondWithJSON(w, http.StatusOK, PaginatedNotificationsResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		Size:       size,
		TotalPages: totalPages(total, size),
	})
}

// MarkAsRead handles PATCH /api/v1/notifications/{notificationID}/read
func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "MarkAsRead"})

	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	notificationID, err := uuid.Parse(chi.URLParam(r, "notificationID"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid notification id")
		return
	}

	if err := h.markAsReadUC.Execute(r.Context(), notificationID, userID); err != nil {
		logger.Error("Failed to mark notification as read", err, port.Fields{"notification_id": notificationID.String()})
		WriteJSONError(w, http.StatusInternalServerError, "Failed to mark notification as read")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MarkAllAsRead handles PATCH /api/v1/notifications/read-all
func (h *NotificationHandler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "MarkAllAsRead"})

	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	if err := h.markAllAsReadUC.Execute(r.Context(), userID); err != nil {
		logger.Error("Failed to mark notifications as read", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to mark notifications as read")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Subscribe handles GET /api/v1/notifications/subscribe as a Server-Sent
// Events stream. The connection registers the user with the presence map;
// a later connection from the same user replaces this one.
func (h *NotificationHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "Subscribe"})

	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteJSONError(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	clientChan := h.presence.Register(userID)
	defer h.presence.Unregister(userID, clientChan)

	logger.Info("New client subscribed to notification stream", nil)

	fmt.Fprintf(w, "event: connected\ndata: {\"message\":\"subscribed\"}\n\n")
	flusher.Flush()

	// SSE comment lines keep intermediaries from timing the connection out.
	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case notification, open := <-clientChan:
			if !open {
				// Replaced by a newer connection from the same user.
				logger.Info("Notification channel closed, ending stream", nil)
				return
			}
			payload, err := json.Marshal(toNotificationResponse(&notification))
			if err != nil {
				logger.Error("Failed to encode notification for stream", err, nil)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: notification\ndata: %s\n\n", payload); err != nil {
				logger.Error("Error writing to client, closing stream", err, nil)
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := fmt.Fprintf(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			logger.Info("Notification stream client disconnected.", nil)
			return
		}
	}
}

func parsePageParams(r *http.Request) (page, size int, err error) {
	page, size = 1, 10
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		page, err = strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			return 0, 0, errors.New("page must be a positive integer")
		}
	}
	if sizeStr := r.URL.Query().Get("size"); sizeStr != "" {
		size, err = strconv.Atoi(sizeStr)
		if err != nil || size < 1 {
			return 0, 0, errors.New("size must be a positive integer")
		}
	}
	return page, size, nil
}

func totalPages(total int64, size int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}
