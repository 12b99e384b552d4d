package handlers

import (
	"net/http"

	"github.com/bobmcallan/folio-dashboard/internal/common"
	"github.com/bobmcallan/folio-dashboard/internal/interfaces"
	"github.com/bobmcallan/folio-dashboard/internal/notify"
)

// NotificationsHandler serves the notification feed.
type NotificationsHandler struct {
	session interfaces.SessionService
	logger  *common.Logger
}

// NewNotificationsHandler creates a new notifications handler.
func NewNotificationsHandler(session interfaces.SessionService, logger *common.Logger) *NotificationsHandler {
	return &NotificationsHandler{session: session, logger: logger}
}

// ServeHTTP handles GET /api/notifications. With ?since=<id> only newer
// notifications are returned.
func (h *NotificationsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	items := h.session.Notifications().Since(r.URL.Query().Get("since"))
	if items == nil {
		items = []notify.Notification{}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": items,
		"loading":       h.session.Loading(),
	})
}
