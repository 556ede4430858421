package socket

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

type client struct {
	conn     *websocket.Conn
	branchID string
}

// Hub tracks connected WebSocket clients by employee id and groups them by
// branch, so a status change can be pushed to everyone watching that branch.
type Hub struct {
	clients map[string]*client
	mu      sync.RWMutex
	log     *logrus.Entry
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*client),
		log:     logrus.WithField("component", "socket"),
	}
}

// Register adds a client. A reconnect under the same employee id replaces
// the previous connection.
func (h *Hub) Register(employeeID, branchID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[employeeID] = &client{conn: conn, branchID: branchID}
	h.log.WithFields(logrus.Fields{"employeeID": employeeID, "branchID": branchID}).
		Debug("websocket client registered")
}

func (h *Hub) Unregister(employeeID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[employeeID]; ok {
		delete(h.clients, employeeID)
		h.log.WithField("employeeID", employeeID).Debug("websocket client unregistered")
	}
}

// SendToBranch pushes a message to every client of the branch. Offline
// branches and write failures are logged and ignored; delivery here is
// best-effort.
func (h *Hub) SendToBranch(branchID string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for employeeID, cl := range h.clients {
		if cl.branchID != branchID {
			continue
		}
		if err := cl.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			h.log.WithError(err).WithField("employeeID", employeeID).
				Warn("failed to push websocket message")
		}
	}
}
