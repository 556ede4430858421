package socket

import (
	"context"
	"encoding/json"
	"time"
)

// NotificationSink persists a notification so the branch can read it after
// reconnecting.
type NotificationSink interface {
	Create(ctx context.Context, branchID, requisitionID, status string) error
}

// StatusNotifier implements requisition.Notifier: it stores the notification
// and pushes it to the branch over the hub. Both halves are best-effort;
// a failure never affects the transition that triggered it.
type StatusNotifier struct {
	hub  *Hub
	sink NotificationSink
}

func NewStatusNotifier(hub *Hub, sink NotificationSink) *StatusNotifier {
	return &StatusNotifier{hub: hub, sink: sink}
}

func (n *StatusNotifier) NotifyStatusChange(branchID, requisitionID, newStatus string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if n.sink != nil {
		if err := n.sink.Create(ctx, branchID, requisitionID, newStatus); err != nil {
			n.hub.log.WithError(err).WithField("requisitionID", requisitionID).
				Warn("failed to persist notification")
		}
	}

	payload, _ := json.Marshal(map[string]string{
		"event":         "requisition_status",
		"requisitionID": requisitionID,
		"status":        newStatus,
	})
	n.hub.SendToBranch(branchID, payload)
}
