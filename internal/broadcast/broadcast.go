// Package broadcast fans one logical event out to two disjoint audiences:
// player screens and admin dashboards. Delivery is counted per audience so
// an operator can tell "nobody was listening" apart from "delivery failed".
package broadcast

import (
	"log"

	"castboard/internal/command"
	"castboard/internal/registry"
)

type Coordinator struct {
	screens *registry.ScreenRegistry
	admins  *registry.AdminRegistry
}

func New(screens *registry.ScreenRegistry, admins *registry.AdminRegistry) *Coordinator {
	return &Coordinator{screens: screens, admins: admins}
}

// Result aggregates the counts of one composite broadcast.
type Result struct {
	WSNotified    int `json:"ws_notified"`
	SSENotified   int `json:"sse_notified"`
	AdminNotified int `json:"admin_notified"`
	TotalClients  int `json:"total_clients"`
}

// NotifyContentUpdate pushes a refresh-content command to every connected
// screen. Each send is isolated: a dead channel is pruned by the registry
// and the fan-out moves on. The count reflects successful writes only.
func (c *Coordinator) NotifyContentUpdate(triggeringScreenID string) int {
	cmd := command.NewRefreshContent(triggeringScreenID)
	notified := 0
	for _, id := range c.screens.ListConnected() {
		if c.screens.Send(id, cmd) {
			notified++
		}
	}
	log.Printf("broadcast: content update delivered to %d screens", notified)
	return notified
}

// NotifyAdminRefresh pushes a refresh signal to every connected admin
// dashboard. Admin delivery is best-effort and failures are cosmetic.
func (c *Coordinator) NotifyAdminRefresh(source string) int {
	cmd := command.NewRefresh(source, false)
	notified := 0
	for _, id := range c.admins.Sessions() {
		if c.admins.Send(id, cmd) {
			notified++
		}
	}
	return notified
}

// BroadcastRefresh is the composite "refresh everything" action: a forced
// refresh to every screen plus a notification to every admin session, with
// per-transport delivery counts aggregated into one result.
func (c *Coordinator) BroadcastRefresh(sourceScreenID, source string) Result {
	screenIDs := c.screens.ListConnected()
	adminIDs := c.admins.Sessions()

	res := Result{TotalClients: len(screenIDs) + len(adminIDs)}

	cmd := command.NewRefresh(source, true)
	for _, id := range screenIDs {
		transport, ok := c.screens.TransportOf(id)
		if !ok {
			continue
		}
		if !c.screens.Send(id, cmd) {
			continue
		}
		switch transport {
		case registry.TransportWebSocket:
			res.WSNotified++
		case registry.TransportSSE:
			res.SSENotified++
		}
	}

	adminCmd := command.NewRefresh(source, false)
	for _, id := range adminIDs {
		if c.admins.Send(id, adminCmd) {
			res.AdminNotified++
		}
	}

	log.Printf("broadcast: refresh from %q reached ws=%d sse=%d admin=%d of %d clients",
		sourceScreenID, res.WSNotified, res.SSENotified, res.AdminNotified, res.TotalClients)
	return res
}
