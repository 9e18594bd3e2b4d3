package websocket

import (
	"context"
	"log"
	"sync"

	"github.com/pawpal/pet_marketplace/realtime"
	"github.com/pawpal/pet_marketplace/services"
	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

type Client struct {
	UserID uuid.UUID
	Role   string
	Conn   *websocket.Conn
}

type refreshPayload struct {
	Table string      `json:"table"`
	Rows  interface{} `json:"rows"`
}

// refresher pairs a change-feed table with the listing query that
// rebuilds it. The pushed payload is always labeled with the same table
// the subscription listens on.
type refresher struct {
	table string
	load  func(ctx context.Context, userID uuid.UUID) (interface{}, error)
}

var clients = make(map[uuid.UUID]*websocket.Conn)
var subscriptions = make(map[uuid.UUID][]*realtime.Subscription)
var clientsMu sync.RWMutex

var Register = make(chan *Client)
var Unregister = make(chan *Client)

// RunHub keeps each connected dashboard eventually consistent: every
// change-feed event in a client's scope re-runs the full listing query
// plus enrichment and pushes the fresh row set. No incremental patching.
func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Dashboard client registered: %s (%s)", client.UserID, client.Role)
			clientsMu.Lock()
			clients[client.UserID] = client.Conn
			subscriptions[client.UserID] = subscribe(client)
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Dashboard client unregistered: %s", client.UserID)
			clientsMu.Lock()
			if conn, ok := clients[client.UserID]; ok && conn == client.Conn {
				for _, sub := range subscriptions[client.UserID] {
					sub.Unsubscribe()
				}
				delete(subscriptions, client.UserID)
				delete(clients, client.UserID)
			}
			clientsMu.Unlock()
		}
	}
}

// refreshersFor maps a role to the listings its dashboard shows.
func refreshersFor(role string) []refresher {
	switch role {
	case "admin":
		return []refresher{
			{table: "payout_requests", load: adminPayoutRows},
			{table: "groomer_profiles", load: adminGroomerRows},
		}
	case "groomer":
		return []refresher{
			{table: "grooming_bookings", load: groomerBookingRows},
			{table: "payout_requests", load: groomerPayoutRows},
		}
	default:
		return []refresher{
			{table: "grooming_bookings", load: ownerBookingRows},
		}
	}
}

// subscribe wires the change-feed subscriptions a client's role needs.
// One subscription per (table, scope) per connection. Admin listings
// cover every user, so admins subscribe unscoped.
func subscribe(client *Client) []*realtime.Subscription {
	scope := client.UserID
	if client.Role == "admin" {
		scope = uuid.Nil
	}

	var subs []*realtime.Subscription
	for _, r := range refreshersFor(client.Role) {
		subs = append(subs, realtime.Default.Subscribe(r.table, scope, func(realtime.Event) {
			refresh(client.UserID, r)
		}))
	}
	return subs
}

func refresh(userID uuid.UUID, r refresher) {
	rows, err := r.load(context.Background(), userID)
	if err != nil {
		log.Printf("Error refreshing %s for %s: %v", r.table, userID, err)
		return
	}
	push(userID, refreshPayload{Table: r.table, Rows: rows})
}

func adminPayoutRows(ctx context.Context, _ uuid.UUID) (interface{}, error) {
	return services.AdminPayoutQueue(ctx, "waiting_for_review", "")
}

func adminGroomerRows(ctx context.Context, _ uuid.UUID) (interface{}, error) {
	return services.AdminGroomerQueue(ctx, "pending", "")
}

func ownerBookingRows(ctx context.Context, userID uuid.UUID) (interface{}, error) {
	return services.OwnerBookings(ctx, userID)
}

func groomerBookingRows(ctx context.Context, userID uuid.UUID) (interface{}, error) {
	return services.GroomerBookings(ctx, userID)
}

func groomerPayoutRows(ctx context.Context, userID uuid.UUID) (interface{}, error) {
	return services.PayeePayoutRequests(ctx, userID)
}

func push(userID uuid.UUID, payload refreshPayload) {
	clientsMu.RLock()
	conn, ok := clients[userID]
	clientsMu.RUnlock()
	if !ok {
		// Client disconnected between event and refetch; drop the update.
		return
	}

	if err := conn.WriteJSON(payload); err != nil {
		log.Printf("Error pushing refresh to client %s: %v", userID, err)
		conn.Close()
		clientsMu.Lock()
		if current, stillThere := clients[userID]; stillThere && current == conn {
			for _, sub := range subscriptions[userID] {
				sub.Unsubscribe()
			}
			delete(subscriptions, userID)
			delete(clients, userID)
		}
		clientsMu.Unlock()
	}
}
