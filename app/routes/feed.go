package routes

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/shashiranjanraj/villageangel/app/models"
	"github.com/shashiranjanraj/villageangel/app/services"
	"github.com/shashiranjanraj/villageangel/pkg/container"
	"github.com/shashiranjanraj/villageangel/pkg/event"
	"github.com/shashiranjanraj/villageangel/pkg/logger"
	"github.com/shashiranjanraj/villageangel/pkg/sse"
	"github.com/shashiranjanraj/villageangel/pkg/ws"
)

// orderFeed pushes order.placed events to the admin console live view,
// over WebSocket and SSE alike.
type orderFeed struct {
	hub *ws.Hub

	mu          sync.Mutex
	subscribers map[chan []byte]struct{}
}

func newOrderFeed() *orderFeed {
	f := &orderFeed{
		hub:         ws.NewHub(),
		subscribers: make(map[chan []byte]struct{}),
	}
	go f.hub.Run()

	event.Listen(services.EventOrderPlaced, func(payload interface{}) {
		order, ok := payload.(*models.Order)
		if !ok {
			return
		}
		f.publish(order)
	})

	return f
}

// feed returns the process-wide order feed singleton.
func feed() *orderFeed {
	if !container.Has("routes.orderFeed") {
		container.Singleton("routes.orderFeed", func() interface{} { return newOrderFeed() })
	}
	return container.Make("routes.orderFeed").(*orderFeed)
}

func (f *orderFeed) publish(order *models.Order) {
	msg, err := json.Marshal(map[string]interface{}{
		"event":   services.EventOrderPlaced,
		"orderId": order.ID,
		"userId":  order.UserID,
		"total":   order.Total,
		"status":  order.Status,
		"at":      time.Now().UTC(),
	})
	if err != nil {
		logger.Error("feed: marshal order event", "error", err)
		return
	}

	f.hub.Broadcast <- msg

	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers {
		select {
		case ch <- msg:
		default:
			// Slow SSE consumer — skip rather than block checkout.
		}
	}
}

func (f *orderFeed) subscribe() chan []byte {
	ch := make(chan []byte, 16)
	f.mu.Lock()
	f.subscribers[ch] = struct{}{}
	f.mu.Unlock()
	return ch
}

func (f *orderFeed) unsubscribe(ch chan []byte) {
	f.mu.Lock()
	delete(f.subscribers, ch)
	f.mu.Unlock()
}

// WebSocket handler streams order events to connected admin consoles.
func (f *orderFeed) serveWS(w http.ResponseWriter, r *http.Request) {
	ws.Upgrade(w, r, f.hub)
}

// SSE handler streams the same events for clients without WebSocket.
func (f *orderFeed) serveSSE(w http.ResponseWriter, r *http.Request) {
	stream := sse.New(w, r)
	ch := f.subscribe()
	defer f.unsubscribe(ch)

	stream.Comment("connected")

	heartbeat := time.NewTicker(25 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			stream.Comment("ping")
		case msg := <-ch:
			stream.SendRaw(string(msg))
		}
	}
}
