package controller

import (
	"log"

	"leadflow/lifecycle"

	"github.com/gofiber/websocket/v2"
)

// HandlePipelineWS streams committed lifecycle events (promotions, drops,
// reactivations, AMC scheduling runs) to the connected client as JSON until
// the client disconnects.
func HandlePipelineWS(hub *lifecycle.Hub) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		events := hub.Subscribe()
		defer hub.Unsubscribe(events)

		// Drain reads so close frames are noticed
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := c.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				if err := c.WriteJSON(ev); err != nil {
					log.Printf("pipeline ws: write failed: %v", err)
					return
				}
			case <-done:
				return
			}
		}
	}
}
