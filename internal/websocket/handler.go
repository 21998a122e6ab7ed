package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs attaches an authenticated moderator connection to the alert hub.
// It blocks until the connection closes; fiber's websocket handler expects
// that.
func ServeWs(hub *Hub, c *websocket.Conn, moderatorID string) {
	client := &Client{Hub: hub, Conn: c, ModeratorID: moderatorID, Send: make(chan []byte, 256)}
	client.Hub.register <- client

	go client.writePump()
	client.readPump()
}
