package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs attaches conn to the hub for workspaceID and blocks until it closes.
// hello, when set, is the first message the client receives.
func ServeWs(hub *Hub, conn *websocket.Conn, workspaceID string, hello []byte) {
	client := NewClient(hub, conn, workspaceID)
	if hello != nil {
		client.Send <- hello
	}
	if !hub.join(client) {
		conn.Close()
		return
	}

	go client.writePump()
	client.readPump()
}
