package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Sesuaikan policy CORS jika diperlukan
		return true
	},
}

func ServeWS(hub *Hub) echo.HandlerFunc {
	return func(c echo.Context) error {
		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			return err
		}
		client := &Client{Conn: conn, Send: make(chan []byte, 256)}
		select {
		case hub.Register <- client:
		case <-hub.done:
			conn.Close()
			return nil
		}

		go client.writePump()
		go client.readPump(hub)
		return nil
	}
}

// readPump hanya menjaga koneksi, dashboard tidak mengirim pesan.
func (c *Client) readPump(hub *Hub) {
	defer func() {
		select {
		case hub.Unregister <- c:
		case <-hub.done:
		}
		c.Conn.Close()
	}()
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *Client) writePump() {
	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			break
		}
	}
	c.Conn.Close()
}
