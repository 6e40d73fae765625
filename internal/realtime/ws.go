package realtime

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeTimeout = 10 * time.Second
	sendBuffer   = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// mismo origen lo decide el reverse proxy; el API no filtra aquí
	CheckOrigin: func(r *http.Request) bool { return true },
}

type conn struct {
	wc   *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *conn) closeOnce() {
	c.once.Do(func() {
		close(c.send)
	})
}

// ServeWS sube el request a websocket y registra la conexión para userID.
// El canal es solo de bajada (server -> cliente); lo que mande el cliente
// se lee y descarta, solo sirve para detectar el cierre.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID string) {
	wc, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", map[string]any{"err": err.Error()})
		return
	}

	c := &conn{
		wc:   wc,
		send: make(chan []byte, sendBuffer),
	}
	h.register(userID, c)

	go c.writePump()
	go func() {
		c.readUntilClose()
		h.drop(userID, c)
	}()
}

func (c *conn) writePump() {
	defer c.wc.Close()

	for msg := range c.send {
		_ = c.wc.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.wc.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}

	_ = c.wc.SetWriteDeadline(time.Now().Add(writeTimeout))
	_ = c.wc.WriteMessage(websocket.CloseMessage, nil)
}

func (c *conn) readUntilClose() {
	for {
		if _, _, err := c.wc.ReadMessage(); err != nil {
			return
		}
	}
}
