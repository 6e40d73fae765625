package realtime

import (
	"encoding/json"
	"sync"

	"pet-rescue-network/internal/platform/logger"
)

// Tipos de evento que se empujan por el canal realtime.
const (
	EventMessageNew      = "message.new"
	EventNotificationNew = "notification.new"
)

// Event es lo que viaja al cliente, serializado como JSON.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Hub mantiene las conexiones websocket activas, agrupadas por usuario.
// Un usuario puede tener varias pestañas abiertas (varias conexiones).
//
// La entrega es best-effort: si el buffer de una conexión está lleno o
// la conexión murió, se descarta. No hay reintentos ni acks; el cliente
// siempre puede re-consultar por HTTP.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]map[*conn]struct{}
	log   logger.Logger
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{
		conns: make(map[string]map[*conn]struct{}),
		log:   log,
	}
}

// Publish serializa el evento y lo manda a todas las conexiones del usuario.
func (h *Hub) Publish(userID string, ev Event) {
	b, err := json.Marshal(ev)
	if err != nil {
		h.log.Error("realtime marshal failed", map[string]any{"type": ev.Type, "err": err.Error()})
		return
	}

	// Los envíos son no bloqueantes bajo RLock; las conexiones lentas
	// se descartan recién después de soltar el lock vía drop.
	var slow []*conn

	h.mu.RLock()
	for c := range h.conns[userID] {
		select {
		case c.send <- b:
		default:
			// buffer lleno: conexión lenta, se la descarta
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.drop(userID, c)
	}
}

// drop des-registra la conexión y recién entonces cierra su canal.
// El orden importa: mientras una conexión figure en el registro algún
// Publish puede estar escribiéndole, y escribir sobre un canal cerrado
// es pánico. unregister toma el write lock, así que al cerrar ya no
// queda ningún Publish en vuelo apuntándole.
func (h *Hub) drop(userID string, c *conn) {
	h.unregister(userID, c)
	c.closeOnce()
}

// ConnectedUsers devuelve cuántos usuarios tienen al menos una conexión.
func (h *Hub) ConnectedUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *Hub) register(userID string, c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.conns[userID]
	if !ok {
		set = make(map[*conn]struct{})
		h.conns[userID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) unregister(userID string, c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.conns[userID]
	if !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.conns, userID)
	}
}
