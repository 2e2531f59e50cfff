package notifyws

import (
	"encoding/json"
	"strconv"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/sirupsen/logrus"
	"github.com/sohail-1209/learnx/internal/models"
)

// Hub pushes notifications to connected clients. Traffic is one-way:
// the server writes, clients only hold the connection open.
type Hub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	push       chan *envelope
	log        *logrus.Logger
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	send   chan []byte
}

type envelope struct {
	userID  string
	payload []byte
}

type pushMessage struct {
	Type string               `json:"type"`
	Data *models.Notification `json:"data"`
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		push:       make(chan *envelope, 64),
		log:        log,
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, 32),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
		case client := <-h.unregister:
			set, ok := h.clients[client.userID]
			if !ok {
				continue
			}
			if _, exists := set[client]; exists {
				delete(set, client)
				close(client.send)
			}
			if len(set) == 0 {
				delete(h.clients, client.userID)
			}
		case event := <-h.push:
			h.sendToUser(event.userID, event.payload)
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Push delivers the notification to every open connection the user
// has. Users without a connection just miss the push; the row is
// still in their notification list.
func (h *Hub) Push(userID int64, notification *models.Notification) {
	payload, err := json.Marshal(pushMessage{Type: "notification", Data: notification})
	if err != nil {
		h.log.WithError(err).Error("failed to encode notification push")
		return
	}

	select {
	case h.push <- &envelope{userID: strconv.FormatInt(userID, 10), payload: payload}:
	default:
		h.log.Warn("notification push channel full, dropping push")
	}
}

func (h *Hub) sendToUser(userID string, payload []byte) {
	set, ok := h.clients[userID]
	if !ok {
		return
	}

	for client := range set {
		select {
		case client.send <- payload:
		default:
			delete(set, client)
			close(client.send)
		}
	}
	if len(set) == 0 {
		delete(h.clients, userID)
	}
}

// ReadPump drains the connection until the client goes away. Incoming
// frames carry no commands; reading only serves close detection.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}
