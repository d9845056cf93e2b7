package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"sluff/internal/game"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins
	},
}

// client is one socket with its write lock. gorilla allows a single
// concurrent writer per connection.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) send(event string, data any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(map[string]any{"event": event, "data": data})
}

// Hub owns every live websocket connection and routes client actions to the
// game service. It is the service's Broadcaster.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
	game    Game
	log     *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*client),
		log:     log,
	}
}

// SetGame breaks the hub/service construction cycle: the service needs the
// hub as broadcaster before the hub can know the service.
func (h *Hub) SetGame(game Game) { h.game = game }

// ToConn delivers one event to one connection. Dead connections are dropped.
func (h *Hub) ToConn(connID, event string, data any) {
	h.mu.RLock()
	cl, ok := h.clients[connID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	if err := cl.send(event, data); err != nil {
		h.log.Debug("ws write failed", "connId", connID, "error", err)
		h.drop(connID)
	}
}

// ToAll delivers one event to every connection.
func (h *Hub) ToAll(event string, data any) {
	h.mu.RLock()
	targets := make(map[string]*client, len(h.clients))
	for id, cl := range h.clients {
		targets[id] = cl
	}
	h.mu.RUnlock()
	for id, cl := range targets {
		if err := cl.send(event, data); err != nil {
			h.drop(id)
		}
	}
}

func (h *Hub) drop(connID string) {
	h.mu.Lock()
	cl, ok := h.clients[connID]
	if ok {
		delete(h.clients, connID)
	}
	h.mu.Unlock()
	if ok {
		_ = cl.conn.Close()
	}
}

type message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

// HandleWS upgrades the connection and runs its read loop. Identity comes
// from the userId and username query parameters.
func (h *Hub) HandleWS(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("userId"), 10, 64)
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid userId"})
		return
	}
	username := c.Query("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing username"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", "error", err)
		return
	}

	connID := uuid.NewString()
	cl := &client{conn: conn}
	h.mu.Lock()
	h.clients[connID] = cl
	h.mu.Unlock()
	h.log.Info("ws connected", "connId", connID, "userId", userID, "username", username)

	defer func() {
		h.drop(connID)
		h.game.Disconnect(connID)
		h.log.Info("ws disconnected", "connId", connID, "userId", userID)
	}()

	h.game.SyncUser(connID, userID)
	h.ToConn(connID, "lobbyState", h.game.LobbyState())

	for {
		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("ws read error", "connId", connID, "error", err)
			}
			return
		}
		h.dispatch(connID, userID, username, msg)
	}
}

func (h *Hub) dispatch(connID string, userID int64, username string, msg message) {
	var p struct {
		TableID    string   `json:"tableId"`
		Bid        string   `json:"bid"`
		Suit       string   `json:"suit"`
		Card       string   `json:"card"`
		Discards   []string `json:"discards"`
		Setting    string   `json:"settingType"`
		Value      int      `json:"value"`
		TargetName string   `json:"targetPlayerName"`
		Vote       string   `json:"vote"`
	}
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			h.ToConn(connID, "error", gin.H{"message": "Malformed payload."})
			return
		}
	}

	switch msg.Action {
	case "joinTable":
		h.game.JoinTable(connID, p.TableID, userID, username)
	case "leaveTable":
		h.game.LeaveTable(connID)
	case "addBot":
		h.game.AddBot(p.TableID, userID)
	case "removeBot":
		h.game.RemoveBot(p.TableID, userID)
	case "startGame":
		h.game.StartGame(p.TableID, userID)
	case "dealCards":
		h.game.DealCards(p.TableID, userID)
	case "placeBid":
		h.game.PlaceBid(p.TableID, userID, game.Bid(p.Bid))
	case "chooseTrump":
		h.game.ChooseTrump(p.TableID, userID, game.Suit(p.Suit))
	case "submitFrogDiscards":
		discards := make([]game.Card, len(p.Discards))
		for i, d := range p.Discards {
			discards[i] = game.Card(d)
		}
		h.game.SubmitFrogDiscards(p.TableID, userID, discards)
	case "playCard":
		h.game.PlayCard(p.TableID, userID, game.Card(p.Card))
	case "requestNextRound":
		h.game.RequestNextRound(p.TableID, userID)
	case "forfeitGame":
		h.game.ForfeitGame(p.TableID, userID)
	case "resetGame":
		h.game.ResetGame(p.TableID, userID)
	case "updateInsuranceSetting":
		h.game.UpdateInsuranceSetting(p.TableID, userID, p.Setting, p.Value)
	case "startTimeoutClock":
		h.game.StartTimeoutClock(p.TableID, userID, p.TargetName)
	case "requestDraw":
		h.game.RequestDraw(p.TableID, userID)
	case "submitDrawVote":
		h.game.SubmitDrawVote(p.TableID, userID, p.Vote)
	case "requestFreeToken":
		h.game.RequestFreeToken(connID, userID)
	case "requestUserSync":
		h.game.SyncUser(connID, userID)
	default:
		h.log.Warn("unknown ws action", "action", msg.Action, "connId", connID)
	}
}
