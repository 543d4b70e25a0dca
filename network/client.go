package network

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"wormz_server/logic"
)

var Upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one websocket session. Room and PlayerID are set after a
// successful join and only ever touched from the read pump, so the binding
// is inspectable without extra locking.
type Client struct {
	Manager  *Manager
	Conn     *websocket.Conn
	Send     chan []byte
	Room     *Room
	PlayerID string
}

func ServeWs(m *Manager, w http.ResponseWriter, r *http.Request) {
	conn, err := Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("transport: upgrade: %v", err)
		return
	}
	client := &Client{Manager: m, Conn: conn, Send: make(chan []byte, 256)}
	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		// An unexpected disconnect has the same side effects as leave.
		if c.Room != nil {
			c.Room.Unregister <- Departure{Client: c, Reason: logic.ReasonCrashed}
			c.Room = nil
		}
		c.Conn.Close()
	}()

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			break
		}

		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("protocol: bad message from %s: %v", c.remoteAddr(), err)
			c.SendJSON(ErrorMessage{Type: MsgError, Message: "malformed message"})
			continue
		}

		switch msg.Type {
		case MsgJoin:
			c.handleJoin(msg)

		case MsgUpdate:
			if c.Room == nil {
				c.SendJSON(ErrorMessage{Type: MsgError, Message: "not in a game"})
				continue
			}
			c.Room.SetHeading(c.PlayerID, msg.Angle)

		case MsgPing:
			if c.Room != nil {
				c.Room.Touch(c.PlayerID)
			}
			c.SendJSON(PongMessage{Type: MsgPong})

		case MsgLeave:
			if c.Room != nil {
				c.Room.Unregister <- Departure{Client: c, Reason: logic.ReasonLeave}
				c.Room = nil
			}
			return

		default:
			log.Printf("protocol: unknown message type %q from %s", msg.Type, c.remoteAddr())
			c.SendJSON(ErrorMessage{Type: MsgError, Message: "unknown message type"})
		}
	}
}

func (c *Client) handleJoin(msg ClientMessage) {
	if c.Room != nil {
		c.SendJSON(ErrorMessage{Type: MsgError, Message: "already in a game"})
		return
	}
	if msg.PlayerID == "" || msg.PlayerData == nil || msg.PlayerData.Stake <= 0 {
		log.Printf("protocol: invalid join from %s", c.remoteAddr())
		c.SendJSON(ErrorMessage{Type: MsgError, Message: "invalid join request"})
		return
	}

	room := c.Manager.AcquireRoom(msg.PlayerData.Stake)
	reply := make(chan JoinResult, 1)
	room.Register <- JoinRequest{Client: c, ID: msg.PlayerID, Data: *msg.PlayerData, Reply: reply}
	res := <-reply
	if res.Err != nil {
		// Room filled up between matchmaking and admission. The
		// connection stays open so the client can retry.
		c.SendJSON(ErrorMessage{Type: MsgError, Message: res.Err.Error()})
		return
	}
	c.Room = room
	c.PlayerID = msg.PlayerID
}

func (c *Client) writePump() {
	defer c.Conn.Close()
	for {
		message, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

func (c *Client) remoteAddr() string {
	if c.Conn == nil {
		return "?"
	}
	return c.Conn.RemoteAddr().String()
}

func (c *Client) SendJSON(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("transport: marshal: %v", err)
		return
	}
	c.Send <- b
}
