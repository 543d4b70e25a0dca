package network

import "wormz_server/logic"

// One JSON object per websocket message, discriminated by "type".

const (
	MsgJoin   = "join"
	MsgUpdate = "update"
	MsgLeave  = "leave"
	MsgPing   = "ping"

	MsgJoined      = "joined"
	MsgGameStarted = "gameStarted"
	MsgState       = "state"
	MsgError       = "error"
	MsgPong        = "pong"
)

type PlayerData struct {
	Name  string  `json:"name"`
	Stake float64 `json:"stake"`
	Color string  `json:"color"`
}

// ClientMessage is the inbound union; unused fields stay zero.
type ClientMessage struct {
	Type       string      `json:"type"`
	PlayerID   string      `json:"playerId,omitempty"`
	PlayerData *PlayerData `json:"playerData,omitempty"`
	Angle      float64     `json:"angle,omitempty"`
}

type JoinedMessage struct {
	Type         string `json:"type"`
	ServerID     string `json:"serverId"`
	CanStart     bool   `json:"canStart"`
	PlayersCount int    `json:"playersCount"`
	MinPlayers   int    `json:"minPlayers"`
}

type GameStartedMessage struct {
	Type         string `json:"type"`
	PlayersCount int    `json:"playersCount"`
}

type StateMessage struct {
	Type string `json:"type"`
	logic.WorldSnapshot
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type PongMessage struct {
	Type string `json:"type"`
}
