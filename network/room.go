package network

import (
	"encoding/json"
	"log"

	"github.com/google/uuid"

	"wormz_server/logic"
)

// JoinRequest asks the hub to admit a player. Reply always receives
// exactly one result.
type JoinRequest struct {
	Client *Client
	ID     string
	Data   PlayerData
	Reply  chan<- JoinResult
}

type JoinResult struct {
	Err error
}

// Departure removes a client, whether from an explicit leave, a transport
// failure or anything else that ends the session.
type Departure struct {
	Client *Client
	Reason string
}

// Room binds one stake tier's arena to its connected clients. All client
// table mutation and all broadcasting happen on the hub goroutine; world
// mutation goes through the lock-guarded GameState.
type Room struct {
	ID      string
	Stake   float64
	Clients map[*Client]bool

	Register   chan JoinRequest
	Unregister chan Departure

	Loop   *logic.GameLoop
	Config *logic.GameConfig
}

func NewRoom(stake float64, cfg *logic.GameConfig, sink logic.SettlementSink) *Room {
	return &Room{
		ID:         uuid.NewString(),
		Stake:      stake,
		Clients:    make(map[*Client]bool),
		Register:   make(chan JoinRequest),
		Unregister: make(chan Departure),
		Loop:       logic.NewGameLoop(cfg, sink),
		Config:     cfg,
	}
}

func (r *Room) Run() {
	go r.Loop.Run()
	log.Printf("room %s created for stake tier %.2f", r.ID, r.Stake)

	for {
		select {
		case req := <-r.Register:
			r.handleJoin(req)

		case dep := <-r.Unregister:
			if _, ok := r.Clients[dep.Client]; !ok {
				break // already removed (leave followed by close)
			}
			delete(r.Clients, dep.Client)
			r.Loop.GameState.RemovePlayer(dep.Client.PlayerID, dep.Reason)
			close(dep.Client.Send)

		case snap := <-r.Loop.SnapshotChan:
			r.broadcast(StateMessage{Type: MsgState, WorldSnapshot: snap})

		case <-r.Loop.StopChan:
			return
		}
	}
}

func (r *Room) handleJoin(req JoinRequest) {
	_, justStarted, err := r.Loop.GameState.AddPlayer(req.ID, req.Data.Name, req.Data.Color, req.Data.Stake)
	if err != nil {
		req.Reply <- JoinResult{Err: err}
		return
	}
	r.Clients[req.Client] = true
	req.Reply <- JoinResult{}

	count := r.Loop.GameState.PlayerCount()
	req.Client.SendJSON(JoinedMessage{
		Type:         MsgJoined,
		ServerID:     r.ID,
		CanStart:     r.Loop.GameState.Started(),
		PlayersCount: count,
		MinPlayers:   r.Config.Server.MinPlayers,
	})

	// The start threshold fires exactly once per room and is never
	// re-sent, even if players later leave.
	if justStarted {
		log.Printf("room %s started with %d players", r.ID, count)
		r.broadcast(GameStartedMessage{Type: MsgGameStarted, PlayersCount: count})
	}
}

// broadcast pushes a message to every connected client. Sends never block:
// a client whose transport has stalled or closed keeps its slot until its
// own close/error event reaps it.
func (r *Room) broadcast(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("transport: marshal broadcast: %v", err)
		return
	}
	for client := range r.Clients {
		select {
		case client.Send <- b:
		default:
		}
	}
}

// SetHeading applies a steering update for a joined player.
func (r *Room) SetHeading(playerID string, angle float64) {
	r.Loop.GameState.SetHeading(playerID, angle)
}

// Touch refreshes a player's liveness timestamp.
func (r *Room) Touch(playerID string) {
	r.Loop.GameState.Touch(playerID)
}

// Joinable reports whether matchmaking may still place players here.
func (r *Room) Joinable() bool {
	return !r.Loop.GameState.Started() &&
		r.Loop.GameState.PlayerCount() < r.Config.Server.MaxPlayers
}

func (r *Room) Stop() {
	r.Loop.Stop()
}
