package server

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/starweb/starweb/config"
	"github.com/starweb/starweb/events"
	"github.com/starweb/starweb/game"
	"github.com/starweb/starweb/store"
)

// inboundFrame pairs a decoded client frame with its connection.
type inboundFrame struct {
	client *Client
	msg    ClientMessage
}

// Server is the engine: the one goroutine that owns the game state.
// Connection goroutines only touch it through the register, unregister and
// inbound channels.
type Server struct {
	cfg *config.Config
	log zerolog.Logger

	state *game.GameState
	bus   *events.Bus
	store *store.Store
	saver *store.Saver
	sched *Scheduler
	delta *DeltaEngine

	clients  map[string]*Client // by connection ID
	byPlayer map[string]*Client // by lower-cased player name

	accounts map[string]store.Account // reserved names, lower-cased
	sessions map[string]store.Session // by token

	register   chan *Client
	unregister chan *Client
	inbound    chan inboundFrame
}

// NewServer wires the engine around an already-loaded game state.
func NewServer(cfg *config.Config, gs *game.GameState, st *store.Store, bus *events.Bus, log zerolog.Logger) *Server {
	s := &Server{
		cfg:        cfg,
		log:        log,
		state:      gs,
		bus:        bus,
		store:      st,
		saver:      store.NewSaver(st, log),
		sched:      NewScheduler(cfg.Game),
		delta:      NewDeltaEngine(),
		clients:    make(map[string]*Client),
		byPlayer:   make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inboundFrame, 256),
		accounts:   make(map[string]store.Account),
	}

	accounts, err := st.LoadAccounts()
	if err != nil {
		log.Warn().Err(err).Msg("accounts file unreadable, all names open")
	}
	for name, a := range accounts {
		s.accounts[strings.ToLower(name)] = a
	}
	s.sessions, err = st.LoadSessions()
	if err != nil {
		log.Warn().Err(err).Msg("sessions file unreadable, reserved names unclaimable")
	}

	bus.SubscribeAll(s.logEvent)
	return s
}

// Run is the engine loop. It returns once ctx is cancelled and the final
// snapshot has been flushed.
func (s *Server) Run(ctx context.Context) {
	s.sched.Reset(time.Now(), s.state)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			return

		case client := <-s.register:
			s.clients[client.ID] = client
			client.Send(WelcomeFrame{Type: MsgTypeWelcome, ID: client.ID})
			s.log.Info().Str("client", client.ID).Msg("client connected")

		case client := <-s.unregister:
			s.dropClient(client)

		case frame := <-s.inbound:
			s.handleFrame(frame.client, frame.msg)

		case now := <-ticker.C:
			s.tick(now)
		}
	}
}

func (s *Server) dropClient(client *Client) {
	if _, ok := s.clients[client.ID]; !ok {
		return
	}
	delete(s.clients, client.ID)
	close(client.send)

	if client.Player != "" && s.byPlayer[client.Player] == client {
		delete(s.byPlayer, client.Player)
		s.delta.Forget(client.Player)
		if p, ok := s.state.Players[client.Player]; ok {
			// Orders and identity are retained; only the live link goes.
			p.Connected = false
		}
		s.log.Info().Str("player", client.Player).Msg("player disconnected")
	} else {
		s.log.Info().Str("client", client.ID).Msg("client disconnected")
	}
}

func (s *Server) handleFrame(client *Client, msg ClientMessage) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().
				Str("client", client.ID).
				Str("type", msg.Type).
				Interface("panic", r).
				Msg("panic handling client frame")
			client.Send(errorFrame("Internal error handling your request"))
		}
	}()

	switch msg.Type {
	case MsgTypeCommand:
		s.handleCommand(client, msg.Text, msg.Token)
	case MsgTypeChat:
		s.handleChat(client, msg)
	case MsgTypeBugReport:
		s.handleBugReport(client, msg)
	default:
		client.Send(errorFrame("Unknown message type " + msg.Type))
	}
}

// tick advances the clock once per second: fire the turn when it is due or
// everyone is ready, otherwise just tell the clients the time.
func (s *Server) tick(now time.Time) {
	if len(s.state.Players) > 0 && (AllReady(s.state) || s.sched.Due(now, s.state)) {
		s.fireTurn(now)
		return
	}
	s.broadcastTimer(now)
}

func (s *Server) broadcastTimer(now time.Time) {
	frame := TimerFrame{
		Type:          MsgTypeTimer,
		TimeRemaining: s.sched.Remaining(now),
		PlayersReady:  ReadyCount(s.state),
		TotalPlayers:  len(s.state.Players),
		GameTurn:      s.state.Turn,
	}
	for _, client := range s.byPlayer {
		client.Send(frame)
	}
}

// fireTurn resolves a turn and streams the outcome: events to their
// observers, a delta (or full update) per player, and the snapshot to the
// write-behind saver.
func (s *Server) fireTurn(now time.Time) {
	result := s.state.ProcessTurn()
	if result.Err != nil {
		s.log.Error().Err(result.Err).Int("turn", result.Turn).Msg("turn aborted, state rolled back")
		for _, client := range s.byPlayer {
			client.Send(errorFrame("Turn processing failed; the turn was rolled back"))
		}
		s.sched.Reset(now, s.state)
		return
	}

	s.log.Info().
		Int("turn", result.Turn).
		Int("events", len(result.Events)).
		Str("winner", result.Winner).
		Msg("turn processed")

	for _, e := range result.Events {
		s.bus.Publish(e)
	}
	s.dispatchEvents(result.Events)
	s.broadcastViews()

	if result.Winner != "" {
		for _, client := range s.byPlayer {
			client.Send(EventFrame{
				Type:      MsgTypeEvent,
				Text:      "Game over: " + result.Winner + " has won!",
				EventType: "info",
			})
		}
	}

	s.saver.Enqueue(s.state.Snapshot())
	s.sched.Reset(now, s.state)
}

// broadcastViews sends each connected player the smallest frame that
// brings them current: a delta when a baseline exists, a full update
// otherwise.
func (s *Server) broadcastViews() {
	for key, client := range s.byPlayer {
		p := s.state.Players[key]
		if p == nil {
			continue
		}
		proj := s.state.Project(p)
		if changes := s.delta.Compute(key, proj); changes != nil {
			client.Send(DeltaFrame{Type: MsgTypeDelta, Changes: changes})
		} else if _, ok := s.delta.players[key]; !ok {
			s.sendFull(client, proj)
		}
	}
}

// sendFull sends the complete projection and makes it the delta baseline.
func (s *Server) sendFull(client *Client, proj *game.Projection) {
	now := time.Now()
	client.Send(StateFrame{
		Type: MsgTypeUpdate,
		State: &ViewState{
			Projection:    *proj,
			TimeRemaining: s.sched.Remaining(now),
			PlayersReady:  ReadyCount(s.state),
			TotalPlayers:  len(s.state.Players),
		},
	})
	s.delta.Reset(client.Player, proj)
}

func (s *Server) logEvent(e events.Event) {
	s.log.Debug().
		Str("kind", string(e.Kind())).
		Int("world", e.Location()).
		Msg("event")
}

// shutdown closes every connection and flushes the final snapshot.
func (s *Server) shutdown() {
	s.log.Info().Msg("engine shutting down")
	for _, client := range s.clients {
		close(client.send)
		client.conn.Close()
	}
	s.saver.Enqueue(s.state.Snapshot())
	s.saver.Close()
	s.bus.Close()
}
