package server

import (
	"time"

	"github.com/starweb/starweb/game"
)

// Client-to-server message types.
const (
	MsgTypeCommand   = "command"
	MsgTypeChat      = "chat"
	MsgTypeBugReport = "bug_report"
)

// Server-to-client frame types.
const (
	MsgTypeWelcome = "welcome"
	MsgTypeUpdate  = "update"
	MsgTypeDelta   = "delta"
	MsgTypeTimer   = "timer"
	MsgTypeEvent   = "event"
	MsgTypeInfo    = "info"
	MsgTypeError   = "error"
	MsgTypeAnimate = "animate_movement"
)

// ClientMessage is any inbound frame; Type selects which fields matter.
type ClientMessage struct {
	Type string `json:"type"`

	// command
	Text  string `json:"text,omitempty"`
	Token string `json:"token,omitempty"`

	// chat
	To      string `json:"to,omitempty"`
	Message string `json:"message,omitempty"`

	// bug_report
	Description string    `json:"description,omitempty"`
	GameTurn    int       `json:"game_turn,omitempty"`
	PlayerName  string    `json:"player_name,omitempty"`
	Timestamp   time.Time `json:"timestamp,omitempty"`
}

// WelcomeFrame is sent once per connection with the connection's ID.
type WelcomeFrame struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// StateFrame is the full per-player projection plus the clock block.
type StateFrame struct {
	Type  string     `json:"type"`
	State *ViewState `json:"state"`
}

// ViewState embeds the projection and the timer fields a client needs to
// render without waiting for the next tick.
type ViewState struct {
	game.Projection
	TimeRemaining int `json:"time_remaining"`
	PlayersReady  int `json:"players_ready"`
	TotalPlayers  int `json:"total_players"`
}

// DeltaFrame carries only what changed since the last frame sent to this
// player.
type DeltaFrame struct {
	Type    string        `json:"type"`
	Changes *DeltaChanges `json:"changes"`
}

// TimerFrame is the once-per-second clock tick.
type TimerFrame struct {
	Type          string `json:"type"`
	TimeRemaining int    `json:"time_remaining"`
	PlayersReady  int    `json:"players_ready"`
	TotalPlayers  int    `json:"total_players"`
	GameTurn      int    `json:"game_turn"`
}

// EventFrame is a game happening rendered as text.
type EventFrame struct {
	Type      string `json:"type"`
	Text      string `json:"text"`
	EventType string `json:"event_type"`
}

// TextFrame serves both info and error frames.
type TextFrame struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// AnimateFrame lets the client animate a fleet move before the next state
// frame lands.
type AnimateFrame struct {
	Type      string `json:"type"`
	FleetID   int    `json:"fleet_id"`
	FromWorld int    `json:"from_world"`
	ToWorld   int    `json:"to_world"`
	Path      []int  `json:"path"`
	Duration  int    `json:"duration"`
}

// ChatFrame is a relayed chat line.
type ChatFrame struct {
	Type    string `json:"type"`
	From    string `json:"from"`
	Message string `json:"message"`
	Channel string `json:"channel"`
}

func infoFrame(text string) TextFrame  { return TextFrame{Type: MsgTypeInfo, Text: text} }
func errorFrame(text string) TextFrame { return TextFrame{Type: MsgTypeError, Text: text} }
