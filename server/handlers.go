package server

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/starweb/starweb/events"
	"github.com/starweb/starweb/game"
	"github.com/starweb/starweb/store"
)

const maxChatLength = 512

// handleCommand is the text command path: parse, then either execute
// immediately (JOIN, TURN, CANCEL, HELP) or validate and queue.
func (s *Server) handleCommand(client *Client, text, token string) {
	order, err := game.Parse(text)
	if err != nil {
		client.Send(errorFrame(err.Error()))
		return
	}

	if order.Kind == game.OrderJoin {
		s.handleJoin(client, order, token)
		return
	}

	p := s.player(client)
	if p == nil {
		client.Send(errorFrame("Join the game first: JOIN <name> [minutes] [character]"))
		return
	}

	switch order.Kind {
	case game.OrderReady:
		p.Ready = true
		client.Send(infoFrame("You are ready; the turn fires when everyone is"))
		if AllReady(s.state) {
			s.fireTurn(time.Now())
		}

	case game.OrderCancel:
		cancelled, err := p.CancelOrder(order.Index)
		if err != nil {
			client.Send(errorFrame(err.Error()))
			return
		}
		client.Send(infoFrame("Cancelled " + cancelled.Normalized()))

	case game.OrderHelp:
		client.Send(EventFrame{Type: MsgTypeEvent, Text: game.HelpText(order.Topic), EventType: "help"})
		if order.Topic == "" {
			client.Send(EventFrame{Type: MsgTypeEvent, Text: s.state.ContextHelp(p), EventType: "help"})
		}

	case game.OrderViewArtifact:
		// Answered on the spot; nothing to resolve at turn time.
		if err := s.state.Validate(p, order); err != nil {
			client.Send(errorFrame(err.Error()))
			return
		}
		a := s.state.Artifacts[order.Artifact]
		client.Send(infoFrame(fmt.Sprintf("Artifact %d: %s, worth %d points", a.ID, a.Name, a.Points)))

	default:
		if err := s.state.Validate(p, order); err != nil {
			client.Send(errorFrame(err.Error()))
			return
		}
		if err := p.QueueOrder(order); err != nil {
			client.Send(errorFrame(err.Error()))
			return
		}
		client.Send(infoFrame(fmt.Sprintf("Order %d queued: %s", len(p.Orders), order.Normalized())))
	}
}

// handleJoin creates a player on first JOIN and restores identity on any
// later one. A second live connection for the same name replaces the first.
func (s *Server) handleJoin(client *Client, order *game.Order, token string) {
	key := strings.ToLower(order.Name)

	if err := s.authorizeName(order.Name, token); err != nil {
		client.Send(errorFrame(err.Error()))
		return
	}

	if p, ok := s.state.Players[key]; ok {
		if client.Player != "" && client.Player != key {
			client.Send(errorFrame("This connection is already playing " + client.Player))
			return
		}
		if old := s.byPlayer[key]; old != nil && old != client {
			old.Send(errorFrame("Another connection took over this player"))
			old.conn.Close()
			delete(s.byPlayer, key)
		}
		client.Player = key
		s.byPlayer[key] = client
		p.Connected = true
		s.delta.Forget(key)
		client.Send(infoFrame("Welcome back, " + p.Name))
		s.sendFull(client, s.state.Project(p))
		s.sched.Reset(time.Now(), s.state)
		return
	}

	if client.Player != "" {
		client.Send(errorFrame("This connection is already playing " + client.Player))
		return
	}

	p, err := s.state.AddPlayer(order.Name, order.Char, order.Minutes)
	if err != nil {
		client.Send(errorFrame(err.Error()))
		return
	}
	client.Player = key
	s.byPlayer[key] = client

	joined := events.PlayerJoined{
		Base:      events.Base{Turn: s.state.Turn},
		Name:      p.Name,
		Character: p.Character.String(),
	}
	s.bus.Publish(joined)
	s.dispatchEvents([]events.Event{joined})

	s.log.Info().Str("player", key).Str("character", p.Character.String()).Msg("player joined")
	client.Send(infoFrame(fmt.Sprintf("Welcome, %s the %s. Your homeworld is W%d.",
		p.Name, p.Character, p.Homeworld)))
	s.sendFull(client, s.state.Project(p))
	s.sched.Reset(time.Now(), s.state)
}

// authorizeName enforces reserved names. A name with a registered account
// may only be claimed with a session token issued for that player.
func (s *Server) authorizeName(name, token string) error {
	if _, reserved := s.accounts[strings.ToLower(name)]; !reserved {
		return nil
	}
	sess, ok := s.sessions[token]
	if !ok {
		return fmt.Errorf("the name %q is reserved; supply a session token", name)
	}
	if !strings.EqualFold(sess.Player, name) {
		return fmt.Errorf("session token does not grant the name %q", name)
	}
	if !sess.Expires.IsZero() && time.Now().After(sess.Expires) {
		return errors.New("session token has expired")
	}
	return nil
}

// handleChat relays a sanitized chat line to everyone or to one player.
func (s *Server) handleChat(client *Client, msg ClientMessage) {
	p := s.player(client)
	if p == nil {
		client.Send(errorFrame("Join the game before chatting"))
		return
	}
	text := sanitizeChat(msg.Message)
	if text == "" {
		return
	}

	to := strings.ToLower(strings.TrimSpace(msg.To))
	if to == "" || to == "all" {
		frame := ChatFrame{Type: MsgTypeChat, From: p.Name, Message: text, Channel: "all"}
		for _, other := range s.byPlayer {
			other.Send(frame)
		}
		return
	}

	target, ok := s.byPlayer[to]
	if !ok {
		client.Send(errorFrame(fmt.Sprintf("No connected player %q", msg.To)))
		return
	}
	frame := ChatFrame{Type: MsgTypeChat, From: p.Name, Message: text, Channel: "private"}
	target.Send(frame)
	if target != client {
		client.Send(frame)
	}
}

// sanitizeChat strips control and non-printable characters and enforces
// the length cap.
func sanitizeChat(text string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || !unicode.IsPrint(r) {
			return -1
		}
		return r
	}, text)
	cleaned = strings.TrimSpace(cleaned)
	if len(cleaned) > maxChatLength {
		cleaned = cleaned[:maxChatLength]
	}
	return cleaned
}

func (s *Server) handleBugReport(client *Client, msg ClientMessage) {
	report := store.BugReport{
		Description: sanitizeChat(msg.Description),
		GameTurn:    s.state.Turn,
		PlayerName:  msg.PlayerName,
		Timestamp:   msg.Timestamp,
	}
	if report.Description == "" {
		client.Send(errorFrame("Bug report needs a description"))
		return
	}
	if report.PlayerName == "" && client.Player != "" {
		report.PlayerName = client.Player
	}
	if report.Timestamp.IsZero() {
		report.Timestamp = time.Now().UTC()
	}
	if err := s.store.AppendBugReport(report); err != nil {
		s.log.Error().Err(err).Msg("bug report append failed")
		client.Send(errorFrame("Could not record the bug report"))
		return
	}
	client.Send(infoFrame("Bug report recorded, thank you"))
}

func (s *Server) player(client *Client) *game.Player {
	if client.Player == "" {
		return nil
	}
	return s.state.Players[client.Player]
}

// dispatchEvents renders each event as a text frame for every player who
// can see its location or who took part in it.
func (s *Server) dispatchEvents(evs []events.Event) {
	visible := make(map[string]map[int]bool, len(s.byPlayer))
	for key := range s.byPlayer {
		if p, ok := s.state.Players[key]; ok {
			visible[key] = s.state.VisibleWorlds(p)
		}
	}

	for _, e := range evs {
		text, eventType, participants := renderEvent(e)
		if text == "" {
			continue
		}
		for key, client := range s.byPlayer {
			if !observes(e, key, visible[key], participants) {
				continue
			}
			client.Send(EventFrame{Type: MsgTypeEvent, Text: text, EventType: eventType})
			if moved, ok := e.(events.FleetMoved); ok && moved.Owner == key {
				client.Send(AnimateFrame{
					Type:      MsgTypeAnimate,
					FleetID:   moved.Fleet,
					FromWorld: moved.From,
					ToWorld:   moved.To,
					Path:      moved.Path,
					Duration:  500,
				})
			}
		}
	}
}

func observes(e events.Event, player string, visible map[int]bool, participants []string) bool {
	for _, name := range participants {
		if name == player {
			return true
		}
	}
	if e.Location() == 0 {
		return true
	}
	return visible[e.Location()]
}

// renderEvent turns an event into user-facing text, its frame event_type
// and the players who must see it regardless of visibility.
func renderEvent(e events.Event) (text, eventType string, participants []string) {
	switch ev := e.(type) {
	case events.FleetMoved:
		return fmt.Sprintf("Fleet %d (%s) arrived at world %d", ev.Fleet, ev.Owner, ev.To),
			"info", []string{ev.Owner}
	case events.Combat:
		var names []string
		for _, c := range append(ev.Attackers, ev.Defenders...) {
			if c.Owner != "" {
				names = append(names, c.Owner)
			}
		}
		return ev.Text, "combat", names
	case events.WorldCaptured:
		switch {
		case ev.NewOwner == "":
			return fmt.Sprintf("World %d is neutral again", ev.World), "capture", []string{ev.OldOwner}
		case ev.OldOwner == "":
			return fmt.Sprintf("World %d now belongs to %s", ev.World, ev.NewOwner),
				"capture", []string{ev.NewOwner}
		default:
			return fmt.Sprintf("World %d passed from %s to %s", ev.World, ev.OldOwner, ev.NewOwner),
				"capture", []string{ev.NewOwner, ev.OldOwner}
		}
	case events.Production:
		return fmt.Sprintf("World %d produced %d metal and grew by %d", ev.World, ev.Metal, ev.PopGrowth),
			"production", []string{ev.Owner}
	case events.Build:
		return fmt.Sprintf("World %d built %d %s", ev.World, ev.Count, ev.What),
			"production", []string{ev.Owner}
	case events.PlayerJoined:
		return fmt.Sprintf("%s has joined the game as a %s", ev.Name, ev.Character), "info", nil
	case events.TurnProcessed:
		return fmt.Sprintf("Turn %d has been processed", ev.Turn), "info", nil
	case events.CargoJettisoned:
		return fmt.Sprintf("Fleet %d jettisoned %d cargo at world %d", ev.Fleet, ev.Amount, ev.World),
			"info", []string{ev.Owner}
	case events.ArtifactTransferred:
		return fmt.Sprintf("Artifact %q changed hands at world %d", ev.Name, ev.World),
			"info", []string{ev.From, ev.To}
	case events.PBBDropped:
		return fmt.Sprintf("A planet buster detonated on world %d", ev.World), "combat", []string{ev.By}
	case events.BlackHoleDestruction:
		return fmt.Sprintf("Fleet %d (%s) was lost to a black hole; its key drifts at world %d",
			ev.Fleet, ev.Owner, ev.RespawnAt), "combat", []string{ev.Owner}
	case events.ConversionOccurred:
		return fmt.Sprintf("%d souls converted on world %d", ev.Count, ev.World),
			"info", []string{ev.Owner}
	case events.PlunderOccurred:
		return fmt.Sprintf("World %d was plundered of %d metal", ev.World, ev.Amount),
			"combat", []string{ev.By}
	}
	return "", "", nil
}
