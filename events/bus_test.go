package events

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusDeliversInPublishOrder(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	var got []Kind
	bus.SubscribeAll(func(e Event) {
		got = append(got, e.Kind())
	})

	bus.Publish(PlayerJoined{Base: Base{Turn: 1}, Name: "Alice"})
	bus.Publish(Production{Base: Base{World: 2, Turn: 1}, Metal: 3})
	bus.Publish(TurnProcessed{Base: Base{Turn: 1}})
	bus.Close()

	require.Len(t, got, 3)
	assert.Equal(t, []Kind{KindPlayerJoined, KindProduction, KindTurnProcessed}, got)
}

func TestBusSubscribeByKind(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	var combats, all int
	bus.Subscribe(KindCombat, func(Event) { combats++ })
	bus.SubscribeAll(func(Event) { all++ })

	bus.Publish(Combat{Base: Base{World: 1, Turn: 2}})
	bus.Publish(Production{Base: Base{World: 1, Turn: 2}})
	bus.Close()

	assert.Equal(t, 1, combats, "kind subscribers see only their kind")
	assert.Equal(t, 2, all)
}

func TestBusIsolatesPanickingHandlers(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	var delivered int
	bus.SubscribeAll(func(Event) { panic("bad subscriber") })
	bus.SubscribeAll(func(Event) { delivered++ })

	bus.Publish(PlayerJoined{Base: Base{Turn: 1}, Name: "Alice"})
	bus.Publish(PlayerJoined{Base: Base{Turn: 1}, Name: "Bob"})
	bus.Close()

	assert.Equal(t, 2, delivered, "a panicking handler does not stop delivery")
}
