package gameplay

import (
	"testing"

	"github.com/pico-mc/picocore/pkg/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleCommandGamemodeByName(t *testing.T) {
	w := world.NewWorld(1)
	p := newTestPlayer(1, "P")

	var ev Events
	HandleCommand(w, p, "/gamemode creative", &ev)

	assert.Equal(t, GameModeCreative, p.GameMode)
	require.Len(t, ev.Chats, 1)
}

func TestHandleCommandGamemodeByNumber(t *testing.T) {
	w := world.NewWorld(1)
	p := newTestPlayer(1, "P")

	var ev Events
	HandleCommand(w, p, "/gm 3", &ev)

	assert.Equal(t, GameModeSpectator, p.GameMode)
}

func TestHandleCommandGamemodeRejectsUnknownMode(t *testing.T) {
	w := world.NewWorld(1)
	p := newTestPlayer(1, "P")
	p.GameMode = GameModeSurvival

	var ev Events
	HandleCommand(w, p, "/gamemode wizard", &ev)

	assert.Equal(t, GameModeSurvival, p.GameMode)
	require.Len(t, ev.Chats, 1)
	assert.Equal(t, "red", ev.Chats[0].Color)
}

func TestHandleCommandTeleportToCoordinates(t *testing.T) {
	w := world.NewWorld(1)
	p := newTestPlayer(1, "P")

	var ev Events
	HandleCommand(w, p, "/tp 10 65 -3", &ev)

	assert.Equal(t, 10.0, p.X)
	assert.Equal(t, 65.0, p.Y)
	assert.Equal(t, -3.0, p.Z)
}

func TestHandleCommandTeleportToPlayer(t *testing.T) {
	w := world.NewWorld(1)
	p := newTestPlayer(1, "P")
	target := newTestPlayer(2, "Target")
	target.X, target.Y, target.Z = 1, 2, 3
	w.Players[2] = target

	var ev Events
	HandleCommand(w, p, "/tp Target", &ev)

	assert.Equal(t, 1.0, p.X)
	assert.Equal(t, 2.0, p.Y)
	assert.Equal(t, 3.0, p.Z)
}

func TestHandleCommandTeleportUnknownPlayer(t *testing.T) {
	w := world.NewWorld(1)
	p := newTestPlayer(1, "P")

	var ev Events
	HandleCommand(w, p, "/tp Nobody", &ev)

	require.Len(t, ev.Chats, 1)
	assert.Equal(t, "red", ev.Chats[0].Color)
}

func TestHandleCommandUnknownCommandRepliesOnce(t *testing.T) {
	w := world.NewWorld(1)
	p := newTestPlayer(1, "P")

	var ev Events
	HandleCommand(w, p, "/fly", &ev)

	require.Len(t, ev.Chats, 1)
}

func TestHandleCommandEmptyMessageIsIgnored(t *testing.T) {
	w := world.NewWorld(1)
	p := newTestPlayer(1, "P")

	var ev Events
	HandleCommand(w, p, "   ", &ev)

	assert.Empty(t, ev.Chats)
}
