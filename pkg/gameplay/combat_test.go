package gameplay

import (
	"testing"

	"github.com/pico-mc/picocore/pkg/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlayer(id int32, name string) *world.Player {
	p := world.NewPlayer(id, name, OfflineUUID(name))
	p.State = world.StatePlay
	return p
}

func TestAttackDamagesAndKnocksBackTarget(t *testing.T) {
	attacker := newTestPlayer(1, "Attacker")
	target := newTestPlayer(2, "Target")
	target.X, target.Z = 1, 0
	attacker.X, attacker.Z = 0, 0

	var ev Events
	Attack(attacker, target, &ev)

	assert.Equal(t, float32(18), target.Health)
	require.Len(t, ev.EntityStatus, 1)
	assert.Equal(t, StatusHurt, ev.EntityStatus[0].Status)
	require.Len(t, ev.Velocities, 1)
	assert.Greater(t, ev.Velocities[0].VX, 0.0)
}

func TestAttackOutOfReachDoesNothing(t *testing.T) {
	attacker := newTestPlayer(1, "Attacker")
	target := newTestPlayer(2, "Target")
	target.X = 100

	var ev Events
	Attack(attacker, target, &ev)

	assert.Equal(t, float32(20), target.Health)
	assert.Empty(t, ev.EntityStatus)
}

func TestAttackBySpectatorIsIgnored(t *testing.T) {
	attacker := newTestPlayer(1, "Attacker")
	attacker.GameMode = GameModeSpectator
	target := newTestPlayer(2, "Target")

	var ev Events
	Attack(attacker, target, &ev)

	assert.Equal(t, float32(20), target.Health)
}

func TestApplyDamageKillsAndEmitsDeathEvents(t *testing.T) {
	target := newTestPlayer(1, "Target")
	target.Health = 1

	var ev Events
	dead := ApplyDamage(target, 2, &ev)

	assert.True(t, dead)
	assert.True(t, target.IsDead)
	assert.Equal(t, float32(0), target.Health)
	require.Len(t, ev.EntityStatus, 2)
	assert.Equal(t, StatusDead, ev.EntityStatus[1].Status)
	require.Len(t, ev.Chats, 1)
	require.Len(t, ev.Deaths, 1)
	assert.Equal(t, int32(1), ev.Deaths[0])
}

func TestApplyDamageOnCreativeTargetIsNoOp(t *testing.T) {
	target := newTestPlayer(1, "Target")
	target.GameMode = GameModeCreative

	var ev Events
	dead := ApplyDamage(target, 100, &ev)

	assert.False(t, dead)
	assert.Equal(t, float32(20), target.Health)
	assert.Empty(t, ev.EntityStatus)
}

func TestRespawnResetsHealthAndPosition(t *testing.T) {
	w := world.NewWorld(42)
	p := newTestPlayer(1, "Dead")
	p.IsDead = true
	p.Health = 0
	p.X, p.Y, p.Z = 500, 5, 500

	Respawn(p, w)

	assert.False(t, p.IsDead)
	assert.Equal(t, float32(20), p.Health)
	assert.Equal(t, float64(w.SpawnX)+0.5, p.X)
}

func TestRespawnOnLivingPlayerIsNoOp(t *testing.T) {
	w := world.NewWorld(42)
	p := newTestPlayer(1, "Alive")
	p.X = 7

	Respawn(p, w)

	assert.Equal(t, 7.0, p.X)
}
