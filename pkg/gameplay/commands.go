package gameplay

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pico-mc/picocore/pkg/world"
)

// HandleCommand dispatches a /-prefixed chat message to its command
// handler, writing any player-facing feedback as a ChatEvent. Unrecognized
// commands get an "unknown command" reply rather than being silently
// dropped. Grounded on the teacher's handleCommand dispatch table in
// command.go, trimmed to the two commands SUPPLEMENTED FEATURES calls
// for (no /stop — shutdown is an operator action, not a player command,
// per spec.md's single-operator deployment model).
func HandleCommand(w *world.World, player *world.Player, message string, ev *Events) {
	parts := strings.Fields(message)
	if len(parts) == 0 {
		return
	}
	switch strings.ToLower(parts[0]) {
	case "/gamemode", "/gm":
		handleGamemode(player, parts[1:], ev)
	case "/tp", "/teleport":
		handleTeleport(w, player, parts[1:], ev)
	default:
		ev.ChatTo(player.EntityID, "Unknown command: "+parts[0], "red")
	}
}

// handleGamemode implements /gamemode <survival|creative|adventure|spectator|0-3>.
func handleGamemode(player *world.Player, args []string, ev *Events) {
	if len(args) < 1 {
		ev.ChatTo(player.EntityID, "Usage: /gamemode <survival|creative|adventure|spectator|0|1|2|3>", "red")
		return
	}
	mode, ok := parseGameMode(args[0])
	if !ok {
		ev.ChatTo(player.EntityID, "Unknown gamemode: "+args[0], "red")
		return
	}
	player.GameMode = mode
	ev.ChatTo(player.EntityID, "Game mode set to "+gameModeName(mode), "gray")
}

func parseGameMode(s string) (byte, bool) {
	switch strings.ToLower(s) {
	case "survival", "s", "0":
		return GameModeSurvival, true
	case "creative", "c", "1":
		return GameModeCreative, true
	case "adventure", "a", "2":
		return GameModeAdventure, true
	case "spectator", "sp", "3":
		return GameModeSpectator, true
	default:
		return 0, false
	}
}

func gameModeName(mode byte) string {
	switch mode {
	case GameModeSurvival:
		return "survival"
	case GameModeCreative:
		return "creative"
	case GameModeAdventure:
		return "adventure"
	case GameModeSpectator:
		return "spectator"
	default:
		return "unknown"
	}
}

// handleTeleport implements /tp <x> <y> <z> and /tp <player>.
func handleTeleport(w *world.World, player *world.Player, args []string, ev *Events) {
	switch len(args) {
	case 3:
		x, err1 := strconv.ParseFloat(args[0], 64)
		y, err2 := strconv.ParseFloat(args[1], 64)
		z, err3 := strconv.ParseFloat(args[2], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			ev.ChatTo(player.EntityID, "Invalid coordinates. Usage: /tp <x> <y> <z>", "red")
			return
		}
		player.X, player.Y, player.Z = x, y, z
		ev.ChatTo(player.EntityID, fmt.Sprintf("Teleported to %.1f, %.1f, %.1f", x, y, z), "gray")
	case 1:
		target := findPlayerByName(w, args[0])
		if target == nil {
			ev.ChatTo(player.EntityID, "Player not found: "+args[0], "red")
			return
		}
		player.X, player.Y, player.Z = target.X, target.Y, target.Z
		ev.ChatTo(player.EntityID, "Teleported to "+target.Username, "gray")
	default:
		ev.ChatTo(player.EntityID, "Usage: /tp <x> <y> <z> or /tp <player>", "red")
	}
}

func findPlayerByName(w *world.World, name string) *world.Player {
	for _, p := range w.Players {
		if strings.EqualFold(p.Username, name) {
			return p
		}
	}
	return nil
}
