// Package registry loads the opaque tag/dimension/biome/damage-type
// registry dumps spec.md §6 describes: "produced by an external build
// step; the core does not parse them from the Minecraft jar itself. They
// are loaded into opaque tables and transmitted verbatim in the
// configuration state." The registry-extraction build step itself is out
// of scope (spec.md §1); this package only loads whatever bytes it is
// handed and hands them back out unchanged, byte for byte.
package registry

import (
	"embed"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed data
var builtin embed.FS

// ids is the fixed set of registries a 1.21.8/772 client's configuration
// state expects to receive one RegistryData packet for (vanilla's
// `minecraft:` namespace list, trimmed to the registries picocore actually
// needs the client to have data for — no advancement/recipe registries,
// since picocore has neither).
var ids = []string{
	"minecraft:dimension_type",
	"minecraft:worldgen/biome",
	"minecraft:chat_type",
	"minecraft:trim_material",
	"minecraft:trim_pattern",
	"minecraft:damage_type",
	"minecraft:banner_pattern",
	"minecraft:enchantment",
	"minecraft:jukebox_song",
	"minecraft:painting_variant",
	"minecraft:wolf_variant",
}

// Entry is one opaque registry payload, ready to hand to
// protocol.EncodeRegistryData verbatim.
type Entry struct {
	ID      string
	Payload []byte
}

func fileNameFor(id string) string {
	name := strings.TrimPrefix(id, "minecraft:")
	name = strings.ReplaceAll(name, "/", "_")
	return name + ".bin"
}

// Default loads the registry set embedded in the binary — placeholder
// payloads until an operator points Load at a real extraction directory
// (spec.md §6's "external build step" is not part of this core).
func Default() ([]Entry, error) {
	entries := make([]Entry, 0, len(ids))
	for _, id := range ids {
		data, err := builtin.ReadFile("data/" + fileNameFor(id))
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{ID: id, Payload: data})
	}
	return entries, nil
}

// Load reads registry dumps from dir, one file per registry named by
// fileNameFor, falling back to the embedded default for any registry
// whose file is absent from dir. An empty dir loads purely the embedded
// default.
func Load(dir string) ([]Entry, error) {
	if dir == "" {
		return Default()
	}
	defaults, err := Default()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, len(defaults))
	copy(entries, defaults)

	for i, e := range entries {
		path := filepath.Join(dir, fileNameFor(e.ID))
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		entries[i].Payload = data
	}
	sort.SliceStable(entries, func(a, b int) bool { return entries[a].ID < entries[b].ID })
	return entries, nil
}
