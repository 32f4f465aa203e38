// Package config defines the §6 enumerated configuration surface as a
// YAML-tagged struct with defaults, grounded on the teacher's
// DefaultConfig()/flag-driven main.go and on dmitrymodder-minewire's
// YAML-loaded Config struct (gopkg.in/yaml.v3) in this same pack — picocore
// combines both: a struct with sane defaults, optionally overridden by a
// YAML file, optionally overridden again by flags in cmd/picocored.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full set of operator-tunable knobs spec.md §6 enumerates.
// The yaml tags are the lower-case snake_case forms of the spec's
// SCREAMING_SNAKE_CASE option names.
type Config struct {
	Port       int `yaml:"port"`
	MaxPlayers int `yaml:"max_players"`

	ViewDistance int32 `yaml:"view_distance"`

	TerrainBaseHeight int32 `yaml:"terrain_base_height"`
	CaveBaseDepth     int32 `yaml:"cave_base_depth"`
	BiomeSize         int32 `yaml:"biome_size"`
	BiomeRadius       int32 `yaml:"biome_radius"`

	MaxBlockChanges  int `yaml:"max_block_changes"`
	ChunkCacheSize   int `yaml:"chunk_cache_size"`
	PacketBufferSize int `yaml:"packet_buffer_size"`
	MaxRecvBufLen    int `yaml:"max_recv_buf_len"`

	NetworkTimeout    time.Duration `yaml:"network_timeout"`
	KeepaliveInterval time.Duration `yaml:"keepalive_interval"`
	KeepaliveTimeout  time.Duration `yaml:"keepalive_timeout"`

	AllowChests                 bool `yaml:"allow_chests"`
	DoFluidFlow                 bool `yaml:"do_fluid_flow"`
	EnableOptinMobInterpolation bool `yaml:"enable_optin_mob_interpolation"`

	WorldSeed     int64  `yaml:"world_seed"`
	WorldSavePath string `yaml:"world_save_path"`
	SaveInterval  time.Duration `yaml:"save_interval"`

	MOTD string `yaml:"motd"`
}

// Default returns the default configuration, the same values the teacher's
// DefaultConfig() hands to an unconfigured server.
func Default() Config {
	return Config{
		Port:       25565,
		MaxPlayers: 20,

		ViewDistance: 8,

		TerrainBaseHeight: 64,
		CaveBaseDepth:     32,
		BiomeSize:         8,
		BiomeRadius:       3,

		MaxBlockChanges:  65536,
		ChunkCacheSize:   4096,
		PacketBufferSize: 2048,
		MaxRecvBufLen:    8192,

		NetworkTimeout:    30 * time.Second,
		KeepaliveInterval: 10 * time.Second,
		KeepaliveTimeout:  30 * time.Second,

		AllowChests:                 true,
		DoFluidFlow:                 true,
		EnableOptinMobInterpolation: false,

		WorldSeed:     1,
		WorldSavePath: "picocore.world",
		SaveInterval:  5 * time.Minute,

		MOTD: "A picocore server",
	}
}

// Load reads a YAML config file at path, layering its fields onto
// Default(). A missing file is not an error — it just means "use
// defaults," matching the teacher's tolerant startup (no config file means
// no customization, not a fatal error).
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
