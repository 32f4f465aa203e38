// Package persist implements the §6 world-save format: world seed, day
// time, the block-change overlay, and per-player records, written
// little-endian to a single file on clean shutdown and at a periodic
// interval. Grounded on spec.md §6's exact field layout; the compression
// choice (github.com/klauspost/compress's flate, a drop-in faster
// compress/flate) follows oriumgames-pile's use of the same library for
// its own on-disk chunk/schematic format in this pack.
package persist

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"os"

	"github.com/klauspost/compress/flate"
	"github.com/pico-mc/picocore/pkg/world"
)

// magic identifies a picocore save file; version lets a future format
// change refuse to misparse an older file instead of corrupting it.
const (
	magic         = "PICO"
	formatVersion = uint32(1)
)

// ErrBadMagic is returned when a file does not begin with the picocore
// save magic, e.g. an unrelated or corrupted file was pointed at.
var ErrBadMagic = errors.New("persist: not a picocore save file")

// ErrTruncated is returned when the file ends before a complete record
// could be read. Per spec.md §6, "Load is tolerant of truncation (rolls
// back to pre-serialize state)" — callers treat this exactly like "no
// save file" rather than applying a partial state.
var ErrTruncated = errors.New("persist: truncated save file")

// BlockChangeRecord is one packed {x:i32, y:u8, z:i32, block:u8} entry
// (spec.md §6).
type BlockChangeRecord struct {
	X, Z  int32
	Y     uint8
	Block world.Block
}

// PlayerRecord is one persisted player's inventory, position and vitals,
// keyed by username (not entity ID, which is reassigned fresh every
// session) so a returning player's state is restored on next login.
type PlayerRecord struct {
	Username     string
	UUID         [16]byte
	X, Y, Z      float64
	Yaw, Pitch   float32
	GameMode     byte
	Health       float32
	Inventory    [world.InventorySize]world.ItemStack
	SelectedSlot byte
}

// State is the full persisted world snapshot (spec.md §6 "Persistence").
type State struct {
	Seed         int64
	DayTimeTicks int64
	SpawnX       int32
	SpawnY       int32
	SpawnZ       int32
	BlockChanges []BlockChangeRecord
	Players      []PlayerRecord
}

// Snapshot captures the persisted fields of a live world into a State,
// ready for Save.
func Snapshot(w *world.World) *State {
	s := &State{
		Seed:         w.Seed,
		DayTimeTicks: w.DayTimeTicks,
		SpawnX:       w.SpawnX,
		SpawnY:       w.SpawnY,
		SpawnZ:       w.SpawnZ,
	}
	w.Changes.All(func(x, y, z int32, b world.Block) {
		s.BlockChanges = append(s.BlockChanges, BlockChangeRecord{X: x, Z: z, Y: uint8(y), Block: b})
	})
	for _, p := range w.Players {
		s.Players = append(s.Players, PlayerRecord{
			Username:     p.Username,
			UUID:         p.UUID,
			X:            p.X,
			Y:            p.Y,
			Z:            p.Z,
			Yaw:          p.Yaw,
			Pitch:        p.Pitch,
			GameMode:     p.GameMode,
			Health:       p.Health,
			Inventory:    p.Inventory,
			SelectedSlot: p.SelectedSlot,
		})
	}
	return s
}

// ApplyChanges replays every persisted block-change record into a fresh
// world's overlay. Called after Load succeeds, never on a failed/partial
// load (spec.md §6's truncation-tolerance: a bad load must not leave the
// overlay half-populated).
func (s *State) ApplyChanges(w *world.World) error {
	for _, r := range s.BlockChanges {
		if err := w.Changes.Set(r.X, int32(r.Y), r.Z, r.Block); err != nil {
			return err
		}
	}
	w.DayTimeTicks = s.DayTimeTicks
	w.SpawnX, w.SpawnY, w.SpawnZ = s.SpawnX, s.SpawnY, s.SpawnZ
	return nil
}

// FindPlayer returns the persisted record for username, if any, so a
// session's login handler can restore a returning player's inventory and
// position instead of spawning them fresh.
func (s *State) FindPlayer(username string) (PlayerRecord, bool) {
	for _, p := range s.Players {
		if p.Username == username {
			return p, true
		}
	}
	return PlayerRecord{}, false
}

// Restore copies a persisted record's inventory, position and vitals onto
// a live Player, used when a returning player logs back in.
func (r PlayerRecord) Restore(p *world.Player) {
	p.X, p.Y, p.Z = r.X, r.Y, r.Z
	p.Yaw, p.Pitch = r.Yaw, r.Pitch
	p.GameMode = r.GameMode
	p.Health = r.Health
	p.Inventory = r.Inventory
	p.SelectedSlot = r.SelectedSlot
}

// Save writes state to path as a flate-compressed, little-endian record
// stream, replacing any existing file only once the new one is fully
// written (write-to-temp-then-rename keeps a clean-shutdown crash from
// leaving a half-written save behind).
func Save(path string, state *State) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(f)
	fw, err := flate.NewWriter(bw, flate.DefaultCompression)
	if err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}

	if err := writeState(fw, state); err != nil {
		fw.Close()
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := fw.Close(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func writeState(w io.Writer, s *State) error {
	if _, err := w.Write([]byte(magic)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, formatVersion); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, s.Seed); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, s.DayTimeTicks); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, s.SpawnX); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, s.SpawnY); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, s.SpawnZ); err != nil {
		return err
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(s.BlockChanges))); err != nil {
		return err
	}
	for _, c := range s.BlockChanges {
		if err := binary.Write(w, binary.LittleEndian, c.X); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, c.Y); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, c.Z); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, c.Block); err != nil {
			return err
		}
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(s.Players))); err != nil {
		return err
	}
	for _, p := range s.Players {
		if err := writePlayer(w, p); err != nil {
			return err
		}
	}
	return nil
}

func writePlayer(w io.Writer, p PlayerRecord) error {
	nameBytes := []byte(p.Username)
	if err := binary.Write(w, binary.LittleEndian, uint16(len(nameBytes))); err != nil {
		return err
	}
	if _, err := w.Write(nameBytes); err != nil {
		return err
	}
	if _, err := w.Write(p.UUID[:]); err != nil {
		return err
	}
	for _, v := range []any{p.X, p.Y, p.Z, p.Yaw, p.Pitch, p.GameMode, p.Health} {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	for _, stack := range p.Inventory {
		if err := binary.Write(w, binary.LittleEndian, stack.ItemID); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, stack.Count); err != nil {
			return err
		}
	}
	return binary.Write(w, binary.LittleEndian, p.SelectedSlot)
}

// Load reads a save file written by Save. Any error returned is one of
// ErrBadMagic, ErrTruncated, or an underlying I/O error; the caller must
// not apply a partially-returned State (Load never returns a non-nil
// State alongside a non-nil error).
func Load(path string) (*State, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fr := flate.NewReader(bufio.NewReader(f))
	defer fr.Close()

	return readState(fr)
}

func readState(r io.Reader) (*State, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, truncate(err)
	}
	if string(hdr[:]) != magic {
		return nil, ErrBadMagic
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, truncate(err)
	}

	s := &State{}
	if err := binary.Read(r, binary.LittleEndian, &s.Seed); err != nil {
		return nil, truncate(err)
	}
	if err := binary.Read(r, binary.LittleEndian, &s.DayTimeTicks); err != nil {
		return nil, truncate(err)
	}
	if err := binary.Read(r, binary.LittleEndian, &s.SpawnX); err != nil {
		return nil, truncate(err)
	}
	if err := binary.Read(r, binary.LittleEndian, &s.SpawnY); err != nil {
		return nil, truncate(err)
	}
	if err := binary.Read(r, binary.LittleEndian, &s.SpawnZ); err != nil {
		return nil, truncate(err)
	}

	var changeCount uint32
	if err := binary.Read(r, binary.LittleEndian, &changeCount); err != nil {
		return nil, truncate(err)
	}
	s.BlockChanges = make([]BlockChangeRecord, 0, changeCount)
	for i := uint32(0); i < changeCount; i++ {
		var c BlockChangeRecord
		if err := binary.Read(r, binary.LittleEndian, &c.X); err != nil {
			return nil, truncate(err)
		}
		if err := binary.Read(r, binary.LittleEndian, &c.Y); err != nil {
			return nil, truncate(err)
		}
		if err := binary.Read(r, binary.LittleEndian, &c.Z); err != nil {
			return nil, truncate(err)
		}
		if err := binary.Read(r, binary.LittleEndian, &c.Block); err != nil {
			return nil, truncate(err)
		}
		s.BlockChanges = append(s.BlockChanges, c)
	}

	var playerCount uint32
	if err := binary.Read(r, binary.LittleEndian, &playerCount); err != nil {
		return nil, truncate(err)
	}
	s.Players = make([]PlayerRecord, 0, playerCount)
	for i := uint32(0); i < playerCount; i++ {
		p, err := readPlayer(r)
		if err != nil {
			return nil, truncate(err)
		}
		s.Players = append(s.Players, p)
	}

	return s, nil
}

func readPlayer(r io.Reader) (PlayerRecord, error) {
	var p PlayerRecord
	var nameLen uint16
	if err := binary.Read(r, binary.LittleEndian, &nameLen); err != nil {
		return p, err
	}
	nameBytes := make([]byte, nameLen)
	if _, err := io.ReadFull(r, nameBytes); err != nil {
		return p, err
	}
	p.Username = string(nameBytes)

	if _, err := io.ReadFull(r, p.UUID[:]); err != nil {
		return p, err
	}
	for _, v := range []any{&p.X, &p.Y, &p.Z, &p.Yaw, &p.Pitch, &p.GameMode, &p.Health} {
		if err := binary.Read(r, binary.LittleEndian, v); err != nil {
			return p, err
		}
	}
	for i := range p.Inventory {
		if err := binary.Read(r, binary.LittleEndian, &p.Inventory[i].ItemID); err != nil {
			return p, err
		}
		if err := binary.Read(r, binary.LittleEndian, &p.Inventory[i].Count); err != nil {
			return p, err
		}
	}
	if err := binary.Read(r, binary.LittleEndian, &p.SelectedSlot); err != nil {
		return p, err
	}
	return p, nil
}

func truncate(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrTruncated
	}
	return err
}
