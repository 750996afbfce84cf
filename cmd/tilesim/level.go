package main

import (
	"fmt"
	"image/color"

	"github.com/plus3/tilecore/geom"
)

// TileKind is the terrain of a single tile.
type TileKind uint8

const (
	Grass TileKind = iota
	Path
	Wall
	Water
	Floor
	Door
)

var tileGlyphs = map[byte]TileKind{
	'.': Grass,
	',': Path,
	'#': Wall,
	'~': Water,
	'=': Floor,
	'D': Door,
}

func (k TileKind) String() string {
	switch k {
	case Path:
		return "path"
	case Wall:
		return "wall"
	case Water:
		return "water"
	case Floor:
		return "floor"
	case Door:
		return "door"
	default:
		return "grass"
	}
}

// Traversable reports whether an entity may stand on the tile.
func (k TileKind) Traversable() bool {
	return k != Wall && k != Water
}

func (k TileKind) Color() color.RGBA {
	switch k {
	case Path:
		return color.RGBA{0xd8, 0xc0, 0x90, 0xff}
	case Wall:
		return color.RGBA{0x50, 0x50, 0x60, 0xff}
	case Water:
		return color.RGBA{0x40, 0x70, 0xd0, 0xff}
	case Floor:
		return color.RGBA{0xb0, 0x80, 0x50, 0xff}
	case Door:
		return color.RGBA{0x70, 0x40, 0x20, 0xff}
	default:
		return color.RGBA{0x88, 0xc0, 0x70, 0xff}
	}
}

// Warp sends an entity that stops on its tile to Destination in Level.
type Warp struct {
	Level       string
	Destination geom.IVec2
}

// Level is one rectangular map. Tiles are stored row by row.
type Level struct {
	Name   string
	Width  int
	Height int
	Tiles  []TileKind
	Warps  map[geom.IVec2]Warp
}

// ParseLevel builds a level from rows of tile glyphs. Every row must have the
// same width.
func ParseLevel(name string, rows []string) (*Level, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("level %q is empty", name)
	}

	l := &Level{
		Name:   name,
		Width:  len(rows[0]),
		Height: len(rows),
		Tiles:  make([]TileKind, 0, len(rows[0])*len(rows)),
		Warps:  make(map[geom.IVec2]Warp),
	}
	for y, row := range rows {
		if len(row) != l.Width {
			return nil, fmt.Errorf("level %q: row %d is %d tiles wide, want %d", name, y, len(row), l.Width)
		}
		for x := 0; x < len(row); x++ {
			kind, ok := tileGlyphs[row[x]]
			if !ok {
				return nil, fmt.Errorf("level %q: unknown tile %q at (%d, %d)", name, row[x], x, y)
			}
			l.Tiles = append(l.Tiles, kind)
		}
	}
	return l, nil
}

func (l *Level) contains(c geom.IVec2) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < int64(l.Width) && c.Y < int64(l.Height)
}

// Tile returns the tile at c, or false outside the level.
func (l *Level) Tile(c geom.IVec2) (TileKind, bool) {
	if l == nil || !l.contains(c) {
		return 0, false
	}
	return l.Tiles[c.Y*int64(l.Width)+c.X], true
}

// Blocked reports whether c cannot be entered. Everything outside the level
// is blocked.
func (l *Level) Blocked(c geom.IVec2) bool {
	kind, ok := l.Tile(c)
	return !ok || !kind.Traversable()
}

func (l *Level) Warp(c geom.IVec2) (Warp, bool) {
	if l == nil {
		return Warp{}, false
	}
	w, ok := l.Warps[c]
	return w, ok
}

// TileMap holds every level of the world. It is a resource.
type TileMap struct {
	Levels map[string]*Level
}

func (m *TileMap) Add(l *Level) {
	if m.Levels == nil {
		m.Levels = make(map[string]*Level)
	}
	m.Levels[l.Name] = l
}

// Level returns the named level or nil.
func (m *TileMap) Level(name string) *Level {
	return m.Levels[name]
}

// Connect places a warp on tile at of level from. Both ends must exist and the
// destination must be traversable.
func (m *TileMap) Connect(from string, at geom.IVec2, to Warp) error {
	src := m.Level(from)
	if src == nil {
		return fmt.Errorf("warp source level %q does not exist", from)
	}
	if _, ok := src.Tile(at); !ok {
		return fmt.Errorf("warp tile %v is outside level %q", at, from)
	}
	dst := m.Level(to.Level)
	if dst == nil {
		return fmt.Errorf("warp destination level %q does not exist", to.Level)
	}
	if dst.Blocked(to.Destination) {
		return fmt.Errorf("warp destination %v in level %q is blocked", to.Destination, to.Level)
	}
	src.Warps[at] = to
	return nil
}

// CurrentLevel names the level being shown and simulated. It is a resource.
type CurrentLevel struct {
	Name string
}
