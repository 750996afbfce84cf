package main

import (
	"fmt"
	"image/color"
	"log/slog"

	"github.com/plus3/tilecore/ecs"
	"github.com/plus3/tilecore/geom"
	"github.com/plus3/tilecore/input"
)

const (
	ScreenWidth  = 160
	ScreenHeight = 144
	TileSize     = 16

	// playerSpeed is in pixels per second.
	playerSpeed = 64

	overworldLevel = "overworld"
	houseLevel     = "house"
)

var (
	overworldRows = []string{
		"####################",
		"#..................#",
		"#..~~~.............#",
		"#..~~~....,,,,,....#",
		"#.........,...,....#",
		"#.......#####,.....#",
		"#.......#####,.....#",
		"#.......##D##,.....#",
		"#.........,,,,.....#",
		"#..................#",
		"#..~~..........~~..#",
		"#..~~..........~~..#",
		"#..................#",
		"####################",
	}

	houseRows = []string{
		"########",
		"#======#",
		"#======#",
		"#=##===#",
		"#======#",
		"#======#",
		"###D####",
	}

	playerSpawn   = geom.IVec2{X: 10, Y: 9}
	villagerSpawn = geom.IVec2{X: 7, Y: 3}

	playerColor   = color.RGBA{0xe0, 0x40, 0x40, 0xff}
	villagerColor = color.RGBA{0x40, 0x40, 0xe0, 0xff}
)

// buildTileMap parses the built-in levels and links their doors.
func buildTileMap() (TileMap, error) {
	var tiles TileMap
	for name, rows := range map[string][]string{
		overworldLevel: overworldRows,
		houseLevel:     houseRows,
	} {
		l, err := ParseLevel(name, rows)
		if err != nil {
			return TileMap{}, err
		}
		tiles.Add(l)
	}

	links := []struct {
		from string
		at   geom.IVec2
		to   Warp
	}{
		{overworldLevel, geom.IVec2{X: 10, Y: 7}, Warp{Level: houseLevel, Destination: geom.IVec2{X: 3, Y: 5}}},
		{houseLevel, geom.IVec2{X: 3, Y: 6}, Warp{Level: overworldLevel, Destination: geom.IVec2{X: 10, Y: 8}}},
	}
	for _, link := range links {
		if err := tiles.Connect(link.from, link.at, link.to); err != nil {
			return TileMap{}, fmt.Errorf("connect %s: %w", link.from, err)
		}
	}
	return tiles, nil
}

// tileOrigin returns the world position of the top left corner of tile c.
func tileOrigin(c geom.IVec2) geom.Vec2 {
	return geom.V(float32(c.X*TileSize), float32(c.Y*TileSize))
}

// tileCenter returns the world position of the middle of the tile whose top
// left corner is at pos.
func tileCenter(pos geom.Vec2) geom.Vec2 {
	return pos.Add(geom.V(TileSize/2, TileSize/2))
}

func spawnPlayer(storage *ecs.Storage, at geom.IVec2) ecs.Entity {
	e := storage.CreateEntity()
	ecs.Attach(storage, e, Position{tileOrigin(at)})
	ecs.Attach(storage, e, Movement{Speed: playerSpeed, Direction: input.Down})
	ecs.Attach(storage, e, Player{})
	ecs.Attach(storage, e, Sprite{Color: playerColor})
	ecs.Attach(storage, e, Animation{})
	return e
}

func spawnVillager(storage *ecs.Storage, level string, at geom.IVec2) ecs.Entity {
	e := storage.CreateEntity()
	ecs.Attach(storage, e, Position{tileOrigin(at)})
	ecs.Attach(storage, e, Sprite{Color: villagerColor})
	ecs.Attach(storage, e, Resident{Level: level})
	return e
}

// newSimulation seeds the world and registers every system.
func newSimulation(logger *slog.Logger, grid bool) (*ecs.Scheduler, error) {
	tiles, err := buildTileMap()
	if err != nil {
		return nil, err
	}

	storage := ecs.NewStorage()
	resources := ecs.NewResources()

	camera := geom.NewCamera(ScreenWidth, ScreenHeight, TileSize)
	camera.Position = tileCenter(tileOrigin(playerSpawn))

	ecs.AddResource(resources, tiles)
	ecs.AddResource(resources, CurrentLevel{Name: overworldLevel})
	ecs.AddResource(resources, camera)
	ecs.AddResource(resources, ScreenTransition{})
	ecs.AddResource(resources, GridOverlay{Enabled: grid})

	spawnPlayer(storage, playerSpawn)
	spawnVillager(storage, overworldLevel, villagerSpawn)

	scheduler := ecs.NewScheduler(storage, resources, ecs.WithLogger(logger))

	scheduler.RegisterFixedSystem(&MovementSystem{})
	scheduler.RegisterFixedSystem(&LevelTransitionSystem{})
	scheduler.RegisterFixedSystem(&CameraFollowSystem{})

	scheduler.RegisterRenderSystem(&TileRenderSystem{})
	scheduler.RegisterRenderSystem(&CharacterAnimationSystem{})
	scheduler.RegisterRenderSystem(&SpriteRenderSystem{})
	scheduler.RegisterRenderSystem(&DebugGridSystem{})
	scheduler.RegisterRenderSystem(&ScreenFadeSystem{})

	return scheduler, nil
}
