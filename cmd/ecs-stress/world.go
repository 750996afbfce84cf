package main

import (
	"image"
	"image/color"
	"math/rand"
	"time"

	"github.com/plus3/tilecore/ecs"
)

type Position struct{ X, Y float32 }
type Velocity struct{ DX, DY float32 }
type Acceleration struct{ AX, AY float32 }
type Health struct{ Current, Max int32 }
type Damage struct{ PerTick int32 }
type Lifetime struct{ Remaining time.Duration }
type Tint struct{ color.RGBA }
type Score int64

// componentCount is the number of component types a random entity draws from.
const componentCount = 8

// Bounds is the area entities bounce around in. It is a resource.
type Bounds struct {
	Width, Height float32
}

// Population tracks spawns and expiries. It is a resource.
type Population struct {
	Spawned int
	Expired int
}

// spawnRandomEntity creates an entity with a Position and n-1 more randomly
// chosen components.
func spawnRandomEntity(storage *ecs.Storage, rng *rand.Rand, bounds Bounds, n int) ecs.Entity {
	e := storage.CreateEntity()
	ecs.Attach(storage, e, Position{X: rng.Float32() * bounds.Width, Y: rng.Float32() * bounds.Height})
	for _, i := range rng.Perm(componentCount - 1)[:min(n-1, componentCount-1)] {
		attachRandom(storage, rng, e, i)
	}
	return e
}

func attachRandom(storage *ecs.Storage, rng *rand.Rand, e ecs.Entity, i int) {
	switch i {
	case 0:
		ecs.Attach(storage, e, Velocity{DX: rng.Float32()*20 - 10, DY: rng.Float32()*20 - 10})
	case 1:
		ecs.Attach(storage, e, Acceleration{AX: rng.Float32() - 0.5, AY: rng.Float32() - 0.5})
	case 2:
		ecs.Attach(storage, e, Health{Current: 100, Max: 100})
	case 3:
		ecs.Attach(storage, e, Damage{PerTick: rng.Int31n(3) + 1})
	case 4:
		ecs.Attach(storage, e, Lifetime{Remaining: time.Duration(rng.Intn(5000)+500) * time.Millisecond})
	case 5:
		ecs.Attach(storage, e, Tint{color.RGBA{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)), 0xff}})
	case 6:
		ecs.Attach(storage, e, Score(0))
	}
}

type accelerateSystem struct{}

func (accelerateSystem) Execute(frame *ecs.UpdateFrame) {
	dt := frame.Seconds()
	ecs.Each2(frame.Storage, func(_ ecs.Entity, v *Velocity, a *Acceleration) {
		v.DX += a.AX * dt
		v.DY += a.AY * dt
	})
}

// integrateSystem moves entities and bounces them off the edges of Bounds.
type integrateSystem struct {
	Movers ecs.Query[struct {
		*Position
		*Velocity
	}]
	Bounds ecs.Singleton[Bounds]
}

func (s *integrateSystem) Execute(frame *ecs.UpdateFrame) {
	bounds := s.Bounds.MustGet()
	defer bounds.Release()
	b := bounds.Get()
	dt := frame.Seconds()

	for row := range s.Movers.Iter() {
		row.X += row.DX * dt
		row.Y += row.DY * dt
		if row.X < 0 || row.X > b.Width {
			row.DX = -row.DX
			row.X = min(max(row.X, 0), b.Width)
		}
		if row.Y < 0 || row.Y > b.Height {
			row.DY = -row.DY
			row.Y = min(max(row.Y, 0), b.Height)
		}
	}
}

type damageSystem struct{}

func (damageSystem) Execute(frame *ecs.UpdateFrame) {
	ecs.Each2(frame.Storage, func(_ ecs.Entity, h *Health, d *Damage) {
		h.Current -= d.PerTick
		if h.Current <= 0 {
			h.Current = h.Max
		}
	})
}

// lifetimeSystem counts lifetimes down. Expired entities lose every optional
// component and a fresh entity is spawned in their place, both through
// Commands since the columns are held while iterating.
type lifetimeSystem struct {
	Mortals ecs.Query[struct {
		ecs.Entity
		*Lifetime
	}]
	Population ecs.Singleton[Population]
	Bounds     ecs.Singleton[Bounds]
	rng        *rand.Rand
}

func (s *lifetimeSystem) Execute(frame *ecs.UpdateFrame) {
	bounds := s.Bounds.MustGet()
	b := *bounds.Get()
	bounds.Release()

	expired := 0
	for row := range s.Mortals.Iter() {
		row.Remaining -= frame.DeltaTime
		if row.Remaining > 0 {
			continue
		}
		expired++
		frame.Commands.Detach(row.Entity,
			ecs.Without[Lifetime](),
			ecs.Without[Velocity](),
			ecs.Without[Acceleration](),
			ecs.Without[Damage](),
		)
		frame.Commands.Spawn(
			ecs.With(Position{X: s.rng.Float32() * b.Width, Y: s.rng.Float32() * b.Height}),
			ecs.With(Velocity{DX: s.rng.Float32()*20 - 10, DY: s.rng.Float32()*20 - 10}),
			ecs.With(Lifetime{Remaining: time.Duration(s.rng.Intn(5000)+500) * time.Millisecond}),
		)
	}

	if expired > 0 {
		population := s.Population.MustGetMut()
		population.Get().Expired += expired
		population.Get().Spawned += expired
		population.Release()
	}
}

type scoreSystem struct{}

func (scoreSystem) Execute(frame *ecs.UpdateFrame) {
	ecs.Each2(frame.Storage, func(_ ecs.Entity, s *Score, h *Health) {
		*s += Score(h.Current)
	})
}

// rasterSystem plots every tinted entity into the output buffer.
type rasterSystem struct {
	Dots ecs.Query[struct {
		*Position
		Tint *Tint `ecs:"optional"`
	}]
	Bounds ecs.Singleton[Bounds]
}

func (s *rasterSystem) Execute(frame *ecs.UpdateFrame) {
	if frame.Output == nil {
		return
	}
	bounds := s.Bounds.MustGet()
	b := *bounds.Get()
	bounds.Release()

	size := frame.Output.Bounds().Size()
	for row := range s.Dots.Iter() {
		c := color.RGBA{0xff, 0xff, 0xff, 0xff}
		if row.Tint != nil {
			c = row.Tint.RGBA
		}
		x := int(row.X / b.Width * float32(size.X-1))
		y := int(row.Y / b.Height * float32(size.Y-1))
		frame.Output.SetRGBA(x, y, c)
	}
}

// clearSystem blanks the output buffer before the raster pass.
func clearSystem(frame *ecs.UpdateFrame) {
	if frame.Output == nil {
		return
	}
	clear(frame.Output.Pix)
}

// newWorld populates storage with entityCount random entities and registers the
// stress systems.
func newWorld(scheduler *ecs.Scheduler, rng *rand.Rand, entityCount int) {
	bounds := Bounds{Width: 1000, Height: 1000}
	ecs.AddResource(scheduler.Resources(), bounds)
	ecs.AddResource(scheduler.Resources(), Population{Spawned: entityCount})

	storage := scheduler.Storage()
	for range entityCount {
		spawnRandomEntity(storage, rng, bounds, rng.Intn(5)+1)
	}

	scheduler.RegisterFixedSystem(accelerateSystem{})
	scheduler.RegisterFixedSystem(&integrateSystem{})
	scheduler.RegisterFixedSystem(damageSystem{})
	scheduler.RegisterFixedSystem(&lifetimeSystem{rng: rng})
	scheduler.RegisterFixedSystem(scoreSystem{})

	scheduler.RegisterRenderSystem(ecs.Named("clear", clearSystem))
	scheduler.RegisterRenderSystem(&rasterSystem{})
}

func newOutput() *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, 256, 256))
}
