// Package ebitenhost runs a Scheduler inside an Ebiten window. It measures the
// real time between frames, feeds keyboard state into an input.Snapshot and
// presents the RGBA output buffer that render systems draw into.
package ebitenhost

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/tilecore/ecs"
	"github.com/plus3/tilecore/ecs/debugui"
	debugui_ebiten "github.com/plus3/tilecore/ecs/debugui/ebiten"
	"github.com/plus3/tilecore/input"
)

// Config describes the window and the logical frame buffer.
type Config struct {
	Title string
	// Width and Height are the logical size of the output buffer in pixels.
	Width  int
	Height int
	// Scale is the initial window size as a multiple of the logical size.
	Scale int
	// TPS is how often Ebiten calls Update, and so how often a frame runs.
	TPS int
	// Debug enables the ImGui overlay with the debug windows.
	Debug bool
	// Background fills the output buffer before each frame.
	Background color.RGBA
	Logger     *slog.Logger
}

// Game implements ebiten.Game around a Scheduler.
type Game struct {
	cfg       Config
	scheduler *ecs.Scheduler
	input     *input.Snapshot
	output    *image.RGBA
	canvas    *ebiten.Image
	backend   *debugui_ebiten.ImguiBackend
	logger    *slog.Logger
	lastFrame time.Time
}

// NewGame creates the host for scheduler. With cfg.Debug set it also creates
// the ImGui backend and spawns the debug windows.
func NewGame(cfg Config, scheduler *ecs.Scheduler) (*Game, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("ebitenhost: invalid logical size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}
	if cfg.TPS <= 0 {
		cfg.TPS = ebiten.DefaultTPS
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	g := &Game{
		cfg:       cfg,
		scheduler: scheduler,
		input:     input.New(),
		output:    image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height)),
		canvas:    ebiten.NewImage(cfg.Width, cfg.Height),
		logger:    logger,
	}

	if cfg.Debug {
		backend := debugui_ebiten.NewImguiBackend(cfg.Title, cfg.Width*cfg.Scale, cfg.Height*cfg.Scale)
		g.backend = &backend
		debugui.SpawnDebugUI(scheduler)
		logger.Info("debug overlay enabled")
	}

	return g, nil
}

// Input returns the snapshot handed to systems each frame.
func (g *Game) Input() *input.Snapshot {
	return g.input
}

// Output returns the frame buffer render systems draw into.
func (g *Game) Output() *image.RGBA {
	return g.output
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	now := time.Now()
	var dt time.Duration
	if !g.lastFrame.IsZero() {
		dt = now.Sub(g.lastFrame)
	}
	g.lastFrame = now

	if g.imguiWantsKeyboard() {
		g.input.Clear()
	} else {
		pollKeys(g.input)
	}

	if g.backend != nil {
		g.backend.BeginFrame()
	}

	fill(g.output, g.cfg.Background)
	ticks := g.scheduler.RunFrame(dt, g.output, g.input)
	if ticks > 1 {
		g.logger.Debug("slow frame", "frame_delta", dt, "ticks", ticks)
	}

	if g.backend != nil {
		g.backend.EndFrame()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.canvas.WritePixels(g.output.Pix)

	bounds := screen.Bounds()
	scale, offsetX, offsetY := fitRect(bounds.Dx(), bounds.Dy(), g.cfg.Width, g.cfg.Height)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(offsetX, offsetY)
	screen.DrawImage(g.canvas, op)

	if g.backend != nil {
		g.backend.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.backend != nil {
		g.backend.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// imguiWantsKeyboard reports whether the overlay captured the keyboard during
// the previous frame.
func (g *Game) imguiWantsKeyboard() bool {
	state, ok := ecs.GetResource[debugui.ImguiInputState](g.scheduler.Resources())
	if !ok {
		return false
	}
	defer state.Release()
	return state.Get().WantCaptureKeyboard
}

// Run opens the window and blocks until it is closed.
func Run(cfg Config, scheduler *ecs.Scheduler) error {
	g, err := NewGame(cfg, scheduler)
	if err != nil {
		return err
	}

	ebiten.SetWindowSize(g.cfg.Width*g.cfg.Scale, g.cfg.Height*g.cfg.Scale)
	ebiten.SetWindowTitle(g.cfg.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(g.cfg.TPS)

	g.logger.Info("starting host",
		"width", g.cfg.Width,
		"height", g.cfg.Height,
		"scale", g.cfg.Scale,
		"tps", g.cfg.TPS)

	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("ebitenhost: run game: %w", err)
	}
	return nil
}

// fitRect returns the largest uniform scale at which a w×h image fits inside
// the outside size, and the offset that centers it.
func fitRect(outsideWidth, outsideHeight, w, h int) (scale, offsetX, offsetY float64) {
	scale = min(float64(outsideWidth)/float64(w), float64(outsideHeight)/float64(h))
	offsetX = (float64(outsideWidth) - float64(w)*scale) / 2
	offsetY = (float64(outsideHeight) - float64(h)*scale) / 2
	return scale, offsetX, offsetY
}

func fill(img *image.RGBA, c color.RGBA) {
	pix := img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i] = c.R
		pix[i+1] = c.G
		pix[i+2] = c.B
		pix[i+3] = c.A
	}
}
