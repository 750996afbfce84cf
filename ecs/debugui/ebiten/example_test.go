package ebiten_test

import (
	"image"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/tilecore/ecs"
	"github.com/plus3/tilecore/ecs/debugui"
	debugui_ebiten "github.com/plus3/tilecore/ecs/debugui/ebiten"
)

// Game implements ebiten.Game and integrates the ECS with ImGui rendering.
type Game struct {
	scheduler *ecs.Scheduler
	backend   debugui_ebiten.ImguiBackend
	output    *image.RGBA
	canvas    *ebiten.Image
}

func (g *Game) Update() error {
	// Begin ImGui frame before executing systems
	g.backend.BeginFrame()

	// Execute all ECS systems (including ImguiSystem)
	g.scheduler.RunFrame(time.Second/60, g.output, nil)

	// End ImGui frame after systems complete
	g.backend.EndFrame()

	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	// Draw game content to screen
	g.canvas.WritePixels(g.output.Pix)
	screen.DrawImage(g.canvas, nil)

	// Draw ImGui overlay on top
	g.backend.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.backend.Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

func Example() {
	storage := ecs.NewStorage()
	resources := ecs.NewResources()

	// Create Ebiten window and ImGui backend
	backend := debugui_ebiten.NewImguiBackend("ECS ImGui Example", 1280, 720)

	// Spawn entities with ImGui render functions
	ecs.Attach(storage, storage.CreateEntity(), debugui.ImguiItem{
		Render: func() {
			imgui.Begin("Debug Window")
			imgui.Text("Hello from ECS!")
			imgui.End()
		},
	})

	// Create scheduler; SpawnDebugUI registers the ImguiSystem
	scheduler := ecs.NewScheduler(storage, resources)
	debugui.SpawnDebugUI(scheduler)

	game := &Game{
		scheduler: scheduler,
		backend:   backend,
		output:    image.NewRGBA(image.Rect(0, 0, 1280, 720)),
		canvas:    ebiten.NewImage(1280, 720),
	}

	// Run the game
	if err := ebiten.RunGame(game); err != nil {
		panic(err)
	}
}
