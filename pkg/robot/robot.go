// Package robot is a small 2D simulator whose control loop is a behaviour
// tree (pkg/btree) evaluated once per simulated tick. Rendering is built on
// ebiten, and motion between ticks is tweened with gween.
package robot

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/fibretree/fibre"
	"github.com/fibretree/fibre/pkg/btree"
)

const (
	ScreenWidth  = 480
	ScreenHeight = 360
	tickSeconds  = 0.5
)

// Robot is the simulated agent's mutable world state. A Condition's Env
// closure reads it to build the expr-lang environment, and Actions mutate
// it directly — this package is the one place in the repo where node
// functions carry real side-effecting state rather than pure hook state,
// matching how the spec describes the robot simulator as a worked example
// rather than part of the engine's semantics.
type Robot struct {
	X, Y          float64
	TargetX       float64
	TargetY       float64
	BatteryLevel  float64
	Charging      bool
}

// Game wires a fibre.Runtime driving a behaviour tree over Robot to an
// ebiten game loop: one fibre tick per tickSeconds of simulated time, with
// position tweened smoothly across the interval for rendering.
type Game struct {
	robot   *Robot
	rt      *fibre.Runtime
	elapsed float64

	tweenX *gween.Tween
	tweenY *gween.Tween
}

// NewGame builds a default scenario: a robot behaviour tree that recharges
// when BatteryLevel is 20 or lower and otherwise advances toward a target.
func NewGame() *Game {
	robot := &Robot{X: 40, Y: 40, TargetX: 400, TargetY: 280, BatteryLevel: 100}

	env := func(ctx *fibre.Ctx) map[string]any {
		return map[string]any{"BatteryLevel": robot.BatteryLevel}
	}

	cond, err := btree.NewCondition("battery_ok", "BatteryLevel > 20", env)
	if err != nil {
		panic(err)
	}

	recharge := &btree.Action{Name: "recharge", Run: func(ctx *fibre.Ctx) btree.Status {
		robot.Charging = true
		robot.BatteryLevel += 10
		if robot.BatteryLevel >= 100 {
			robot.BatteryLevel = 100
			robot.Charging = false
			return btree.Success
		}
		return btree.Running
	}}

	advance := &btree.Action{Name: "advance", Run: func(ctx *fibre.Ctx) btree.Status {
		robot.Charging = false
		robot.BatteryLevel -= 1
		dx, dy := robot.TargetX-robot.X, robot.TargetY-robot.Y
		dist := dx*dx + dy*dy
		if dist < 4 {
			return btree.Success
		}
		step := 24.0
		norm := step / (dist*0.5 + step)
		robot.X += dx * norm
		robot.Y += dy * norm
		return btree.Running
	}}

	tree := &btree.Selector{Name: "root", Children: []fibre.Descriptor{
		&btree.Sequence{Name: "recharge_if_low", Children: []fibre.Descriptor{
			&btree.Invert{Name: "battery_low", Child: cond},
			recharge,
		}},
		advance,
	}}

	return &Game{robot: robot, rt: fibre.NewRuntime(tree)}
}

func (g *Game) Update() error {
	prevX, prevY := g.robot.X, g.robot.Y
	g.elapsed += 1.0 / 60.0
	if g.elapsed >= tickSeconds {
		g.elapsed = 0
		// Robot state lives outside the fibre tree, so every fibre is
		// invalidated to make this tick re-read it.
		fibre.Walk(g.rt.Root(), func(f *fibre.Fibre) bool {
			g.rt.Invalidate(f)
			return true
		})
		if err := g.rt.RunTick(); err != nil {
			return fmt.Errorf("robot: tick: %w", err)
		}
		g.tweenX = gween.New(float32(prevX), float32(g.robot.X), tickSeconds, ease.Linear)
		g.tweenY = gween.New(float32(prevY), float32(g.robot.Y), tickSeconds, ease.Linear)
	}
	return nil
}

// renderPosition returns the tweened on-screen position for this frame,
// falling back to the robot's raw position before the first tick.
func (g *Game) renderPosition() (float64, float64) {
	if g.tweenX == nil || g.tweenY == nil {
		return g.robot.X, g.robot.Y
	}
	x, _ := g.tweenX.Update(float32(1.0 / 60.0))
	y, _ := g.tweenY.Update(float32(1.0 / 60.0))
	return float64(x), float64(y)
}

func (g *Game) Draw(screen *ebiten.Image) {
	x, y := g.renderPosition()
	clr := color.RGBA{64, 200, 255, 255}
	if g.robot.Charging {
		clr = color.RGBA{255, 200, 64, 255}
	}
	ebitenutil.DrawRect(screen, x-6, y-6, 12, 12, clr)
	ebitenutil.DrawRect(screen, g.robot.TargetX-3, g.robot.TargetY-3, 6, 6, color.RGBA{80, 255, 120, 255})
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("battery: %.0f%%", g.robot.BatteryLevel), 8, 8)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}

// Run starts the ebiten game loop, blocking until the window closes.
func Run() error {
	ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
	ebiten.SetWindowTitle("fibre robot simulator")
	return ebiten.RunGame(NewGame())
}
