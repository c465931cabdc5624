package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const stickDeadzone = 0.2

type input struct {
	moveX   float64
	jump    bool
	respawn bool
	pause   bool
	step    bool
	debug   bool
}

func readInput() input {
	var in input

	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		in.moveX -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		in.moveX += 1
	}
	in.jump = inpututil.IsKeyJustPressed(ebiten.KeySpace)
	in.respawn = inpututil.IsKeyJustPressed(ebiten.KeyR)
	in.pause = inpututil.IsKeyJustPressed(ebiten.KeyP)
	in.step = inpututil.IsKeyJustPressed(ebiten.KeyPeriod)
	in.debug = inpututil.IsKeyJustPressed(ebiten.KeyF3)

	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		id := gamepads[0]
		leftX := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		if math.Abs(leftX) > stickDeadzone {
			in.moveX = leftX
		}
		in.jump = in.jump || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
	}
	return in
}
