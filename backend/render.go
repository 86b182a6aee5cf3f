package main

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io"
	"os"
	"path/filepath"
)

// Renders board states to paletted frames and assembles solution replays
// into animated GIFs. Frames are drawn straight into paletted images so
// GIF encoding needs no quantization pass.

const renderCellPx = 24

var (
	renderFloor  = color.RGBA{R: 0xee, G: 0xe8, B: 0xd5, A: 0xff}
	renderWall   = color.RGBA{R: 0x3a, G: 0x3a, B: 0x3a, A: 0xff}
	renderTarget = color.RGBA{R: 0xcf, G: 0x9f, B: 0x4f, A: 0xff}
	renderBox    = color.RGBA{R: 0x8b, G: 0x5a, B: 0x2b, A: 0xff}
	renderPlaced = color.RGBA{R: 0x2e, G: 0x8b, B: 0x57, A: 0xff}
	renderPlayer = color.RGBA{R: 0x1e, G: 0x4f, B: 0x9c, A: 0xff}
)

var renderPalette = color.Palette{
	renderFloor, renderWall, renderTarget, renderBox, renderPlaced, renderPlayer,
}

// RenderFrame draws one board configuration. The y axis points up on the
// board, so row 0 of the image is the top row y = Width-1.
func RenderFrame(board *Board) *image.Paletted {
	rect := image.Rect(0, 0, board.Length*renderCellPx, board.Width*renderCellPx)
	frame := image.NewPaletted(rect, renderPalette)
	for y := 0; y < board.Width; y++ {
		for x := 0; x < board.Length; x++ {
			fillCell(frame, board, x, y, cellColor(board, Position{X: x, Y: y}))
		}
	}
	return frame
}

func cellColor(board *Board, pos Position) color.Color {
	if board.IsObstacle(pos) {
		return renderWall
	}
	if board.Player == pos {
		return renderPlayer
	}
	if _, occupied := board.boxAt(pos); occupied {
		if board.IsTarget(pos) {
			return renderPlaced
		}
		return renderBox
	}
	if board.IsTarget(pos) {
		return renderTarget
	}
	return renderFloor
}

func fillCell(frame *image.Paletted, board *Board, x, y int, c color.Color) {
	row := board.Width - 1 - y
	for py := row * renderCellPx; py < (row+1)*renderCellPx; py++ {
		for px := x * renderCellPx; px < (x+1)*renderCellPx; px++ {
			frame.Set(px, py, c)
		}
	}
}

// RenderSolution replays a move sequence from the initial board and
// returns one frame per intermediate state, initial state included.
func RenderSolution(board *Board, moves []Move) ([]*image.Paletted, error) {
	state := board.Clone()
	frames := []*image.Paletted{RenderFrame(state)}
	for i, move := range moves {
		if err := state.ApplyMove(move); err != nil {
			return nil, fmt.Errorf("replay move %d (%s): %w", i, move, err)
		}
		frames = append(frames, RenderFrame(state))
	}
	return frames, nil
}

// EncodeSolutionGIF writes an animated replay; delay is in hundredths of
// a second per frame.
func EncodeSolutionGIF(w io.Writer, board *Board, moves []Move, delay int) error {
	frames, err := RenderSolution(board, moves)
	if err != nil {
		return err
	}
	anim := &gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}
	return gif.EncodeAll(w, anim)
}

// SaveSolutionFrames writes each replay state as a numbered PNG under dir.
func SaveSolutionFrames(dir string, board *Board, moves []Move) error {
	frames, err := RenderSolution(board, moves)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for i, frame := range frames {
		path := filepath.Join(dir, fmt.Sprintf("state_%03d.png", i))
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := png.Encode(file, frame); err != nil {
			file.Close()
			return err
		}
		if err := file.Close(); err != nil {
			return err
		}
	}
	return nil
}
