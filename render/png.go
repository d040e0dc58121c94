package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"mcts/game"
)

const margin = 10

// StatePNG rasterizes the display form of state with a fixed width font.
// Runes outside the font are skipped.
func StatePNG(w io.Writer, state game.State) error {
	face := basicfont.Face7x13
	lines := strings.Split(strings.TrimRight(state.String(), "\n"), "\n")
	lines = append(lines, "", fmt.Sprintf("To move: %s", state.Turn()))

	columns := 0
	for _, line := range lines {
		if n := len([]rune(line)); n > columns {
			columns = n
		}
	}
	width := columns*face.Advance + 2*margin
	height := len(lines)*face.Height + 2*margin

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}
	for i, line := range lines {
		d.Dot = fixed.P(margin, margin+(i+1)*face.Height-face.Descent)
		d.DrawString(line)
	}

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// WriteStatePNG stores the rendering of state as a PNG file at path.
func WriteStatePNG(path string, state game.State) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}
	defer f.Close()

	return StatePNG(f, state)
}
