package diagram

import "strings"

// maxLabelShift bounds how far placeLabel slides a label horizontally while
// hunting for free cells.
const maxLabelShift = 10

// canvas is a grid of runes that grows on demand. Writers distinguish
// between forced writes (the state art itself) and polite writes that back
// off when a cell is already taken, which is how labels avoid each other.
type canvas struct {
	rows [][]rune
}

func newCanvas(height, width int) *canvas {
	cv := &canvas{rows: make([][]rune, height)}
	for i := range cv.rows {
		cv.rows[i] = blankRow(width)
	}
	return cv
}

func blankRow(width int) []rune {
	row := make([]rune, width)
	for i := range row {
		row[i] = ' '
	}
	return row
}

// grow makes sure cell (r, c) exists. All rows keep the same width.
func (cv *canvas) grow(r, c int) {
	width := 0
	if len(cv.rows) > 0 {
		width = len(cv.rows[0])
	}
	for r >= len(cv.rows) {
		cv.rows = append(cv.rows, blankRow(width))
	}
	if c >= width {
		for i := range cv.rows {
			for len(cv.rows[i]) <= c {
				cv.rows[i] = append(cv.rows[i], ' ')
			}
		}
	}
}

// set writes unconditionally.
func (cv *canvas) set(r, c int, ch rune) {
	if r < 0 || c < 0 {
		return
	}
	cv.grow(r, c)
	cv.rows[r][c] = ch
}

// setIfEmpty writes only into blank cells and reports whether it did.
func (cv *canvas) setIfEmpty(r, c int, ch rune) bool {
	if r < 0 || c < 0 {
		return false
	}
	cv.grow(r, c)
	if cv.rows[r][c] != ' ' {
		return false
	}
	cv.rows[r][c] = ch
	return true
}

// writeString places text at (r, c) only if every cell it would cover is
// blank. No partial writes.
func (cv *canvas) writeString(r, c int, text string) bool {
	if r < 0 || c < 0 {
		return false
	}
	runes := []rune(text)
	if len(runes) == 0 {
		return true
	}
	cv.grow(r, c+len(runes)-1)
	for i := range runes {
		if cv.rows[r][c+i] != ' ' {
			return false
		}
	}
	for i, ch := range runes {
		cv.rows[r][c+i] = ch
	}
	return true
}

// placeLabel tries the preferred cell, then walks upward row by row, nudging
// the label sideways at each row, until the text fits without touching
// anything already drawn.
func (cv *canvas) placeLabel(startRow, preferredCol int, text string, minRow int) bool {
	for r := startRow; r >= minRow; r-- {
		if cv.writeString(r, preferredCol, text) {
			return true
		}
		for shift := 1; shift <= maxLabelShift; shift++ {
			for _, dir := range []int{-1, 1} {
				c := preferredCol + dir*shift
				if c < 0 {
					continue
				}
				if cv.writeString(r, c, text) {
					return true
				}
			}
		}
	}
	return false
}

// forceString writes text even over occupied cells. Last resort when no
// free spot exists.
func (cv *canvas) forceString(r, c int, text string) {
	if r < 0 {
		r = 0
	}
	if c < 0 {
		c = 0
	}
	for i, ch := range []rune(text) {
		cv.set(r, c+i, ch)
	}
}

// lines renders the grid as strings with trailing blanks stripped.
func (cv *canvas) lines() []string {
	out := make([]string, len(cv.rows))
	for i, row := range cv.rows {
		out[i] = strings.TrimRight(string(row), " ")
	}
	return out
}
