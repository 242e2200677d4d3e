package canvas

type point struct {
	x, y int
}

// Fill recolors the 4-connected region of cells sharing the start cell's
// color. cells is a row-major width*height grid and is modified in place.
// Filling with the region's own color is a no-op.
func Fill(cells []int, width, height, start, replacement int) (int, error) {
	if width <= 0 || height <= 0 || len(cells) != width*height {
		return 0, ErrBadLength
	}
	if start < 0 || start >= len(cells) {
		return 0, ErrCellOutOfRange
	}
	target := cells[start]
	if target == replacement {
		return 0, nil
	}

	changed := 0
	stack := []point{{x: start % width, y: start / width}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		i := p.y*width + p.x
		if cells[i] != target {
			continue
		}
		cells[i] = replacement
		changed++

		if p.x > 0 {
			stack = append(stack, point{p.x - 1, p.y})
		}
		if p.x < width-1 {
			stack = append(stack, point{p.x + 1, p.y})
		}
		if p.y > 0 {
			stack = append(stack, point{p.x, p.y - 1})
		}
		if p.y < height-1 {
			stack = append(stack, point{p.x, p.y + 1})
		}
	}
	return changed, nil
}
