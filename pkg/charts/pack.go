package charts

import "math"

type circle struct {
	x, y, r float64
}

// pack lays out circles with the given radii so that none overlap and the
// result fits a width×height box with pad pixels between neighbours. Each
// circle is placed at the spot tangent to two earlier circles that lies
// closest to the center. Radii are scaled uniformly to fit.
func pack(radii []float64, width, height, pad float64) []circle {
	if len(radii) == 0 {
		return nil
	}
	// The padding is in output pixels, so it depends on the fit scale;
	// one refinement pass is enough for it to settle.
	k := 1.0
	var out []circle
	for pass := 0; pass < 2; pass++ {
		out = place(radii, pad/k)
		k = fit(out, width, height)
	}
	minX, _, minY, _ := extent(out)
	bw, bh := boxSize(out)
	offX := (width - bw*k) / 2
	offY := (height - bh*k) / 2
	for i := range out {
		out[i].x = offX + (out[i].x-minX)*k
		out[i].y = offY + (out[i].y-minY)*k
		out[i].r *= k
	}
	return out
}

func place(radii []float64, pad float64) []circle {
	out := make([]circle, len(radii))
	var placed []int
	for i, r := range radii {
		r = math.Max(r, 0)
		c := circle{r: r}
		switch len(placed) {
		case 0:
		case 1:
			p := out[placed[0]]
			c.x = p.x + p.r + r + pad
			c.y = p.y
		default:
			c = bestSpot(out, placed, r, pad)
		}
		out[i] = c
		placed = append(placed, i)
	}
	return out
}

func bestSpot(out []circle, placed []int, r, pad float64) circle {
	best := circle{r: r}
	bestD := math.Inf(1)
	try := func(c circle) {
		d := math.Hypot(c.x, c.y)
		if d >= bestD {
			return
		}
		for _, j := range placed {
			o := out[j]
			if math.Hypot(c.x-o.x, c.y-o.y) < o.r+c.r+pad-1e-6 {
				return
			}
		}
		best, bestD = c, d
	}
	for ai, a := range placed {
		for _, b := range placed[ai+1:] {
			for _, c := range tangent(out[a], out[b], r, pad) {
				try(c)
			}
		}
	}
	if math.IsInf(bestD, 1) {
		// No pair has room; fall off the right edge of everything.
		maxX, _, _, _ := extent(out[:len(placed)])
		best.x = maxX + r + pad
	}
	return best
}

// tangent returns the positions of a circle of radius r touching both a
// and b, keeping pad between them.
func tangent(a, b circle, r, pad float64) []circle {
	da := a.r + r + pad
	db := b.r + r + pad
	dx, dy := b.x-a.x, b.y-a.y
	d := math.Hypot(dx, dy)
	if d == 0 || d > da+db || d < math.Abs(da-db) {
		return nil
	}
	along := (da*da - db*db + d*d) / (2 * d)
	h := math.Sqrt(math.Max(da*da-along*along, 0))
	mx, my := a.x+along*dx/d, a.y+along*dy/d
	return []circle{
		{x: mx + h*dy/d, y: my - h*dx/d, r: r},
		{x: mx - h*dy/d, y: my + h*dx/d, r: r},
	}
}

func extent(cs []circle) (minX, maxX, minY, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, c := range cs {
		minX = math.Min(minX, c.x-c.r)
		maxX = math.Max(maxX, c.x+c.r)
		minY = math.Min(minY, c.y-c.r)
		maxY = math.Max(maxY, c.y+c.r)
	}
	return minX, maxX, minY, maxY
}

func boxSize(cs []circle) (float64, float64) {
	minX, maxX, minY, maxY := extent(cs)
	return maxX - minX, maxY - minY
}

func fit(cs []circle, width, height float64) float64 {
	bw, bh := boxSize(cs)
	if bw <= 0 || bh <= 0 {
		return 1
	}
	return math.Min(width/bw, height/bh)
}
