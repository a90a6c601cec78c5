package scene

// Environment is an equirectangular HDR map in linear float RGB. It is used
// as the background and the ambient light source.
type Environment struct {
	Name   string
	Width  int
	Height int
	Pix    []float32 // RGB triples, row-major, top row first
}

// At returns the linear colour at pixel (x, y).
func (e *Environment) At(x, y int) (r, g, b float32) {
	i := (y*e.Width + x) * 3
	return e.Pix[i], e.Pix[i+1], e.Pix[i+2]
}

// Average returns the mean colour of the map; it drives the ambient term.
func (e *Environment) Average() [3]float32 {
	var sum [3]float64
	n := e.Width * e.Height
	if n == 0 || len(e.Pix) < n*3 {
		return [3]float32{}
	}
	for i := 0; i < n; i++ {
		sum[0] += float64(e.Pix[i*3])
		sum[1] += float64(e.Pix[i*3+1])
		sum[2] += float64(e.Pix[i*3+2])
	}
	return [3]float32{float32(sum[0] / float64(n)), float32(sum[1] / float64(n)), float32(sum[2] / float64(n))}
}
