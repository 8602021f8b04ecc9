package stencil

import "github.com/sarchlab/heatbench/grid"

// UpdateTile applies the 5-point update to the interior cells with
// rowLo <= i < rowHi and colLo <= j < colHi. It reads only cur and writes only
// next. Callers keep the bounds inside [1, size-1).
func UpdateTile(
	cur, next *grid.Grid,
	r float64,
	rowLo, rowHi, colLo, colHi int,
) {
	n := cur.Size()
	in := cur.Cells()
	out := next.Cells()

	for i := rowLo; i < rowHi; i++ {
		up := in[(i-1)*n : i*n]
		mid := in[i*n : (i+1)*n]
		down := in[(i+1)*n : (i+2)*n]
		dst := out[i*n : (i+1)*n]

		for j := colLo; j < colHi; j++ {
			center := mid[j]
			dst[j] = center + r*(down[j]+up[j]+mid[j+1]+mid[j-1]-4*center)
		}
	}
}

// UpdateRows applies the 5-point update to the full width of interior rows
// rowLo <= i < rowHi.
func UpdateRows(cur, next *grid.Grid, r float64, rowLo, rowHi int) {
	UpdateTile(cur, next, r, rowLo, rowHi, 1, cur.Size()-1)
}

// ApplyNeumann copies the outermost interior rows and columns onto the edges,
// giving a zero-gradient boundary. Rows are copied first and columns last, so
// the corners take the column rule.
func ApplyNeumann(g *grid.Grid) {
	n := g.Size()
	c := g.Cells()

	copy(c[:n], c[n:2*n])
	copy(c[(n-1)*n:], c[(n-2)*n:(n-1)*n])

	for i := 0; i < n; i++ {
		row := c[i*n : (i+1)*n]
		row[0] = row[1]
		row[n-1] = row[n-2]
	}
}
