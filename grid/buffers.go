package grid

// Buffers is the pair of grids used by the explicit scheme. Kernels read only
// from Current and write only to Next. Swap hands Next over to become the
// following step's Current.
type Buffers struct {
	current *Grid
	next    *Grid
}

// NewBuffers creates an initialized Current grid and a zeroed Next grid.
func NewBuffers(size int) (*Buffers, error) {
	current, err := Initialize(size)
	if err != nil {
		return nil, err
	}

	next, err := New(size)
	if err != nil {
		return nil, err
	}

	return &Buffers{current: current, next: next}, nil
}

// Current returns the grid holding the latest completed step.
func (b *Buffers) Current() *Grid { return b.current }

// Next returns the grid being written by the step in progress.
func (b *Buffers) Next() *Grid { return b.next }

// Swap exchanges the two grid handles. No cell is copied.
func (b *Buffers) Swap() {
	b.current, b.next = b.next, b.current
}
