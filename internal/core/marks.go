package core

// Marks is a reusable visited set over cell indices.
//
// Clearing is O(1): each Clear bumps an epoch and a cell counts as marked
// only when its stamp equals the current epoch.
type Marks struct {
	stamp []uint32
	epoch uint32
}

// NewMarks allocates marks for n cells.
func NewMarks(n int) *Marks {
	if n < 0 {
		n = 0
	}
	return &Marks{stamp: make([]uint32, n), epoch: 1}
}

// Len returns the number of cells covered.
func (m *Marks) Len() int { return len(m.stamp) }

// Has reports whether cell i is marked.
func (m *Marks) Has(i int) bool { return m.stamp[i] == m.epoch }

// Put marks cell i.
func (m *Marks) Put(i int) { m.stamp[i] = m.epoch }

// Clear unmarks every cell.
func (m *Marks) Clear() {
	m.epoch++
	if m.epoch == 0 {
		for i := range m.stamp {
			m.stamp[i] = 0
		}
		m.epoch = 1
	}
}
