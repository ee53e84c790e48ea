package models

// XIndex is the shared logical time axis: one tick per accepted line,
// starting at 1 and increasing by exactly 1.
type XIndex struct {
	ticks []int
	count int
}

func NewXIndex() *XIndex {
	return &XIndex{ticks: make([]int, 0)}
}

// Next advances the counter, appends the new tick and returns it.
func (x *XIndex) Next() int {
	x.count++
	x.ticks = append(x.ticks, x.count)
	return x.count
}

func (x *XIndex) Len() int {
	return len(x.ticks)
}

// Count is the number of ticks issued since the last reset, evicted ones included.
func (x *XIndex) Count() int {
	return x.count
}

// First is the lowest retained tick. Ticks are strictly increasing so this is
// always the minimum.
func (x *XIndex) First() int {
	if len(x.ticks) == 0 {
		return 0
	}
	return x.ticks[0]
}

// Last is the most recent tick and therefore the maximum.
func (x *XIndex) Last() int {
	if len(x.ticks) == 0 {
		return 0
	}
	return x.ticks[len(x.ticks)-1]
}

func (x *XIndex) Ticks() []int {
	return append([]int(nil), x.ticks...)
}

// DropFirst evicts the n oldest ticks.
func (x *XIndex) DropFirst(n int) {
	if n >= len(x.ticks) {
		x.ticks = make([]int, 0)
		return
	}
	x.ticks = x.ticks[n:]
}

func (x *XIndex) Reset() {
	x.ticks = make([]int, 0)
	x.count = 0
}
