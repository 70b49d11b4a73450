// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package memory

import (
	"iter"
	"maps"
	"slices"
	"sync"
)

// Cells is an in-process Store.
//
// Get and Set are guarded so that an observer on another goroutine may read
// cells while the CPU runs. OnChange, if set, is called after every Set with
// the wrapped value, outside of the lock.
type Cells struct {
	OnChange func(name string, value int)

	mutex sync.RWMutex
	cell  map[string]int8
}

// NewCells creates a store with every predefined cell set to zero.
func NewCells() (cells *Cells) {
	cells = &Cells{
		cell: map[string]int8{},
	}
	for name := range Names() {
		cells.cell[name] = 0
	}

	return
}

// Get returns the value of a cell. Unknown cells read as zero.
func (cells *Cells) Get(name string) int {
	cells.mutex.RLock()
	defer cells.mutex.RUnlock()

	return int(cells.cell[name])
}

// Set wraps value to a signed byte and stores it.
func (cells *Cells) Set(name string, value int) {
	value = Wrap(value)

	cells.mutex.Lock()
	if cells.cell == nil {
		cells.cell = map[string]int8{}
	}
	cells.cell[name] = int8(value)
	cells.mutex.Unlock()

	if cells.OnChange != nil {
		cells.OnChange(name, value)
	}
}

// Reset zeros every known cell.
func (cells *Cells) Reset() {
	cells.mutex.Lock()
	defer cells.mutex.Unlock()

	for name := range cells.cell {
		cells.cell[name] = 0
	}
}

// Snapshot returns a copy of all cell values.
func (cells *Cells) Snapshot() (values map[string]int) {
	cells.mutex.RLock()
	defer cells.mutex.RUnlock()

	values = make(map[string]int, len(cells.cell))
	for name, value := range cells.cell {
		values[name] = int(value)
	}

	return
}

// All iterates over a snapshot of the cells in name order.
func (cells *Cells) All() iter.Seq2[string, int] {
	values := cells.Snapshot()
	return func(yield func(string, int) bool) {
		for _, name := range slices.Sorted(maps.Keys(values)) {
			if !yield(name, values[name]) {
				return
			}
		}
	}
}
