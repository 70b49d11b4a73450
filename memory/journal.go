package memory

import (
	"strings"
)

// Write is one recorded cell write.
type Write struct {
	Name  string // Cell name.
	Value int    // Wrapped value written.
}

// Journal passes reads and writes through to Store, recording every write.
type Journal struct {
	Store
	Writes []Write
}

// Set records the write and forwards it.
func (j *Journal) Set(name string, value int) {
	j.Writes = append(j.Writes, Write{Name: name, Value: Wrap(value)})
	j.Store.Set(name, value)
}

// Clear forgets all recorded writes.
func (j *Journal) Clear() {
	j.Writes = j.Writes[:0]
}

// Matching returns the recorded writes whose cell name has the prefix.
func (j *Journal) Matching(prefix string) (writes []Write) {
	for _, w := range j.Writes {
		if strings.HasPrefix(w.Name, prefix) {
			writes = append(writes, w)
		}
	}

	return
}
