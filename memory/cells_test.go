package memory

import (
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Wrap", func() {
	It("should wrap to a signed byte", func() {
		Expect(Wrap(0)).To(Equal(0))
		Expect(Wrap(127)).To(Equal(127))
		Expect(Wrap(128)).To(Equal(-128))
		Expect(Wrap(255)).To(Equal(-1))
		Expect(Wrap(256)).To(Equal(0))
		Expect(Wrap(-129)).To(Equal(127))
		Expect(Wrap(-7)).To(Equal(-7))
	})
})

var _ = Describe("Names", func() {
	It("should name the variables by id", func() {
		for id, name := range Variables {
			got, ok := VariableId(name)
			Expect(ok).To(BeTrue())
			Expect(got).To(Equal(id))

			back, ok := VariableName(id)
			Expect(ok).To(BeTrue())
			Expect(back).To(Equal(name))
		}

		id, ok := VariableId("A")
		Expect(ok).To(BeTrue())
		Expect(id).To(Equal(4))

		_, ok = VariableId("b")
		Expect(ok).To(BeFalse())
		_, ok = VariableName(9)
		Expect(ok).To(BeFalse())
		_, ok = VariableName(-1)
		Expect(ok).To(BeFalse())
	})

	It("should name scratch bits", func() {
		Expect(Bit(GROUP_SRC1, 0)).To(Equal("SRC1[0]"))
		Expect(Bit(GROUP_RES, 7)).To(Equal("RES[7]"))
		Expect(IsGroup("src2")).To(BeTrue())
		Expect(IsGroup("a")).To(BeFalse())
	})

	It("should list every predefined cell once", func() {
		seen := map[string]int{}
		for name := range Names() {
			seen[name]++
		}
		Expect(seen).To(HaveLen(9 + 3*8 + 3 + 4 + 2))
		Expect(seen).To(HaveKey("SRC2[7]"))
		Expect(seen).To(HaveKey(FLAG_C))
		Expect(seen).To(HaveKey(CELL_IR1))
		for _, count := range seen {
			Expect(count).To(Equal(1))
		}
	})
})

var _ = Describe("Cells", func() {
	var cells *Cells

	BeforeEach(func() {
		cells = NewCells()
	})

	It("should start zeroed", func() {
		for name, value := range cells.All() {
			Expect(value).To(Equal(0), name)
		}
		Expect(cells.Get("unknown")).To(Equal(0))
	})

	It("should wrap on set", func() {
		cells.Set("a", 200)
		Expect(cells.Get("a")).To(Equal(-56))
		cells.Set("a", -129)
		Expect(cells.Get("a")).To(Equal(127))
	})

	It("should be usable as a zero value", func() {
		var zero Cells
		zero.Set("q", 3)
		Expect(zero.Get("q")).To(Equal(3))
	})

	It("should handle flags as booleans", func() {
		SetFlag(cells, FLAG_Z, true)
		Expect(Flag(cells, FLAG_Z)).To(BeTrue())
		Expect(cells.Get(FLAG_Z)).To(Equal(1))
		SetFlag(cells, FLAG_Z, false)
		Expect(Flag(cells, FLAG_Z)).To(BeFalse())
	})

	It("should notify on change", func() {
		var names []string
		var values []int
		cells.OnChange = func(name string, value int) {
			names = append(names, name)
			values = append(values, value)
		}
		cells.Set("s", 1)
		cells.Set("s", 384)
		Expect(names).To(Equal([]string{"s", "s"}))
		Expect(values).To(Equal([]int{1, -128}))
	})

	It("should reset to zero", func() {
		cells.Set("x", 9)
		cells.Set("extra", 4)
		cells.Reset()
		Expect(cells.Get("x")).To(Equal(0))
		Expect(cells.Get("extra")).To(Equal(0))
		Expect(cells.Snapshot()).To(HaveKey("extra"))
	})

	It("should allow a concurrent observer", func() {
		var wg sync.WaitGroup
		done := make(chan struct{})

		wg.Add(1)
		go func() {
			defer GinkgoRecover()
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					value := cells.Get("a")
					Expect(value).To(BeNumerically(">=", -128))
					Expect(value).To(BeNumerically("<=", 127))
				}
			}
		}()

		for n := range 1000 {
			cells.Set("a", n)
			Expect(cells.Get("a")).To(Equal(Wrap(n)))
		}
		close(done)
		wg.Wait()
	})
})

var _ = Describe("Journal", func() {
	It("should record writes in order", func() {
		cells := NewCells()
		journal := &Journal{Store: cells}

		journal.Set("RES[0]", 1)
		journal.Set("a", 130)
		journal.Set("RES[1]", 0)

		Expect(journal.Get("a")).To(Equal(-126))
		Expect(journal.Writes).To(Equal([]Write{
			{Name: "RES[0]", Value: 1},
			{Name: "a", Value: -126},
			{Name: "RES[1]", Value: 0},
		}))
		Expect(journal.Matching("RES")).To(HaveLen(2))

		journal.Clear()
		Expect(journal.Writes).To(BeEmpty())
	})
})
