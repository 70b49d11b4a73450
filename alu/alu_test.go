package alu

import (
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ledcpu/memory"
)

//go:generate mockgen -write_package_comment=false -package=$GOPACKAGE -destination=mock_store_test.go github.com/ezrec/ledcpu/memory Store

func TestAluLUT(t *testing.T) {
	assert := assert.New(t)

	for n := range 8 {
		a, b, c := (n>>2)&1, (n>>1)&1, n&1

		sum := a + b + c
		assert.Equal(sum&1, adderLUT[n].bit, "add %d", n)
		assert.Equal(sum>>1, adderLUT[n].carry, "add %d", n)

		diff := a - b - c
		borrow := 0
		if diff < 0 {
			borrow = 1
		}
		assert.Equal(diff&1, subtractorLUT[n].bit, "sub %d", n)
		assert.Equal(borrow, subtractorLUT[n].carry, "sub %d", n)
	}

	for n := range 4 {
		a, b := (n>>1)&1, n&1
		assert.Equal(a&b, andLUT[n])
		assert.Equal(a|b, orLUT[n])
		assert.Equal(a^b, xorLUT[n])
	}
}

func TestAluAddSub(t *testing.T) {
	assert := assert.New(t)

	alu := NewAlu(memory.NewCells())

	for a := -128; a < 128; a++ {
		for b := -128; b < 128; b++ {
			res, err := alu.Execute(OP_ADD, a, b)
			assert.NoError(err)
			sum := memory.Wrap(a + b)
			ok := assert.Equal(sum, res.Value, "%d + %d", a, b) &&
				assert.Equal(sum == 0, res.Flags.Z, "%d + %d", a, b) &&
				assert.Equal(sum < 0, res.Flags.N, "%d + %d", a, b) &&
				assert.Equal(sum != a+b, res.Flags.V, "%d + %d", a, b) &&
				assert.Equal(int(uint8(a))+int(uint8(b)) > 0xff, res.Flags.C, "%d + %d", a, b)
			if !ok {
				return
			}

			res, err = alu.Execute(OP_SUB, a, b)
			assert.NoError(err)
			diff := memory.Wrap(a - b)
			ok = assert.Equal(diff, res.Value, "%d - %d", a, b) &&
				assert.Equal(diff == 0, res.Flags.Z, "%d - %d", a, b) &&
				assert.Equal(diff < 0, res.Flags.N, "%d - %d", a, b) &&
				assert.Equal(diff != a-b, res.Flags.V, "%d - %d", a, b) &&
				assert.Equal(uint8(a) < uint8(b), res.Flags.C, "%d - %d", a, b)
			if !ok {
				return
			}
		}
	}
}

func TestAluLogic(t *testing.T) {
	assert := assert.New(t)

	alu := NewAlu(memory.NewCells())

	for a := -128; a < 128; a += 3 {
		for b := -128; b < 128; b += 5 {
			table := [](struct {
				op       Op
				expected int
			}){
				{OP_AND, a & b},
				{OP_OR, a | b},
				{OP_XOR, a ^ b},
			}
			for _, entry := range table {
				res, err := alu.Execute(entry.op, a, b)
				assert.NoError(err)
				ok := assert.Equal(entry.expected, res.Value, "%d %v %d", a, entry.op, b) &&
					assert.Equal(entry.expected == 0, res.Flags.Z) &&
					assert.Equal(entry.expected < 0, res.Flags.N) &&
					assert.False(res.Flags.V) &&
					assert.False(res.Flags.C)
				if !ok {
					return
				}
			}
		}
	}
}

func TestAluShift(t *testing.T) {
	assert := assert.New(t)

	alu := NewAlu(memory.NewCells())

	table := [](struct {
		op    Op
		value int
		res   int
		flags Flags
	}){
		{OP_SHL, 64, -128, Flags{N: true, V: true}},
		{OP_SHL, 1, 2, Flags{}},
		{OP_SHL, -128, 0, Flags{Z: true, V: true, C: true}},
		{OP_SHL, -1, -2, Flags{N: true, C: true}},
		{OP_SHR, -2, -1, Flags{N: true}},
		{OP_SHR, -1, -1, Flags{N: true, C: true}},
		{OP_SHR, 1, 0, Flags{Z: true, C: true}},
		{OP_SHR, 100, 50, Flags{}},
		{OP_SHR, -128, -64, Flags{N: true}},
	}

	for _, entry := range table {
		res, err := alu.Execute(entry.op, entry.value, 0)
		assert.NoError(err)
		assert.Equal(entry.res, res.Value, "%v %d", entry.op, entry.value)
		assert.Equal(entry.flags, res.Flags, "%v %d", entry.op, entry.value)
	}
}

func TestAluInvalid(t *testing.T) {
	assert := assert.New(t)

	alu := NewAlu(memory.NewCells())
	_, err := alu.Execute(Op(42), 1, 2)
	assert.ErrorIs(err, ErrOpInvalid)
	assert.Equal("Op(42)", Op(42).String())
	assert.Equal("shr", OP_SHR.String())
}

func TestAluRippleCells(t *testing.T) {
	assert := assert.New(t)

	journal := &memory.Journal{Store: memory.NewCells()}
	alu := NewAlu(journal)

	alu.Load(alu.Src1, 1)
	alu.Load(alu.Src2, 1)
	journal.Clear()

	carry := alu.Add8()
	assert.Equal(0, carry)

	values := func(writes []memory.Write) (out []int) {
		for _, w := range writes {
			out = append(out, w.Value)
		}
		return
	}

	assert.Equal([]int{0, 1, 0, 0, 0, 0, 0, 0}, values(journal.Matching(memory.CELL_CIN)))
	assert.Equal([]int{0, 1, 0, 0, 0, 0, 0, 0}, values(journal.Matching(memory.CELL_SUM)))
	assert.Equal([]int{1, 0, 0, 0, 0, 0, 0, 0}, values(journal.Matching(memory.CELL_COUT)))
	assert.Equal([]int{0, 1, 0, 0, 0, 0, 0, 0}, values(journal.Matching(memory.GROUP_RES)))

	// Every RES bit is written after the SUM cell of the same step.
	var sum int
	for _, w := range journal.Writes {
		switch w.Name {
		case memory.CELL_SUM:
			sum = w.Value
		case memory.Bit(memory.GROUP_RES, 0), memory.Bit(memory.GROUP_RES, 1):
			assert.Equal(sum, w.Value, w.Name)
		}
	}
	assert.Equal(2, alu.Value(alu.Res))
}

func TestAluLoadOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockStore(ctrl)

	gomock.InOrder(
		store.EXPECT().Set("SRC1[0]", 1),
		store.EXPECT().Set("SRC1[1]", 0),
		store.EXPECT().Set("SRC1[2]", 1),
		store.EXPECT().Set("SRC1[3]", 0),
		store.EXPECT().Set("SRC1[4]", 0),
		store.EXPECT().Set("SRC1[5]", 0),
		store.EXPECT().Set("SRC1[6]", 0),
		store.EXPECT().Set("SRC1[7]", 0),
	)

	alu := NewAlu(store)
	alu.Load(memory.GROUP_SRC1, 5)
}

func TestAluPack(t *testing.T) {
	assert := assert.New(t)

	ctrl := gomock.NewController(t)
	store := NewMockStore(ctrl)

	// 0xfd is -3
	bits := []int{1, 0, 1, 1, 1, 1, 1, 1}
	for n, b := range bits {
		store.EXPECT().Get(memory.Bit(memory.GROUP_RES, n)).Return(b)
	}
	store.EXPECT().Set("a", -3)

	alu := NewAlu(store)
	assert.Equal(-3, alu.Pack("a"))
}

func TestAluCopyClear(t *testing.T) {
	assert := assert.New(t)

	alu := NewAlu(memory.NewCells())

	alu.Load(alu.Src1, -77)
	alu.Copy(alu.Res, alu.Src1)
	assert.Equal(-77, alu.Value(alu.Res))

	alu.Memory.Set("z", 99)
	alu.Unpack(alu.Src2, "z")
	assert.Equal(99, alu.Value(alu.Src2))

	alu.Clear(alu.Src2)
	assert.Equal(0, alu.Value(alu.Src2))
}

func TestFlagsStore(t *testing.T) {
	assert := assert.New(t)

	cells := memory.NewCells()
	fl := Flags{Z: true, C: true}
	fl.Store(cells)

	assert.Equal(1, cells.Get(memory.FLAG_Z))
	assert.Equal(0, cells.Get(memory.FLAG_N))
	assert.Equal(0, cells.Get(memory.FLAG_V))
	assert.Equal(1, cells.Get(memory.FLAG_C))
	assert.Equal(fl, LoadFlags(cells))
	assert.Equal("Z:1 N:0 V:0 C:1", fl.String())
}
