package bram

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/occugrid/sim"
)

var _ = Describe("Spec", func() {
	It("should accept the defaults", func() {
		Expect(Defaults().Validate()).To(Succeed())
		Expect(Defaults().Capacity()).To(Equal(uint64(256)))
	})

	It("should reject out-of-range widths", func() {
		Expect(Spec{AddrWidth: 0, DataWidth: 8}.Validate()).NotTo(Succeed())
		Expect(Spec{AddrWidth: 8, DataWidth: 0}.Validate()).NotTo(Succeed())
		Expect(Spec{AddrWidth: 8, DataWidth: 65}.Validate()).NotTo(Succeed())
		Expect(Spec{AddrWidth: 41, DataWidth: 8}.Validate()).NotTo(Succeed())
	})

	It("should build masks", func() {
		Expect(Mask(1)).To(Equal(uint64(1)))
		Expect(Mask(8)).To(Equal(uint64(0xff)))
		Expect(Mask(64)).To(Equal(^uint64(0)))
	})
})

var _ = Describe("BRAM", func() {
	var array *Comp

	write := func(addr, data uint64) {
		array.Edge(Inputs{Addr: addr, WriteEnable: true, WriteData: data})
	}

	read := func(addr uint64) uint64 {
		array.Edge(Inputs{Addr: addr})
		return array.ReadData()
	}

	BeforeEach(func() {
		array = MakeBuilder().
			WithAddrWidth(8).
			WithDataWidth(8).
			Build("Array")
	})

	It("should panic with an invalid spec", func() {
		Expect(func() {
			MakeBuilder().WithDataWidth(0).Build("Array")
		}).To(Panic())
	})

	It("should panic if the storage is too small", func() {
		Expect(func() {
			MakeBuilder().WithStorage(NewStorage(16)).Build("Array")
		}).To(Panic())
	})

	It("should read zero before anything is written", func() {
		Expect(read(0x42)).To(Equal(uint64(0)))
	})

	It("should read back what was written", func() {
		write(0x11, 0x5a)

		Expect(read(0x11)).To(Equal(uint64(0x5a)))
	})

	It("should register the read data on the edge", func() {
		write(0x11, 0x5a)
		array.In = Inputs{Addr: 0x11}

		Expect(array.ReadData()).To(Equal(uint64(0)))

		array.RisingEdge(1)

		Expect(array.ReadData()).To(Equal(uint64(0x5a)))
	})

	It("should return the old value when reading and writing the same address", func() {
		write(0x20, 1)

		array.Edge(Inputs{Addr: 0x20, WriteEnable: true, WriteData: 2})
		Expect(array.ReadData()).To(Equal(uint64(1)))

		Expect(read(0x20)).To(Equal(uint64(2)))
	})

	It("should not disturb other addresses", func() {
		for addr := uint64(0); addr < array.Capacity(); addr++ {
			write(addr, addr)
		}

		write(0x80, 0xff)

		for addr := uint64(0); addr < array.Capacity(); addr++ {
			if addr == 0x80 {
				continue
			}
			Expect(array.Peek(addr)).To(Equal(addr))
		}
	})

	It("should truncate wide addresses and data", func() {
		write(0x1_23, 0x4_56)

		Expect(array.Peek(0x23)).To(Equal(uint64(0x56)))
		Expect(read(0x7_23)).To(Equal(uint64(0x56)))
	})

	It("should support one-bit words", func() {
		array = MakeBuilder().WithAddrWidth(4).WithDataWidth(1).Build("Array")

		write(3, 3)

		Expect(read(3)).To(Equal(uint64(1)))
	})

	It("should match a reference model under random traffic", func() {
		rng := rand.New(rand.NewSource(7))
		model := make(map[uint64]uint64)

		for i := 0; i < 2000; i++ {
			addr := uint64(rng.Intn(256))
			in := Inputs{
				Addr:        addr,
				WriteEnable: rng.Intn(2) == 0,
				WriteData:   uint64(rng.Intn(256)),
			}

			old := model[addr]
			array.Edge(in)
			Expect(array.ReadData()).To(Equal(old))

			if in.WriteEnable {
				model[addr] = in.WriteData
			}
		}
	})

	It("should run on a clock", func() {
		clock := sim.NewClock("Clock", nil, 1*sim.GHz)
		clock.Register(array)

		array.In = Inputs{Addr: 5, WriteEnable: true, WriteData: 9}
		clock.Step()
		array.In = Inputs{Addr: 5}
		clock.Step()

		Expect(array.ReadData()).To(Equal(uint64(9)))
	})
})
