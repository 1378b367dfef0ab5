package occupancygrid

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Spec", func() {
	It("should accept the defaults", func() {
		s := Defaults()

		Expect(s.Validate()).To(Succeed())
		Expect(s.GridWidth()).To(Equal(uint64(16)))
		Expect(s.GridHeight()).To(Equal(uint64(16)))
		Expect(s.NumCells()).To(Equal(uint64(256)))
	})

	DescribeTable("should reject invalid configurations",
		func(s Spec) {
			Expect(s.Validate()).NotTo(Succeed())
		},
		Entry("address too narrow", Spec{4, 4, 8, 7}),
		Entry("negative width", Spec{-1, 4, 8, 8}),
		Entry("zero data width", Spec{4, 4, 0, 8}),
		Entry("data too wide", Spec{4, 4, 65, 8}),
		Entry("address too wide", Spec{20, 21, 8, 41}),
	)

	It("should allow a wider address than the grid needs", func() {
		Expect(Spec{2, 3, 1, 8}.Validate()).To(Succeed())
	})

	Context("address encoding", func() {
		s := Defaults()

		DescribeTable("should encode in row-major order",
			func(x, y, addr uint64) {
				Expect(s.EncodeAddress(x, y)).To(Equal(addr))

				dx, dy := s.DecodeAddress(addr)
				Expect(dx).To(Equal(x))
				Expect(dy).To(Equal(y))
			},
			Entry("origin", uint64(0), uint64(0), uint64(0)),
			Entry("first row", uint64(5), uint64(0), uint64(5)),
			Entry("diagonal", uint64(1), uint64(1), uint64(17)),
			Entry("last cell", uint64(15), uint64(15), uint64(255)),
		)

		It("should be injective over the grid", func() {
			seen := make(map[uint64]bool)

			for y := uint64(0); y < s.GridHeight(); y++ {
				for x := uint64(0); x < s.GridWidth(); x++ {
					addr := s.EncodeAddress(x, y)
					Expect(seen).NotTo(HaveKey(addr))
					Expect(addr).To(BeNumerically("<", s.NumCells()))
					seen[addr] = true
				}
			}
		})

		It("should truncate out-of-range coordinates", func() {
			Expect(s.EncodeAddress(17, 0)).To(Equal(s.EncodeAddress(1, 0)))
			Expect(s.EncodeAddress(0, 18)).To(Equal(s.EncodeAddress(0, 2)))
		})

		It("should handle grids that are not square", func() {
			s := Spec{GridWidthLog2: 3, GridHeightLog2: 1, DataWidth: 1, AddrWidth: 4}

			Expect(s.EncodeAddress(7, 1)).To(Equal(uint64(15)))

			x, y := s.DecodeAddress(12)
			Expect(x).To(Equal(uint64(4)))
			Expect(y).To(Equal(uint64(1)))
		})
	})
})
