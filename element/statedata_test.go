package element

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func cubicBox(length float64) [3][3]float64 {
	return [3][3]float64{
		{length, 0, 0},
		{0, length, 0},
		{0, 0, length},
	}
}

var _ = Describe("StateData", func() {
	It("should validate matching array sizes", func() {
		d := NewStateData(
			[]Vec3{{0, 0, 0}, {1, 0, 0}},
			[]Vec3{{0, 0, 0}},
			[]float64{1, 1},
			cubicBox(2),
		)

		Expect(d.Setup()).To(HaveOccurred())
	})

	It("should reject a degenerate box", func() {
		d := NewStateData(
			[]Vec3{{0, 0, 0}},
			[]Vec3{{0, 0, 0}},
			[]float64{1},
			[3][3]float64{},
		)

		Expect(d.Setup()).To(HaveOccurred())
	})

	It("should compute the kinetic energy", func() {
		d := NewStateData(
			[]Vec3{{0, 0, 0}, {1, 1, 1}},
			[]Vec3{{1, 0, 0}, {0, 2, 0}},
			[]float64{2, 1},
			cubicBox(2),
		)

		// 0.5*2*1 + 0.5*1*4
		Expect(d.KineticEnergy()).To(BeNumerically("~", 3.0, 1e-12))
	})

	It("should scale the box and the positions together", func() {
		d := NewStateData(
			[]Vec3{{1, 2, 3}},
			[]Vec3{{0, 0, 0}},
			[]float64{1},
			cubicBox(2),
		)

		d.ScaleBox(2)

		Expect(d.Volume()).To(BeNumerically("~", 64.0, 1e-12))
		Expect(d.Positions()[0]).To(Equal(Vec3{2, 4, 6}))
	})

	It("should restore itself from a serialized state", func() {
		d := NewStateData(
			[]Vec3{{1, 2, 3}},
			[]Vec3{{4, 5, 6}},
			[]float64{1},
			cubicBox(2),
		)

		serialized, err := d.Serialize()
		Expect(err).ToNot(HaveOccurred())

		restored := NewStateData(
			make([]Vec3, 1),
			make([]Vec3, 1),
			[]float64{1},
			cubicBox(1),
		)
		Expect(restored.Deserialize(serialized)).To(Succeed())

		Expect(restored.Positions()[0]).To(Equal(Vec3{1, 2, 3}))
		Expect(restored.Velocities()[0]).To(Equal(Vec3{4, 5, 6}))
		Expect(restored.Volume()).To(BeNumerically("~", 8.0, 1e-12))
	})
})

var _ = Describe("VerletList", func() {
	It("should find all pairs within the cutoff", func() {
		l := &VerletList{Cutoff: 1.5}

		Expect(l.RebuildPairList([]Vec3{
			{0, 0, 0},
			{1, 0, 0},
			{5, 5, 5},
		})).To(Succeed())

		Expect(l.Pairs()).To(Equal([][2]int{{0, 1}}))
	})
})
