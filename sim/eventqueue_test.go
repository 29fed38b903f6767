package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("wakeQueue", func() {
	var (
		q    *wakeQueue
		a, b *procEntry
	)

	BeforeEach(func() {
		q = newWakeQueue()
		a = &procEntry{order: 0}
		b = &procEntry{order: 1}
	})

	It("should pop in time order", func() {
		q.Push(5, a)
		q.Push(2, b)

		Expect(q.Len()).To(Equal(2))
		Expect(q.Peek().time).To(Equal(VTime(2)))
		Expect(q.Pop().entry).To(BeIdenticalTo(b))
		Expect(q.Pop().entry).To(BeIdenticalTo(a))
		Expect(q.Pop()).To(BeNil())
		Expect(q.Peek()).To(BeNil())
	})

	It("should keep insertion order within one time", func() {
		q.Push(3, b)
		q.Push(3, a)

		batch := q.PopAt(3)

		Expect(batch).To(HaveLen(2))
		Expect(batch[0].entry).To(BeIdenticalTo(b))
		Expect(batch[1].entry).To(BeIdenticalTo(a))
	})

	It("should only pop the events at the given time", func() {
		q.Push(1, a)
		q.Push(4, b)

		Expect(q.PopAt(4)).To(BeEmpty())
		Expect(q.PopAt(1)).To(HaveLen(1))
		Expect(q.Len()).To(Equal(1))
	})
})
