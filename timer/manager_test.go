/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package timer_test

import (
	"time"

	"github/sabouaram/fibernet/timer"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Manager", func() {
	var m timer.Manager

	BeforeEach(func() {
		m = timer.New()
	})

	Context("ordering", func() {
		It("fires expired timers in deadline order", func() {
			var order []int

			_ = m.RegisterTimer(30*time.Millisecond, func() { order = append(order, 3) })
			_ = m.RegisterTimer(10*time.Millisecond, func() { order = append(order, 1) })
			_ = m.RegisterTimer(20*time.Millisecond, func() { order = append(order, 2) })

			fired := m.ProcessExpired(time.Now().Add(100 * time.Millisecond))
			Expect(fired).To(Equal(3))
			Expect(order).To(Equal([]int{1, 2, 3}))
		})

		It("does not fire timers whose deadline has not passed", func() {
			_ = m.RegisterTimer(time.Hour, func() {})

			fired := m.ProcessExpired(time.Now())
			Expect(fired).To(Equal(0))
		})
	})

	Context("Cancel", func() {
		It("is idempotent and prevents the callback from running", func() {
			ran := false
			tm := m.RegisterTimer(10*time.Millisecond, func() { ran = true })

			Expect(tm.Cancel()).To(BeNil())
			Expect(tm.Cancel()).ToNot(BeNil())
			Expect(tm.State()).To(Equal(timer.Canceled))

			m.ProcessExpired(time.Now().Add(time.Hour))
			Expect(ran).To(BeFalse())
		})
	})

	Context("conditional timers", func() {
		It("skips the callback when the witness reports the target is dead", func() {
			ran := false
			alive := false

			_ = m.RegisterConditionalTimer(time.Millisecond, func() { ran = true }, func() bool { return alive })

			m.ProcessExpired(time.Now().Add(time.Hour))
			Expect(ran).To(BeFalse())
		})

		It("runs the callback when the witness reports the target alive", func() {
			ran := false

			_ = m.RegisterConditionalTimer(time.Millisecond, func() { ran = true }, func() bool { return true })

			m.ProcessExpired(time.Now().Add(time.Hour))
			Expect(ran).To(BeTrue())
		})
	})

	Context("NextTimeout", func() {
		It("reports a negative duration when there are no pending timers", func() {
			Expect(m.NextTimeout(time.Now())).To(BeNumerically("<", 0))
		})

		It("reports the duration until the earliest deadline", func() {
			_ = m.RegisterTimer(50*time.Millisecond, func() {})
			_ = m.RegisterTimer(10*time.Millisecond, func() {})

			d := m.NextTimeout(time.Now())
			Expect(d).To(BeNumerically("<=", 10*time.Millisecond))
			Expect(d).To(BeNumerically(">", 0))
		})
	})

	Context("panicking callbacks", func() {
		It("does not propagate a panic out of ProcessExpired", func() {
			_ = m.RegisterTimer(time.Millisecond, func() { panic("boom") })

			Expect(func() {
				m.ProcessExpired(time.Now().Add(time.Hour))
			}).ToNot(Panic())
		})
	})

	Context("Stop", func() {
		It("cancels every pending timer and rejects further scheduling", func() {
			tm1 := m.RegisterTimer(time.Hour, func() {})
			m.Stop()

			Expect(tm1.State()).To(Equal(timer.Canceled))

			tm2 := m.RegisterTimer(time.Hour, func() {})
			Expect(tm2.State()).To(Equal(timer.Canceled))
		})
	})
})
