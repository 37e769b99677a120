package report_test

import (
	"errors"

	"github.com/frahmantamala/mediscript/internal"
	"github.com/frahmantamala/mediscript/internal/report"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ApplyFormatting", func() {
	var s *report.Session

	BeforeEach(func() {
		s = openJane()
		Expect(s.Edit("<p>Patient is stable.</p><p>Plan: rest</p>")).To(Succeed())
	})

	invalidRange := func(err error) bool {
		appErr, ok := internal.IsAppError(err)
		return ok && appErr.Code == internal.ErrCodeInvalidRange
	}

	DescribeTable("wraps a text range",
		func(style report.FormatStyle, want string) {
			// "stable" sits at bytes 14..20
			Expect(s.ApplyFormatting(14, 20, style)).To(Succeed())
			Expect(s.Content()).To(Equal(want))
		},
		Entry("bold", report.FormatBold, "<p>Patient is <strong>stable</strong>.</p><p>Plan: rest</p>"),
		Entry("italic", report.FormatItalic, "<p>Patient is <em>stable</em>.</p><p>Plan: rest</p>"),
		Entry("bullet", report.FormatBullet, "<p>Patient is <ul><li>stable</li></ul>.</p><p>Plan: rest</p>"),
	)

	It("accepts a selection of whole elements", func() {
		Expect(s.ApplyFormatting(0, 25, report.FormatBold)).To(Succeed())
		Expect(s.Content()).To(HavePrefix("<strong><p>Patient is stable.</p></strong>"))
	})

	It("rejects empty and inverted ranges", func() {
		Expect(invalidRange(s.ApplyFormatting(5, 5, report.FormatBold))).To(BeTrue())
		Expect(invalidRange(s.ApplyFormatting(9, 5, report.FormatBold))).To(BeTrue())
	})

	It("rejects ranges outside the buffer", func() {
		Expect(invalidRange(s.ApplyFormatting(-1, 4, report.FormatBold))).To(BeTrue())
		Expect(invalidRange(s.ApplyFormatting(10, 1000, report.FormatBold))).To(BeTrue())
	})

	It("rejects offsets inside a tag", func() {
		Expect(invalidRange(s.ApplyFormatting(1, 10, report.FormatBold))).To(BeTrue())
	})

	It("rejects selections that close an element opened outside", func() {
		// "stable.</p><p>Plan"
		Expect(invalidRange(s.ApplyFormatting(14, 32, report.FormatBold))).To(BeTrue())
	})

	It("rejects unknown styles and leaves content alone", func() {
		err := s.ApplyFormatting(14, 20, "underline")
		Expect(err).To(HaveOccurred())
		Expect(s.Content()).To(Equal("<p>Patient is stable.</p><p>Plan: rest</p>"))
	})

	It("fails on a closed session", func() {
		s.Close()
		Expect(errors.Is(s.ApplyFormatting(14, 20, report.FormatBold), internal.ErrNoActiveSession)).To(BeTrue())
	})
})
