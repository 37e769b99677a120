package reporttemplate_test

import (
	"strings"
	"time"

	"github.com/frahmantamala/mediscript/internal/reporttemplate"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Resolve", func() {
	now := time.Date(2024, 3, 7, 10, 30, 0, 0, time.UTC)

	It("replaces every occurrence of both tokens", func() {
		body := "<p>[PATIENT_NAME]</p><p>[DATE]</p><p>[PATIENT_NAME] on [DATE]</p>"
		out := reporttemplate.Resolve(body, "Jane Smith", now)

		Expect(out).To(Equal("<p>Jane Smith</p><p>3/7/2024</p><p>Jane Smith on 3/7/2024</p>"))
		Expect(out).NotTo(ContainSubstring(reporttemplate.TokenPatientName))
		Expect(out).NotTo(ContainSubstring(reporttemplate.TokenDate))
	})

	It("leaves unknown tokens verbatim", func() {
		out := reporttemplate.Resolve("[DOCTOR] saw [PATIENT_NAME]", "John Doe", now)
		Expect(out).To(Equal("[DOCTOR] saw John Doe"))
	})

	It("returns token-free bodies unchanged", func() {
		body := "<h1>Radiology Report (Chest X-Ray)</h1>"
		Expect(reporttemplate.Resolve(body, "John Doe", now)).To(Equal(body))
	})

	It("leaves no tokens behind when the patient name carries one", func() {
		out := reporttemplate.Resolve("<p>[PATIENT_NAME]</p>", "Ann [DATE] Lee", now)
		Expect(out).To(Equal("<p>Ann 3/7/2024 Lee</p>"))
		Expect(out).NotTo(ContainSubstring(reporttemplate.TokenDate))
		Expect(out).NotTo(ContainSubstring(reporttemplate.TokenPatientName))
	})

	It("escapes markup in the patient name", func() {
		out := reporttemplate.Resolve("<p>[PATIENT_NAME]</p>", "<b>O'Neil</b>", now)
		Expect(out).To(Equal("<p>&lt;b&gt;O&#39;Neil&lt;/b&gt;</p>"))
	})

	It("honours a configured date layout", func() {
		r := reporttemplate.NewResolver("2006-01-02")
		Expect(r.Resolve("Date: [DATE]", "x", now)).To(Equal("Date: 2024-03-07"))
	})

	It("falls back to the short layout", func() {
		r := reporttemplate.NewResolver("")
		Expect(strings.HasSuffix(r.Resolve("[DATE]", "x", now), "/2024")).To(BeTrue())
	})
})

var _ = Describe("Category", func() {
	It("accepts only the three picker categories", func() {
		for _, c := range reporttemplate.Categories {
			Expect(c.Valid()).To(BeTrue())
		}
		Expect(reporttemplate.Category("Surgery").Valid()).To(BeFalse())
	})
})
