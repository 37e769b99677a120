package report_test

import (
	"time"

	"github.com/frahmantamala/mediscript/internal/report"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Export", func() {
	var (
		s  *report.Session
		at time.Time
	)

	BeforeEach(func() {
		s = openJane()
		at = time.Date(2024, 3, 7, 14, 5, 0, 0, time.UTC)
	})

	It("renders the content with a placeholder signature", func() {
		doc, err := s.Export(at)
		Expect(err).NotTo(HaveOccurred())
		Expect(doc).To(ContainSubstring("<h1>Medical Report: Jane Smith</h1>"))
		Expect(doc).To(ContainSubstring("Digital Signature Placeholder"))
		Expect(doc).To(ContainSubstring("Dr. X"))
		Expect(doc).To(ContainSubstring("Medical Signature"))
		Expect(doc).To(ContainSubstring("3/7/2024 14:05"))
		Expect(doc).NotTo(ContainSubstring("<button"))
		Expect(doc).NotTo(ContainSubstring("<script"))
	})

	It("falls back to a generic signer name", func() {
		empty := ""
		Expect(s.SetSignature(&empty, nil)).To(Succeed())
		doc, err := s.Export(at)
		Expect(err).NotTo(HaveOccurred())
		Expect(doc).To(ContainSubstring("Authorized Clinician"))
	})

	It("embeds the signature image", func() {
		img := "data:image/png;base64,iVBORw0KGgo="
		Expect(s.SetSignature(nil, &img)).To(Succeed())
		doc, err := s.Export(at)
		Expect(err).NotTo(HaveOccurred())
		Expect(doc).To(ContainSubstring(`<img src="data:image/png;base64,iVBORw0KGgo="`))
		Expect(doc).NotTo(ContainSubstring("Digital Signature Placeholder"))
	})

	It("escapes the signer name", func() {
		name := "<b>Dr. Evil</b>"
		Expect(s.SetSignature(&name, nil)).To(Succeed())
		doc, err := s.Export(at)
		Expect(err).NotTo(HaveOccurred())
		Expect(doc).To(ContainSubstring("&lt;b&gt;Dr. Evil&lt;/b&gt;"))
	})

	It("does not record a version", func() {
		_, err := s.Export(at)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Versions()).To(HaveLen(1))
	})
})
