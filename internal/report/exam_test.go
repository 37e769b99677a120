package report_test

import (
	"strings"

	"github.com/frahmantamala/mediscript/internal/report"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ComposeExamEntry", func() {
	It("shows -- for empty vitals and omits empty sections", func() {
		out := report.ComposeExamEntry(report.ExamData{}, "3/7/2024")

		Expect(out).To(HavePrefix(`<div class="exam-entry"><h4>Examination Entry - 3/7/2024</h4>`))
		Expect(out).To(ContainSubstring("<strong>BP:</strong> -- mmHg"))
		Expect(out).To(ContainSubstring("<strong>HR:</strong> -- bpm"))
		Expect(out).To(ContainSubstring("<strong>Temp:</strong> -- °F"))
		Expect(out).To(ContainSubstring("<strong>SpO2:</strong> -- %"))
		Expect(out).To(ContainSubstring("<strong>Weight:</strong> -- kg"))
		Expect(out).To(ContainSubstring("<strong>Height:</strong> -- cm"))
		Expect(out).NotTo(ContainSubstring("Primary Diagnosis"))
		Expect(out).NotTo(ContainSubstring("Notes:"))
		Expect(out).To(HaveSuffix("<p><br/></p>"))
	})

	It("includes diagnosis and notes when present", func() {
		out := report.ComposeExamEntry(report.ExamData{
			Vitals:    report.Vitals{BloodPressure: "120/80", HeartRate: "72", SpO2: "98"},
			Diagnosis: "Hypertension",
			Notes:     "Follow up in 2 weeks",
		}, "3/7/2024")

		Expect(out).To(ContainSubstring("120/80 mmHg"))
		Expect(out).To(ContainSubstring("72 bpm"))
		Expect(out).To(ContainSubstring("98 %"))
		Expect(out).To(ContainSubstring("<strong>Primary Diagnosis:</strong> Hypertension"))
		Expect(out).To(ContainSubstring("<strong>Notes:</strong> Follow up in 2 weeks"))
	})

	It("treats whitespace-only text as empty", func() {
		out := report.ComposeExamEntry(report.ExamData{Diagnosis: "   ", Vitals: report.Vitals{Weight: " "}}, "d")
		Expect(out).NotTo(ContainSubstring("Primary Diagnosis"))
		Expect(out).To(ContainSubstring("-- kg"))
	})

	It("escapes user text", func() {
		out := report.ComposeExamEntry(report.ExamData{Notes: "<script>alert(1)</script>"}, "d")
		Expect(out).NotTo(ContainSubstring("<script>"))
		Expect(strings.Count(out, "&lt;script&gt;")).To(Equal(1))
	})
})
