package report_test

import (
	"errors"
	"time"

	"github.com/frahmantamala/mediscript/internal"
	"github.com/frahmantamala/mediscript/internal/report"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Ledger", func() {
	var l *report.Ledger

	BeforeEach(func() {
		// a frozen clock makes insertion order the only tie breaker
		frozen := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		l = report.NewLedger(func() time.Time { return frozen })
	})

	It("prepends snapshots so the latest insert comes first on ties", func() {
		a := l.Snapshot("a", "Dr. X")
		b := l.Snapshot("b", "Dr. X")

		versions := l.Versions()
		Expect(versions).To(HaveLen(2))
		Expect(versions[0].ID).To(Equal(b.ID))
		Expect(versions[1].ID).To(Equal(a.ID))
		Expect(a.ID).NotTo(Equal(b.ID))

		latest, ok := l.Latest()
		Expect(ok).To(BeTrue())
		Expect(latest.ID).To(Equal(b.ID))
	})

	It("returns stored content on revert and keeps its length", func() {
		a := l.Snapshot("a", "Dr. X")
		l.Snapshot("b", "Dr. X")

		content, err := l.Revert(a.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(content).To(Equal("a"))
		Expect(l.Len()).To(Equal(2))
	})

	It("fails for unknown versions", func() {
		_, err := l.Revert("nope")
		Expect(errors.Is(err, internal.ErrVersionNotFound)).To(BeTrue())
	})

	It("has no latest version when empty", func() {
		_, ok := l.Latest()
		Expect(ok).To(BeFalse())
	})
})
