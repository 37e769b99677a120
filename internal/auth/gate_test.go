package auth

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Authorize", func() {
	ginkgo.It("denies anonymous callers", func() {
		gomega.Expect(Authorize(nil, ActionWriteReport)).To(gomega.BeFalse())
	})

	ginkgo.It("lets admins manage staff and templates regardless of their flags", func() {
		admin := &User{ID: 1, Role: RoleAdmin}
		gomega.Expect(Authorize(admin, ActionManageStaff)).To(gomega.BeTrue())
		gomega.Expect(Authorize(admin, ActionManageTemplates)).To(gomega.BeTrue())
	})

	ginkgo.It("does not let the admin role alone grant report writing", func() {
		admin := &User{ID: 1, Role: RoleAdmin}
		gomega.Expect(Authorize(admin, ActionWriteReport)).To(gomega.BeFalse())
		gomega.Expect(Authorize(admin, ActionManagePatients)).To(gomega.BeFalse())
	})

	ginkgo.It("denies a medic whose write permission was revoked", func() {
		medic := &User{ID: 2, Role: RoleMedic, Permissions: Permissions{CanManagePatients: true}}
		gomega.Expect(Authorize(medic, ActionWriteReport)).To(gomega.BeFalse())
	})

	ginkgo.It("allows a secretary granted template management", func() {
		secretary := &User{ID: 3, Role: RoleSecretary, Permissions: Permissions{CanManageTemplates: true}}
		gomega.Expect(Authorize(secretary, ActionManageTemplates)).To(gomega.BeTrue())
		gomega.Expect(Authorize(secretary, ActionManageStaff)).To(gomega.BeFalse())
	})

	ginkgo.It("denies unknown actions", func() {
		admin := &User{ID: 1, Role: RoleAdmin, Permissions: DefaultPermissions(RoleAdmin)}
		gomega.Expect(Authorize(admin, Action("delete-everything"))).To(gomega.BeFalse())
		gomega.Expect(Action("delete-everything").Valid()).To(gomega.BeFalse())
	})

	ginkgo.DescribeTable("default permissions by role",
		func(role Role, action Action, expected bool) {
			u := &User{Role: role, Permissions: DefaultPermissions(role)}
			gomega.Expect(Authorize(u, action)).To(gomega.Equal(expected))
		},
		ginkgo.Entry("medic writes reports", RoleMedic, ActionWriteReport, true),
		ginkgo.Entry("medic browses patients", RoleMedic, ActionManagePatients, true),
		ginkgo.Entry("medic cannot manage templates", RoleMedic, ActionManageTemplates, false),
		ginkgo.Entry("secretary cannot write reports", RoleSecretary, ActionWriteReport, false),
		ginkgo.Entry("secretary browses patients", RoleSecretary, ActionManagePatients, true),
		ginkgo.Entry("admin writes reports", RoleAdmin, ActionWriteReport, true),
	)
})

var _ = ginkgo.Describe("Navigation", func() {
	ginkgo.It("adds the admin panel for admins only", func() {
		gomega.Expect(Navigation(&User{Role: RoleAdmin})).To(gomega.ContainElement(NavAdminPanel))
		gomega.Expect(Navigation(&User{Role: RoleMedic, Permissions: DefaultPermissions(RoleAdmin)})).NotTo(gomega.ContainElement(NavAdminPanel))
	})
})
