package auditlog_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"expense-approval/internal/auditlog"
)

func TestAuditLog(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "AuditLog Suite")
}

var _ = Describe("AuditLog factories", func() {
	const (
		expenseID = "1a2b0001-aaaa-4aaa-8aaa-aaaaaaaaaaaa"
		userID    = "1a2b0002-bbbb-4bbb-8bbb-bbbbbbbbbbbb"
	)

	It("should record creation with only the new status", func() {
		log := auditlog.NewCreated(expenseID, userID, "draft")

		Expect(log.Action).To(Equal(auditlog.ActionCreated))
		Expect(log.PreviousStatus).To(BeNil())
		Expect(*log.NewStatus).To(Equal("draft"))
		Expect(log.ID).ToNot(BeEmpty())
	})

	It("should record transitions with both statuses", func() {
		log := auditlog.NewSubmitted(expenseID, userID, "draft", "submitted")

		Expect(*log.PreviousStatus).To(Equal("draft"))
		Expect(*log.NewStatus).To(Equal("submitted"))
	})

	It("should record the rejection reason in the details", func() {
		log := auditlog.NewRejected(expenseID, userID, "submitted", "rejected", "duplicate claim")

		Expect(*log.Details).To(Equal("reason: duplicate claim"))
	})

	It("should record attachment changes with the url", func() {
		added := auditlog.NewAttachmentAdded(expenseID, userID, "https://receipts.local/a.pdf")
		removed := auditlog.NewAttachmentRemoved(expenseID, userID, "https://receipts.local/a.pdf")

		Expect(*added.Details).To(Equal("attachment: https://receipts.local/a.pdf"))
		Expect(removed.Action).To(Equal(auditlog.ActionAttachmentRemoved))
	})

	It("should round-trip through the data model", func() {
		log := auditlog.NewApproved(expenseID, userID, "submitted", "approved")

		back := auditlog.FromDataModel(auditlog.ToDataModel(log))

		Expect(back).To(Equal(log))
	})
})
