package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growth-assistant-go/internal/model"
	"growth-assistant-go/pkg/notify"
)

var adminVoucher = model.Voucher{
	Name:       "Salesforce Administrator Certification Voucher",
	Status:     "Available",
	ExpiryDate: "2026-04-30",
}

func TestSubmitVoucherRequest_Outcomes(t *testing.T) {
	tests := []struct {
		name    string
		status  notify.Status
		kind    OutcomeKind
		message string
	}{
		{
			name:    "delivered",
			status:  notify.Delivered,
			kind:    OutcomeDelivered,
			message: "Your request for <b>Salesforce Administrator Certification Voucher</b> (expires 2026-04-30) has been sent to your manager for approval.",
		},
		{
			name:    "logged",
			status:  notify.Logged,
			kind:    OutcomeLogged,
			message: "Your request for <b>Salesforce Administrator Certification Voucher</b> (expires 2026-04-30) has been recorded. The notification could not be sent right now, so it was logged for follow-up.",
		},
		{
			name:    "failed",
			status:  notify.Failed,
			kind:    OutcomeFailed,
			message: "Voucher found: <b>Salesforce Administrator Certification Voucher</b> (expires 2026-04-30). Request service unavailable, please try again later.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &fixedNotifier{status: tt.status}
			out := SubmitVoucherRequest(context.Background(), n, notify.VoucherNotification{
				EmployeeName:  "Ada",
				Certification: "administrator",
			}, []model.Voucher{adminVoucher})

			assert.Equal(t, tt.kind, out.Kind)
			assert.Equal(t, tt.message, out.Message)
			require.Len(t, n.got, 1)
			assert.Equal(t, adminVoucher.Name, n.got[0].Certification)
			assert.Equal(t, "2026-04-30", n.got[0].ExpiryDate)
		})
	}
}

func TestSubmitVoucherRequest_UnknownCertificationIsRejected(t *testing.T) {
	for _, status := range []notify.Status{notify.Delivered, notify.Logged, notify.Failed} {
		n := &fixedNotifier{status: status}
		out := SubmitVoucherRequest(context.Background(), n, notify.VoucherNotification{
			Certification: "Platform Developer <II>",
		}, []model.Voucher{adminVoucher})

		assert.Equal(t, OutcomeRejected, out.Kind)
		assert.Equal(t, "No voucher found for 'Platform Developer &lt;II&gt;'. Please check the certification name and try again.", out.Message)
		assert.Empty(t, n.got, "notifier must not be called for unknown certifications")
	}
}

func TestSubmitVoucherRequest_BlankCertificationIsRejected(t *testing.T) {
	n := &fixedNotifier{status: notify.Delivered}
	out := SubmitVoucherRequest(context.Background(), n, notify.VoucherNotification{Certification: "  "}, []model.Voucher{adminVoucher})
	assert.Equal(t, OutcomeRejected, out.Kind)
	assert.Empty(t, n.got)
}

func TestVoucherRequestService_SubmitRecordsTurnAndArchive(t *testing.T) {
	repo := newMemoryConversationRepo()
	requests := &memoryVoucherRequests{}
	n := &fixedNotifier{status: notify.Logged}
	svc := NewVoucherRequestService(
		staticCatalogs{&model.Catalog{Vouchers: []model.Voucher{adminVoucher}}},
		NewConversationService(repo), n, requests,
		model.Employee{ID: "005", Name: "Default Name"},
	)

	out, err := svc.Submit(context.Background(), "s1", "", "Salesforce Administrator")
	require.NoError(t, err)
	assert.Equal(t, OutcomeLogged, out.Kind)
	require.Len(t, n.got, 1)
	assert.Equal(t, "Default Name", n.got[0].EmployeeName)
	assert.Equal(t, "005", n.got[0].EmployeeID)
	assert.NotEmpty(t, n.got[0].RequestID)

	history := repo.sessions["s1"].ChatHistory
	require.Len(t, history, 1)
	assert.Equal(t, "Voucher request: Salesforce Administrator", history[0].Question)
	assert.Equal(t, out.Message, history[0].Answer)

	listed, err := svc.ListRequests(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "logged", listed[0].DeliveryStatus)
	assert.Equal(t, "2026-04-30", listed[0].ExpiryDate)
}

func TestVoucherRequestService_RejectedIsNotArchived(t *testing.T) {
	requests := &memoryVoucherRequests{}
	svc := NewVoucherRequestService(
		staticCatalogs{&model.Catalog{}},
		NewConversationService(newMemoryConversationRepo()),
		&fixedNotifier{status: notify.Delivered}, requests,
		model.Employee{ID: "005"},
	)

	out, err := svc.Submit(context.Background(), "s1", "Ada", "Administrator")
	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, out.Kind)
	assert.Empty(t, requests.entries)
}

func TestVoucherRequestService_ListWithoutArchive(t *testing.T) {
	svc := NewVoucherRequestService(staticCatalogs{&model.Catalog{}}, NewConversationService(newMemoryConversationRepo()),
		&fixedNotifier{}, nil, model.Employee{ID: "005"})

	listed, err := svc.ListRequests(context.Background())
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestVoucherRequestService_SubmitInvalidatesCatalog(t *testing.T) {
	for _, tt := range []struct {
		status notify.Status
		want   int
	}{
		{notify.Delivered, 1},
		{notify.Logged, 1},
		{notify.Failed, 0},
	} {
		catalogs := &countingCatalogs{staticCatalogs: staticCatalogs{&model.Catalog{Vouchers: []model.Voucher{adminVoucher}}}}
		svc := NewVoucherRequestService(catalogs, NewConversationService(newMemoryConversationRepo()),
			&fixedNotifier{status: tt.status}, &memoryVoucherRequests{}, model.Employee{ID: "005"})

		_, err := svc.Submit(context.Background(), "s1", "Ada", "Administrator")
		require.NoError(t, err)
		assert.Equal(t, tt.want, catalogs.invalidations, "status %v", tt.status)
	}

	catalogs := &countingCatalogs{staticCatalogs: staticCatalogs{&model.Catalog{}}}
	svc := NewVoucherRequestService(catalogs, NewConversationService(newMemoryConversationRepo()),
		&fixedNotifier{status: notify.Delivered}, nil, model.Employee{ID: "005"})
	_, err := svc.Submit(context.Background(), "s1", "Ada", "Administrator")
	require.NoError(t, err)
	assert.Zero(t, catalogs.invalidations, "rejected requests leave the cache alone")
}

func TestVoucherRequestService_SubmitClearsPendingFollowUp(t *testing.T) {
	repo := newMemoryConversationRepo()
	conversations := NewConversationService(repo)
	ctx := context.Background()

	s, err := conversations.Load(ctx, "s1")
	require.NoError(t, err)
	s.SetPending(model.PendingSkillLevel, "tell me about flow basics")
	require.NoError(t, conversations.Save(ctx, s))

	svc := NewVoucherRequestService(staticCatalogs{&model.Catalog{Vouchers: []model.Voucher{adminVoucher}}},
		conversations, &fixedNotifier{status: notify.Delivered}, nil, model.Employee{ID: "005"})
	_, err = svc.Submit(ctx, "s1", "Ada", "Administrator")
	require.NoError(t, err)

	saved := repo.sessions["s1"]
	assert.Equal(t, model.PendingNone, saved.Pending)
	assert.Empty(t, saved.PendingTopic)
}
