package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/job-marketplace/internal/lib/apperrors"
	"github.com/magabrotheeeer/job-marketplace/internal/models"
)

func TestPaymentRequestEdges(t *testing.T) {
	tests := []struct {
		name    string
		from    models.PaymentRequestStatus
		to      models.PaymentRequestStatus
		allowed bool
	}{
		{"pending to accepted", models.PaymentRequestPending, models.PaymentRequestAccepted, true},
		{"pending to rejected", models.PaymentRequestPending, models.PaymentRequestRejected, true},
		{"re-accept after reject", models.PaymentRequestRejected, models.PaymentRequestAccepted, true},
		{"reject after accept", models.PaymentRequestAccepted, models.PaymentRequestRejected, true},
		{"accepted to paid", models.PaymentRequestAccepted, models.PaymentRequestPaid, true},
		{"pending to paid", models.PaymentRequestPending, models.PaymentRequestPaid, false},
		{"rejected to paid", models.PaymentRequestRejected, models.PaymentRequestPaid, false},
		{"paid to rejected", models.PaymentRequestPaid, models.PaymentRequestRejected, false},
		{"accepted to accepted", models.PaymentRequestAccepted, models.PaymentRequestAccepted, false},
		{"back to pending", models.PaymentRequestAccepted, models.PaymentRequestPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := PaymentRequests.Check(tt.from, tt.to)
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperrors.Is(err, apperrors.KindInvalidTransition))
		})
	}
}

func TestHireEdges(t *testing.T) {
	assert.NoError(t, HireStatuses.Check(models.HirePending, models.HireAccepted))
	assert.NoError(t, HireStatuses.Check(models.HireRejected, models.HireAccepted))
	assert.Error(t, HireStatuses.Check(models.HireAccepted, models.HireRejected))

	assert.NoError(t, HireProgress.Check(models.ProgressOngoing, models.ProgressDone))
	assert.NoError(t, HireProgress.Check(models.ProgressDone, models.ProgressOngoing))
	assert.Error(t, HireProgress.Check(models.ProgressDone, models.ProgressDone))
}

func TestTransactionsAreTerminal(t *testing.T) {
	assert.NoError(t, Transactions.Check(models.TransactionPending, models.TransactionSuccess))
	assert.NoError(t, Transactions.Check(models.TransactionPending, models.TransactionFailed))
	assert.Error(t, Transactions.Check(models.TransactionSuccess, models.TransactionFailed))
	assert.Error(t, Transactions.Check(models.TransactionFailed, models.TransactionSuccess))
}

func TestTransitionChecksAuthorizationFirst(t *testing.T) {
	owner := models.Principal{ID: "client-1", Role: models.RoleClient}
	stranger := models.Principal{ID: "client-2", Role: models.RoleClient}
	target := Target{ClientID: "client-1", WorkerID: "worker-1"}

	err := Transition(Applications, stranger, OpApplicationDecide, target,
		models.ApplicationAccepted, models.ApplicationAccepted)
	assert.True(t, apperrors.Is(err, apperrors.KindUnauthorized))

	err = Transition(Applications, owner, OpApplicationDecide, target,
		models.ApplicationAccepted, models.ApplicationAccepted)
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidTransition))

	err = Transition(Applications, owner, OpApplicationDecide, target,
		models.ApplicationApplied, models.ApplicationAccepted)
	assert.NoError(t, err)
}
