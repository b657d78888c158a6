package ledger

import (
	"fmt"

	"github.com/magabrotheeeer/job-marketplace/internal/lib/apperrors"
	"github.com/magabrotheeeer/job-marketplace/internal/models"
)

// Operation — действие, право на которое проверяет CanPerform.
type Operation string

const (
	OpJobCreate Operation = "job.create"
	OpJobUpdate Operation = "job.update"
	OpJobDelete Operation = "job.delete"

	OpApplicationSubmit      Operation = "application.submit"
	OpApplicationDecide      Operation = "application.decide"
	OpApplicationWithdraw    Operation = "application.withdraw"
	OpApplicationListForJob  Operation = "application.list_for_job"
	OpApplicationListForUser Operation = "application.list_for_worker"

	OpHireCreate   Operation = "hire.create"
	OpHireDecide   Operation = "hire.decide"
	OpHireProgress Operation = "hire.progress"
	OpHireView     Operation = "hire.view"
	OpHireFavorite Operation = "hire.favorite"

	OpHireListSent      Operation = "hire.list_sent"
	OpHireListReceived  Operation = "hire.list_received"
	OpHireListFavorites Operation = "hire.list_favorites"

	OpPaymentRequestCreate   Operation = "payment_request.create"
	OpPaymentRequestDecide   Operation = "payment_request.decide"
	OpPaymentRequestPay      Operation = "payment_request.pay"
	OpPaymentRequestMarkPaid Operation = "payment_request.mark_paid"

	OpPaymentVerify  Operation = "payment.verify"
	OpPaymentHistory Operation = "payment.history"

	OpSubscribe                Operation = "subscription.initiate"
	OpSubscriptionPaymentsList Operation = "subscription.list_all"
	OpSubscriptionPaymentsOwn  Operation = "subscription.list_own"

	OpProfileWrite       Operation = "profile.write"
	OpClientProfileWrite Operation = "client_profile.write"
	OpClientProfileRead  Operation = "client_profile.read"
	OpReviewWrite        Operation = "review.write"

	OpActorList   Operation = "actor.list"
	OpActorDelete Operation = "actor.delete"
)

// Target описывает участников сущности, над которой выполняется операция.
// ClientID — клиентская сторона (владелец вакансии, автор заявки),
// WorkerID — сторона исполнителя, PayerID — плательщик транзакции.
type Target struct {
	ClientID string
	WorkerID string
	PayerID  string
}

type rule func(p models.Principal, t Target) bool

func hasRole(roles ...models.Role) rule {
	return func(p models.Principal, _ Target) bool {
		for _, r := range roles {
			if p.Role == r {
				return true
			}
		}
		return false
	}
}

func isClientOwner(p models.Principal, t Target) bool {
	return p.Role == models.RoleClient && p.ID != "" && p.ID == t.ClientID
}

func isWorkerOwner(p models.Principal, t Target) bool {
	return p.Role == models.RoleWorker && p.ID != "" && p.ID == t.WorkerID
}

func isPayer(p models.Principal, t Target) bool {
	return (p.Role == models.RoleClient || p.Role == models.RoleWorker) && p.ID != "" && p.ID == t.PayerID
}

func isParticipant(p models.Principal, t Target) bool {
	return isClientOwner(p, t) || isWorkerOwner(p, t)
}

func anyOf(rules ...rule) rule {
	return func(p models.Principal, t Target) bool {
		for _, r := range rules {
			if r(p, t) {
				return true
			}
		}
		return false
	}
}

var rules = map[Operation]rule{
	OpJobCreate: hasRole(models.RoleClient),
	OpJobUpdate: isClientOwner,
	OpJobDelete: isClientOwner,

	OpApplicationSubmit:      isWorkerOwner,
	OpApplicationDecide:      isClientOwner,
	OpApplicationWithdraw:    isWorkerOwner,
	OpApplicationListForJob:  anyOf(isClientOwner, hasRole(models.RoleAdmin)),
	OpApplicationListForUser: anyOf(isWorkerOwner, hasRole(models.RoleAdmin)),

	OpHireCreate:   isClientOwner,
	OpHireDecide:   isWorkerOwner,
	OpHireProgress: isClientOwner,
	OpHireView:     anyOf(isParticipant, hasRole(models.RoleAdmin)),
	OpHireFavorite: isParticipant,

	OpHireListSent:      isClientOwner,
	OpHireListReceived:  isWorkerOwner,
	OpHireListFavorites: hasRole(models.RoleClient, models.RoleWorker),

	OpPaymentRequestCreate:   isWorkerOwner,
	OpPaymentRequestDecide:   isClientOwner,
	OpPaymentRequestPay:      isClientOwner,
	OpPaymentRequestMarkPaid: hasRole(models.RoleSystem),

	OpPaymentVerify:  anyOf(isPayer, hasRole(models.RoleAdmin)),
	OpPaymentHistory: isWorkerOwner,

	OpSubscribe:                hasRole(models.RoleClient, models.RoleWorker),
	OpSubscriptionPaymentsList: hasRole(models.RoleAdmin),
	OpSubscriptionPaymentsOwn:  hasRole(models.RoleClient, models.RoleWorker, models.RoleAdmin),

	OpProfileWrite:       isWorkerOwner,
	OpClientProfileWrite: isClientOwner,
	OpClientProfileRead:  hasRole(models.RoleClient, models.RoleWorker, models.RoleAdmin),
	OpReviewWrite:        isClientOwner,

	OpActorList:   hasRole(models.RoleAdmin),
	OpActorDelete: hasRole(models.RoleAdmin),
}

// CanPerform сообщает, может ли участник выполнить операцию над целью.
// Неизвестные операции запрещены.
func CanPerform(p models.Principal, op Operation, t Target) bool {
	r, ok := rules[op]
	if !ok {
		return false
	}
	return r(p, t)
}

// Authorize возвращает Unauthorized, если CanPerform ложно.
func Authorize(p models.Principal, op Operation, t Target) error {
	if CanPerform(p, op, t) {
		return nil
	}
	return apperrors.Unauthorized(fmt.Sprintf("%s is not permitted for this actor", op))
}
