// Package ledger реализует общий примитив смены статусов для откликов,
// заявок на найм, запросов оплаты и платёжных транзакций.
//
// Machine хранит для каждого целевого статуса множество допустимых
// предыдущих статусов. CanPerform — единый предикат авторизации, к которому
// обращается каждый метод рабочих процессов. Атомарность применения
// перехода обеспечивает хранилище: запись выполняется с проверкой версии.
package ledger

import (
	"fmt"
	"slices"

	"github.com/magabrotheeeer/job-marketplace/internal/lib/apperrors"
	"github.com/magabrotheeeer/job-marketplace/internal/models"
)

// Machine — таблица допустимых переходов для одной сущности.
type Machine[S ~string] struct {
	entity string
	edges  map[S][]S
}

// NewMachine создаёт таблицу переходов. edges: целевой статус -> допустимые предшественники.
func NewMachine[S ~string](entity string, edges map[S][]S) *Machine[S] {
	return &Machine[S]{entity: entity, edges: edges}
}

// Entity возвращает имя сущности, используемое в метриках и сообщениях.
func (m *Machine[S]) Entity() string {
	return m.entity
}

// Check проверяет, разрешён ли переход from -> to.
func (m *Machine[S]) Check(from, to S) error {
	if slices.Contains(m.edges[to], from) {
		return nil
	}
	return apperrors.InvalidTransition(
		fmt.Sprintf("%s cannot move from %q to %q", m.entity, from, to),
	)
}

// Transition проверяет право участника на операцию и допустимость перехода.
// Авторизация проверяется первой, чтобы не раскрывать состояние чужих сущностей.
func Transition[S ~string](m *Machine[S], p models.Principal, op Operation, t Target, current, to S) error {
	if err := Authorize(p, op, t); err != nil {
		return err
	}
	return m.Check(current, to)
}

var (
	// Applications — отклики на вакансии. Клиент может пересмотреть решение.
	Applications = NewMachine("application", map[models.ApplicationStatus][]models.ApplicationStatus{
		models.ApplicationAccepted: {models.ApplicationApplied, models.ApplicationRejected},
		models.ApplicationRejected: {models.ApplicationApplied, models.ApplicationAccepted},
	})

	// HireStatuses — решение исполнителя по заявке. После принятия отказ невозможен.
	HireStatuses = NewMachine("hire_request", map[models.HireStatus][]models.HireStatus{
		models.HireAccepted: {models.HirePending, models.HireRejected},
		models.HireRejected: {models.HirePending},
	})

	// HireProgress — ход работ по принятой заявке.
	HireProgress = NewMachine("hire_progress", map[models.Progress][]models.Progress{
		models.ProgressDone:    {models.ProgressOngoing},
		models.ProgressOngoing: {models.ProgressDone},
	})

	// PaymentRequests — запросы оплаты. paid достижим только из accepted.
	PaymentRequests = NewMachine("payment_request", map[models.PaymentRequestStatus][]models.PaymentRequestStatus{
		models.PaymentRequestAccepted: {models.PaymentRequestPending, models.PaymentRequestRejected},
		models.PaymentRequestRejected: {models.PaymentRequestPending, models.PaymentRequestAccepted},
		models.PaymentRequestPaid:     {models.PaymentRequestAccepted},
	})

	// Transactions — платёжные транзакции шлюза, окончательные статусы не меняются.
	Transactions = NewMachine("payment_transaction", map[models.TransactionStatus][]models.TransactionStatus{
		models.TransactionSuccess: {models.TransactionPending},
		models.TransactionFailed:  {models.TransactionPending},
	})
)
