// Package models содержит доменные сущности маркетплейса: участников,
// вакансии, отклики, заявки на найм, запросы оплаты, платёжные транзакции
// и профили исполнителей. Структуры используются сервисами, хранилищем
// и HTTP-слоем.
package models

import "time"

// Role — роль участника системы.
type Role string

const (
	RoleClient Role = "client"
	RoleWorker Role = "worker"
	RoleAdmin  Role = "admin"
	// RoleSystem — внутренняя роль платёжного моста, не выдаётся пользователям.
	RoleSystem Role = "system"
)

// Actor представляет зарегистрированного участника.
type Actor struct {
	ID                string     `json:"id"`
	Role              Role       `json:"role"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	Phone             string     `json:"phone,omitempty"`
	Gender            string     `json:"gender,omitempty"`
	PasswordHash      string     `json:"-"`
	Verified          bool       `json:"verified"`
	IsSubscribed      bool       `json:"is_subscribed"`
	VerificationToken string     `json:"-"`
	ResetToken        string     `json:"-"`
	ResetTokenExpires *time.Time `json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
}

// Principal — аутентифицированный участник, от имени которого выполняется операция.
type Principal struct {
	ID   string
	Role Role
}

// SystemPrincipal используется платёжным мостом для переходов, которые
// не может инициировать пользователь.
var SystemPrincipal = Principal{ID: "system", Role: RoleSystem}

// ClientProfileUpdate — редактируемые поля клиента. Пустое поле не меняется.
type ClientProfileUpdate struct {
	Name   string
	Phone  string
	Gender string
}
