package paymentprovider

import "encoding/json"

// Customization — оформление страницы оплаты.
type Customization struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// InitializeRequest — запрос на создание платежа в шлюзе.
type InitializeRequest struct {
	Amount        string        `json:"amount"`
	Currency      string        `json:"currency"`
	Email         string        `json:"email"`
	FirstName     string        `json:"first_name"`
	TxRef         string        `json:"tx_ref"`
	CallbackURL   string        `json:"callback_url,omitempty"`
	ReturnURL     string        `json:"return_url,omitempty"`
	Customization Customization `json:"customization"`
}

// InitializeResponse — ответ шлюза на создание платежа.
type InitializeResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
	Data    struct {
		CheckoutURL string `json:"checkout_url"`
	} `json:"data"`
}

// VerifyResponse — ответ шлюза на проверку платежа.
type VerifyResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
	Data    struct {
		Status   string      `json:"status"`
		TxRef    string      `json:"tx_ref"`
		Currency string      `json:"currency"`
		Amount   json.Number `json:"amount"`
	} `json:"data"`
}

// VerifyResult — статус платежа по данным шлюза и исходный ответ.
type VerifyResult struct {
	Status string
	Raw    json.RawMessage
}

// WebhookPayload — уведомление шлюза о смене статуса платежа.
type WebhookPayload struct {
	TxRef  string `json:"tx_ref"`
	Status string `json:"status"`
	Event  string `json:"event,omitempty"`
}
