package models

type PaymentConfirmationHTML struct {
	SubmissionID string
	Amount       float64
	Currency     string
}

type PasswordRecoverHTML struct {
	Firstname string
	Lastname  string
	URL       string
}
