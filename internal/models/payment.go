package models

type CheckoutRequest struct {
	PackageID  uint   `json:"package_id" validate:"required"`
	SuccessURL string `json:"success_url" validate:"required,url"`
	CancelURL  string `json:"cancel_url" validate:"required,url"`
}

type CheckoutSession struct {
	ID  string `json:"session_id"`
	URL string `json:"checkout_url"`
}
