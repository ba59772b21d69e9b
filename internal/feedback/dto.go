package feedback

import "time"

// SubmitInput carries a feedback submission. Rating is optional, 1 to 5
// when present.
type SubmitInput struct {
	PhoneNumber string   `json:"phoneNumber" validate:"required"`
	Feedback    string   `json:"feedback" validate:"required,max=2000"`
	Rating      *float64 `json:"rating" validate:"omitempty,gte=1,lte=5"`
}

// FeedbackDTO is the admin list view with the resolved customer name, when
// the phone number matched a known account at submission time.
type FeedbackDTO struct {
	FeedbackID   int64     `json:"feedbackId"`
	PhoneNumber  string    `json:"phoneNumber"`
	Feedback     string    `json:"feedback"`
	Rating       *float64  `json:"rating"`
	CustomerID   *int64    `json:"customerId"`
	CustomerName *string   `json:"customerName"`
	CreatedAt    time.Time `json:"createdAt"`
}
