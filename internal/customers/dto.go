package customers

import (
	"time"

	"github.com/hengonghuat/cafe-backend/pkg/db/models"
	"github.com/hengonghuat/cafe-backend/pkg/money"
)

// RegisterInput carries a signup request.
type RegisterInput struct {
	CustomerName string `json:"customerName" validate:"required,min=2,max=60"`
	Email        string `json:"email" validate:"required,email"`
	PhoneNumber  string `json:"phoneNumber" validate:"required"`
	Password     string `json:"password" validate:"required,min=8"`
}

// LoginInput carries customer credentials.
type LoginInput struct {
	CustomerName string `json:"customerName" validate:"required"`
	Password     string `json:"password" validate:"required"`
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token       string `json:"token"`
	CustomerID  int64  `json:"customerId"`
	PhoneNumber string `json:"phoneNumber"`
}

// ProfileDTO is the customer-facing view of an account.
type ProfileDTO struct {
	CustomerID   int64  `json:"customerId"`
	CustomerName string `json:"customerName"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phoneNumber"`
	Points       int64  `json:"points"`
}

// ProfileUpdateInput carries a self-service profile update. NewPassword is
// optional; when present the stored hash is replaced.
type ProfileUpdateInput struct {
	CustomerName string `json:"customerName" validate:"required,min=2,max=60"`
	Email        string `json:"email" validate:"required,email"`
	PhoneNumber  string `json:"phoneNumber" validate:"required"`
	NewPassword  string `json:"newPassword" validate:"omitempty,min=8"`
}

// AdminUpdateInput is the reduced update surface exposed to staff.
type AdminUpdateInput struct {
	CustomerName string `json:"customerName" validate:"required,min=2,max=60"`
	PhoneNumber  string `json:"phoneNumber" validate:"required"`
}

// CRMEntry aggregates per-customer order and loyalty activity.
type CRMEntry struct {
	CustomerID         int64  `json:"customerId"`
	CustomerName       string `json:"customerName"`
	PhoneNumber        string `json:"phoneNumber"`
	Points             int64  `json:"points"`
	TotalOrders        int64  `json:"totalOrders"`
	TotalSpent         string `json:"totalSpent"`
	DiscountsAvailable int64  `json:"discountsAvailable"`
}

// TopCustomerDTO ranks customers by points.
type TopCustomerDTO struct {
	CustomerName string `json:"customerName"`
	PhoneNumber  string `json:"phoneNumber"`
	Points       int64  `json:"points"`
}

// ActiveDay counts distinct ordering customers on one calendar day.
type ActiveDay struct {
	Date            string `json:"orderDate"`
	ActiveCustomers int64  `json:"activeCustomers"`
}

type crmRow struct {
	CustomerID         int64
	CustomerName       string
	PhoneNumber        string
	Points             int64
	TotalOrders        int64
	TotalSpentCents    int64
	DiscountsAvailable int64
}

func (r crmRow) toEntry() CRMEntry {
	return CRMEntry{
		CustomerID:         r.CustomerID,
		CustomerName:       r.CustomerName,
		PhoneNumber:        r.PhoneNumber,
		Points:             r.Points,
		TotalOrders:        r.TotalOrders,
		TotalSpent:         money.FormatCents(r.TotalSpentCents),
		DiscountsAvailable: r.DiscountsAvailable,
	}
}

type orderStamp struct {
	CustomerID      int64
	CreatedDateTime time.Time
}

func toProfileDTO(customer *models.Customer) *ProfileDTO {
	return &ProfileDTO{
		CustomerID:   customer.ID,
		CustomerName: customer.CustomerName,
		Email:        customer.Email,
		PhoneNumber:  customer.PhoneNumber,
		Points:       customer.Points,
	}
}
