package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hengonghuat/cafe-backend/api/middleware"
	"github.com/hengonghuat/cafe-backend/api/responses"
	"github.com/hengonghuat/cafe-backend/api/validators"
	"github.com/hengonghuat/cafe-backend/internal/discounts"
	pkgerrors "github.com/hengonghuat/cafe-backend/pkg/errors"
	"github.com/hengonghuat/cafe-backend/pkg/logger"
)

func ListDiscounts(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

type redeemRequest struct {
	DiscountID int64 `json:"discountId" validate:"required,gt=0"`
}

// RedeemDiscount converts the authenticated customer's points into a banked
// discount use.
func RedeemDiscount(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID := middleware.SubjectIDFromContext(r.Context())
		if customerID <= 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing subject"))
			return
		}

		var body redeemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Redeem(r.Context(), customerID, body.DiscountID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type applyRequest struct {
	DiscountCode string `json:"discountCode" validate:"required"`
	OrderID      int64  `json:"orderId" validate:"required,gt=0"`
}

// ApplyDiscount consumes a banked use against an existing order.
func ApplyDiscount(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID := middleware.SubjectIDFromContext(r.Context())
		if customerID <= 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing subject"))
			return
		}

		var body applyRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Apply(r.Context(), customerID, body.DiscountCode, body.OrderID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"message": "discount applied"})
	}
}

type discountRequest struct {
	Code           string  `json:"code" validate:"required,max=40"`
	Description    *string `json:"description"`
	DiscountAmount string  `json:"discount_amount" validate:"required"`
	PointsRequired int64   `json:"points_required" validate:"gte=0"`
}

func (b discountRequest) toInput() discounts.DiscountInput {
	return discounts.DiscountInput{
		Code:           b.Code,
		Description:    b.Description,
		DiscountAmount: b.DiscountAmount,
		PointsRequired: b.PointsRequired,
	}
}

func CreateDiscount(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body discountRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		discount, err := svc.Create(r.Context(), body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, discount)
	}
}

func UpdateDiscount(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		discountID, err := validators.ParsePathID(chi.URLParam(r, "discountId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body discountRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		discount, err := svc.Update(r.Context(), discountID, body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, discount)
	}
}

func DeleteDiscount(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		discountID, err := validators.ParsePathID(chi.URLParam(r, "discountId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), discountID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"message": "discount deleted"})
	}
}
