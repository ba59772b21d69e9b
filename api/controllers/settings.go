package controllers

import (
	"net/http"

	"github.com/hengonghuat/cafe-backend/api/responses"
	"github.com/hengonghuat/cafe-backend/api/validators"
	"github.com/hengonghuat/cafe-backend/internal/settings"
	"github.com/hengonghuat/cafe-backend/pkg/logger"
)

func GetPointsConversionRate(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rate := svc.PointsConversionRate(r.Context())
		responses.WriteSuccess(w, map[string]float64{"value": rate})
	}
}

type conversionRateRequest struct {
	NewRate float64 `json:"newRate" validate:"required,gt=0"`
}

func UpdatePointsConversionRate(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body conversionRateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetPointsConversionRate(r.Context(), body.NewRate); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"message": "conversion rate updated"})
	}
}

func GetLowStockThreshold(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		threshold := svc.LowStockThreshold(r.Context())
		responses.WriteSuccess(w, map[string]int64{"value": threshold})
	}
}

type thresholdRequest struct {
	Threshold int64 `json:"threshold" validate:"gte=0"`
}

func UpdateLowStockThreshold(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body thresholdRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetLowStockThreshold(r.Context(), body.Threshold); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"message": "threshold updated"})
	}
}
