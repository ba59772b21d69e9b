package controllers

import (
	"net/http"

	"github.com/hengonghuat/cafe-backend/api/responses"
	"github.com/hengonghuat/cafe-backend/api/validators"
	"github.com/hengonghuat/cafe-backend/internal/feedback"
	"github.com/hengonghuat/cafe-backend/pkg/logger"
)

func SubmitFeedback(svc feedback.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body feedback.SubmitInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		feedbackID, err := svc.Submit(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"message":    "feedback submitted",
			"feedbackId": feedbackID,
		})
	}
}

func AdminFeedback(svc feedback.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
