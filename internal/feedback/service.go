package feedback

import (
	"context"
	"fmt"

	"github.com/hengonghuat/cafe-backend/pkg/db/models"
	pkgerrors "github.com/hengonghuat/cafe-backend/pkg/errors"
)

// Service defines the behavior needed by the feedback controllers.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (int64, error)
	List(ctx context.Context) ([]FeedbackDTO, error)
}

type feedbackRepository interface {
	Create(ctx context.Context, entry *models.Feedback) (*models.Feedback, error)
	ResolveCustomerID(ctx context.Context, phoneNumber string) (*int64, error)
	ListWithCustomerNames(ctx context.Context) ([]feedbackRow, error)
}

type service struct {
	repo feedbackRepository
}

// NewService constructs a feedback service.
func NewService(repo feedbackRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("feedback repository is required")
	}
	return &service{repo: repo}, nil
}

// Submit stores the feedback. The phone number is matched against known
// accounts leniently; an unknown number still records the feedback with no
// customer link.
func (s *service) Submit(ctx context.Context, input SubmitInput) (int64, error) {
	customerID, err := s.repo.ResolveCustomerID(ctx, input.PhoneNumber)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve customer")
	}

	entry, err := s.repo.Create(ctx, &models.Feedback{
		PhoneNumber: input.PhoneNumber,
		CustomerID:  customerID,
		Feedback:    input.Feedback,
		Rating:      input.Rating,
	})
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store feedback")
	}
	return entry.ID, nil
}

func (s *service) List(ctx context.Context) ([]FeedbackDTO, error) {
	rows, err := s.repo.ListWithCustomerNames(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list feedback")
	}
	out := make([]FeedbackDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FeedbackDTO{
			FeedbackID:   row.FeedbackID,
			PhoneNumber:  row.PhoneNumber,
			Feedback:     row.Feedback,
			Rating:       row.Rating,
			CustomerID:   row.CustomerID,
			CustomerName: row.CustomerName,
			CreatedAt:    row.CreatedAt,
		})
	}
	return out, nil
}
