package customers

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"time"

	pkgauth "github.com/hengonghuat/cafe-backend/pkg/auth"
	"github.com/hengonghuat/cafe-backend/pkg/config"
	"github.com/hengonghuat/cafe-backend/pkg/db/models"
	"github.com/hengonghuat/cafe-backend/pkg/enums"
	pkgerrors "github.com/hengonghuat/cafe-backend/pkg/errors"
	"github.com/hengonghuat/cafe-backend/pkg/security"
	"gorm.io/gorm"
)

const (
	invalidCredentialsMessage = "invalid credentials"
	tempPasswordLength        = 8
	topCustomersLimit         = 3
	activeWindow              = 24 * time.Hour
)

// phoneNumberPattern accepts digits and dashes, 7 to 12 characters.
var phoneNumberPattern = regexp.MustCompile(`^[0-9-]{7,12}$`)

// Service defines the behavior needed by the customer controllers.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (int64, error)
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	ForgotPassword(ctx context.Context, email string) error
	Profile(ctx context.Context, customerID int64) (*ProfileDTO, error)
	UpdateProfile(ctx context.Context, customerID int64, input ProfileUpdateInput) error
	AdminUpdate(ctx context.Context, customerID int64, input AdminUpdateInput) error
	Delete(ctx context.Context, customerID int64) error
	CRM(ctx context.Context) ([]CRMEntry, error)
	TopCustomers(ctx context.Context) ([]TopCustomerDTO, error)
	ActiveCustomers(ctx context.Context) ([]ActiveDay, error)
}

type customerRepository interface {
	Create(ctx context.Context, customer *models.Customer) (*models.Customer, error)
	FindByID(ctx context.Context, customerID int64) (*models.Customer, error)
	FindByName(ctx context.Context, name string) (*models.Customer, error)
	FindByEmail(ctx context.Context, email string) (*models.Customer, error)
	NameTaken(ctx context.Context, name string, excludeID int64) (bool, error)
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	PhoneTaken(ctx context.Context, phone string, excludeID int64) (bool, error)
	UpdateProfile(ctx context.Context, customerID int64, updates map[string]any) error
	UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error
	Delete(ctx context.Context, customerID int64) error
	ListCRM(ctx context.Context) ([]crmRow, error)
	TopByPoints(ctx context.Context, limit int) ([]models.Customer, error)
	OrderStampsSince(ctx context.Context, cutoff time.Time) ([]orderStamp, error)
}

type service struct {
	repo        customerRepository
	mailer      Mailer
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	now         func() time.Time
}

// NewService constructs a customer service with the provided dependencies.
func NewService(repo customerRepository, mailer Mailer, jwtCfg config.JWTConfig, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository is required")
	}
	if mailer == nil {
		return nil, fmt.Errorf("mailer is required")
	}
	return &service{
		repo:        repo,
		mailer:      mailer,
		jwtCfg:      jwtCfg,
		passwordCfg: passwordCfg,
		now:         time.Now,
	}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (int64, error) {
	if !phoneNumberPattern.MatchString(input.PhoneNumber) {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "phone number must use digits and dashes only, 7 to 12 characters")
	}

	checks := []struct {
		taken   func(context.Context, string, int64) (bool, error)
		value   string
		message string
	}{
		{s.repo.NameTaken, input.CustomerName, "customer name is already registered"},
		{s.repo.EmailTaken, input.Email, "email is already registered"},
		{s.repo.PhoneTaken, input.PhoneNumber, "phone number is already in use"},
	}
	for _, check := range checks {
		taken, err := check.taken(ctx, check.value, 0)
		if err != nil {
			return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check registration uniqueness")
		}
		if taken {
			return 0, pkgerrors.New(pkgerrors.CodeValidation, check.message)
		}
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	customer, err := s.repo.Create(ctx, &models.Customer{
		CustomerName: input.CustomerName,
		Email:        input.Email,
		PhoneNumber:  input.PhoneNumber,
		PasswordHash: hash,
	})
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create customer")
	}
	return customer.ID, nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	customer, err := s.repo.FindByName(ctx, input.CustomerName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load customer")
	}

	ok, err := security.VerifyPassword(input.Password, customer.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	token, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		SubjectID: customer.ID,
		Name:      customer.CustomerName,
		Role:      enums.ActorRoleCustomer,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return &LoginResult{
		Token:       token,
		CustomerID:  customer.ID,
		PhoneNumber: customer.PhoneNumber,
	}, nil
}

func (s *service) ForgotPassword(ctx context.Context, email string) error {
	customer, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "email not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load customer")
	}

	tempPassword, err := security.GenerateTempPassword(tempPasswordLength)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate temporary password")
	}
	hash, err := security.HashPassword(tempPassword, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash temporary password")
	}
	if err := s.repo.UpdatePasswordByEmail(ctx, customer.Email, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store temporary password")
	}

	if err := s.mailer.SendTempPassword(ctx, customer.Email, tempPassword); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "send temporary password")
	}
	return nil
}

func (s *service) Profile(ctx context.Context, customerID int64) (*ProfileDTO, error) {
	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load customer")
	}
	return toProfileDTO(customer), nil
}

func (s *service) UpdateProfile(ctx context.Context, customerID int64, input ProfileUpdateInput) error {
	if !phoneNumberPattern.MatchString(input.PhoneNumber) {
		return pkgerrors.New(pkgerrors.CodeValidation, "phone number must use digits and dashes only, 7 to 12 characters")
	}
	if err := s.ensureProfileAvailable(ctx, customerID, input.CustomerName, input.Email, input.PhoneNumber); err != nil {
		return err
	}

	updates := map[string]any{
		"customer_name": input.CustomerName,
		"email":         input.Email,
		"phone_number":  input.PhoneNumber,
	}
	if input.NewPassword != "" {
		hash, err := security.HashPassword(input.NewPassword, s.passwordCfg)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		updates["password_hash"] = hash
	}

	if err := s.repo.UpdateProfile(ctx, customerID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile")
	}
	return nil
}

func (s *service) AdminUpdate(ctx context.Context, customerID int64, input AdminUpdateInput) error {
	if !phoneNumberPattern.MatchString(input.PhoneNumber) {
		return pkgerrors.New(pkgerrors.CodeValidation, "phone number must use digits and dashes only, 7 to 12 characters")
	}
	taken, err := s.repo.PhoneTaken(ctx, input.PhoneNumber, customerID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check phone uniqueness")
	}
	if taken {
		return pkgerrors.New(pkgerrors.CodeConflict, "phone number already in use by another account")
	}

	updates := map[string]any{
		"customer_name": input.CustomerName,
		"phone_number":  input.PhoneNumber,
	}
	if err := s.repo.UpdateProfile(ctx, customerID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update customer")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, customerID int64) error {
	if err := s.repo.Delete(ctx, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete customer")
	}
	return nil
}

func (s *service) CRM(ctx context.Context) ([]CRMEntry, error) {
	rows, err := s.repo.ListCRM(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list crm rows")
	}
	entries := make([]CRMEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toEntry())
	}
	return entries, nil
}

func (s *service) TopCustomers(ctx context.Context) ([]TopCustomerDTO, error) {
	rows, err := s.repo.TopByPoints(ctx, topCustomersLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list top customers")
	}
	out := make([]TopCustomerDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, TopCustomerDTO{
			CustomerName: row.CustomerName,
			PhoneNumber:  row.PhoneNumber,
			Points:       row.Points,
		})
	}
	return out, nil
}

func (s *service) ActiveCustomers(ctx context.Context) ([]ActiveDay, error) {
	cutoff := s.now().Add(-activeWindow)
	stamps, err := s.repo.OrderStampsSince(ctx, cutoff)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order activity")
	}

	perDay := make(map[string]map[int64]struct{})
	for _, stamp := range stamps {
		day := stamp.CreatedDateTime.Local().Format("2006-01-02")
		if perDay[day] == nil {
			perDay[day] = make(map[int64]struct{})
		}
		perDay[day][stamp.CustomerID] = struct{}{}
	}

	days := make([]ActiveDay, 0, len(perDay))
	for day, ids := range perDay {
		days = append(days, ActiveDay{Date: day, ActiveCustomers: int64(len(ids))})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date > days[j].Date })
	return days, nil
}

// ensureProfileAvailable rejects updates that would collide with another
// account. Conflicts surface as 409s so the client can prompt for new values.
func (s *service) ensureProfileAvailable(ctx context.Context, customerID int64, name, email, phone string) error {
	checks := []struct {
		taken   func(context.Context, string, int64) (bool, error)
		value   string
		message string
	}{
		{s.repo.NameTaken, name, "customer name already in use by another account"},
		{s.repo.EmailTaken, email, "email already in use by another account"},
		{s.repo.PhoneTaken, phone, "phone number already in use by another account"},
	}
	for _, check := range checks {
		taken, err := check.taken(ctx, check.value, customerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check profile uniqueness")
		}
		if taken {
			return pkgerrors.New(pkgerrors.CodeConflict, check.message)
		}
	}
	return nil
}
