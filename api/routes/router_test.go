package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hengonghuat/cafe-backend/internal/admins"
	"github.com/hengonghuat/cafe-backend/internal/customers"
	"github.com/hengonghuat/cafe-backend/internal/discounts"
	"github.com/hengonghuat/cafe-backend/internal/feedback"
	"github.com/hengonghuat/cafe-backend/internal/menu"
	"github.com/hengonghuat/cafe-backend/internal/orders"
	"github.com/hengonghuat/cafe-backend/internal/reports"
	pkgAuth "github.com/hengonghuat/cafe-backend/pkg/auth"
	"github.com/hengonghuat/cafe-backend/pkg/config"
	"github.com/hengonghuat/cafe-backend/pkg/db/models"
	"github.com/hengonghuat/cafe-backend/pkg/enums"
	"github.com/hengonghuat/cafe-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubCustomerService struct{}

func (stubCustomerService) Register(ctx context.Context, input customers.RegisterInput) (int64, error) {
	panic("unimplemented")
}

func (stubCustomerService) Login(ctx context.Context, input customers.LoginInput) (*customers.LoginResult, error) {
	panic("unimplemented")
}

func (stubCustomerService) ForgotPassword(ctx context.Context, email string) error {
	panic("unimplemented")
}

func (stubCustomerService) Profile(ctx context.Context, customerID int64) (*customers.ProfileDTO, error) {
	return &customers.ProfileDTO{CustomerID: customerID, CustomerName: "alice"}, nil
}

func (stubCustomerService) UpdateProfile(ctx context.Context, customerID int64, input customers.ProfileUpdateInput) error {
	panic("unimplemented")
}

func (stubCustomerService) AdminUpdate(ctx context.Context, customerID int64, input customers.AdminUpdateInput) error {
	panic("unimplemented")
}

func (stubCustomerService) Delete(ctx context.Context, customerID int64) error {
	panic("unimplemented")
}

func (stubCustomerService) CRM(ctx context.Context) ([]customers.CRMEntry, error) {
	return []customers.CRMEntry{}, nil
}

func (stubCustomerService) TopCustomers(ctx context.Context) ([]customers.TopCustomerDTO, error) {
	panic("unimplemented")
}

func (stubCustomerService) ActiveCustomers(ctx context.Context) ([]customers.ActiveDay, error) {
	panic("unimplemented")
}

type stubAdminService struct{}

func (stubAdminService) Login(ctx context.Context, input admins.LoginInput) (*admins.LoginResult, error) {
	panic("unimplemented")
}

func (stubAdminService) Register(ctx context.Context, input admins.AdminInput) (int64, error) {
	panic("unimplemented")
}

func (stubAdminService) List(ctx context.Context) ([]admins.AdminDTO, error) {
	return []admins.AdminDTO{}, nil
}

func (stubAdminService) Update(ctx context.Context, userID int64, input admins.AdminInput) error {
	panic("unimplemented")
}

func (stubAdminService) Delete(ctx context.Context, userID int64) error {
	panic("unimplemented")
}

type stubMenuService struct{}

func (stubMenuService) Menu(ctx context.Context) ([]menu.ItemDTO, error) {
	return []menu.ItemDTO{}, nil
}

func (stubMenuService) Categories(ctx context.Context) ([]menu.CategoryDTO, error) {
	return []menu.CategoryDTO{}, nil
}

func (stubMenuService) AddItem(ctx context.Context, input menu.ItemInput) (*menu.ItemDTO, error) {
	panic("unimplemented")
}

func (stubMenuService) UpdateItem(ctx context.Context, itemID int64, input menu.ItemInput) (*menu.ItemDTO, error) {
	panic("unimplemented")
}

func (stubMenuService) DeleteItem(ctx context.Context, itemID int64) error {
	panic("unimplemented")
}

func (stubMenuService) SetAvailability(ctx context.Context, itemID int64, available bool) error {
	panic("unimplemented")
}

func (stubMenuService) AdjustStock(ctx context.Context, itemID, delta int64) (int64, error) {
	panic("unimplemented")
}

func (stubMenuService) LowStock(ctx context.Context) ([]menu.ItemDTO, error) {
	panic("unimplemented")
}

type stubOrderService struct{}

func (stubOrderService) Place(ctx context.Context, input orders.PlaceOrderInput) (*orders.PlaceOrderResult, error) {
	panic("unimplemented")
}

func (stubOrderService) ListByCustomer(ctx context.Context, customerID int64) ([]orders.OrderSummaryDTO, error) {
	return []orders.OrderSummaryDTO{}, nil
}

func (stubOrderService) Invoice(ctx context.Context, orderID int64) (*orders.InvoiceDTO, error) {
	panic("unimplemented")
}

func (stubOrderService) AdminList(ctx context.Context) ([]orders.AdminOrderDTO, error) {
	return []orders.AdminOrderDTO{}, nil
}

func (stubOrderService) UpdateStatus(ctx context.Context, input orders.StatusUpdateInput) error {
	panic("unimplemented")
}

func (stubOrderService) Delete(ctx context.Context, input orders.DeleteOrdersInput) error {
	panic("unimplemented")
}

func (stubOrderService) FindByID(ctx context.Context, orderID int64) (*models.Order, error) {
	panic("unimplemented")
}

type stubDiscountService struct{}

func (stubDiscountService) List(ctx context.Context) ([]discounts.DiscountDTO, error) {
	return []discounts.DiscountDTO{}, nil
}

func (stubDiscountService) Create(ctx context.Context, input discounts.DiscountInput) (*discounts.DiscountDTO, error) {
	panic("unimplemented")
}

func (stubDiscountService) Update(ctx context.Context, discountID int64, input discounts.DiscountInput) (*discounts.DiscountDTO, error) {
	panic("unimplemented")
}

func (stubDiscountService) Delete(ctx context.Context, discountID int64) error {
	panic("unimplemented")
}

func (stubDiscountService) Redeem(ctx context.Context, customerID, discountID int64) (*discounts.RedemptionResult, error) {
	panic("unimplemented")
}

func (stubDiscountService) Apply(ctx context.Context, customerID int64, discountCode string, orderID int64) error {
	panic("unimplemented")
}

func (stubDiscountService) ResolveByCode(ctx context.Context, code string) (*models.Discount, error) {
	panic("unimplemented")
}

func (stubDiscountService) ListForCustomer(ctx context.Context, customerID int64) ([]discounts.CustomerDiscountDTO, error) {
	return []discounts.CustomerDiscountDTO{}, nil
}

type stubSettingsService struct{}

func (stubSettingsService) PointsConversionRate(ctx context.Context) float64 {
	return 10
}

func (stubSettingsService) LowStockThreshold(ctx context.Context) int64 {
	return 3
}

func (stubSettingsService) Get(ctx context.Context, key enums.SettingKey) (string, error) {
	panic("unimplemented")
}

func (stubSettingsService) SetPointsConversionRate(ctx context.Context, rate float64) error {
	panic("unimplemented")
}

func (stubSettingsService) SetLowStockThreshold(ctx context.Context, threshold int64) error {
	panic("unimplemented")
}

type stubFeedbackService struct{}

func (stubFeedbackService) Submit(ctx context.Context, input feedback.SubmitInput) (int64, error) {
	panic("unimplemented")
}

func (stubFeedbackService) List(ctx context.Context) ([]feedback.FeedbackDTO, error) {
	return []feedback.FeedbackDTO{}, nil
}

type stubReportService struct{}

func (stubReportService) Revenue(ctx context.Context) (*reports.RevenueDTO, error) {
	return &reports.RevenueDTO{}, nil
}

func (stubReportService) DailySales(ctx context.Context) (string, error) {
	panic("unimplemented")
}

func (stubReportService) Summary(ctx context.Context) (*reports.SummaryDTO, error) {
	panic("unimplemented")
}

func (stubReportService) Trend(ctx context.Context, granularity string) ([]reports.TrendPoint, error) {
	panic("unimplemented")
}

func (stubReportService) TopSelling(ctx context.Context) ([]reports.TopSellingDTO, error) {
	panic("unimplemented")
}

func (stubReportService) HourlyOrders(ctx context.Context) ([]reports.HourlyOrdersDTO, error) {
	panic("unimplemented")
}

func (stubReportService) CategorySales(ctx context.Context) ([]reports.CategorySalesDTO, error) {
	panic("unimplemented")
}

func (stubReportService) ItemSalesHistory(ctx context.Context, itemID int64) ([]reports.DaySalesDTO, error) {
	panic("unimplemented")
}

func (stubReportService) Forecast(ctx context.Context, itemID int64) (*reports.ForecastDTO, error) {
	panic("unimplemented")
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		nil, // redis
		nil, // metrics registry
		stubCustomerService{},
		stubAdminService{},
		stubMenuService{},
		stubOrderService{},
		stubDiscountService{},
		stubSettingsService{},
		stubFeedbackService{},
		stubReportService{},
	)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.ActorRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		SubjectID: 42,
		Name:      "alice",
		Role:      role,
	})
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}
	return token
}

func TestPublicMenuNeedsNoToken(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/menu/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for public menu got %d", resp.Code)
	}
}

func TestCustomerGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers/me/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestCustomerGroupAcceptsCustomerToken(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers/me/", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ActorRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for customer profile got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	customer := httptest.NewRequest(http.MethodGet, "/api/admin/v1/feedback", nil)
	customer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ActorRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, customer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer token got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/feedback", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ActorRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin token got %d", resp.Code)
	}
}

func TestAdminRegisterHiddenInProd(t *testing.T) {
	cfg := testConfig()
	cfg.App.Env = config.AppEnvProd
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/auth/register", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code == http.StatusOK || resp.Code == http.StatusCreated {
		t.Fatalf("expected admin self-register to be unavailable in prod, got %d", resp.Code)
	}
}

func TestHealthLiveReportsEnv(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
	if got := resp.Header().Get("X-Cafe-Env"); got != "test" {
		t.Fatalf("expected env header test got %q", got)
	}
}
