package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jsa498/devflow/internal/cart"
	"github.com/jsa498/devflow/internal/courses"
	"github.com/jsa498/devflow/internal/programs"
	"github.com/jsa498/devflow/pkg/config"
	"github.com/jsa498/devflow/pkg/db/models"
	"github.com/jsa498/devflow/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubCourseRepo struct{}

func (stubCourseRepo) WithTx(tx *gorm.DB) courses.Repository { return stubCourseRepo{} }

func (stubCourseRepo) ListPublished(ctx context.Context) ([]models.Course, error) {
	return []models.Course{}, nil
}

func (stubCourseRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	return nil, nil
}

func (stubCourseRepo) FindBySlug(ctx context.Context, slug string) (*models.Course, error) {
	return nil, nil
}

func (stubCourseRepo) CreateEnrollment(ctx context.Context, enrollment *models.CourseEnrollment) error {
	return nil
}

func (stubCourseRepo) FindEnrollmentBySessionID(ctx context.Context, sessionID string) (*models.CourseEnrollment, error) {
	return nil, nil
}

func (stubCourseRepo) FindEnrollmentByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*models.CourseEnrollment, error) {
	return nil, nil
}

func (stubCourseRepo) ListEnrollmentsByUser(ctx context.Context, userID uuid.UUID) ([]models.CourseEnrollment, error) {
	return nil, nil
}

type stubCartRepo struct {
	removed *[]uuid.UUID
}

func (s stubCartRepo) WithTx(tx *gorm.DB) cart.Repository { return s }

func (stubCartRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	return []models.CartItem{}, nil
}

func (stubCartRepo) Add(ctx context.Context, item *models.CartItem) error {
	return nil
}

func (s stubCartRepo) Remove(ctx context.Context, userID, courseID uuid.UUID) error {
	if s.removed != nil {
		*s.removed = append(*s.removed, courseID)
	}
	return nil
}

func (stubCartRepo) ClearForUser(ctx context.Context, userID uuid.UUID) error {
	return nil
}

type stubProgramRepo struct{}

func (stubProgramRepo) WithTx(tx *gorm.DB) programs.Repository { return stubProgramRepo{} }

func (stubProgramRepo) Create(ctx context.Context, enrollment *models.ProgramEnrollment) error {
	return nil
}

func (stubProgramRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.ProgramEnrollment, error) {
	return nil, nil
}

func (stubProgramRepo) FindBySessionID(ctx context.Context, sessionID string) (*models.ProgramEnrollment, error) {
	return nil, nil
}

func (stubProgramRepo) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.ProgramEnrollment, error) {
	return nil, nil
}

func (stubProgramRepo) SetCheckoutSession(ctx context.Context, id uuid.UUID, sessionID string) error {
	return nil
}

func (stubProgramRepo) Activate(ctx context.Context, id, userID uuid.UUID, subscriptionID, sessionID string) (bool, error) {
	return false, nil
}

func (stubProgramRepo) MarkCreationFailed(ctx context.Context, id uuid.UUID) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		App:  config.AppConfig{Env: "test", Port: "0"},
		Auth: config.AuthConfig{JWTSecret: "secret"},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	return newTestRouterWithCart(cfg, stubCartRepo{})
}

func newTestRouterWithCart(cfg *config.Config, cartRepo cart.Repository) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		stubPinger{},
		stubCourseRepo{},
		cartRepo,
		stubProgramRepo{},
		nil, // checkout service unused by these routes
		nil, // purchase service
		nil, // program service
		nil, // children service
		nil, // stripe client
		nil, // webhook service
		nil, // webhook guard
		nil, // metrics gatherer
	)
}

func buildToken(t *testing.T, cfg *config.Config, userID uuid.UUID) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(cfg.Auth.JWTSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestCoursesAreBrowsableWithoutToken(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/courses", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestAuthedGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	for _, path := range []string{
		"/api/v1/cart",
		"/api/v1/purchases/verify",
		"/api/v1/dashboard/upcoming-classes",
	} {
		method := http.MethodGet
		if path == "/api/v1/purchases/verify" {
			method = http.MethodPost
		}
		req := httptest.NewRequest(method, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 without token got %d", path, resp.Code)
		}
	}
}

func TestAuthedGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, uuid.New()))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with token got %d", resp.Code)
	}
}

func TestRemoveCartItemRouteReachesRepo(t *testing.T) {
	cfg := testConfig()
	var removed []uuid.UUID
	router := newTestRouterWithCart(cfg, stubCartRepo{removed: &removed})

	courseID := uuid.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/"+courseID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, uuid.New()))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 removing cart item got %d: %s", resp.Code, resp.Body.String())
	}
	if len(removed) != 1 || removed[0] != courseID {
		t.Fatalf("expected repo to receive course id %s, got %v", courseID, removed)
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
