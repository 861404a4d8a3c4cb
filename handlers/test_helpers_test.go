package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"glowup-backend/middleware"
	"glowup-backend/models"
	"glowup-backend/store"

	"github.com/gin-gonic/gin"
	"github.com/juju/clock/testclock"
	"golang.org/x/crypto/bcrypt"
)

const testDevice = "phone-1"

const testPhoto = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNk+M9QDwADhgGAWjR9awAAAABJRU5ErkJggg=="

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret-key-for-unit-tests")
	// Keep notification mails from leaving the test process.
	os.Unsetenv("SMTP_HOST")
	os.Exit(m.Run())
}

// fixedRandom returns its own value, capped below n.
type fixedRandom int

func (f fixedRandom) Intn(n int) int {
	if int(f) >= n {
		return n - 1
	}
	return int(f)
}

type testServer struct {
	router     *gin.Engine
	reg        *store.Registry
	clock      *testclock.Clock
	storage    *mockStorage
	failWrites atomic.Bool
}

// deviceStorage is the in-memory device state, failing writes while the
// server's failWrites is set.
type deviceStorage struct {
	*store.MemoryStorage
	ts *testServer
}

func (d deviceStorage) Apply(ctx context.Context, ops []store.Op) error {
	if d.ts.failWrites.Load() {
		return errors.New("disk full")
	}
	return d.MemoryStorage.Apply(ctx, ops)
}

func newTestServer(t *testing.T, opts ...store.Option) *testServer {
	t.Helper()
	clk := testclock.NewClock(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	base := []store.Option{
		store.WithClock(clk),
		store.WithLocation(time.UTC),
		store.WithRandom(fixedRandom(0)),
		store.WithPasswordCost(bcrypt.MinCost),
	}
	ts := &testServer{clock: clk, storage: newMockStorage()}
	ts.reg = store.NewRegistry(func(string) store.Storage {
		return deviceStorage{MemoryStorage: store.NewMemoryStorage(), ts: ts}
	}, append(base, opts...)...)
	ts.router = ts.setupRouter()
	return ts
}

func (ts *testServer) setupRouter() *gin.Engine {
	authHandler := &AuthHandler{Storage: ts.storage}
	cartHandler := &CartHandler{}
	orderHandler := &OrderHandler{Storage: ts.storage}
	bookingHandler := &BookingHandler{}
	appointmentHandler := &AppointmentHandler{}
	rewardsHandler := &RewardsHandler{Storage: ts.storage}
	locationHandler := &LocationHandler{}
	eventHandler := &EventHandler{}

	r := gin.New()
	api := r.Group("/api")
	api.Use(middleware.DeviceMiddleware(ts.reg))
	api.POST("/auth/signup", authHandler.Signup)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/location", locationHandler.GetLocation)
	api.POST("/location", locationHandler.FetchLocation)
	api.POST("/location/error", locationHandler.ReportError)
	api.GET("/location/distance", locationHandler.GetDistance)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/auth/me", authHandler.GetProfile)
	protected.PUT("/auth/role", authHandler.SetRole)
	protected.PATCH("/profile", authHandler.UpdateProfile)
	protected.POST("/profile/complete", authHandler.CompleteProfile)
	protected.GET("/state", authHandler.GetState)
	protected.GET("/events", eventHandler.Stream)
	protected.GET("/cart", cartHandler.GetCart)
	protected.POST("/cart", cartHandler.AddToCart)
	protected.PUT("/cart/:productId", cartHandler.UpdateCartItem)
	protected.DELETE("/cart/:productId", cartHandler.RemoveFromCart)
	protected.DELETE("/cart", cartHandler.ClearCart)
	protected.POST("/checkout", orderHandler.Checkout)
	protected.GET("/orders", orderHandler.GetOrders)
	protected.GET("/orders/:id", orderHandler.GetOrder)
	protected.POST("/bookings", bookingHandler.CreateBooking)
	protected.GET("/bookings", bookingHandler.GetBookings)
	protected.POST("/appointments", appointmentHandler.BookAppointment)
	protected.GET("/appointments", appointmentHandler.GetAppointments)
	protected.GET("/wallet", rewardsHandler.GetWallet)
	protected.POST("/rewards/daily-login", rewardsHandler.DailyLogin)
	protected.GET("/rewards/diet", rewardsHandler.GetDiet)
	protected.PUT("/rewards/diet/preference", rewardsHandler.SetDietPreference)
	protected.POST("/rewards/diet/complete", rewardsHandler.CompleteDiet)
	protected.GET("/rewards/collect-box", rewardsHandler.GetCollectBox)
	protected.POST("/rewards/collect-box", rewardsHandler.ClaimCollectBox)
	protected.GET("/rewards/face-score", rewardsHandler.GetFaceScores)
	protected.POST("/rewards/face-score", rewardsHandler.CaptureFaceScore)
	protected.POST("/rewards/try-on", rewardsHandler.CompleteTryOn)

	provider := protected.Group("/provider")
	provider.Use(middleware.RoleMiddleware(models.RoleSalonOwner, models.RoleArtist))
	provider.GET("/bookings", bookingHandler.GetProviderBookings)
	provider.PUT("/bookings/:id/accept", bookingHandler.AcceptBooking)
	provider.PUT("/bookings/:id/reject", bookingHandler.RejectBooking)
	provider.PUT("/bookings/:id/complete", bookingHandler.CompleteBooking)
	provider.PUT("/bookings/:id/status", bookingHandler.UpdateBookingStatus)
	provider.GET("/orders", orderHandler.GetSalonOrders)
	provider.PUT("/orders/:id/status", orderHandler.UpdateOrderStatus)
	provider.PUT("/orders/:id/tracking", orderHandler.AddTrackingLink)

	doctor := protected.Group("/doctor")
	doctor.Use(middleware.RoleMiddleware(models.RoleDoctor))
	doctor.GET("/appointments", appointmentHandler.GetDoctorAppointments)
	doctor.PUT("/appointments/:id/accept", appointmentHandler.AcceptAppointment)
	doctor.PUT("/appointments/:id/reject", appointmentHandler.RejectAppointment)
	doctor.PUT("/appointments/:id/status", appointmentHandler.UpdateAppointmentStatus)
	doctor.POST("/appointments/:id/prescription", appointmentHandler.AddPrescription)

	return r
}

func jsonRequest(method, path string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.DeviceHeader, testDevice)
	return req
}

func authRequest(method, path, token string, body interface{}) *http.Request {
	req := jsonRequest(method, path, body)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func parseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var resp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
}

// signupUser creates an account on the test device and returns its token.
func (ts *testServer) signupUser(t *testing.T, email string) string {
	t.Helper()
	w := ts.do(jsonRequest("POST", "/api/auth/signup", map[string]string{
		"name":     "Test User",
		"email":    email,
		"password": "password123",
	}))
	if w.Code != http.StatusCreated {
		t.Fatalf("signup %s: expected 201, got %d: %s", email, w.Code, w.Body.String())
	}
	return parseResponse(w)["token"].(string)
}

// signupWithRole creates an account, picks its role and returns the reissued token.
func (ts *testServer) signupWithRole(t *testing.T, email string, role models.Role) string {
	t.Helper()
	token := ts.signupUser(t, email)
	w := ts.do(authRequest("PUT", "/api/auth/role", token, map[string]string{"role": string(role)}))
	if w.Code != http.StatusOK {
		t.Fatalf("set role %s: expected 200, got %d: %s", role, w.Code, w.Body.String())
	}
	return parseResponse(w)["token"].(string)
}

func (ts *testServer) login(t *testing.T, email string) string {
	t.Helper()
	w := ts.do(jsonRequest("POST", "/api/auth/login", map[string]string{
		"email":    email,
		"password": "password123",
	}))
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d: %s", email, w.Code, w.Body.String())
	}
	return parseResponse(w)["token"].(string)
}

func product(id, salonID string, price float64) models.Product {
	return models.Product{
		ID:        id,
		Name:      "Product " + id,
		Price:     price,
		SalonID:   salonID,
		SalonName: "Salon " + salonID,
	}
}
