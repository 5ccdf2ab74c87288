package e2e

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	avail "studyhall/internal/availability"
	"studyhall/internal/config"
	"studyhall/internal/database"
	"studyhall/internal/domain"
	"studyhall/internal/middleware"
	"studyhall/internal/modules/admin"
	"studyhall/internal/modules/auth"
	availmod "studyhall/internal/modules/availability"
	"studyhall/internal/modules/booking"
	"studyhall/internal/modules/hall"
	"studyhall/internal/modules/payment"
	jwtsvc "studyhall/internal/pkg/jwt"
	"studyhall/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	gatewayPassword1 = "test-pass-1"
	gatewayPassword2 = "test-pass-2"
)

type E2ETestSuite struct {
	router     *gin.Engine
	db         *gorm.DB
	jwtService *jwtsvc.Service
	manager    *avail.Manager
}

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	db, err := database.Connect(":memory:")
	require.NoError(t, err, "Failed to connect to test database")

	models := []interface{}{
		&domain.User{},
		&domain.Hall{},
		&domain.HallRow{},
		&domain.Cabin{},
		&domain.Booking{},
		&domain.GatewayPayment{},
	}
	for _, model := range models {
		err := db.AutoMigrate(model)
		require.NoError(t, err, fmt.Sprintf("Failed to migrate %T", model))
	}

	userRepo := repository.NewUserRepository(db)
	hallRepo := repository.NewHallRepository(db)
	cabinRepo := repository.NewCabinRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	availStore := repository.NewAvailabilityStore(db)

	jwtService := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)

	// Snapshot requests recompute from the store; no broker needed
	// since nothing in these tests opens a websocket subscription.
	feed := avail.NewFeed(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}), nil)
	hub := avail.NewHub()
	manager := avail.NewManager(availStore, feed, hub, avail.DefaultDebounce, nil)

	authService := auth.NewService(userRepo, jwtService)
	authHandler := auth.NewHandler(authService)

	hallService := hall.NewService(hallRepo, cabinRepo, nil)
	hallHandler := hall.NewHandler(hallService)

	bookingService := booking.NewService(bookingRepo, cabinRepo, hallRepo, nil, nil)
	bookingHandler := booking.NewHandler(bookingService)

	gatewayCfg := config.GatewayConfig{
		MerchantLogin: "studyhall-test",
		Password1:     gatewayPassword1,
		Password2:     gatewayPassword2,
		BaseURL:       "https://gateway.test/pay",
		IsTest:        "1",
	}
	paymentService := payment.NewService(paymentRepo, bookingRepo, bookingService, gatewayCfg, nil)
	paymentHandler := payment.NewHandler(paymentService)

	adminService := admin.NewService(hallRepo, userRepo, bookingRepo)
	adminHandler := admin.NewHandler(adminService)

	availHandler := availmod.NewHandler(manager)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterRoutes(v1)
		hallHandler.RegisterPublicRoutes(v1)
		bookingHandler.RegisterPublicRoutes(v1)
		paymentHandler.RegisterRoutes(v1)
		availHandler.RegisterRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(jwtService))
		{
			authHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterProtectedRoutes(protected)
			paymentHandler.RegisterProtectedRoutes(protected)

			merchant := protected.Group("/")
			merchant.Use(middleware.MerchantOnly())
			{
				hallHandler.RegisterMerchantRoutes(merchant)
				bookingHandler.RegisterMerchantRoutes(merchant)
			}

			adminGroup := protected.Group("/")
			adminGroup.Use(middleware.AdminOnly())
			{
				adminHandler.RegisterAdminRoutes(adminGroup)
			}

			settlement := protected.Group("/")
			settlement.Use(middleware.SettlementOnly())
			{
				adminHandler.RegisterSettlementRoutes(settlement)
			}
		}
	}

	suite := &E2ETestSuite{
		router:     r,
		db:         db,
		jwtService: jwtService,
		manager:    manager,
	}
	t.Cleanup(manager.Stop)

	suite.seedUser(t, "admin@test.com", domain.RoleAdmin)
	suite.seedUser(t, "settlement@test.com", domain.RoleSettlement)

	return suite
}

func (s *E2ETestSuite) seedUser(t *testing.T, email string, role domain.UserRole) {
	hash, err := bcrypt.GenerateFromPassword([]byte("Password123!"), bcrypt.MinCost)
	require.NoError(t, err)

	u := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Name:         string(role) + " user",
	}
	require.NoError(t, s.db.Create(u).Error)
}

func (s *E2ETestSuite) tokenFor(t *testing.T, email string) string {
	var u domain.User
	require.NoError(t, s.db.Where("email = ?", email).First(&u).Error)

	token, err := s.jwtService.GenerateToken(u.ID, string(u.Role))
	require.NoError(t, err)
	return token
}

func (s *E2ETestSuite) makeRequest(method, path string, body interface{}, token string) (*httptest.ResponseRecorder, error) {
	var bodyBytes []byte
	var err error

	if body != nil {
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return nil, err
		}
	}

	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w, nil
}

func (s *E2ETestSuite) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func parseResponse(w *httptest.ResponseRecorder) (*TestResponse, error) {
	var resp TestResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	if err != nil {
		log.Printf("Failed to parse response. Status: %d, Body: %s", w.Code, w.Body.String())
	}
	return &resp, err
}

func md5Sig(parts ...string) string {
	sum := md5.Sum([]byte(strings.Join(parts, ":")))
	return hex.EncodeToString(sum[:])
}

// registerAndLogin creates a user through the API and returns the
// login token.
func (s *E2ETestSuite) registerAndLogin(t *testing.T, email, role string) string {
	path := "/api/v1/auth/register"
	body := map[string]interface{}{
		"email":    email,
		"name":     "Test User",
		"password": "Password123!",
	}
	if role == "merchant" {
		path = "/api/v1/auth/register/merchant"
		body["phone"] = "+77010000000"
	}

	w, err := s.makeRequest("POST", path, body, "")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, w.Code, "registration failed: %s", w.Body.String())

	w, err = s.makeRequest("POST", "/api/v1/auth/login", map[string]interface{}{
		"email":    email,
		"password": "Password123!",
	}, "")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, w.Code)

	resp, err := parseResponse(w)
	require.NoError(t, err)
	return resp.Data["access_token"].(string)
}

// createApprovedHall registers a hall through the merchant API and
// moderates it with the seeded admin.
func (s *E2ETestSuite) createApprovedHall(t *testing.T, merchantToken string) int64 {
	w, err := s.makeRequest("POST", "/api/v1/halls", map[string]interface{}{
		"name":         "Fokus Study Hall",
		"description":  "Quiet cabins near the university",
		"address":      "Abay 10",
		"city":         "Almaty",
		"base_price":   25000,
		"base_deposit": 5000,
	}, merchantToken)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, w.Code, "hall creation failed: %s", w.Body.String())

	resp, err := parseResponse(w)
	require.NoError(t, err)
	hallData := resp.Data["hall"].(map[string]interface{})
	hallID := int64(hallData["id"].(float64))

	adminToken := s.tokenFor(t, "admin@test.com")
	w, err = s.makeRequest("POST", fmt.Sprintf("/api/v1/admin/halls/%d/approve", hallID), nil, adminToken)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, w.Code, "hall approval failed: %s", w.Body.String())

	return hallID
}

func (s *E2ETestSuite) saveLayout(t *testing.T, merchantToken string, hallID int64, rows []map[string]interface{}) {
	w, err := s.makeRequest("PUT", fmt.Sprintf("/api/v1/halls/%d/layout", hallID), map[string]interface{}{
		"rows": rows,
	}, merchantToken)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, w.Code, "layout save failed: %s", w.Body.String())
}

func (s *E2ETestSuite) cabinByPosition(t *testing.T, hallID int64, positionID string) *domain.Cabin {
	var c domain.Cabin
	err := s.db.Where("hall_id = ? AND position_id = ?", hallID, positionID).First(&c).Error
	require.NoError(t, err)
	return &c
}

// =============================================================================
// Flow 1: Registration and authentication
// =============================================================================

func TestFlow1_RegistrationAndAuth(t *testing.T) {
	suite := setupTestSuite(t)

	t.Run("POST /auth/register", func(t *testing.T) {
		w, err := suite.makeRequest("POST", "/api/v1/auth/register", map[string]interface{}{
			"email":    "student@test.com",
			"name":     "Student One",
			"password": "Password123!",
		}, "")
		require.NoError(t, err)

		assert.Equal(t, http.StatusCreated, w.Code)

		resp, err := parseResponse(w)
		require.NoError(t, err)
		assert.True(t, resp.Success)

		user := resp.Data["user"].(map[string]interface{})
		assert.Equal(t, "student", user["role"])

		log.Printf("✅ POST /auth/register - SUCCESS")
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		w, err := suite.makeRequest("POST", "/api/v1/auth/register", map[string]interface{}{
			"email":    "student@test.com",
			"name":     "Student Again",
			"password": "Password123!",
		}, "")
		require.NoError(t, err)

		assert.Equal(t, http.StatusConflict, w.Code)

		resp, err := parseResponse(w)
		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, "EMAIL_EXISTS", resp.Error.Code)
	})

	t.Run("POST /auth/login and GET /auth/me", func(t *testing.T) {
		w, err := suite.makeRequest("POST", "/api/v1/auth/login", map[string]interface{}{
			"email":    "student@test.com",
			"password": "Password123!",
		}, "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)

		resp, err := parseResponse(w)
		require.NoError(t, err)
		token := resp.Data["access_token"].(string)
		require.NotEmpty(t, token)

		w, err = suite.makeRequest("GET", "/api/v1/auth/me", nil, token)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)

		resp, err = parseResponse(w)
		require.NoError(t, err)
		user := resp.Data["user"].(map[string]interface{})
		assert.Equal(t, "student@test.com", user["email"])

		log.Printf("✅ POST /auth/login + GET /auth/me - SUCCESS")
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		w, err := suite.makeRequest("POST", "/api/v1/auth/login", map[string]interface{}{
			"email":    "student@test.com",
			"password": "nope",
		}, "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

// =============================================================================
// Flow 2: Hall creation and moderation
// =============================================================================

func TestFlow2_HallModeration(t *testing.T) {
	suite := setupTestSuite(t)

	merchantToken := suite.registerAndLogin(t, "owner@test.com", "merchant")
	adminToken := suite.tokenFor(t, "admin@test.com")

	var hallID int64

	t.Run("POST /halls creates pending hall", func(t *testing.T) {
		w, err := suite.makeRequest("POST", "/api/v1/halls", map[string]interface{}{
			"name":       "Pending Hall",
			"address":    "Dostyk 1",
			"city":       "Almaty",
			"base_price": 20000,
		}, merchantToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, w.Code)

		resp, err := parseResponse(w)
		require.NoError(t, err)
		hallData := resp.Data["hall"].(map[string]interface{})
		assert.Equal(t, "pending", hallData["status"])
		hallID = int64(hallData["id"].(float64))

		log.Printf("✅ POST /halls - SUCCESS (hall_id: %d)", hallID)
	})

	t.Run("pending hall hidden from public listing", func(t *testing.T) {
		w, err := suite.makeRequest("GET", "/api/v1/halls", nil, "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)

		resp, err := parseResponse(w)
		require.NoError(t, err)
		halls := resp.Data["halls"].([]interface{})
		assert.Empty(t, halls)
	})

	t.Run("students cannot reach admin routes", func(t *testing.T) {
		studentToken := suite.registerAndLogin(t, "peek@test.com", "student")

		w, err := suite.makeRequest("GET", "/api/v1/admin/halls/pending", nil, studentToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("GET /admin/halls/pending and approve", func(t *testing.T) {
		w, err := suite.makeRequest("GET", "/api/v1/admin/halls/pending", nil, adminToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)

		resp, err := parseResponse(w)
		require.NoError(t, err)
		halls := resp.Data["halls"].([]interface{})
		require.Len(t, halls, 1)

		w, err = suite.makeRequest("POST", fmt.Sprintf("/api/v1/admin/halls/%d/approve", hallID), nil, adminToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)

		log.Printf("✅ POST /admin/halls/:id/approve - SUCCESS")
	})

	t.Run("approving twice is rejected", func(t *testing.T) {
		w, err := suite.makeRequest("POST", fmt.Sprintf("/api/v1/admin/halls/%d/approve", hallID), nil, adminToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("approved hall visible in public listing", func(t *testing.T) {
		w, err := suite.makeRequest("GET", "/api/v1/halls?city=Almaty", nil, "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)

		resp, err := parseResponse(w)
		require.NoError(t, err)
		halls := resp.Data["halls"].([]interface{})
		require.Len(t, halls, 1)

		log.Printf("✅ GET /halls - SUCCESS")
	})
}

// =============================================================================
// Flow 3: Layout editor
// =============================================================================

func TestFlow3_LayoutEditor(t *testing.T) {
	suite := setupTestSuite(t)

	merchantToken := suite.registerAndLogin(t, "layout@test.com", "merchant")
	hallID := suite.createApprovedHall(t, merchantToken)

	t.Run("POST /halls/:id/layout/preview", func(t *testing.T) {
		w, err := suite.makeRequest("POST", fmt.Sprintf("/api/v1/halls/%d/layout/preview", hallID), map[string]interface{}{
			"rows": []map[string]interface{}{
				{"name": "A", "cabin_count": "3"},
				{"name": "B", "cabin_count": "2", "price_override": "30000"},
			},
		}, merchantToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)

		resp, err := parseResponse(w)
		require.NoError(t, err)
		layoutData := resp.Data["layout"].(map[string]interface{})
		cabins := layoutData["cabins"].([]interface{})
		require.Len(t, cabins, 5)

		first := cabins[0].(map[string]interface{})
		assert.Equal(t, "A1", first["name"])
		assert.Equal(t, 25000.0, first["monthly_price"])

		fourth := cabins[3].(map[string]interface{})
		assert.Equal(t, "B1", fourth["name"])
		assert.Equal(t, 30000.0, fourth["monthly_price"])

		log.Printf("✅ POST /halls/:id/layout/preview - SUCCESS")
	})

	t.Run("preview rejects malformed numbers", func(t *testing.T) {
		w, err := suite.makeRequest("POST", fmt.Sprintf("/api/v1/halls/%d/layout/preview", hallID), map[string]interface{}{
			"rows": []map[string]interface{}{
				{"name": "A", "cabin_count": "lots"},
			},
		}, merchantToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		resp, err := parseResponse(w)
		require.NoError(t, err)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)

		details := resp.Error.Details.(map[string]interface{})
		assert.Equal(t, "cabin_count", details["field"])
	})

	t.Run("PUT /halls/:id/layout persists cabins", func(t *testing.T) {
		suite.saveLayout(t, merchantToken, hallID, []map[string]interface{}{
			{"name": "A", "cabin_count": "3"},
			{"name": "B", "cabin_count": "2", "deposit_override": "0"},
		})

		var count int64
		require.NoError(t, suite.db.Model(&domain.Cabin{}).Where("hall_id = ?", hallID).Count(&count).Error)
		assert.Equal(t, int64(5), count)

		// Explicit zero deposit is honored, not replaced by the base.
		b1 := suite.cabinByPosition(t, hallID, "cabin-1-0")
		assert.Equal(t, "B1", b1.Name)
		assert.Equal(t, 0.0, b1.RefundableDeposit)

		log.Printf("✅ PUT /halls/:id/layout - SUCCESS")
	})

	t.Run("cabin identity survives re-saving", func(t *testing.T) {
		before := suite.cabinByPosition(t, hallID, "cabin-1-0")

		// Grow row A; row B's cabins must keep their db records.
		suite.saveLayout(t, merchantToken, hallID, []map[string]interface{}{
			{"name": "A", "cabin_count": "5"},
			{"name": "B", "cabin_count": "2"},
		})

		after := suite.cabinByPosition(t, hallID, "cabin-1-0")
		assert.Equal(t, before.ID, after.ID, "re-saving the layout must not recreate cabins")

		var count int64
		require.NoError(t, suite.db.Model(&domain.Cabin{}).Where("hall_id = ?", hallID).Count(&count).Error)
		assert.Equal(t, int64(7), count)

		log.Printf("✅ Stable cabin identity across layout edits - SUCCESS")
	})

	t.Run("shrinking a row prunes stale cabins", func(t *testing.T) {
		suite.saveLayout(t, merchantToken, hallID, []map[string]interface{}{
			{"name": "A", "cabin_count": "2"},
			{"name": "B", "cabin_count": "2"},
		})

		var count int64
		require.NoError(t, suite.db.Model(&domain.Cabin{}).Where("hall_id = ?", hallID).Count(&count).Error)
		assert.Equal(t, int64(4), count)
	})

	t.Run("GET /halls/:id/layout with maintenance overlay", func(t *testing.T) {
		w, err := suite.makeRequest("PATCH", fmt.Sprintf("/api/v1/halls/%d/cabins/cabin-0-1/status", hallID), map[string]interface{}{
			"status": "maintenance",
		}, merchantToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)

		w, err = suite.makeRequest("GET", fmt.Sprintf("/api/v1/halls/%d/layout", hallID), nil, "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)

		resp, err := parseResponse(w)
		require.NoError(t, err)
		layoutData := resp.Data["layout"].(map[string]interface{})
		cabins := layoutData["cabins"].([]interface{})
		require.Len(t, cabins, 4)

		statuses := map[string]string{}
		for _, raw := range cabins {
			c := raw.(map[string]interface{})
			statuses[c["id"].(string)] = c["status"].(string)
		}
		assert.Equal(t, "maintenance", statuses["cabin-0-1"])
		assert.Equal(t, "available", statuses["cabin-0-0"])

		log.Printf("✅ GET /halls/:id/layout - SUCCESS")
	})

	t.Run("other merchants cannot edit the layout", func(t *testing.T) {
		otherToken := suite.registerAndLogin(t, "rival@test.com", "merchant")

		w, err := suite.makeRequest("PUT", fmt.Sprintf("/api/v1/halls/%d/layout", hallID), map[string]interface{}{
			"rows": []map[string]interface{}{{"name": "Z", "cabin_count": "1"}},
		}, otherToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

// =============================================================================
// Flow 4: Booking, payment, and availability
// =============================================================================

func TestFlow4_BookingPaymentAvailability(t *testing.T) {
	suite := setupTestSuite(t)

	merchantToken := suite.registerAndLogin(t, "owner4@test.com", "merchant")
	studentToken := suite.registerAndLogin(t, "student4@test.com", "student")
	hallID := suite.createApprovedHall(t, merchantToken)
	suite.saveLayout(t, merchantToken, hallID, []map[string]interface{}{
		{"name": "A", "cabin_count": "2"},
	})

	cabin := suite.cabinByPosition(t, hallID, "cabin-0-0")
	startDate := time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339)

	var bookingID int64
	var bookingRef string
	var invID int64
	var outSum string

	t.Run("POST /bookings", func(t *testing.T) {
		w, err := suite.makeRequest("POST", "/api/v1/bookings", map[string]interface{}{
			"hall_id":    hallID,
			"cabin_id":   cabin.ID,
			"start_date": startDate,
			"months":     2,
		}, studentToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, w.Code, "booking failed: %s", w.Body.String())

		resp, err := parseResponse(w)
		require.NoError(t, err)
		b := resp.Data["booking"].(map[string]interface{})
		bookingID = int64(b["id"].(float64))
		bookingRef = b["reference"].(string)
		assert.Equal(t, "pending", b["status"])
		assert.Equal(t, "unpaid", b["payment_status"])
		assert.Equal(t, 50000.0, b["total_price"])

		log.Printf("✅ POST /bookings - SUCCESS (booking_id: %d)", bookingID)
	})

	t.Run("availability still shows available before payment", func(t *testing.T) {
		w, err := suite.makeRequest("GET", fmt.Sprintf("/api/v1/halls/%d/availability", hallID), nil, "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)

		resp, err := parseResponse(w)
		require.NoError(t, err)
		assert.Equal(t, 0.0, resp.Data["occupied_count"])
	})

	t.Run("QR refused before payment", func(t *testing.T) {
		w, err := suite.makeRequest("GET", "/api/v1/bookings/ref/"+bookingRef+"/qr", nil, "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("POST /payments/init", func(t *testing.T) {
		outSum = "50000"
		w, err := suite.makeRequest("POST", "/api/v1/payments/init", map[string]interface{}{
			"booking_id":  bookingID,
			"out_sum":     outSum,
			"description": "Cabin A1, 2 months",
		}, studentToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, w.Code, "init failed: %s", w.Body.String())

		resp, err := parseResponse(w)
		require.NoError(t, err)
		invID = int64(resp.Data["inv_id"].(float64))
		assert.NotEmpty(t, resp.Data["payment_url"])

		log.Printf("✅ POST /payments/init - SUCCESS (inv_id: %d)", invID)
	})

	t.Run("init with wrong amount rejected", func(t *testing.T) {
		w, err := suite.makeRequest("POST", "/api/v1/payments/init", map[string]interface{}{
			"booking_id": bookingID,
			"out_sum":    "1",
		}, studentToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("result callback with bad signature rejected", func(t *testing.T) {
		form := url.Values{}
		form.Set("OutSum", outSum)
		form.Set("InvId", strconv.FormatInt(invID, 10))
		form.Set("SignatureValue", "deadbeef")

		w := suite.postForm("/api/v1/payments/result", form)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("POST /payments/result confirms payment", func(t *testing.T) {
		form := url.Values{}
		form.Set("OutSum", outSum)
		form.Set("InvId", strconv.FormatInt(invID, 10))
		form.Set("SignatureValue", md5Sig(outSum, strconv.FormatInt(invID, 10), gatewayPassword2))

		w := suite.postForm("/api/v1/payments/result", form)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, fmt.Sprintf("OK%d", invID), w.Body.String())

		var b domain.Booking
		require.NoError(t, suite.db.First(&b, bookingID).Error)
		assert.Equal(t, domain.PaymentPaid, b.PaymentStatus)
		assert.Equal(t, domain.BookingActive, b.Status)

		log.Printf("✅ POST /payments/result - SUCCESS")
	})

	t.Run("repeated callback stays OK", func(t *testing.T) {
		form := url.Values{}
		form.Set("OutSum", outSum)
		form.Set("InvId", strconv.FormatInt(invID, 10))
		form.Set("SignatureValue", md5Sig(outSum, strconv.FormatInt(invID, 10), gatewayPassword2))

		w := suite.postForm("/api/v1/payments/result", form)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, fmt.Sprintf("OK%d", invID), w.Body.String())
	})

	t.Run("payment history lists the paid attempt", func(t *testing.T) {
		w, err := suite.makeRequest("GET", fmt.Sprintf("/api/v1/bookings/%d/payments", bookingID), nil, studentToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)

		resp, err := parseResponse(w)
		require.NoError(t, err)
		payments := resp.Data["payments"].([]interface{})
		require.Len(t, payments, 1)
		p := payments[0].(map[string]interface{})
		assert.Equal(t, "paid", p["status"])
		assert.Equal(t, float64(invID), p["inv_id"])

		log.Printf("✅ GET /bookings/:id/payments - SUCCESS")
	})

	t.Run("payment history hidden from strangers", func(t *testing.T) {
		otherToken := suite.registerAndLogin(t, "snoop@test.com", "student")

		w, err := suite.makeRequest("GET", fmt.Sprintf("/api/v1/bookings/%d/payments", bookingID), nil, otherToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("availability shows the cabin occupied", func(t *testing.T) {
		w, err := suite.makeRequest("GET", fmt.Sprintf("/api/v1/halls/%d/availability", hallID), nil, "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)

		resp, err := parseResponse(w)
		require.NoError(t, err)
		assert.Equal(t, 1.0, resp.Data["occupied_count"])
		assert.Equal(t, 0.5, resp.Data["occupancy_rate"])

		cabins := resp.Data["cabins"].(map[string]interface{})
		taken := cabins["cabin-0-0"].(map[string]interface{})
		assert.Equal(t, "occupied", taken["status"])

		log.Printf("✅ GET /halls/:id/availability - SUCCESS")
	})

	t.Run("double booking the occupied cabin conflicts", func(t *testing.T) {
		otherToken := suite.registerAndLogin(t, "late@test.com", "student")

		w, err := suite.makeRequest("POST", "/api/v1/bookings", map[string]interface{}{
			"hall_id":    hallID,
			"cabin_id":   cabin.ID,
			"start_date": startDate,
			"months":     1,
		}, otherToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("GET /bookings/ref/:reference/qr serves PNG", func(t *testing.T) {
		w, err := suite.makeRequest("GET", "/api/v1/bookings/ref/"+bookingRef+"/qr", nil, "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
		assert.NotEmpty(t, w.Body.Bytes())

		log.Printf("✅ GET /bookings/ref/:reference/qr - SUCCESS")
	})

	t.Run("GET /settlements/halls/:id", func(t *testing.T) {
		settlementToken := suite.tokenFor(t, "settlement@test.com")

		w, err := suite.makeRequest("GET", fmt.Sprintf("/api/v1/settlements/halls/%d", hallID), nil, settlementToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code, "settlement failed: %s", w.Body.String())

		resp, err := parseResponse(w)
		require.NoError(t, err)
		settlement := resp.Data["settlement"].(map[string]interface{})
		assert.Equal(t, 1.0, settlement["paid_bookings"])
		assert.Equal(t, 50000.0, settlement["gross_amount"])

		log.Printf("✅ GET /settlements/halls/:id - SUCCESS")
	})

	t.Run("cancel with reason frees the cabin", func(t *testing.T) {
		w, err := suite.makeRequest("POST", fmt.Sprintf("/api/v1/bookings/%d/cancel", bookingID), map[string]interface{}{
			"reason": "semester abroad",
		}, studentToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code, "cancel failed: %s", w.Body.String())

		resp, err := parseResponse(w)
		require.NoError(t, err)
		b := resp.Data["booking"].(map[string]interface{})
		assert.Equal(t, "cancelled", b["status"])
		assert.Equal(t, "semester abroad", b["cancellation_reason"])

		w, err = suite.makeRequest("GET", fmt.Sprintf("/api/v1/halls/%d/availability", hallID), nil, "")
		require.NoError(t, err)
		resp, err = parseResponse(w)
		require.NoError(t, err)
		assert.Equal(t, 0.0, resp.Data["occupied_count"])

		log.Printf("✅ POST /bookings/:id/cancel - SUCCESS")
	})

	t.Run("cancel without reason rejected", func(t *testing.T) {
		w, err := suite.makeRequest("POST", fmt.Sprintf("/api/v1/bookings/%d/cancel", bookingID), map[string]interface{}{}, studentToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// =============================================================================
// Flow 5: Guest checkout
// =============================================================================

func TestFlow5_GuestCheckout(t *testing.T) {
	suite := setupTestSuite(t)

	merchantToken := suite.registerAndLogin(t, "owner5@test.com", "merchant")
	hallID := suite.createApprovedHall(t, merchantToken)
	suite.saveLayout(t, merchantToken, hallID, []map[string]interface{}{
		{"name": "A", "cabin_count": "1"},
	})
	cabin := suite.cabinByPosition(t, hallID, "cabin-0-0")

	var reference string

	t.Run("POST /bookings/guest without a token", func(t *testing.T) {
		w, err := suite.makeRequest("POST", "/api/v1/bookings/guest", map[string]interface{}{
			"hall_id":     hallID,
			"cabin_id":    cabin.ID,
			"start_date":  time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339),
			"months":      1,
			"guest_name":  "Walk In",
			"guest_phone": "+77012223344",
		}, "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, w.Code, "guest checkout failed: %s", w.Body.String())

		resp, err := parseResponse(w)
		require.NoError(t, err)
		b := resp.Data["booking"].(map[string]interface{})
		reference = b["reference"].(string)
		require.NotEmpty(t, reference)
		assert.Nil(t, b["user_id"])

		log.Printf("✅ POST /bookings/guest - SUCCESS")
	})

	t.Run("guest checkout without a phone is rejected", func(t *testing.T) {
		w, err := suite.makeRequest("POST", "/api/v1/bookings/guest", map[string]interface{}{
			"hall_id":    hallID,
			"cabin_id":   cabin.ID,
			"start_date": time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339),
			"months":     1,
			"guest_name": "Walk In",
		}, "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		resp, err := parseResponse(w)
		require.NoError(t, err)
		require.NotNil(t, resp.Error)
		fields := resp.Error.Details.(map[string]interface{})
		assert.Contains(t, fields, "GuestPhone")

		log.Printf("✅ Guest checkout validation - SUCCESS")
	})

	t.Run("GET /bookings/ref/:reference", func(t *testing.T) {
		w, err := suite.makeRequest("GET", "/api/v1/bookings/ref/"+reference, nil, "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)

		resp, err := parseResponse(w)
		require.NoError(t, err)
		b := resp.Data["booking"].(map[string]interface{})
		assert.Equal(t, "Walk In", b["guest_name"])

		log.Printf("✅ GET /bookings/ref/:reference - SUCCESS")
	})

	t.Run("merchant sees the booking on their hall", func(t *testing.T) {
		w, err := suite.makeRequest("GET", fmt.Sprintf("/api/v1/halls/%d/bookings", hallID), nil, merchantToken)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, w.Code)

		resp, err := parseResponse(w)
		require.NoError(t, err)
		bookings := resp.Data["bookings"].([]interface{})
		require.Len(t, bookings, 1)

		log.Printf("✅ GET /halls/:id/bookings - SUCCESS")
	})
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}
