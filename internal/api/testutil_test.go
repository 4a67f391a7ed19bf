package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"team_scheduler/internal/api"
	"team_scheduler/internal/domain"
	"team_scheduler/internal/middleware"
	"team_scheduler/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

// testEnv bundles the in-memory stores and the wired router for a test
type testEnv struct {
	db     *gorm.DB
	rdb    *redis.Client
	router *gin.Engine
}

// newTestEnv builds an in-memory SQLite DB, a miniredis-backed client and a
// router wired exactly like cmd/server
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	// Private in-memory database per test
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.LeaveRequest{}))

	// In-process redis
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	r := gin.New()
	r.POST("/api/auth/register", api.RegisterHandler(db))
	r.POST("/api/auth/login", api.LoginHandler(db, testSecret))

	injectRedis := func(c *gin.Context) {
		c.Set("redisClient", rdb)
		c.Next()
	}

	leaveGroup := r.Group("/api/leaves")
	leaveGroup.Use(middleware.JWTAuthMiddleware(testSecret), injectRedis)
	leaveGroup.GET("", api.ListLeavesHandler(db, rdb))
	leaveGroup.POST("", api.CreateLeaveHandler(db))
	leaveGroup.PATCH("/:id/status", middleware.AdminOnlyMiddleware(db), api.UpdateLeaveStatusHandler(db))

	userGroup := r.Group("/api/users")
	userGroup.Use(middleware.JWTAuthMiddleware(testSecret), injectRedis)
	userGroup.GET("/me", api.GetProfileHandler(db, rdb))
	userGroup.PUT("/me", api.UpdateProfileHandler(db))

	return &testEnv{db: db, rdb: rdb, router: r}
}

// createUser inserts a user with a real (cheap) bcrypt hash and returns it
func (e *testEnv) createUser(t *testing.T, name, email, password string, role domain.Role) domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := domain.User{Name: name, Email: email, Password: string(hash), Role: role}
	require.NoError(t, e.db.Create(&user).Error)
	return user
}

// createLeave inserts a leave request owned by the given user
func (e *testEnv) createLeave(t *testing.T, owner domain.User, reason string, start, end string) domain.LeaveRequest {
	t.Helper()
	startDate, err := time.Parse("2006-01-02", start)
	require.NoError(t, err)
	endDate, err := time.Parse("2006-01-02", end)
	require.NoError(t, err)
	leave := domain.LeaveRequest{
		UserID:    owner.ID,
		Reason:    reason,
		StartDate: startDate,
		EndDate:   endDate,
		Status:    domain.StatusPending,
	}
	require.NoError(t, e.db.Create(&leave).Error)
	return leave
}

// tokenFor mints a valid token for the given user
func (e *testEnv) tokenFor(t *testing.T, user domain.User) string {
	t.Helper()
	token, err := utils.GenerateJWT(user.ID, user.Role, testSecret)
	require.NoError(t, err)
	return token
}

// do runs a JSON request through the router, attaching the bearer token when set
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// decode unmarshals a recorded JSON response body into dest
func decode(t *testing.T, w *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest))
}
