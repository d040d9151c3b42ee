package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/shiksha-api/internal/models"
	appErrors "github.com/noah-isme/shiksha-api/pkg/errors"
	"github.com/noah-isme/shiksha-api/pkg/logger"
)

type fakeValidator struct {
	claims *models.JWTClaims
	err    error
	seen   string
}

func (f *fakeValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	f.seen = token
	return f.claims, f.err
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(logger.ContextUserIDKey))
	})
	r.GET("/things/:id", handlers...)
	return r
}

func serve(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/things/42", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestJWTMiddleware(t *testing.T) {
	validator := &fakeValidator{claims: &models.JWTClaims{UserID: "u1", Role: models.RoleTeacher}}
	r := newRouter(JWT(validator))

	rec := serve(r, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(r, "Basic abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(r, "bearer tok-1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", rec.Body.String())
	assert.Equal(t, "tok-1", validator.seen)

	validator.err = appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	rec = serve(r, "Bearer tok-2")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoles(t *testing.T) {
	validator := &fakeValidator{claims: &models.JWTClaims{UserID: "s1", Role: models.RoleStudent}}
	r := newRouter(JWT(validator), RequireRoles(models.RoleTeacher, models.RolePrincipal))

	rec := serve(r, "Bearer tok")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	validator.claims = &models.JWTClaims{UserID: "p1", Role: models.RolePrincipal}
	rec = serve(r, "Bearer tok")
	assert.Equal(t, http.StatusOK, rec.Code)

	bare := newRouter(RequireRoles(models.RoleTeacher))
	rec = serve(bare, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

type fakeLimiter struct {
	hits  map[string]int
	err   error
	limit int
}

func (f *fakeLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.limit = limit
	f.hits[key]++
	return f.hits[key] <= limit, nil
}

type limitedSpy struct {
	paths []string
}

func (s *limitedSpy) RecordRateLimited(path string) {
	s.paths = append(s.paths, path)
}

func TestRateLimit(t *testing.T) {
	limiter := &fakeLimiter{hits: map[string]int{}}
	spy := &limitedSpy{}
	r := newRouter(RateLimit(limiter, 2, time.Minute, spy, nil))

	assert.Equal(t, http.StatusOK, serve(r, "").Code)
	assert.Equal(t, http.StatusOK, serve(r, "").Code)
	rec := serve(r, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "TOO_MANY_REQUESTS")
	assert.Equal(t, []string{"/things/:id"}, spy.paths)
	assert.Equal(t, 2, limiter.limit)
}

func TestRateLimitFailsOpen(t *testing.T) {
	r := newRouter(RateLimit(&fakeLimiter{err: errors.New("redis down")}, 1, time.Minute, nil, nil))
	assert.Equal(t, http.StatusOK, serve(r, "").Code)

	r = newRouter(RateLimit(nil, 1, time.Minute, nil, nil))
	assert.Equal(t, http.StatusOK, serve(r, "").Code)
}

type auditSpy struct {
	entries []*models.AuditLog
}

func (a *auditSpy) Create(ctx context.Context, log *models.AuditLog) error {
	a.entries = append(a.entries, log)
	return nil
}

func TestAuditRecordsSuccessfulWrites(t *testing.T) {
	spy := &auditSpy{}
	validator := &fakeValidator{claims: &models.JWTClaims{UserID: "t1", Role: models.RoleTeacher}}
	r := newRouter(JWT(validator), Audit(spy, nil, models.AuditActionGrade, "homework_submission"))

	rec := serve(r, "Bearer tok")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, spy.entries, 1)
	entry := spy.entries[0]
	assert.Equal(t, models.AuditActionGrade, entry.Action)
	assert.Equal(t, "homework_submission", entry.Resource)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, "t1", *entry.UserID)
	require.NotNil(t, entry.ResourceID)
	assert.Equal(t, "42", *entry.ResourceID)
	assert.Contains(t, string(entry.NewValues), `"status":200`)

	rec = serve(r, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Len(t, spy.entries, 1)
}
