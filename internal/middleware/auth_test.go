package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetcare/clinic-api/internal/access"
	"github.com/vetcare/clinic-api/internal/model"
	"github.com/vetcare/clinic-api/pkg/auth"
)

// failingResolver resolves no record, as if every lookup missed.
type failingResolver struct{}

func (failingResolver) ResolveScope(_ context.Context, _ access.Resource, _ uuid.UUID) (*access.RecordScope, error) {
	return nil, sql.ErrNoRows
}

func newAuthTestRouter(t *testing.T) (*gin.Engine, *auth.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := auth.NewTokenService("test-secret", "vetcare", time.Hour)
	engine := gin.New()
	engine.Use(NewAuthMiddleware(tokens).Authenticate())
	engine.GET("/whoami", func(c *gin.Context) {
		identity, ok := Identity(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": identity.UserID, "role": identity.Role})
	})
	engine.GET("/staff-only", RequireStaff(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine, tokens
}

func doRequest(engine *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestAuthenticateMissingHeader(t *testing.T) {
	engine, _ := newAuthTestRouter(t)
	w := doRequest(engine, "/whoami", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateMalformedHeader(t *testing.T) {
	engine, _ := newAuthTestRouter(t)
	w := doRequest(engine, "/whoami", "Basic dXNlcjpwYXNz")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateBadToken(t *testing.T) {
	engine, _ := newAuthTestRouter(t)
	w := doRequest(engine, "/whoami", "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateValidToken(t *testing.T) {
	engine, tokens := newAuthTestRouter(t)

	token, err := tokens.Generate(uuid.New().String(), string(model.RoleVeterinarian), uuid.New().String(), "")
	require.NoError(t, err)

	w := doRequest(engine, "/whoami", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), string(model.RoleVeterinarian))
}

func TestRequireStaffRejectsOwner(t *testing.T) {
	engine, tokens := newAuthTestRouter(t)

	token, err := tokens.Generate(uuid.New().String(), string(model.RoleOwner), "", uuid.New().String())
	require.NoError(t, err)

	w := doRequest(engine, "/staff-only", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireStaffAllowsReceptionist(t *testing.T) {
	engine, tokens := newAuthTestRouter(t)

	token, err := tokens.Generate(uuid.New().String(), string(model.RoleReceptionist), uuid.New().String(), "")
	require.NoError(t, err)

	w := doRequest(engine, "/staff-only", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGuardUnknownRecordStaff(t *testing.T) {
	gin.SetMode(gin.TestMode)

	checker := access.NewChecker(failingResolver{})
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		clinicID := uuid.New()
		c.Set(ContextIdentity, access.Identity{
			UserID:   uuid.New(),
			Role:     model.RoleAdmin,
			ClinicID: &clinicID,
		})
	})
	engine.GET("/animals/:id", Guard(checker, access.ResourceAnimal, "id"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := doRequest(engine, "/animals/"+uuid.New().String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGuardMalformedID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	checker := access.NewChecker(failingResolver{})
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set(ContextIdentity, access.Identity{UserID: uuid.New(), Role: model.RoleAdmin})
	})
	engine.GET("/animals/:id", Guard(checker, access.ResourceAnimal, "id"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := doRequest(engine, "/animals/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
