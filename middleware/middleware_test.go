package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panelstats/api/models"
	"panelstats/api/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(issuer *utils.TokenIssuer, panelKey string) *gin.Engine {
	r := gin.New()
	r.Use(CORSMiddleware("http://localhost:3000"))
	r.GET("/whoami", AuthRequired(issuer, panelKey), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"operator": c.GetInt(OperatorIDKey),
			"panel":    c.GetBool(PanelKey),
		})
	})
	return r
}

func TestAuthRequired_Bearer(t *testing.T) {
	issuer := utils.NewTokenIssuer("secret", time.Hour)
	token, err := issuer.GenerateJWT(&models.Operator{ID: 5, Email: "a@b.org"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	newRouter(issuer, "").ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"operator":5,"panel":false}`, w.Body.String())
}

func TestAuthRequired_Cookie(t *testing.T) {
	issuer := utils.NewTokenIssuer("secret", time.Hour)
	token, err := issuer.GenerateJWT(&models.Operator{ID: 9})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "jwt_token", Value: token})
	newRouter(issuer, "").ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRequired_PanelKey(t *testing.T) {
	issuer := utils.NewTokenIssuer("secret", time.Hour)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-API-KEY", "panel-6")
	newRouter(issuer, "panel-6").ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"operator":0,"panel":true}`, w.Body.String())

	// the key is not accepted on routes that do not allow panels
	w = httptest.NewRecorder()
	newRouter(issuer, "").ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired_Rejects(t *testing.T) {
	issuer := utils.NewTokenIssuer("secret", time.Hour)
	r := newRouter(issuer, "panel-6")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-API-KEY", "wrong")
	req.Header.Set("Authorization", "Bearer garbage")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	r := newRouter(utils.NewTokenIssuer("secret", time.Hour), "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/whoami", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}
