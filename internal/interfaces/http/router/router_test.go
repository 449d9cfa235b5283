package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	bills := NewDomainGroup("bills", "/bills")
	bills.GET("", func(c *gin.Context) { c.String(http.StatusOK, "list") })
	bills.GET("/:id", func(c *gin.Context) { c.String(http.StatusOK, "get "+c.Param("id")) })
	r.Register(bills)

	api := r.Setup()

	assert.Equal(t, "/api/v1", api.BasePath())
	assert.Equal(t, "list", serve(engine, http.MethodGet, "/api/v1/bills").Body.String())
	assert.Equal(t, "get 42", serve(engine, http.MethodGet, "/api/v1/bills/42").Body.String())
	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/bills").Code)
}

func TestRouterMiddleware(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)
	r.Use(func(c *gin.Context) {
		c.Header("X-Api", "yes")
		c.Next()
	})

	group := NewDomainGroup("entities", "/entities").Use(func(c *gin.Context) {
		c.Header("X-Group", "entities")
		c.Next()
	})
	group.GET("", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.Register(group)
	r.Setup()

	w := serve(engine, http.MethodGet, "/api/v1/entities")
	assert.Equal(t, "yes", w.Header().Get("X-Api"))
	assert.Equal(t, "entities", w.Header().Get("X-Group"))
}

func TestDomainGroup_AllMethods(t *testing.T) {
	engine := gin.New()
	api := engine.Group("/api/v1")

	ok := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }
	g := NewDomainGroup("capital_calls", "/capital_calls").
		GET("/:id", ok).
		POST("", ok).
		PUT("/:id", ok).
		PATCH("/:id", ok).
		DELETE("/:id", ok)
	g.RegisterRoutes(api)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		w := serve(engine, method, "/api/v1/capital_calls/1")
		assert.Equal(t, http.StatusOK, w.Code, method)
		assert.Equal(t, method, w.Body.String())
	}
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodPost, "/api/v1/capital_calls").Code)
}

func TestDomainGroup_Subgroups(t *testing.T) {
	engine := gin.New()
	api := engine.Group("/api/v1")

	g := NewDomainGroup("capital_calls", "/capital_calls")
	g.Group("reconcile", "/:id").POST("/reconcile", func(c *gin.Context) {
		c.String(http.StatusOK, "reconcile "+c.Param("id"))
	})
	g.RegisterRoutes(api)

	w := serve(engine, http.MethodPost, "/api/v1/capital_calls/7/reconcile")
	assert.Equal(t, "reconcile 7", w.Body.String())
	assert.Equal(t, "capital_calls", g.Name())
	assert.Equal(t, "/capital_calls", g.Prefix())
}
