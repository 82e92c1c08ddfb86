package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/taxdesk/backend/database"
	"github.com/taxdesk/backend/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	database.DB = db
	return db
}

// newTestRouter wires the same route table as main.go, minus the event
// hub (publishes are dropped when no hub is set).
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	auth := r.Group("/api/auth")
	auth.POST("/register", RegisterUser)
	auth.POST("/login", LoginUser)
	authed := auth.Group("", AuthMiddleware(), RequireRole(models.RoleUser))
	authed.GET("/invoices/:id/download", DownloadOwnInvoice)

	invoices := r.Group("/api/invoices", AuthMiddleware(), RequireRole(models.RoleUser))
	invoices.POST("/create", CreateInvoice)
	invoices.GET("/my-invoices", MyInvoices)

	admin := r.Group("/api/admin")
	admin.POST("/register", RegisterAdmin)
	admin.POST("/login", LoginAdmin)
	guarded := admin.Group("", AuthMiddleware(), RequireRole(models.RoleAdmin))
	guarded.GET("/invoices", AdminListInvoices)
	guarded.GET("/invoices/:id/download", DownloadInvoice)
	guarded.GET("/users", AdminListUsers)
	guarded.PATCH("/:invoiceId", UpdateInvoiceStatus)

	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return out
}

// registerAndLogin creates an identity through the API and returns its
// id and a live token.
func registerAndLogin(t *testing.T, r *gin.Engine, email, role string) (uint, string) {
	t.Helper()
	body := fmt.Sprintf(`{"firstName":"Ann","lastName":"Lee","email":%q,"password":"secret123","company":"Lee Tax Co"}`, email)

	registerPath, loginPath := "/api/auth/register", "/api/auth/login"
	wantCode := http.StatusOK
	if role == models.RoleAdmin {
		registerPath, loginPath = "/api/admin/register", "/api/admin/login"
		wantCode = http.StatusCreated
	}

	w := doJSON(t, r, http.MethodPost, registerPath, "", body)
	if w.Code != wantCode {
		t.Fatalf("register %s: expected %d got %d body=%s", email, wantCode, w.Code, w.Body.String())
	}

	login := fmt.Sprintf(`{"email":%q,"password":"secret123"}`, email)
	w = doJSON(t, r, http.MethodPost, loginPath, "", login)
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200 got %d body=%s", email, w.Code, w.Body.String())
	}

	resp := decodeBody(t, w)
	token, _ := resp["token"].(string)
	if token == "" {
		t.Fatalf("login %s: missing token in %s", email, w.Body.String())
	}

	var user models.User
	if err := database.DB.Where("email = ?", email).First(&user).Error; err != nil {
		t.Fatalf("lookup %s: %v", email, err)
	}
	return user.ID, token
}
