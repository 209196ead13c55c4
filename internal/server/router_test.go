package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"pocketbook/internal/config"
	"pocketbook/internal/logger"
	"pocketbook/internal/middleware"
	"pocketbook/internal/seed"
	"pocketbook/internal/services"
	"pocketbook/internal/testutil"
	"pocketbook/internal/validator"
)

// testApp holds the full application stack.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupApp creates the router over an isolated in-memory database seeded
// with the default budgets.
func setupApp(t *testing.T, passcode string) *testApp {
	t.Helper()
	return setupAppWithOptions(t, Options{
		Passcode:    passcode,
		JWTSecret:   "integration-secret",
		TokenTTL:    time.Hour,
		TrendMonths: 6,
	})
}

func setupAppWithOptions(t *testing.T, opts Options) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	defaults, err := seed.DefaultBudgets()
	if err != nil {
		t.Fatalf("failed to load default budgets: %v", err)
	}
	if _, err := services.NewBudgetService(db).SeedDefaults(defaults); err != nil {
		t.Fatalf("failed to seed budgets: %v", err)
	}

	router, err := NewRouter(db, opts)
	if err != nil {
		t.Fatalf("failed to build router: %v", err)
	}
	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// upload posts a CSV file to the import endpoint.
func (app *testApp) upload(t *testing.T, csvBody string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		_ = w.WriteField(k, v)
	}
	part, err := w.CreateFormFile("file", "statement.csv")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	_, _ = part.Write([]byte(csvBody))
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/import", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func (app *testApp) mustCreate(t *testing.T, body string) {
	t.Helper()
	rec := app.request("POST", "/api/v1/transactions", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create failed: %d %s", rec.Code, rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	app := setupApp(t, "")

	rec := app.request("GET", "/api/health", "", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected a request id header")
	}
}

func TestMonthFlow_SummaryAndBreakdown(t *testing.T) {
	app := setupApp(t, "")

	app.mustCreate(t, `{"date":"2024-01-01","account":"Barclays","merchant":"Employer","type":"Income","amount":100000}`)
	app.mustCreate(t, `{"date":"2024-01-02","merchant":"Tesco","category":"Groceries","type":"Expense","amount":25000}`)
	app.mustCreate(t, `{"date":"2024-01-20","merchant":"Lidl","category":"groceries","type":"expense","amount":5000}`)
	app.mustCreate(t, `{"date":"2024-01-21","merchant":"Savings","category":"Transfers","type":"Transfer","amount":40000}`)

	rec := app.request("GET", "/api/v1/reports/summary?month=2024-01", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	summary := parseJSON(t, rec)["summary"].(map[string]interface{})
	if summary["total_income"].(float64) != 100000 || summary["total_expense"].(float64) != 30000 || summary["net"].(float64) != 70000 {
		t.Errorf("unexpected summary %v", summary)
	}

	rec = app.request("GET", "/api/v1/reports/categories?month=2024-01", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	lines := parseJSON(t, rec)["categories"].([]interface{})
	if len(lines) != 1 {
		t.Fatalf("expected one category line, got %v", lines)
	}
	groceries := lines[0].(map[string]interface{})
	if groceries["category"] != "Groceries" || groceries["budget"].(float64) != 20000 || groceries["variance"].(float64) != -10000 {
		t.Errorf("unexpected groceries line %v", groceries)
	}

	rec = app.request("GET", "/api/v1/transactions?month=2024-01", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	page := parseJSON(t, rec)
	if page["total_items"].(float64) != 4 {
		t.Errorf("expected 4 transactions, got %v", page["total_items"])
	}
	first := page["data"].([]interface{})[0].(map[string]interface{})
	if first["date"] != "2024-01-21" {
		t.Errorf("expected newest first, got %v", first["date"])
	}

	rec = app.request("GET", "/api/v1/reports/summary?month=2024-02", "", "")
	empty := parseJSON(t, rec)["summary"].(map[string]interface{})
	if empty["net"].(float64) != 0 {
		t.Errorf("expected empty month to be zero, got %v", empty)
	}
}

func TestImportExportFlow(t *testing.T) {
	app := setupApp(t, "")

	csvBody := "Date,Account,Merchant,Category,Type,Method,Amount,Notes\n" +
		"2024-03-31,Barclays,Tesco,Groceries,Expense,Card,12.50,\n" +
		"garbage,Barclays,Tesco,Groceries,Expense,Card,1.00,\n" +
		"2024-03-02,Barclays,Employer,,Income,Transfer,2500,salary\n"

	rec := app.upload(t, csvBody, map[string]string{"month": "2024-04", "force_month": "true"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if result["inserted"].(float64) != 2 {
		t.Errorf("expected 2 inserted, got %v", result["inserted"])
	}
	if len(result["skipped"].([]interface{})) != 1 {
		t.Errorf("expected 1 skipped, got %v", result["skipped"])
	}

	rec = app.request("GET", "/api/v1/transactions/export?month=2024-04", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %q", rec.Body.String())
	}
	if !strings.Contains(lines[1], "2024-04-30") || !strings.Contains(lines[1], "12.50") {
		t.Errorf("expected clamped grocery row first, got %q", lines[1])
	}

	rec = app.upload(t, "date,account,merchant,category,type,method\n2024-01-01,a,b,c,Expense,Card\n", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	errObj := parseJSON(t, rec)["error"].(map[string]interface{})
	if errObj["code"] != "MISSING_COLUMN" {
		t.Errorf("expected MISSING_COLUMN, got %v", errObj["code"])
	}
}

func TestSubscriptionFlow(t *testing.T) {
	app := setupApp(t, "")

	rec := app.request("POST", "/api/v1/subscriptions", `{"name":"Spotify","amount":1199,"billing_day":31,"account":"Revolut"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = app.request("POST", "/api/v1/subscriptions", `{"name":"Gym","amount":3000,"billing_day":1,"active":false}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	for i := 0; i < 2; i++ {
		rec = app.request("POST", "/api/v1/subscriptions/post?month=2024-04", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if parseJSON(t, rec)["posted"].(float64) != 1 {
			t.Errorf("expected 1 posting, got %v", rec.Body.String())
		}
	}

	rec = app.request("GET", "/api/v1/transactions?month=2024-04", "", "")
	page := parseJSON(t, rec)
	if page["total_items"].(float64) != 2 {
		t.Fatalf("expected 2 posted charges after posting twice, got %v", page["total_items"])
	}
	charge := page["data"].([]interface{})[0].(map[string]interface{})
	if charge["date"] != "2024-04-30" || charge["method"] != "Direct Debit" || charge["category"] != "Subscriptions" {
		t.Errorf("unexpected charge %v", charge)
	}

	rec = app.request("GET", "/api/v1/subscriptions?active=true", "", "")
	if n := len(parseJSON(t, rec)["subscriptions"].([]interface{})); n != 1 {
		t.Errorf("expected 1 active subscription, got %d", n)
	}
}

func TestBudgetAndMetaFlow(t *testing.T) {
	app := setupApp(t, "")

	rec := app.request("PUT", "/api/v1/budgets/Pets", `{"planned":4000}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = app.request("PUT", "/api/v1/budgets/rent", `{"planned":65000}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = app.request("GET", "/api/v1/budgets", "", "")
	budgets := parseJSON(t, rec)["budgets"].([]interface{})
	if len(budgets) != 13 {
		t.Fatalf("expected 13 budgets, got %d", len(budgets))
	}
	rent := budgets[0].(map[string]interface{})
	if rent["category"] != "Rent" || rent["planned"].(float64) != 65000 {
		t.Errorf("expected updated Rent first, got %v", rent)
	}

	rec = app.request("GET", "/api/v1/meta", "", "")
	categories := parseJSON(t, rec)["categories"].([]interface{})
	if categories[len(categories)-1] != "Pets" {
		t.Errorf("expected Pets in meta categories, got %v", categories)
	}
}

func TestDeleteFlow(t *testing.T) {
	app := setupApp(t, "")

	for i := 1; i <= 3; i++ {
		app.mustCreate(t, fmt.Sprintf(`{"date":"2024-05-0%d","type":"Expense","amount":100}`, i))
	}

	rec := app.request("DELETE", "/api/v1/transactions/1", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	rec = app.request("DELETE", "/api/v1/transactions/1", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rec.Code)
	}

	rec = app.request("POST", "/api/v1/transactions/delete", `{"ids":[2,3,99]}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if parseJSON(t, rec)["deleted"].(float64) != 2 {
		t.Errorf("expected 2 deleted, got %s", rec.Body.String())
	}

	rec = app.request("GET", "/api/v1/months", "", "")
	months := parseJSON(t, rec)["months"].([]interface{})
	if len(months) != 1 {
		t.Errorf("expected only the current month once the data is gone, got %v", months)
	}
}

func TestPasscodeFlow(t *testing.T) {
	app := setupApp(t, "2468")

	rec := app.request("GET", "/api/v1/budgets", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", rec.Code)
	}

	rec = app.request("POST", "/api/v1/unlock", `{"passcode":"0000"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 on wrong passcode, got %d", rec.Code)
	}

	rec = app.request("POST", "/api/v1/unlock", `{"passcode":"2468"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	token := parseJSON(t, rec)["access_token"].(string)

	rec = app.request("GET", "/api/v1/budgets", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rec.Code)
	}

	rec = app.request("GET", "/api/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected health to stay public, got %d", rec.Code)
	}
}

func TestPasscodeFlow_UnsetSessionSecret(t *testing.T) {
	t.Setenv("APP_PASSCODE", "hunter2")
	t.Setenv("JWT_SECRET", "")
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	app := setupAppWithOptions(t, Options{
		Passcode:    cfg.AppPasscode,
		JWTSecret:   cfg.JWTSecret,
		TokenTTL:    cfg.JWTExpirationDur,
		TrendMonths: cfg.TrendMonths,
	})

	forged, _, err := middleware.GenerateSessionToken("fallback-secret-key-for-dev-only", time.Hour)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	rec := app.request("GET", "/api/v1/budgets", "", forged)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a token signed with a guessable secret, got %d", rec.Code)
	}

	rec = app.request("POST", "/api/v1/unlock", `{"passcode":"hunter2"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	token := parseJSON(t, rec)["access_token"].(string)

	rec = app.request("GET", "/api/v1/budgets", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with an unlocked session, got %d", rec.Code)
	}
}

func TestNewRouter_RequiresSecretWithPasscode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	if _, err := NewRouter(db, Options{Passcode: "2468", TrendMonths: 6}); err == nil {
		t.Fatal("expected an error for a passcode without a session secret")
	}
}
