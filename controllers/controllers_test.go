package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"qc-registry/config"
	"qc-registry/controllers"
	"qc-registry/database"
	"qc-registry/grid"
	"qc-registry/middleware"
	"qc-registry/models"
	"qc-registry/repositories"
	"qc-registry/routes"
	"qc-registry/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	// fasthttp keeps a process-wide goroutine refreshing the Date header
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("github.com/valyala/fasthttp.updateServerDate.func1"))
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	config.MAIN_ROUTES = "/api/v1"
	log := zap.NewNop()

	store := repositories.NewStore(database.NewMemoryBackend(), log)
	require.NoError(t, store.Load(context.Background()))

	drafts := grid.NewDraftManager(time.Hour, log)
	t.Cleanup(drafts.Close)

	auth := services.NewAuthService(store.Workers(), store.Sessions(), services.AuthConfig{
		Secret:        "test-secret",
		TTL:           time.Hour,
		AdminID:       "punit",
		AdminPassword: "SAG@123",
	}, log)
	registry := services.NewRegistryService(store, drafts, services.NewMailNotifier(services.MailConfig{}, log), log)
	chats := services.NewChatService(store, auth.Admin(), log)

	app := fiber.New()
	routes.SetupRoutes(app, routes.Controllers{
		Auth:      controllers.NewAuthController(auth, chats, log),
		Dashboard: controllers.NewDashboardController(services.NewLedgerService(store.Records()), registry, log),
		Registry:  controllers.NewRegistryController(registry, log),
		Worker:    controllers.NewWorkerController(services.NewWorkerService(store.Workers(), log), log),
		Chat:      controllers.NewChatController(chats, log),
	}, middleware.NewAuthMiddleware(auth))
	return app
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Total   int             `json:"total"`
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) (int, envelope, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &env))
	}
	return resp.StatusCode, env, raw
}

func login(t *testing.T, app *fiber.App, identity, password string) string {
	t.Helper()
	status, env, _ := call(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"identity": identity,
		"password": password,
	})
	require.Equal(t, http.StatusOK, status)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func enrollWorker(t *testing.T, app *fiber.App, adminToken string) string {
	t.Helper()
	status, _, raw := call(t, app, http.MethodPost, "/api/v1/admin/workers", adminToken, fiber.Map{
		"name":         "Asha",
		"mobileNumber": "9876543210",
		"employeeCode": "GGC-101",
		"role":         "worker",
		"permissions":  []string{string(models.CategorySamplingPart)},
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	return login(t, app, "9876543210", "")
}

func registryPath(category models.QCCategory) string {
	return "/api/v1/registry/" + category.PathSegment()
}

func TestMe_GuestWithoutToken(t *testing.T) {
	app := newTestApp(t)

	status, env, _ := call(t, app, http.MethodGet, "/api/v1/auth/me", "", nil)
	require.Equal(t, http.StatusOK, status)

	var data struct {
		User  models.Worker `json:"user"`
		Guest bool          `json:"guest"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.True(t, data.Guest)
	assert.Equal(t, models.GuestWorkerID, data.User.ID)
}

func TestAuthMiddleware_RejectsBadTokens(t *testing.T) {
	app := newTestApp(t)

	status, _, _ := call(t, app, http.MethodGet, "/api/v1/auth/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	app := newTestApp(t)

	status, env, _ := call(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{"identity": "punit", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, env.Success)

	status, _, _ = call(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{"password": "x"})
	assert.Equal(t, http.StatusBadRequest, status)

	token := login(t, app, "PUNIT", "SAG@123")
	status, env, _ = call(t, app, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"admin-punit"`)
}

func TestDraftFlow_WorkerSavesAndAdminSeesLedger(t *testing.T) {
	app := newTestApp(t)
	adminToken := login(t, app, "punit", "SAG@123")
	workerToken := enrollWorker(t, app, adminToken)

	status, env, raw := call(t, app, http.MethodPost, registryPath(models.CategorySamplingPart)+"/drafts", workerToken, nil)
	require.Equal(t, http.StatusCreated, status, string(raw))

	var view struct {
		ID        string           `json:"id"`
		CanModify bool             `json:"canModify"`
		Rows      []map[string]any `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	require.Len(t, view.Rows, 1)
	assert.True(t, view.CanModify)
	rowID := view.Rows[0]["id"].(string)

	rowPath := "/api/v1/drafts/" + view.ID + "/rows/" + rowID
	status, _, _ = call(t, app, http.MethodPatch, rowPath, workerToken, fiber.Map{"field": "partName", "value": "Bracket"})
	require.Equal(t, http.StatusOK, status)

	status, _, _ = call(t, app, http.MethodPatch, rowPath, workerToken, fiber.Map{"field": "duration", "value": "9.9"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _, raw = call(t, app, http.MethodPost, "/api/v1/drafts/"+view.ID+"/save", workerToken, nil)
	require.Equal(t, http.StatusOK, status, string(raw))

	// a saved draft is released
	status, _, _ = call(t, app, http.MethodGet, "/api/v1/drafts/"+view.ID, workerToken, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, env, _ = call(t, app, http.MethodGet, "/api/v1/records?q=bracket", adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, env.Total)
}

func TestDraft_OtherUserCannotTouchIt(t *testing.T) {
	app := newTestApp(t)
	adminToken := login(t, app, "punit", "SAG@123")
	workerToken := enrollWorker(t, app, adminToken)

	_, env, _ := call(t, app, http.MethodPost, registryPath(models.CategorySamplingPart)+"/drafts", workerToken, nil)
	var view struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))

	status, _, _ := call(t, app, http.MethodGet, "/api/v1/drafts/"+view.ID, adminToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestOpenDraft_Errors(t *testing.T) {
	app := newTestApp(t)
	adminToken := login(t, app, "punit", "SAG@123")
	workerToken := enrollWorker(t, app, adminToken)

	status, _, _ := call(t, app, http.MethodPost, "/api/v1/registry/Nope/drafts", workerToken, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _, _ = call(t, app, http.MethodPost, registryPath(models.CategoryExportOnly)+"/drafts", workerToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestBulkSave_GuestIsReadOnly(t *testing.T) {
	app := newTestApp(t)

	status, _, _ := call(t, app, http.MethodPut, registryPath(models.CategorySegregationRework), "", fiber.Map{
		"rows": []fiber.Map{{"partName": "Hinge", "invoiceQty": "5"}},
	})
	assert.Equal(t, http.StatusForbidden, status)
}

func TestRecords_DeleteNeedsConfirmation(t *testing.T) {
	app := newTestApp(t)
	adminToken := login(t, app, "punit", "SAG@123")

	status, env, raw := call(t, app, http.MethodPut, registryPath(models.CategoryCoatingAdhesion), adminToken, fiber.Map{
		"rows": []fiber.Map{{"partName": "Hinge", "invoiceQty": "5", "ngQty": "1"}},
	})
	require.Equal(t, http.StatusOK, status, string(raw))

	var batch []models.QCRecord
	require.NoError(t, json.Unmarshal(env.Data, &batch))
	require.Len(t, batch, 1)
	assert.Equal(t, models.ResultNG, batch[0].Result)

	status, _, _ = call(t, app, http.MethodDelete, "/api/v1/records/"+batch[0].ID, adminToken, nil)
	assert.Equal(t, http.StatusPreconditionRequired, status)

	status, _, _ = call(t, app, http.MethodDelete, "/api/v1/records/"+batch[0].ID+"?confirm=true", adminToken, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _, _ = call(t, app, http.MethodDelete, "/api/v1/records/"+batch[0].ID+"?confirm=true", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestExport_AdminOnly(t *testing.T) {
	app := newTestApp(t)
	adminToken := login(t, app, "punit", "SAG@123")

	status, _, _ := call(t, app, http.MethodGet, "/api/v1/records/export.xlsx", "", nil)
	assert.Equal(t, http.StatusForbidden, status)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/records/export.xlsx", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), services.ExportFileName)
}

func TestChat_RequiresLogin(t *testing.T) {
	app := newTestApp(t)

	status, _, _ := call(t, app, http.MethodGet, "/api/v1/chat/messages", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}
