package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"kamulog-stk/internal/adapters/http/middleware"
	"kamulog-stk/internal/config"
	"kamulog-stk/internal/core/domain"
	"kamulog-stk/internal/pkg/jwt"
	"kamulog-stk/internal/pkg/metrics"
	"kamulog-stk/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

type apiClient struct {
	t   *testing.T
	app *fiber.App
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	cfg := &config.Config{
		AppMode:  "dev",
		JWT:      config.JWTConfig{Secret: testSecret, AccessTokenMins: 5},
		Assembly: config.AssemblyConfig{MaxProxiesPerReceiver: 1},
	}
	app := fiber.New(fiber.Config{ErrorHandler: middleware.CustomErrorHandler})
	m := metrics.New()
	app.Use(middleware.Metrics(m))
	Setup(app, testutil.NewDB(t), cfg, m)
	return &apiClient{t: t, app: app}
}

func token(t *testing.T, org string, role domain.Role) string {
	t.Helper()
	tok, err := jwt.GenerateAccessToken("user-1", org, string(role), testSecret, 5)
	require.NoError(t, err)
	return tok
}

func (a *apiClient) do(method, path, tok string, body interface{}) (int, envelope) {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	if len(raw) > 0 && resp.Header.Get("Content-Type") == fiber.MIMEApplicationJSON {
		require.NoError(a.t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func dataField(t *testing.T, env envelope, key string) map[string]interface{} {
	t.Helper()
	var data map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data[key]
}

func TestAuthAndRoles(t *testing.T) {
	api := newAPI(t)

	status, _ := api.do(http.MethodGet, "/api/v1/decisions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = api.do(http.MethodGet, "/api/v1/decisions", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	member := token(t, "org-a", domain.RoleMember)
	status, _ = api.do(http.MethodGet, "/api/v1/decisions", member, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = api.do(http.MethodPost, "/api/v1/decisions", member, map[string]string{
		"number": "2026/001", "decision_date": "2026-01-15", "subject": "Üyelik kabulü",
	})
	assert.Equal(t, http.StatusForbidden, status)

	officer := token(t, "org-a", domain.RoleOfficer)
	status, _ = api.do(http.MethodGet, "/api/v1/audit", officer, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = api.do(http.MethodGet, "/api/v1/audit", token(t, "org-a", domain.RoleAdmin), nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestDecisionErrorMapping(t *testing.T) {
	api := newAPI(t)
	officer := token(t, "org-a", domain.RoleOfficer)

	status, env := api.do(http.MethodPost, "/api/v1/decisions", officer, map[string]string{
		"number": "2026/001", "decision_date": "15.01.2026", "subject": "Üyelik kabulü",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", env.Code)

	body := map[string]string{"number": "2026/001", "decision_date": "2026-01-15", "subject": "Üyelik kabulü"}
	status, env = api.do(http.MethodPost, "/api/v1/decisions", officer, body)
	require.Equal(t, http.StatusCreated, status, env.Error)
	decisionID := dataField(t, env, "decision")["id"].(string)

	status, env = api.do(http.MethodPost, "/api/v1/decisions", officer, body)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", env.Code)

	status, _ = api.do(http.MethodPost, "/api/v1/decisions/"+decisionID+"/finalize", officer, nil)
	require.Equal(t, http.StatusOK, status)

	status, env = api.do(http.MethodPut, "/api/v1/decisions/"+decisionID, officer, map[string]string{"subject": "x"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "STATE", env.Code)

	status, env = api.do(http.MethodGet, "/api/v1/decisions/missing", officer, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Code)

	// another organization cannot see the decision
	status, _ = api.do(http.MethodGet, "/api/v1/decisions/"+decisionID, token(t, "org-b", domain.RoleOfficer), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestResignationFlow(t *testing.T) {
	api := newAPI(t)
	officer := token(t, "org-a", domain.RoleOfficer)

	status, env := api.do(http.MethodPost, "/api/v1/members", officer, map[string]string{
		"first_name": "Ayşe", "last_name": "Yılmaz", "status": "ACTIVE",
	})
	require.Equal(t, http.StatusCreated, status, env.Error)
	memberID := dataField(t, env, "member")["id"].(string)

	status, env = api.do(http.MethodPost, "/api/v1/members/"+memberID+"/resignation", officer, map[string]string{"reason": "Taşınma"})
	require.Equal(t, http.StatusOK, status, env.Error)
	assert.Equal(t, "RESIGNATION_REQ", dataField(t, env, "member")["status"])

	status, env = api.do(http.MethodPost, "/api/v1/decisions", officer, map[string]string{
		"number": "2026/002", "decision_date": "2026-02-01", "subject": "İstifa kabulü",
	})
	require.Equal(t, http.StatusCreated, status, env.Error)
	decisionID := dataField(t, env, "decision")["id"].(string)

	confirmPath := "/api/v1/members/" + memberID + "/resignation/confirm"
	status, env = api.do(http.MethodPost, confirmPath, officer, map[string]string{"decision_id": decisionID})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "PRECONDITION", env.Code)

	status, env = api.do(http.MethodPost, confirmPath, officer, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", env.Code)

	status, _ = api.do(http.MethodPost, "/api/v1/decisions/"+decisionID+"/finalize", officer, map[string]interface{}{
		"links": []map[string]string{{"member_id": memberID, "link_type": "RESIGNATION_ACCEPT"}},
	})
	require.Equal(t, http.StatusOK, status)

	status, env = api.do(http.MethodPost, confirmPath, officer, map[string]string{"decision_id": decisionID})
	require.Equal(t, http.StatusOK, status, env.Error)
	assert.Equal(t, "RESIGNED", dataField(t, env, "member")["status"])

	status, env = api.do(http.MethodGet, "/api/v1/resignations?search=ayse", officer, nil)
	require.Equal(t, http.StatusOK, status)
	var out struct {
		Members []map[string]interface{} `json:"members"`
		Counts  map[string]int64         `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.Len(t, out.Members, 1)
	assert.Equal(t, int64(1), out.Counts["RESIGNED"])

	status, env = api.do(http.MethodGet, "/api/v1/audit?entity_type=MEMBER&entity_id="+memberID, token(t, "org-a", domain.RoleAdmin), nil)
	require.Equal(t, http.StatusOK, status)
	var audit struct {
		Entries []map[string]interface{} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &audit))
	assert.Len(t, audit.Entries, 3)
}

func TestAssemblyQuorumEndpoint(t *testing.T) {
	api := newAPI(t)
	officer := token(t, "org-a", domain.RoleOfficer)

	var ids []string
	for _, name := range []string{"Ali", "Veli", "Can"} {
		status, env := api.do(http.MethodPost, "/api/v1/members", officer, map[string]string{
			"first_name": name, "last_name": "Demir", "status": "ACTIVE",
		})
		require.Equal(t, http.StatusCreated, status, env.Error)
		ids = append(ids, dataField(t, env, "member")["id"].(string))
	}

	status, env := api.do(http.MethodPost, "/api/v1/assemblies", officer, map[string]interface{}{
		"type": "OLAGAN", "number": "OGK-2026", "date": "2026-03-28T10:00:00Z", "quorum_required": 2,
		"agenda": []map[string]string{{"title": "Açılış"}},
	})
	require.Equal(t, http.StatusCreated, status, env.Error)
	assemblyID := dataField(t, env, "assembly")["id"].(string)
	base := "/api/v1/assemblies/" + assemblyID

	status, env = api.do(http.MethodPost, base+"/attendees", officer, map[string]string{"member_id": ids[0]})
	require.Equal(t, http.StatusCreated, status, env.Error)

	status, env = api.do(http.MethodPost, base+"/proxies", officer, map[string]string{"giver_id": ids[1], "receiver_id": ids[1]})
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = api.do(http.MethodPost, base+"/proxies", officer, map[string]string{"giver_id": ids[1], "receiver_id": ids[0]})
	require.Equal(t, http.StatusCreated, status, env.Error)
	proxyID := dataField(t, env, "proxy")["id"].(string)

	status, env = api.do(http.MethodPost, base+"/proxies", officer, map[string]string{"giver_id": ids[2], "receiver_id": ids[0]})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", env.Code)

	status, env = api.do(http.MethodGet, base+"/quorum", officer, nil)
	require.Equal(t, http.StatusOK, status)
	quorum := dataField(t, env, "quorum")
	assert.EqualValues(t, 1, quorum["voting_count"])
	assert.Equal(t, false, quorum["met"])

	status, _ = api.do(http.MethodPut, base+"/proxies/"+proxyID+"/approval", officer, map[string]bool{"approved": true})
	require.Equal(t, http.StatusOK, status)

	status, env = api.do(http.MethodGet, base+"/quorum", officer, nil)
	require.Equal(t, http.StatusOK, status)
	quorum = dataField(t, env, "quorum")
	assert.EqualValues(t, 2, quorum["voting_count"])
	assert.Equal(t, true, quorum["met"])

	for _, target := range []string{"IN_PROGRESS", "COMPLETED"} {
		status, _ = api.do(http.MethodPut, base+"/status", officer, map[string]string{"status": target})
		require.Equal(t, http.StatusOK, status)
	}
	status, env = api.do(http.MethodPost, base+"/attendees", officer, map[string]string{"member_id": ids[2]})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "STATE", env.Code)
}

func TestOpsEndpoints(t *testing.T) {
	api := newAPI(t)

	status, _ := api.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = api.do(http.MethodGet, "/api/v1", "", nil)
	assert.Equal(t, http.StatusOK, status)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "stk_http_requests_total")
}
