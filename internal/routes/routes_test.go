package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/congo-pay/payinstr/internal/config"
	"github.com/congo-pay/payinstr/internal/logging"
)

var testNow = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

type testServer struct {
	app   *fiber.App
	redis *miniredis.Miniredis
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	app := fiber.New()
	err = Setup(app, Deps{
		Cfg:    config.Config{AppEnv: "test", SideEffectTimeout: time.Second},
		Cache:  client,
		Logger: logging.Discard(),
		Now:    func() time.Time { return testNow },
	})
	require.NoError(t, err)
	return &testServer{app: app, redis: mr}
}

func (ts *testServer) do(t *testing.T, method, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := ts.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func instructionBody(instruction string) string {
	payload, _ := json.Marshal(map[string]any{
		"accounts": []map[string]any{
			{"id": "A1", "balance": 1000, "currency": "NGN"},
			{"id": "A2", "balance": 0, "currency": "NGN"},
		},
		"instruction": instruction,
	})
	return string(payload)
}

func accountsOf(t *testing.T, body map[string]any) []map[string]any {
	t.Helper()
	list, ok := body["accounts"].([]any)
	require.True(t, ok, "accounts must be a list: %v", body["accounts"])
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		out = append(out, item.(map[string]any))
	}
	return out
}

func TestProcessInstructionExecutes(t *testing.T) {
	ts := setupTestServer(t)

	code, body := ts.do(t, http.MethodPost, "/payment-instructions", instructionBody("DEBIT 500 NGN FROM ACCOUNT A1 FOR CREDIT TO ACCOUNT A2"))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "successful", body["status"])
	assert.Equal(t, "AP00", body["status_code"])
	assert.Equal(t, "DEBIT", body["type"])
	assert.Equal(t, float64(500), body["amount"])
	assert.Nil(t, body["execute_by"])

	accounts := accountsOf(t, body)
	require.Len(t, accounts, 2)
	assert.Equal(t, "A1", accounts[0]["id"])
	assert.Equal(t, float64(500), accounts[0]["balance"])
	assert.Equal(t, float64(1000), accounts[0]["balance_before"])
	assert.Equal(t, float64(500), accounts[1]["balance"])
	assert.Equal(t, float64(0), accounts[1]["balance_before"])
}

func TestProcessInstructionFailures(t *testing.T) {
	ts := setupTestServer(t)

	code, body := ts.do(t, http.MethodPost, "/payment-instructions", instructionBody("DEBIT 2000 NGN FROM ACCOUNT A1 FOR CREDIT TO ACCOUNT A2"))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "failed", body["status"])
	assert.Equal(t, "AC01", body["status_code"])
	for _, acc := range accountsOf(t, body) {
		assert.Equal(t, acc["balance_before"], acc["balance"], "balances must not move on failure")
	}

	code, body = ts.do(t, http.MethodPost, "/payment-instructions", instructionBody("TRANSFER 100 NGN"))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "SY03", body["status_code"])
	for _, field := range []string{"type", "amount", "currency", "debit_account", "credit_account", "execute_by"} {
		assert.Contains(t, body, field)
		assert.Nil(t, body[field], field)
	}
	assert.Empty(t, accountsOf(t, body))

	_, body = ts.do(t, http.MethodPost, "/payment-instructions", instructionBody("DEBIT abc NGN FROM ACCOUNT A1 FOR CREDIT TO ACCOUNT A2"))
	assert.Equal(t, "AM01", body["status_code"])
	assert.Nil(t, body["amount"])
}

func TestProcessInstructionRejectsBadPayloads(t *testing.T) {
	ts := setupTestServer(t)

	for _, payload := range []string{
		`{"instruction": "DEBIT 1 NGN FROM ACCOUNT A1 FOR CREDIT TO ACCOUNT A2"}`,
		`{"accounts": []}`,
		`{"accounts": [{"id": "A1", "balance": "lots", "currency": "NGN"}], "instruction": "x"}`,
		`{not json`,
	} {
		code, body := ts.do(t, http.MethodPost, "/payment-instructions", payload)
		assert.Equal(t, http.StatusBadRequest, code, payload)
		assert.Equal(t, "failed", body["status"], payload)
		assert.Equal(t, "SY03", body["status_code"], payload)
	}
}

func TestProcessInstructionAcceptsWholeNumberBalances(t *testing.T) {
	ts := setupTestServer(t)

	for _, balance := range []string{"1000.0", "1e3"} {
		payload := `{"accounts": [{"id": "A1", "balance": ` + balance + `, "currency": "NGN"}, {"id": "A2", "balance": 0.0, "currency": "NGN"}],` +
			` "instruction": "DEBIT 500 NGN FROM ACCOUNT A1 FOR CREDIT TO ACCOUNT A2"}`
		code, body := ts.do(t, http.MethodPost, "/payment-instructions", payload)
		require.Equal(t, http.StatusOK, code, balance)
		assert.Equal(t, "AP00", body["status_code"], balance)

		accounts := accountsOf(t, body)
		require.Len(t, accounts, 2, balance)
		assert.Equal(t, float64(500), accounts[0]["balance"], balance)
		assert.Equal(t, float64(1000), accounts[0]["balance_before"], balance)
		assert.Equal(t, float64(500), accounts[1]["balance"], balance)
	}

	payload := `{"accounts": [{"id": "A1", "balance": 10.5, "currency": "NGN"}, {"id": "A2", "balance": 0, "currency": "NGN"}],` +
		` "instruction": "DEBIT 5 NGN FROM ACCOUNT A1 FOR CREDIT TO ACCOUNT A2"}`
	code, body := ts.do(t, http.MethodPost, "/payment-instructions", payload)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "SY03", body["status_code"])
	assert.Contains(t, body["status_reason"], "whole number")
}

func TestProcessInstructionRejectsCreditOverflow(t *testing.T) {
	ts := setupTestServer(t)

	payload := `{"accounts": [{"id": "A1", "balance": 100, "currency": "NGN"}, {"id": "A2", "balance": 9223372036854775807, "currency": "NGN"}],` +
		` "instruction": "DEBIT 1 NGN FROM ACCOUNT A1 FOR CREDIT TO ACCOUNT A2"}`
	code, body := ts.do(t, http.MethodPost, "/payment-instructions", payload)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "failed", body["status"])
	assert.Equal(t, "AM01", body["status_code"])
	for _, acc := range accountsOf(t, body) {
		assert.Equal(t, acc["balance_before"], acc["balance"])
	}
}

func TestScheduledTransfersAreListed(t *testing.T) {
	ts := setupTestServer(t)

	body := strings.Replace(instructionBody("CREDIT 100 NGN TO ACCOUNT A2 FOR DEBIT FROM ACCOUNT A1 ON 2025-06-10"), `"NGN"`, `"ngn"`, 1)
	code, resp := ts.do(t, http.MethodPost, "/payment-instructions", body)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "pending", resp["status"])
	assert.Equal(t, "AP02", resp["status_code"])
	assert.Equal(t, "2025-06-10", resp["execute_by"])
	for _, acc := range accountsOf(t, resp) {
		assert.Equal(t, acc["balance_before"], acc["balance"])
	}

	members, err := ts.redis.ZMembers("payinstr:v1:scheduled")
	require.NoError(t, err)
	assert.Len(t, members, 1)

	code, list := ts.do(t, http.MethodGet, "/payment-instructions/scheduled", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "2025-06-01", list["due"])
	assert.Empty(t, list["transfers"])

	code, list = ts.do(t, http.MethodGet, "/payment-instructions/scheduled?due=2025-06-10", "")
	require.Equal(t, http.StatusOK, code)
	transfers, ok := list["transfers"].([]any)
	require.True(t, ok)
	require.Len(t, transfers, 1)
	assert.Equal(t, "A1", transfers[0].(map[string]any)["debit_account"])

	code, _ = ts.do(t, http.MethodGet, "/payment-instructions/scheduled?due=next-week", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestJournalListsProcessedInstructions(t *testing.T) {
	ts := setupTestServer(t)

	ts.do(t, http.MethodPost, "/payment-instructions", instructionBody("DEBIT 500 NGN FROM ACCOUNT A1 FOR CREDIT TO ACCOUNT A2"))
	ts.do(t, http.MethodPost, "/payment-instructions", instructionBody("TRANSFER 100 NGN"))

	code, body := ts.do(t, http.MethodGet, "/payment-instructions/journal?limit=1", "")
	require.Equal(t, http.StatusOK, code)
	entries, ok := body["entries"].([]any)
	require.True(t, ok)
	require.Len(t, entries, 1)
	assert.Equal(t, "SY03", entries[0].(map[string]any)["status_code"])
	assert.NotEmpty(t, entries[0].(map[string]any)["request_id"])

	code, _ = ts.do(t, http.MethodGet, "/payment-instructions/journal?limit=zero", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHealthz(t *testing.T) {
	ts := setupTestServer(t)

	code, body := ts.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, code)
	statuses := body["status"].(map[string]any)
	assert.Equal(t, "disabled", statuses["postgres"])
	assert.Equal(t, "ok", statuses["redis"])
}

func TestSetupRequiresBackendsOutsideDev(t *testing.T) {
	err := Setup(fiber.New(), Deps{Cfg: config.Config{AppEnv: "production"}, Logger: logging.Discard()})
	assert.Error(t, err)
}
