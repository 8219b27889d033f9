package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waritt/billsplit/internal/calculator"
	"github.com/waritt/billsplit/internal/service"
	"github.com/waritt/billsplit/internal/storage/sqlite"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	svc := service.NewBillService(store, calculator.New(nil))
	ts := httptest.NewServer(NewHandler(svc).Router())
	t.Cleanup(ts.Close)
	return ts
}

func call(t *testing.T, method, url string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp.StatusCode, env
}

func decode(t *testing.T, raw json.RawMessage, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, v))
}

func TestWizardOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	base := ts.URL + "/api/v1"

	// Start a session.
	status, env := call(t, http.MethodPost, base+"/sessions", nil)
	require.Equal(t, http.StatusCreated, status)
	var created struct {
		SessionID string `json:"sessionId"`
	}
	decode(t, env.Data, &created)
	require.NotEmpty(t, created.SessionID)
	session := base + "/sessions/" + created.SessionID

	// The participants gate blocks an empty wizard and surfaces a toast.
	status, env = call(t, http.MethodPost, session+"/next", nil)
	require.Equal(t, http.StatusOK, status)
	var state sessionStateDTO
	decode(t, env.Data, &state)
	assert.Equal(t, "PARTICIPANTS", state.Step)
	assert.NotEmpty(t, state.Toast)

	// Add and name two participants.
	var ids []string
	for _, name := range []string{"Alice", "Bob"} {
		status, env = call(t, http.MethodPost, session+"/participants", nil)
		require.Equal(t, http.StatusCreated, status)
		var p participantDTO
		decode(t, env.Data, &p)
		ids = append(ids, p.ID)

		status, _ = call(t, http.MethodPut, session+"/participants/"+p.ID,
			map[string]string{"name": name})
		require.Equal(t, http.StatusOK, status)
	}

	status, env = call(t, http.MethodPost, session+"/next", nil)
	require.Equal(t, http.StatusOK, status)
	decode(t, env.Data, &state)
	require.Equal(t, "LINE_ITEMS", state.Step)

	// One item at 100.00.
	status, env = call(t, http.MethodPost, session+"/items", nil)
	require.Equal(t, http.StatusCreated, status)
	var item lineItemDTO
	decode(t, env.Data, &item)
	status, _ = call(t, http.MethodPut, session+"/items/"+item.ID,
		map[string]interface{}{"name": "Pizza", "price": 100.0})
	require.Equal(t, http.StatusOK, status)

	// Walk through method choice and assignment (equal skips the gate).
	for _, step := range []string{"SPLIT_METHOD", "ASSIGNMENT", "METADATA"} {
		status, env = call(t, http.MethodPost, session+"/next", nil)
		require.Equal(t, http.StatusOK, status)
		decode(t, env.Data, &state)
		require.Equal(t, step, state.Step)
	}

	// Name the bill, reach results.
	name := "Friday dinner"
	status, _ = call(t, http.MethodPut, session+"/bill", updateBillRequest{Name: &name})
	require.Equal(t, http.StatusOK, status)
	status, env = call(t, http.MethodPost, session+"/next", nil)
	require.Equal(t, http.StatusOK, status)
	decode(t, env.Data, &state)
	require.Equal(t, "RESULTS", state.Step)
	require.Len(t, state.Results, 2)
	for _, r := range state.Results {
		assert.InDelta(t, 50.0, r.Amount, 0.001)
	}

	// Finalize persists the bill.
	status, env = call(t, http.MethodPost, session+"/finalize", nil)
	require.Equal(t, http.StatusCreated, status)
	var finalized struct {
		Bill billDTO `json:"bill"`
	}
	decode(t, env.Data, &finalized)
	require.NotEmpty(t, finalized.Bill.ID)

	// It shows up in the bill list.
	status, env = call(t, http.MethodGet, base+"/bills", nil)
	require.Equal(t, http.StatusOK, status)
	var bills []billDTO
	decode(t, env.Data, &bills)
	require.Len(t, bills, 1)
	assert.Equal(t, "Friday dinner", bills[0].Name)

	// Share hands the payment payload through untouched.
	status, env = call(t, http.MethodPost, base+"/bills/"+finalized.Bill.ID+"/share",
		shareRequest{PromptPayID: "0891234567", QRPayload: "payload", Notes: "thanks"})
	require.Equal(t, http.StatusOK, status)
	var share shareDTO
	decode(t, env.Data, &share)
	assert.Equal(t, "0891234567", share.PromptPayID)
	assert.Equal(t, "payload", share.QRPayload)
	assert.InDelta(t, 100.0, share.FinalTotal, 0.001)

	// Mark paid, then delete.
	status, _ = call(t, http.MethodPost, base+"/bills/"+finalized.Bill.ID+"/pay", nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = call(t, http.MethodDelete, base+"/bills/"+finalized.Bill.ID, nil)
	require.Equal(t, http.StatusNoContent, status)
}

func TestSessionNotFound(t *testing.T) {
	ts := newTestServer(t)
	base := ts.URL + "/api/v1"

	status, env := call(t, http.MethodGet, base+"/sessions/ghost", nil)
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestBillNotFoundOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	base := ts.URL + "/api/v1"

	status, env := call(t, http.MethodGet, base+"/bills/ghost", nil)
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	status, _ = call(t, http.MethodPost, base+"/bills/ghost/pay", nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = call(t, http.MethodPost, base+"/bills/ghost/share", shareRequest{})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestValidationErrorsOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	base := ts.URL + "/api/v1"

	_, env := call(t, http.MethodPost, base+"/sessions", nil)
	var created struct {
		SessionID string `json:"sessionId"`
	}
	decode(t, env.Data, &created)
	session := base + "/sessions/" + created.SessionID

	negative := -7.0
	status, env := call(t, http.MethodPut, session+"/bill", updateBillRequest{VATPercent: &negative})
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)

	status, _ = call(t, http.MethodPut, session+"/items/ghost",
		map[string]interface{}{"name": "x", "price": 1.0})
	assert.Equal(t, http.StatusNotFound, status)

	method := "weighted"
	status, _ = call(t, http.MethodPut, session+"/bill", updateBillRequest{SplitMethod: &method})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
