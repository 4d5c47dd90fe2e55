package handler

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleHTTPTrigger_UnwrapsAndReplays(t *testing.T) {
	deps := &Dependencies{}

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/report", r.URL.Path)
		assert.Equal(t, "CB", r.URL.Query().Get("payments"))
		WriteJSON(w, http.StatusOK, map[string]string{"ok": "yes"})
	})

	var envelope HTTPTriggerRequest
	envelope.Data.Req.Method = http.MethodGet
	envelope.Data.Req.URL = "http://localhost/api/report?payments=CB"
	body, _ := json.Marshal(envelope)

	req := httptest.NewRequest(http.MethodPost, "/HttpTrigger", bytes.NewReader(body))
	w := httptest.NewRecorder()

	deps.HandleHTTPTrigger(inner)(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp HTTPTriggerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusOK, resp.Outputs.Res.StatusCode)
	assert.JSONEq(t, `{"ok": "yes"}`, resp.Outputs.Res.Body)
	assert.Equal(t, "application/json", resp.Outputs.Res.Headers["Content-Type"])
}

func TestHandleHTTPTrigger_Base64Body(t *testing.T) {
	deps := &Dependencies{}

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ := io.ReadAll(r.Body)
		assert.Equal(t, "plain text body", string(got))
		w.WriteHeader(http.StatusOK)
	})

	var envelope HTTPTriggerRequest
	envelope.Data.Req.Method = http.MethodPost
	envelope.Data.Req.URL = "http://localhost/api/upload"
	envelope.Data.Req.Body = base64.StdEncoding.EncodeToString([]byte("plain text body"))
	envelope.Data.Req.IsBase64Encoded = true
	body, _ := json.Marshal(envelope)

	req := httptest.NewRequest(http.MethodPost, "/HttpTrigger", bytes.NewReader(body))
	w := httptest.NewRecorder()

	deps.HandleHTTPTrigger(inner)(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleHTTPTrigger_InvalidEnvelope(t *testing.T) {
	deps := &Dependencies{}

	req := httptest.NewRequest(http.MethodPost, "/HttpTrigger", bytes.NewBufferString("not json"))
	w := httptest.NewRecorder()

	deps.HandleHTTPTrigger(http.NotFoundHandler())(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
