package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	schemachecker "github.com/bpkcongli/schema-checker"
	"github.com/bpkcongli/schema-checker/pkg/adapters/memory"
	"github.com/bpkcongli/schema-checker/pkg/catalog"
	"github.com/bpkcongli/schema-checker/pkg/domain"
	"github.com/bpkcongli/schema-checker/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Build([]catalog.Definition{
		{
			Name: "signup",
			Mandatory: []catalog.FieldDef{
				{Name: "username", Type: "string"},
				{Name: "age", Type: "number"},
			},
			NonMandatory: []catalog.FieldDef{
				{Name: "newsletter", Type: "boolean"},
			},
		},
	}, catalog.NewRegistry())
	require.NoError(t, err)
	return cat
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeResult(t *testing.T, w *httptest.ResponseRecorder) CheckResult {
	t.Helper()
	var res CheckResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func TestLoadSpec(t *testing.T) {
	doc, err := LoadSpec(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, doc.Paths.Find("/schemas/{name}/check"))
}

func TestCheckPayload(t *testing.T) {
	store := memory.NewStore()
	h, err := NewHandler(testCatalog(t), WithRejectionStore(store))
	require.NoError(t, err)

	tests := []struct {
		name   string
		body   string
		status int
		code   schema.Code
		field  string
	}{
		{"valid", `{"username":"bpkcongli","age":27}`, http.StatusOK, "", ""},
		{"valid with optional", `{"username":"bpkcongli","age":27,"newsletter":true}`, http.StatusOK, "", ""},
		{"empty body", ``, http.StatusUnprocessableEntity, schema.CodeNoPayload, ""},
		{"null", `null`, http.StatusUnprocessableEntity, schema.CodeNoPayload, ""},
		{"zero", `0`, http.StatusUnprocessableEntity, schema.CodeNoPayload, ""},
		{"missing field", `{"username":"bpkcongli"}`, http.StatusUnprocessableEntity, schema.CodeMissingMandatoryField, "age"},
		{"wrong type", `{"username":"bpkcongli","age":"27"}`, http.StatusUnprocessableEntity, schema.CodeTypeMismatch, "age"},
		{"optional wrong type", `{"username":"bpkcongli","age":27,"newsletter":"yes"}`, http.StatusUnprocessableEntity, schema.CodeTypeMismatch, "newsletter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, "POST", "/schemas/signup/check", tt.body)
			assert.Equal(t, tt.status, w.Code)

			res := decodeResult(t, w)
			assert.Equal(t, tt.status == http.StatusOK, res.Valid)
			assert.Equal(t, tt.code, res.Code)
			assert.Equal(t, tt.field, res.Field)
			if tt.status != http.StatusOK {
				assert.NotEmpty(t, res.RejectionID)
			}
		})
	}

	list, err := store.List(context.Background(), 100)
	require.NoError(t, err)
	assert.Len(t, list, 6)
}

func TestCheckPayload_Errors(t *testing.T) {
	h, err := NewHandler(testCatalog(t), WithMaxBodyBytes(16))
	require.NoError(t, err)

	w := do(t, h, "POST", "/schemas/missing/check", `{}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, "POST", "/schemas/signup/check", `{"username":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, "POST", "/schemas/signup/check", `{} {}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, "POST", "/schemas/signup/check", `{"username":"a very long name indeed"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestSchemas(t *testing.T) {
	h, err := NewHandler(testCatalog(t))
	require.NoError(t, err)

	w := do(t, h, "GET", "/schemas", "")
	require.Equal(t, http.StatusOK, w.Code)
	var defs []catalog.Definition
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &defs))
	require.Len(t, defs, 1)
	assert.Equal(t, "signup", defs[0].Name)
	assert.Equal(t, "age", defs[0].Mandatory[1].Name)

	w = do(t, h, "GET", "/schemas/signup", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, "GET", "/schemas/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRejections(t *testing.T) {
	store := memory.NewStore()
	h, err := NewHandler(testCatalog(t), WithRejectionStore(store))
	require.NoError(t, err)

	w := do(t, h, "POST", "/schemas/signup/check", `{"username":"bpkcongli"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	id := decodeResult(t, w).RejectionID

	w = do(t, h, "GET", "/rejections/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	var rej domain.Rejection
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rej))
	assert.Equal(t, "signup", rej.Schema)
	assert.Equal(t, schema.CodeMissingMandatoryField, rej.Code)
	assert.Equal(t, "bpkcongli", rej.Payload["username"])

	do(t, h, "POST", "/schemas/signup/check", `false`)

	w = do(t, h, "GET", "/rejections?limit=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []domain.Rejection
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	w = do(t, h, "GET", "/rejections?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, "GET", "/rejections?limit=0", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, "GET", "/rejections/unknown", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRejections_NoStore(t *testing.T) {
	h, err := NewHandler(testCatalog(t))
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotImplemented, do(t, h, "GET", "/rejections", "").Code)
	assert.Equal(t, http.StatusNotImplemented, do(t, h, "GET", "/rejections/x", "").Code)

	w := do(t, h, "POST", "/schemas/signup/check", `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Empty(t, decodeResult(t, w).RejectionID)
}

func TestInfoAndSpec(t *testing.T) {
	h, err := NewHandler(testCatalog(t), WithMetricsHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("metrics"))
	})))
	require.NoError(t, err)

	w := do(t, h, "GET", "/health", "")
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, h, "GET", "/info", "")
	var info map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "1.0.0", info["api_version"])
	assert.Equal(t, strings.TrimSpace(schemachecker.Version), info["version"])

	w = do(t, h, "GET", "/openapi.yaml", "")
	assert.Contains(t, w.Body.String(), "openapi: 3.0.3")

	w = do(t, h, "GET", "/metrics", "")
	assert.Equal(t, "metrics", w.Body.String())

	w = do(t, h, "OPTIONS", "/schemas", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
