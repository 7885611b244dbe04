package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/bpkcongli/schema-checker/internal/config"
	"github.com/bpkcongli/schema-checker/internal/testutils"
	"github.com/bpkcongli/schema-checker/pkg/adapters/memory"
	"github.com/bpkcongli/schema-checker/pkg/catalog"
	"github.com/bpkcongli/schema-checker/pkg/domain"
	"github.com/bpkcongli/schema-checker/pkg/metrics"
	"github.com/bpkcongli/schema-checker/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
log:
  level: warn
schemas:
  signup:
    description: New accounts
    mandatory:
      username: string
      password: string
    non_mandatory:
      contactPerson: ContactPerson
      age: number
`

type ContactPerson struct {
	Name string
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func loadEnv(t *testing.T) *Environment {
	t.Helper()
	path := writeFile(t, t.TempDir(), "schemachecker.yaml", testConfig)

	reg := catalog.NewRegistry()
	reg.MustRegister("ContactPerson", schema.Class[ContactPerson]())

	env, err := Load(Options{ConfigPath: path, Registry: reg})
	require.NoError(t, err)
	return env
}

func TestLoad(t *testing.T) {
	env := loadEnv(t)
	assert.Equal(t, []string{"signup"}, env.Catalog.Names())
	assert.Equal(t, "warn", env.Config.Log.Level)

	checker, err := env.Catalog.Get("signup")
	require.NoError(t, err)
	assert.Equal(t, []string{"username", "password"}, checker.Mandatory().Names())
	assert.Equal(t, []string{"contactPerson", "age"}, checker.NonMandatory().Names())
}

func TestLoad_Errors(t *testing.T) {
	path := writeFile(t, t.TempDir(), "schemachecker.yaml", testConfig)

	_, err := Load(Options{ConfigPath: path})
	assert.ErrorIs(t, err, catalog.ErrUnknownType, "ContactPerson is not registered")

	_, err = Load(Options{ConfigPath: path, LogLevel: "chatty"})
	assert.Error(t, err)

	_, err = Load(Options{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestLoad_NoConfig(t *testing.T) {
	env, err := Load(Options{})
	require.NoError(t, err)
	assert.Empty(t, env.Catalog.Names())
	assert.Equal(t, 8080, env.Config.Server.Port)
}

func TestRunCheck_Stdin(t *testing.T) {
	env := loadEnv(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   string
		wantErr bool
		output  string
	}{
		{"valid", `{"username":"bpkcongli","password":"supersecret","age":27}`, false, "PASS stdin"},
		{"blank", "  \n", true, "FAIL stdin NO_PAYLOAD"},
		{"missing", `{"username":"bpkcongli"}`, true, "FAIL stdin NOT_CONTAIN_MANDATORY_FIELD"},
		{"mismatch", `{"username":"bpkcongli","password":"x","age":"27"}`, true, "FAIL stdin DATA_TYPE_NOT_MATCH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := RunCheck(ctx, env, CheckOptions{
				Schema: "signup",
				Stdin:  strings.NewReader(tt.input),
				Out:    &out,
			})
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrViolations)
			} else {
				assert.NoError(t, err)
			}
			assert.Contains(t, out.String(), tt.output)
		})
	}
}

func TestRunCheck_Errors(t *testing.T) {
	env := loadEnv(t)
	ctx := context.Background()
	var out bytes.Buffer

	err := RunCheck(ctx, env, CheckOptions{Schema: "unknown", Stdin: strings.NewReader("{}"), Out: &out})
	assert.ErrorIs(t, err, catalog.ErrUnknownSchema)

	err = RunCheck(ctx, env, CheckOptions{Schema: "signup", Stdin: strings.NewReader("{"), Out: &out})
	assert.ErrorContains(t, err, "invalid JSON")

	err = RunCheck(ctx, env, CheckOptions{Schema: "signup", Stdin: strings.NewReader("{} {}"), Out: &out})
	assert.ErrorContains(t, err, "unexpected data")

	err = RunCheck(ctx, env, CheckOptions{Schema: "signup", File: filepath.Join(t.TempDir(), "nope.json"), Out: &out})
	assert.Error(t, err)
}

func TestRunCheck_File(t *testing.T) {
	env := loadEnv(t)
	path := writeFile(t, t.TempDir(), "payload.json", `{"username":"a","password":"b"}`)

	var out bytes.Buffer
	err := RunCheck(context.Background(), env, CheckOptions{Schema: "signup", File: path, Out: &out})
	require.NoError(t, err)
	assert.Equal(t, "PASS "+path+"\n", out.String())
}

func TestRunCheck_Documents(t *testing.T) {
	env := loadEnv(t)
	dir := testutils.WritePayloads(t, map[string]string{
		"good.json": `{"username": "bpkcongli", "password": "supersecret"}`,
		"bad.json":  `{"username": "bpkcongli"}`,
	})

	var out bytes.Buffer
	err := RunCheck(context.Background(), env, CheckOptions{
		Schema: "signup",
		Dir:    dir,
		IDs:    []string{"good", "bad"},
		Out:    &out,
	})
	assert.ErrorIs(t, err, ErrViolations)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Equal(t, "PASS good", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "FAIL bad NOT_CONTAIN_MANDATORY_FIELD"))
}

func TestDescribe_Raw(t *testing.T) {
	env := loadEnv(t)

	var out bytes.Buffer
	require.NoError(t, Describe(env, DescribeOptions{Out: &out}))
	assert.Contains(t, out.String(), "## signup")
	assert.Contains(t, out.String(), "| `contactPerson` | ContactPerson |")
	assert.Contains(t, out.String(), "- `ContactPerson`")
}

func TestDescribe_Styled(t *testing.T) {
	env := loadEnv(t)

	var out bytes.Buffer
	require.NoError(t, Describe(env, DescribeOptions{Out: &out, Styled: true, Width: 80}))
	assert.Contains(t, out.String(), "signup")
}

func TestNewRejectionStore(t *testing.T) {
	ctx := context.Background()

	cfg := config.Default()
	store, closeFn, err := NewRejectionStore(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, store)
	assert.NoError(t, closeFn())

	cfg.Server.RecordRejections = false
	store, _, err = NewRejectionStore(ctx, cfg)
	require.NoError(t, err)
	assert.Nil(t, store)

	cfg = config.Default()
	cfg.Server.MaskFields = []string{"password"}
	store, _, err = NewRejectionStore(ctx, cfg)
	require.NoError(t, err)
	rej := domain.NewRejection("signup", map[string]any{"password": "hunter2"}, &schema.Error{Code: schema.CodeMissingMandatoryField, Field: "username"})
	require.NoError(t, store.Save(ctx, rej))
	loaded, err := store.Load(ctx, rej.ID)
	require.NoError(t, err)
	assert.Equal(t, "***", loaded.Payload["password"])

	cfg.Server.MaskFields = []string{"("}
	_, _, err = NewRejectionStore(ctx, cfg)
	assert.Error(t, err)

	mr := miniredis.RunT(t)
	cfg = config.Default()
	cfg.Redis.Addr = mr.Addr()
	store, closeFn, err = NewRejectionStore(ctx, cfg)
	require.NoError(t, err)
	require.NotNil(t, store)
	defer closeFn()

	list, err := store.List(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, list)

	cfg.Redis.Addr = "127.0.0.1:1"
	_, _, err = NewRejectionStore(ctx, cfg)
	assert.Error(t, err)
}

func TestNewHandler_Metrics(t *testing.T) {
	collector := metrics.New()
	path := writeFile(t, t.TempDir(), "schemachecker.yaml", `
schemas:
  ping:
    mandatory:
      id: string
`)
	env, err := Load(Options{ConfigPath: path, Hooks: collector.Hooks()})
	require.NoError(t, err)

	handler, closeFn, err := NewHandler(context.Background(), env, ServeOptions{Collector: collector})
	require.NoError(t, err)
	defer closeFn()

	req := httptest.NewRequest("POST", "/schemas/ping/check", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	req = httptest.NewRequest("GET", "/metrics", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `schemachecker_violations_total{code="NOT_CONTAIN_MANDATORY_FIELD",field="id",schema="ping"} 1`)

	req = httptest.NewRequest("GET", "/rejections", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
