package tui_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/bpkcongli/schema-checker/internal/presentation/tui"
	"github.com/bpkcongli/schema-checker/pkg/schema"
	"github.com/stretchr/testify/assert"
)

func TestPrintVerdict_Plain(t *testing.T) {
	var buf bytes.Buffer

	tui.PrintVerdict(&buf, "signup.json", nil, false)
	assert.Equal(t, "PASS signup.json\n", buf.String())

	buf.Reset()
	err := &schema.Error{Code: schema.CodeMissingMandatoryField, Field: "username"}
	tui.PrintVerdict(&buf, "stdin", err, false)
	assert.Equal(t, "FAIL stdin NOT_CONTAIN_MANDATORY_FIELD\n     "+err.Error()+"\n", buf.String())
}

func TestPrintVerdict_NonSchemaError(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintVerdict(&buf, "x", errors.New("boom"), false)
	assert.Contains(t, buf.String(), "FAIL x")
	assert.Contains(t, buf.String(), "boom")
}
