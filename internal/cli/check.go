package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bpkcongli/schema-checker/internal/presentation/tui"
	"github.com/bpkcongli/schema-checker/pkg/adapters/loam"
	"github.com/bpkcongli/schema-checker/pkg/schema"
)

// ErrViolations is returned by RunCheck when at least one payload was refused.
var ErrViolations = errors.New("payload check failed")

// CheckOptions selects the payloads to check. Document IDs take precedence
// over File; with neither, the payload is read from Stdin.
type CheckOptions struct {
	Schema string
	Dir    string
	IDs    []string
	File   string
	Stdin  io.Reader
	Out    io.Writer
	Color  bool
}

// RunCheck checks every selected payload against the named schema and prints
// one verdict per payload. It keeps going after a refusal and returns
// ErrViolations if any payload failed.
func RunCheck(ctx context.Context, env *Environment, opts CheckOptions) error {
	checker, err := env.Catalog.Get(opts.Schema)
	if err != nil {
		return err
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	failed := 0
	report := func(label string, payload any) {
		err := checker.Check(payload)
		if err != nil {
			failed++
			env.Logger.Info("Payload rejected", "schema", opts.Schema, "source", label, "code", schema.CodeOf(err))
		}
		tui.PrintVerdict(out, label, err, opts.Color)
	}

	switch {
	case len(opts.IDs) > 0:
		dir := opts.Dir
		if dir == "" {
			dir = "."
		}
		src, err := loam.Open(dir)
		if err != nil {
			return err
		}
		for _, id := range opts.IDs {
			payload, err := src.Payload(ctx, id)
			if err != nil {
				return err
			}
			report(id, payload)
		}

	case opts.File != "":
		data, err := os.ReadFile(opts.File)
		if err != nil {
			return fmt.Errorf("failed to read payload: %w", err)
		}
		payload, err := decodeJSON(data)
		if err != nil {
			return fmt.Errorf("%s: %w", opts.File, err)
		}
		report(opts.File, payload)

	default:
		in := opts.Stdin
		if in == nil {
			in = os.Stdin
		}
		data, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		payload, err := decodeJSON(data)
		if err != nil {
			return fmt.Errorf("stdin: %w", err)
		}
		report("stdin", payload)
	}

	if failed > 0 {
		return ErrViolations
	}
	return nil
}

// decodeJSON decodes a single JSON value keeping numbers as json.Number.
// Blank input decodes to nil, which the checker reports as NO_PAYLOAD.
func decodeJSON(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return nil, errors.New("invalid JSON: unexpected data after value")
	}
	return v, nil
}
