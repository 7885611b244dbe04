package http

import (
	"bytes"
	"context"
	"io"
	"net/http"

	schemachecker "github.com/bpkcongli/schema-checker"
	"github.com/bpkcongli/schema-checker/pkg/schema"
)

type payloadKey struct{}

// PayloadFromContext returns the payload decoded by Middleware.
func PayloadFromContext(ctx context.Context) (schema.Payload, bool) {
	p, ok := ctx.Value(payloadKey{}).(schema.Payload)
	return p, ok
}

// Middleware rejects requests whose JSON body does not pass checker.
// Accepted requests reach next with the original body restored and the
// decoded payload available through PayloadFromContext.
// Options other than WithRejectionStore, WithMaxBodyBytes and WithLogger are ignored.
func Middleware(checker *schemachecker.SchemaChecker, opts ...Option) func(http.Handler) http.Handler {
	s := newServer(opts)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			payload, raw, err := decodeBody(w, r, s.MaxBodyBytes)
			if err != nil {
				s.badBody(w, err)
				return
			}

			if err := checker.Check(payload); err != nil {
				s.reject(w, r, checker.Name(), payload, err)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(raw))
			r.ContentLength = int64(len(raw))
			if p, ok := schemachecker.AsPayload(payload); ok {
				r = r.WithContext(context.WithValue(r.Context(), payloadKey{}, p))
			}
			next.ServeHTTP(w, r)
		})
	}
}
