// Package middleware decorates rejection stores.
package middleware

import "github.com/bpkcongli/schema-checker/pkg/ports"

// Middleware allows wrapping a RejectionStore to add behavior.
type Middleware func(ports.RejectionStore) ports.RejectionStore

// Chain applies mws so that the first one is the outermost wrapper.
func Chain(store ports.RejectionStore, mws ...Middleware) ports.RejectionStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
