// Package middleware wraps session stores with cross-cutting persistence
// behavior, such as encryption at rest.
package middleware

import "github.com/aretw0/espalier/pkg/ports"

// Middleware allows wrapping a SessionStore to add behavior.
type Middleware func(ports.SessionStore) ports.SessionStore

// Chain applies middlewares so the first listed becomes the outermost
// layer.
func Chain(store ports.SessionStore, mws ...Middleware) ports.SessionStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
