package middleware

import "github.com/aretw0/quester/pkg/ports"

// Middleware allows wrapping a GameStore to add behavior.
type Middleware func(ports.GameStore) ports.GameStore

// Wrap applies mws to store. The first middleware is the outermost.
func Wrap(store ports.GameStore, mws ...Middleware) ports.GameStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
