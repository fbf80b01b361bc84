// Package state translates identifier-level reads and writes into
// address-level operations against an injected key-value context. Multiple
// identifiers can hash into one address bucket, so the value stored at an
// address is a container: an ordered list of entries, one per identifier.
// This layer absorbs those collisions transparently and keeps a
// per-invocation cache of decoded containers.
package state

import "context"

// StateContext is the external key-value collaborator the execution engine
// injects. GetState returns the raw bytes stored at each requested address;
// addresses with no stored value are simply absent from the result.
// SetState writes raw bytes at each address and returns the addresses it
// committed. Either call may fail with a timeout or transport fault, which
// is fatal for the invocation.
type StateContext interface {
	GetState(ctx context.Context, addresses []string) (map[string][]byte, error)
	SetState(ctx context.Context, entries map[string][]byte) ([]string, error)
}
