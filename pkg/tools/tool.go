// Package tools defines the tool abstraction the reasoning loop dispatches
// to, plus a registry of the built-in tools.
package tools

import "context"

// Tool is a capability the model can invoke from the loop. Params arrive
// as the raw text between the action tags; each tool decides how to
// interpret it.
type Tool interface {
	Name() string
	Description() string
	Execute(ctx context.Context, params string) (string, error)
}
