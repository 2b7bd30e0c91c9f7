//go:build js || wasm || wasip1

package wish

import "github.com/rcarmo/go-wish/pkg/core"

// Run is a stub that returns an error on WASM platforms where processes
// cannot be started.
func Run(stdio *core.Stdio, args []string) int {
	stdio.Errorf("wish: not supported in wasm\n")
	return core.ExitFailure
}
