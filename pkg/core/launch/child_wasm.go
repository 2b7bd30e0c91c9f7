//go:build js || wasm || wasip1

package launch

import "github.com/rcarmo/go-wish/pkg/core"

const ChildName = "wish-exec"

// IsChild is always false where processes cannot be started.
func IsChild(args []string) bool { return false }

func RunChild(args []string) int { return core.ExitFailure }
