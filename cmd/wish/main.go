// Command wish is the interactive interpreter. The same binary serves as
// the child launch stub when started as wish-exec.
package main

import (
	"os"

	"github.com/rcarmo/go-wish/pkg/applets/wish"
	"github.com/rcarmo/go-wish/pkg/core"
	"github.com/rcarmo/go-wish/pkg/core/launch"
)

func main() {
	if launch.IsChild(os.Args) {
		os.Exit(launch.RunChild(os.Args))
	}
	stdio := core.DefaultStdio()
	os.Exit(wish.Run(stdio, os.Args[1:]))
}
