//go:build !js && !wasm && !wasip1

package wish_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rcarmo/go-wish/pkg/core/launch"
	"github.com/rcarmo/go-wish/pkg/testutil"
)

// Comment lines must never reach a launcher or touch session state.
func FuzzCommentLine(f *testing.F) {
	f.Add("# echo hi")
	f.Add("#sleep 30 &")
	f.Add("#cd / > out")
	f.Fuzz(func(t *testing.T, rest string) {
		rest = testutil.ClampString(rest, testutil.MaxFuzzBytes)
		line := "#" + strings.ReplaceAll(rest, "\n", " ")
		s := newSession(t, "", nil)
		code, done := s.sh.Execute(line)
		assert.False(t, done)
		assert.Zero(t, code)
		assert.Empty(t, s.out.String())
		assert.Empty(t, s.sh.Jobs())
		assert.Equal(t, launch.Status{}, s.sh.State().LastStatus)
	})
}
