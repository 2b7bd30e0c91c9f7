package expand_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rcarmo/go-wish/pkg/core/expand"
)

func TestPID(t *testing.T) {
	tests := []struct {
		name string
		tok  string
		pid  int
		want string
	}{
		{name: "no_marker", tok: "hello", pid: 42, want: "hello"},
		{name: "empty", tok: "", pid: 42, want: ""},
		{name: "single_dollar", tok: "$HOME", pid: 42, want: "$HOME"},
		{name: "bare", tok: "$$", pid: 42, want: "42"},
		{name: "prefix", tok: "file.$$", pid: 1234, want: "file.1234"},
		{name: "suffix", tok: "$$.log", pid: 1234, want: "1234.log"},
		{name: "surrounded", tok: "a$$b", pid: 7, want: "a7b"},
		{name: "twice", tok: "$$-$$", pid: 99, want: "99-99"},
		{name: "adjacent", tok: "$$$$", pid: 5, want: "55"},
		{name: "odd_run", tok: "$$$", pid: 5, want: "5$"},
		{name: "long_pid", tok: "x$$", pid: 4194304, want: "x4194304"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, expand.PID(tt.tok, tt.pid))
		})
	}
}

func TestTokensDoesNotAlias(t *testing.T) {
	in := []string{"echo", "$$", "x$$y"}
	out := expand.Tokens(in, 10)
	assert.Equal(t, []string{"echo", "10", "x10y"}, out)
	assert.Equal(t, []string{"echo", "$$", "x$$y"}, in)
}

func TestPIDLongToken(t *testing.T) {
	// Well past any fixed-size line buffer.
	tok := strings.Repeat("$$", 600)
	got := expand.PID(tok, 123456)
	assert.Equal(t, strings.Repeat("123456", 600), got)
}
