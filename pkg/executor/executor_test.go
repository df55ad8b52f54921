package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCommand(t *testing.T) {
	tests := []struct {
		goos string
		want []string
	}{
		{"linux", []string{"xdg-open", "/tmp/heatmap.html"}},
		{"freebsd", []string{"xdg-open", "/tmp/heatmap.html"}},
		{"darwin", []string{"open", "/tmp/heatmap.html"}},
		{"windows", []string{"rundll32", "url.dll,FileProtocolHandler", "/tmp/heatmap.html"}},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			name, args := OpenCommand(tt.goos, "/tmp/heatmap.html")
			assert.Equal(t, tt.want, append([]string{name}, args...))
		})
	}
}

func TestOpener_Open(t *testing.T) {
	m := &MockExecutor{}
	o := &Opener{exec: m, goos: "linux"}

	require.NoError(t, o.Open(context.Background(), "heatmap.svg"))
	assert.Equal(t, [][]string{{"xdg-open", "heatmap.svg"}}, m.Calls)
}

func TestOpener_OpenFailure(t *testing.T) {
	m := &MockExecutor{
		CombinedOutputFunc: func(context.Context, string, ...string) ([]byte, error) {
			return []byte("no display\n"), errors.New("exit status 3")
		},
	}
	o := &Opener{exec: m, goos: "linux"}

	err := o.Open(context.Background(), "heatmap.svg")
	require.Error(t, err)
	assert.Equal(t, "xdg-open heatmap.svg: exit status 3: no display", err.Error())
}
