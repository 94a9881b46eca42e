package adapters

import (
	"strings"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/require"
)

func TestDecodeHookEvent(t *testing.T) {
	payload := `{"tool": "Write", "params": {"file_path": "package.json", "content": "{}"}}`
	event, err := DecodeHookEvent(strings.NewReader(payload))
	require.NoError(t, err)
	require.Equal(t, "Write", event.Tool)
	require.Equal(t, "package.json", event.Params.FilePath)
	require.Equal(t, "{}", event.Params.Content)
}

func TestDecodeHookEventEmpty(t *testing.T) {
	_, err := DecodeHookEvent(strings.NewReader("  \n"))
	require.Error(t, err)
	require.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestDecodeHookEventMalformed(t *testing.T) {
	_, err := DecodeHookEvent(strings.NewReader(`{"tool": `))
	require.Error(t, err)
	require.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
