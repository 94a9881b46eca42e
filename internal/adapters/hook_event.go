package adapters

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"depfresh/internal/types"
)

// DecodeHookEvent reads the single JSON event the host writes to stdin.
// Callers treat any decode failure as fail-open.
func DecodeHookEvent(r io.Reader) (types.HookEvent, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return types.HookEvent{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to read hook event").
			WithCause(err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return types.HookEvent{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("empty hook event")
	}
	var event types.HookEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return types.HookEvent{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("malformed hook event").
			WithCause(err)
	}
	return event, nil
}
