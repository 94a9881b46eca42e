package types

// HookEvent is the JSON object the host writes to stdin, one per
// invocation.
type HookEvent struct {
	Tool   string     `json:"tool"`
	Params HookParams `json:"params"`
}

type HookParams struct {
	FilePath string `json:"file_path"`
	Content  string `json:"content"`
}

// HookResponse is the informational JSON object printed on stdout.
// An allow with nothing to report is the empty object.
type HookResponse struct {
	Decision string `json:"decision,omitempty"`
	Reason   string `json:"reason,omitempty"`
}
