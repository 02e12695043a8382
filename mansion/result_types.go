package mansion

// JunctionCreatedResult is sent in JSON mode after a successful mk
type JunctionCreatedResult struct {
	Type   string `json:"type"`
	Path   string `json:"path"`
	Target string `json:"target"`
}

// JunctionRemovedResult is sent in JSON mode after a successful rm
type JunctionRemovedResult struct {
	Type string `json:"type"`
	Path string `json:"path"`
}

// JunctionTargetResult is sent in JSON mode by the target command
type JunctionTargetResult struct {
	Type   string `json:"type"`
	Path   string `json:"path"`
	Target string `json:"target"`
}

// JunctionCheckResult is sent in JSON mode by the check command, once
// per inspected path
type JunctionCheckResult struct {
	Type     string `json:"type"`
	Path     string `json:"path"`
	Junction bool   `json:"junction"`
	Target   string `json:"target,omitempty"`
}
