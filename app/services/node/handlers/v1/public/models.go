package public

// registerPeer is the payload for registering a peer with this node. The
// host is accepted as host:port or in URL form.
type registerPeer struct {
	Host string `json:"host" validate:"required"`
}

// validation is the result of checking the local chain.
type validation struct {
	Valid  bool   `json:"valid"`
	Length int    `json:"length"`
	Error  string `json:"error,omitempty"`
}

// resolution is the result of a resolution pass.
type resolution struct {
	Replaced bool              `json:"replaced"`
	Length   int               `json:"length"`
	Source   string            `json:"source,omitempty"`
	Failures map[string]string `json:"failures,omitempty"`
}
