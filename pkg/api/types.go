package api

// APIResponse is the envelope for all JSON responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig configures the REST API server.
type ServerConfig struct {
	Bind   string
	Port   int
	APIKey string
}

// tagsRequest mutates a key's tag list: additions are applied before
// removals, each as its own merge operand.
type tagsRequest struct {
	Add    []string `json:"add,omitempty"`
	Remove []string `json:"remove,omitempty"`
}

// counterRequest adjusts a counter by a signed delta.
type counterRequest struct {
	Delta int64 `json:"delta"`
}

type counterResponse struct {
	Key   string `json:"key"`
	Value int64  `json:"value"`
}

type kvResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type tagsResponse struct {
	Key  string   `json:"key"`
	Tags []string `json:"tags"`
}
