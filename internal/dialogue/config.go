package dialogue

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

// Config points at an OpenAI-compatible chat completions server and fixes
// the sampling parameters sent with every request.
type Config struct {
	Host             string  `json:"host"`
	Port             int     `json:"port"`
	Model            string  `json:"model"`
	MaxTokens        int     `json:"max_tokens"`
	Temperature      float64 `json:"temperature"`
	FrequencyPenalty float64 `json:"frequency_penalty"`
	PresencePenalty  float64 `json:"presence_penalty"`
	TopP             float64 `json:"top_p"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if c.Host == "" {
		el.Add(fmt.Errorf("host is required"))
	}
	if c.Port < 1 || c.Port > 65535 {
		el.Add(fmt.Errorf("port %d out of range", c.Port))
	}
	if c.Model == "" {
		el.Add(fmt.Errorf("model is required"))
	}
	if c.MaxTokens < 1 {
		el.Add(fmt.Errorf("max_tokens must be positive"))
	}

	return el.Err()
}
