package command

// WebConfig configures the browser client listener. A zero port disables
// it.
type WebConfig struct {
	Port uint16 `json:"port"`
}

func (c *WebConfig) validate() error {
	return nil
}
