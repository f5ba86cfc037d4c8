package config

const (
	defaultClientAPITarget = "http://localhost:8000"

	defaultChatWordWrap = 80
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Client: ClientConfig{
			APITarget: defaultClientAPITarget,
		},
		Chat: ChatConfig{
			WordWrap: defaultChatWordWrap,
		},
	}
}
