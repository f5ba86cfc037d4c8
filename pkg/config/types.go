package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent foreman configuration stored as config.toml
// in the .foreman/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version int          `toml:"version"`
	Client  ClientConfig `toml:"client"`
	Chat    ChatConfig   `toml:"chat"`
}

// ClientConfig holds settings for commands that connect to the running
// assistant service (e.g. foreman chat, foreman conversations).
// Values are full URLs (scheme + host + port).
type ClientConfig struct {
	APITarget string `toml:"api_target,omitempty"`
}

// ChatConfig holds chat session settings.
type ChatConfig struct {
	ModelID  string `toml:"model_id,omitempty"`
	WordWrap uint   `toml:"word_wrap,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"client.api_target": {
		get: func(c *Config) string { return c.Client.APITarget },
		set: func(c *Config, v string) error { c.Client.APITarget = v; return nil },
	},
	"chat.model_id": {
		get: func(c *Config) string { return c.Chat.ModelID },
		set: func(c *Config, v string) error { c.Chat.ModelID = v; return nil },
	},
	"chat.word_wrap": {
		get: func(c *Config) string {
			if c.Chat.WordWrap == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Chat.WordWrap), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for chat.word_wrap: %w", err)
			}
			c.Chat.WordWrap = uint(n)
			return nil
		},
	},
}
