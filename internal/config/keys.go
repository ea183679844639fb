package config

import "fmt"

// KeyStatus describes whether credentials are configured, without
// exposing the values themselves.
type KeyStatus struct {
	Name       string
	Configured bool
	Masked     string
	Note       string
}

// CheckAPIKeys reports the status of every credential the application
// can use. The news key is optional: without it the pipeline skips the
// keyed source and relies on the public feed fallback.
func (c *Config) CheckAPIKeys() []KeyStatus {
	statuses := []KeyStatus{
		{
			Name:       "NewsAPI",
			Configured: c.News.APIKey != "",
			Masked:     maskKey(c.News.APIKey),
			Note:       "optional; public feed used as fallback when absent",
		},
		{
			Name:       "LLM",
			Configured: c.LLM.APIKey != "",
			Masked:     maskKey(c.LLM.APIKey),
			Note:       "required for report composition",
		},
	}
	return statuses
}

// maskKey hides all but the first and last two characters of a key.
func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 6 {
		return "****"
	}
	return fmt.Sprintf("%s****%s", key[:2], key[len(key)-2:])
}
