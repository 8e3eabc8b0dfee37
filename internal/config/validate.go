// internal/config/validate.go
package config

import (
	"fmt"
	"net/url"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validTasks = map[string]bool{
	"mediainfo": true, "fingerprint": true, "introskip": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	// Server validation
	if c.Server.Port != 0 && (c.Server.Port < 1 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}

	// Catch-up task scope validation
	for _, task := range c.Catchup.Tasks {
		if !validTasks[task] {
			errs = append(errs, fmt.Sprintf("catchup.tasks: must be one of mediainfo, fingerprint, introskip; got %q", task))
		}
	}
	for name, q := range map[string]QueueConfig{
		"mediainfo":   c.Catchup.Queues.MediaInfo,
		"fingerprint": c.Catchup.Queues.Fingerprint,
		"introskip":   c.Catchup.Queues.IntroSkip,
	} {
		if q.Workers < 0 {
			errs = append(errs, fmt.Sprintf("catchup.queues.%s.workers: must not be negative, got %d", name, q.Workers))
		}
		if q.Capacity < 0 {
			errs = append(errs, fmt.Sprintf("catchup.queues.%s.capacity: must not be negative, got %d", name, q.Capacity))
		}
	}

	// Session monitor validation
	if c.Session != nil {
		if c.Session.URL == "" {
			errs = append(errs, "session.url: required when session is configured")
		} else if _, err := url.Parse(c.Session.URL); err != nil {
			errs = append(errs, fmt.Sprintf("session.url: invalid URL: %v", err))
		}
		if c.Session.MinConfidence < 0 || c.Session.MinConfidence > 1 {
			errs = append(errs, fmt.Sprintf("session.min_confidence: must be between 0 and 1, got %g", c.Session.MinConfidence))
		}
	}

	// Notifications validation
	if c.Notifications.WebhookURL != "" {
		if _, err := url.Parse(c.Notifications.WebhookURL); err != nil {
			errs = append(errs, fmt.Sprintf("notifications.webhook_url: invalid URL: %v", err))
		}
	}

	// Maintenance validation
	if c.Maintenance.EventRetentionDays < 0 {
		errs = append(errs, fmt.Sprintf("maintenance.event_retention_days: must not be negative, got %d", c.Maintenance.EventRetentionDays))
	}

	return errs
}
