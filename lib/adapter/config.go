package adapter

import (
	"fmt"
	"strings"
)

const (
	DefaultDurableScheme   = "local"
	DefaultEphemeralScheme = "cache"
	DefaultNamespace       = "DLCS"
)

// Config holds the construction parameters of an adapter.
// A backend is configured when its scheme is not empty, at least one backend is required.
type Config struct {
	// DurableScheme is the scheme served by the durable backend (empty = no durable backend)
	DurableScheme string
	// DurableNamespace is the name under which the durable tree is persisted (and the key of its root)
	DurableNamespace string

	// EphemeralScheme is the scheme served by the ephemeral backend (empty = no ephemeral backend)
	EphemeralScheme string
	// EphemeralNamespace is the key of the ephemeral root
	EphemeralNamespace string

	// TagOrigin wraps read results in an Entry carrying the origin of the value
	TagOrigin bool
}

// DefaultConfig returns a dual-backend configuration ("local" and "cache", both in namespace "DLCS")
func DefaultConfig() Config {
	return Config{
		DurableScheme:      DefaultDurableScheme,
		DurableNamespace:   DefaultNamespace,
		EphemeralScheme:    DefaultEphemeralScheme,
		EphemeralNamespace: DefaultNamespace,
	}
}

// HasDurable reports whether a durable backend is configured
func (c *Config) HasDurable() bool {
	return c.DurableScheme != ""
}

// HasEphemeral reports whether an ephemeral backend is configured
func (c *Config) HasEphemeral() bool {
	return c.EphemeralScheme != ""
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	if !c.HasDurable() && !c.HasEphemeral() {
		return fmt.Errorf("at least one of durable or ephemeral scheme must be set")
	}
	if c.HasDurable() && c.DurableNamespace == "" {
		return fmt.Errorf("durable scheme %q has no namespace", c.DurableScheme)
	}
	if c.HasEphemeral() && c.EphemeralNamespace == "" {
		return fmt.Errorf("ephemeral scheme %q has no namespace", c.EphemeralScheme)
	}
	if c.HasDurable() && c.HasEphemeral() && c.DurableScheme == c.EphemeralScheme {
		return fmt.Errorf("durable and ephemeral backend cannot share the scheme %q", c.DurableScheme)
	}
	return nil
}

// String returns a formatted string representation of the configuration
func (c *Config) String() string {
	var sb strings.Builder

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	if c.HasDurable() {
		addField("Durable", fmt.Sprintf("%s (namespace %s)", c.DurableScheme, c.DurableNamespace))
	} else {
		addField("Durable", "-")
	}
	if c.HasEphemeral() {
		addField("Ephemeral", fmt.Sprintf("%s (namespace %s)", c.EphemeralScheme, c.EphemeralNamespace))
	} else {
		addField("Ephemeral", "-")
	}
	addField("Tag Origin", fmt.Sprintf("%t", c.TagOrigin))

	return sb.String()
}
