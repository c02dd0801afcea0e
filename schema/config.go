package schema

// RegistryConfig defines defaults for the tab registry.
type RegistryConfig struct {
	// DefaultSubTab is the secondary tab used when a descriptor has none.
	DefaultSubTab string
}

// DefaultSubTab is the secondary tab shown for a freshly opened key.
const DefaultSubTab = "status"

// NormalizeRegistryConfig applies defaults.
func NormalizeRegistryConfig(cfg RegistryConfig) RegistryConfig {
	if cfg.DefaultSubTab == "" {
		cfg.DefaultSubTab = DefaultSubTab
	}
	return cfg
}
