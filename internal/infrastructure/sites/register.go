package sites

import "cinewire/internal/extract"

// RegisterAll fills a registry with every supported site extractor and
// installs the generic fallback for unknown hosts.
func RegisterAll(registry *extract.Registry) {
	registry.Register(NewTelugu123())
	registry.Register(NewGreatAndhra())
	registry.Register(NewGulte())
	registry.Register(NewTelugu360())
	registry.SetFallback(NewGeneric())
}
