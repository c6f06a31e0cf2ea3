// Package loader provides the plugin-like feature loading system.
//
// Each HTTP facing module implements the Feature interface, which defines its
// name, whether it is enabled and its route registration logic.
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// The Manager holds the registry of available features. Register adds a
// feature; LoadAll loads the enabled ones in registration order and stops at
// the first error.
package loader
