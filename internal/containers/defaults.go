package containers

import "github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"

// ProviderRegistrar accepts container providers.
type ProviderRegistrar interface {
	RegisterProvider(p driven.ContainerProvider) error
}

// RegisterDefaults registers the built-in providers with r. The exclude
// provider is registered only when exclude is non-empty.
func RegisterDefaults(r ProviderRegistrar, exclude []string) error {
	if len(exclude) > 0 {
		p, err := NewExclude(exclude)
		if err != nil {
			return err
		}
		if err := r.RegisterProvider(p); err != nil {
			return err
		}
	}
	if err := r.RegisterProvider(NewDirectory()); err != nil {
		return err
	}
	return r.RegisterProvider(NewArchive())
}
