/*
registry.go - Variant registration and lookup

PURPOSE:
  Provides a registry for domain packages to register their variant
  discriminators. The engine stays domain-agnostic while the API layer
  and tests can enumerate the closed set of known variants.

HOW IT WORKS:
  1. Domain packages define their Variant implementations
  2. Domain packages register them on init()
  3. The API layer and exhaustiveness tests use the registry

USAGE:
  // In payments/types.go
  func init() {
      engine.RegisterVariant(MethodCard)
      engine.RegisterVariant(MethodWallet)
  }

  // In the API layer
  v, err := engine.LookupVariant("card")  // returns payments.MethodCard

WHY A REGISTRY:
  - Engine package stays domain-agnostic
  - The variant set is closed and enumerable
  - Clean resolution from wire-level discriminator strings
  - Domains own their types

SEE ALSO:
  - types.go: Variant interface definition
  - payments/types.go, lending/types.go: Concrete variant sets
*/
package engine

import "sync"

// =============================================================================
// VARIANT REGISTRY
// =============================================================================

var (
	variantRegistry = make(map[string]Variant)
	registryMu      sync.RWMutex
)

// RegisterVariant adds a variant to the global registry.
// Call this from domain package init() functions.
func RegisterVariant(v Variant) {
	registryMu.Lock()
	defer registryMu.Unlock()
	variantRegistry[v.VariantID()] = v
}

// LookupVariant finds a registered variant by discriminator.
func LookupVariant(id string) (Variant, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	v, ok := variantRegistry[id]
	if !ok {
		return nil, ErrVariantNotRegistered
	}
	return v, nil
}

// ListVariants returns all registered variants.
func ListVariants() []Variant {
	registryMu.RLock()
	defer registryMu.RUnlock()
	result := make([]Variant, 0, len(variantRegistry))
	for _, v := range variantRegistry {
		result = append(result, v)
	}
	return result
}

// ListVariantsByDomain returns variants for a specific domain.
func ListVariantsByDomain(domain string) []Variant {
	registryMu.RLock()
	defer registryMu.RUnlock()
	var result []Variant
	for _, v := range variantRegistry {
		if v.VariantDomain() == domain {
			result = append(result, v)
		}
	}
	return result
}
