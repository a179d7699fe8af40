package providers

import (
	"fmt"

	"catch-guard/contract"
	"catch-guard/domain"
	errs "catch-guard/errors"
)

// moderatableTypes drives registry validation; every known content type gets
// a binding at startup so misconfiguration fails fast instead of at call time.
var moderatableTypes = []domain.ContentType{
	domain.CatchPhotos,
	domain.CatchComments,
	domain.CatchDescriptions,
	domain.PointDescriptions,
	domain.PointPhotos,
	domain.PointComments,
	domain.UserBio,
}

// Registry resolves the provider for each content type. It is built once at
// startup and read-only afterwards, so lookups need no locking.
type Registry struct {
	byContentType map[domain.ContentType]contract.Provider
	disabled      map[domain.ContentType]bool
}

// NewRegistry validates the whole provider/content-type wiring.
// It fails on an unknown default provider id, an override pointing at a
// provider that is not registered (e.g. disabled or missing its API key),
// an override for an unknown content type, and an unknown disabled type.
func NewRegistry(defaultID string, available []contract.Provider, overrides map[string]string, disabledTypes []string) (*Registry, error) {
	byID := make(map[string]contract.Provider, len(available))
	for _, p := range available {
		if _, dup := byID[p.ID()]; dup {
			return nil, fmt.Errorf("%w: provider %q registered twice", errs.ErrMisconfigured, p.ID())
		}
		byID[p.ID()] = p
	}

	fallback, ok := byID[defaultID]
	if !ok {
		return nil, fmt.Errorf("%w: default provider %q is not registered", errs.ErrMisconfigured, defaultID)
	}

	disabled := make(map[domain.ContentType]bool, len(disabledTypes))
	for _, raw := range disabledTypes {
		ct := domain.ContentType(raw)
		if !ct.Valid() {
			return nil, fmt.Errorf("%w: disabled content type %q is unknown", errs.ErrMisconfigured, raw)
		}
		disabled[ct] = true
	}

	byContentType := make(map[domain.ContentType]contract.Provider, len(moderatableTypes))
	for _, ct := range moderatableTypes {
		byContentType[ct] = fallback
	}
	for rawType, providerID := range overrides {
		ct := domain.ContentType(rawType)
		if !ct.Valid() {
			return nil, fmt.Errorf("%w: content type %q in provider overrides is unknown", errs.ErrMisconfigured, rawType)
		}
		provider, ok := byID[providerID]
		if !ok {
			return nil, fmt.Errorf("%w: content type %q references unregistered provider %q", errs.ErrMisconfigured, rawType, providerID)
		}
		byContentType[ct] = provider
	}

	return &Registry{byContentType: byContentType, disabled: disabled}, nil
}

// Enabled reports whether moderation runs for this content type.
func (r *Registry) Enabled(contentType domain.ContentType) bool {
	return contentType.Valid() && !r.disabled[contentType]
}

// Resolve returns the provider bound to a content type.
func (r *Registry) Resolve(contentType domain.ContentType) (contract.Provider, error) {
	provider, ok := r.byContentType[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errs.ErrUnknownContentType, contentType)
	}
	return provider, nil
}
