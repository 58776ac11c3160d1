package gateway

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// Status is the operational summary of one registered gateway.
type Status struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Available bool   `json:"available"`
	IsDefault bool   `json:"is_default"`
}

// Factory holds the registered gateways and resolves lookups. Registration
// happens once at startup; lookups are read-only afterwards, so no locking.
type Factory struct {
	gateways  map[string]PaymentGateway
	order     []string
	defaultID string
}

// NewFactory registers the given gateways. defaultID selects the configured
// default; if it names a missing or unavailable gateway the first available
// registered gateway takes its place.
func NewFactory(defaultID string, gws ...PaymentGateway) *Factory {
	f := &Factory{
		gateways:  make(map[string]PaymentGateway, len(gws)),
		defaultID: strings.ToLower(defaultID),
	}
	for _, gw := range gws {
		id := strings.ToLower(gw.ID())
		if _, dup := f.gateways[id]; dup {
			slog.Warn("duplicate gateway registration ignored", "gateway", id)
			continue
		}
		f.gateways[id] = gw
		f.order = append(f.order, id)
	}
	return f
}

// Gateway returns the gateway registered under id. Unknown or unavailable
// gateways yield an error wrapping the matching sentinel.
func (f *Factory) Gateway(id string) (PaymentGateway, error) {
	gw, ok := f.gateways[strings.ToLower(id)]
	if !ok {
		return nil, fmt.Errorf("gateway %q: %w", id, ErrUnsupportedGateway)
	}
	if !gw.Available() {
		return nil, fmt.Errorf("gateway %q: %w", id, ErrNotConfigured)
	}
	return gw, nil
}

// Find returns the gateway registered under id without an availability
// check, for callers that only need the registration.
func (f *Factory) Find(id string) (PaymentGateway, bool) {
	gw, ok := f.gateways[strings.ToLower(id)]
	return gw, ok
}

// Default resolves the default gateway: the configured default when it is
// registered and available, otherwise the first available gateway in
// registration order.
func (f *Factory) Default() (PaymentGateway, error) {
	if gw, ok := f.gateways[f.defaultID]; ok && gw.Available() {
		return gw, nil
	}
	for _, id := range f.order {
		if gw := f.gateways[id]; gw.Available() {
			if id != f.defaultID {
				slog.Warn("configured default gateway unavailable, falling back",
					"configured", f.defaultID, "fallback", id)
			}
			return gw, nil
		}
	}
	return nil, fmt.Errorf("no available gateway: %w", ErrNotConfigured)
}

// Available lists the IDs of gateways that currently report available.
func (f *Factory) Available() []string {
	var ids []string
	for _, id := range f.order {
		if f.gateways[id].Available() {
			ids = append(ids, id)
		}
	}
	return ids
}

// All lists every registered gateway ID, sorted.
func (f *Factory) All() []string {
	ids := make([]string, 0, len(f.gateways))
	for id := range f.gateways {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Statuses reports the operational status of every registered gateway in
// registration order.
func (f *Factory) Statuses() []Status {
	def, _ := f.Default()
	statuses := make([]Status, 0, len(f.order))
	for _, id := range f.order {
		gw := f.gateways[id]
		statuses = append(statuses, Status{
			ID:        id,
			Name:      gw.Name(),
			Available: gw.Available(),
			IsDefault: def != nil && strings.ToLower(def.ID()) == id,
		})
	}
	return statuses
}
