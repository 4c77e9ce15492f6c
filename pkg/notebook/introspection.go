package notebook

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	Notes          int      `json:"notes"`
	Tags           int      `json:"tags"`
	Loaded         bool     `json:"loaded"`
	ReadOnly       bool     `json:"read_only"`
	PermissiveTags bool     `json:"permissive_tags"`
	DirtySlots     []string `json:"dirty_slots,omitempty"`
	Subscribers    int      `json:"subscribers"`
	EventBuffer    int      `json:"event_buffer_size"`
	StoreType      string   `json:"store_type"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	storeType := "unknown"
	if comp, ok := s.store.(introspection.Component); ok {
		storeType = comp.ComponentType()
	}

	return ServiceState{
		Notes:          len(s.state.Notes),
		Tags:           len(s.state.Tags),
		Loaded:         s.loaded,
		ReadOnly:       s.config.ReadOnly,
		PermissiveTags: s.config.PermissiveTags,
		DirtySlots:     s.dirtyKeys(),
		Subscribers:    s.subscriberCount(),
		EventBuffer:    s.config.EventBuffer,
		StoreType:      storeType,
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "notebook"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
