package event

import "github.com/undergroundpolice/server/internal/host"

// Host lifecycle events.

type EntityAdded struct {
	Entity host.Entity
}

type EntityRemoved struct {
	Entity host.Entity
}

// Per-structure events, published on the structure's own bus.

type ComponentAdded struct {
	Component host.Component
}

type ComponentRemoved struct {
	Component host.Component
}
