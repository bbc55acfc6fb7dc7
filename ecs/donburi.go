// Package ecs provides ECS adapters for rowan.
package ecs

import (
	"github.com/rowanengine/rowan"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// TreeEventType is the Donburi event type for rowan arena mutations.
// Subscribe to this in your ECS systems to mirror node insertions and
// removals into entity state.
var TreeEventType = events.NewEventType[rowan.TreeEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world.
// Tree events are published to TreeEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) rowan.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitTreeEvent(event rowan.TreeEvent) {
	TreeEventType.Publish(s.world, event)
}
