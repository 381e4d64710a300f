package services

import (
	"github.com/applysink/applysink/bridge"
	"github.com/applysink/applysink/network"
	"github.com/applysink/applysink/patterns"
)

var (
	applyEvents = &patterns.Dispatcher[bridge.ApplyEvent]{}
)

// StartDispatch Mirrors every session frame onto the global websocket, so a
// dashboard can watch all runs without holding one stream per session.
func StartDispatch() {
	applyEvents.Subscribe(func(event patterns.Event[bridge.ApplyEvent]) {
		network.BroadCastClients(network.SocketEventName(event.Name), event.Data)
	})
}

func notifyApplyEvent(event bridge.ApplyEvent) {
	applyEvents.Notify("application:"+string(event.Kind), event)
}
