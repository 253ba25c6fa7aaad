package websocket

import (
	"arena/internal/models"
	"arena/internal/store"
)

// Subscribable - хранилище с подпиской на изменения
type Subscribable interface {
	Subscribe(store.Listener) func()
}

// AttachStores подписывает Hub на изменения хранилищ.
// Возвращает функцию, снимающую все подписки.
func (h *Hub) AttachStores(stores ...Subscribable) func() {
	unsubscribers := make([]func(), 0, len(stores))
	for _, s := range stores {
		unsubscribers = append(unsubscribers, s.Subscribe(h.handleEvent))
	}
	return func() {
		for _, unsubscribe := range unsubscribers {
			unsubscribe()
		}
	}
}

// handleEvent переводит событие хранилища в WebSocket сообщение.
// Вызывается в горутине, изменившей хранилище; Broadcast не блокируется.
func (h *Hub) handleEvent(e store.Event) {
	if msg := messageForEvent(e); msg != nil {
		h.Broadcast(msg)
	}
}

// messageForEvent возвращает сообщение для события или nil,
// если событие не рассылается клиентам.
func messageForEvent(e store.Event) interface{} {
	switch e.Type {
	case store.EventMarket:
		if status, ok := e.Payload.(models.MarketStatus); ok {
			return NewMarketMessage(status)
		}
	case store.EventLeaderboard:
		if board, ok := e.Payload.([]models.LeaderboardModel); ok {
			return NewLeaderboardMessage(board)
		}
	case store.EventActivity:
		if activity, ok := e.Payload.(models.Activity); ok {
			return NewActivityMessage(activity)
		}
	case store.EventConnection:
		if connected, ok := e.Payload.(bool); ok {
			return NewConnectionMessage(connected)
		}
	case store.EventWallet:
		if connected, ok := e.Payload.(bool); ok {
			return NewWalletMessage(connected)
		}
	case store.EventAgentSelected:
		if agent, ok := e.Payload.(*models.Agent); ok {
			id := ""
			if agent != nil {
				id = agent.ID
			}
			return NewSelectionMessage(SelectionScopeAgent, id)
		}
	case store.EventModelSelected:
		if id, ok := e.Payload.(string); ok {
			return NewSelectionMessage(SelectionScopeModel, id)
		}
	case store.EventTimeRange:
		if tr, ok := e.Payload.(models.TimeRange); ok {
			return NewTimeRangeMessage(tr)
		}
	case store.EventAgentUpdated:
		if agent, ok := e.Payload.(models.Agent); ok {
			return NewAgentMessage(agent)
		}
	}
	// EventModels не рассылается: за ним всегда следует EventLeaderboard
	return nil
}
