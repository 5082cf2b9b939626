package workflow

import (
	"context"

	"github.com/wasmdapps/sdk-go/workflow/event"
)

// SubscribeToEvents subscribes to one event type.
func (w *Workflow) SubscribeToEvents(eventType event.EventType, handler event.Handler) {
	w.subMu.Lock()
	defer w.subMu.Unlock()
	w.subs[eventType] = append(w.subs[eventType], handler)
}

// SubscribeToAllEvents subscribes to every event. Handlers run synchronously
// on the goroutine that caused the transition and can read Snapshot.
func (w *Workflow) SubscribeToAllEvents(handler event.Handler) {
	w.subMu.Lock()
	defer w.subMu.Unlock()
	w.subsAll = append(w.subsAll, handler)
}

func (w *Workflow) emitLocalEvent(ctx context.Context, evt event.Event) {
	w.subMu.RLock()
	handlers := append([]event.Handler{}, w.subs[evt.Type]...)
	all := append([]event.Handler{}, w.subsAll...)
	w.subMu.RUnlock()

	for _, h := range handlers {
		h(ctx, evt)
	}
	for _, h := range all {
		h(ctx, evt)
	}
}
