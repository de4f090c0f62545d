package widget

const (
	EventThinking     = "thinking"
	EventTurn         = "turn"
	EventNotification = "notification"
	EventState        = "state"
	EventExpired      = "expired"
)

// Event is pushed to subscribers after the controller state changes.
type Event struct {
	Type     string `json:"type"`
	WidgetID string `json:"widget_id"`
	Payload  any    `json:"payload,omitempty"`
}

// Subscribe registers fn for every event and returns a function that
// removes it. fn is called without the controller lock held and must not
// block.
func (c *Controller) Subscribe(fn func(Event)) func() {
	c.mu.Lock()
	id := c.nextListener
	c.nextListener++
	c.listeners[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *Controller) emit(e Event) {
	e.WidgetID = c.id
	c.mu.Lock()
	fns := make([]func(Event), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()
	for _, fn := range fns {
		fn(e)
	}
}
