package moc

// Event is a status notice raised while running.
type Event string

const (
	// EventLinking is raised when a run starts.
	EventLinking Event = "linking"
	// EventAdded is raised when at least one link was added.
	EventAdded Event = "added"
	// EventNone is raised when there was nothing to add.
	EventNone Event = "none"
)

// Message returns the text shown for an event.
func (e Event) Message() string {
	switch e {
	case EventLinking:
		return "Linking mentions"
	case EventAdded:
		return "New links added to note"
	case EventNone:
		return "No new links found"
	default:
		return string(e)
	}
}

// Notifier receives status events.
type Notifier interface {
	Notify(Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Event)

// Notify calls f(ev).
func (f NotifierFunc) Notify(ev Event) {
	f(ev)
}
