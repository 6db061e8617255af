package services

// Notifier pushes a real-time event to one account. Delivery is best effort;
// implementations must not block on slow clients.
type Notifier interface {
	NotifyUser(userID string, event string, payload interface{})
}

// NopNotifier drops every event. Used when no socket server is running.
type NopNotifier struct{}

func (NopNotifier) NotifyUser(string, string, interface{}) {}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return NopNotifier{}
	}
	return n
}
