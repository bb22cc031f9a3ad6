package constants

const (
	// Exchange the tasks service publishes domain events to.
	TaskEventsExchange = "task.events"

	// Durable queue this service consumes.
	NotificationsQueue = "notifications"

	// Binding key matching every task event kind.
	TaskEventsBindingKey = "task.#"
)
