package constants

// Exchange that carries every task domain event.
const TaskEventsExchange = "task.events"
