package shared

// Task types (asynq)
const (
	TypeLectureCreated     = "lecture:created"
	TypeCleanupOrphanMedia = "media:cleanup_orphans"
)

// Queues, priority: notification > maintenance
const (
	QueueNotification = "notification"
	QueueMaintenance  = "maintenance"
)

// Queues maps each queue to its worker priority
var Queues = map[string]int{
	QueueNotification: 6,
	QueueMaintenance:  1,
}
