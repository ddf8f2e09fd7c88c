package booking

const (
	TopicReservationCreated       = "reservation.created"
	TopicReservationCancelled     = "reservation.cancelled"
	TopicReservationStatusChanged = "reservation.status_changed"
	TopicReservationDeleted       = "reservation.deleted"
	TopicCourtChanged             = "court.changed"
	TopicCourtBlocked             = "court.blocked"
)

// WorkerTopics are the topics the worker follows.
var WorkerTopics = []string{
	TopicReservationCreated,
	TopicReservationCancelled,
	TopicReservationStatusChanged,
	TopicReservationDeleted,
	TopicCourtChanged,
	TopicCourtBlocked,
}

// Partition key = court_id, so every event touching one court keeps its order.
func PartitionKey(courtID string) []byte { return []byte(courtID) }
