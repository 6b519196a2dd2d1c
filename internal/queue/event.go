// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingStatusChangedEvent is published when an admin moves a
// guest-apartment booking to a new lifecycle status. It carries enough
// information for downstream consumers to notify the requester or log
// the decision without querying the primary database.
type BookingStatusChangedEvent struct {
	BookingID  string `json:"booking_id"`
	GuestName  string `json:"guest_name"`
	GuestEmail string `json:"guest_email,omitempty"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	OldStatus  string `json:"old_status"`
	NewStatus  string `json:"new_status"`
	ChangedBy  uint64 `json:"changed_by"`
	ChangedAt  string `json:"changed_at"`
}
