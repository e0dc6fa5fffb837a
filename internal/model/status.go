package model

type Status string

const (
	StatusCreated     Status = "CREATED"
	StatusAssigned    Status = "ASSIGNED"
	StatusRescheduled Status = "RESCHEDULED"
	StatusCancelled   Status = "CANCELLED"
	StatusCompleted   Status = "COMPLETED"
)

// Statuses lists every status, ordered by its historical numeric id.
var Statuses = []Status{StatusCreated, StatusAssigned, StatusCancelled, StatusCompleted, StatusRescheduled}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// Open reports whether the appointment still accepts mutations.
func (s Status) Open() bool {
	switch s {
	case StatusCreated, StatusAssigned, StatusRescheduled:
		return true
	}
	return false
}

// Terminal is the complement of Open for known statuses.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}
