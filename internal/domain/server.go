package domain

import (
	"time" // Lifecycle timestamps

	"github.com/shopspring/decimal" // Exact decimal arithmetic for money
)

// Server status values
const (
	StatusStarting   = "starting"   // Provisioning in progress (reserved, servers are created running)
	StatusRunning    = "running"    // Server is up
	StatusStopped    = "stopped"    // Server is halted but not released
	StatusTerminated = "terminated" // Terminal state, server released
)

// Server lifecycle actions
const (
	ActionStart     = "start"     // stopped -> running
	ActionStop      = "stop"      // running -> stopped
	ActionRestart   = "restart"   // running|stopped -> running
	ActionTerminate = "terminate" // any non-terminated -> terminated
)

// RentedServer Model (a server instance rented by a user)
type RentedServer struct {
	ID           uint            `gorm:"primaryKey"`                            // Primary key
	UserID       uint            `gorm:"index;not null"`                        // Foreign key to User
	ServerPlanID uint            `gorm:"not null"`                              // Foreign key to ServerPlan
	ServerPlan   ServerPlan      `gorm:"constraint:OnDelete:RESTRICT;"`         // Plan relation (restrict delete)
	Name         string          `gorm:"size:255;not null"`                     // User-chosen server name
	ServerIP     *string         // Assigned IP address, nil until assigned
	Status       string          `gorm:"default:running"`                       // Lifecycle status
	StartedAt    *time.Time      // Last start time
	StoppedAt    *time.Time      // Last stop time
	TerminatedAt *time.Time      // Termination time
	TotalCost    decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0"` // Accumulated cost in credits
	CreatedAt    time.Time       // Record creation time
	UpdatedAt    time.Time       // Record update time
}

// Apply runs a lifecycle action against the server's state machine at the
// given time. It returns whether any state actually changed; actions whose
// precondition does not hold leave the server untouched and report changed
// false without an error, so callers can preserve the lenient success
// response while still observing that nothing happened. An unknown action
// is the only error case.
func (s *RentedServer) Apply(action string, now time.Time) (bool, error) {
	// A terminated server accepts no further actions
	if s.Status == StatusTerminated {
		return false, nil
	}
	switch action {
	case ActionStart:
		// Only a stopped server can be started
		if s.Status != StatusStopped {
			return false, nil
		}
		s.Status = StatusRunning
		s.StartedAt = &now
		s.StoppedAt = nil
		return true, nil
	case ActionStop:
		// Only a running server can be stopped
		if s.Status != StatusRunning {
			return false, nil
		}
		s.Status = StatusStopped
		s.StoppedAt = &now
		return true, nil
	case ActionRestart:
		// Restart is allowed from running or stopped
		if s.Status != StatusRunning && s.Status != StatusStopped {
			return false, nil
		}
		s.Status = StatusRunning
		s.StartedAt = &now
		s.StoppedAt = nil
		return true, nil
	case ActionTerminate:
		s.Status = StatusTerminated
		s.TerminatedAt = &now
		return true, nil
	}
	return false, ErrUnknownAction
}
