package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/floodwatch/floodwatch/internal/models"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateUsername = errors.New("username already taken")
)

// ValidationError reports a missing or malformed submission field. Handlers
// map it to a 400 response.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing or invalid field: %s", e.Field)
}

type AlertStore interface {
	// CreateAlert validates and persists a new alert. displayTime may be
	// empty, in which case the current time is rendered for it.
	CreateAlert(ctx context.Context, zone, message string, severity models.Severity, displayTime string) (*models.Alert, error)
	// ListAlerts returns all alerts, most recently created first.
	ListAlerts(ctx context.Context) ([]models.Alert, error)
	// AcknowledgeAlert marks an alert as acknowledged and returns the updated
	// record. Acknowledging twice is a no-op success.
	AcknowledgeAlert(ctx context.Context, id int64) (*models.Alert, error)
}

type ShelterStore interface {
	AddShelter(ctx context.Context, s *models.Shelter) error
	ListShelters(ctx context.Context) ([]models.Shelter, error)
	CountShelters(ctx context.Context) (int64, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}
