// File: database/repository/appointment/interface.go
package appointmentRepo

import (
	"context"
	"time"

	"cliniq/database"
	"cliniq/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// AppointmentRepository is the record source for the scheduling and
// analytics views.
type AppointmentRepository interface {
	Create(ctx context.Context, apt models.Appointment) (string, error)
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	Update(ctx context.Context, id string, updates models.AppointmentUpdates) error
	Delete(ctx context.Context, id string) error
	ListByRange(ctx context.Context, start, end time.Time) ([]models.Appointment, error)
	CountByStatus(ctx context.Context, start, end time.Time) (map[models.AppointmentStatus]int, error)
	EnsureIndexes() error
}

type mongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo constructs a new MongoDB AppointmentRepository.
func NewMongoAppointmentRepo() AppointmentRepository {
	db := database.MongoClient.Database("cliniq")
	return &mongoAppointmentRepo{
		coll: db.Collection("appointments"),
	}
}
