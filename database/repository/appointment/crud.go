// File: database/repository/appointment/crud.go
package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"cliniq/models"
)

func (r *mongoAppointmentRepo) Create(ctx context.Context, apt models.Appointment) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if apt.ID == "" {
		apt.ID = uuid.New().String()
	}
	if apt.Status == "" {
		apt.Status = models.StatusPending
	}

	if _, err := r.coll.InsertOne(ctx, apt); err != nil {
		return "", fmt.Errorf("failed to insert appointment: %w", err)
	}
	return apt.ID, nil
}

func (r *mongoAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var apt models.Appointment
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&apt)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("appointment not found")
		}
		return nil, fmt.Errorf("find error: %w", err)
	}
	return &apt, nil
}

func (r *mongoAppointmentRepo) Update(ctx context.Context, id string, updates models.AppointmentUpdates) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{}
	if updates.StartTime != nil {
		set["startTime"] = *updates.StartTime
	}
	if updates.DurationMinutes != nil {
		set["durationMinutes"] = *updates.DurationMinutes
	}
	if updates.Status != nil {
		set["status"] = *updates.Status
	}
	if updates.Notes != nil {
		set["notes"] = *updates.Notes
	}
	if updates.NoShowRiskScore != nil {
		set["noShowRiskScore"] = *updates.NoShowRiskScore
	}
	if len(set) == 0 {
		return nil
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("appointment not found")
	}
	return nil
}

func (r *mongoAppointmentRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
