package usecase

import (
	"context"
	"time"

	"clinic-management/internal/domain/repository"
	"clinic-management/internal/domain/scheduling"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// schedulingStore serves the validator's lookups from the repositories,
// bound to one connection or transaction.
type schedulingStore struct {
	db              *gorm.DB
	appointmentRepo repository.AppointmentRepository
	doctorRepo      repository.DoctorRepository
}

func (s *schedulingStore) FindScheduledOverlapping(ctx context.Context, doctorID uuid.UUID, start, end time.Time, excludeID int64) ([]scheduling.Booked, error) {
	appointments, err := s.appointmentRepo.FindScheduledOverlapping(s.db.WithContext(ctx), doctorID, start, end, excludeID)
	if err != nil {
		return nil, err
	}

	booked := make([]scheduling.Booked, 0, len(appointments))
	for _, a := range appointments {
		if a.ScheduledAt == nil {
			continue
		}
		booked = append(booked, scheduling.Booked{
			ID:              a.ID,
			ScheduledAt:     *a.ScheduledAt,
			DurationMinutes: a.DurationMinutes,
		})
	}
	return booked, nil
}

func (s *schedulingStore) FindDoctor(ctx context.Context, doctorID uuid.UUID) (*scheduling.Doctor, error) {
	doctor, err := s.doctorRepo.FindByID(s.db.WithContext(ctx), doctorID)
	if err != nil || doctor == nil {
		return nil, err
	}
	return &scheduling.Doctor{
		ID:       doctor.ID,
		FullName: doctor.FullName(),
		IsActive: doctor.Active(),
	}, nil
}
