package repository

import (
	"errors"
	"time"

	"clinic-management/internal/domain/entity"
	domainRepo "clinic-management/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultAppointmentPageSize = 50

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Omit("Doctor", "Patient", "MedicalRecord").Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id int64) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Preload("Doctor.Specialization").Preload("Patient").Preload("MedicalRecord").
		Where("id = ?", id).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

// FindAll supports optional filters: doctor, patient, status, date range and diagnosis text.
func (r *appointmentRepository) FindAll(db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, int64, error) {
	var appointments []entity.Appointment
	var total int64

	query := db.Model(&entity.Appointment{})
	limit, offset := defaultAppointmentPageSize, 0
	if filter != nil {
		if filter.DoctorID != nil {
			query = query.Where("doctor_id = ?", *filter.DoctorID)
		}
		if filter.PatientID != nil {
			query = query.Where("patient_id = ?", *filter.PatientID)
		}
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
		if filter.From != nil {
			query = query.Where("scheduled_at >= ?", *filter.From)
		}
		if filter.To != nil {
			query = query.Where("scheduled_at < ?", *filter.To)
		}
		if filter.Diagnosis != "" {
			query = query.Where("diagnosis ILIKE ?", "%"+filter.Diagnosis+"%")
		}
		if filter.Limit > 0 {
			limit = filter.Limit
		}
		offset = filter.Offset
	}

	query = query.Session(&gorm.Session{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Doctor.Specialization").Preload("Patient").
		Order("scheduled_at DESC NULLS LAST, id DESC").
		Limit(limit).Offset(offset).
		Find(&appointments).Error
	if err != nil {
		return nil, 0, err
	}
	return appointments, total, nil
}

func (r *appointmentRepository) Update(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Omit("Doctor", "Patient", "MedicalRecord").Save(appointment).Error
}

// UpdateStatus changes the status only while the row still has the expected one.
// Returns affected rows: 1 = success, 0 = status changed concurrently.
func (r *appointmentRepository) UpdateStatus(db *gorm.DB, id int64, from, to entity.AppointmentStatus, notes string) (int64, error) {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": time.Now(),
	}
	if notes != "" {
		updates["notes"] = notes
	}
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", id, from).
		UpdateColumns(updates)
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) Delete(db *gorm.DB, id int64) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Appointment{})
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) FindScheduledOverlapping(db *gorm.DB, doctorID uuid.UUID, start, end time.Time, excludeID int64) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	query := db.Where("doctor_id = ? AND status = ?", doctorID, entity.AppointmentStatusScheduled).
		Where("scheduled_at < ? AND ends_at > ?", end, start)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	if err := query.Order("scheduled_at ASC, id ASC").Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindUpcoming(db *gorm.DB, from time.Time, limit int) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Preload("Doctor.Specialization").Preload("Patient").
		Where("status = ? AND scheduled_at >= ?", entity.AppointmentStatusScheduled, from).
		Order("scheduled_at ASC").
		Limit(limit).
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindUpcomingByDoctor(db *gorm.DB, doctorID uuid.UUID, from time.Time) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Preload("Patient").
		Where("doctor_id = ? AND status = ? AND scheduled_at >= ?", doctorID, entity.AppointmentStatusScheduled, from).
		Order("scheduled_at ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) CountByDoctorAndStatus(db *gorm.DB, doctorID uuid.UUID, status entity.AppointmentStatus) (int64, error) {
	var total int64
	err := db.Model(&entity.Appointment{}).
		Where("doctor_id = ? AND status = ?", doctorID, status).
		Count(&total).Error
	return total, err
}

func (r *appointmentRepository) CountScheduledBetween(db *gorm.DB, from, to time.Time) (int64, error) {
	var total int64
	err := db.Model(&entity.Appointment{}).
		Where("status = ? AND scheduled_at >= ? AND scheduled_at < ?", entity.AppointmentStatusScheduled, from, to).
		Count(&total).Error
	return total, err
}

// CountPerDoctor ranks doctors by number of appointments of any status.
func (r *appointmentRepository) CountPerDoctor(db *gorm.DB, limit int) ([]entity.DoctorAppointmentCount, error) {
	var counts []entity.DoctorAppointmentCount
	err := db.Model(&entity.Doctor{}).
		Select("doctors.id AS doctor_id, doctors.first_name, doctors.last_name, doctors.middle_name, COUNT(appointments.id) AS appointment_count").
		Joins("JOIN appointments ON appointments.doctor_id = doctors.id").
		Group("doctors.id, doctors.first_name, doctors.last_name, doctors.middle_name").
		Order("appointment_count DESC, doctors.last_name ASC").
		Limit(limit).
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// CountScheduledPerDoctor pages through per-doctor counts of scheduled
// appointments, ordered by doctor ID so batches are stable.
func (r *appointmentRepository) CountScheduledPerDoctor(db *gorm.DB, from time.Time, limit, offset int) ([]domainRepo.DoctorScheduledCount, error) {
	var counts []domainRepo.DoctorScheduledCount
	err := db.Model(&entity.Appointment{}).
		Select("doctor_id, COUNT(*) AS count").
		Where("status = ? AND scheduled_at >= ?", entity.AppointmentStatusScheduled, from).
		Group("doctor_id").
		Order("doctor_id").
		Limit(limit).Offset(offset).
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *appointmentRepository) CountScheduledForDoctors(db *gorm.DB, from time.Time, doctorIDs []uuid.UUID) ([]domainRepo.DoctorScheduledCount, error) {
	var counts []domainRepo.DoctorScheduledCount
	if len(doctorIDs) == 0 {
		return counts, nil
	}
	err := db.Model(&entity.Appointment{}).
		Select("doctor_id, COUNT(*) AS count").
		Where("status = ? AND scheduled_at >= ? AND doctor_id IN ?", entity.AppointmentStatusScheduled, from, doctorIDs).
		Group("doctor_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}
