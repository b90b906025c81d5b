package usecase

import (
	"context"
	"time"

	"clinic-management/internal/converter"
	"clinic-management/internal/delivery/dto"
	"clinic-management/internal/domain/entity"
	"clinic-management/internal/domain/repository"
	"clinic-management/internal/domain/scheduling"
	"clinic-management/internal/service"
	"clinic-management/pkg/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	dashboardUpcomingLimit   = 5
	dashboardTopDoctorsLimit = 5
	dashboardErrorsLimit     = 5

	WorkloadSourceRedis    = "redis"
	WorkloadSourceDatabase = "database"
)

type ReportUsecase interface {
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
	DoctorWorkload(ctx context.Context) (*dto.WorkloadResponse, error)
}

type reportUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	appointmentRepo    repository.AppointmentRepository
	doctorRepo         repository.DoctorRepository
	specializationRepo repository.SpecializationRepository
	scheduleErrorRepo  repository.ScheduleErrorRepository
	counter            service.AppointmentCounter
	metrics            *metrics.Collector
	clock              scheduling.Clock
	policy             scheduling.Policy
}

func NewReportUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	specializationRepo repository.SpecializationRepository,
	scheduleErrorRepo repository.ScheduleErrorRepository,
	counter service.AppointmentCounter,
	metrics *metrics.Collector,
	clock scheduling.Clock,
	policy scheduling.Policy,
) ReportUsecase {
	return &reportUsecase{
		db:                 db,
		log:                log,
		appointmentRepo:    appointmentRepo,
		doctorRepo:         doctorRepo,
		specializationRepo: specializationRepo,
		scheduleErrorRepo:  scheduleErrorRepo,
		counter:            counter,
		metrics:            metrics,
		clock:              clock,
		policy:             policy,
	}
}

func (u *reportUsecase) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	now := u.clock.Now()
	local := now.In(u.policy.Zone())
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
	tomorrow := today.AddDate(0, 0, 1)
	dayAfter := today.AddDate(0, 0, 2)

	var (
		upcoming          []entity.Appointment
		activeDoctors     int64
		specializations   []entity.SpecializationCount
		topDoctors        []entity.DoctorAppointmentCount
		todayScheduled    int64
		tomorrowScheduled int64
		recentErrors      []entity.ScheduleError
	)

	g, gctx := errgroup.WithContext(ctx)
	db := func() *gorm.DB { return u.db.WithContext(gctx) }

	g.Go(func() (err error) {
		upcoming, err = u.appointmentRepo.FindUpcoming(db(), now, dashboardUpcomingLimit)
		return err
	})
	g.Go(func() (err error) {
		activeDoctors, err = u.doctorRepo.CountActive(db())
		return err
	})
	g.Go(func() (err error) {
		specializations, err = u.specializationRepo.CountActiveDoctors(db())
		return err
	})
	g.Go(func() (err error) {
		topDoctors, err = u.appointmentRepo.CountPerDoctor(db(), dashboardTopDoctorsLimit)
		return err
	})
	g.Go(func() (err error) {
		todayScheduled, err = u.appointmentRepo.CountScheduledBetween(db(), today, tomorrow)
		return err
	})
	g.Go(func() (err error) {
		tomorrowScheduled, err = u.appointmentRepo.CountScheduledBetween(db(), tomorrow, dayAfter)
		return err
	})

	g.Go(func() (err error) {
		recentErrors, err = u.scheduleErrorRepo.FindRecent(db(), dashboardErrorsLimit)
		return err
	})

	if err := g.Wait(); err != nil {
		u.log.Warnf("Failed to build dashboard: %+v", err)
		return nil, err
	}

	return &dto.DashboardResponse{
		UpcomingAppointments: converter.AppointmentsToResponses(upcoming),
		ActiveDoctors:        activeDoctors,
		Specializations:      converter.SpecializationCountsToResponses(specializations),
		TopDoctors:           converter.DoctorCountsToResponses(topDoctors),
		TodayScheduled:       todayScheduled,
		TomorrowScheduled:    tomorrowScheduled,
		RecentScheduleErrors: converter.ScheduleErrorsToResponses(recentErrors),
	}, nil
}

// DoctorWorkload counts upcoming scheduled appointments per active doctor. It
// reads the Redis counters and falls back to Postgres when Redis is unreachable.
func (u *reportUsecase) DoctorWorkload(ctx context.Context) (*dto.WorkloadResponse, error) {
	db := u.db.WithContext(ctx)

	doctors, err := u.doctorRepo.FindAll(db, &entity.DoctorFilter{ActiveOnly: true})
	if err != nil {
		u.log.Warnf("Failed to find active doctors: %+v", err)
		return nil, err
	}

	ids := make([]uuid.UUID, len(doctors))
	for i := range doctors {
		ids[i] = doctors[i].ID
	}

	source := WorkloadSourceRedis
	counts, err := u.counter.Counts(ctx, ids)
	if err != nil {
		u.log.Warnf("Failed to read appointment counters, using database: %+v", err)
		u.metrics.RecordCounterFallback()
		source = WorkloadSourceDatabase

		counts, err = u.countFromDatabase(db, u.clock.Now(), ids)
		if err != nil {
			u.log.Warnf("Failed to count scheduled appointments: %+v", err)
			return nil, err
		}
	}

	workload := make([]dto.DoctorWorkloadResponse, len(doctors))
	for i := range doctors {
		workload[i] = dto.DoctorWorkloadResponse{
			DoctorID:  doctors[i].ID,
			FullName:  doctors[i].FullName(),
			Scheduled: counts[doctors[i].ID],
		}
	}

	return &dto.WorkloadResponse{Source: source, Doctors: workload}, nil
}

func (u *reportUsecase) countFromDatabase(db *gorm.DB, from time.Time, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	rows, err := u.appointmentRepo.CountScheduledForDoctors(db, from, ids)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.DoctorID] = row.Count
	}
	return counts, nil
}
