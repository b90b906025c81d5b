package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"clinic-management/internal/domain/repository"
	"clinic-management/internal/domain/scheduling"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// decrFloorScript decrements a counter without letting it go below zero.
// A missing key stays missing so the next read falls back to the database.
var decrFloorScript = redis.NewScript(`
	if redis.call('EXISTS', KEYS[1]) == 0 then
		return -1
	end
	local current = redis.call('DECR', KEYS[1])
	if current < 0 then
		redis.call('SET', KEYS[1], 0)
		return 0
	end
	return current
`)

// incrExistingScript only increments a counter that has already been seeded.
var incrExistingScript = redis.NewScript(`
	if redis.call('EXISTS', KEYS[1]) == 0 then
		return -1
	end
	return redis.call('INCR', KEYS[1])
`)

const (
	ScheduledCounterKeyPrefix = "appointments:scheduled:doctor:"

	counterSyncBatchSize = 500
	counterScanCount     = 500
	counterResyncEvery   = 15 * time.Minute
)

// AppointmentCounter keeps per-doctor counts of upcoming appointments in status
// scheduled. Appointments whose start time passes without a status change drop
// out on the next resync.
type AppointmentCounter interface {
	SyncOnStartup(ctx context.Context) error
	Increment(ctx context.Context, doctorID uuid.UUID)
	Decrement(ctx context.Context, doctorID uuid.UUID)
	Counts(ctx context.Context, doctorIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	Stop()
}

type AppointmentCounterService struct {
	db              *gorm.DB
	redisClient     *redis.Client
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	clock           scheduling.Clock

	syncMu   sync.Mutex
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// NewAppointmentCounterService starts a background loop that periodically
// rebuilds the counters from PostgreSQL. Call Stop during shutdown.
func NewAppointmentCounterService(db *gorm.DB, redisClient *redis.Client, log *logrus.Logger, appointmentRepo repository.AppointmentRepository, clock scheduling.Clock) *AppointmentCounterService {
	if clock == nil {
		clock = scheduling.SystemClock{}
	}
	svc := &AppointmentCounterService{
		db:              db,
		redisClient:     redisClient,
		log:             log,
		appointmentRepo: appointmentRepo,
		clock:           clock,
		stopChan:        make(chan struct{}),
	}

	svc.wg.Add(1)
	go svc.resyncLoop()

	return svc
}

// Stop is safe to call more than once.
func (s *AppointmentCounterService) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
		s.log.Info("AppointmentCounterService stopped")
	}
}

// SyncOnStartup drops every counter key and rebuilds them from the
// appointments table, one pipeline per batch of doctors.
func (s *AppointmentCounterService) SyncOnStartup(ctx context.Context) error {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	s.log.Info("Starting appointment counter sync from database...")
	startTime := time.Now()

	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		s.log.Warnf("Redis is not available, skipping counter sync: %+v", err)
		return fmt.Errorf("redis ping failed: %w", err)
	}

	if err := s.clearCounters(ctx); err != nil {
		return err
	}

	from := s.clock.Now()
	offset := 0
	totalSynced := 0

	for {
		counts, err := s.appointmentRepo.CountScheduledPerDoctor(s.db.WithContext(ctx), from, counterSyncBatchSize, offset)
		if err != nil {
			s.log.Errorf("Failed to count scheduled appointments at offset %d: %+v", offset, err)
			return fmt.Errorf("count scheduled appointments at offset %d: %w", offset, err)
		}

		if len(counts) == 0 {
			break
		}

		pipe := s.redisClient.TxPipeline()
		for _, c := range counts {
			pipe.Set(ctx, counterKey(c.DoctorID), c.Count, 0)
		}
		if _, err := pipe.Exec(ctx); err != nil {
			s.log.Errorf("Failed to execute counter pipeline at offset %d: %+v", offset, err)
			return fmt.Errorf("counter pipeline exec at offset %d: %w", offset, err)
		}

		totalSynced += len(counts)
		if len(counts) < counterSyncBatchSize {
			break
		}
		offset += counterSyncBatchSize

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	s.log.Infof("Appointment counter sync completed: %d doctors synced in %v", totalSynced, time.Since(startTime))
	return nil
}

// Increment and Decrement are best effort. Counters that were never seeded
// are left alone and get filled from the database on the next read.
func (s *AppointmentCounterService) Increment(ctx context.Context, doctorID uuid.UUID) {
	if err := incrExistingScript.Run(ctx, s.redisClient, []string{counterKey(doctorID)}).Err(); err != nil {
		s.log.WithField("doctor_id", doctorID).Warnf("Failed to increment appointment counter: %+v", err)
	}
}

func (s *AppointmentCounterService) Decrement(ctx context.Context, doctorID uuid.UUID) {
	if err := decrFloorScript.Run(ctx, s.redisClient, []string{counterKey(doctorID)}).Err(); err != nil {
		s.log.WithField("doctor_id", doctorID).Warnf("Failed to decrement appointment counter: %+v", err)
	}
}

// Counts reads the counters of the given doctors. Doctors without a key are
// counted in PostgreSQL and written back.
func (s *AppointmentCounterService) Counts(ctx context.Context, doctorIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	result := make(map[uuid.UUID]int64, len(doctorIDs))
	if len(doctorIDs) == 0 {
		return result, nil
	}

	keys := make([]string, len(doctorIDs))
	for i, id := range doctorIDs {
		keys[i] = counterKey(id)
	}

	values, err := s.redisClient.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("mget appointment counters: %w", err)
	}

	var missing []uuid.UUID
	for i, raw := range values {
		str, ok := raw.(string)
		if !ok {
			missing = append(missing, doctorIDs[i])
			continue
		}
		n, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			missing = append(missing, doctorIDs[i])
			continue
		}
		result[doctorIDs[i]] = n
	}

	if len(missing) == 0 {
		return result, nil
	}

	counts, err := s.appointmentRepo.CountScheduledForDoctors(s.db.WithContext(ctx), s.clock.Now(), missing)
	if err != nil {
		return nil, fmt.Errorf("count scheduled appointments: %w", err)
	}

	found := make(map[uuid.UUID]int64, len(counts))
	for _, c := range counts {
		found[c.DoctorID] = c.Count
	}

	pipe := s.redisClient.Pipeline()
	for _, id := range missing {
		result[id] = found[id]
		pipe.SetNX(ctx, counterKey(id), found[id], 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warnf("Failed to backfill appointment counters: %+v", err)
	}

	return result, nil
}

func (s *AppointmentCounterService) clearCounters(ctx context.Context) error {
	iter := s.redisClient.Scan(ctx, 0, ScheduledCounterKeyPrefix+"*", counterScanCount).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == counterScanCount {
			if err := s.redisClient.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("delete appointment counters: %w", err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan appointment counters: %w", err)
	}
	if len(batch) > 0 {
		if err := s.redisClient.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("delete appointment counters: %w", err)
		}
	}
	return nil
}

func (s *AppointmentCounterService) resyncLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(counterResyncEvery)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			s.log.Debug("Appointment counter resync loop stopping")
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			if err := s.SyncOnStartup(ctx); err != nil {
				s.log.Warnf("Periodic appointment counter resync failed: %+v", err)
			}
			cancel()
		}
	}
}

func counterKey(doctorID uuid.UUID) string {
	return ScheduledCounterKeyPrefix + doctorID.String()
}
