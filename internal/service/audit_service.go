package service

import (
	"context"

	"clinic-management/internal/domain/entity"
	"clinic-management/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ActorResolver extracts the authenticated staff user from a request context.
type ActorResolver func(ctx context.Context) (uuid.UUID, bool)

type AuditService interface {
	LogCreate(ctx context.Context, tx *gorm.DB, action, entityName, entityID string, newValue interface{}) error
	LogUpdate(ctx context.Context, tx *gorm.DB, action, entityName, entityID string, oldValue, newValue interface{}) error
	LogDelete(ctx context.Context, tx *gorm.DB, action, entityName, entityID string, oldValue interface{}) error
	// LogEvent records an action that is not tied to an entity change, such as a login.
	LogEvent(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, details entity.JSON) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
	actor     ActorResolver
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository, actor ActorResolver) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
		actor:     actor,
	}
}

func (s *auditService) LogCreate(ctx context.Context, tx *gorm.DB, action, entityName, entityID string, newValue interface{}) error {
	return s.write(ctx, tx, s.actorID(ctx), action, changeMetadata(entityName, entityID, nil, newValue))
}

func (s *auditService) LogUpdate(ctx context.Context, tx *gorm.DB, action, entityName, entityID string, oldValue, newValue interface{}) error {
	return s.write(ctx, tx, s.actorID(ctx), action, changeMetadata(entityName, entityID, oldValue, newValue))
}

func (s *auditService) LogDelete(ctx context.Context, tx *gorm.DB, action, entityName, entityID string, oldValue interface{}) error {
	return s.write(ctx, tx, s.actorID(ctx), action, changeMetadata(entityName, entityID, oldValue, nil))
}

func (s *auditService) LogEvent(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, details entity.JSON) error {
	if userID == nil {
		userID = s.actorID(ctx)
	}
	return s.write(ctx, tx, userID, action, details)
}

func (s *auditService) actorID(ctx context.Context) *uuid.UUID {
	if s.actor == nil {
		return nil
	}
	id, ok := s.actor(ctx)
	if !ok {
		return nil
	}
	return &id
}

func (s *auditService) write(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, metadata entity.JSON) error {
	auditLog := &entity.AuditLog{
		UserID:   userID,
		Action:   action,
		Metadata: metadata,
	}

	if err := s.auditRepo.Create(tx.WithContext(ctx), auditLog); err != nil {
		s.log.WithField("action", action).Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}

func changeMetadata(entityName, entityID string, oldValue, newValue interface{}) entity.JSON {
	return entity.JSON{
		"entity":    entityName,
		"entity_id": entityID,
		"old_value": oldValue,
		"new_value": newValue,
	}
}
