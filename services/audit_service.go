package services

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/HydraItalia/hydra-sub002/entity"
	"github.com/HydraItalia/hydra-sub002/repository"
)

// AuditSink: fire-and-forget — ห้าม error หลุดไปทำ business operation พัง
type AuditSink interface {
	LogAction(actorID uint, entityType string, entityID uint, action string, diff any)
	LogSystemAction(entityType string, entityID uint, action string, diff any)
}

type AuditService struct {
	Repo *repository.AuditRepository
	Log  *zap.SugaredLogger
}

func NewAuditService(repo *repository.AuditRepository, log *zap.SugaredLogger) *AuditService {
	return &AuditService{Repo: repo, Log: log}
}

func (s *AuditService) LogAction(actorID uint, entityType string, entityID uint, action string, diff any) {
	s.write(&actorID, entityType, entityID, action, diff)
}

func (s *AuditService) LogSystemAction(entityType string, entityID uint, action string, diff any) {
	s.write(nil, entityType, entityID, action, diff)
}

func (s *AuditService) write(actorID *uint, entityType string, entityID uint, action string, diff any) {
	payload := ""
	if diff != nil {
		if b, err := json.Marshal(diff); err == nil {
			payload = string(b)
		}
	}
	row := &entity.AuditLog{
		ID:         uuid.NewString(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Diff:       payload,
		ActorID:    actorID,
		CreatedAt:  time.Now(),
	}
	if err := s.Repo.Insert(row); err != nil {
		s.Log.Warnw("audit write failed", "entityType", entityType, "entityId", entityID, "action", action, "err", err)
	}
}
