package repository

import (
	"gorm.io/gorm"

	"github.com/HydraItalia/hydra-sub002/entity"
)

type AuditRepository struct{ DB *gorm.DB }

func NewAuditRepository(db *gorm.DB) *AuditRepository { return &AuditRepository{DB: db} }

func (r *AuditRepository) Insert(a *entity.AuditLog) error {
	return r.DB.Create(a).Error
}

func (r *AuditRepository) ListForEntity(entityType string, entityID uint, limit int) ([]entity.AuditLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var out []entity.AuditLog
	err := r.DB.Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at DESC").Limit(limit).
		Find(&out).Error
	return out, err
}
