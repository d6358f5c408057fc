package implementation

import (
	"context"

	"ai-agent-gateway-be/internal/entity"
	"ai-agent-gateway-be/internal/mapper"
	"ai-agent-gateway-be/internal/model"
	"ai-agent-gateway-be/internal/repository/contract"
	"ai-agent-gateway-be/internal/repository/specification"

	"gorm.io/gorm"
)

type TurnRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TurnMapper
}

func NewTurnRepository(db *gorm.DB) contract.TurnRepository {
	return &TurnRepositoryImpl{
		db:     db,
		mapper: mapper.NewTurnMapper(),
	}
}

func (r *TurnRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *TurnRepositoryImpl) Create(ctx context.Context, turn *entity.Turn) error {
	m := r.mapper.ToModel(turn)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*turn = *r.mapper.ToEntity(m)
	return nil
}

func (r *TurnRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Turn, error) {
	var models []*model.Turn
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *TurnRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Turn{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *TurnRepositoryImpl) DeleteBySession(ctx context.Context, tenantID, sessionID string) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND session_id = ?", tenantID, sessionID).
		Delete(&model.Turn{}).Error
}
