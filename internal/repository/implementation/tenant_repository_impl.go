package implementation

import (
	"context"
	"errors"

	"ai-agent-gateway-be/internal/entity"
	"ai-agent-gateway-be/internal/mapper"
	"ai-agent-gateway-be/internal/model"
	"ai-agent-gateway-be/internal/repository/contract"
	"ai-agent-gateway-be/internal/repository/specification"

	"gorm.io/gorm"
)

type TenantRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TenantMapper
}

func NewTenantRepository(db *gorm.DB) contract.TenantRepository {
	return &TenantRepositoryImpl{
		db:     db,
		mapper: mapper.NewTenantMapper(),
	}
}

func (r *TenantRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *TenantRepositoryImpl) Create(ctx context.Context, tenant *entity.Tenant) error {
	m := r.mapper.ToModel(tenant)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*tenant = *r.mapper.ToEntity(m)
	return nil
}

func (r *TenantRepositoryImpl) Update(ctx context.Context, tenant *entity.Tenant) error {
	m := r.mapper.ToModel(tenant)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*tenant = *r.mapper.ToEntity(m)
	return nil
}

func (r *TenantRepositoryImpl) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.Tenant{}, "id = ?", id).Error
}

func (r *TenantRepositoryImpl) FindByID(ctx context.Context, id string) (*entity.Tenant, error) {
	var m model.Tenant
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *TenantRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Tenant, error) {
	var models []*model.Tenant
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
