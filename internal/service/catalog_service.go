package service

import (
	"context"

	"growth-assistant-go/internal/model"
	"growth-assistant-go/internal/repository"
	"growth-assistant-go/pkg/crm"
	"growth-assistant-go/pkg/log"
)

// CatalogService 提供单次请求使用的目录快照。CRM 的任何故障都被屏蔽：
// 对应列表退回到离线 fixture，没有 fixture 时为空。
type CatalogService interface {
	GetCatalog(ctx context.Context) *model.Catalog
	// Invalidate 丢弃缓存的目录，下一次读取重新查询 CRM。
	Invalidate(ctx context.Context)
}

type catalogService struct {
	crmClient  crm.Client
	cache      repository.CatalogCacheRepository
	fixture    *model.Catalog
	employeeID string
}

// NewCatalogService 创建目录服务。crmClient、cache、fixture 均可为 nil。
func NewCatalogService(crmClient crm.Client, cache repository.CatalogCacheRepository, fixture *model.Catalog, employeeID string) CatalogService {
	return &catalogService{crmClient: crmClient, cache: cache, fixture: fixture, employeeID: employeeID}
}

// GetCatalog 依次读取产品、学习资料（按已分配产品过滤）与代金券，三次查询互不依赖一致性。
func (s *catalogService) GetCatalog(ctx context.Context) *model.Catalog {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, s.employeeID)
		if err != nil {
			log.Warnw("[CatalogService] cache read failed", "error", err)
		} else if ok {
			return cached
		}
	}

	if s.crmClient == nil {
		return s.fallbackCatalog()
	}

	catalog := &model.Catalog{}
	complete := true

	products, err := s.crmClient.ListAssignedProducts(ctx, s.employeeID)
	if err != nil {
		log.Warnw("[CatalogService] list products failed", "error", err)
		complete = false
		products = s.fixtureProducts()
	}
	catalog.Products = products

	materials, err := s.crmClient.ListLearningMaterials(ctx, products)
	if err != nil {
		log.Warnw("[CatalogService] list learning materials failed", "error", err)
		complete = false
		materials = s.fixtureMaterials()
	}
	catalog.LearningMaterials = materials

	vouchers, err := s.crmClient.ListVouchers(ctx, s.employeeID)
	if err != nil {
		log.Warnw("[CatalogService] list vouchers failed", "error", err)
		complete = false
		vouchers = s.fixtureVouchers()
	}
	catalog.Vouchers = vouchers

	if complete && s.cache != nil {
		if err := s.cache.Set(ctx, s.employeeID, catalog); err != nil {
			log.Warnw("[CatalogService] cache write failed", "error", err)
		}
	}
	return catalog
}

func (s *catalogService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, s.employeeID); err != nil {
		log.Warnw("[CatalogService] cache invalidation failed", "error", err)
	}
}

func (s *catalogService) fallbackCatalog() *model.Catalog {
	return &model.Catalog{
		Products:          s.fixtureProducts(),
		LearningMaterials: s.fixtureMaterials(),
		Vouchers:          s.fixtureVouchers(),
	}
}

func (s *catalogService) fixtureProducts() []string {
	if s.fixture == nil {
		return []string{}
	}
	return append([]string{}, s.fixture.Products...)
}

func (s *catalogService) fixtureMaterials() []model.LearningMaterial {
	if s.fixture == nil {
		return []model.LearningMaterial{}
	}
	return append([]model.LearningMaterial{}, s.fixture.LearningMaterials...)
}

func (s *catalogService) fixtureVouchers() []model.Voucher {
	if s.fixture == nil {
		return []model.Voucher{}
	}
	return append([]model.Voucher{}, s.fixture.Vouchers...)
}
