package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growth-assistant-go/internal/model"
)

func TestCatalogService_FetchesAndCaches(t *testing.T) {
	client := &fakeCRM{
		products:  []string{"Sales Cloud"},
		materials: []model.LearningMaterial{{Name: "Sales Cloud Fundamentals", Product: "Sales Cloud"}},
		vouchers:  []model.Voucher{{Name: "Admin Voucher"}},
	}
	cache := &memoryCatalogCache{}
	svc := NewCatalogService(client, cache, nil, "005")

	c := svc.GetCatalog(context.Background())
	assert.Equal(t, []string{"Sales Cloud"}, c.Products)
	assert.Equal(t, []string{"Sales Cloud"}, client.gotProducts)
	assert.Len(t, c.Vouchers, 1)
	assert.Equal(t, 1, cache.sets)

	_ = svc.GetCatalog(context.Background())
	assert.Equal(t, 3, client.calls, "second read should come from cache")
}

func TestCatalogService_MasksBackendErrors(t *testing.T) {
	svc := NewCatalogService(&fakeCRM{err: errBackend}, nil, nil, "005")

	c := svc.GetCatalog(context.Background())
	require.NotNil(t, c)
	assert.Empty(t, c.Products)
	assert.Empty(t, c.LearningMaterials)
	assert.Empty(t, c.Vouchers)
}

func TestCatalogService_FallsBackToFixture(t *testing.T) {
	fixture := &model.Catalog{
		Products: []string{"Service Cloud"},
		Vouchers: []model.Voucher{{Name: "Salesforce Administrator Certification Voucher", ExpiryDate: "2026-04-30"}},
	}
	cache := &memoryCatalogCache{}
	svc := NewCatalogService(&fakeCRM{err: errBackend}, cache, fixture, "005")

	c := svc.GetCatalog(context.Background())
	assert.Equal(t, []string{"Service Cloud"}, c.Products)
	assert.Equal(t, "2026-04-30", c.Vouchers[0].ExpiryDate)
	assert.Zero(t, cache.sets, "degraded catalogs are not cached")

	c = NewCatalogService(nil, nil, fixture, "005").GetCatalog(context.Background())
	assert.Equal(t, []string{"Service Cloud"}, c.Products)
}

func TestCatalogService_InvalidateForcesRefetch(t *testing.T) {
	client := &fakeCRM{products: []string{"Sales Cloud"}, vouchers: []model.Voucher{{Name: "Admin Voucher"}}}
	cache := &memoryCatalogCache{}
	svc := NewCatalogService(client, cache, nil, "005")
	ctx := context.Background()

	_ = svc.GetCatalog(ctx)
	require.Equal(t, 3, client.calls)

	svc.Invalidate(ctx)
	assert.NotContains(t, cache.entries, "005")

	_ = svc.GetCatalog(ctx)
	assert.Equal(t, 6, client.calls)

	NewCatalogService(client, nil, nil, "005").Invalidate(ctx)
}
