package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"cafe-inventory/internal/cache"
	"cafe-inventory/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeItemRepo struct {
	items      []*models.ItemWithStock
	categories []*models.Category
	refs       []*models.ItemRef
	lowStock   []*models.LowStockItem
	stock      map[int]int

	created []*models.Item
	nextID  int

	categoriesCalls int
	refsCalls       int

	err error
}

func (f *fakeItemRepo) CreateItem(ctx context.Context, item *models.Item) error {
	if f.err != nil {
		return f.err
	}
	f.nextID++
	item.ID = f.nextID
	f.created = append(f.created, item)
	return nil
}

func (f *fakeItemRepo) ListItemsWithStock(ctx context.Context) ([]*models.ItemWithStock, error) {
	return f.items, f.err
}

func (f *fakeItemRepo) ListItemRefs(ctx context.Context) ([]*models.ItemRef, error) {
	f.refsCalls++
	return f.refs, f.err
}

func (f *fakeItemRepo) ListCategories(ctx context.Context) ([]*models.Category, error) {
	f.categoriesCalls++
	return f.categories, f.err
}

func (f *fakeItemRepo) GetCurrentStock(ctx context.Context, itemID int) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.stock[itemID], nil
}

func (f *fakeItemRepo) ListLowStock(ctx context.Context) ([]*models.LowStockItem, error) {
	return f.lowStock, f.err
}

type fakeLogRepo struct {
	logs    []*models.StockLog
	details []*models.StockLogWithDetails
	nextID  int
	err     error

	// When set, CreateLog applies the change to this shared stock map so
	// tests can observe the derived total the way the SQL SUM would.
	applyTo *fakeItemRepo
}

func (f *fakeLogRepo) CreateLog(ctx context.Context, log *models.StockLog) error {
	if f.err != nil {
		return f.err
	}
	f.nextID++
	log.ID = f.nextID
	f.logs = append(f.logs, log)
	if f.applyTo != nil {
		if f.applyTo.stock == nil {
			f.applyTo.stock = make(map[int]int)
		}
		f.applyTo.stock[log.ItemID] += log.Change
	}
	return nil
}

func (f *fakeLogRepo) ListLogsWithDetails(ctx context.Context) ([]*models.StockLogWithDetails, error) {
	return f.details, f.err
}

func newTestService(items *fakeItemRepo, logs *fakeLogRepo, refCache *cache.ReferenceCache) *inventoryService {
	svc := NewInventoryService(items, logs, refCache, zap.NewNop()).(*inventoryService)
	svc.now = func() time.Time {
		return time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)
	}
	return svc
}

func TestRecordMovementSignComputation(t *testing.T) {
	tests := []struct {
		name       string
		action     string
		quantity   int
		wantChange int
	}{
		{"in adds the quantity", "in", 10, 10},
		{"out subtracts the quantity", "out", 3, -3},
		{"unknown action records an outflow", "restock", 5, -5},
		{"empty action records an outflow", "", 7, -7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := &fakeLogRepo{}
			svc := newTestService(&fakeItemRepo{}, logs, nil)

			log, err := svc.RecordMovement(context.Background(), &models.RecordMovementRequest{
				ItemID:   1,
				Quantity: tt.quantity,
				Action:   tt.action,
				Memo:     "delivery",
				UserID:   1,
			})

			require.NoError(t, err)
			assert.Equal(t, tt.wantChange, log.Change)
			assert.Equal(t, "2025-03-01 10:30:00", log.Timestamp)
			assert.Equal(t, "delivery", log.Memo)
		})
	}
}

func TestRecordMovementThreadsActingUser(t *testing.T) {
	logs := &fakeLogRepo{}
	svc := newTestService(&fakeItemRepo{}, logs, nil)

	log, err := svc.RecordMovement(context.Background(), &models.RecordMovementRequest{
		ItemID:   2,
		Quantity: 4,
		Action:   "in",
		UserID:   42,
	})

	require.NoError(t, err)
	assert.Equal(t, 42, log.UserID)
	require.Len(t, logs.logs, 1)
	assert.Equal(t, 42, logs.logs[0].UserID)
}

func TestRecordMovementRepoError(t *testing.T) {
	logs := &fakeLogRepo{err: errors.New("connection reset")}
	svc := newTestService(&fakeItemRepo{}, logs, nil)

	_, err := svc.RecordMovement(context.Background(), &models.RecordMovementRequest{
		ItemID:   1,
		Quantity: 1,
		Action:   "in",
		UserID:   1,
	})

	require.Error(t, err)
}

func TestStockSumAcrossMovements(t *testing.T) {
	items := &fakeItemRepo{stock: make(map[int]int)}
	logs := &fakeLogRepo{applyTo: items}
	svc := newTestService(items, logs, nil)

	_, err := svc.RecordMovement(context.Background(), &models.RecordMovementRequest{
		ItemID: 1, Quantity: 10, Action: "in", UserID: 1,
	})
	require.NoError(t, err)

	_, err = svc.RecordMovement(context.Background(), &models.RecordMovementRequest{
		ItemID: 1, Quantity: 3, Action: "out", UserID: 1,
	})
	require.NoError(t, err)

	stock, err := svc.GetCurrentStock(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 7, stock)
}

func TestGetCurrentStockDefaultsToZero(t *testing.T) {
	svc := newTestService(&fakeItemRepo{stock: make(map[int]int)}, &fakeLogRepo{}, nil)

	stock, err := svc.GetCurrentStock(context.Background(), 99)
	require.NoError(t, err)
	assert.Equal(t, 0, stock)
}

func TestCreateItemAssignsID(t *testing.T) {
	items := &fakeItemRepo{}
	svc := newTestService(items, &fakeLogRepo{}, nil)

	item, err := svc.CreateItem(context.Background(), &models.CreateItemRequest{
		Name:           "Coffee Beans",
		Unit:           "kg",
		CategoryID:     1,
		AlertThreshold: 5,
		Note:           "arabica",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, item.ID)
	assert.Equal(t, "Coffee Beans", item.Name)
	assert.Equal(t, "kg", item.Unit)
	assert.Equal(t, 5, item.AlertThreshold)
	require.Len(t, items.created, 1)
}

func TestListItemsBuildsStockMap(t *testing.T) {
	items := &fakeItemRepo{
		items: []*models.ItemWithStock{
			{
				ItemWithCategory: models.ItemWithCategory{
					Item:         models.Item{ID: 1, Name: "Coffee Beans", Unit: "kg"},
					CategoryName: "Ingredients",
				},
				CurrentStock: 7,
			},
			{
				ItemWithCategory: models.ItemWithCategory{
					Item:         models.Item{ID: 2, Name: "Paper Cups", Unit: "pcs"},
					CategoryName: "Supplies",
				},
				CurrentStock: 0,
			},
		},
	}
	svc := newTestService(items, &fakeLogRepo{}, nil)

	listing, err := svc.ListItems(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, listing.TotalItems)
	assert.Equal(t, 7, listing.StockByID[1])
	assert.Equal(t, 0, listing.StockByID[2])
}

func TestListCategoriesUsesCache(t *testing.T) {
	items := &fakeItemRepo{
		categories: []*models.Category{{ID: 1, Name: "Ingredients"}},
	}
	refCache := cache.NewReferenceCache(nil, time.Minute, zap.NewNop())
	svc := newTestService(items, &fakeLogRepo{}, refCache)

	first, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	second, err := svc.ListCategories(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, items.categoriesCalls)
}

func TestCreateItemInvalidatesItemRefCache(t *testing.T) {
	items := &fakeItemRepo{
		refs: []*models.ItemRef{{ID: 1, Name: "Coffee Beans"}},
	}
	refCache := cache.NewReferenceCache(nil, time.Minute, zap.NewNop())
	svc := newTestService(items, &fakeLogRepo{}, refCache)

	_, err := svc.ListItemRefs(context.Background())
	require.NoError(t, err)

	_, err = svc.CreateItem(context.Background(), &models.CreateItemRequest{
		Name: "Paper Cups", Unit: "pcs", CategoryID: 1,
	})
	require.NoError(t, err)

	items.refs = append(items.refs, &models.ItemRef{ID: 2, Name: "Paper Cups"})

	refs, err := svc.ListItemRefs(context.Background())
	require.NoError(t, err)

	assert.Len(t, refs, 2)
	assert.Equal(t, 2, items.refsCalls)
}

func TestListMovementsPassThrough(t *testing.T) {
	logs := &fakeLogRepo{
		details: []*models.StockLogWithDetails{
			{
				StockLog: models.StockLog{ID: 2, ItemID: 1, Change: -3, Timestamp: "2025-03-01 10:31:00"},
				ItemName: "Coffee Beans",
				Username: "admin",
			},
			{
				StockLog: models.StockLog{ID: 1, ItemID: 1, Change: 10, Timestamp: "2025-03-01 10:30:00"},
				ItemName: "Coffee Beans",
				Username: "admin",
			},
		},
	}
	svc := newTestService(&fakeItemRepo{}, logs, nil)

	listing, err := svc.ListMovements(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, listing.TotalMovements)
	assert.Equal(t, "admin", listing.Movements[0].Username)
	// Newest first, as the repository orders them
	assert.Equal(t, 2, listing.Movements[0].ID)
}
