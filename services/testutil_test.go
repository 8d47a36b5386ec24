package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/HydraItalia/hydra-sub002/entity"
	pkglogger "github.com/HydraItalia/hydra-sub002/pkg/logger"
	"github.com/HydraItalia/hydra-sub002/repository"
)

var testDBSeq atomic.Int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// in-memory ต่อเทส แต่ตั้งชื่อ + cache=shared เพื่อให้ทุก connection
	// ใน pool เห็น database เดียวกัน (plain :memory: = คนละ DB ต่อ connection)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&entity.Client{}, &entity.User{},
		&entity.Vendor{}, &entity.VendorProduct{}, &entity.PriceOverride{},
		&entity.Cart{}, &entity.CartItem{},
		&entity.Order{}, &entity.SubOrder{}, &entity.OrderItem{},
		&entity.AuditLog{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

type fixture struct {
	db     *gorm.DB
	client entity.Client
	user   entity.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)

	f := &fixture{db: db}
	f.client = entity.Client{Name: "Trattoria Roma", StripeCustomerID: "cus_test_1"}
	if err := db.Create(&f.client).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	f.user = entity.User{Email: "owner@trattoria.test", Role: "client", ClientID: &f.client.ID}
	if err := db.Create(&f.user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return f
}

func (f *fixture) seedVendor(t *testing.T, name, stripeAccountID string) entity.Vendor {
	t.Helper()
	v := entity.Vendor{Name: name, StripeAccountID: stripeAccountID, ChargesEnabled: true}
	if err := f.db.Create(&v).Error; err != nil {
		t.Fatalf("seed vendor: %v", err)
	}
	return v
}

func (f *fixture) seedProduct(t *testing.T, vendorID uint, name string, priceCents int64, vatBps *int) entity.VendorProduct {
	t.Helper()
	p := entity.VendorProduct{Name: name, BasePriceCents: priceCents, VatRateBps: vatBps, Active: true, VendorID: vendorID}
	if err := f.db.Create(&p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

func (f *fixture) seedCartItem(t *testing.T, cartID, productID uint, qty int, unitCents int64) entity.CartItem {
	t.Helper()
	it := entity.CartItem{CartID: cartID, VendorProductID: productID, Qty: qty, UnitPriceCents: unitCents, LineTotalCents: int64(qty) * unitCents}
	if err := f.db.Create(&it).Error; err != nil {
		t.Fatalf("seed cart item: %v", err)
	}
	return it
}

func (f *fixture) seedCart(t *testing.T) entity.Cart {
	t.Helper()
	c := entity.Cart{ClientID: f.client.ID, Status: entity.CartStatusActive}
	if err := f.db.Create(&c).Error; err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	return c
}

func (f *fixture) orderService(t *testing.T, notifier Notifier) *OrderService {
	t.Helper()
	log := pkglogger.NewNop()
	vendorRepo := repository.NewVendorRepository(f.db)
	audit := NewAuditService(repository.NewAuditRepository(f.db), log)
	if notifier == nil {
		notifier = NewLogNotifier(log)
	}
	return NewOrderService(
		f.db,
		repository.NewOrderRepository(f.db),
		repository.NewSubOrderRepository(f.db),
		repository.NewCartRepository(f.db),
		NewCatalogPricer(vendorRepo),
		notifier,
		audit,
		NewLogPublisher(log),
		log,
		500,
	)
}

func (f *fixture) paymentService(t *testing.T, proc PaymentProcessor) *PaymentService {
	t.Helper()
	log := pkglogger.NewNop()
	audit := NewAuditService(repository.NewAuditRepository(f.db), log)
	return NewPaymentService(
		f.db,
		repository.NewSubOrderRepository(f.db),
		proc,
		audit,
		NewLogPublisher(log),
		log,
		DefaultMaxRetryAttempts,
	)
}

// ----- fakes -----

// fakeProcessor ตอบตาม script ที่ตั้งไว้ เรียงตามลำดับ call
type fakeProcessor struct {
	authorizeResults []*ProcessorResult
	captureResults   []*ProcessorResult
	authorizeCalls   int
	captureCalls     int
	transportErr     error
}

func (p *fakeProcessor) Authorize(_ context.Context, _ *entity.SubOrder, _ string) (*ProcessorResult, error) {
	p.authorizeCalls++
	if p.transportErr != nil {
		return nil, p.transportErr
	}
	if len(p.authorizeResults) == 0 {
		return &ProcessorResult{Success: true, ChargeID: "ch_fake"}, nil
	}
	res := p.authorizeResults[0]
	if len(p.authorizeResults) > 1 {
		p.authorizeResults = p.authorizeResults[1:]
	}
	return res, nil
}

func (p *fakeProcessor) Capture(_ context.Context, _ *entity.SubOrder, _ string) (*ProcessorResult, error) {
	p.captureCalls++
	if p.transportErr != nil {
		return nil, p.transportErr
	}
	if len(p.captureResults) == 0 {
		return &ProcessorResult{Success: true}, nil
	}
	res := p.captureResults[0]
	if len(p.captureResults) > 1 {
		p.captureResults = p.captureResults[1:]
	}
	return res, nil
}

type failingNotifier struct{}

func (failingNotifier) BuildOrderConfirmation(*entity.Order, []entity.SubOrder) (string, error) {
	return "", errors.New("template exploded")
}
func (failingNotifier) SendOrderConfirmation(*entity.Order, string) error {
	return errors.New("smtp down")
}

func ptrTime(t time.Time) *time.Time { return &t }
func ptrStr(s string) *string        { return &s }
func ptrInt(n int) *int              { return &n }
