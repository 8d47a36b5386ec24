package services

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/HydraItalia/hydra-sub002/entity"
	"github.com/HydraItalia/hydra-sub002/pkg/opresult"
	"github.com/HydraItalia/hydra-sub002/repository"
)

type OrderService struct {
	DB       *gorm.DB
	Repo     *repository.OrderRepository
	SubRepo  *repository.SubOrderRepository
	CartRepo *repository.CartRepository

	Pricer   Pricer
	Notifier Notifier
	Audit    AuditSink
	Events   EventPublisher
	Log      *zap.SugaredLogger

	FeeBps int
}

func NewOrderService(
	db *gorm.DB,
	repo *repository.OrderRepository,
	subRepo *repository.SubOrderRepository,
	cartRepo *repository.CartRepository,
	pricer Pricer,
	notifier Notifier,
	audit AuditSink,
	events EventPublisher,
	log *zap.SugaredLogger,
	feeBps int,
) *OrderService {
	return &OrderService{
		DB: db, Repo: repo, SubRepo: subRepo, CartRepo: cartRepo,
		Pricer: pricer, Notifier: notifier, Audit: audit, Events: events,
		Log: log, FeeBps: feeBps,
	}
}

// ----- DTOs from Controller -----

type CheckoutReq struct {
	DeliveryAddress string   `json:"deliveryAddress" binding:"required"`
	DeliveryLat     *float64 `json:"deliveryLat"`
	DeliveryLng     *float64 `json:"deliveryLng"`
}

type SubOrderOut struct {
	ID             uint   `json:"id"`
	SubOrderNumber string `json:"subOrderNumber"`
	VendorID       uint   `json:"vendorId"`
	SubTotalCents  int64  `json:"subTotalCents"`
}

type CheckoutRes struct {
	ID          uint          `json:"id"`
	OrderNumber string        `json:"orderNumber"`
	TotalCents  int64         `json:"totalCents"`
	SubOrders   []SubOrderOut `json:"subOrders"`
}

// vendorGroup รวม line ของ vendor เดียวกัน เรียงตามลำดับที่เจอใน cart
type vendorGroup struct {
	vendorID   uint
	vendorName string
	items      []entity.CartItem
	subTotal   int64
}

// CreateFromCart แตก cart หลาย vendor → Order หนึ่งใบ + SubOrder ต่อ vendor
// ทั้งก้อนอยู่ใน transaction เดียว; เคลียร์ cart หลัง commit (ตั้งใจไม่อยู่ใน tx)
func (s *OrderService) CreateFromCart(userID, clientID uint, req *CheckoutReq) (*CheckoutRes, error) {
	cart, err := s.CartRepo.GetActiveCartWithItems(clientID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, opresult.New(opresult.KindValidation, "cart is empty")
	}

	// 1) ยอดรวมจาก snapshot ใน cart
	var totalCents int64
	for _, it := range cart.Items {
		if it.Qty <= 0 || it.UnitPriceCents < 0 {
			return nil, opresult.New(opresult.KindValidation, "cart item has invalid qty or price")
		}
		totalCents += int64(it.Qty) * it.UnitPriceCents
	}

	// 2) group ตาม vendor — ลำดับที่เจอครั้งแรกเป็นลำดับ sub-order (V01, V02, ...)
	groupIdx := map[uint]int{}
	var groups []*vendorGroup
	for _, it := range cart.Items {
		vid := it.VendorProduct.VendorID
		idx, seen := groupIdx[vid]
		if !seen {
			idx = len(groups)
			groupIdx[vid] = idx
			groups = append(groups, &vendorGroup{vendorID: vid, vendorName: it.VendorProduct.Vendor.Name})
		}
		g := groups[idx]
		g.items = append(g.items, it)
		g.subTotal += int64(it.Qty) * it.UnitPriceCents
	}

	// invariant: ผลรวม sub-total ต้องเท่า total เป๊ะ — พังคือ bug ของ splitter เอง
	var checkSum int64
	for _, g := range groups {
		checkSum += g.subTotal
	}
	if checkSum != totalCents {
		panic(fmt.Sprintf("order split invariant broken: sub totals %d != order total %d", checkSum, totalCents))
	}

	order := entity.Order{
		Status:          entity.OrderStatusSubmitted,
		TotalCents:      totalCents,
		DeliveryAddress: req.DeliveryAddress,
		DeliveryLat:     req.DeliveryLat,
		DeliveryLng:     req.DeliveryLng,
		ClientID:        clientID,
		UserID:          userID,
	}

	var out CheckoutRes
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		num, err := s.generateOrderNumber(tx)
		if err != nil {
			return err
		}
		order.OrderNumber = num
		if err := s.Repo.CreateOrder(tx, &order); err != nil {
			return err
		}

		for i, g := range groups {
			sub := entity.SubOrder{
				SubOrderNumber: fmt.Sprintf("%s-V%02d", num, i+1),
				Status:         entity.SubOrderStatusPending,
				SubTotalCents:  g.subTotal,
				PaymentStatus:  entity.PaymentStatusPending,
				OrderID:        order.ID,
				VendorID:       g.vendorID,
			}

			// VAT snapshot: ครบสามตัวหรือ null ทั้งสามตัว
			if net, vat, ok, err := s.vatSnapshot(tx, clientID, g); err != nil {
				return err
			} else if ok {
				gross := g.subTotal
				sub.NetTotalCents = &net
				sub.VatTotalCents = &vat
				sub.GrossTotalCents = &gross
			}

			fee, err := ComputeFeeCents(g.subTotal, s.FeeBps)
			if err != nil {
				return err
			}
			sub.HydraFeeCents = &fee

			if err := s.Repo.CreateSubOrder(tx, &sub); err != nil {
				return err
			}

			for _, it := range g.items {
				oi := entity.OrderItem{
					ProductName:     it.VendorProduct.Name,
					VendorName:      g.vendorName,
					Qty:             it.Qty,
					UnitPriceCents:  it.UnitPriceCents,
					LineTotalCents:  int64(it.Qty) * it.UnitPriceCents,
					SubOrderID:      sub.ID,
					VendorProductID: it.VendorProductID,
				}
				if err := s.Repo.CreateOrderItem(tx, &oi); err != nil {
					return err
				}
			}

			out.SubOrders = append(out.SubOrders, SubOrderOut{
				ID: sub.ID, SubOrderNumber: sub.SubOrderNumber,
				VendorID: sub.VendorID, SubTotalCents: sub.SubTotalCents,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out.ID = order.ID
	out.OrderNumber = order.OrderNumber
	out.TotalCents = order.TotalCents

	// 3) หลัง commit: เคลียร์ cart — พลาดก็ไม่ rollback order (cart stale จะถูกแทนที่เอง)
	if cart.ID != 0 {
		if err := s.CartRepo.ClearItems(cart.ID); err != nil {
			s.Log.Warnw("cart clear failed after checkout", "cartId", cart.ID, "orderId", order.ID, "err", err)
		}
	}

	// 4) best-effort notification — ห้ามทำ checkout พัง
	s.sendConfirmation(&order)

	s.Audit.LogAction(userID, "Order", order.ID, "order.created", map[string]any{
		"orderNumber": order.OrderNumber, "totalCents": order.TotalCents, "subOrders": len(groups),
	})
	subIDs := make([]uint, 0, len(out.SubOrders))
	for _, so := range out.SubOrders {
		subIDs = append(subIDs, so.ID)
	}
	s.Events.Publish(OrderCreated{
		OrderID: order.ID, OrderNumber: order.OrderNumber,
		TotalCents: order.TotalCents, SubOrderIDs: subIDs,
	})

	return &out, nil
}

// vatSnapshot: ok=false ถ้าสินค้าตัวใดตัวหนึ่งในกลุ่มยังไม่ตั้งค่า VAT rate
// อ่าน catalog ผ่าน tx ของ transaction ที่กำลังสร้างออเดอร์ เพื่อให้ snapshot consistent
func (s *OrderService) vatSnapshot(tx *gorm.DB, clientID uint, g *vendorGroup) (net, vat int64, ok bool, err error) {
	for _, it := range g.items {
		_, rate, perr := s.Pricer.EffectiveUnitPrice(tx, clientID, it.VendorProductID)
		if perr != nil {
			if errors.Is(perr, ErrProductInactive) || errors.Is(perr, gorm.ErrRecordNotFound) {
				// สินค้าเปลี่ยนสถานะหลังใส่ cart — ออเดอร์ยังใช้ snapshot เดิม แต่ไม่ตั้ง VAT
				return 0, 0, false, nil
			}
			return 0, 0, false, perr
		}
		if rate == nil {
			return 0, 0, false, nil
		}
		lineGross := int64(it.Qty) * it.UnitPriceCents
		lineNet, lineVat := SplitGrossByVatRate(lineGross, *rate)
		net += lineNet
		vat += lineVat
	}
	return net, vat, true, nil
}

const orderNumberAttempts = 5

// generateOrderNumber: HYD-<YYYYMMDD>-<4 หลักสุ่ม> เช็คชนแล้ว retry
func (s *OrderService) generateOrderNumber(tx *gorm.DB) (string, error) {
	day := time.Now().Format("20060102")
	for i := 0; i < orderNumberAttempts; i++ {
		num := fmt.Sprintf("HYD-%s-%04d", day, rand.Intn(10000))
		exists, err := s.Repo.OrderNumberExists(tx, num)
		if err != nil {
			return "", err
		}
		if !exists {
			return num, nil
		}
	}
	return "", errors.New("could not generate unique order number")
}

func (s *OrderService) sendConfirmation(order *entity.Order) {
	subs, err := s.Repo.GetSubOrders(order.ID)
	if err != nil {
		s.Log.Warnw("confirmation skipped: load sub-orders failed", "orderId", order.ID, "err", err)
		return
	}
	body, err := s.Notifier.BuildOrderConfirmation(order, subs)
	if err != nil {
		s.Log.Warnw("confirmation build failed", "orderId", order.ID, "err", err)
		return
	}
	if err := s.Notifier.SendOrderConfirmation(order, body); err != nil {
		s.Log.Warnw("confirmation send failed", "orderId", order.ID, "err", err)
	}
}

// ----- List & Detail -----

func (s *OrderService) ListForClient(clientID uint, limit int) ([]repository.OrderSummary, error) {
	return s.Repo.ListOrdersForClient(clientID, limit)
}

func (s *OrderService) DetailForClient(clientID, orderID uint) (*entity.Order, error) {
	o, err := s.Repo.GetOrderForClient(clientID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, opresult.New(opresult.KindNotFound, "order not found")
		}
		return nil, err
	}
	return o, nil
}

// ----- Transitions -----

func (s *OrderService) CancelOrder(actorID, orderID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		o, err := s.Repo.GetOrder(orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return opresult.New(opresult.KindNotFound, "order not found")
			}
			return err
		}
		affected, err := s.Repo.UpdateStatusGuard(tx, o.ID, o.Status, entity.OrderStatusCanceled)
		if err != nil {
			return err
		}
		if affected == 0 {
			return opresult.New(opresult.KindConflict, "invalid_or_conflict")
		}
		s.Audit.LogAction(actorID, "Order", o.ID, "order.canceled", nil)
		return nil
	})
}

// ConfirmSubOrder: vendor ยืนยันรับงาน (PENDING → CONFIRMED) — ผู้เรียกค่อยสั่ง capture
func (s *OrderService) ConfirmSubOrder(actorID, subID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		affected, err := s.SubRepo.UpdateStatusGuard(tx, subID, entity.SubOrderStatusPending, entity.SubOrderStatusConfirmed)
		if err != nil {
			return err
		}
		if affected == 0 {
			return opresult.New(opresult.KindConflict, "invalid_or_conflict")
		}
		s.Audit.LogAction(actorID, "SubOrder", subID, "suborder.confirmed", nil)
		return nil
	})
}
