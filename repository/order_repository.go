package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/HydraItalia/hydra-sub002/entity"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

// ---------------- Orders ----------------

func (r *OrderRepository) CreateOrder(tx *gorm.DB, o *entity.Order) error {
	return tx.Create(o).Error
}

func (r *OrderRepository) CreateSubOrder(tx *gorm.DB, s *entity.SubOrder) error {
	return tx.Create(s).Error
}

func (r *OrderRepository) CreateOrderItem(tx *gorm.DB, oi *entity.OrderItem) error {
	return tx.Create(oi).Error
}

// ตรวจชนกันของ order number ก่อนใช้ (generator เป็น random)
func (r *OrderRepository) OrderNumberExists(tx *gorm.DB, num string) (bool, error) {
	var count int64
	err := tx.Model(&entity.Order{}).Where("order_number = ?", num).Count(&count).Error
	return count > 0, err
}

func (r *OrderRepository) GetOrder(orderID uint) (*entity.Order, error) {
	var o entity.Order
	if err := r.DB.First(&o, orderID).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// GET /orders/:id (client) → รายละเอียดพร้อม sub-orders + items
func (r *OrderRepository) GetOrderForClient(clientID, orderID uint) (*entity.Order, error) {
	var o entity.Order
	err := r.DB.Where("id = ? AND client_id = ?", orderID, clientID).
		Preload("SubOrders").
		Preload("SubOrders.Items").
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GET /orders (client) → รายการ order ของ client
type OrderSummary struct {
	ID          uint      `json:"id"`
	OrderNumber string    `json:"orderNumber"`
	Status      string    `json:"status"`
	TotalCents  int64     `json:"totalCents"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (r *OrderRepository) ListOrdersForClient(clientID uint, limit int) ([]OrderSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []OrderSummary
	err := r.DB.Model(&entity.Order{}).
		Select("id, order_number, status, total_cents, created_at").
		Where("client_id = ?", clientID).
		Order("id DESC").Limit(limit).
		Scan(&out).Error
	return out, err
}

func (r *OrderRepository) GetSubOrders(orderID uint) ([]entity.SubOrder, error) {
	var subs []entity.SubOrder
	err := r.DB.Where("order_id = ?", orderID).Order("sub_order_number ASC").Find(&subs).Error
	return subs, err
}

// PUT status (มี guard กัน transition ซ้อน)
func (r *OrderRepository) UpdateStatusGuard(tx *gorm.DB, orderID uint, from, to string) (int64, error) {
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}
