package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strings"
	"time"

	"github.com/calzado-next/internal/constants"
	"github.com/calzado-next/internal/logger"
	"github.com/calzado-next/internal/models"
	"github.com/calzado-next/internal/queue"
	"github.com/calzado-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService 下单事务与订单状态机
type OrderService struct {
	tx          *TxRunner
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	stockRepo   repository.SizeStockRepository
	cart        *CartService
	stock       *StockService
	queue       *queue.Client
}

// OrderServiceOptions 订单服务依赖
type OrderServiceOptions struct {
	TxRunner    *TxRunner
	OrderRepo   repository.OrderRepository
	CartRepo    repository.CartRepository
	ProductRepo repository.ProductRepository
	StockRepo   repository.SizeStockRepository
	Cart        *CartService
	Stock       *StockService
	Queue       *queue.Client
}

// NewOrderService 创建订单服务
func NewOrderService(opts OrderServiceOptions) *OrderService {
	return &OrderService{
		tx:          opts.TxRunner,
		orderRepo:   opts.OrderRepo,
		cartRepo:    opts.CartRepo,
		productRepo: opts.ProductRepo,
		stockRepo:   opts.StockRepo,
		cart:        opts.Cart,
		stock:       opts.Stock,
		queue:       opts.Queue,
	}
}

// PlaceOrderInput 下单输入
type PlaceOrderInput struct {
	UserID          uint
	ShippingAddress string
	ContactPhone    *string
	Notes           *string
}

// OrderListInput 订单列表查询
type OrderListInput struct {
	Page        int
	PageSize    int
	UserID      uint
	Status      string
	OrderNo     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

type stockTouch struct {
	productID uint
	size      string
}

// PlaceOrder 购物车结算：校验 → 事务内复核库存、写订单、条件扣减、清空购物车 → 提交。
// 任一步失败整体回滚。
func (s *OrderService) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error) {
	input.ShippingAddress = strings.TrimSpace(input.ShippingAddress)
	if input.ShippingAddress == "" {
		return nil, ErrShippingAddressMissing
	}
	input.ContactPhone = trimOptional(input.ContactPhone)
	input.Notes = trimOptional(input.Notes)

	validation, err := s.cart.Validate(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if !validation.Valid {
		return nil, &CartInvalidError{Errors: validation.Errors}
	}

	var order *models.Order
	err = s.tx.Run(ctx, "place_order", func(ctx context.Context, tx *gorm.DB) error {
		created, err := s.placeOrderTx(ctx, tx, input)
		if err != nil {
			return err
		}
		order = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("order_placed",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"user_id", order.UserID,
		"total", order.Total.String(),
		"items", len(order.Items),
	)
	s.afterPlaced(order)
	return order, nil
}

func (s *OrderService) placeOrderTx(ctx context.Context, tx *gorm.DB, input PlaceOrderInput) (*models.Order, error) {
	cartRepo := s.cartRepo.WithTx(tx)
	stockRepo := s.stockRepo.WithTx(tx)

	items, err := cartRepo.ListByUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, &CartInvalidError{Errors: []string{"cart is empty"}}
	}
	// 固定加锁顺序，避免并发结算互相等待
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].ProductID != items[j].ProductID {
			return items[i].ProductID < items[j].ProductID
		}
		return items[i].Size < items[j].Size
	})

	stock := s.stock.WithTx(tx)
	var details []string
	for _, item := range items {
		if item.Product == nil || !item.Product.Active {
			details = append(details, unavailableMessage(item))
			continue
		}
		// 只负责加锁，数量由库存台账复核
		if _, err := stockRepo.GetForUpdate(ctx, item.ProductID, item.Size); err != nil {
			return nil, err
		}
		ok, err := stock.HasSufficientStock(ctx, item.ProductID, item.Size, item.Quantity)
		if err != nil {
			return nil, err
		}
		if !ok {
			available, err := stock.GetStock(ctx, item.ProductID, item.Size)
			if err != nil {
				return nil, err
			}
			details = append(details, insufficientMessage(item.Product.Name, item.Size, available))
		}
	}
	if len(details) > 0 {
		return nil, &StockChangedError{Details: details}
	}

	total := decimal.Zero
	orderItems := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		unit := EffectivePrice(item.Product)
		subtotal := LineSubtotal(unit, item.Quantity)
		total = total.Add(subtotal)
		orderItems = append(orderItems, models.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.Product.Name,
			Size:        item.Size,
			Quantity:    item.Quantity,
			UnitPrice:   models.NewMoneyFromDecimal(unit),
			Subtotal:    models.NewMoneyFromDecimal(subtotal),
		})
	}

	orderNo, err := generateOrderNo()
	if err != nil {
		return nil, err
	}
	order := &models.Order{
		OrderNo:         orderNo,
		UserID:          input.UserID,
		Total:           models.NewMoneyFromDecimal(total),
		Status:          constants.OrderStatusPending,
		ShippingAddress: input.ShippingAddress,
		ContactPhone:    input.ContactPhone,
		Notes:           input.Notes,
	}
	if err := s.orderRepo.WithTx(tx).Create(ctx, order, orderItems); err != nil {
		return nil, err
	}

	for _, item := range items {
		if err := stock.Decrement(ctx, item.ProductID, item.Size, item.Quantity); err != nil {
			var shortage *InsufficientStockError
			if errors.As(err, &shortage) {
				return nil, &StockChangedError{
					Details: []string{insufficientMessage(item.Product.Name, item.Size, shortage.Available)},
					Err:     err,
				}
			}
			return nil, err
		}
	}

	if err := cartRepo.ClearByUser(ctx, input.UserID); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) afterPlaced(order *models.Order) {
	touched := make(map[stockTouch]struct{}, len(order.Items))
	for _, item := range order.Items {
		key := stockTouch{productID: item.ProductID, size: item.Size}
		if _, ok := touched[key]; ok {
			continue
		}
		touched[key] = struct{}{}
		if err := s.queue.EnqueueStockLowCheck(queue.StockLowCheckPayload{
			ProductID: item.ProductID,
			Size:      item.Size,
		}); err != nil {
			logger.Warnw("stock_low_check_enqueue_failed",
				"order_id", order.ID,
				"product_id", item.ProductID,
				"size", item.Size,
				"error", err,
			)
		}
	}
	s.publishStatusChange(order.ID, "", order.Status)
}

// UpdateStatus 管理员修改订单状态。
// 已送达与已取消为终态；非终态之间可任意流转；取消时回补库存。
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, status string) (*models.Order, error) {
	status = normalizeOrderStatus(status)
	if !isKnownOrderStatus(status) {
		return nil, ErrInvalidStatus
	}
	return s.transition(ctx, orderID, status, func(order *models.Order) error {
		return nil
	})
}

// CancelOrder 用户取消自己的待处理订单
func (s *OrderService) CancelOrder(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	if err := s.ensureOwned(ctx, userID, orderID); err != nil {
		return nil, err
	}
	return s.transition(ctx, orderID, constants.OrderStatusCanceled, func(order *models.Order) error {
		if order.Status != constants.OrderStatusPending {
			return ErrOrderCancelNotAllowed
		}
		return nil
	})
}

func (s *OrderService) ensureOwned(ctx context.Context, userID, orderID uint) error {
	ctx, cancel := s.tx.Bound(ctx)
	defer cancel()
	existing, err := s.orderRepo.GetByIDAndUser(ctx, orderID, userID)
	if err != nil {
		return internalError("order_get", err)
	}
	if existing == nil {
		return ErrOrderNotFound
	}
	return nil
}

func (s *OrderService) transition(ctx context.Context, orderID uint, status string, guard func(order *models.Order) error) (*models.Order, error) {
	var from string
	changed := false
	err := s.tx.Run(ctx, "order_status", func(ctx context.Context, tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		order, err := orderRepo.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		from = order.Status
		if order.Status == status {
			return nil
		}
		if err := guard(order); err != nil {
			return err
		}
		if isTerminalOrderStatus(order.Status) {
			return ErrOrderStatusTerminal
		}

		updates := map[string]interface{}{}
		if status == constants.OrderStatusCanceled {
			now := time.Now()
			updates["canceled_at"] = &now
			stock := s.stock.WithTx(tx)
			for _, item := range order.Items {
				if err := stock.Increment(ctx, item.ProductID, item.Size, item.Quantity); err != nil {
					return err
				}
			}
		}
		if err := orderRepo.UpdateStatus(ctx, order.ID, status, updates); err != nil {
			return err
		}
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		logger.Infow("order_status_changed",
			"order_id", orderID,
			"from", from,
			"to", status,
		)
		s.publishStatusChange(orderID, from, status)
	}
	return s.GetOrder(ctx, orderID)
}

func (s *OrderService) publishStatusChange(orderID uint, from, to string) {
	if err := s.queue.EnqueueOrderStatusChanged(queue.OrderStatusChangedPayload{
		OrderID:    orderID,
		FromStatus: from,
		Status:     to,
	}); err != nil {
		logger.Warnw("order_status_enqueue_failed",
			"order_id", orderID,
			"status", to,
			"error", err,
		)
	}
}

// GetOrder 订单详情（管理端）
func (s *OrderService) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	ctx, cancel := s.tx.Bound(ctx)
	defer cancel()
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, internalError("order_get", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetUserOrder 用户订单详情，非本人订单视为不存在
func (s *OrderService) GetUserOrder(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	ctx, cancel := s.tx.Bound(ctx)
	defer cancel()
	order, err := s.orderRepo.GetByIDAndUser(ctx, orderID, userID)
	if err != nil {
		return nil, internalError("order_get", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrders 订单列表；UserID 非 0 时仅查该用户
func (s *OrderService) ListOrders(ctx context.Context, input OrderListInput) ([]models.Order, int64, error) {
	status := normalizeOrderStatus(input.Status)
	if status != "" && !isKnownOrderStatus(status) {
		return nil, 0, ErrInvalidStatus
	}
	ctx, cancel := s.tx.Bound(ctx)
	defer cancel()
	orders, total, err := s.orderRepo.List(ctx, repository.OrderListFilter{
		Page:        input.Page,
		PageSize:    input.PageSize,
		UserID:      input.UserID,
		Status:      status,
		OrderNo:     strings.TrimSpace(input.OrderNo),
		CreatedFrom: input.CreatedFrom,
		CreatedTo:   input.CreatedTo,
	})
	if err != nil {
		return nil, 0, internalError("order_list", err)
	}
	return orders, total, nil
}

func normalizeOrderStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

func isKnownOrderStatus(status string) bool {
	for _, known := range constants.OrderStatuses {
		if status == known {
			return true
		}
	}
	return false
}

func isTerminalOrderStatus(status string) bool {
	return status == constants.OrderStatusDelivered || status == constants.OrderStatusCanceled
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// generateOrderNo 订单号：CZ + 时间戳 + 6 位随机数
func generateOrderNo() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("CZ%s%06d", time.Now().Format("20060102150405"), n.Int64()), nil
}
