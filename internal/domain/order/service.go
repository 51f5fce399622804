package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/haritfarms/storefront-backend/internal/config"
	"github.com/haritfarms/storefront-backend/internal/domain/cart"
	"github.com/haritfarms/storefront-backend/internal/domain/checkout"
	"github.com/haritfarms/storefront-backend/internal/domain/coupon"
	"github.com/haritfarms/storefront-backend/internal/domain/product"
	"github.com/haritfarms/storefront-backend/internal/domain/user"
	"github.com/haritfarms/storefront-backend/internal/pkg/email"
)

// Order errors
var (
	ErrNotFound          = errors.New("order not found")
	ErrNotCancellable    = errors.New("order can no longer be cancelled")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrInsufficientStock = errors.New("insufficient stock for one or more items")
	ErrStatusChanged     = errors.New("order status changed concurrently, retry")
)

// Service handles order business logic
type Service struct {
	db       *gorm.DB
	config   *config.Config
	log      *logrus.Logger
	emails   *email.Service
	carts    *cart.Service
	checkout *checkout.Service
	coupons  *coupon.Service
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config, log *logrus.Logger, emails *email.Service,
	carts *cart.Service, checkoutSvc *checkout.Service, coupons *coupon.Service) *Service {
	return &Service{
		db:       db,
		config:   cfg,
		log:      log,
		emails:   emails,
		carts:    carts,
		checkout: checkoutSvc,
		coupons:  coupons,
	}
}

// PlaceRequest represents an order placement request
type PlaceRequest struct {
	AddressID     uint   `json:"address_id" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required,oneof=cod online"`
	Notes         string `json:"notes"`
}

// ListRequest represents order list query parameters
type ListRequest struct {
	Page   int    `form:"page,default=1"`
	Limit  int    `form:"limit,default=20"`
	Status string `form:"status"`
	Search string `form:"search"` // Admin: order number or user email
}

// ListResponse represents paginated orders
type ListResponse struct {
	Orders     []Order            `json:"orders"`
	Pagination product.Pagination `json:"pagination"`
}

// CancelRequest represents a customer cancellation
type CancelRequest struct {
	Reason string `json:"reason"`
}

// StatusUpdateRequest represents an admin status update
type StatusUpdateRequest struct {
	Status  Status `json:"status" binding:"required"`
	Comment string `json:"comment"`
}

// PlaceOrder creates an order from the user's cart. Stock is decremented
// inside the transaction with a conditional update, so two orders can never
// both take the last unit. The cart is cleared on success.
func (s *Service) PlaceOrder(ctx context.Context, userID uint, req *PlaceRequest) (*Order, error) {
	quote, items, err := s.checkout.QuoteCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	var addr user.Address
	err = s.db.Where("id = ? AND user_id = ?", req.AddressID, userID).First(&addr).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("address not found")
		}
		return nil, fmt.Errorf("failed to load address: %w", err)
	}

	o := Order{
		OrderNumber:    GenerateOrderNumber(),
		UserID:         userID,
		Status:         StatusPending,
		PaymentStatus:  PaymentPending,
		PaymentMethod:  req.PaymentMethod,
		SubtotalAmount: quote.SubTotal,
		DiscountAmount: quote.Discount,
		ShippingAmount: quote.Shipping,
		TaxAmount:      quote.Tax,
		TotalAmount:    quote.Total,
		CouponID:       quote.CouponID,
		CouponCode:     quote.CouponCode,
		Currency:       s.config.Razorpay.Currency,
		Notes:          req.Notes,
		ShippingAddress: ShippingAddress{
			FullName:     addr.FullName,
			Phone:        addr.Phone,
			AddressLine1: addr.AddressLine1,
			AddressLine2: addr.AddressLine2,
			City:         addr.City,
			State:        addr.State,
			PostalCode:   addr.PostalCode,
			Country:      addr.Country,
		},
	}

	for _, item := range items {
		imageURL := ""
		if len(item.Product.Images) > 0 {
			imageURL = item.Product.Images[0].URL
		}
		o.Items = append(o.Items, OrderItem{
			ProductID:  item.ProductID,
			SKU:        item.Product.SKU,
			Name:       item.Product.Name,
			Unit:       item.Product.Unit,
			ImageURL:   imageURL,
			Quantity:   item.Quantity,
			Price:      item.Price,
			TotalPrice: item.Price * int64(item.Quantity),
		})
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range o.Items {
			result := tx.Model(&product.Product{}).
				Where("id = ? AND quantity >= ?", item.ProductID, item.Quantity).
				Update("quantity", gorm.Expr("quantity - ?", item.Quantity))
			if result.Error != nil {
				return fmt.Errorf("failed to reserve stock: %w", result.Error)
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("%w: %s", ErrInsufficientStock, item.Name)
			}
		}

		if err := tx.Create(&o).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		history := StatusHistory{
			OrderID:   o.ID,
			Status:    StatusPending,
			Comment:   "Order placed",
			CreatedBy: userID,
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to record status history: %w", err)
		}

		if err := tx.Where("user_id = ?", userID).Delete(&cart.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if o.CouponID != nil {
		if err := s.coupons.Consume(ctx, userID, *o.CouponID); err != nil {
			s.log.WithError(err).WithField("order_number", o.OrderNumber).
				Warn("Failed to record coupon use")
		}
	}

	// Online orders are confirmed once payment is verified
	if o.PaymentMethod == MethodCOD {
		s.sendOrderEmail(&o, s.emails.SendOrderConfirmation)
	}

	s.log.WithFields(logrus.Fields{
		"order_number":   o.OrderNumber,
		"user_id":        userID,
		"payment_method": o.PaymentMethod,
		"total":          o.TotalAmount,
	}).Info("Order placed")

	return s.GetByID(o.ID)
}

// GetByID retrieves an order with items and history
func (s *Service) GetByID(orderID uint) (*Order, error) {
	var o Order
	result := s.db.Preload("Items").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&o, orderID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", result.Error)
	}
	return &o, nil
}

// GetUserOrder retrieves an order scoped to its owner
func (s *Service) GetUserOrder(userID, orderID uint) (*Order, error) {
	o, err := s.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, ErrNotFound
	}
	return o, nil
}

// GetByNumber retrieves an order by its order number
func (s *Service) GetByNumber(orderNumber string) (*Order, error) {
	var o Order
	result := s.db.Preload("Items").Where("order_number = ?", orderNumber).First(&o)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", result.Error)
	}
	return &o, nil
}

// FindByGatewayOrderID loads an order by its payment gateway reference
func (s *Service) FindByGatewayOrderID(gatewayOrderID string, out *Order) error {
	if gatewayOrderID == "" {
		return ErrNotFound
	}
	result := s.db.Where("gateway_order_id = ?", gatewayOrderID).First(out)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to retrieve order: %w", result.Error)
	}
	return nil
}

// GetUserOrders retrieves the user's orders, newest first
func (s *Service) GetUserOrders(userID uint, req *ListRequest) (*ListResponse, error) {
	query := s.db.Model(&Order{}).Preload("Items").Where("user_id = ?", userID)
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	return s.list(query, req)
}

// ListOrders retrieves all orders for the admin panel
func (s *Service) ListOrders(req *ListRequest) (*ListResponse, error) {
	query := s.db.Model(&Order{}).Preload("Items")
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.Search != "" {
		query = query.Joins("JOIN users ON users.id = orders.user_id").
			Where("orders.order_number LIKE ? OR users.email LIKE ?",
				"%"+req.Search+"%", "%"+req.Search+"%")
	}
	return s.list(query, req)
}

func (s *Service) list(query *gorm.DB, req *ListRequest) (*ListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []Order
	offset := (req.Page - 1) * req.Limit
	if err := query.Order("orders.created_at DESC").Offset(offset).Limit(req.Limit).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &ListResponse{
		Orders: orders,
		Pagination: product.Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

// CancelOrder cancels a pending or processing order on the customer's behalf.
// The status write is guarded by the current status so a concurrent shipment
// wins over a late cancel. Paid orders are flagged refunded; the actual money
// movement happens off-system.
func (s *Service) CancelOrder(userID, orderID uint, reason string) (*Order, error) {
	o, err := s.GetUserOrder(userID, orderID)
	if err != nil {
		return nil, err
	}
	if !o.CanBeCancelled() {
		return nil, ErrNotCancellable
	}

	now := time.Now().UTC()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":       StatusCancelled,
			"cancelled_at": now,
		}
		if o.IsPaid() {
			updates["payment_status"] = PaymentRefunded
		}

		result := tx.Model(&Order{}).
			Where("id = ? AND status IN ?", o.ID, []Status{StatusPending, StatusProcessing}).
			Updates(updates)
		if result.Error != nil {
			return fmt.Errorf("failed to cancel order: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotCancellable
		}

		for _, item := range o.Items {
			err := tx.Model(&product.Product{}).
				Where("id = ?", item.ProductID).
				Update("quantity", gorm.Expr("quantity + ?", item.Quantity)).Error
			if err != nil {
				return fmt.Errorf("failed to restore stock: %w", err)
			}
		}

		comment := "Cancelled by customer"
		if reason != "" {
			comment = fmt.Sprintf("Cancelled by customer: %s", reason)
		}
		history := StatusHistory{OrderID: o.ID, Status: StatusCancelled, Comment: comment, CreatedBy: userID}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to record status history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	o.Status = StatusCancelled
	s.sendOrderEmail(o, s.emails.SendOrderCancelled)

	s.log.WithFields(logrus.Fields{
		"order_number": o.OrderNumber,
		"user_id":      userID,
		"refunded":     o.IsPaid(),
	}).Info("Order cancelled by customer")

	return s.GetByID(o.ID)
}

// UpdateStatus moves an order one step along the lifecycle. The write is
// compare-and-swapped on the expected current status.
func (s *Service) UpdateStatus(orderID uint, req *StatusUpdateRequest, adminID uint) (*Order, error) {
	o, err := s.GetByID(orderID)
	if err != nil {
		return nil, err
	}

	if !CanTransition(o.Status, req.Status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, o.Status, req.Status)
	}

	if err := s.applyStatus(o, o.Status, req.Status, req.Comment, adminID); err != nil {
		return nil, err
	}

	s.notifyStatus(o, req.Status)
	return s.GetByID(o.ID)
}

// ForceStatus walks the order to any reachable status, applying each
// intermediate transition. Used by the admin panel to jump stages; every step
// is logged and emails the customer once per detected transition.
func (s *Service) ForceStatus(orderID uint, target Status, comment string, adminID uint) (*Order, error) {
	o, err := s.GetByID(orderID)
	if err != nil {
		return nil, err
	}

	path := transitionPath(o.Status, target)
	if path == nil {
		return nil, fmt.Errorf("%w: no path from %s to %s", ErrInvalidTransition, o.Status, target)
	}

	current := o.Status
	for _, next := range path {
		if err := s.applyStatus(o, current, next, comment, adminID); err != nil {
			return nil, err
		}
		s.log.WithFields(logrus.Fields{
			"order_number": o.OrderNumber,
			"from":         current,
			"to":           next,
			"admin_id":     adminID,
		}).Warn("Order status forced")
		s.notifyStatus(o, next)
		current = next
	}

	return s.GetByID(o.ID)
}

// applyStatus performs one CAS-guarded transition with its side effects
func (s *Service) applyStatus(o *Order, from, to Status, comment string, actorID uint) error {
	now := time.Now().UTC()
	updates := map[string]interface{}{"status": to}
	switch to {
	case StatusProcessing:
		updates["processed_at"] = now
	case StatusShipped:
		updates["shipped_at"] = now
	case StatusDelivered:
		updates["delivered_at"] = now
		// COD is collected at the door
		if o.PaymentMethod == MethodCOD {
			updates["payment_status"] = PaymentCompleted
		}
	case StatusCancelled:
		updates["cancelled_at"] = now
		if o.IsPaid() {
			updates["payment_status"] = PaymentRefunded
		}
	case StatusReturned:
		if o.IsPaid() {
			updates["payment_status"] = PaymentRefunded
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Order{}).
			Where("id = ? AND status = ?", o.ID, from).
			Updates(updates)
		if result.Error != nil {
			return fmt.Errorf("failed to update order status: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrStatusChanged
		}

		if to == StatusCancelled {
			for _, item := range o.Items {
				err := tx.Model(&product.Product{}).
					Where("id = ?", item.ProductID).
					Update("quantity", gorm.Expr("quantity + ?", item.Quantity)).Error
				if err != nil {
					return fmt.Errorf("failed to restore stock: %w", err)
				}
			}
		}

		history := StatusHistory{OrderID: o.ID, Status: to, Comment: comment, CreatedBy: actorID}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to record status history: %w", err)
		}
		return nil
	})
}

// notifyStatus fires the customer email matching a transition target
func (s *Service) notifyStatus(o *Order, status Status) {
	switch status {
	case StatusShipped:
		s.sendOrderEmail(o, s.emails.SendOrderShipped)
	case StatusOutForDelivery:
		s.sendOrderEmail(o, s.emails.SendOrderOutForDelivery)
	case StatusDelivered:
		s.sendOrderEmail(o, s.emails.SendOrderDelivered)
	case StatusCancelled:
		s.sendOrderEmail(o, s.emails.SendOrderCancelled)
	}
}

// MarkPaid records a verified online payment and moves the order to
// processing. Called by the payment layer after signature verification.
func (s *Service) MarkPaid(orderNumber, gatewayPaymentID string) (*Order, error) {
	o, err := s.GetByNumber(orderNumber)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var recorded bool
	err = s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Order{}).
			Where("id = ? AND payment_status = ?", o.ID, PaymentPending).
			Updates(map[string]interface{}{
				"payment_status":     PaymentCompleted,
				"gateway_payment_id": gatewayPaymentID,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to record payment: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			// Already recorded, webhook and callback race is benign
			return nil
		}
		recorded = true

		// A verified payment confirms the order. The status write is
		// guarded so an order an admin already advanced is left alone.
		result = tx.Model(&Order{}).
			Where("id = ? AND status = ?", o.ID, StatusPending).
			Updates(map[string]interface{}{
				"status":       StatusProcessing,
				"processed_at": now,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update order status: %w", result.Error)
		}
		if result.RowsAffected > 0 {
			history := StatusHistory{
				OrderID:   o.ID,
				Status:    StatusProcessing,
				Comment:   "Payment verified",
				CreatedBy: o.UserID,
			}
			if err := tx.Create(&history).Error; err != nil {
				return fmt.Errorf("failed to record status history: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !recorded {
		return s.GetByID(o.ID)
	}

	o.PaymentStatus = PaymentCompleted
	o.GatewayPaymentID = gatewayPaymentID

	s.sendOrderEmail(o, s.emails.SendOrderConfirmation)
	s.sendPaymentEmail(o, true)

	s.log.WithFields(logrus.Fields{
		"order_number":       o.OrderNumber,
		"gateway_payment_id": gatewayPaymentID,
	}).Info("Payment recorded")

	return s.GetByID(o.ID)
}

// MarkPaymentFailed records a failed online payment attempt, cancels the
// order, and restores the stock PlaceOrder reserved.
func (s *Service) MarkPaymentFailed(orderNumber string) error {
	o, err := s.GetByNumber(orderNumber)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	var recorded bool
	err = s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Order{}).
			Where("id = ? AND payment_status = ?", o.ID, PaymentPending).
			Update("payment_status", PaymentFailed)
		if result.Error != nil {
			return fmt.Errorf("failed to record payment failure: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil
		}
		recorded = true

		result = tx.Model(&Order{}).
			Where("id = ? AND status = ?", o.ID, StatusPending).
			Updates(map[string]interface{}{
				"status":       StatusCancelled,
				"cancelled_at": now,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to cancel order: %w", result.Error)
		}
		if result.RowsAffected > 0 {
			for _, item := range o.Items {
				err := tx.Model(&product.Product{}).
					Where("id = ?", item.ProductID).
					Update("quantity", gorm.Expr("quantity + ?", item.Quantity)).Error
				if err != nil {
					return fmt.Errorf("failed to restore stock: %w", err)
				}
			}
			history := StatusHistory{
				OrderID:   o.ID,
				Status:    StatusCancelled,
				Comment:   "Payment failed",
				CreatedBy: o.UserID,
			}
			if err := tx.Create(&history).Error; err != nil {
				return fmt.Errorf("failed to record status history: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if recorded {
		s.sendPaymentEmail(o, false)
	}
	return nil
}

// SetGatewayOrderID stores the gateway order reference on the order
func (s *Service) SetGatewayOrderID(orderID uint, gatewayOrderID string) error {
	err := s.db.Model(&Order{}).
		Where("id = ?", orderID).
		Update("gateway_order_id", gatewayOrderID).Error
	if err != nil {
		return fmt.Errorf("failed to store gateway order id: %w", err)
	}
	return nil
}

func (s *Service) ownerOf(o *Order) (*user.User, error) {
	var u user.User
	if err := s.db.First(&u, o.UserID).Error; err != nil {
		return nil, fmt.Errorf("failed to load order owner: %w", err)
	}
	return &u, nil
}

func (s *Service) sendOrderEmail(o *Order, send func(string, email.OrderEmailData)) {
	owner, err := s.ownerOf(o)
	if err != nil {
		s.log.WithError(err).WithField("order_number", o.OrderNumber).
			Warn("Failed to load user for order email")
		return
	}
	send(owner.Email, s.orderEmailData(o, owner))
}

func (s *Service) sendPaymentEmail(o *Order, success bool) {
	owner, err := s.ownerOf(o)
	if err != nil {
		s.log.WithError(err).WithField("order_number", o.OrderNumber).
			Warn("Failed to load user for payment email")
		return
	}
	data := email.PaymentEmailData{
		TemplateData: email.TemplateData{UserName: owner.Name},
		OrderNumber:  o.OrderNumber,
		Amount:       email.FormatAmount(o.TotalAmount),
		PaymentID:    o.GatewayPaymentID,
	}
	if success {
		s.emails.SendPaymentSuccess(owner.Email, data)
	} else {
		s.emails.SendPaymentFailed(owner.Email, data)
	}
}

func (s *Service) orderEmailData(o *Order, owner *user.User) email.OrderEmailData {
	data := email.OrderEmailData{
		TemplateData:   email.TemplateData{UserName: owner.Name},
		OrderNumber:    o.OrderNumber,
		OrderDate:      o.CreatedAt.Format("02 Jan 2006"),
		PaymentMethod:  o.PaymentMethod,
		Subtotal:       email.FormatAmount(o.SubtotalAmount),
		ShippingAmount: email.FormatAmount(o.ShippingAmount),
		TaxAmount:      email.FormatAmount(o.TaxAmount),
		TotalAmount:    email.FormatAmount(o.TotalAmount),
	}
	if o.DiscountAmount > 0 {
		data.DiscountAmount = email.FormatAmount(o.DiscountAmount)
	}
	for _, item := range o.Items {
		data.Items = append(data.Items, email.OrderLine{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: email.FormatAmount(item.Price),
			Total:     email.FormatAmount(item.TotalPrice),
		})
	}
	return data
}

// transitionPath finds the shortest valid status path from one state to
// another, excluding the starting state.
func transitionPath(from, to Status) []Status {
	if from == to {
		return nil
	}
	type node struct {
		status Status
		path   []Status
	}
	visited := map[Status]bool{from: true}
	queue := []node{{status: from}}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, next := range validTransitions[n.status] {
			if visited[next] {
				continue
			}
			path := append(append([]Status{}, n.path...), next)
			if next == to {
				return path
			}
			visited[next] = true
			queue = append(queue, node{status: next, path: path})
		}
	}
	return nil
}
