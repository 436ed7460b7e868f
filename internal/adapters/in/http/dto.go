package http

import (
	"time"

	"canteen/internal/core/application/usecases/commands"
	"canteen/internal/core/application/usecases/queries"
)

// ErrorResponse is the body of every failed request. Status carries the current order
// status when a transition was refused; ProductID names the item a stock or availability
// check failed on.
type ErrorResponse struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Status    string `json:"status,omitempty"`
	ProductID string `json:"product_id,omitempty"`
}

type NewOrderRequest struct {
	OrderID       string `json:"order_id"`
	Session       string `json:"session"`
	CustomerPhone string `json:"customer_phone"`
	CustomerName  string `json:"customer_name"`
	Facility      string `json:"facility"`
	PaymentMethod string `json:"payment_method"`
}

type PaymentResultRequest struct {
	Success   bool   `json:"success"`
	Amount    string `json:"amount"`
	Reference string `json:"reference"`
	Signature string `json:"signature"`
}

type CancelOrderRequest struct {
	CustomerPhone string `json:"customer_phone"`
}

type TransitionRequest struct {
	Trigger               string `json:"trigger"`
	StaffID               string `json:"staff_id"`
	EstimatedReadyMinutes int    `json:"estimated_ready_minutes"`
}

type NewProductRequest struct {
	Name         string `json:"name"`
	Facility     string `json:"facility"`
	Price        string `json:"price"`
	StockManaged bool   `json:"stock_managed"`
	Stock        int    `json:"stock"`
}

type PriceRequest struct {
	Price string `json:"price"`
}

type AvailabilityRequest struct {
	Available bool `json:"available"`
}

type StatusResponse struct {
	ID          string `json:"id,omitempty"`
	Status      string `json:"status"`
	Description string `json:"description"`
	Total       string `json:"total,omitempty"`
}

type CreatedResponse struct {
	ID string `json:"id"`
}

type CartItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Subtotal  string `json:"subtotal"`
	Available bool   `json:"available"`
}

type Cart struct {
	Session string     `json:"session"`
	Items   []CartItem `json:"items"`
	Total   string     `json:"total"`
	Count   int        `json:"count"`
}

type MenuItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Available bool   `json:"available"`
	// Remaining is omitted for products without stock tracking.
	Remaining *int `json:"remaining,omitempty"`
}

type OrderItem struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Subtotal    string `json:"subtotal"`
}

type Order struct {
	ID                    string      `json:"id"`
	CustomerPhone         string      `json:"customer_phone"`
	CustomerName          string      `json:"customer_name"`
	Facility              string      `json:"facility"`
	Status                string      `json:"status"`
	StatusDescription     string      `json:"status_description"`
	PaymentMethod         string      `json:"payment_method"`
	PaymentStatus         string      `json:"payment_status"`
	EstimatedReadyMinutes int         `json:"estimated_ready_minutes,omitempty"`
	Items                 []OrderItem `json:"items"`
	Total                 string      `json:"total"`
	CreatedAt             time.Time   `json:"created_at"`
	UpdatedAt             time.Time   `json:"updated_at"`
}

type Notification struct {
	OrderID    string    `json:"order_id"`
	Status     string    `json:"status"`
	Message    string    `json:"message"`
	Persistent bool      `json:"persistent"`
	CreatedAt  time.Time `json:"created_at"`
}

func cartFrom(summary queries.CartSummary) Cart {
	items := make([]CartItem, 0, len(summary.Items))
	for _, item := range summary.Items {
		items = append(items, CartItem{
			ProductID: item.ProductID.String(),
			Name:      item.Name,
			UnitPrice: item.UnitPrice.String(),
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal.String(),
			Available: item.Available,
		})
	}
	return Cart{Session: summary.Session, Items: items, Total: summary.Total.String(), Count: summary.Count}
}

func menuFrom(menu []queries.MenuItem) []MenuItem {
	items := make([]MenuItem, 0, len(menu))
	for _, m := range menu {
		item := MenuItem{ID: m.ID.String(), Name: m.Name, Price: m.Price.String(), Available: m.Available}
		if m.Remaining >= 0 {
			remaining := m.Remaining
			item.Remaining = &remaining
		}
		items = append(items, item)
	}
	return items
}

func orderFrom(v queries.OrderView) Order {
	items := make([]OrderItem, 0, len(v.Items))
	for _, item := range v.Items {
		items = append(items, OrderItem{
			ProductID:   item.ProductID.String(),
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.String(),
			Subtotal:    item.Subtotal.String(),
		})
	}
	return Order{
		ID:                    v.ID.String(),
		CustomerPhone:         v.Customer.String(),
		CustomerName:          v.CustomerName,
		Facility:              v.Facility,
		Status:                v.Status.String(),
		StatusDescription:     v.StatusDescription,
		PaymentMethod:         v.PaymentMethod.String(),
		PaymentStatus:         v.PaymentStatus.String(),
		EstimatedReadyMinutes: v.EstimatedReadyMinutes,
		Items:                 items,
		Total:                 v.Total.String(),
		CreatedAt:             v.CreatedAt,
		UpdatedAt:             v.UpdatedAt,
	}
}

func ordersFrom(views []queries.OrderView) []Order {
	orders := make([]Order, 0, len(views))
	for _, v := range views {
		orders = append(orders, orderFrom(v))
	}
	return orders
}

func notificationsFrom(views []queries.NotificationView) []Notification {
	notifications := make([]Notification, 0, len(views))
	for _, v := range views {
		notifications = append(notifications, Notification{
			OrderID:    v.OrderID.String(),
			Status:     v.Status.String(),
			Message:    v.Message,
			Persistent: v.Persistent,
			CreatedAt:  v.CreatedAt,
		})
	}
	return notifications
}

func transitionFrom(r commands.TransitionResult) StatusResponse {
	return StatusResponse{Status: r.Status.String(), Description: r.Description}
}
