package views

import (
	"context"                      // Request cancellation
	"encoding/json"                // JSON encoding/decoding
	"errors"                       // Error inspection
	"fmt"                          // Error wrapping
	"mobil_market/internal/client" // REST client
	"mobil_market/internal/domain" // Importing domain models
	"strings"                      // String manipulation
	"time"                         // Time durations

	"github.com/shopspring/decimal" // Exact money arithmetic
	"github.com/sirupsen/logrus"    // Structured logging
	"golang.org/x/sync/errgroup"    // Parallel fetches
)

// TimeFilter narrows the admin order list by creation time
type TimeFilter string

const (
	TimeAll   TimeFilter = "all"
	TimeHour  TimeFilter = "hour"
	TimeToday TimeFilter = "today"
	TimeWeek  TimeFilter = "week"
	TimeMonth TimeFilter = "month"
)

// StatusAll disables the status filter
const StatusAll = "all"

// AdminPanel is the sub view of the admin screen
type AdminPanel string

const (
	PanelOrders     AdminPanel = "orders"
	PanelProducts   AdminPanel = "products"
	PanelAddProduct AdminPanel = "add_product"
)

const defaultFormCategory = "Elektronik"

var (
	ErrNameRequired = errors.New("product name is required")
	ErrInvalidPrice = errors.New("price must be a non-negative number")
)

// ProductForm is the create/edit form. Fields are kept as typed text.
type ProductForm struct {
	Name        string
	Price       string
	Category    string
	Image       string // one URL or a JSON array of URLs
	Description string
	VideoURL    string
	FileURL     string
}

func emptyForm() ProductForm {
	return ProductForm{Category: defaultFormCategory}
}

// Product validates the form and converts it
func (f ProductForm) Product() (domain.Product, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return domain.Product{}, ErrNameRequired
	}
	price, err := decimal.NewFromString(strings.TrimSpace(f.Price))
	if err != nil || price.IsNegative() {
		return domain.Product{}, ErrInvalidPrice
	}
	return domain.Product{
		Name:        name,
		Price:       price,
		Category:    f.Category,
		Image:       domain.ParseProductImages(f.Image),
		Description: f.Description,
		VideoURL:    strings.TrimSpace(f.VideoURL),
		FileURL:     strings.TrimSpace(f.FileURL),
	}, nil
}

// Admin is the order and product management screen
type Admin struct {
	api API

	Panel        AdminPanel
	Orders       []domain.Order
	Products     []domain.Product
	StatusFilter string
	TimeFilter   TimeFilter
	Error        string

	Form    ProductForm
	Editing *domain.Product
}

func NewAdmin(api API) *Admin {
	return &Admin{api: api, Panel: PanelOrders, StatusFilter: StatusAll, TimeFilter: TimeAll, Form: emptyForm()}
}

// Load fetches all orders and all products
func (a *Admin) Load(ctx context.Context) error {
	var orders []domain.Order
	var products []domain.Product
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		orders, err = a.api.Orders(gctx, "")
		return err
	})
	g.Go(func() (err error) {
		products, err = a.api.Products(gctx, "", "")
		return err
	})
	if err := g.Wait(); err != nil {
		a.Error = err.Error()
		logrus.WithError(err).Warn("Failed to load admin data")
		return err
	}
	SortRecentFirst(orders)
	a.Orders = orders
	a.Products = products
	a.Error = ""
	return nil
}

// Filtered applies the status and time filters relative to now
func (a *Admin) Filtered(now time.Time) []domain.Order {
	return FilterOrders(a.Orders, a.StatusFilter, a.TimeFilter, now)
}

// FilterOrders keeps orders matching status ("all" or exact) and created
// within tf relative to now. Calendar comparisons use now's location.
func FilterOrders(orders []domain.Order, status string, tf TimeFilter, now time.Time) []domain.Order {
	out := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if status != "" && status != StatusAll && string(o.Status) != status {
			continue
		}
		if !withinTime(o.CreatedAt.In(now.Location()), tf, now) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func withinTime(created time.Time, tf TimeFilter, now time.Time) bool {
	switch tf {
	case TimeHour:
		return now.Sub(created) < time.Hour
	case TimeToday:
		cy, cm, cd := created.Date()
		ny, nm, nd := now.Date()
		return cy == ny && cm == nm && cd == nd
	case TimeWeek:
		return !created.Before(now.AddDate(0, 0, -7))
	case TimeMonth:
		return created.Year() == now.Year() && created.Month() == now.Month()
	default:
		return true
	}
}

// UpdateStatus sets an order's status and reloads everything
func (a *Admin) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	if err := a.api.UpdateOrderStatus(ctx, orderID, status); err != nil {
		a.Error = err.Error()
		return err
	}
	logrus.WithFields(logrus.Fields{"order_id": orderID, "status": status}).Info("Order status changed")
	return a.Load(ctx)
}

// Approve marks an order APPROVED
func (a *Admin) Approve(ctx context.Context, orderID string) error {
	return a.UpdateStatus(ctx, orderID, domain.StatusApproved)
}

// Reject marks an order REJECTED
func (a *Admin) Reject(ctx context.Context, orderID string) error {
	return a.UpdateStatus(ctx, orderID, domain.StatusRejected)
}

// NewProduct opens an empty form
func (a *Admin) NewProduct() {
	a.Editing = nil
	a.Form = emptyForm()
	a.Panel = PanelAddProduct
}

// EditProduct opens the form pre-filled from p
func (a *Admin) EditProduct(p domain.Product) {
	a.Editing = &p
	a.Form = ProductForm{
		Name:        p.Name,
		Price:       p.Price.String(),
		Category:    p.Category,
		Image:       p.Image.String(),
		Description: p.Description,
		VideoURL:    p.VideoURL,
		FileURL:     p.FileURL,
	}
	a.Panel = PanelAddProduct
}

// UploadImages uploads files and stores their paths in the form as a JSON array
func (a *Admin) UploadImages(ctx context.Context, files []client.UploadFile) ([]string, error) {
	paths, err := a.api.UploadFiles(ctx, files)
	if err != nil {
		a.Error = err.Error()
		return nil, err
	}
	b, err := json.Marshal(paths)
	if err != nil {
		return nil, err
	}
	a.Form.Image = string(b)
	return paths, nil
}

// Submit creates or updates the product in the form, then reloads
func (a *Admin) Submit(ctx context.Context) error {
	p, err := a.Form.Product()
	if err != nil {
		a.Error = err.Error()
		return err
	}
	if a.Editing != nil {
		err = a.api.UpdateProduct(ctx, a.Editing.ID, p)
	} else {
		_, err = a.api.AddProduct(ctx, p)
	}
	if err != nil {
		a.Error = err.Error()
		return fmt.Errorf("save product: %w", err)
	}
	a.Editing = nil
	a.Form = emptyForm()
	a.Panel = PanelProducts
	return a.Load(ctx)
}

// DeleteProduct removes a product and reloads
func (a *Admin) DeleteProduct(ctx context.Context, id uint) error {
	if err := a.api.DeleteProduct(ctx, id); err != nil {
		a.Error = err.Error()
		return err
	}
	return a.Load(ctx)
}
