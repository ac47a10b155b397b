package views

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mobil_market/internal/client"
	"mobil_market/internal/domain"
	"mobil_market/internal/session"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

type fakeAPI struct {
	mu       sync.Mutex
	products []domain.Product
	orders   []domain.Order
	nextID   uint
	fail     error
	queries  []string
	uploaded []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		products: []domain.Product{
			{ID: 1, Name: "iPhone 14 Pro", Price: decimal.NewFromInt(74999), Category: "Elektronik", Image: domain.ImageList("/product_images/1_a.png", "/product_images/1_b.png")},
			{ID: 2, Name: "Logitech Mouse", Price: decimal.NewFromInt(800), Category: "Aksesuar", Image: domain.SingleImage("https://cdn.example.com/mouse.png")},
		},
		nextID: 3,
	}
}

func (f *fakeAPI) Products(_ context.Context, search, category string) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, search+"|"+category)
	if f.fail != nil {
		return nil, f.fail
	}
	var out []domain.Product
	for _, p := range f.products {
		if category != "" && p.Category != category {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeAPI) AddProduct(_ context.Context, p domain.Product) (domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = f.nextID
	f.nextID++
	f.products = append(f.products, p)
	return p, nil
}

func (f *fakeAPI) UpdateProduct(_ context.Context, id uint, p domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.products {
		if f.products[i].ID == id {
			p.ID = id
			f.products[i] = p
			return nil
		}
	}
	return &client.APIError{StatusCode: 404, Message: "Product not found"}
}

func (f *fakeAPI) DeleteProduct(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products = slices.DeleteFunc(f.products, func(p domain.Product) bool { return p.ID == id })
	return nil
}

func (f *fakeAPI) PlaceOrder(_ context.Context, userID, username string, items []domain.CartItem, total decimal.Decimal) (domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return domain.Order{}, f.fail
	}
	o := domain.Order{
		ID:         fmt.Sprintf("ORD-%06d", len(f.orders)+1),
		UserID:     userID,
		Username:   username,
		Items:      items,
		TotalPrice: total,
		Status:     domain.StatusPending,
		CreatedAt:  time.Now(),
	}
	f.orders = append(f.orders, o)
	return o, nil
}

func (f *fakeAPI) Orders(_ context.Context, userID string) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Order
	for _, o := range f.orders {
		if userID == "" || o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeAPI) UpdateOrderStatus(_ context.Context, orderID string, status domain.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.orders {
		if f.orders[i].ID == orderID {
			f.orders[i].Status = status
			return nil
		}
	}
	return &client.APIError{StatusCode: 404, Message: "Order not found"}
}

func (f *fakeAPI) UploadFiles(_ context.Context, files []client.UploadFile) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var paths []string
	for _, file := range files {
		if _, err := io.ReadAll(file.Content); err != nil {
			return nil, err
		}
		paths = append(paths, "/product_images/100_"+file.Name)
	}
	f.uploaded = append(f.uploaded, paths...)
	return paths, nil
}

// fakeAuth is a session.Backend with two fixed accounts
type fakeAuth struct {
	favorites []uint
	regErr    error
}

var accounts = map[string]domain.User{
	"ayse": {ID: "u1", Username: "ayse", Role: domain.RoleUser},
	"boss": {ID: "a1", Username: "boss", Role: domain.RoleAdmin},
}

func (f *fakeAuth) Login(_ context.Context, username, password string) (*client.AuthResult, error) {
	u, ok := accounts[username]
	if !ok || password != "secret" {
		return nil, fmt.Errorf("%w: %w", client.ErrInvalidCredentials, &client.APIError{StatusCode: 401, Message: "Invalid credentials"})
	}
	return &client.AuthResult{User: u, Token: "tok"}, nil
}

func (f *fakeAuth) Register(_ context.Context, username, _ string) (*client.AuthResult, error) {
	if f.regErr != nil {
		return nil, f.regErr
	}
	if _, ok := accounts[username]; ok {
		return nil, client.ErrUsernameTaken
	}
	return &client.AuthResult{User: domain.User{ID: "n1", Username: username, Role: domain.RoleUser}, Token: "tok"}, nil
}

func (f *fakeAuth) Favorites(context.Context) ([]uint, error) { return slices.Clone(f.favorites), nil }
func (f *fakeAuth) Saved(context.Context) ([]uint, error)     { return nil, nil }

func (f *fakeAuth) ToggleFavorite(_ context.Context, _ string, id uint) ([]uint, error) {
	if slices.Contains(f.favorites, id) {
		f.favorites = slices.DeleteFunc(f.favorites, func(v uint) bool { return v == id })
	} else {
		f.favorites = append(f.favorites, id)
	}
	return slices.Clone(f.favorites), nil
}

func (f *fakeAuth) ToggleSaved(context.Context, string, uint) ([]uint, error) {
	return nil, errors.New("not used")
}

func (f *fakeAuth) SetToken(string) {}

func loggedIn(username string) (*session.Session, *fakeAuth) {
	auth := &fakeAuth{}
	s := session.New(auth, nil)
	if err := s.Login(context.Background(), username, "secret"); err != nil {
		panic(err)
	}
	return s, auth
}
