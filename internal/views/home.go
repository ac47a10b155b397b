package views

import (
	"context"                       // Request cancellation
	"mobil_market/internal/domain"  // Importing domain models
	"mobil_market/internal/session" // Session state

	"github.com/sirupsen/logrus" // Structured logging
)

// AllCategories is the category chip that disables the filter
const AllCategories = "Tümü"

// Categories offered on the home screen
var Categories = []string{AllCategories, "Elektronik", "Bilgisayar", "Aksesuar", "Giyim"}

// Home is the catalog screen with its product detail sheet
type Home struct {
	api    API
	sess   *session.Session
	images ImageResolver

	Search   string
	Category string
	Products []domain.Product
	Error    string

	Selected    *domain.Product
	ActiveImage int
}

func NewHome(api API, sess *session.Session, images ImageResolver) *Home {
	return &Home{api: api, sess: sess, images: images, Category: AllCategories}
}

// SetSearch changes the search text and refetches
func (h *Home) SetSearch(ctx context.Context, search string) error {
	h.Search = search
	return h.Refresh(ctx)
}

// SetCategory changes the category filter and refetches
func (h *Home) SetCategory(ctx context.Context, category string) error {
	h.Category = category
	return h.Refresh(ctx)
}

// Refresh fetches the catalog for the current filters
func (h *Home) Refresh(ctx context.Context) error {
	category := h.Category
	if category == AllCategories {
		category = ""
	}
	products, err := h.api.Products(ctx, h.Search, category)
	if err != nil {
		h.Error = err.Error()
		logrus.WithError(err).Warn("Failed to load products")
		return err
	}
	h.Error = ""
	h.Products = products
	return nil
}

// Thumbnail is the first resolved image of p or ""
func (h *Home) Thumbnail(p domain.Product) string {
	return h.images.Resolve(p.Image.Primary())
}

// Select opens the detail sheet for p
func (h *Home) Select(p domain.Product) {
	h.Selected = &p
	h.ActiveImage = 0
}

// CloseDetail closes the detail sheet
func (h *Home) CloseDetail() {
	h.Selected = nil
	h.ActiveImage = 0
}

// Images are the resolved carousel images of the selected product
func (h *Home) Images() []string {
	if h.Selected == nil {
		return nil
	}
	return h.images.URLs(h.Selected.Image)
}

// SelectImage makes image i of the carousel the large one
func (h *Home) SelectImage(i int) {
	if i >= 0 && i < len(h.Images()) {
		h.ActiveImage = i
	}
}

// ActiveImageURL is the large carousel image
func (h *Home) ActiveImageURL() string {
	imgs := h.Images()
	if h.ActiveImage < len(imgs) {
		return imgs[h.ActiveImage]
	}
	return ""
}

// AddToCart adds the selected product to the cart and closes the sheet
func (h *Home) AddToCart() {
	if h.Selected == nil {
		return
	}
	h.sess.AddToCart(*h.Selected)
	h.CloseDetail()
}

// ToggleFavorite flips the favorite mark on a product
func (h *Home) ToggleFavorite(ctx context.Context, productID uint) error {
	return h.sess.ToggleFavorite(ctx, productID)
}

// ToggleSaved flips the saved mark on a product
func (h *Home) ToggleSaved(ctx context.Context, productID uint) error {
	return h.sess.ToggleSaved(ctx, productID)
}
