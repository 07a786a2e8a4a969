package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/go-playground/validator/v10"
	"github.com/skip2/go-qrcode"
	"github.com/smallbiznis/vitrine/internal/config"
	"github.com/smallbiznis/vitrine/internal/format"
	"github.com/smallbiznis/vitrine/internal/observability/metrics"
	productdomain "github.com/smallbiznis/vitrine/internal/product/domain"
	productservice "github.com/smallbiznis/vitrine/internal/product/service"
	"github.com/smallbiznis/vitrine/internal/storefront/domain"
	tenantdomain "github.com/smallbiznis/vitrine/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	whatsAppBaseURL = "https://wa.me/"
	messageFooter   = "_Enviado via Catálogo Zap_"

	defaultQRSize = 256
	minQRSize     = 128
	maxQRSize     = 1024
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Cfg      config.Config
	Stores   tenantdomain.Repository
	Products productdomain.Repository
	Validate *validator.Validate
	Metrics  *metrics.Metrics `optional:"true"`
}

type Service struct {
	log      *zap.Logger
	baseURL  string
	stores   tenantdomain.Repository
	products productdomain.Repository
	validate *validator.Validate
	metrics  *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("storefront.service"),
		baseURL:  strings.TrimRight(p.Cfg.StorefrontBaseURL, "/"),
		stores:   p.Stores,
		products: p.Products,
		validate: p.Validate,
		metrics:  p.Metrics,
	}
}

func (s *Service) Catalog(ctx context.Context, slug string) (*domain.CatalogResponse, error) {
	store, err := s.findStore(ctx, slug)
	if err != nil {
		return nil, err
	}

	products, err := s.activeProducts(ctx, store.ID, "")
	if err != nil {
		return nil, err
	}

	return &domain.CatalogResponse{
		Slug:           store.Slug,
		Name:           store.Name,
		Logo:           store.Logo,
		Banner:         store.Banner,
		Categories:     append([]string{}, store.Categories...),
		PaymentMethods: append([]string{}, store.AcceptedPaymentMethods...),
		URL:            s.storeURL(store.Slug),
		Products:       products,
	}, nil
}

func (s *Service) Products(ctx context.Context, slug, query string) ([]productdomain.Response, error) {
	store, err := s.findStore(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.activeProducts(ctx, store.ID, query)
}

// Checkout prices the cart from the catalog and builds the WhatsApp order
// message for the store's phone.
func (s *Service) Checkout(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutResponse, error) {
	store, err := s.findStore(ctx, req.Slug)
	if err != nil {
		return nil, err
	}
	if store.Phone == "" {
		return nil, domain.ErrStoreWithoutPhone
	}
	if len(req.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, mapValidationError(err)
	}

	customer := domain.Customer{
		Name:          strings.TrimSpace(req.Customer.Name),
		Address:       strings.TrimSpace(req.Customer.Address),
		PaymentMethod: strings.TrimSpace(req.Customer.PaymentMethod),
		Notes:         strings.TrimSpace(req.Customer.Notes),
	}
	if customer.Name == "" || customer.Address == "" {
		return nil, domain.ErrInvalidCustomer
	}
	if !accepts(store, customer.PaymentMethod) {
		return nil, domain.ErrPaymentMethodNotAccepted
	}

	lines := make([]line, 0, len(req.Items))
	var total int64
	for _, item := range req.Items {
		id, err := snowflake.ParseString(strings.TrimSpace(item.ProductID))
		if err != nil {
			return nil, domain.ErrProductNotFound
		}
		product, err := s.products.FindByID(ctx, store.ID, id.Int64())
		if err != nil {
			return nil, err
		}
		if product == nil || product.Deleted {
			return nil, domain.ErrProductNotFound
		}

		subtotal := product.Price * int64(item.Quantity)
		total += subtotal
		lines = append(lines, line{
			name:     product.Name,
			size:     strings.TrimSpace(item.Size),
			quantity: item.Quantity,
			subtotal: subtotal,
		})
	}

	message := buildMessage(store.Name, customer, lines, total)
	s.metrics.RecordCheckout(ctx, customer.PaymentMethod)
	s.log.Info("storefront checkout",
		zap.String("store_slug", store.Slug),
		zap.Int("items", len(lines)),
		zap.Int64("total", total),
	)

	return &domain.CheckoutResponse{
		Message:     message,
		WhatsAppURL: WhatsAppURL(store.Phone, message),
		Total:       total,
		TotalLabel:  format.BRL(total),
	}, nil
}

// QRCode renders the storefront URL as a PNG.
func (s *Service) QRCode(ctx context.Context, slug string, size int) ([]byte, error) {
	store, err := s.findStore(ctx, slug)
	if err != nil {
		return nil, err
	}

	if size == 0 {
		size = defaultQRSize
	}
	size = max(minQRSize, min(size, maxQRSize))

	qr, err := qrcode.New(s.storeURL(store.Slug), qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}
	png, err := qr.PNG(size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}
	return png, nil
}

func (s *Service) activeProducts(ctx context.Context, storeID int64, query string) ([]productdomain.Response, error) {
	items, err := s.products.ListByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	resp := make([]productdomain.Response, 0, len(items))
	for i := range items {
		if items[i].Deleted {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(items[i].Name), query) {
			continue
		}
		resp = append(resp, productservice.ToResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) findStore(ctx context.Context, slug string) (*tenantdomain.Store, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, domain.ErrStoreNotFound
	}
	store, err := s.stores.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrStoreNotFound
	}
	return store, nil
}

func (s *Service) storeURL(slug string) string {
	return s.baseURL + "/s/" + url.PathEscape(slug)
}

type line struct {
	name     string
	size     string
	quantity int
	subtotal int64
}

func buildMessage(storeName string, customer domain.Customer, lines []line, total int64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Novo Pedido - %s*\n\n", storeName)
	fmt.Fprintf(&b, "*Cliente:* %s\n", customer.Name)
	fmt.Fprintf(&b, "*Endereço:* %s\n", customer.Address)
	fmt.Fprintf(&b, "*Pagamento:* %s\n", customer.PaymentMethod)
	if customer.Notes != "" {
		fmt.Fprintf(&b, "*Obs:* %s\n", customer.Notes)
	}

	b.WriteString("\n*Itens do Pedido:*\n")
	for _, l := range lines {
		name := l.name
		if l.size != "" {
			name += " (" + l.size + ")"
		}
		fmt.Fprintf(&b, "• %dx %s\n   %s\n", l.quantity, name, format.BRL(l.subtotal))
	}

	fmt.Fprintf(&b, "\n*Total: %s*", format.BRL(total))
	b.WriteString("\n\n" + messageFooter)
	return b.String()
}

// WhatsAppURL builds the wa.me deep link carrying message as text.
func WhatsAppURL(phone, message string) string {
	return whatsAppBaseURL + phone + "?text=" + strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
}

func accepts(store *tenantdomain.Store, method string) bool {
	if method == "" {
		return false
	}
	for _, m := range store.AcceptedPaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}

func mapValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	if verrs[0].Field() == "Items" {
		return domain.ErrCartTooLarge
	}
	return domain.ErrInvalidQuantity
}
