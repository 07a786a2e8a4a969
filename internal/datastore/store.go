package datastore

import (
	"sync"

	auditdomain "github.com/smallbiznis/vitrine/internal/audit/domain"
	authdomain "github.com/smallbiznis/vitrine/internal/auth/domain"
	integrationdomain "github.com/smallbiznis/vitrine/internal/integration/domain"
	orderdomain "github.com/smallbiznis/vitrine/internal/order/domain"
	plandomain "github.com/smallbiznis/vitrine/internal/plan/domain"
	productdomain "github.com/smallbiznis/vitrine/internal/product/domain"
	subscriptiondomain "github.com/smallbiznis/vitrine/internal/subscription/domain"
	tenantdomain "github.com/smallbiznis/vitrine/internal/tenant/domain"
	"go.uber.org/fx"
)

// Store is the process-wide in-memory state. Nothing is persisted; a restart
// starts from the seed.
type Store struct {
	mu sync.RWMutex

	Users    *Table[authdomain.User]
	Stores   *Table[tenantdomain.Store]
	Products *Table[productdomain.Product]
	Orders   *Table[orderdomain.Order]
	Plans    *Table[plandomain.Plan]
	Receipts *Table[subscriptiondomain.Receipt]

	AuditLogs *Table[auditdomain.AuditLog]

	Kiwify        *Value[integrationdomain.KiwifySettings]
	WebhookEvents *Table[integrationdomain.EventRecord]
}

func New() *Store {
	s := &Store{}
	s.Users = newTable[authdomain.User](&s.mu)
	s.Stores = newTable[tenantdomain.Store](&s.mu)
	s.Products = newTable[productdomain.Product](&s.mu)
	s.Orders = newTable[orderdomain.Order](&s.mu)
	s.Plans = newTable[plandomain.Plan](&s.mu)
	s.Receipts = newTable[subscriptiondomain.Receipt](&s.mu)
	s.AuditLogs = newTable[auditdomain.AuditLog](&s.mu)
	s.Kiwify = newValue[integrationdomain.KiwifySettings](&s.mu)
	s.WebhookEvents = newTable[integrationdomain.EventRecord](&s.mu)
	return s
}

var Module = fx.Module("datastore",
	fx.Provide(New),
)
