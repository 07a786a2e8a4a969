package authorization

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

//go:embed model.conf
var modelText string

const (
	RoleAdmin  = "admin"
	RoleSeller = "seller"
)

const (
	ObjectStore        = "store"
	ObjectProduct      = "product"
	ObjectOrder        = "order"
	ObjectAnalytics    = "analytics"
	ObjectSegment      = "customer_segment"
	ObjectSubscription = "subscription"
	ObjectPlan         = "plan"
	ObjectIntegration  = "integration"
	ObjectReceipt      = "receipt"
	ObjectAudit        = "audit_log"
)

const (
	ActionView     = "view"
	ActionCreate   = "create"
	ActionUpdate   = "update"
	ActionDelete   = "delete"
	ActionList     = "list"
	ActionCheckout = "checkout"
	ActionManage   = "manage"
)

var Module = fx.Module("authorization",
	fx.Provide(NewEnforcer),
	fx.Provide(NewService),
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
}

type ServiceImpl struct {
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
}

// NewEnforcer builds an in-memory enforcer loaded with the role policies.
func NewEnforcer() (*casbin.SyncedEnforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, actor Actor, object string, action string, storeID int64) error {
	if actor.UserID == 0 {
		return ErrInvalidActor
	}
	role := strings.ToLower(strings.TrimSpace(actor.Role))
	if role == "" {
		return ErrInvalidActor
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}

	subject := fmt.Sprintf("user:%d", actor.UserID)
	if err := s.ensureGrouping(subject, "role:"+role); err != nil {
		return err
	}

	allowed, err := s.enforcer.Enforce(subject, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.denied(actor, object, action, storeID)
		return ErrForbidden
	}

	if storeID != 0 && role != RoleAdmin && actor.StoreID != storeID {
		s.denied(actor, object, action, storeID)
		return ErrForbidden
	}
	return nil
}

// ensureGrouping keeps exactly one role link per subject.
func (s *ServiceImpl) ensureGrouping(subject string, roleName string) error {
	existing, err := s.enforcer.GetFilteredGroupingPolicy(0, subject)
	if err != nil {
		return err
	}
	for _, rule := range existing {
		if len(rule) < 2 || rule[1] == roleName {
			continue
		}
		params := make([]interface{}, 0, len(rule))
		for _, value := range rule {
			params = append(params, value)
		}
		_, _ = s.enforcer.RemoveGroupingPolicy(params...)
	}

	has, err := s.enforcer.HasGroupingPolicy(subject, roleName)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = s.enforcer.AddGroupingPolicy(subject, roleName)
	return err
}

func (s *ServiceImpl) denied(actor Actor, object, action string, storeID int64) {
	s.log.Warn("authorization denied",
		zap.Int64("user_id", actor.UserID),
		zap.String("role", actor.Role),
		zap.String("object", object),
		zap.String("action", action),
		zap.Int64("store_id", storeID),
	)
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	policies := [][]string{
		// Seller permissions, always scoped to the owned store
		{"role:seller", ObjectStore, ActionView},
		{"role:seller", ObjectStore, ActionUpdate},
		{"role:seller", ObjectProduct, ActionView},
		{"role:seller", ObjectProduct, ActionCreate},
		{"role:seller", ObjectProduct, ActionUpdate},
		{"role:seller", ObjectProduct, ActionDelete},
		{"role:seller", ObjectOrder, ActionView},
		{"role:seller", ObjectOrder, ActionCreate},
		{"role:seller", ObjectAnalytics, ActionView},
		{"role:seller", ObjectSegment, ActionView},
		{"role:seller", ObjectSubscription, ActionView},
		{"role:seller", ObjectSubscription, ActionCheckout},

		// Admin permissions
		{"role:admin", ObjectStore, "*"},
		{"role:admin", ObjectProduct, "*"},
		{"role:admin", ObjectOrder, "*"},
		{"role:admin", ObjectAnalytics, "*"},
		{"role:admin", ObjectSegment, "*"},
		{"role:admin", ObjectSubscription, "*"},
		{"role:admin", ObjectPlan, "*"},
		{"role:admin", ObjectIntegration, "*"},
		{"role:admin", ObjectReceipt, "*"},
		{"role:admin", ObjectAudit, "*"},
	}

	for _, policy := range policies {
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}
	return nil
}
