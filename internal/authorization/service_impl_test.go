package authorization

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	enforcer, err := NewEnforcer()
	require.NoError(t, err)
	return NewService(Params{Log: zap.NewNop(), Enforcer: enforcer})
}

func TestAuthorize(t *testing.T) {
	svc := newTestService(t)
	admin := Actor{UserID: 1, Role: RoleAdmin}
	seller := Actor{UserID: 2, Role: RoleSeller, StoreID: 100}

	tests := []struct {
		name    string
		actor   Actor
		object  string
		action  string
		storeID int64
		wantErr error
	}{
		{name: "seller views own store", actor: seller, object: ObjectStore, action: ActionView, storeID: 100},
		{name: "seller creates product in own store", actor: seller, object: ObjectProduct, action: ActionCreate, storeID: 100},
		{name: "seller blocked from other store", actor: seller, object: ObjectProduct, action: ActionView, storeID: 200, wantErr: ErrForbidden},
		{name: "seller cannot manage plans", actor: seller, object: ObjectPlan, action: ActionManage, wantErr: ErrForbidden},
		{name: "seller cannot mark paid", actor: seller, object: ObjectSubscription, action: ActionManage, storeID: 100, wantErr: ErrForbidden},
		{name: "admin views any store", actor: admin, object: ObjectStore, action: ActionView, storeID: 200},
		{name: "admin manages plans", actor: admin, object: ObjectPlan, action: ActionManage},
		{name: "admin manages integration", actor: admin, object: ObjectIntegration, action: ActionUpdate},
		{name: "missing actor", actor: Actor{Role: RoleSeller}, object: ObjectStore, action: ActionView, wantErr: ErrInvalidActor},
		{name: "missing object", actor: admin, action: ActionView, wantErr: ErrInvalidObject},
		{name: "missing action", actor: admin, object: ObjectStore, wantErr: ErrInvalidAction},
		{name: "unknown role", actor: Actor{UserID: 3, Role: "guest"}, object: ObjectStore, action: ActionView, wantErr: ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Authorize(context.Background(), tt.actor, tt.object, tt.action, tt.storeID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestAuthorizeRoleChangeReplacesGrouping(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Authorize(ctx, Actor{UserID: 5, Role: RoleAdmin}, ObjectPlan, ActionManage, 0))

	err := svc.Authorize(ctx, Actor{UserID: 5, Role: RoleSeller, StoreID: 1}, ObjectPlan, ActionManage, 0)
	assert.ErrorIs(t, err, ErrForbidden)
}
