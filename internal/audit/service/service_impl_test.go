package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/smallbiznis/vitrine/internal/audit/domain"
	"github.com/smallbiznis/vitrine/internal/audit/repository"
	"github.com/smallbiznis/vitrine/internal/clock"
	"github.com/smallbiznis/vitrine/internal/datastore"
	obscontext "github.com/smallbiznis/vitrine/internal/observability/context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (auditdomain.Service, *clock.FakeClock) {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC))
	svc := NewService(Params{
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clk,
		Repo:  repository.Provide(datastore.New()),
	})
	return svc, clk
}

func TestRecordUsesActorFromContext(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := obscontext.WithActor(context.Background(), "admin", "10")
	ctx = obscontext.WithRequestID(ctx, "req-1")

	require.NoError(t, svc.Record(ctx, auditdomain.Entry{
		Action:     "subscription.mark_paid",
		TargetType: auditdomain.TargetStore,
		TargetID:   "2001",
		Metadata:   map[string]any{"plan_id": "pro", "": "ignored"},
	}))

	resp, err := svc.List(context.Background(), auditdomain.ListAuditLogRequest{})
	require.NoError(t, err)
	require.Len(t, resp.AuditLogs, 1)

	got := resp.AuditLogs[0]
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "admin", got.ActorType)
	assert.Equal(t, "10", got.ActorID)
	assert.Equal(t, "req-1", got.RequestID)
	assert.Equal(t, map[string]any{"plan_id": "pro"}, got.Metadata)
}

func TestRecordDefaultsToSystemActor(t *testing.T) {
	svc, _ := newTestService(t)

	require.NoError(t, svc.Record(context.Background(), auditdomain.Entry{Action: "subscription.simulate_payment"}))

	resp, err := svc.List(context.Background(), auditdomain.ListAuditLogRequest{})
	require.NoError(t, err)
	require.Len(t, resp.AuditLogs, 1)
	assert.Equal(t, string(auditdomain.ActorTypeSystem), resp.AuditLogs[0].ActorType)
	assert.Equal(t, "unknown", resp.AuditLogs[0].TargetType)
	assert.Nil(t, resp.AuditLogs[0].Metadata)
}

func TestRecordRejectsEmptyAction(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Record(context.Background(), auditdomain.Entry{Action: "  "})
	assert.ErrorIs(t, err, auditdomain.ErrInvalidAction)
}

func TestListFiltersAndOrdersNewestFirst(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Record(ctx, auditdomain.Entry{Action: "plan.upsert", TargetType: auditdomain.TargetPlan, TargetID: "pro"}))
	clk.Advance(time.Minute)
	require.NoError(t, svc.Record(ctx, auditdomain.Entry{Action: "subscription.mark_paid", TargetType: auditdomain.TargetStore, TargetID: "1"}))
	clk.Advance(time.Minute)
	require.NoError(t, svc.Record(ctx, auditdomain.Entry{Action: "subscription.mark_paid", TargetType: auditdomain.TargetStore, TargetID: "2"}))

	resp, err := svc.List(ctx, auditdomain.ListAuditLogRequest{Action: "subscription.mark_paid"})
	require.NoError(t, err)
	require.Len(t, resp.AuditLogs, 2)
	assert.Equal(t, "2", resp.AuditLogs[0].TargetID)
	assert.Equal(t, "1", resp.AuditLogs[1].TargetID)

	resp, err = svc.List(ctx, auditdomain.ListAuditLogRequest{Limit: 1})
	require.NoError(t, err)
	require.Len(t, resp.AuditLogs, 1)
	assert.Equal(t, "2", resp.AuditLogs[0].TargetID)

	start := time.Date(2024, time.June, 1, 12, 0, 30, 0, time.UTC)
	end := time.Date(2024, time.June, 1, 12, 1, 30, 0, time.UTC)
	resp, err = svc.List(ctx, auditdomain.ListAuditLogRequest{StartAt: &start, EndAt: &end})
	require.NoError(t, err)
	require.Len(t, resp.AuditLogs, 1)
	assert.Equal(t, "1", resp.AuditLogs[0].TargetID)
}

func TestListRejectsInvertedRange(t *testing.T) {
	svc, _ := newTestService(t)
	start := time.Date(2024, time.June, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.List(context.Background(), auditdomain.ListAuditLogRequest{StartAt: &start, EndAt: &end})
	assert.ErrorIs(t, err, auditdomain.ErrInvalidTimeRange)
}
