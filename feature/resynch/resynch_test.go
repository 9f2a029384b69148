package resynch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"asset-resynch/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockPlanner struct {
	mock.Mock
}

func (m *mockPlanner) Plan(ctx context.Context) (*reconcile.Plan, error) {
	args := m.Called(ctx)
	if p, ok := args.Get(0).(*reconcile.Plan); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPlanner) Inspect(ctx context.Context, path string) (*reconcile.Record, reconcile.Action, error) {
	args := m.Called(ctx, path)
	rec, _ := args.Get(0).(*reconcile.Record)
	return rec, args.Get(1).(reconcile.Action), args.Error(2)
}

func samplePlan() *reconcile.Plan {
	return &reconcile.Plan{
		Actions: []reconcile.Action{{Type: reconcile.ActionActivate, Path: "brand/a.png", Reason: reconcile.ReasonReplicate}},
		Summary: reconcile.PlanSummary{TotalItems: 1, ActivateActions: 1},
	}
}

func setupApp(planner Planner) *fiber.App {
	app := fiber.New()
	feature := NewFeature(planner, time.Minute, zap.NewNop())
	_ = feature.Load(app)
	return app
}

func TestFeature(t *testing.T) {
	f := NewFeature(&mockPlanner{}, time.Minute, zap.NewNop())
	assert.Equal(t, "resynch", f.Name())
	assert.True(t, f.IsEnabled())

	assert.False(t, NewFeature(nil, time.Minute, zap.NewNop()).IsEnabled())
}

func TestService_PlanIsCached(t *testing.T) {
	planner := &mockPlanner{}
	planner.On("Plan", mock.Anything).Return(samplePlan(), nil).Twice()

	svc := NewService(planner, time.Minute, zap.NewNop())
	first, err := svc.Plan(context.Background(), false)
	require.NoError(t, err)
	second, err := svc.Plan(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, first.BuiltAt, second.BuiltAt)
	planner.AssertNumberOfCalls(t, "Plan", 1)

	_, err = svc.Plan(context.Background(), true)
	require.NoError(t, err)
	planner.AssertNumberOfCalls(t, "Plan", 2)
}

func TestHandlePlan(t *testing.T) {
	planner := &mockPlanner{}
	planner.On("Plan", mock.Anything).Return(samplePlan(), nil)

	resp, err := setupApp(planner).Test(httptest.NewRequest("GET", "/resynch/plan", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body PlanResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Plan.Actions, 1)
	assert.Equal(t, reconcile.ActionActivate, body.Plan.Actions[0].Type)
	assert.False(t, body.BuiltAt.IsZero())
}

func TestHandlePlan_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"Transport", &reconcile.Error{Kind: reconcile.KindTransport, Op: "traverse", Err: errors.New("503")}, fiber.StatusBadGateway},
		{"Integrity", &reconcile.Error{Kind: reconcile.KindDataIntegrity, Op: "normalize", Err: errors.New("class")}, fiber.StatusUnprocessableEntity},
		{"Other", errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			planner := &mockPlanner{}
			planner.On("Plan", mock.Anything).Return(nil, tt.err)

			resp, err := setupApp(planner).Test(httptest.NewRequest("GET", "/resynch/plan", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestHandleStatus(t *testing.T) {
	planner := &mockPlanner{}
	planner.On("Inspect", mock.Anything, "brand/logo 2.png").Return(
		&reconcile.Record{Path: "brand/logo 2.png", OnPublish: true},
		reconcile.Action{Type: reconcile.ActionDeactivate, Path: "brand/logo 2.png", Reason: reconcile.ReasonOrphaned},
		nil,
	)

	resp, err := setupApp(planner).Test(httptest.NewRequest("GET", "/resynch/status/brand/logo%202.png", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body StatusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Record.OnPublish)
	assert.Equal(t, reconcile.ActionDeactivate, body.Action.Type)
}

func TestHandleStatus_Errors(t *testing.T) {
	planner := &mockPlanner{}
	planner.On("Inspect", mock.Anything, "down.png").Return(nil, reconcile.Action{},
		&reconcile.Error{Kind: reconcile.KindTransport, Op: "inspect", Err: errors.New("timeout")})
	app := setupApp(planner)

	resp, err := app.Test(httptest.NewRequest("GET", "/resynch/status/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/resynch/status/down.png", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
}
