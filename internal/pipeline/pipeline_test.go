package pipeline

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/BerylCAtieno/ai-stack-agent/internal/apierr"
	"github.com/BerylCAtieno/ai-stack-agent/internal/logger"
	"github.com/BerylCAtieno/ai-stack-agent/internal/models"
	"github.com/BerylCAtieno/ai-stack-agent/internal/notify"
	"github.com/BerylCAtieno/ai-stack-agent/internal/stackgen"
	"github.com/BerylCAtieno/ai-stack-agent/internal/store"
	"github.com/BerylCAtieno/ai-stack-agent/internal/store/storetest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeGenerator struct {
	stack *models.GeneratedStack
	err   error
	calls int
}

func (f *fakeGenerator) Generate(_ context.Context, _ *models.BusinessProfile) (*models.GeneratedStack, error) {
	f.calls++
	return f.stack, f.err
}

// rawGenerator feeds a fixed completion through the real acceptance check.
type rawGenerator struct{ raw string }

func (r rawGenerator) Generate(_ context.Context, _ *models.BusinessProfile) (*models.GeneratedStack, error) {
	return stackgen.ParseStack(r.raw)
}

type fakeNotifier struct {
	mu   sync.Mutex
	jobs []notify.Job
}

func (f *fakeNotifier) Enqueue(job notify.Job) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, job)
	return true
}

func anaRequest() models.GenerateStackRequest {
	return models.GenerateStackRequest{
		Name:         "Ana",
		Email:        "ana@x.com",
		BusinessType: "saas",
		TeamSize:     "small",
		Objective:    "leads",
		CurrentTools: []string{"Notion"},
		AIKnowledge:  "intermediario",
	}
}

func fourTools() *models.GeneratedStack {
	return &models.GeneratedStack{
		Title:              "Stack de Leads para SaaS",
		Description:        "desc",
		OverallAnalysis:    "análise",
		ImplementationTips: []string{"comece pelo CRM"},
		EstimatedSavings:   "15h/semana",
		Recommendations: []models.GeneratedRecommendation{
			{ToolName: "HubSpot AI", AutomationLevel: "Alto", Link: "https://hubspot.com"},
			{ToolName: "Clay", AutomationLevel: "medio"},
			{ToolName: "Apollo", AutomationLevel: "Baixo"},
			{ToolName: "Lavender", AutomationLevel: "Alto"},
		},
	}
}

func newService(t *testing.T, gen StackGenerator) (*Service, *store.Store, *fakeNotifier) {
	t.Helper()
	st := storetest.New(t)
	n := &fakeNotifier{}
	return New(st, gen, n, logger.NewNop(), Options{GenerationTimeout: time.Second}), st, n
}

func TestGenerateStoresRecommendationsInOrder(t *testing.T) {
	svc, st, n := newService(t, &fakeGenerator{stack: fourTools()})
	ctx := context.Background()

	resp, err := svc.Generate(ctx, anaRequest())
	require.NoError(t, err)

	require.Len(t, resp.Recommendations, 4)
	for i, want := range []string{"HubSpot AI", "Clay", "Apollo", "Lavender"} {
		assert.Equal(t, want, resp.Recommendations[i].ToolName)
		assert.Equal(t, i+1, resp.Recommendations[i].Priority)
	}
	assert.Equal(t, models.AutomationMedium, resp.Recommendations[1].AutomationLevel)
	require.NotNil(t, resp.Recommendations[0].Link)
	assert.Nil(t, resp.Recommendations[1].Link)

	stored, err := st.Recommendations.ListByProfileID(ctx, nil, resp.ProfileID)
	require.NoError(t, err)
	assert.Len(t, stored, 4)

	require.Len(t, n.jobs, 1)
	assert.Equal(t, "ana@x.com", n.jobs[0].User.Email)
	assert.Equal(t, resp.StackID, n.jobs[0].Stack.ID)
}

func TestGenerateTwiceReusesUser(t *testing.T) {
	svc, st, _ := newService(t, &fakeGenerator{stack: fourTools()})
	ctx := context.Background()

	first, err := svc.Generate(ctx, anaRequest())
	require.NoError(t, err)
	second, err := svc.Generate(ctx, anaRequest())
	require.NoError(t, err)

	assert.Equal(t, first.UserID, second.UserID)
	assert.NotEqual(t, first.ProfileID, second.ProfileID)
	assert.NotEqual(t, first.StackID, second.StackID)

	profiles, err := st.Profiles.CountByUserID(ctx, nil, first.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), profiles)

	var users int64
	require.NoError(t, st.DB().Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(1), users)
}

func TestGenerateRejectsEmptyObject(t *testing.T) {
	svc, st, n := newService(t, rawGenerator{raw: `{}`})
	ctx := context.Background()

	_, err := svc.Generate(ctx, anaRequest())
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, apierr.StatusOf(err))
	assert.Contains(t, err.Error(), "Error generating AI stack: ")
	assert.ErrorIs(t, err, stackgen.ErrInvalidResponse)

	user, err := st.Users.GetByEmail(ctx, nil, "ana@x.com")
	require.NoError(t, err)
	profile, err := st.Profiles.GetLatestByUserID(ctx, nil, user.ID)
	require.NoError(t, err)
	require.NotNil(t, profile, "profile row stays behind")

	count, err := st.Stacks.CountByProfileID(ctx, nil, profile.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
	recs, err := st.Recommendations.ListByProfileID(ctx, nil, profile.ID)
	require.NoError(t, err)
	assert.Empty(t, recs)
	assert.Empty(t, n.jobs)
}

func TestGenerateRejectsMissingList(t *testing.T) {
	svc, _, _ := newService(t, rawGenerator{raw: `{"title": "T"}`})
	_, err := svc.Generate(context.Background(), anaRequest())
	assert.ErrorIs(t, err, stackgen.ErrInvalidResponse)
}

func TestGenerateRejectsMissingDescription(t *testing.T) {
	svc, st, n := newService(t, rawGenerator{raw: `{"title": "T", "recommendations": [{"toolName": "X"}]}`})
	ctx := context.Background()

	_, err := svc.Generate(ctx, anaRequest())
	assert.ErrorIs(t, err, stackgen.ErrInvalidResponse)

	var stacks, recs int64
	require.NoError(t, st.DB().Model(&models.AiStack{}).Count(&stacks).Error)
	require.NoError(t, st.DB().Model(&models.AiRecommendation{}).Count(&recs).Error)
	assert.Zero(t, stacks)
	assert.Zero(t, recs)
	assert.Empty(t, n.jobs)
}

func TestGenerateValidationHasNoSideEffects(t *testing.T) {
	gen := &fakeGenerator{stack: fourTools()}
	svc, st, _ := newService(t, gen)

	req := anaRequest()
	req.BusinessType = "restaurante"
	_, err := svc.Generate(context.Background(), req)

	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apierr.StatusOf(err))
	assert.Zero(t, gen.calls)

	user, err := st.Users.GetByEmail(context.Background(), nil, "ana@x.com")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestGenerateWrapsGeneratorError(t *testing.T) {
	svc, _, _ := newService(t, &fakeGenerator{err: errors.New("quota exceeded")})

	_, err := svc.Generate(context.Background(), anaRequest())
	require.Error(t, err)
	assert.Equal(t, "Error generating AI stack: quota exceeded", err.Error())
}

func TestGenerateRecoversConcurrentUserInsert(t *testing.T) {
	svc, st, _ := newService(t, &fakeGenerator{stack: fourTools()})
	db := st.DB()

	winner := uuid.New()
	fired := false
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:competing_user", func(tx *gorm.DB) {
		if fired || tx.Statement.Table != "users" {
			return
		}
		fired = true
		err := db.Exec("INSERT INTO users (id, name, email, created_at) VALUES (?, ?, ?, ?)",
			winner, "Ana (other tab)", "ana@x.com", time.Now()).Error
		require.NoError(t, err)
	}))

	resp, err := svc.Generate(context.Background(), anaRequest())
	require.NoError(t, err)
	assert.True(t, fired)
	assert.Equal(t, winner, resp.UserID)
}

func TestGetStack(t *testing.T) {
	svc, _, _ := newService(t, &fakeGenerator{stack: fourTools()})
	ctx := context.Background()

	resp, err := svc.Generate(ctx, anaRequest())
	require.NoError(t, err)

	got, err := svc.GetStack(ctx, resp.ProfileID.String())
	require.NoError(t, err)
	assert.Equal(t, resp.StackID, got.Stack.ID)
	require.Len(t, got.Recommendations, 4)
	assert.Equal(t, "HubSpot AI", got.Recommendations[0].ToolName)
	assert.Equal(t, []string{"comece pelo CRM"}, []string(got.Stack.ImplementationTips))
}

func TestGetStackUnknownIDs(t *testing.T) {
	svc, _, _ := newService(t, &fakeGenerator{})

	for _, id := range []string{uuid.NewString(), "not-a-uuid", ""} {
		_, err := svc.GetStack(context.Background(), id)
		assert.ErrorIs(t, err, apierr.ErrNotFound, id)
		assert.Equal(t, http.StatusNotFound, apierr.StatusOf(err))
		assert.Equal(t, "Stack not found", err.Error())
	}
}
