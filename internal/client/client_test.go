package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BerylCAtieno/ai-stack-agent/internal/apierr"
	"github.com/BerylCAtieno/ai-stack-agent/internal/models"
	"github.com/BerylCAtieno/ai-stack-agent/internal/presentation"
	"github.com/BerylCAtieno/ai-stack-agent/internal/questionnaire"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ questionnaire.Submitter = (*Client)(nil)
	_ presentation.Fetcher    = (*Client)(nil)
)

func newServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", 5*time.Second)
}

func TestGenerateStack(t *testing.T) {
	profileID := uuid.New()
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate-stack", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req models.GenerateStackRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ana@x.com", req.Email)

		_ = json.NewEncoder(w).Encode(models.GenerateStackResponse{ProfileID: profileID})
	})

	resp, err := c.GenerateStack(context.Background(), models.GenerateStackRequest{Name: "Ana", Email: "ana@x.com"})
	require.NoError(t, err)
	assert.Equal(t, profileID, resp.ProfileID)
}

func TestErrorResponses(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/generate-stack":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"invalid argument: email is required","code":"invalid_request"}`))
		case "/api/create-payment-intent":
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"message":"payments unavailable","code":"payments_unavailable"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Stack not found","code":"not_found"}`))
		}
	})
	ctx := context.Background()

	_, err := c.GenerateStack(ctx, models.GenerateStackRequest{})
	assert.ErrorIs(t, err, apierr.ErrInvalidArgument)
	assert.EqualError(t, err, "invalid argument: email is required")

	_, err = c.GetStack(ctx, "missing")
	assert.ErrorIs(t, err, apierr.ErrNotFound)
	assert.NotErrorIs(t, err, apierr.ErrInvalidArgument)
	var rerr *ResponseError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "not_found", rerr.Code)

	_, err = c.CreatePaymentIntent(ctx, nil)
	assert.ErrorIs(t, err, apierr.ErrUnavailable)
}

func TestGetStackFeedsPresentation(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/stack/p%201", r.URL.EscapedPath())
		_ = json.NewEncoder(w).Encode(models.StackResult{
			Stack: &models.AiStack{Title: "Stack"},
			Recommendations: []models.AiRecommendation{
				{ToolName: "B", Priority: 2},
				{ToolName: "A", Priority: 1},
			},
		})
	})

	v := presentation.Load(context.Background(), c, "p 1", nil)
	require.Equal(t, presentation.StateSuccess, v.State)
	assert.Equal(t, "A", v.Result.Recommendations[0].ToolName)
}

func TestCreatePaymentIntent(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req models.PaymentIntentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.Amount)
		assert.Equal(t, int64(19700), *req.Amount)
		_, _ = w.Write([]byte(`{"clientSecret":"pi_1_secret_2"}`))
	})

	amount := int64(19700)
	secret, err := c.CreatePaymentIntent(context.Background(), &amount)
	require.NoError(t, err)
	assert.Equal(t, "pi_1_secret_2", secret)
}

func TestHealthAndAgentCard(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			_, _ = w.Write([]byte("OK"))
		case "/.well-known/agent.json":
			_, _ = w.Write([]byte(`{"name":"AI Stack Advisor","url":"http://x/a2a/stack","skills":[{"id":"generate-ai-stack"}]}`))
		}
	})
	ctx := context.Background()

	require.NoError(t, c.Health(ctx))
	card, err := c.AgentCard(ctx)
	require.NoError(t, err)
	assert.Equal(t, "AI Stack Advisor", card.Name)
	require.Len(t, card.Skills, 1)
}

func TestHealthUnexpectedBody(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("starting"))
	})
	assert.Error(t, c.Health(context.Background()))
}
