package presentation

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/BerylCAtieno/ai-stack-agent/internal/apierr"
	"github.com/BerylCAtieno/ai-stack-agent/internal/models"
)

type State int

const (
	StateMissingID State = iota
	StateLoading
	StateError
	StateNotFound
	StateSuccess
)

func (s State) String() string {
	switch s {
	case StateMissingID:
		return "missing-id"
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	case StateNotFound:
		return "not-found"
	case StateSuccess:
		return "success"
	}
	return "unknown"
}

// Fetcher reads a persisted stack by profile id.
type Fetcher interface {
	GetStack(ctx context.Context, profileID string) (*models.StackResult, error)
}

// Spinner is shown while the stack is loading.
type Spinner interface {
	Start()
	Stop()
}

type View struct {
	State     State
	ProfileID string
	Result    *models.StackResult
	Err       error
}

// Load fetches the stack for profileID and reports the resulting view. spin
// may be nil.
func Load(ctx context.Context, f Fetcher, profileID string, spin Spinner) View {
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return View{State: StateMissingID}
	}

	if spin != nil {
		spin.Start()
	}
	result, err := f.GetStack(ctx, profileID)
	if spin != nil {
		spin.Stop()
	}

	v := View{ProfileID: profileID}
	switch {
	case errors.Is(err, apierr.ErrNotFound):
		v.State, v.Err = StateNotFound, err
	case err != nil:
		v.State, v.Err = StateError, err
	case result == nil || result.Stack == nil:
		v.State = StateNotFound
	default:
		v.State = StateSuccess
		v.Result = &models.StackResult{Stack: result.Stack, Recommendations: SortByPriority(result.Recommendations)}
	}
	return v
}

// SortByPriority returns a copy ordered by ascending priority.
func SortByPriority(recs []models.AiRecommendation) []models.AiRecommendation {
	out := append([]models.AiRecommendation(nil), recs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}
