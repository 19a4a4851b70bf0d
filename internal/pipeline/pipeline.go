package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BerylCAtieno/ai-stack-agent/internal/apierr"
	"github.com/BerylCAtieno/ai-stack-agent/internal/logger"
	"github.com/BerylCAtieno/ai-stack-agent/internal/models"
	"github.com/BerylCAtieno/ai-stack-agent/internal/notify"
	"github.com/BerylCAtieno/ai-stack-agent/internal/store"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

type StackGenerator interface {
	Generate(ctx context.Context, profile *models.BusinessProfile) (*models.GeneratedStack, error)
}

type Notifier interface {
	Enqueue(job notify.Job) bool
}

type Options struct {
	// GenerationTimeout bounds the call to the generation service. Zero
	// leaves the request context as the only bound.
	GenerationTimeout time.Duration
}

// Service runs questionnaire submissions through generation and persistence,
// and reads stored results back.
type Service struct {
	store    *store.Store
	gen      StackGenerator
	notifier Notifier
	log      *logger.Logger
	tracer   trace.Tracer
	opts     Options
}

func New(st *store.Store, gen StackGenerator, notifier Notifier, log *logger.Logger, opts Options) *Service {
	return &Service{
		store:    st,
		gen:      gen,
		notifier: notifier,
		log:      log.With("service", "StackPipeline"),
		tracer:   otel.Tracer("github.com/BerylCAtieno/ai-stack-agent/internal/pipeline"),
		opts:     opts,
	}
}

// Generate validates req, records the user and profile, asks the generator for
// a stack and stores it. User and profile rows are committed before the
// generator runs and stay behind if it fails. The stack and its
// recommendations are written in one transaction.
func (s *Service) Generate(ctx context.Context, req models.GenerateStackRequest) (*models.GenerateStackResponse, error) {
	ctx, span := s.tracer.Start(ctx, "pipeline.Generate")
	defer span.End()

	req.Normalize()
	if err := req.Validate(); err != nil {
		span.SetStatus(codes.Error, "invalid request")
		return nil, apierr.Invalid("%s", err.Error())
	}
	span.SetAttributes(
		attribute.String("profile.business_type", req.BusinessType),
		attribute.String("profile.team_size", req.TeamSize),
	)

	resp, err := s.generate(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("Error generating AI stack: %w", err)
	}
	return resp, nil
}

func (s *Service) generate(ctx context.Context, req models.GenerateStackRequest) (*models.GenerateStackResponse, error) {
	user, err := s.resolveUser(ctx, req.Name, req.Email)
	if err != nil {
		return nil, err
	}

	profile, err := s.store.Profiles.Create(ctx, nil, &models.BusinessProfile{
		UserID:       user.ID,
		BusinessType: req.BusinessType,
		TeamSize:     req.TeamSize,
		Objective:    req.Objective,
		CurrentTools: req.CurrentTools,
		OtherTools:   req.OtherTools,
		AIKnowledge:  req.AIKnowledge,
	})
	if err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	genCtx := ctx
	if s.opts.GenerationTimeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.opts.GenerationTimeout)
		defer cancel()
	}
	start := time.Now()
	generated, err := s.gen.Generate(genCtx, profile)
	if err != nil {
		s.log.Error("stack generation failed", "profile_id", profile.ID, "duration", time.Since(start), "error", err)
		return nil, err
	}
	s.log.Info("stack generated", "profile_id", profile.ID, "duration", time.Since(start), "recommendations", len(generated.Recommendations))

	stack, recs, err := s.persist(ctx, profile.ID, generated)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Enqueue(notify.Job{User: user, Stack: stack, Recommendations: recs})
	}

	return &models.GenerateStackResponse{
		StackID:         stack.ID,
		ProfileID:       profile.ID,
		UserID:          user.ID,
		Stack:           stack,
		Recommendations: recs,
	}, nil
}

// resolveUser returns the user registered under email, creating it on first
// sight. A concurrent insert of the same email is recovered by re-reading.
func (s *Service) resolveUser(ctx context.Context, name, email string) (*models.User, error) {
	user, err := s.store.Users.GetByEmail(ctx, nil, email)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user != nil {
		return user, nil
	}

	user, err = s.store.Users.Create(ctx, nil, &models.User{Name: name, Email: email})
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrDuplicate) {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Debug("user created concurrently, re-reading", "email", email)
	user, err = s.store.Users.GetByEmail(ctx, nil, email)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return nil, errors.New("user missing after duplicate insert")
	}
	return user, nil
}

func (s *Service) persist(ctx context.Context, profileID uuid.UUID, g *models.GeneratedStack) (*models.AiStack, []models.AiRecommendation, error) {
	stack := &models.AiStack{
		ProfileID:          profileID,
		Title:              g.Title,
		Description:        g.Description,
		OverallAnalysis:    g.OverallAnalysis,
		ImplementationTips: g.ImplementationTips,
		EstimatedSavings:   g.EstimatedSavings,
	}
	rows := make([]*models.AiRecommendation, 0, len(g.Recommendations))
	for i, r := range g.Recommendations {
		var link *string
		if r.Link != "" {
			l := r.Link
			link = &l
		}
		rows = append(rows, &models.AiRecommendation{
			ProfileID:       profileID,
			ToolName:        r.ToolName,
			Category:        r.Category,
			UseCase:         r.UseCase,
			AutomationLevel: models.NormalizeAutomationLevel(r.AutomationLevel),
			Description:     r.Description,
			Link:            link,
			Features:        r.Features,
			Priority:        i + 1,
		})
	}

	err := s.store.Transaction(ctx, func(tx *gorm.DB) error {
		if _, err := s.store.Stacks.Create(ctx, tx, stack); err != nil {
			return fmt.Errorf("create stack: %w", err)
		}
		if _, err := s.store.Recommendations.CreateBatch(ctx, tx, rows); err != nil {
			return fmt.Errorf("create recommendations: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return stack, deref(rows), nil
}

// GetStack returns the latest stack stored for a profile. Ids that do not
// parse are reported as not found.
func (s *Service) GetStack(ctx context.Context, profileID string) (*models.StackResult, error) {
	ctx, span := s.tracer.Start(ctx, "pipeline.GetStack")
	defer span.End()

	id, err := uuid.Parse(profileID)
	if err != nil {
		return nil, apierr.NotFound("Stack")
	}
	span.SetAttributes(attribute.String("profile.id", id.String()))

	stack, err := s.store.Stacks.GetByProfileID(ctx, nil, id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("Error fetching stack: %w", err)
	}
	if stack == nil {
		return nil, apierr.NotFound("Stack")
	}

	recs, err := s.store.Recommendations.ListByProfileID(ctx, nil, id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("Error fetching stack: %w", err)
	}
	return &models.StackResult{Stack: stack, Recommendations: deref(recs)}, nil
}

func deref(rows []*models.AiRecommendation) []models.AiRecommendation {
	out := make([]models.AiRecommendation, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	return out
}
