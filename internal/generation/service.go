// Package generation orchestrates the two-stage pipeline: validate the
// request, research the topic, write the script, persist the result,
// and assemble the unified response.
package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"scriptforge/internal/agents/research"
	"scriptforge/internal/agents/scriptwriter"
	commonerrors "scriptforge/internal/common/errors"
	"scriptforge/internal/common/logger"
	"scriptforge/internal/common/metrics"
	"scriptforge/internal/store"
)

// Researcher is the first pipeline stage.
type Researcher interface {
	Research(ctx context.Context, topic, depth string) (*research.Result, error)
}

// Scriptwriter is the second pipeline stage.
type Scriptwriter interface {
	GenerateScript(ctx context.Context, researchData *research.Result, style, duration, brandVoice string) (*scriptwriter.Result, error)
	RefineScript(ctx context.Context, fullScript, feedback string) (*scriptwriter.Result, error)
}

// ScriptStore persists completed generations.
type ScriptStore interface {
	Insert(ctx context.Context, script *store.Script) error
	Get(ctx context.Context, scriptID string) (*store.Script, error)
}

// progressFunc receives checkpoint notifications during a run. A nil
// func disables notifications.
type progressFunc func(step, message string, progress int)

// Service runs the generation pipeline.
type Service struct {
	researcher   Researcher
	scriptwriter Scriptwriter
	scripts      ScriptStore
	logger       logger.Logger
	tracer       trace.Tracer
}

func NewService(researcher Researcher, sw Scriptwriter, scripts ScriptStore, log logger.Logger) *Service {
	return &Service{
		researcher:   researcher,
		scriptwriter: sw,
		scripts:      scripts,
		logger:       log.With(map[string]interface{}{"component": "generation"}),
		tracer:       otel.Tracer("scriptforge/generation"),
	}
}

// Generate runs the full pipeline once and returns the unified response.
func (s *Service) Generate(ctx context.Context, req *Request) (*Response, error) {
	return s.run(ctx, req, nil)
}

// run is shared by the blocking and streaming entry points. Either the
// complete row is persisted after both stages succeed, or nothing is
// written.
func (s *Service) run(ctx context.Context, req *Request, notify progressFunc) (*Response, error) {
	req.ApplyDefaults()
	if err := ValidateRequest(req); err != nil {
		metrics.GenerationsFailed.WithLabelValues(string(commonerrors.CodeOf(err))).Inc()
		return nil, err
	}

	start := time.Now()
	scriptID := uuid.NewString()
	log := s.logger.With(map[string]interface{}{"scriptId": scriptID, "topic": req.Topic})

	ctx, span := s.tracer.Start(ctx, "generation.run",
		trace.WithAttributes(attribute.String("script.id", scriptID)))
	defer span.End()

	log.Info("starting research", map[string]interface{}{"depth": req.ResearchDepth})
	s.notifyStep(notify, "research", "Researching topic...", 10)

	researchData, err := s.researchStage(ctx, req)
	if err != nil {
		return nil, s.fail(log, err)
	}

	s.notifyStep(notify, "research", fmt.Sprintf("Found %d sources", len(researchData.Sources)), 33)
	s.notifyStep(notify, "analysis", "Analyzing research findings...", 50)

	log.Info("generating script", nil)
	s.notifyStep(notify, "writing", "Writing script...", 66)

	scriptData, err := s.scriptStage(ctx, req, researchData)
	if err != nil {
		return nil, s.fail(log, err)
	}

	totalTokens := researchData.Meta.TokensUsed.InputTokens +
		researchData.Meta.TokensUsed.OutputTokens +
		scriptData.Meta.TokensUsed.InputTokens +
		scriptData.Meta.TokensUsed.OutputTokens

	generationTime := time.Since(start).Seconds()

	s.notifyStep(notify, "finalizing", "Saving script...", 90)

	record, err := buildRecord(scriptID, req, researchData, scriptData, totalTokens, generationTime)
	if err != nil {
		return nil, s.fail(log, err)
	}
	if err := s.scripts.Insert(ctx, record); err != nil {
		return nil, s.fail(log, err)
	}

	metrics.GenerationsCompleted.Inc()
	log.Info("script generated", map[string]interface{}{
		"tokensUsed":     totalTokens,
		"generationTime": fmt.Sprintf("%.2fs", generationTime),
	})

	return buildResponse(record, researchData, scriptData), nil
}

func (s *Service) researchStage(ctx context.Context, req *Request) (*research.Result, error) {
	ctx, span := s.tracer.Start(ctx, "generation.research")
	defer span.End()

	timer := time.Now()
	result, err := s.researcher.Research(ctx, req.Topic, req.ResearchDepth)
	metrics.StageDuration.WithLabelValues("research").Observe(time.Since(timer).Seconds())
	if err != nil {
		return nil, commonerrors.NewResearchError("Research phase failed", err)
	}
	if result == nil || result.Degraded() {
		return nil, commonerrors.NewResearchError("Failed to gather sufficient research data", nil)
	}

	metrics.TokensUsed.WithLabelValues("research", "input").Add(float64(result.Meta.TokensUsed.InputTokens))
	metrics.TokensUsed.WithLabelValues("research", "output").Add(float64(result.Meta.TokensUsed.OutputTokens))
	return result, nil
}

func (s *Service) scriptStage(ctx context.Context, req *Request, researchData *research.Result) (*scriptwriter.Result, error) {
	ctx, span := s.tracer.Start(ctx, "generation.script")
	defer span.End()

	timer := time.Now()
	result, err := s.scriptwriter.GenerateScript(ctx, researchData, req.Style, req.Duration, req.BrandVoice)
	metrics.StageDuration.WithLabelValues("script").Observe(time.Since(timer).Seconds())
	if err != nil {
		return nil, commonerrors.NewScriptGenerationError("Script generation failed", err)
	}
	if result == nil || result.FullScript == "" {
		return nil, commonerrors.NewScriptGenerationError("Failed to generate valid script", nil)
	}

	metrics.TokensUsed.WithLabelValues("script", "input").Add(float64(result.Meta.TokensUsed.InputTokens))
	metrics.TokensUsed.WithLabelValues("script", "output").Add(float64(result.Meta.TokensUsed.OutputTokens))
	return result, nil
}

// Refine reworks a stored script per the feedback without persisting
// the refined version.
func (s *Service) Refine(ctx context.Context, scriptID, feedback string) (*scriptwriter.Result, error) {
	record, err := s.scripts.Get(ctx, scriptID)
	if err != nil {
		return nil, err
	}

	result, err := s.scriptwriter.RefineScript(ctx, record.FullScript, feedback)
	if err != nil {
		return nil, commonerrors.NewScriptGenerationError("Script refinement failed", err)
	}
	return result, nil
}

func (s *Service) fail(log logger.Logger, err error) error {
	metrics.GenerationsFailed.WithLabelValues(string(commonerrors.CodeOf(err))).Inc()
	log.WithError(err).Error("generation failed", nil)
	return err
}

func (s *Service) notifyStep(notify progressFunc, step, message string, progress int) {
	if notify != nil {
		notify(step, message, progress)
	}
}

func buildRecord(scriptID string, req *Request, researchData *research.Result, scriptData *scriptwriter.Result, totalTokens int, generationTime float64) (*store.Script, error) {
	researchJSON, err := json.Marshal(researchData)
	if err != nil {
		return nil, fmt.Errorf("encode research data: %w", err)
	}
	sourcesJSON, err := json.Marshal(orEmptySources(researchData.Sources))
	if err != nil {
		return nil, fmt.Errorf("encode sources: %w", err)
	}
	keywordsJSON, err := json.Marshal(orEmptyStrings(scriptData.Keywords))
	if err != nil {
		return nil, fmt.Errorf("encode keywords: %w", err)
	}
	sectionsJSON, err := json.Marshal(scriptData.Script)
	if err != nil {
		return nil, fmt.Errorf("encode script sections: %w", err)
	}

	return &store.Script{
		ScriptID:          scriptID,
		Topic:             req.Topic,
		Style:             req.Style,
		Duration:          req.Duration,
		ResearchData:      researchJSON,
		Sources:           sourcesJSON,
		Title:             scriptData.Title,
		Description:       scriptData.Description,
		Keywords:          keywordsJSON,
		FullScript:        scriptData.FullScript,
		ScriptSections:    sectionsJSON,
		EstimatedDuration: scriptData.EstimatedDuration,
		Tone:              scriptData.Tone,
		TargetAudience:    scriptData.TargetAudience,
		TokensUsed:        totalTokens,
		GenerationTime:    generationTime,
	}, nil
}

func buildResponse(record *store.Script, researchData *research.Result, scriptData *scriptwriter.Result) *Response {
	return &Response{
		ScriptID:          record.ScriptID,
		Topic:             record.Topic,
		Title:             scriptData.Title,
		Description:       scriptData.Description,
		Keywords:          orEmptyStrings(scriptData.Keywords),
		Hook:              scriptData.Script.Hook,
		Intro:             scriptData.Script.Intro,
		Body:              orEmptySections(scriptData.Script.Body),
		Conclusion:        scriptData.Script.Conclusion,
		FullScript:        scriptData.FullScript,
		EstimatedDuration: scriptData.EstimatedDuration,
		Tone:              scriptData.Tone,
		TargetAudience:    scriptData.TargetAudience,
		Sources:           orEmptySources(researchData.Sources),
		KeyFindings:       orEmptyStrings(researchData.KeyFindings),
		TokensUsed:        record.TokensUsed,
		GenerationTime:    record.GenerationTime,
		CreatedAt:         record.CreatedAt,
	}
}

func orEmptyStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func orEmptySources(in []research.Source) []research.Source {
	if in == nil {
		return []research.Source{}
	}
	return in
}

func orEmptySections(in []scriptwriter.Section) []scriptwriter.Section {
	if in == nil {
		return []scriptwriter.Section{}
	}
	return in
}
