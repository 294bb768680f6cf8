package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mickychog/career-genius/internal/config"
	"github.com/mickychog/career-genius/internal/models"

	"go.uber.org/zap"
)

// QuestionGenerator produces candidate question batches for a phase/area
// pool. Available reports whether the generator is configured at all; an
// unconfigured generator must not be retried against.
type QuestionGenerator interface {
	Available() bool
	GenerateQuestions(ctx context.Context, count int, phase models.Phase, area models.Area) ([]GeneratedQuestion, error)
}

const escapeOptionText = "Ninguna de las anteriores"

// minGeneratedOptions is the number of real choices a stored question
// carries before the escape option. Candidates with fewer are discarded,
// over-delivering ones are trimmed, so every generated question ends up with
// exactly 5 options.
const minGeneratedOptions = 4

// StockingService tops up the SPECIFIC and CONFIRMATION question pools from
// the generator. It is best-effort background work: a shortfall is reported,
// never fatal.
type StockingService struct {
	questions QuestionRepo
	generator QuestionGenerator
	cfg       config.StockingConfig
	log       *zap.Logger
}

func NewStockingService(questions QuestionRepo, generator QuestionGenerator, cfg config.StockingConfig, log *zap.Logger) *StockingService {
	if cfg.BatchSize <= 0 || cfg.BatchSize > 10 {
		cfg.BatchSize = 10
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.BackoffSeconds <= 0 {
		cfg.BackoffSeconds = 2
	}
	if cfg.DefaultTarget <= 0 {
		cfg.DefaultTarget = 30
	}
	return &StockingService{questions: questions, generator: generator, cfg: cfg, log: log}
}

// EnsureStock generates questions for one pool until it holds target entries
// or the attempt budget runs out. Returns how many questions it created. The
// only hard error is context cancellation; generator failures and duplicate
// races just consume attempts.
func (s *StockingService) EnsureStock(ctx context.Context, phase models.Phase, area models.Area, target int) (int, error) {
	if phase != models.PhaseSpecific && phase != models.PhaseConfirmation {
		return 0, fmt.Errorf("phase %q has a static pool: %w", phase, ErrInvalidInput)
	}
	if !area.Valid() {
		return 0, fmt.Errorf("unknown area %q: %w", area, ErrInvalidInput)
	}
	if !s.generator.Available() {
		return 0, fmt.Errorf("question generator is not configured: %w", ErrInvalidInput)
	}
	if target <= 0 {
		target = s.cfg.DefaultTarget
	}

	created := 0
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		count, err := s.questions.CountByPhaseAndArea(phase, area)
		if err != nil {
			return created, err
		}
		missing := target - int(count)
		if missing <= 0 {
			return created, nil
		}

		batch := missing
		if batch > s.cfg.BatchSize {
			batch = s.cfg.BatchSize
		}

		stored, err := s.stockBatch(ctx, phase, area, batch)
		created += stored
		if err != nil {
			if ctx.Err() != nil {
				return created, ctx.Err()
			}
			s.log.Warn("stocking batch failed",
				zap.String("phase", string(phase)),
				zap.String("area", string(area)),
				zap.Int("attempt", attempt),
				zap.Error(err))
		}

		if err == nil && stored >= batch {
			// Full batch landed; re-check the pool without backing off.
			continue
		}
		if attempt < s.cfg.MaxAttempts {
			// Linear backoff between attempts.
			sleep := time.Duration(attempt*s.cfg.BackoffSeconds) * time.Second
			select {
			case <-ctx.Done():
				return created, ctx.Err()
			case <-time.After(sleep):
			}
		}
	}

	if count, err := s.questions.CountByPhaseAndArea(phase, area); err == nil && int(count) < target {
		s.log.Warn("stocking finished below target",
			zap.String("phase", string(phase)),
			zap.String("area", string(area)),
			zap.Int64("stock", count),
			zap.Int("target", target))
	}
	return created, nil
}

// EnsureAllStocks tops up every SPECIFIC and CONFIRMATION pool. Meant to run
// in a background goroutine at startup and from the admin endpoint.
func (s *StockingService) EnsureAllStocks(ctx context.Context, target int) (int, error) {
	total := 0
	for _, phase := range []models.Phase{models.PhaseSpecific, models.PhaseConfirmation} {
		for _, area := range models.AllAreas() {
			created, err := s.EnsureStock(ctx, phase, area, target)
			total += created
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

func (s *StockingService) stockBatch(ctx context.Context, phase models.Phase, area models.Area, batch int) (int, error) {
	candidates, err := s.generator.GenerateQuestions(ctx, batch, phase, area)
	if err != nil {
		return 0, err
	}

	stored := 0
	for _, candidate := range candidates {
		question, ok := s.buildQuestion(candidate, phase, area)
		if !ok {
			continue
		}

		exists, err := s.questions.ExistsByText(question.Text)
		if err != nil {
			return stored, err
		}
		if exists {
			continue
		}

		if err := s.questions.Create(question); err != nil {
			// A concurrent stocker stored the same text first.
			if errors.Is(err, ErrConflict) {
				continue
			}
			return stored, err
		}
		stored++
	}

	s.log.Info("stocking batch stored",
		zap.String("phase", string(phase)),
		zap.String("area", string(area)),
		zap.Int("generated", len(candidates)),
		zap.Int("stored", stored))
	return stored, nil
}

// buildQuestion normalizes one generated candidate into the stored shape:
// scoring targets live on the options, and every question ends with the
// escape option so no answer is forced into an area. Candidates are held to
// exactly 4 real options: fewer are dropped, extras are truncated.
func (s *StockingService) buildQuestion(candidate GeneratedQuestion, phase models.Phase, area models.Area) (*models.Question, bool) {
	text := strings.TrimSpace(candidate.Question)
	if text == "" || len(candidate.Options) < minGeneratedOptions {
		return nil, false
	}
	if len(candidate.Options) > minGeneratedOptions {
		candidate.Options = candidate.Options[:minGeneratedOptions]
	}

	pointsTo := models.AreaNone
	if phase == models.PhaseSpecific {
		pointsTo = area
	}

	question := &models.Question{Text: text, Phase: phase, Area: area}
	for i, optText := range candidate.Options {
		optText = strings.TrimSpace(optText)
		if optText == "" {
			return nil, false
		}
		question.Options = append(question.Options, models.Option{
			OrderNum: i,
			Text:     optText,
			PointsTo: pointsTo,
		})
	}
	question.Options = append(question.Options, models.Option{
		OrderNum: len(question.Options),
		Text:     escapeOptionText,
		PointsTo: models.AreaNone,
	})
	return question, true
}
