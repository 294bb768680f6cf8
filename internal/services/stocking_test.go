package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mickychog/career-genius/internal/config"
	"github.com/mickychog/career-genius/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func generatedBatch(prefix string, n int) []GeneratedQuestion {
	batch := make([]GeneratedQuestion, n)
	for i := range batch {
		batch[i] = GeneratedQuestion{
			Question: fmt.Sprintf("%s %d", prefix, i),
			Options:  []string{"a", "b", "c", "d"},
		}
	}
	return batch
}

func newStockingHarness(cfg config.StockingConfig) (*StockingService, *fakeQuestionRepo, *fakeOracle) {
	questions := &fakeQuestionRepo{}
	oracle := &fakeOracle{}
	svc := NewStockingService(questions, oracle, cfg, zap.NewNop())
	return svc, questions, oracle
}

func TestEnsureStock(t *testing.T) {
	cfg := config.StockingConfig{BatchSize: 5, MaxAttempts: 1, BackoffSeconds: 1, DefaultTarget: 3}

	t.Run("fills the pool to the target", func(t *testing.T) {
		svc, questions, oracle := newStockingHarness(cfg)
		oracle.generated = [][]GeneratedQuestion{generatedBatch("tec", 3)}

		created, err := svc.EnsureStock(context.Background(), models.PhaseSpecific, models.AreaTecIngenieria, 3)
		require.NoError(t, err)
		assert.Equal(t, 3, created)

		count, err := questions.CountByPhaseAndArea(models.PhaseSpecific, models.AreaTecIngenieria)
		require.NoError(t, err)
		assert.EqualValues(t, 3, count)
	})

	t.Run("specific options point to the area plus escape", func(t *testing.T) {
		svc, questions, oracle := newStockingHarness(cfg)
		oracle.generated = [][]GeneratedQuestion{generatedBatch("tec", 1)}

		_, err := svc.EnsureStock(context.Background(), models.PhaseSpecific, models.AreaTecIngenieria, 1)
		require.NoError(t, err)

		stored, err := questions.Sample(models.PhaseSpecific, []models.Area{models.AreaTecIngenieria}, 1)
		require.NoError(t, err)
		require.Len(t, stored, 1)
		opts := stored[0].Options
		require.Len(t, opts, 5)
		for _, o := range opts[:4] {
			assert.Equal(t, models.AreaTecIngenieria, o.PointsTo)
		}
		assert.Equal(t, "Ninguna de las anteriores", opts[4].Text)
		assert.Equal(t, models.AreaNone, opts[4].PointsTo)
	})

	t.Run("over-delivered options are trimmed to four plus escape", func(t *testing.T) {
		svc, questions, oracle := newStockingHarness(cfg)
		oracle.generated = [][]GeneratedQuestion{{
			{Question: "generosa", Options: []string{"a", "b", "c", "d", "e", "f"}},
		}}

		_, err := svc.EnsureStock(context.Background(), models.PhaseSpecific, models.AreaTecIngenieria, 1)
		require.NoError(t, err)

		stored, err := questions.Sample(models.PhaseSpecific, []models.Area{models.AreaTecIngenieria}, 1)
		require.NoError(t, err)
		require.Len(t, stored, 1)
		require.Len(t, stored[0].Options, 5)
		assert.Equal(t, "d", stored[0].Options[3].Text)
		assert.Equal(t, "Ninguna de las anteriores", stored[0].Options[4].Text)
	})

	t.Run("confirmation options never score", func(t *testing.T) {
		svc, questions, oracle := newStockingHarness(cfg)
		oracle.generated = [][]GeneratedQuestion{generatedBatch("conf", 1)}

		_, err := svc.EnsureStock(context.Background(), models.PhaseConfirmation, models.AreaSaludBiologia, 1)
		require.NoError(t, err)

		stored, err := questions.Sample(models.PhaseConfirmation, []models.Area{models.AreaSaludBiologia}, 1)
		require.NoError(t, err)
		require.Len(t, stored, 1)
		for _, o := range stored[0].Options {
			assert.Equal(t, models.AreaNone, o.PointsTo)
		}
	})

	t.Run("duplicates and thin candidates are skipped", func(t *testing.T) {
		svc, questions, oracle := newStockingHarness(cfg)
		questions.add(&models.Question{
			Text:  "repetida",
			Phase: models.PhaseSpecific,
			Area:  models.AreaTecIngenieria,
		})
		oracle.generated = [][]GeneratedQuestion{{
			{Question: "repetida", Options: []string{"a", "b", "c", "d"}},
			{Question: "muy corta", Options: []string{"a", "b"}},
			{Question: "", Options: []string{"a", "b", "c", "d"}},
			{Question: "válida", Options: []string{"a", "b", "c", "d"}},
		}}

		created, err := svc.EnsureStock(context.Background(), models.PhaseSpecific, models.AreaTecIngenieria, 5)
		require.NoError(t, err)
		assert.Equal(t, 1, created)
	})

	t.Run("a full pool generates nothing", func(t *testing.T) {
		svc, questions, oracle := newStockingHarness(cfg)
		for i := 0; i < 3; i++ {
			questions.add(&models.Question{
				Text:  fmt.Sprintf("existing %d", i),
				Phase: models.PhaseSpecific,
				Area:  models.AreaArteCreatividad,
			})
		}

		created, err := svc.EnsureStock(context.Background(), models.PhaseSpecific, models.AreaArteCreatividad, 3)
		require.NoError(t, err)
		assert.Zero(t, created)
		assert.Zero(t, oracle.generateCall)
	})

	t.Run("generator failure is not fatal", func(t *testing.T) {
		svc, _, oracle := newStockingHarness(cfg)
		oracle.generateErr = errors.New("oracle down")

		created, err := svc.EnsureStock(context.Background(), models.PhaseSpecific, models.AreaTecIngenieria, 3)
		require.NoError(t, err)
		assert.Zero(t, created)
	})

	t.Run("cancelled context stops the run", func(t *testing.T) {
		svc, _, oracle := newStockingHarness(config.StockingConfig{BatchSize: 2, MaxAttempts: 3, BackoffSeconds: 1, DefaultTarget: 10})
		oracle.generateErr = errors.New("oracle down")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := svc.EnsureStock(ctx, models.PhaseSpecific, models.AreaTecIngenieria, 10)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("unconfigured generator is rejected without retries", func(t *testing.T) {
		svc, _, oracle := newStockingHarness(config.StockingConfig{BatchSize: 5, MaxAttempts: 5, BackoffSeconds: 2, DefaultTarget: 30})
		oracle.unavailable = true

		_, err := svc.EnsureStock(context.Background(), models.PhaseSpecific, models.AreaTecIngenieria, 30)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Zero(t, oracle.generateCall)
	})

	t.Run("rejects static pools and bad areas", func(t *testing.T) {
		svc, _, _ := newStockingHarness(cfg)

		_, err := svc.EnsureStock(context.Background(), models.PhaseGeneral, models.AreaTecIngenieria, 3)
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = svc.EnsureStock(context.Background(), models.PhaseSpecific, models.Area("INVENTADA"), 3)
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = svc.EnsureStock(context.Background(), models.PhaseSpecific, models.AreaNone, 3)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
