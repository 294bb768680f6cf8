package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/mickychog/career-genius/internal/config"
	"github.com/mickychog/career-genius/internal/models"

	"go.uber.org/zap"
)

// AnalysisOracle compiles the final vocational analysis. It may fail or time
// out; TestService absorbs those failures so finishing never blocks on a
// third party.
type AnalysisOracle interface {
	AnalyzeAnswers(ctx context.Context, transcript []AnswerTranscript) (*AnalysisResult, error)
}

// submitRetries bounds the re-read/reapply loop when a concurrent writer wins
// the versioned update race.
const submitRetries = 3

// TestService owns the funnel: phase transitions, question assignment, answer
// recording, and completion.
type TestService struct {
	questions QuestionRepo
	sessions  SessionRepo
	oracle    AnalysisOracle
	cfg       config.FunnelConfig
	log       *zap.Logger
}

func NewTestService(questions QuestionRepo, sessions SessionRepo, oracle AnalysisOracle, cfg config.FunnelConfig, log *zap.Logger) *TestService {
	if cfg.GeneralCount <= 0 {
		cfg.GeneralCount = 10
	}
	if cfg.SpecificPerBranch <= 0 {
		cfg.SpecificPerBranch = 5
	}
	if cfg.ConfirmationCount <= 0 {
		cfg.ConfirmationCount = 5
	}
	return &TestService{questions: questions, sessions: sessions, oracle: oracle, cfg: cfg, log: log}
}

// OptionView is one displayed answer choice. Index is the stored (original)
// option index; answer submission always references it, never the shuffled
// display position.
type OptionView struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

type QuestionView struct {
	ID      string       `json:"id"`
	Text    string       `json:"text"`
	Phase   models.Phase `json:"phase"`
	Options []OptionView `json:"options"`
}

type StartTestResponse struct {
	SessionID string         `json:"session_id"`
	Phase     models.Phase   `json:"phase"`
	Resumed   bool           `json:"resumed"`
	Questions []QuestionView `json:"questions"`
}

type SubmitAnswerResponse struct {
	Message        string         `json:"message"`
	Phase          models.Phase   `json:"phase"`
	PhaseAdvanced  bool           `json:"phase_advanced"`
	FunnelComplete bool           `json:"funnel_complete"`
	NewQuestions   []QuestionView `json:"new_questions,omitempty"`
}

type TestStatus struct {
	HasActiveSession    bool         `json:"has_active_session"`
	SessionID           string       `json:"session_id,omitempty"`
	Phase               models.Phase `json:"phase,omitempty"`
	AnsweredCount       int          `json:"answered_count"`
	QuestionCount       int          `json:"question_count"`
	HasCompletedSession bool         `json:"has_completed_session"`
	LastCompletedID     string       `json:"last_completed_id,omitempty"`
}

// Start resumes the user's incomplete session or creates a new one with a
// fresh GENERAL sample. Two racing starts are resolved through the partial
// unique index: the loser detects the conflict, re-reads, and resumes.
func (s *TestService) Start(ctx context.Context, userID string) (*StartTestResponse, error) {
	if active, err := s.sessions.ActiveByUser(userID); err == nil {
		return s.buildStartResponse(active, true)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	general, err := s.questions.Sample(models.PhaseGeneral, nil, s.cfg.GeneralCount)
	if err != nil {
		return nil, err
	}
	if len(general) == 0 {
		return nil, fmt.Errorf("no questions available to start the test: %w", ErrNotFound)
	}
	if len(general) < s.cfg.GeneralCount {
		s.log.Warn("general question bank below target",
			zap.Int("available", len(general)),
			zap.Int("wanted", s.cfg.GeneralCount))
	}

	session := &models.TestSession{
		UserID: userID,
		Phase:  models.PhaseGeneral,
		Scores: models.ScoreMap{},
	}
	for _, q := range general {
		session.QuestionIDs = append(session.QuestionIDs, q.ID)
	}

	if err := s.sessions.Create(session); err != nil {
		if errors.Is(err, ErrConflict) {
			// Lost the race against another start; the constraint
			// guarantees that session is the one to resume.
			existing, readErr := s.sessions.ActiveByUser(userID)
			if readErr != nil {
				return nil, readErr
			}
			return s.buildStartResponse(existing, true)
		}
		return nil, err
	}

	s.log.Info("test session started",
		zap.String("session_id", session.ID),
		zap.String("user_id", userID),
		zap.Int("questions", len(session.QuestionIDs)))
	return s.buildStartResponse(session, false)
}

// SubmitAnswer records one answer, rescores the session, and advances the
// phase once every assigned question is answered. Safe to retry: resubmission
// overwrites in place.
func (s *TestService) SubmitAnswer(ctx context.Context, sessionID, userID, questionID string, optionIndex int) (*SubmitAnswerResponse, error) {
	var lastErr error
	for attempt := 0; attempt < submitRetries; attempt++ {
		resp, err := s.submitOnce(ctx, sessionID, userID, questionID, optionIndex)
		if err == nil {
			return resp, nil
		}
		if !errors.Is(err, ErrConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (s *TestService) submitOnce(ctx context.Context, sessionID, userID, questionID string, optionIndex int) (*SubmitAnswerResponse, error) {
	session, err := s.sessions.ByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, fmt.Errorf("session belongs to another user: %w", ErrForbidden)
	}
	if session.IsCompleted {
		return nil, fmt.Errorf("test already completed: %w", ErrInvalidInput)
	}
	if !session.HasQuestion(questionID) {
		return nil, fmt.Errorf("question %q is not part of this session: %w", questionID, ErrInvalidInput)
	}

	assigned, err := s.questions.ByIDs(session.QuestionIDs)
	if err != nil {
		return nil, err
	}
	byID := questionsByID(assigned)
	question, ok := byID[questionID]
	if !ok {
		return nil, fmt.Errorf("question %q: %w", questionID, ErrNotFound)
	}
	if optionIndex < 0 || optionIndex >= len(question.Options) {
		return nil, fmt.Errorf("selected option index %d out of range: %w", optionIndex, ErrInvalidInput)
	}

	session.UpsertAnswer(models.UserAnswer{QuestionID: questionID, SelectedOptionIndex: optionIndex})
	session.Scores = ComputeScores(session.Answers, byID)

	resp := &SubmitAnswerResponse{Message: "respuesta guardada", Phase: session.Phase}

	if session.AllAnswered() && session.Phase != models.PhaseFinished {
		newQuestions, err := s.advance(session)
		if err != nil {
			return nil, err
		}
		resp.PhaseAdvanced = true
		resp.Phase = session.Phase
		resp.FunnelComplete = session.Phase == models.PhaseFinished
		resp.NewQuestions = s.questionViews(newQuestions)
	}

	if err := s.sessions.UpdateWithVersion(session); err != nil {
		return nil, err
	}
	return resp, nil
}

// advance moves the session to the next phase, sampling the pool the
// accumulated scores call for. A phase whose pool is empty is skipped rather
// than wedging the session. FINISHED is a signal only: sealing happens in
// Finish so the client can show a transition screen first.
func (s *TestService) advance(session *models.TestSession) ([]models.Question, error) {
	for session.Phase != models.PhaseFinished {
		next := session.Phase.Next()
		if next == models.PhaseFinished {
			session.Phase = next
			return nil, nil
		}

		var sampled []models.Question
		switch next {
		case models.PhaseSpecific:
			branches := TopBranches(session.Scores)
			session.ActiveBranches = branches
			for _, branch := range branches {
				qs, err := s.questions.Sample(models.PhaseSpecific, []models.Area{branch}, s.cfg.SpecificPerBranch)
				if err != nil {
					return nil, err
				}
				sampled = append(sampled, qs...)
			}
			s.log.Info("funnel branched",
				zap.String("session_id", session.ID),
				zap.Any("branches", branches),
				zap.Int("sampled", len(sampled)))
		case models.PhaseConfirmation:
			winner := WinningArea(session.Scores, session.ActiveBranches)
			qs, err := s.questions.Sample(models.PhaseConfirmation, []models.Area{winner}, s.cfg.ConfirmationCount)
			if err != nil {
				return nil, err
			}
			sampled = qs
			s.log.Info("funnel confirmed winner",
				zap.String("session_id", session.ID),
				zap.String("winner", string(winner)),
				zap.Int("sampled", len(sampled)))
		}

		session.Phase = next
		if len(sampled) > 0 {
			for _, q := range sampled {
				session.QuestionIDs = append(session.QuestionIDs, q.ID)
			}
			return sampled, nil
		}
		s.log.Warn("no stock for phase, skipping forward",
			zap.String("session_id", session.ID),
			zap.String("phase", string(next)))
	}
	return nil, nil
}

// Finish seals the session with the compiled analysis. Oracle failures are
// absorbed: the user invested the answers, so a third-party outage degrades
// the result instead of blocking completion.
func (s *TestService) Finish(ctx context.Context, sessionID, userID string) (*models.TestSession, error) {
	session, err := s.sessions.ByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, fmt.Errorf("session belongs to another user: %w", ErrForbidden)
	}
	if session.IsCompleted {
		return nil, fmt.Errorf("test already completed: %w", ErrInvalidInput)
	}
	if !session.AllAnswered() {
		return nil, fmt.Errorf("answered %d of %d questions: %w",
			len(session.Answers), len(session.QuestionIDs), ErrInvalidInput)
	}

	assigned, err := s.questions.ByIDs(session.QuestionIDs)
	if err != nil {
		return nil, err
	}
	transcript := buildTranscript(session, questionsByID(assigned))

	analysis, err := s.oracle.AnalyzeAnswers(ctx, transcript)
	if err != nil || analysis == nil || analysis.Profile == "" || len(analysis.Careers) == 0 {
		// A malformed result is treated like any other oracle failure:
		// the session still seals.
		s.log.Warn("analysis oracle failed, using fallback result",
			zap.String("session_id", sessionID),
			zap.Error(err))
		analysis = fallbackAnalysis()
	}

	now := time.Now()
	session.Phase = models.PhaseFinished
	session.IsCompleted = true
	session.CompletedAt = &now
	session.ResultProfile = analysis.Profile
	session.AnalysisReport = analysis.Report
	session.RecommendedCareers = analysis.Careers
	session.SelectedCareer = analysis.Careers[0].Name

	if err := s.sessions.Save(session); err != nil {
		return nil, err
	}
	s.log.Info("test session completed",
		zap.String("session_id", sessionID),
		zap.String("profile", session.ResultProfile))
	return session, nil
}

// Status summarizes the user's funnel state for the SPA's resume hint.
func (s *TestService) Status(ctx context.Context, userID string) (*TestStatus, error) {
	status := &TestStatus{}

	if active, err := s.sessions.ActiveByUser(userID); err == nil {
		status.HasActiveSession = true
		status.SessionID = active.ID
		status.Phase = active.Phase
		status.AnsweredCount = len(active.Answers)
		status.QuestionCount = len(active.QuestionIDs)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if last, err := s.sessions.LatestCompletedByUser(userID); err == nil {
		status.HasCompletedSession = true
		status.LastCompletedID = last.ID
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	return status, nil
}

// GetSession returns a session to its owner, results included.
func (s *TestService) GetSession(ctx context.Context, sessionID, userID string) (*models.TestSession, error) {
	session, err := s.sessions.ByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, fmt.Errorf("session belongs to another user: %w", ErrForbidden)
	}
	return session, nil
}

// SelectCareer overwrites the user's explicit pick and drops the downstream
// caches so university/course recommendations regenerate for the new career.
func (s *TestService) SelectCareer(ctx context.Context, sessionID, userID, careerName string) (*models.TestSession, error) {
	if careerName == "" {
		return nil, fmt.Errorf("career name is required: %w", ErrInvalidInput)
	}
	session, err := s.sessions.ByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, fmt.Errorf("session belongs to another user: %w", ErrForbidden)
	}
	if !session.IsCompleted {
		return nil, fmt.Errorf("test is not completed yet: %w", ErrInvalidInput)
	}

	session.SelectedCareer = careerName
	session.SavedUniversities = nil
	session.SavedCourses = nil
	if err := s.sessions.Save(session); err != nil {
		return nil, err
	}
	return session, nil
}

// SaveDemographics records the age and gender captured before the first
// question.
func (s *TestService) SaveDemographics(ctx context.Context, sessionID, userID string, age int, gender string) error {
	if age < 10 || age > 99 {
		return fmt.Errorf("age %d out of range: %w", age, ErrInvalidInput)
	}
	session, err := s.sessions.ByID(sessionID)
	if err != nil {
		return err
	}
	if session.UserID != userID {
		return fmt.Errorf("session belongs to another user: %w", ErrForbidden)
	}
	if session.IsCompleted {
		return fmt.Errorf("test already completed: %w", ErrInvalidInput)
	}

	session.Age = age
	session.Gender = gender
	return s.sessions.Save(session)
}

func (s *TestService) buildStartResponse(session *models.TestSession, resumed bool) (*StartTestResponse, error) {
	assigned, err := s.questions.ByIDs(session.QuestionIDs)
	if err != nil {
		return nil, err
	}

	// Deliver in phase order regardless of insertion order.
	byID := questionsByID(assigned)
	ordered := make([]*models.Question, 0, len(session.QuestionIDs))
	for _, id := range session.QuestionIDs {
		if q, ok := byID[id]; ok {
			ordered = append(ordered, q)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Phase.Order() < ordered[j].Phase.Order()
	})

	views := make([]QuestionView, 0, len(ordered))
	for _, q := range ordered {
		views = append(views, s.questionView(*q))
	}

	return &StartTestResponse{
		SessionID: session.ID,
		Phase:     session.Phase,
		Resumed:   resumed,
		Questions: views,
	}, nil
}

func (s *TestService) questionViews(questions []models.Question) []QuestionView {
	views := make([]QuestionView, 0, len(questions))
	for _, q := range questions {
		views = append(views, s.questionView(q))
	}
	return views
}

// questionView shuffles the option list per delivery while carrying the
// original index, so stored answers are stable across reloads.
func (s *TestService) questionView(q models.Question) QuestionView {
	options := make([]OptionView, len(q.Options))
	for i, o := range q.Options {
		options[i] = OptionView{Index: o.OrderNum, Text: o.Text}
	}
	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return QuestionView{ID: q.ID, Text: q.Text, Phase: q.Phase, Options: options}
}

func buildTranscript(session *models.TestSession, byID map[string]*models.Question) []AnswerTranscript {
	transcript := make([]AnswerTranscript, 0, len(session.Answers))
	for _, id := range session.QuestionIDs {
		answer, ok := session.AnswerFor(id)
		if !ok {
			continue
		}
		q, ok := byID[id]
		if !ok {
			continue
		}
		opt, ok := q.OptionAt(answer.SelectedOptionIndex)
		if !ok {
			continue
		}
		transcript = append(transcript, AnswerTranscript{
			Question: q.Text,
			Answer:   opt.Text,
			Phase:    q.Phase,
		})
	}
	return transcript
}

func questionsByID(questions []models.Question) map[string]*models.Question {
	byID := make(map[string]*models.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}
	return byID
}

// fallbackAnalysis is the degraded placeholder persisted when the oracle is
// unreachable or returns an unusable shape.
func fallbackAnalysis() *AnalysisResult {
	return &AnalysisResult{
		Profile: "Orientación Vocacional General",
		Report: "No pudimos generar tu análisis personalizado en este momento. " +
			"Tus respuestas quedaron guardadas; vuelve a consultar tus resultados más tarde.",
		Careers: []models.Career{
			{
				Name:     "Orientación Vocacional General",
				Duration: "Variable",
				Reason:   "fallback",
			},
		},
	}
}
