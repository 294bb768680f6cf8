package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mickychog/career-genius/internal/config"
	"github.com/mickychog/career-genius/internal/models"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// AIService talks to an OpenAI-compatible chat endpoint. Every call carries a
// bounded timeout and every response is shape-validated before it is trusted;
// callers decide whether a failure is retried (stocking) or absorbed
// (result compilation).
type AIService struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	apiKey  string
	log     *zap.Logger
}

func NewAIService(cfg config.AIConfig, log *zap.Logger) *AIService {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &AIService{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: timeout,
		apiKey:  cfg.APIKey,
		log:     log,
	}
}

func (s *AIService) Available() bool {
	return s.apiKey != ""
}

// GeneratedQuestion is one candidate returned by the oracle.
type GeneratedQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// AnswerTranscript is one line of the answered-question transcript sent for
// final analysis.
type AnswerTranscript struct {
	Question string       `json:"pregunta"`
	Answer   string       `json:"respuesta"`
	Phase    models.Phase `json:"fase"`
}

// AnalysisResult is the structured outcome of the vocational analysis.
type AnalysisResult struct {
	Profile string          `json:"profile"`
	Report  string          `json:"report"`
	Careers []models.Career `json:"careers"`
}

type UniversityDetails struct {
	Years                string   `json:"years"`
	AdmissionType        string   `json:"admissionType"`
	ApproxCost           string   `json:"approxCost"`
	Ranking              string   `json:"ranking"`
	EmploymentIndex      string   `json:"employmentIndex"`
	CurriculumHighlights []string `json:"curriculumHighlights"`
	Description          string   `json:"description"`
}

type UniversityRecommendation struct {
	Name    string            `json:"name"`
	Type    string            `json:"type"`
	City    string            `json:"city"`
	Summary string            `json:"summary"`
	Details UniversityDetails `json:"details"`
}

type CourseRecommendation struct {
	Title       string `json:"title"`
	Platform    string `json:"platform"`
	Type        string `json:"type"`
	Description string `json:"description"`
	SearchQuery string `json:"searchQuery"`
	Difficulty  string `json:"difficulty"`
}

// boliviaContext maps each vocational area to real careers so generated
// content stays grounded in the national offer.
const boliviaContext = `USA ESTE CONTEXTO DE BOLIVIA PARA LA CATEGORÍA:
- TEC_INGENIERIA: Ing. de Sistemas/Informática/Software, Ing. Civil, Ing. Ambiental, Ing. Petrolera, Ing. Industrial, Ing. Mecatrónica, Ing. Minera, Ing. Eléctrica, Ing. Electrónica, Ing. Telecomunicaciones, Ing. Agronómica, Ing. de Alimentos, Ing. Química, técnicos en sistemas, electrónica, electricidad, mecánica, construcción y agro.
- SALUD_BIOLOGIA: Medicina, Enfermería, Odontología, Bioquímica y Farmacia, Biología, Fisioterapia y Kinesiología, Nutrición, Medicina Veterinaria y Zootecnia, Salud Pública.
- ARTE_CREATIVIDAD: Diseño Gráfico, Diseño Digital/Multimedia, Arquitectura, Artes Plásticas y Visuales, Comunicación Audiovisual, Publicidad y Marketing, Música.
- SOCIAL_HUMANIDADES: Derecho, Psicología, Trabajo Social, Sociología, Comunicación Social, Ciencias de la Educación, Filosofía, Historia, Lengua y Literatura, Idiomas.
- NEGOCIOS_ECONOMIA: Administración de Empresas, Ingeniería Comercial, Economía, Ingeniería Financiera, Contaduría Pública, Auditoría, Comercio Internacional, Marketing y Gestión Comercial.`

const jsonOnlySystemPrompt = `Eres un orientador vocacional experto en Bolivia. Respondes ÚNICAMENTE con JSON válido, sin markdown, sin bloques de código y sin explicaciones adicionales.`

// GenerateQuestions asks the oracle for count multiple-choice questions for
// the given phase and area. GENERAL questions are static seeds, so callers
// never request that phase.
func (s *AIService) GenerateQuestions(ctx context.Context, count int, phase models.Phase, area models.Area) ([]GeneratedQuestion, error) {
	var prompt string
	switch phase {
	case models.PhaseSpecific:
		prompt = fmt.Sprintf(`Genera %d preguntas de opción múltiple para un estudiante de secundaria en Bolivia.
Categoría: **%s** (%s).
%s

Objetivo: medir interés real en las actividades diarias de estas carreras, NO conocimientos técnicos.
Estilo: "¿Te gustaría hacer X?", "¿Te ves trabajando en Y?". Evita jerga compleja.

Responde con un array JSON:
[ { "question": "...", "options": ["Opción A", "Opción B", "Opción C", "Opción D"] } ]
Las 4 opciones deben ser actividades o niveles de agrado distintos, NO "Sí/No".`,
			count, area, area.Label(), boliviaContext)
	case models.PhaseConfirmation:
		prompt = fmt.Sprintf(`Genera %d preguntas para diferenciar SUB-ÁREAS dentro de: **%s** (%s).
%s

Objetivo: saber qué sub-área prefiere el estudiante, por ejemplo Ingeniería Civil vs Sistemas, o Medicina vs Veterinaria.

Responde con un array JSON:
[ { "question": "Dilema de preferencia...", "options": ["Prefiero [Subárea 1]", "Prefiero [Subárea 2]", "Prefiero [Subárea 3]", "Prefiero [Subárea 4]"] } ]`,
			count, area, area.Label(), boliviaContext)
	default:
		return nil, fmt.Errorf("question generation is not supported for phase %s: %w", phase, ErrInvalidInput)
	}

	var questions []GeneratedQuestion
	if err := s.chatJSON(ctx, prompt, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// AnalyzeAnswers compiles the final vocational analysis. The result is
// rejected unless it carries a non-empty profile and career list.
func (s *AIService) AnalyzeAnswers(ctx context.Context, transcript []AnswerTranscript) (*AnalysisResult, error) {
	answersJSON, err := json.Marshal(transcript)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`Analiza mis respuestas del test vocacional y genera un perfil profesional.

**Contexto:** carreras reales en Bolivia (universitarias o técnicas).
%s

**Entrada (respuestas):**
%s

**Salida JSON (estricta):**
{
  "profile": "Título corto del perfil (Ej. Innovador Tecnológico)",
  "careers": [
    { "name": "Nombre de la carrera", "duration": "Duración (Ej. 5 años - UMSA)", "reason": "Breve razón de por qué encaja conmigo." },
    { "name": "...", "duration": "...", "reason": "..." },
    { "name": "...", "duration": "...", "reason": "..." }
  ],
  "report": "Texto en Markdown con: 1. Tus Superpoderes (puntos fuertes), 2. Tu Reto (áreas de mejora). Sé breve y motivador."
}`, boliviaContext, string(answersJSON))

	var analysis AnalysisResult
	if err := s.chatJSON(ctx, prompt, &analysis); err != nil {
		return nil, err
	}
	if analysis.Profile == "" || len(analysis.Careers) == 0 {
		return nil, fmt.Errorf("oracle returned an incomplete analysis")
	}
	return &analysis, nil
}

// UniversityRecommendations lists institutions for a career, optionally
// narrowed to a department.
func (s *AIService) UniversityRecommendations(ctx context.Context, career, region string) ([]UniversityRecommendation, error) {
	regionContext := "en toda Bolivia (prioriza las mejores del país)."
	if region != "" && region != "Nacional" {
		regionContext = fmt.Sprintf("específicamente en el departamento de **%s** o ciudades muy cercanas. Si no hay buenas opciones ahí, sugiere las mejores del país indicando que son de otro lugar.", region)
	}

	prompt := fmt.Sprintf(`El usuario quiere estudiar: **"%s"**.

Recomienda las 6 mejores opciones (universidades públicas, privadas o institutos técnicos) %s
Si la carrera es técnica, prioriza institutos; si es académica, universidades.

Responde con un array JSON:
[
  {
    "name": "Nombre de la universidad/instituto",
    "type": "Pública" | "Privada" | "Instituto Técnico",
    "city": "Ciudad principal",
    "summary": "Breve resumen de prestigio (1 frase).",
    "details": {
      "years": "Duración (Ej. 5 años / 6 semestres)",
      "admissionType": "Ej. Examen de dispensación, ingreso libre, PSA",
      "approxCost": "Ej. Gratuita (solo matrícula), o Bs. 1500/mes",
      "ranking": "Ej. Top 3 nacional, muy reconocida en el sector",
      "employmentIndex": "Ej. Alto, Medio, Competitivo",
      "curriculumHighlights": ["Materia 1", "Materia 2", "Materia 3", "Materia 4", "Materia 5"],
      "description": "Párrafo detallado sobre el enfoque de la carrera en esta institución."
    }
  }
]`, career, regionContext)

	var universities []UniversityRecommendation
	if err := s.chatJSON(ctx, prompt, &universities); err != nil {
		return nil, err
	}
	return universities, nil
}

// CourseRecommendations lists free preparation resources for a career.
func (s *AIService) CourseRecommendations(ctx context.Context, career string) ([]CourseRecommendation, error) {
	prompt := fmt.Sprintf(`El estudiante quiere prepararse para la carrera: **"%s"**.

Recomienda 30 recursos educativos GRATUITOS (cursos, canales de YouTube, listas de reproducción) para empezar a prepararse.

**Contexto Bolivia:**
1. Prioriza contenido PREUNIVERSITARIO (matemáticas, física, química, lenguaje) necesario para exámenes de ingreso (PSA, pre-facultativos) de universidades públicas (UMSA, UAGRM, UMSS).
2. Incluye cursos de fundamentos de la carrera.
3. Incluye alguna habilidad blanda o herramienta digital necesaria.

Responde con un array JSON:
[
  {
    "title": "Nombre del curso/video",
    "platform": "YouTube" | "Khan Academy" | "Web",
    "type": "Preuniversitario" | "Fundamentos" | "Habilidad Blanda",
    "description": "Por qué sirve para esta carrera.",
    "searchQuery": "Término exacto para buscarlo en YouTube/Google",
    "difficulty": "Básico" | "Intermedio"
  }
]`, career)

	var courses []CourseRecommendation
	if err := s.chatJSON(ctx, prompt, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// chatJSON runs one chat completion and unmarshals the (fence-stripped)
// response into out.
func (s *AIService) chatJSON(ctx context.Context, prompt string, out any) error {
	if !s.Available() {
		return fmt.Errorf("AI generation is not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: jsonOnlySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.9,
	})
	if err != nil {
		return fmt.Errorf("oracle request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return fmt.Errorf("empty response from oracle")
	}

	content := cleanJSONContent(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), out); err != nil {
		s.log.Warn("oracle returned invalid JSON", zap.Error(err))
		return fmt.Errorf("oracle returned invalid JSON: %w", err)
	}
	return nil
}

// cleanJSONContent strips markdown code fences some models wrap around JSON.
func cleanJSONContent(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
	}
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
	}
	if strings.HasSuffix(content, "```") {
		content = strings.TrimSuffix(content, "```")
	}
	return strings.TrimSpace(content)
}
