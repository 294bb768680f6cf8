package database

import (
	"errors"

	"github.com/mickychog/career-genius/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// seedOption pairs an option text with the area it scores toward.
type seedOption struct {
	text string
	area models.Area
}

// generalSeed is the static GENERAL bank. Specific and confirmation pools are
// stocked by the generation adapter; the entry funnel never depends on the
// oracle being reachable.
var generalSeed = []struct {
	text    string
	options []seedOption
}{
	{
		"En tu tiempo libre, ¿qué actividad disfrutas más?",
		[]seedOption{
			{"Armar o reparar aparatos y programas", models.AreaTecIngenieria},
			{"Cuidar plantas, animales o personas", models.AreaSaludBiologia},
			{"Dibujar, diseñar o hacer música", models.AreaArteCreatividad},
			{"Organizar ventas o emprender algo", models.AreaNegociosEconomia},
			{"Ninguna de las anteriores", models.AreaNone},
		},
	},
	{
		"Si tuvieras que elegir un proyecto escolar, ¿cuál escogerías?",
		[]seedOption{
			{"Construir un robot o una aplicación", models.AreaTecIngenieria},
			{"Una campaña de salud para tu colegio", models.AreaSaludBiologia},
			{"Investigar la historia de tu comunidad", models.AreaSocialHumanidades},
			{"Diseñar el afiche y la identidad del evento", models.AreaArteCreatividad},
			{"Ninguna de las anteriores", models.AreaNone},
		},
	},
	{
		"¿Qué tipo de noticias te llaman más la atención?",
		[]seedOption{
			{"Avances tecnológicos y descubrimientos científicos", models.AreaTecIngenieria},
			{"Medicina y nuevas vacunas o tratamientos", models.AreaSaludBiologia},
			{"Economía, empresas y mercados", models.AreaNegociosEconomia},
			{"Cultura, sociedad y derechos", models.AreaSocialHumanidades},
			{"Ninguna de las anteriores", models.AreaNone},
		},
	},
	{
		"¿En qué lugar te imaginas trabajando dentro de diez años?",
		[]seedOption{
			{"Un laboratorio u hospital", models.AreaSaludBiologia},
			{"Un estudio creativo o taller de diseño", models.AreaArteCreatividad},
			{"Una oficina dirigiendo mi propia empresa", models.AreaNegociosEconomia},
			{"Una escuela, juzgado o institución pública", models.AreaSocialHumanidades},
			{"Ninguna de las anteriores", models.AreaNone},
		},
	},
	{
		"Cuando trabajas en grupo, ¿qué rol tomas con más frecuencia?",
		[]seedOption{
			{"Resuelvo los problemas técnicos", models.AreaTecIngenieria},
			{"Escucho y apoyo a los compañeros", models.AreaSocialHumanidades},
			{"Propongo las ideas visuales y creativas", models.AreaArteCreatividad},
			{"Administro el tiempo y el presupuesto", models.AreaNegociosEconomia},
			{"Ninguna de las anteriores", models.AreaNone},
		},
	},
	{
		"¿Qué materia del colegio se te hace más interesante?",
		[]seedOption{
			{"Matemáticas y física", models.AreaTecIngenieria},
			{"Biología y química", models.AreaSaludBiologia},
			{"Artes plásticas y literatura", models.AreaArteCreatividad},
			{"Ciencias sociales y filosofía", models.AreaSocialHumanidades},
			{"Ninguna de las anteriores", models.AreaNone},
		},
	},
	{
		"Si pudieras ayudar a tu comunidad, ¿cómo lo harías?",
		[]seedOption{
			{"Mejorando el agua, la energía o el internet del barrio", models.AreaTecIngenieria},
			{"Atendiendo la salud de las familias", models.AreaSaludBiologia},
			{"Enseñando o defendiendo los derechos de las personas", models.AreaSocialHumanidades},
			{"Creando empleos con un nuevo negocio", models.AreaNegociosEconomia},
			{"Ninguna de las anteriores", models.AreaNone},
		},
	},
	{
		"¿Qué te resultaría más satisfactorio lograr?",
		[]seedOption{
			{"Que un sistema que construí funcione sin fallas", models.AreaTecIngenieria},
			{"Que un paciente se recupere gracias a mi trabajo", models.AreaSaludBiologia},
			{"Que mi obra se exponga o se publique", models.AreaArteCreatividad},
			{"Que mi empresa crezca y sea rentable", models.AreaNegociosEconomia},
			{"Ninguna de las anteriores", models.AreaNone},
		},
	},
	{
		"Frente a un problema difícil, ¿qué haces primero?",
		[]seedOption{
			{"Lo divido en partes y busco la causa técnica", models.AreaTecIngenieria},
			{"Pregunto cómo afecta a las personas involucradas", models.AreaSocialHumanidades},
			{"Imagino soluciones poco convencionales", models.AreaArteCreatividad},
			{"Calculo costos y beneficios de cada salida", models.AreaNegociosEconomia},
			{"Ninguna de las anteriores", models.AreaNone},
		},
	},
	{
		"¿Qué programa o contenido prefieres ver?",
		[]seedOption{
			{"Documentales de ciencia y tecnología", models.AreaTecIngenieria},
			{"Series sobre médicos y hospitales", models.AreaSaludBiologia},
			{"Videos de arte, cine o música", models.AreaArteCreatividad},
			{"Historias de emprendedores y finanzas", models.AreaNegociosEconomia},
			{"Ninguna de las anteriores", models.AreaNone},
		},
	},
	{
		"¿Con cuál de estas frases te identificas más?",
		[]seedOption{
			{"Me gusta entender cómo funcionan las cosas", models.AreaTecIngenieria},
			{"Me gusta cuidar el bienestar de los demás", models.AreaSaludBiologia},
			{"Me gusta expresar lo que siento y veo", models.AreaArteCreatividad},
			{"Me gusta comprender a la sociedad y sus conflictos", models.AreaSocialHumanidades},
			{"Ninguna de las anteriores", models.AreaNone},
		},
	},
	{
		"Si recibieras una beca, ¿qué curso corto tomarías?",
		[]seedOption{
			{"Programación o electrónica básica", models.AreaTecIngenieria},
			{"Primeros auxilios y anatomía", models.AreaSaludBiologia},
			{"Fotografía o diseño gráfico", models.AreaArteCreatividad},
			{"Contabilidad y marketing digital", models.AreaNegociosEconomia},
			{"Ninguna de las anteriores", models.AreaNone},
		},
	},
}

// SeedQuestions inserts the static GENERAL bank, skipping texts that already
// exist so repeated startups are idempotent.
func SeedQuestions(db *gorm.DB, log *zap.Logger) error {
	created := 0
	for _, seed := range generalSeed {
		var existing models.Question
		err := db.Where("text = ?", seed.text).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		q := models.Question{
			Text:  seed.text,
			Phase: models.PhaseGeneral,
			Area:  models.AreaNone,
		}
		for i, opt := range seed.options {
			q.Options = append(q.Options, models.Option{
				OrderNum: i,
				Text:     opt.text,
				PointsTo: opt.area,
			})
		}
		if err := db.Create(&q).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return err
		}
		created++
	}

	if created > 0 {
		log.Info("seeded general question bank", zap.Int("created", created))
	}
	return nil
}
