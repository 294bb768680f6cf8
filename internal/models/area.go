package models

// Area is one of the closed set of vocational interest areas. Declaration
// order is significant: it is the deterministic tie-break whenever two areas
// hold the same score.
type Area string

const (
	AreaTecIngenieria     Area = "TEC_INGENIERIA"
	AreaSaludBiologia     Area = "SALUD_BIOLOGIA"
	AreaArteCreatividad   Area = "ARTE_CREATIVIDAD"
	AreaSocialHumanidades Area = "SOCIAL_HUMANIDADES"
	AreaNegociosEconomia  Area = "NEGOCIOS_ECONOMIA"

	// AreaNone marks options that add no score: the escape option and
	// every CONFIRMATION option.
	AreaNone Area = "NONE"
)

// DefaultArea pads the branch selection when fewer than two areas scored.
const DefaultArea = AreaSocialHumanidades

// AllAreas returns the scoreable areas in declaration (tie-break) order.
// AreaNone is deliberately excluded.
func AllAreas() []Area {
	return []Area{
		AreaTecIngenieria,
		AreaSaludBiologia,
		AreaArteCreatividad,
		AreaSocialHumanidades,
		AreaNegociosEconomia,
	}
}

// Valid reports whether a is one of the scoreable areas.
func (a Area) Valid() bool {
	for _, area := range AllAreas() {
		if a == area {
			return true
		}
	}
	return false
}

// Label returns the human-readable Spanish name used in prompts and UI copy.
func (a Area) Label() string {
	switch a {
	case AreaTecIngenieria:
		return "Tecnología e Ingeniería"
	case AreaSaludBiologia:
		return "Salud y Biología"
	case AreaArteCreatividad:
		return "Arte y Creatividad"
	case AreaSocialHumanidades:
		return "Ciencias Sociales y Humanidades"
	case AreaNegociosEconomia:
		return "Negocios y Economía"
	default:
		return "Sin área"
	}
}
