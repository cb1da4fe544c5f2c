package mirror

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Legacy sheet column names. Order is the on-disk column order.
const (
	colPhone         = "telefono_e164"
	colName          = "nombre"
	colCohortID      = "bootcamp"
	colCohortName    = "bootcamp_nombre"
	colModality      = "modalidad"
	colEnglishStart  = "ingles_inicio"
	colEnglishEnd    = "ingles_fin"
	colTrainingStart = "inicio_formacion"
	colSchedule      = "horario"
	colLocation      = "lugar"
	colOptIn         = "opt_in"
	colSendStatus    = "estado_envio_simple"
	colSentAt        = "fecha_envio_simple"
	colMessageID     = "message_id_simple"
	colResponse      = "respuesta"
	colRespondedAt   = "fecha_respuesta"
)

// header is the canonical column order for every rewrite.
var header = []string{
	colPhone, colName, colCohortID, colCohortName, colModality,
	colEnglishStart, colEnglishEnd, colTrainingStart, colSchedule,
	colLocation, colOptIn, colSendStatus, colSentAt, colMessageID,
	colResponse, colRespondedAt,
}

// phoneVariants are the header spellings sheets have used for the phone
// column over the years, in normalized form.
var phoneVariants = []string{
	"telefonoe164", "telefono", "telefonocelular", "phone", "phonenumber",
	"celular", "cel", "telefonodelestudiante", "telefonoestudiante",
	"movil", "whatsapp", "contacto", "numero",
}

// accentStripper removes combining marks after NFD decomposition, so
// "Teléfono" and "telefono" normalize identically.
var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeHeader lowercases a column name, strips accents, and removes
// spaces, underscores, and dashes.
//
//	"Teléfono Celular" -> "telefonocelular"
//	"E-mail_Address"   -> "emailaddress"
func normalizeHeader(name string) string {
	stripped, _, err := transform.String(accentStripper, strings.ToLower(name))
	if err != nil {
		stripped = strings.ToLower(name)
	}
	replacer := strings.NewReplacer(" ", "", "_", "", "-", "")
	return replacer.Replace(stripped)
}

// resolveColumns maps a raw CSV header row to canonical column names.
// Unknown columns are preserved under their normalized name so a sheet with
// extra columns still round-trips its known ones.
func resolveColumns(raw []string) map[string]int {
	idx := make(map[string]int, len(raw))

	normalized := make(map[string]int, len(raw))
	for i, name := range raw {
		normalized[normalizeHeader(name)] = i
	}

	// The phone column is special: accept any known variant.
	for _, v := range phoneVariants {
		if i, ok := normalized[v]; ok {
			idx[colPhone] = i
			break
		}
	}

	for _, canonical := range header {
		if _, ok := idx[canonical]; ok {
			continue
		}
		if i, ok := normalized[normalizeHeader(canonical)]; ok {
			idx[canonical] = i
		}
	}
	return idx
}
