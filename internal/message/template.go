package message

// Template kinds. Text is a plain body, Interactive adds reply buttons,
// Catalog references a pre-approved provider template by name.
const (
	KindText        = "text"
	KindInteractive = "interactive"
	KindCatalog     = "template"
)

// Button is one interactive reply option.
type Button struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Template is one outbound message definition from the catalog.
type Template struct {
	Name     string   `json:"name"`
	Language string   `json:"language"`
	Kind     string   `json:"kind"`
	Body     string   `json:"body,omitempty"`
	Buttons  []Button `json:"buttons,omitempty"`
	Params   []string `json:"params,omitempty"`
}

// DefaultConfirmation is the built-in attendance confirmation message used
// when no catalog directory is configured.
func DefaultConfirmation() Template {
	return Template{
		Name:     "confirmacion_asistencia",
		Language: "es",
		Kind:     KindInteractive,
		Body: "¡Hola {{.Nombre}}! 👋\n\n" +
			"Te recordamos tu formación de *{{.Bootcamp}}*.\n\n" +
			"📅 *Inicio:* {{.Inicio}}\n" +
			"🕐 *Horario:* {{.Horario}}\n" +
			"📍 *Lugar:* {{.Lugar}}\n\n" +
			"¿Confirmas tu asistencia? Por favor selecciona una opción:",
		Buttons: []Button{
			{ID: "btn_si", Title: "Sí confirmo ✅"},
			{ID: "btn_no", Title: "No puedo ❌"},
		},
	}
}
