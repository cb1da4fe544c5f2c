package message

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/torrico/rollcall/internal/contact"
)

// renderData is the placeholder set available to template bodies. Field
// names are the Spanish ones the campaign authors use.
type renderData struct {
	Nombre    string
	Bootcamp  string
	Modalidad string
	Inicio    string
	Horario   string
	Lugar     string
}

// Render substitutes a contact's values into the template body. Unknown
// placeholders fail the render rather than sending a half-filled message.
func (t Template) Render(c contact.Contact) (string, error) {
	tpl, err := template.New(t.Name).Option("missingkey=error").Parse(t.Body)
	if err != nil {
		return "", fmt.Errorf("template %q: %w", t.Name, err)
	}

	data := renderData{
		Nombre:    c.Name,
		Bootcamp:  c.CohortName,
		Modalidad: c.Modality,
		Inicio:    c.TrainingStart,
		Horario:   c.Schedule,
		Lugar:     c.Location,
	}
	if data.Nombre == "" {
		data.Nombre = "estudiante"
	}
	if data.Bootcamp == "" {
		data.Bootcamp = c.CohortID
	}

	var b strings.Builder
	if err := tpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("template %q: %w", t.Name, err)
	}
	return b.String(), nil
}
