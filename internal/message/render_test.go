package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torrico/rollcall/internal/contact"
)

func TestRender_SubstitutesContactValues(t *testing.T) {
	tpl := Template{
		Name: "t",
		Kind: KindText,
		Body: "Hola {{.Nombre}}, {{.Bootcamp}} inicia {{.Inicio}} en {{.Lugar}} ({{.Horario}}).",
	}
	body, err := tpl.Render(contact.Contact{
		Name:          "Ana",
		CohortName:    "Inteligencia Artificial",
		TrainingStart: "2025-04-01",
		Schedule:      "8am-12m",
		Location:      "Sede Norte",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hola Ana, Inteligencia Artificial inicia 2025-04-01 en Sede Norte (8am-12m).", body)
}

func TestRender_FallbacksForMissingValues(t *testing.T) {
	tpl := Template{Name: "t", Kind: KindText, Body: "Hola {{.Nombre}}, tu formación de {{.Bootcamp}}."}

	body, err := tpl.Render(contact.Contact{CohortID: "bc-01"})
	require.NoError(t, err)
	assert.Equal(t, "Hola estudiante, tu formación de bc-01.", body)
}

func TestRender_UnknownPlaceholderFails(t *testing.T) {
	tpl := Template{Name: "t", Kind: KindText, Body: "Hola {{.Apellido}}"}

	_, err := tpl.Render(contact.Contact{Name: "Ana"})
	assert.Error(t, err)
}

func TestRender_DefaultConfirmation(t *testing.T) {
	body, err := DefaultConfirmation().Render(contact.Contact{
		Name:          "Juan",
		CohortName:    "Desarrollo Web",
		TrainingStart: "2025-05-15",
		Schedule:      "6pm-9pm",
		Location:      "Virtual",
	})
	require.NoError(t, err)
	assert.Contains(t, body, "¡Hola Juan!")
	assert.Contains(t, body, "*Desarrollo Web*")
	assert.Contains(t, body, "2025-05-15")
}
