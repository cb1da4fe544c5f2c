package contact

import (
	"errors"
	"fmt"
)

// ErrUnknownField indicates an edit request naming a field outside the
// editable set. Rejected before anything reaches storage.
var ErrUnknownField = errors.New("unknown field")

// Field identifies an editable contact attribute. Phone is deliberately
// absent: it is the identity and immutable once assigned.
type Field string

const (
	FieldName          Field = "name"
	FieldCohortID      Field = "cohort_id"
	FieldCohortName    Field = "cohort_name"
	FieldModality      Field = "modality"
	FieldEnglishStart  Field = "english_start"
	FieldEnglishEnd    Field = "english_end"
	FieldTrainingStart Field = "training_start"
	FieldSchedule      Field = "schedule"
	FieldLocation      Field = "location"
	FieldOptIn         Field = "opt_in"
	FieldSendStatus    Field = "send_status"
	FieldSentAt        Field = "sent_at"
	FieldMessageID     Field = "message_id"
	FieldResponse      Field = "response"
	FieldRespondedAt   Field = "responded_at"
)

// EditableFields lists every field an edit request may name, in schema order.
var EditableFields = []Field{
	FieldName,
	FieldCohortID,
	FieldCohortName,
	FieldModality,
	FieldEnglishStart,
	FieldEnglishEnd,
	FieldTrainingStart,
	FieldSchedule,
	FieldLocation,
	FieldOptIn,
	FieldSendStatus,
	FieldSentAt,
	FieldMessageID,
	FieldResponse,
	FieldRespondedAt,
}

var editableSet = func() map[Field]bool {
	m := make(map[Field]bool, len(EditableFields))
	for _, f := range EditableFields {
		m[f] = true
	}
	return m
}()

// ParseField validates a field name from an edit request.
// Returns ErrUnknownField for anything outside EditableFields.
func ParseField(name string) (Field, error) {
	f := Field(name)
	if !editableSet[f] {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return f, nil
}

// Column returns the SQL column name for the field. Field names were chosen
// to match the schema, so this is the identity; it exists to keep the SQL
// layer from casting Field to string ad hoc.
func (f Field) Column() string {
	return string(f)
}

// apply sets the field's value on a patch.
func (f Field) apply(p *Patch, value string) {
	switch f {
	case FieldName:
		p.Name = value
	case FieldCohortID:
		p.CohortID = value
	case FieldCohortName:
		p.CohortName = value
	case FieldModality:
		p.Modality = value
	case FieldEnglishStart:
		p.EnglishStart = value
	case FieldEnglishEnd:
		p.EnglishEnd = value
	case FieldTrainingStart:
		p.TrainingStart = value
	case FieldSchedule:
		p.Schedule = value
	case FieldLocation:
		p.Location = value
	case FieldOptIn:
		p.OptIn = value
	case FieldSendStatus:
		p.SendStatus = value
	case FieldSentAt:
		p.SentAt = value
	case FieldMessageID:
		p.MessageID = value
	case FieldResponse:
		p.Response = value
	case FieldRespondedAt:
		p.RespondedAt = value
	}
}

// PatchFromFields builds a Patch for the given phone from a map of validated
// field names to values. Returns ErrUnknownField on the first unknown name.
func PatchFromFields(phone string, fields map[string]string) (Patch, error) {
	p := Patch{Phone: phone}
	for name, value := range fields {
		f, err := ParseField(name)
		if err != nil {
			return Patch{}, err
		}
		f.apply(&p, value)
	}
	return p, nil
}
