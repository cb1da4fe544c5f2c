package contact

import "strings"

// Send statuses recorded on a contact.
const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusError   = "error"
)

// Response values recorded on a contact. Empty means no response yet.
const (
	ResponseYes = "yes"
	ResponseNo  = "no"
)

// Contact is one tracked student. Phone is the identity and is stored in
// canonical form (see NormalizePhone). All timestamps are ISO 8601 strings;
// empty means unset, which is what the merge policy keys on.
type Contact struct {
	Phone         string `json:"phone"`
	Name          string `json:"name"`
	CohortID      string `json:"cohort_id"`
	CohortName    string `json:"cohort_name"`
	Modality      string `json:"modality"`
	EnglishStart  string `json:"english_start"`
	EnglishEnd    string `json:"english_end"`
	TrainingStart string `json:"training_start"`
	Schedule      string `json:"schedule"`
	Location      string `json:"location"`
	OptIn         string `json:"opt_in"`
	SendStatus    string `json:"send_status"`
	SentAt        string `json:"sent_at"`
	MessageID     string `json:"message_id"`
	Response      string `json:"response"`
	RespondedAt   string `json:"responded_at"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// Cohort is a training program contacts may reference. Deleting a cohort
// never cascades to contacts; a dangling CohortID is tolerated.
type Cohort struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// Patch is a partial contact used for upserts. Phone is required; every
// other field is optional, with empty meaning "leave the stored value alone".
type Patch struct {
	Phone         string `json:"phone"`
	Name          string `json:"name,omitempty"`
	CohortID      string `json:"cohort_id,omitempty"`
	CohortName    string `json:"cohort_name,omitempty"`
	Modality      string `json:"modality,omitempty"`
	EnglishStart  string `json:"english_start,omitempty"`
	EnglishEnd    string `json:"english_end,omitempty"`
	TrainingStart string `json:"training_start,omitempty"`
	Schedule      string `json:"schedule,omitempty"`
	Location      string `json:"location,omitempty"`
	OptIn         string `json:"opt_in,omitempty"`
	SendStatus    string `json:"send_status,omitempty"`
	SentAt        string `json:"sent_at,omitempty"`
	MessageID     string `json:"message_id,omitempty"`
	Response      string `json:"response,omitempty"`
	RespondedAt   string `json:"responded_at,omitempty"`
}

// optInAffirmatives are the values the legacy sheet used to mark consent.
var optInAffirmatives = map[string]bool{
	"TRUE": true,
	"1":    true,
	"YES":  true,
	"SI":   true,
	"SÍ":   true,
}

// OptedIn reports whether the contact has consented to receive messages.
func (c Contact) OptedIn() bool {
	return optInAffirmatives[strings.ToUpper(strings.TrimSpace(c.OptIn))]
}

// Pending reports whether the contact is still waiting for an outbound send.
func (c Contact) Pending() bool {
	return c.SendStatus != StatusSent
}
