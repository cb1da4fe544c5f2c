package contact

// Merge reconciles an incoming partial record against an existing stored
// contact. For every non-empty field of the patch the result takes the
// incoming value; for every empty field it retains the stored value. Passing
// the zero Contact as existing yields a contact built purely from the patch.
//
// Merge is deterministic and has no side effects. It is the single rule both
// the SQLite store and the CSV mirror apply, which is what keeps the two
// representations from diverging semantically.
//
// Invariants (covered by tests):
//   - merge(c, empty patch) == c
//   - merge(merge(c, p), p) == merge(c, p)
//   - a populated field is never replaced by an empty incoming value
func Merge(existing Contact, p Patch) Contact {
	out := existing
	if p.Phone != "" {
		out.Phone = p.Phone
	}
	out.Name = pick(p.Name, existing.Name)
	out.CohortID = pick(p.CohortID, existing.CohortID)
	out.CohortName = pick(p.CohortName, existing.CohortName)
	out.Modality = pick(p.Modality, existing.Modality)
	out.EnglishStart = pick(p.EnglishStart, existing.EnglishStart)
	out.EnglishEnd = pick(p.EnglishEnd, existing.EnglishEnd)
	out.TrainingStart = pick(p.TrainingStart, existing.TrainingStart)
	out.Schedule = pick(p.Schedule, existing.Schedule)
	out.Location = pick(p.Location, existing.Location)
	out.OptIn = pick(p.OptIn, existing.OptIn)
	out.SendStatus = pick(p.SendStatus, existing.SendStatus)
	out.SentAt = pick(p.SentAt, existing.SentAt)
	out.MessageID = pick(p.MessageID, existing.MessageID)
	out.Response = pick(p.Response, existing.Response)
	out.RespondedAt = pick(p.RespondedAt, existing.RespondedAt)
	if out.SendStatus == "" {
		out.SendStatus = StatusPending
	}
	return out
}

// pick implements field-level last-writer-wins-if-non-empty.
func pick(incoming, existing string) string {
	if incoming != "" {
		return incoming
	}
	return existing
}
