package statements

import (
	"ctfiler/internal/money"
	"ctfiler/pkg/models"
)

// Year selects which column of a line item an edit targets.
type Year int

const (
	CurrentYear Year = iota
	PreviousYear
)

// EditSet tracks the line-item ids a user has directly edited. Once an id is
// in the set, auto-population never overwrites it again for the session.
type EditSet map[string]bool

func (s EditSet) Has(id string) bool { return s != nil && s[id] }

func (s EditSet) Mark(id string) { s[id] = true }

// Clone copies the set so persisted snapshots do not alias live state.
func (s EditSet) Clone() EditSet {
	out := make(EditSet, len(s))
	for id := range s {
		out[id] = true
	}
	return out
}

// AutoPopulate pushes freshly computed figures into a statement. A key is only
// overwritten when it is absent or still zero, and was never manually edited.
// Returns a new statement; the input is not mutated.
func AutoPopulate(st Statement, computed Statement, manual EditSet) Statement {
	out := st.Clone()
	for id, v := range computed.Values {
		if manual.Has(id) {
			continue
		}
		existing, ok := out.Values[id]
		if ok && !existing.IsZero() {
			continue
		}
		out.Values[id] = v
		if notes, ok := computed.Notes[id]; ok {
			out.Notes[id] = append([]models.WorkingNoteEntry(nil), notes...)
		}
	}
	return out
}

// ApplyCellEdit records a direct edit of one line item's year total. The id
// is frozen against auto-population, and when the line already carries notes
// a "Manual Adjustment" note for the difference is appended so the notes
// still sum to the visible total. The adjustment insertion is a single pass;
// it never triggers a further diff.
func ApplyCellEdit(st Statement, manual EditSet, id string, year Year, value float64) Statement {
	out := st.Clone()
	value = money.Round2(value)

	v := out.Values[id]
	switch year {
	case CurrentYear:
		v.CurrentYear = value
	case PreviousYear:
		v.PreviousYear = value
	}
	out.Values[id] = v
	manual.Mark(id)

	notes := out.Notes[id]
	if len(notes) == 0 {
		return out
	}
	diff := money.Round2(value - sumNotes(notes, year))
	if !money.WithinTolerance(diff) {
		adj := models.WorkingNoteEntry{Description: models.ManualAdjustmentDescription}
		if year == CurrentYear {
			adj.CurrentYearAmount = diff
		} else {
			adj.PreviousYearAmount = diff
		}
		out.Notes[id] = append(notes, adj)
	}
	return out
}

// ApplyNoteEdit replaces one line item's notes and writes the note sums back
// as the line's totals. The id is marked manual so the write-back does not
// itself spawn another adjustment note.
func ApplyNoteEdit(st Statement, manual EditSet, id string, notes []models.WorkingNoteEntry) Statement {
	out := st.Clone()
	out.Notes[id] = append([]models.WorkingNoteEntry(nil), notes...)
	out.Values[id] = models.LineItemValue{
		CurrentYear:  money.Round2(sumNotes(notes, CurrentYear)),
		PreviousYear: money.Round2(sumNotes(notes, PreviousYear)),
	}
	manual.Mark(id)
	return out
}

func sumNotes(notes []models.WorkingNoteEntry, year Year) float64 {
	var total float64
	for _, n := range notes {
		if year == CurrentYear {
			total += n.CurrentYearAmount
		} else {
			total += n.PreviousYearAmount
		}
	}
	return total
}
