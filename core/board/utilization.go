package board

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/escala-app/escala/core/model"
)

// Utilizations computes, for every volunteer of the roster, how many slots
// they currently fill against their monthly cap. Vacant slots count for
// nobody; assignments referencing identifiers absent from the roster do not
// produce entries. The result is a pure function of its inputs and must be
// recomputed wholesale after every refresh.
func Utilizations(slots []model.Slot, volunteers []model.Volunteer) map[int64]model.Utilization {
	counts := make(map[int64]int)
	for _, s := range slots {
		if s.VolunteerID != nil {
			counts[*s.VolunteerID]++
		}
	}
	utils := make(map[int64]model.Utilization, len(volunteers))
	for _, v := range volunteers {
		utils[v.ID] = model.Utilization{Assigned: counts[v.ID], Cap: v.MonthlyCap}
	}
	return utils
}

// Unassigned returns the volunteers with zero assignments in the period,
// sorted by display name under the given locale. A nil collator falls back
// to Brazilian Portuguese collation.
func Unassigned(volunteers []model.Volunteer, utils map[int64]model.Utilization, coll *collate.Collator) []model.Volunteer {
	if coll == nil {
		coll = collate.New(language.BrazilianPortuguese)
	}
	out := make([]model.Volunteer, 0)
	for _, v := range volunteers {
		if utils[v.ID].Assigned == 0 {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return coll.CompareString(out[i].Name, out[j].Name) < 0
	})
	return out
}

// OverloadedCount reports how many volunteers exceed their cap.
func OverloadedCount(utils map[int64]model.Utilization) int {
	n := 0
	for _, u := range utils {
		if u.Overloaded() {
			n++
		}
	}
	return n
}

// VacantCount reports how many slots have no volunteer.
func VacantCount(slots []model.Slot) int {
	n := 0
	for _, s := range slots {
		if s.Vacant() {
			n++
		}
	}
	return n
}
