// ABOUTME: Bulk import of routines from exported documents.
// ABOUTME: Goes through the validated CRUD path and skips name collisions.
package routines

import (
	"github.com/harperreed/lift/internal/models"
)

// ImportReport summarizes an Import call.
type ImportReport struct {
	Added   int      `json:"added"`
	Skipped []string `json:"skipped"`
}

// Import adds routines through the same validated path as the Add methods.
// Routines whose name is invalid or already taken
// are skipped. Imported entities get fresh IDs.
func (s *Store) Import(routines []models.Routine) ImportReport {
	report := ImportReport{Skipped: []string{}}
	for _, in := range routines {
		res := s.AddRoutine(in.Name)
		if !res.Success {
			s.logger.Warn("import skipped routine", "name", in.Name, "reason", res.Message)
			report.Skipped = append(report.Skipped, in.Name)
			continue
		}
		routineID := res.ID
		for _, ex := range in.Exercises {
			exRes := s.AddExercise(routineID, ex.Name)
			if !exRes.Success {
				s.logger.Warn("import skipped exercise", "routine", in.Name, "name", ex.Name, "reason", exRes.Message)
				continue
			}
			s.UpdateExerciseRestTime(routineID, exRes.ID, float64(ex.RestTime))
			for _, set := range ex.Sets {
				setRes := s.AddSet(routineID, exRes.ID)
				s.UpdateSet(routineID, exRes.ID, setRes.ID, float64(set.Reps), set.Weight)
				if set.IsCompleted {
					s.ToggleSetCompletion(routineID, exRes.ID, setRes.ID)
				}
			}
		}
		report.Added++
	}
	return report
}
