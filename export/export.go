/*
Package export writes the final result artifacts: the per-unit results
table, the feature-importance table and an optional sqlite sink holding
the same two tables.
*/
package export

import (
	"encoding/csv"
	"strconv"

	"go-ml.dev/pkg/iokit"
	"go-ml.dev/pkg/zorros"

	"github.com/LCal-20/Predicitive-Maintenance-Engine-Degradation/evaluate"
	"github.com/LCal-20/Predicitive-Maintenance-Engine-Degradation/pipeline"
)

/*
WriteResultsCSV writes unit_id,true_RUL,predicted_RUL,error rows,
one per evaluated unit
*/
func WriteResultsCSV(path string, r *evaluate.Report) error {
	rows := [][]string{{"unit_id", "true_RUL", "predicted_RUL", "error"}}
	for _, u := range r.Results {
		rows = append(rows, []string{
			strconv.Itoa(u.Unit),
			formatFloat(u.TrueRUL),
			formatFloat(u.PredictedRUL),
			formatFloat(u.Error),
		})
	}
	return writeCSV(path, rows)
}

/*
WriteImportanceCSV writes feature_name,importance_score rows in
descending importance order
*/
func WriteImportanceCSV(path string, imp []pipeline.Importance) error {
	rows := [][]string{{"feature_name", "importance_score"}}
	for _, x := range imp {
		rows = append(rows, []string{x.Name, formatFloat(x.Score)})
	}
	return writeCSV(path, rows)
}

func writeCSV(path string, rows [][]string) error {
	wh, err := iokit.File(path).Create()
	if err != nil {
		return zorros.Trace(err)
	}
	defer wh.End()
	w := csv.NewWriter(wh)
	if err = w.WriteAll(rows); err != nil {
		return zorros.Trace(err)
	}
	if err = wh.Commit(); err != nil {
		return zorros.Trace(err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
