package export

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	"go-ml.dev/pkg/zorros"

	"github.com/LCal-20/Predicitive-Maintenance-Engine-Degradation/evaluate"
	"github.com/LCal-20/Predicitive-Maintenance-Engine-Degradation/pipeline"
)

/*
WriteSQLite stores the results and feature-importance tables into a
sqlite database, replacing any previous run's rows.
*/
func WriteSQLite(path string, r *evaluate.Report, imp []pipeline.Importance) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return zorros.Trace(err)
	}
	defer db.Close()

	schema := `
	CREATE TABLE IF NOT EXISTS results (
		unit_id       INTEGER PRIMARY KEY,
		true_rul      REAL NOT NULL,
		predicted_rul REAL NOT NULL,
		error         REAL NOT NULL
	);
	CREATE TABLE IF NOT EXISTS feature_importance (
		feature_name     TEXT PRIMARY KEY,
		importance_score REAL NOT NULL
	);
	DELETE FROM results;
	DELETE FROM feature_importance;
	`
	if _, err = db.Exec(schema); err != nil {
		return zorros.Trace(err)
	}
	tx, err := db.Begin()
	if err != nil {
		return zorros.Trace(err)
	}
	for _, u := range r.Results {
		if _, err = tx.Exec(
			`INSERT INTO results (unit_id, true_rul, predicted_rul, error) VALUES (?, ?, ?, ?)`,
			u.Unit, u.TrueRUL, u.PredictedRUL, u.Error); err != nil {
			_ = tx.Rollback()
			return zorros.Trace(err)
		}
	}
	for _, x := range imp {
		if _, err = tx.Exec(
			`INSERT INTO feature_importance (feature_name, importance_score) VALUES (?, ?)`,
			x.Name, x.Score); err != nil {
			_ = tx.Rollback()
			return zorros.Trace(err)
		}
	}
	if err = tx.Commit(); err != nil {
		return zorros.Trace(err)
	}
	return nil
}
