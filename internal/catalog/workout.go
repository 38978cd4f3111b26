package catalog

import (
	"database/sql"
	"strings"

	"ai-fitness-planner/internal/storage"
)

// Column names of the exercise reference table.
const (
	ColumnExerciseName    = "Exercise Name"
	ColumnWorkoutDuration = "Workout Duration"
)

// UnknownExercise labels rows that carry no exercise name.
const UnknownExercise = "Unknown Exercise"

// WorkoutRecord is an exercise catalog row. Attributes holds every raw
// column; missing or NaN cells are stored as an invalid sql.NullString.
type WorkoutRecord struct {
	ExerciseName string
	Attributes   map[string]sql.NullString
}

// Attribute returns the raw value of a column and whether it is present.
func (w WorkoutRecord) Attribute(column string) (string, bool) {
	v := w.Attributes[column]
	return v.String, v.Valid
}

// LoggedMinutes parses the workout duration column of the row.
func (w WorkoutRecord) LoggedMinutes() int {
	return ParseDurationMinutes(w.Attributes[ColumnWorkoutDuration])
}

// NormalizeWorkout converts raw rows into WorkoutRecords. No rows are dropped.
func NormalizeWorkout(rows []storage.Row, header []string) []WorkoutRecord {
	records := make([]WorkoutRecord, 0, len(rows))
	for _, row := range rows {
		attrs := make(map[string]sql.NullString, len(header))
		for _, col := range header {
			attrs[col] = toNullString(row[col])
		}

		name := strings.TrimSpace(attrs[ColumnExerciseName].String)
		if name == "" {
			name = UnknownExercise
		}

		records = append(records, WorkoutRecord{
			ExerciseName: name,
			Attributes:   attrs,
		})
	}
	return records
}

func toNullString(raw string) sql.NullString {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(s) {
	case "", "nan", "null", "none", "n/a":
		return sql.NullString{}
	}
	return sql.NullString{String: raw, Valid: true}
}
