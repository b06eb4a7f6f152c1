package service

import (
	"database/sql"
	"fmt"

	"github.com/saadjs/mealwise/internal/model"
)

const (
	DefaultCalorieGoal = 2000
	DefaultProteinGoal = 50
)

func DefaultGoals() model.DailyGoals {
	return model.DailyGoals{CalorieGoal: DefaultCalorieGoal, ProteinGoal: DefaultProteinGoal}
}

// SetGoals appends a goal row; the newest row is the current goal.
func SetGoals(db execer, g model.DailyGoals) error {
	if err := validatePositiveFloat("calorie goal", g.CalorieGoal); err != nil {
		return err
	}
	if err := validatePositiveFloat("protein goal", g.ProteinGoal); err != nil {
		return err
	}
	if _, err := db.Exec(`INSERT INTO goals(calorie_goal, protein_goal) VALUES(?, ?)`, g.CalorieGoal, g.ProteinGoal); err != nil {
		return fmt.Errorf("set goals: %w", err)
	}
	return nil
}

// CurrentGoals returns the newest goals, or the defaults when none are set.
func CurrentGoals(db *sql.DB) (model.DailyGoals, error) {
	var g model.DailyGoals
	err := db.QueryRow(`SELECT calorie_goal, protein_goal FROM goals ORDER BY id DESC LIMIT 1`).Scan(&g.CalorieGoal, &g.ProteinGoal)
	if err == sql.ErrNoRows {
		return DefaultGoals(), nil
	}
	if err != nil {
		return model.DailyGoals{}, fmt.Errorf("current goals: %w", err)
	}
	return g, nil
}

type GoalRecord struct {
	model.DailyGoals
	SetAt string `json:"setAt"`
}

func GoalHistory(db *sql.DB) ([]GoalRecord, error) {
	rows, err := db.Query(`SELECT calorie_goal, protein_goal, created_at FROM goals ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list goal history: %w", err)
	}
	defer rows.Close()

	history := make([]GoalRecord, 0)
	for rows.Next() {
		var r GoalRecord
		if err := rows.Scan(&r.CalorieGoal, &r.ProteinGoal, &r.SetAt); err != nil {
			return nil, fmt.Errorf("scan goal history: %w", err)
		}
		history = append(history, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goal history: %w", err)
	}
	return history, nil
}
