package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/banshee-data/pasture.report/internal/pasture"
)

// ErrScenarioNotFound is returned when no scenario has the requested ID.
var ErrScenarioNotFound = errors.New("scenario not found")

// DefaultListLimit caps ListScenarios when the caller passes limit <= 0.
const DefaultListLimit = 50

// Scenario is one saved calculator run: the inputs as entered and the
// estimates computed from them.
type Scenario struct {
	ScenarioID   string               `json:"scenario_id"`
	Label        string               `json:"label"`
	Inputs       pasture.Inputs       `json:"inputs"`
	Coefficients pasture.Coefficients `json:"coefficients"`
	Result       pasture.Result       `json:"result"`
	CreatedUnix  int64                `json:"created_unix"`
}

// SaveScenario inserts s. A missing ScenarioID or CreatedUnix is filled in.
func (db *DB) SaveScenario(s *Scenario) error {
	if s.ScenarioID == "" {
		s.ScenarioID = uuid.New().String()
	}
	if s.CreatedUnix == 0 {
		s.CreatedUnix = db.clock.Now().Unix()
	}

	_, err := db.Exec(`
		INSERT INTO scenarios (
			scenario_id, label, weight_kgf, stiffness_n_per_cm, ndvi,
			coef_a, coef_b, coef_c, coef_d, coef_e,
			compression_cm, biomass_kg_ha, protein_pct, created_unix
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ScenarioID, s.Label,
		s.Inputs.WeightKgf, s.Inputs.StiffnessNPerCm, s.Inputs.NDVI,
		s.Coefficients.A, s.Coefficients.B, s.Coefficients.C, s.Coefficients.D, s.Coefficients.E,
		s.Result.CompressionCm, s.Result.BiomassKgHa, s.Result.ProteinPct,
		s.CreatedUnix,
	)
	if err != nil {
		return fmt.Errorf("insert scenario: %w", err)
	}
	return nil
}

const scenarioColumns = `
	scenario_id, label, weight_kgf, stiffness_n_per_cm, ndvi,
	coef_a, coef_b, coef_c, coef_d, coef_e,
	compression_cm, biomass_kg_ha, protein_pct, created_unix`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScenario(row rowScanner) (*Scenario, error) {
	s := &Scenario{}
	err := row.Scan(
		&s.ScenarioID, &s.Label,
		&s.Inputs.WeightKgf, &s.Inputs.StiffnessNPerCm, &s.Inputs.NDVI,
		&s.Coefficients.A, &s.Coefficients.B, &s.Coefficients.C, &s.Coefficients.D, &s.Coefficients.E,
		&s.Result.CompressionCm, &s.Result.BiomassKgHa, &s.Result.ProteinPct,
		&s.CreatedUnix,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetScenario returns the scenario with the given ID.
func (db *DB) GetScenario(id string) (*Scenario, error) {
	row := db.QueryRow(`SELECT `+scenarioColumns+` FROM scenarios WHERE scenario_id = ?`, id)
	s, err := scanScenario(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrScenarioNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get scenario: %w", err)
	}
	return s, nil
}

// ListScenarios returns up to limit scenarios, newest first.
func (db *DB) ListScenarios(limit int) ([]*Scenario, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := db.Query(`
		SELECT `+scenarioColumns+`
		FROM scenarios
		ORDER BY created_unix DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	defer rows.Close()

	scenarios := make([]*Scenario, 0)
	for rows.Next() {
		s, err := scanScenario(rows)
		if err != nil {
			return nil, fmt.Errorf("scan scenario: %w", err)
		}
		scenarios = append(scenarios, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scenarios: %w", err)
	}
	return scenarios, nil
}

// DeleteScenario removes the scenario with the given ID.
func (db *DB) DeleteScenario(id string) error {
	res, err := db.Exec(`DELETE FROM scenarios WHERE scenario_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete scenario: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete scenario: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrScenarioNotFound, id)
	}
	return nil
}
