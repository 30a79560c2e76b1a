package energydb

import (
	"database/sql"
	"time"

	"github.com/NotCoffee418/manufacturing_energy/pkg/types"
)

const selectColumns = "id, run_id, zone, timestamp, energy_kwh, co2eq_g, cost_eur, co2_intensity, price_eur_kwh, created_at"

// Write stores the whole batch in one transaction or nothing at all.
func (s *Store) Write(batch types.EnergyBatch) error {
	if len(batch.Records) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		"INSERT INTO energy_records " +
			"(run_id, zone, timestamp, energy_kwh, co2eq_g, cost_eur, co2_intensity, price_eur_kwh, created_at) " +
			"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	createdAt := time.Now().UTC().Unix()
	for _, record := range batch.Records {
		_, err := stmt.Exec(
			batch.RunID,
			batch.Zone,
			record.Timestamp.UTC().Unix(),
			record.EnergyKWh,
			record.CO2eqG,
			record.CostEUR,
			record.CO2Intensity,
			record.PriceEURKWh,
			createdAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LatestBatch returns the most recently written batch.
// The batch is empty with no error when nothing has been stored yet.
func (s *Store) LatestBatch() (types.EnergyBatch, error) {
	var runID, zone string
	err := s.db.QueryRow(
		"SELECT run_id, zone FROM energy_records ORDER BY id DESC LIMIT 1",
	).Scan(&runID, &zone)
	if err != nil {
		if err == sql.ErrNoRows {
			return types.EnergyBatch{Records: []types.EnergyRecord{}}, nil
		}
		return types.EnergyBatch{}, err
	}

	rows, err := s.db.Query(
		"SELECT "+selectColumns+" FROM energy_records WHERE run_id = ? ORDER BY id",
		runID,
	)
	if err != nil {
		return types.EnergyBatch{}, err
	}
	records, err := scanRecords(rows)
	if err != nil {
		return types.EnergyBatch{}, err
	}

	return types.EnergyBatch{RunID: runID, Zone: zone, Records: records}, nil
}

// RecordsBetween returns records with from <= timestamp <= to, oldest first.
func (s *Store) RecordsBetween(from, to time.Time) ([]types.EnergyRecord, error) {
	rows, err := s.db.Query(
		"SELECT "+selectColumns+" FROM energy_records "+
			"WHERE timestamp >= ? AND timestamp <= ? ORDER BY timestamp, id",
		from.UTC().Unix(),
		to.UTC().Unix(),
	)
	if err != nil {
		return nil, err
	}
	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]types.EnergyRecord, error) {
	defer rows.Close()

	records := []types.EnergyRecord{}
	for rows.Next() {
		var r EnergyDbRecord
		if err := rows.Scan(
			&r.ID, &r.RunID, &r.Zone, &r.Timestamp,
			&r.EnergyKWh, &r.CO2eqG, &r.CostEUR,
			&r.CO2Intensity, &r.PriceEURKWh, &r.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, r.ToEnergyRecord())
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// DailyTotals sums records per UTC day for days starting in [from, to].
// Records re-collected by later runs are counted once, from the latest run.
func (s *Store) DailyTotals(from, to time.Time) ([]DailyTotal, error) {
	query := `
		SELECT
			(e.timestamp / 86400) * 86400 AS day_start,
			SUM(e.energy_kwh) AS energy_kwh,
			SUM(e.co2eq_g) AS co2eq_g,
			SUM(e.cost_eur) AS cost_eur,
			COUNT(*) AS sample_count
		FROM energy_records e
		WHERE e.run_id = (
			SELECT r.run_id FROM energy_records r
			WHERE r.timestamp >= (e.timestamp / 86400) * 86400
			AND r.timestamp < (e.timestamp / 86400) * 86400 + 86400
			ORDER BY r.id DESC
			LIMIT 1
		)
		AND e.timestamp >= ? AND e.timestamp < ?
		GROUP BY day_start
		ORDER BY day_start
	`

	rows, err := s.db.Query(query, roundToDayStart(from).Unix(), roundToDayStart(to).AddDate(0, 0, 1).Unix())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := []DailyTotal{}
	for rows.Next() {
		var dayStart int64
		var total DailyTotal
		if err := rows.Scan(&dayStart, &total.EnergyKWh, &total.CO2eqG, &total.CostEUR, &total.SampleCount); err != nil {
			return nil, err
		}
		total.DayStart = time.Unix(dayStart, 0).UTC()
		totals = append(totals, total)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return totals, nil
}

// roundToDayStart returns midnight UTC of the given time's day
func roundToDayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
