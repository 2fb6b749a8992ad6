package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jonboulle/clockwork"
	_ "modernc.org/sqlite"

	"github.com/floodwatch/floodwatch/internal/models"
)

// displayTimeLayout matches the human-readable timestamps the alert form
// submits, e.g. "7/25/2026, 3:04:05 PM".
const displayTimeLayout = "1/2/2006, 3:04:05 PM"

type SQLiteDB struct {
	db    *sql.DB
	clock clockwork.Clock
}

func NewSQLiteDB(path string, clock clockwork.Clock) (*SQLiteDB, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db:    db,
		clock: clock,
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS alerts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			zone TEXT NOT NULL,
			message TEXT NOT NULL,
			severity TEXT NOT NULL,
			display_time TEXT NOT NULL,
			acknowledged INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS shelters (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			longitude REAL NOT NULL,
			latitude REAL NOT NULL,
			capacity INTEGER NOT NULL DEFAULT 0,
			contact TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_alerts_zone ON alerts(zone);
		CREATE INDEX IF NOT EXISTS idx_alerts_created_at ON alerts(created_at);
  	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

func (s *SQLiteDB) CreateAlert(ctx context.Context, zone, message string, severity models.Severity, displayTime string) (*models.Alert, error) {
	if strings.TrimSpace(zone) == "" {
		return nil, &ValidationError{Field: "zone"}
	}
	if strings.TrimSpace(message) == "" {
		return nil, &ValidationError{Field: "message"}
	}
	if !severity.Valid() {
		return nil, &ValidationError{Field: "severity"}
	}

	now := s.clock.Now()
	if displayTime == "" {
		displayTime = now.Format(displayTimeLayout)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO alerts (zone, message, severity, display_time, acknowledged, created_at)
		VALUES (?, ?, ?, ?, 0, ?)`,
		zone, message, string(severity), displayTime, now,
	)
	if err != nil {
		return nil, fmt.Errorf("error inserting alert: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("error reading alert id: %w", err)
	}

	return &models.Alert{
		ID:           id,
		Zone:         zone,
		Message:      message,
		Severity:     severity,
		Time:         displayTime,
		Acknowledged: false,
		CreatedAt:    now,
	}, nil
}

func (s *SQLiteDB) ListAlerts(ctx context.Context) ([]models.Alert, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, zone, message, severity, display_time, acknowledged, created_at
		FROM alerts
		ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("error listing alerts: %w", err)
	}
	defer rows.Close()

	alerts := make([]models.Alert, 0)
	for rows.Next() {
		var a models.Alert
		var severity string
		if err := rows.Scan(&a.ID, &a.Zone, &a.Message, &severity, &a.Time, &a.Acknowledged, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning alert: %w", err)
		}
		a.Severity = models.Severity(severity)
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func (s *SQLiteDB) AcknowledgeAlert(ctx context.Context, id int64) (*models.Alert, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE alerts SET acknowledged = 1 WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("error acknowledging alert: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("error reading rows affected: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return s.getAlert(ctx, id)
}

func (s *SQLiteDB) getAlert(ctx context.Context, id int64) (*models.Alert, error) {
	var a models.Alert
	var severity string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, zone, message, severity, display_time, acknowledged, created_at
		FROM alerts WHERE id = ?`, id,
	).Scan(&a.ID, &a.Zone, &a.Message, &severity, &a.Time, &a.Acknowledged, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching alert: %w", err)
	}
	a.Severity = models.Severity(severity)
	return &a, nil
}

func (s *SQLiteDB) AddShelter(ctx context.Context, sh *models.Shelter) error {
	if strings.TrimSpace(sh.Name) == "" {
		return &ValidationError{Field: "name"}
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO shelters (name, type, longitude, latitude, capacity, contact)
		VALUES (?, ?, ?, ?, ?, ?)`,
		sh.Name, string(sh.Type), sh.Longitude, sh.Latitude, sh.Capacity, sh.Contact,
	)
	if err != nil {
		return fmt.Errorf("error inserting shelter: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("error reading shelter id: %w", err)
	}
	sh.ID = id
	return nil
}

func (s *SQLiteDB) ListShelters(ctx context.Context) ([]models.Shelter, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, type, longitude, latitude, capacity, contact
		FROM shelters
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("error listing shelters: %w", err)
	}
	defer rows.Close()

	shelters := make([]models.Shelter, 0)
	for rows.Next() {
		var sh models.Shelter
		var typ string
		if err := rows.Scan(&sh.ID, &sh.Name, &typ, &sh.Longitude, &sh.Latitude, &sh.Capacity, &sh.Contact); err != nil {
			return nil, fmt.Errorf("error scanning shelter: %w", err)
		}
		sh.Type = models.ShelterType(typ)
		shelters = append(shelters, sh)
	}
	return shelters, rows.Err()
}

func (s *SQLiteDB) CountShelters(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM shelters`).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting shelters: %w", err)
	}
	return n, nil
}

func (s *SQLiteDB) CreateUser(ctx context.Context, u *models.User) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, password_hash, role)
		VALUES (?, ?, ?)`,
		u.Username, u.PasswordHash, string(u.Role),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("error inserting user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("error reading user id: %w", err)
	}
	u.ID = id
	return nil
}

func (s *SQLiteDB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getUser(ctx, `SELECT id, username, password_hash, role FROM users WHERE username = ?`, username)
}

func (s *SQLiteDB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.getUser(ctx, `SELECT id, username, password_hash, role FROM users WHERE id = ?`, id)
}

func (s *SQLiteDB) getUser(ctx context.Context, query string, arg any) (*models.User, error) {
	var u models.User
	var role string
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Username, &u.PasswordHash, &role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	u.Role = models.Role(role)
	return &u, nil
}
