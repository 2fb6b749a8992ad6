package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/floodwatch/floodwatch/internal/models"
)

func setupTestDB(t *testing.T) (*SQLiteDB, *clockwork.FakeClock) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 7, 25, 15, 4, 5, 0, time.UTC))
	db, err := NewSQLiteDB(":memory:", clock)
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, clock
}

func TestSQLiteDB_CreateAlert_Defaults(t *testing.T) {
	db, clock := setupTestDB(t)

	ctx := context.Background()
	alert, err := db.CreateAlert(ctx, "Kuttanad Basin", "Rising waters", models.SeverityMedium, "")
	if err != nil {
		t.Fatalf("CreateAlert failed: %v", err)
	}

	if alert.ID == 0 {
		t.Error("expected assigned id, got 0")
	}
	if alert.Acknowledged {
		t.Error("expected new alert to be unacknowledged")
	}
	if alert.Time != "7/25/2026, 3:04:05 PM" {
		t.Errorf("expected locale-formatted default time, got %q", alert.Time)
	}
	if !alert.CreatedAt.Equal(clock.Now()) {
		t.Errorf("expected createdAt %s, got %s", clock.Now(), alert.CreatedAt)
	}
}

func TestSQLiteDB_CreateAlert_KeepsCallerTime(t *testing.T) {
	db, _ := setupTestDB(t)

	alert, err := db.CreateAlert(context.Background(), "Kuttanad Basin", "Rising waters", models.SeverityLow, "7/20/2026, 9:00:00 AM")
	if err != nil {
		t.Fatalf("CreateAlert failed: %v", err)
	}
	if alert.Time != "7/20/2026, 9:00:00 AM" {
		t.Errorf("expected caller-supplied time preserved, got %q", alert.Time)
	}
}

func TestSQLiteDB_CreateAlert_Validation(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		zone     string
		message  string
		severity models.Severity
	}{
		{"missing zone", "", "msg", models.SeverityHigh},
		{"blank zone", "   ", "msg", models.SeverityHigh},
		{"missing message", "Kuttanad Basin", "", models.SeverityHigh},
		{"missing severity", "Kuttanad Basin", "msg", ""},
		{"unknown severity", "Kuttanad Basin", "msg", "Severe"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := db.CreateAlert(ctx, tc.zone, tc.message, tc.severity, "")
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}

	// No records should have been created.
	alerts, err := db.ListAlerts(ctx)
	if err != nil {
		t.Fatalf("ListAlerts failed: %v", err)
	}
	if len(alerts) != 0 {
		t.Errorf("expected empty store after rejected submissions, got %d alerts", len(alerts))
	}
}

func TestSQLiteDB_ListAlerts_MostRecentFirst(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	first, _ := db.CreateAlert(ctx, "Kuttanad Basin", "first", models.SeverityLow, "")
	second, _ := db.CreateAlert(ctx, "Pamba River Stretch", "second", models.SeverityHigh, "")

	alerts, err := db.ListAlerts(ctx)
	if err != nil {
		t.Fatalf("ListAlerts failed: %v", err)
	}
	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(alerts))
	}
	if alerts[0].ID != second.ID || alerts[1].ID != first.ID {
		t.Errorf("expected most-recent-first order, got [%d, %d]", alerts[0].ID, alerts[1].ID)
	}
	if first.ID == second.ID {
		t.Error("expected distinct ids for distinct creates")
	}
}

func TestSQLiteDB_ListAlerts_Empty(t *testing.T) {
	db, _ := setupTestDB(t)

	alerts, err := db.ListAlerts(context.Background())
	if err != nil {
		t.Fatalf("ListAlerts failed: %v", err)
	}
	if alerts == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(alerts) != 0 {
		t.Errorf("expected no alerts, got %d", len(alerts))
	}
}

func TestSQLiteDB_AcknowledgeAlert(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	created, _ := db.CreateAlert(ctx, "Kuttanad Basin", "Rising waters", models.SeverityMedium, "")

	got, err := db.AcknowledgeAlert(ctx, created.ID)
	if err != nil {
		t.Fatalf("AcknowledgeAlert failed: %v", err)
	}
	if !got.Acknowledged {
		t.Error("expected acknowledged=true")
	}

	// Acknowledging again is a no-op success.
	got, err = db.AcknowledgeAlert(ctx, created.ID)
	if err != nil {
		t.Fatalf("second AcknowledgeAlert failed: %v", err)
	}
	if !got.Acknowledged {
		t.Error("expected acknowledged=true after repeat acknowledge")
	}
}

func TestSQLiteDB_AcknowledgeAlert_NotFound(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	db.CreateAlert(ctx, "Kuttanad Basin", "Rising waters", models.SeverityMedium, "")

	_, err := db.AcknowledgeAlert(ctx, 9999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Store unchanged.
	alerts, _ := db.ListAlerts(ctx)
	if len(alerts) != 1 || alerts[0].Acknowledged {
		t.Error("expected store unchanged after failed acknowledge")
	}
}

func TestSQLiteDB_Shelters(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	n, err := db.CountShelters(ctx)
	if err != nil {
		t.Fatalf("CountShelters failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected empty shelter table, got %d", n)
	}

	sh := &models.Shelter{
		Name:      "Alappuzha Government School",
		Type:      models.ShelterTypeRelief,
		Longitude: 76.3388,
		Latitude:  9.4981,
		Capacity:  350,
		Contact:   "0477-2251234",
	}
	if err := db.AddShelter(ctx, sh); err != nil {
		t.Fatalf("AddShelter failed: %v", err)
	}
	if sh.ID == 0 {
		t.Error("expected assigned shelter id")
	}

	if err := db.AddShelter(ctx, &models.Shelter{Name: ""}); err == nil {
		t.Error("expected validation error for unnamed shelter")
	}

	shelters, err := db.ListShelters(ctx)
	if err != nil {
		t.Fatalf("ListShelters failed: %v", err)
	}
	if len(shelters) != 1 {
		t.Fatalf("expected 1 shelter, got %d", len(shelters))
	}
	if shelters[0].Type != models.ShelterTypeRelief || shelters[0].Capacity != 350 {
		t.Errorf("shelter fields not preserved: %+v", shelters[0])
	}
}

func TestSQLiteDB_Users(t *testing.T) {
	db, _ := setupTestDB(t)
	ctx := context.Background()

	u := &models.User{Username: "asha", Role: models.RoleCoordinator}
	if err := u.SetPassword("s3cret"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}
	if err := db.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	dup := &models.User{Username: "asha", PasswordHash: "x", Role: models.RoleResponder}
	if err := db.CreateUser(ctx, dup); !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}

	got, err := db.GetUserByUsername(ctx, "asha")
	if err != nil {
		t.Fatalf("GetUserByUsername failed: %v", err)
	}
	if !got.CheckPassword("s3cret") {
		t.Error("expected stored hash to verify the original password")
	}
	if got.CheckPassword("wrong") {
		t.Error("expected wrong password to fail verification")
	}

	byID, err := db.GetUserByID(ctx, got.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if byID.Role != models.RoleCoordinator {
		t.Errorf("expected Coordinator role, got %s", byID.Role)
	}

	if _, err := db.GetUserByID(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}
}
