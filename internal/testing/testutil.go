package testing

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/motionlab/MotionLab/api/internal/analysis"
	"github.com/motionlab/MotionLab/api/internal/db"
)

/* TestDB holds test database connection */
type TestDB struct {
	DB      *sql.DB
	Queries *db.Queries
}

/* SetupTestDB connects to the test database and migrates the schema.
Tests calling it are skipped when no database is reachable, so the
suite stays runnable without postgres. */
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		getEnv("TEST_DB_HOST", "localhost"),
		getEnv("TEST_DB_PORT", "5432"),
		getEnv("TEST_DB_USER", "motionlab"),
		getEnv("TEST_DB_PASSWORD", "motionlab"),
		getEnv("TEST_DB_NAME", "motionlab_test"),
	)

	testDB, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("Skipping: failed to open test database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := testDB.PingContext(ctx); err != nil {
		testDB.Close()
		t.Skipf("Skipping: test database unavailable: %v", err)
	}

	if err := db.Migrate(context.Background(), testDB); err != nil {
		testDB.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return &TestDB{
		DB:      testDB,
		Queries: db.NewQueries(testDB),
	}
}

/* CleanupTestDB truncates test tables and closes the connection */
func (tdb *TestDB) CleanupTestDB(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tables := []string{
		"request_logs",
		"analyses",
	}

	for _, table := range tables {
		_, err := tdb.DB.ExecContext(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			t.Logf("Warning: Failed to truncate %s: %v", table, err)
		}
	}

	tdb.DB.Close()
}

/* CreateTestAnalysis stores a completed analysis for tests */
func CreateTestAnalysis(ctx context.Context, queries *db.Queries, motionID string) (*db.Analysis, error) {
	score := 96.2
	record := &db.Analysis{
		MotionID:     motionID,
		SportType:    "GOLF",
		SubCategory:  "driver",
		VideoURL:     "https://example.com/swing.mp4",
		Status:       db.StatusCompleted,
		OverallScore: &score,
		Result: &analysis.Result{
			TotalFrames:     192,
			DurationSeconds: 8.0,
			Angles: map[string]float64{
				analysis.AngleSpine: 117.1,
			},
			OverallScore:  96.2,
			Improvements:  []analysis.Deviation{},
			Feedback:      "Keep your spine angle steady through the downswing.",
			PromptVersion: "v1",
		},
		DurationMS: 1200,
	}

	if err := queries.CreateAnalysis(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

/* CreateTestFailure stores a failed analysis for tests */
func CreateTestFailure(ctx context.Context, queries *db.Queries, motionID, errorCode, message string) (*db.Analysis, error) {
	record := &db.Analysis{
		MotionID:     motionID,
		SportType:    "GOLF",
		Status:       db.StatusFailed,
		ErrorCode:    &errorCode,
		ErrorMessage: &message,
	}

	if err := queries.CreateAnalysis(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
