//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"carhive/internal/pkg/password"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// TestPassword is the plaintext behind every seeded user's password hash.
const TestPassword = "password123"

var (
	hashOnce sync.Once
	hashed   string
	hashErr  error
)

func testPasswordHash(t *testing.T) string {
	t.Helper()
	hashOnce.Do(func() {
		hashed, hashErr = password.HashPassword(TestPassword)
	})
	require.NoError(t, hashErr)
	return hashed
}

func CreateTestUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, full_name, phone, role, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, true)
		 ON CONFLICT (email) DO NOTHING`,
		userID, email, testPasswordHash(t), "Test User", "+1 555 0100", role)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		err = db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID)
		require.NoError(t, err)
	}

	return userID
}

func CreateTestCar(t *testing.T, db DBLike, registration string, rateCentsPerDay int64) uuid.UUID {
	t.Helper()

	carID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		`INSERT INTO cars (id, registration_number, brand, model, year, fuel_type, transmission,
		                   status, rate_cents_per_day, number_of_seats, air_conditioned, mileage_kmpl)
		 VALUES ($1, $2, 'Toyota', 'Corolla', 2024, 'petrol', 'automatic',
		         'available', $3, 5, true, 18)`,
		carID, registration, rateCentsPerDay)
	require.NoError(t, err)

	return carID
}

func CreateTestDriver(t *testing.T, db DBLike, licenseNumber string, feeCentsPerDay int64) uuid.UUID {
	t.Helper()

	driverID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		`INSERT INTO drivers (id, full_name, phone_number, national_id, license_number,
		                      license_expiry, status, fee_cents_per_day)
		 VALUES ($1, 'Test Driver', '+1 555 0101', 'NID-001', $2, $3, 'available', $4)`,
		driverID, licenseNumber, time.Now().AddDate(2, 0, 0), feeCentsPerDay)
	require.NoError(t, err)

	return driverID
}

func CreateTestInsurance(t *testing.T, db DBLike, name string, coveragePercent int32) uuid.UUID {
	t.Helper()

	insuranceID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		`INSERT INTO insurances (id, name, coverage_percent) VALUES ($1, $2, $3)`,
		insuranceID, name, coveragePercent)
	require.NoError(t, err)

	return insuranceID
}

func CreateTestDiscount(t *testing.T, db DBLike, code string, percentOff int32, usageLimit int) uuid.UUID {
	t.Helper()

	discountID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		`INSERT INTO discount_codes (id, code, percent_off, start_date, end_date, usage_limit)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		discountID, code, percentOff,
		time.Now().Add(-24*time.Hour), time.Now().AddDate(0, 1, 0), usageLimit)
	require.NoError(t, err)

	return discountID
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables so each subtest starts from an empty schema
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return nil
}
