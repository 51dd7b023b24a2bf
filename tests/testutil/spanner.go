// Package testutil holds helpers for tests that run against the Spanner
// emulator. Run cmd/migrate against the same database first.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/rawsy-service/internal/models/m_notification"
	"github.com/light-bringer/rawsy-service/internal/models/m_outbox"
	"github.com/light-bringer/rawsy-service/internal/models/m_product"
	"github.com/light-bringer/rawsy-service/internal/models/m_quote"
	"github.com/light-bringer/rawsy-service/internal/models/m_user"
	"github.com/light-bringer/rawsy-service/internal/models/m_wishlist"
)

const defaultTestDB = "projects/test-project/instances/test-instance/databases/rawsy-test"

// SetupSpannerTest connects to the emulator database and empties every table.
// The test is skipped when SPANNER_EMULATOR_HOST is not set.
func SetupSpannerTest(t *testing.T) *spanner.Client {
	t.Helper()
	if os.Getenv("SPANNER_EMULATOR_HOST") == "" {
		t.Skip("SPANNER_EMULATOR_HOST not set")
	}

	client, err := spanner.NewClient(context.Background(), GetTestSpannerDB())
	require.NoError(t, err, "failed to create Spanner client")

	CleanDatabase(t, client)
	t.Cleanup(func() {
		CleanDatabase(t, client)
		client.Close()
	})
	return client
}

// GetTestSpannerDB returns SPANNER_TEST_DATABASE or the default emulator path.
func GetTestSpannerDB() string {
	if db := os.Getenv("SPANNER_TEST_DATABASE"); db != "" {
		return db
	}
	return defaultTestDB
}

// CleanDatabase truncates all tables for test isolation.
func CleanDatabase(t *testing.T, client *spanner.Client) {
	t.Helper()

	tables := []string{
		m_outbox.TableName,
		m_notification.TableName,
		m_wishlist.TableName,
		m_user.TableName,
		m_quote.TableName,
		m_product.TableName,
	}
	mutations := make([]*spanner.Mutation, 0, len(tables))
	for _, table := range tables {
		mutations = append(mutations, spanner.Delete(table, spanner.AllKeys()))
	}

	_, err := client.Apply(context.Background(), mutations)
	require.NoError(t, err, "failed to clean database")
}

// AssertRowCount asserts the number of rows in a table.
func AssertRowCount(t *testing.T, client *spanner.Client, table string, expectedCount int) {
	t.Helper()

	iter := client.Single().Query(context.Background(), spanner.Statement{
		SQL: fmt.Sprintf("SELECT COUNT(*) FROM %s", table),
	})
	defer iter.Stop()

	row, err := iter.Next()
	require.NoError(t, err, "failed to query row count")

	var count int64
	require.NoError(t, row.Columns(&count), "failed to parse count")
	require.Equal(t, int64(expectedCount), count, "unexpected row count in table %s", table)
}
