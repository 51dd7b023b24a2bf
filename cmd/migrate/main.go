package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	database "cloud.google.com/go/spanner/admin/database/apiv1"
	"cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	instance "cloud.google.com/go/spanner/admin/instance/apiv1"
	"cloud.google.com/go/spanner/admin/instance/apiv1/instancepb"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/light-bringer/rawsy-service/internal/pkg/config"
	"github.com/light-bringer/rawsy-service/internal/pkg/logger"
)

// target names the Spanner database the migrations run against.
type target struct {
	Project  string
	Instance string
	Database string
}

func (t target) instancePath() string {
	return fmt.Sprintf("projects/%s/instances/%s", t.Project, t.Instance)
}

func (t target) databasePath() string {
	return fmt.Sprintf("%s/databases/%s", t.instancePath(), t.Database)
}

// parseDatabasePath splits projects/P/instances/I/databases/D.
func parseDatabasePath(path string) (target, error) {
	parts := strings.Split(path, "/")
	if len(parts) != 6 || parts[0] != "projects" || parts[2] != "instances" || parts[4] != "databases" {
		return target{}, fmt.Errorf("invalid spanner database path %q", path)
	}
	for _, p := range []string{parts[1], parts[3], parts[5]} {
		if p == "" {
			return target{}, fmt.Errorf("invalid spanner database path %q", path)
		}
	}
	return target{Project: parts[1], Instance: parts[3], Database: parts[5]}, nil
}

func main() {
	migrateDir := flag.String("migrations", "migrations", "Directory containing migration SQL files")
	dbFlag := flag.String("database", "", "Spanner database path (defaults to storage.spanner_database)")
	dryRun := flag.Bool("dry-run", false, "Print the DDL statements without applying them")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	zl, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	path := cfg.Storage.SpannerDatabase
	if *dbFlag != "" {
		path = *dbFlag
	}
	t, err := parseDatabasePath(path)
	if err != nil {
		zl.Fatal("invalid database", zap.Error(err))
	}

	if host := os.Getenv("SPANNER_EMULATOR_HOST"); host != "" {
		zl.Info("using Spanner emulator", zap.String("host", host))
	}

	m := &migrator{target: t, dir: *migrateDir, log: zl}
	if *dryRun {
		err = m.printPlan()
	} else {
		err = m.run(context.Background())
	}
	if err != nil {
		zl.Fatal("migration failed", zap.Error(err))
	}
	zl.Info("migrations completed", zap.String("database", t.databasePath()))
}

type migrator struct {
	target target
	dir    string
	log    *zap.Logger
}

func (m *migrator) run(ctx context.Context) error {
	if err := m.ensureInstance(ctx); err != nil {
		return fmt.Errorf("failed to ensure instance: %w", err)
	}
	if err := m.ensureDatabase(ctx); err != nil {
		return fmt.Errorf("failed to ensure database: %w", err)
	}
	if err := m.applyMigrations(ctx); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// ensureInstance creates the instance on the emulator config when missing.
func (m *migrator) ensureInstance(ctx context.Context) error {
	admin, err := instance.NewInstanceAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create instance admin client: %w", err)
	}
	defer admin.Close()

	_, err = admin.GetInstance(ctx, &instancepb.GetInstanceRequest{Name: m.target.instancePath()})
	if err == nil {
		return nil
	}
	if status.Code(err) != codes.NotFound {
		m.log.Warn("unexpected error checking instance", zap.Error(err))
		return nil
	}

	m.log.Info("creating instance", zap.String("instance", m.target.Instance))
	op, err := admin.CreateInstance(ctx, &instancepb.CreateInstanceRequest{
		Parent:     "projects/" + m.target.Project,
		InstanceId: m.target.Instance,
		Instance: &instancepb.Instance{
			Config:      fmt.Sprintf("projects/%s/instanceConfigs/emulator-config", m.target.Project),
			DisplayName: "Development Instance",
			NodeCount:   1,
		},
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil
		}
		return fmt.Errorf("failed to create instance: %w", err)
	}
	if _, err := op.Wait(ctx); err != nil && status.Code(err) != codes.AlreadyExists {
		m.log.Warn("instance creation did not settle cleanly", zap.Error(err))
	}
	return nil
}

func (m *migrator) ensureDatabase(ctx context.Context) error {
	admin, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer admin.Close()

	_, err = admin.GetDatabase(ctx, &databasepb.GetDatabaseRequest{Name: m.target.databasePath()})
	if err == nil {
		return nil
	}
	if status.Code(err) != codes.NotFound {
		if os.Getenv("SPANNER_EMULATOR_HOST") != "" {
			m.log.Warn("proceeding with database in emulator mode", zap.Error(err))
			return nil
		}
		return fmt.Errorf("failed to check database: %w", err)
	}

	m.log.Info("creating database", zap.String("database", m.target.Database))
	op, err := admin.CreateDatabase(ctx, &databasepb.CreateDatabaseRequest{
		Parent:          m.target.instancePath(),
		CreateStatement: fmt.Sprintf("CREATE DATABASE `%s`", m.target.Database),
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil
		}
		return fmt.Errorf("failed to create database: %w", err)
	}
	if _, err := op.Wait(ctx); err != nil {
		return fmt.Errorf("failed to wait for database creation: %w", err)
	}
	return nil
}

// migrationFiles returns the *.sql files in apply order.
func (m *migrator) migrationFiles() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(m.dir, "*.sql"))
	if err != nil {
		return nil, fmt.Errorf("failed to list migration files: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

func (m *migrator) printPlan() error {
	files, err := m.migrationFiles()
	if err != nil {
		return err
	}
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}
		fmt.Printf("-- %s\n", filepath.Base(file))
		for _, stmt := range splitDDLStatements(string(content)) {
			fmt.Printf("%s;\n\n", stmt)
		}
	}
	return nil
}

func (m *migrator) applyMigrations(ctx context.Context) error {
	admin, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer admin.Close()

	files, err := m.migrationFiles()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		m.log.Warn("no migration files found", zap.String("dir", m.dir))
		return nil
	}

	for _, file := range files {
		name := filepath.Base(file)
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		op, err := admin.UpdateDatabaseDdl(ctx, &databasepb.UpdateDatabaseDdlRequest{
			Database:   m.target.databasePath(),
			Statements: splitDDLStatements(string(content)),
		})
		if err != nil {
			return fmt.Errorf("failed to start DDL update for %s: %w", name, err)
		}
		if err := op.Wait(ctx); err != nil {
			return fmt.Errorf("failed to apply DDL for %s: %w", name, err)
		}
		m.log.Info("applied migration", zap.String("file", name))
	}
	return nil
}

// splitDDLStatements drops comment lines and splits on semicolons.
func splitDDLStatements(content string) []string {
	var cleaned []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		cleaned = append(cleaned, line)
	}

	var result []string
	for _, stmt := range strings.Split(strings.Join(cleaned, "\n"), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			result = append(result, stmt)
		}
	}
	return result
}
