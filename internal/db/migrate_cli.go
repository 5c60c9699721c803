package db

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
)

// Swapped out by tests.
var (
	migrateOut io.Writer = os.Stdout
	migrateIn  io.Reader = os.Stdin
)

// RunMigrateCommand handles the 'migrate' subcommand dispatching
func RunMigrateCommand(args []string, dbPath string) error {
	if len(args) < 1 {
		PrintMigrateHelp(migrateOut)
		return fmt.Errorf("missing migrate action")
	}

	action := args[0]
	if action == "help" {
		PrintMigrateHelp(migrateOut)
		return nil
	}

	// migrations manage the schema, so open without running them
	database, err := OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	migrationsFS := MigrationsFS()

	switch action {
	case "up":
		return handleMigrateUp(database, migrationsFS)
	case "down":
		return handleMigrateDown(database, migrationsFS)
	case "status":
		return handleMigrateStatus(database, migrationsFS)
	case "version":
		if len(args) < 2 {
			return fmt.Errorf("usage: pasture migrate version <version_number>")
		}
		return handleMigrateVersion(database, migrationsFS, args[1])
	case "force":
		if len(args) < 2 {
			return fmt.Errorf("usage: pasture migrate force <version_number>")
		}
		return handleMigrateForce(database, migrationsFS, args[1])
	default:
		fmt.Fprintf(migrateOut, "Unknown migrate action: %s\n\n", action)
		PrintMigrateHelp(migrateOut)
		return fmt.Errorf("unknown migrate action %q", action)
	}
}

func handleMigrateUp(database *DB, migrationsFS fs.FS) error {
	log.Printf("Running migrations...")
	if err := database.MigrateUp(migrationsFS); err != nil {
		return err
	}
	log.Println("✓ All migrations applied successfully")
	return printVersion(database, migrationsFS)
}

func handleMigrateDown(database *DB, migrationsFS fs.FS) error {
	log.Printf("Rolling back one migration...")
	if err := database.MigrateDown(migrationsFS); err != nil {
		return err
	}
	log.Println("✓ Migration rolled back successfully")
	return printVersion(database, migrationsFS)
}

func printVersion(database *DB, migrationsFS fs.FS) error {
	version, dirty, err := database.MigrateVersion(migrationsFS)
	if err != nil {
		return err
	}
	fmt.Fprintf(migrateOut, "Current version: %d (dirty: %v)\n", version, dirty)
	return nil
}

func handleMigrateStatus(database *DB, migrationsFS fs.FS) error {
	status, err := database.GetMigrationStatus(migrationsFS)
	if err != nil {
		return err
	}

	fmt.Fprintln(migrateOut, "=== Migration Status ===")
	fmt.Fprintf(migrateOut, "Current version: %d\n", status.CurrentVersion)
	fmt.Fprintf(migrateOut, "Latest available: %d\n", status.LatestVersion)
	fmt.Fprintf(migrateOut, "Dirty: %v\n", status.Dirty)
	fmt.Fprintf(migrateOut, "Schema migrations table exists: %v\n", status.SchemaMigrationsExists)

	switch {
	case status.Dirty:
		fmt.Fprintln(migrateOut, "\n⚠️  WARNING: Database is in a dirty state!")
		fmt.Fprintln(migrateOut, "Inspect the database, then run: pasture migrate force <version>")
	case status.CurrentVersion < status.LatestVersion:
		fmt.Fprintf(migrateOut, "\n%d migration(s) pending. Run 'pasture migrate up' to apply.\n",
			status.LatestVersion-status.CurrentVersion)
	default:
		fmt.Fprintln(migrateOut, "\n✓ Database is up to date!")
	}
	return nil
}

func handleMigrateVersion(database *DB, migrationsFS fs.FS, versionStr string) error {
	target, err := strconv.ParseUint(versionStr, 10, 32)
	if err != nil {
		return fmt.Errorf("invalid version number: %s", versionStr)
	}

	log.Printf("Migrating to version %d...", target)
	if err := database.MigrateTo(migrationsFS, uint(target)); err != nil {
		return err
	}
	log.Printf("✓ Migrated to version %d successfully", target)
	return nil
}

// handleMigrateForce forces the migration version (recovery only)
func handleMigrateForce(database *DB, migrationsFS fs.FS, versionStr string) error {
	forceVersion, err := strconv.Atoi(versionStr)
	if err != nil {
		return fmt.Errorf("invalid version number: %s", versionStr)
	}

	fmt.Fprintf(migrateOut, "⚠️  WARNING: Forcing migration version to %d\n", forceVersion)
	fmt.Fprintln(migrateOut, "This should only be used to recover from a dirty migration state.")
	fmt.Fprint(migrateOut, "Continue? [y/N]: ")

	response, _ := bufio.NewReader(migrateIn).ReadString('\n')
	if r := strings.TrimSpace(response); r != "y" && r != "Y" {
		log.Println("Aborted")
		return nil
	}

	if err := database.MigrateForce(migrationsFS, forceVersion); err != nil {
		return err
	}
	log.Printf("✓ Migration version forced to %d", forceVersion)
	return nil
}

// PrintMigrateHelp displays the help message for the migrate command
func PrintMigrateHelp(w io.Writer) {
	fmt.Fprintln(w, "Database Migration Commands")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: pasture [-db path] migrate <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  up              Apply all pending migrations")
	fmt.Fprintln(w, "  down            Rollback one migration")
	fmt.Fprintln(w, "  status          Show current migration status and version")
	fmt.Fprintln(w, "  version <N>     Migrate to specific version N")
	fmt.Fprintln(w, "  force <N>       Force migration version to N (recovery only)")
	fmt.Fprintln(w, "  help            Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  pasture migrate up")
	fmt.Fprintln(w, "  pasture -db scenarios.db migrate status")
	fmt.Fprintln(w, "  pasture migrate version 1")
}
