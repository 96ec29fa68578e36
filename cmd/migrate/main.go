package main

import (
	"log"
	"os"

	"disclosure-engine-be/internal/model"
	"disclosure-engine-be/pkg/database"

	"github.com/joho/godotenv"
	gormLogger "gorm.io/gorm/logger"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect
	db, err := database.NewGormDBFromDSN(dsn, gormLogger.Warn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM migration...")

	// 3. gen_random_uuid() defaults need pgcrypto on older Postgres
	log.Println("Step 1: Setting up extensions...")
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Printf("Warn: Failed to create pgcrypto extension: %v. Continuing...", err)
	}

	// 4. AutoMigrate
	models := []interface{}{
		&model.Product{},
		&model.TranscriptEntry{},
		&model.DisclosureReport{},
		&model.Notification{},
	}
	log.Printf("Step 2: Running AutoMigrate for %d tables...", len(models))

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration
	log.Println("Step 3: Creating triggers...")

	postMigrationSQL := []string{
		`CREATE OR REPLACE FUNCTION set_current_timestamp_updated_at() RETURNS trigger LANGUAGE plpgsql AS $$
		DECLARE _new_value TIMESTAMP WITH TIME ZONE;
		BEGIN
		  _new_value := now();
		  IF NEW.updated_at IS DISTINCT FROM _new_value THEN NEW.updated_at = _new_value; END IF;
		  RETURN NEW;
		END; $$;`,
		`DROP TRIGGER IF EXISTS set_products_updated_at ON products;`,
		`CREATE TRIGGER set_products_updated_at BEFORE UPDATE ON products
		 FOR EACH ROW EXECUTE FUNCTION set_current_timestamp_updated_at();`,
		`DROP TRIGGER IF EXISTS set_disclosure_reports_updated_at ON disclosure_reports;`,
		`CREATE TRIGGER set_disclosure_reports_updated_at BEFORE UPDATE ON disclosure_reports
		 FOR EACH ROW EXECUTE FUNCTION set_current_timestamp_updated_at();`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
