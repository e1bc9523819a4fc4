package main

import (
	"log"

	"stlc-manager-be/internal/config"
	"stlc-manager-be/internal/model"
	"stlc-manager-be/pkg/database"
)

func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.IsProduction())
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}
	defer database.Close(db)

	models := []interface{}{
		&model.ManagedFile{},
		&model.FileProcessMapping{},
		&model.ProcessOutput{},
	}

	log.Printf("Running AutoMigrate for %d tables...", len(models))
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// History is always read per workspace and process, newest first.
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_process_outputs_history ON process_outputs (workspace_id, process_id, created_at DESC)`).Error; err != nil {
		log.Printf("Warn: Failed to create history index: %v", err)
	}

	log.Println("Migration completed")
}
