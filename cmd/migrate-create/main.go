package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"pixel-gallery/internal/config"
)

var migrationName = regexp.MustCompile(`^[a-z0-9_]+$`)

func main() {
	name := flag.String("name", "", "migration name, lowercase with underscores")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if !migrationName.MatchString(*name) {
		log.Fatal("migration name is required and may only contain a-z, 0-9 and _")
	}

	version := time.Now().UTC().Format("20060102150405")
	base := fmt.Sprintf("%s_%s", version, *name)
	upPath := filepath.Join(cfg.MigrationsPath, base+".up.sql")
	downPath := filepath.Join(cfg.MigrationsPath, base+".down.sql")

	if err := os.MkdirAll(cfg.MigrationsPath, 0o755); err != nil {
		log.Fatalf("create migrations dir: %v", err)
	}
	if err := writeFile(upPath, "-- "+*name+" up\n"); err != nil {
		log.Fatalf("create up migration: %v", err)
	}
	if err := writeFile(downPath, "-- "+*name+" down\n"); err != nil {
		log.Fatalf("create down migration: %v", err)
	}
	log.Printf("migration created up=%s down=%s", upPath, downPath)
}

func writeFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	_, err = f.WriteString(content)
	return err
}
