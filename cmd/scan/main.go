// Command scan diffs the on-disk video library against the catalog and
// optionally registers uncataloged files as untriaged scenes.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmercier/scenedex/internal/config"
	"github.com/jmercier/scenedex/internal/database"
	"github.com/jmercier/scenedex/internal/models"
	"github.com/jmercier/scenedex/internal/scan"
)

func main() {
	register := flag.Bool("register", false, "Register uncataloged files as untriaged scenes")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.NewDB(database.Config{
		Type:       cfg.Database.Type,
		Host:       cfg.Database.Host,
		Port:       cfg.Database.Port,
		User:       cfg.Database.User,
		Password:   cfg.Database.Password,
		Name:       cfg.Database.Name,
		SQLitePath: cfg.Database.SQLitePath,
	})
	if err != nil {
		slog.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	scenes := database.NewSceneRepository(db)
	cataloged, err := scenes.ListPaths()
	if err != nil {
		slog.Error("failed to list scene paths", "error", err)
		os.Exit(1)
	}

	scanner := scan.NewScanner(cfg.LibraryRoot)
	report, err := scanner.Diff(cataloged)
	if err != nil {
		slog.Error("library scan failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Library: %s\n", cfg.LibraryRoot)
	fmt.Printf("Video files on disk: %d\n", report.Total)
	fmt.Printf("Cataloged scenes:    %d\n", len(cataloged))

	if len(report.Missing) > 0 {
		fmt.Printf("\nCataloged but missing on disk (%d):\n", len(report.Missing))
		for _, p := range report.Missing {
			fmt.Println("  " + p)
		}
	}

	if len(report.Uncataloged) > 0 {
		fmt.Printf("\nOn disk but not cataloged (%d):\n", len(report.Uncataloged))
		for _, p := range report.Uncataloged {
			fmt.Println("  " + p)
		}
	}

	if !*register || len(report.Uncataloged) == 0 {
		return
	}

	fmt.Printf("\nRegistering %d untriaged scenes...\n", len(report.Uncataloged))
	for _, p := range report.Uncataloged {
		scene := models.NewScene(p, titleFromPath(p))
		if err := scenes.Insert(scene); err != nil {
			slog.Error("failed to register scene", "path", p, "error", err)
			os.Exit(1)
		}
	}
	fmt.Println("Done.")
}

// titleFromPath turns "site/some_scene_name.mp4" into "some scene name".
func titleFromPath(p string) string {
	base := filepath.Base(p)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.NewReplacer("_", " ", ".", " ").Replace(base)
}
