package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/yungbote/lifewheel-backend/internal/app"
	"github.com/yungbote/lifewheel-backend/internal/data/db"
	"github.com/yungbote/lifewheel-backend/internal/data/seed"
	"github.com/yungbote/lifewheel-backend/internal/platform/logger"
)

func main() {
	var path string
	var migrate bool
	var dryRun bool
	flag.StringVar(&path, "catalog", "", "catalog YAML to apply (defaults to $"+seed.PathEnv+", then the embedded catalog)")
	flag.BoolVar(&migrate, "migrate", true, "run schema migrations before seeding")
	flag.BoolVar(&dryRun, "dry-run", false, "validate the catalog without writing")
	flag.Parse()

	_ = godotenv.Load()
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	var catalog *seed.Catalog
	if path != "" {
		catalog, err = seed.Load(path)
	} else {
		catalog, err = seed.Resolve(log)
	}
	if err != nil {
		log.Error("load catalog failed", "error", err)
		os.Exit(1)
	}
	if dryRun {
		subs, questions := 0, 0
		for _, a := range catalog.LifeAreas {
			subs += len(a.Subcategories)
			for _, s := range a.Subcategories {
				questions += len(s.Questions)
			}
		}
		fmt.Printf("catalog ok: %d life areas, %d subcategories, %d questions\n", len(catalog.LifeAreas), subs, questions)
		return
	}

	dbs, err := db.Open(log, app.LoadDBConfig(log))
	if err != nil {
		log.Error("open database failed", "error", err)
		os.Exit(1)
	}
	defer dbs.Close()

	if migrate {
		if err := dbs.AutoMigrateAll(); err != nil {
			log.Error("migrate failed", "error", err)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	summary, err := seed.Apply(ctx, dbs.DB(), log, catalog)
	if err != nil {
		log.Error("seed failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("seeded %d life areas, %d subcategories, %d questions\n", summary.LifeAreas, summary.Subcategories, summary.Questions)
}
