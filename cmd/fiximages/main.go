// Command fiximages reports the photo list stored on every announcement and, with
// -write, rewrites legacy or untrimmed values into the canonical JSON array.
package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"antiquites/internal/config"
	"antiquites/internal/imageset"
	applog "antiquites/internal/log"
	"antiquites/internal/repos"
)

func main() {
	write := flag.Bool("write", false, "rewrite values that are not in canonical form")
	flag.Parse()

	cfg := config.Load()
	logger, err := applog.New(cfg.LogLevel, "")
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer db.Close()

	ann := repos.NewAnnouncementRepo(db)
	res, err := run(context.Background(), ann, *write, logger)
	if err != nil {
		logger.Fatal("list image paths", zap.Error(err))
	}
	logger.Info("done", zap.Int("scanned", res.scanned), zap.Int("non_canonical", res.changed), zap.Int("rewritten", res.fixed), zap.Bool("write", *write))
}

type result struct {
	scanned, changed, fixed int
}

// run inspects every stored photo list and, when write is set, rewrites the
// ones not already in canonical form. A failed rewrite is logged and skipped.
func run(ctx context.Context, ann *repos.AnnouncementRepo, write bool, logger *zap.Logger) (result, error) {
	rows, err := ann.ListRawImages(ctx)
	if err != nil {
		return result{}, err
	}

	res := result{scanned: len(rows)}
	for _, r := range rows {
		raw := imageset.Parse(r.ImagePath)
		enc, dirty := imageset.Normalize(r.ImagePath)
		logger.Info("announcement images",
			zap.Int64("id", r.ID),
			zap.String("status", r.Status),
			zap.String("raw", r.ImagePath),
			zap.Bool("legacy", raw.Kind == imageset.LegacyScalar),
			zap.Strings("images", raw.Names()),
		)
		if !dirty {
			continue
		}
		res.changed++
		if !write {
			continue
		}
		if err := ann.SetImagePath(ctx, r.ID, enc); err != nil {
			logger.Error("rewrite failed", zap.Int64("id", r.ID), zap.Error(err))
			continue
		}
		res.fixed++
	}
	return res, nil
}
