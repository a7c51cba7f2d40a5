package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"antiquites/internal/repos"
)

type rows struct {
	ann *repos.AnnouncementRepo

	legacy, untrimmed, canonical int64
}

func seedRows(t *testing.T) rows {
	t.Helper()
	ctx := context.Background()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	owner, err := repos.NewUserRepo(db).Create(ctx, "owner@example.com", "h", "Owner")
	require.NoError(t, err)
	r := rows{ann: repos.NewAnnouncementRepo(db)}
	create := func(images string) int64 {
		id, err := r.ann.Create(ctx, owner, "Buffet", "Buffet deux corps en chêne", "", &images, time.Now())
		require.NoError(t, err)
		return id
	}
	r.legacy = create("photo.jpg")
	r.untrimmed = create(` ["a.jpg"," b.jpg"]`)
	r.canonical = create(`["c.jpg"]`)
	return r
}

func stored(t *testing.T, ann *repos.AnnouncementRepo) map[int64]string {
	t.Helper()
	list, err := ann.ListRawImages(context.Background())
	require.NoError(t, err)
	out := map[int64]string{}
	for _, r := range list {
		out[r.ID] = r.ImagePath
	}
	return out
}

func TestRun_DryRunLeavesValuesUntouched(t *testing.T) {
	r := seedRows(t)
	before := stored(t, r.ann)

	core, logs := observer.New(zapcore.InfoLevel)
	res, err := run(context.Background(), r.ann, false, zap.New(core))
	require.NoError(t, err)

	assert.Equal(t, result{scanned: 3, changed: 2, fixed: 0}, res)
	assert.Equal(t, before, stored(t, r.ann))
	assert.Len(t, logs.FilterMessage("announcement images").All(), 3)
}

func TestRun_WriteRewritesNonCanonicalValues(t *testing.T) {
	r := seedRows(t)

	res, err := run(context.Background(), r.ann, true, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, result{scanned: 3, changed: 2, fixed: 2}, res)

	got := stored(t, r.ann)
	assert.Equal(t, `["photo.jpg"]`, got[r.legacy])
	assert.Equal(t, `["a.jpg","b.jpg"]`, got[r.untrimmed])
	assert.Equal(t, `["c.jpg"]`, got[r.canonical])

	// a second pass finds nothing left to do
	res, err = run(context.Background(), r.ann, true, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, result{scanned: 3}, res)
}
