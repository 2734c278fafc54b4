package loadgen

import (
	"context"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/okian/qscore/pkg/logger"
)

// Approval rate ranges per profile, as fractions of hits.
const (
	popularRateMin = 0.08
	popularRateMax = 0.15
	averageRateMin = 0.02
	averageRateMax = 0.08
	nicheRateMax   = 0.02
)

// Generation bounds.
const (
	maxHits       = 200_000
	nicheMaxHits  = 400
	maxChapters   = 60
	maxWords      = 400_000
	maxAgeDays    = 3 * 365
	commentShare  = 0.3
	bookmarkShare = 0.5
	hoursPerDay   = 24
)

// Profiles.
const (
	profilePopular = iota
	profileAverage
	profileNiche
	profileUnread
	profileCount
)

type generator struct {
	rng *rand.Rand
	now time.Time
}

func newGenerator(seed uint64, now time.Time) *generator {
	if seed == 0 {
		seed = uint64(now.UnixNano())
	}
	return &generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), now: now}
}

// generateBatches creates cfg.Batches batches of cfg.BatchSize records with unique IDs.
func generateBatches(ctx context.Context, cfg *Config, g *generator) [][]Record {
	logger.Get().Info(ctx, "generating batches",
		logger.Int("batches", cfg.Batches),
		logger.Int("batchSize", cfg.BatchSize))

	batches := make([][]Record, cfg.Batches)
	for b := range batches {
		batch := make([]Record, cfg.BatchSize)
		for i := range batch {
			batch[i] = g.record(uuid.NewString())
		}
		batches[b] = batch
	}
	return batches
}

// record draws one work from a random popularity profile.
func (g *generator) record(id string) Record {
	var hits int
	var rate float64
	switch g.rng.IntN(profileCount) {
	case profilePopular:
		hits = 1 + g.rng.IntN(maxHits)
		rate = g.between(popularRateMin, popularRateMax)
	case profileAverage:
		hits = 1 + g.rng.IntN(maxHits/10)
		rate = g.between(averageRateMin, averageRateMax)
	case profileNiche:
		hits = 1 + g.rng.IntN(nicheMaxHits)
		rate = g.between(0, nicheRateMax)
	default:
		hits = 0
	}

	kudos := int(float64(hits) * rate)
	chapters := 1 + g.rng.IntN(maxChapters)
	total := strconv.Itoa(chapters)
	if g.rng.IntN(4) == 0 {
		total = "?"
	}
	published := g.now.Add(-time.Duration(g.rng.IntN(maxAgeDays)) * hoursPerDay * time.Hour)

	return Record{
		ID:        id,
		Hits:      hits,
		Kudos:     kudos,
		Comments:  int(float64(kudos) * g.between(0, commentShare)),
		Bookmarks: int(float64(kudos) * g.between(0, bookmarkShare)),
		Words:     g.rng.IntN(maxWords),
		Chapters:  strconv.Itoa(chapters) + "/" + total,
		Published: published.Format(time.DateOnly),
	}
}

func (g *generator) between(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}
