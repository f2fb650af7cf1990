package seeddata

import (
	"context"
	"crypto/rand"
	"math/big"
	"strconv"
	"time"

	"github.com/dinneroo/zonescore/pkg/logger"
	"github.com/google/uuid"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	recordIDDivisor    = 10000
	profileDivisor     = 6
	surveyDivisor      = 4
	gapDivisor         = 10
)

// Constants for metric generation ranges per performance profile.
const (
	strugglerMin    = 1.0
	strugglerRange  = 20.0
	steadyMin       = 20.0
	steadyRange     = 40.0
	strongMin       = 60.0
	strongRange     = 30.0
	starMin         = 90.0
	starRange       = 60.0
	sleeperMin      = 5.0
	sleeperRange    = 15.0
	wideMin         = 1.0
	wideRange       = 149.0
	ratingMin       = 1.0
	ratingRange     = 4.0
	kidsHappyMin    = 0.0
	kidsHappyRange  = 1.0
)

// Constants for performance profile cases.
const (
	caseStruggler = 0
	caseSteady    = 1
	caseStrong    = 2
	caseStar      = 3
	caseSleeper   = 4
	caseWide      = 5
)

var entityKinds = []string{"dish", "zone", "cuisine", "partner"}

var volumeFactors = []string{"orders", "latent_demand", "competitor_orders"}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

func randomInt(max int64) int64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(max))
	return n.Int64()
}

// generateRecords creates metric records for NumEntities entities of each kind.
// Roughly one in ten entities is left without an orders observation so that
// estimation and track dropping paths get exercised.
func generateRecords(ctx context.Context, config *Config, stats *Stats) ([]Record, error) {
	logger.Get().Info(ctx, "generating metric records",
		logger.Int("entitiesPerKind", config.NumEntities),
		logger.Int("kinds", len(entityKinds)))

	records := make([]Record, 0, config.NumEntities*len(entityKinds)*5)

	for _, kind := range entityKinds {
		for i := 0; i < config.NumEntities; i++ {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
			entityID := kind + "_" + uuid.New().String()
			records = append(records, generateEntityRecords(entityID, kind, i)...)
		}
	}

	stats.RecordsGenerated = len(records)
	logger.Get().Info(ctx, "generated records successfully", logger.Int("count", len(records)))

	return records, nil
}

// generateEntityRecords creates the full factor set for a single entity.
func generateEntityRecords(entityID, kind string, index int) []Record {
	profile := randomInt(profileDivisor)
	observedAt := time.Now().UTC().Format(time.RFC3339)

	out := make([]Record, 0, 5)

	skipOrders := randomInt(gapDivisor) == 0
	for _, factor := range volumeFactors {
		if factor == "orders" && skipOrders {
			continue
		}
		out = append(out, Record{
			RecordID:   newRecordID(index, factor),
			EntityID:   entityID,
			EntityKind: kind,
			Factor:     factor,
			Value:      generateVolumeMetric(profile),
			Source:     volumeSource(factor),
			ObservedAt: observedAt,
		})
	}

	out = append(out, Record{
		RecordID:   newRecordID(index, "rating"),
		EntityID:   entityID,
		EntityKind: kind,
		Factor:     "rating",
		Value:      ratingMin + getRandomFloat()*ratingRange,
		Source:     "behavioral",
		ObservedAt: observedAt,
	})

	// Survey coverage is sparse by nature; only a subset of entities has it.
	if randomInt(surveyDivisor) != 0 {
		out = append(out, Record{
			RecordID:   newRecordID(index, "kids_happy"),
			EntityID:   entityID,
			EntityKind: kind,
			Factor:     "kids_happy",
			Value:      kidsHappyMin + getRandomFloat()*kidsHappyRange,
			Source:     "survey",
			ObservedAt: observedAt,
		})
	}

	return out
}

// generateVolumeMetric creates a metric with varied distribution per profile.
func generateVolumeMetric(profile int64) float64 {
	switch profile {
	case caseStruggler:
		return strugglerMin + getRandomFloat()*strugglerRange
	case caseSteady:
		return steadyMin + getRandomFloat()*steadyRange
	case caseStrong:
		return strongMin + getRandomFloat()*strongRange
	case caseStar:
		return starMin + getRandomFloat()*starRange
	case caseSleeper:
		return sleeperMin + getRandomFloat()*sleeperRange
	case caseWide:
		return wideMin + getRandomFloat()*wideRange
	default:
		return wideMin + getRandomFloat()*wideRange
	}
}

func volumeSource(factor string) string {
	if factor == "orders" {
		return "behavioral"
	}
	return "supply"
}

func newRecordID(index int, factor string) string {
	randNum, _ := rand.Int(rand.Reader, big.NewInt(recordIDDivisor))
	return "rec_" + factor + "_" + strconv.Itoa(index) + "_" +
		strconv.FormatInt(time.Now().UnixNano(), 10) + "_" + strconv.FormatInt(randNum.Int64(), 10)
}
