package seeddata

import (
	"fmt"
	"log"
)

// Bounds on composite scores produced by the service.
const (
	minComposite = 1.0
	maxComposite = 5.0
)

// verifyRankings checks ordering and score invariants for a kind's ranking.
func verifyRankings(kind string, rankings []RankingEntry, verbose bool) error {
	log.Printf("verifying rankings for kind %s", kind)

	if len(rankings) == 0 {
		return fmt.Errorf("no rankings to verify for kind %s", kind)
	}

	for i, entry := range rankings {
		if entry.Rank != i+1 {
			return fmt.Errorf("rank not contiguous at position %d: got %d", i, entry.Rank)
		}
		if entry.Composite < minComposite || entry.Composite > maxComposite {
			return fmt.Errorf("composite out of range for %s: %.3f", entry.EntityID, entry.Composite)
		}
		if entry.Tier == "" {
			return fmt.Errorf("missing tier for %s", entry.EntityID)
		}
		if i > 0 && entry.Composite > rankings[i-1].Composite {
			return fmt.Errorf("rankings not sorted: entry %d has higher composite than entry %d", i, i-1)
		}
	}

	displayTopEntries(kind, rankings, verbose)

	log.Printf("ranking verification completed for kind %s", kind)
	return nil
}

// displayTopEntries shows the top ranked entities for a kind.
func displayTopEntries(kind string, rankings []RankingEntry, verbose bool) {
	topN := 10
	if len(rankings) < topN {
		topN = len(rankings)
	}

	log.Printf("top %d entities for kind %s:", topN, kind)
	for i := 0; i < topN; i++ {
		entry := rankings[i]
		log.Printf("   %d. %s - composite: %.3f tier: %s quadrant: %s evidence: %s",
			entry.Rank, entry.EntityID, entry.Composite, entry.Tier, entry.Quadrant, entry.Evidence)
	}

	if verbose && len(rankings) > 0 {
		avg := calculateAverageComposite(rankings)
		log.Printf("composite stats for %s: avg=%.3f max=%.3f min=%.3f",
			kind, avg, rankings[0].Composite, rankings[len(rankings)-1].Composite)
	}
}

// calculateAverageComposite calculates the average composite score.
func calculateAverageComposite(rankings []RankingEntry) float64 {
	if len(rankings) == 0 {
		return 0
	}

	sum := 0.0
	for _, entry := range rankings {
		sum += entry.Composite
	}

	return sum / float64(len(rankings))
}
