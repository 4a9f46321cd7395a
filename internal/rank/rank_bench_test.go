package rank

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/JT5D/xrai/internal/asset"
)

var benchWords = []string{
	"helmet", "shuttle", "teapot", "spaceship", "terrain",
	"robot", "castle", "engine", "drone", "asteroid",
}

func benchRecords(n int) []asset.Record {
	rng := rand.New(rand.NewSource(42))
	records := make([]asset.Record, n)
	for i := range records {
		records[i] = asset.Record{
			ID:          "r_" + strconv.Itoa(i),
			Name:        benchWords[rng.Intn(len(benchWords))] + " " + benchWords[rng.Intn(len(benchWords))],
			Description: benchWords[rng.Intn(len(benchWords))] + " scene asset",
			Type:        "model",
			Weight:      1,
		}
	}
	return records
}

func BenchmarkRank(b *testing.B) {
	records := benchRecords(2000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if got := Rank(records, "helmet engine"); len(got) != MaxResults {
			b.Fatalf("unexpected result count %d", len(got))
		}
	}
}

func BenchmarkRelevance(b *testing.B) {
	r := asset.Record{
		Name:        "damaged space helmet",
		Description: "weathered sci-fi prop scanned for realtime use",
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Relevance(r, "space helmet")
	}
}
