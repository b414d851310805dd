package cochange

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/panbanda/cochange/pkg/models"
)

func commit(id string, files ...string) models.CommitRecord {
	return models.CommitRecord{
		ID:        id,
		Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Files:     files,
	}
}

func TestAggregate_PairCountAndWeight(t *testing.T) {
	// n files produce n*(n-1)/2 pairs, each of weight 1/(n-1),
	// summing to n/2 per commit.
	for _, n := range []int{2, 3, 5, 10} {
		files := make([]string, n)
		for i := range files {
			files[i] = fmt.Sprintf("file%03d.go", i)
		}

		res, err := New(WithWorkers(1)).Aggregate(context.Background(), []models.CommitRecord{commit("c1", files...)})
		if err != nil {
			t.Fatalf("Aggregate() error = %v", err)
		}

		wantPairs := n * (n - 1) / 2
		if len(res.Pairs) != wantPairs {
			t.Errorf("n=%d: got %d pairs, want %d", n, len(res.Pairs), wantPairs)
		}

		wantWeight := 1 / float64(n-1)
		var total float64
		for pair, stat := range res.Pairs {
			if math.Abs(stat.Weight-wantWeight) > 1e-12 {
				t.Errorf("n=%d: pair %v weight = %v, want %v", n, pair, stat.Weight, wantWeight)
			}
			if stat.Count != 1 {
				t.Errorf("n=%d: pair %v count = %d, want 1", n, pair, stat.Count)
			}
			total += stat.Weight
		}
		if math.Abs(total-float64(n)/2) > 1e-9 {
			t.Errorf("n=%d: total weight = %v, want %v", n, total, float64(n)/2)
		}
	}
}

func TestAggregate_CanonicalizationIsCommutative(t *testing.T) {
	commits := []models.CommitRecord{
		commit("c1", "a.go", "b.go"),
		commit("c2", "b.go", "a.go"),
	}
	res, err := New().Aggregate(context.Background(), commits)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if len(res.Pairs) != 1 {
		t.Fatalf("got %d pairs, want 1", len(res.Pairs))
	}
	stat := res.Pairs[MakePair("a.go", "b.go")]
	if stat.Count != 2 {
		t.Errorf("count = %d, want 2", stat.Count)
	}
	if math.Abs(stat.Weight-2) > 1e-12 {
		t.Errorf("weight = %v, want 2", stat.Weight)
	}
}

func TestAggregate_SingleFileCommitContributesNothing(t *testing.T) {
	res, err := New().Aggregate(context.Background(), []models.CommitRecord{commit("c1", "only.go")})
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if len(res.Pairs) != 0 {
		t.Errorf("got %d pairs, want 0", len(res.Pairs))
	}
	if res.FileCommits["only.go"] != 1 {
		t.Errorf("file still counts toward commit stats: got %d, want 1", res.FileCommits["only.go"])
	}
	if res.AnalyzedCommits != 0 {
		t.Errorf("AnalyzedCommits = %d, want 0", res.AnalyzedCommits)
	}
}

func TestAggregate_BulkCommitBiasCorrection(t *testing.T) {
	// A single 50-file commit yields pairs of weight 1/49, not 1.
	files := make([]string, 50)
	for i := range files {
		files[i] = fmt.Sprintf("gen/file%02d.go", i)
	}
	res, err := New().Aggregate(context.Background(), []models.CommitRecord{commit("bulk", files...)})
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if len(res.Pairs) != 1225 {
		t.Fatalf("got %d pairs, want 1225", len(res.Pairs))
	}
	for pair, stat := range res.Pairs {
		if math.Abs(stat.Weight-1.0/49) > 1e-12 {
			t.Fatalf("pair %v weight = %v, want 1/49", pair, stat.Weight)
		}
	}
}

func TestAggregate_DuplicateFilesCollapse(t *testing.T) {
	res, err := New().Aggregate(context.Background(), []models.CommitRecord{
		commit("c1", "a.go", "a.go", "b.go"),
	})
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if len(res.Pairs) != 1 {
		t.Fatalf("got %d pairs, want 1", len(res.Pairs))
	}
	stat := res.Pairs[MakePair("a.go", "b.go")]
	if stat.Weight != 1 || stat.Count != 1 {
		t.Errorf("stat = %+v, want weight 1 count 1", stat)
	}
	if res.FileCommits["a.go"] != 1 {
		t.Errorf("a.go commit count = %d, want 1", res.FileCommits["a.go"])
	}
}

func TestAggregate_EmptyStream(t *testing.T) {
	res, err := New().Aggregate(context.Background(), nil)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if len(res.Pairs) != 0 || len(res.FileCommits) != 0 || res.TotalCommits != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestAggregate_EmptyFileSetWarns(t *testing.T) {
	res, err := New().Aggregate(context.Background(), []models.CommitRecord{
		commit("empty"),
		commit("c1", "a.go", "b.go"),
	})
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(res.Warnings))
	}
	w := res.Warnings[0]
	if w.Code != models.WarnEmptyFileSet || w.Commit != "empty" {
		t.Errorf("warning = %+v", w)
	}
	if res.TotalCommits != 2 || res.AnalyzedCommits != 1 {
		t.Errorf("TotalCommits=%d AnalyzedCommits=%d, want 2/1", res.TotalCommits, res.AnalyzedCommits)
	}
}

func TestAggregate_ZeroTimestampWarnsButStillPairs(t *testing.T) {
	res, err := New().Aggregate(context.Background(), []models.CommitRecord{
		{ID: "undated", Files: []string{"a.go", "b.go"}},
	})
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Code != models.WarnZeroTimestamp {
		t.Fatalf("warnings = %+v", res.Warnings)
	}
	if len(res.Pairs) != 1 {
		t.Errorf("undated commit should still contribute pairs: %v", res.Pairs)
	}
}

func TestAggregate_PairCapTruncatesDeterministically(t *testing.T) {
	commits := []models.CommitRecord{
		commit("c1", "a.go", "b.go"),
		commit("c2", "c.go", "d.go"),
	}
	res, err := New(WithWorkers(1), WithMaxPairs(1)).Aggregate(context.Background(), commits)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if len(res.Pairs) != 1 {
		t.Fatalf("got %d pairs, want 1", len(res.Pairs))
	}
	if _, ok := res.Pairs[MakePair("a.go", "b.go")]; !ok {
		t.Error("expected the lexically first pair to survive truncation")
	}
	if !res.Truncated {
		t.Error("Truncated not set")
	}
	found := false
	for _, w := range res.Warnings {
		if w.Code == models.WarnPairCapHit {
			found = true
		}
	}
	if !found {
		t.Error("pair cap warning missing")
	}
}

func TestAggregate_ParallelMatchesSequential(t *testing.T) {
	var commits []models.CommitRecord
	for i := 0; i < 300; i++ {
		commits = append(commits, commit(
			fmt.Sprintf("c%03d", i),
			fmt.Sprintf("pkg/a%d.go", i%7),
			fmt.Sprintf("pkg/b%d.go", i%5),
			fmt.Sprintf("pkg/c%d.go", i%3),
		))
	}

	seq, err := New(WithWorkers(1)).Aggregate(context.Background(), commits)
	if err != nil {
		t.Fatalf("sequential error = %v", err)
	}
	par, err := New(WithWorkers(8)).Aggregate(context.Background(), commits)
	if err != nil {
		t.Fatalf("parallel error = %v", err)
	}

	if !reflect.DeepEqual(seq.Pairs, par.Pairs) {
		t.Error("parallel pair map differs from sequential")
	}
	if !reflect.DeepEqual(seq.FileCommits, par.FileCommits) {
		t.Error("parallel file commit counts differ from sequential")
	}
	if seq.AnalyzedCommits != par.AnalyzedCommits {
		t.Errorf("AnalyzedCommits: %d vs %d", seq.AnalyzedCommits, par.AnalyzedCommits)
	}
}

func TestAggregate_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var commits []models.CommitRecord
	for i := 0; i < 100; i++ {
		commits = append(commits, commit(fmt.Sprintf("c%d", i), "a.go", "b.go"))
	}
	if _, err := New().Aggregate(ctx, commits); err == nil {
		t.Error("expected error from canceled context")
	}
}

func TestMakePair_Orders(t *testing.T) {
	p := MakePair("z.go", "a.go")
	if p.A != "a.go" || p.B != "z.go" {
		t.Errorf("MakePair did not order: %+v", p)
	}
}
