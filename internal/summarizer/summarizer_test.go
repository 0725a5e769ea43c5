package summarizer

import (
	"math"
	"testing"

	"symtrace/domain/indicator"
)

func approx(t *testing.T, got, want float64, label string) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", label, got, want)
	}
}

func TestSummarize(t *testing.T) {
	summary := Summarize([]int{2, 4, 6, 8}, 5)
	if summary == nil {
		t.Fatal("expected a summary")
	}

	approx(t, summary.LMS, 5, "lms")
	approx(t, summary.StdDev, math.Sqrt(5), "std dev")
	approx(t, summary.CV, math.Sqrt(5)/5, "cv")
	approx(t, summary.Median, 5, "median")
	approx(t, summary.ShortProportion, 0.5, "short proportion")
}

func TestSummarize_PopulationStdDev(t *testing.T) {
	summary := Summarize([]int{2, 4}, 0)
	if summary == nil {
		t.Fatal("expected a summary")
	}
	// ddof=0: sqrt(((2-3)^2 + (4-3)^2) / 2) = 1
	approx(t, summary.StdDev, 1, "std dev")
}

func TestSummarize_ZeroMeanCV(t *testing.T) {
	summary := Summarize([]int{0, 0, 0}, 10)
	if summary == nil {
		t.Fatal("expected a summary")
	}
	approx(t, summary.CV, 0, "cv")
}

func TestSummarize_ThresholdDisabled(t *testing.T) {
	summary := Summarize([]int{1, 2, 3}, 0)
	if summary == nil {
		t.Fatal("expected a summary")
	}
	approx(t, summary.ShortProportion, 0, "short proportion")
}

func TestSummarize_Empty(t *testing.T) {
	if Summarize(nil, 10) != nil {
		t.Error("expected nil for an empty length list")
	}
}

func TestAggregateByModality(t *testing.T) {
	responses := []indicator.ResponseIndicators{
		{Modality: "gpt", Summary: indicator.Summary{LMS: 10, Median: 9, StdDev: 2, CV: 0.2, ShortProportion: 0.1}},
		{Modality: "gpt", Summary: indicator.Summary{LMS: 14, Median: 13, StdDev: 4, CV: 0.3, ShortProportion: 0.3}},
		{Modality: "claude", Summary: indicator.Summary{LMS: 8, Median: 7, StdDev: 1, CV: 0.1, ShortProportion: 0.5}},
	}

	stats := AggregateByModality(responses)
	if len(stats) != 2 {
		t.Fatalf("expected 2 modalities, got %d", len(stats))
	}

	// Sorted ascending by modality.
	if stats[0].Modality != "claude" || stats[1].Modality != "gpt" {
		t.Fatalf("wrong ordering: %s, %s", stats[0].Modality, stats[1].Modality)
	}

	gpt := stats[1]
	approx(t, gpt.MeanLMS, 12, "mean lms")
	approx(t, gpt.MedianOfMedians, 11, "median of medians")
	approx(t, gpt.MeanStdDev, 3, "mean std dev")
	approx(t, gpt.MeanCV, 0.25, "mean cv")
	approx(t, gpt.MeanShortProportion, 0.2, "mean short proportion")
	if gpt.Responses != 2 {
		t.Errorf("responses = %d, want 2", gpt.Responses)
	}
}

func TestAggregateByModality_Empty(t *testing.T) {
	if stats := AggregateByModality(nil); len(stats) != 0 {
		t.Errorf("expected no stats, got %v", stats)
	}
}
