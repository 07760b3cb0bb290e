package vocab

import "testing"

func TestClassifyFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		flag   string
		bucket FlagBucket
		ok     bool
	}{
		{flag: "N", bucket: BucketNew, ok: true},
		{flag: "n", bucket: BucketNew, ok: true},
		{flag: " N ", bucket: BucketNew, ok: true},
		{flag: "y", bucket: BucketKnown, ok: true},
		{flag: "Y", bucket: BucketKnown, ok: true},
		{flag: "?", bucket: BucketForgotten, ok: true},
		{flag: "OK", bucket: BucketLearned, ok: true},
		{flag: "ok", bucket: BucketLearned, ok: true},
		{flag: "maybe"},
		{flag: ""},
		{flag: "o k"},
	}

	for _, tt := range tests {
		bucket, ok := ClassifyFlag(tt.flag)
		if ok != tt.ok || bucket != tt.bucket {
			t.Errorf("ClassifyFlag(%q) = (%q, %t), want (%q, %t)", tt.flag, bucket, ok, tt.bucket, tt.ok)
		}
	}
}

func TestSummarizeWords_UncountedFlagsStillCountTowardsTotal(t *testing.T) {
	t.Parallel()

	stats := SummarizeWords([]WordRecord{
		{Word: "a", Flag: "N"},
		{Word: "b", Flag: "n"},
		{Word: "c", Flag: " N "},
		{Word: "d", Flag: "maybe"},
		{Word: "e", Flag: ""},
		{Word: "f", Flag: "?"},
		{Word: "g", Flag: "ok"},
		{Word: "h", Flag: "y"},
	})

	if stats.TotalWords != 8 {
		t.Fatalf("total = %d, want 8", stats.TotalWords)
	}
	want := FlagCounts{New: 3, Known: 1, Forgotten: 1, Learned: 1}
	if stats.ByFlag != want {
		t.Fatalf("byFlag = %+v, want %+v", stats.ByFlag, want)
	}
}

func TestSummarizeTopics(t *testing.T) {
	t.Parallel()

	topics := []Topic{
		{Name: "T1", Words: []WordRecord{{Word: "a", Flag: "n"}, {Word: "b", Flag: "y"}}},
		{Name: "T2", Words: []WordRecord{}},
		{Name: "T3", Words: []WordRecord{{Word: "c", Flag: "ok"}}},
	}

	stats := SummarizeTopics(topics)
	if stats.TotalTopics != 3 {
		t.Errorf("totalTopics = %d, want 3", stats.TotalTopics)
	}
	if stats.TotalWords != 3 {
		t.Errorf("totalWords = %d, want 3", stats.TotalWords)
	}
	want := FlagCounts{New: 1, Known: 1, Learned: 1}
	if stats.ByFlag != want {
		t.Errorf("byFlag = %+v, want %+v", stats.ByFlag, want)
	}
}

func TestSummarizeTopics_IsRepeatable(t *testing.T) {
	t.Parallel()

	topics := ParseTopics(rows(
		[]any{1, "T1", "n", "apple"},
		[]any{2, "", "?", "pear"},
		[]any{3, "T2", "ok", "plum"},
	))

	first := SummarizeTopics(topics)
	second := SummarizeTopics(topics)
	if first != second {
		t.Fatalf("statistics differ between runs: %+v vs %+v", first, second)
	}

	reversed := []Topic{topics[1], topics[0]}
	if got := SummarizeTopics(reversed); got != first {
		t.Fatalf("statistics depend on topic order: %+v vs %+v", got, first)
	}
}
