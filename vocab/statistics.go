package vocab

import "strings"

// FlagBucket is the learning status a word flag maps to.
type FlagBucket string

const (
	BucketNew       FlagBucket = "new"
	BucketKnown     FlagBucket = "known"
	BucketForgotten FlagBucket = "forgotten"
	BucketLearned   FlagBucket = "learned"
)

// ClassifyFlag maps a raw flag value to its bucket. Unknown and empty flags
// report false.
func ClassifyFlag(flag string) (FlagBucket, bool) {
	switch strings.ToLower(strings.TrimSpace(flag)) {
	case "n":
		return BucketNew, true
	case "y":
		return BucketKnown, true
	case "?":
		return BucketForgotten, true
	case "ok":
		return BucketLearned, true
	default:
		return "", false
	}
}

func (c *FlagCounts) add(bucket FlagBucket) {
	switch bucket {
	case BucketNew:
		c.New++
	case BucketKnown:
		c.Known++
	case BucketForgotten:
		c.Forgotten++
	case BucketLearned:
		c.Learned++
	}
}

// SummarizeWords counts words by flag bucket. Words with an unrecognized flag
// only contribute to TotalWords.
func SummarizeWords(words []WordRecord) Statistics {
	var stats Statistics
	for _, word := range words {
		stats.TotalWords++
		if bucket, ok := ClassifyFlag(word.Flag); ok {
			stats.ByFlag.add(bucket)
		}
	}
	return stats
}

// SummarizeTopics folds every word of every topic into worksheet statistics.
func SummarizeTopics(topics []Topic) WorksheetStatistics {
	stats := WorksheetStatistics{TotalTopics: len(topics)}
	for _, topic := range topics {
		topicStats := SummarizeWords(topic.Words)
		stats.TotalWords += topicStats.TotalWords
		stats.ByFlag.New += topicStats.ByFlag.New
		stats.ByFlag.Known += topicStats.ByFlag.Known
		stats.ByFlag.Forgotten += topicStats.ByFlag.Forgotten
		stats.ByFlag.Learned += topicStats.ByFlag.Learned
	}
	return stats
}
