package slack

// Export internal functions for testing
var (
	BuildSubmissionBlocks = buildSubmissionBlocks
	SummarizeValue        = summarizeValue
	TruncateToMaxBytes    = truncateToMaxBytes
)
