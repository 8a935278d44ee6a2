package usecase

// BuildAssessmentSummaryBlocks is exported for testing
var BuildAssessmentSummaryBlocks = buildAssessmentSummaryBlocks

// BuildFindings is exported for testing
var BuildFindings = buildFindings
