package models

// VotePair is a type-matched candidate pair served for comparison. Nothing
// is recorded when a pair is served; the ledger only sees submitted votes.
type VotePair struct {
	Item1 *ContentItem `json:"item1"`
	Item2 *ContentItem `json:"item2"`
	Type  ContentType  `json:"content_type"`
}

// VoteResult is returned after a vote is recorded.
type VoteResult struct {
	VoteRecorded             bool `json:"vote_recorded"`
	TotalVotes               int  `json:"total_votes"`
	RecommendationsAvailable bool `json:"recommendations_available"`
}
