package models

// Metrics are the per-invocation data-quality counters of a reconciliation,
// reported per provider. They feed dashboards and never drive decisions.
type Metrics struct {
	UpstreamTotal     int `yaml:"upstream_total"`
	UpstreamNew       int `yaml:"upstream_new"`
	UpstreamUnchanged int `yaml:"upstream_unchanged"`
	StoredTotal       int `yaml:"stored_total"`

	StoredMatchedByExternalID           int `yaml:"stored_matched_by_external_id"`
	StoredMatchedByAttributesUnique     int `yaml:"stored_matched_by_attributes_unique"`
	StoredMatchedByAttributesOptimistic int `yaml:"stored_matched_by_attributes_optimistic"`

	StoredBookedNotMatched  int `yaml:"stored_booked_not_matched"`
	StoredPendingNotMatched int `yaml:"stored_pending_not_matched"`
	StoredPrimaryKeyUpdated int `yaml:"stored_primary_key_updated"`
	StoredPendingToBooked   int `yaml:"stored_pending_to_booked"`
	StoredBookedToPending   int `yaml:"stored_booked_to_pending"`

	UpstreamQualityMissingExternalIDs   int `yaml:"upstream_quality_missing_external_ids"`
	UpstreamQualityDuplicateExternalIDs int `yaml:"upstream_quality_duplicate_external_ids"`
}

// Counters returns the metrics as a flat name -> value map, names matching the yaml tags.
func (m Metrics) Counters() map[string]int {
	return map[string]int{
		"upstream_total":                          m.UpstreamTotal,
		"upstream_new":                            m.UpstreamNew,
		"upstream_unchanged":                      m.UpstreamUnchanged,
		"stored_total":                            m.StoredTotal,
		"stored_matched_by_external_id":           m.StoredMatchedByExternalID,
		"stored_matched_by_attributes_unique":     m.StoredMatchedByAttributesUnique,
		"stored_matched_by_attributes_optimistic": m.StoredMatchedByAttributesOptimistic,
		"stored_booked_not_matched":               m.StoredBookedNotMatched,
		"stored_pending_not_matched":              m.StoredPendingNotMatched,
		"stored_primary_key_updated":              m.StoredPrimaryKeyUpdated,
		"stored_pending_to_booked":                m.StoredPendingToBooked,
		"stored_booked_to_pending":                m.StoredBookedToPending,
		"upstream_quality_missing_external_ids":   m.UpstreamQualityMissingExternalIDs,
		"upstream_quality_duplicate_external_ids": m.UpstreamQualityDuplicateExternalIDs,
	}
}
