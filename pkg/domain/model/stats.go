package model

import "strconv"

// FormStats summarizes the traffic of a form
type FormStats struct {
	FormID         string `json:"formId"`
	Views          int64  `json:"views"`
	Submissions    int64  `json:"submissions"`
	ConversionRate string `json:"conversionRate"`

	// Keys is the union of answered field ids, in encounter order
	Keys      []string      `json:"keys"`
	Responses []*Submission `json:"responses"`
}

// NewFormStats computes the conversion rate as a percentage with two
// decimals, or "0" when the form has never been viewed.
func NewFormStats(formID string, views, submissions int64) *FormStats {
	rate := "0"
	if views > 0 {
		rate = strconv.FormatFloat(float64(submissions)/float64(views)*100, 'f', 2, 64)
	}
	return &FormStats{
		FormID:         formID,
		Views:          views,
		Submissions:    submissions,
		ConversionRate: rate,
	}
}
