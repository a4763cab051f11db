package state

// FixedDetails is supplied once at call setup and never changes during the call.
type FixedDetails struct {
	ProspectName          string `json:"prospect_name" split_words:"true" validate:"required"`
	ProspectCompanyName   string `json:"prospect_company_name" split_words:"true" validate:"required"`
	ProspectBusinessTitle string `json:"prospect_business_title" split_words:"true" validate:"required"`
	CustomerName          string `json:"customer_name" split_words:"true" validate:"required"`
}

// Merge returns d with every empty field taken from fallback.
func (d FixedDetails) Merge(fallback FixedDetails) FixedDetails {
	if d.ProspectName == "" {
		d.ProspectName = fallback.ProspectName
	}
	if d.ProspectCompanyName == "" {
		d.ProspectCompanyName = fallback.ProspectCompanyName
	}
	if d.ProspectBusinessTitle == "" {
		d.ProspectBusinessTitle = fallback.ProspectBusinessTitle
	}
	if d.CustomerName == "" {
		d.CustomerName = fallback.CustomerName
	}
	return d
}

// Vars exposes the details under the placeholder names used by prompt templates.
func (d FixedDetails) Vars() map[string]any {
	return map[string]any{
		"prospect_name":           d.ProspectName,
		"prospect_company_name":   d.ProspectCompanyName,
		"prospect_business_title": d.ProspectBusinessTitle,
		"customer_name":           d.CustomerName,
	}
}
