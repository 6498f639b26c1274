package model

// Project is one entry of the workspace project directory.
type Project struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	Archived bool   `json:"archived"`
}

// User is the authenticated account.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	// DefaultWorkspace is the workspace selected in the web app, if any.
	DefaultWorkspace string `json:"defaultWorkspace"`
}

// Workspace is a workspace the user belongs to.
type Workspace struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BillingProfile holds the user's rates for earnings derivation.
type BillingProfile struct {
	Name         string  `json:"name"`
	HourlyRate   float64 `json:"hourly_rate"`
	USDToDOPRate float64 `json:"usd_to_dop_rate"`
}

// Complete reports whether all profile fields are set.
func (p *BillingProfile) Complete() bool {
	return p != nil && p.Name != "" && p.HourlyRate != 0 && p.USDToDOPRate != 0
}
