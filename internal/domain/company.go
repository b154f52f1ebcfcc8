package domain

type Company struct {
	ID       int64  `json:"id"`
	TenantID string `json:"tenantId"`
	Name     string `json:"name"`
}

// Site belongs to exactly one Company.
type Site struct {
	ID        int64  `json:"id"`
	TenantID  string `json:"tenantId"`
	CompanyID int64  `json:"companyId"`
	Name      string `json:"name"`
	City      string `json:"city,omitempty"`
	Country   string `json:"country,omitempty"`
}
