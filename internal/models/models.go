package models

type User struct {
	TenantID     string `json:"tenant_id" dynamodbav:"tenant_id"`
	Username     string `json:"username" dynamodbav:"username"`
	PasswordHash string `json:"-" dynamodbav:"password"` // bcrypt, same attribute name the table always had
}

// Credentials is the register/login request body.
type Credentials struct {
	TenantID string `json:"tenant_id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// DebarredFirm keys are part of the public response and must not change.
type DebarredFirm struct {
	FirmName       string `json:"Firm Name"`
	AdditionalInfo string `json:"Additional Info"`
	Address        string `json:"Address"`
	Country        string `json:"Country"`
	From           string `json:"From"`
	To             string `json:"To"`
	Grounds        string `json:"Grounds"`
}

type LookupResult struct {
	Hits       int            `json:"hits"`
	Resultados []DebarredFirm `json:"resultados"`
	Warning    string         `json:"warning,omitempty"`
}
