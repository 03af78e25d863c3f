package schema

// AccountTable represents the 'directory.account' table
type AccountTable struct {
	Table        string
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Avatar       string
	CreatedAt    string

	// EmailKey is the unique constraint on Email.
	EmailKey string
}

// Account is the schema definition for directory.account
var Account = AccountTable{
	Table:        "directory.account",
	ID:           "id",
	Name:         "name",
	Email:        "email",
	PasswordHash: "passwordhash",
	Avatar:       "avatar",
	CreatedAt:    "createdat",
	EmailKey:     "account_email_key",
}

// Columns returns all standard column names
func (t AccountTable) Columns() []string {
	return []string{t.ID, t.Name, t.Email, t.PasswordHash, t.Avatar, t.CreatedAt}
}
