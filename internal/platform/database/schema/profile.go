package schema

// ProfileTable represents the 'directory.profile' table
type ProfileTable struct {
	Table     string
	ID        string
	AccountID string
	Handle    string
	Website   string
	Location  string
	Schools   string
	Courses   string
	Social    string
	CreatedAt string
	UpdatedAt string

	// Unique constraints, used to classify 23505 violations.
	AccountIDKey string
	HandleKey    string
}

// Profile is the schema definition for directory.profile
var Profile = ProfileTable{
	Table:        "directory.profile",
	ID:           "id",
	AccountID:    "accountid",
	Handle:       "handle",
	Website:      "website",
	Location:     "location",
	Schools:      "schools",
	Courses:      "courses",
	Social:       "social",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
	AccountIDKey: "profile_accountid_key",
	HandleKey:    "profile_handle_key",
}

// Columns returns all standard column names
func (t ProfileTable) Columns() []string {
	return []string{
		t.ID, t.AccountID, t.Handle, t.Website, t.Location,
		t.Schools, t.Courses, t.Social, t.CreatedAt, t.UpdatedAt,
	}
}
