// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table        string
	ID           string
	AuthSubject  string
	Email        string
	Name         string
	ProfileImage string
	Credits      string
	CreatedAt    string
	UpdatedAt    string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:        "users.account",
	ID:           "id",
	AuthSubject:  "authsubject",
	Email:        "email",
	Name:         "name",
	ProfileImage: "profileimage",
	Credits:      "credits",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

// Columns returns all column names in scan order
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.AuthSubject, t.Email, t.Name, t.ProfileImage,
		t.Credits, t.CreatedAt, t.UpdatedAt,
	}
}
