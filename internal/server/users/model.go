package users

import "time"

type User struct {
	ID           string
	Email        string
	Name         string
	Role         string
	PasswordHash []byte
	Profile      map[string]any
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// View is the JSON shape returned to clients.
func (u *User) View() map[string]any {
	out := make(map[string]any, len(u.Profile)+5)
	for k, v := range u.Profile {
		out[k] = v
	}
	out["id"] = u.ID
	out["email"] = u.Email
	out["full_name"] = u.Name
	out["role"] = u.Role
	out["created_date"] = u.CreatedAt.UTC().Format(time.RFC3339Nano)
	return out
}
