package model

import "encoding/json"

// User is the minimal shape of the authenticated user
type User struct {
	Login string `json:"login"`
	ID    int    `json:"id"`
}

// DecodeUser reads a User out of the body returned by the /me endpoint
func DecodeUser(data []byte) (*User, error) {
	user := &User{}
	if err := json.Unmarshal(data, user); err != nil {
		return nil, err
	}
	return user, nil
}
