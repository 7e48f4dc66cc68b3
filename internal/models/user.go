package models

import (
	"strconv"
	"strings"
)

type User struct {
	ID        int64
	FirstName string
	Username  string
}

func (u *User) DisplayName() string {
	var parts []string
	if u.FirstName != "" {
		parts = append(parts, u.FirstName)
	}
	if u.Username != "" {
		parts = append(parts, "@"+u.Username)
	}
	name := strings.TrimSpace(strings.Join(parts, " "))
	if name == "" {
		return strconv.FormatInt(u.ID, 10)
	}
	return name
}
