package worker

import (
	"strings"
	"time"
)

// DateFormat is the layout used for registration dates in list responses.
const DateFormat = "Jan 02, 2006"

// MobileWorker is a data-collection user as shown in the mobile worker list.
type MobileWorker struct {
	UserID         string `json:"user_id"`
	Username       string `json:"username"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	DateRegistered string `json:"date_registered"`
	IsActive       bool   `json:"is_active"`
}

// Record is a mobile worker row as stored.
type Record struct {
	ID        string
	Domain    string
	Username  string // full username, "<base>@<domain>.commcarehq.org"
	FirstName string
	LastName  string
	CreatedOn *time.Time
	IsActive  bool
}

// BaseUsername strips the "@domain" suffix from a stored username.
func BaseUsername(username string) string {
	if i := strings.IndexByte(username, '@'); i >= 0 {
		return username[:i]
	}
	return username
}

// ToListItem converts a stored record into the shape sent to list widgets.
func (r Record) ToListItem() MobileWorker {
	item := MobileWorker{
		UserID:    r.ID,
		Username:  BaseUsername(r.Username),
		FirstName: r.FirstName,
		LastName:  r.LastName,
		IsActive:  r.IsActive,
	}
	if r.CreatedOn != nil {
		item.DateRegistered = r.CreatedOn.Format(DateFormat)
	}
	return item
}
