// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package profile manages the public profile attached to each institution account.

A profile is created on the first write and merged on every later one. Its
handle is unique across the directory, and it owns an ordered list of
program entries (courses), newest first.

# Architecture

  - Entities: Profile, Course, SocialLinks, Owner.
  - Repository: Postgres or memory store implementing the upsert algorithm.
  - Cache: Redis read cache for lookups by handle.
  - Service: validation, owner resolution, cache invalidation, cascade delete.
*/
package profile

import (
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/taibuivan/campusdir/internal/platform/validate"
	"github.com/taibuivan/campusdir/pkg/pointer"
	"github.com/taibuivan/campusdir/pkg/slice"
	"github.com/taibuivan/campusdir/pkg/uuid"
)

// Handle length bounds, counted in runes.
const (
	HandleMinLen = 2
	HandleMaxLen = 40
)

// # Domain Entities

// Course is a program entry offered by the institution.
type Course struct {
	ID          string `json:"id"`
	Degree      string `json:"degree"`
	Stream      string `json:"stream"`
	Description string `json:"description,omitempty"`
}

// SocialLinks holds the profile's optional outbound links.
type SocialLinks struct {
	YouTube  string `json:"youtube,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
	Facebook string `json:"facebook,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
}

// Owner is the public view of the account a profile belongs to.
type Owner struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Profile is an institution's public directory entry.
type Profile struct {
	ID        string      `json:"id"`
	AccountID string      `json:"account_id"`
	Handle    string      `json:"handle"`
	Website   string      `json:"website,omitempty"`
	Location  string      `json:"location,omitempty"`
	Schools   []string    `json:"schools"`
	Courses   []Course    `json:"courses"`
	Social    SocialLinks `json:"social"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`

	// Owner is resolved on read and never persisted with the profile.
	Owner *Owner `json:"institution,omitempty"`
}

// # Patch Input

// SocialFields carries the present social links of a write.
type SocialFields struct {
	YouTube  *string
	Twitter  *string
	Facebook *string
	LinkedIn *string
}

// Fields is a profile write. A nil pointer (or nil Schools) means the field
// was not supplied; a pointer to "" clears an optional field.
type Fields struct {
	Handle   *string
	Website  *string
	Location *string
	Schools  []string
	Social   SocialFields
}

// # Behaviour

/*
NewProfile builds the profile created by a first write.

Description: Handle and schools are mandatory at creation. The handle is
re-checked here even though callers validate it, since the store may be
reached without going through the service.
*/
func NewProfile(accountID string, fields Fields, now time.Time) (*Profile, error) {
	v := &validate.Validator{}
	handle := pointer.Val(fields.Handle)
	v.Custom("handle", handle == "", "Profile handle is required")
	v.Custom("handle", handle != "" && !ValidHandle(handle), HandleLengthMessage)
	v.Custom("schools", len(fields.Schools) == 0, "Schools field is required")
	if err := v.Err(); err != nil {
		return nil, err
	}

	profile := &Profile{
		ID:        uuid.New(),
		AccountID: accountID,
		Courses:   []Course{},
		CreatedAt: now,
	}
	profile.Apply(fields, now)
	return profile, nil
}

/*
Apply merges a write into the profile by presence.

Supplied fields overwrite stored ones, absent fields are kept, and the
social links are merged key by key. CreatedAt never changes.
*/
func (p *Profile) Apply(fields Fields, now time.Time) {
	assign(&p.Handle, fields.Handle)
	assign(&p.Website, fields.Website)
	assign(&p.Location, fields.Location)
	if fields.Schools != nil {
		p.Schools = slices.Clone(fields.Schools)
	}

	assign(&p.Social.YouTube, fields.Social.YouTube)
	assign(&p.Social.Twitter, fields.Social.Twitter)
	assign(&p.Social.Facebook, fields.Social.Facebook)
	assign(&p.Social.LinkedIn, fields.Social.LinkedIn)

	p.UpdatedAt = now
}

// PrependCourse inserts c at the head of the course list.
func (p *Profile) PrependCourse(c Course) {
	p.Courses = append([]Course{c}, p.Courses...)
}

// RemoveCourse drops the course with id. An unknown id leaves the list as is.
func (p *Profile) RemoveCourse(id string) bool {
	before := len(p.Courses)
	p.Courses = slice.Filter(p.Courses, func(c Course) bool { return c.ID != id })
	return len(p.Courses) != before
}

// Clone returns a deep copy.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	copied := *p
	copied.Schools = slices.Clone(p.Schools)
	copied.Courses = slices.Clone(p.Courses)
	if p.Owner != nil {
		owner := *p.Owner
		copied.Owner = &owner
	}
	return &copied
}

// # Helpers

// HandleLengthMessage is reported for handles outside the length bounds.
const HandleLengthMessage = "Handle must be between 2 and 40 characters"

// ValidHandle reports whether handle is within the length bounds.
func ValidHandle(handle string) bool {
	n := utf8.RuneCountInString(handle)
	return n >= HandleMinLen && n <= HandleMaxLen
}

// SplitSchools parses a comma-delimited list of school names.
//
// Names are trimmed and NFC-normalized, blanks are dropped, order is kept.
// The result is never nil, so a supplied but blank list stays distinguishable
// from an absent one.
func SplitSchools(raw string) []string {
	schools := []string{}
	for _, part := range strings.Split(raw, ",") {
		name := norm.NFC.String(strings.TrimSpace(part))
		if name != "" {
			schools = append(schools, name)
		}
	}
	return schools
}

func assign(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
