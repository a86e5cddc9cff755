package permission

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

type Permission string

const (
	ManageUsers           Permission = "manage_users"
	ManageAnnouncements   Permission = "manage_announcements"
	ManageWanted          Permission = "manage_wanted"
	ManageReports         Permission = "manage_reports"
	ManagePersonnel       Permission = "manage_personnel"
	ViewAnnouncements     Permission = "view_announcements"
	SubmitInternalReport  Permission = "submit_internal_report"
	ManageInternalReports Permission = "manage_internal_reports"
	ViewOnly              Permission = "view_only"
)

var ErrUnknownPermission = errors.New("unknown permission")

// All lists the catalogue in its canonical order.
var All = []Permission{
	ManageUsers,
	ManageAnnouncements,
	ManageWanted,
	ManageReports,
	ManagePersonnel,
	ViewAnnouncements,
	SubmitInternalReport,
	ManageInternalReports,
	ViewOnly,
}

var descriptions = map[Permission]string{
	ManageUsers:           "إدارة المستخدمين",
	ManageAnnouncements:   "إدارة الإعلانات",
	ManageWanted:          "إدارة المطلوبين",
	ManageReports:         "إدارة البلاغات",
	ManagePersonnel:       "إدارة شؤون الأفراد",
	ViewAnnouncements:     "عرض الإعلانات فقط",
	SubmitInternalReport:  "تقديم بلاغ داخلي",
	ManageInternalReports: "إدارة البلاغات الداخلية",
	ViewOnly:              "عرض فقط",
}

func rank(p Permission) int {
	for i, candidate := range All {
		if candidate == p {
			return i
		}
	}
	return -1
}

func (p Permission) Valid() bool {
	return rank(p) >= 0
}

func (p Permission) Description() string {
	return descriptions[p]
}

func (p Permission) String() string {
	return string(p)
}

func Parse(raw string) (Permission, error) {
	p := Permission(raw)
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPermission, raw)
	}
	return p, nil
}

// Set is a normalized permission set: no duplicates, canonical order.
type Set []Permission

// NewSet builds a Set from known permissions, dropping duplicates.
func NewSet(perms ...Permission) Set {
	seen := make(map[Permission]struct{}, len(perms))
	out := make(Set, 0, len(perms))
	for _, p := range perms {
		if !p.Valid() {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return rank(out[i]) < rank(out[j]) })
	return out
}

// ParseSet rejects the whole input when any tag is unknown.
func ParseSet(raw []string) (Set, error) {
	perms := make([]Permission, 0, len(raw))
	for _, r := range raw {
		p, err := Parse(r)
		if err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return NewSet(perms...), nil
}

// FromStrings keeps known tags and silently drops the rest. Used when
// reading rows that were written before the catalogue changed.
func FromStrings(raw []string) Set {
	perms := make([]Permission, 0, len(raw))
	for _, r := range raw {
		perms = append(perms, Permission(r))
	}
	return NewSet(perms...)
}

func (s Set) Contains(p Permission) bool {
	for _, held := range s {
		if held == p {
			return true
		}
	}
	return false
}

// Allows is the single escalation predicate: manage_users satisfies every check.
func (s Set) Allows(p Permission) bool {
	return s.Contains(p) || s.Contains(ManageUsers)
}

func (s Set) AllowsAny(perms ...Permission) bool {
	for _, p := range perms {
		if s.Allows(p) {
			return true
		}
	}
	return false
}

// CanPerformActions is false for an empty set and for a set whose only
// member is view_only.
func (s Set) CanPerformActions() bool {
	if len(s) == 0 {
		return false
	}
	if s.Contains(ManageUsers) {
		return true
	}
	return !(len(s) == 1 && s[0] == ViewOnly)
}

func (s Set) Strings() []string {
	out := make([]string, len(s))
	for i, p := range s {
		out[i] = string(p)
	}
	return out
}

func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}

func (s *Set) UnmarshalJSON(data []byte) error {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseSet(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
