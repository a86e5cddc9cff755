package rank

import (
	"errors"
	"fmt"
)

type Rank string

const (
	Recruit              Rank = "مجند"
	Private              Rank = "جندي"
	PrivateFirstClass    Rank = "جندي أول"
	Corporal             Rank = "عريف"
	Sergeant             Rank = "رقيب"
	StaffSergeant        Rank = "رقيب أول"
	WarrantOfficer       Rank = "مساعد"
	ChiefWarrantOfficer  Rank = "مساعد أول"
	SecondLieutenant     Rank = "ملازم"
	FirstLieutenant      Rank = "ملازم أول"
	Captain              Rank = "نقيب"
	Major                Rank = "رائد"
	LieutenantColonel    Rank = "مقدم"
	Colonel              Rank = "عقيد"
	Brigadier            Rank = "عميد"
	MajorGeneral         Rank = "لواء"
	InternalAffairs      Rank = "IA"
	Default                   = Recruit
)

var ErrUnknownRank = errors.New("unknown rank")

// All lists ranks from lowest to highest; InternalAffairs sits outside the chain.
var All = []Rank{
	Recruit, Private, PrivateFirstClass, Corporal, Sergeant, StaffSergeant,
	WarrantOfficer, ChiefWarrantOfficer, SecondLieutenant, FirstLieutenant,
	Captain, Major, LieutenantColonel, Colonel, Brigadier, MajorGeneral,
	InternalAffairs,
}

var junior = map[Rank]bool{
	Recruit:           true,
	Private:           true,
	PrivateFirstClass: true,
	Corporal:          true,
	Sergeant:          true,
	StaffSergeant:     true,
}

func (r Rank) Valid() bool {
	for _, known := range All {
		if known == r {
			return true
		}
	}
	return false
}

// IsJunior reports ranks that may only view and submit internal reports.
func (r Rank) IsJunior() bool {
	return junior[r]
}

func (r Rank) String() string {
	return string(r)
}

// Parse returns Default for an empty value.
func Parse(raw string) (Rank, error) {
	if raw == "" {
		return Default, nil
	}
	r := Rank(raw)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRank, raw)
	}
	return r, nil
}
