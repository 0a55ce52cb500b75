package service

import (
	"errors"
	"time"

	"sms-portal/internal/models"
)

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func approvedAfter(a, b *time.Time) bool {
	return a != nil && (b == nil || a.After(*b))
}

func approvalDay(approved *time.Time, fallback time.Time) models.Date {
	if approved != nil {
		return models.NewDate(*approved)
	}
	return models.NewDate(fallback)
}

func societyFromRegistration(r *models.SocietyRegistration) models.Society {
	return models.Society{
		SocietyName:     r.SocietyName,
		Year:            r.Year,
		Faculty:         r.Faculty,
		Status:          models.SocietyActive,
		Aims:            r.Aims,
		AGMDate:         r.AGMDate,
		BankAccount:     r.BankAccount,
		BankName:        r.BankName,
		Officials:       r.Officials,
		SeniorTreasurer: r.SeniorTreasurer,
		RegisteredDate:  approvalDay(r.ApprovedDate, r.SubmittedDate),
	}
}

func societyFromRenewal(r *models.SocietyRenewal) models.Society {
	return models.Society{
		SocietyName:     r.SocietyName,
		Year:            r.RenewalYear,
		Faculty:         r.Faculty,
		Status:          models.SocietyActive,
		Aims:            r.Aims,
		AGMDate:         r.AGMDate,
		Website:         r.Website,
		BankAccount:     r.BankAccount,
		BankName:        r.BankName,
		Officials:       r.Officials,
		SeniorTreasurer: r.SeniorTreasurer,
		RegisteredDate:  approvalDay(r.ApprovedDate, r.SubmittedDate),
	}
}

func keep(prev, next models.Official) models.Official {
	if next.IsZero() {
		return prev
	}
	return next
}

// mergeOfficials fills positions left blank in next from prev.
func mergeOfficials(prev, next models.Officials) models.Officials {
	return models.Officials{
		President:       keep(prev.President, next.President),
		VicePresident:   keep(prev.VicePresident, next.VicePresident),
		Secretary:       keep(prev.Secretary, next.Secretary),
		JointSecretary:  keep(prev.JointSecretary, next.JointSecretary),
		JuniorTreasurer: keep(prev.JuniorTreasurer, next.JuniorTreasurer),
		Editor:          keep(prev.Editor, next.Editor),
	}
}

func orString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// overlay copies src onto dst, keeping dst's identity and any field src
// leaves empty.
func overlay(dst *models.Society, src models.Society) {
	dst.SocietyName = src.SocietyName
	dst.Year = src.Year
	dst.Faculty = orString(src.Faculty, dst.Faculty)
	dst.Status = src.Status
	dst.Aims = orString(src.Aims, dst.Aims)
	if !src.AGMDate.IsZero() {
		dst.AGMDate = src.AGMDate
	}
	dst.Website = orString(src.Website, dst.Website)
	dst.BankAccount = orString(src.BankAccount, dst.BankAccount)
	dst.BankName = orString(src.BankName, dst.BankName)
	dst.Officials = mergeOfficials(dst.Officials, src.Officials)
	if src.SeniorTreasurer.FullName != "" {
		dst.SeniorTreasurer = src.SeniorTreasurer
	}
	if dst.RegisteredDate.IsZero() {
		dst.RegisteredDate = src.RegisteredDate
	}
}

// officialFor returns the office bearer holding a normalized position key.
func officialFor(o models.Officials, position string) (models.Official, bool) {
	switch position {
	case "president":
		return o.President, true
	case "vicepresident":
		return o.VicePresident, true
	case "secretary":
		return o.Secretary, true
	case "jointsecretary":
		return o.JointSecretary, true
	case "juniortreasurer":
		return o.JuniorTreasurer, true
	case "editor":
		return o.Editor, true
	}
	return models.Official{}, false
}
