package aggregate

import (
	"time"

	"github.com/clinicdesk/platform/pkg/common/models"
)

const (
	BucketChild   = "0-18"
	BucketAdult   = "19-40"
	BucketMiddle  = "41-60"
	BucketSenior  = "61+"
	BucketUnknown = "Unknown"
)

var bucketOrder = []string{BucketChild, BucketAdult, BucketMiddle, BucketSenior, BucketUnknown}

// DemographicsHistogram buckets patients by whole-year age at now. Patients
// with absent demographics, an empty date of birth, or a date of birth that
// does not parse land in the Unknown bucket; a bad row never fails the whole
// computation. Bucket upper bounds are inclusive: age 18 counts as 0-18,
// age 40 as 19-40, age 60 as 41-60.
func DemographicsHistogram(patients []models.Patient, now time.Time) models.DemographicsHistogram {
	counts := make(map[string]int, len(bucketOrder))
	for _, patient := range patients {
		counts[bucketFor(patient, now)]++
	}
	buckets := make([]models.AgeBucket, 0, len(bucketOrder))
	for _, label := range bucketOrder {
		buckets = append(buckets, models.AgeBucket{Label: label, Count: counts[label]})
	}
	return models.DemographicsHistogram{Buckets: buckets}
}

func bucketFor(patient models.Patient, now time.Time) string {
	if patient.Demographics == nil || patient.Demographics.DOB == "" {
		return BucketUnknown
	}
	age, ok := ageInYears(patient.Demographics.DOB, now)
	if !ok {
		return BucketUnknown
	}
	switch {
	case age <= 18:
		return BucketChild
	case age <= 40:
		return BucketAdult
	case age <= 60:
		return BucketMiddle
	default:
		return BucketSenior
	}
}

// ageInYears is calendar-aware: subtract birth year from current year, then
// decrement if the birthday has not yet occurred this year.
func ageInYears(dob string, now time.Time) (int, bool) {
	birth, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return 0, false
	}
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age, true
}
