package aggregate

import (
	"testing"
	"time"

	"github.com/clinicdesk/platform/pkg/common/models"
)

func patientBorn(dob string) models.Patient {
	return models.Patient{ID: dob, Demographics: &models.Demographics{DOB: dob}}
}

func TestHistogramBucketBoundaries(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		dob    string
		bucket string
	}{
		{"2026-01-01", BucketChild},  // age 0
		{"2008-03-10", BucketChild},  // turns 18 today
		{"2008-03-09", BucketChild},  // 18
		{"2007-03-10", BucketAdult},  // 19
		{"1986-03-11", BucketAdult},  // 39, birthday tomorrow
		{"1986-03-10", BucketAdult},  // turns 40 today
		{"1985-03-10", BucketMiddle}, // 41
		{"1966-03-10", BucketMiddle}, // turns 60 today
		{"1965-03-10", BucketSenior}, // 61
		{"1940-01-01", BucketSenior},
	}
	for _, tc := range cases {
		got := bucketFor(patientBorn(tc.dob), now)
		if got != tc.bucket {
			t.Fatalf("dob %s: expected bucket %s, got %s", tc.dob, tc.bucket, got)
		}
	}
}

func TestHistogramRoutesBadRowsToUnknown(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	patients := []models.Patient{
		{ID: "no-demographics"},
		{ID: "empty-dob", Demographics: &models.Demographics{DOB: ""}},
		{ID: "garbage-dob", Demographics: &models.Demographics{DOB: "31/12/1980"}},
		patientBorn("1990-01-01"),
	}

	histogram := DemographicsHistogram(patients, now)

	counts := make(map[string]int)
	total := 0
	for _, bucket := range histogram.Buckets {
		counts[bucket.Label] = bucket.Count
		total += bucket.Count
	}
	if counts[BucketUnknown] != 3 {
		t.Fatalf("expected 3 unknown, got %d", counts[BucketUnknown])
	}
	if counts[BucketAdult] != 1 {
		t.Fatalf("expected 1 adult, got %d", counts[BucketAdult])
	}
	if total != len(patients) {
		t.Fatalf("every patient must land in exactly one bucket, got total %d", total)
	}
}

func TestHistogramAlwaysReturnsAllBucketsInOrder(t *testing.T) {
	histogram := DemographicsHistogram(nil, time.Now())
	if len(histogram.Buckets) != 5 {
		t.Fatalf("expected 5 buckets, got %d", len(histogram.Buckets))
	}
	expected := []string{BucketChild, BucketAdult, BucketMiddle, BucketSenior, BucketUnknown}
	for i, bucket := range histogram.Buckets {
		if bucket.Label != expected[i] {
			t.Fatalf("bucket %d: expected %s, got %s", i, expected[i], bucket.Label)
		}
		if bucket.Count != 0 {
			t.Fatalf("empty input must produce zero counts, got %+v", bucket)
		}
	}
}
