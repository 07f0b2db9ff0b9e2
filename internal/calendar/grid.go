package calendar

import (
	"time"

	"github.com/hndlyt/releaseboard-backend/pkg/db/models"
	"github.com/hndlyt/releaseboard-backend/pkg/types"
)

// SubmissionEntry is a submission placed in a day bucket. IsSubmissionDate
// is true when the bucket's date matched the submission date; false when it
// matched only the expected-answer date.
type SubmissionEntry struct {
	Submission       models.Submission `json:"submission"`
	IsSubmissionDate bool              `json:"is_submission_date"`
}

// DayBucket holds every event landing on one calendar day.
type DayBucket struct {
	Date        types.Date        `json:"date"`
	Releases    []models.Release  `json:"releases"`
	Submissions []SubmissionEntry `json:"submissions"`
}

// Cell is one slot in the 7-column month grid. Day is nil for the
// leading/trailing padding slots that belong to adjacent months.
type Cell struct {
	Day *DayBucket `json:"day"`
}

// Grid is the month view: a fixed 7-column matrix covering every day of
// the month, padded so each week row is complete.
type Grid struct {
	Year  int      `json:"year"`
	Month int      `json:"month"`
	Weeks [][]Cell `json:"weeks"`
}

// BuildGrid computes the month grid for the given year/month from the
// caller's full release and submission lists. The result is deterministic:
// the same inputs always produce the same bucket assignments.
func BuildGrid(year int, month time.Month, releases []models.Release, submissions []models.Submission) Grid {
	first := types.NewDate(year, month, 1)
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	leading := int(first.Weekday())

	totalCells := leading + daysInMonth
	if rem := totalCells % 7; rem != 0 {
		totalCells += 7 - rem
	}

	weeks := make([][]Cell, 0, totalCells/7)
	var week []Cell
	for i := 0; i < totalCells; i++ {
		if i%7 == 0 {
			week = make([]Cell, 0, 7)
		}

		dayNumber := i - leading + 1
		if dayNumber < 1 || dayNumber > daysInMonth {
			week = append(week, Cell{})
		} else {
			bucket := BucketFor(types.NewDate(year, month, dayNumber), releases, submissions)
			week = append(week, Cell{Day: &bucket})
		}

		if i%7 == 6 {
			weeks = append(weeks, week)
		}
	}

	return Grid{
		Year:  year,
		Month: int(month),
		Weeks: weeks,
	}
}

// BucketFor filters the lists down to the events landing on one day.
// A submission whose two dates coincide appears once, tagged as a
// submission-date match.
func BucketFor(date types.Date, releases []models.Release, submissions []models.Submission) DayBucket {
	bucket := DayBucket{
		Date:        date,
		Releases:    []models.Release{},
		Submissions: []SubmissionEntry{},
	}

	for _, release := range releases {
		if release.ReleaseDate.Equal(date) {
			bucket.Releases = append(bucket.Releases, release)
		}
	}

	for _, submission := range submissions {
		switch {
		case submission.SubmissionDate.Equal(date):
			bucket.Submissions = append(bucket.Submissions, SubmissionEntry{
				Submission:       submission,
				IsSubmissionDate: true,
			})
		case submission.ExpectedAnswerDate.Equal(date):
			bucket.Submissions = append(bucket.Submissions, SubmissionEntry{
				Submission:       submission,
				IsSubmissionDate: false,
			})
		}
	}

	return bucket
}
