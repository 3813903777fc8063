package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedClock() time.Time {
	return time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
}

func TestDurationFromStartDate(t *testing.T) {
	p := DurationParser{Now: fixedClock}

	v := p.Extract("Time in Business: 01/01/2020")

	assert.Equal(t, "48.0 months (4.00 years)", v)
}

func TestDurationYearsAndMonths(t *testing.T) {
	p := DurationParser{Now: fixedClock}

	assert.Equal(t, "42.0 months (3.50 years)", p.Extract("Time in Business: 3 years 6 months"))
	assert.Equal(t, "60.0 months (5.00 years)", p.Extract("time in business: 5 years"))
	assert.Equal(t, "18.0 months (1.50 years)", p.Extract("length of ownership: 18 months"))
}

func TestDurationFoundingYear(t *testing.T) {
	p := DurationParser{Now: fixedClock}

	assert.Equal(t, "60.0 months (5.00 years)", p.Extract("Business established in 2019"))
}

func TestDurationRequiresKeywordGate(t *testing.T) {
	p := DurationParser{Now: fixedClock}

	// Numbers without time-in-business phrasing are too ambiguous.
	assert.Empty(t, p.Extract("Requested amount: 50000 on 01/01/2020"))
}

func TestDurationRejectsFutureDates(t *testing.T) {
	p := DurationParser{Now: fixedClock}

	assert.Empty(t, p.Extract("Time in Business: 01/01/2030"))
}

func TestLengthMonths(t *testing.T) {
	v := LengthMonths("48.0 months (4.00 years)")
	if assert.NotNil(t, v) {
		assert.Equal(t, 48.0, *v)
	}

	v = LengthMonths("5 years")
	if assert.NotNil(t, v) {
		assert.Equal(t, 60.0, *v)
	}

	assert.Nil(t, LengthMonths("no duration here"))
}
