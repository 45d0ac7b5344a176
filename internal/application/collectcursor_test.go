package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ericfisherdev/greedyreview/internal/domain/model"
)

func TestNewestUpdate(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, newestUpdate(nil).IsZero())
	assert.Equal(t, t0.Add(time.Hour), newestUpdate([]model.PullRequestRef{
		{Number: 1, UpdatedAt: t0},
		{Number: 2, UpdatedAt: t0.Add(time.Hour)},
		{Number: 3},
	}))
}

func TestChangedSince(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	prs := []model.PullRequestRef{
		{Number: 1, UpdatedAt: t0},
		{Number: 2, UpdatedAt: t0.Add(time.Minute)},
		{Number: 3},
	}

	assert.Len(t, changedSince(prs, time.Time{}), 3)

	changed := changedSince(prs, t0)
	numbers := make([]int, len(changed))
	for i, pr := range changed {
		numbers[i] = pr.Number
	}
	assert.Equal(t, []int{2, 3}, numbers)
}
