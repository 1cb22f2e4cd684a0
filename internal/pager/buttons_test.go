package pager

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pageNumbers(buttons []Button) []int {
	var pages []int
	for _, b := range NumberedButtons(buttons) {
		pages = append(pages, b.Page)
	}
	return pages
}

func TestComputePageButtons_Window(t *testing.T) {
	tests := []struct {
		name       string
		totalPages int
		current    int
		want       []int
	}{
		{name: "single page", totalPages: 1, current: 0, want: []int{0}},
		{name: "fewer pages than window", totalPages: 3, current: 2, want: []int{0, 1, 2}},
		{name: "start of long range", totalPages: 10, current: 0, want: []int{0, 1, 2, 3, 4}},
		{name: "second page", totalPages: 10, current: 1, want: []int{0, 1, 2, 3, 4}},
		{name: "centered", totalPages: 10, current: 5, want: []int{3, 4, 5, 6, 7}},
		{name: "shifted left at end", totalPages: 10, current: 9, want: []int{5, 6, 7, 8, 9}},
		{name: "one before end", totalPages: 10, current: 8, want: []int{5, 6, 7, 8, 9}},
		{name: "exactly five", totalPages: 5, current: 4, want: []int{0, 1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pageNumbers(ComputePageButtons(tt.totalPages, tt.current)))
		})
	}
}

func TestComputePageButtons_Properties(t *testing.T) {
	for pages := 0; pages <= 12; pages++ {
		for current := 0; current < max(pages, 1); current++ {
			buttons := ComputePageButtons(pages, current)
			require.GreaterOrEqual(t, len(buttons), 2)

			assert.Equal(t, ButtonPrev, buttons[0].Kind)
			assert.Equal(t, ButtonNext, buttons[len(buttons)-1].Kind)

			numbered := NumberedButtons(buttons)
			assert.Len(t, numbered, min(pages, MaxPageButtons), "pages=%d current=%d", pages, current)

			active := 0
			for _, b := range numbered {
				if b.Active {
					active++
				}
				assert.Equal(t, b.Page+1, mustAtoi(t, b.Label))
			}
			assert.LessOrEqual(t, active, 1)
		}
	}
}

func TestComputePageButtons_PrevNext(t *testing.T) {
	first := ComputePageButtons(3, 0)
	assert.True(t, first[0].Disabled)
	assert.False(t, first[len(first)-1].Disabled)
	assert.True(t, first[1].Active)

	last := ComputePageButtons(3, 2)
	assert.False(t, last[0].Disabled)
	assert.Equal(t, 1, last[0].Page)
	assert.True(t, last[len(last)-1].Disabled)

	// Next is only disabled on the exact last page.
	empty := ComputePageButtons(0, 0)
	assert.Len(t, empty, 2)
	assert.True(t, empty[0].Disabled)
	assert.False(t, empty[1].Disabled)
}

func mustAtoi(t *testing.T, s string) int {
	t.Helper()
	n, err := strconv.Atoi(s)
	require.NoError(t, err)
	return n
}
