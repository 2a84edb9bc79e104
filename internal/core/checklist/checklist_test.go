package checklist

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

// build parses a compact "A0 B1 C1 D0" notation into a list, where the
// trailing digit is the indent and a leading '+' marks the item completed.
func build(layout string) List {
	var list List
	for _, tok := range strings.Fields(layout) {
		it := Item{}
		if strings.HasPrefix(tok, "+") {
			it.Completed = true
			tok = tok[1:]
		}
		it.ID = tok[:len(tok)-1]
		it.Text = "item " + it.ID
		it.Indent = int(tok[len(tok)-1] - '0')
		list = append(list, it)
	}
	return list
}

// shape renders a list back to the compact notation.
func shape(list List) string {
	parts := make([]string, len(list))
	for i, it := range list {
		prefix := ""
		if it.Completed {
			prefix = "+"
		}
		parts[i] = fmt.Sprintf("%s%s%d", prefix, it.ID, it.Indent)
	}
	return strings.Join(parts, " ")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		list    List
		wantErr bool
	}{
		{"empty", nil, false},
		{"flat", build("A0 B0 C0"), false},
		{"nested", build("A0 B1 C2 D3 E1 F0"), false},
		{"starts indented", build("A1 B0"), true},
		{"skips a level", build("A0 B2"), true},
		{"too deep", build("A0 B1 C2 D3 E4"), true},
		{"duplicate id", List{{ID: "a"}, {ID: "a"}}, true},
		{"empty id", List{{ID: ""}}, true},
		{"bad priority", List{{ID: "a", Priority: "urgent"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.list.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformed)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestValidate_ReportsEveryViolation(t *testing.T) {
	list := List{{ID: "a", Indent: 1}, {ID: "a", Indent: 5}}

	err := list.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "item 0 indent 1 has no parent")
	assert.Contains(t, err.Error(), `reuses id "a"`)
	assert.Contains(t, err.Error(), "indent 5 outside")
}

func TestClone_DoesNotAlias(t *testing.T) {
	list := build("A0 B1")
	clone := list.Clone()
	clone[0].Text = "changed"

	assert.Equal(t, "item A", list[0].Text)
	assert.Nil(t, List(nil).Clone())
}

func TestAllCompleted(t *testing.T) {
	assert.False(t, List{}.AllCompleted())
	assert.False(t, build("+A0 B1").AllCompleted())
	assert.True(t, build("+A0 +B1").AllCompleted())
}

func TestChecklistProgress(t *testing.T) {
	c := Checklist{Items: build("+A0 B1 +C0")}
	assert.Equal(t, Stats{Completed: 2, Total: 3}, c.Progress())
}

func TestPriorityIsValid(t *testing.T) {
	for _, p := range []Priority{PriorityNone, PriorityHigh, PriorityMedium, PriorityLow} {
		assert.True(t, p.IsValid(), "priority %q", p)
	}
	assert.False(t, Priority("urgent").IsValid())
}
