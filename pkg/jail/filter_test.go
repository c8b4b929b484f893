// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package jail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleJails() []Jail {
	return []Jail{
		{ID: "web1", JID: "12", State: StateRunning, Kind: KindJail,
			Release: "13.2-RELEASE", IP4: "10.0.0.11",
			Properties: map[string]string{"boot": "on", "priority": "10"}},
		{ID: "web2", JID: "8", State: StateRunning, Kind: KindJail,
			Release: "13.1-RELEASE", IP4: "10.0.0.12",
			Properties: map[string]string{"boot": "off", "priority": "2"}},
		{ID: "db1", State: StateStopped, Kind: KindBasejail,
			Release: "12.4-RELEASE",
			Properties: map[string]string{"boot": "on", "priority": "5"}},
		{ID: "base-tmpl", State: StateStopped, Kind: KindTemplate,
			Release: "13.2-RELEASE"},
	}
}

func TestFilterMatches(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{
			name:   "equality on state",
			filter: Filter{Field: "state", Op: "=", Value: "running"},
			want:   []string{"web1", "web2"},
		},
		{
			name:   "inequality on kind",
			filter: Filter{Field: "kind", Op: "!=", Value: "template"},
			want:   []string{"web1", "web2", "db1"},
		},
		{
			name:   "substring on release",
			filter: Filter{Field: "release", Op: "~", Value: "13."},
			want:   []string{"web1", "web2", "base-tmpl"},
		},
		{
			name:   "in set",
			filter: Filter{Field: "id", Op: "in", Value: "web1, db1"},
			want:   []string{"web1", "db1"},
		},
		{
			name:   "not in set",
			filter: Filter{Field: "id", Op: "nin", Value: "web1,web2"},
			want:   []string{"db1", "base-tmpl"},
		},
		{
			name:   "numeric comparison on jid",
			filter: Filter{Field: "jid", Op: ">", Value: "9"},
			want:   []string{"web1"},
		},
		{
			name:   "property fallback",
			filter: Filter{Field: "boot", Op: "=", Value: "on"},
			want:   []string{"web1", "db1"},
		},
		{
			name:   "unknown op matches nothing",
			filter: Filter{Field: "id", Op: "regex", Value: "web"},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := applyQuery(sampleJails(), QueryConfig{Filters: []Filter{tt.filter}})
			ids := make([]string, 0, len(got))
			for _, j := range got {
				ids = append(ids, j.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestApplyQueryConjunction(t *testing.T) {
	got := applyQuery(sampleJails(), QueryConfig{
		Filters: []Filter{
			{Field: "state", Op: "=", Value: "running"},
			{Field: "release", Op: "=", Value: "13.2-RELEASE"},
		},
	})
	require.Len(t, got, 1)
	assert.Equal(t, "web1", got[0].ID)
}

func TestApplyQuerySort(t *testing.T) {
	got := applyQuery(sampleJails(), QueryConfig{
		Options: QueryOptions{Sort: "id"},
	})
	require.Len(t, got, 4)
	assert.Equal(t, "base-tmpl", got[0].ID)
	assert.Equal(t, "web2", got[3].ID)

	// Numeric sort on a property, descending
	got = applyQuery(sampleJails(), QueryConfig{
		Filters: []Filter{{Field: "kind", Op: "!=", Value: "template"}},
		Options: QueryOptions{Sort: "priority", Order: "desc"},
	})
	require.Len(t, got, 3)
	assert.Equal(t, "web1", got[0].ID) // priority 10 beats 5 beats 2
	assert.Equal(t, "db1", got[1].ID)
	assert.Equal(t, "web2", got[2].ID)
}

func TestApplyQueryPagination(t *testing.T) {
	cfg := QueryConfig{Options: QueryOptions{Sort: "id", Offset: 1, Limit: 2}}
	got := applyQuery(sampleJails(), cfg)
	require.Len(t, got, 2)
	assert.Equal(t, "db1", got[0].ID)
	assert.Equal(t, "web1", got[1].ID)

	// Offset past the end yields empty, not an error
	got = applyQuery(sampleJails(), QueryConfig{Options: QueryOptions{Offset: 100}})
	assert.Empty(t, got)
}
