package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("REELBOX_TEST_HOST", "cinema.local")
	t.Setenv("REELBOX_TEST_EMPTY", "")

	tests := []struct {
		name    string
		in      string
		want    string
		missing []string
	}{
		{
			name: "plain",
			in:   `host = "${REELBOX_TEST_HOST}"`,
			want: `host = "cinema.local"`,
		},
		{
			name:    "unset is left in place",
			in:      "path = ${REELBOX_TEST_UNSET_0C1F}",
			want:    "path = ${REELBOX_TEST_UNSET_0C1F}",
			missing: []string{"REELBOX_TEST_UNSET_0C1F"},
		},
		{
			name: "set but empty is kept",
			in:   "x${REELBOX_TEST_EMPTY}y",
			want: "xy",
		},
		{
			name: "default when unset",
			in:   "${REELBOX_TEST_UNSET_0C1F:-./data}/movies.csv",
			want: "./data/movies.csv",
		},
		{
			name: "default when empty",
			in:   "${REELBOX_TEST_EMPTY:-./data}",
			want: "./data",
		},
		{
			name: "default ignored when set",
			in:   "${REELBOX_TEST_HOST:-localhost}",
			want: "cinema.local",
		},
		{
			name:    "required reports its message",
			in:      "${REELBOX_TEST_EMPTY:? data dir is required }",
			want:    "${REELBOX_TEST_EMPTY:? data dir is required }",
			missing: []string{"REELBOX_TEST_EMPTY: data dir is required"},
		},
		{
			name:    "several references",
			in:      "${REELBOX_TEST_HOST} ${REELBOX_TEST_UNSET_0C1F} ${REELBOX_TEST_EMPTY:-8484}",
			want:    "cinema.local ${REELBOX_TEST_UNSET_0C1F} 8484",
			missing: []string{"REELBOX_TEST_UNSET_0C1F"},
		},
		{
			name: "not a reference",
			in:   "price = $5 {x}",
			want: "price = $5 {x}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, missing := substituteEnvVars(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.missing, missing)
		})
	}
}
