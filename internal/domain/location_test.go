package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		name     string
		combined string
		want     DocumentLocation
		wantErr  bool
	}{
		{
			name:     "simple filename",
			combined: "report.pdf-3",
			want:     DocumentLocation{File: "report.pdf", Page: 3},
		},
		{
			name:     "filename with hyphens splits on the last one",
			combined: "report v2-final.pdf-12",
			want:     DocumentLocation{File: "report v2-final.pdf", Page: 12},
		},
		{
			name:     "no hyphen at all",
			combined: "report.pdf",
			wantErr:  true,
		},
		{
			name:     "non-numeric page suffix",
			combined: "report.pdf-twelve",
			wantErr:  true,
		},
		{
			name:     "trailing hyphen",
			combined: "report.pdf-",
			wantErr:  true,
		},
		{
			name:     "empty filename",
			combined: "-3",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLocation(tt.combined)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractGroup(t *testing.T) {
	assert.Equal(t, "APV 993 (LINE01-PROF01)", ExtractGroup("What is the rated flow? [APV 993 (LINE01-PROF01)] see datasheet"))
	assert.Equal(t, "", ExtractGroup("no group here"))
	assert.Equal(t, "first", ExtractGroup("[first] and [second]"))
	assert.Equal(t, "", ExtractGroup("empty brackets [] count as empty group"))
}

func TestLabel(t *testing.T) {
	assert.True(t, Relevant.Set())
	assert.True(t, NotRelevant.Set())
	assert.False(t, Unset.Set())

	assert.Equal(t, 1, Relevant.RelevanceFlag())
	assert.Equal(t, 0, NotRelevant.RelevanceFlag())
	assert.Equal(t, 0, Unset.RelevanceFlag())

	assert.Equal(t, Relevant, ParseLabel("Yes"))
	assert.Equal(t, NotRelevant, ParseLabel("No"))
	assert.Equal(t, Unset, ParseLabel("maybe"))
	assert.Equal(t, Unset, ParseLabel(""))
}
