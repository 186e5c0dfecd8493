package enroll_test

import (
	"testing"
	"time"

	"github.com/goliatone/go-enroll"
	"github.com/stretchr/testify/assert"
)

func TestIsWithinThresholdPeriod(t *testing.T) {
	tests := []struct {
		name    string
		when    time.Time
		pattern string
		want    bool
		wantErr bool
	}{
		{
			name:    "Recent time within window",
			when:    time.Now().Add(-time.Hour),
			pattern: "24h",
			want:    true,
		},
		{
			name:    "Old time outside window",
			when:    time.Now().Add(-48 * time.Hour),
			pattern: "24h",
			want:    false,
		},
		{
			name:    "Invalid pattern",
			when:    time.Now(),
			pattern: "not-a-duration",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := enroll.IsWithinThresholdPeriod(tt.when, tt.pattern)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsOutsideThresholdPeriod(t *testing.T) {
	got, err := enroll.IsOutsideThresholdPeriod(time.Now().Add(-48*time.Hour), "24h")
	assert.NoError(t, err)
	assert.True(t, got)

	got, err = enroll.IsOutsideThresholdPeriod(time.Now().Add(-time.Minute), "24h")
	assert.NoError(t, err)
	assert.False(t, got)

	_, err = enroll.IsOutsideThresholdPeriod(time.Now(), "bogus")
	assert.Error(t, err)
}
