package pipeline

import (
	"math"
	"testing"

	"agri-report-workers/internal/common/errors"
	"agri-report-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgs_Require(t *testing.T) {
	args := Args{"a", "b", "c"}

	assert.NoError(t, args.Require(3))
	assert.NoError(t, args.Require(2), "extra arguments are ignored")

	err := args.Require(8)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeArgumentCountMismatch))
	assert.Contains(t, err.Error(), "expected 8 arguments, got 3")
}

func TestArgs_Numeric(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantF   float64
		wantI   int
		wantErr bool
	}{
		{"integer", "75", 75, 75, false},
		{"padded", "  12 ", 12, 12, false},
		{"decimal truncates", "7.9", 7.9, 7, false},
		{"negative", "-3.5", -3.5, -3, false},
		{"empty", "", 0, 0, true},
		{"word", "high", 0, 0, true},
		{"nan", "NaN", 0, 0, true},
		{"inf", "Inf", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := Args{tt.raw}

			f, err := args.Float(0, "severity")
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidNumericArgument))
				assert.Contains(t, err.Error(), "severity")
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantF, f)
			}

			i, err := args.Int(0, "severity")
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantI, i)
			}
		})
	}
}

func TestArgs_Int64Range(t *testing.T) {
	v, err := Args{"9223372036854775807"}.Int64(0, "claimAmount")
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), v)

	v, err = Args{"-9223372036854775808"}.Int64(0, "claimAmount")
	require.NoError(t, err)
	assert.Equal(t, int64(math.MinInt64), v)

	for _, raw := range []string{"9223372036854775808.5", "-9223372036854775808.5", "1e19"} {
		_, err := Args{raw}.Int64(0, "claimAmount")
		require.Error(t, err, raw)
		assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidNumericArgument), raw)
	}
}

func TestArgs_StringOutOfRange(t *testing.T) {
	args := Args{" late_blight "}
	assert.Equal(t, "late_blight", args.String(0))
	assert.Equal(t, "", args.String(5))
	assert.Equal(t, "", args.Raw(-1))
}

func TestDecodeJSONOrDefault(t *testing.T) {
	t.Run("partial object keeps defaults", func(t *testing.T) {
		got, substituted := DecodeJSONOrDefault(`{"humidity": 90}`, models.DefaultCommunityWeather())
		assert.False(t, substituted)
		assert.Equal(t, 90.0, got.Humidity)
		assert.Equal(t, 25.0, got.Temperature)
		assert.Equal(t, 10.0, got.WindSpeed)
	})

	t.Run("malformed falls back", func(t *testing.T) {
		got, substituted := DecodeJSONOrDefault(`{humidity:`, models.DefaultCommunityWeather())
		assert.True(t, substituted)
		assert.Equal(t, models.DefaultCommunityWeather(), got)
	})

	t.Run("wrong shape falls back", func(t *testing.T) {
		got, substituted := DecodeJSONOrDefault(`"tomato"`, []string{"rust"})
		assert.True(t, substituted)
		assert.Equal(t, []string{"rust"}, got)
	})

	t.Run("array decodes", func(t *testing.T) {
		got, substituted := DecodeJSONOrDefault(`["potato","tomato"]`, []string{"late_blight"})
		assert.False(t, substituted)
		assert.Equal(t, []string{"potato", "tomato"}, got)
	})

	t.Run("out of range values are accepted", func(t *testing.T) {
		got, _ := DecodeJSONOrDefault(`{"humidity": 140}`, models.DefaultCommunityWeather())
		assert.Equal(t, 140.0, got.Humidity)
	})
}
