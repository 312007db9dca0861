package pipeline

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"agri-report-workers/internal/common/errors"
)

// Args are the positional string arguments of one invocation.
type Args []string

// Require fails when fewer than n arguments were supplied. Extra arguments are ignored.
func (a Args) Require(n int) error {
	if len(a) < n {
		return errors.NewArgumentCountMismatchError(n, len(a))
	}
	return nil
}

// String returns the trimmed argument at i, or "" when it is absent.
func (a Args) String(i int) string {
	if i < 0 || i >= len(a) {
		return ""
	}
	return strings.TrimSpace(a[i])
}

// Raw returns the argument at i without trimming.
func (a Args) Raw(i int) string {
	if i < 0 || i >= len(a) {
		return ""
	}
	return a[i]
}

func (a Args) Float(i int, name string) (float64, error) {
	s := a.String(i)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.NewInvalidNumericArgumentError(name, s)
	}
	return v, nil
}

// Int accepts integer or decimal text and truncates toward zero.
func (a Args) Int(i int, name string) (int, error) {
	v, err := a.Int64(i, name)
	return int(v), err
}

func (a Args) Int64(i int, name string) (int64, error) {
	s := a.String(i)
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) >= math.MaxInt64 {
		return 0, errors.NewInvalidNumericArgumentError(name, s)
	}
	return int64(f), nil
}

// DecodeJSONOrDefault decodes raw over a copy of def. Fields missing from raw keep
// their default. Any decode error returns def unchanged with substituted set.
func DecodeJSONOrDefault[T any](raw string, def T) (value T, substituted bool) {
	out := def
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &out); err != nil {
		return def, true
	}
	return out, false
}
