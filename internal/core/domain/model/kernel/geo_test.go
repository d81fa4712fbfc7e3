package kernel_test

import (
	"math"
	"testing"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoPoint(t *testing.T) {
	t.Run("should create point with valid coordinates", func(t *testing.T) {
		p, err := kernel.NewGeoPoint(12.9716, 77.5946)

		require.NoError(t, err)
		assert.InDelta(t, 12.9716, p.Lat(), 1e-9)
		assert.InDelta(t, 77.5946, p.Lng(), 1e-9)
		require.NoError(t, p.Validate())
	})

	t.Run("should accept boundary coordinates", func(t *testing.T) {
		for _, c := range [][2]float64{
			{kernel.GeoMinLat, kernel.GeoMinLng},
			{kernel.GeoMaxLat, kernel.GeoMaxLng},
			{0, 0},
		} {
			_, err := kernel.NewGeoPoint(c[0], c[1])
			require.NoError(t, err)
		}
	})

	t.Run("should reject out of range latitude", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(91, 0)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should reject out of range longitude", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(0, -181)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should reject NaN coordinates", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(math.NaN(), 0)
		require.Error(t, err)

		_, err = kernel.NewGeoPoint(0, math.NaN())
		require.Error(t, err)
	})

	t.Run("should collect errors for both coordinates", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(100, 200)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "lat")
		assert.Contains(t, err.Error(), "lng")
	})
}

func TestGeoPoint_Validate(t *testing.T) {
	t.Run("zero value is invalid", func(t *testing.T) {
		var p kernel.GeoPoint

		err := p.Validate()

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestGeoPoint_IsEqual(t *testing.T) {
	t.Run("equal points", func(t *testing.T) {
		p1, _ := kernel.NewGeoPoint(12.9716, 77.5946)
		p2, _ := kernel.NewGeoPoint(12.9716, 77.5946)

		equal, err := p1.IsEqual(p2)

		require.NoError(t, err)
		assert.True(t, equal)
	})

	t.Run("different points", func(t *testing.T) {
		p1, _ := kernel.NewGeoPoint(12.9716, 77.5946)
		p2, _ := kernel.NewGeoPoint(12.98, 77.6)

		equal, err := p1.IsEqual(p2)

		require.NoError(t, err)
		assert.False(t, equal)
	})

	t.Run("comparison with zero value fails", func(t *testing.T) {
		p1, _ := kernel.NewGeoPoint(12.9716, 77.5946)
		var p2 kernel.GeoPoint

		_, err := p1.IsEqual(p2)

		require.Error(t, err)
	})
}

func TestGeoPoint_Interpolate(t *testing.T) {
	start, _ := kernel.NewGeoPoint(12.9716, 77.5946)
	end, _ := kernel.NewGeoPoint(12.98, 77.6)

	t.Run("fraction 0 returns start", func(t *testing.T) {
		p, err := start.Interpolate(end, 0)

		require.NoError(t, err)
		assert.InDelta(t, start.Lat(), p.Lat(), 1e-9)
		assert.InDelta(t, start.Lng(), p.Lng(), 1e-9)
	})

	t.Run("fraction 1 returns end", func(t *testing.T) {
		p, err := start.Interpolate(end, 1)

		require.NoError(t, err)
		assert.InDelta(t, end.Lat(), p.Lat(), 1e-9)
		assert.InDelta(t, end.Lng(), p.Lng(), 1e-9)
	})

	t.Run("midpoint", func(t *testing.T) {
		p, err := start.Interpolate(end, 0.5)

		require.NoError(t, err)
		assert.InDelta(t, (start.Lat()+end.Lat())/2, p.Lat(), 1e-9)
		assert.InDelta(t, (start.Lng()+end.Lng())/2, p.Lng(), 1e-9)
	})

	t.Run("fraction is clamped", func(t *testing.T) {
		p, err := start.Interpolate(end, 1.5)

		require.NoError(t, err)
		assert.InDelta(t, end.Lat(), p.Lat(), 1e-9)

		p, err = start.Interpolate(end, -0.5)

		require.NoError(t, err)
		assert.InDelta(t, start.Lat(), p.Lat(), 1e-9)
	})

	t.Run("unconstructed target fails", func(t *testing.T) {
		var target kernel.GeoPoint

		_, err := start.Interpolate(target, 0.5)

		require.Error(t, err)
	})
}
