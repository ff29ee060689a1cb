package activity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dyike/ChartPilotGo/internal/models"
)

func bar(open, high, low float64) models.OHLCBar {
	return models.OHLCBar{Open: open, High: high, Low: low, Close: open}
}

func TestIsActiveInsufficientData(t *testing.T) {
	assert.True(t, IsActive(nil), "no bars must not block analysis")
	assert.True(t, IsActive([]models.OHLCBar{bar(1, 1, 1)}))
	assert.True(t, IsActive([]models.OHLCBar{bar(1, 1, 1), bar(1, 1, 1)}))
}

func TestIsActiveFlatMarket(t *testing.T) {
	bars := []models.OHLCBar{
		bar(2000, 2000, 2000),
		bar(2000, 2000, 2000),
		bar(2000, 2000, 2000),
	}
	assert.False(t, IsActive(bars), "zero range ratio is inactive")
}

func TestIsActiveVolatileMarket(t *testing.T) {
	// Range ratio 10/2000 = 0.005, well above threshold.
	bars := []models.OHLCBar{
		bar(2000, 2010, 2000),
		bar(2000, 2005, 1995),
		bar(2000, 2012, 2002),
	}
	assert.True(t, IsActive(bars))
}

func TestIsActiveThresholdIsStrict(t *testing.T) {
	// Each bar's ratio is exactly the threshold, so the average sits on the
	// boundary. The comparison is > not >=, so this must be inactive.
	open := 100000.0
	span := open * RangeRatioThreshold
	bars := []models.OHLCBar{
		bar(open, open+span, open),
		bar(open, open+span, open),
		bar(open, open+span, open),
	}
	assert.False(t, IsActive(bars))

	// Just above the boundary flips it.
	above := []models.OHLCBar{
		bar(open, open+span*1.01, open),
		bar(open, open+span*1.01, open),
		bar(open, open+span*1.01, open),
	}
	assert.True(t, IsActive(above))
}
