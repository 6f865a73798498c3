package lookup

import (
	"strconv"
	"strings"
)

// weather text keyword -> card background class, checked in order.
var weatherBgMap = []struct {
	class    string
	keywords []string
}{
	{"sunny", []string{"晴", "Sunny", "Clear"}},
	{"cloudy", []string{"云", "Cloudy", "阴", "Overcast", "雾", "Fog", "霞", "Haze"}},
	{"rainy", []string{"雨", "Rain", "雷", "Thunder", "阵雨", "Shower"}},
	{"snowy", []string{"雪", "Snow"}},
}

func backgroundClass(weatherText string) string {
	for _, bg := range weatherBgMap {
		for _, kw := range bg.keywords {
			if strings.Contains(weatherText, kw) {
				return bg.class
			}
		}
	}
	return "sunny"
}

// beaufortScale converts a wind speed in km/h to the Beaufort number.
func beaufortScale(kmph string) int {
	speed, err := strconv.ParseFloat(strings.TrimSpace(kmph), 64)
	if err != nil {
		return 0
	}
	thresholds := []float64{1, 6, 12, 20, 29, 39, 50, 62, 75, 89, 103, 117}
	for scale, limit := range thresholds {
		if speed < limit {
			return scale
		}
	}
	return 12
}
