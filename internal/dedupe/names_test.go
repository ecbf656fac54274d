package dedupe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNamesMatch(t *testing.T) {
	tests := []struct {
		name     string
		external string
		managed  string
		want     bool
	}{
		{"identical", "信義停車場", "信義停車場", true},
		{"external inside managed", "信義", "USpace 信義停車場", true},
		{"managed inside external", "台北信義停車場B1", "信義停車場", true},
		{"case folded", "USPACE TAIPEI 101", "uspace taipei 101", true},
		{"shared long token", "Taipei Main Station Lot", "uspace main lot", true},
		{"short tokens ignored", "AB Parking", "AB CD", false},
		{"two-rune CJK token ignored", "信義大樓", "中山 停車", false},
		{"three-rune CJK token counts", "市府轉運站", "信義 市府轉 B2", true},
		{"different names", "Alpha Garage", "Beta Lot", false},
		{"empty external matches anything", "", "信義停車場", true},
		{"sharp s is not expanded", "STRASSE Parking", "Straße", false},
		{"capital sharp s lowers to sharp s", "GROẞE Garage", "große", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NamesMatch(tt.external, tt.managed))
		})
	}
}
