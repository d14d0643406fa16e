// Package colors maps driver and team identifiers to presentation colors.
// Every identifier resolves to some color: static tables first, then a
// hash-derived fallback so unknown names stay stable across restarts.
package colors

import (
	"crypto/md5"
	"encoding/hex"
)

// team colors take precedence over per-driver colors
var teamColors = map[string]string{
	// current teams
	"Mercedes":     "#00D2BE",
	"Red Bull":     "#0600EF",
	"Ferrari":      "#DC0000",
	"McLaren":      "#FF8700",
	"Alpine":       "#0090FF",
	"Aston Martin": "#006F62",
	"Williams":     "#005AFF",
	"Haas":         "#FFFFFF",

	// RB (formerly AlphaTauri)
	"RB":          "#2B4562",
	"AlphaTauri":  "#2B4562",
	"Alpha Tauri": "#2B4562",

	// Stake/Sauber (formerly Alfa Romeo)
	"Stake":       "#900000",
	"Stake F1":    "#900000",
	"Kick Sauber": "#900000",
	"Alfa Romeo":  "#900000",
	"Sauber":      "#9B0000",

	// historical teams
	"Racing Point": "#F596C8",
	"Renault":      "#FFF500",
	"Toro Rosso":   "#469BFF",
	"Force India":  "#F596C8",
}

var driverColors = map[string]string{
	// Mercedes
	"RUS": "#00D2BE",
	"ANT": "#00D2BE",

	// Red Bull
	"VER": "#0600EF",
	"PER": "#0600EF",

	// Ferrari
	"LEC": "#DC0000",
	"HAM": "#DC0000",

	// McLaren
	"NOR": "#FF8700",
	"PIA": "#FF8700",

	// Aston Martin
	"ALO": "#006F62",
	"STR": "#006F62",

	// Alpine
	"GAS": "#0090FF",
	"OCO": "#0090FF",
	"DOO": "#0090FF",

	// Racing Bulls
	"TSU": "#2B4562",
	"RIC": "#2B4562",
	"LAW": "#2B4562",
	"HAD": "#2B4562",

	// Williams
	"ALB": "#005AFF",
	"SAI": "#005AFF",
	"SAR": "#005AFF",
	"COA": "#005AFF",

	// Sauber
	"BOT": "#900000",
	"ZHO": "#900000",
	"BOR": "#900000",

	// Haas
	"MAG": "#FFFFFF",
	"HUL": "#FFFFFF",
	"BEA": "#FFFFFF",

	// historical drivers
	"VET": "#006F62",
	"MSC": "#FFFFFF",
	"RAI": "#900000",
	"LAT": "#005AFF",
}

var compoundColors = map[string]string{
	"SOFT":         "#FF0000",
	"MEDIUM":       "#FFFF00",
	"HARD":         "#FFFFFF",
	"INTERMEDIATE": "#008000",
	"WET":          "#0000FF",
}

// ColorFor returns the presentation color for a driver. The team color wins
// when the team is known, then the driver table, then a color derived from an
// md5 hash of the driver code so the result is total and deterministic.
func ColorFor(driver, team string) string {
	if team != "" {
		if c, ok := teamColors[team]; ok {
			return c
		}
	}
	if c, ok := driverColors[driver]; ok {
		return c
	}
	return hashColor(driver)
}

// CompoundColor returns the color for a tyre compound name.
func CompoundColor(compound string) string {
	if c, ok := compoundColors[compound]; ok {
		return c
	}
	return hashColor(compound)
}

func hashColor(s string) string {
	sum := md5.Sum([]byte(s))
	return "#" + hex.EncodeToString(sum[:])[:6]
}
