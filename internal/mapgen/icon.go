package mapgen

import (
	"fmt"
	"path"

	"github.com/wildcoast/incident-map/internal/dataset"
)

const (
	fatalBadgeColor    = "#d32f2f"
	nonFatalBadgeColor = "#f57c00"

	iconImagePx = 16
	badgePx     = iconImagePx * 3 / 2
)

// iconPath returns the marker image for an incident's species, relative to
// the page.
func iconPath(iconDir string, in *dataset.Incident) string {
	name := "crocodile.png"
	if in.IsShark() {
		name = "shark.png"
	}
	return path.Join(iconDir, name)
}

// badgeHTML renders the circular div-icon badge wrapping the species image.
func badgeHTML(icon string, fatal bool) string {
	color := nonFatalBadgeColor
	if fatal {
		color = fatalBadgeColor
	}
	return fmt.Sprintf(
		`<div style="background-color: %s; border-radius: 50%%; width: %dpx; height: %dpx; display: flex; justify-content: center; align-items: center; border: 2px solid white; box-shadow: 0 0 5px rgba(0,0,0,0.5);"><img src="%s" style="width: %dpx; height: %dpx;"></div>`,
		color, badgePx, badgePx, icon, iconImagePx, iconImagePx,
	)
}
