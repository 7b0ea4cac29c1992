package core

// BadgeDisplay is the fixed display metadata for a badge.
type BadgeDisplay struct {
	Icon       string
	ColorClass string
	Background string
}

// badgeCatalog maps known badge IDs to display metadata. The assignment is
// fixed at definition time; unknown IDs resolve to defaultBadgeDisplay.
var badgeCatalog = map[string]BadgeDisplay{
	"first-week":      {Icon: "star", ColorClass: "text-yellow", Background: "bg-yellow"},
	"spending-master": {Icon: "trophy", ColorClass: "text-purple", Background: "bg-purple"},
	"streak-champion": {Icon: "zap", ColorClass: "text-orange", Background: "bg-orange"},
	"budget-keeper":   {Icon: "target", ColorClass: "text-green", Background: "bg-green"},
	"financial-guru":  {Icon: "crown", ColorClass: "text-blue", Background: "bg-blue"},
	"early-bird":      {Icon: "sunrise", ColorClass: "text-pink", Background: "bg-pink"},
	"savvy-saver":     {Icon: "piggy-bank", ColorClass: "text-teal", Background: "bg-teal"},
}

var defaultBadgeDisplay = BadgeDisplay{Icon: "star", ColorClass: "text-gray", Background: "bg-gray"}

// DisplayForBadge resolves a badge ID to its display metadata.
func DisplayForBadge(id string) BadgeDisplay {
	if d, ok := badgeCatalog[id]; ok {
		return d
	}
	return defaultBadgeDisplay
}
