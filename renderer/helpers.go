package renderer

import "strings"

// barWidth is the number of cells of a progress bar.
const barWidth = 10

// progressBar draws progress out of total: "[####------]".
func progressBar(progress, total int) string {
	filled := 0
	if total > 0 {
		filled = min(max(progress*barWidth/total, 0), barWidth)
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", barWidth-filled) + "]"
}
