package notify

import (
	"strconv"
	"strings"

	"github.com/okian/dinger/internal/domain/model"
)

const alertHeader = "🚨 DINGER ALERT 🚨"

// FormatAlert renders the text message for an admitted home run.
func FormatAlert(a model.Alert) string { //nolint:gocritic // hugeParam: alerts are passed by value
	distance := "N/A"
	if a.Distance != nil {
		distance = strconv.FormatFloat(*a.Distance, 'f', -1, 64)
	}
	rank := a.Rank
	if rank == "" {
		rank = "N/A"
	}

	var b strings.Builder
	b.WriteString(alertHeader)
	b.WriteString("\nPlayer: " + a.Subject + " (" + strconv.Itoa(a.SubjectCount) + ")")
	b.WriteString("\nDistance: " + distance + " ft.")
	b.WriteString("\nTeam: " + a.Group)
	b.WriteString("\nTeam HR Total: " + strconv.Itoa(a.GroupCount))
	b.WriteString("\nCurrent Rank: " + rank)
	return b.String()
}
