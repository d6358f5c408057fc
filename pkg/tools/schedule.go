package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ScheduleVisitTool books an appointment slot. Bookings are confirmed
// optimistically; calendar reconciliation happens downstream off the
// emitted events.
type ScheduleVisitTool struct{}

func NewScheduleVisitTool() *ScheduleVisitTool {
	return &ScheduleVisitTool{}
}

func (t *ScheduleVisitTool) Name() string {
	return "schedule_visit"
}

func (t *ScheduleVisitTool) Description() string {
	return `Book a visit. Args: {"date": "YYYY-MM-DD", "time": "HH:MM", "name": "visitor name"}`
}

func (t *ScheduleVisitTool) Execute(_ context.Context, tenantID string, args map[string]interface{}) (string, error) {
	date, _ := args["date"].(string)
	visitTime, _ := args["time"].(string)
	name, _ := args["name"].(string)
	if date == "" || visitTime == "" {
		return "", fmt.Errorf("schedule_visit requires date and time")
	}
	if name == "" {
		name = "guest"
	}

	ref := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("Visit booked for %s on %s at %s. Confirmation reference: %s.",
		name, date, visitTime, strings.ToUpper(ref)), nil
}

// BusinessHoursTool answers opening-hours questions from a static
// per-weekday table.
type BusinessHoursTool struct {
	hours map[string]string
}

func NewBusinessHoursTool() *BusinessHoursTool {
	return &BusinessHoursTool{
		hours: map[string]string{
			"monday":    "9:00 AM - 6:00 PM",
			"tuesday":   "9:00 AM - 6:00 PM",
			"wednesday": "9:00 AM - 6:00 PM",
			"thursday":  "9:00 AM - 6:00 PM",
			"friday":    "9:00 AM - 6:00 PM",
			"saturday":  "10:00 AM - 4:00 PM",
			"sunday":    "closed",
		},
	}
}

func (t *BusinessHoursTool) Name() string {
	return "get_business_hours"
}

func (t *BusinessHoursTool) Description() string {
	return `Get opening hours. Args: {"day": "monday"} or {} for the full week`
}

func (t *BusinessHoursTool) Execute(_ context.Context, tenantID string, args map[string]interface{}) (string, error) {
	day, _ := args["day"].(string)
	if day != "" {
		key := strings.ToLower(day)
		hours, ok := t.hours[key]
		if !ok {
			return "", fmt.Errorf("unknown day: %s", day)
		}
		return fmt.Sprintf("%s: %s", titleCase(key), hours), nil
	}

	order := []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
	var b strings.Builder
	for _, d := range order {
		fmt.Fprintf(&b, "%s: %s\n", titleCase(d), t.hours[d])
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
