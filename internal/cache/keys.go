package cache

import "fmt"

func ActiveAssignmentsKey() string {
	return "assignments:active"
}

func JobKey(jobID string) string {
	return fmt.Sprintf("job:%s", jobID)
}

func DriverKey(driverID int) string {
	return fmt.Sprintf("driver:%d", driverID)
}
