package enums

type InspectionStatus string

const (
	InspectionScheduled  InspectionStatus = "scheduled"
	InspectionInProgress InspectionStatus = "in_progress"
	InspectionPassed     InspectionStatus = "passed"
	InspectionFailed     InspectionStatus = "failed"
)
