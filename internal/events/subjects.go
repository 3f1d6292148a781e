package events

const (
	// SubjectProjectChangedAll matches every change event regardless of project.
	SubjectProjectChangedAll = "qfd.project.*.changed"

	StreamName   = "QFD_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

func SubjectProjectChanged(projectID string) string { return "qfd.project." + projectID + ".changed" }

func SubjectAnalysisComputed(projectID string) string {
	return "qfd.analysis." + projectID + ".computed"
}
