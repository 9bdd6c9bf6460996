package domain

// JobState enumerates the states reported for an image project.
type JobState string

const (
	JobStatePending  JobState = "pending"
	JobStateComplete JobState = "complete"
	JobStateError    JobState = "error"
)

// Terminal reports whether no further transition occurs from this state.
func (s JobState) Terminal() bool {
	return s == JobStateComplete || s == JobStateError
}

// GenerationJob is the handle returned by a successful submission.
type GenerationJob struct {
	ID        string
	FrameCost int
}

// Download is a single downloadable asset of a completed job.
type Download struct {
	URL string
}

// JobStatus is one observation of a job. Label keeps the raw provider status
// text for display while the job is pending.
type JobStatus struct {
	State     JobState
	Label     string
	Downloads []Download
}

// FirstDownload returns the first asset, if any.
func (s JobStatus) FirstDownload() (Download, bool) {
	if len(s.Downloads) == 0 {
		return Download{}, false
	}
	return s.Downloads[0], true
}
