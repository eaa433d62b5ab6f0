package queue

const (
	keyWaiting   = "placescout:queue:waiting"
	keyActive    = "placescout:queue:active"    // zset: jobId -> last heartbeat unix
	keyCompleted = "placescout:queue:completed" // list, most recent at the tail
	keyFailed    = "placescout:queue:failed"    // list, most recent at the tail
)

func keyJob(jobID string) string {
	return "placescout:job:" + jobID
}

func keyBatch(batchID string) string {
	return "placescout:batch:" + batchID + ":jobs"
}
