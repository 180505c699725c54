package songs

// Recorder counts ingestion outcomes for monitoring.
type Recorder interface {
	SongIngested()
	SongDeleted()
	IngestFailed(reason string)
}
