package mongo

const (
	store    = "audio2text"
	jobTable = "jobs"
)
