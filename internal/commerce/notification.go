package commerce

// Notification is a user-visible message produced by a machine operation.
// Success selects the rendering style; a failure-styled notification is not
// necessarily an error (item removal deliberately renders red).
type Notification struct {
	Message string
	Success bool
}
