// Package messaging defines standard subject names for the relay message bus.
package messaging

// Subject constants for the relay message bus.
// Follow the pattern: {domain}.{action}.{resource}
const (
	// SubjectFilesCreated carries one relay message per successfully
	// leased blob-creation notification.
	SubjectFilesCreated = "relay.files.created"

	// SubjectFilesWildcard captures every relay subject, so deployments
	// can point the queue at any subject under relay.files without
	// re-provisioning the stream.
	SubjectFilesWildcard = "relay.files.>"

	// SubjectDLQPrefix is the prefix for dead-lettered notifications.
	// Append the failure reason: relay.dlq.publish_failed
	SubjectDLQPrefix = "relay.dlq"
)

// DLQSubject returns the dead-letter subject for a failure reason.
// Example: relay.dlq.publish_failed
func DLQSubject(reason string) string {
	return SubjectDLQPrefix + "." + reason
}
