package constants

// AssetState is the lifecycle state of a file uploaded to a model backend.
type AssetState string

// Stable values (compare against these exact strings).
const (
	AssetPending    AssetState = "PENDING"    // created, not yet submitted
	AssetProcessing AssetState = "PROCESSING" // backend is preparing the file
	AssetActive     AssetState = "ACTIVE"     // ready to reference in a generation call
	AssetFailed     AssetState = "FAILED"     // terminal backend failure
)

// Terminal reports whether the state will never change again.
func (s AssetState) Terminal() bool {
	return s == AssetActive || s == AssetFailed
}
