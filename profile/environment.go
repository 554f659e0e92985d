package profile

// Environment identifies a deployment platform that may carry its own
// parameter overrides. The set is fixed: the external bootstrap tool
// detects which one applies and passes it to Store.Resolve.
type Environment string

const (
	// EnvMicrosoftAzure selects the Microsoft Azure override profile.
	EnvMicrosoftAzure Environment = "microsoft-azure"
	// EnvGoogleCloudPlatform selects the Google Cloud Platform override profile.
	EnvGoogleCloudPlatform Environment = "google-cloud-platform"
	// EnvAmazonWebServices selects the Amazon Web Services override profile.
	EnvAmazonWebServices Environment = "amazon-web-services"
	// EnvS390 selects the override profile for IBM z Systems hosts.
	EnvS390 Environment = "s390"
)

// defaultProfileName is the top-level key of the mandatory base profile.
// It is not an Environment: Resolve reaches it by passing the empty string.
const defaultProfileName = "default"

// KnownEnvironments returns the fixed set of recognized environment
// identifiers.
func KnownEnvironments() []Environment {
	return []Environment{
		EnvMicrosoftAzure,
		EnvGoogleCloudPlatform,
		EnvAmazonWebServices,
		EnvS390,
	}
}

// IsKnownEnvironment reports whether name is one of the recognized
// environment identifiers.
func IsKnownEnvironment(name string) bool {
	for _, env := range KnownEnvironments() {
		if string(env) == name {
			return true
		}
	}
	return false
}
