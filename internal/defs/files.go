package defs

// File names used across the project.
const (
	// ConfigFile is the batch/config file read from the working directory.
	ConfigFile = "pbxpatch.yaml"

	// EnvFile is the optional dotenv file read next to ConfigFile.
	EnvFile = ".env"

	// ProjectBundleExt is the extension of an Xcode project bundle.
	ProjectBundleExt = ".xcodeproj"
)

// Environment variables that override config file values.
const (
	EnvProject        = "PBXPATCH_PROJECT"
	EnvTarget         = "PBXPATCH_TARGET"
	EnvOnUnknownGroup = "PBXPATCH_ON_UNKNOWN_GROUP"
	EnvNoColor        = "PBXPATCH_NO_COLOR"
)
