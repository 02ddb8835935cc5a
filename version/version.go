package version

// Set by -ldflags "-X github.com/sagan/sdmeta/version.Version=..." at release build time.
var Version = "dev"
