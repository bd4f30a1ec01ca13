package quester

// Version is the release of this module. Builds may override it with
// -ldflags "-X github.com/aretw0/quester.Version=...".
var Version = "0.1.0"
