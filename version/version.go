package version

import "time"

var Version = "0.1.0"
var BuildDate = "2026-08-23"

func GetVersion() string {
	return Version
}

func GetBuildDate() string {
	return BuildDate
}

func BumpBuildDate() {
	BuildDate = time.Now().Format("2006-01-02")
}
