package cmd

var version = "dev"

func versionLine() string {
	return "pinga " + version + "\n"
}
