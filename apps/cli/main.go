package main

import "github.com/abdul-hamid-achik/pinga/apps/cli/cmd"

// set with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cmd.Execute(version)
}
